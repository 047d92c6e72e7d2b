package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleNone Role = ""
	// RoleStudent is the candidate side of the product.
	RoleStudent Role = "student"
	RoleHR      Role = "hr"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleHR
}

// User is the identity provider's account record.
type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email         string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	DisplayName   string    `gorm:"type:text" json:"display_name"`
	PasswordHash  string    `gorm:"type:text;not null" json:"-"`
	EmailVerified bool      `gorm:"not null;default:false" json:"email_verified"`
	CreatedAt     time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt     time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// ClientPreference is a key/value entry scoped to one browser instance.
type ClientPreference struct {
	ClientID  string    `gorm:"type:text;primaryKey" json:"client_id"`
	Key       string    `gorm:"type:text;primaryKey" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (ClientPreference) TableName() string {
	return "client_preferences"
}

// Identity is what the identity provider announces to its subscribers.
type Identity struct {
	UserID        uuid.UUID `json:"user_id"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"display_name,omitempty"`
	EmailVerified bool      `json:"email_verified"`
}

func IdentityFromUser(u *User) *Identity {
	return &Identity{
		UserID:        u.ID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		EmailVerified: u.EmailVerified,
	}
}

type Session struct {
	Identity *Identity `json:"identity"`
	Role     Role      `json:"role"`
	Loading  bool      `json:"loading"`
}
