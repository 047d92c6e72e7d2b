package models

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type SignUpRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	Role            Role   `json:"role" validate:"omitempty,oneof=student hr"`
}

func (r *SignUpRequest) Validate() error {
	return validate.Struct(r)
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     Role   `json:"role" validate:"required,oneof=student hr"`
}

func (r *SignInRequest) Validate() error {
	return validate.Struct(r)
}

type PasteTextRequest struct {
	Text string `json:"text"`
}

type AuthResponse struct {
	Identity            *Identity `json:"identity,omitempty"`
	Role                Role      `json:"role,omitempty"`
	Redirect            string    `json:"redirect,omitempty"`
	VerificationPending bool      `json:"verification_pending"`
	Message             string    `json:"message,omitempty"`
}
