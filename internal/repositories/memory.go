package repositories

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/placement-copilot/internal/models"
)

type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]models.User
}

// NewMemoryUserRepository returns a process-local UserRepository, used when
// no database is configured.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[uuid.UUID]models.User)}
}

func (r *memoryUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.Email = normalizeEmail(user.Email)
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return ErrEmailTaken
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) FindByID(id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (r *memoryUserRepository) FindByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = normalizeEmail(email)
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *memoryUserRepository) MarkVerified(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	user.EmailVerified = true
	user.UpdatedAt = time.Now()
	r.users[id] = user
	return nil
}

type memoryPreferenceRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryPreferenceRepository() PreferenceRepository {
	return &memoryPreferenceRepository{values: make(map[string]string)}
}

func (r *memoryPreferenceRepository) Get(clientID, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[clientID+"\x00"+key]
	return v, ok, nil
}

func (r *memoryPreferenceRepository) Set(clientID, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[clientID+"\x00"+key] = value
	return nil
}

func (r *memoryPreferenceRepository) Delete(clientID, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, clientID+"\x00"+key)
	return nil
}
