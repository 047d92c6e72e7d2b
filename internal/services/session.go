package services

import (
	"fmt"
	"log"
	"sync"

	"alfredoptarigan/placement-copilot/internal/models"
	"alfredoptarigan/placement-copilot/internal/repositories"
)

const rolePreferenceKey = "userRole"

// SessionStore holds one browser instance's identity and chosen role. The
// identity provider's notifications are its only source of identity.
type SessionStore struct {
	mu          sync.RWMutex
	clientID    string
	prefs       repositories.PreferenceRepository
	identity    *models.Identity
	role        models.Role
	loading     bool
	unsubscribe func()
}

// NewSessionStore seeds the role from storage and subscribes to provider.
// The store stays loading until the provider's first notification.
func NewSessionStore(clientID string, prefs repositories.PreferenceRepository, provider IdentityProvider) (*SessionStore, error) {
	if prefs == nil || provider == nil {
		return nil, fmt.Errorf("session store for %s needs a preference repository and an identity provider", clientID)
	}

	s := &SessionStore{
		clientID: clientID,
		prefs:    prefs,
		loading:  true,
	}

	saved, ok, err := prefs.Get(clientID, rolePreferenceKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read saved role: %w", err)
	}
	if ok && models.Role(saved).Valid() {
		s.role = models.Role(saved)
	}

	s.unsubscribe = provider.Subscribe(clientID, s.onIdentityChanged)
	return s, nil
}

func (s *SessionStore) onIdentityChanged(identity *models.Identity) {
	s.mu.Lock()
	s.identity = identity
	s.loading = false
	clearRole := identity == nil && s.role != models.RoleNone
	s.mu.Unlock()

	if clearRole {
		if err := s.SetRole(models.RoleNone); err != nil {
			log.Printf("⚠️  Failed to clear role for client %s: %v\n", s.clientID, err)
		}
	}
}

// SetRole stores a non-empty role and clears storage for an empty one.
func (s *SessionStore) SetRole(role models.Role) error {
	if role != models.RoleNone && !role.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.role = role
	if role == models.RoleNone {
		return s.prefs.Delete(s.clientID, rolePreferenceKey)
	}
	return s.prefs.Set(s.clientID, rolePreferenceKey, string(role))
}

func (s *SessionStore) Snapshot() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return models.Session{
		Identity: s.identity,
		Role:     s.role,
		Loading:  s.loading,
	}
}

func (s *SessionStore) Identity() *models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// TrustedRole returns the role only once loading is over and an identity is
// present. A role read from storage is not trusted before that.
func (s *SessionStore) TrustedRole() models.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.loading || s.identity == nil {
		return models.RoleNone
	}
	return s.role
}

func (s *SessionStore) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}
