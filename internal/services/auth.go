package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"

	"alfredoptarigan/placement-copilot/internal/config"
	"alfredoptarigan/placement-copilot/internal/models"
	"alfredoptarigan/placement-copilot/internal/repositories"
)

// IdentityProvider announces identity changes for a browser instance.
// Subscribers get nil when the instance is signed out.
type IdentityProvider interface {
	Subscribe(clientID string, fn func(*models.Identity)) (unsubscribe func())
}

type SignUpResult struct {
	Identity     *models.Identity
	SessionToken string
	// VerificationErr is set when the account exists but the verification
	// email could not be sent.
	VerificationErr error
}

type AuthService interface {
	IdentityProvider
	SignUp(ctx context.Context, clientID, email, password, continueURL string) (*SignUpResult, error)
	SignIn(ctx context.Context, clientID, email, password string) (*models.Identity, string, error)
	SignOut(clientID string)
	SendVerification(ctx context.Context, clientID, continueURL string) error
	VerifyEmail(ctx context.Context, token string) (*models.Identity, error)
	Restore(ctx context.Context, clientID, sessionToken string)
	CurrentIdentity(clientID string) *models.Identity
}

type authService struct {
	users   repositories.UserRepository
	hasher  *PasswordHasher
	tokens  *TokenService
	mailer  Mailer
	cfg     config.AuthConfig
	mu      sync.Mutex
	current map[string]*models.Identity
	subs    map[string]map[uint64]func(*models.Identity)
	nextSub uint64
}

func NewAuthService(
	users repositories.UserRepository,
	tokens *TokenService,
	mailer Mailer,
	cfg config.AuthConfig,
) AuthService {
	return &authService{
		users:   users,
		hasher:  NewPasswordHasher(cfg.BcryptCost),
		tokens:  tokens,
		mailer:  mailer,
		cfg:     cfg,
		current: make(map[string]*models.Identity),
		subs:    make(map[string]map[uint64]func(*models.Identity)),
	}
}

// Subscribe implements IdentityProvider.
func (a *authService) Subscribe(clientID string, fn func(*models.Identity)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.nextSub++
	id := a.nextSub
	if a.subs[clientID] == nil {
		a.subs[clientID] = make(map[uint64]func(*models.Identity))
	}
	a.subs[clientID][id] = fn

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.subs[clientID], id)
		if len(a.subs[clientID]) == 0 {
			delete(a.subs, clientID)
			delete(a.current, clientID)
		}
	}
}

// SignUp creates the account, signs this client in with the still
// unverified identity and sends the verification email.
func (a *authService) SignUp(ctx context.Context, clientID, email, password, continueURL string) (*SignUpResult, error) {
	hash, err := a.hasher.Hash(password)
	if err != nil {
		return nil, newAuthError(CodeInternal, err)
	}

	user := &models.User{
		Email:        email,
		DisplayName:  displayNameFromEmail(email),
		PasswordHash: hash,
	}
	if err := a.users.Create(user); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return nil, newAuthError(CodeEmailInUse, err)
		}
		return nil, newAuthError(CodeInternal, err)
	}
	log.Printf("👤 User %s signed up\n", user.ID)

	identity := models.IdentityFromUser(user)
	token, err := a.tokens.Issue(user.ID, PurposeSession, a.cfg.TokenTTL)
	if err != nil {
		return nil, newAuthError(CodeInternal, err)
	}
	a.setCurrent(clientID, identity)

	result := &SignUpResult{Identity: identity, SessionToken: token}
	if err := a.sendVerification(ctx, identity, continueURL); err != nil {
		log.Printf("⚠️  Verification email for %s not sent: %v\n", user.ID, err)
		result.VerificationErr = err
	}
	return result, nil
}

// SignIn implements AuthService. An unverified identity is still signed in;
// callers decide what it may see.
func (a *authService) SignIn(ctx context.Context, clientID, email, password string) (*models.Identity, string, error) {
	user, err := a.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, "", newAuthError(CodeUserNotFound, err)
		}
		return nil, "", newAuthError(CodeInternal, err)
	}
	if !a.hasher.Verify(password, user.PasswordHash) {
		return nil, "", newAuthError(CodeWrongPassword, nil)
	}

	token, err := a.tokens.Issue(user.ID, PurposeSession, a.cfg.TokenTTL)
	if err != nil {
		return nil, "", newAuthError(CodeInternal, err)
	}

	identity := models.IdentityFromUser(user)
	a.setCurrent(clientID, identity)
	log.Printf("🔑 User %s signed in\n", user.ID)
	return identity, token, nil
}

func (a *authService) SignOut(clientID string) {
	a.setCurrent(clientID, nil)
}

func (a *authService) SendVerification(ctx context.Context, clientID, continueURL string) error {
	identity := a.CurrentIdentity(clientID)
	if identity == nil {
		return newAuthError(CodeNoCurrentUser, nil)
	}
	return a.sendVerification(ctx, identity, continueURL)
}

func (a *authService) sendVerification(ctx context.Context, identity *models.Identity, continueURL string) error {
	if err := a.checkContinueURL(continueURL); err != nil {
		return err
	}

	token, err := a.tokens.Issue(identity.UserID, PurposeVerification, a.cfg.VerificationTTL)
	if err != nil {
		return newAuthError(CodeInternal, err)
	}

	link := fmt.Sprintf("%s/auth/verify?token=%s&continue=%s",
		strings.TrimRight(a.cfg.PublicURL, "/"),
		url.QueryEscape(token),
		url.QueryEscape(continueURL),
	)
	if err := a.mailer.SendVerification(ctx, identity.Email, link); err != nil {
		return newAuthError(CodeInternal, err)
	}
	return nil
}

// checkContinueURL only accepts redirects back to an authorized domain.
func (a *authService) checkContinueURL(continueURL string) error {
	parsed, err := url.Parse(continueURL)
	if err != nil || parsed.Hostname() == "" {
		return newAuthError(CodeUnauthorizedContinueURI, fmt.Errorf("invalid continue url %q", continueURL))
	}
	host := strings.ToLower(parsed.Hostname())
	for _, domain := range a.cfg.AuthorizedDomains {
		if strings.EqualFold(domain, host) {
			return nil
		}
	}
	return newAuthError(CodeUnauthorizedContinueURI, fmt.Errorf("domain %s is not authorized", host))
}

// VerifyEmail marks the account verified and refreshes every client
// currently signed in as that user.
func (a *authService) VerifyEmail(ctx context.Context, token string) (*models.Identity, error) {
	claims, err := a.tokens.Validate(token, PurposeVerification)
	if err != nil {
		return nil, newAuthError(CodeInvalidActionCode, err)
	}
	if err := a.users.MarkVerified(claims.UserID); err != nil {
		return nil, newAuthError(CodeInvalidActionCode, err)
	}
	user, err := a.users.FindByID(claims.UserID)
	if err != nil {
		return nil, newAuthError(CodeInternal, err)
	}
	identity := models.IdentityFromUser(user)
	log.Printf("✅ User %s verified their email\n", user.ID)

	a.mu.Lock()
	var clients []string
	for clientID, cur := range a.current {
		if cur != nil && cur.UserID == identity.UserID {
			clients = append(clients, clientID)
		}
	}
	a.mu.Unlock()

	for _, clientID := range clients {
		a.setCurrent(clientID, identity)
	}
	return identity, nil
}

// Restore resolves a session token presented by a client that has no live
// state yet. It always notifies, so subscribers leave loading.
func (a *authService) Restore(_ context.Context, clientID, sessionToken string) {
	if sessionToken == "" {
		a.setCurrent(clientID, nil)
		return
	}

	claims, err := a.tokens.Validate(sessionToken, PurposeSession)
	if err != nil {
		log.Printf("⚠️  Discarding session token for client %s: %v\n", clientID, err)
		a.setCurrent(clientID, nil)
		return
	}
	user, err := a.users.FindByID(claims.UserID)
	if err != nil {
		a.setCurrent(clientID, nil)
		return
	}
	a.setCurrent(clientID, models.IdentityFromUser(user))
}

func (a *authService) CurrentIdentity(clientID string) *models.Identity {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current[clientID]
}

func (a *authService) setCurrent(clientID string, identity *models.Identity) {
	a.mu.Lock()
	if identity == nil {
		delete(a.current, clientID)
	} else {
		a.current[clientID] = identity
	}
	listeners := make([]func(*models.Identity), 0, len(a.subs[clientID]))
	for _, fn := range a.subs[clientID] {
		listeners = append(listeners, fn)
	}
	a.mu.Unlock()

	for _, fn := range listeners {
		fn(identity)
	}
}

func displayNameFromEmail(email string) string {
	local := strings.TrimSpace(email)
	if i := strings.Index(local, "@"); i > 0 {
		local = local[:i]
	}
	return local
}
