package services

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"alfredoptarigan/placement-copilot/internal/config"
	"alfredoptarigan/placement-copilot/internal/models"
	"alfredoptarigan/placement-copilot/internal/repositories"
)

type captureMailer struct {
	mu    sync.Mutex
	links []string
	err   error
}

func (m *captureMailer) SendVerification(_ context.Context, _ string, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.links = append(m.links, link)
	return nil
}

func (m *captureMailer) lastToken(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.links)

	u, err := url.Parse(m.links[len(m.links)-1])
	require.NoError(t, err)
	return u.Query().Get("token")
}

var testAuthConfig = config.AuthConfig{
	JWTSecret:         "test-secret-test-secret-test-secret",
	TokenTTL:          time.Hour,
	VerificationTTL:   time.Hour,
	BcryptCost:        bcrypt.MinCost,
	PublicURL:         "http://localhost:3000",
	AuthorizedDomains: []string{"localhost"},
}

const continueTo = "http://localhost:3000/signin"

func newTestAuth() (AuthService, *captureMailer, repositories.UserRepository) {
	users := repositories.NewMemoryUserRepository()
	mailer := &captureMailer{}
	auth := NewAuthService(users, NewTokenService(testAuthConfig.JWTSecret), mailer, testAuthConfig)
	return auth, mailer, users
}

type recorder struct {
	mu  sync.Mutex
	got []*models.Identity
}

func (r *recorder) record(identity *models.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, identity)
}

func (r *recorder) last() *models.Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.got) == 0 {
		return nil
	}
	return r.got[len(r.got)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

func TestAuthService_SignUpSignsInUnverified(t *testing.T) {
	auth, mailer, _ := newTestAuth()
	rec := &recorder{}
	unsubscribe := auth.Subscribe("client-1", rec.record)
	defer unsubscribe()

	result, err := auth.SignUp(context.Background(), "client-1", "New.User@Example.com", "secret1", continueTo)
	require.NoError(t, err)
	require.NoError(t, result.VerificationErr)
	assert.NotEmpty(t, result.SessionToken)
	assert.Equal(t, "new.user@example.com", result.Identity.Email)
	assert.Equal(t, "New.User", result.Identity.DisplayName)
	assert.False(t, result.Identity.EmailVerified)

	require.Equal(t, 1, rec.count())
	assert.Equal(t, result.Identity.UserID, rec.last().UserID)

	require.Len(t, mailer.links, 1)
	assert.Contains(t, mailer.links[0], "http://localhost:3000/auth/verify?token=")
	assert.Contains(t, mailer.links[0], url.QueryEscape(continueTo))
}

func TestAuthService_SignUpDuplicateEmail(t *testing.T) {
	auth, _, _ := newTestAuth()
	_, err := auth.SignUp(context.Background(), "c1", "dup@example.com", "secret1", continueTo)
	require.NoError(t, err)

	_, err = auth.SignUp(context.Background(), "c2", "DUP@example.com", "secret1", continueTo)
	require.Error(t, err)
	assert.Equal(t, CodeEmailInUse, AuthErrorCode(err))
	assert.Equal(t, "User already exists. Please sign in", SignUpMessage(err))
}

func TestAuthService_SignUpWithUnauthorizedDomainStillCreatesAccount(t *testing.T) {
	auth, mailer, _ := newTestAuth()

	result, err := auth.SignUp(context.Background(), "c1", "a@example.com", "secret1", "https://evil.example.org/signin")
	require.NoError(t, err)
	require.Error(t, result.VerificationErr)
	assert.Equal(t, CodeUnauthorizedContinueURI, AuthErrorCode(result.VerificationErr))
	assert.Empty(t, mailer.links)

	msg := SignUpVerificationMessage(result.VerificationErr, "https://evil.example.org")
	assert.Contains(t, msg, "https://evil.example.org")
	assert.Contains(t, msg, "Domain not authorized")
}

func TestAuthService_SignIn(t *testing.T) {
	auth, _, _ := newTestAuth()
	_, err := auth.SignUp(context.Background(), "c1", "user@example.com", "secret1", continueTo)
	require.NoError(t, err)

	identity, token, err := auth.SignIn(context.Background(), "c2", "user@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "user@example.com", identity.Email)
	assert.Equal(t, identity, auth.CurrentIdentity("c2"))

	_, _, err = auth.SignIn(context.Background(), "c2", "user@example.com", "wrong")
	assert.Equal(t, CodeWrongPassword, AuthErrorCode(err))
	assert.Equal(t, "Email or password is incorrect", SignInMessage(err))

	_, _, err = auth.SignIn(context.Background(), "c2", "nobody@example.com", "secret1")
	assert.Equal(t, CodeUserNotFound, AuthErrorCode(err))
	assert.Equal(t, "Email or password is incorrect", SignInMessage(err))
}

func TestAuthService_SignOutNotifiesNil(t *testing.T) {
	auth, _, _ := newTestAuth()
	rec := &recorder{}
	defer auth.Subscribe("c1", rec.record)()

	_, err := auth.SignUp(context.Background(), "c1", "user@example.com", "secret1", continueTo)
	require.NoError(t, err)

	auth.SignOut("c1")
	assert.Equal(t, 2, rec.count())
	assert.Nil(t, rec.last())
	assert.Nil(t, auth.CurrentIdentity("c1"))
}

func TestAuthService_VerifyEmailRefreshesSignedInClients(t *testing.T) {
	auth, mailer, users := newTestAuth()
	rec := &recorder{}
	defer auth.Subscribe("c1", rec.record)()

	result, err := auth.SignUp(context.Background(), "c1", "user@example.com", "secret1", continueTo)
	require.NoError(t, err)

	identity, err := auth.VerifyEmail(context.Background(), mailer.lastToken(t))
	require.NoError(t, err)
	assert.True(t, identity.EmailVerified)
	assert.True(t, rec.last().EmailVerified)

	stored, err := users.FindByID(result.Identity.UserID)
	require.NoError(t, err)
	assert.True(t, stored.EmailVerified)

	_, err = auth.VerifyEmail(context.Background(), result.SessionToken)
	assert.Equal(t, CodeInvalidActionCode, AuthErrorCode(err))
}

func TestAuthService_ResendVerification(t *testing.T) {
	auth, mailer, _ := newTestAuth()

	err := auth.SendVerification(context.Background(), "c1", continueTo)
	assert.Equal(t, CodeNoCurrentUser, AuthErrorCode(err))

	_, err = auth.SignUp(context.Background(), "c1", "user@example.com", "secret1", continueTo)
	require.NoError(t, err)
	require.NoError(t, auth.SendVerification(context.Background(), "c1", continueTo))
	assert.Len(t, mailer.links, 2)

	err = auth.SendVerification(context.Background(), "c1", "http://attacker.test/signin")
	assert.Contains(t, VerificationMessage(err, "http://attacker.test"), "http://attacker.test")

	mailer.err = errors.New("smtp down")
	err = auth.SendVerification(context.Background(), "c1", continueTo)
	assert.Equal(t, "Failed to resend verification email. Please try again later.", VerificationMessage(err, "http://localhost:3000"))
}

func TestAuthService_Restore(t *testing.T) {
	auth, _, _ := newTestAuth()
	result, err := auth.SignUp(context.Background(), "old-client", "user@example.com", "secret1", continueTo)
	require.NoError(t, err)

	rec := &recorder{}
	defer auth.Subscribe("new-client", rec.record)()

	auth.Restore(context.Background(), "new-client", result.SessionToken)
	require.Equal(t, 1, rec.count())
	require.NotNil(t, rec.last())
	assert.Equal(t, result.Identity.UserID, rec.last().UserID)

	auth.Restore(context.Background(), "new-client", "not-a-token")
	assert.Equal(t, 2, rec.count())
	assert.Nil(t, rec.last())

	auth.Restore(context.Background(), "new-client", "")
	assert.Equal(t, 3, rec.count())
	assert.Nil(t, rec.last())
}

func TestAuthMessages(t *testing.T) {
	assert.Equal(t, "Passwords do not match", SignUpMessage(ErrPasswordMismatch))
	assert.Equal(t, "An error occurred during sign up. Please try again.", SignUpMessage(errors.New("boom")))
	assert.Equal(t, "Email or password is incorrect", SignInMessage(newAuthError(CodeInvalidCredential, nil)))
	assert.Equal(t, "An error occurred during sign in. Please try again.", SignInMessage(newAuthError(CodeInternal, nil)))
	assert.Empty(t, SignUpVerificationMessage(newAuthError(CodeInternal, nil), "http://x"))
	assert.Equal(t, "", AuthErrorCode(errors.New("plain")))
}

func TestTokenService(t *testing.T) {
	tokens := NewTokenService("secret-one")
	user := verifiedIdentity().UserID

	token, err := tokens.Issue(user, PurposeSession, time.Minute)
	require.NoError(t, err)

	claims, err := tokens.Validate(token, PurposeSession)
	require.NoError(t, err)
	assert.Equal(t, user, claims.UserID)

	_, err = tokens.Validate(token, PurposeVerification)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenService("secret-two").Validate(token, PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := tokens.Issue(user, PurposeSession, -time.Minute)
	require.NoError(t, err)
	_, err = tokens.Validate(expired, PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(0)
	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.True(t, h.Verify("secret1", hash))
	assert.False(t, h.Verify("secret2", hash))
}
