package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"alfredoptarigan/placement-copilot/internal/config"
	"alfredoptarigan/placement-copilot/internal/models"
	"alfredoptarigan/placement-copilot/internal/repositories"
	"alfredoptarigan/placement-copilot/internal/services"
)

type stubGemini struct {
	mu       sync.Mutex
	analyses []models.AnalysisRequest
	response *models.AnalysisResponse
	match    *models.MatchResult
	// hold, when set, keeps every analysis call open until it is closed.
	hold chan struct{}
}

func (s *stubGemini) AnalyzeResume(_ context.Context, req models.AnalysisRequest) (*models.AnalysisResponse, error) {
	s.mu.Lock()
	s.analyses = append(s.analyses, req)
	hold := s.hold
	s.mu.Unlock()

	if hold != nil {
		<-hold
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.response == nil {
		return nil, services.ErrInvalidAIResponse
	}
	resp := *s.response
	return &resp, nil
}

func (s *stubGemini) analysisCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.analyses)
}

func (s *stubGemini) MatchJob(context.Context, string, string) (*models.MatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.match == nil {
		return nil, services.ErrInvalidAIResponse
	}
	result := *s.match
	return &result, nil
}

// holdAnalyses keeps analysis calls open until release is called. Release
// also runs at cleanup so the worker can drain.
func holdAnalyses(t *testing.T, g *stubGemini) (release func()) {
	t.Helper()
	ch := make(chan struct{})
	g.mu.Lock()
	g.hold = ch
	g.mu.Unlock()

	var once sync.Once
	release = func() { once.Do(func() { close(ch) }) }
	t.Cleanup(release)
	return release
}

type captureMailer struct {
	mu    sync.Mutex
	links []string
}

func (m *captureMailer) SendVerification(_ context.Context, _ string, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links = append(m.links, link)
	return nil
}

func (m *captureMailer) lastLink() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.links) == 0 {
		return ""
	}
	return m.links[len(m.links)-1]
}

type stores struct {
	users repositories.UserRepository
	prefs repositories.PreferenceRepository
}

func newStores() stores {
	return stores{
		users: repositories.NewMemoryUserRepository(),
		prefs: repositories.NewMemoryPreferenceRepository(),
	}
}

type testEnv struct {
	app    *fiber.App
	stores stores
	gemini *stubGemini
	mailer *captureMailer
}

const testMaxFileSize = 64

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Port: "0", Env: "test"},
		Gemini:  config.GeminiConfig{Timeout: 5 * time.Second},
		Storage: config.StorageConfig{MaxFileSize: testMaxFileSize},
		Worker:  config.WorkerConfig{Concurrency: 2, QueueSize: 10},
		Auth: config.AuthConfig{
			JWTSecret:         "handler-test-secret-handler-test-secret",
			TokenTTL:          time.Hour,
			VerificationTTL:   time.Hour,
			BcryptCost:        bcrypt.MinCost,
			PublicURL:         "http://example.com",
			AuthorizedDomains: []string{"example.com"},
		},
		Progress: config.ProgressConfig{
			TickInterval:  time.Millisecond,
			StageInterval: 5 * time.Millisecond,
			Ceiling:       95,
			Pause:         time.Millisecond,
		},
		Workspace: config.WorkspaceConfig{TTL: time.Hour, SweepInterval: time.Hour},
	}
}

// newTestEnv wires the app the way main does, on top of st.
func newTestEnv(t *testing.T, st stores) *testEnv {
	t.Helper()
	cfg := testConfig()

	gemini := &stubGemini{}
	mailer := &captureMailer{}
	auth := services.NewAuthService(st.users, services.NewTokenService(cfg.Auth.JWTSecret), mailer, cfg.Auth)

	worker := services.NewWorker(cfg.Worker.Concurrency, cfg.Worker.QueueSize)
	worker.Start(context.Background())

	registry := services.NewWorkspaceRegistry(services.WorkspaceDeps{
		Auth:       auth,
		Prefs:      st.prefs,
		Gemini:     gemini,
		Extractor:  services.NewTextExtractor(),
		Dispatcher: worker,
		Analysis: services.AnalysisOptions{
			MaxFileSize: cfg.Storage.MaxFileSize,
			Timeout:     cfg.Gemini.Timeout,
			Progress:    cfg.Progress,
		},
		Config: cfg.Workspace,
	})

	t.Cleanup(func() {
		registry.Stop()
		worker.Stop()
	})

	app := NewApp(Dependencies{
		Config:   cfg,
		Registry: registry,
		Auth:     auth,
		Intake:   services.NewFileIntake(cfg.Storage.MaxFileSize),
	})
	return &testEnv{app: app, stores: st, gemini: gemini, mailer: mailer}
}

func (e *testEnv) seedUser(t *testing.T, email, password string, verified bool) {
	t.Helper()
	hash, err := services.NewPasswordHasher(bcrypt.MinCost).Hash(password)
	require.NoError(t, err)
	require.NoError(t, e.stores.users.Create(&models.User{
		Email:         email,
		DisplayName:   "Test User",
		PasswordHash:  hash,
		EmailVerified: verified,
	}))
}

// browser keeps cookies between requests like a real browser instance.
type browser struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

func (e *testEnv) browser(t *testing.T) *browser {
	return &browser{t: t, app: e.app, cookies: make(map[string]string)}
}

func (b *browser) do(method, path string, body io.Reader, contentType string) *http.Response {
	b.t.Helper()

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for name, value := range b.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)

	for _, c := range resp.Cookies() {
		if c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c.Value
	}
	return resp
}

func (b *browser) get(path string) *http.Response {
	return b.do(http.MethodGet, path, nil, "")
}

func (b *browser) delete(path string) *http.Response {
	return b.do(http.MethodDelete, path, nil, "")
}

func (b *browser) postJSON(path string, payload interface{}) *http.Response {
	b.t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(b.t, err)
		body = bytes.NewReader(raw)
	}
	return b.do(http.MethodPost, path, body, fiber.MIMEApplicationJSON)
}

func (b *browser) postFile(path, field, name string, content []byte) *http.Response {
	b.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, name)
	require.NoError(b.t, err)
	_, err = part.Write(content)
	require.NoError(b.t, err)
	require.NoError(b.t, w.Close())
	return b.do(http.MethodPost, path, &buf, w.FormDataContentType())
}

func (b *browser) signIn(email, password string, role models.Role) *http.Response {
	return b.postJSON("/api/v1/auth/signin", map[string]string{
		"email":    email,
		"password": password,
		"role":     string(role),
	})
}

func (b *browser) analysis() services.AnalysisView {
	b.t.Helper()
	var view services.AnalysisView
	decode(b.t, b.get("/api/v1/student/analysis"), &view)
	return view
}

func decode(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func tokenFrom(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("token")
}
