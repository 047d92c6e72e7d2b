package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/placement-copilot/internal/config"
	"alfredoptarigan/placement-copilot/internal/models"
	"alfredoptarigan/placement-copilot/internal/repositories"
)

func newTestRegistry(t *testing.T, gemini GeminiService) (*WorkspaceRegistry, AuthService) {
	t.Helper()
	auth, _, _ := newTestAuth()
	registry := NewWorkspaceRegistry(WorkspaceDeps{
		Auth:       auth,
		Prefs:      repositories.NewMemoryPreferenceRepository(),
		Gemini:     gemini,
		Extractor:  NewTextExtractor(),
		Dispatcher: &goDispatcher{},
		Analysis:   AnalysisOptions{MaxFileSize: maxTestFileSize, Progress: fastProgress},
		Config:     config.WorkspaceConfig{TTL: time.Minute, SweepInterval: time.Hour},
	})
	t.Cleanup(registry.Stop)
	return registry, auth
}

func TestWorkspaceRegistry_GetCreatesOnceAndRestores(t *testing.T) {
	registry, auth := newTestRegistry(t, &stubGemini{})

	signup, err := auth.SignUp(context.Background(), "other", "user@example.com", "secret1", continueTo)
	require.NoError(t, err)

	ws, err := registry.Get(context.Background(), "client-1", signup.SessionToken)
	require.NoError(t, err)
	session := ws.Session.Snapshot()
	assert.False(t, session.Loading)
	require.NotNil(t, session.Identity)
	assert.Equal(t, signup.Identity.UserID, session.Identity.UserID)

	again, err := registry.Get(context.Background(), "client-1", "")
	require.NoError(t, err)
	assert.Same(t, ws, again)
	assert.Equal(t, 1, registry.Len())
}

func TestWorkspaceRegistry_AnonymousClientIsNotLoading(t *testing.T) {
	registry, _ := newTestRegistry(t, &stubGemini{})

	ws, err := registry.Get(context.Background(), "client-anon", "")
	require.NoError(t, err)

	session := ws.Session.Snapshot()
	assert.False(t, session.Loading)
	assert.Nil(t, session.Identity)
	assert.Equal(t, AccessUnauthenticated, Authorize(session, models.RoleStudent).State)
}

func TestWorkspaceRegistry_AnalysisResetClearsMatch(t *testing.T) {
	gemini := &stubGemini{
		analyze: func(context.Context, models.AnalysisRequest) (*models.AnalysisResponse, error) {
			return fullResponse(80, "Go"), nil
		},
		match: func(context.Context, string, string) (*models.MatchResult, error) {
			return &models.MatchResult{MatchProbability: 70}, nil
		},
	}
	registry, _ := newTestRegistry(t, gemini)
	ws, err := registry.Get(context.Background(), "client-1", "")
	require.NoError(t, err)

	require.NoError(t, ws.Analysis.SetText("resume"))
	require.NoError(t, ws.Analysis.Submit())
	waitForState(t, ws.Analysis, models.AnalysisSuccess)

	require.NoError(t, ws.Match.Select(1))
	waitForMatch(t, ws.Match, models.MatchMatched)

	require.NoError(t, ws.Analysis.Reset())
	view := ws.Match.Snapshot()
	assert.False(t, view.Available)
	assert.Equal(t, models.MatchUnselected, view.State)
	assert.Nil(t, view.Result)
	assert.ErrorIs(t, ws.Match.Select(1), ErrMatchUnavailable)
}

func TestWorkspaceRegistry_SweepEvictsIdle(t *testing.T) {
	registry, _ := newTestRegistry(t, &stubGemini{})
	now := time.Now()
	registry.now = func() time.Time { return now }

	_, err := registry.Get(context.Background(), "stale", "")
	require.NoError(t, err)
	_, err = registry.Get(context.Background(), "fresh", "")
	require.NoError(t, err)

	now = now.Add(50 * time.Second)
	_, err = registry.Get(context.Background(), "fresh", "")
	require.NoError(t, err)

	now = now.Add(20 * time.Second)
	assert.Equal(t, 1, registry.Sweep())
	assert.Equal(t, 1, registry.Len())

	_, err = registry.Get(context.Background(), "fresh", "")
	require.NoError(t, err)
	assert.Equal(t, 1, registry.Len())
}

func TestWorkspaceRegistry_UserChangeDiscardsAnalysis(t *testing.T) {
	release := make(chan struct{})
	gemini := &stubGemini{
		analyze: func(context.Context, models.AnalysisRequest) (*models.AnalysisResponse, error) {
			<-release
			return fullResponse(80, "Go"), nil
		},
	}
	registry, auth := newTestRegistry(t, gemini)
	ctx := context.Background()

	ws, err := registry.Get(ctx, "client-1", "")
	require.NoError(t, err)
	_, err = auth.SignUp(ctx, "client-1", "first@example.com", "secret1", continueTo)
	require.NoError(t, err)

	require.NoError(t, ws.Analysis.SetText("first resume"))
	require.NoError(t, ws.Analysis.Submit())

	auth.SignOut("client-1")
	assert.Equal(t, models.AnalysisIdle, ws.Analysis.Snapshot().State)

	close(release)
	assert.Never(t, func() bool {
		return ws.Analysis.Snapshot().State != models.AnalysisIdle
	}, 100*time.Millisecond, 5*time.Millisecond)

	_, _, err = auth.SignIn(ctx, "client-1", "first@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, ws.Analysis.SetText("first resume"))
	require.NoError(t, ws.Analysis.Submit())
	waitForState(t, ws.Analysis, models.AnalysisSuccess)

	// Signing in again as the same user keeps the result.
	_, _, err = auth.SignIn(ctx, "client-1", "first@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, models.AnalysisSuccess, ws.Analysis.Snapshot().State)

	_, err = auth.SignUp(ctx, "client-1", "second@example.com", "secret1", continueTo)
	require.NoError(t, err)
	view := ws.Analysis.Snapshot()
	assert.Equal(t, models.AnalysisIdle, view.State)
	assert.Nil(t, view.Result)
}
