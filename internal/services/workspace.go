package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"alfredoptarigan/placement-copilot/internal/config"
	"alfredoptarigan/placement-copilot/internal/models"
	"alfredoptarigan/placement-copilot/internal/repositories"
)

// Workspace is the live state of one browser instance.
type Workspace struct {
	ClientID string
	Session  *SessionStore
	Analysis *AnalysisWorkflow
	Match    *JobMatchWorkflow

	unwatch  func()
	mu       sync.Mutex
	lastSeen time.Time
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince(now time.Time) time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return now.Sub(w.lastSeen)
}

func (w *Workspace) close() {
	if w.unwatch != nil {
		w.unwatch()
	}
	w.Analysis.Close()
	w.Match.Close()
	w.Session.Close()
}

type WorkspaceDeps struct {
	Auth       AuthService
	Prefs      repositories.PreferenceRepository
	Gemini     GeminiService
	Extractor  TextExtractor
	Dispatcher Dispatcher
	Analysis   AnalysisOptions
	Config     config.WorkspaceConfig
}

// WorkspaceRegistry creates workspaces on first sight of a client and
// evicts the ones that have been idle longer than the configured TTL.
type WorkspaceRegistry struct {
	deps       WorkspaceDeps
	mu         sync.Mutex
	workspaces map[string]*Workspace
	stopChan   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
	now        func() time.Time
}

func NewWorkspaceRegistry(deps WorkspaceDeps) *WorkspaceRegistry {
	return &WorkspaceRegistry{
		deps:       deps,
		workspaces: make(map[string]*Workspace),
		stopChan:   make(chan struct{}),
		now:        time.Now,
	}
}

// Get returns the client's workspace, building it when there is none. A new
// workspace restores its identity from sessionToken before it is returned.
func (r *WorkspaceRegistry) Get(ctx context.Context, clientID, sessionToken string) (*Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if ws, ok := r.workspaces[clientID]; ok {
		ws.touch(now)
		return ws, nil
	}

	session, err := NewSessionStore(clientID, r.deps.Prefs, r.deps.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}

	analysis := NewAnalysisWorkflow(
		r.deps.Gemini,
		r.deps.Extractor,
		r.deps.Dispatcher,
		session.Identity,
		r.deps.Analysis,
	)
	match := NewJobMatchWorkflow(r.deps.Gemini, r.deps.Dispatcher, analysis.ResumeText, r.deps.Analysis.Timeout)
	analysis.OnReset(match.Reset)

	ws := &Workspace{
		ClientID: clientID,
		Session:  session,
		Analysis: analysis,
		Match:    match,
		lastSeen: now,
	}
	ws.unwatch = r.deps.Auth.Subscribe(clientID, discardOnUserChange(analysis))
	r.workspaces[clientID] = ws

	r.deps.Auth.Restore(ctx, clientID, sessionToken)
	log.Printf("🆕 Workspace created for client %s\n", clientID)
	return ws, nil
}

// discardOnUserChange drops the analysis, and with it the job match, once
// the user it belongs to signs out or another user signs in.
func discardOnUserChange(analysis *AnalysisWorkflow) func(*models.Identity) {
	var (
		mu      sync.Mutex
		current *models.Identity
	)
	return func(identity *models.Identity) {
		mu.Lock()
		prev := current
		current = identity
		mu.Unlock()

		if prev == nil {
			return
		}
		if identity == nil || identity.UserID != prev.UserID {
			analysis.Discard()
		}
	}
}

// Len reports how many workspaces are live.
func (r *WorkspaceRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// Start launches the eviction loop.
func (r *WorkspaceRegistry) Start(ctx context.Context) {
	interval := r.deps.Config.SweepInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-r.stopChan:
				return
			case <-ticker.C:
				r.Sweep()
			}
		}
	}()
}

// Sweep closes and forgets every workspace idle for longer than the TTL.
func (r *WorkspaceRegistry) Sweep() int {
	ttl := r.deps.Config.TTL
	if ttl <= 0 {
		return 0
	}

	now := r.now()
	var expired []*Workspace

	r.mu.Lock()
	for id, ws := range r.workspaces {
		if ws.idleSince(now) > ttl {
			expired = append(expired, ws)
			delete(r.workspaces, id)
		}
	}
	r.mu.Unlock()

	for _, ws := range expired {
		ws.close()
	}
	if len(expired) > 0 {
		log.Printf("🧹 Evicted %d idle workspaces\n", len(expired))
	}
	return len(expired)
}

// Stop ends the eviction loop and closes every workspace.
func (r *WorkspaceRegistry) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopChan)
		r.wg.Wait()

		r.mu.Lock()
		all := make([]*Workspace, 0, len(r.workspaces))
		for id, ws := range r.workspaces {
			all = append(all, ws)
			delete(r.workspaces, id)
		}
		r.mu.Unlock()

		for _, ws := range all {
			ws.close()
		}
		log.Println("✅ Workspaces closed")
	})
}
