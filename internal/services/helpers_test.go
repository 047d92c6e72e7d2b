package services

import (
	"context"
	"sync"
	"time"

	"alfredoptarigan/placement-copilot/internal/config"
	"alfredoptarigan/placement-copilot/internal/models"
)

var fastProgress = config.ProgressConfig{
	TickInterval:  time.Millisecond,
	StageInterval: 5 * time.Millisecond,
	Ceiling:       95,
	Pause:         time.Millisecond,
}

// goDispatcher runs every task on its own goroutine and records when each
// one has returned.
type goDispatcher struct {
	mu   sync.Mutex
	done []chan struct{}
}

func (d *goDispatcher) Dispatch(task Task) error {
	ch := make(chan struct{})
	d.mu.Lock()
	d.done = append(d.done, ch)
	d.mu.Unlock()

	go func() {
		defer close(ch)
		task(context.Background())
	}()
	return nil
}

// finished returns the completion channel of the i-th dispatched task.
func (d *goDispatcher) finished(i int) <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.done[i]
}

type failingDispatcher struct{ err error }

func (d failingDispatcher) Dispatch(Task) error { return d.err }

type stubGemini struct {
	mu           sync.Mutex
	analyzeCalls int
	matchCalls   int
	lastAnalyze  models.AnalysisRequest
	analyze      func(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResponse, error)
	match        func(ctx context.Context, resumeText, jobDescription string) (*models.MatchResult, error)
}

func (s *stubGemini) AnalyzeResume(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResponse, error) {
	s.mu.Lock()
	s.analyzeCalls++
	s.lastAnalyze = req
	fn := s.analyze
	s.mu.Unlock()
	return fn(ctx, req)
}

func (s *stubGemini) MatchJob(ctx context.Context, resumeText, jobDescription string) (*models.MatchResult, error) {
	s.mu.Lock()
	s.matchCalls++
	fn := s.match
	s.mu.Unlock()
	return fn(ctx, resumeText, jobDescription)
}

func (s *stubGemini) calls() (analyze, match int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyzeCalls, s.matchCalls
}

func (s *stubGemini) lastRequest() models.AnalysisRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAnalyze
}

func score(v float64) *float64 { return &v }

func fullResponse(fit float64, skills ...string) *models.AnalysisResponse {
	resp := &models.AnalysisResponse{
		Summary:        "Experienced engineer",
		Skills:         skills,
		SuggestedRoles: []string{"Tech Lead"},
		LearningResources: []models.LearningResource{
			{Title: "System Design", URL: "https://example.com/sd", Platform: "Coursera"},
		},
		ExtractedText: "extracted resume text",
	}
	resp.Scores = &struct {
		Fit          *float64 `json:"fit"`
		Authenticity *float64 `json:"authenticity"`
		Clarity      *float64 `json:"clarity"`
		Impact       *float64 `json:"impact"`
		Relevance    *float64 `json:"relevance"`
	}{
		Fit:          score(fit),
		Authenticity: score(80),
		Clarity:      score(70),
		Impact:       score(60),
		Relevance:    score(90),
	}
	return resp
}

// fakeProvider lets a test deliver identity notifications by hand.
type fakeProvider struct {
	mu  sync.Mutex
	fns map[int]func(*models.Identity)
	n   int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{fns: make(map[int]func(*models.Identity))}
}

func (p *fakeProvider) Subscribe(_ string, fn func(*models.Identity)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.n++
	id := p.n
	p.fns[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.fns, id)
	}
}

func (p *fakeProvider) notify(identity *models.Identity) {
	p.mu.Lock()
	fns := make([]func(*models.Identity), 0, len(p.fns))
	for _, fn := range p.fns {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(identity)
	}
}

func (p *fakeProvider) subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.fns)
}
