package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"alfredoptarigan/placement-copilot/internal/catalog"
	"alfredoptarigan/placement-copilot/internal/models"
)

var (
	ErrMatchUnavailable = errors.New("analyze a resume before matching jobs")
	ErrJobNotFound      = errors.New("job posting not found")
)

type MatchView struct {
	Available bool                `json:"available"`
	State     models.MatchState   `json:"state"`
	Job       *models.JobPosting  `json:"job,omitempty"`
	Result    *models.MatchResult `json:"result,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// JobMatchWorkflow compares the analysed résumé against one selected
// posting at a time. Each selection gets a new generation and a response
// is only applied when its generation is still current, so a late answer
// for an earlier selection never replaces the later one.
type JobMatchWorkflow struct {
	mu         sync.Mutex
	gemini     GeminiService
	dispatcher Dispatcher
	resumeText func() string
	timeout    time.Duration

	state      models.MatchState
	selected   *models.JobPosting
	result     *models.MatchResult
	errMsg     string
	generation uint64
	closed     bool
}

func NewJobMatchWorkflow(gemini GeminiService, dispatcher Dispatcher, resumeText func() string, timeout time.Duration) *JobMatchWorkflow {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &JobMatchWorkflow{
		gemini:     gemini,
		dispatcher: dispatcher,
		resumeText: resumeText,
		timeout:    timeout,
		state:      models.MatchUnselected,
	}
}

// Select clears any previous result and requests a match for jobID.
// Selecting the current posting again retries it.
//
// The résumé text is read under the lock: an analysis reset that lands
// before it makes the match unavailable, one that lands after it resets
// this selection.
func (m *JobMatchWorkflow) Select(jobID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrWorkerStopped
	}
	text := m.resumeText()
	if text == "" {
		return ErrMatchUnavailable
	}
	job, ok := catalog.JobByID(jobID)
	if !ok {
		return ErrJobNotFound
	}
	m.generation++
	gen := m.generation
	m.selected = &job
	m.result = nil
	m.errMsg = ""
	m.state = models.MatchMatching

	err := m.dispatcher.Dispatch(func(workerCtx context.Context) {
		ctx, cancel := context.WithTimeout(workerCtx, m.timeout)
		defer cancel()

		result, err := m.gemini.MatchJob(ctx, text, job.Description)
		m.resolve(gen, job.ID, result, err)
	})
	if err != nil {
		m.state = models.MatchFailed
		m.errMsg = "Failed to match job. Please try again."
		return fmt.Errorf("failed to dispatch job match: %w", err)
	}

	log.Printf("🎯 Matching resume against job %d (generation %d)\n", job.ID, gen)
	return nil
}

func (m *JobMatchWorkflow) resolve(gen uint64, jobID int, result *models.MatchResult, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || gen != m.generation {
		log.Printf("⚠️  Discarding stale match for job %d (generation %d, current %d)\n", jobID, gen, m.generation)
		return
	}

	if err != nil {
		m.state = models.MatchFailed
		m.errMsg = matchErrorMessage(err)
		log.Printf("❌ Job match for job %d failed: %v\n", jobID, err)
		return
	}

	if result.MissingSkills == nil {
		result.MissingSkills = []string{}
	}
	m.result = result
	m.state = models.MatchMatched
	log.Printf("✅ Job match for job %d completed\n", jobID)
}

// Reset forgets the selection. Any response still in flight is discarded.
func (m *JobMatchWorkflow) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation++
	m.selected = nil
	m.result = nil
	m.errMsg = ""
	m.state = models.MatchUnselected
}

func (m *JobMatchWorkflow) DismissError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errMsg = ""
}

func (m *JobMatchWorkflow) Snapshot() MatchView {
	available := m.resumeText() != ""

	m.mu.Lock()
	defer m.mu.Unlock()

	view := MatchView{
		Available: available,
		State:     m.state,
		Error:     m.errMsg,
	}
	if m.selected != nil {
		job := *m.selected
		view.Job = &job
	}
	if m.result != nil {
		result := *m.result
		result.MissingSkills = append([]string{}, m.result.MissingSkills...)
		view.Result = &result
	}
	return view
}

func (m *JobMatchWorkflow) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.generation++
}

func matchErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingAPIKey):
		return "GEMINI_API_KEY is not set"
	case errors.Is(err, context.DeadlineExceeded):
		return "Job matching took too long. Please try again."
	default:
		return "Failed to match job. Please try again."
	}
}
