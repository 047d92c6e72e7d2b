package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"alfredoptarigan/placement-copilot/internal/config"
	"alfredoptarigan/placement-copilot/internal/models"
)

var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrEmptyFile        = errors.New("file is empty")
	ErrNoInput          = errors.New("no resume provided")
	ErrAnalysisInFlight = errors.New("analysis already in progress")
	ErrAnalysisComplete = errors.New("reset the current analysis first")
)

const defaultCandidateName = "Candidate"

type AnalysisOptions struct {
	MaxFileSize int64
	Timeout     time.Duration
	Progress    config.ProgressConfig
}

// AnalysisView is everything the candidate dashboard renders.
type AnalysisView struct {
	State     models.AnalysisState   `json:"state"`
	CanSubmit bool                   `json:"can_submit"`
	FileName  string                 `json:"file_name,omitempty"`
	FileSize  int64                  `json:"file_size,omitempty"`
	Text      string                 `json:"text,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Progress  *ProgressSnapshot      `json:"progress,omitempty"`
	Result    *models.AnalysisResult `json:"result,omitempty"`
	Dashboard *DashboardView         `json:"dashboard,omitempty"`
}

// AnalysisWorkflow takes a résumé from input to scored result. Only one
// analysis can be in flight; its mutex serializes every transition.
type AnalysisWorkflow struct {
	mu         sync.Mutex
	gemini     GeminiService
	extractor  TextExtractor
	dispatcher Dispatcher
	identity   func() *models.Identity
	opts       AnalysisOptions
	onReset    func()

	state   models.AnalysisState
	file    *models.ResumeFile
	text    string
	errMsg  string
	result  *models.AnalysisResult
	tracker *ProgressTracker
	cancel  context.CancelFunc
	seq     uint64
	closed  bool
}

func NewAnalysisWorkflow(
	gemini GeminiService,
	extractor TextExtractor,
	dispatcher Dispatcher,
	identity func() *models.Identity,
	opts AnalysisOptions,
) *AnalysisWorkflow {
	if identity == nil {
		identity = func() *models.Identity { return nil }
	}
	return &AnalysisWorkflow{
		gemini:     gemini,
		extractor:  extractor,
		dispatcher: dispatcher,
		identity:   identity,
		opts:       opts,
		state:      models.AnalysisIdle,
	}
}

// OnReset registers fn to run after every successful Reset.
func (w *AnalysisWorkflow) OnReset(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReset = fn
}

// SelectFile replaces any pasted text with file. An oversized file is
// refused and leaves the input as it was.
func (w *AnalysisWorkflow) SelectFile(file *models.ResumeFile) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkEditableLocked(); err != nil {
		return err
	}
	if file == nil {
		return ErrNoInput
	}
	if w.opts.MaxFileSize > 0 && file.Size > w.opts.MaxFileSize {
		w.errMsg = FileTooLargeMessage(w.opts.MaxFileSize)
		return ErrFileTooLarge
	}
	if len(file.Data) == 0 {
		w.errMsg = "The selected file is empty."
		return ErrEmptyFile
	}

	w.file = file
	w.text = ""
	w.errMsg = ""
	w.refreshInputStateLocked()
	return nil
}

// SetText replaces any selected file with non-blank text. Blank text only
// clears the pasted text.
func (w *AnalysisWorkflow) SetText(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkEditableLocked(); err != nil {
		return err
	}
	if strings.TrimSpace(text) != "" {
		w.text = text
		w.file = nil
	} else {
		w.text = ""
	}
	w.errMsg = ""
	w.refreshInputStateLocked()
	return nil
}

// Submit starts the analysis and returns without waiting for it.
func (w *AnalysisWorkflow) Submit() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWorkerStopped
	}
	if w.state == models.AnalysisSubmitting {
		return ErrAnalysisInFlight
	}
	if w.state == models.AnalysisSuccess {
		return ErrAnalysisComplete
	}
	if w.file == nil && w.text == "" {
		return ErrNoInput
	}

	file, text := w.file, w.text
	owner := w.identity()
	tracker := NewProgressTracker(w.opts.Progress, LoadingStages)
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout())
	w.seq++
	seq := w.seq

	err := w.dispatcher.Dispatch(func(workerCtx context.Context) {
		stop := context.AfterFunc(workerCtx, cancel)
		defer stop()
		w.run(ctx, seq, tracker, owner, file, text)
	})
	if err != nil {
		cancel()
		w.errMsg = "Analysis could not be started. Please try again."
		return fmt.Errorf("failed to dispatch analysis: %w", err)
	}

	tracker.Start()
	w.tracker = tracker
	w.cancel = cancel
	w.state = models.AnalysisSubmitting
	w.errMsg = ""
	w.result = nil
	log.Printf("🔄 Analysis #%d submitted\n", seq)
	return nil
}

func (w *AnalysisWorkflow) run(ctx context.Context, seq uint64, tracker *ProgressTracker, owner *models.Identity, file *models.ResumeFile, text string) {
	req, err := w.buildRequest(file, text)

	var resp *models.AnalysisResponse
	if err == nil {
		resp, err = w.gemini.AnalyzeResume(ctx, req)
	}

	var result *models.AnalysisResult
	if err == nil {
		result = w.buildResult(owner, req, file, resp)
		err = w.holdForProgress(ctx, tracker)
	}

	w.finish(seq, tracker, result, err)
}

// buildRequest puts the input in the form the collaborator accepts. DOCX
// cannot be sent inline, so it is converted to text here.
func (w *AnalysisWorkflow) buildRequest(file *models.ResumeFile, text string) (models.AnalysisRequest, error) {
	if file == nil {
		return models.AnalysisRequest{Text: text}, nil
	}
	if baseMediaType(file.MediaType) == MediaTypeDOCX {
		extracted, err := w.extractor.ExtractText(file)
		if err != nil {
			return models.AnalysisRequest{}, fmt.Errorf("could not read the document: %w", err)
		}
		return models.AnalysisRequest{Text: extracted}, nil
	}
	return models.AnalysisRequest{File: file}, nil
}

// holdForProgress keeps the result back until the bar has reached its
// ceiling and the closing pause has elapsed.
func (w *AnalysisWorkflow) holdForProgress(ctx context.Context, tracker *ProgressTracker) error {
	if err := tracker.AwaitCeiling(ctx); err != nil {
		return err
	}
	if w.opts.Progress.Pause <= 0 {
		return nil
	}

	timer := time.NewTimer(w.opts.Progress.Pause)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *AnalysisWorkflow) finish(seq uint64, tracker *ProgressTracker, result *models.AnalysisResult, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || seq != w.seq {
		log.Printf("⚠️  Dropping outcome of superseded analysis #%d\n", seq)
		return
	}
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}

	if err != nil {
		tracker.Fail()
		w.state = models.AnalysisError
		w.errMsg = analysisErrorMessage(err)
		log.Printf("❌ Analysis #%d failed: %v\n", seq, err)
		return
	}

	tracker.Complete()
	w.result = result
	w.state = models.AnalysisSuccess
	log.Printf("✅ Analysis #%d completed\n", seq)
}

// Reset discards the result and input and returns to idle-empty.
func (w *AnalysisWorkflow) Reset() error {
	w.mu.Lock()
	if w.state == models.AnalysisSubmitting {
		w.mu.Unlock()
		return ErrAnalysisInFlight
	}
	onReset := w.clearLocked()
	w.mu.Unlock()

	if onReset != nil {
		onReset()
	}
	return nil
}

// Discard abandons any analysis in flight and returns to idle-empty. The
// outcome of the abandoned run is dropped when it arrives.
func (w *AnalysisWorkflow) Discard() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	if w.state == models.AnalysisSubmitting {
		log.Printf("⚠️  Abandoning analysis #%d\n", w.seq)
	}
	w.seq++
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	if w.tracker != nil {
		w.tracker.Stop()
	}
	onReset := w.clearLocked()
	w.mu.Unlock()

	if onReset != nil {
		onReset()
	}
}

func (w *AnalysisWorkflow) clearLocked() func() {
	w.file = nil
	w.text = ""
	w.errMsg = ""
	w.result = nil
	w.tracker = nil
	w.state = models.AnalysisIdle
	return w.onReset
}

// DismissError hides the banner. A failed analysis goes back to its input
// state.
func (w *AnalysisWorkflow) DismissError() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.errMsg = ""
	if w.state == models.AnalysisError {
		w.refreshInputStateLocked()
	}
}

// ResumeText is the analysed text, or "" when there is no result.
func (w *AnalysisWorkflow) ResumeText() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.result == nil {
		return ""
	}
	return w.result.RawText
}

func (w *AnalysisWorkflow) Snapshot() AnalysisView {
	w.mu.Lock()
	defer w.mu.Unlock()

	view := AnalysisView{
		State: w.state,
		Text:  w.text,
		Error: w.errMsg,
		CanSubmit: (w.state == models.AnalysisReady || w.state == models.AnalysisError) &&
			(w.file != nil || w.text != ""),
	}
	if w.file != nil {
		view.FileName = w.file.Name
		view.FileSize = w.file.Size
	}
	if w.tracker != nil {
		progress := w.tracker.Snapshot()
		view.Progress = &progress
	}
	if w.result != nil {
		result := *w.result
		view.Result = &result
		view.Dashboard = BuildDashboard(&result)
	}
	return view
}

// Close stops the progress tickers and abandons any in-flight call.
func (w *AnalysisWorkflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	w.seq++
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	if w.tracker != nil {
		w.tracker.Stop()
	}
}

func (w *AnalysisWorkflow) buildResult(owner *models.Identity, req models.AnalysisRequest, file *models.ResumeFile, resp *models.AnalysisResponse) *models.AnalysisResult {
	result := &models.AnalysisResult{
		Skills:               nonNil(resp.Skills),
		Summary:              resp.Summary,
		AuthenticityFeedback: resp.AuthenticityFeedback,
		SuggestedRoles:       nonNil(resp.SuggestedRoles),
		LearningResources:    resp.LearningResources,
	}
	if result.LearningResources == nil {
		result.LearningResources = []models.LearningResource{}
	}

	if resp.Scores != nil {
		result.Scores = models.Scores{
			Fit:          scoreOrZero(resp.Scores.Fit),
			Authenticity: scoreOrZero(resp.Scores.Authenticity),
			Clarity:      scoreOrZero(resp.Scores.Clarity),
			Impact:       scoreOrZero(resp.Scores.Impact),
			Relevance:    scoreOrZero(resp.Scores.Relevance),
		}
	}

	result.Name, result.Email = defaultCandidateName, ""
	if owner != nil {
		result.Email = owner.Email
		if name := strings.TrimSpace(owner.DisplayName); name != "" {
			result.Name = name
		} else if local := displayNameFromEmail(owner.Email); local != "" {
			result.Name = local
		}
	}

	result.RawText = strings.TrimSpace(resp.ExtractedText)
	if result.RawText == "" {
		result.RawText = strings.TrimSpace(req.Text)
	}
	if result.RawText == "" && file != nil && w.extractor != nil {
		if text, err := w.extractor.ExtractText(file); err == nil {
			result.RawText = text
		} else {
			log.Printf("⚠️  Local text extraction failed for %s: %v\n", file.Name, err)
		}
	}
	return result
}

func (w *AnalysisWorkflow) checkEditableLocked() error {
	switch w.state {
	case models.AnalysisSubmitting:
		return ErrAnalysisInFlight
	case models.AnalysisSuccess:
		return ErrAnalysisComplete
	}
	return nil
}

func (w *AnalysisWorkflow) refreshInputStateLocked() {
	if w.file != nil || w.text != "" {
		w.state = models.AnalysisReady
	} else {
		w.state = models.AnalysisIdle
	}
}

func (w *AnalysisWorkflow) timeout() time.Duration {
	if w.opts.Timeout > 0 {
		return w.opts.Timeout
	}
	return 60 * time.Second
}

func analysisErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingAPIKey):
		return "GEMINI_API_KEY is not set"
	case errors.Is(err, ErrInvalidAIResponse):
		return "Invalid response from AI"
	case errors.Is(err, context.DeadlineExceeded):
		return "The analysis took too long. Please try again."
	case err.Error() != "":
		return err.Error()
	default:
		return "Failed to analyze resume. Please try again."
	}
}

func scoreOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return clampScore(*v)
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// FileTooLargeMessage is the banner shown for a file over maxSize.
func FileTooLargeMessage(maxSize int64) string {
	return fmt.Sprintf("File is too large. Maximum size is %s.", formatBytes(maxSize))
}

func formatBytes(n int64) string {
	const mb = 1024 * 1024
	if n%mb == 0 {
		return fmt.Sprintf("%dMB", n/mb)
	}
	return fmt.Sprintf("%d bytes", n)
}
