package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"alfredoptarigan/placement-copilot/internal/config"
)

// LoadingStages are shown one after another while an analysis runs. They
// do not reflect what the model is actually doing.
var LoadingStages = []string{
	"Initializing neural parser...",
	"Extracting semantic experience...",
	"AI is parsing your experience...",
	"Mapping skill clusters...",
	"Calculating market fit...",
	"Generating career trajectory...",
}

var ErrProgressStopped = errors.New("progress tracker stopped")

type ProgressPhase string

const (
	ProgressNotStarted ProgressPhase = "not-started"
	ProgressRunning    ProgressPhase = "running"
	ProgressCompleted  ProgressPhase = "completed"
	ProgressFailed     ProgressPhase = "failed"
)

type ProgressSnapshot struct {
	Phase      ProgressPhase `json:"phase"`
	Percent    int           `json:"percent"`
	StageIndex int           `json:"stage_index"`
	Stage      string        `json:"stage"`
	Stages     []string      `json:"stages"`
}

// ProgressTracker drives the cosmetic progress bar and stage label of one
// submission. Both tickers live in a single goroutine owned by the tracker
// and are released by every transition out of running.
type ProgressTracker struct {
	mu      sync.Mutex
	cfg     config.ProgressConfig
	stages  []string
	phase   ProgressPhase
	percent int
	stage   int

	done        chan struct{}
	ceiling     chan struct{}
	ceilingOnce sync.Once
	doneOnce    sync.Once
	wg          sync.WaitGroup
}

func NewProgressTracker(cfg config.ProgressConfig, stages []string) *ProgressTracker {
	if cfg.Ceiling < 1 {
		cfg.Ceiling = 1
	}
	if cfg.Ceiling > 99 {
		cfg.Ceiling = 99
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 50 * time.Millisecond
	}
	if cfg.StageInterval <= 0 {
		cfg.StageInterval = time.Second
	}
	if len(stages) == 0 {
		stages = LoadingStages
	}
	return &ProgressTracker{
		cfg:     cfg,
		stages:  stages,
		phase:   ProgressNotStarted,
		done:    make(chan struct{}),
		ceiling: make(chan struct{}),
	}
}

// Start moves a not-started tracker to running. Calling it in any other
// phase does nothing.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.phase != ProgressNotStarted {
		return
	}
	p.phase = ProgressRunning
	p.wg.Add(1)
	go p.loop()
}

func (p *ProgressTracker) loop() {
	defer p.wg.Done()

	progress := time.NewTicker(p.cfg.TickInterval)
	defer progress.Stop()
	stage := time.NewTicker(p.cfg.StageInterval)
	defer stage.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-progress.C:
			p.advance()
		case <-stage.C:
			p.nextStage()
		}
	}
}

func (p *ProgressTracker) advance() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.phase != ProgressRunning {
		return
	}
	if p.percent < p.cfg.Ceiling {
		p.percent++
	}
	if p.percent >= p.cfg.Ceiling {
		p.ceilingOnce.Do(func() { close(p.ceiling) })
	}
}

func (p *ProgressTracker) nextStage() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.phase != ProgressRunning {
		return
	}
	if p.stage < len(p.stages)-1 {
		p.stage++
	}
}

// AwaitCeiling blocks until the bar reaches its ceiling, the tracker leaves
// running, or ctx is done.
func (p *ProgressTracker) AwaitCeiling(ctx context.Context) error {
	select {
	case <-p.ceiling:
		return nil
	case <-p.done:
		return ErrProgressStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Complete jumps to 100% and stops both tickers.
func (p *ProgressTracker) Complete() {
	p.finish(ProgressCompleted)
}

// Fail stops both tickers, keeping the last percent and stage.
func (p *ProgressTracker) Fail() {
	p.finish(ProgressFailed)
}

// Stop releases the tickers on teardown. A running tracker ends as failed.
func (p *ProgressTracker) Stop() {
	p.finish(ProgressFailed)
}

func (p *ProgressTracker) finish(phase ProgressPhase) {
	p.mu.Lock()
	if p.phase == ProgressRunning || p.phase == ProgressNotStarted {
		p.phase = phase
		if phase == ProgressCompleted {
			p.percent = 100
		}
	}
	p.mu.Unlock()

	p.doneOnce.Do(func() { close(p.done) })
	p.wg.Wait()
}

func (p *ProgressTracker) Snapshot() ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	return ProgressSnapshot{
		Phase:      p.phase,
		Percent:    p.percent,
		StageIndex: p.stage,
		Stage:      p.stages[p.stage],
		Stages:     p.stages,
	}
}
