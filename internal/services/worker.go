package services

import (
	"context"
	"errors"
	"log"
	"sync"
)

var (
	ErrWorkerStopped = errors.New("worker stopped")
	ErrQueueFull     = errors.New("worker queue is full")
)

// Task is a unit of background work. The context is cancelled when the
// worker stops.
type Task func(ctx context.Context)

// Dispatcher hands tasks to something that will run them off the caller's
// goroutine.
type Dispatcher interface {
	Dispatch(task Task) error
}

type Worker interface {
	Dispatcher
	Start(ctx context.Context)
	Stop()
}

type worker struct {
	jobQueue    chan Task
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
	cancel      context.CancelFunc
}

func NewWorker(concurrency, queueSize int) Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	return &worker{
		jobQueue:    make(chan Task, queueSize),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	ctx, w.cancel = context.WithCancel(ctx)
	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping worker...")
		close(w.stopChan)
		if w.cancel != nil {
			w.cancel()
		}
		w.wg.Wait()
		log.Println("✅ Worker stopped")
	})
}

// Dispatch implements Dispatcher. It never blocks: a full queue is reported
// to the caller instead.
func (w *worker) Dispatch(task Task) error {
	select {
	case <-w.stopChan:
		return ErrWorkerStopped
	default:
	}

	select {
	case w.jobQueue <- task:
		return nil
	case <-w.stopChan:
		return ErrWorkerStopped
	default:
		log.Println("⚠️  Worker queue full, rejecting task")
		return ErrQueueFull
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case task := <-w.jobQueue:
			w.run(ctx, workerID, task)
		}
	}
}

func (w *worker) run(ctx context.Context, workerID int, task Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Worker #%d recovered from panic: %v\n", workerID, r)
		}
	}()
	task(ctx)
}
