package indexer

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"smartnotes/internal/contextutil"
)

// ErrQueueClosed is returned by Stop when the queue was already stopped.
var ErrQueueClosed = errors.New("index queue closed")

// Job asks for one note to be re-indexed with the given text.
type Job struct {
	NoteID  string
	Title   string
	Content string
}

// NoteIndexer indexes one note. *Pipeline implements it.
type NoteIndexer interface {
	Index(ctx context.Context, noteID, title, content string) error
}

// Queue runs indexing jobs on background workers, decoupled from the request
// that scheduled them. Workers use a context owned by the queue, so a job
// outlives the HTTP request that enqueued it. Failed jobs are logged and
// dropped; the previous chunk set of the note stays in place.
type Queue struct {
	indexer NoteIndexer
	workers int
	jobs    chan Job
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	started bool
	closed  bool
}

// NewQueue creates a queue with the given worker count and buffer size.
func NewQueue(indexer NoteIndexer, workers, size int, logger *slog.Logger) *Queue {
	if workers <= 0 {
		workers = 1
	}
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		indexer: indexer,
		workers: workers,
		jobs:    make(chan Job, size),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the worker goroutines. Calling it more than once is a no-op.
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.closed {
		return
	}
	q.started = true

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.work(i)
	}
	q.logger.Info("index queue started", "workers", q.workers, "capacity", cap(q.jobs))
}

// Enqueue schedules job without blocking. It returns false when the queue is
// full or stopped; the job is dropped and the note keeps its previous chunks.
func (q *Queue) Enqueue(job Job) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.logger.Warn("index queue closed, dropping job", "note_id", job.NoteID)
		return false
	}

	select {
	case q.jobs <- job:
		return true
	default:
		q.logger.Warn("index queue full, dropping job", "note_id", job.NoteID, "capacity", cap(q.jobs))
		return false
	}
}

// Pending returns the number of queued jobs not yet picked up by a worker.
func (q *Queue) Pending() int {
	return len(q.jobs)
}

// Stop stops accepting jobs and waits for queued jobs to finish. If ctx
// expires first, in-flight jobs are cancelled and ctx.Err() is returned.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.closed = true
	close(q.jobs)
	started := q.started
	q.mu.Unlock()

	if !started {
		q.cancel()
		return nil
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.cancel()
		q.logger.Info("index queue stopped")
		return nil
	case <-ctx.Done():
		q.cancel()
		<-done
		return ctx.Err()
	}
}

func (q *Queue) work(id int) {
	defer q.wg.Done()
	for job := range q.jobs {
		if q.ctx.Err() != nil {
			continue
		}
		logger := q.logger.With("worker", id)
		ctx := contextutil.WithLogger(q.ctx, logger)
		if err := q.indexer.Index(ctx, job.NoteID, job.Title, job.Content); err != nil {
			logger.ErrorContext(ctx, "background indexing failed", "note_id", job.NoteID, "error", err)
		}
	}
}
