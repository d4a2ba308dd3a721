package queue

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
)

// ErrQueueFull is returned by Enqueue when the buffer is exhausted.
var ErrQueueFull = errors.New("job queue is full")

// RunFunc processes one job end to end.
type RunFunc func(jobID uuid.UUID)

// Queue hands submitted job ids to a single background worker. Running
// every job through one worker keeps processing strictly sequential and
// rules out two concurrent runs for the same job id.
type Queue struct {
	jobs chan uuid.UUID
	run  RunFunc

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func New(size int, run RunFunc) *Queue {
	ctx, cancel := context.WithCancel(context.Background())

	return &Queue{
		jobs:   make(chan uuid.UUID, size),
		run:    run,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (q *Queue) Start() {
	go q.work()
}

// Enqueue schedules a job without blocking the submitter.
func (q *Queue) Enqueue(jobID uuid.UUID) error {
	select {
	case q.jobs <- jobID:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop cancels the worker and waits for it to exit. A run already in
// progress finishes first; queued jobs are dropped.
func (q *Queue) Stop() {
	q.cancel()
	<-q.done
}

func (q *Queue) work() {
	defer close(q.done)

	for {
		select {
		case <-q.ctx.Done():
			return
		case jobID := <-q.jobs:
			log.Printf("Processing job %s", jobID)
			q.run(jobID)
			log.Printf("Finished job %s", jobID)
		}
	}
}
