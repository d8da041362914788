package tasks

import (
	"context"
	"log"
	"sync"
	"time"
)

// Task is a named unit of background work. Run must be safe to call more
// than once: failed tasks are retried.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Runner executes fire-and-forget tasks off the request path. Failures are
// retried a bounded number of times and then logged and dropped; nothing is
// ever reported back to the caller that enqueued the task.
type Runner struct {
	queue chan Task
	wg    sync.WaitGroup

	maxRetries  int
	retryDelay  time.Duration
	taskTimeout time.Duration
}

func NewRunner(queueSize int) *Runner {
	return &Runner{
		queue:       make(chan Task, queueSize),
		maxRetries:  3,
		retryDelay:  time.Second,
		taskTimeout: 30 * time.Second,
	}
}

func (r *Runner) Start() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for task := range r.queue {
			r.process(task)
		}
	}()
}

// Stop drains the queue and waits for the worker to finish. Enqueue must not
// be called after Stop.
func (r *Runner) Stop() {
	close(r.queue)
	r.wg.Wait()
}

// Enqueue never blocks the caller; when the queue is full the task is
// dropped with a log line.
func (r *Runner) Enqueue(task Task) {
	select {
	case r.queue <- task:
	default:
		log.Printf("task queue full, dropping %q", task.Name)
	}
}

func (r *Runner) process(task Task) {
	delay := r.retryDelay
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), r.taskTimeout)
		err := task.Run(ctx)
		cancel()

		if err == nil {
			return
		}
		if attempt > r.maxRetries {
			log.Printf("task %q failed permanently after %d retries: %v", task.Name, r.maxRetries, err)
			return
		}

		log.Printf("task %q failed (attempt %d), retrying: %v", task.Name, attempt, err)
		time.Sleep(delay)
		delay *= 2
	}
}
