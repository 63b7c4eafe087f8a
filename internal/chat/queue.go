package chat

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Task is one background population request: fetch transcript and metadata
// for a chat and persist the results.
type Task struct {
	ChatID    uuid.UUID
	SourceURL string
}

// Processor is the work a queue worker performs for each task.
type Processor interface {
	ProcessVideo(ctx context.Context, chatID uuid.UUID, sourceURL string)
}

// Queue is a bounded in-process work queue consumed by a fixed worker pool.
// Enqueue never blocks the request path; a full queue drops the task and the
// chat stays in processing, discoverable by the orphan sweep through its
// missing processing_started_at.
type Queue struct {
	tasks       chan Task
	taskTimeout time.Duration
	wg          sync.WaitGroup
	stopOnce    sync.Once
}

// NewQueue creates a queue holding at most size pending tasks.
func NewQueue(size int, taskTimeout time.Duration) *Queue {
	return &Queue{
		tasks:       make(chan Task, size),
		taskTimeout: taskTimeout,
	}
}

// Start launches workers consuming the queue until ctx is cancelled or the
// queue is stopped. In-flight tasks run to completion on their own timeout.
func (q *Queue) Start(ctx context.Context, workers int, p Processor) {
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.run(ctx, i, p)
	}
}

func (q *Queue) run(ctx context.Context, id int, p Processor) {
	defer q.wg.Done()
	slog.Info("worker started", "worker", id)

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopping", "worker", id)
			return
		case task, ok := <-q.tasks:
			if !ok {
				return
			}
			// Detached from the request context: the client never waits and
			// shutdown lets the task finish.
			taskCtx, cancel := context.WithTimeout(context.Background(), q.taskTimeout)
			p.ProcessVideo(taskCtx, task.ChatID, task.SourceURL)
			cancel()
		}
	}
}

// Enqueue schedules a task without blocking. Returns false when the queue is
// full. Must not be called after Stop.
func (q *Queue) Enqueue(task Task) bool {
	select {
	case q.tasks <- task:
		return true
	default:
		return false
	}
}

// Stop closes the queue and waits for workers to drain pending tasks.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() { close(q.tasks) })
	q.wg.Wait()
}
