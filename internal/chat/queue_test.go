package chat_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hanifnaufal/chat-with-vid/internal/chat"
)

type recordingProcessor struct {
	mu    sync.Mutex
	tasks []chat.Task
}

func (p *recordingProcessor) ProcessVideo(_ context.Context, chatID uuid.UUID, sourceURL string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tasks = append(p.tasks, chat.Task{ChatID: chatID, SourceURL: sourceURL})
}

func (p *recordingProcessor) processed() []chat.Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]chat.Task(nil), p.tasks...)
}

func TestQueue_ProcessesEnqueuedTasks(t *testing.T) {
	q := chat.NewQueue(8, time.Second)
	proc := &recordingProcessor{}
	q.Start(context.Background(), 2, proc)

	want := chat.Task{ChatID: uuid.New(), SourceURL: "https://youtu.be/dQw4w9WgXcQ"}
	if !q.Enqueue(want) {
		t.Fatal("enqueue should succeed on an empty queue")
	}
	q.Stop()

	got := proc.processed()
	if len(got) != 1 {
		t.Fatalf("expected 1 processed task, got %d", len(got))
	}
	if got[0] != want {
		t.Errorf("got %+v, want %+v", got[0], want)
	}
}

func TestQueue_EnqueueFailsWhenFull(t *testing.T) {
	// No workers consuming: the buffer fills immediately.
	q := chat.NewQueue(1, time.Second)

	if !q.Enqueue(chat.Task{ChatID: uuid.New()}) {
		t.Fatal("first enqueue should succeed")
	}
	if q.Enqueue(chat.Task{ChatID: uuid.New()}) {
		t.Error("second enqueue should fail on a full queue")
	}
}

func TestQueue_StopDrainsPendingTasks(t *testing.T) {
	q := chat.NewQueue(8, time.Second)
	proc := &recordingProcessor{}

	for i := 0; i < 5; i++ {
		if !q.Enqueue(chat.Task{ChatID: uuid.New()}) {
			t.Fatalf("enqueue %d failed", i)
		}
	}
	q.Start(context.Background(), 2, proc)
	q.Stop()

	if got := len(proc.processed()); got != 5 {
		t.Errorf("expected all 5 pending tasks drained, got %d", got)
	}
}

func TestQueue_ContextCancelStopsWorkers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	q := chat.NewQueue(1, time.Second)
	q.Start(ctx, 1, &recordingProcessor{})

	cancel()

	done := make(chan struct{})
	go func() {
		q.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop after context cancellation")
	}
}
