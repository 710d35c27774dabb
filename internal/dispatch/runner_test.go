package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestRunner_ProcessesInOrder(t *testing.T) {
	e, _, rec := newTestEngine(t, DefaultConfig(), map[string]string{"ok": "enter", "palm": "space"})
	q := NewQueue(16, DefaultThreshold)
	r := NewRunner(q, e, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	for _, s := range []Sample{Hand("ok", 0.9, nil), Hand("palm", 0.9, nil), Hand("ok", 0.9, nil)} {
		if err := q.Push(ctx, s); err != nil {
			t.Fatalf("Push() error = %v", err)
		}
	}

	waitFor(t, func() bool { return len(rec.Calls()) == 3 })
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	assertTrace(t, rec, "tap(enter)", "tap(space)", "tap(enter)")
}

func TestRunner_StopReleasesHeldButton(t *testing.T) {
	e, _, rec := newTestEngine(t, DefaultConfig(), map[string]string{"one": "Left mouse"})
	q := NewQueue(16, DefaultThreshold)
	r := NewRunner(q, e, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	q.Push(ctx, Hand("one", 0.9, nil))
	waitFor(t, func() bool { return len(e.Held()) == 1 })

	q.Close()
	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	assertTrace(t, rec, "down(left)", "up(left)")
	if err := q.Push(ctx, Hand("one", 0.9, nil)); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("Push() after stop error = %v, want ErrQueueClosed", err)
	}
}

func TestRunner_PendingSamplesDiscarded(t *testing.T) {
	e, _, rec := newTestEngine(t, DefaultConfig(), map[string]string{"ok": "enter"})
	q := NewQueue(16, DefaultThreshold)
	r := NewRunner(q, e, nil)

	ctx, cancel := context.WithCancel(context.Background())
	q.Push(ctx, Hand("ok", 0.9, nil))
	cancel()

	// Cancelled before the first pop: nothing is processed.
	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	assertTrace(t, rec)
	if q.Len() != 0 {
		t.Errorf("Len() = %d after stop, want 0", q.Len())
	}
}
