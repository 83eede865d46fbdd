package manager

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAdmissionQueueFull(t *testing.T) {
	m := NewWithConfig(ManagerConfig{MaxQueueDepth: 1, MaxWait: time.Second})
	release, err := m.beginGeneration(context.Background())
	if err != nil {
		t.Fatalf("first admission: %v", err)
	}
	defer release()
	start := time.Now()
	_, err = m.beginGeneration(context.Background())
	if !IsTooBusy(err) {
		t.Fatalf("expected too busy, got %v", err)
	}
	if time.Since(start) > 200*time.Millisecond {
		t.Fatalf("full queue must reject without waiting")
	}
}

func TestAdmissionTimeout(t *testing.T) {
	m := NewWithConfig(ManagerConfig{MaxQueueDepth: 2, MaxWait: 30 * time.Millisecond})
	release, err := m.beginGeneration(context.Background())
	if err != nil {
		t.Fatalf("first admission: %v", err)
	}
	defer release()
	_, err = m.beginGeneration(context.Background())
	if !IsTooBusy(err) {
		t.Fatalf("expected too busy after wait, got %v", err)
	}
	// The timed-out waiter must give its queue slot back.
	if got := len(m.queueCh); got != 1 {
		t.Fatalf("expected 1 queued slot, got %d", got)
	}
}

func TestAdmissionReleaseFreesSlots(t *testing.T) {
	m := NewWithConfig(ManagerConfig{MaxQueueDepth: 1, MaxWait: time.Second})
	release, err := m.beginGeneration(context.Background())
	if err != nil {
		t.Fatalf("admission: %v", err)
	}
	release()
	if len(m.queueCh) != 0 || len(m.genCh) != 0 {
		t.Fatalf("slots not released: queue=%d gen=%d", len(m.queueCh), len(m.genCh))
	}
	release2, err := m.beginGeneration(context.Background())
	if err != nil {
		t.Fatalf("admission after release: %v", err)
	}
	release2()
}

func TestAdmissionWaiterCanceled(t *testing.T) {
	m := NewWithConfig(ManagerConfig{MaxQueueDepth: 2, MaxWait: time.Minute})
	release, err := m.beginGeneration(context.Background())
	if err != nil {
		t.Fatalf("admission: %v", err)
	}
	defer release()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := m.beginGeneration(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if IsTooBusy(context.DeadlineExceeded) {
		t.Fatalf("context errors are not backpressure")
	}
}

func TestCompleteBusyWhileGenerating(t *testing.T) {
	fa := &fakeAdapter{content: "ok", delay: 200 * time.Millisecond}
	m := loadedManager(t, fa, ManagerConfig{MaxQueueDepth: 1, MaxWait: time.Second})
	done := make(chan error, 1)
	go func() {
		_, err := m.Complete(testCtx(t), nil)
		done <- err
	}()
	// Wait until the first call holds the slot.
	deadline := time.Now().Add(2 * time.Second)
	for fa.inflight.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if _, err := m.Complete(testCtx(t), nil); !IsTooBusy(err) {
		t.Fatalf("expected too busy, got %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("first call: %v", err)
	}
}
