package manager

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// createArtifact writes a small placeholder artifact and returns its path.
func createArtifact(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("GGUF"), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return p
}

// fakeAdapter is a lightweight in-memory adapter used for tests.
type fakeAdapter struct {
	startErr error
	chatErr  error
	content  string
	noChoice bool
	delay    time.Duration

	mu       sync.Mutex
	starts   int
	spec     SessionSpec
	requests []ChatRequest

	inflight    atomic.Int32
	maxInflight atomic.Int32
	closed      atomic.Bool
}

func (f *fakeAdapter) Name() string { return "fake" }

func (f *fakeAdapter) Start(ctx context.Context, spec SessionSpec) (ChatSession, error) {
	f.mu.Lock()
	f.starts++
	f.spec = spec
	f.mu.Unlock()
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &fakeSession{f: f}, nil
}

type fakeSession struct{ f *fakeAdapter }

func (s *fakeSession) ChatCompletion(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	n := s.f.inflight.Add(1)
	defer s.f.inflight.Add(-1)
	for {
		cur := s.f.maxInflight.Load()
		if n <= cur || s.f.maxInflight.CompareAndSwap(cur, n) {
			break
		}
	}
	s.f.mu.Lock()
	s.f.requests = append(s.f.requests, req)
	s.f.mu.Unlock()
	if s.f.delay > 0 {
		select {
		case <-time.After(s.f.delay):
		case <-ctx.Done():
			return ChatResponse{}, ctx.Err()
		}
	}
	if s.f.chatErr != nil {
		return ChatResponse{}, s.f.chatErr
	}
	if s.f.noChoice {
		return ChatResponse{}, nil
	}
	return ChatResponse{Choices: []Choice{{Message: ChoiceMessage{Role: "assistant", Content: s.f.content}}}}, nil
}

func (s *fakeSession) Close() error {
	s.f.closed.Store(true)
	return nil
}

// loadedManager returns a Manager with a fake adapter that has been loaded.
func loadedManager(t *testing.T, fa *fakeAdapter, cfg ManagerConfig) *Manager {
	t.Helper()
	dir := t.TempDir()
	cfg.ModelPath = createArtifact(t, dir, "model.gguf")
	cfg.MMProjPath = createArtifact(t, dir, "mmproj.gguf")
	cfg.Adapter = fa
	m := NewWithConfig(cfg)
	if err := m.Load(testCtx(t)); err != nil {
		t.Fatalf("load: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

// testCtx returns a context with a short timeout, canceled on test cleanup.
func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return c
}
