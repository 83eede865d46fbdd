package manager

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewWithConfigDefaults(t *testing.T) {
	m := NewWithConfig(ManagerConfig{})
	if cap(m.queueCh) != defaultMaxQueueDepth {
		t.Fatalf("expected default queue depth=%d got %d", defaultMaxQueueDepth, cap(m.queueCh))
	}
	if m.maxWait != defaultMaxWait {
		t.Fatalf("expected default maxWait=%v got %v", defaultMaxWait, m.maxWait)
	}
	if m.spec.CtxSize != 2048 || m.spec.GPULayers != 30 {
		t.Fatalf("unexpected session shape: %+v", m.spec)
	}
	if m.Ready() {
		t.Fatalf("expected not ready before Load")
	}
}

func TestNewWithConfigNegativeGPULayersMeansCPU(t *testing.T) {
	m := NewWithConfig(ManagerConfig{GPULayers: -1})
	if m.spec.GPULayers != 0 {
		t.Fatalf("expected 0 gpu layers, got %d", m.spec.GPULayers)
	}
}

func TestNewWithConfigAdapterSelection(t *testing.T) {
	if _, ok := NewWithConfig(ManagerConfig{}).adapter.(*llamaSubprocessAdapter); !ok {
		t.Fatalf("expected subprocess adapter by default")
	}
	if _, ok := NewWithConfig(ManagerConfig{LlamaServerURL: "http://127.0.0.1:1"}).adapter.(*llamaServerAdapter); !ok {
		t.Fatalf("expected server adapter when url is set")
	}
	fa := &fakeAdapter{}
	if NewWithConfig(ManagerConfig{Adapter: fa, LlamaServerURL: "http://x"}).adapter != fa {
		t.Fatalf("explicit adapter must win")
	}
}

func TestLoadOnce(t *testing.T) {
	fa := &fakeAdapter{content: "ok"}
	m := loadedManager(t, fa, ManagerConfig{CtxSize: 4096, GPULayers: 12, Threads: 3})
	if !m.Ready() {
		t.Fatalf("expected ready after load")
	}
	if err := m.Load(testCtx(t)); !errors.Is(err, ErrAlreadyLoaded) {
		t.Fatalf("expected ErrAlreadyLoaded, got %v", err)
	}
	fa.mu.Lock()
	defer fa.mu.Unlock()
	if fa.starts != 1 {
		t.Fatalf("adapter started %d times", fa.starts)
	}
	if fa.spec.CtxSize != 4096 || fa.spec.GPULayers != 12 || fa.spec.Threads != 3 {
		t.Fatalf("spec not forwarded: %+v", fa.spec)
	}
	if !strings.HasSuffix(fa.spec.MMProjPath, "mmproj.gguf") {
		t.Fatalf("mmproj not forwarded: %q", fa.spec.MMProjPath)
	}
}

func TestLoadErrorSetsErrorState(t *testing.T) {
	pub := NewMemoryPublisher()
	fa := &fakeAdapter{startErr: errors.New("bad weights")}
	m := NewWithConfig(ManagerConfig{ModelPath: "m.gguf", MMProjPath: "p.gguf", Adapter: fa, Publisher: pub})
	err := m.Load(testCtx(t))
	if err == nil || !strings.Contains(err.Error(), "bad weights") {
		t.Fatalf("expected start error, got %v", err)
	}
	if m.Ready() {
		t.Fatalf("must not be ready after failed load")
	}
	st := m.Status()
	if st.State != string(StateError) || st.LastError != "bad weights" {
		t.Fatalf("unexpected status: %+v", st)
	}
	names := pub.Names()
	if len(names) != 2 || names[0] != "session_load_start" || names[1] != "session_error" {
		t.Fatalf("unexpected events: %v", names)
	}
	// No retry: the session is built at most once.
	if err := m.Load(testCtx(t)); !errors.Is(err, ErrAlreadyLoaded) {
		t.Fatalf("expected ErrAlreadyLoaded on retry, got %v", err)
	}
}

func TestLoadRequiresBothPaths(t *testing.T) {
	fa := &fakeAdapter{}
	m := NewWithConfig(ManagerConfig{ModelPath: "m.gguf", Adapter: fa})
	if err := m.Load(testCtx(t)); err == nil {
		t.Fatalf("expected error without mmproj path")
	}
	if fa.starts != 0 {
		t.Fatalf("adapter must not be started")
	}
}

func TestLoadPublishesEvents(t *testing.T) {
	pub := NewMemoryPublisher()
	m := loadedManager(t, &fakeAdapter{}, ManagerConfig{Publisher: pub})
	_ = m
	names := pub.Names()
	if len(names) != 2 || names[0] != "session_load_start" || names[1] != "session_ready" {
		t.Fatalf("unexpected events: %v", names)
	}
	ev := pub.Events()[0]
	if ev.Fields["adapter"] != "fake" || ev.Fields["ctx_size"] != 2048 {
		t.Fatalf("unexpected fields: %+v", ev.Fields)
	}
}

func TestCloseClosesSession(t *testing.T) {
	fa := &fakeAdapter{}
	m := loadedManager(t, fa, ManagerConfig{})
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !fa.closed.Load() {
		t.Fatalf("expected session closed")
	}
	if m.Ready() {
		t.Fatalf("expected not ready after close")
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if err := m.Load(testCtx(t)); !errors.Is(err, ErrAlreadyLoaded) {
		t.Fatalf("expected closed manager to refuse Load, got %v", err)
	}
}

func TestStatusReportsShape(t *testing.T) {
	m := loadedManager(t, &fakeAdapter{content: "x"}, ManagerConfig{MaxQueueDepth: 3, MaxWait: time.Second})
	if _, err := m.Complete(testCtx(t), nil); err != nil {
		t.Fatalf("complete: %v", err)
	}
	st := m.Status()
	if st.State != "ready" || st.Adapter != "fake" {
		t.Fatalf("unexpected state: %+v", st)
	}
	if st.MaxQueueDepth != 3 || st.QueueLen != 0 || st.Inflight != 0 {
		t.Fatalf("unexpected queue fields: %+v", st)
	}
	if st.CompletionsTotal != 1 {
		t.Fatalf("expected 1 completion, got %d", st.CompletionsTotal)
	}
	if len(st.Artifacts) != 2 || st.Artifacts[0].Role != "model" || st.Artifacts[1].Role != "mmproj" {
		t.Fatalf("unexpected artifacts: %+v", st.Artifacts)
	}
	if st.Artifacts[1].SizeBytes != 4 {
		t.Fatalf("expected artifact size 4, got %d", st.Artifacts[1].SizeBytes)
	}
	if st.ServerTimeUnix == 0 {
		t.Fatalf("server time not set")
	}
}
