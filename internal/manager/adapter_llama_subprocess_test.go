package manager

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// buildTestBinary builds the fake llama server used for subprocess tests and returns its path.
func buildTestBinary(t *testing.T) string {
	t.Helper()
	tdir := t.TempDir()
	bin := filepath.Join(tdir, "fake_llama_server")
	cmd := exec.Command("go", "build", "-o", bin, "./testdata/fake_llama_server.go")
	cmd.Dir = "." // package dir internal/manager
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("build fake server: %v: %s", err, string(out))
	}
	return bin
}

func TestSubprocessLoadCompleteClose(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode")
	}
	bin := buildTestBinary(t)
	dir := t.TempDir()
	pub := NewMemoryPublisher()
	m := NewWithConfig(ManagerConfig{
		ModelPath:      createArtifact(t, dir, "model.gguf"),
		MMProjPath:     createArtifact(t, dir, "mmproj.gguf"),
		LlamaBin:       bin,
		LlamaHost:      "127.0.0.1",
		LlamaPortStart: 31000,
		LlamaPortEnd:   31010,
		Publisher:      pub,
	})
	if err := m.Load(testCtx(t)); err != nil {
		t.Fatalf("load: %v", err)
	}
	st := m.Status()
	if st.Adapter != "llama_subprocess" || st.PID <= 0 {
		t.Fatalf("unexpected status: %+v", st)
	}
	out, err := m.Complete(testCtx(t), nil)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !strings.Contains(out, "mmproj.gguf") || !strings.Contains(out, `"ctx":2048`) {
		t.Fatalf("server did not see session flags: %s", out)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	names := strings.Join(pub.Names(), ",")
	for _, want := range []string{"spawn_start", "spawn_ready", "session_ready", "spawn_stop"} {
		if !strings.Contains(names, want) {
			t.Fatalf("missing event %s in %s", want, names)
		}
	}
}

func TestSubprocessEarlyExit(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode")
	}
	bin := buildTestBinary(t)
	t.Setenv("FAKE_LLAMA_EXIT_EARLY", "1")
	pub := NewMemoryPublisher()
	m := NewWithConfig(ManagerConfig{ModelPath: "m.gguf", MMProjPath: "p.gguf", LlamaBin: bin, Publisher: pub})
	err := m.Load(testCtx(t))
	if err == nil || !strings.Contains(err.Error(), "failed to load mmproj") {
		t.Fatalf("expected early exit with stderr tail, got %v", err)
	}
	if !strings.Contains(strings.Join(pub.Names(), ","), "spawn_exit") {
		t.Fatalf("expected spawn_exit event, got %v", pub.Names())
	}
	if m.Ready() {
		t.Fatalf("must not be ready")
	}
}

func TestSubprocessMissingBinary(t *testing.T) {
	a := NewLlamaSubprocessAdapter(ManagerConfig{LlamaBin: filepath.Join(t.TempDir(), "nope")})
	_, err := a.Start(testCtx(t), SessionSpec{ModelPath: "m.gguf", MMProjPath: "p.gguf"})
	if err == nil || !strings.Contains(err.Error(), "start llama-server") {
		t.Fatalf("expected start error, got %v", err)
	}
}

func TestSubprocessRequiresPaths(t *testing.T) {
	a := NewLlamaSubprocessAdapter(ManagerConfig{LlamaBin: "/bin/true"})
	if _, err := a.Start(testCtx(t), SessionSpec{ModelPath: "m.gguf"}); err == nil {
		t.Fatalf("expected error for missing mmproj")
	}
}

func TestBuildArgs(t *testing.T) {
	a := NewLlamaSubprocessAdapter(ManagerConfig{LlamaExtraArgs: []string{"--flash-attn"}}).(*llamaSubprocessAdapter)
	args := a.buildArgs(SessionSpec{ModelPath: "/m/model.gguf", MMProjPath: "/m/mmproj.gguf", CtxSize: 2048, GPULayers: 30, Threads: 4}, "127.0.0.1", 31001)
	got := strings.Join(args, " ")
	want := "-m /m/model.gguf --mmproj /m/mmproj.gguf --host 127.0.0.1 --port 31001 -c 2048 -ngl 30 -t 4 -np 1 --flash-attn"
	if got != want {
		t.Fatalf("args mismatch:\n got %s\nwant %s", got, want)
	}
	cpu := strings.Join(a.buildArgs(SessionSpec{ModelPath: "m", MMProjPath: "p"}, "h", 1), " ")
	if strings.Contains(cpu, "-c ") || strings.Contains(cpu, "-t ") {
		t.Fatalf("unset options must be omitted: %s", cpu)
	}
	if !strings.Contains(cpu, "-ngl 0") {
		t.Fatalf("cpu-only must pass -ngl 0: %s", cpu)
	}
}

func TestTailBuffer(t *testing.T) {
	tb := &tailBuffer{max: 8}
	_, _ = tb.Write([]byte("0123456789"))
	if got := tb.String(); got != "23456789" {
		t.Fatalf("tail=%q", got)
	}
	_, _ = tb.Write([]byte("ab"))
	if got := tb.String(); got != "456789ab" {
		t.Fatalf("tail=%q", got)
	}
}

func TestPickFreePort(t *testing.T) {
	p, err := pickFreePort("127.0.0.1")
	if err != nil || p <= 0 {
		t.Fatalf("pickFreePort: %d %v", p, err)
	}
	if _, err := pickPortInRange("127.0.0.1", 2, 1); err == nil {
		t.Fatalf("expected error for empty range")
	}
}

func TestSubprocessCloseIdempotent(t *testing.T) {
	s := &llamaSubprocessSession{a: &llamaSubprocessAdapter{publisher: noopPublisher{}}, exited: make(chan struct{})}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if s.pid() != 0 {
		t.Fatalf("expected pid 0 without process")
	}
}
