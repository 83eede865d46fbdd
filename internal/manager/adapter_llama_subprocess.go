package manager

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

// llamaSubprocessAdapter spawns one llama-server process with the model and
// its vision projector and talks to it over loopback HTTP.
type llamaSubprocessAdapter struct {
	cfg        ManagerConfig
	httpClient *http.Client
	publisher  EventPublisher
	logger     zerolog.Logger
}

// NewLlamaSubprocessAdapter constructs a subprocess-backed adapter.
func NewLlamaSubprocessAdapter(cfg ManagerConfig) InferenceAdapter {
	// Timeout=0: readiness probes and completions use context deadlines.
	cli := &http.Client{Timeout: 0}
	return &llamaSubprocessAdapter{cfg: cfg, httpClient: cli, publisher: noopPublisher{}, logger: zerolog.Nop()}
}

func (a *llamaSubprocessAdapter) Name() string { return "llama_subprocess" }

// setPublisher installs an EventPublisher for emitting adapter events.
func (a *llamaSubprocessAdapter) setPublisher(p EventPublisher) {
	if p == nil {
		a.publisher = noopPublisher{}
		return
	}
	a.publisher = p
}

func (a *llamaSubprocessAdapter) setLogger(l zerolog.Logger) { a.logger = l }

// buildArgs maps a SessionSpec to llama-server flags.
func (a *llamaSubprocessAdapter) buildArgs(spec SessionSpec, host string, port int) []string {
	args := []string{
		"-m", spec.ModelPath,
		"--mmproj", spec.MMProjPath,
		"--host", host,
		"--port", strconv.Itoa(port),
	}
	if spec.CtxSize > 0 {
		args = append(args, "-c", strconv.Itoa(spec.CtxSize))
	}
	// Always explicit: 0 keeps every layer on the CPU.
	args = append(args, "-ngl", strconv.Itoa(spec.GPULayers))
	if spec.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(spec.Threads))
	}
	// Single slot: requests are serialized by the Manager anyway.
	args = append(args, "-np", "1")
	if len(a.cfg.LlamaExtraArgs) > 0 {
		args = append(args, a.cfg.LlamaExtraArgs...)
	}
	return args
}

func (a *llamaSubprocessAdapter) Start(ctx context.Context, spec SessionSpec) (ChatSession, error) {
	if strings.TrimSpace(spec.ModelPath) == "" {
		return nil, errors.New("model path is empty")
	}
	if strings.TrimSpace(spec.MMProjPath) == "" {
		return nil, errors.New("mmproj path is empty")
	}
	bin := strings.TrimSpace(a.cfg.LlamaBin)
	if bin == "" {
		bin = discoverLlamaBin()
	}
	if bin == "" {
		return nil, ErrDependencyUnavailable("llama-server not found: set --llama-bin or install llama.cpp")
	}
	host := strings.TrimSpace(a.cfg.LlamaHost)
	if host == "" {
		host = "127.0.0.1"
	}
	var port int
	var err error
	if a.cfg.LlamaPortStart > 0 && a.cfg.LlamaPortEnd >= a.cfg.LlamaPortStart {
		port, err = pickPortInRange(host, a.cfg.LlamaPortStart, a.cfg.LlamaPortEnd)
	} else {
		port, err = pickFreePort(host)
	}
	if err != nil {
		return nil, err
	}
	baseURL := fmt.Sprintf("http://%s", net.JoinHostPort(host, strconv.Itoa(port)))

	cmd := exec.Command(bin, a.buildArgs(spec, host, port)...)
	stderr := &tailBuffer{max: 8192}
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start llama-server: %w", err)
	}
	pid := cmd.Process.Pid
	a.logger.Info().Str("model", spec.ModelPath).Str("mmproj", spec.MMProjPath).Int("pid", pid).Str("url", baseURL).Msg("llama-server starting")
	a.publisher.Publish(Event{Name: "spawn_start", ModelID: spec.ModelPath, Fields: map[string]any{"pid": pid, "host": host, "port": port}})

	sess := &llamaSubprocessSession{
		a:      a,
		cmd:    cmd,
		client: &chatClient{baseURL: baseURL, httpClient: a.httpClient},
		model:  spec.ModelPath,
		exited: make(chan struct{}),
		stderr: stderr,
	}
	// Early-exit watcher: surfaces a crash before and after readiness.
	go func() {
		sess.waitErr = cmd.Wait()
		close(sess.exited)
	}()

	readyTimeout := a.cfg.LlamaReadyTimeout
	if readyTimeout <= 0 {
		readyTimeout = defaultReadyTimeout
	}
	if err := sess.waitReady(ctx, readyTimeout); err != nil {
		_ = sess.Close()
		return nil, err
	}
	a.logger.Info().Int("pid", pid).Str("url", baseURL).Msg("llama-server ready")
	a.publisher.Publish(Event{Name: "spawn_ready", ModelID: spec.ModelPath, Fields: map[string]any{"pid": pid, "url": baseURL}})
	return sess, nil
}

// llamaSubprocessSession owns the spawned server.
type llamaSubprocessSession struct {
	a       *llamaSubprocessAdapter
	cmd     *exec.Cmd
	client  *chatClient
	model   string
	exited  chan struct{}
	waitErr error
	stderr  *tailBuffer
	once    sync.Once
}

func (s *llamaSubprocessSession) waitReady(ctx context.Context, timeout time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	pid := s.cmd.Process.Pid
	for {
		select {
		case <-s.exited:
			fields := map[string]any{"pid": pid, "before_ready": true}
			if s.waitErr != nil {
				fields["error"] = s.waitErr.Error()
			}
			s.a.publisher.Publish(Event{Name: "spawn_exit", ModelID: s.model, Fields: fields})
			return fmt.Errorf("llama-server exited before ready: %v; stderr tail: %s", s.waitErr, s.stderr.String())
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			s.a.publisher.Publish(Event{Name: "spawn_timeout", ModelID: s.model, Fields: map[string]any{"pid": pid}})
			return fmt.Errorf("llama-server not ready in time: %s", s.client.baseURL)
		default:
		}
		if err := s.client.ping(ctx, 1*time.Second); err == nil {
			return nil
		}
		select {
		case <-time.After(100 * time.Millisecond):
		case <-s.exited:
		case <-ctx.Done():
		}
	}
}

func (s *llamaSubprocessSession) ChatCompletion(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	select {
	case <-s.exited:
		return ChatResponse{}, fmt.Errorf("llama-server exited: %v; stderr tail: %s", s.waitErr, s.stderr.String())
	default:
	}
	return s.client.complete(ctx, "", req)
}

// Close terminates the server: SIGTERM first, then kill after a grace period.
func (s *llamaSubprocessSession) Close() error {
	s.once.Do(func() {
		if s.cmd == nil || s.cmd.Process == nil {
			return
		}
		_ = s.cmd.Process.Signal(syscall.SIGTERM)
		select {
		case <-s.exited:
		case <-time.After(2 * time.Second):
			_ = s.cmd.Process.Kill()
			<-s.exited
		}
		s.a.publisher.Publish(Event{Name: "spawn_stop", ModelID: s.model, Fields: map[string]any{"pid": s.cmd.Process.Pid}})
	})
	return nil
}

// pid returns the server process id (0 if not started).
func (s *llamaSubprocessSession) pid() int {
	if s.cmd == nil || s.cmd.Process == nil {
		return 0
	}
	return s.cmd.Process.Pid
}

func pickPortInRange(host string, start, end int) (int, error) {
	for p := start; p <= end; p++ {
		l, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(p)))
		if err != nil {
			continue
		}
		_ = l.Close()
		return p, nil
	}
	return 0, fmt.Errorf("no free port in range %d-%d", start, end)
}

func pickFreePort(host string) (int, error) {
	l, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		return 0, err
	}
	defer l.Close()
	addr, ok := l.Addr().(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("unexpected addr: %s", l.Addr())
	}
	return addr.Port, nil
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	buf []byte
	max int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; t.max > 0 && over > 0 {
		t.buf = append([]byte(nil), t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.TrimSpace(string(t.buf))
}
