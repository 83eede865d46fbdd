package manager

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Load builds the inference session. It runs at most once per Manager: a
// second call returns ErrAlreadyLoaded. Errors are meant to abort startup.
func (m *Manager) Load(ctx context.Context) error {
	if !m.loadOnce.CompareAndSwap(false, true) {
		return ErrAlreadyLoaded
	}
	spec := m.spec
	if strings.TrimSpace(spec.ModelPath) == "" || strings.TrimSpace(spec.MMProjPath) == "" {
		err := errors.New("model and mmproj paths are required")
		m.setError(err)
		return err
	}
	if m.adapter == nil {
		err := ErrDependencyUnavailable("inference adapter not initialized")
		m.setError(err)
		return err
	}
	m.mu.Lock()
	m.state = StateLoading
	m.mu.Unlock()
	m.publish(Event{Name: "session_load_start", ModelID: spec.ModelPath, Fields: map[string]any{
		"adapter":    m.adapter.Name(),
		"mmproj":     spec.MMProjPath,
		"ctx_size":   spec.CtxSize,
		"gpu_layers": spec.GPULayers,
	}})
	start := time.Now()
	sess, err := m.adapter.Start(ctx, spec)
	if err != nil {
		m.setError(err)
		return err
	}
	m.mu.Lock()
	m.session = sess
	m.state = StateReady
	m.err = ""
	m.mu.Unlock()
	m.publish(Event{Name: "session_ready", ModelID: spec.ModelPath, Fields: map[string]any{"load_ms": time.Since(start).Milliseconds()}})
	return nil
}

func (m *Manager) setError(err error) {
	m.mu.Lock()
	m.state = StateError
	m.err = err.Error()
	m.mu.Unlock()
	m.publish(Event{Name: "session_error", ModelID: m.spec.ModelPath, Fields: map[string]any{"error": err.Error()}})
}
