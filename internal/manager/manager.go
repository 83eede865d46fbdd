package manager

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Manager owns the single inference session of the process and serializes
// access to it.
type Manager struct {
	mu        sync.RWMutex
	state     State
	err       string
	spec      SessionSpec
	adapter   InferenceAdapter
	session   ChatSession
	loadOnce  atomic.Bool
	llamaBin  string
	publisher EventPublisher
	logger    zerolog.Logger

	// Queue config
	maxWait time.Duration
	genCh   chan struct{} // size 1: single in-flight generation
	queueCh chan struct{} // buffered: queue slots

	completions atomic.Uint64
	startTime   time.Time
}

// New constructs a Manager for the two artifacts with default settings.
func New(modelPath, mmprojPath string) *Manager {
	// Delegate to NewWithConfig to centralize defaults and option parsing
	return NewWithConfig(ManagerConfig{ModelPath: modelPath, MMProjPath: mmprojPath})
}

// Ready reports whether the session is loaded and serving.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateReady && m.session != nil
}

// SetEventPublisher installs a publisher for manager and adapter events.
func (m *Manager) SetEventPublisher(p EventPublisher) {
	if p == nil {
		p = noopPublisher{}
	}
	m.mu.Lock()
	m.publisher = p
	m.mu.Unlock()
	if sa, ok := m.adapter.(*llamaSubprocessAdapter); ok {
		sa.setPublisher(p)
		sa.setLogger(m.logger)
	}
}

func (m *Manager) publish(e Event) {
	m.mu.RLock()
	p := m.publisher
	m.mu.RUnlock()
	p.Publish(e)
}

// Close releases the session. The manager cannot be reloaded afterwards.
func (m *Manager) Close() error {
	m.mu.Lock()
	sess := m.session
	m.session = nil
	m.state = StateClosed
	m.mu.Unlock()
	m.loadOnce.Store(true)
	if sess == nil {
		return nil
	}
	return sess.Close()
}
