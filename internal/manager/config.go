package manager

import (
	"time"

	"github.com/rs/zerolog"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultCtxSize       = 2048
	defaultGPULayers     = 30
	defaultMaxQueueDepth = 8
	defaultMaxWait       = 5 * time.Minute
	defaultReadyTimeout  = 2 * time.Minute
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	// Artifacts resolved by the provisioner.
	ModelPath  string
	MMProjPath string
	// Runtime shape of the session.
	CtxSize   int
	GPULayers int
	Threads   int
	// Admission: queued + in-flight requests, and how long one may wait.
	MaxQueueDepth int
	MaxWait       time.Duration
	// Inference / llama.cpp configuration (no envs; set by callers)
	LlamaBin          string
	LlamaHost         string
	LlamaPortStart    int
	LlamaPortEnd      int
	LlamaExtraArgs    []string
	LlamaReadyTimeout time.Duration
	// LlamaServerURL selects an external llama-server instead of spawning one.
	LlamaServerURL  string
	LlamaAPIKey     string
	LlamaReqTimeout time.Duration
	// Adapter overrides adapter selection (tests, embedding).
	Adapter   InferenceAdapter
	Publisher EventPublisher
	Logger    *zerolog.Logger
}

// NewWithConfig constructs a Manager from ManagerConfig. The session is not
// created until Load is called.
func NewWithConfig(cfg ManagerConfig) *Manager {
	if cfg.CtxSize <= 0 {
		cfg.CtxSize = defaultCtxSize
	}
	if cfg.GPULayers < 0 {
		cfg.GPULayers = 0
	} else if cfg.GPULayers == 0 {
		cfg.GPULayers = defaultGPULayers
	}
	if cfg.MaxQueueDepth <= 0 {
		cfg.MaxQueueDepth = defaultMaxQueueDepth
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = defaultMaxWait
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	m := &Manager{
		state:     StateUnloaded,
		spec:      SessionSpec{ModelPath: cfg.ModelPath, MMProjPath: cfg.MMProjPath, CtxSize: cfg.CtxSize, GPULayers: cfg.GPULayers, Threads: cfg.Threads},
		maxWait:   cfg.MaxWait,
		queueCh:   make(chan struct{}, cfg.MaxQueueDepth),
		genCh:     make(chan struct{}, 1),
		publisher: noopPublisher{},
		logger:    logger,
		startTime: time.Now(),
	}
	switch {
	case cfg.Adapter != nil:
		m.adapter = cfg.Adapter
	case cfg.LlamaServerURL != "":
		m.adapter = NewLlamaServerAdapter(cfg.LlamaServerURL, cfg.LlamaAPIKey, cfg.LlamaReqTimeout, 5*time.Second)
	default:
		m.adapter = NewLlamaSubprocessAdapter(cfg)
	}
	m.llamaBin = cfg.LlamaBin
	m.SetEventPublisher(cfg.Publisher)
	return m
}
