package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"visiond/internal/config"
)

// options holds raw flag values; only flags the user changed are applied.
type options struct {
	configPath     string
	addr           string
	modelsDir      string
	hubURL         string
	hubRevision    string
	llamaBin       string
	llamaServerURL string
	ctxSize        int
	gpuLayers      int
	threads        int
	maxQueue       int
	maxWait        int
	maxBodyMB      int
	inferTimeout   int
	logLevel       string
	logPretty      bool
	corsOrigins    []string
}

func newRootCmd() *cobra.Command { return newRootCmdWith(&options{}) }

// newRootCmdWith builds the command tree with flags bound to opts.
func newRootCmdWith(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "visiond",
		Short:         "Vision-language model HTTP service",
		Long:          "visiond provisions a vision-language model and its projector, builds one inference session and serves /example and /analyze.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Config file (.yaml, .yml, .json, .toml)")
	pf.StringVar(&opts.addr, "addr", config.DefaultAddr, "HTTP listen address")
	pf.StringVar(&opts.modelsDir, "models-dir", config.DefaultModelsDir, "Directory holding the model artifacts")
	pf.StringVar(&opts.hubURL, "hub-url", config.DefaultHubURL, "Model hub base URL")
	pf.StringVar(&opts.hubRevision, "hub-revision", config.DefaultHubRevision, "Hub revision to download from")
	pf.StringVar(&opts.llamaBin, "llama-bin", "", "Path to llama-server (discovered when empty)")
	pf.StringVar(&opts.llamaServerURL, "llama-server-url", "", "Use an already running llama-server instead of spawning one")
	pf.IntVar(&opts.ctxSize, "ctx-size", config.DefaultCtxSize, "Context length of the session")
	pf.IntVar(&opts.gpuLayers, "gpu-layers", config.DefaultGPULayers, "Layers offloaded to the GPU (-1 for CPU only)")
	pf.IntVar(&opts.threads, "threads", 0, "CPU threads for inference (0 = runtime default)")
	pf.IntVar(&opts.maxQueue, "max-queue", config.DefaultMaxQueueDepth, "Maximum queued /analyze requests before 429")
	pf.IntVar(&opts.maxWait, "max-wait", config.DefaultMaxWaitSeconds, "Seconds a request may wait for the model before 429")
	pf.IntVar(&opts.maxBodyMB, "max-body-mb", config.DefaultMaxBodyMB, "Maximum request body size in MiB")
	pf.IntVar(&opts.inferTimeout, "infer-timeout", 0, "Seconds an /analyze call may run (0 disables)")
	pf.StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel, "Log level: debug|info|warn|error")
	pf.BoolVar(&opts.logPretty, "log-pretty", false, "Human readable console logs")
	pf.StringSliceVar(&opts.corsOrigins, "cors-origins", []string{"*"}, "Allowed CORS origins")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Provision artifacts, load the model and serve HTTP (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	check := &cobra.Command{
		Use:   "check",
		Short: "Report artifact presence and llama-server discovery without downloading",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}
	root.AddCommand(serve, check)
	return root
}

// resolveConfig layers defaults, environment, config file and changed flags,
// later sources winning.
func resolveConfig(cmd *cobra.Command, opts *options, getenv func(string) string) (config.Config, error) {
	cfg := config.Merge(config.Defaults(), config.FromEnv(getenv))
	if opts.configPath != "" {
		fileCfg, err := config.Load(opts.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = config.Merge(cfg, fileCfg)
	}
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	var fl config.Config
	if changed("addr") {
		fl.Addr = opts.addr
	}
	if changed("models-dir") {
		fl.ModelsDir = opts.modelsDir
	}
	if changed("hub-url") {
		fl.HubURL = opts.hubURL
	}
	if changed("hub-revision") {
		fl.HubRevision = opts.hubRevision
	}
	if changed("llama-bin") {
		fl.LlamaBin = opts.llamaBin
	}
	if changed("llama-server-url") {
		fl.LlamaServerURL = opts.llamaServerURL
	}
	if changed("ctx-size") {
		fl.CtxSize = opts.ctxSize
	}
	if changed("gpu-layers") {
		fl.GPULayers = opts.gpuLayers
	}
	if changed("threads") {
		fl.Threads = opts.threads
	}
	if changed("max-queue") {
		fl.MaxQueueDepth = opts.maxQueue
	}
	if changed("max-wait") {
		fl.MaxWaitSeconds = opts.maxWait
	}
	if changed("max-body-mb") {
		fl.MaxBodyMB = opts.maxBodyMB
	}
	if changed("log-level") {
		fl.LogLevel = opts.logLevel
	}
	if changed("cors-origins") {
		fl.CORSOrigins = opts.corsOrigins
	}
	return config.Merge(cfg, fl), nil
}

// newLogger builds the process logger. Unknown levels fall back to info.
func newLogger(level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
