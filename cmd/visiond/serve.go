package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"visiond/internal/config"
	"visiond/internal/httpapi"
	"visiond/internal/manager"
	"visiond/internal/provision"
)

// runServe provisions both artifacts, builds the session and serves HTTP.
// Any provisioning or load failure aborts before the listener starts.
func runServe(cmd *cobra.Command, opts *options) error {
	cfg, err := resolveConfig(cmd, opts, os.Getenv)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel, opts.logPretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	modelPath, mmprojPath, err := provisionArtifacts(ctx, cfg, logger)
	if err != nil {
		return err
	}

	mgr := newManager(cfg, modelPath, mmprojPath, logger)
	defer mgr.Close()
	logger.Info().Str("model", modelPath).Str("mmproj", mmprojPath).Int("ctx_size", cfg.CtxSize).Int("gpu_layers", cfg.GPULayers).Msg("loading model")
	if err := mgr.Load(ctx); err != nil {
		return err
	}

	httpapi.SetLogger(logger.With().Str("component", "http").Logger())
	httpapi.SetDefaultLogLevel(cfg.LogLevel)
	httpapi.SetMaxBodyBytes(int64(cfg.MaxBodyMB) << 20)
	httpapi.SetInferTimeoutSeconds(int64(opts.inferTimeout))
	httpapi.SetCORSOptions(true, cfg.CORSOrigins, nil, nil)

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(mgr),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("visiond listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	// Graceful shutdown (Ctrl+C / SIGTERM)
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cancelBase()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("graceful shutdown error")
	}
	return nil
}

func provisionArtifacts(ctx context.Context, cfg config.Config, logger zerolog.Logger) (string, string, error) {
	prov := provision.New(cfg.ModelsDir, provision.NewHTTPHub(cfg.HubURL, cfg.HubRevision, cfg.HubToken))
	prov.Logger = logger.With().Str("component", "provision").Logger()
	model, mmproj := provision.ModelArtifacts(cfg.RepoID, cfg.ModelFile, cfg.MMProjFile)
	paths, err := prov.Ensure(ctx, model, mmproj)
	if err != nil {
		return "", "", err
	}
	return paths[0], paths[1], nil
}

func newManager(cfg config.Config, modelPath, mmprojPath string, logger zerolog.Logger) *manager.Manager {
	mlog := logger.With().Str("component", "manager").Logger()
	return manager.NewWithConfig(manager.ManagerConfig{
		ModelPath:      modelPath,
		MMProjPath:     mmprojPath,
		CtxSize:        cfg.CtxSize,
		GPULayers:      cfg.GPULayers,
		Threads:        cfg.Threads,
		MaxQueueDepth:  cfg.MaxQueueDepth,
		MaxWait:        time.Duration(cfg.MaxWaitSeconds) * time.Second,
		LlamaBin:       cfg.LlamaBin,
		LlamaServerURL: cfg.LlamaServerURL,
		LlamaAPIKey:    cfg.LlamaAPIKey,
		Publisher:      manager.LogPublisher{Logger: mlog},
		Logger:         &mlog,
	})
}
