package provision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"visiond/internal/common/fsutil"
)

// Provisioner makes sure model artifacts are present in Dir, downloading
// missing ones from Hub. It performs no retries: any failure is returned.
type Provisioner struct {
	Dir    string
	Hub    Hub
	Logger zerolog.Logger
}

// New constructs a Provisioner with a no-op logger.
func New(dir string, hub Hub) *Provisioner {
	return &Provisioner{Dir: dir, Hub: hub, Logger: zerolog.Nop()}
}

// PlanEntry reports where an artifact lives and whether it is already present.
type PlanEntry struct {
	Artifact Artifact
	Path     string
	Present  bool
}

// Plan resolves local paths without touching the network or creating directories.
func (p *Provisioner) Plan(artifacts ...Artifact) ([]PlanEntry, error) {
	dir, err := fsutil.ExpandHome(p.Dir)
	if err != nil {
		return nil, err
	}
	if dir, err = filepath.Abs(dir); err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	out := make([]PlanEntry, 0, len(artifacts))
	for _, a := range artifacts {
		if err := a.validate(); err != nil {
			return nil, err
		}
		path := a.LocalPath(dir)
		out = append(out, PlanEntry{Artifact: a, Path: path, Present: fsutil.PathExists(path)})
	}
	return out, nil
}

// Ensure returns the local path of every artifact, in order, downloading the
// ones that are missing. The model directory is created if absent.
func (p *Provisioner) Ensure(ctx context.Context, artifacts ...Artifact) ([]string, error) {
	dir, err := fsutil.ResolveDir(p.Dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		if err := a.validate(); err != nil {
			return nil, err
		}
		path := a.LocalPath(dir)
		if fsutil.PathExists(path) {
			p.Logger.Debug().Str("artifact", a.String()).Str("path", path).Msg("artifact present")
			paths = append(paths, path)
			continue
		}
		if err := p.download(ctx, a, path); err != nil {
			downloadsTotal.WithLabelValues(a.Role, "error").Inc()
			return nil, fmt.Errorf("provision %s: %w", a, err)
		}
		downloadsTotal.WithLabelValues(a.Role, "ok").Inc()
		paths = append(paths, path)
	}
	return paths, nil
}

func (p *Provisioner) download(ctx context.Context, a Artifact, path string) error {
	if p.Hub == nil {
		return fmt.Errorf("no hub configured and %s is missing", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	staging := path + "." + uuid.NewString() + ".part"
	f, err := os.Create(staging)
	if err != nil {
		return err
	}
	// Cleanup is a no-op once the staging file has been promoted.
	defer func() { _ = os.Remove(staging) }()

	p.Logger.Info().Str("artifact", a.String()).Str("path", path).Msg("downloading artifact")
	start := time.Now()
	n, err := p.Hub.Fetch(ctx, a.RepoID, a.Filename, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if err := fsutil.Promote(staging, path); err != nil {
		return err
	}
	downloadBytes.WithLabelValues(a.Role).Add(float64(n))
	p.Logger.Info().Str("artifact", a.String()).Str("path", path).Int64("bytes", n).Dur("dur", time.Since(start)).Msg("downloaded artifact")
	return nil
}
