package main

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"visiond/internal/manager"
	"visiond/internal/provision"
)

type checkReport struct {
	ModelsDir string               `json:"models_dir"`
	Artifacts []checkArtifact      `json:"artifacts"`
	Runtime   manager.SanityReport `json:"runtime"`
}

type checkArtifact struct {
	Role    string `json:"role"`
	Source  string `json:"source"`
	Path    string `json:"path"`
	Present bool   `json:"present"`
}

// runCheck prints where the artifacts would live and whether llama-server can
// be found. It never downloads. Exits non-zero when the runtime is missing.
func runCheck(cmd *cobra.Command, opts *options) error {
	cfg, err := resolveConfig(cmd, opts, os.Getenv)
	if err != nil {
		return err
	}
	prov := provision.New(cfg.ModelsDir, nil)
	model, mmproj := provision.ModelArtifacts(cfg.RepoID, cfg.ModelFile, cfg.MMProjFile)
	plan, err := prov.Plan(model, mmproj)
	if err != nil {
		return err
	}
	rep := checkReport{ModelsDir: cfg.ModelsDir}
	for _, e := range plan {
		rep.Artifacts = append(rep.Artifacts, checkArtifact{Role: e.Artifact.Role, Source: e.Artifact.String(), Path: e.Path, Present: e.Present})
	}
	mgr := manager.NewWithConfig(manager.ManagerConfig{
		ModelPath:      plan[0].Path,
		MMProjPath:     plan[1].Path,
		LlamaBin:       cfg.LlamaBin,
		LlamaServerURL: cfg.LlamaServerURL,
		LlamaAPIKey:    cfg.LlamaAPIKey,
	})
	rep.Runtime = mgr.SanityCheck()

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return err
	}
	if !rep.Runtime.LlamaFound {
		return errors.New("llama-server runtime not available")
	}
	return nil
}
