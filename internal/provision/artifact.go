package provision

import (
	"path/filepath"
	"strings"
)

// Artifact identifies a binary file in a remote repository.
type Artifact struct {
	// Role is a short label used in logs and status output (e.g. "model", "mmproj").
	Role     string
	RepoID   string
	Filename string
}

// LocalPath returns the deterministic on-disk location of the artifact under dir.
func (a Artifact) LocalPath(dir string) string {
	return filepath.Join(dir, filepath.FromSlash(a.Filename))
}

func (a Artifact) String() string {
	return a.RepoID + "/" + a.Filename
}

func (a Artifact) validate() error {
	if strings.TrimSpace(a.RepoID) == "" {
		return errInvalidArtifact{a: a, why: "empty repository id"}
	}
	name := strings.TrimSpace(a.Filename)
	if name == "" {
		return errInvalidArtifact{a: a, why: "empty filename"}
	}
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(name)))
	if strings.HasPrefix(clean, "../") || clean == ".." || filepath.IsAbs(name) {
		return errInvalidArtifact{a: a, why: "filename escapes the model directory"}
	}
	return nil
}

type errInvalidArtifact struct {
	a   Artifact
	why string
}

func (e errInvalidArtifact) Error() string { return "invalid artifact " + e.a.String() + ": " + e.why }

// ModelArtifacts returns the primary weights and vision projection artifacts
// stored in the same repository.
func ModelArtifacts(repoID, modelFile, mmprojFile string) (model, mmproj Artifact) {
	return Artifact{Role: "model", RepoID: repoID, Filename: modelFile},
		Artifact{Role: "mmproj", RepoID: repoID, Filename: mmprojFile}
}
