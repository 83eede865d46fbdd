package manager

import (
	"os"
	"os/exec"
	"path/filepath"
)

// SanityReport describes runtime checks for external dependencies.
type SanityReport struct {
	Adapter    string `json:"adapter"`
	LlamaFound bool   `json:"llama_found"`
	LlamaPath  string `json:"llama_path,omitempty"`
	Error      string `json:"error,omitempty"`
}

// SanityCheck validates that required external binaries are available.
// It does not mutate state and is safe to call at any time.
func (m *Manager) SanityCheck() SanityReport {
	r := SanityReport{}
	if m.adapter == nil {
		r.Error = "no inference adapter configured"
		return r
	}
	r.Adapter = m.adapter.Name()
	if _, ok := m.adapter.(*llamaSubprocessAdapter); !ok {
		// Non-spawning adapters have no local binary to verify.
		r.LlamaFound = true
		return r
	}
	// Try configured path first, then discovery.
	bin := m.llamaBin
	if bin == "" {
		bin = discoverLlamaBin()
	}
	if bin == "" {
		r.Error = "llama-server not found"
		return r
	}
	r.LlamaPath = bin
	fi, err := os.Stat(bin)
	switch {
	case err != nil:
		r.Error = err.Error()
	case fi.IsDir():
		r.Error = "llama path is a directory"
	default:
		r.LlamaFound = true
	}
	return r
}

// discoverLlamaBin attempts to locate a llama.cpp server binary in common paths.
func discoverLlamaBin() string {
	home, _ := os.UserHomeDir()
	candidates := []string{
		filepath.Join(home, "apps", "llama.cpp", "build", "bin", "llama-server"),
		filepath.Join(home, "llama.cpp", "build", "bin", "llama-server"),
		"/usr/local/bin/llama-server",
		"/opt/homebrew/bin/llama-server",
	}
	for _, p := range candidates {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p
		}
	}
	if lp, err := exec.LookPath("llama-server"); err == nil {
		return lp
	}
	return ""
}
