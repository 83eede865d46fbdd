package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified"; Merge and Defaults fill them in.
type Config struct {
	Addr           string   `json:"addr" yaml:"addr" toml:"addr"`
	ModelsDir      string   `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	HubURL         string   `json:"hub_url" yaml:"hub_url" toml:"hub_url"`
	HubToken       string   `json:"hub_token" yaml:"hub_token" toml:"hub_token"`
	HubRevision    string   `json:"hub_revision" yaml:"hub_revision" toml:"hub_revision"`
	RepoID         string   `json:"repo_id" yaml:"repo_id" toml:"repo_id"`
	ModelFile      string   `json:"model_file" yaml:"model_file" toml:"model_file"`
	MMProjFile     string   `json:"mmproj_file" yaml:"mmproj_file" toml:"mmproj_file"`
	CtxSize        int      `json:"ctx_size" yaml:"ctx_size" toml:"ctx_size"`
	GPULayers      int      `json:"gpu_layers" yaml:"gpu_layers" toml:"gpu_layers"`
	Threads        int      `json:"threads" yaml:"threads" toml:"threads"`
	LlamaBin       string   `json:"llama_bin" yaml:"llama_bin" toml:"llama_bin"`
	LlamaServerURL string   `json:"llama_server_url" yaml:"llama_server_url" toml:"llama_server_url"`
	LlamaAPIKey    string   `json:"llama_api_key" yaml:"llama_api_key" toml:"llama_api_key"`
	MaxQueueDepth  int      `json:"max_queue_depth" yaml:"max_queue_depth" toml:"max_queue_depth"`
	MaxWaitSeconds int      `json:"max_wait_seconds" yaml:"max_wait_seconds" toml:"max_wait_seconds"`
	MaxBodyMB      int      `json:"max_body_mb" yaml:"max_body_mb" toml:"max_body_mb"`
	LogLevel       string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	CORSOrigins    []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// FromEnv collects overrides from the process environment.
// HF_ENDPOINT and HF_TOKEN follow the hub client conventions.
func FromEnv(getenv func(string) string) Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	return Config{
		Addr:           getenv("VISIOND_ADDR"),
		ModelsDir:      getenv("VISIOND_MODELS_DIR"),
		HubURL:         getenv("HF_ENDPOINT"),
		HubToken:       getenv("HF_TOKEN"),
		LlamaBin:       getenv("VISIOND_LLAMA_BIN"),
		LlamaServerURL: getenv("VISIOND_LLAMA_SERVER_URL"),
		LlamaAPIKey:    getenv("VISIOND_LLAMA_API_KEY"),
		LogLevel:       getenv("VISIOND_LOG_LEVEL"),
	}
}

// Merge returns base with every non-zero field of override applied on top.
func Merge(base, override Config) Config {
	out := base
	setStr(&out.Addr, override.Addr)
	setStr(&out.ModelsDir, override.ModelsDir)
	setStr(&out.HubURL, override.HubURL)
	setStr(&out.HubToken, override.HubToken)
	setStr(&out.HubRevision, override.HubRevision)
	setStr(&out.RepoID, override.RepoID)
	setStr(&out.ModelFile, override.ModelFile)
	setStr(&out.MMProjFile, override.MMProjFile)
	setInt(&out.CtxSize, override.CtxSize)
	setInt(&out.GPULayers, override.GPULayers)
	setInt(&out.Threads, override.Threads)
	setStr(&out.LlamaBin, override.LlamaBin)
	setStr(&out.LlamaServerURL, override.LlamaServerURL)
	setStr(&out.LlamaAPIKey, override.LlamaAPIKey)
	setInt(&out.MaxQueueDepth, override.MaxQueueDepth)
	setInt(&out.MaxWaitSeconds, override.MaxWaitSeconds)
	setInt(&out.MaxBodyMB, override.MaxBodyMB)
	setStr(&out.LogLevel, override.LogLevel)
	if len(override.CORSOrigins) > 0 {
		out.CORSOrigins = append([]string(nil), override.CORSOrigins...)
	}
	return out
}

func setStr(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
