package config

// Defaults mirror the artifacts and runtime settings the service was built around:
// MiniCPM-V 2.6 (Q4_K_M) with its f16 vision projector, 2048 context, 30 GPU layers.
const (
	DefaultAddr           = "0.0.0.0:8000"
	DefaultModelsDir      = "models"
	DefaultHubURL         = "https://huggingface.co"
	DefaultHubRevision    = "main"
	DefaultRepoID         = "openbmb/MiniCPM-V-2_6-gguf"
	DefaultModelFile      = "ggml-model-Q4_K_M.gguf"
	DefaultMMProjFile     = "mmproj-model-f16.gguf"
	DefaultCtxSize        = 2048
	DefaultGPULayers      = 30
	DefaultMaxQueueDepth  = 8
	DefaultMaxWaitSeconds = 300
	DefaultMaxBodyMB      = 32
	DefaultLogLevel       = "info"
)

// Defaults returns a fully populated configuration.
func Defaults() Config {
	return Config{
		Addr:           DefaultAddr,
		ModelsDir:      DefaultModelsDir,
		HubURL:         DefaultHubURL,
		HubRevision:    DefaultHubRevision,
		RepoID:         DefaultRepoID,
		ModelFile:      DefaultModelFile,
		MMProjFile:     DefaultMMProjFile,
		CtxSize:        DefaultCtxSize,
		GPULayers:      DefaultGPULayers,
		MaxQueueDepth:  DefaultMaxQueueDepth,
		MaxWaitSeconds: DefaultMaxWaitSeconds,
		MaxBodyMB:      DefaultMaxBodyMB,
		LogLevel:       DefaultLogLevel,
		CORSOrigins:    []string{"*"},
	}
}
