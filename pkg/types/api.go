package types

// AnalyzeRequest is the body accepted by POST /analyze.
type AnalyzeRequest struct {
	// Image as base64 text, optionally already formatted as a data URI.
	// Without a data URI header the payload is assumed to be JPEG.
	// example: data:image/png;base64,iVBORw0KGgo...
	Image string `json:"image" example:"data:image/png;base64,iVBORw0KGgo..."`
}

// TextResponse wraps the model output (or the canned example) returned by
// POST /analyze and POST /example.
type TextResponse struct {
	// Raw model text. Usually a JSON document describing the scene, but it is not validated.
	// example: {"description":"A man eating a sandwich","objects":[]}
	Text string `json:"text" example:"{\"description\":\"A man eating a sandwich\",\"objects\":[]}"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Human readable error detail.
	// example: Invalid image data: illegal base64 data at input byte 4
	Detail string `json:"detail" example:"Invalid image data: illegal base64 data at input byte 4"`
	// HTTP status code.
	// example: 400
	Code int `json:"code,omitempty" example:"400"`
}

// ArtifactStatus describes one model artifact backing the session.
type ArtifactStatus struct {
	// Role of the artifact (model or mmproj).
	// example: mmproj
	Role string `json:"role" example:"mmproj"`
	// Absolute path on disk.
	// example: /srv/models/mmproj-model-f16.gguf
	Path string `json:"path" example:"/srv/models/mmproj-model-f16.gguf"`
	// File size in bytes (0 if the file cannot be read).
	// example: 1044480000
	SizeBytes int64 `json:"size_bytes" example:"1044480000"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Session lifecycle state (loading, ready, error, closed).
	// example: ready
	State string `json:"state" example:"ready"`
	// Runtime adapter in use.
	// example: llama_subprocess
	Adapter string `json:"adapter,omitempty" example:"llama_subprocess"`
	// Process ID of the spawned llama-server (when spawn mode is active).
	// example: 12345
	PID int `json:"pid,omitempty" example:"12345"`
	// Artifacts the session was built from.
	Artifacts []ArtifactStatus `json:"artifacts"`
	// Context length the session was configured with.
	// example: 2048
	CtxSize int `json:"ctx_size" example:"2048"`
	// Number of layers offloaded to the GPU.
	// example: 30
	GPULayers int `json:"gpu_layers" example:"30"`
	// Requests waiting for or holding the inference slot.
	// example: 1
	QueueLen int `json:"queue_len" example:"1"`
	// Requests currently running inference (0 or 1).
	// example: 1
	Inflight int `json:"inflight" example:"1"`
	// Maximum queued requests before backpressure triggers.
	// example: 8
	MaxQueueDepth int `json:"max_queue_depth" example:"8"`
	// Completed chat completions since start.
	// example: 42
	CompletionsTotal uint64 `json:"completions_total" example:"42"`
	// Last error observed by the manager (if any).
	LastError string `json:"last_error,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
