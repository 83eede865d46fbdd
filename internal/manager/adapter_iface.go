package manager

import (
	"context"

	"visiond/internal/prompt"
)

// InferenceAdapter abstracts the model runtime used by the Manager.
// Concrete implementations (e.g., llama.cpp server) should satisfy this interface.
type InferenceAdapter interface {
	// Name identifies the adapter in status output and logs.
	Name() string
	// Start loads the model described by spec and returns a reusable chat session.
	Start(ctx context.Context, spec SessionSpec) (ChatSession, error)
}

// ChatSession is a loaded model able to answer multimodal chat completions.
// Implementations are not required to be safe for concurrent use; the
// Manager serializes calls.
type ChatSession interface {
	ChatCompletion(ctx context.Context, req ChatRequest) (ChatResponse, error)
	// Close releases any resources associated with the session.
	Close() error
}

// SessionSpec describes the artifacts and runtime settings of a session.
type SessionSpec struct {
	ModelPath  string
	MMProjPath string
	CtxSize    int
	GPULayers  int
	Threads    int
}

// ChatRequest is a single chat completion call.
type ChatRequest struct {
	Messages    []prompt.Message
	MaxTokens   int
	Temperature float32
}

// ChatResponse mirrors the OpenAI chat completion response shape.
type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice is one completion alternative.
type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

// ChoiceMessage is the assistant message of a choice.
type ChoiceMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage contains token accounting.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
