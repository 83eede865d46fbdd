package manager

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"
)

// llamaServerAdapter implements InferenceAdapter by talking to an already
// running llama.cpp server (started with the same model and --mmproj) over its
// OpenAI-compatible chat API.
type llamaServerAdapter struct {
	client     *chatClient
	reqTimeout time.Duration
}

// NewLlamaServerAdapter constructs a server-backed adapter.
func NewLlamaServerAdapter(baseURL, apiKey string, reqTimeout, connectTimeout time.Duration) InferenceAdapter {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	// Timeout=0: deadlines are carried by the request context (see ChatCompletion).
	cli := &http.Client{Transport: tr, Timeout: 0}
	return &llamaServerAdapter{
		client:     &chatClient{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, httpClient: cli},
		reqTimeout: reqTimeout,
	}
}

func (a *llamaServerAdapter) Name() string { return "llama_server" }

// Start verifies the server is reachable. The artifact paths in spec are not
// sent; the remote server is expected to have loaded them already.
func (a *llamaServerAdapter) Start(ctx context.Context, spec SessionSpec) (ChatSession, error) {
	if a.client == nil || a.client.baseURL == "" {
		return nil, errors.New("llama server url is empty")
	}
	if err := a.client.ping(ctx, 5*time.Second); err != nil {
		return nil, ErrDependencyUnavailable("llama server unreachable at " + a.client.baseURL + ": " + err.Error())
	}
	return &llamaServerSession{adapter: a, modelID: modelIDFromPath(spec.ModelPath)}, nil
}

// llamaServerSession holds per-session state.
type llamaServerSession struct {
	adapter *llamaServerAdapter
	modelID string
}

func (s *llamaServerSession) ChatCompletion(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	if s.adapter.reqTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.adapter.reqTimeout)
		defer cancel()
	}
	return s.adapter.client.complete(ctx, s.modelID, req)
}

func (s *llamaServerSession) Close() error { return nil }

// modelIDFromPath turns /models/ggml-model-Q4_K_M.gguf into ggml-model-Q4_K_M.
func modelIDFromPath(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		p = p[i+1:]
	}
	return strings.TrimSuffix(p, ".gguf")
}
