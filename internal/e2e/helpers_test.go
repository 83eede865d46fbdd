package e2e

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeHub serves artifact bytes under /<repo>/resolve/<rev>/<file> and counts requests.
type fakeHub struct {
	srv   *httptest.Server
	calls atomic.Int32
}

func newFakeHub(t *testing.T) *fakeHub {
	t.Helper()
	h := &fakeHub{}
	h.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.calls.Add(1)
		if !strings.Contains(r.URL.Path, "/resolve/main/") {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("GGUF" + r.URL.Path))
	}))
	t.Cleanup(h.srv.Close)
	return h
}

// fakeLlama is an OpenAI-compatible chat server standing in for llama-server.
type fakeLlama struct {
	srv      *httptest.Server
	delay    time.Duration
	mu       sync.Mutex
	inflight int
	maxSeen  int
	images   []string
}

func newFakeLlama(t *testing.T, delay time.Duration) *fakeLlama {
	t.Helper()
	f := &fakeLlama{delay: delay}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"ggml-model-Q4_K_M"}]}`))
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string          `json:"role"`
				Content json.RawMessage `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.inflight++
		if f.inflight > f.maxSeen {
			f.maxSeen = f.inflight
		}
		for _, m := range req.Messages {
			var parts []struct {
				Type     string `json:"type"`
				ImageURL *struct {
					URL string `json:"url"`
				} `json:"image_url"`
			}
			if json.Unmarshal(m.Content, &parts) == nil {
				for _, p := range parts {
					if p.ImageURL != nil {
						f.images = append(f.images, p.ImageURL.URL)
					}
				}
			}
		}
		f.mu.Unlock()
		time.Sleep(f.delay)
		f.mu.Lock()
		f.inflight--
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": `{"description":"a tiny image"}`}}},
		})
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func tinyPNG(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("png: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func post(t *testing.T, url, body string) (int, string) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Errorf("post: %v", err)
		return 0, ""
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}
