package provision

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Hub fetches named files from a remote artifact repository.
type Hub interface {
	Fetch(ctx context.Context, repoID, filename string, dst io.Writer) (int64, error)
}

// HTTPHub downloads files using the Hugging Face "resolve" URL layout:
// <base>/<repo>/resolve/<revision>/<filename>.
type HTTPHub struct {
	BaseURL  string
	Revision string
	Token    string
	Client   *http.Client
}

// NewHTTPHub constructs a hub client. Empty baseURL/revision fall back to
// huggingface.co and "main".
func NewHTTPHub(baseURL, revision, token string) *HTTPHub {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://huggingface.co"
	}
	if strings.TrimSpace(revision) == "" {
		revision = "main"
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
	}
	// No overall timeout: artifacts are multiple GB; cancellation comes from ctx.
	return &HTTPHub{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Revision: revision,
		Token:    token,
		Client:   &http.Client{Transport: tr, Timeout: 0},
	}
}

// FileURL returns the download URL of filename in repoID.
func (h *HTTPHub) FileURL(repoID, filename string) string {
	return h.BaseURL + "/" + escapeSegments(repoID) + "/resolve/" + url.PathEscape(h.Revision) + "/" + escapeSegments(filename)
}

func escapeSegments(p string) string {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	for i := range parts {
		parts[i] = url.PathEscape(parts[i])
	}
	return strings.Join(parts, "/")
}

// Fetch streams the file body into dst and returns the number of bytes written.
func (h *HTTPHub) Fetch(ctx context.Context, repoID, filename string, dst io.Writer) (int64, error) {
	cli := h.Client
	if cli == nil {
		cli = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.FileURL(repoID, filename), nil)
	if err != nil {
		return 0, err
	}
	if h.Token != "" {
		req.Header.Set("Authorization", "Bearer "+h.Token)
	}
	resp, err := cli.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, fmt.Errorf("hub http error: %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}
	n, err := io.Copy(dst, resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return n, ctx.Err()
		}
		return n, err
	}
	if resp.ContentLength >= 0 && n != resp.ContentLength {
		return n, fmt.Errorf("short download: got %d of %d bytes", n, resp.ContentLength)
	}
	return n, nil
}
