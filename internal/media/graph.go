package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// GraphClient talks to the WhatsApp Cloud (Graph) API for media retrieval.
type GraphClient struct {
	httpClient     *http.Client
	baseURL        string
	version        string
	token          string
	resolveTimeout time.Duration
	logger         *slog.Logger
}

// NewGraphClient creates a Graph API client. resolveTimeout bounds the
// media-id to URL exchange; download streaming is bounded by the caller's
// context instead.
func NewGraphClient(log *slog.Logger, baseURL, version, token string, resolveTimeout time.Duration) *GraphClient {
	if log == nil {
		log = slog.Default()
	}
	if resolveTimeout <= 0 {
		resolveTimeout = 10 * time.Second
	}
	return &GraphClient{
		httpClient:     &http.Client{},
		baseURL:        strings.TrimRight(baseURL, "/"),
		version:        strings.Trim(version, "/"),
		token:          token,
		resolveTimeout: resolveTimeout,
		logger:         log.With(slog.String("component", "graph_client")),
	}
}

// ResolveURL exchanges a media id for its short-lived direct-download URL.
func (c *GraphClient) ResolveURL(ctx context.Context, mediaID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.resolveTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, c.version, mediaID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %s", ErrResolve, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrResolve, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrResolve, resp.StatusCode)
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode response: %s", ErrResolve, err)
	}
	if payload.URL == "" {
		return "", fmt.Errorf("%w: response has no url", ErrResolve)
	}
	return payload.URL, nil
}

// Download opens an authenticated byte stream for a resolved media URL.
// The caller must close the returned reader.
func (c *GraphClient) Download(ctx context.Context, mediaURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %s", ErrUpload, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUpload, err)
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: status %d", ErrUpload, resp.StatusCode)
	}
	return resp.Body, nil
}
