// Package media retrieves WhatsApp media attachments and persists them in
// object storage. Retrieval is a two-hop protocol: exchange the media id
// for a short-lived URL, then stream the bytes into the storage provider.
package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// resolver is the subset of GraphClient the service depends on.
type resolver interface {
	ResolveURL(ctx context.Context, mediaID string) (string, error)
	Download(ctx context.Context, mediaURL string) (io.ReadCloser, error)
}

// Service coordinates media retrieval and storage.
type Service struct {
	client          resolver
	provider        StorageProvider
	downloadTimeout time.Duration
	logger          *slog.Logger
}

// NewService creates a media service. downloadTimeout bounds the combined
// fetch-and-store step.
func NewService(log *slog.Logger, client resolver, provider StorageProvider, downloadTimeout time.Duration) *Service {
	if log == nil {
		log = slog.Default()
	}
	if downloadTimeout <= 0 {
		downloadTimeout = 60 * time.Second
	}
	return &Service{
		client:          client,
		provider:        provider,
		downloadTimeout: downloadTimeout,
		logger:          log.With(slog.String("component", "media")),
	}
}

// Store resolves the media id, streams the bytes into object storage under
// the deterministic key for that id, and returns the key. The copy never
// buffers the whole object. On any error no usable key is returned, so the
// caller cannot record a reference to a partial object.
func (s *Service) Store(ctx context.Context, mediaID, mimeType string) (string, error) {
	if s.provider == nil {
		return "", ErrProviderUnavailable
	}

	mediaURL, err := s.client.ResolveURL(ctx, mediaID)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.downloadTimeout)
	defer cancel()

	body, err := s.client.Download(ctx, mediaURL)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = body.Close()
	}()

	key := StorageKey(mediaID, mimeType)
	if err := s.provider.Put(ctx, key, body); err != nil {
		return "", fmt.Errorf("%w: put %s: %s", ErrUpload, key, err)
	}

	s.logger.Debug("media stored",
		slog.String("media_id", mediaID),
		slog.String("storage_key", key),
	)
	return key, nil
}
