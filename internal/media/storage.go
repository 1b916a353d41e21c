package media

import (
	"context"
	"io"
	"strings"
)

// StorageProvider abstracts object storage operations.
type StorageProvider interface {
	// Put streams data into storage under the given key, overwriting any
	// existing object.
	Put(ctx context.Context, key string, reader io.Reader) error
	// Open returns a reader for the given storage key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object at key.
	Delete(ctx context.Context, key string) error
}

// StorageKey derives the deterministic object key for a media id, so a
// redelivered event overwrites the same object instead of duplicating it.
func StorageKey(mediaID, mimeType string) string {
	return "media/" + mediaID + "." + extensionFromMime(mimeType)
}

// extensionFromMime maps "image/jpeg" to "jpeg"; anything without a
// usable suffix becomes "bin".
func extensionFromMime(mimeType string) string {
	idx := strings.IndexByte(mimeType, '/')
	if idx < 0 || idx+1 >= len(mimeType) {
		return "bin"
	}
	return mimeType[idx+1:]
}
