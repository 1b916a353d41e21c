package media

import "errors"

var (
	// ErrResolve indicates the media id could not be exchanged for a
	// download URL. The download step must not be attempted after this.
	ErrResolve = errors.New("media url resolution failed")
	// ErrUpload indicates the media download or the object storage write
	// failed. No storage key may be recorded for the message.
	ErrUpload = errors.New("media upload failed")
	// ErrProviderUnavailable indicates no storage provider is configured.
	ErrProviderUnavailable = errors.New("storage provider unavailable")
	// ErrPathTraversal indicates a storage key attempted directory traversal.
	ErrPathTraversal = errors.New("path traversal is forbidden")
)
