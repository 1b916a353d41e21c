package message

import (
	"encoding/json"
	"time"
)

// Type classifies an inbound message by the provider's declared type tag.
type Type string

const (
	TypeText     Type = "text"
	TypeImage    Type = "image"
	TypeAudio    Type = "audio"
	TypeVideo    Type = "video"
	TypeDocument Type = "document"
	TypeLocation Type = "location"
	// TypeUnrecognized marks messages whose type tag is missing or unknown.
	// The raw payload is still retained for these.
	TypeUnrecognized Type = "unrecognized"
)

// Message is the canonical, persisted representation of one inbound
// WhatsApp message. It is constructed once by Normalize, optionally
// enriched with StorageKey after a successful media upload, and never
// mutated after persistence.
type Message struct {
	// ID is the row identity, assigned at save time.
	ID string `json:"id,omitempty"`
	// WAMessageID is WhatsApp's globally unique message id (wamid.xxx)
	// and the dedup key for provider redelivery.
	WAMessageID string `json:"wa_message_id"`
	Sender      string `json:"sender,omitempty"`
	Type        Type   `json:"type"`

	// Body is set only for text messages.
	Body string `json:"body,omitempty"`

	Caption  string `json:"caption,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	// MediaID is the provider's opaque media handle, exchanged for a
	// short-lived download URL.
	MediaID string `json:"media_id,omitempty"`
	// StorageKey is set only after the media bytes are durably written.
	StorageKey string `json:"storage_key,omitempty"`

	Filename string `json:"filename,omitempty"`
	SHA256   string `json:"sha256,omitempty"`

	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	LocationName    string   `json:"location_name,omitempty"`
	LocationAddress string   `json:"location_address,omitempty"`
	LocationURL     string   `json:"location_url,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
	// Raw retains the full original message object for forensic replay.
	Raw json.RawMessage `json:"raw,omitempty"`
}

// HasMedia reports whether the message references a downloadable binary.
func (m Message) HasMedia() bool {
	return m.MediaID != ""
}
