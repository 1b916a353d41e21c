// Package webhook receives WhatsApp Cloud API webhook deliveries: the
// subscription handshake, payload extraction, and the inbound POST surface.
package webhook

import (
	"bytes"
	"encoding/json"
)

// Envelope mirrors the Cloud API webhook body. Every level is optional:
// delivery and read receipts arrive through the same endpoint with no
// messages array at all.
type Envelope struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

type Value struct {
	MessagingProduct string            `json:"messaging_product"`
	Messages         []json.RawMessage `json:"messages"`
	Statuses         []json.RawMessage `json:"statuses"`
}

var nullLiteral = []byte("null")

// ExtractMessage pulls the single message object out of a webhook body.
// Each descent short-circuits to absent: a missing or mis-shaped level
// yields (nil, false), never an error. Status-only payloads extract as
// absent and must still be acknowledged as received.
func ExtractMessage(body []byte) (json.RawMessage, bool) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, false
	}
	if len(env.Entry) == 0 {
		return nil, false
	}
	changes := env.Entry[0].Changes
	if len(changes) == 0 {
		return nil, false
	}
	messages := changes[0].Value.Messages
	if len(messages) == 0 {
		return nil, false
	}
	raw := messages[0]
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), nullLiteral) {
		return nil, false
	}
	return raw, true
}
