package message

import "errors"

var (
	// ErrDuplicate indicates a message with the same WhatsApp message id is
	// already stored. Expected on provider redelivery; not a failure.
	ErrDuplicate = errors.New("message already stored")
	// ErrNotFound indicates no stored message matches the given id.
	ErrNotFound = errors.New("message not found")
)
