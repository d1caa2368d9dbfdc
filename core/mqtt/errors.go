package mqtt

import "errors"

var (
	// ErrNotConnected is returned when publishing on a closed client.
	ErrNotConnected = errors.New("mqtt client not connected")
	// ErrEmptySection is returned for a message without a section.
	ErrEmptySection = errors.New("message section is empty")
)
