package domain

import "errors"

var (
	// ErrMissingAPIKey is returned when no Gemini credential is configured.
	ErrMissingAPIKey = errors.New("gemini api key is not configured")

	// ErrEmptyText is returned when a capability is invoked with empty or
	// whitespace-only text.
	ErrEmptyText = errors.New("text is empty")

	// ErrDecodeFailed is returned when the model response contains no
	// recoverable JSON payload or the payload does not match the expected
	// shape.
	ErrDecodeFailed = errors.New("failed to decode model response")

	// ErrUnknownPlatform is returned for a platform outside the supported set.
	ErrUnknownPlatform = errors.New("unknown publishing platform")

	// ErrDraftNotFound is returned when a draft does not exist or belongs to
	// another user.
	ErrDraftNotFound = errors.New("draft not found")

	// ErrSessionNotFound is returned when an editor session has expired or
	// never existed.
	ErrSessionNotFound = errors.New("editor session not found")
)
