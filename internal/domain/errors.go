package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrServerOffline indicates the catalog server is unreachable
	ErrServerOffline = errors.New("catalog server is unreachable")

	// ErrAuthFailed indicates the server rejected the credentials
	ErrAuthFailed = errors.New("authentication failed")

	// ErrMissingCredentials indicates no stored credentials are available
	ErrMissingCredentials = errors.New("no stored credentials")

	// ErrNotPlayable indicates a playback URL cannot be built for the item
	ErrNotPlayable = errors.New("item is not directly playable")

	// ErrUnknownKind indicates a serialized item carried an unrecognized kind tag
	ErrUnknownKind = errors.New("unknown content kind")
)
