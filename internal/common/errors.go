// Package common defines shared sentinel errors used across SnapLocation
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Capability errors. Both are treated as silent downgrades by callers.
	ErrPermissionDenied = errors.New("permission denied")
	ErrAlbumUnavailable = errors.New("photo album unavailable")

	// Geocoding errors.
	ErrNoResults = errors.New("no geocoding results")

	// Capture workflow errors.
	ErrStaleCompletion = errors.New("stale geocode completion")
	ErrInvalidState    = errors.New("invalid workflow state")

	// Preference errors.
	ErrUnknownPreference = errors.New("unknown preference")
	ErrInvalidPreference = errors.New("invalid preference value")
)
