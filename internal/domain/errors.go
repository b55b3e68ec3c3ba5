package domain

import "errors"

var (
	// ErrIngestion is returned when the input spreadsheet cannot be decoded
	ErrIngestion = errors.New("input spreadsheet could not be read")

	// ErrTransform is returned when merging or rendering fails
	ErrTransform = errors.New("catalog formatting failed")

	// ErrRunInProgress is returned when a format run is already in flight
	ErrRunInProgress = errors.New("a format run is already in progress")

	// ErrNoCatalog is returned when no formatted catalog is available yet
	ErrNoCatalog = errors.New("no formatted catalog available")

	// ErrInvalidOverride is returned when override entries fail validation
	ErrInvalidOverride = errors.New("invalid override catalog entries")

	// ErrUnknownCatalog is returned for an override catalog name that does not exist
	ErrUnknownCatalog = errors.New("unknown override catalog")

	// ErrKeyNotFound is returned by key-value stores when a key has no value
	ErrKeyNotFound = errors.New("key not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)
