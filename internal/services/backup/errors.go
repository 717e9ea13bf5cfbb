package backup

import "errors"

var (
	// ErrMalformedSnapshot is returned when the snapshot is not valid JSON
	ErrMalformedSnapshot = errors.New("snapshot is not a valid JSON document")

	// ErrMissingField is returned when a required snapshot key is absent
	ErrMissingField = errors.New("snapshot is missing a required field")

	// ErrNilConfig is returned when the service config is nil
	ErrNilConfig = errors.New("config cannot be nil")

	// ErrNilStore is returned when the store is nil
	ErrNilStore = errors.New("store cannot be nil")

	// ErrNilClock is returned when the clock is nil
	ErrNilClock = errors.New("clock cannot be nil")

	// ErrNilUUID is returned when the uuid generator is nil
	ErrNilUUID = errors.New("uuid generator cannot be nil")
)
