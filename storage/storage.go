package storage

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable wraps backend failures. Absent keys are never reported
	// through it.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrInvalidKey is returned for empty keys.
	ErrInvalidKey = errors.New("invalid storage key")
)

// Storage is a string key/value store that survives process restarts.
//
// Get reports a missing key as ok=false with a nil error.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

func checkKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	return nil
}
