package shared

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrStorageUnavailable reports that the shared storage handle could not be opened.
	ErrStorageUnavailable = errors.New("shared storage unavailable")

	// ErrNotFound reports that a key has never been written.
	ErrNotFound = errors.New("key not found")

	// ErrInvalidGroup reports a malformed storage group identifier.
	ErrInvalidGroup = errors.New("invalid storage group")
)

// Backend is the raw cross-process key-value primitive behind a Store.
// Get returns ErrNotFound for keys that were never written.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

var groupPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateGroup checks that a storage group identifier is usable as a file
// name and key prefix.
func ValidateGroup(group string) error {
	if group == "" {
		return fmt.Errorf("%w: group is empty", ErrInvalidGroup)
	}
	if !groupPattern.MatchString(group) {
		return fmt.Errorf("%w: %q", ErrInvalidGroup, group)
	}
	return nil
}

type unavailableBackend struct {
	cause error
}

// Unavailable returns a Backend that fails every call with ErrStorageUnavailable.
// It stands in for a storage group that could not be opened.
func Unavailable(cause error) Backend {
	return unavailableBackend{cause: cause}
}

func (b unavailableBackend) err() error {
	if b.cause == nil {
		return ErrStorageUnavailable
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, b.cause)
}

func (b unavailableBackend) Get(context.Context, string) ([]byte, error) {
	return nil, b.err()
}

func (b unavailableBackend) Set(context.Context, string, []byte) error {
	return b.err()
}
