// Package shared implements the key-value store shared between the host
// app and its display surfaces.
//
// Every operation is best-effort. Lookup* methods report why a value could
// not be read; the plain accessors apply the documented default instead, so
// display surfaces always have something to render.
package shared

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"
)

// Store provides typed access to a Backend.
type Store struct {
	backend Backend
	logger  *slog.Logger
}

// New wraps backend. A nil backend yields a store where every read returns
// its default and every write is dropped.
func New(backend Backend, logger *slog.Logger) *Store {
	if backend == nil {
		backend = Unavailable(nil)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{backend: backend, logger: logger}
}

// Backend returns the backend behind the store.
func (s *Store) Backend() Backend {
	return s.backend
}

// Close releases the backend when it holds resources.
func (s *Store) Close() error {
	if c, ok := s.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// SetInteger stores an integer. Failures are logged and dropped.
func (s *Store) SetInteger(ctx context.Context, key string, value int) {
	s.put(ctx, key, []byte(strconv.FormatInt(int64(value), 10)))
}

// LookupInteger reads an integer.
func (s *Store) LookupInteger(ctx context.Context, key string) (int, error) {
	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse integer %s: %w", key, err)
	}
	return int(v), nil
}

// Integer reads an integer, returning 0 when it is absent or unreadable.
func (s *Store) Integer(ctx context.Context, key string) int {
	v, err := s.LookupInteger(ctx, key)
	if err != nil {
		s.fallback(key, err)
		return 0
	}
	return v
}

// SetTimestamp stores a timestamp with nanosecond precision.
func (s *Store) SetTimestamp(ctx context.Context, key string, value time.Time) {
	s.put(ctx, key, []byte(value.UTC().Format(time.RFC3339Nano)))
}

// LookupTimestamp reads a timestamp.
func (s *Store) LookupTimestamp(ctx context.Context, key string) (time.Time, error) {
	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, string(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %s: %w", key, err)
	}
	return t, nil
}

// Timestamp reads a timestamp; ok is false when it is absent or unreadable.
func (s *Store) Timestamp(ctx context.Context, key string) (time.Time, bool) {
	t, err := s.LookupTimestamp(ctx, key)
	if err != nil {
		s.fallback(key, err)
		return time.Time{}, false
	}
	return t, true
}

// SetBytes stores an opaque byte value.
func (s *Store) SetBytes(ctx context.Context, key string, value []byte) {
	s.put(ctx, key, value)
}

// LookupBytes reads an opaque byte value.
func (s *Store) LookupBytes(ctx context.Context, key string) ([]byte, error) {
	return s.backend.Get(ctx, key)
}

// Bytes reads an opaque byte value; ok is false when it is absent or unreadable.
func (s *Store) Bytes(ctx context.Context, key string) ([]byte, bool) {
	raw, err := s.LookupBytes(ctx, key)
	if err != nil {
		s.fallback(key, err)
		return nil, false
	}
	return raw, true
}

func (s *Store) put(ctx context.Context, key string, value []byte) {
	if err := s.backend.Set(ctx, key, value); err != nil {
		s.logger.Warn("shared store write dropped", slog.String("key", key), slog.Any("error", err))
	}
}

func (s *Store) fallback(key string, err error) {
	if errors.Is(err, ErrNotFound) {
		return
	}
	s.logger.Debug("shared store read fell back to default", slog.String("key", key), slog.Any("error", err))
}
