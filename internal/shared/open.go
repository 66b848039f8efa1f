package shared

import (
	"context"
	"fmt"
	"log/slog"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Options selects and configures the backend for Open.
type Options struct {
	Backend  string
	Group    string
	Dir      string
	RedisURL string
	Logger   *slog.Logger
}

// Open builds a Store for the configured storage group. It never fails: when
// the group cannot be opened the returned store is unavailable, reads return
// defaults and writes are dropped. The open error is logged and returned via
// the second value for callers that want to report it.
func Open(ctx context.Context, opts Options) (*Store, error) {
	backend, err := openBackend(ctx, opts)
	if err != nil {
		if opts.Logger != nil {
			opts.Logger.Warn("shared storage unavailable",
				slog.String("backend", opts.Backend),
				slog.String("group", opts.Group),
				slog.Any("error", err))
		}
		return New(Unavailable(err), opts.Logger), fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return New(backend, opts.Logger), nil
}

func openBackend(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Backend {
	case "", BackendSQLite:
		if opts.Dir == "" {
			return nil, fmt.Errorf("sqlite directory is empty")
		}
		return OpenSQLite(opts.Dir, opts.Group)
	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, fmt.Errorf("redis url is empty")
		}
		return OpenRedis(ctx, opts.RedisURL, opts.Group)
	case BackendMemory:
		if err := ValidateGroup(opts.Group); err != nil {
			return nil, err
		}
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", opts.Backend)
	}
}
