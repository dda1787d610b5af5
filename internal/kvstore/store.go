// Package kvstore provides the key/value persistence used for the ledger,
// drafts, session and locale preference. Values are opaque byte strings,
// normally JSON documents.
package kvstore

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/talentalb/internal/logging"
)

// Store is a string-keyed byte store. Get reports found=false for a missing key
// without an error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Error represents a failed store operation
type Error struct {
	Op    string
	Key   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("kvstore %s %q: %v", e.Op, e.Key, e.Cause)
	}
	return fmt.Sprintf("kvstore %s %q failed", e.Op, e.Key)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Backend names accepted by Open
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Options selects and configures a backend for Open.
type Options struct {
	Backend     string
	Dir         string // file backend
	RedisURL    string // redis backend
	DatabaseURL string // postgres backend
	Prefix      string // redis key prefix
	Logger      *zap.Logger
}

// Open builds the Store named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	logger := logging.OrNop(opts.Logger)
	start := time.Now()

	var (
		s   Store
		err error
	)
	switch opts.Backend {
	case BackendFile, "":
		s, err = NewFile(opts.Dir)
	case BackendMemory:
		s = NewMemory()
	case BackendRedis:
		s, err = NewRedis(ctx, opts.RedisURL, opts.Prefix)
	case BackendPostgres:
		s, err = ConnectPostgres(ctx, opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("store opened",
		zap.String("backend", opts.Backend),
		zap.Duration("duration", time.Since(start)))
	return s, nil
}
