package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/talentalb/internal/logging"
)

// LoadJSON decodes the value under key into dst. It reports whether dst was
// filled. A missing key, a read failure or a malformed value all report false;
// the last two are logged at Warn and never returned.
func LoadJSON(ctx context.Context, s Store, key string, dst any, logger *zap.Logger) bool {
	logger = logging.OrNop(logger)

	raw, found, err := s.Get(ctx, key)
	if err != nil {
		logger.Warn("failed to read stored value", zap.String("key", key), zap.Error(err))
		return false
	}
	if !found || len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logger.Warn("ignoring malformed stored value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return &Error{Op: "set", Key: key, Cause: fmt.Errorf("failed to marshal value: %w", err)}
	}
	return s.Set(ctx, key, b)
}
