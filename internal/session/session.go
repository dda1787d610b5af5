// Package session persists the account returned by signup and login.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/talentalb/internal/kvstore"
	"github.com/jonathan/talentalb/internal/logging"
	"github.com/jonathan/talentalb/internal/schemas"
	"github.com/jonathan/talentalb/internal/types"
)

// StorageKey is the store key of the signed-in account.
const StorageKey = "account"

// Store reads and writes the signed-in account. The account is stored as the
// backend returned it and is not a credential.
type Store struct {
	kv     kvstore.Store
	logger *zap.Logger
}

// New returns a session store backed by kv.
func New(kv kvstore.Store, logger *zap.Logger) *Store {
	return &Store{kv: kv, logger: logging.OrNop(logger)}
}

// Save replaces the stored account.
func (s *Store) Save(ctx context.Context, acct *types.Account) error {
	if acct == nil {
		return fmt.Errorf("account is nil")
	}
	if err := kvstore.SaveJSON(ctx, s.kv, StorageKey, acct); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load returns the stored account. A missing, unreadable or malformed entry
// means nobody is signed in.
func (s *Store) Load(ctx context.Context) (*types.Account, bool) {
	raw, found, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Warn("failed to read stored value", zap.String("key", StorageKey), zap.Error(err))
		return nil, false
	}
	if !found || len(raw) == 0 {
		return nil, false
	}
	if err := schemas.Validate(schemas.Account, raw); err != nil {
		s.logger.Warn("ignoring malformed stored value", zap.String("key", StorageKey), zap.Error(err))
		return nil, false
	}

	var acct types.Account
	if err := json.Unmarshal(raw, &acct); err != nil {
		s.logger.Warn("ignoring malformed stored value", zap.String("key", StorageKey), zap.Error(err))
		return nil, false
	}
	return &acct, true
}

// Clear signs out. Clearing an empty session is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
