// Package drafts keeps the unsent candidate and company profile forms in the
// local store.
package drafts

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/talentalb/internal/kvstore"
	"github.com/jonathan/talentalb/internal/logging"
	"github.com/jonathan/talentalb/internal/types"
)

// Store keys
const (
	CandidateKey = "candidate_profile_draft"
	CompanyKey   = "company_profile_draft"
)

// Store loads and saves profile drafts.
type Store struct {
	kv     kvstore.Store
	logger *zap.Logger
}

// New returns a draft store backed by kv.
func New(kv kvstore.Store, logger *zap.Logger) *Store {
	return &Store{kv: kv, logger: logging.OrNop(logger)}
}

// Candidate returns the stored candidate draft over the defaults. Fields the
// stored value lacks keep their default; a malformed value yields the defaults.
func (s *Store) Candidate(ctx context.Context) types.CandidateProfileDraft {
	d := types.NewCandidateProfileDraft()
	if !kvstore.LoadJSON(ctx, s.kv, CandidateKey, &d, s.logger) {
		return types.NewCandidateProfileDraft()
	}
	return d
}

// SaveCandidate replaces the stored candidate draft.
func (s *Store) SaveCandidate(ctx context.Context, d types.CandidateProfileDraft) error {
	if err := kvstore.SaveJSON(ctx, s.kv, CandidateKey, d); err != nil {
		return fmt.Errorf("failed to save candidate draft: %w", err)
	}
	return nil
}

// Company returns the stored company draft over the defaults.
func (s *Store) Company(ctx context.Context) types.CompanyProfileDraft {
	d := types.NewCompanyProfileDraft()
	if !kvstore.LoadJSON(ctx, s.kv, CompanyKey, &d, s.logger) {
		return types.NewCompanyProfileDraft()
	}
	return d
}

// SaveCompany replaces the stored company draft.
func (s *Store) SaveCompany(ctx context.Context, d types.CompanyProfileDraft) error {
	if err := kvstore.SaveJSON(ctx, s.kv, CompanyKey, d); err != nil {
		return fmt.Errorf("failed to save company draft: %w", err)
	}
	return nil
}

// Discard removes both drafts.
func (s *Store) Discard(ctx context.Context) error {
	for _, key := range []string{CandidateKey, CompanyKey} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to discard %s: %w", key, err)
		}
	}
	return nil
}
