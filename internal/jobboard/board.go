// Package jobboard implements the job board: fetching pages of published job
// posts from the backend and refining the fetched page locally.
package jobboard

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/jonathan/talentalb/internal/api"
	"github.com/jonathan/talentalb/internal/i18n"
	"github.com/jonathan/talentalb/internal/logging"
	"github.com/jonathan/talentalb/internal/types"
)

// DefaultPageSize is the number of postings requested per page.
const DefaultPageSize = 6

// PageFetcher retrieves one page of published postings. *api.Client satisfies it.
type PageFetcher interface {
	ListJobPosts(ctx context.Context, q api.ListQuery) (*types.Page[types.JobPosting], error)
}

// BoardOptions configures a Board.
type BoardOptions struct {
	PageSize   int
	Logger     *zap.Logger
	Translator *i18n.Translator // error messages; defaults to the default locale
}

// State is what the board currently shows.
type State struct {
	Filters types.FilterSet // committed filters of the current combination
	Page    int             // requested page index
	Result  *types.Page[types.JobPosting]
	Loading bool
	Err     string // user-facing message of the last failed load
}

// Board holds the committed filters and page and the result of the latest load.
// At most one load is in flight: starting a load cancels the previous one, and
// a superseded load never touches the state, even if its response arrives late.
type Board struct {
	fetcher  PageFetcher
	pageSize int
	logger   *zap.Logger
	tr       *i18n.Translator

	mu     sync.Mutex
	state  State
	loaded bool
	gen    uint64
	cancel context.CancelFunc
}

// NewBoard returns an empty board. Nothing is fetched until the first Search,
// SetPage or Retry.
func NewBoard(fetcher PageFetcher, opts BoardOptions) *Board {
	b := &Board{
		fetcher:  fetcher,
		pageSize: opts.PageSize,
		logger:   logging.OrNop(opts.Logger),
		tr:       opts.Translator,
	}
	if b.pageSize <= 0 {
		b.pageSize = DefaultPageSize
	}
	if b.tr == nil {
		b.tr = i18n.NewTranslator(i18n.MustLoadCatalog(), i18n.DefaultLocale)
	}
	return b
}

// PageSize returns the page size sent with every request.
func (b *Board) PageSize() int {
	return b.pageSize
}

// Snapshot returns a copy of the current state.
func (b *Board) Snapshot() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Search commits filters (trimmed) and goes back to the first page. A load
// starts only when the filter and page combination changed or nothing was
// loaded yet.
func (b *Board) Search(ctx context.Context, filters types.FilterSet) State {
	f := filters.Normalize()

	b.mu.Lock()
	changed := !b.loaded || f != b.state.Filters || b.state.Page != 0
	b.state.Filters = f
	b.state.Page = 0
	b.mu.Unlock()

	if !changed {
		return b.Snapshot()
	}
	return b.load(ctx)
}

// SetPage moves to page n (negative values mean 0) and loads it if it differs
// from the current page.
func (b *Board) SetPage(ctx context.Context, n int) State {
	if n < 0 {
		n = 0
	}

	b.mu.Lock()
	changed := !b.loaded || n != b.state.Page
	b.state.Page = n
	b.mu.Unlock()

	if !changed {
		return b.Snapshot()
	}
	return b.load(ctx)
}

// Open commits filters (trimmed) and page n together, loading them when the
// combination changed. Negative pages mean 0.
func (b *Board) Open(ctx context.Context, filters types.FilterSet, n int) State {
	f := filters.Normalize()
	if n < 0 {
		n = 0
	}

	b.mu.Lock()
	changed := !b.loaded || f != b.state.Filters || n != b.state.Page
	b.state.Filters = f
	b.state.Page = n
	b.mu.Unlock()

	if !changed {
		return b.Snapshot()
	}
	return b.load(ctx)
}

// Reset clears the filters and returns to the first page.
func (b *Board) Reset(ctx context.Context) State {
	return b.Search(ctx, types.FilterSet{})
}

// Retry reloads the current combination unconditionally.
func (b *Board) Retry(ctx context.Context) State {
	return b.load(ctx)
}

// Close cancels the in-flight load, if any.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

func (b *Board) load(ctx context.Context) State {
	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
	}
	b.gen++
	gen := b.gen
	reqCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.loaded = true
	b.state.Loading = true
	b.state.Err = ""
	q := api.ListQuery{Page: b.state.Page, Size: b.pageSize, Filters: b.state.Filters}
	b.mu.Unlock()

	page, err := b.fetcher.ListJobPosts(reqCtx, q)

	b.mu.Lock()
	defer b.mu.Unlock()

	if gen != b.gen {
		b.logger.Debug("discarding superseded page load",
			zap.Int("page", q.Page),
			zap.Uint64("generation", gen))
		return b.state
	}
	cancel()
	b.cancel = nil
	b.state.Loading = false

	if err != nil {
		if api.IsCanceled(err) && reqCtx.Err() != nil {
			b.logger.Debug("page load canceled", zap.Int("page", q.Page))
			return b.state
		}
		b.logger.Warn("failed to load job posts", zap.Int("page", q.Page), zap.Error(err))
		b.state.Result = nil
		b.state.Err = b.errorMessage(err)
		return b.state
	}

	b.state.Result = page
	if page.Number != q.Page {
		b.logger.Debug("correcting page index from response",
			zap.Int("requested", q.Page),
			zap.Int("returned", page.Number))
		b.state.Page = page.Number
	}
	return b.state
}

func (b *Board) errorMessage(err error) string {
	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) {
		return b.tr.T("jobBoard.feedback.loadError", i18n.Replacements{"status": httpErr.StatusCode})
	}
	return b.tr.T("jobBoard.feedback.loadErrorGeneric", nil)
}
