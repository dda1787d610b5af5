package jobboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/talentalb/internal/api"
	"github.com/jonathan/talentalb/internal/types"
)

// DefaultWalkConcurrency bounds the parallel page requests of Walk.
const DefaultWalkConcurrency = 4

// WalkOptions configures Walk.
type WalkOptions struct {
	PageSize    int
	Concurrency int
	MaxPages    int // 0 means every page
}

// Walk fetches every page for filters and returns the postings in page order.
// The first page is fetched alone to learn the page count; the remaining pages
// are fetched concurrently. Any failure aborts the walk.
func Walk(ctx context.Context, fetcher PageFetcher, filters types.FilterSet, opts WalkOptions) ([]types.JobPosting, error) {
	size := opts.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	workers := opts.Concurrency
	if workers <= 0 {
		workers = DefaultWalkConcurrency
	}
	filters = filters.Normalize()

	first, err := fetcher.ListJobPosts(ctx, api.ListQuery{Page: 0, Size: size, Filters: filters})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page 0: %w", err)
	}

	pages := first.TotalPages
	// totalPages is not trusted past what totalElements can fill
	if byElements := (first.TotalElements + size - 1) / size; pages > byElements {
		pages = byElements
	}
	if opts.MaxPages > 0 && pages > opts.MaxPages {
		pages = opts.MaxPages
	}
	if pages <= 1 {
		return append(make([]types.JobPosting, 0, len(first.Content)), first.Content...), nil
	}

	results := make([][]types.JobPosting, pages)
	results[0] = first.Content

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 1; i < pages; i++ {
		g.Go(func() error {
			page, err := fetcher.ListJobPosts(gCtx, api.ListQuery{Page: i, Size: size, Filters: filters})
			if err != nil {
				return fmt.Errorf("failed to fetch page %d: %w", i, err)
			}
			results[i] = page.Content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	n := 0
	for _, r := range results {
		n += len(r)
	}
	all := make([]types.JobPosting, 0, n)
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}
