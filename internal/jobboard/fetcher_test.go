package jobboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonathan/talentalb/internal/api"
	"github.com/jonathan/talentalb/internal/types"
)

type fetchFunc func(ctx context.Context, q api.ListQuery) (*types.Page[types.JobPosting], error)

// fakeFetcher records every query and delegates to handle.
type fakeFetcher struct {
	mu     sync.Mutex
	calls  []api.ListQuery
	handle fetchFunc
}

func (f *fakeFetcher) ListJobPosts(ctx context.Context, q api.ListQuery) (*types.Page[types.JobPosting], error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	f.mu.Unlock()
	return f.handle(ctx, q)
}

func (f *fakeFetcher) Calls() []api.ListQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.ListQuery(nil), f.calls...)
}

// pageOf builds a page echoing the query with one posting titled title.
func pageOf(q api.ListQuery, title string, totalPages int) *types.Page[types.JobPosting] {
	return &types.Page[types.JobPosting]{
		Content:       []types.JobPosting{{ID: fmt.Sprintf("p%d", q.Page), Title: title}},
		TotalPages:    totalPages,
		TotalElements: totalPages * q.Size,
		Size:          q.Size,
		Number:        q.Page,
	}
}

func echoFetcher(totalPages int) *fakeFetcher {
	return &fakeFetcher{handle: func(_ context.Context, q api.ListQuery) (*types.Page[types.JobPosting], error) {
		return pageOf(q, fmt.Sprintf("page %d", q.Page), totalPages), nil
	}}
}
