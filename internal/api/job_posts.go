package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jonathan/talentalb/internal/schemas"
	"github.com/jonathan/talentalb/internal/types"
)

const jobPostsPath = "/api/job-posts"

// ListQuery selects one page of published job posts.
type ListQuery struct {
	Page    int
	Size    int
	Filters types.FilterSet
}

// Values encodes the query. Filters are trimmed and omitted when blank.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.Size))
	v.Set("status", types.StatusPublished)

	f := q.Filters.Normalize()
	if f.Q != "" {
		v.Set("q", f.Q)
	}
	if f.City != "" {
		v.Set("city", f.City)
	}
	if f.Country != "" {
		v.Set("country", f.Country)
	}
	return v
}

// ListJobPosts fetches one page of published job posts.
func (c *Client) ListJobPosts(ctx context.Context, q ListQuery) (*types.Page[types.JobPosting], error) {
	if q.Page < 0 {
		return nil, fmt.Errorf("page must be non-negative, got %d", q.Page)
	}
	if q.Size <= 0 {
		return nil, fmt.Errorf("size must be positive, got %d", q.Size)
	}

	var page types.Page[types.JobPosting]
	if err := c.do(ctx, http.MethodGet, jobPostsPath, q.Values(), nil, schemas.JobPostPage, &page); err != nil {
		return nil, err
	}
	if page.Content == nil {
		page.Content = []types.JobPosting{}
	}
	return &page, nil
}

// CreateJobPost publishes a new job post. The request is validated before it is sent.
func (c *Client) CreateJobPost(ctx context.Context, req *types.CreateJobPostRequest) (*types.CreateJobPostResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job post: %w", err)
	}

	var created types.CreateJobPostResponse
	if err := c.do(ctx, http.MethodPost, jobPostsPath, nil, req, schemas.JobPostCreated, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
