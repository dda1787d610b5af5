package jobboard

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jonathan/talentalb/internal/api"
	"github.com/jonathan/talentalb/internal/i18n"
	"github.com/jonathan/talentalb/internal/types"
)

func newTestBoard(t *testing.T, f PageFetcher) *Board {
	t.Helper()
	b := NewBoard(f, BoardOptions{Logger: zaptest.NewLogger(t)})
	t.Cleanup(b.Close)
	return b
}

func TestSearch_FetchesOnlyWhenCombinationChanges(t *testing.T) {
	ctx := context.Background()
	f := echoFetcher(3)
	b := newTestBoard(t, f)

	st := b.Search(ctx, types.FilterSet{Q: "engineer"})
	require.NotNil(t, st.Result)
	assert.Len(t, f.Calls(), 1)
	assert.Equal(t, api.ListQuery{Page: 0, Size: DefaultPageSize, Filters: types.FilterSet{Q: "engineer"}}, f.Calls()[0])

	b.Search(ctx, types.FilterSet{Q: "  engineer  "})
	assert.Len(t, f.Calls(), 1, "same committed filters after trimming")

	b.SetPage(ctx, 1)
	assert.Len(t, f.Calls(), 2)
	b.SetPage(ctx, 1)
	assert.Len(t, f.Calls(), 2, "same page")

	st = b.Search(ctx, types.FilterSet{Q: "engineer"})
	assert.Len(t, f.Calls(), 3, "search returns to page 0")
	assert.Equal(t, 0, st.Page)

	st = b.Search(ctx, types.FilterSet{Q: "engineer", City: "Tirana"})
	assert.Len(t, f.Calls(), 4)
	assert.Equal(t, "Tirana", st.Filters.City)

	st = b.Reset(ctx)
	assert.Len(t, f.Calls(), 5)
	assert.Equal(t, types.FilterSet{}, st.Filters)
	assert.Equal(t, types.FilterSet{}, f.Calls()[4].Filters)
}

func TestSetPage_ClampsNegative(t *testing.T) {
	f := echoFetcher(3)
	b := newTestBoard(t, f)

	st := b.SetPage(context.Background(), -4)
	assert.Equal(t, 0, st.Page)
	require.Len(t, f.Calls(), 1)
	assert.Equal(t, 0, f.Calls()[0].Page)
}

func TestLoad_CorrectsPageFromResponse(t *testing.T) {
	f := &fakeFetcher{handle: func(_ context.Context, q api.ListQuery) (*types.Page[types.JobPosting], error) {
		p := pageOf(q, "last", 2)
		if q.Page > 1 {
			p.Number = 1
		}
		return p, nil
	}}
	b := newTestBoard(t, f)

	st := b.SetPage(context.Background(), 2)
	assert.Equal(t, 1, st.Page, "page follows the server")
	assert.Equal(t, 1, st.Result.Number)
	assert.Len(t, f.Calls(), 1, "correction does not trigger another fetch")

	b.SetPage(context.Background(), 1)
	assert.Len(t, f.Calls(), 1, "already on the corrected page")
}

func TestLoad_SupersededResponseIsDiscarded(t *testing.T) {
	ctx := context.Background()
	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})

	f := &fakeFetcher{handle: func(_ context.Context, q api.ListQuery) (*types.Page[types.JobPosting], error) {
		if q.Page == 1 {
			close(slowStarted)
			<-releaseSlow // ignores cancellation and answers late
			return pageOf(q, "slow", 5), nil
		}
		return pageOf(q, "fast", 5), nil
	}}
	b := newTestBoard(t, f)

	slowDone := make(chan State, 1)
	go func() { slowDone <- b.SetPage(ctx, 1) }()
	<-slowStarted

	st := b.SetPage(ctx, 2)
	require.NotNil(t, st.Result)
	assert.Equal(t, "fast", st.Result.Content[0].Title)

	close(releaseSlow)
	<-slowDone

	final := b.Snapshot()
	assert.Equal(t, 2, final.Page)
	require.NotNil(t, final.Result)
	assert.Equal(t, "fast", final.Result.Content[0].Title, "the newer request's state must win")
	assert.False(t, final.Loading)
	assert.Empty(t, final.Err)
}

func TestLoad_CancelsPreviousRequest(t *testing.T) {
	ctx := context.Background()
	firstStarted := make(chan struct{})
	firstCanceled := make(chan struct{})
	secondStarted := make(chan struct{})
	releaseSecond := make(chan struct{})

	f := &fakeFetcher{handle: func(reqCtx context.Context, q api.ListQuery) (*types.Page[types.JobPosting], error) {
		switch q.Page {
		case 1:
			close(firstStarted)
			<-reqCtx.Done()
			close(firstCanceled)
			return nil, reqCtx.Err()
		default:
			close(secondStarted)
			<-releaseSecond
			return pageOf(q, "second", 5), nil
		}
	}}
	b := newTestBoard(t, f)

	firstDone := make(chan State, 1)
	go func() { firstDone <- b.SetPage(ctx, 1) }()
	<-firstStarted

	secondDone := make(chan State, 1)
	go func() { secondDone <- b.SetPage(ctx, 2) }()

	select {
	case <-firstCanceled:
	case <-time.After(2 * time.Second):
		t.Fatal("previous request was not canceled")
	}
	<-firstDone
	<-secondStarted

	mid := b.Snapshot()
	assert.True(t, mid.Loading, "a canceled request must not clear loading while a newer one is in flight")
	assert.Empty(t, mid.Err, "a canceled request must not set an error")

	close(releaseSecond)
	st := <-secondDone
	assert.False(t, st.Loading)
	assert.Equal(t, "second", st.Result.Content[0].Title)
}

func TestLoad_HTTPErrorClearsPage(t *testing.T) {
	ctx := context.Background()
	fail := false
	f := &fakeFetcher{handle: func(_ context.Context, q api.ListQuery) (*types.Page[types.JobPosting], error) {
		if fail {
			return nil, &api.HTTPError{Method: "GET", StatusCode: 500, StatusText: "Internal Server Error"}
		}
		return pageOf(q, "ok", 3), nil
	}}
	b := newTestBoard(t, f)

	st := b.SetPage(ctx, 0)
	require.NotNil(t, st.Result)

	fail = true
	st = b.SetPage(ctx, 1)
	assert.Nil(t, st.Result, "no stale data after a failure")
	assert.Equal(t, "Errore 500: impossibile caricare le offerte", st.Err)
	assert.False(t, st.Loading)

	fail = false
	st = b.Retry(ctx)
	assert.Empty(t, st.Err)
	require.NotNil(t, st.Result)
	assert.Equal(t, 1, st.Result.Number)
}

func TestLoad_TransportErrorUsesGenericMessage(t *testing.T) {
	f := &fakeFetcher{handle: func(context.Context, api.ListQuery) (*types.Page[types.JobPosting], error) {
		return nil, &api.Error{Method: "GET", URL: "x", Message: "HTTP request failed", Cause: errors.New("connection refused")}
	}}
	tr := i18n.NewTranslator(i18n.MustLoadCatalog(), i18n.English)
	b := NewBoard(f, BoardOptions{Translator: tr})

	st := b.Retry(context.Background())
	assert.Equal(t, "Could not load job posts", st.Err)
	assert.Nil(t, st.Result)
}

func TestLoad_CallerCancellationKeepsState(t *testing.T) {
	f := &fakeFetcher{handle: func(ctx context.Context, q api.ListQuery) (*types.Page[types.JobPosting], error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return pageOf(q, "ok", 3), nil
	}}
	b := newTestBoard(t, f)
	first := b.SetPage(context.Background(), 0)
	require.NotNil(t, first.Result)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	st := b.SetPage(ctx, 1)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Err)
	assert.Same(t, first.Result, st.Result, "a canceled load leaves the page alone")
}

func TestBoard_EndToEndWithClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		assert.Equal(t, "engineer", r.URL.Query().Get("q"))
		assert.Equal(t, "PUBLISHED", r.URL.Query().Get("status"))
		if page > 1 {
			page = 1
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"content":[{"id":"p`+strconv.Itoa(page)+`","title":"Engineer"}],`+
			`"totalElements":12,"totalPages":2,"size":6,"number":`+strconv.Itoa(page)+`}`)
	}))
	defer srv.Close()

	client, err := api.NewClient(&api.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	b := newTestBoard(t, client)
	ctx := context.Background()

	st := b.Search(ctx, types.FilterSet{Q: "engineer"})
	require.Empty(t, st.Err)
	assert.Equal(t, 12, st.Result.TotalElements)
	assert.Equal(t, 2, st.Result.TotalPages)

	st = b.SetPage(ctx, 2)
	assert.Equal(t, 1, st.Page, "out of range page corrected to the server's number")
	assert.Equal(t, "p1", st.Result.Content[0].ID)
}

func TestOpen_SingleFetch(t *testing.T) {
	ctx := context.Background()
	f := echoFetcher(5)
	b := newTestBoard(t, f)

	st := b.Open(ctx, types.FilterSet{City: " Tirana "}, 3)
	require.Len(t, f.Calls(), 1)
	assert.Equal(t, api.ListQuery{Page: 3, Size: DefaultPageSize, Filters: types.FilterSet{City: "Tirana"}}, f.Calls()[0])
	assert.Equal(t, 3, st.Page)

	b.Open(ctx, types.FilterSet{City: "Tirana"}, 3)
	assert.Len(t, f.Calls(), 1)

	b.Open(ctx, types.FilterSet{City: "Tirana"}, -2)
	require.Len(t, f.Calls(), 2)
	assert.Equal(t, 0, f.Calls()[1].Page)
}

func TestNewBoard_DefaultPageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, NewBoard(echoFetcher(1), BoardOptions{}).PageSize())
	assert.Equal(t, 10, NewBoard(echoFetcher(1), BoardOptions{PageSize: 10}).PageSize())
}
