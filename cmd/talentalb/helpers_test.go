package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talentalb/internal/types"
)

// backend is a fake TalentALB API serving 12 postings in pages of 6.
type backend struct {
	*httptest.Server

	mu       sync.Mutex
	fail     int // status code every job board request fails with, 0 = none
	created  []map[string]any
	accounts map[string]string // path -> account JSON
}

func ptr[T any](v T) *T { return &v }

func postings() []types.JobPosting {
	visible := true
	modes := []types.WorkMode{types.WorkModeRemote, types.WorkModeOnsite, types.WorkModeHybrid}
	out := make([]types.JobPosting, 12)
	for i := range out {
		published := time.Date(2026, 1, 1+i, 9, 0, 0, 0, time.UTC)
		salary := types.Amount(1000 + 100*i)
		out[i] = types.JobPosting{
			ID:            fmt.Sprintf("job-%02d", i),
			Title:         fmt.Sprintf("Position %02d", i),
			Description:   "Build things",
			WorkMode:      ptr(modes[i%3]),
			City:          ptr("Tirana"),
			CountryCode:   ptr("AL"),
			SalaryMin:     &salary,
			SalaryVisible: &visible,
			PublishedAt:   types.NewTimestamp(published),
		}
	}
	return out
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{accounts: map[string]string{
		"/api/auth/login":            `{"id":"u1","email":"ana@example.com","roles":["CANDIDATE"]}`,
		"/api/auth/signup/candidate": `{"id":"u2","email":"new@example.com","roles":["CANDIDATE"]}`,
		"/api/auth/signup/company":   `{"id":"u3","email":"hr@acme.al","roles":["EMPLOYER"],"companyId":"c-77"}`,
	}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/job-posts", b.listJobPosts)
	mux.HandleFunc("POST /api/job-posts", b.createJobPost)
	mux.HandleFunc("POST /api/auth/", func(w http.ResponseWriter, r *http.Request) {
		body, ok := b.accounts[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		var creds map[string]any
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] == "wrong-password" {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	})

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Close)
	return b
}

func (b *backend) listJobPosts(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	fail := b.fail
	b.mu.Unlock()
	if fail != 0 {
		http.Error(w, "backend unavailable", fail)
		return
	}

	all := postings()
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 6
	}
	totalPages := (len(all) + size - 1) / size
	if page >= totalPages {
		page = totalPages - 1
	}
	end := min((page+1)*size, len(all))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(types.Page[types.JobPosting]{
		Content:       all[page*size : end],
		TotalPages:    totalPages,
		TotalElements: len(all),
		Size:          size,
		Number:        page,
	})
}

func (b *backend) createJobPost(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	b.created = append(b.created, body)
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprintf(w, `{"id":"jp-1","title":%q,"status":"PUBLISHED","publishedAt":"2026-03-09T10:00:00Z"}`, body["title"])
}

func (b *backend) setFail(code int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail = code
}

// resetFlags restores every flag of cmd and its children to its default so
// commands can run repeatedly in one process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// setContext gives cmd and every descendant ctx. cobra only hands the root
// context down to subcommands whose context is still nil, so without this a
// subcommand keeps the context of its first run.
func setContext(ctx context.Context, cmd *cobra.Command) {
	cmd.SetContext(ctx)
	for _, c := range cmd.Commands() {
		setContext(ctx, c)
	}
}

// cli runs talentalb commands against one backend and one data directory.
type cli struct {
	t       *testing.T
	backend *backend
	dataDir string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		t.Setenv(name, "")
	}
	return &cli{t: t, backend: newBackend(t), dataDir: t.TempDir()}
}

// run executes args with the English locale unless args pick another.
func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	return c.runRaw(append([]string{"--locale", "en"}, args...)...)
}

// runRaw executes args without forcing a locale.
func (c *cli) runRaw(args ...string) (string, error) {
	c.t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{
		"--store", "file",
		"--data-dir", c.dataDir,
		"--api-url", c.backend.URL,
		"--log-level", "error",
	}, args...))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	setContext(ctx, rootCmd)
	err := rootCmd.ExecuteContext(ctx)
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}
