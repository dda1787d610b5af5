// Package ledger keeps the locally persisted list of job applications,
// newest first.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/talentalb/internal/kvstore"
	"github.com/jonathan/talentalb/internal/logging"
	"github.com/jonathan/talentalb/internal/types"
)

// StorageKey is the default store key of the ledger.
const StorageKey = "talentalb:applications"

// maxIDAttempts bounds how often Submit regenerates a colliding identifier.
const maxIDAttempts = 5

// ValidationError reports a submission rejected before anything was recorded.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid application: %s %s", e.Field, e.Message)
}

// Options configures a Ledger. Zero values select the defaults.
type Options struct {
	Key    string
	Logger *zap.Logger
	Now    func() time.Time
	NewID  func() string
}

// Ledger is the application ledger. It is safe for concurrent use; across
// processes the last writer wins.
type Ledger struct {
	mu      sync.Mutex
	store   kvstore.Store
	key     string
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
	entries []types.JobApplication
}

// New returns a ledger hydrated from store. Unreadable or malformed stored data
// yields an empty ledger and a logged warning.
func New(ctx context.Context, store kvstore.Store, opts Options) *Ledger {
	l := &Ledger{
		store:  store,
		key:    opts.Key,
		logger: logging.OrNop(opts.Logger),
		now:    opts.Now,
		newID:  opts.NewID,
	}
	if l.key == "" {
		l.key = StorageKey
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.newID == nil {
		l.newID = GenerateID
	}

	var stored []types.JobApplication
	if kvstore.LoadJSON(ctx, store, l.key, &stored, l.logger) {
		l.entries = stored
	}
	if l.entries == nil {
		l.entries = []types.JobApplication{}
	}
	l.logger.Debug("ledger loaded", zap.String("key", l.key), zap.Int("entries", len(l.entries)))
	return l
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		return name
	})
	return v
}

// Submit records an application to job. Name and email must be non-blank once
// trimmed; otherwise a *ValidationError is returned and nothing changes. The new
// record is first in List afterwards. If persisting fails the ledger is left
// unchanged and the store error is returned.
func (l *Ledger) Submit(ctx context.Context, job types.JobPosting, form types.ApplicationForm) (types.JobApplication, error) {
	form = form.Trimmed()
	if err := formValidator.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return types.JobApplication{}, &ValidationError{Field: verrs[0].Field(), Message: "is required"}
		}
		return types.JobApplication{}, err
	}
	if strings.TrimSpace(job.ID) == "" {
		return types.JobApplication{}, &ValidationError{Field: "jobId", Message: "is required"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	id, err := l.uniqueID()
	if err != nil {
		return types.JobApplication{}, err
	}

	app := types.JobApplication{
		ID:        id,
		JobID:     job.ID,
		JobTitle:  job.Title,
		Name:      form.Name,
		Email:     form.Email,
		Phone:     types.OptionalString(form.Phone),
		ResumeURL: types.OptionalString(form.ResumeURL),
		Message:   types.OptionalString(form.Message),
		CreatedAt: l.now().UTC().Round(0),
	}

	next := make([]types.JobApplication, 0, len(l.entries)+1)
	next = append(next, app)
	next = append(next, l.entries...)
	if err := kvstore.SaveJSON(ctx, l.store, l.key, next); err != nil {
		return types.JobApplication{}, fmt.Errorf("failed to persist application: %w", err)
	}
	l.entries = next

	l.logger.Info("application recorded",
		zap.String("id", app.ID),
		zap.String("job_id", app.JobID),
		zap.Int("entries", len(l.entries)))
	return app, nil
}

func (l *Ledger) uniqueID() (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := l.newID()
		if id != "" && !l.hasID(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique application id after %d attempts", maxIDAttempts)
}

func (l *Ledger) hasID(id string) bool {
	for _, e := range l.entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// List returns a copy of the ledger, newest first.
func (l *Ledger) List() []types.JobApplication {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]types.JobApplication, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded applications.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Clear removes every record and returns how many there were.
func (l *Ledger) Clear(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := kvstore.SaveJSON(ctx, l.store, l.key, []types.JobApplication{}); err != nil {
		return 0, fmt.Errorf("failed to clear applications: %w", err)
	}
	n := len(l.entries)
	l.entries = []types.JobApplication{}
	l.logger.Info("ledger cleared", zap.Int("removed", n))
	return n, nil
}

// GenerateID returns a random UUID, or a 9 character base-36 string when the
// system random source fails.
func GenerateID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return fallbackID()
	}
	return id.String()
}

func fallbackID() string {
	const width = 9
	var b strings.Builder
	for b.Len() < width {
		b.WriteString(strconv.FormatUint(rand.Uint64(), 36))
	}
	return b.String()[:width]
}
