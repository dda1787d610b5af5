package jobboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/talentalb/internal/types"
)

// SortMode orders the refined page.
type SortMode string

// Sort modes
const (
	SortRelevance  SortMode = "relevance"
	SortNewest     SortMode = "newest"
	SortSalaryHigh SortMode = "salaryHigh"
	SortSalaryLow  SortMode = "salaryLow"
)

// SortModes lists the sort modes in menu order.
var SortModes = []SortMode{SortRelevance, SortNewest, SortSalaryHigh, SortSalaryLow}

// ParseSortMode parses a sort mode case-insensitively. Empty means relevance.
func ParseSortMode(s string) (SortMode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortRelevance, nil
	}
	normalized := strings.ReplaceAll(strings.ReplaceAll(s, "-", ""), "_", "")
	for _, m := range SortModes {
		if strings.EqualFold(normalized, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown sort mode %q (want relevance, newest, salaryHigh or salaryLow)", s)
}

// Refinement holds the client-only filters and the sort order. Empty fields
// let every posting through.
type Refinement struct {
	WorkMode       types.WorkMode
	Seniority      types.Seniority
	EmploymentType types.EmploymentType
	Sort           SortMode
}

// IsZero reports whether r neither filters nor reorders.
func (r Refinement) IsZero() bool {
	return r.WorkMode == "" && r.Seniority == "" && r.EmploymentType == "" &&
		(r.Sort == "" || r.Sort == SortRelevance)
}

func (r Refinement) matches(p *types.JobPosting) bool {
	if r.WorkMode != "" && (p.WorkMode == nil || *p.WorkMode != r.WorkMode) {
		return false
	}
	if r.Seniority != "" && (p.Seniority == nil || *p.Seniority != r.Seniority) {
		return false
	}
	if r.EmploymentType != "" && (p.EmploymentType == nil || *p.EmploymentType != r.EmploymentType) {
		return false
	}
	return true
}

// Refine filters items by r and orders them by r.Sort. The input is not
// modified. Relevance keeps the backend order; the other modes sort stably, so
// postings with equal keys keep their backend order too.
func Refine(items []types.JobPosting, r Refinement) []types.JobPosting {
	out := make([]types.JobPosting, 0, len(items))
	for i := range items {
		if r.matches(&items[i]) {
			out = append(out, items[i])
		}
	}

	switch r.Sort {
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool {
			return publishedKey(&out[i]).After(publishedKey(&out[j]))
		})
	case SortSalaryHigh:
		sort.SliceStable(out, func(i, j int) bool {
			return highSalaryKey(&out[i]) > highSalaryKey(&out[j])
		})
	case SortSalaryLow:
		sort.SliceStable(out, func(i, j int) bool {
			return lowSalaryKey(&out[i]) < lowSalaryKey(&out[j])
		})
	}
	return out
}

// publishedKey treats a missing timestamp as the earliest possible one.
func publishedKey(p *types.JobPosting) time.Time {
	t, _ := p.PublishedAt.Value()
	return t
}

func highSalaryKey(p *types.JobPosting) float64 {
	switch {
	case p.SalaryMax != nil:
		return float64(*p.SalaryMax)
	case p.SalaryMin != nil:
		return float64(*p.SalaryMin)
	default:
		return 0
	}
}

func lowSalaryKey(p *types.JobPosting) float64 {
	switch {
	case p.SalaryMin != nil:
		return float64(*p.SalaryMin)
	case p.SalaryMax != nil:
		return float64(*p.SalaryMax)
	default:
		return 0
	}
}

// Listing is the refined page as displayed, with the numbers behind the
// "showing X of Y" label.
type Listing struct {
	Items      []types.JobPosting
	Shown      int // postings left on this page after refinement
	OnPage     int // postings the backend returned for this page
	Total      int // backend total across all pages
	Page       int
	TotalPages int
	// EmptyFromBackend is set when the backend returned nothing for the filters.
	EmptyFromBackend bool
	// EmptyAfterRefinement is set when the backend returned postings but the
	// refinement removed all of them.
	EmptyAfterRefinement bool
}

// View refines page by r. A nil page (nothing loaded, or a failed load) is an
// empty backend result.
func View(page *types.Page[types.JobPosting], r Refinement) Listing {
	if page == nil {
		return Listing{Items: []types.JobPosting{}, EmptyFromBackend: true}
	}
	items := Refine(page.Content, r)
	return Listing{
		Items:                items,
		Shown:                len(items),
		OnPage:               len(page.Content),
		Total:                page.TotalElements,
		Page:                 page.Number,
		TotalPages:           page.TotalPages,
		EmptyFromBackend:     len(page.Content) == 0,
		EmptyAfterRefinement: len(page.Content) > 0 && len(items) == 0,
	}
}
