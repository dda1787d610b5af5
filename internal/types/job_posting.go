package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// EmploymentType is the contract kind of a posting.
type EmploymentType string

// EmploymentType values
const (
	EmploymentFullTime   EmploymentType = "FULL_TIME"
	EmploymentPartTime   EmploymentType = "PART_TIME"
	EmploymentContract   EmploymentType = "CONTRACT"
	EmploymentInternship EmploymentType = "INTERNSHIP"
	EmploymentTemporary  EmploymentType = "TEMPORARY"
)

// EmploymentTypes lists every EmploymentType in display order.
var EmploymentTypes = []EmploymentType{
	EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentInternship, EmploymentTemporary,
}

// Seniority is the experience level a posting targets.
type Seniority string

// Seniority values
const (
	SeniorityIntern Seniority = "INTERN"
	SeniorityJunior Seniority = "JUNIOR"
	SeniorityMid    Seniority = "MID"
	SenioritySenior Seniority = "SENIOR"
	SeniorityLead   Seniority = "LEAD"
)

// Seniorities lists every Seniority in display order.
var Seniorities = []Seniority{SeniorityIntern, SeniorityJunior, SeniorityMid, SenioritySenior, SeniorityLead}

// WorkMode is where the work happens. The backend calls it "distanceType".
type WorkMode string

// WorkMode values
const (
	WorkModeOnsite WorkMode = "ONSITE"
	WorkModeHybrid WorkMode = "HYBRID"
	WorkModeRemote WorkMode = "REMOTE"
)

// WorkModes lists every WorkMode in display order.
var WorkModes = []WorkMode{WorkModeOnsite, WorkModeHybrid, WorkModeRemote}

// StatusPublished is the lifecycle status of postings visible on the job board.
const StatusPublished = "PUBLISHED"

// ParseEmploymentType parses a case-insensitive employment type; "" yields "".
func ParseEmploymentType(s string) (EmploymentType, error) {
	v := EmploymentType(normalizeEnum(s))
	if v == "" {
		return "", nil
	}
	for _, e := range EmploymentTypes {
		if e == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown employment type %q", s)
}

// ParseSeniority parses a case-insensitive seniority; "" yields "".
func ParseSeniority(s string) (Seniority, error) {
	v := Seniority(normalizeEnum(s))
	if v == "" {
		return "", nil
	}
	for _, e := range Seniorities {
		if e == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown seniority %q", s)
}

// ParseWorkMode parses a case-insensitive work mode; "" yields "".
func ParseWorkMode(s string) (WorkMode, error) {
	v := WorkMode(normalizeEnum(s))
	if v == "" {
		return "", nil
	}
	for _, e := range WorkModes {
		if e == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown work mode %q", s)
}

func normalizeEnum(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ToUpper(s)
}

// Amount is a salary figure. The backend serializes decimals either as JSON
// numbers or as strings, so both are accepted.
type Amount float64

// UnmarshalJSON accepts a number, a numeric string or null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, ok := ParseDecimal(s)
		if !ok {
			return fmt.Errorf("invalid amount %q", s)
		}
		*a = Amount(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}

// ParseDecimal parses a user-entered decimal, accepting a comma as the
// decimal separator. Blank or non-numeric input reports false.
func ParseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// JobPosting is a job opening as returned by the backend catalog.
type JobPosting struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"companyId"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Requirements   *string         `json:"requirements,omitempty"`
	EmploymentType *EmploymentType `json:"employmentType,omitempty"`
	Seniority      *Seniority      `json:"seniority,omitempty"`
	WorkMode       *WorkMode       `json:"distanceType,omitempty"`
	City           *string         `json:"city,omitempty"`
	Region         *string         `json:"region,omitempty"`
	CountryCode    *string         `json:"countryCode,omitempty"`
	SalaryMin      *Amount         `json:"salaryMin,omitempty"`
	SalaryMax      *Amount         `json:"salaryMax,omitempty"`
	Currency       *string         `json:"currency,omitempty"`
	SalaryVisible  *bool           `json:"salaryVisible,omitempty"`
	Status         *string         `json:"status,omitempty"`
	PublishedAt    *Timestamp      `json:"publishedAt,omitempty"`
	ExpiresAt      *Timestamp      `json:"expiresAt,omitempty"`
	CreatedAt      *Timestamp      `json:"createdAt,omitempty"`
	UpdatedAt      *Timestamp      `json:"updatedAt,omitempty"`
}

// IsSalaryVisible reports whether the company chose to publish the salary range.
// An unset flag counts as hidden.
func (p *JobPosting) IsSalaryVisible() bool {
	return p.SalaryVisible != nil && *p.SalaryVisible
}

// Page is a window over an ordered collection.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalPages    int `json:"totalPages"`
	TotalElements int `json:"totalElements"`
	Size          int `json:"size"`
	Number        int `json:"number"`
}

// FilterSet holds the server-side search filters of the job board.
type FilterSet struct {
	Q       string `json:"q,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// Normalize returns a copy with every field trimmed.
func (f FilterSet) Normalize() FilterSet {
	return FilterSet{
		Q:       strings.TrimSpace(f.Q),
		City:    strings.TrimSpace(f.City),
		Country: strings.TrimSpace(f.Country),
	}
}

// IsEmpty reports whether no filter is set once trimmed.
func (f FilterSet) IsEmpty() bool {
	return f.Normalize() == FilterSet{}
}

// CreateJobPostRequest is the body of POST /api/job-posts.
type CreateJobPostRequest struct {
	CompanyID      string          `json:"companyId" validate:"required"`
	Title          string          `json:"title" validate:"required"`
	Description    string          `json:"description" validate:"required"`
	Requirements   *string         `json:"requirements,omitempty"`
	EmploymentType *EmploymentType `json:"employmentType,omitempty"`
	Seniority      *Seniority      `json:"seniority,omitempty"`
	WorkMode       *WorkMode       `json:"distanceType,omitempty"`
	City           *string         `json:"city,omitempty"`
	Region         *string         `json:"region,omitempty"`
	CountryCode    *string         `json:"countryCode,omitempty"`
	SalaryMin      *float64        `json:"salaryMin,omitempty"`
	SalaryMax      *float64        `json:"salaryMax,omitempty"`
	Currency       *string         `json:"currency,omitempty"`
	SalaryVisible  bool            `json:"salaryVisible"`
}

// Validate validates the CreateJobPostRequest using the validator.
func (r *CreateJobPostRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// CreateJobPostResponse is the backend echo of a created posting.
type CreateJobPostResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Status      *string    `json:"status,omitempty"`
	PublishedAt *Timestamp `json:"publishedAt,omitempty"`
}

// OptionalString returns nil for blank input and a pointer to the trimmed value otherwise.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
