package types

import (
	"fmt"
	"sort"
	"strings"
)

// Profile visibility values for CandidateProfileDraft
const (
	VisibilityPublic  = "PUBLIC"
	VisibilityPrivate = "PRIVATE"
)

// CandidateProfileDraft is an unsent candidate profile kept in the local store
type CandidateProfileDraft struct {
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Headline    string `json:"headline,omitempty"`
	About       string `json:"about,omitempty"`
	Phone       string `json:"phone,omitempty"`
	City        string `json:"city,omitempty"`
	Region      string `json:"region,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	Visibility  string `json:"visibility,omitempty"`
}

// NewCandidateProfileDraft returns the draft shown before anything is saved
func NewCandidateProfileDraft() CandidateProfileDraft {
	return CandidateProfileDraft{Visibility: VisibilityPublic}
}

func (d *CandidateProfileDraft) fields() map[string]*string {
	return map[string]*string{
		"firstName":   &d.FirstName,
		"lastName":    &d.LastName,
		"headline":    &d.Headline,
		"about":       &d.About,
		"phone":       &d.Phone,
		"city":        &d.City,
		"region":      &d.Region,
		"countryCode": &d.CountryCode,
		"visibility":  &d.Visibility,
	}
}

// Set assigns a field by its JSON name
func (d *CandidateProfileDraft) Set(field, value string) error {
	if field == "visibility" {
		value = strings.ToUpper(strings.TrimSpace(value))
		if value != VisibilityPublic && value != VisibilityPrivate {
			return fmt.Errorf("visibility must be %s or %s", VisibilityPublic, VisibilityPrivate)
		}
	}
	return setField(d.fields(), field, value)
}

// Fields returns the settable field names in sorted order
func (d *CandidateProfileDraft) Fields() []string {
	return fieldNames(d.fields())
}

// CompanyProfileDraft is an unsent company profile kept in the local store
type CompanyProfileDraft struct {
	Name        string `json:"name,omitempty"`
	LegalName   string `json:"legalName,omitempty"`
	Website     string `json:"website,omitempty"`
	Size        string `json:"size,omitempty"`
	Industry    string `json:"industry,omitempty"`
	City        string `json:"city,omitempty"`
	Region      string `json:"region,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	Description string `json:"description,omitempty"`
	LogoURL     string `json:"logoUrl,omitempty"`
	Status      string `json:"status,omitempty"`
}

// NewCompanyProfileDraft returns the draft shown before anything is saved
func NewCompanyProfileDraft() CompanyProfileDraft {
	return CompanyProfileDraft{Status: "ACTIVE"}
}

func (d *CompanyProfileDraft) fields() map[string]*string {
	return map[string]*string{
		"name":        &d.Name,
		"legalName":   &d.LegalName,
		"website":     &d.Website,
		"size":        &d.Size,
		"industry":    &d.Industry,
		"city":        &d.City,
		"region":      &d.Region,
		"countryCode": &d.CountryCode,
		"description": &d.Description,
		"logoUrl":     &d.LogoURL,
		"status":      &d.Status,
	}
}

// Set assigns a field by its JSON name
func (d *CompanyProfileDraft) Set(field, value string) error {
	return setField(d.fields(), field, value)
}

// Fields returns the settable field names in sorted order
func (d *CompanyProfileDraft) Fields() []string {
	return fieldNames(d.fields())
}

func setField(fields map[string]*string, field, value string) error {
	p, ok := fields[field]
	if !ok {
		return fmt.Errorf("unknown field %q (want one of %s)", field, strings.Join(fieldNames(fields), ", "))
	}
	*p = strings.TrimSpace(value)
	return nil
}

func fieldNames(fields map[string]*string) []string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
