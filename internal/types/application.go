package types

import (
	"strings"
	"time"
)

// ApplicationForm holds the fields a candidate fills in when applying to a posting
type ApplicationForm struct {
	Name      string `json:"candidateName" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Phone     string `json:"phone,omitempty"`
	ResumeURL string `json:"resumeUrl,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Trimmed returns a copy of the form with every field trimmed
func (f ApplicationForm) Trimmed() ApplicationForm {
	return ApplicationForm{
		Name:      strings.TrimSpace(f.Name),
		Email:     strings.TrimSpace(f.Email),
		Phone:     strings.TrimSpace(f.Phone),
		ResumeURL: strings.TrimSpace(f.ResumeURL),
		Message:   strings.TrimSpace(f.Message),
	}
}

// JobApplication is one recorded intent to apply, kept only in the local store
type JobApplication struct {
	ID        string    `json:"id"`
	JobID     string    `json:"jobId"`
	JobTitle  string    `json:"jobTitle"`
	Name      string    `json:"candidateName"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	ResumeURL *string   `json:"resumeUrl,omitempty"`
	Message   *string   `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
