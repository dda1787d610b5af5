// Package types provides type definitions for the request and response payloads exchanged with the
// TalentALB backend and for the records kept in the local store.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Role constants reported in Account.Roles
const (
	RoleCandidate = "CANDIDATE"
	RoleEmployer  = "EMPLOYER"
	RoleAdmin     = "ADMIN"
)

// CandidateSignupRequest is the body of POST /api/auth/signup/candidate.
type CandidateSignupRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	FirstName string  `json:"firstName" validate:"required"`
	LastName  string  `json:"lastName" validate:"required"`
	City      *string `json:"city,omitempty"`
}

// CompanySignupRequest is the body of POST /api/auth/signup/company.
type CompanySignupRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	CompanyName string  `json:"companyName" validate:"required"`
	Website     *string `json:"website,omitempty" validate:"omitempty,url"`
	City        *string `json:"city,omitempty"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate validates the CandidateSignupRequest using the validator.
func (r *CandidateSignupRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CompanySignupRequest using the validator.
func (r *CompanySignupRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Account is the account object returned by the signup and login endpoints.
// Fields outside the closed schema are kept verbatim in Extra so they survive a
// store round trip.
type Account struct {
	ID    string                     `json:"id"`
	Email string                     `json:"email"`
	Roles []string                   `json:"roles,omitempty"`
	Extra map[string]json.RawMessage `json:"-"`
}

var accountKnownFields = map[string]bool{"id": true, "email": true, "roles": true}

// UnmarshalJSON decodes the known fields and collects the rest into Extra.
func (a *Account) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("account: expected a JSON object")
	}

	var out Account
	if v, ok := raw["id"]; ok {
		if err := json.Unmarshal(v, &out.ID); err != nil {
			return fmt.Errorf("account.id: %w", err)
		}
	}
	if v, ok := raw["email"]; ok {
		if err := json.Unmarshal(v, &out.Email); err != nil {
			return fmt.Errorf("account.email: %w", err)
		}
	}
	if v, ok := raw["roles"]; ok && !bytes.Equal(v, []byte("null")) {
		if err := json.Unmarshal(v, &out.Roles); err != nil {
			return fmt.Errorf("account.roles: %w", err)
		}
	}
	for k, v := range raw {
		if accountKnownFields[k] {
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]json.RawMessage)
		}
		out.Extra[k] = v
	}

	*a = out
	return nil
}

// MarshalJSON writes the known fields followed by the extension bag.
func (a Account) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(a.Extra)+3)
	for k, v := range a.Extra {
		obj[k] = v
	}
	obj["id"] = a.ID
	obj["email"] = a.Email
	if len(a.Roles) > 0 {
		obj["roles"] = a.Roles
	}
	return json.Marshal(obj)
}

// HasRole reports whether the account carries the given role.
func (a *Account) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CompanyID returns the company identifier attached to an employer account,
// looking at "companyId" first and then at "company.id".
func (a *Account) CompanyID() string {
	if a == nil || a.Extra == nil {
		return ""
	}
	if id := rawID(a.Extra["companyId"]); id != "" {
		return id
	}
	if raw, ok := a.Extra["company"]; ok {
		var company struct {
			ID json.RawMessage `json:"id"`
		}
		if err := json.Unmarshal(raw, &company); err == nil {
			return rawID(company.ID)
		}
	}
	return ""
}

// rawID decodes an identifier the backend may send as a string or a number.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}
