package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jonathan/talentalb/internal/schemas"
	"github.com/jonathan/talentalb/internal/types"
)

// SignupCandidate registers a candidate account.
func (c *Client) SignupCandidate(ctx context.Context, req *types.CandidateSignupRequest) (*types.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid signup: %w", err)
	}
	return c.postAccount(ctx, "/api/auth/signup/candidate", req)
}

// SignupCompany registers a company account.
func (c *Client) SignupCompany(ctx context.Context, req *types.CompanySignupRequest) (*types.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid signup: %w", err)
	}
	return c.postAccount(ctx, "/api/auth/signup/company", req)
}

// Login exchanges credentials for the account object.
func (c *Client) Login(ctx context.Context, req *types.LoginRequest) (*types.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid login: %w", err)
	}
	return c.postAccount(ctx, "/api/auth/login", req)
}

func (c *Client) postAccount(ctx context.Context, path string, body any) (*types.Account, error) {
	var acc types.Account
	if err := c.do(ctx, http.MethodPost, path, nil, body, schemas.Account, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}
