package api

import (
	"context"
	"net/http"

	"github.com/sahdev/shopsync/internal/domain"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterParams carries the fields of a registration request.
type RegisterParams struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName,omitempty"`
}

func (c *Client) Login(ctx context.Context, username, password string) (*domain.AuthResponse, error) {
	req := loginRequest{Username: username, Password: password}
	var resp domain.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, params RegisterParams) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
