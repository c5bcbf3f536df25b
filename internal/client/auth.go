// ABOUTME: Raw auth-service endpoints: login, signup, refresh, logout, health
// ABOUTME: These calls bypass the token lifecycle and take the bearer token explicitly

package client

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/bloomrefresh/bloom-cli/internal/models"
)

// Login calls POST /auth/login
func (c *Client) Login(ctx context.Context, creds models.LoginRequest) (models.AuthResult, error) {
	body, err := c.Send(ctx, &Request{Method: http.MethodPost, Path: "/auth/login", Body: creds}, "")
	if err != nil {
		return models.AuthResult{}, err
	}

	var resp models.AuthResponse
	if err := Decode(body, &resp); err != nil {
		return models.AuthResult{}, err
	}
	return models.ClassifyLogin(&resp), nil
}

// Signup calls POST /auth/signup
func (c *Client) Signup(ctx context.Context, in models.SignupRequest) (models.AuthResult, error) {
	body, err := c.Send(ctx, &Request{Method: http.MethodPost, Path: "/auth/signup", Body: in}, "")
	if err != nil {
		return models.AuthResult{}, err
	}

	var resp models.AuthResponse
	if err := Decode(body, &resp); err != nil {
		return models.AuthResult{}, err
	}
	return models.ClassifySignup(&resp), nil
}

// Refresh calls POST /auth/refresh with the given bearer token and returns
// the new access token.
func (c *Client) Refresh(ctx context.Context, bearer string) (string, error) {
	body, err := c.Send(ctx, &Request{Method: http.MethodPost, Path: "/auth/refresh"}, bearer)
	if err != nil {
		return "", err
	}

	var resp models.TokenResponse
	if err := Decode(body, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", ErrInvalidRefreshResponse
	}
	return resp.AccessToken, nil
}

// Logout calls POST /auth/logout
func (c *Client) Logout(ctx context.Context, bearer string) error {
	_, err := c.Send(ctx, &Request{Method: http.MethodPost, Path: "/auth/logout"}, bearer)
	return err
}

// Services lists the backend services that expose a health endpoint
var Services = []string{"auth", "events", "users", "reports"}

// Health calls GET /{service}/health. It is unauthenticated.
func (c *Client) Health(ctx context.Context, service string) (*models.HealthResponse, error) {
	if !slices.Contains(Services, service) {
		return nil, &models.ValidationError{Field: "service", Message: fmt.Sprintf("unknown service %q", service)}
	}

	body, err := c.Send(ctx, &Request{Method: http.MethodGet, Path: "/" + service + "/health"}, "")
	if err != nil {
		return nil, err
	}

	var health models.HealthResponse
	if err := Decode(body, &health); err != nil {
		return nil, err
	}
	return &health, nil
}
