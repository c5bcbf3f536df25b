// ABOUTME: Auth request/response models for the Bloom Refresh auth service
// ABOUTME: Defines users, roles, login/signup contracts and tagged auth results

package models

import (
	"fmt"
	"strings"
)

// Role is the account type a user signs up with
type Role string

const (
	RoleVolunteer Role = "volunteer"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

// ParseRole validates a role name. Admin accounts cannot be self-registered,
// so only volunteer and organizer are accepted.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleVolunteer:
		return RoleVolunteer, nil
	case RoleOrganizer:
		return RoleOrganizer, nil
	}
	return "", &ValidationError{Field: "role", Message: fmt.Sprintf("must be %q or %q, got %q", RoleVolunteer, RoleOrganizer, s)}
}

// User is the authenticated account as returned by the auth service
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role,omitempty"`
}

// LoginRequest represents credentials for authentication
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks that both credentials are present
func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return &ValidationError{Field: "username", Message: "is required"}
	}
	if r.Password == "" {
		return &ValidationError{Field: "password", Message: "is required"}
	}
	return nil
}

// SignupRequest represents a new account registration
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Validate performs the same basic checks the auth service does
func (r SignupRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return &ValidationError{Field: "username", Message: "is required"}
	}
	if r.Email == "" || r.Password == "" {
		return &ValidationError{Field: "email", Message: "email and password are required"}
	}
	if !strings.Contains(r.Email, "@") || !strings.Contains(r.Email, ".") {
		return &ValidationError{Field: "email", Message: "invalid email format"}
	}
	if _, err := ParseRole(string(r.Role)); err != nil {
		return err
	}
	return nil
}

// AuthResponse is the raw body returned by /auth/login and /auth/signup
type AuthResponse struct {
	User        *User  `json:"user,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
	Message     string `json:"message,omitempty"`
}

// TokenResponse is the raw body returned by /auth/refresh
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
}

// AuthOutcome tags the variant held by an AuthResult
type AuthOutcome int

const (
	// OutcomeRejected means the server answered without usable credentials
	OutcomeRejected AuthOutcome = iota
	// OutcomeAuthenticated carries both a user and a token
	OutcomeAuthenticated
	// OutcomeAccountCreated is a signup that did not log the user in
	OutcomeAccountCreated
)

func (o AuthOutcome) String() string {
	switch o {
	case OutcomeAuthenticated:
		return "authenticated"
	case OutcomeAccountCreated:
		return "account_created"
	default:
		return "rejected"
	}
}

// AccountCreatedMessage prefixes the signup message sent when the account
// exists but no session was issued.
const AccountCreatedMessage = "User created successfully"

// AuthResult is the classified result of a login or signup call
type AuthResult struct {
	Outcome AuthOutcome
	User    *User
	Token   string
	Message string
}

// ClassifyLogin turns a login body into a tagged result
func ClassifyLogin(resp *AuthResponse) AuthResult {
	if resp == nil {
		return AuthResult{Outcome: OutcomeRejected}
	}
	if resp.AccessToken != "" && resp.User != nil {
		return AuthResult{Outcome: OutcomeAuthenticated, User: resp.User, Token: resp.AccessToken, Message: resp.Message}
	}
	return AuthResult{Outcome: OutcomeRejected, Message: resp.Message}
}

// ClassifySignup is ClassifyLogin plus the "created, not logged in" variant
func ClassifySignup(resp *AuthResponse) AuthResult {
	res := ClassifyLogin(resp)
	if res.Outcome == OutcomeRejected && resp != nil && strings.HasPrefix(resp.Message, AccountCreatedMessage) {
		res.Outcome = OutcomeAccountCreated
	}
	return res
}
