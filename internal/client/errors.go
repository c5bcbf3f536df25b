// ABOUTME: Error taxonomy for backend calls
// ABOUTME: Separates "no response" transport failures from non-2xx server errors

package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// CannotConnectMessage is shown whenever a request got no response at all
const CannotConnectMessage = "Unable to connect to the server. Please check your connection or try again later."

// DefaultErrorMessage is used when a non-2xx body carries no message field
const DefaultErrorMessage = "An error occurred with the request"

var (
	// ErrCannotConnect matches every *TransportError via errors.Is
	ErrCannotConnect = errors.New("cannot connect to server")

	// ErrInvalidRefreshResponse means /auth/refresh answered 2xx without an access_token
	ErrInvalidRefreshResponse = errors.New("refresh response did not contain a valid token")
)

// TransportError is returned when the request was sent but no response arrived
// (network down, DNS, connection refused, timeout, cancelled context)
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return CannotConnectMessage
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is lets callers match any transport failure with ErrCannotConnect
func (e *TransportError) Is(target error) bool {
	return target == ErrCannotConnect
}

// Timeout reports whether the failure was a deadline rather than a refused connection
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// APIError is a non-2xx response from the backend
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	return e.Message
}

// IsUnauthorized reports a 401, the only status that triggers a token refresh
func (e *APIError) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// Detail is the message with its status code, for CLI output
func (e *APIError) Detail() string {
	return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is (or wraps) a 401 APIError
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsUnauthorized()
}
