// ABOUTME: Client-side validation error type
// ABOUTME: Kept separate from transport and server errors so form fields never show network failures

package models

import "fmt"

// ValidationError reports a bad input field before any request is sent
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
