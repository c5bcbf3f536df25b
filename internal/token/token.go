// ABOUTME: Reads the expiry claim from a compact JWT without verifying it
// ABOUTME: The signature is the backend's business; the client only needs exp

package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenFormat means the token is not three dot-separated segments
	ErrTokenFormat = errors.New("invalid token format")

	// ErrTokenPayload means the middle segment is not base64url-encoded JSON
	ErrTokenPayload = errors.New("invalid token payload")
)

// segmentParser decodes base64url segments, padding them to a multiple of 4
var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// Expiry returns the exp claim of a compact token. ok is false when the
// payload parses but carries no exp.
func Expiry(raw string) (exp time.Time, ok bool, err error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return time.Time{}, false, fmt.Errorf("%w: expected 3 parts, got %d", ErrTokenFormat, len(parts))
	}

	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %v", ErrTokenPayload, err)
	}

	// Only exp is read; other claims may use any type the issuer likes
	var claims struct {
		ExpiresAt *jwt.NumericDate `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %v", ErrTokenPayload, err)
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, false, nil
	}
	return claims.ExpiresAt.Time, true, nil
}
