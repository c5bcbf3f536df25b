// ABOUTME: Proactive and forced access-token refresh
// ABOUTME: Refreshes tokens that expire within a threshold; coalesces concurrent refreshes

package token

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultThreshold is how close to expiry a token may get before it is refreshed
const DefaultThreshold = 5 * time.Minute

// ErrNoToken is returned by Force when there is no session to refresh
var ErrNoToken = errors.New("no token to refresh")

// Holder is the session state the refresher reads and updates
type Holder interface {
	Token() string
	SetToken(token string)
}

// Issuer exchanges the current token for a new one (POST /auth/refresh)
type Issuer interface {
	Refresh(ctx context.Context, bearer string) (string, error)
}

// Refresher keeps the holder's token fresh
type Refresher struct {
	holder    Holder
	issuer    Issuer
	threshold time.Duration
	now       func() time.Time
	sfGroup   singleflight.Group
}

// RefresherOption configures a Refresher
type RefresherOption func(*Refresher)

// WithThreshold overrides DefaultThreshold
func WithThreshold(d time.Duration) RefresherOption {
	return func(r *Refresher) {
		if d > 0 {
			r.threshold = d
		}
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) RefresherOption {
	return func(r *Refresher) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRefresher creates a refresher over holder using issuer for new tokens
func NewRefresher(holder Holder, issuer Issuer, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		holder:    holder,
		issuer:    issuer,
		threshold: DefaultThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Threshold returns the configured refresh window
func (r *Refresher) Threshold() time.Duration {
	return r.threshold
}

// NeedsRefresh reports whether a token expiring at exp is inside the window.
// A token expiring exactly threshold from now is still considered fresh.
func (r *Refresher) NeedsRefresh(exp time.Time) bool {
	return exp.Sub(r.now()) < r.threshold
}

// IfNeeded returns a token that is safe to send. It refreshes first when the
// current token is about to expire. It never fails: any problem is logged and
// reported as ok=false, meaning the caller proceeds unauthenticated.
func (r *Refresher) IfNeeded(ctx context.Context) (string, bool) {
	current := r.holder.Token()
	if current == "" {
		return "", false
	}

	exp, hasExp, err := Expiry(current)
	if err != nil {
		slog.Warn("Cannot determine token freshness", "error", err)
		return "", false
	}
	if !hasExp || !r.NeedsRefresh(exp) {
		return current, true
	}

	slog.Debug("Token expires soon, refreshing", "expires_in", exp.Sub(r.now()).Round(time.Second))
	fresh, err := r.refresh(ctx, current)
	if err != nil {
		slog.Warn("Proactive token refresh failed", "error", err)
		return "", false
	}
	return fresh, true
}

// Force refreshes unconditionally and returns the error to the caller
func (r *Refresher) Force(ctx context.Context) (string, error) {
	current := r.holder.Token()
	if current == "" {
		return "", ErrNoToken
	}
	return r.refresh(ctx, current)
}

// refresh asks the issuer for a new token. Concurrent callers share one
// in-flight request and its result, so the request runs detached from the
// first caller's cancellation and is bounded by the issuer's own timeout.
func (r *Refresher) refresh(ctx context.Context, current string) (string, error) {
	shared := context.WithoutCancel(ctx)
	v, err, joined := r.sfGroup.Do("refresh", func() (interface{}, error) {
		fresh, err := r.issuer.Refresh(shared, current)
		if err != nil {
			return "", err
		}
		r.holder.SetToken(fresh)
		return fresh, nil
	})
	if joined {
		slog.Debug("Joined in-flight token refresh")
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
