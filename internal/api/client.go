// ABOUTME: Authenticated backend client with proactive and reactive token refresh
// ABOUTME: Replays a request at most once after a 401, logging out if refresh fails

package api

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bloomrefresh/bloom-cli/internal/client"
	"github.com/bloomrefresh/bloom-cli/internal/token"
)

// Session is the token lifecycle the client depends on. *session.Store
// satisfies it.
type Session interface {
	RefreshToken(ctx context.Context) (string, bool)
	ForceRefresh(ctx context.Context) (string, error)
	Logout()
}

// Client sends requests with the freshest available token
type Client struct {
	raw     *client.Client
	session Session
}

// New wraps a raw client with session handling
func New(raw *client.Client, session Session) *Client {
	return &Client{raw: raw, session: session}
}

// Raw exposes the underlying transport for unauthenticated calls
func (c *Client) Raw() *client.Client {
	return c.raw
}

// Do sends r and decodes a 2xx body into out (which may be nil).
//
// The token is refreshed first if it is close to expiry. A 401 triggers one
// forced refresh and one replay of the same request; the replay's outcome is
// final. If the forced refresh fails the session is logged out and the
// refresh error is returned.
func (c *Client) Do(ctx context.Context, r *client.Request, out any) error {
	tok, _ := c.session.RefreshToken(ctx)

	body, err := c.raw.Send(ctx, r, tok)
	if err != nil {
		if !client.IsUnauthorized(err) || !r.MarkRetried() {
			return err
		}
		body, err = c.replay(ctx, r, err)
		if err != nil {
			return err
		}
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	return client.Decode(body, out)
}

func (c *Client) replay(ctx context.Context, r *client.Request, unauthorized error) ([]byte, error) {
	slog.Info("Request unauthorized, refreshing token", "request_id", r.ID, "path", r.Path)

	fresh, err := c.session.ForceRefresh(ctx)
	if err != nil {
		slog.Warn("Token refresh failed, logging out", "request_id", r.ID, "error", err)
		c.session.Logout()
		if errors.Is(err, token.ErrNoToken) {
			return nil, unauthorized
		}
		return nil, err
	}

	return c.raw.Send(ctx, r, fresh)
}
