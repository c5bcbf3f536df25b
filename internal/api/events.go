// ABOUTME: Event and RSVP endpoints of the event service
// ABOUTME: All calls go through Do so they share the token lifecycle

package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bloomrefresh/bloom-cli/internal/client"
	"github.com/bloomrefresh/bloom-cli/internal/models"
)

// ListEvents returns events matching the filters. Location filters are only
// sent when latitude, longitude and radius are all set.
func (c *Client) ListEvents(ctx context.Context, f models.EventFilters) ([]models.Event, error) {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Date != "" {
		q.Set("date", f.Date)
	}
	if f.Lat != nil && f.Lng != nil && f.Radius != nil {
		q.Set("lat", formatFloat(*f.Lat))
		q.Set("lng", formatFloat(*f.Lng))
		q.Set("radius", formatFloat(*f.Radius))
	}

	var list models.EventList
	if err := c.Do(ctx, &client.Request{Method: http.MethodGet, Path: "/events", Query: q}, &list); err != nil {
		return nil, err
	}
	return list.Events, nil
}

// GetEvent fetches one event
func (c *Client) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var ev models.Event
	if err := c.Do(ctx, &client.Request{Method: http.MethodGet, Path: eventPath(id)}, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// CreateEvent creates an event owned by the current user
func (c *Client) CreateEvent(ctx context.Context, in models.EventInput) (*models.Event, error) {
	var ev models.Event
	if err := c.Do(ctx, &client.Request{Method: http.MethodPost, Path: "/events", Body: in}, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// UpdateEvent applies a partial update
func (c *Client) UpdateEvent(ctx context.Context, id string, in models.EventUpdate) (*models.Event, error) {
	var ev models.Event
	if err := c.Do(ctx, &client.Request{Method: http.MethodPut, Path: eventPath(id), Body: in}, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// DeleteEvent removes an event
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.Do(ctx, &client.Request{Method: http.MethodDelete, Path: eventPath(id)}, nil)
}

// RSVP registers the current user for an event
func (c *Client) RSVP(ctx context.Context, eventID string) (*models.RSVP, error) {
	var rsvp models.RSVP
	req := &client.Request{Method: http.MethodPost, Path: eventPath(eventID) + "/rsvp", Body: struct{}{}}
	if err := c.Do(ctx, req, &rsvp); err != nil {
		return nil, err
	}
	return &rsvp, nil
}

// CancelRSVP withdraws the current user's registration
func (c *Client) CancelRSVP(ctx context.Context, eventID string) error {
	return c.Do(ctx, &client.Request{Method: http.MethodDelete, Path: eventPath(eventID) + "/rsvp"}, nil)
}

// RSVPStatus reports whether the current user is registered
func (c *Client) RSVPStatus(ctx context.Context, eventID string) (*models.RSVPStatus, error) {
	var status models.RSVPStatus
	if err := c.Do(ctx, &client.Request{Method: http.MethodGet, Path: eventPath(eventID) + "/rsvp/status"}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func eventPath(id string) string {
	return "/events/" + url.PathEscape(id)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
