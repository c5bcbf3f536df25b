// ABOUTME: Reporting and user-profile endpoints
// ABOUTME: Post-event impact reports plus GET/PUT of user profiles

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/bloomrefresh/bloom-cli/internal/client"
	"github.com/bloomrefresh/bloom-cli/internal/models"
)

// SubmitReport files an impact report for an event
func (c *Client) SubmitReport(ctx context.Context, eventID string, in models.ReportInput) (*models.Report, error) {
	var rep models.Report
	if err := c.Do(ctx, &client.Request{Method: http.MethodPost, Path: eventPath(eventID) + "/report", Body: in}, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

// GetReport fetches one report
func (c *Client) GetReport(ctx context.Context, id string) (*models.Report, error) {
	var rep models.Report
	if err := c.Do(ctx, &client.Request{Method: http.MethodGet, Path: "/reports/" + url.PathEscape(id)}, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

// EventReports lists reports filed for an event
func (c *Client) EventReports(ctx context.Context, eventID string) ([]models.Report, error) {
	return c.listReports(ctx, eventPath(eventID)+"/reports")
}

// UserReports lists reports submitted by a user
func (c *Client) UserReports(ctx context.Context, userID string) ([]models.Report, error) {
	return c.listReports(ctx, userPath(userID)+"/reports")
}

func (c *Client) listReports(ctx context.Context, path string) ([]models.Report, error) {
	var list models.ReportList
	if err := c.Do(ctx, &client.Request{Method: http.MethodGet, Path: path}, &list); err != nil {
		return nil, err
	}
	return list.Reports, nil
}

// GetProfile fetches a user's profile
func (c *Client) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	if err := c.Do(ctx, &client.Request{Method: http.MethodGet, Path: userPath(userID)}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile changes the given profile fields
func (c *Client) UpdateProfile(ctx context.Context, userID string, in models.ProfileUpdate) (*models.Profile, error) {
	var p models.Profile
	if err := c.Do(ctx, &client.Request{Method: http.MethodPut, Path: userPath(userID), Body: in}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func userPath(id string) string {
	return "/users/" + url.PathEscape(id)
}
