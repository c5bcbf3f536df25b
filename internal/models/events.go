// ABOUTME: Event, RSVP, report and profile models for the community-events services
// ABOUTME: JSON field names follow the backend services' camelCase payloads

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Location is where an event takes place
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// Event represents a community cleanup or planting event
type Event struct {
	EventID     string   `json:"eventId"`
	OrganizerID string   `json:"organizerId,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Location    Location `json:"location"`
	DateTime    string   `json:"dateTime"`
	Capacity    *int     `json:"capacity,omitempty"`
	Supplies    string   `json:"supplies,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
}

// EventInput is the body for creating an event
type EventInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Location    Location `json:"location"`
	DateTime    string   `json:"dateTime"`
	Capacity    *int     `json:"capacity,omitempty"`
	Supplies    string   `json:"supplies,omitempty"`
}

// Validate mirrors the event service's required-field checks
func (in EventInput) Validate() error {
	if in.Title == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if in.DateTime == "" {
		return &ValidationError{Field: "dateTime", Message: "is required"}
	}
	if _, err := time.Parse(time.RFC3339, in.DateTime); err != nil {
		return &ValidationError{Field: "dateTime", Message: "use ISO 8601 format (YYYY-MM-DDTHH:MM:SSZ)"}
	}
	if in.Capacity != nil && *in.Capacity < 0 {
		return &ValidationError{Field: "capacity", Message: "must not be negative"}
	}
	return nil
}

// EventUpdate is a partial update; nil fields are left untouched
type EventUpdate struct {
	Title    *string   `json:"title,omitempty"`
	Location *Location `json:"location,omitempty"`
	DateTime *string   `json:"dateTime,omitempty"`
	Capacity *int      `json:"capacity,omitempty"`
	Supplies *string   `json:"supplies,omitempty"`
}

// Empty reports whether the update would change nothing
func (u EventUpdate) Empty() bool {
	return u.Title == nil && u.Location == nil && u.DateTime == nil && u.Capacity == nil && u.Supplies == nil
}

// EventList is the result of listing events. The service has answered both
// with a bare array and with {"events": [...]}, so both are accepted.
type EventList struct {
	Events []Event `json:"events"`
}

func (l *EventList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &l.Events)
	}
	var wrapped struct {
		Events []Event `json:"events"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return fmt.Errorf("decoding event list: %w", err)
	}
	l.Events = wrapped.Events
	return nil
}

// EventFilters narrows an event listing
type EventFilters struct {
	Category string
	Date     string
	Lat      *float64
	Lng      *float64
	Radius   *float64
}

// RSVP is a user's registration for an event
type RSVP struct {
	RSVPID       string `json:"rsvpId"`
	EventID      string `json:"eventId"`
	UserID       string `json:"userId"`
	Status       string `json:"status"`
	RegisteredAt string `json:"registeredAt,omitempty"`
}

// RSVPStatus reports whether the current user is registered for an event
type RSVPStatus struct {
	EventID string `json:"eventId,omitempty"`
	Status  string `json:"status"`
	RSVPd   bool   `json:"rsvpd"`
}

// Report is a post-event impact report
type Report struct {
	ReportID      string         `json:"reportId"`
	EventID       string         `json:"eventId"`
	SubmittedBy   string         `json:"submittedBy"`
	BagsCollected int            `json:"bagsCollected"`
	PhotoURLs     []string       `json:"photoUrls"`
	OtherMetrics  map[string]any `json:"otherMetrics,omitempty"`
	SubmittedAt   string         `json:"submittedAt,omitempty"`
}

// ReportInput is the body for submitting a report
type ReportInput struct {
	BagsCollected int            `json:"bagsCollected"`
	PhotoURLs     []string       `json:"photoUrls"`
	OtherMetrics  map[string]any `json:"otherMetrics,omitempty"`
}

// Validate mirrors the reporting service's checks
func (in ReportInput) Validate() error {
	if in.BagsCollected < 0 {
		return &ValidationError{Field: "bagsCollected", Message: "must be a non-negative integer"}
	}
	if in.PhotoURLs == nil {
		return &ValidationError{Field: "photoUrls", Message: "is required"}
	}
	return nil
}

// ReportList wraps a set of reports
type ReportList struct {
	Reports []Report `json:"reports"`
}

func (l *ReportList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &l.Reports)
	}
	var wrapped struct {
		Reports []Report `json:"reports"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return fmt.Errorf("decoding report list: %w", err)
	}
	l.Reports = wrapped.Reports
	return nil
}

// Profile is a user's public profile held by the user service
type Profile struct {
	UserID      string         `json:"userId"`
	Name        string         `json:"name,omitempty"`
	AvatarURL   string         `json:"avatarUrl,omitempty"`
	Preferences map[string]any `json:"preferences,omitempty"`
	JoinedAt    string         `json:"joinedAt,omitempty"`
}

// ProfileUpdate is the body for PUT /users/{id}
type ProfileUpdate struct {
	Name        *string        `json:"name,omitempty"`
	AvatarURL   *string        `json:"avatarUrl,omitempty"`
	Preferences map[string]any `json:"preferences,omitempty"`
}

// HealthResponse is returned by each service's /health endpoint
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
