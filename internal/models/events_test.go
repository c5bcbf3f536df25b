// ABOUTME: Tests for event and report models
// ABOUTME: Covers list decoding for both response shapes and input validation

package models

import (
	"encoding/json"
	"testing"
)

func TestEventList_UnmarshalWrapped(t *testing.T) {
	var l EventList
	if err := json.Unmarshal([]byte(`{"events":[{"eventId":"e1","title":"Beach Cleanup"}]}`), &l); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(l.Events) != 1 || l.Events[0].Title != "Beach Cleanup" {
		t.Errorf("unexpected events %+v", l.Events)
	}
}

func TestEventList_UnmarshalBareArray(t *testing.T) {
	var l EventList
	if err := json.Unmarshal([]byte(` [{"eventId":"e1"},{"eventId":"e2"}]`), &l); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(l.Events) != 2 {
		t.Errorf("expected 2 events, got %d", len(l.Events))
	}
}

func TestEventList_UnmarshalEmpty(t *testing.T) {
	var l EventList
	if err := json.Unmarshal([]byte(`{"events":[]}`), &l); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(l.Events) != 0 {
		t.Errorf("expected no events, got %d", len(l.Events))
	}
}

func TestEventInput_Validate(t *testing.T) {
	in := EventInput{Title: "Tree Planting", DateTime: "2025-04-15T09:00:00Z"}
	if err := in.Validate(); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	in.DateTime = "next tuesday"
	if err := in.Validate(); err == nil {
		t.Error("expected dateTime validation error")
	}

	neg := -1
	in = EventInput{Title: "x", DateTime: "2025-04-15T09:00:00Z", Capacity: &neg}
	if err := in.Validate(); err == nil {
		t.Error("expected capacity validation error")
	}
}

func TestReportInput_Validate(t *testing.T) {
	if err := (ReportInput{BagsCollected: 3, PhotoURLs: []string{}}).Validate(); err != nil {
		t.Errorf("expected valid report, got %v", err)
	}
	if err := (ReportInput{BagsCollected: -1, PhotoURLs: []string{}}).Validate(); err == nil {
		t.Error("expected bagsCollected error")
	}
	if err := (ReportInput{BagsCollected: 1}).Validate(); err == nil {
		t.Error("expected photoUrls error")
	}
}

func TestReportList_UnmarshalBoth(t *testing.T) {
	var a, b ReportList
	if err := json.Unmarshal([]byte(`[{"reportId":"r1"}]`), &a); err != nil {
		t.Fatalf("unmarshal array failed: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"reports":[{"reportId":"r1"}]}`), &b); err != nil {
		t.Fatalf("unmarshal object failed: %v", err)
	}
	if len(a.Reports) != 1 || len(b.Reports) != 1 {
		t.Errorf("expected one report each, got %d and %d", len(a.Reports), len(b.Reports))
	}
}

func TestEventUpdate_Empty(t *testing.T) {
	if !(EventUpdate{}).Empty() {
		t.Error("zero update should be empty")
	}
	title := "New"
	if (EventUpdate{Title: &title}).Empty() {
		t.Error("update with title should not be empty")
	}
}
