// ABOUTME: Tests for the token show and refresh commands
// ABOUTME: Covers proactive, forced and failed refreshes

package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestTokenShow_NotLoggedIn(t *testing.T) {
	b := newFakeBackend(t)
	withCLI(t, b.URL)

	var buf bytes.Buffer
	if code := runTokenShow(context.Background(), &buf); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
}

func TestTokenShow(t *testing.T) {
	b := newFakeBackend(t)
	withCLI(t, b.URL)
	login(t)

	var buf bytes.Buffer
	if code := runTokenShow(context.Background(), &buf); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if strings.TrimSpace(buf.String()) != b.token {
		t.Errorf("expected the raw token, got %q", buf.String())
	}
}

func TestTokenRefresh_NotDue(t *testing.T) {
	b := newFakeBackend(t)
	withCLI(t, b.URL)
	login(t)

	var buf bytes.Buffer
	if code := runTokenRefresh(context.Background(), &buf); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "not refreshed") {
		t.Errorf("unexpected output %q", buf.String())
	}
	if b.called("POST /auth/refresh") != 0 {
		t.Error("a fresh token must not be refreshed")
	}
}

func TestTokenRefresh_Force(t *testing.T) {
	b := newFakeBackend(t)
	withCLI(t, b.URL)
	login(t)
	forceRefresh = true

	var buf bytes.Buffer
	if code := runTokenRefresh(context.Background(), &buf); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Token refreshed") {
		t.Errorf("unexpected output %q", buf.String())
	}

	buf.Reset()
	runTokenShow(context.Background(), &buf)
	if strings.TrimSpace(buf.String()) == b.token {
		t.Error("expected the new token to be persisted")
	}
}

func TestTokenRefresh_ForceFailureLogsOut(t *testing.T) {
	b := newFakeBackend(t)
	withCLI(t, b.URL)
	login(t)
	b.refreshFails = true
	forceRefresh = true

	var buf bytes.Buffer
	if code := runTokenRefresh(context.Background(), &buf); code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(buf.String(), "Token has expired") {
		t.Errorf("expected the refresh error, got %q", buf.String())
	}

	buf.Reset()
	if code := runWhoami(context.Background(), &buf); code != 1 {
		t.Errorf("expected to be logged out, whoami returned %d", code)
	}
}
