// ABOUTME: Shared fixtures for command tests
// ABOUTME: A fake Bloom backend plus isolated config and flag state per test

package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bloomrefresh/bloom-cli/internal/client"
)

func mintToken(t *testing.T, exp time.Time) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()}).SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

// fakeBackend answers the auth, events, reports and users routes
type fakeBackend struct {
	*httptest.Server
	token        string
	refreshFails bool
	signupBody   string

	mu    sync.Mutex
	calls []string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{token: mintToken(t, time.Now().Add(time.Hour))}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": b.token,
			"user":         map[string]string{"id": "u1", "username": creds["username"], "role": "volunteer"},
		})
	})
	mux.HandleFunc("POST /auth/signup", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(b.signupBody))
	})
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		if b.refreshFails {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Token has expired"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": mintToken(t, time.Now().Add(2*time.Hour))})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"Logged out"}`))
	})
	mux.HandleFunc("GET /events", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"eventId":"e1","title":"Beach Cleanup","dateTime":"2026-05-01T09:00:00Z","location":{"latitude":37.7,"longitude":-122.5}}]`))
	})
	mux.HandleFunc("DELETE /events/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("PUT /events/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"eventId":"e1","title":"Renamed","dateTime":"2026-05-01T09:00:00Z"}`))
	})
	mux.HandleFunc("GET /users/{id}/reports", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"reports":[{"reportId":"r1","eventId":"e1","submittedBy":"` + r.PathValue("id") + `","bagsCollected":4,"photoUrls":[]}]}`))
	})
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"userId":"` + r.PathValue("id") + `","name":"Alice"}`))
	})
	for _, svc := range client.Services {
		mux.HandleFunc("GET /"+svc+"/health", func(w http.ResponseWriter, r *http.Request) {
			if svc == "reports" {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"message":"database unavailable"}`))
				return
			}
			w.Write([]byte(`{"status":"healthy","version":"1.0.0"}`))
		})
	}

	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls = append(b.calls, r.Method+" "+r.URL.Path)
		b.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.Close)
	return b
}

func (b *fakeBackend) called(call string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c == call {
			n++
		}
	}
	return n
}

// withCLI points the commands at url with a private file-backed session
// directory and resets global flag state afterwards
func withCLI(t *testing.T, url string) {
	t.Helper()
	t.Setenv("BLOOM_CONFIG_DIR", t.TempDir())
	t.Setenv("BLOOM_STORAGE", "file")
	t.Setenv("LOG_LEVEL", "error")

	apiURL = url
	envFile = ""
	t.Cleanup(func() {
		apiURL = ""
		envFile = ".env"
		storageFlag = ""
		jsonOutput = false
		loginUsername, loginPassword = "", ""
		signupUsername, signupEmail, signupPassword, signupRole = "", "", "", ""
		forceRefresh = false
		assumeYes = false
	})
}
