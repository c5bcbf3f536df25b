// ABOUTME: Tests for the session store
// ABOUTME: Covers login/signup outcomes, persistence, rehydration and logout

package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bloomrefresh/bloom-cli/internal/client"
	"github.com/bloomrefresh/bloom-cli/internal/models"
	"github.com/bloomrefresh/bloom-cli/internal/token"
)

type fakeAuth struct {
	mu           sync.Mutex
	loginResult  models.AuthResult
	loginErr     error
	signupResult models.AuthResult
	signupErr    error
	refreshToken string
	refreshErr   error
	logoutErr    error
	logoutCalls  []string
	seenLoading  bool
	store        *Store
}

func (f *fakeAuth) Login(ctx context.Context, creds models.LoginRequest) (models.AuthResult, error) {
	if f.store != nil {
		f.seenLoading = f.store.Snapshot().IsLoading
	}
	return f.loginResult, f.loginErr
}

func (f *fakeAuth) Signup(ctx context.Context, in models.SignupRequest) (models.AuthResult, error) {
	return f.signupResult, f.signupErr
}

func (f *fakeAuth) Refresh(ctx context.Context, bearer string) (string, error) {
	return f.refreshToken, f.refreshErr
}

func (f *fakeAuth) Logout(ctx context.Context, bearer string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls = append(f.logoutCalls, bearer)
	return f.logoutErr
}

var alice = &models.User{ID: "1", Username: "alice", Role: models.RoleVolunteer}

func authenticated(tok string) models.AuthResult {
	return models.AuthResult{Outcome: models.OutcomeAuthenticated, User: alice, Token: tok}
}

func TestLogin_Success(t *testing.T) {
	storage := NewMemoryStorage()
	auth := &fakeAuth{loginResult: authenticated("t1")}
	s := NewStore(storage, auth)
	auth.store = s

	if err := s.Login(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := s.Snapshot()
	if !snap.IsAuthenticated || snap.Token != "t1" || snap.User.Username != "alice" {
		t.Errorf("unexpected session %+v", snap)
	}
	if snap.IsLoading || snap.LastError != "" {
		t.Errorf("expected loading cleared and no error, got %+v", snap)
	}
	if !auth.seenLoading {
		t.Error("expected IsLoading while the request is in flight")
	}

	p, _ := storage.Load(context.Background())
	if p == nil || p.Token != "t1" || !p.IsAuthenticated {
		t.Errorf("expected session persisted, got %+v", p)
	}
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name    string
		result  models.AuthResult
		err     error
		wantMsg string
	}{
		{"rejected with message", models.AuthResult{Message: "Account locked"}, nil, "Account locked"},
		{"rejected without message", models.AuthResult{}, nil, LoginFallbackMessage},
		{"server error", models.AuthResult{}, &client.APIError{Status: 401, Message: "Invalid email or password"}, "Invalid email or password"},
		{"transport error", models.AuthResult{}, &client.TransportError{Err: errors.New("refused")}, client.CannotConnectMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := NewMemoryStorage()
			storage.Save(context.Background(), Persisted{User: alice, Token: "stale", IsAuthenticated: true})
			s := NewStore(storage, &fakeAuth{loginResult: tt.result, loginErr: tt.err})
			s.Load(context.Background())

			err := s.Login(context.Background(), "alice", "pw")
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("expected %q, got %q", tt.wantMsg, err.Error())
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Error("expected the backend error to be returned unchanged")
			}

			snap := s.Snapshot()
			if snap.IsAuthenticated || snap.Token != "" || snap.User != nil {
				t.Errorf("failed login must clear auth state, got %+v", snap)
			}
			if snap.LastError != tt.wantMsg {
				t.Errorf("expected LastError %q, got %q", tt.wantMsg, snap.LastError)
			}
			if snap.IsLoading {
				t.Error("IsLoading must be reset on failure")
			}
			if p, _ := storage.Load(context.Background()); p != nil {
				t.Errorf("expected stored session cleared, got %+v", p)
			}
		})
	}
}

func TestLogin_ClearsPreviousError(t *testing.T) {
	auth := &fakeAuth{loginResult: models.AuthResult{}}
	s := NewStore(nil, auth)
	s.Login(context.Background(), "alice", "bad")
	if s.Snapshot().LastError == "" {
		t.Fatal("expected an error after rejected login")
	}

	auth.loginResult = authenticated("t1")
	if err := s.Login(context.Background(), "alice", "pw"); err != nil {
		t.Fatal(err)
	}
	if s.Snapshot().LastError != "" {
		t.Error("successful login should clear LastError")
	}
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name      string
		result    models.AuthResult
		want      models.AuthOutcome
		wantErr   string
		wantAuthd bool
	}{
		{"authenticated", authenticated("t2"), models.OutcomeAuthenticated, "", true},
		{"account created", models.AuthResult{Outcome: models.OutcomeAccountCreated, Message: "User created successfully. Please log in."}, models.OutcomeAccountCreated, "", false},
		{"rejected", models.AuthResult{}, models.OutcomeRejected, SignupFallbackMessage, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(nil, &fakeAuth{signupResult: tt.result})
			outcome, err := s.Signup(context.Background(), models.SignupRequest{Username: "bob", Email: "bob@example.com", Password: "pw", Role: models.RoleVolunteer})

			if outcome != tt.want {
				t.Errorf("expected outcome %s, got %s", tt.want, outcome)
			}
			if tt.wantErr == "" && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != "" && (err == nil || err.Error() != tt.wantErr) {
				t.Fatalf("expected %q, got %v", tt.wantErr, err)
			}

			snap := s.Snapshot()
			if snap.IsAuthenticated != tt.wantAuthd {
				t.Errorf("expected authenticated=%v, got %+v", tt.wantAuthd, snap)
			}
			if snap.LastError != tt.wantErr {
				t.Errorf("expected LastError %q, got %q", tt.wantErr, snap.LastError)
			}
		})
	}
}

func TestSetToken_TracksAuthenticated(t *testing.T) {
	s := NewStore(nil, &fakeAuth{})

	s.SetToken("abc")
	if snap := s.Snapshot(); !snap.IsAuthenticated || snap.Token != "abc" {
		t.Errorf("expected authenticated with token, got %+v", snap)
	}

	s.SetToken("")
	if snap := s.Snapshot(); snap.IsAuthenticated {
		t.Errorf("empty token must not be authenticated, got %+v", snap)
	}
}

func TestLogout_Idempotent(t *testing.T) {
	storage := NewMemoryStorage()
	s := NewStore(storage, &fakeAuth{loginResult: authenticated("t1")})
	s.Login(context.Background(), "alice", "pw")

	s.Logout()
	first := s.Snapshot()
	s.Logout()
	second := s.Snapshot()

	if first != (Session{}) || second != (Session{}) {
		t.Errorf("expected empty session after logout, got %+v then %+v", first, second)
	}
	if p, _ := storage.Load(context.Background()); p != nil {
		t.Errorf("expected no stored record, got %+v", p)
	}
}

func TestSignOut(t *testing.T) {
	auth := &fakeAuth{loginResult: authenticated("t1"), logoutErr: errors.New("backend down")}
	s := NewStore(nil, auth)
	s.Login(context.Background(), "alice", "pw")

	s.SignOut(context.Background())

	if len(auth.logoutCalls) != 1 || auth.logoutCalls[0] != "t1" {
		t.Errorf("expected backend logout with t1, got %v", auth.logoutCalls)
	}
	if s.Snapshot().IsAuthenticated {
		t.Error("local logout must happen even when the backend call fails")
	}

	s.SignOut(context.Background())
	if len(auth.logoutCalls) != 1 {
		t.Error("no backend call expected without a token")
	}
}

func TestLoad_Rehydrate(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Save(context.Background(), Persisted{User: alice, Token: "persisted", IsAuthenticated: false})

	s := NewStore(storage, &fakeAuth{})
	s.Load(context.Background())

	snap := s.Snapshot()
	if !snap.IsAuthenticated {
		t.Error("a restored token must count as authenticated")
	}
	if snap.Token != "persisted" || snap.User.Username != "alice" || snap.IsLoading {
		t.Errorf("unexpected session %+v", snap)
	}
}

type failingStorage struct{ MemoryStorage }

func (f *failingStorage) Load(ctx context.Context) (*Persisted, error) {
	return nil, errors.New("disk on fire")
}

func (f *failingStorage) Save(ctx context.Context, p Persisted) error {
	return errors.New("disk on fire")
}

func TestStorageErrors_DoNotFailMutations(t *testing.T) {
	s := NewStore(&failingStorage{}, &fakeAuth{loginResult: authenticated("t1")})
	s.Load(context.Background())
	if snap := s.Snapshot(); snap.IsAuthenticated || snap.IsLoading {
		t.Errorf("load failure should leave an empty session, got %+v", snap)
	}

	if err := s.Login(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("storage failure must not fail login: %v", err)
	}
	if !s.Snapshot().IsAuthenticated {
		t.Error("expected in-memory session despite storage failure")
	}
}

func TestSnapshot_IsCopy(t *testing.T) {
	s := NewStore(nil, &fakeAuth{loginResult: authenticated("t1")})
	s.Login(context.Background(), "alice", "pw")

	snap := s.Snapshot()
	snap.User.Username = "mallory"
	if s.Snapshot().User.Username != "alice" {
		t.Error("Snapshot must not expose internal state")
	}
}

func TestForceRefresh_StoresToken(t *testing.T) {
	auth := &fakeAuth{loginResult: authenticated("t1"), refreshToken: "t2"}
	storage := NewMemoryStorage()
	s := NewStore(storage, auth)
	s.Login(context.Background(), "alice", "pw")

	tok, err := s.ForceRefresh(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if tok != "t2" || s.Token() != "t2" {
		t.Errorf("expected t2, got %q / %q", tok, s.Token())
	}
	if p, _ := storage.Load(context.Background()); p.Token != "t2" {
		t.Errorf("expected refreshed token persisted, got %q", p.Token)
	}
}

func TestRefreshToken_AgainstBackend(t *testing.T) {
	now := time.Unix(1_750_000_000, 0)
	soon, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": now.Add(time.Minute).Unix()}).SignedString([]byte("k"))

	var refreshes int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/refresh" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer "+soon {
			t.Errorf("expected the expiring token to be sent")
		}
		refreshes++
		w.Write([]byte(`{"access_token":"fresh"}`))
	}))
	defer server.Close()

	s := NewStore(nil, client.New(server.URL), WithRefresherOptions(token.WithClock(func() time.Time { return now })))
	s.SetToken(soon)

	tok, ok := s.RefreshToken(context.Background())
	if !ok || tok != "fresh" {
		t.Fatalf("expected fresh token, got %q ok=%v", tok, ok)
	}
	if refreshes != 1 {
		t.Errorf("expected 1 refresh call, got %d", refreshes)
	}
	if !s.Snapshot().IsAuthenticated {
		t.Error("refreshed session should be authenticated")
	}
}
