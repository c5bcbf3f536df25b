// ABOUTME: Session store holding the current user and bearer token
// ABOUTME: Persists every change and drives login, signup, refresh and logout

package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bloomrefresh/bloom-cli/internal/models"
	"github.com/bloomrefresh/bloom-cli/internal/token"
)

const (
	// LoginFallbackMessage is recorded when a login response carries no session
	LoginFallbackMessage = "Login failed: Invalid response from server"

	// SignupFallbackMessage is recorded when a signup response is unusable
	SignupFallbackMessage = "Signup failed: Invalid response from server"

	persistTimeout = 5 * time.Second
)

// Session is the in-memory authentication state
type Session struct {
	User            *models.User
	Token           string
	IsAuthenticated bool
	IsLoading       bool
	LastError       string
}

// Authenticator is the subset of the backend the store talks to directly.
// *client.Client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, creds models.LoginRequest) (models.AuthResult, error)
	Signup(ctx context.Context, in models.SignupRequest) (models.AuthResult, error)
	Logout(ctx context.Context, bearer string) error
	token.Issuer
}

// Store owns the session. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	state     Session
	storage   Storage
	auth      Authenticator
	refresher *token.Refresher
}

// Option configures a Store
type Option func(*storeConfig)

type storeConfig struct {
	refresherOpts []token.RefresherOption
}

// WithRefresherOptions passes options through to the token refresher
func WithRefresherOptions(opts ...token.RefresherOption) Option {
	return func(c *storeConfig) {
		c.refresherOpts = append(c.refresherOpts, opts...)
	}
}

// NewStore creates an empty store. Call Load to rehydrate a saved session.
func NewStore(storage Storage, auth Authenticator, opts ...Option) *Store {
	var cfg storeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if storage == nil {
		storage = NewMemoryStorage()
	}

	s := &Store{storage: storage, auth: auth}
	s.refresher = token.NewRefresher(s, auth, cfg.refresherOpts...)
	return s
}

// Load rehydrates the session from storage. A stored token always counts as
// authenticated. Failures are logged and leave an empty session.
func (s *Store) Load(ctx context.Context) {
	p, err := s.storage.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsLoading = false

	if err != nil {
		slog.Warn("Failed to load saved session", "error", err)
		return
	}
	if p == nil {
		return
	}

	s.state.User = p.User
	s.state.Token = p.Token
	s.state.IsAuthenticated = p.IsAuthenticated || p.Token != ""
	slog.Debug("Session restored", "authenticated", s.state.IsAuthenticated)
}

// Snapshot returns a consistent copy of the session
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.state
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return snap
}

// Token returns the current bearer token, or "" when logged out
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// SetToken replaces the token. The authenticated flag follows token presence.
func (s *Store) SetToken(tok string) {
	s.update(func(st *Session) {
		st.Token = tok
		st.IsAuthenticated = tok != ""
	})
}

// Threshold reports the proactive refresh window in use
func (s *Store) Threshold() time.Duration {
	return s.refresher.Threshold()
}

// Login authenticates with username and password. The error, if any, is also
// recorded in LastError.
func (s *Store) Login(ctx context.Context, username, password string) error {
	s.startLoading()
	defer s.stopLoading()

	res, err := s.auth.Login(ctx, models.LoginRequest{Username: username, Password: password})
	if err != nil {
		return s.fail(err)
	}
	if res.Outcome != models.OutcomeAuthenticated {
		return s.fail(errors.New(messageOr(res.Message, LoginFallbackMessage)))
	}

	s.authenticate(res)
	slog.Info("Logged in", "username", res.User.Username)
	return nil
}

// Signup registers a new account. An AccountCreated outcome leaves the
// session logged out and records no error.
func (s *Store) Signup(ctx context.Context, in models.SignupRequest) (models.AuthOutcome, error) {
	s.startLoading()
	defer s.stopLoading()

	res, err := s.auth.Signup(ctx, in)
	if err != nil {
		return models.OutcomeRejected, s.fail(err)
	}

	switch res.Outcome {
	case models.OutcomeAuthenticated:
		s.authenticate(res)
		slog.Info("Signed up and logged in", "username", res.User.Username)
	case models.OutcomeAccountCreated:
		slog.Info("Account created", "username", in.Username)
	default:
		return models.OutcomeRejected, s.fail(errors.New(messageOr(res.Message, SignupFallbackMessage)))
	}
	return res.Outcome, nil
}

// RefreshToken returns a token that is safe to send, refreshing it first if
// it is about to expire. It never fails; ok is false when there is nothing
// usable.
func (s *Store) RefreshToken(ctx context.Context) (string, bool) {
	return s.refresher.IfNeeded(ctx)
}

// ForceRefresh exchanges the current token for a new one unconditionally
func (s *Store) ForceRefresh(ctx context.Context) (string, error) {
	return s.refresher.Force(ctx)
}

// Logout clears all session state. It is safe to call repeatedly.
func (s *Store) Logout() {
	s.update(func(st *Session) {
		*st = Session{}
	})
}

// SignOut tells the backend to end the session, then logs out locally
// whatever the backend said.
func (s *Store) SignOut(ctx context.Context) {
	if tok := s.Token(); tok != "" {
		if err := s.auth.Logout(ctx, tok); err != nil {
			slog.Warn("Backend logout failed", "error", err)
		}
	}
	s.Logout()
}

// Close releases the storage backend
func (s *Store) Close() error {
	return s.storage.Close()
}

func (s *Store) authenticate(res models.AuthResult) {
	s.update(func(st *Session) {
		st.User = res.User
		st.Token = res.Token
		st.IsAuthenticated = true
		st.LastError = ""
	})
}

func (s *Store) fail(err error) error {
	s.update(func(st *Session) {
		st.User = nil
		st.Token = ""
		st.IsAuthenticated = false
		st.LastError = err.Error()
	})
	return err
}

func (s *Store) startLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsLoading = true
	s.state.LastError = ""
}

func (s *Store) stopLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsLoading = false
}

// update applies fn and persists the result under the write lock
func (s *Store) update(fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	fn(&next)
	s.state = next
	s.persist(next)
}

// persist writes the durable subset. Errors are logged, never returned.
func (s *Store) persist(st Session) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	var err error
	if st.Token == "" && st.User == nil {
		err = s.storage.Clear(ctx)
	} else {
		err = s.storage.Save(ctx, Persisted{User: st.User, Token: st.Token, IsAuthenticated: st.IsAuthenticated})
	}
	if err != nil {
		slog.Warn("Failed to persist session", "error", err)
	}
}

func messageOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
