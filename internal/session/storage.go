// ABOUTME: Durable storage for the session record
// ABOUTME: Defines the Storage interface plus the in-memory and JSON-file backends

package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/bloomrefresh/bloom-cli/internal/models"
)

// StorageKey names the persisted session record in every backend
const StorageKey = "auth-storage"

// Persisted is the durable subset of Session. Loading state and errors are
// never written.
type Persisted struct {
	User            *models.User `json:"user"`
	Token           string       `json:"token"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// Storage persists a single session record. Load returns nil, nil when
// nothing has been stored yet.
type Storage interface {
	Load(ctx context.Context) (*Persisted, error)
	Save(ctx context.Context, p Persisted) error
	Clear(ctx context.Context) error
	Close() error
}

// MemoryStorage keeps the record in process memory
type MemoryStorage struct {
	mu     sync.Mutex
	record *Persisted
}

// NewMemoryStorage creates an empty in-memory backend
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load(ctx context.Context) (*Persisted, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.record == nil {
		return nil, nil
	}
	p := *m.record
	return &p, nil
}

func (m *MemoryStorage) Save(ctx context.Context, p Persisted) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = &p
	return nil
}

func (m *MemoryStorage) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = nil
	return nil
}

func (m *MemoryStorage) Close() error { return nil }

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bloom")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "bloom")
}

// FileStorage writes the record as JSON under the config directory
type FileStorage struct {
	configDir string
}

// NewFileStorage creates a file backend rooted at configDir
func NewFileStorage(configDir string) *FileStorage {
	return &FileStorage{configDir: configDir}
}

// Path returns the location of the session file
func (f *FileStorage) Path() string {
	return filepath.Join(f.configDir, StorageKey+".json")
}

// Load reads the session file. A missing file means no session.
func (f *FileStorage) Load(ctx context.Context) (*Persisted, error) {
	data, err := os.ReadFile(f.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p Persisted
	if err := json.Unmarshal(data, &p); err != nil {
		// Invalid JSON, start fresh
		slog.Warn("Ignoring unreadable session file", "path", f.Path(), "error", err)
		return nil, nil
	}
	return &p, nil
}

// Save writes the session file with owner-only permissions
func (f *FileStorage) Save(ctx context.Context, p Persisted) error {
	if err := os.MkdirAll(f.configDir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(f.Path(), data, 0o600)
}

// Clear removes the session file
func (f *FileStorage) Clear(ctx context.Context) error {
	if err := os.Remove(f.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (f *FileStorage) Close() error { return nil }
