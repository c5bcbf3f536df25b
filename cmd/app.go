// ABOUTME: Wires configuration, session storage and clients for each command
// ABOUTME: Also holds the shared error-to-exit-code and output helpers

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bloomrefresh/bloom-cli/internal/api"
	"github.com/bloomrefresh/bloom-cli/internal/client"
	"github.com/bloomrefresh/bloom-cli/internal/config"
	"github.com/bloomrefresh/bloom-cli/internal/logger"
	"github.com/bloomrefresh/bloom-cli/internal/models"
	"github.com/bloomrefresh/bloom-cli/internal/session"
	"github.com/bloomrefresh/bloom-cli/internal/token"
)

// Exit codes
const (
	exitOK      = 0
	exitInvalid = 1
	exitBackend = 2
)

// app is everything a command needs to talk to the backend
type app struct {
	cfg   *config.Config
	raw   *client.Client
	store *session.Store
	api   *api.Client
}

// loadConfig reads the environment and applies command-line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if storageFlag != "" {
		cfg.Storage = storageFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newApp builds the clients and restores the saved session
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	storage, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s session storage: %w", cfg.Storage, err)
	}

	raw := client.New(cfg.APIURL, client.WithTimeout(cfg.Timeout))
	store := session.NewStore(storage, raw,
		session.WithRefresherOptions(token.WithThreshold(cfg.RefreshThreshold)))
	store.Load(ctx)

	return &app{
		cfg:   cfg,
		raw:   raw,
		store: store,
		api:   api.New(raw, store),
	}, nil
}

// Close releases the session storage
func (a *app) Close() error {
	return a.store.Close()
}

func openStorage(ctx context.Context, cfg *config.Config) (session.Storage, error) {
	dir := cfg.ConfigDir
	if dir == "" {
		dir = session.DefaultConfigDir()
	}

	switch cfg.Storage {
	case config.StorageBolt:
		return session.OpenBolt(filepath.Join(dir, session.BoltFile))
	case config.StorageRedis:
		rdb, err := session.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		return session.NewRedisStorage(rdb, cfg.Redis.Prefix), nil
	case config.StorageMemory:
		return session.NewMemoryStorage(), nil
	default:
		if dir == "" {
			return nil, errors.New("cannot determine config directory; set BLOOM_CONFIG_DIR")
		}
		return session.NewFileStorage(dir), nil
	}
}

// withApp builds the app, runs fn and closes it. Setup failures exit 2.
func withApp(ctx context.Context, w io.Writer, fn func(a *app) int) int {
	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitBackend
	}
	defer a.Close()
	return fn(a)
}

// reportError prints err and returns the matching exit code
func reportError(w io.Writer, err error) int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(w, "Error: %s\n", apiErr.Detail())
	} else {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
	return reportErrorCode(err)
}

// reportErrorCode maps err to an exit code: 1 for input validation, 2 for
// everything the backend or network caused
func reportErrorCode(err error) int {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return exitInvalid
	}
	return exitBackend
}

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(data))
}
