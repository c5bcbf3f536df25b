// ABOUTME: Configuration loader for the bloom CLI
// ABOUTME: Reads .env and the environment into a validated Config via cleanenv

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"slices"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// DefaultAPIURL is used when neither the flag nor BLOOM_API_URL is set
const DefaultAPIURL = "http://localhost:5001/api"

// Storage backends for the session record
const (
	StorageFile   = "file"
	StorageBolt   = "bolt"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// StorageBackends lists the accepted BLOOM_STORAGE values
var StorageBackends = []string{StorageFile, StorageBolt, StorageRedis, StorageMemory}

type Config struct {
	APIURL           string        `env:"BLOOM_API_URL" env-default:"http://localhost:5001/api" env-description:"Base URL of the Bloom Refresh API"`
	Timeout          time.Duration `env:"BLOOM_TIMEOUT" env-default:"30s" env-description:"Per-request timeout"`
	RefreshThreshold time.Duration `env:"BLOOM_REFRESH_THRESHOLD" env-default:"5m" env-description:"Refresh tokens expiring within this window"`
	Storage          string        `env:"BLOOM_STORAGE" env-default:"file" env-description:"Session storage: file, bolt, redis or memory"`
	ConfigDir        string        `env:"BLOOM_CONFIG_DIR" env-description:"Directory for session files (default: XDG config dir)"`

	Redis RedisConfig `env-prefix:"BLOOM_REDIS_"`

	LogLevel  string `env:"LOG_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
	LogFormat string `env:"LOG_FORMAT" env-default:"text" env-description:"text or json"`
}

// RedisConfig locates the shared session store when Storage is redis
type RedisConfig struct {
	Addr     string `env:"ADDR" env-default:"localhost:6379" env-description:"Redis address"`
	Password string `env:"PASSWORD" env-description:"Redis password"`
	DB       int    `env:"DB" env-default:"0" env-description:"Redis database number"`
	Prefix   string `env:"PREFIX" env-default:"bloom:" env-description:"Key prefix for the session record"`
}

// Load reads envFile (if it exists) and then the environment.
// Variables already set in the environment win over the file. The result is
// not validated; call Validate once command-line overrides are applied.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return cfg, nil
}

// Validate checks values that cleanenv cannot
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BLOOM_API_URL must be an http(s) URL, got %q", c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("BLOOM_TIMEOUT must be positive, got %s", c.Timeout)
	}
	if c.RefreshThreshold <= 0 {
		return fmt.Errorf("BLOOM_REFRESH_THRESHOLD must be positive, got %s", c.RefreshThreshold)
	}
	if !slices.Contains(StorageBackends, c.Storage) {
		return fmt.Errorf("BLOOM_STORAGE must be one of %v, got %q", StorageBackends, c.Storage)
	}
	return nil
}

// Describe lists every supported environment variable
func Describe() (string, error) {
	return cleanenv.GetDescription(&Config{}, nil)
}
