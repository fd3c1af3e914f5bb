package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	APIURL      string        `env:"XERPIA_API_URL,      default=http://localhost:8080/api"`
	LogLevel    string        `env:"XERPIA_LOG_LEVEL,    default=info"`
	LogPretty   bool          `env:"XERPIA_LOG_PRETTY,   default=true"`
	HTTPTimeout time.Duration `env:"XERPIA_HTTP_TIMEOUT, default=15s"`

	Store StoreConfig
}

// StoreConfig selects where the session credential is persisted.
type StoreConfig struct {
	// Backend is "file" or "redis".
	Backend string `env:"XERPIA_TOKEN_STORE, default=file"`
	// Path is the credentials file location for the file backend.
	// Defaults to ~/.xerpia/credentials.json.
	Path string `env:"XERPIA_CREDENTIALS_FILE"`

	Redis RedisConfig
}

type RedisConfig struct {
	Addr   string `env:"XERPIA_REDIS_ADDR,   default=localhost:6379"`
	DB     int    `env:"XERPIA_REDIS_DB,     default=0"`
	Prefix string `env:"XERPIA_REDIS_PREFIX, default=xerpia"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Store.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config: resolve home dir: %w", err)
		}
		cfg.Store.Path = filepath.Join(home, ".xerpia", "credentials.json")
	}
	return &cfg, nil
}
