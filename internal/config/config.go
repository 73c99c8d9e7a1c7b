package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

const (
	DefaultPort          = "3000"
	DefaultAdminPassword = "admin123"

	// MaxUploadSize is the per-file ceiling for uploads (5 MiB).
	MaxUploadSize int64 = 5 * 1024 * 1024
)

type Config struct {
	Port          string   `env:"PORT" envDefault:"3000"`
	AdminPassword string   `env:"ADMIN_PASSWORD" envDefault:"admin123"`
	StorageDir    string   `env:"GALLERY_STORAGE_DIR"`
	AllowOrigins  []string `env:"CORS_ALLOW_ORIGINS" envDefault:"*" envSeparator:","`
	LogLevel      string   `env:"LOG_LEVEL" envDefault:"info"`
	MaxFileSize   int64
}

// HTTPAddr is the listen address derived from Port.
func (c *Config) HTTPAddr() string {
	return ":" + c.Port
}

// UsesDefaultSecret reports whether the shared secret was left at its
// publicly known fallback.
func (c *Config) UsesDefaultSecret() bool {
	return c.AdminPassword == DefaultAdminPassword
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = DefaultAdminPassword
	}
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"*"}
	}
	cfg.MaxFileSize = MaxUploadSize

	if cfg.StorageDir == "" {
		dir, err := defaultStorageDir()
		if err != nil {
			return nil, err
		}
		cfg.StorageDir = dir
	}

	return &cfg, nil
}

// defaultStorageDir places uploads next to the running executable.
func defaultStorageDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), "uploads"), nil
}
