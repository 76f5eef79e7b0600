package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"visitor-console/pkg/utils"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "visitor-console.yaml"

// Config holds all console configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	API     APIConfig     `yaml:"api"`
	Admin   AdminConfig   `yaml:"admin"`
	Session SessionConfig `yaml:"session"`
	Catalog CatalogConfig `yaml:"catalog"`
	Backend BackendConfig `yaml:"backend"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the console HTTP listener.
type ServerConfig struct {
	Port            int    `yaml:"port"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	Swagger         bool   `yaml:"swagger"`
}

// APIConfig points at the remote visitor API.
type APIConfig struct {
	Endpoint string `yaml:"endpoint"`
	Key      string `yaml:"key"`
	Timeout  string `yaml:"timeout"`
	Limit    int    `yaml:"limit"`
}

// AdminConfig holds the single admin credential checked by the sign-in gate.
type AdminConfig struct {
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	CookieTTL string `yaml:"cookie_ttl"`
}

// SessionConfig controls form session expiry.
type SessionConfig struct {
	IdleTTL       string `yaml:"idle_ttl"`
	SweepInterval string `yaml:"sweep_interval"`
}

// CatalogConfig optionally replaces the embedded option lists.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// BackendConfig configures the local stand-in API.
type BackendConfig struct {
	Port         int    `yaml:"port"`
	DatabasePath string `yaml:"database_path"`
	Key          string `yaml:"key"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: "10s",
			Swagger:         true,
		},
		API: APIConfig{
			Endpoint: "http://localhost:8081",
			Timeout:  "15s",
			Limit:    500,
		},
		Admin: AdminConfig{
			Username:  "admin",
			CookieTTL: "8h",
		},
		Session: SessionConfig{
			IdleTTL:       "30m",
			SweepInterval: "1m",
		},
		Backend: BackendConfig{
			Port:         8081,
			DatabasePath: "visitor-backend.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			c.Server.Port = n
		}
	}
	if endpoint := os.Getenv("API_ENDPOINT"); endpoint != "" {
		c.API.Endpoint = endpoint
	}
	if key := os.Getenv("BACKEND_KEY"); key != "" {
		c.API.Key = key
		c.Backend.Key = key
	}
	if user := os.Getenv("CONSOLE_ADMIN_USER"); user != "" {
		c.Admin.Username = user
	}
	if pass := os.Getenv("CONSOLE_ADMIN_PASSWORD"); pass != "" {
		c.Admin.Password = pass
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if path := os.Getenv("BACKEND_DB_PATH"); path != "" {
		c.Backend.DatabasePath = path
	}
}

// Validate checks the fields the console cannot start without.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if strings.TrimSpace(c.API.Endpoint) == "" {
		return fmt.Errorf("api endpoint is required")
	}
	return nil
}

// Addr is the console listen address.
func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Server.Port) }

// BackendAddr is the stand-in API listen address.
func (c *Config) BackendAddr() string { return fmt.Sprintf(":%d", c.Backend.Port) }

func (c *Config) GetAPITimeout() time.Duration {
	return utils.ParseDuration(c.API.Timeout, 15*time.Second)
}

func (c *Config) GetShutdownTimeout() time.Duration {
	return utils.ParseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

func (c *Config) GetSessionTTL() time.Duration {
	return utils.ParseDuration(c.Session.IdleTTL, 30*time.Minute)
}

func (c *Config) GetSweepInterval() time.Duration {
	return utils.ParseDuration(c.Session.SweepInterval, time.Minute)
}

func (c *Config) GetCookieTTL() time.Duration {
	return utils.ParseDuration(c.Admin.CookieTTL, 8*time.Hour)
}
