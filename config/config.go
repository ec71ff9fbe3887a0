// Package config loads leavetrack server configuration.
//
// Configuration is built in three layers, later layers winning:
//   - Default() values
//   - an optional YAML file (--config flag)
//   - LEAVETRACK_* environment variables
//
// Command-line flags other than --config are applied by cmd/server after
// Load returns.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/warp/leavetrack/leave"
)

// Config is the complete server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Auth     AuthConfig     `yaml:"auth"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Invites  InvitesConfig  `yaml:"invites"`
	Demo     DemoConfig     `yaml:"demo"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	// AllowedOrigins feeds the CORS middleware.
	AllowedOrigins []string `yaml:"allowed_origins"`

	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type StoreConfig struct {
	// Driver is "memory" or "sqlite".
	Driver string `yaml:"driver"`

	// Path is the SQLite database file. Ignored for the memory driver.
	Path string `yaml:"path"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// DefaultsConfig seeds the admin-editable settings on first start.
type DefaultsConfig struct {
	Country          string `yaml:"country"`
	AnnualLeaveQuota int    `yaml:"annual_leave_quota"`
}

type InvitesConfig struct {
	// TTL is how long an invitation can be redeemed.
	TTL time.Duration `yaml:"ttl"`

	// SweepInterval is how often expired invites are deleted; 0 disables.
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type DemoConfig struct {
	// Seed is the scenario loaded at startup; empty loads nothing.
	Seed string `yaml:"seed"`

	// Latency delays every API response, mimicking a remote backend.
	Latency time.Duration `yaml:"latency"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is "text" or "json".
	Format string `yaml:"format"`
}

// Default returns a configuration that runs out of the box with the
// in-memory store and the demo data set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			AllowedOrigins:  []string{"http://localhost:*", "http://127.0.0.1:*"},
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Driver: "memory",
			Path:   "./leavetrack.db",
		},
		Auth: AuthConfig{
			JWTSecret: "leavetrack-dev-secret-change-me",
			TokenTTL:  24 * time.Hour,
		},
		Defaults: DefaultsConfig{
			Country:          "US",
			AnnualLeaveQuota: 20,
		},
		Invites: InvitesConfig{
			TTL:           7 * 24 * time.Hour,
			SweepInterval: time.Hour,
		},
		Demo: DemoConfig{
			Seed: "demo",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, the file at path (skipped
// when path is empty) and the environment, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile decodes YAML from path onto c. Keys missing from the file keep
// their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from LEAVETRACK_* variables. getenv is
// os.Getenv outside of tests.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set("LEAVETRACK_ADDR", &c.Server.Addr)
	set("LEAVETRACK_STORE_DRIVER", &c.Store.Driver)
	set("LEAVETRACK_STORE_PATH", &c.Store.Path)
	set("LEAVETRACK_JWT_SECRET", &c.Auth.JWTSecret)
	set("LEAVETRACK_LOG_LEVEL", &c.Log.Level)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	switch c.Store.Driver {
	case "memory":
	case "sqlite":
		if c.Store.Path == "" {
			errs = append(errs, errors.New("store.path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver must be memory or sqlite, got %q", c.Store.Driver))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if c.Defaults.Country == "" {
		errs = append(errs, errors.New("defaults.country is required"))
	} else if !leave.KnownCountry(strings.ToUpper(c.Defaults.Country)) {
		errs = append(errs, fmt.Errorf("defaults.country %q is not a supported country", c.Defaults.Country))
	}
	if c.Defaults.AnnualLeaveQuota < 0 {
		errs = append(errs, errors.New("defaults.annual_leave_quota cannot be negative"))
	}
	if c.Invites.TTL <= 0 {
		errs = append(errs, errors.New("invites.ttl must be positive"))
	}
	if c.Invites.SweepInterval < 0 {
		errs = append(errs, errors.New("invites.sweep_interval cannot be negative"))
	}
	if c.Demo.Latency < 0 {
		errs = append(errs, errors.New("demo.latency cannot be negative"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}
