// Package config loads the admin service settings: built-in defaults, an
// optional TOML file, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the admin service settings.
type Config struct {
	Port    string        `toml:"port"`
	Audit   AuditConfig   `toml:"audit"`
	Log     LogConfig     `toml:"log"`
	Tracing TracingConfig `toml:"tracing"`
	Metrics MetricsConfig `toml:"metrics"`
	HTTP    HTTPConfig    `toml:"http"`
}

// AuditConfig selects where the moderation audit trail is kept.
type AuditConfig struct {
	Backend string `toml:"backend"`        // "memory" (default), "bolt" or "sqlite"
	Path    string `toml:"path,omitempty"` // database file, unused for memory
}

// LogConfig controls zerolog output.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // "json" or "console"
}

// TracingConfig configures the OTLP exporter. An empty endpoint disables tracing.
type TracingConfig struct {
	Endpoint string `toml:"endpoint,omitempty"`
}

// MetricsConfig configures the periodic gauge collector.
type MetricsConfig struct {
	Interval Duration `toml:"interval"`
}

// HTTPConfig holds browser-facing server settings.
type HTTPConfig struct {
	// SecureCookies sets the Secure flag on the CSRF cookie. Enable behind HTTPS.
	SecureCookies bool `toml:"secure_cookies"`
}

// Duration is a time.Duration that decodes from TOML strings like "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Port:    "18920",
		Audit:   AuditConfig{Backend: "memory"},
		Log:     LogConfig{Level: "info", Format: "console"},
		Metrics: MetricsConfig{Interval: Duration{time.Minute}},
	}
}

// Read decodes TOML from r over the defaults.
func Read(r io.Reader) (*Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Load builds the configuration from defaults, the file named by BARO_CONFIG
// when set, and environment overrides, then validates it. getenv is usually
// os.Getenv.
func Load(getenv func(string) string) (*Config, error) {
	cfg := Default()
	if path := getenv("BARO_CONFIG"); path != "" {
		var err error
		cfg, err = ReadFromFile(path)
		if err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := getenv("BARO_AUDIT_BACKEND"); v != "" {
		c.Audit.Backend = v
	}
	if v := getenv("BARO_AUDIT_PATH"); v != "" {
		c.Audit.Path = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.Tracing.Endpoint = v
	}
	if v := getenv("BARO_METRICS_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid BARO_METRICS_INTERVAL %q: %w", v, err)
		}
		c.Metrics.Interval = Duration{d}
	}
	if v := getenv("SECURE_COOKIES"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SECURE_COOKIES %q: %w", v, err)
		}
		c.HTTP.SecureCookies = secure
	}
	return nil
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Validate checks the settings for values the server cannot run with.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: port %q", ErrInvalid, c.Port)
	}
	switch c.Audit.Backend {
	case "memory", "bolt", "sqlite":
	default:
		return fmt.Errorf("%w: audit backend %q", ErrInvalid, c.Audit.Backend)
	}
	if c.Metrics.Interval.Duration <= 0 {
		return fmt.Errorf("%w: metrics interval %s", ErrInvalid, c.Metrics.Interval)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return "0.0.0.0:" + c.Port
}
