package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/vango-dev/vpatch/internal/errors"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "vpatch.json"

	// TOMLFileName is the name of the TOML configuration file.
	TOMLFileName = "vpatch.toml"

	// DefaultAddr is the default live server listen address.
	DefaultAddr = "localhost:7070"

	// DefaultReadLimit is the default maximum size of one WebSocket message.
	DefaultReadLimit = 1 << 20

	// DefaultWriteTimeout is the default WebSocket write deadline.
	DefaultWriteTimeout = "10s"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "vpatch"
)

// Config represents the complete vpatch configuration.
type Config struct {
	// Diagnostics selects how descriptor contract violations are
	// reported: "off", "warn" or "strict".
	Diagnostics string `json:"diagnostics,omitempty" toml:"diagnostics"`

	// IsolateHooks recovers panics raised by module hooks.
	IsolateHooks bool `json:"isolateHooks,omitempty" toml:"isolateHooks"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty" toml:"log"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty" toml:"metrics"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing,omitempty" toml:"tracing"`

	// Server contains live server configuration.
	Server ServerConfig `json:"server,omitempty" toml:"server"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of "debug", "info", "warn" or "error".
	Level string `json:"level,omitempty" toml:"level"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty" toml:"format"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled registers the patch collectors and serves /metrics.
	Enabled bool `json:"enabled,omitempty" toml:"enabled"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty" toml:"namespace"`

	// Subsystem is the metrics subsystem.
	Subsystem string `json:"subsystem,omitempty" toml:"subsystem"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled wraps every patch in a span.
	Enabled bool `json:"enabled,omitempty" toml:"enabled"`

	// TracerName is the instrumentation name passed to otel.Tracer.
	TracerName string `json:"tracerName,omitempty" toml:"tracerName"`
}

// ServerConfig contains live server settings.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty" toml:"addr"`

	// ReadLimit is the maximum size in bytes of one WebSocket message.
	ReadLimit int64 `json:"readLimit,omitempty" toml:"readLimit"`

	// WriteTimeout is the WebSocket write deadline (e.g., "10s").
	WriteTimeout string `json:"writeTimeout,omitempty" toml:"writeTimeout"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Diagnostics: "warn",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: "vpatch",
		},
		Server: ServerConfig{
			Addr:         DefaultAddr,
			ReadLimit:    DefaultReadLimit,
			WriteTimeout: DefaultWriteTimeout,
		},
	}
}

// Load reads configuration from dir. It looks for vpatch.json first, then
// vpatch.toml, and returns the defaults when neither exists.
func Load(dir string) (*Config, error) {
	for _, name := range []string{ConfigFileName, TOMLFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return New(), nil
}

// LoadFile reads configuration from the specified file path. The format
// follows the extension: .toml files are TOML, everything else JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigRead).
				WithDetail("No configuration file at " + path)
		}
		return nil, errors.New(errors.CodeConfigRead).Wrap(err)
	}

	cfg := New()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.New(errors.CodeConfigRead).
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid TOML")
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.New(errors.CodeConfigRead).
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid JSON")
		}
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// SaveTo writes the configuration to path, as TOML when the extension is
// .toml and as indented JSON otherwise.
func (c *Config) SaveTo(path string) error {
	var data []byte
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var b strings.Builder
		if err := toml.NewEncoder(&b).Encode(c); err != nil {
			return errors.New(errors.CodeConfigRead).Wrap(err)
		}
		data = []byte(b.String())
	} else {
		var err error
		data, err = json.MarshalIndent(c, "", "  ")
		if err != nil {
			return errors.New(errors.CodeConfigRead).Wrap(err)
		}
		data = append(data, '\n')
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigRead).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Diagnostics == "" {
		c.Diagnostics = "warn"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = "vpatch"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadLimit == 0 {
		c.Server.ReadLimit = DefaultReadLimit
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Diagnostics) {
	case "", "off", "warn", "strict":
	default:
		return invalid("diagnostics must be off, warn or strict, got %q", c.Diagnostics)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return invalid("%v", err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return invalid("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Server.ReadLimit < 0 {
		return invalid("server.readLimit must not be negative")
	}
	if _, err := c.Server.WriteDeadline(); err != nil {
		return invalid("server.writeTimeout: %v", err)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.CodeInvalidConfig).WithDetailf(format, args...)
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", l.Level)
	}
}

// WriteDeadline parses WriteTimeout. An empty value means no deadline.
func (s ServerConfig) WriteDeadline() (time.Duration, error) {
	if s.WriteTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.WriteTimeout)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", d)
	}
	return d, nil
}

// NewLogger builds the logger described by the Log section, writing to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := c.Log.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
