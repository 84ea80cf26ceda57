package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes environment overrides, e.g. ECOLINK_PORT=8080
const EnvPrefix = "ECOLINK_"

// DefaultFile is the optional TOML config file read from the working directory
const DefaultFile = "ecolink.toml"

// Config holds all configuration for the application
type Config struct {
	Dataset     string `koanf:"dataset"`
	Host        string `koanf:"host"`
	Port        int    `koanf:"port"`
	Static      string `koanf:"static"`
	CORS        bool   `koanf:"cors"`
	Watch       bool   `koanf:"watch"`
	Verbosity   string `koanf:"verbosity"`
	VerboseCnt  int    `koanf:"verbose"`
	JSONLogs    bool   `koanf:"json-logs"`
	Source      string `koanf:"source"`
	Destination string `koanf:"destination"`
}

var defaults = map[string]interface{}{
	"dataset":     "daa_states_dataset.csv",
	"host":        "",
	"port":        5000,
	"static":      "",
	"cors":        true,
	"watch":       false,
	"verbosity":   "",
	"verbose":     0,
	"json-logs":   false,
	"source":      "",
	"destination": "",
}

// RegisterFlags declares the command-line flags Load understands
func RegisterFlags(f *pflag.FlagSet) {
	f.String("config", DefaultFile, "Path to the TOML config file")
	f.StringP("dataset", "d", "daa_states_dataset.csv", "Path to the corridor dataset (CSV)")
	f.String("host", "", "Interface to listen on")
	f.IntP("port", "p", 5000, "Port for the web server")
	f.String("static", "", "Directory with front-end assets (default: built-in)")
	f.Bool("cors", true, "Allow cross-origin requests")
	f.Bool("watch", false, "Warn when the dataset changes on disk")
	f.String("verbosity", "", "Log level: trace, debug, info, warn, error")
	f.CountP("verbose", "v", "Increase log verbosity (-v debug, -vv trace)")
	f.Bool("json-logs", false, "Log as JSON")
	f.String("source", "", "Print the corridor from this habitat and exit")
	f.String("destination", "", "Print the corridor to this habitat and exit")
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(mapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path := DefaultFile
	explicit := false
	if f != nil {
		if fl := f.Lookup("config"); fl != nil {
			path = fl.Value.String()
			explicit = fl.Changed
		}
	}
	// A missing default file is fine; a missing explicit one is not
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil && (explicit || !errors.Is(err, fs.ErrNotExist)) {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	// Keys are flat, so ECOLINK_JSON_LOGS maps to json-logs
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, EnvPrefix)), "_", "-")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be fixed by defaults
func (c *Config) Validate() error {
	if c.Dataset == "" {
		return errors.New("config: dataset path is empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// QueryMode reports whether a one-shot console query was requested
func (c *Config) QueryMode() bool {
	return c.Source != "" || c.Destination != ""
}

// Addr is the listen address for the web server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogLevel resolves the verbosity name, falling back to the -v count
func (c *Config) LogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Verbosity) {
	case "trace":
		return slog.LevelDebug - 4, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "":
	default:
		return 0, fmt.Errorf("config: unknown verbosity %q", c.Verbosity)
	}

	switch {
	case c.VerboseCnt >= 2:
		return slog.LevelDebug - 4, nil
	case c.VerboseCnt == 1:
		return slog.LevelDebug, nil
	default:
		return slog.LevelInfo, nil
	}
}

// mapProvider serves a static map as a koanf provider
type mapProvider map[string]interface{}

func (p mapProvider) Read() (map[string]interface{}, error) {
	return p, nil
}

func (p mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("not implemented")
}
