// Package config loads network settings from YAML, JSON or TOML files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/aretw0/propnet/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultMaxSteps matches the runtime bound used when nothing is configured.
const DefaultMaxSteps = 100_000

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds the tunables of a network and of the command line tool.
type Config struct {
	// Workers is the number of concurrent scheduler workers. 1 runs single-threaded.
	Workers int `mapstructure:"workers"`
	// MaxSteps bounds propagator firings per run. 0 disables the bound.
	MaxSteps int `mapstructure:"max_steps"`
	// Policy is "fail-fast" or "collect".
	Policy domain.ContradictionPolicy `mapstructure:"policy"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
	// Addr is the listen address of `propnet serve`.
	Addr string `mapstructure:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Workers:  1,
		MaxSteps: DefaultMaxSteps,
		Policy:   domain.PolicyFailFast,
		LogLevel: "info",
		Addr:     ":8080",
	}
}

// Load reads a configuration file. The format is chosen by extension
// (.json, .toml, anything else is YAML). Keys missing from the file keep
// their defaults, and a missing file yields Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	raw, err := parse(filepath.Ext(path), data)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if err := Decode(raw, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func parse(ext string, data []byte) (map[string]any, error) {
	raw := map[string]any{}
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	}
	return raw, nil
}

// Decode overlays a loosely typed document onto cfg. Strings such as "4"
// are accepted for numeric fields; unknown keys are rejected.
func Decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Validate rejects values the network cannot run with.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative (got %d)", ErrInvalid, c.Workers)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("%w: max_steps must not be negative (got %d)", ErrInvalid, c.MaxSteps)
	}
	if _, err := domain.ParsePolicy(string(c.Policy)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.LogLevel)
	}
	return nil
}
