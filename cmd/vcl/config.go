package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/naoina/toml"

	"github.com/eth2030/vcl/crypto/confidential"
	"github.com/eth2030/vcl/log"
)

// Config loader errors.
var (
	ErrConfigFileNotFound = errors.New("config: file not found")
	ErrInvalidConfig      = errors.New("config: invalid configuration")
)

// Config is the file layout read by --config.
type Config struct {
	Protocol ProtocolConfig
	Log      LogConfig
	Metrics  MetricsConfig
}

// ProtocolConfig selects the group suite, transcript hash and range width.
type ProtocolConfig struct {
	Suite     string
	Hash      string
	RangeBits int
}

// LogConfig controls the stderr logger.
type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig enables the Prometheus text dump printed after each command.
type MetricsConfig struct {
	Enabled bool
	Runtime bool
}

// tomlSettings maps snake_case keys onto exported fields and refuses keys
// that have no field.
var tomlSettings = func() toml.Config {
	c := toml.DefaultConfig
	c.MissingField = func(rt reflect.Type, field string) error {
		return fmt.Errorf("field %q is not defined in %s", field, rt.String())
	}
	return c
}()

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	p := confidential.DefaultParams()
	return &Config{
		Protocol: ProtocolConfig{
			Suite:     p.Suite.Name(),
			Hash:      p.Hash.String(),
			RangeBits: p.Bits,
		},
		Log: LogConfig{
			Level:  "info",
			Format: string(log.FormatTerminal),
		},
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig. Keys absent from
// the file keep their default values. An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := tomlSettings.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every name in the config resolves.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if _, err := c.Params(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := log.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Params resolves the protocol section.
func (c *Config) Params() (confidential.Params, error) {
	return confidential.NewParams(c.Protocol.Suite, c.Protocol.Hash, c.Protocol.RangeBits)
}
