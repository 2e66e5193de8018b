// Package config loads the YAML configuration shared by the binaries.
// Values come from defaults, then the config file, then CHESSRULES_*
// environment variables; the binaries apply flags last.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hailam/chessrules/internal/board"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CHESSRULES_"

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Rules   board.Rules   `yaml:"rules"`
	Render  RenderConfig  `yaml:"render"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type StorageConfig struct {
	// Dir is the database directory; empty selects the platform data dir.
	Dir      string `yaml:"dir"`
	InMemory bool   `yaml:"in_memory"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type RenderConfig struct {
	Size  int     `yaml:"size"`
	Scale float64 `yaml:"scale"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Render: RenderConfig{
			Size:  480,
			Scale: 3,
		},
	}
}

// Load reads defaults, the file at path and the environment. A missing file
// is not an error when optional is set.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist) && optional:
		case err != nil:
			return nil, fmt.Errorf("config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}

	str("ADDR", &c.Server.Addr)
	str("STORAGE_DIR", &c.Storage.Dir)
	boolean("STORAGE_IN_MEMORY", &c.Storage.InMemory)
	str("LOG_LEVEL", &c.Log.Level)
	boolean("LOG_DEVELOPMENT", &c.Log.Development)
	boolean("CHECK_FILTER", &c.Rules.CheckFilter)
	boolean("CASTLING", &c.Rules.Castling)

	if v, ok := lookup(EnvPrefix + "RENDER_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sRENDER_SIZE: %w", EnvPrefix, err))
		} else {
			c.Render.Size = n
		}
	}
	if v, ok := lookup(EnvPrefix + "RENDER_SCALE"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sRENDER_SCALE: %w", EnvPrefix, err))
		} else {
			c.Render.Scale = f
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Server.Addr == "":
		return errors.New("config: server.addr is empty")
	case c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0:
		return errors.New("config: server timeouts must not be negative")
	case c.Render.Size < 64 || c.Render.Size > 4096:
		return fmt.Errorf("config: render.size %d out of range [64, 4096]", c.Render.Size)
	case c.Render.Scale < 1 || c.Render.Scale > 8:
		return fmt.Errorf("config: render.scale %v out of range [1, 8]", c.Render.Scale)
	}
	return nil
}

// Write stores c as YAML at path.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
