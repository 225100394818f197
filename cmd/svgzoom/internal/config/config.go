package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/benoitkugler/svgzoom/svgdoc"
	"github.com/benoitkugler/svgzoom/svglive"
	"github.com/benoitkugler/svgzoom/svgzoom"
	"gopkg.in/yaml.v3"
)

// Config represents the svgzoom.yaml configuration
type Config struct {
	// Id of the graph layer
	Layer string `yaml:"layer"`

	// Factor used by the "in" and "out" operations
	ZoomStep float64 `yaml:"zoomStep"`

	// "ignore", "warn" or "strict"
	ErrorMode string `yaml:"errorMode"`

	// "debug", "info", "warn" or "error"
	LogLevel string `yaml:"logLevel"`

	Serve   ServeConfig   `yaml:"serve"`
	Minimap MinimapConfig `yaml:"minimap"`
}

// ServeConfig contains the live server configuration
type ServeConfig struct {
	Addr  string `yaml:"addr"`
	Watch bool   `yaml:"watch"`
}

// MinimapConfig contains the overview image configuration
type MinimapConfig struct {
	// Width of the image, in pixels
	Size int `yaml:"size"`
}

// DefaultLayer is the id graphviz gives to the graph group.
const DefaultLayer = svglive.DefaultLayerID

var errInvalid = errors.New("invalid configuration")

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Layer:     DefaultLayer,
		ZoomStep:  svgzoom.DefaultZoomStep,
		ErrorMode: "warn",
		LogLevel:  "info",
		Serve:     ServeConfig{Addr: "localhost:8080"},
		Minimap:   MinimapConfig{Size: 256},
	}
}

// Load reads the YAML file at `path`, on top of the default configuration.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values which are not free strings.
func (c *Config) Validate() error {
	if c.Layer == "" {
		return fmt.Errorf("%w: empty layer id", errInvalid)
	}
	if !(c.ZoomStep > 1) {
		return fmt.Errorf("%w: zoomStep must be greater than 1, got %v", errInvalid, c.ZoomStep)
	}
	if _, err := c.Mode(); err != nil {
		return fmt.Errorf("%w: %v", errInvalid, err)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: %v", errInvalid, err)
	}
	if c.Minimap.Size <= 0 {
		return fmt.Errorf("%w: minimap size must be positive, got %d", errInvalid, c.Minimap.Size)
	}
	return nil
}

// Mode returns the parsed ErrorMode.
func (c *Config) Mode() (svgdoc.ErrorMode, error) { return svgdoc.ParseErrorMode(c.ErrorMode) }

// Level returns the parsed log level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(c.LogLevel))
	return l, err
}
