// Package config loads the YAML configuration of the layoutbox command.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Common errors
var (
	ErrConfigurationError = errors.New("configuration error")
	ErrInvalidValue       = errors.New("invalid value")
)

// ConfigError represents a configuration error with context.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError wrapping ErrInvalidValue.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message, Err: ErrInvalidValue}
}

// Supported output formats.
const (
	FormatPDF = "pdf"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// UnitsConfig provides frame defaults used when a frame header omits them.
type UnitsConfig struct {
	// Density is the dp to px scale.
	Density float64 `yaml:"density" json:"density"`

	// DPI converts physical lengths (mm, cm, in, pt) to pixels.
	DPI float64 `yaml:"dpi" json:"dpi"`
}

// SetDefaults sets default values for unit configuration.
func (c *UnitsConfig) SetDefaults() {
	if c.Density == 0 {
		c.Density = 1
	}
	if c.DPI == 0 {
		c.DPI = 160
	}
}

// Validate validates the unit configuration.
func (c *UnitsConfig) Validate() error {
	if c.Density < 0 {
		return NewConfigError("units.density", "must be positive")
	}
	if c.DPI < 0 {
		return NewConfigError("units.dpi", "must be positive")
	}
	return nil
}

// RenderConfig controls the output renderer.
type RenderConfig struct {
	// Format is one of pdf, svg or png.
	Format string `yaml:"format" json:"format"`

	// Scale multiplies the PNG output size.
	Scale float64 `yaml:"scale" json:"scale"`

	// Outline draws the border of every box.
	Outline *bool `yaml:"outline" json:"outline,omitempty"`

	// ShowOuter draws the outer rectangle of every box with a dashed line.
	ShowOuter bool `yaml:"show-outer" json:"show_outer"`

	// Labels controls whether the SVG renderer writes box labels as text elements.
	Labels *bool `yaml:"labels" json:"labels,omitempty"`

	// Wrap is the label wrapping mode of the PDF renderer: normal, nowrap or break-word.
	Wrap string `yaml:"wrap" json:"wrap,omitempty"`

	// FontDir resolves relative font paths.
	FontDir string `yaml:"font-dir" json:"font_dir,omitempty"`
}

// SetDefaults sets default values for render configuration.
func (c *RenderConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = FormatPDF
	}
	c.Format = strings.ToLower(c.Format)
	if c.Scale == 0 {
		c.Scale = 1
	}
	if c.Outline == nil {
		c.Outline = boolPtr(true)
	}
	if c.Labels == nil {
		c.Labels = boolPtr(true)
	}
	if c.Wrap == "" {
		c.Wrap = "normal"
	}
}

// Validate validates the render configuration.
func (c *RenderConfig) Validate() error {
	switch c.Format {
	case FormatPDF, FormatSVG, FormatPNG:
	default:
		return NewConfigError("render.format", fmt.Sprintf("unsupported format %q", c.Format))
	}
	if c.Scale < 0 {
		return NewConfigError("render.scale", "must be positive")
	}
	switch c.Wrap {
	case "normal", "nowrap", "break-word":
	default:
		return NewConfigError("render.wrap", fmt.Sprintf("unsupported wrap mode %q", c.Wrap))
	}
	return nil
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" json:"level"`

	// Color enables colored output.
	Color *bool `yaml:"color" json:"color,omitempty"`
}

// SetDefaults sets default values for logging configuration.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	c.Level = strings.ToLower(c.Level)
	if c.Color == nil {
		c.Color = boolPtr(true)
	}
}

// Validate validates the logging configuration.
func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
		return nil
	}
	return NewConfigError("logging.level", fmt.Sprintf("unknown level %q", c.Level))
}

// DebugConfig controls the debug dump of resolved geometry.
type DebugConfig struct {
	// JSON is the path of the debug JSON file, empty to disable.
	JSON string `yaml:"json" json:"json,omitempty"`
}

// AppConfig contains the complete application configuration.
type AppConfig struct {
	Units   *UnitsConfig   `yaml:"units" json:"units,omitempty"`
	Render  *RenderConfig  `yaml:"render" json:"render,omitempty"`
	Logging *LoggingConfig `yaml:"logging" json:"logging,omitempty"`
	Debug   *DebugConfig   `yaml:"debug" json:"debug,omitempty"`
}

// Default returns a configuration with every section defaulted.
func Default() *AppConfig {
	var config AppConfig
	config.SetDefaults()
	return &config
}

// SetDefaults fills missing sections and their default values.
func (c *AppConfig) SetDefaults() {
	if c.Units == nil {
		c.Units = &UnitsConfig{}
	}
	c.Units.SetDefaults()
	if c.Render == nil {
		c.Render = &RenderConfig{}
	}
	c.Render.SetDefaults()
	if c.Logging == nil {
		c.Logging = &LoggingConfig{}
	}
	c.Logging.SetDefaults()
	if c.Debug == nil {
		c.Debug = &DebugConfig{}
	}
}

// Validate validates every section.
func (c *AppConfig) Validate() error {
	if err := c.Units.Validate(); err != nil {
		return err
	}
	if err := c.Render.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}

// LoadAppConfig loads the complete application configuration from a file.
func LoadAppConfig(filename string) (*AppConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseAppConfig(data)
}

// ParseAppConfig parses YAML data, applies defaults and validates the result.
func ParseAppConfig(data []byte) (*AppConfig, error) {
	var config AppConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, &ConfigError{Message: "failed to parse config", Err: fmt.Errorf("%w: %v", ErrConfigurationError, err)}
	}
	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func boolPtr(b bool) *bool { return &b }
