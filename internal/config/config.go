// Package config loads server settings from defaults, an optional YAML file
// and SCREENSHOT_MCP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/PoorRican/gui-agent-screenshot-tools/pkg/screenspace"
)

// EnvPrefix is prepended to every environment override, e.g.
// SCREENSHOT_MCP_LOG_LEVEL or SCREENSHOT_MCP_RESIZE_DEFAULT_TARGET.
const EnvPrefix = "SCREENSHOT_MCP"

// Config holds the server settings.
type Config struct {
	LogLevel string       `mapstructure:"log_level"`
	Resize   ResizeConfig `mapstructure:"resize"`
	OCR      OCRConfig    `mapstructure:"ocr"`
	Grid     GridConfig   `mapstructure:"grid"`
	Server   ServerConfig `mapstructure:"server"`
}

// ResizeConfig sets the model input space used when a resize request omits it.
type ResizeConfig struct {
	DefaultTarget string `mapstructure:"default_target"`
	DefaultMode   string `mapstructure:"default_mode"`
}

type OCRConfig struct {
	Language      string  `mapstructure:"language"`
	MinConfidence float64 `mapstructure:"min_confidence"`
}

type GridConfig struct {
	Spacing int `mapstructure:"spacing"`
}

type ServerConfig struct {
	// MaxRequestBytes bounds a single JSON-RPC line read from stdin.
	MaxRequestBytes int `mapstructure:"max_request_bytes"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("resize.default_target", "1024x1024")
	v.SetDefault("resize.default_mode", "letterbox")
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.min_confidence", 0.5)
	v.SetDefault("grid.spacing", 100)
	v.SetDefault("server.max_request_bytes", 16*1024*1024)
}

// Default returns the configuration with no file or environment applied.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		panic(fmt.Sprintf("config: defaults do not decode: %v", err))
	}
	return cfg
}

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment are used.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if _, err := screenspace.ParseSpace(c.Resize.DefaultTarget); err != nil {
		errs = append(errs, fmt.Errorf("resize.default_target: %w", err))
	}
	if _, err := screenspace.ParseResizeMode(c.Resize.DefaultMode); err != nil {
		errs = append(errs, fmt.Errorf("resize.default_mode: %w", err))
	}
	if c.OCR.Language == "" {
		errs = append(errs, errors.New("ocr.language must not be empty"))
	}
	if c.OCR.MinConfidence < 0 || c.OCR.MinConfidence > 1 {
		errs = append(errs, fmt.Errorf("ocr.min_confidence %.1f must be within 0-1", c.OCR.MinConfidence))
	}
	if c.Grid.Spacing <= 0 {
		errs = append(errs, fmt.Errorf("grid.spacing %d must be positive", c.Grid.Spacing))
	}
	if c.Server.MaxRequestBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_request_bytes %d must be positive", c.Server.MaxRequestBytes))
	}
	return errors.Join(errs...)
}

// DefaultTarget returns the parsed default resize target. The config must
// have been validated.
func (c *Config) DefaultTarget() screenspace.Space {
	s, _ := screenspace.ParseSpace(c.Resize.DefaultTarget)
	return s
}

// DefaultMode returns the parsed default resize mode. The config must have
// been validated.
func (c *Config) DefaultMode() screenspace.ResizeMode {
	m, _ := screenspace.ParseResizeMode(c.Resize.DefaultMode)
	return m
}
