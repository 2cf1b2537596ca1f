// Package config loads ls-natal settings from YAML, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "ls-natal.yaml"

// Config is the top-level configuration.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Render  RenderConfig  `yaml:"render"`
}

// ServiceConfig describes the external chart service.
type ServiceConfig struct {
	BaseURL   string          `yaml:"base_url"`
	Timeout   time.Duration   `yaml:"timeout"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig paces outgoing requests.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// ServerConfig configures the bundled demo chart service.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	AllowOrigins string        `yaml:"allow_origins"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

type RenderConfig struct {
	FontPath string `yaml:"font_path"`
	PNGSize  int    `yaml:"png_size"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 15 * time.Second,
			RateLimit: RateLimitConfig{
				RequestsPerSecond: 2,
				Burst:             1,
			},
		},
		Server: ServerConfig{
			Addr:         ":8000",
			ReadTimeout:  10 * time.Second,
			AllowOrigins: "*",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Render: RenderConfig{
			PNGSize: 800,
		},
	}
}

// Load reads defaults, then the YAML file at path (missing is fine when
// path is DefaultPath or empty), then .env and environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	// .env is optional
	_ = godotenv.Load()

	explicit := path != "" && path != DefaultPath
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("NATAL_API_URL")); v != "" {
		c.Service.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("NATAL_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("NATAL_TIMEOUT: %w", err)
		}
		c.Service.Timeout = d
	}
	if v := strings.TrimSpace(os.Getenv("NATAL_RATE_LIMIT")); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("NATAL_RATE_LIMIT: %w", err)
		}
		c.Service.RateLimit.RequestsPerSecond = rps
	}
	if v := strings.TrimSpace(os.Getenv("NATAL_LISTEN")); v != "" {
		c.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		c.Logging.Format = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_OUTPUT")); v != "" {
		c.Logging.Output = v
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Service.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("service.base_url %q is not an absolute URL", c.Service.BaseURL)
	}
	if c.Service.Timeout <= 0 {
		return fmt.Errorf("service.timeout must be positive")
	}
	if c.Service.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("service.rate_limit.requests_per_second must not be negative")
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q must be text or json", c.Logging.Format)
	}
	if c.Render.PNGSize < 100 {
		return fmt.Errorf("render.png_size must be at least 100")
	}
	return nil
}
