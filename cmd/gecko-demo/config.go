package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete demo server configuration, loaded from a YAML file
// with environment variable overrides.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Cors      CorsConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Auth      AuthConfig      `yaml:"auth"`
	Database  DatabaseConfig  `yaml:"database"`
	Static    StaticConfig    `yaml:"static"`

	Development bool `yaml:"development"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	ReadTimeout    duration `yaml:"read_timeout"`
	WriteTimeout   duration `yaml:"write_timeout"`
	IdleTimeout    duration `yaml:"idle_timeout"`
	RequestTimeout duration `yaml:"request_timeout"`
}

// CorsConfig mirrors the framework's CORS settings in YAML-friendly form.
type CorsConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// RateLimitConfig contains request budget settings.
type RateLimitConfig struct {
	MaxRequests int      `yaml:"max_requests"`
	Window      duration `yaml:"window"`
}

// AuthConfig maps static bearer tokens to subjects. A real deployment would
// validate against a token service instead.
type AuthConfig struct {
	Tokens map[string]string `yaml:"tokens"`
}

// DatabaseConfig contains the sqlite store settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// StaticConfig contains static file serving settings.
type StaticConfig struct {
	Dir string `yaml:"dir"`
}

// duration wraps time.Duration so YAML values like "30s" parse.
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = duration(parsed)
	return nil
}

func (d duration) value() time.Duration {
	return time.Duration(d)
}

// loadConfig reads the YAML file at path, applies environment overrides and
// validates the result. A missing file is not an error; defaults apply.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults plus environment only.
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeout:    duration(30 * time.Second),
			WriteTimeout:   duration(30 * time.Second),
			IdleTimeout:    duration(60 * time.Second),
			RequestTimeout: duration(15 * time.Second),
		},
		Cors: CorsConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		},
		RateLimit: RateLimitConfig{
			MaxRequests: 100,
			Window:      duration(time.Minute),
		},
		Database: DatabaseConfig{
			Path: "./gecko-demo.db",
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnv("GECKO_SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvInt("GECKO_SERVER_PORT", cfg.Server.Port)
	cfg.Database.Path = getEnv("GECKO_DB_PATH", cfg.Database.Path)
	cfg.Static.Dir = getEnv("GECKO_STATIC_DIR", cfg.Static.Dir)
	if getEnv("GECKO_DEVELOPMENT", "") == "true" {
		cfg.Development = true
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout.value() <= 0 {
		return fmt.Errorf("invalid read timeout: %v (must be positive)", cfg.Server.ReadTimeout.value())
	}
	if cfg.Server.WriteTimeout.value() <= 0 {
		return fmt.Errorf("invalid write timeout: %v (must be positive)", cfg.Server.WriteTimeout.value())
	}
	if cfg.RateLimit.MaxRequests < 1 {
		return fmt.Errorf("invalid rate limit: %d (must be at least 1)", cfg.RateLimit.MaxRequests)
	}
	if cfg.Database.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
