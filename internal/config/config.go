package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "1h" parse.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config defines server configuration. Values come from defaults, then an
// optional YAML file, then TIMEKEEPER_* environment overrides.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Auth   AuthConfig   `yaml:"auth"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type AuthConfig struct {
	// JWTSecret has no default; the server refuses to start without it.
	JWTSecret  string   `yaml:"jwt_secret"`
	AccessTTL  Duration `yaml:"access_ttl"`
	RefreshTTL Duration `yaml:"refresh_ttl"`
	BcryptCost int      `yaml:"bcrypt_cost"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "timekeeper.db",
		},
		Auth: AuthConfig{
			AccessTTL:  Duration(time.Hour),
			RefreshTTL: Duration(30 * 24 * time.Hour),
			BcryptCost: 12,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("TIMEKEEPER_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("TIMEKEEPER_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("TIMEKEEPER_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TIMEKEEPER_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("TIMEKEEPER_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if secret := os.Getenv("TIMEKEEPER_JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if ttlStr := os.Getenv("TIMEKEEPER_ACCESS_TTL"); ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TIMEKEEPER_ACCESS_TTL: %w", err)
		}
		cfg.Auth.AccessTTL = Duration(ttl)
	}
	if ttlStr := os.Getenv("TIMEKEEPER_REFRESH_TTL"); ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TIMEKEEPER_REFRESH_TTL: %w", err)
		}
		cfg.Auth.RefreshTTL = Duration(ttl)
	}
	if costStr := os.Getenv("TIMEKEEPER_BCRYPT_COST"); costStr != "" {
		cost, err := strconv.Atoi(costStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TIMEKEEPER_BCRYPT_COST: %w", err)
		}
		cfg.Auth.BcryptCost = cost
	}
	if level := os.Getenv("TIMEKEEPER_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("TIMEKEEPER_JWT_SECRET is required")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("jwt secret must be at least 32 characters for HMAC-SHA256")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost must be between 4 and 14, got %d", c.Auth.BcryptCost)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
