package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rpggio/launchpad/internal/domain/activity"
	"github.com/rpggio/launchpad/internal/domain/boost"
	"github.com/rpggio/launchpad/internal/domain/ratelimit"
	"github.com/rpggio/launchpad/internal/domain/reputation"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	Transport TransportConfig `yaml:"transport"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Throttle  ThrottleConfig  `yaml:"throttle"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// AuthConfig controls bearer token verification and browser origins.
// An empty JWTSecret disables token auth and every request is anonymous.
type AuthConfig struct {
	JWTSecret      string   `yaml:"jwt_secret"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// TransportConfig selects how the server is exposed: "http" or "stdio".
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

// CatalogConfig tunes promotion, throttling and reputation.
type CatalogConfig struct {
	Boost           boost.Inventory       `yaml:"boost"`
	Reputation      reputation.Thresholds `yaml:"reputation"`
	Submission      ratelimit.Policy      `yaml:"submission"`
	Contact         ratelimit.Policy      `yaml:"contact"`
	FingerprintSalt string                `yaml:"fingerprint_salt"`
}

// Policies returns the per-action limiter configuration.
func (c CatalogConfig) Policies() map[activity.ActionType]ratelimit.Policy {
	return map[activity.ActionType]ratelimit.Policy{
		activity.TypeSubmission:     c.Submission,
		activity.TypeContactMessage: c.Contact,
	}
}

// ThrottleConfig bounds raw request rate per client fingerprint, in front of the catalog.
// A zero RequestsPerSecond disables the throttle.
type ThrottleConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	policies := ratelimit.DefaultPolicies()
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "launchpad.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Catalog: CatalogConfig{
			Boost:      boost.DefaultInventory(),
			Reputation: reputation.DefaultThresholds(),
			Submission: policies[activity.TypeSubmission],
			Contact:    policies[activity.TypeContactMessage],
		},
		Throttle: ThrottleConfig{
			RequestsPerSecond: 10,
			Burst:             20,
		},
	}
}

// Load reads configuration from a .env file, an optional YAML file, and
// LAUNCHPAD_* environment variables, in increasing precedence. path overrides
// LAUNCHPAD_CONFIG_PATH when set.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Defaults()

	if path == "" {
		path = os.Getenv("LAUNCHPAD_CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("LAUNCHPAD_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("LAUNCHPAD_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid LAUNCHPAD_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("LAUNCHPAD_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("LAUNCHPAD_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("LAUNCHPAD_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if secret := os.Getenv("LAUNCHPAD_JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if origins := os.Getenv("LAUNCHPAD_ALLOWED_ORIGINS"); origins != "" {
		cfg.Auth.AllowedOrigins = splitList(origins)
	}
	if mode := os.Getenv("LAUNCHPAD_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if salt := os.Getenv("LAUNCHPAD_FINGERPRINT_SALT"); salt != "" {
		cfg.Catalog.FingerprintSalt = salt
	}
	if slots := os.Getenv("LAUNCHPAD_BOOST_SLOTS"); slots != "" {
		n, err := strconv.Atoi(slots)
		if err != nil {
			return fmt.Errorf("invalid LAUNCHPAD_BOOST_SLOTS: %w", err)
		}
		cfg.Catalog.Boost.Size = n
	}
	if window := os.Getenv("LAUNCHPAD_SUBMISSION_WINDOW"); window != "" {
		d, err := time.ParseDuration(window)
		if err != nil {
			return fmt.Errorf("invalid LAUNCHPAD_SUBMISSION_WINDOW: %w", err)
		}
		cfg.Catalog.Submission.Window = d
	}
	if limit := os.Getenv("LAUNCHPAD_SUBMISSION_MAX"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return fmt.Errorf("invalid LAUNCHPAD_SUBMISSION_MAX: %w", err)
		}
		cfg.Catalog.Submission.Max = n
	}
	if rps := os.Getenv("LAUNCHPAD_THROTTLE_RPS"); rps != "" {
		f, err := strconv.ParseFloat(rps, 64)
		if err != nil {
			return fmt.Errorf("invalid LAUNCHPAD_THROTTLE_RPS: %w", err)
		}
		cfg.Throttle.RequestsPerSecond = f
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

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
