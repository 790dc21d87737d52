// Package config loads server settings from .env, an optional YAML file and
// the environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        int    `yaml:"port"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
	// BaseURL prefixes generated share links.
	BaseURL string `yaml:"base_url"`

	RunLatency    time.Duration `yaml:"run_latency"`
	RunTimeout    time.Duration `yaml:"run_timeout"`
	MaxCodeLength int           `yaml:"max_code_length"`
	SessionTTL    time.Duration `yaml:"session_ttl"`

	// RateLimit is the number of API requests allowed per client per minute.
	RateLimit int `yaml:"rate_limit"`
	RateBurst int `yaml:"rate_burst"`
	// TrustProxy keys rate limits on X-Forwarded-For. Enable it only when
	// a reverse proxy in front of the server sets that header.
	TrustProxy bool `yaml:"trust_proxy"`

	// NatsURL enables the NATS request handlers when set.
	NatsURL string `yaml:"nats_url"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port:          8080,
		Environment:   "production",
		LogLevel:      "info",
		BaseURL:       "http://localhost:8080",
		RunLatency:    time.Second,
		RunTimeout:    30 * time.Second,
		MaxCodeLength: 64 * 1024,
		SessionTTL:    15 * time.Minute,
		RateLimit:     120,
		RateBurst:     20,
	}
}

// Load builds the configuration. A missing .env file is ignored; an empty
// path skips the YAML file.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing YAML config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.BaseURL = getEnv("BASE_URL", cfg.BaseURL)
	cfg.NatsURL = getEnv("NATS_URL", cfg.NatsURL)

	var errs []error
	errs = append(errs,
		getEnvInt("PORT", &cfg.Port),
		getEnvInt("MAX_CODE_LENGTH", &cfg.MaxCodeLength),
		getEnvInt("RATE_LIMIT", &cfg.RateLimit),
		getEnvInt("RATE_BURST", &cfg.RateBurst),
		getEnvBool("TRUST_PROXY", &cfg.TrustProxy),
		getEnvDuration("RUN_LATENCY", &cfg.RunLatency),
		getEnvDuration("RUN_TIMEOUT", &cfg.RunTimeout),
		getEnvDuration("SESSION_TTL", &cfg.SessionTTL),
	)
	return errors.Join(errs...)
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.RunLatency < 0 {
		errs = append(errs, fmt.Errorf("run latency must not be negative"))
	}
	if c.RunTimeout <= 0 {
		errs = append(errs, fmt.Errorf("run timeout must be positive"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("session ttl must be positive"))
	}
	if c.MaxCodeLength < 0 {
		errs = append(errs, fmt.Errorf("max code length must not be negative"))
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		errs = append(errs, fmt.Errorf("rate limit and burst must not be negative"))
	}
	return errors.Join(errs...)
}

// Addr returns the listen address for Port.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Development reports whether ENVIRONMENT is "development".
func (c Config) Development() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, dst *int) error {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func getEnvBool(key string, dst *bool) error {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func getEnvDuration(key string, dst *time.Duration) error {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
