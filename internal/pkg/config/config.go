package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/SellerDesk/internal/pkg/apierror"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/env"
)

// Config holds the runtime settings of the resource layer and the gateway.
type Config struct {
	BaseURL     string        `validate:"required,http_url"`
	SellerID    string
	Token       string
	Timeout     time.Duration `validate:"gt=0"`
	Concurrency int           `validate:"gte=1,lte=64"`

	AppHost         string
	AppPort         string `validate:"required,numeric"`
	AdminAPIKey     string
	MetricsUser     string
	MetricsPassword string

	CacheHost     string
	CachePort     string
	CachePassword string

	AttachmentMaxDimension int    `validate:"gte=0"`
	LogLevel               string `validate:"omitempty,oneof=trace debug info warn error"`
}

// Load reads the configuration from the loaded .env map and the process
// environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		BaseURL:     strings.TrimRight(strings.TrimSpace(env.GetEnv("BACKEND_BASE_URL", "")), "/"),
		SellerID:    strings.TrimSpace(env.GetEnv("ADMIN_SELLER_ID", "")),
		Token:       strings.TrimSpace(env.GetEnv("BACKEND_TOKEN", "")),
		Timeout:     time.Duration(env.GetInt("BACKEND_TIMEOUT_SECONDS", 15)) * time.Second,
		Concurrency: env.GetInt("RECONCILE_CONCURRENCY", 8),

		AppHost:         env.GetEnv("APP_HOST", "0.0.0.0"),
		AppPort:         env.GetEnv("APP_PORT", "8080"),
		AdminAPIKey:     env.GetEnv("ADMIN_API_KEY", ""),
		MetricsUser:     env.GetEnv("METRICS_USER", ""),
		MetricsPassword: env.GetEnv("METRICS_PASSWORD", ""),

		CacheHost:     env.GetEnv("CACHE_HOST", ""),
		CachePort:     env.GetEnv("CACHE_PORT", "6379"),
		CachePassword: env.GetEnv("CACHE_PASSWORD", ""),

		AttachmentMaxDimension: env.GetInt("ATTACHMENT_MAX_DIMENSION", 2048),
		LogLevel:               strings.ToLower(env.GetEnv("LOG_LEVEL", "info")),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return apierror.FromValidator(validator.New().Struct(c))
}

// Address is the listen address of the gateway.
func (c *Config) Address() string {
	return c.AppHost + ":" + c.AppPort
}

// MetricsEnabled reports whether /metrics should be mounted.
func (c *Config) MetricsEnabled() bool {
	return c.MetricsUser != "" && c.MetricsPassword != ""
}

// FiberLogLevel maps LogLevel onto the fiber logger levels.
func (c *Config) FiberLogLevel() log.Level {
	switch c.LogLevel {
	case "trace":
		return log.LevelTrace
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}
