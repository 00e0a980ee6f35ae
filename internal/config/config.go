package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	SendGridAPIKey  string        `env:"SENDGRID_API_KEY,required" validate:"required"`
	SendGridURL     string        `env:"SENDGRID_URL" envDefault:"https://api.sendgrid.com/v3/mail/send" validate:"required,url"`
	SendGridTimeout time.Duration `env:"SENDGRID_TIMEOUT" envDefault:"30s" validate:"gt=0"`

	// NotificationEmail is copied (BCC) on every outbound message when set.
	NotificationEmail string `env:"NOTIFICATION_EMAIL" validate:"omitempty,email"`

	CORSAllowedOrigin string `env:"CORS_ALLOWED_ORIGIN" envDefault:"*" validate:"required"`

	SentryDSN         string `env:"SENTRY_DSN" validate:"omitempty,url"`
	SentryEnvironment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`

	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"text" validate:"omitempty,oneof=text json"`
	Port      string     `env:"PORT" envDefault:"8080" validate:"required,numeric"`
}

var configValidator = validator.New()

func Load() (*Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if err := configValidator.Struct(c); err != nil {
		return err
	}

	parsed, err := url.Parse(strings.TrimSpace(c.SendGridURL))
	if err != nil || parsed.Hostname() == "" {
		return fmt.Errorf("SENDGRID_URL must be a valid absolute URL")
	}
	if !isLocalHost(parsed.Hostname()) && !strings.EqualFold(parsed.Scheme, "https") {
		return fmt.Errorf("SENDGRID_URL must use https outside local development")
	}

	origin := strings.TrimSpace(c.CORSAllowedOrigin)
	if origin != "*" {
		parsed, err := url.Parse(origin)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("CORS_ALLOWED_ORIGIN must be '*' or an origin like https://example.com")
		}
	}

	return nil
}

func isLocalHost(host string) bool {
	switch strings.ToLower(strings.TrimSpace(host)) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}
