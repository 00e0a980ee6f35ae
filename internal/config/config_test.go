package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestValidateNotificationEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:    "unset",
			email:   "",
			wantErr: false,
		},
		{
			name:    "valid address",
			email:   "trigger@zapier.com",
			wantErr: false,
		},
		{
			name:    "invalid address",
			email:   "not-an-email",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			cfg.NotificationEmail = tt.email

			err := cfg.validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidateLogFormat(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.LogFormat = "xml"

	err := cfg.validate()
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "LogFormat") || !strings.Contains(err.Error(), "oneof") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRequiresAPIKey(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.SendGridAPIKey = ""

	err := cfg.validate()
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "SendGridAPIKey") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateSendGridURLRequiresHTTPSOutsideLocalhost(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.SendGridURL = "http://api.sendgrid.com/v3/mail/send"

	err := cfg.validate()
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "SENDGRID_URL must use https") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateSendGridURLAllowsLocalhostHTTP(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.SendGridURL = "http://localhost:3030/v3/mail/send"

	if err := cfg.validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateCORSAllowedOrigin(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.CORSAllowedOrigin = "https://mainmatter.com"
	if err := cfg.validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	cfg.CORSAllowedOrigin = "mainmatter.com"
	err := cfg.validate()
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "CORS_ALLOWED_ORIGIN") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func validConfig() *Config {
	return &Config{
		SendGridAPIKey:    "SG.test",
		SendGridURL:       "https://api.sendgrid.com/v3/mail/send",
		SendGridTimeout:   30 * time.Second,
		CORSAllowedOrigin: "*",
		LogFormat:         "text",
		Port:              "8080",
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("SENDGRID_API_KEY", "SG.test")
	t.Setenv("LOG_LEVEL", "DEBUG")

	// Ensure unrelated env vars from host don't affect this test.
	t.Setenv("SENDGRID_URL", "")
	t.Setenv("SENDGRID_TIMEOUT", "")
	t.Setenv("NOTIFICATION_EMAIL", "")
	t.Setenv("CORS_ALLOWED_ORIGIN", "")
	t.Setenv("SENTRY_DSN", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("expected DEBUG level, got %v", cfg.LogLevel)
	}
	if cfg.SendGridURL != "https://api.sendgrid.com/v3/mail/send" {
		t.Fatalf("unexpected default SENDGRID_URL: %q", cfg.SendGridURL)
	}
	if cfg.SendGridTimeout != 30*time.Second {
		t.Fatalf("unexpected default SENDGRID_TIMEOUT: %v", cfg.SendGridTimeout)
	}
	if cfg.CORSAllowedOrigin != "*" {
		t.Fatalf("unexpected default CORS_ALLOWED_ORIGIN: %q", cfg.CORSAllowedOrigin)
	}
	if cfg.Port != "8080" {
		t.Fatalf("unexpected default PORT: %q", cfg.Port)
	}
}

func TestLoadFailsWithoutAPIKey(t *testing.T) {
	t.Setenv("SENDGRID_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
