package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mainmatter/contact-mailer/internal/config"
	"github.com/mainmatter/contact-mailer/internal/email"
	"github.com/mainmatter/contact-mailer/internal/handlers"
	"github.com/mainmatter/contact-mailer/internal/observability"
	"github.com/mainmatter/contact-mailer/internal/services"
)

type App struct {
	Config         *config.Config
	Logger         *slog.Logger
	Registry       *prometheus.Registry
	HTTPClient     *http.Client
	ContactService *services.ContactService
	Handlers       *handlers.Handlers

	sentryEnabled bool
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg)
}

// NewWithConfig wires the application from an already loaded configuration.
func NewWithConfig(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := newLogger(cfg)

	sentryEnabled := false
	if dsn := strings.TrimSpace(cfg.SentryDSN); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         dsn,
			Environment: cfg.SentryEnvironment,
		}); err != nil {
			return nil, fmt.Errorf("failed to initialize sentry: %w", err)
		}
		sentryEnabled = true
	}

	registry := observability.NewRegistry()
	client := observability.NewHTTPClient(cfg.SendGridTimeout)

	contactService, err := services.NewContactService(
		email.NewSendGridTransport(client, cfg.SendGridURL),
		services.ContactServiceConfig{
			APIKey:            cfg.SendGridAPIKey,
			NotificationEmail: cfg.NotificationEmail,
		},
		observability.NewDeliveryMetrics(registry),
		logger.With("component", "contact_service"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize contact service: %w", err)
	}

	h, err := handlers.New(handlers.Dependencies{
		Config:         cfg,
		ContactService: contactService,
		Metrics:        observability.MetricsHandler(registry),
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	return &App{
		Config:         cfg,
		Logger:         logger,
		Registry:       registry,
		HTTPClient:     client,
		ContactService: contactService,
		Handlers:       h,
		sentryEnabled:  sentryEnabled,
	}, nil
}

// KeyValidator checks the configured SendGrid key.
func (a *App) KeyValidator() (*email.SendGridKeyValidator, error) {
	return email.NewSendGridKeyValidator(a.HTTPClient, a.Config.SendGridAPIKey, a.Config.SendGridURL)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}
	if a.sentryEnabled && !sentry.Flush(2*time.Second) && a.Logger != nil {
		a.Logger.Warn("failed to flush sentry events")
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	format := strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	case "text", "":
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level: cfg.LogLevel,
		}))
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: cfg.LogLevel}))
}
