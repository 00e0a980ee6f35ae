package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"

	"github.com/mainmatter/contact-mailer/internal/email"
	"github.com/mainmatter/contact-mailer/internal/logging"
	"github.com/mainmatter/contact-mailer/internal/observability"
)

// ContactSubmitter delivers a contact submission and reports how it went.
type ContactSubmitter interface {
	Submit(ctx context.Context, sub email.Submission) email.Outcome
}

type ContactService struct {
	transport email.Transport
	apiKey    string
	options   email.PayloadOptions
	metrics   *observability.DeliveryMetrics
	logger    *slog.Logger
}

type ContactServiceConfig struct {
	APIKey string
	// NotificationEmail is added as BCC to every message when set.
	NotificationEmail string
}

func NewContactService(transport email.Transport, cfg ContactServiceConfig, metrics *observability.DeliveryMetrics, logger *slog.Logger) (*ContactService, error) {
	if transport == nil {
		return nil, fmt.Errorf("contact service: transport is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("contact service: api key is required")
	}

	return &ContactService{
		transport: transport,
		apiKey:    cfg.APIKey,
		options:   email.PayloadOptions{BCC: cfg.NotificationEmail},
		metrics:   metrics,
		logger:    logging.FromContext(context.Background(), logger),
	}, nil
}

func (s *ContactService) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

// Submit builds the SendGrid payload and makes exactly one delivery attempt.
func (s *ContactService) Submit(ctx context.Context, sub email.Submission) email.Outcome {
	span := sentry.StartSpan(
		ctx,
		"service.contact.submit",
		sentry.WithOpName("service.contact"),
		sentry.WithDescription("Submit"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	logger := s.loggerFromContext(ctx)
	meter := observability.MeterFromContext(ctx)
	meter.Count("contact.submission.received", 1)

	payload := email.BuildPayload(sub, s.options)

	start := time.Now()
	outcome := email.Deliver(ctx, s.transport, s.apiKey, payload)
	elapsed := time.Since(start)

	s.metrics.Observe(outcome.Kind.String(), elapsed)
	meter.Count("contact.delivery", 1, sentry.WithAttributes(
		attribute.String("outcome", outcome.Kind.String()),
	))

	attrs := []any{
		"outcome", outcome.Kind.String(),
		"subject", payload.Subject,
		"duration_ms", elapsed.Milliseconds(),
	}
	switch outcome.Kind {
	case email.Accepted:
		logger.Info("contact submission delivered", attrs...)
	case email.Rejected:
		logger.Warn("sendgrid rejected contact submission", append(attrs, "provider_status", outcome.Status)...)
	default:
		logger.Error("failed to reach sendgrid", append(attrs, "error", outcome.Err)...)
		if outcome.Err != nil {
			sentry.CaptureException(outcome.Err)
		}
	}

	return outcome
}
