package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mainmatter/contact-mailer/internal/config"
	"github.com/mainmatter/contact-mailer/internal/logging"
	"github.com/mainmatter/contact-mailer/internal/services"
)

const maxContactBodyBytes = 1 << 20 // 1 MB

// Handlers provides HTTP request handlers for the contact mailer.
type Handlers struct {
	config         *config.Config
	contactService services.ContactSubmitter
	metrics        http.Handler
	logger         *slog.Logger
}

type Dependencies struct {
	Config         *config.Config
	ContactService services.ContactSubmitter
	// Metrics serves the Prometheus exposition; optional.
	Metrics http.Handler
	Logger  *slog.Logger
}

func New(deps Dependencies) (*Handlers, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if deps.Config == nil {
		return nil, fmt.Errorf("handlers dependencies: config is required")
	}
	if deps.ContactService == nil {
		return nil, fmt.Errorf("handlers dependencies: contactService is required")
	}

	metrics := deps.Metrics
	if metrics == nil {
		metrics = http.NotFoundHandler()
	}

	return &Handlers{
		config:         deps.Config,
		contactService: deps.ContactService,
		metrics:        metrics,
		logger:         logger.With("component", "handlers"),
	}, nil
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	}); err != nil {
		logger.Error("failed to encode health response", "error", err)
	}
}

func (h *Handlers) Metrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}

func (h *Handlers) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, h.logger)
}
