package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	DefaultSendGridURL = "https://api.sendgrid.com/v3/mail/send"

	maxDrainBytes = 64 << 10
)

var ErrUnexpectedStatus = errors.New("unexpected sendgrid status")

// Transport performs a single SendGrid request and reports the HTTP status it got back.
// An error means no response was received.
type Transport func(ctx context.Context, apiKey string, body []byte) (int, error)

// NewSendGridTransport returns the production Transport posting to endpoint.
func NewSendGridTransport(client *http.Client, endpoint string) Transport {
	if client == nil {
		client = http.DefaultClient
	}
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultSendGridURL
	}

	return func(ctx context.Context, apiKey string, body []byte) (int, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return 0, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return 0, fmt.Errorf("failed to send email: %w", err)
		}
		// The body is never inspected; drain a bounded amount so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
		_ = resp.Body.Close()

		return resp.StatusCode, nil
	}
}

// SendGridKeyValidator checks an API key against the SendGrid scopes endpoint.
type SendGridKeyValidator struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

// NewSendGridKeyValidator derives the API base from the mail/send endpoint.
func NewSendGridKeyValidator(client *http.Client, apiKey, endpoint string) (*SendGridKeyValidator, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultSendGridURL
	}
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid sendgrid endpoint %q", endpoint)
	}

	return &SendGridKeyValidator{
		client:  client,
		apiKey:  apiKey,
		baseURL: parsed.Scheme + "://" + parsed.Host,
	}, nil
}

// ValidateAPIKey checks if the API key is valid.
func (v *SendGridKeyValidator) ValidateAPIKey(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/v3/scopes", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+v.apiKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to validate API key: %w", err)
	}
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxDrainBytes))
	closeErr := resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("failed to read sendgrid validation response: %w", readErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close sendgrid validation response body: %w", closeErr)
	}

	if resp.StatusCode != http.StatusOK {
		if len(body) > 0 {
			return fmt.Errorf("invalid API key: %w: received status %d: %s", ErrUnexpectedStatus, resp.StatusCode, string(body))
		}
		return fmt.Errorf("invalid API key: %w: received status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return nil
}
