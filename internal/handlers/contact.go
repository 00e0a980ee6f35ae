package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mainmatter/contact-mailer/internal/email"
)

var errMalformedSubmission = errors.New("malformed contact submission")

var requestValidator = validator.New()

// contactRequest is the inbound shape shared by JSON and form submissions.
// Pointers distinguish missing keys from empty values.
type contactRequest struct {
	Name    *string `json:"name" validate:"required"`
	Email   *string `json:"email" validate:"required"`
	Message *string `json:"message"`
	Service *string `json:"service"`
	Company *string `json:"company"`
}

func (c contactRequest) submission() email.Submission {
	sub := email.Submission{
		Name:    *c.Name,
		Email:   *c.Email,
		Service: c.Service,
		Company: c.Company,
	}
	if c.Message != nil {
		sub.Message = *c.Message
	}
	return sub
}

// SendContact accepts a contact form submission and forwards it to SendGrid.
func (h *Handlers) SendContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.loggerFromContext(ctx)

	req, err := decodeContactRequest(w, r)
	if err != nil {
		logger.Info("rejected contact submission", "error", err)
		writePlain(w, http.StatusUnprocessableEntity, "Unprocessable Entity")
		return
	}

	outcome := h.contactService.Submit(ctx, req.submission())
	status, body := httpOutcome(outcome)
	writePlain(w, status, body)
}

// ContactPreflight answers CORS preflight requests; the headers come from the CORS middleware.
func (h *Handlers) ContactPreflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// httpOutcome maps a delivery outcome to what the submitter sees. Provider
// details are never forwarded.
func httpOutcome(outcome email.Outcome) (int, string) {
	switch outcome.Kind {
	case email.Accepted:
		return http.StatusOK, ""
	case email.Rejected:
		return http.StatusBadGateway, "Bad Gateway"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

func writePlain(w http.ResponseWriter, status int, body string) {
	if body != "" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
	}
	w.WriteHeader(status)
	if body != "" {
		_, _ = io.WriteString(w, body)
	}
}

// decodeContactRequest reads the body as JSON first and falls back to form fields.
func decodeContactRequest(w http.ResponseWriter, r *http.Request) (contactRequest, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxContactBodyBytes))
	if err != nil {
		return contactRequest{}, fmt.Errorf("%w: failed to read body: %v", errMalformedSubmission, err)
	}

	var req contactRequest
	if err := json.Unmarshal(body, &req); err == nil {
		if err := requestValidator.Struct(req); err == nil {
			return req, nil
		}
	}

	values, err := formValues(r, body)
	if err != nil {
		return contactRequest{}, fmt.Errorf("%w: %v", errMalformedSubmission, err)
	}

	req = contactRequest{
		Name:    formValue(values, "name"),
		Email:   formValue(values, "email"),
		Message: formValue(values, "message"),
		Service: formValue(values, "service"),
		Company: formValue(values, "company"),
	}
	if err := requestValidator.Struct(req); err != nil {
		return contactRequest{}, fmt.Errorf("%w: %v", errMalformedSubmission, err)
	}
	return req, nil
}

func formValues(r *http.Request, body []byte) (url.Values, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.EqualFold(mediaType, "multipart/form-data") {
		r.Body = io.NopCloser(bytes.NewReader(body))
		if err := r.ParseMultipartForm(maxContactBodyBytes); err != nil {
			return nil, fmt.Errorf("failed to parse multipart form: %w", err)
		}
		return url.Values(r.MultipartForm.Value), nil
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}
	return values, nil
}

func formValue(values url.Values, key string) *string {
	v, ok := values[key]
	if !ok || len(v) == 0 {
		return nil
	}
	value := v[0]
	return &value
}
