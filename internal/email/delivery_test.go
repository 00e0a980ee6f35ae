package email

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func staticTransport(status int, err error) Transport {
	return func(context.Context, string, []byte) (int, error) {
		return status, err
	}
}

func TestDeliver_MapsProviderResponses(t *testing.T) {
	t.Parallel()

	networkErr := errors.New("connection reset")

	tests := []struct {
		name       string
		transport  Transport
		wantKind   OutcomeKind
		wantStatus int
		wantErr    error
	}{
		{name: "accepted", transport: staticTransport(http.StatusAccepted, nil), wantKind: Accepted},
		{name: "ok is not accepted", transport: staticTransport(http.StatusOK, nil), wantKind: Rejected, wantStatus: http.StatusOK},
		{name: "bad request", transport: staticTransport(http.StatusBadRequest, nil), wantKind: Rejected, wantStatus: http.StatusBadRequest},
		{name: "server error", transport: staticTransport(http.StatusInternalServerError, nil), wantKind: Rejected, wantStatus: http.StatusInternalServerError},
		{name: "network error", transport: staticTransport(0, networkErr), wantKind: TransportFailed, wantErr: networkErr},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			outcome := Deliver(context.Background(), tt.transport, "api_key", BuildPayload(baseSubmission(), PayloadOptions{}))

			if outcome.Kind != tt.wantKind {
				t.Fatalf("unexpected kind: got=%s want=%s", outcome.Kind, tt.wantKind)
			}
			if outcome.Status != tt.wantStatus {
				t.Fatalf("unexpected status: got=%d want=%d", outcome.Status, tt.wantStatus)
			}
			if tt.wantErr != nil && !errors.Is(outcome.Err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, outcome.Err)
			}
		})
	}
}

func TestDeliver_PassesKeyAndEncodedBody(t *testing.T) {
	t.Parallel()

	payload := BuildPayload(baseSubmission(), PayloadOptions{BCC: "trigger@zapier.com"})
	wantBody, err := payload.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	calls := 0
	transport := func(_ context.Context, apiKey string, body []byte) (int, error) {
		calls++
		if apiKey != "api_key" {
			t.Errorf("unexpected api key: %q", apiKey)
		}
		if string(body) != string(wantBody) {
			t.Errorf("unexpected body:\n got=%s\nwant=%s", body, wantBody)
		}
		return http.StatusAccepted, nil
	}

	if outcome := Deliver(context.Background(), transport, "api_key", payload); outcome.Kind != Accepted {
		t.Fatalf("expected accepted, got %s", outcome.Kind)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one attempt, got %d", calls)
	}
}

func TestDeliver_DoesNotRetryFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	transport := func(context.Context, string, []byte) (int, error) {
		calls++
		return 0, errors.New("timeout")
	}

	outcome := Deliver(context.Background(), transport, "api_key", BuildPayload(baseSubmission(), PayloadOptions{}))
	if outcome.Kind != TransportFailed {
		t.Fatalf("expected transport failure, got %s", outcome.Kind)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one attempt, got %d", calls)
	}
}

func TestDeliver_NilTransport(t *testing.T) {
	t.Parallel()

	outcome := Deliver(context.Background(), nil, "api_key", Payload{})
	if outcome.Kind != TransportFailed || outcome.Err == nil {
		t.Fatalf("expected transport failure with error, got %+v", outcome)
	}
}
