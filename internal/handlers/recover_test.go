package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRecover_RespondsWith500(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	h := &Handlers{
		logger: slog.New(slog.NewTextHandler(&logs, nil)),
	}

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodPost, "/send", nil)
	rec := httptest.NewRecorder()

	h.Recover(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
	if rec.Body.String() != "Internal Server Error" {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
	if !strings.Contains(logs.String(), "panic while handling request") {
		t.Fatalf("expected panic to be logged, got %q", logs.String())
	}
}
