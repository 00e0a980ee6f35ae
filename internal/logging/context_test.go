package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestFromContext_ReturnsStoredLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	stored := slog.New(slog.NewTextHandler(&buf, nil))
	fallback := Discard()

	ctx := WithLogger(context.Background(), stored)
	FromContext(ctx, fallback).Info("hello", "request_id", "abc")

	if !strings.Contains(buf.String(), "request_id=abc") {
		t.Fatalf("expected record in stored logger, got %q", buf.String())
	}
}

func TestFromContext_UsesFallback(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	fallback := slog.New(slog.NewTextHandler(&buf, nil))

	FromContext(context.Background(), fallback).Info("fallback")

	if !strings.Contains(buf.String(), "fallback") {
		t.Fatalf("expected record in fallback logger, got %q", buf.String())
	}
}

func TestFromContext_NeverReturnsNil(t *testing.T) {
	t.Parallel()

	if logger := FromContext(context.Background(), nil); logger == nil {
		t.Fatalf("expected no-op logger, got nil")
	}
	if logger := FromContext(WithLogger(context.Background(), nil), nil); logger == nil {
		t.Fatalf("expected no-op logger, got nil")
	}
}
