package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func bufferedLogger(buf *bytes.Buffer) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(buf, nil))}
}

func TestWithContext_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := bufferedLogger(&buf)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-123")
	log.WithContext(ctx).Info("hello")

	if !strings.Contains(buf.String(), "request_id=req-123") {
		t.Fatalf("expected request id in output, got %s", buf.String())
	}
}

func TestWithContext_WithoutRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := bufferedLogger(&buf)

	log.WithContext(context.Background()).Info("hello")

	if strings.Contains(buf.String(), "request_id") {
		t.Fatalf("unexpected request id in output: %s", buf.String())
	}
}
