package common

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRequestID  contextKey = "request_id"
	ContextKeyDocumentID contextKey = "doc_id"
)

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// EnsureRequestID returns ctx unchanged when it already carries a request ID,
// otherwise attaches a fresh one.
func EnsureRequestID(ctx context.Context) (context.Context, string) {
	if id := RequestIDFromContext(ctx); id != "" {
		return ctx, id
	}
	id := uuid.New().String()
	return WithRequestID(ctx, id), id
}

// RequestIDFromContext extracts the request ID from context
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// WithDocumentID adds the persisted document ID to the context
func WithDocumentID(ctx context.Context, docID int64) context.Context {
	return context.WithValue(ctx, ContextKeyDocumentID, docID)
}

// DocumentIDFromContext extracts the document ID from context (0 when unset)
func DocumentIDFromContext(ctx context.Context) int64 {
	if docID, ok := ctx.Value(ContextKeyDocumentID).(int64); ok {
		return docID
	}
	return 0
}

// LoggerFrom decorates logger with the request and document IDs found in ctx.
func LoggerFrom(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	if id := RequestIDFromContext(ctx); id != "" {
		logger = logger.With("req_id", id)
	}
	if docID := DocumentIDFromContext(ctx); docID != 0 {
		logger = logger.With("doc_id", docID)
	}
	return logger
}
