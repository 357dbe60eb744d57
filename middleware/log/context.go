package logger

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// TraceIDKey is both the context key and the log field name of a request trace id.
const TraceIDKey contextKey = "trace_id"

// WithTraceID stores traceID in ctx, generating a UUID v4 when traceID is empty.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		traceID = NewTraceID()
	}
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID returns the trace id stored in ctx, or "" when there is none.
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

func NewTraceID() string {
	return uuid.NewString()
}
