package internal

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const requestIDKey contextKey = "requestID"

const (
	timestampLayout = "20060102150405"
	dateLayout      = "20060102"
)

// Timestamp formats t as YYYYMMDDHHMMSS in UTC.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// Date formats t as YYYYMMDD in UTC.
func Date(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// Nonce reads 16 bytes from r and returns them as 32 hex characters.
func Nonce(r io.Reader) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	bytes := make([]byte, 16)
	if _, err := io.ReadFull(r, bytes); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// WithRequestID adds a correlation id to the context.
// If the context already has one, it returns the context unchanged.
func WithRequestID(ctx context.Context) context.Context {
	if _, ok := ctx.Value(requestIDKey).(string); ok {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, uuid.NewString())
}

// GetRequestID retrieves the correlation id from the context.
// Returns an empty string if no id is present.
func GetRequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey).(string); ok {
		return reqID
	}
	return ""
}
