// Package audit emits structured audit events for account and diagnosis
// activity. Entries go to the shared JSON log, one object per line.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"dermaview.org/internal/auth"
	"dermaview.org/internal/obs"
)

type ctxKey struct{}

// WithRequestID attaches the request identifier to the context so that
// events written further down the call chain carry it.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, requestID)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}

// LogEvent writes one audit entry. The request id and authenticated user
// id are picked up from the context when present.
func LogEvent(ctx context.Context, event string, fields map[string]any) error {
	event = strings.TrimSpace(event)
	if event == "" {
		return errors.New("event name is required")
	}
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"type":  "audit",
		"event": event,
	}
	if rid := requestIDFromContext(ctx); rid != "" {
		entry["request_id"] = rid
	}
	if userID, ok := auth.UserIDFromContext(ctx); ok {
		entry["user_id"] = userID
	}
	if fields == nil {
		fields = map[string]any{}
	}
	entry["fields"] = fields

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	obs.Logger().Println(string(data))
	return nil
}
