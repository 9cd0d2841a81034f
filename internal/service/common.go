package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/trailer-admin/internal/events"
	apperrors "github.com/spec-kit/trailer-admin/pkg/util"
)

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

func defaultClock(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

func defaultLogger(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// lookupError converts a repository read failure into NotFound or a mapped store error.
func lookupError(err error, resource string, details map[string]any) error {
	if apperrors.IsNotFound(err) {
		return apperrors.NewNotFound(resource, details)
	}
	return apperrors.MapError(err)
}

func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event delivery incomplete", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// fieldErrors collects validation problems keyed by field name.
type fieldErrors map[string]any

func (f fieldErrors) require(field, value string) {
	if strings.TrimSpace(value) == "" {
		f[field] = "is required"
	}
}

func (f fieldErrors) email(field, value string) {
	if strings.TrimSpace(value) == "" {
		f[field] = "is required"
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		f[field] = "must be a valid email"
	}
}

func (f fieldErrors) add(field, msg string) {
	f[field] = msg
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return apperrors.NewValidationError("validation failed", map[string]any(f))
}

func ptrBool(v bool) *bool {
	return &v
}
