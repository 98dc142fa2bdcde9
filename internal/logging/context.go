package logging

import (
	"context"
	"log/slog"

	"herald/internal/services"
)

// Shared field names. Packages log these keys with the same spelling so
// output stays greppable across the pipeline.
const (
	FieldComponent     = "component"
	FieldVoice         = "voice"
	FieldFeed          = "feed"
	FieldArchive       = "archive"
	FieldClip          = "clip"
	FieldCorrelationID = "correlation_id"
)

// WithContext returns logger augmented with the voice, feed, and correlation
// fields carried by ctx, when present.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if ctx == nil {
		return logger
	}
	args := make([]any, 0, 3)
	if voice, ok := services.VoiceFromContext(ctx); ok {
		args = append(args, slog.String(FieldVoice, voice))
	}
	if feed, ok := services.FeedFromContext(ctx); ok {
		args = append(args, slog.String(FieldFeed, feed))
	}
	if id, ok := services.RequestIDFromContext(ctx); ok {
		args = append(args, slog.String(FieldCorrelationID, id))
	}
	if len(args) == 0 {
		return logger
	}
	return logger.With(args...)
}
