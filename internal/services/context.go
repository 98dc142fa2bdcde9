package services

import "context"

type contextKey string

const (
	voiceKey     contextKey = "voice"
	feedKey      contextKey = "feed"
	requestIDKey contextKey = "request_id"
)

// WithVoice annotates context with the voice being processed.
func WithVoice(ctx context.Context, voice string) context.Context {
	if voice == "" {
		return ctx
	}
	return context.WithValue(ctx, voiceKey, voice)
}

// VoiceFromContext returns the voice name if present.
func VoiceFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(voiceKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithFeed annotates context with the prompt feed being processed.
func WithFeed(ctx context.Context, feed string) context.Context {
	if feed == "" {
		return ctx
	}
	return context.WithValue(ctx, feedKey, feed)
}

// FeedFromContext returns the feed path if present.
func FeedFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(feedKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
