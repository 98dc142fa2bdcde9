// Package notifications delivers pipeline events via pluggable notifiers.
//
// The default implementation posts to ntfy using the topic from config.toml;
// when no topic is set a no-op service takes its place. Enumerated event types
// cover the synthesis and publish milestones so callers can emit consistent
// messages without duplicating HTTP glue.
//
// Notification failures are never fatal; callers log and continue.
package notifications
