// Package services defines shared utilities consumed by the pipeline
// components and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp voice names, feed paths, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification consistent across components (fatal configuration
//     problems vs transient service hiccups worth retrying).
//
// Use these helpers when wiring new component logic so operational behaviour
// (error handling, observability, retries) stays uniform across the pipeline.
package services
