// Package config loads, normalizes, and validates herald configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// HERALD_SPEECH_KEY. The Config type centralizes every knob the CLI needs,
// allowing feed/output/publish directories and speech service credentials to
// be discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
