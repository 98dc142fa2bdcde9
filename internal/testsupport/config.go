package testsupport

import (
	"path/filepath"
	"testing"

	"herald/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config rooted in a fresh temp directory, every path
// section pointed at a subdirectory of it, then applies the options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InputDir = filepath.Join(base, "in")
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.PublishDir = filepath.Join(base, "samples")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithSpeechCredentials sets speech credentials on the test config.
func WithSpeechCredentials(key, region string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Speech.Key = key
		cfg.Speech.Region = region
	}
}

// WithVoice overrides the synthesis voice selection on the test config.
func WithVoice(language, region, voice string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Synthesis.Language = language
		cfg.Synthesis.Region = region
		cfg.Synthesis.Voice = voice
	}
}

// WithMinClipBytes overrides the minimum accepted clip size.
func WithMinClipBytes(size int64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Speech.MinClipBytes = size
	}
}

// WithNtfyTopic points notifications at the given ntfy topic URL.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
