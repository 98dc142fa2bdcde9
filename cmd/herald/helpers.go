package main

import (
	"fmt"
	"log/slog"
	"strings"

	"herald/internal/config"
	"herald/internal/logging"
)

// applyVoiceOverride points synthesis at another service voice for this
// invocation. Identifiers shaped like "en-US-SarahNeural" also carry the
// language and region, which keeps the leaf directory and SSML locale in
// step with the voice.
func applyVoiceOverride(cfg *config.Config, voice string) {
	voice = strings.TrimSpace(voice)
	if voice == "" {
		return
	}
	cfg.Synthesis.Voice = voice
	if parts := strings.SplitN(voice, "-", 3); len(parts) == 3 {
		cfg.Synthesis.Language = strings.ToLower(parts[0])
		cfg.Synthesis.Region = strings.ToUpper(parts[1])
	}
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	return logger, nil
}
