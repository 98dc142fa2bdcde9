package testsupport

import (
	"testing"

	"herald/internal/config"
	"herald/internal/voices"
)

// StandardVoices returns a small voice feed covering the locales most tests
// exercise.
func StandardVoices() []voices.Entry {
	return []voices.Entry{
		{Locale: "en-US", LocaleName: "English (United States)", ShortName: "en-US-SarahNeural", StyleList: []string{"cheerful", "sad"}},
		{Locale: "en-AU", LocaleName: "English (Australia)", ShortName: "en-AU-ElsieNeural"},
		{Locale: "fr-FR", LocaleName: "French (France)", ShortName: "fr-FR-DeniseNeural"},
	}
}

// SeedVoices writes a voice feed cache into the config's data directory so
// offline pipeline stages can resolve display names.
func SeedVoices(t testing.TB, cfg *config.Config, entries []voices.Entry) {
	t.Helper()

	if entries == nil {
		entries = StandardVoices()
	}
	if err := voices.Save(cfg.VoicesCachePath(), entries); err != nil {
		t.Fatalf("voices.Save: %v", err)
	}
}
