package main

import (
	"errors"
	"os"
	"strings"
	"testing"

	"herald/internal/services"
	"herald/internal/testsupport"
)

func TestVoicesListsCachedCatalog(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedVoices(t, env.cfg, nil)

	out, _, err := runCLI(t, []string{"voices"}, env.configPath)
	if err != nil {
		t.Fatalf("voices: %v", err)
	}
	requireContains(t, out, "en-US-SarahNeural")
	requireContains(t, out, "English (United States)")
	requireContains(t, out, "Default, Cheerful, Sad")
	requireContains(t, out, "3 voices")
}

func TestVoicesFiltersByLanguage(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedVoices(t, env.cfg, nil)

	out, _, err := runCLI(t, []string{"voices", "--language", "en"}, env.configPath)
	if err != nil {
		t.Fatalf("voices --language: %v", err)
	}
	requireContains(t, out, "en-US-SarahNeural")
	requireContains(t, out, "en-AU-ElsieNeural")
	requireContains(t, out, "2 voices")
	if strings.Contains(out, "fr-FR-DeniseNeural") {
		t.Fatalf("expected filter to drop French voices, got %q", out)
	}
}

func TestVoicesRefreshWithoutCredentials(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedVoices(t, env.cfg, nil)

	_, _, err := runCLI(t, []string{"voices", "--refresh"}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestVoicesRefreshFetchesFromService(t *testing.T) {
	server := fakeSpeechServer(t, 2048)
	env := setupCLITestEnv(t, testsupport.WithSpeechCredentials("test-key", "westus"))
	env.cfg.Speech.Endpoint = server.URL
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"voices", "--refresh"}, env.configPath)
	if err != nil {
		t.Fatalf("voices --refresh: %v", err)
	}
	requireContains(t, out, "en-US-SarahNeural")
	requireContains(t, out, "3 voices")

	if _, err := os.Stat(env.cfg.VoicesCachePath()); err != nil {
		t.Fatalf("expected refreshed cache on disk: %v", err)
	}
}
