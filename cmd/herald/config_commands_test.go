package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"herald/internal/testsupport"
)

func TestConfigNewWritesSample(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err := runCLI(t, []string{"config", "new", "--path", target}, "")
	if err != nil {
		t.Fatalf("config new: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration to "+target)

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample config: %v", err)
	}
	requireContains(t, string(data), "[paths]")
	requireContains(t, string(data), "[speech]")

	_, _, err = runCLI(t, []string{"config", "new", "--path", target}, "")
	if err == nil {
		t.Fatal("expected error when config already exists")
	}
	requireContains(t, err.Error(), "already exists")

	if _, _, err := runCLI(t, []string{"config", "new", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config new --overwrite: %v", err)
	}

	// Without --path the default location is used, which setupCLITestEnv
	// already populated.
	_, _, err = runCLI(t, []string{"config", "new"}, "")
	if err == nil {
		t.Fatal("expected error for populated default location")
	}
	requireContains(t, err.Error(), env.configPath)
}

func TestConfigShowMasksSpeechKey(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSpeechCredentials("super-secret", "westus"))

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "# "+env.configPath)
	requireContains(t, out, "***")
	requireContains(t, out, "westus")
	if strings.Contains(out, "super-secret") {
		t.Fatalf("expected key to be masked, got %q", out)
	}
}

func TestConfigShowNotesMissingFile(t *testing.T) {
	setupCLITestEnv(t)
	missing := filepath.Join(t.TempDir(), "absent.toml")

	out, _, err := runCLI(t, []string{"config", "show"}, missing)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "# file not found; defaults in effect")
	requireContains(t, out, "[paths]")
}
