package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"herald/internal/config"
	"herald/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

// setupCLITestEnv builds a config backed by per-test temp directories and
// writes it to the default location under a throwaway HOME, so commands that
// resolve the config path themselves stay inside the sandbox.
func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	homeDir := filepath.Join(testsupport.BaseDir(cfg), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(homeDir, ".config", "herald", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "[paths]\n")
	fmt.Fprintf(&b, "input_dir = %q\n", cfg.Paths.InputDir)
	fmt.Fprintf(&b, "output_dir = %q\n", cfg.Paths.OutputDir)
	fmt.Fprintf(&b, "publish_dir = %q\n", cfg.Paths.PublishDir)
	fmt.Fprintf(&b, "data_dir = %q\n", cfg.Paths.DataDir)
	fmt.Fprintf(&b, "log_dir = %q\n", cfg.Paths.LogDir)
	fmt.Fprintf(&b, "\n[speech]\n")
	fmt.Fprintf(&b, "key = %q\n", cfg.Speech.Key)
	fmt.Fprintf(&b, "region = %q\n", cfg.Speech.Region)
	fmt.Fprintf(&b, "endpoint = %q\n", cfg.Speech.Endpoint)
	fmt.Fprintf(&b, "min_clip_bytes = %d\n", cfg.Speech.MinClipBytes)
	fmt.Fprintf(&b, "\n[synthesis]\n")
	fmt.Fprintf(&b, "language = %q\n", cfg.Synthesis.Language)
	fmt.Fprintf(&b, "region = %q\n", cfg.Synthesis.Region)
	fmt.Fprintf(&b, "voice = %q\n", cfg.Synthesis.Voice)
	fmt.Fprintf(&b, "\n[logging]\n")
	fmt.Fprintf(&b, "output_paths = [%q]\n", filepath.Join(cfg.Paths.LogDir, "herald-test.log"))
	if cfg.Notifications.NtfyTopic != "" {
		fmt.Fprintf(&b, "\n[notifications]\n")
		fmt.Fprintf(&b, "ntfy_topic = %q\n", cfg.Notifications.NtfyTopic)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// fakeSpeechServer stands in for the speech service. Synthesis requests
// receive clipBytes of audio; the voice listing returns the standard test
// voices.
func fakeSpeechServer(t *testing.T, clipBytes int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cognitiveservices/v1":
			_, _ = w.Write(bytes.Repeat([]byte("R"), clipBytes))
		case "/cognitiveservices/voices/list":
			_ = json.NewEncoder(w).Encode(testsupport.StandardVoices())
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
