package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	InputDir   string `toml:"input_dir"`
	OutputDir  string `toml:"output_dir"`
	PublishDir string `toml:"publish_dir"`
	DataDir    string `toml:"data_dir"`
	LogDir     string `toml:"log_dir"`
}

// Speech contains connection settings for the cloud speech service.
type Speech struct {
	Key            string `toml:"key" env:"HERALD_SPEECH_KEY"`
	Region         string `toml:"region" env:"HERALD_SPEECH_REGION"`
	Endpoint       string `toml:"endpoint" env:"HERALD_SPEECH_ENDPOINT"`
	OutputFormat   string `toml:"output_format"`
	RequestTimeout int    `toml:"request_timeout"`
	MaxAttempts    int    `toml:"max_attempts"`
	MinClipBytes   int64  `toml:"min_clip_bytes"`
}

// Synthesis contains the voice and prosody settings applied to every prompt.
type Synthesis struct {
	Language          string  `toml:"language"`
	Region            string  `toml:"region"`
	Voice             string  `toml:"voice"`
	Style             string  `toml:"style"`
	RateMultiplier    float64 `toml:"rate_multiplier"`
	LeadingSilenceMS  int     `toml:"leading_silence_ms"`
	TrailingSilenceMS int     `toml:"trailing_silence_ms"`
	SampleText        string  `toml:"sample_text"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format      string   `toml:"format"`
	Level       string   `toml:"level"`
	OutputPaths []string `toml:"output_paths"`
}

// Config encapsulates all configuration values for herald.
//
// Configuration sections by subsystem:
//   - Paths: prompt feeds in, synthesized tree out, publish target, state
//   - Speech: cloud speech service credentials and request limits
//   - Synthesis: the voice, style, rate, and silence padding per run
//   - Notifications: ntfy push notification settings
//   - Logging: log format, level, and extra outputs
type Config struct {
	Paths         Paths         `toml:"paths"`
	Speech        Speech        `toml:"speech"`
	Synthesis     Synthesis     `toml:"synthesis"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/herald/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		raw, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		switch _, err := os.Stat(expanded); {
		case err == nil:
			return expanded, true, nil
		case errors.Is(err, fs.ErrNotExist):
			return expanded, false, nil
		default:
			return "", false, fmt.Errorf("stat config: %w", err)
		}
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("herald.toml")
	if err != nil {
		return "", false, err
	}

	for _, candidate := range []string{defaultPath, projectPath} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for a run. The publish
// directory is not among them: the publish pipeline clears and recreates it
// on every run.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.InputDir, c.Paths.OutputDir, c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// VoicesCachePath returns the location of the cached voice-metadata feed.
func (c *Config) VoicesCachePath() string {
	return filepath.Join(c.Paths.DataDir, "voices.json")
}

// HistoryPath returns the location of the synthesis history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.DataDir, "history.db")
}

// LockPath returns the location of the run lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "herald.lock")
}

// ScratchRoot returns the directory under which per-archive scratch
// directories are created.
func (c *Config) ScratchRoot() string {
	return filepath.Join(c.Paths.DataDir, "scratch")
}

// PreviewPath returns the location preview clips are written to.
func (c *Config) PreviewPath() string {
	return filepath.Join(c.Paths.DataDir, "preview.wav")
}

// Configured reports whether usable speech credentials are present. The
// sample-config placeholders count as unset.
func (s Speech) Configured() bool {
	return s.Key != "" && s.Region != ""
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return "", nil
	}
	if rest, ok := strings.CutPrefix(pathValue, "~"); ok && (rest == "" || rest[0] == '/' || rest[0] == '\\') {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if rest == "" {
			pathValue = home
		} else {
			pathValue = filepath.Join(home, rest[1:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath expands ~ and resolves pathValue to an absolute path using the
// same rules applied to configured paths.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
