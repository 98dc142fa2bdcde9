package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeSpeech(); err != nil {
		return err
	}
	c.normalizeSynthesis()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		c.Paths.InputDir = defaultInputDir
	}
	if c.Paths.InputDir, err = expandPath(c.Paths.InputDir); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.PublishDir) == "" {
		c.Paths.PublishDir = defaultPublishDir
	}
	if c.Paths.PublishDir, err = expandPath(c.Paths.PublishDir); err != nil {
		return fmt.Errorf("paths.publish_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

// normalizeSpeech applies env overrides on top of file values, scrubs the
// sample-config placeholders, and fills request limits.
func (c *Config) normalizeSpeech() error {
	if err := env.Parse(&c.Speech); err != nil {
		return fmt.Errorf("speech env overrides: %w", err)
	}
	c.Speech.Key = strings.TrimSpace(c.Speech.Key)
	c.Speech.Region = strings.TrimSpace(c.Speech.Region)
	c.Speech.Endpoint = strings.TrimRight(strings.TrimSpace(c.Speech.Endpoint), "/")
	if strings.EqualFold(c.Speech.Key, placeholderKey) {
		c.Speech.Key = ""
	}
	if strings.EqualFold(c.Speech.Region, placeholderRegion) {
		c.Speech.Region = ""
	}
	c.Speech.OutputFormat = strings.TrimSpace(c.Speech.OutputFormat)
	if c.Speech.OutputFormat == "" {
		c.Speech.OutputFormat = defaultOutputFormat
	}
	if c.Speech.RequestTimeout <= 0 {
		c.Speech.RequestTimeout = defaultRequestTimeout
	}
	if c.Speech.MaxAttempts <= 0 {
		c.Speech.MaxAttempts = defaultMaxAttempts
	}
	if c.Speech.MinClipBytes <= 0 {
		c.Speech.MinClipBytes = defaultMinClipBytes
	}
	return nil
}

func (c *Config) normalizeSynthesis() {
	c.Synthesis.Language = strings.ToLower(strings.TrimSpace(c.Synthesis.Language))
	if c.Synthesis.Language == "" {
		c.Synthesis.Language = defaultLanguage
	}
	c.Synthesis.Region = strings.ToUpper(strings.TrimSpace(c.Synthesis.Region))
	if c.Synthesis.Region == "" {
		c.Synthesis.Region = defaultRegion
	}
	c.Synthesis.Voice = strings.TrimSpace(c.Synthesis.Voice)
	if c.Synthesis.Voice == "" {
		c.Synthesis.Voice = defaultVoice
	}
	c.Synthesis.Style = strings.TrimSpace(c.Synthesis.Style)
	if c.Synthesis.Style == "" {
		c.Synthesis.Style = defaultStyle
	}
	if c.Synthesis.RateMultiplier == 0 {
		c.Synthesis.RateMultiplier = defaultRateMultiplier
	}
	if c.Synthesis.LeadingSilenceMS < 0 {
		c.Synthesis.LeadingSilenceMS = 0
	}
	if c.Synthesis.TrailingSilenceMS < 0 {
		c.Synthesis.TrailingSilenceMS = defaultTrailingSilenceMS
	}
	c.Synthesis.SampleText = strings.TrimSpace(c.Synthesis.SampleText)
	if c.Synthesis.SampleText == "" {
		c.Synthesis.SampleText = defaultSampleText
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	paths := make([]string, 0, len(c.Logging.OutputPaths))
	for _, p := range c.Logging.OutputPaths {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		if trimmed != "stdout" && trimmed != "stderr" {
			expanded, err := expandPath(trimmed)
			if err == nil {
				trimmed = expanded
			}
		}
		paths = append(paths, trimmed)
	}
	c.Logging.OutputPaths = paths
}
