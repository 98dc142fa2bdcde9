package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Speech credentials are not
// required here: publishing never talks to the service, so their absence is
// only surfaced by commands that actually synthesize.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSpeech(); err != nil {
		return err
	}
	if err := c.validateSynthesis(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	for key, value := range map[string]string{
		"paths.input_dir":   c.Paths.InputDir,
		"paths.output_dir":  c.Paths.OutputDir,
		"paths.publish_dir": c.Paths.PublishDir,
		"paths.data_dir":    c.Paths.DataDir,
		"paths.log_dir":     c.Paths.LogDir,
	} {
		if value == "" {
			return fmt.Errorf("%s must be set", key)
		}
	}
	if c.Paths.PublishDir == c.Paths.OutputDir {
		return errors.New("paths.publish_dir must differ from paths.output_dir: the publish directory is cleared on every run")
	}
	if c.Paths.PublishDir == c.Paths.InputDir {
		return errors.New("paths.publish_dir must differ from paths.input_dir: the publish directory is cleared on every run")
	}
	return nil
}

func (c *Config) validateSpeech() error {
	if err := ensurePositiveMap(map[string]int{
		"speech.request_timeout": c.Speech.RequestTimeout,
		"speech.max_attempts":    c.Speech.MaxAttempts,
	}); err != nil {
		return err
	}
	if c.Speech.MinClipBytes <= 0 {
		return errors.New("speech.min_clip_bytes must be positive")
	}
	return nil
}

func (c *Config) validateSynthesis() error {
	if c.Synthesis.RateMultiplier <= 0 || c.Synthesis.RateMultiplier > 4 {
		return errors.New("synthesis.rate_multiplier must be within (0, 4]")
	}
	if c.Synthesis.LeadingSilenceMS < 0 {
		return errors.New("synthesis.leading_silence_ms must be >= 0")
	}
	if c.Synthesis.TrailingSilenceMS < 0 {
		return errors.New("synthesis.trailing_silence_ms must be >= 0")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
