package synth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"herald/internal/config"
	"herald/internal/fileutil"
	"herald/internal/history"
	"herald/internal/logging"
	"herald/internal/notifications"
	"herald/internal/prompts"
	"herald/internal/runlock"
	"herald/internal/services"
	"herald/internal/speech"
	"herald/internal/speech/azure"
	"herald/internal/voices"
)

const retryDelay = 2 * time.Second

// Synthesizer turns a prompt feed into voice clips for the configured voice.
type Synthesizer struct {
	cfg      *config.Config
	store    *history.Store
	engine   speech.Engine
	notifier notifications.Service
	logger   *slog.Logger
	sleeper  func(time.Duration)
}

// Result summarizes one synthesis run.
type Result struct {
	Voice       string
	Feed        string
	LeafDir     string
	Synthesized int
	Skipped     int
	Failed      int
	FailedPaths []string
}

// Option adjusts synthesizer behavior.
type Option func(*Synthesizer)

// WithSleeper overrides how retry pauses are performed (used in tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(s *Synthesizer) {
		if sleeper != nil {
			s.sleeper = sleeper
		}
	}
}

// NewSynthesizer constructs the synthesizer with default dependencies. It
// fails when speech credentials are not configured.
func NewSynthesizer(cfg *config.Config, store *history.Store, logger *slog.Logger, opts ...Option) (*Synthesizer, error) {
	engine, err := azure.NewClient(cfg.Speech)
	if err != nil {
		return nil, err
	}
	return NewSynthesizerWithDependencies(cfg, store, logger, engine, notifications.NewService(cfg), opts...), nil
}

// NewSynthesizerWithDependencies allows injecting collaborators (used in tests).
func NewSynthesizerWithDependencies(cfg *config.Config, store *history.Store, logger *slog.Logger, engine speech.Engine, notifier notifications.Service, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		cfg:      cfg,
		store:    store,
		engine:   engine,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "synth"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LeafDir returns the clip directory for the configured voice:
// <output_dir>/<language>/<REGION>/<voice tail>.
func LeafDir(cfg *config.Config) string {
	syn := cfg.Synthesis
	return filepath.Join(cfg.Paths.OutputDir, syn.Language, syn.Region, voices.Tail(syn.Voice))
}

type plannedClip struct {
	relPath string
	text    string
	reason  string
}

// Run synthesizes every new, changed, or missing prompt from the feed into
// the voice's leaf directory. When feedPath is empty the first feed in the
// input directory is used. A non-nil Result accompanies clip-failure errors
// so callers can still report counts.
func (s *Synthesizer) Run(ctx context.Context, feedPath string) (*Result, error) {
	release, err := runlock.Acquire(s.cfg.LockPath())
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "synth", "run", "ensure directories", err)
	}

	feed, err := s.resolveFeed(feedPath)
	if err != nil {
		return nil, err
	}

	voice := s.cfg.Synthesis.Voice
	leafDir := LeafDir(s.cfg)
	ctx = services.WithVoice(services.WithFeed(ctx, filepath.Base(feed)), voice)
	logger := logging.WithContext(ctx, s.logger)

	rows, err := prompts.LoadRows(feed)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(leafDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrTransient, "synth", "run", "create leaf directory", err)
	}

	planned, skipped, err := s.planClips(ctx, logger, leafDir, voice, rows)
	if err != nil {
		return nil, err
	}

	result := &Result{Voice: voice, Feed: feed, LeafDir: leafDir, Skipped: skipped}
	logger.Info("synthesis planned",
		logging.Int("prompts", len(rows)),
		logging.Int("planned", len(planned)),
		logging.Int("skipped", skipped))

	for _, clip := range planned {
		if err := ctx.Err(); err != nil {
			return result, services.Wrap(services.ErrTransient, "synth", "run", "synthesis interrupted", err)
		}
		if err := s.synthesizeClip(ctx, leafDir, clip); err != nil {
			if errors.Is(err, services.ErrConfiguration) {
				return result, err
			}
			logger.Error("clip synthesis failed",
				logging.String(logging.FieldClip, clip.relPath),
				logging.Error(err))
			result.Failed++
			result.FailedPaths = append(result.FailedPaths, clip.relPath)
			continue
		}
		if err := s.store.Record(ctx, voice, clip.relPath, clip.text); err != nil {
			return result, services.Wrap(services.ErrTransient, "synth", "run", "record ledger entry", err)
		}
		logger.Info("clip synthesized",
			logging.String(logging.FieldClip, clip.relPath),
			logging.String("reason", clip.reason))
		result.Synthesized++
	}

	if err := s.writeSettings(leafDir); err != nil {
		return result, err
	}

	s.notifyCompleted(ctx, logger, result)

	if result.Failed > 0 {
		return result, services.Wrap(services.ErrTransient, "synth", "run", failureSummary(result), nil)
	}
	logger.Info("synthesis completed",
		logging.Int("synthesized", result.Synthesized),
		logging.Int("skipped", result.Skipped))
	return result, nil
}

// Preview synthesizes a single sample clip outside the ledger and returns
// the written path. Empty text falls back to the configured sample text.
func (s *Synthesizer) Preview(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		text = s.cfg.Synthesis.SampleText
	}

	audio, err := s.engine.Synthesize(ctx, s.request(text))
	if err != nil {
		return "", err
	}
	if int64(len(audio)) < s.cfg.Speech.MinClipBytes {
		return "", services.Wrap(services.ErrTransient, "synth", "preview",
			fmt.Sprintf("sample is %d bytes, below the %d byte minimum", len(audio), s.cfg.Speech.MinClipBytes), nil)
	}

	target := s.cfg.PreviewPath()
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", services.Wrap(services.ErrTransient, "synth", "preview", "create data directory", err)
	}
	if err := fileutil.WriteFileAtomic(target, audio, 0o644); err != nil {
		return "", services.Wrap(services.ErrTransient, "synth", "preview", "write preview clip", err)
	}
	return target, nil
}

// resolveFeed picks the explicit feed when given, otherwise the first feed in
// lexical order inside the input directory.
func (s *Synthesizer) resolveFeed(feedPath string) (string, error) {
	if trimmed := strings.TrimSpace(feedPath); trimmed != "" {
		expanded, err := config.ExpandPath(trimmed)
		if err != nil {
			return "", services.Wrap(services.ErrValidation, "synth", "resolve feed", "expand feed path", err)
		}
		if _, err := os.Stat(expanded); err != nil {
			return "", services.Wrap(services.ErrNotFound, "synth", "resolve feed",
				fmt.Sprintf("prompt feed %s does not exist", expanded), err)
		}
		return expanded, nil
	}

	feeds, err := prompts.Discover(s.cfg.Paths.InputDir)
	if err != nil {
		return "", err
	}
	if len(feeds) == 0 {
		return "", services.Wrap(services.ErrNotFound, "synth", "resolve feed",
			fmt.Sprintf("no prompt feeds in %s; drop a CSV there first", s.cfg.Paths.InputDir), nil)
	}
	return feeds[0], nil
}

func (s *Synthesizer) planClips(ctx context.Context, logger *slog.Logger, leafDir, voice string, rows []prompts.Row) ([]plannedClip, int, error) {
	var planned []plannedClip
	skipped := 0
	for _, row := range rows {
		rel, ok := prompts.SafeRelative(row.Path)
		if !ok {
			logger.Warn("skipping unsafe clip path", logging.String(logging.FieldClip, row.Path))
			skipped++
			continue
		}

		entry, err := s.store.Lookup(ctx, voice, rel)
		if err != nil {
			return nil, 0, services.Wrap(services.ErrTransient, "synth", "plan", "consult history ledger", err)
		}

		target := filepath.Join(leafDir, rel)
		switch {
		case entry == nil:
			planned = append(planned, plannedClip{relPath: rel, text: row.Text, reason: "new"})
		case entry.Text != row.Text:
			if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
				logger.Warn("failed to remove stale clip",
					logging.String(logging.FieldClip, rel),
					logging.Error(err))
			}
			planned = append(planned, plannedClip{relPath: rel, text: row.Text, reason: "changed"})
		default:
			if _, err := os.Stat(target); err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					return nil, 0, services.Wrap(services.ErrTransient, "synth", "plan",
						fmt.Sprintf("stat clip %s", rel), err)
				}
				planned = append(planned, plannedClip{relPath: rel, text: row.Text, reason: "missing"})
				continue
			}
			skipped++
		}
	}
	return planned, skipped, nil
}

func (s *Synthesizer) synthesizeClip(ctx context.Context, leafDir string, clip plannedClip) error {
	req := s.request(clip.text)

	attempts := s.cfg.Speech.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		audio, err := s.engine.Synthesize(ctx, req)
		if err == nil && int64(len(audio)) < s.cfg.Speech.MinClipBytes {
			err = services.Wrap(services.ErrTransient, "synth", "synthesize",
				fmt.Sprintf("clip %s is %d bytes, below the %d byte minimum", clip.relPath, len(audio), s.cfg.Speech.MinClipBytes), nil)
		}
		if err == nil {
			return s.writeClip(leafDir, clip, audio)
		}
		lastErr = err
		if !services.Retryable(err) || attempt == attempts {
			break
		}
		if err := s.sleep(ctx, retryDelay); err != nil {
			return err
		}
	}
	return lastErr
}

func (s *Synthesizer) writeClip(leafDir string, clip plannedClip, audio []byte) error {
	target := filepath.Join(leafDir, clip.relPath)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "synth", "write clip",
			fmt.Sprintf("create directory for %s", clip.relPath), err)
	}
	if err := fileutil.WriteFileAtomic(target, audio, 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "synth", "write clip",
			fmt.Sprintf("write %s", clip.relPath), err)
	}
	return nil
}

type leafSettings struct {
	Style           string  `json:"style"`
	Multiplier      float64 `json:"multiplier"`
	TrailingSilence int     `json:"trailingSilence"`
	LeadingSilence  int     `json:"leadingSilence"`
}

// writeSettings records the run's prosody settings in the leaf so the catalog
// can describe the pack later.
func (s *Synthesizer) writeSettings(leafDir string) error {
	syn := s.cfg.Synthesis
	doc := leafSettings{
		Style:           syn.Style,
		Multiplier:      syn.RateMultiplier,
		TrailingSilence: syn.TrailingSilenceMS,
		LeadingSilence:  syn.LeadingSilenceMS,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrValidation, "synth", "write settings", "encode settings document", err)
	}
	if err := fileutil.WriteFileAtomic(filepath.Join(leafDir, "settings.json"), data, 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "synth", "write settings", "write settings document", err)
	}
	return nil
}

func (s *Synthesizer) request(text string) speech.Request {
	syn := s.cfg.Synthesis
	return speech.Request{
		Text:              text,
		Voice:             syn.Voice,
		Language:          syn.Language + "-" + syn.Region,
		Style:             syn.Style,
		RateMultiplier:    syn.RateMultiplier,
		LeadingSilenceMS:  syn.LeadingSilenceMS,
		TrailingSilenceMS: syn.TrailingSilenceMS,
	}
}

func (s *Synthesizer) notifyCompleted(ctx context.Context, logger *slog.Logger, result *Result) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Publish(ctx, notifications.EventSynthCompleted, notifications.Payload{
		"voice":       result.Voice,
		"synthesized": strconv.Itoa(result.Synthesized),
		"skipped":     strconv.Itoa(result.Skipped),
		"failed":      strconv.Itoa(result.Failed),
	})
	if err != nil {
		logger.Warn("synthesis notification failed", logging.Error(err))
	}
}

func (s *Synthesizer) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if s.sleeper != nil {
		s.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func failureSummary(result *Result) string {
	shown := result.FailedPaths
	suffix := ""
	if len(shown) > 5 {
		shown = shown[:5]
		suffix = ", ..."
	}
	return fmt.Sprintf("%d clips failed: %s%s", result.Failed, strings.Join(shown, ", "), suffix)
}
