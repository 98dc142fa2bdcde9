package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"herald/internal/history"
	"herald/internal/logging"
	"herald/internal/notifications"
	"herald/internal/synth"
)

func newSynthCommand(ctx *commandContext) *cobra.Command {
	var feedFlag string
	var voiceFlag string

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Synthesize announcement clips from the prompt feed",
		Long: `Synthesize every new, changed, or missing prompt from the feed into the
configured voice's output directory. Unchanged prompts whose clips already
exist are skipped.

Examples:
  herald synth                          # First CSV feed in the input directory
  herald synth --feed ./prompts.csv     # Explicit feed
  herald synth --voice en-US-AvaNeural  # One-off voice override`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			applyVoiceOverride(cfg, voiceFlag)

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}

			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			synthesizer, err := synth.NewSynthesizer(cfg, store, logger)
			if err != nil {
				return err
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			result, err := synthesizer.Run(runCtx, feedFlag)
			if result != nil {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Voice: %s\n", result.Voice)
				fmt.Fprintf(out, "Feed: %s\n", result.Feed)
				fmt.Fprintf(out, "Clips: %d synthesized, %d skipped\n", result.Synthesized, result.Skipped)
				if result.Failed > 0 {
					fmt.Fprintf(out, "Failed: %d\n", result.Failed)
				}
				fmt.Fprintf(out, "Output: %s\n", result.LeafDir)
			}
			if err != nil && result == nil {
				// Partial runs already notified with their failure counts.
				payload := notifications.Payload{"context": "synthesis", "error": err.Error()}
				if notifyErr := notifications.NewService(cfg).Publish(cmd.Context(), notifications.EventError, payload); notifyErr != nil {
					logger.Warn("error notification failed", logging.Error(notifyErr))
				}
			}
			return err
		},
	}

	cmd.Flags().StringVar(&feedFlag, "feed", "", "Prompt feed path (default: first CSV in the input directory)")
	cmd.Flags().StringVar(&voiceFlag, "voice", "", "Service voice identifier override, e.g. en-US-SarahNeural")

	return cmd
}
