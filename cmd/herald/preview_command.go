package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"herald/internal/history"
	"herald/internal/synth"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var textFlag string
	var voiceFlag string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Synthesize a sample clip and print its path",
		Long: `Synthesize a single sample clip with the configured voice and prosody
settings, outside the prompt feed and history ledger. The clip lands at a
fixed path inside the data directory so it can be replayed after tweaks.`,
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

			path, err := synthesizer.Preview(cmd.Context(), textFlag)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&textFlag, "text", "", "Text to synthesize (default: configured sample_text)")
	cmd.Flags().StringVar(&voiceFlag, "voice", "", "Service voice identifier override, e.g. en-US-SarahNeural")

	return cmd
}
