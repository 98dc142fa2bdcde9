package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"herald/internal/logging"
	"herald/internal/notifications"
	"herald/internal/publish"
)

func newPublishCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Archive synthesized voices and render the catalog",
		Long: `Pack every synthesized voice directory into a zip archive inside the
publish directory, then render the catalog document from the archives and
the prompt feed. The publish directory is rebuilt from scratch on every run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			result, err := publish.NewPipeline(cfg, logger).Run(runCtx)
			if err != nil {
				payload := notifications.Payload{"context": "publishing", "error": err.Error()}
				if notifyErr := notifications.NewService(cfg).Publish(cmd.Context(), notifications.EventError, payload); notifyErr != nil {
					logger.Warn("error notification failed", logging.Error(notifyErr))
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Archived %d sample packs to %s\n", len(result.Packs), cfg.Paths.PublishDir)
			if result.Catalog.Document != "" {
				fmt.Fprintf(out, "Catalog: %s\n", result.Catalog.Document)
			} else {
				fmt.Fprintln(out, "Catalog: not written (no prompt feed)")
			}
			return nil
		},
	}
}
