package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"herald/internal/logging"
	"herald/internal/notifications"
	"herald/internal/speech/azure"
	"herald/internal/voices"
)

func newVoicesCommand(ctx *commandContext) *cobra.Command {
	var languageFlag string
	var regionFlag string
	var refresh bool

	cmd := &cobra.Command{
		Use:   "voices",
		Short: "List the speech service voice catalog",
		Long: `List the cached voice catalog, optionally filtered by language or region
code. The cache is fetched from the speech service on first use; --refresh
re-fetches it.`,
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

			var fetcher voices.Fetcher
			if cfg.Speech.Configured() {
				client, err := azure.NewClient(cfg.Speech)
				if err != nil {
					return err
				}
				fetcher = client
			}

			var entries []voices.Entry
			if refresh {
				entries, err = voices.Refresh(cmd.Context(), cfg.VoicesCachePath(), fetcher)
			} else {
				entries, err = voices.Ensure(cmd.Context(), cfg.VoicesCachePath(), fetcher)
			}
			if err != nil {
				return err
			}

			if refresh {
				notifier := notifications.NewService(cfg)
				payload := notifications.Payload{"count": strconv.Itoa(len(entries))}
				if err := notifier.Publish(cmd.Context(), notifications.EventVoicesRefreshed, payload); err != nil {
					logger.Warn("refresh notification failed", logging.Error(err))
				}
			}

			filtered := voices.Filter(entries, languageFlag, regionFlag)
			rows := make([][]string, 0, len(filtered))
			for _, entry := range filtered {
				rows = append(rows, []string{
					entry.ShortName,
					entry.Locale,
					entry.LocaleName,
					entry.Gender,
					strings.Join(voices.Styles(entry), ", "),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Voice", "Locale", "Locale Name", "Gender", "Styles"},
				rows))
			fmt.Fprintf(out, "%d voices\n", len(filtered))
			return nil
		},
	}

	cmd.Flags().StringVar(&languageFlag, "language", "", "Filter by language code, e.g. en")
	cmd.Flags().StringVar(&regionFlag, "region", "", "Filter by region code, e.g. US")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Re-fetch the voice catalog from the speech service")

	return cmd
}
