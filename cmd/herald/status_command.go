package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"herald/internal/archive"
	"herald/internal/catalog"
	"herald/internal/config"
	"herald/internal/history"
	"herald/internal/voices"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show workspace status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			historyCell, err := describeHistory(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			leaves, err := archive.Leaves(cfg.Paths.OutputDir)
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Config", describeConfig(ctx)},
				{"Voice", fmt.Sprintf("%s (%s-%s)", cfg.Synthesis.Voice, cfg.Synthesis.Language, cfg.Synthesis.Region)},
				{"Voices cache", describeVoicesCache(cfg)},
				{"History ledger", historyCell},
				{"Output tree", english.Plural(len(leaves), "voice leaf", "voice leaves")},
				{"Publish dir", describePublishDir(cfg)},
				{"Catalog", describeCatalog(cfg)},
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Item", "Value"}, rows))
			return nil
		},
	}
}

func describeConfig(ctx *commandContext) string {
	if !ctx.configExists {
		return ctx.configPath + " (not found, defaults in effect)"
	}
	return ctx.configPath
}

func describeVoicesCache(cfg *config.Config) string {
	path := cfg.VoicesCachePath()
	info, err := os.Stat(path)
	if err != nil {
		return "not cached (run \"herald voices --refresh\")"
	}
	entries, err := voices.Load(path)
	if err != nil {
		return "cached but unreadable"
	}
	return fmt.Sprintf("%s, refreshed %s", english.Plural(len(entries), "voice", ""), humanize.Time(info.ModTime()))
}

func describeHistory(ctx context.Context, cfg *config.Config) (string, error) {
	store, err := history.Open(cfg)
	if err != nil {
		return "", err
	}
	defer store.Close()

	stats, err := store.Stats(ctx)
	if err != nil {
		return "", err
	}
	if len(stats) == 0 {
		return "empty", nil
	}
	var clips int64
	for _, entry := range stats {
		clips += entry.Clips
	}
	return fmt.Sprintf("%s across %s",
		english.Plural(int(clips), "clip", ""),
		english.Plural(len(stats), "voice", "")), nil
}

func describePublishDir(cfg *config.Config) string {
	entries, err := os.ReadDir(cfg.Paths.PublishDir)
	if err != nil {
		return "not published yet"
	}
	archives := 0
	var size int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if info, err := entry.Info(); err == nil {
			size += info.Size()
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".zip") {
			archives++
		}
	}
	return fmt.Sprintf("%s, %s", english.Plural(archives, "archive", ""), humanize.Bytes(uint64(size)))
}

func describeCatalog(cfg *config.Config) string {
	path := filepath.Join(cfg.Paths.PublishDir, catalog.DocumentName)
	if _, err := os.Stat(path); err != nil {
		return "not rendered"
	}
	return path
}
