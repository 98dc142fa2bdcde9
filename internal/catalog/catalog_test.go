package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"herald/internal/catalog"
	"herald/internal/config"
	"herald/internal/logging"
	"herald/internal/services"
	"herald/internal/testsupport"
	"herald/internal/voices"
)

const feedCSV = "path,text to play\ngreeting.wav,Welcome back\n"

func newTestRenderer(cfg *config.Config) *catalog.Renderer {
	resolver := voices.NewResolver(testsupport.StandardVoices())
	return catalog.NewRenderer(cfg, resolver, logging.NewNop())
}

func seedFeed(t *testing.T, cfg *config.Config, name, content string) {
	t.Helper()
	testsupport.WriteTextFile(t, filepath.Join(cfg.Paths.InputDir, name), content)
}

func seedPack(t *testing.T, cfg *config.Config, name string, entries map[string]string) {
	t.Helper()
	testsupport.WriteZip(t, filepath.Join(cfg.Paths.PublishDir, name), entries)
}

func readDocument(t *testing.T, cfg *config.Config) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.Paths.PublishDir, catalog.DocumentName))
	if err != nil {
		t.Fatalf("read catalog document: %v", err)
	}
	return string(data)
}

// findRow returns the first document line containing needle.
func findRow(t *testing.T, document, needle string) string {
	t.Helper()
	for _, line := range strings.Split(document, "\n") {
		if strings.Contains(line, needle) {
			return line
		}
	}
	t.Fatalf("no document line contains %q:\n%s", needle, document)
	return ""
}

// assertCellsInOrder checks that every cell appears in line, left to right.
func assertCellsInOrder(t *testing.T, line string, cells ...string) {
	t.Helper()
	pos := 0
	for _, cell := range cells {
		idx := strings.Index(line[pos:], cell)
		if idx < 0 {
			t.Fatalf("row %q missing %q after position %d", line, cell, pos)
		}
		pos += idx + len(cell)
	}
}

func TestRunRendersPackRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedFeed(t, cfg, "prompts.csv", feedCSV)
	seedPack(t, cfg, "en-US-Sarah.zip", map[string]string{
		"greeting.wav":  "audio",
		"settings.json": `{"style": "narration", "multiplier": 1.15}`,
	})

	result, err := newTestRenderer(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Packs != 1 {
		t.Fatalf("Packs = %d, want 1", result.Packs)
	}
	want := filepath.Join(cfg.Paths.PublishDir, catalog.DocumentName)
	if result.Document != want {
		t.Fatalf("Document = %q, want %q", result.Document, want)
	}

	document := readDocument(t, cfg)
	row := findRow(t, document, "[en-US-Sarah.zip](en-US-Sarah.zip)")
	assertCellsInOrder(t, row,
		"[en-US-Sarah.zip](en-US-Sarah.zip)",
		"English (United States)",
		"Sarah",
		"narration",
		"1.15",
		"Not Specified",
		"Not Specified",
	)
	if got := strings.Count(row, "Not Specified"); got != 2 {
		t.Fatalf("row %q has %d sentinel cells, want 2", row, got)
	}
	if !strings.Contains(document, "transmitter's SD card") {
		t.Fatalf("document is missing the usage text:\n%s", document)
	}
}

func TestRunMarksUnknownLocales(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedFeed(t, cfg, "prompts.csv", feedCSV)
	seedPack(t, cfg, "fr-ZZ-Claude.zip", map[string]string{"greeting.wav": "audio"})
	seedPack(t, cfg, "qq-US-Sarah.zip", map[string]string{"greeting.wav": "audio"})

	if _, err := newTestRenderer(cfg).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	document := readDocument(t, cfg)
	row := findRow(t, document, "[fr-ZZ-Claude.zip]")
	assertCellsInOrder(t, row, "Language or region code not recognized", "Claude")

	row = findRow(t, document, "[qq-US-Sarah.zip]")
	assertCellsInOrder(t, row, "Language or region code not recognized", "Sarah")
}

func TestRunJoinsHyphenatedVoiceNames(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedFeed(t, cfg, "prompts.csv", feedCSV)
	seedPack(t, cfg, "en-US-Multilingual-Ava.zip", map[string]string{"greeting.wav": "audio"})

	if _, err := newTestRenderer(cfg).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	row := findRow(t, readDocument(t, cfg), "[en-US-Multilingual-Ava.zip]")
	assertCellsInOrder(t, row, "English (United States)", "Multilingual-Ava")
}

func TestRunRendersExplicitZeroLeadingSilence(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedFeed(t, cfg, "prompts.csv", feedCSV)
	seedPack(t, cfg, "en-AU-Alpha.zip", map[string]string{
		"settings.json": `{"style": "Default", "multiplier": 1.25, "trailingSilence": 25, "leadingSilence": 0}`,
	})
	seedPack(t, cfg, "en-US-Beta.zip", map[string]string{
		"settings.json": `{"style": "Default", "multiplier": 1.25, "trailingSilence": 25}`,
	})

	if _, err := newTestRenderer(cfg).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	document := readDocument(t, cfg)
	row := findRow(t, document, "[en-AU-Alpha.zip]")
	assertCellsInOrder(t, row, "Default", "1.25", "| 25 | 0 |")

	row = findRow(t, document, "[en-US-Beta.zip]")
	assertCellsInOrder(t, row, "Default", "1.25", "| 25 | Not Specified |")
}

func TestRunSkipsMalformedArchiveNames(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedFeed(t, cfg, "prompts.csv", feedCSV)
	seedPack(t, cfg, "en-US-Sarah.zip", map[string]string{"greeting.wav": "audio"})
	seedPack(t, cfg, "en-Sarah.zip", map[string]string{"greeting.wav": "audio"})
	seedPack(t, cfg, "enSarah.zip", map[string]string{"greeting.wav": "audio"})
	testsupport.WriteTextFile(t, filepath.Join(cfg.Paths.PublishDir, "notes.txt"), "not an archive")

	result, err := newTestRenderer(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Packs != 1 {
		t.Fatalf("Packs = %d, want 1", result.Packs)
	}

	document := readDocument(t, cfg)
	if !strings.Contains(document, "[en-US-Sarah.zip]") {
		t.Fatalf("document is missing the well-formed pack:\n%s", document)
	}
	for _, name := range []string{"en-Sarah.zip", "enSarah.zip", "notes.txt"} {
		if strings.Contains(document, name) {
			t.Fatalf("document should not mention %s:\n%s", name, document)
		}
	}
}

func TestRunRendersSentinelsWhenSettingsUnreadable(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedFeed(t, cfg, "prompts.csv", feedCSV)
	seedPack(t, cfg, "en-AU-Alpha.zip", map[string]string{"greeting.wav": "audio"})
	seedPack(t, cfg, "en-US-Beta.zip", map[string]string{"settings.json": "{not json"})
	testsupport.WriteTextFile(t, filepath.Join(cfg.Paths.PublishDir, "fr-FR-Gamma.zip"), "this is not a zip")

	result, err := newTestRenderer(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Packs != 3 {
		t.Fatalf("Packs = %d, want 3", result.Packs)
	}

	document := readDocument(t, cfg)
	for _, name := range []string{"[en-AU-Alpha.zip]", "[en-US-Beta.zip]", "[fr-FR-Gamma.zip]"} {
		row := findRow(t, document, name)
		if got := strings.Count(row, "Not Specified"); got != 4 {
			t.Fatalf("row %q has %d sentinel cells, want 4", row, got)
		}
	}
}

func TestRunFindsFirstSettingsDocumentInWalkOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedFeed(t, cfg, "prompts.csv", feedCSV)
	seedPack(t, cfg, "en-US-Sarah.zip", map[string]string{
		"alerts/settings.json": `{"style": "nested"}`,
		"settings.json":        `{"style": "root"}`,
	})

	if _, err := newTestRenderer(cfg).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	row := findRow(t, readDocument(t, cfg), "[en-US-Sarah.zip]")
	if !strings.Contains(row, "nested") {
		t.Fatalf("row %q should use the first settings document in walk order", row)
	}
	if strings.Contains(row, "root") {
		t.Fatalf("row %q should not use the later settings document", row)
	}
}

func TestRunSkipsEntriesEscapingScratch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedFeed(t, cfg, "prompts.csv", feedCSV)
	seedPack(t, cfg, "en-US-Sarah.zip", map[string]string{
		"../evil.txt":   "escaped",
		"settings.json": `{"style": "narration"}`,
	})

	result, err := newTestRenderer(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Packs != 1 {
		t.Fatalf("Packs = %d, want 1", result.Packs)
	}

	findRow(t, readDocument(t, cfg), "[en-US-Sarah.zip]")
	if _, err := os.Stat(filepath.Join(cfg.ScratchRoot(), "evil.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("archive entry escaped the scratch directory: %v", err)
	}
}

func TestRunLastFeedWins(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedFeed(t, cfg, "a.csv", feedCSV)
	seedFeed(t, cfg, "b.csv", "path,text to play\nfarewell.wav,Goodbye for now\n")
	seedPack(t, cfg, "en-US-Sarah.zip", map[string]string{"greeting.wav": "audio"})

	result, err := newTestRenderer(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := []string{"a.csv", "b.csv"}; len(result.Feeds) != 2 || result.Feeds[0] != want[0] || result.Feeds[1] != want[1] {
		t.Fatalf("Feeds = %v, want %v", result.Feeds, want)
	}

	document := readDocument(t, cfg)
	if !strings.Contains(document, "farewell.wav") || !strings.Contains(document, "Goodbye for now") {
		t.Fatalf("document should carry the last feed's rows:\n%s", document)
	}
	if strings.Contains(document, "greeting.wav") {
		t.Fatalf("document should not carry the earlier feed's rows:\n%s", document)
	}
}

func TestRunReproducesFeedVerbatim(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedFeed(t, cfg, "prompts.csv", "path,text to play\nalert.wav,\"Mind | the gap\"\n")

	if _, err := newTestRenderer(cfg).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	document := readDocument(t, cfg)
	if !strings.Contains(document, "| path | text to play |") {
		t.Fatalf("document is missing the verbatim feed header:\n%s", document)
	}
	if !strings.Contains(document, "| alert.wav | Mind | the gap |") {
		t.Fatalf("feed cells must pass through unescaped:\n%s", document)
	}
}

func TestRunWithoutFeedsWritesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := os.MkdirAll(cfg.Paths.InputDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	seedPack(t, cfg, "en-US-Sarah.zip", map[string]string{"greeting.wav": "audio"})

	result, err := newTestRenderer(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Document != "" {
		t.Fatalf("Document = %q, want empty", result.Document)
	}
	if result.Packs != 1 {
		t.Fatalf("Packs = %d, want 1", result.Packs)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.PublishDir, catalog.DocumentName)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("no document should be written without a feed: %v", err)
	}
}

func TestRunFailsWhenInputDirMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	_, err := newTestRenderer(cfg).Run(context.Background())
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("Run error = %v, want ErrNotFound", err)
	}
}

func TestRunWithoutArchives(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedFeed(t, cfg, "prompts.csv", feedCSV)

	result, err := newTestRenderer(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Packs != 0 {
		t.Fatalf("Packs = %d, want 0", result.Packs)
	}

	document := readDocument(t, cfg)
	if !strings.Contains(document, "transmitter's SD card") {
		t.Fatalf("document is missing the usage text:\n%s", document)
	}
	if !strings.Contains(document, "greeting.wav") {
		t.Fatalf("document is missing the feed table:\n%s", document)
	}
}

func TestRunOrdersRowsLexically(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	seedFeed(t, cfg, "prompts.csv", feedCSV)
	seedPack(t, cfg, "fr-FR-Denise.zip", map[string]string{"greeting.wav": "audio"})
	seedPack(t, cfg, "en-US-Sarah.zip", map[string]string{"greeting.wav": "audio"})
	seedPack(t, cfg, "en-AU-Elsie.zip", map[string]string{"greeting.wav": "audio"})

	if _, err := newTestRenderer(cfg).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	document := readDocument(t, cfg)
	first := strings.Index(document, "[en-AU-Elsie.zip]")
	second := strings.Index(document, "[en-US-Sarah.zip]")
	third := strings.Index(document, "[fr-FR-Denise.zip]")
	if first < 0 || second < 0 || third < 0 {
		t.Fatalf("document is missing pack rows:\n%s", document)
	}
	if !(first < second && second < third) {
		t.Fatalf("rows out of order: %d, %d, %d", first, second, third)
	}
}
