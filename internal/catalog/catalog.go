package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"herald/internal/config"
	"herald/internal/fileutil"
	"herald/internal/logging"
	"herald/internal/prompts"
	"herald/internal/services"
	"herald/internal/voices"
)

const (
	// DocumentName is the catalog document written into the publish directory.
	DocumentName = "README.md"

	// notSpecified fills settings columns whose value is absent or unreadable.
	notSpecified = "Not Specified"

	// unrecognizedLocale replaces the language column when either the
	// archive's language code or its region code is unknown to the voice feed.
	unrecognizedLocale = "Language or region code not recognized"
)

// usageText sits between the pack table and the announcement listing.
const usageText = `Each pack above bundles the announcement clips for one voice. Download the
pack for your language and region, then copy its extracted contents onto your
transmitter's SD card. Every pack contains the announcements listed below.`

// Renderer writes the published catalog document.
type Renderer struct {
	cfg      *config.Config
	resolver *voices.Resolver
	logger   *slog.Logger
}

// Result summarizes one catalog render.
type Result struct {
	Document string   // path of the written document, empty when no feed exists
	Feeds    []string // feed base names, in render order
	Packs    int      // pack rows in the document
}

// NewRenderer returns a Renderer that resolves display names through resolver.
func NewRenderer(cfg *config.Config, resolver *voices.Resolver, logger *slog.Logger) *Renderer {
	return &Renderer{
		cfg:      cfg,
		resolver: resolver,
		logger:   logging.NewComponentLogger(logger, "catalog"),
	}
}

// Run scans the publish directory for sample packs and writes one catalog
// document per prompt feed. Every feed writes the same document path, so with
// several feeds the last one wins.
func (r *Renderer) Run(ctx context.Context) (*Result, error) {
	feeds, err := prompts.Discover(r.cfg.Paths.InputDir)
	if err != nil {
		return nil, err
	}

	rows, err := r.packRows(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{Packs: len(rows)}
	if len(feeds) == 0 {
		r.logger.Warn("no prompt feeds found; catalog document not written",
			logging.String("input_dir", r.cfg.Paths.InputDir))
		return result, nil
	}

	if err := os.MkdirAll(r.cfg.Paths.PublishDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrTransient, "catalog", "render", "create publish directory", err)
	}

	target := filepath.Join(r.cfg.Paths.PublishDir, DocumentName)
	for i, feed := range feeds {
		if err := ctx.Err(); err != nil {
			return nil, services.Wrap(services.ErrTransient, "catalog", "render", "catalog render interrupted", err)
		}

		feedTable, err := prompts.LoadTable(feed)
		if err != nil {
			return nil, err
		}
		document := renderDocument(rows, feedTable)
		if err := fileutil.WriteFileAtomic(target, []byte(document), 0o644); err != nil {
			return nil, services.Wrap(services.ErrTransient, "catalog", "render",
				fmt.Sprintf("write catalog document for feed %s", filepath.Base(feed)), err)
		}
		if i > 0 {
			r.logger.Warn("catalog document overwritten; the last feed wins",
				logging.String("replaced_feed", filepath.Base(feeds[i-1])),
				logging.String(logging.FieldFeed, filepath.Base(feed)))
		}
		result.Feeds = append(result.Feeds, filepath.Base(feed))
	}
	result.Document = target

	r.logger.Info("catalog rendered",
		logging.String("document", target),
		logging.Int("packs", result.Packs),
		logging.Int("feeds", len(result.Feeds)))
	return result, nil
}

// packRow is one rendered line of the pack table. All cells are final text.
type packRow struct {
	archive    string
	display    string
	voice      string
	style      string
	multiplier string
	trailing   string
	leading    string
}

// packRows builds one catalog row per archive in the publish directory, in
// lexical name order.
func (r *Renderer) packRows(ctx context.Context) ([]packRow, error) {
	entries, err := os.ReadDir(r.cfg.Paths.PublishDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrTransient, "catalog", "scan", "scan publish directory", err)
	}

	var rows []packRow
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, services.Wrap(services.ErrTransient, "catalog", "scan", "catalog scan interrupted", err)
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".zip") {
			continue
		}
		name := entry.Name()
		languageCode, regionCode, voice, ok := splitArchiveName(name)
		if !ok {
			r.logger.Warn("skipping archive with unrecognized name",
				logging.String(logging.FieldArchive, name))
			continue
		}
		settings := r.readSettings(filepath.Join(r.cfg.Paths.PublishDir, name))
		rows = append(rows, packRow{
			archive:    name,
			display:    r.displayName(languageCode, regionCode),
			voice:      voice,
			style:      renderText(settings.Style),
			multiplier: renderNumber(settings.Multiplier),
			trailing:   renderNumber(settings.TrailingSilence),
			leading:    renderNumber(settings.LeadingSilence),
		})
	}
	return rows, nil
}

// splitArchiveName decomposes "en-US-SarahNeural.zip" into its language code,
// region code, and voice. Voices may themselves contain hyphens, so only the
// first two segments are codes. Names with fewer than three segments are not
// sample packs.
func splitArchiveName(name string) (languageCode, regionCode, voice string, ok bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.Split(base, "-")
	if len(parts) < 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], strings.Join(parts[2:], "-"), true
}

func (r *Renderer) displayName(languageCode, regionCode string) string {
	language, langOK := r.resolver.LanguageName(languageCode)
	region, regionOK := r.resolver.RegionName(regionCode)
	if !langOK || !regionOK {
		return unrecognizedLocale
	}
	return fmt.Sprintf("%s (%s)", language, region)
}

func renderText(value *string) string {
	if value == nil {
		return notSpecified
	}
	return *value
}

func renderNumber(value *float64) string {
	if value == nil {
		return notSpecified
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

// renderDocument assembles the full catalog: the pack table, a fixed usage
// block, and the prompt feed reproduced verbatim.
func renderDocument(rows []packRow, feed *prompts.Table) string {
	var doc strings.Builder
	doc.WriteString(renderPackTable(rows))
	doc.WriteString("\n\n")
	doc.WriteString(usageText)
	doc.WriteString("\n\n")
	doc.WriteString(renderFeedTable(feed))
	return doc.String()
}

func renderPackTable(rows []packRow) string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"File", "Language (Region)", "Voice", "Style", "Multiplier", "Trailing Silence", "Leading Silence"})
	for _, row := range rows {
		tw.AppendRow(table.Row{
			fmt.Sprintf("[%s](%s)", row.archive, row.archive),
			row.display,
			row.voice,
			row.style,
			row.multiplier,
			row.trailing,
			row.leading,
		})
	}
	return tw.RenderMarkdown()
}

// renderFeedTable reproduces the prompt feed exactly as written. Cells pass
// through unescaped so the feed's own markdown survives intact.
func renderFeedTable(feed *prompts.Table) string {
	if feed == nil || len(feed.Headers) == 0 {
		return ""
	}
	var b strings.Builder
	writeFeedRow(&b, feed.Headers)
	separators := make([]string, len(feed.Headers))
	for i := range separators {
		separators[i] = "---"
	}
	writeFeedRow(&b, separators)
	for _, row := range feed.Rows {
		writeFeedRow(&b, row)
	}
	return b.String()
}

func writeFeedRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}
