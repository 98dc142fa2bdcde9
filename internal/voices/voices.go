package voices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"herald/internal/fileutil"
	"herald/internal/services"
)

// Entry is one record from the voice-metadata feed. Field names follow the
// speech service's voices listing; unrecognized fields are ignored.
type Entry struct {
	Name        string   `json:"Name,omitempty"`
	DisplayName string   `json:"DisplayName,omitempty"`
	ShortName   string   `json:"ShortName"`
	Gender      string   `json:"Gender,omitempty"`
	Locale      string   `json:"Locale"`
	LocaleName  string   `json:"LocaleName"`
	StyleList   []string `json:"StyleList,omitempty"`
}

// Fetcher retrieves the voice catalog from the speech service.
type Fetcher interface {
	Voices(ctx context.Context) ([]Entry, error)
}

// Load reads the cached voice-metadata feed at path. A missing file is an
// ErrNotFound: the catalog cannot resolve language or region codes without
// the feed, so callers treat this as fatal.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "voices", "load",
				fmt.Sprintf("voice metadata feed %s is missing; run \"herald voices --refresh\" first", path), err)
		}
		return nil, services.Wrap(services.ErrTransient, "voices", "load", "read voice metadata feed", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, services.Wrap(services.ErrValidation, "voices", "load", "parse voice metadata feed", err)
	}
	return entries, nil
}

// Save writes the feed to path, creating parent directories as needed.
func Save(path string, entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrValidation, "voices", "save", "encode voice metadata feed", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "voices", "save", "create cache directory", err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "voices", "save", "write voice metadata feed", err)
	}
	return nil
}

// Ensure returns the cached feed at path, fetching and caching it once when
// the cache is absent. Any other load failure is returned as-is.
func Ensure(ctx context.Context, path string, fetcher Fetcher) ([]Entry, error) {
	entries, err := Load(path)
	if err == nil {
		return entries, nil
	}
	if !errors.Is(err, services.ErrNotFound) {
		return nil, err
	}
	return Refresh(ctx, path, fetcher)
}

// Refresh fetches the feed from the speech service and rewrites the cache.
func Refresh(ctx context.Context, path string, fetcher Fetcher) ([]Entry, error) {
	if fetcher == nil {
		return nil, services.Wrap(services.ErrConfiguration, "voices", "refresh",
			"speech service not configured; set speech key and region", nil)
	}
	entries, err := fetcher.Voices(ctx)
	if err != nil {
		return nil, err
	}
	if err := Save(path, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SplitLocale splits a composite locale code on the first separator.
// "en-US" yields ("en", "US"); a bare "en" yields ("en", "").
func SplitLocale(locale string) (languageCode, regionCode string) {
	locale = strings.TrimSpace(locale)
	if i := strings.Index(locale, "-"); i >= 0 {
		return locale[:i], locale[i+1:]
	}
	return locale, ""
}

// Tail returns the final hyphen-separated segment of a service voice
// identifier: "en-US-SarahNeural" yields "SarahNeural". Leaf directories and
// archive names use the tail rather than the full identifier.
func Tail(shortName string) string {
	shortName = strings.TrimSpace(shortName)
	if i := strings.LastIndex(shortName, "-"); i >= 0 {
		return shortName[i+1:]
	}
	return shortName
}

// Styles returns the normalized style options for a voice. Each raw style is
// trimmed and title-cased, duplicates collapse, and "Default" always appears
// exactly once at the front with the rest sorted.
func Styles(e Entry) []string {
	caser := cases.Title(language.Und)
	seen := make(map[string]struct{}, len(e.StyleList))
	for _, raw := range e.StyleList {
		style := caser.String(strings.TrimSpace(raw))
		if style == "" || style == "Default" {
			continue
		}
		seen[style] = struct{}{}
	}
	styles := make([]string, 0, len(seen)+1)
	styles = append(styles, "Default")
	for style := range seen {
		styles = append(styles, style)
	}
	sort.Strings(styles[1:])
	return styles
}

// Filter narrows entries to a language code and, when regionCode is
// non-empty, a region code. Matching is case-insensitive. Empty arguments
// match everything.
func Filter(entries []Entry, languageCode, regionCode string) []Entry {
	if languageCode == "" && regionCode == "" {
		return entries
	}
	filtered := make([]Entry, 0, len(entries))
	for _, e := range entries {
		lang, region := SplitLocale(e.Locale)
		if languageCode != "" && !strings.EqualFold(lang, languageCode) {
			continue
		}
		if regionCode != "" && !strings.EqualFold(region, regionCode) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// Languages returns the distinct language codes present in the feed, sorted.
func Languages(entries []Entry) []string {
	seen := make(map[string]struct{})
	for _, e := range entries {
		lang, _ := SplitLocale(e.Locale)
		if lang == "" {
			continue
		}
		seen[lang] = struct{}{}
	}
	languages := make([]string, 0, len(seen))
	for lang := range seen {
		languages = append(languages, lang)
	}
	sort.Strings(languages)
	return languages
}

// Regions returns the distinct region codes the feed offers for a language
// code, sorted. Locales without a region segment contribute nothing.
func Regions(entries []Entry, languageCode string) []string {
	seen := make(map[string]struct{})
	for _, e := range entries {
		lang, region := SplitLocale(e.Locale)
		if region == "" || !strings.EqualFold(lang, languageCode) {
			continue
		}
		seen[region] = struct{}{}
	}
	regions := make([]string, 0, len(seen))
	for region := range seen {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	return regions
}
