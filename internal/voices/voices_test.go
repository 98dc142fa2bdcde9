package voices

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"herald/internal/services"
)

func TestSplitLocale(t *testing.T) {
	tests := []struct {
		input    string
		language string
		region   string
	}{
		{"en-US", "en", "US"},
		{"fr-FR", "fr", "FR"},
		{"yue", "yue", ""},
		{"zh-CN-liaoning", "zh", "CN-liaoning"},
		{"  en-AU  ", "en", "AU"},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			language, region := SplitLocale(tt.input)
			if language != tt.language || region != tt.region {
				t.Errorf("SplitLocale(%q) = (%q, %q), want (%q, %q)", tt.input, language, region, tt.language, tt.region)
			}
		})
	}
}

func TestTail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en-US-SarahNeural", "SarahNeural"},
		{"zh-CN-liaoning-YiluNeural", "YiluNeural"},
		{"Sarah", "Sarah"},
		{" en-AU-ElsieNeural ", "ElsieNeural"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := Tail(tt.input); result != tt.expected {
				t.Errorf("Tail(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestStyles(t *testing.T) {
	tests := []struct {
		name     string
		raw      []string
		expected []string
	}{
		{"nil list", nil, []string{"Default"}},
		{"normalizes case and whitespace", []string{" cheerful ", "SAD"}, []string{"Default", "Cheerful", "Sad"}},
		{"default collapses", []string{"default", "Default", "angry"}, []string{"Default", "Angry"}},
		{"duplicates collapse", []string{"whispering", "Whispering"}, []string{"Default", "Whispering"}},
		{"hyphenated styles", []string{"narration-professional"}, []string{"Default", "Narration-Professional"}},
		{"blank entries dropped", []string{"  ", "hopeful"}, []string{"Default", "Hopeful"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Styles(Entry{StyleList: tt.raw})
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("Styles(%v) = %v, want %v", tt.raw, result, tt.expected)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	feed := testFeed()
	tests := []struct {
		name     string
		language string
		region   string
		want     int
	}{
		{"no filters", "", "", len(feed)},
		{"language only", "en", "", 3},
		{"language case-insensitive", "EN", "", 3},
		{"language and region", "en", "us", 1},
		{"region without matches", "en", "ZZ", 0},
		{"unknown language", "xx", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Filter(feed, tt.language, tt.region); len(result) != tt.want {
				t.Errorf("Filter(feed, %q, %q) returned %d entries, want %d", tt.language, tt.region, len(result), tt.want)
			}
		})
	}
}

func TestLanguagesAndRegions(t *testing.T) {
	feed := testFeed()
	languages := Languages(feed)
	expectedLanguages := []string{"en", "es", "fr", "yue"}
	if !reflect.DeepEqual(languages, expectedLanguages) {
		t.Errorf("Languages(feed) = %v, want %v", languages, expectedLanguages)
	}
	regions := Regions(feed, "en")
	expectedRegions := []string{"AU", "GB", "US"}
	if !reflect.DeepEqual(regions, expectedRegions) {
		t.Errorf("Regions(feed, en) = %v, want %v", regions, expectedRegions)
	}
	if regions := Regions(feed, "yue"); len(regions) != 0 {
		t.Errorf("Regions(feed, yue) = %v, want empty", regions)
	}
}

func TestLoadMissingFeedIsNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "voices.json"))
	if err == nil {
		t.Fatal("expected error for missing feed")
	}
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadRejectsMalformedFeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voices.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "voices.json")
	if err := Save(path, testFeed()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(entries, testFeed()) {
		t.Errorf("round trip mismatch: got %+v", entries)
	}
}

type countingFetcher struct {
	calls   int
	entries []Entry
	err     error
}

func (f *countingFetcher) Voices(ctx context.Context) ([]Entry, error) {
	f.calls++
	return f.entries, f.err
}

func TestEnsureFetchesOnlyWhenCacheMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voices.json")
	fetcher := &countingFetcher{entries: testFeed()}

	entries, err := Ensure(context.Background(), path, fetcher)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if len(entries) != len(testFeed()) {
		t.Fatalf("Ensure returned %d entries, want %d", len(entries), len(testFeed()))
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected one fetch, got %d", fetcher.calls)
	}

	if _, err := Ensure(context.Background(), path, fetcher); err != nil {
		t.Fatalf("Ensure with warm cache: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("warm cache should not fetch again, got %d calls", fetcher.calls)
	}
}

func TestRefreshRequiresFetcher(t *testing.T) {
	_, err := Refresh(context.Background(), filepath.Join(t.TempDir(), "voices.json"), nil)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestRefreshPropagatesFetchError(t *testing.T) {
	fetchErr := services.Wrap(services.ErrExternalService, "speech", "voices", "listing failed", nil)
	fetcher := &countingFetcher{err: fetchErr}
	path := filepath.Join(t.TempDir(), "voices.json")
	if _, err := Refresh(context.Background(), path, fetcher); !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected fetch error to propagate, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("failed refresh must not write a cache file")
	}
}
