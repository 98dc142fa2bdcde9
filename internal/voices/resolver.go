package voices

import "strings"

// Resolver maps language and region codes to human-readable display names.
// Both tables are populated first-seen-wins from the feed's entry order, so
// a fixed feed always yields the same names.
type Resolver struct {
	languages map[string]string
	regions   map[string]string
}

// NewResolver builds the lookup tables from feed entries. The language name
// is the entry's LocaleName with any trailing parenthetical stripped; the
// region name is the parenthetical's contents. Entries whose LocaleName has
// no parenthetical contribute nothing to the region table.
func NewResolver(entries []Entry) *Resolver {
	r := &Resolver{
		languages: make(map[string]string, len(entries)),
		regions:   make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		lang, region := SplitLocale(e.Locale)
		if lang == "" {
			continue
		}
		base, parenthetical := splitLocaleName(e.LocaleName)
		if _, exists := r.languages[lang]; !exists {
			r.languages[lang] = base
		}
		if region != "" && parenthetical != "" {
			if _, exists := r.regions[region]; !exists {
				r.regions[region] = parenthetical
			}
		}
	}
	return r
}

// LanguageName returns the display name for a language code.
func (r *Resolver) LanguageName(code string) (string, bool) {
	name, ok := r.languages[code]
	return name, ok
}

// RegionName returns the display name for a region code.
func (r *Resolver) RegionName(code string) (string, bool) {
	name, ok := r.regions[code]
	return name, ok
}

// splitLocaleName separates "English (United States)" into "English" and
// "United States". Names without a trailing parenthetical come back whole
// with an empty region part.
func splitLocaleName(name string) (base, parenthetical string) {
	name = strings.TrimSpace(name)
	open := strings.LastIndex(name, "(")
	if open < 0 || !strings.HasSuffix(name, ")") {
		return name, ""
	}
	base = strings.TrimSpace(name[:open])
	parenthetical = strings.TrimSpace(name[open+1 : len(name)-1])
	return base, parenthetical
}
