// Package voices loads the speech service's voice-metadata feed and derives
// the lookup tables the rest of the pipeline needs.
//
// The feed is cached on disk as JSON so that publishing runs fully offline;
// only an explicit refresh touches the network. Locale parsing, display-name
// resolution, and style normalization are consolidated here to avoid
// duplication across the synthesis and catalog packages.
package voices
