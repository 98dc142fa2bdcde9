// Package catalog renders the published sample pack document.
//
// For every prompt feed in the input directory the renderer writes one
// README.md into the publish directory: a table of the published packs, a
// fixed explanatory block, and the feed's own table reproduced verbatim.
// With multiple feeds each document overwrites the previous one, so the last
// feed wins; the quirk is kept and called out with a warning.
//
// Pack rows are derived by scanning the publish directory. Each archive is
// extracted into its own scratch directory to locate the pack's settings
// document, and the scratch directory is removed no matter how the archive
// processing turns out. Missing or unreadable settings never fail the run;
// the affected fields render the "Not Specified" sentinel instead.
package catalog
