// Package prompts reads the CSV prompt feeds that drive synthesis and the
// published catalog. Feeds are treated as externally authored: a UTF-8 BOM is
// tolerated, headers are matched case-insensitively, and clip paths are
// sanitized before they touch the filesystem.
package prompts
