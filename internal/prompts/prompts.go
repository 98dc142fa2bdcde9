package prompts

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"herald/internal/services"
)

// Row is one prompt from a feed: a clip path relative to the voice's leaf
// directory and the text to synthesize for it.
type Row struct {
	Path string
	Text string
}

// Table is a feed read verbatim, for pass-through rendering. Headers come
// from the first record; rows keep their cell text untouched.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Discover returns the CSV feed files directly inside dir, in lexical order.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "prompts", "discover",
				fmt.Sprintf("input directory %s does not exist", dir), err)
		}
		return nil, services.Wrap(services.ErrTransient, "prompts", "discover", "read input directory", err)
	}
	feeds := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		feeds = append(feeds, filepath.Join(dir, entry.Name()))
	}
	return feeds, nil
}

// LoadRows reads the typed prompt columns from a feed. The "path" and
// "text to play" columns are located by header name, case-insensitively, and
// cell values are trimmed. Rows with an empty path are skipped.
func LoadRows(path string) ([]Row, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	pathIdx, textIdx := -1, -1
	for i, header := range records[0] {
		switch strings.ToLower(strings.TrimSpace(header)) {
		case "path":
			if pathIdx < 0 {
				pathIdx = i
			}
		case "text to play":
			if textIdx < 0 {
				textIdx = i
			}
		}
	}
	if pathIdx < 0 {
		return nil, services.Wrap(services.ErrValidation, "prompts", "load",
			fmt.Sprintf("feed %s has no \"path\" column", filepath.Base(path)), nil)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := Row{Path: strings.TrimSpace(cell(record, pathIdx)), Text: strings.TrimSpace(cell(record, textIdx))}
		if row.Path == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadTable reads a feed with no interpretation at all: every cell passes
// through exactly as written so the catalog can render it verbatim.
func LoadTable(path string) (*Table, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}
	table := &Table{}
	if len(records) == 0 {
		return table, nil
	}
	table.Headers = records[0]
	table.Rows = records[1:]
	return table, nil
}

// SafeRelative converts a feed path into a relative filesystem path,
// replacing ":" with "_". Absolute paths and paths containing a ".." element
// are rejected.
func SafeRelative(raw string) (string, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ":", "_")
	if cleaned == "" || filepath.IsAbs(cleaned) {
		return "", false
	}
	for _, part := range strings.Split(filepath.ToSlash(cleaned), "/") {
		if part == ".." {
			return "", false
		}
	}
	return filepath.FromSlash(cleaned), true
}

func readRecords(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "prompts", "load",
				fmt.Sprintf("prompt feed %s does not exist", path), err)
		}
		return nil, services.Wrap(services.ErrTransient, "prompts", "load", "read prompt feed", err)
	}

	reader := csv.NewReader(bytes.NewReader(trimUTF8BOM(data)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "prompts", "load",
			fmt.Sprintf("parse prompt feed %s", filepath.Base(path)), err)
	}
	return records, nil
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func trimUTF8BOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
