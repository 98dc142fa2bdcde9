package catalog

import (
	"archive/zip"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"herald/internal/logging"
)

// settingsName is the per-pack settings document the synthesizer writes into
// each voice's leaf directory.
const settingsName = "settings.json"

// packSettings mirrors the settings document. Pointer fields distinguish an
// explicit zero from an absent one: a leading silence of 0 renders as "0"
// while a missing field renders the sentinel.
type packSettings struct {
	Style           *string  `json:"style"`
	Multiplier      *float64 `json:"multiplier"`
	TrailingSilence *float64 `json:"trailingSilence"`
	LeadingSilence  *float64 `json:"leadingSilence"`
}

// readSettings extracts archivePath into a scratch directory and parses the
// first settings document found inside. Every failure degrades to empty
// settings; the scratch directory is removed either way.
func (r *Renderer) readSettings(archivePath string) packSettings {
	scratch := filepath.Join(r.cfg.ScratchRoot(), "catalog-"+uuid.NewString())
	defer func() {
		_ = os.RemoveAll(scratch)
	}()

	if err := extractArchive(archivePath, scratch); err != nil {
		r.logger.Warn("failed to extract sample pack",
			logging.String(logging.FieldArchive, filepath.Base(archivePath)),
			logging.Error(err))
		return packSettings{}
	}
	document := findSettings(scratch)
	if document == "" {
		return packSettings{}
	}
	data, err := os.ReadFile(document)
	if err != nil {
		r.logger.Warn("failed to read pack settings",
			logging.String(logging.FieldArchive, filepath.Base(archivePath)),
			logging.Error(err))
		return packSettings{}
	}
	var settings packSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		r.logger.Warn("failed to parse pack settings",
			logging.String(logging.FieldArchive, filepath.Base(archivePath)),
			logging.Error(err))
		return packSettings{}
	}
	return settings
}

// findSettings returns the first settings document in walk order, or "".
func findSettings(root string) string {
	var found string
	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() && entry.Name() == settingsName {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	return found
}

// extractArchive unpacks a zip archive under destDir. Entries whose paths
// would land outside destDir are skipped.
func extractArchive(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer func() {
		_ = reader.Close()
	}()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}
	for _, file := range reader.File {
		target, ok := containedPath(destDir, file.Name)
		if !ok {
			continue
		}
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := extractFile(file, target); err != nil {
			return err
		}
	}
	return nil
}

// containedPath joins an archive entry name onto root and reports whether the
// cleaned result stays inside root.
func containedPath(root, name string) (string, bool) {
	target := filepath.Join(root, filepath.FromSlash(name))
	if target != root && !strings.HasPrefix(target, root+string(filepath.Separator)) {
		return "", false
	}
	return target, true
}

func extractFile(file *zip.File, target string) (err error) {
	in, err := file.Open()
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}
