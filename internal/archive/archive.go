package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"

	"herald/internal/config"
	"herald/internal/fileutil"
	"herald/internal/logging"
	"herald/internal/services"
)

// leafDepth is how many directories below the output root a voice leaf sits:
// language/REGION/voice.
const leafDepth = 3

// Archiver zips voice leaf directories into the publish directory.
type Archiver struct {
	cfg    *config.Config
	logger *slog.Logger
}

// Pack describes one archive written to the publish directory.
type Pack struct {
	Name     string
	Path     string
	Language string
	Region   string
	Voice    string
	Files    int
}

// NewArchiver constructs an archiver for the configured directories.
func NewArchiver(cfg *config.Config, logger *slog.Logger) *Archiver {
	return &Archiver{cfg: cfg, logger: logging.NewComponentLogger(logger, "archive")}
}

// Run resets the publish directory and archives every voice leaf found in the
// output tree. Failing to reset the publish directory fails the whole run.
func (a *Archiver) Run(ctx context.Context) ([]Pack, error) {
	publishDir := a.cfg.Paths.PublishDir
	if err := os.RemoveAll(publishDir); err != nil {
		return nil, services.Wrap(services.ErrTransient, "archive", "reset publish dir", "remove publish directory", err)
	}
	if err := os.MkdirAll(publishDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrTransient, "archive", "reset publish dir", "create publish directory", err)
	}

	leaves, err := Leaves(a.cfg.Paths.OutputDir)
	if err != nil {
		return nil, err
	}

	packs := make([]Pack, 0, len(leaves))
	for _, l := range leaves {
		if err := ctx.Err(); err != nil {
			return packs, services.Wrap(services.ErrTransient, "archive", "run", "archiving interrupted", err)
		}
		pack, err := a.archiveLeaf(l, publishDir)
		if err != nil {
			return packs, err
		}
		a.logger.Info("pack archived",
			logging.String(logging.FieldArchive, pack.Name),
			logging.Int("files", pack.Files))
		packs = append(packs, *pack)
	}
	return packs, nil
}

// Leaf is one voice directory in the output tree.
type Leaf struct {
	Path     string
	Language string
	Region   string
	Voice    string
}

// Leaves walks the output tree and collects directories at exactly leafDepth.
// Depth is the only discriminant; names are not inspected. A missing root
// yields no leaves.
func Leaves(root string) ([]Leaf, error) {
	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrTransient, "archive", "scan", "stat output directory", err)
	}

	var leaves []Leaf
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		parts := strings.Split(rel, string(filepath.Separator))
		if len(parts) != leafDepth {
			return nil
		}
		leaves = append(leaves, Leaf{
			Path:     path,
			Language: parts[0],
			Region:   parts[1],
			Voice:    parts[2],
		})
		return filepath.SkipDir
	})
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "archive", "scan", "walk output directory", err)
	}
	return leaves, nil
}

func (a *Archiver) archiveLeaf(l Leaf, publishDir string) (*Pack, error) {
	name := fmt.Sprintf("%s-%s-%s.zip", l.Language, l.Region, l.Voice)

	scratch := a.cfg.ScratchRoot()
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return nil, services.Wrap(services.ErrTransient, "archive", "archive leaf", "create scratch directory", err)
	}
	tmp, err := os.CreateTemp(scratch, "pack-*.zip")
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "archive", "archive leaf", "create scratch archive", err)
	}
	tmpPath := tmp.Name()

	files, err := writeArchive(tmp, l.Path)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return nil, services.Wrap(services.ErrTransient, "archive", "archive leaf",
			fmt.Sprintf("build archive %s", name), err)
	}

	target := filepath.Join(publishDir, name)
	if err := fileutil.Move(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return nil, services.Wrap(services.ErrTransient, "archive", "archive leaf",
			fmt.Sprintf("move archive %s into publish directory", name), err)
	}

	return &Pack{
		Name:     name,
		Path:     target,
		Language: l.Language,
		Region:   l.Region,
		Voice:    l.Voice,
		Files:    files,
	}, nil
}

// writeArchive zips the files directly inside leafDir. Nested directories are
// ignored and an empty leaf yields an archive with no entries.
func writeArchive(w io.Writer, leafDir string) (int, error) {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})

	entries, err := os.ReadDir(leafDir)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := addFile(zw, leafDir, entry.Name()); err != nil {
			return count, err
		}
		count++
	}
	if err := zw.Close(); err != nil {
		return count, err
	}
	return count, nil
}

func addFile(zw *zip.Writer, dir, name string) error {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate

	entry, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(entry, f)
	return err
}
