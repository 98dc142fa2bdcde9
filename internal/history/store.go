package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"herald/internal/config"
)

// Store manages ledger persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database and applies
// migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.HistoryPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Lookup returns the ledger row for a clip, or nil when the clip has never
// been synthesized for that voice.
func (s *Store) Lookup(ctx context.Context, voice, clipPath string) (*Clip, error) {
	voice = strings.TrimSpace(voice)
	clipPath = strings.TrimSpace(clipPath)
	if voice == "" || clipPath == "" {
		return nil, errors.New("voice and clip path are required")
	}
	row := s.db.QueryRowContext(ctx,
		"SELECT "+clipColumns+" FROM clips WHERE voice = ? AND clip_path = ?",
		voice, clipPath)
	clip, err := scanClip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup clip: %w", err)
	}
	return clip, nil
}

// Record upserts the ledger row for a clip with the text just synthesized.
func (s *Store) Record(ctx context.Context, voice, clipPath, text string) error {
	voice = strings.TrimSpace(voice)
	clipPath = strings.TrimSpace(clipPath)
	if voice == "" || clipPath == "" {
		return errors.New("voice and clip path are required")
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO clips (voice, clip_path, text, synthesized_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT (voice, clip_path)
         DO UPDATE SET text = excluded.text, synthesized_at = excluded.synthesized_at`,
		voice, clipPath, text, timestamp)
	if err != nil {
		return fmt.Errorf("record clip: %w", err)
	}
	return nil
}

// Forget removes one clip's ledger row, if present.
func (s *Store) Forget(ctx context.Context, voice, clipPath string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM clips WHERE voice = ? AND clip_path = ?",
		strings.TrimSpace(voice), strings.TrimSpace(clipPath))
	if err != nil {
		return fmt.Errorf("forget clip: %w", err)
	}
	return nil
}

// DeleteVoice drops the entire ledger for a voice and reports how many rows
// were removed.
func (s *Store) DeleteVoice(ctx context.Context, voice string) (int64, error) {
	voice = strings.TrimSpace(voice)
	if voice == "" {
		return 0, errors.New("voice is required")
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM clips WHERE voice = ?", voice)
	if err != nil {
		return 0, fmt.Errorf("delete voice history: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return deleted, nil
}

// List returns every ledger row for a voice ordered by clip path.
func (s *Store) List(ctx context.Context, voice string) ([]*Clip, error) {
	voice = strings.TrimSpace(voice)
	if voice == "" {
		return nil, errors.New("voice is required")
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+clipColumns+" FROM clips WHERE voice = ? ORDER BY clip_path",
		voice)
	if err != nil {
		return nil, fmt.Errorf("list clips: %w", err)
	}
	defer rows.Close()

	var clips []*Clip
	for rows.Next() {
		clip, err := scanClip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan clip: %w", err)
		}
		clips = append(clips, clip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clips: %w", err)
	}
	return clips, nil
}

// Stats summarizes the ledger per voice, newest synthesis first.
func (s *Store) Stats(ctx context.Context) ([]VoiceStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT voice, COUNT(1), MAX(synthesized_at)
         FROM clips GROUP BY voice ORDER BY MAX(synthesized_at) DESC`)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var stats []VoiceStats
	for rows.Next() {
		var (
			entry   VoiceStats
			rawTime sql.NullString
		)
		if err := rows.Scan(&entry.Voice, &entry.Clips, &rawTime); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		if at, err := parseTimeString(rawTime.String); err == nil {
			entry.LastSynthesis = at
		}
		stats = append(stats, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats: %w", err)
	}
	return stats, nil
}
