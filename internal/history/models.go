package history

import (
	"database/sql"
	"errors"
	"time"
)

// Clip is one ledger row: the prompt text last synthesized for a clip path
// under a voice.
type Clip struct {
	ID            int64
	Voice         string
	ClipPath      string
	Text          string
	SynthesizedAt time.Time
}

// VoiceStats summarizes the ledger for one voice.
type VoiceStats struct {
	Voice         string
	Clips         int64
	LastSynthesis time.Time
}

const clipColumns = "id, voice, clip_path, text, synthesized_at"

func scanClip(scanner interface{ Scan(dest ...any) error }) (*Clip, error) {
	var (
		id       int64
		voice    string
		clipPath string
		text     sql.NullString
		rawTime  sql.NullString
	)
	if err := scanner.Scan(&id, &voice, &clipPath, &text, &rawTime); err != nil {
		return nil, err
	}
	clip := &Clip{
		ID:       id,
		Voice:    voice,
		ClipPath: clipPath,
		Text:     text.String,
	}
	if at, err := parseTimeString(rawTime.String); err == nil {
		clip.SynthesizedAt = at
	}
	return clip, nil
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
