package speech

import (
	"context"

	"herald/internal/voices"
)

// Request describes one synthesis call.
type Request struct {
	Text              string
	Voice             string // service voice identifier, e.g. "en-US-SarahNeural"
	Language          string // xml:lang value, e.g. "en-US"
	Style             string
	RateMultiplier    float64
	LeadingSilenceMS  int
	TrailingSilenceMS int
	OutputFormat      string // overrides the engine default when non-empty
}

// Engine synthesizes audio for a request and lists the voices the service
// offers. Implementations return WAV bytes ready to write to disk.
type Engine interface {
	Synthesize(ctx context.Context, req Request) ([]byte, error)
	Voices(ctx context.Context) ([]voices.Entry, error)
}
