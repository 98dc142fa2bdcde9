package testsupport

import (
	"context"
	"testing"

	"herald/internal/config"
	"herald/internal/history"
)

// MustOpenHistory opens a history.Store for tests and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RecordClip seeds a ledger row for tests using the provided store.
func RecordClip(t testing.TB, store *history.Store, voice, clipPath, text string) {
	t.Helper()

	if err := store.Record(context.Background(), voice, clipPath, text); err != nil {
		t.Fatalf("store.Record: %v", err)
	}
}
