// Package history persists the synthesis ledger in SQLite.
//
// One row per (voice, clip path) records the prompt text last synthesized for
// that clip. The planner compares feed rows against this ledger to decide
// which clips are new, changed, or already current, so reordering a feed or
// re-running it never triggers a resynthesis on its own.
//
// The database lives in the data directory and is treated as a cache: it can
// be deleted at any time at the cost of re-synthesizing everything.
package history
