// Package synth plans and executes clip synthesis for one voice.
//
// A run reads the prompt feed, compares each row against the history ledger,
// and synthesizes only the clips that are new, changed, or missing on disk.
// Changed prompts have their stale clip removed before synthesis so a failed
// request never leaves outdated audio behind. Clips are written atomically
// into the voice's leaf directory, recorded in the ledger, and the leaf's
// settings.json is rewritten with the prosody settings used for the run.
//
// Runs are strictly sequential and serialized by the run lock. Failures are
// per clip: the run continues past a failed clip and reports all failures in
// the summary, returning a transient error so the process exits non-zero.
// Configuration failures such as rejected credentials abort the run instead,
// since every remaining clip would fail the same way.
package synth
