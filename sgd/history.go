package sgd

import "time"

// HistoryEntry is one round's snapshot, retained only when
// TrainingConfig.KeepHistories is set.
type HistoryEntry struct {
	Round     int
	ElapsedUs int64
	W         []float64
}

// clock is overridable in tests that need deterministic elapsed times;
// production code always uses time.Now via this indirection.
var clock = time.Now
