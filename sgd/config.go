package sgd

import "strconv"

// TrainingConfig holds the parameters that are fixed for an entire
// trainer run: regularization strength lives on the Model, the rest
// here.
type TrainingConfig struct {
	Rounds        int     // R >= 1
	Workers       int     // requested worker count, collapses to 1 if > N
	Offset        int     // t0 >= 0, time-step offset
	C0            float64 // c0 > 0, step-size scale
	Locking       bool    // per-coordinate locking on/off
	KeepHistories bool
	NUMANode      int // advisory pool pinning hint, -1 disables

	// Seed fixes the per-round permutation RNG for reproducible runs
	// (SPEC_FULL.md §8, schedule determinism). Zero is a valid seed.
	Seed uint64
}

func (cfg TrainingConfig) seed1() uint64 { return cfg.Seed }
func (cfg TrainingConfig) seed2() uint64 { return cfg.Seed ^ 0x9E3779B97F4A7C15 }

// DefaultTrainingConfig returns a TrainingConfig with conservative
// defaults matching the CLI's flag defaults.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Rounds:   10,
		Workers:  1,
		Offset:   0,
		C0:       1.0,
		Locking:  true,
		NUMANode: -1,
	}
}

// Validate checks cfg and model against the preconditions in SPEC_FULL.md
// §4.2.1, returning a *ConfigError for the first violation found.
func (cfg TrainingConfig) Validate(m Model) error {
	if m.Lambda <= 0 {
		return &ConfigError{Field: "lambda", Msg: "must be > 0"}
	}
	if cfg.Rounds < 1 {
		return &ConfigError{Field: "rounds", Msg: "must be >= 1"}
	}
	if cfg.Workers < 1 {
		return &ConfigError{Field: "workers", Msg: "must be >= 1"}
	}
	if cfg.Offset < 0 {
		return &ConfigError{Field: "offset", Msg: "must be >= 0"}
	}
	if cfg.C0 <= 0 {
		return &ConfigError{Field: "c0", Msg: "must be > 0"}
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

func formatBool(b bool) string {
	return strconv.FormatBool(b)
}
