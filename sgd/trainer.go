package sgd

import (
	"math/rand/v2"
	"sync/atomic"
)

// Trainer drives asynchronous parallel SGD (Hogwild-style) over a
// Dataset, owning a WeightVector for the duration of one Fit call. This
// is C5, the heart of the package: it computes the per-worker
// learning-rate schedule, shards the per-round permutation, dispatches
// one task per worker per round to a WorkerPool, and applies the sparse
// regularized update rule described in SPEC_FULL.md §4.2.3.
type Trainer struct {
	Model  Model
	Config TrainingConfig

	// Name identifies the classifier variant for observability, e.g.
	// "sgd-nolock" or "sgd-lock". Purely cosmetic; it does not affect
	// Fit's behavior (Config.Locking does that).
	Name string

	w            []float64
	history      []HistoryEntry
	trainingSize int
}

// NewTrainer constructs a Trainer. The model and config are copied.
func NewTrainer(model Model, cfg TrainingConfig, name string) *Trainer {
	return &Trainer{Model: model, Config: cfg, Name: name}
}

// Weights returns the final weight snapshot from the most recent Fit
// call, or nil if Fit has not yet returned successfully.
func (t *Trainer) Weights() []float64 { return t.w }

// History returns the per-round snapshots retained when
// Config.KeepHistories was set, in round order.
func (t *Trainer) History() []HistoryEntry { return t.history }

// TrainingSize returns N() of the dataset most recently fit.
func (t *Trainer) TrainingSize() int { return t.trainingSize }

// Fit trains on ds for Config.Rounds rounds, as described in
// SPEC_FULL.md §4.2. It validates the configuration before spawning any
// worker, and returns a *ConfigError synchronously on an invalid
// configuration, a *ProgrammingError if a worker panics, or nil on
// success — in which case Weights() and (if requested) History() are
// populated.
func (t *Trainer) Fit(ds *Dataset) error {
	if err := t.Config.Validate(t.Model); err != nil {
		return err
	}
	if ds.N() == 0 {
		return &ConfigError{Field: "dataset", Msg: "must be non-empty"}
	}

	n := ds.N()
	weff := t.Config.Workers
	if n < weff {
		weff = 1
	}

	wv := NewWeightVector(ds.D())
	pool := NewWorkerPool(weff, WorkerPoolConfig{NUMANode: t.Config.NUMANode})
	defer pool.Shutdown()

	rng := rand.New(rand.NewPCG(t.Config.seed1(), t.Config.seed2()))

	var firstErr atomic.Pointer[error]
	counts := ds.FeatureCounts()
	lambda := t.Model.Lambda
	c0 := t.Config.C0
	t0 := t.Config.Offset
	locking := t.Config.Locking
	loss := t.Model.Loss

	t.history = t.history[:0]
	var elapsedUs int64

	for r := 1; r <= t.Config.Rounds; r++ {
		roundStart := clock()
		perm := ds.Permutation(rng)
		shards := Shard(perm, weff)

		for wk := 0; wk < weff; wk++ {
			shard := shards[wk]
			round := r
			pool.Submit(wk, func() {
				defer func() {
					if rec := recover(); rec != nil {
						err := error(&ProgrammingError{Round: round, Cause: rec})
						firstErr.CompareAndSwap(nil, &err)
					}
				}()
				runShard(wv, ds, round, n, counts, shard, locking, loss, lambda, c0, t0)
			})
		}
		pool.Wait()
		elapsedUs += int64(clock().Sub(roundStart).Microseconds())

		if ep := firstErr.Load(); ep != nil {
			return *ep
		}

		if t.Config.KeepHistories {
			t.history = append(t.history, HistoryEntry{
				Round:     r,
				ElapsedUs: elapsedUs,
				W:         wv.Snapshot(),
			})
		}
	}

	t.w = wv.Snapshot()
	t.trainingSize = n
	return nil
}

// runShard performs the Hogwild update for every example in shard,
// following SPEC_FULL.md §4.2.3: a prediction dot product over the
// shared weight vector (locked or racy, per the locking flag), followed
// by a sparse regularized update of every non-zero coordinate of x.
func runShard(wv *WeightVector, ds *Dataset, round, n int, counts []int, shard []int, locking bool, loss LossKind, lambda, c0 float64, t0 int) {
	datasetSizeF := float64(n)
	for pos, origIdx := range shard {
		tEff := (round-1)*n + (pos + 1) + t0
		etaT := c0 / (lambda * float64(tEff))

		ex := ds.At(origIdx)
		var yhat float64
		if locking {
			yhat = ex.X.Dot(wv.ReadLocked)
		} else {
			yhat = ex.X.Dot(wv.ReadUnsynchronized)
		}
		dloss := loss.DLoss(ex.Y, yhat)

		ex.X.Each(func(idx int, val float64) {
			c := counts[idx]
			if c == 0 {
				return
			}
			shrink := 1 - etaT*lambda*datasetSizeF/float64(c)
			if locking {
				wv.Lock(idx)
				wOld := wv.LockedRead(idx)
				wNew := shrink*wOld - etaT*dloss*val
				wv.WriteAndUnlock(idx, wNew)
			} else {
				wOld := wv.ReadUnsynchronized(idx)
				wNew := shrink*wOld - etaT*dloss*val
				wv.WriteUnsynchronized(idx, wNew)
			}
		})
	}
}

// MapConfig returns the observability configuration dump described in
// SPEC_FULL.md §6: clf_* keys plus the model's own keys.
func (t *Trainer) MapConfig() map[string]string {
	cfg := map[string]string{
		"clf_name":        t.Name,
		"clf_nrounds":     formatInt(t.Config.Rounds),
		"clf_nworkers":    formatInt(t.Config.Workers),
		"clf_do_locking":  formatBool(t.Config.Locking),
		"clf_t_offset":    formatInt(t.Config.Offset),
		"clf_c0":          formatFloat(t.Config.C0),
		"clf_training_sz": formatInt(t.trainingSize),
	}
	for k, v := range t.Model.MapConfig() {
		cfg[k] = v
	}
	return cfg
}
