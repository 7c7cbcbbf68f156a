package sgd

// BatchGD is a deterministic, single-threaded full-batch gradient
// descent reference implementation, grounded on the original
// implementation's opt::gd. It exists solely as a cross-check (§8, E6):
// on a small dataset its final weights should closely track the
// parallel SGD trainer's, modulo the asynchrony the latter intentionally
// introduces.
type BatchGD struct {
	Model  Model
	Config TrainingConfig

	w []float64
}

// NewBatchGD constructs a BatchGD trainer. Only Config.Rounds, Offset,
// and C0 affect the result; Workers and Locking do not, although Fit
// still validates the whole config and so rejects Workers < 1.
func NewBatchGD(model Model, cfg TrainingConfig) *BatchGD {
	return &BatchGD{Model: model, Config: cfg}
}

// Weights returns the final weight vector from the most recent Fit.
func (b *BatchGD) Weights() []float64 { return b.w }

// Fit performs Config.Rounds full passes over ds, each computing the
// gradient over the entire dataset before taking one step:
//
//	t_eff   = round + t0
//	eta_t   = c0 / (lambda * t_eff)
//	w      := (1 - eta_t*lambda) * w - (eta_t/n) * sum_i dloss_i * x_i
func (b *BatchGD) Fit(ds *Dataset) error {
	if err := b.Config.Validate(b.Model); err != nil {
		return err
	}
	if ds.N() == 0 {
		return &ConfigError{Field: "dataset", Msg: "must be non-empty"}
	}

	n := ds.N()
	d := ds.D()
	w := make([]float64, d)
	accum := make([]float64, d)
	lambda := b.Model.Lambda

	for r := 1; r <= b.Config.Rounds; r++ {
		tEff := r + b.Config.Offset
		etaT := b.Config.C0 / (lambda * float64(tEff))

		for i := range accum {
			accum[i] = 0
		}
		for i := 0; i < n; i++ {
			ex := ds.At(i)
			yhat := ex.X.DenseDot(w)
			dloss := b.Model.Loss.DLoss(ex.Y, yhat)
			ex.X.Each(func(idx int, val float64) {
				accum[idx] += val * dloss
			})
		}

		scale := etaT / float64(n)
		shrink := 1 - etaT*lambda
		for i := range w {
			w[i] = shrink*w[i] - scale*accum[i]
		}
	}

	b.w = w
	return nil
}
