package sgd

import (
	"gonum.org/v1/gonum/floats"
)

// Model bundles a loss function and a regularization strength into the
// scalar objective the trainer minimizes:
//
//	F(w) = (1/n) * sum_i loss(y_i, <w, x_i>) + (lambda/2) * ||w||^2
type Model struct {
	Loss   LossKind
	Lambda float64
}

// Predict returns the sign of <w, x> for every example in ds, in
// original order.
func (m Model) Predict(w []float64, ds *Dataset) []float64 {
	out := make([]float64, ds.N())
	for i := 0; i < ds.N(); i++ {
		ex := ds.At(i)
		if ex.X.DenseDot(w) >= 0 {
			out[i] = 1
		} else {
			out[i] = -1
		}
	}
	return out
}

// EmpiricalRisk returns F(w) over the full range [0, ds.N()).
func (m Model) EmpiricalRisk(w []float64, ds *Dataset) float64 {
	return m.empiricalRiskRange(w, ds, 0, ds.N())
}

func (m Model) empiricalRiskRange(w []float64, ds *Dataset, start, end int) float64 {
	var sum float64
	for i := start; i < end; i++ {
		ex := ds.At(i)
		yhat := ex.X.DenseDot(w)
		sum += m.Loss.Loss(ex.Y, yhat)
	}
	n := float64(end - start)
	reg := 0.5 * m.Lambda * floats.Dot(w, w)
	return sum/n + reg
}

// ParallelEmpiricalRisk computes the same value as EmpiricalRisk but
// splits the dataset across a worker pool, grounded on the original
// implementation's parallel_empirical_risk — a read-only consumer of w
// that shares C4's pool abstraction but never touches the SGD lock
// discipline, since nothing it does writes to w.
func (m Model) ParallelEmpiricalRisk(w []float64, ds *Dataset, pool *WorkerPool) float64 {
	n := ds.N()
	workers := pool.NumWorkers()
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		return m.EmpiricalRisk(w, ds)
	}

	chunk := (n + workers - 1) / workers
	partialSums := make([]float64, workers)
	for wk := 0; wk < workers; wk++ {
		start := wk * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		idx := wk
		pool.Submit(wk, func() {
			var sum float64
			for i := start; i < end; i++ {
				ex := ds.At(i)
				sum += m.Loss.Loss(ex.Y, ex.X.DenseDot(w))
			}
			partialSums[idx] = sum
		})
	}
	pool.Wait()

	total := 0.0
	for _, s := range partialSums {
		total += s
	}
	reg := 0.5 * m.Lambda * floats.Dot(w, w)
	return total/float64(n) + reg
}

// GradEmpiricalRisk returns the gradient of F at w over [0, ds.N()), as a
// dense slice of length ds.D(). Used only for the §8 cross-checks (batch
// GD and gradient-norm reporting), not on the Hogwild hot path.
func (m Model) GradEmpiricalRisk(w []float64, ds *Dataset) []float64 {
	grad := make([]float64, len(w))
	n := float64(ds.N())
	for i := 0; i < ds.N(); i++ {
		ex := ds.At(i)
		yhat := ex.X.DenseDot(w)
		dloss := m.Loss.DLoss(ex.Y, yhat)
		ex.X.Each(func(idx int, val float64) {
			grad[idx] += dloss * val
		})
	}
	floats.Scale(1/n, grad)
	floats.AddScaled(grad, m.Lambda, w)
	return grad
}

// NormGradEmpiricalRisk returns ||grad F(w)||_2.
func (m Model) NormGradEmpiricalRisk(w []float64, ds *Dataset) float64 {
	g := m.GradEmpiricalRisk(w, ds)
	return floats.Norm(g, 2)
}

// MapConfig returns the model's contribution to the CLI's configuration
// dump: model_type and model_lambda.
func (m Model) MapConfig() map[string]string {
	return map[string]string{
		"model_type":   "linear",
		"model_lambda": formatFloat(m.Lambda),
	}
}
