package sgd

import (
	"math"
	"testing"
)

func TestEmpiricalRiskIncludesRegularizer(t *testing.T) {
	ds := NewDataset([]Example{
		{X: NewDenseVector([]float64{1, 0}), Y: 1},
		{X: NewDenseVector([]float64{0, 1}), Y: -1},
	}, 2, false)
	model := Model{Loss: SquareLoss, Lambda: 2.0}
	w := []float64{1, 1}

	got := model.EmpiricalRisk(w, ds)
	// loss: 0.5*(1-1)^2=0, 0.5*(-1-1)^2=2 -> mean 1
	// reg: 0.5*2*(1+1) = 2
	want := 3.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("EmpiricalRisk = %v, want %v", got, want)
	}
}

func TestParallelEmpiricalRiskAgreesWithSerial(t *testing.T) {
	ds := linearlySeparableDataset(500, 4)
	model := Model{Loss: HingeLoss, Lambda: 0.1}
	w := []float64{0.3, -0.2, 0.1, 0.0}

	serial := model.EmpiricalRisk(w, ds)

	pool := NewWorkerPool(4, WorkerPoolConfig{NUMANode: -1})
	defer pool.Shutdown()
	parallel := model.ParallelEmpiricalRisk(w, ds, pool)

	if math.Abs(serial-parallel) > 1e-9 {
		t.Fatalf("serial risk %v != parallel risk %v", serial, parallel)
	}
}

func TestPredictSignConvention(t *testing.T) {
	ds := NewDataset([]Example{
		{X: NewDenseVector([]float64{1}), Y: 1},
		{X: NewDenseVector([]float64{-1}), Y: -1},
	}, 1, false)
	model := Model{Loss: HingeLoss, Lambda: 0.1}
	pred := model.Predict([]float64{1}, ds)
	if pred[0] != 1 || pred[1] != -1 {
		t.Fatalf("Predict = %v, want [1 -1]", pred)
	}
}

func TestMapConfigKeys(t *testing.T) {
	model := Model{Loss: HingeLoss, Lambda: 0.5}
	m := model.MapConfig()
	if m["model_type"] != "linear" {
		t.Fatalf("model_type = %q, want linear", m["model_type"])
	}
	if m["model_lambda"] != "0.5" {
		t.Fatalf("model_lambda = %q, want 0.5", m["model_lambda"])
	}
}
