package sgd

import "testing"

func TestVectorEachDense(t *testing.T) {
	v := NewDenseVector([]float64{1, 0, 3, 0, 5})
	var idxs []int
	var vals []float64
	v.Each(func(idx int, val float64) {
		idxs = append(idxs, idx)
		vals = append(vals, val)
	})
	want := []int{0, 2, 4}
	for i, idx := range want {
		if idxs[i] != idx {
			t.Fatalf("idx[%d] = %d, want %d", i, idxs[i], idx)
		}
	}
	if vals[1] != 3 {
		t.Fatalf("vals[1] = %v, want 3", vals[1])
	}
}

func TestVectorEachSparse(t *testing.T) {
	v := NewSparseVector([]uint32{1, 4, 9}, []float64{2, 3, 4}, 10)
	if v.NNZ() != 3 {
		t.Fatalf("NNZ = %d, want 3", v.NNZ())
	}
	if got := v.At(4); got != 3 {
		t.Fatalf("At(4) = %v, want 3", got)
	}
	if got := v.At(5); got != 0 {
		t.Fatalf("At(5) = %v, want 0", got)
	}
}

func TestVectorDotAgreesDenseAndSparse(t *testing.T) {
	w := []float64{1, 2, 3, 4, 5}
	dense := NewDenseVector([]float64{1, 0, 1, 0, 1})
	sparse := NewSparseVector([]uint32{0, 2, 4}, []float64{1, 1, 1}, 5)

	dDot := dense.DenseDot(w)
	sDot := sparse.DenseDot(w)
	if dDot != sDot {
		t.Fatalf("dense dot %v != sparse dot %v", dDot, sDot)
	}
	if dDot != 9 {
		t.Fatalf("dot = %v, want 9", dDot)
	}
}

func TestSparseVectorRejectsUnsorted(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unsorted indices")
		}
	}()
	NewSparseVector([]uint32{3, 1}, []float64{1, 2}, 4)
}
