// Package sgd implements a Hogwild-style asynchronous parallel SGD engine
// for linear classifiers, with an optional per-coordinate locking mode.
package sgd

import (
	"math"
	"sort"
)

// Vector is a feature vector. It is either dense (one value per index,
// 0..Dim()-1) or sparse (a sorted set of (index, value) pairs with unique
// indices). Both forms expose a uniform lazy iteration over non-zero
// entries via Each.
type Vector struct {
	dim    int
	dense  []float64
	sIdx   []uint32
	sVal   []float64
	sparse bool
}

// NewDenseVector wraps a plain slice as a dense Vector. The slice is not
// copied; callers must not mutate it after handing it to a Dataset.
func NewDenseVector(values []float64) Vector {
	return Vector{dim: len(values), dense: values}
}

// NewSparseVector builds a sparse Vector from parallel index/value slices.
// idx must be strictly increasing on entry; dim is one past the highest
// index the vector is allowed to address (it may exceed the highest index
// actually present).
func NewSparseVector(idx []uint32, val []float64, dim int) Vector {
	if len(idx) != len(val) {
		panic("sgd: sparse vector index/value length mismatch")
	}
	if !sort.IsSorted(uint32Slice(idx)) {
		panic("sgd: sparse vector indices must be sorted ascending")
	}
	return Vector{dim: dim, sIdx: idx, sVal: val, sparse: true}
}

type uint32Slice []uint32

func (s uint32Slice) Len() int           { return len(s) }
func (s uint32Slice) Less(i, j int) bool { return s[i] < s[j] }
func (s uint32Slice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// Dim returns one past the highest index this vector may address.
func (v Vector) Dim() int { return v.dim }

// IsSparse reports whether v uses the sparse representation.
func (v Vector) IsSparse() bool { return v.sparse }

// NNZ returns the number of stored non-zero entries.
func (v Vector) NNZ() int {
	n := 0
	if v.sparse {
		for _, x := range v.sVal {
			if x != 0 {
				n++
			}
		}
		return n
	}
	for _, x := range v.dense {
		if x != 0 {
			n++
		}
	}
	return n
}

// Each calls fn once per non-zero (index, value) entry in ascending index
// order. fn must not retain the slice backing the vector.
func (v Vector) Each(fn func(idx int, val float64)) {
	if v.sparse {
		for i, idx := range v.sIdx {
			if v.sVal[i] != 0 {
				fn(int(idx), v.sVal[i])
			}
		}
		return
	}
	for i, x := range v.dense {
		if x != 0 {
			fn(i, x)
		}
	}
}

// At returns the value at idx, or 0 if absent. For the sparse
// representation this is a binary search; callers in hot loops should
// prefer Each to avoid repeated O(log nnz) lookups.
func (v Vector) At(idx int) float64 {
	if v.sparse {
		i := sort.Search(len(v.sIdx), func(i int) bool { return v.sIdx[i] >= uint32(idx) })
		if i < len(v.sIdx) && int(v.sIdx[i]) == idx {
			return v.sVal[i]
		}
		return 0
	}
	if idx < 0 || idx >= len(v.dense) {
		return 0
	}
	return v.dense[idx]
}

// Dot returns the dot product of v with a reader function over a shared
// weight state, used by the trainer so that the same Vector code path
// serves both the locking and non-locking read strategies.
func (v Vector) Dot(read func(idx int) float64) float64 {
	var sum float64
	v.Each(func(idx int, val float64) {
		sum += val * read(idx)
	})
	return sum
}

// DenseDot returns the ordinary dot product against a plain weight slice.
// Used by the batch GD reference implementation and by tests.
func (v Vector) DenseDot(w []float64) float64 {
	var sum float64
	v.Each(func(idx int, val float64) {
		sum += val * w[idx]
	})
	return sum
}

// Norm2 returns the Euclidean norm of v.
func (v Vector) Norm2() float64 {
	var sum float64
	v.Each(func(_ int, val float64) { sum += val * val })
	return math.Sqrt(sum)
}
