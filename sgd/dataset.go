package sgd

import (
	"math/rand/v2"
	"runtime"
	"sync"
)

// Example is one (x, y) training pair. Y is conventionally -1 or +1.
type Example struct {
	X Vector
	Y float64
}

// Dataset is an ordered, materialized collection of examples with a
// fixed feature dimension, grounded on the original implementation's
// dataset class: it supports iteration in original order, iteration by a
// caller-supplied permutation, contiguous range slicing, and per-feature
// non-zero counts used by the sparse regularizer.
type Dataset struct {
	examples []Example
	dim      int
	counts   []int
}

// NewDataset materializes examples into a Dataset, computing the feature
// dimension and per-feature counts. The examples are copied serially.
// When parallel is true and the input holds at least 2*runtime.NumCPU()
// examples, the count pass runs concurrently across runtime.NumCPU()
// chunks, mirroring the original's do_parallel_materialize.
func NewDataset(examples []Example, dim int, parallel bool) *Dataset {
	ds := &Dataset{
		examples: make([]Example, len(examples)),
		dim:      dim,
		counts:   make([]int, dim),
	}
	copy(ds.examples, examples)
	ds.computeCounts(parallel)
	return ds
}

func (ds *Dataset) computeCounts(parallel bool) {
	n := len(ds.examples)
	if !parallel || n < 2*runtime.NumCPU() {
		for _, ex := range ds.examples {
			ex.X.Each(func(idx int, _ float64) { ds.counts[idx]++ })
		}
		return
	}

	workers := runtime.NumCPU()
	chunk := (n + workers - 1) / workers
	partials := make([][]int, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= n {
			break
		}
		if end > n {
			end = n
		}
		partials[w] = make([]int, ds.dim)
		wg.Add(1)
		go func(start, end int, local []int) {
			defer wg.Done()
			for _, ex := range ds.examples[start:end] {
				ex.X.Each(func(idx int, _ float64) { local[idx]++ })
			}
		}(start, end, partials[w])
	}
	wg.Wait()
	for _, local := range partials {
		for i, c := range local {
			ds.counts[i] += c
		}
	}
}

// N returns the number of examples.
func (ds *Dataset) N() int { return len(ds.examples) }

// D returns the feature dimension: one past the largest addressable
// feature index.
func (ds *Dataset) D() int { return ds.dim }

// FeatureCounts returns, for feature k, the number of examples in which
// k occurs as a non-zero entry. The returned slice must not be mutated.
func (ds *Dataset) FeatureCounts() []int { return ds.counts }

// At returns the example at original (unpermuted) position i.
func (ds *Dataset) At(i int) Example { return ds.examples[i] }

// Range returns a view restricted to the contiguous original-order slice
// [start, end).
func (ds *Dataset) Range(start, end int) []Example {
	return ds.examples[start:end]
}

// Permutation draws a uniform random permutation of {0, ..., N()-1} using
// a Fisher-Yates shuffle. One permutation is drawn per round by the
// trainer; it is never shared or mutated by the workers that use it to
// select their shard.
func (ds *Dataset) Permutation(rng *rand.Rand) []int {
	p := make([]int, ds.N())
	for i := range p {
		p[i] = i
	}
	for i := len(p) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	return p
}

// Shard splits a permutation into nshards contiguous pieces of as-equal
// size as possible, with the final shard absorbing any remainder. It
// panics if nshards <= 0.
func Shard(perm []int, nshards int) [][]int {
	if nshards <= 0 {
		panic("sgd: nshards must be positive")
	}
	n := len(perm)
	base := n / nshards
	shards := make([][]int, nshards)
	start := 0
	for i := 0; i < nshards; i++ {
		end := start + base
		if i == nshards-1 {
			end = n
		}
		shards[i] = perm[start:end]
		start = end
	}
	return shards
}
