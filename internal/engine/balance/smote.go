// Package balance oversamples minority classes with synthetic samples
// interpolated between same-class nearest neighbours (SMOTE).
package balance

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/hejijunhao/heartcheck/internal/model"
)

const (
	DefaultNeighbors = 5
	DefaultSeed      = 42
)

// Config controls oversampling.
type Config struct {
	Neighbors int    // k nearest same-class neighbours (default 5)
	Seed      uint64 // PRNG seed; same input and seed give the same output
	Labels    []int  // expected labels; a missing one is an error. Nil means labels present in y.
}

// SMOTE resamples a labeled feature matrix to uniform class frequencies.
type SMOTE struct {
	cfg Config
}

// New creates a SMOTE with the given config. Zero fields take defaults.
func New(cfg Config) *SMOTE {
	if cfg.Neighbors <= 0 {
		cfg.Neighbors = DefaultNeighbors
	}
	return &SMOTE{cfg: cfg}
}

// Resample returns a new matrix and label vector in which every label
// appears as often as the majority label. Original rows come first in
// input order; synthetic rows follow grouped by ascending label. X and y are
// not modified.
func (s *SMOTE) Resample(X mat.Matrix, y []int) (*mat.Dense, []int, error) {
	rows, cols := X.Dims()
	if rows != len(y) {
		return nil, nil, model.NewInvalidInput("", "balance: %d rows but %d labels", rows, len(y))
	}

	data := make([][]float64, rows)
	for i := range data {
		data[i] = mat.Row(nil, i, X)
	}

	byLabel := make(map[int][]int)
	for i, l := range y {
		byLabel[l] = append(byLabel[l], i)
	}
	labels := s.labels(byLabel)

	target := 0
	for _, l := range labels {
		target = max(target, len(byLabel[l]))
	}

	rng := rand.New(rand.NewPCG(s.cfg.Seed, s.cfg.Seed))

	var synth [][]float64
	var synthY []int
	for _, l := range labels {
		members := byLabel[l]
		need := target - len(members)
		if need == 0 {
			continue
		}
		if len(members) < 2 {
			return nil, nil, &model.InsufficientSamplesError{Label: l, Count: len(members)}
		}

		k := min(s.cfg.Neighbors, len(members)-1)
		nbrs := nearestNeighbors(data, members, k)
		for range need {
			a := rng.IntN(len(members))
			b := nbrs[a][rng.IntN(k)]
			u := rng.Float64()

			base := data[members[a]]
			diff := make([]float64, cols)
			floats.SubTo(diff, data[b], base)
			row := make([]float64, cols)
			floats.AddScaledTo(row, base, u, diff)

			synth = append(synth, row)
			synthY = append(synthY, l)
		}
	}

	out := mat.NewDense(rows+len(synth), cols, nil)
	outY := make([]int, 0, rows+len(synth))
	for i, r := range data {
		out.SetRow(i, r)
	}
	outY = append(outY, y...)
	for i, r := range synth {
		out.SetRow(rows+i, r)
	}
	outY = append(outY, synthY...)
	return out, outY, nil
}

func (s *SMOTE) labels(byLabel map[int][]int) []int {
	if s.cfg.Labels != nil {
		out := make([]int, len(s.cfg.Labels))
		copy(out, s.cfg.Labels)
		sort.Ints(out)
		return out
	}
	out := make([]int, 0, len(byLabel))
	for l := range byLabel {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}

// nearestNeighbors returns, for each member, the dataset indices of its k
// closest other members by Euclidean distance. Ties break on index.
func nearestNeighbors(data [][]float64, members []int, k int) [][]int {
	out := make([][]int, len(members))
	type cand struct {
		idx  int
		dist float64
	}
	for i, m := range members {
		cands := make([]cand, 0, len(members)-1)
		for _, o := range members {
			if o == m {
				continue
			}
			cands = append(cands, cand{idx: o, dist: floats.Distance(data[m], data[o], 2)})
		}
		sort.Slice(cands, func(a, b int) bool {
			if cands[a].dist != cands[b].dist {
				return cands[a].dist < cands[b].dist
			}
			return cands[a].idx < cands[b].idx
		})
		nn := make([]int, k)
		for j := range nn {
			nn[j] = cands[j].idx
		}
		out[i] = nn
	}
	return out
}

// Counts tallies label frequencies.
func Counts(y []int) map[int]int {
	c := make(map[int]int)
	for _, l := range y {
		c[l]++
	}
	return c
}

// FrequencyVariance is the population variance of the label counts.
func FrequencyVariance(y []int) float64 {
	counts := Counts(y)
	if len(counts) == 0 {
		return 0
	}
	vals := make([]float64, 0, len(counts))
	for _, n := range counts {
		vals = append(vals, float64(n))
	}
	mean := floats.Sum(vals) / float64(len(vals))
	var ss float64
	for _, v := range vals {
		ss += (v - mean) * (v - mean)
	}
	return ss / float64(len(vals))
}

func (c Config) String() string {
	return fmt.Sprintf("smote(k=%d, seed=%d)", c.Neighbors, c.Seed)
}
