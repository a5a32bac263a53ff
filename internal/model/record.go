package model

// Vector is one patient's features in canonical order.
type Vector [FeatureCount]float64

// Slice returns the vector as a fresh []float64.
func (v Vector) Slice() []float64 {
	out := make([]float64, FeatureCount)
	copy(out, v[:])
	return out
}

// Record is a labeled row of the reference dataset.
type Record struct {
	Features Vector
	Label    int
}

// Bounds is the observed [Min, Max] range of one feature.
type Bounds struct {
	Feature string  `json:"feature"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Contains reports whether v lies inside the closed range.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// ReferenceStats summarises the reference dataset. It is computed once and
// never updated by uploads.
type ReferenceStats struct {
	Rows        int         `json:"rows"`
	Bounds      []Bounds    `json:"bounds"`
	LabelCounts map[int]int `json:"label_counts"`
}

// OutOfRange returns the names of features in v outside the reference bounds.
func (s ReferenceStats) OutOfRange(v Vector) []string {
	var names []string
	for i, b := range s.Bounds {
		if i >= FeatureCount {
			break
		}
		if !b.Contains(v[i]) {
			names = append(names, b.Feature)
		}
	}
	return names
}

// Batch is a parsed upload. It belongs to a single request.
type Batch struct {
	Columns []string
	Rows    []Vector
}
