// Package dataset loads the reference clinical dataset and parses uploaded
// batch tables. The reference dataset is read-only once loaded.
package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/hejijunhao/heartcheck/internal/model"
)

// DefaultSampleRows is the size of the downloadable sample excerpt.
const DefaultSampleRows = 5

// Dataset is the labeled reference data plus its summary statistics.
type Dataset struct {
	records []model.Record
	stats   model.ReferenceStats
}

// Load reads the reference CSV at path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w: %w", model.ErrDataLoad, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a reference CSV: a header naming the ten features and the
// label column (in any order), then one labeled record per line.
func Parse(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, loadErr("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: %w: header: %w", model.ErrDataLoad, err)
	}

	// Map canonical positions onto file columns.
	colOf := make([]int, model.FeatureCount)
	for i := range colOf {
		colOf[i] = -1
	}
	labelCol := -1
	for i, name := range header {
		name = normalizeHeader(name, i)
		switch idx := model.FeatureIndex(name); {
		case name == model.LabelColumn:
			labelCol = i
		case idx >= 0 && colOf[idx] == -1:
			colOf[idx] = i
		case idx >= 0:
			return nil, loadErr("duplicate column %q", name)
		default:
			return nil, loadErr("unexpected column %q", name)
		}
	}
	for i, c := range colOf {
		if c == -1 {
			return nil, loadErr("missing column %q", model.FeatureNames()[i])
		}
	}
	if labelCol == -1 {
		return nil, loadErr("missing label column %q", model.LabelColumn)
	}

	var records []model.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: %w: %w", model.ErrDataLoad, err)
		}

		var rec model.Record
		for i, c := range colOf {
			v, err := parseFloat(row[c])
			if err != nil {
				return nil, loadErr("line %d, column %q: %v", line, header[c], err)
			}
			rec.Features[i] = v
		}
		lbl, err := parseFloat(row[labelCol])
		if err != nil {
			return nil, loadErr("line %d, label: %v", line, err)
		}
		if lbl != math.Trunc(lbl) || !model.ValidLabel(int(lbl)) {
			return nil, loadErr("line %d: label %v not in 0..4", line, lbl)
		}
		rec.Label = int(lbl)
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, loadErr("no records")
	}

	return &Dataset{records: records, stats: computeStats(records)}, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns a copy of the records.
func (d *Dataset) Records() []model.Record {
	out := make([]model.Record, len(d.records))
	copy(out, d.records)
	return out
}

// Matrix returns the feature matrix (rows x 10) and the label vector.
// Both are freshly allocated.
func (d *Dataset) Matrix() (*mat.Dense, []int) {
	X := mat.NewDense(len(d.records), model.FeatureCount, nil)
	y := make([]int, len(d.records))
	for i, rec := range d.records {
		X.SetRow(i, rec.Features[:])
		y[i] = rec.Label
	}
	return X, y
}

// Stats returns a copy of the reference statistics.
func (d *Dataset) Stats() model.ReferenceStats {
	s := model.ReferenceStats{
		Rows:        d.stats.Rows,
		Bounds:      make([]model.Bounds, len(d.stats.Bounds)),
		LabelCounts: make(map[int]int, len(d.stats.LabelCounts)),
	}
	copy(s.Bounds, d.stats.Bounds)
	for k, v := range d.stats.LabelCounts {
		s.LabelCounts[k] = v
	}
	return s
}

// Sample renders the first n records' feature columns (no label) as CSV.
func (d *Dataset) Sample(n int) ([]byte, error) {
	if n <= 0 || n > len(d.records) {
		n = len(d.records)
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(model.FeatureNames()); err != nil {
		return nil, err
	}
	for _, rec := range d.records[:n] {
		if err := w.Write(FormatVector(rec.Features)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("dataset: sample: %w", err)
	}
	return buf.Bytes(), nil
}

// LabelsPresent returns the distinct labels in ascending order.
func (d *Dataset) LabelsPresent() []int {
	labels := make([]int, 0, len(d.stats.LabelCounts))
	for l := range d.stats.LabelCounts {
		labels = append(labels, l)
	}
	sort.Ints(labels)
	return labels
}

// FormatVector renders feature values in their shortest exact form.
func FormatVector(v model.Vector) []string {
	out := make([]string, model.FeatureCount)
	for i, x := range v {
		out[i] = strconv.FormatFloat(x, 'f', -1, 64)
	}
	return out
}

func computeStats(records []model.Record) model.ReferenceStats {
	names := model.FeatureNames()
	bounds := make([]model.Bounds, model.FeatureCount)
	for i := range bounds {
		bounds[i] = model.Bounds{Feature: names[i], Min: math.Inf(1), Max: math.Inf(-1)}
	}
	counts := make(map[int]int)
	for _, rec := range records {
		for i, v := range rec.Features {
			bounds[i].Min = math.Min(bounds[i].Min, v)
			bounds[i].Max = math.Max(bounds[i].Max, v)
		}
		counts[rec.Label]++
	}
	return model.ReferenceStats{Rows: len(records), Bounds: bounds, LabelCounts: counts}
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return v, nil
}

// normalizeHeader trims whitespace and a leading UTF-8 BOM on the first cell.
func normalizeHeader(name string, col int) string {
	if col == 0 {
		name = strings.TrimPrefix(name, "\ufeff")
	}
	return strings.TrimSpace(name)
}

func loadErr(format string, args ...any) error {
	return fmt.Errorf("dataset: %w: %s", model.ErrDataLoad, fmt.Sprintf(format, args...))
}
