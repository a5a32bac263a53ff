package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/hejijunhao/heartcheck/internal/model"
)

// ParseBatch reads an uploaded CSV whose header must list the ten feature
// names in canonical order, with no label column. The result is independent
// of the reference dataset.
func ParseBatch(r io.Reader) (*model.Batch, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, model.NewInvalidInput("", "empty upload")
	}
	if err != nil {
		return nil, csvInputErr(err)
	}

	names := model.FeatureNames()
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = normalizeHeader(h, i)
	}
	if len(cols) != len(names) {
		return nil, model.NewInvalidInput("", "expected %d columns (%s), got %d",
			len(names), strings.Join(names, ","), len(cols))
	}
	for i, want := range names {
		if cols[i] != want {
			return nil, model.NewInvalidInput(want, "column %d is %q, expected %q", i+1, cols[i], want)
		}
	}

	batch := &model.Batch{Columns: cols}
	for row := 0; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvInputErr(err)
		}
		var v model.Vector
		for i, s := range fields {
			x, err := parseFloat(s)
			if err != nil {
				return nil, &model.InvalidInputError{Field: names[i], Row: row, Reason: err.Error()}
			}
			v[i] = x
		}
		batch.Rows = append(batch.Rows, v)
	}
	if len(batch.Rows) == 0 {
		return nil, model.NewInvalidInput("", "upload has a header but no rows")
	}
	return batch, nil
}

// csvInputErr converts a csv reader error into an InvalidInputError. Data
// row numbers are zero-based and exclude the header line.
func csvInputErr(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		row := pe.StartLine - 2
		if row < 0 {
			row = -1
		}
		return &model.InvalidInputError{Row: row, Reason: pe.Err.Error()}
	}
	return model.NewInvalidInput("", "%v", err)
}
