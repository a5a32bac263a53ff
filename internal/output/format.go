package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hejijunhao/heartcheck/internal/model"
)

// Verbosity controls which prediction fields are emitted.
type Verbosity int

const (
	Minimal Verbosity = iota // row, label, severity
	Full                     // everything
)

// ParseVerbosity maps a config string to a Verbosity.
func ParseVerbosity(s string) (Verbosity, error) {
	switch strings.ToLower(s) {
	case "minimal":
		return Minimal, nil
	case "full", "":
		return Full, nil
	}
	return Full, fmt.Errorf("output: unknown verbosity %q", s)
}

// FormatPrediction returns a copy of p with fields stripped according to verbosity.
// At Minimal: Description and OutOfRange are cleared (omitted from JSON via omitempty).
func FormatPrediction(p model.Prediction, v Verbosity) model.Prediction {
	if v == Minimal {
		p.Description = ""
		p.OutOfRange = nil
	}
	return p
}

// Format is an encoding for prediction streams.
type Format string

const (
	JSON Format = "json" // one object per line
	CSV  Format = "csv"  // header, then one record per line
)

// ParseFormat maps a config string to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case JSON, CSV:
		return f, nil
	case "":
		return JSON, nil
	}
	return "", fmt.Errorf("output: unknown format %q", s)
}

// CSVHeader is the column order of CSV-encoded predictions.
var CSVHeader = []string{"row", "label", "severity", "description", "out_of_range"}

// CSVRecord flattens p into CSVHeader order. Out-of-range features are
// joined with ';'.
func CSVRecord(p model.Prediction) []string {
	return []string{
		strconv.Itoa(p.Row),
		strconv.Itoa(p.Label),
		p.Severity,
		p.Description,
		strings.Join(p.OutOfRange, ";"),
	}
}

// Encoder writes predictions to w in a fixed format. Not safe for concurrent use.
type Encoder struct {
	format    Format
	verbosity Verbosity
	json      *json.Encoder
	csv       *csv.Writer
	header    bool
}

// NewEncoder creates an encoder. pretty indents JSON and is ignored for CSV.
func NewEncoder(w io.Writer, f Format, v Verbosity, pretty bool) *Encoder {
	e := &Encoder{format: f, verbosity: v}
	switch f {
	case CSV:
		e.csv = csv.NewWriter(w)
	default:
		e.format = JSON
		e.json = json.NewEncoder(w)
		if pretty {
			e.json.SetIndent("", "  ")
		}
	}
	return e
}

// Encode writes one prediction. CSV output gets its header before the first record.
func (e *Encoder) Encode(p model.Prediction) error {
	p = FormatPrediction(p, e.verbosity)
	if e.format == JSON {
		return e.json.Encode(p)
	}
	if !e.header {
		if err := e.csv.Write(CSVHeader); err != nil {
			return err
		}
		e.header = true
	}
	if err := e.csv.Write(CSVRecord(p)); err != nil {
		return err
	}
	e.csv.Flush()
	return e.csv.Error()
}
