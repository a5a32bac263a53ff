// Package testdata embeds a small excerpt of the Cleveland heart disease
// dataset used as the reference fixture across engine tests.
package testdata

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"path/filepath"
	"testing"
)

//go:embed reference.csv
var referenceCSV []byte

// Canonical is the regression fixture patient.
var Canonical = []float64{63, 1, 1, 145, 233, 1, 2, 150, 0, 2.3}

// Fixture facts about reference.csv.
const (
	Rows        = 61
	MajorityRow = 31 // label 0
	AgeMin      = 29.0
	AgeMax      = 77.0
)

// Reference returns a reader over the embedded reference CSV.
func Reference() io.Reader {
	return bytes.NewReader(referenceCSV)
}

// ReferenceBytes returns a copy of the embedded reference CSV.
func ReferenceBytes() []byte {
	out := make([]byte, len(referenceCSV))
	copy(out, referenceCSV)
	return out
}

// WriteReference writes the embedded CSV into a temp dir and returns its path.
func WriteReference(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reference.csv")
	if err := os.WriteFile(path, referenceCSV, 0o644); err != nil {
		t.Fatalf("write reference fixture: %v", err)
	}
	return path
}
