package stdout

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hejijunhao/heartcheck/internal/model"
	"github.com/hejijunhao/heartcheck/internal/output"
)

func testPrediction() model.Prediction {
	return model.Prediction{
		Label:       1,
		Severity:    "Heart Disease Level 1",
		Description: "Indicates mild heart disease.",
		OutOfRange:  []string{"oldpeak"},
	}
}

// captureStdout redirects os.Stdout to capture output.
func captureStdout(fn func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestOutputCompactJSON(t *testing.T) {
	result := captureStdout(func() {
		out := New(output.JSON, output.Full, false)
		out.Write(context.Background(), testPrediction())
	})

	lines := strings.Split(strings.TrimSpace(result), "\n")
	require.Len(t, lines, 1)

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &m))
	for _, key := range []string{"row", "label", "severity", "description", "out_of_range"} {
		assert.Contains(t, m, key)
	}
}

func TestOutputPrettyJSON(t *testing.T) {
	var buf bytes.Buffer
	out := NewWriter(&buf, output.JSON, output.Full, true)
	require.NoError(t, out.Write(context.Background(), testPrediction()))

	assert.Greater(t, strings.Count(buf.String(), "\n"), 1)
	assert.Contains(t, buf.String(), "  \"label\": 1")
}

func TestOutputMinimalOmitsFields(t *testing.T) {
	var buf bytes.Buffer
	out := NewWriter(&buf, output.JSON, output.Minimal, false)
	require.NoError(t, out.Write(context.Background(), testPrediction()))

	assert.NotContains(t, buf.String(), "description")
	assert.NotContains(t, buf.String(), "out_of_range")
	assert.NoError(t, out.Close())
}

func TestOutputCSV(t *testing.T) {
	var buf bytes.Buffer
	out := NewWriter(&buf, output.CSV, output.Full, false)
	ctx := context.Background()
	require.NoError(t, out.Write(ctx, testPrediction()))
	require.NoError(t, out.Write(ctx, testPrediction()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "row,label,severity,description,out_of_range", lines[0])
	assert.Equal(t, "0,1,Heart Disease Level 1,Indicates mild heart disease.,oldpeak", lines[1])
}
