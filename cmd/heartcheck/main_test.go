package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hejijunhao/heartcheck/internal/engine/testdata"
	"github.com/hejijunhao/heartcheck/internal/model"
)

func TestParseValues(t *testing.T) {
	v, err := parseValues("63, 1, 1, 145, 233, 1, 2, 150, 0, 2.3")
	require.NoError(t, err)
	assert.Equal(t, model.Vector{63, 1, 1, 145, 233, 1, 2, 150, 0, 2.3}, v)

	_, err = parseValues("63,1,x,145,233,1,2,150,0,2.3")
	var ie *model.InvalidInputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "cp", ie.Field)

	_, err = parseValues("63,1,1")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestVectorFromFormFlags(t *testing.T) {
	f := predictCmd.Flags()
	for name, value := range map[string]string{
		"age": "63", "sex": "Male", "chest-pain": "typical angina", "resting-bp": "145",
		"cholesterol": "233", "fasting-blood-sugar": "True", "resting-ecg": "Left ventricular hypertrophy",
		"max-heart-rate": "150", "exercise-angina": "No", "st-depression": "2.3",
	} {
		require.NoError(t, f.Set(name, value))
	}

	v, err := vectorFromFlags(predictCmd)
	require.NoError(t, err)
	assert.Equal(t, model.Vector{63, 1, 1, 145, 233, 1, 2, 150, 0, 2.3}, v)
}

func TestSampleCommand(t *testing.T) {
	t.Setenv("HEARTCHECK_DATASET_PATH", testdata.WriteReference(t))
	t.Setenv("HEARTCHECK_LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"sample"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, strings.Join(model.FeatureNames(), ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "63,1,1,145,233,1,2,150,0,2.3"))
}

func TestInvalidConfigFails(t *testing.T) {
	t.Setenv("HEARTCHECK_OUTPUT", "carrier-pigeon")

	rootCmd.SetArgs([]string{"sample"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output")
}

func TestMissingEnvFileFails(t *testing.T) {
	rootCmd.SetArgs([]string{"--env-file", filepath.Join(t.TempDir(), "typo.env"), "sample"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		_ = rootCmd.PersistentFlags().Set("env-file", "")
	})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "typo.env")
}
