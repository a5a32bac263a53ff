package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelsReturnsCopy(t *testing.T) {
	l := Labels()
	l[0] = 99

	assert.Equal(t, []int{0, 1, 2, 3, 4}, Labels())
	assert.True(t, ValidLabel(0))
	assert.True(t, ValidLabel(4))
	assert.False(t, ValidLabel(99))
	assert.False(t, ValidLabel(-1))
	assert.False(t, ValidLabel(5))
}

func TestFeatureNamesReturnsCopy(t *testing.T) {
	names := FeatureNames()
	names[0] = "renamed"

	assert.Equal(t, Age, FeatureNames()[0])
	assert.Equal(t, 0, FeatureIndex(Age))
	assert.Equal(t, -1, FeatureIndex("renamed"))
}
