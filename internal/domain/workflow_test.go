package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressPercent(t *testing.T) {
	assert.Equal(t, 0, ProgressPercent(0, 4))
	assert.Equal(t, 25, ProgressPercent(1, 4))
	assert.Equal(t, 50, ProgressPercent(2, 4))
	assert.Equal(t, 100, ProgressPercent(4, 4))
	// Truncates, never rounds up.
	assert.Equal(t, 33, ProgressPercent(1, 3))
	assert.Equal(t, 66, ProgressPercent(2, 3))
	assert.Equal(t, 0, ProgressPercent(1, 0))
}

func TestParseStepType(t *testing.T) {
	for _, valid := range []string{"DISPLAY", "SYNTHESIS", "GENERATION", "INTEGRATION", "ACTION"} {
		got, err := ParseStepType(valid)
		require.NoError(t, err)
		assert.Equal(t, StepType(valid), got)
	}

	_, err := ParseStepType("display")
	assert.Error(t, err)
	_, err = ParseStepType("")
	assert.Error(t, err)
}
