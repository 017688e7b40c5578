package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luaveil.dev/pkg/luaveil/internal/domain/passes"
	m "luaveil.dev/pkg/luaveil/internal/model"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		level  m.Level
		passes []string
		length int
	}{
		{m.LevelMinimal, []string{"rename", "strings"}, 6},
		{m.LevelStandard, []string{"rename", "control-flow", "strings"}, 10},
		{m.LevelMaximum, []string{"rename", "control-flow", "junk", "strings", "noise"}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.level.Name(), func(t *testing.T) {
			plan, err := Select(tt.level, -1)
			require.NoError(t, err)

			assert.Equal(t, tt.passes, plan.PassNames())
			assert.Equal(t, tt.length, plan.Names.Length)
			assert.Equal(t, "_", plan.Names.Prefix)
			assert.Equal(t, "__", plan.Junk.Prefix)
			assert.Equal(t, tt.level == m.LevelMaximum, plan.Names.Suffixed)
		})
	}
}

func TestSelect_Parameters(t *testing.T) {
	minimal, err := Select(m.LevelMinimal, -1)
	require.NoError(t, err)
	assert.Equal(t, passes.StringEncryptor{Scheme: passes.SchemeFixed}, minimal.Passes[1])

	standard, err := Select(m.LevelStandard, -1)
	require.NoError(t, err)
	assert.Equal(t, passes.ControlFlow{Probability: StandardControlFlowProbability}, standard.Passes[1])
	assert.Equal(t, passes.StringEncryptor{Scheme: passes.SchemeRandom}, standard.Passes[2])

	maximum, err := Select(m.LevelMaximum, 0.5)
	require.NoError(t, err)
	assert.Equal(t, passes.ControlFlow{Probability: 0.5, Tamper: true}, maximum.Passes[1])
	assert.Equal(t, passes.Junk{Min: 10, Max: 20}, maximum.Passes[2])
	assert.Equal(t, passes.StringEncryptor{Scheme: passes.SchemeRotating}, maximum.Passes[3])
	assert.Equal(t, passes.Noise{CommentProbability: 0.4, BlankProbability: 0.3}, maximum.Passes[4])
}

func TestSelect_InvalidLevel(t *testing.T) {
	_, err := Select(7, -1)
	assert.ErrorIs(t, err, m.ErrInvalidSeverity)
}
