package domain

import (
	"fmt"

	"luaveil.dev/pkg/luaveil/internal/domain/passes"
	"luaveil.dev/pkg/luaveil/internal/namegen"
	m "luaveil.dev/pkg/luaveil/internal/model"
)

// Default injection probabilities of the control-flow pass.
const (
	StandardControlFlowProbability = 0.2
	MaximumControlFlowProbability  = 0.65
)

// Plan is the parameterized pass sequence for one severity level.
type Plan struct {
	Level  m.Level
	Names  namegen.Style
	Junk   namegen.Style
	Passes []passes.Pass
}

// PassNames returns the names of the plan's passes in order.
func (p Plan) PassNames() []string {
	names := make([]string, len(p.Passes))
	for i, ps := range p.Passes {
		names[i] = ps.Name()
	}

	return names
}

// Select builds the plan for level. A negative probability keeps the
// level's default control-flow probability.
func Select(level m.Level, controlFlowProbability float64) (Plan, error) {
	if !level.Valid() {
		return Plan{}, fmt.Errorf("%w: %d", m.ErrInvalidSeverity, int(level))
	}

	cf := func(def float64) float64 {
		if controlFlowProbability >= 0 {
			return controlFlowProbability
		}

		return def
	}

	switch level {
	case m.LevelMinimal:
		return Plan{
			Level: level,
			Names: namegen.RealStyle(6, false),
			Junk:  namegen.JunkStyle(6, false),
			Passes: []passes.Pass{
				passes.Renamer{},
				passes.StringEncryptor{Scheme: passes.SchemeFixed},
			},
		}, nil
	case m.LevelStandard:
		return Plan{
			Level: level,
			Names: namegen.RealStyle(10, false),
			Junk:  namegen.JunkStyle(10, false),
			Passes: []passes.Pass{
				passes.Renamer{},
				passes.ControlFlow{Probability: cf(StandardControlFlowProbability)},
				passes.StringEncryptor{Scheme: passes.SchemeRandom},
			},
		}, nil
	default:
		return Plan{
			Level: level,
			Names: namegen.RealStyle(30, true),
			Junk:  namegen.JunkStyle(30, true),
			Passes: []passes.Pass{
				passes.Renamer{},
				passes.ControlFlow{Probability: cf(MaximumControlFlowProbability), Tamper: true},
				passes.Junk{Min: 10, Max: 20},
				passes.StringEncryptor{Scheme: passes.SchemeRotating},
				passes.Noise{CommentProbability: 0.4, BlankProbability: 0.3},
			},
		}, nil
	}
}
