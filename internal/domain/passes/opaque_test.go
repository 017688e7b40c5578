package passes

import (
	mathrand "math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want bool
	}{
		{"1 + 2 < 4", true},
		{"3 * 3 >= 10", false},
		{"10 - 2 * 3 <= 4", true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Evaluate(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	_, err := Evaluate("1 +")
	assert.Error(t, err)

	_, err = Evaluate("1 + 2")
	assert.ErrorContains(t, err, "not boolean")
}

func TestNewPredicate_AlwaysTrue(t *testing.T) {
	r := mathrand.New(mathrand.NewSource(17))

	for i := 0; i < 200; i++ {
		p, err := NewPredicate(r)
		require.NoError(t, err)

		ok, err := Evaluate(p.String())
		require.NoError(t, err)
		assert.True(t, ok, p.String())
		assert.Contains(t, compare, p.Op)
	}
}

func TestNewPredicate_HoldsInLua(t *testing.T) {
	r := mathrand.New(mathrand.NewSource(5))

	for i := 0; i < 20; i++ {
		p, err := NewPredicate(r)
		require.NoError(t, err)

		assert.Equal(t, "true", luaStrings(runLua(t, "return "+p.String()))[0])
	}
}

func TestMathExpr(t *testing.T) {
	r := mathrand.New(mathrand.NewSource(1))
	assert.Regexp(t, `^\d+( [-+*] \d+){2}$`, MathExpr(r, 3))
}
