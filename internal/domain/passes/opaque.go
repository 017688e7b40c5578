package passes

import (
	"fmt"
	mathrand "math/rand"
	"strconv"
	"strings"

	"github.com/knetic/govaluate"

	"luaveil.dev/pkg/luaveil/internal/namegen"
)

var (
	mathOps = []string{"+", "-", "*"}
	// inverse maps a comparison to its negation. Every operator here reads
	// the same in Lua and in govaluate.
	inverse = map[string]string{"<": ">=", ">": "<=", "<=": ">", ">=": "<"}
	compare = []string{"<", ">", "<=", ">="}
)

// Predicate is a comparison between two constant integer expressions whose
// outcome is known when the code is generated.
type Predicate struct {
	Left  string
	Op    string
	Right string
}

func (p Predicate) String() string {
	return p.Left + " " + p.Op + " " + p.Right
}

// NewPredicate draws a predicate that evaluates to true.
func NewPredicate(r *mathrand.Rand) (Predicate, error) {
	p := Predicate{
		Left:  MathExpr(r, namegen.Intn(r, 2, 4)),
		Op:    compare[r.Intn(len(compare))],
		Right: MathExpr(r, namegen.Intn(r, 2, 4)),
	}

	ok, err := Evaluate(p.String())
	if err != nil {
		return Predicate{}, err
	}

	if !ok {
		p.Op = inverse[p.Op]
	}

	return p, nil
}

// MathExpr returns an integer expression of the given number of terms.
func MathExpr(r *mathrand.Rand, terms int) string {
	var b strings.Builder

	for i := 0; i < terms; i++ {
		if i > 0 {
			b.WriteString(" " + mathOps[r.Intn(len(mathOps))] + " ")
		}

		b.WriteString(strconv.Itoa(namegen.Intn(r, 1, 99)))
	}

	return b.String()
}

// Evaluate computes a boolean expression.
func Evaluate(expr string) (bool, error) {
	e, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return false, fmt.Errorf("parse predicate %q: %w", expr, err)
	}

	result, err := e.Evaluate(nil)
	if err != nil {
		return false, fmt.Errorf("evaluate predicate %q: %w", expr, err)
	}

	v, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("predicate %q is not boolean", expr)
	}

	return v, nil
}
