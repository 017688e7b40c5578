package passes

import (
	"fmt"
	"log/slog"
	"strings"

	"luaveil.dev/pkg/luaveil/internal/luasrc"
	"luaveil.dev/pkg/luaveil/internal/namegen"
)

// TamperMessage is raised by the tamper check of maximum-level blocks.
const TamperMessage = "Tampering detected"

// ControlFlow inserts inert branching blocks between statements.
type ControlFlow struct {
	// Probability is the chance of a block after each line.
	Probability float64
	// Tamper adds a self-comparison guard that raises TamperMessage.
	Tamper bool
}

func (ControlFlow) Name() string { return "control-flow" }

func (cf ControlFlow) Apply(src string, pc *Context) (string, error) {
	info := luasrc.Lines(luasrc.Lex(src))
	lines := strings.Split(src, "\n")

	var (
		b        strings.Builder
		injected int
	)

	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}

		b.WriteString(line)

		if !namegen.Coin(pc.Rand, cf.Probability) || !info[i].Boundary {
			continue
		}

		block, err := cf.block(pc)
		if err != nil {
			return "", err
		}

		b.WriteByte('\n')
		b.WriteString(block)

		injected++
	}

	slog.Debug("Injected control flow", "blocks", injected, "lines", len(lines))

	return b.String(), nil
}

// block renders one self-contained "do ... end" statement. Its locals never
// leak into the enclosing scope.
func (cf ControlFlow) block(pc *Context) (string, error) {
	pred, err := NewPredicate(pc.Rand)
	if err != nil {
		return "", err
	}

	flag, idx, left, right := pc.Junk.Name(), pc.Junk.Name(), pc.Junk.Name(), pc.Junk.Name()

	var b strings.Builder

	fmt.Fprintf(&b, "do local %s = true for %s = 1, %d do ", flag, idx, namegen.Intn(pc.Rand, 1, 3))
	fmt.Fprintf(&b, "local %s, %s = %s, %s ", left, right, pred.Left, pred.Right)
	fmt.Fprintf(&b, "if %s %s %s then %s = %s or false else %s = not %s end end", left, pred.Op, right, flag, flag, flag, flag)

	if cf.Tamper {
		fmt.Fprintf(&b, " if %s ~= %s then error(%q) end", flag, flag, TamperMessage)
	}

	b.WriteString(" end")

	return b.String(), nil
}
