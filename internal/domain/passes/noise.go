package passes

import (
	"log/slog"
	"strings"

	"luaveil.dev/pkg/luaveil/internal/luasrc"
	"luaveil.dev/pkg/luaveil/internal/namegen"
)

// Noise sprinkles opaque block comments and blank lines over the source.
type Noise struct {
	// CommentProbability is the chance of a "--[[id]] " line prefix.
	CommentProbability float64
	// BlankProbability is the chance of one or two blank lines after a line.
	BlankProbability float64
}

func (Noise) Name() string { return "noise" }

func (n Noise) Apply(src string, pc *Context) (string, error) {
	info := luasrc.Lines(luasrc.Lex(src))
	lines := strings.Split(src, "\n")

	var (
		b                strings.Builder
		comments, blanks int
	)

	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}

		if namegen.Coin(pc.Rand, n.CommentProbability) && !info[i].StartsInSpan && !isShebang(i, line) {
			b.WriteString("--[[" + namegen.ID(pc.Rand, namegen.IDLength) + "]] ")
			comments++
		}

		b.WriteString(line)

		if namegen.Coin(pc.Rand, n.BlankProbability) && !info[i].EndsInSpan {
			extra := namegen.Intn(pc.Rand, 1, 2)
			b.WriteString(strings.Repeat("\n", extra))
			blanks += extra
		}
	}

	slog.Debug("Injected noise", "comments", comments, "blank_lines", blanks)

	return b.String(), nil
}

func isShebang(i int, line string) bool {
	return i == 0 && strings.HasPrefix(line, "#")
}

// inShebang reports whether t sits on a leading "#" line that the
// interpreter skips.
func inShebang(src string, t luasrc.Token) bool {
	return t.Line == 0 && strings.HasPrefix(src, "#")
}
