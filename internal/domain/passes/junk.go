package passes

import (
	"fmt"
	"strconv"
	"strings"

	"luaveil.dev/pkg/luaveil/internal/namegen"
)

// Junk prepends self-contained function definitions and their calls.
type Junk struct {
	Min int
	Max int
}

func (Junk) Name() string { return "junk" }

func (j Junk) Apply(src string, pc *Context) (string, error) {
	count := namegen.Intn(pc.Rand, j.Min, j.Max)
	if count <= 0 {
		return src, nil
	}

	blocks := make([]string, 0, count+1)

	// A shebang must stay on the first line.
	head, body := "", src
	if strings.HasPrefix(src, "#") {
		if nl := strings.IndexByte(src, '\n'); nl >= 0 {
			head, body = src[:nl], src[nl+1:]
		} else {
			head, body = src, ""
		}

		blocks = append(blocks, head)
	}

	for i := 0; i < count; i++ {
		blocks = append(blocks, JunkBlock(pc))
	}

	return strings.Join(blocks, "\n") + "\n" + body, nil
}

// JunkBlock renders a function definition followed by its invocation line.
func JunkBlock(pc *Context) string {
	fn, arg, inner, nested, param := pc.Junk.Name(), pc.Junk.Name(), pc.Junk.Name(), pc.Junk.Name(), pc.Junk.Name()
	f := func() string { return junkFloat(pc) }

	def := fmt.Sprintf(
		"local %s = function(%s) local %s = %s local %s = function(%s) return (%s + %s) * %s end return %s(%s) + %s(%s) + %s end",
		fn, arg, inner, f(), nested, param, arg, param, f(), nested, f(), nested, f(), f(),
	)

	return def + "\n" + fmt.Sprintf("%s(%s)", fn, f())
}

func junkFloat(pc *Context) string {
	return strconv.FormatFloat(pc.Rand.Float64()*1000, 'f', 4, 64)
}
