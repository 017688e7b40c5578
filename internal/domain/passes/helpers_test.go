package passes

import (
	mathrand "math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"luaveil.dev/pkg/luaveil/internal/luasrc"
	"luaveil.dev/pkg/luaveil/internal/namegen"
	m "luaveil.dev/pkg/luaveil/internal/model"
)

func newTestContext(seed int64) *Context {
	r := mathrand.New(mathrand.NewSource(seed))
	return NewContext(r, m.LevelStandard, namegen.RealStyle(10, false), namegen.JunkStyle(10, false))
}

// runLua executes src in a fresh state and returns its return values.
func runLua(t *testing.T, src string) []lua.LValue {
	t.Helper()

	L := lua.NewState()
	defer L.Close()

	require.NoError(t, L.DoString(src), "source:\n%s", src)

	values := make([]lua.LValue, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		values = append(values, L.Get(i))
	}

	return values
}

func luaStrings(values []lua.LValue) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}

	return out
}

func stringTokens(src string) []string {
	var out []string

	for _, t := range luasrc.Lex(src) {
		if t.Kind == luasrc.String || t.Kind == luasrc.LongString {
			out = append(out, t.Text)
		}
	}

	return out
}

func nameTokens(src string) map[string]bool {
	out := make(map[string]bool)

	for _, t := range luasrc.Lex(src) {
		if t.Kind == luasrc.Name {
			out[t.Text] = true
		}
	}

	return out
}
