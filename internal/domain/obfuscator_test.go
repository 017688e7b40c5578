package domain

import (
	"context"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luaveil.dev/pkg/luaveil/internal/adapter"
	"luaveil.dev/pkg/luaveil/internal/luasrc"
	m "luaveil.dev/pkg/luaveil/internal/model"
)

const sampleProgram = `local greeting = "Hello"
local target = 'world'
local function greet(name, punctuation)
  local message = greeting .. ", " .. name .. punctuation
  return message
end

local counts = { apples = 3, pears = 5 }
local total = 0
for fruit, count in pairs(counts) do
  total = total + count
end

local items = {
  "alpha",
  "beta",
  "gamma",
}

local joined = table.concat(items, "-")
local obj = { label = "box" }
function obj:describe(suffix)
  return self.label .. suffix
end

local i = 0
while i < 3 do
  i = i + 1
end

local long = [[
keep "this" as is
]]

print(greet(target, "!"))
print(#long, joined)
return total, greet("Lua", "?"), obj:describe("!"), i, string.upper('done')`

func run(t *testing.T, src string) m.Execution {
	t.Helper()

	exec, err := adapter.NewLocalLuaRunnerAdapter(0).Run(context.Background(), "test", src)
	require.NoError(t, err, "source:\n%s", src)

	return exec
}

func tokensOf(src string, kind luasrc.Kind) []string {
	var out []string

	for _, t := range luasrc.Lex(src) {
		if t.Kind == kind {
			out = append(out, t.Text)
		}
	}

	return out
}

func TestObfuscate_SingleDeclarationAtMinimal(t *testing.T) {
	out, err := Obfuscate(`local x = "hi"`, m.LevelMinimal, WithSeed(1))
	require.NoError(t, err)

	assert.NotContains(t, tokensOf(out, luasrc.Name), "x")
	assert.Empty(t, tokensOf(out, luasrc.String))
	assert.NotContains(t, out, "\n")

	decl := regexp.MustCompile(`^local (_[A-Za-z0-9]{6}) = \(function\(\) .* end\)\(\)$`).FindStringSubmatch(out)
	require.NotNil(t, decl, out)

	assert.Equal(t, []string{"hi"}, run(t, out+"\nreturn "+decl[1]).Returns)
}

func TestObfuscate_StandardWithoutControlFlow(t *testing.T) {
	out, err := Obfuscate("local count = 5\nreturn count", m.LevelStandard, WithSeed(2), WithControlFlowProbability(0))
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)

	decl := regexp.MustCompile(`^local (_[A-Za-z0-9]{10}) = 5$`).FindStringSubmatch(lines[0])
	require.NotNil(t, decl, out)
	assert.Equal(t, "return "+decl[1], lines[1])
	assert.Equal(t, []string{"5"}, run(t, out).Returns)
}

func TestObfuscate_EmptyStringLiteralUntouched(t *testing.T) {
	for _, level := range m.Levels {
		t.Run(level.Name(), func(t *testing.T) {
			out, err := Obfuscate("local s = \"\"\nreturn s", level, WithSeed(3))
			require.NoError(t, err)

			assert.Contains(t, tokensOf(out, luasrc.String), `""`)
			assert.Equal(t, []string{""}, run(t, out).Returns)
		})
	}
}

var (
	noisePrefix = regexp.MustCompile(`^--\[\[[A-Z0-9]{20}\]\] `)
	junkDef     = regexp.MustCompile(`^local (__\w+) = function\(`)
	junkCall    = regexp.MustCompile(`^(__\w+)\(\d+\.\d{4}\)$`)
)

func TestObfuscate_MaximumPrependsJunkBlocks(t *testing.T) {
	out, err := Obfuscate("print(1)", m.LevelMaximum, WithSeed(4), WithControlFlowProbability(0))
	require.NoError(t, err)

	var lines []string

	for _, line := range strings.Split(out, "\n") {
		line = noisePrefix.ReplaceAllString(line, "")
		if line != "" {
			lines = append(lines, line)
		}
	}

	blocks := 0

	for i := 0; i+1 < len(lines); i++ {
		def := junkDef.FindStringSubmatch(lines[i])
		if def == nil {
			continue
		}

		call := junkCall.FindStringSubmatch(lines[i+1])
		require.NotNil(t, call, "definition %s not followed by its call", def[1])
		assert.Equal(t, def[1], call[1])

		blocks++
	}

	assert.GreaterOrEqual(t, blocks, 10)
	assert.LessOrEqual(t, blocks, 20)
	assert.Equal(t, "print(1)", lines[len(lines)-1])
	assert.Equal(t, "1\n", run(t, out).Stdout)
}

func TestObfuscate_PreservesBehavior(t *testing.T) {
	want := run(t, sampleProgram)
	require.Equal(t, []string{"8", "Hello, Lua?", "box!", "3", "DONE"}, want.Returns)

	for _, level := range m.Levels {
		for seed := int64(1); seed <= 5; seed++ {
			out, err := Obfuscate(sampleProgram, level, WithSeed(seed))
			require.NoError(t, err)

			got := run(t, out)
			assert.Equal(t, want, got, "level %d seed %d", level, seed)
		}
	}
}

func TestObfuscate_ShadowedLibraries(t *testing.T) {
	src := `local up = string.upper("quiet")
local string = "shadow"
local table = { label = "box" }
local function tag(table) return "<" .. table .. ">" end
print(string, table.label)
return up, tag("x"), "tail"`

	want := run(t, src)
	require.Equal(t, []string{"QUIET", "<x>", "tail"}, want.Returns)

	for _, level := range m.Levels {
		for seed := int64(1); seed <= 5; seed++ {
			out, err := Obfuscate(src, level, WithSeed(seed))
			require.NoError(t, err)

			assert.Equal(t, want, run(t, out), "level %d seed %d", level, seed)
		}
	}
}

func TestObfuscate_MaximumHidesLiterals(t *testing.T) {
	out, err := Obfuscate(sampleProgram, m.LevelMaximum, WithSeed(6))
	require.NoError(t, err)

	assert.Equal(t, []string{`"!"`, `"-"`, `"?"`}, sortedUnique(tokensOf(out, luasrc.String)))
	assert.Contains(t, tokensOf(out, luasrc.LongString), "[[\nkeep \"this\" as is\n]]")
	assert.NotContains(t, tokensOf(out, luasrc.Name), "greeting")
}

func sortedUnique(v []string) []string {
	seen := map[string]bool{}

	var out []string

	for _, s := range v {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	slices.Sort(out)

	return out
}

func TestObfuscate_SeededIsReproducible(t *testing.T) {
	for _, level := range m.Levels {
		a, err := Obfuscate(sampleProgram, level, WithSeed(99))
		require.NoError(t, err)

		b, err := Obfuscate(sampleProgram, level, WithSeed(99))
		require.NoError(t, err)

		c, err := Obfuscate(sampleProgram, level, WithSeed(100))
		require.NoError(t, err)

		assert.Equal(t, a, b)
		assert.NotEqual(t, a, c)
	}
}

func TestObfuscate_InvalidLevel(t *testing.T) {
	for _, level := range []m.Level{0, 4, -1} {
		_, err := Obfuscate("return 1", level)
		assert.ErrorIs(t, err, m.ErrInvalidSeverity)
	}
}

func TestObfuscate_BlankInput(t *testing.T) {
	for _, src := range []string{"", "   ", "\n\t\n"} {
		out, err := Obfuscate(src, m.LevelMaximum)
		require.NoError(t, err)
		assert.Empty(t, out)
	}
}

func TestObfuscator_Interface(t *testing.T) {
	out, err := NewObfuscator().Obfuscate("return 'ok'", m.LevelStandard, WithSeed(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, run(t, out).Returns)
}
