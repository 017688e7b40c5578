package namegen

import (
	mathrand "math/rand"
	"strings"
)

const (
	alnum   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// IDLength is the length of opaque ids used in suffixes and comments.
	IDLength = 20

	maxAttempts = 64
)

// Style describes the shape of generated identifiers.
type Style struct {
	// Prefix always starts with an underscore so the name is a valid Lua
	// identifier whatever the first random character is.
	Prefix string
	Length int
	// Suffixed appends "_" + reversed second fragment + "_" + opaque id.
	Suffixed bool
}

// RealStyle returns the style for renamed program identifiers.
func RealStyle(length int, suffixed bool) Style {
	return Style{Prefix: "_", Length: length, Suffixed: suffixed}
}

// JunkStyle returns the style for synthetic identifiers. Its "__" prefix can
// never be produced by RealStyle, whose second character is alphanumeric.
func JunkStyle(length int, suffixed bool) Style {
	return Style{Prefix: "__", Length: length, Suffixed: suffixed}
}

// Generator produces identifiers that are unique for its lifetime.
type Generator struct {
	r     *mathrand.Rand
	style Style
	used  map[string]struct{}
}

// New creates a Generator drawing from r.
func New(r *mathrand.Rand, style Style) *Generator {
	if style.Length < 1 {
		style.Length = 1
	}

	if !strings.HasPrefix(style.Prefix, "_") {
		style.Prefix = "_" + style.Prefix
	}

	return &Generator{r: r, style: style, used: make(map[string]struct{})}
}

// Style returns the generator's naming style.
func (g *Generator) Style() Style {
	return g.style
}

// Name returns an identifier that this generator has not returned before.
func (g *Generator) Name() string {
	length := g.style.Length

	for attempt := 0; ; attempt++ {
		name := g.build(length)
		if _, taken := g.used[name]; !taken {
			g.used[name] = struct{}{}
			return name
		}

		if attempt >= maxAttempts {
			length++
			attempt = 0
		}
	}
}

// Used reports whether name was produced by this generator.
func (g *Generator) Used(name string) bool {
	_, ok := g.used[name]
	return ok
}

func (g *Generator) build(length int) string {
	var b strings.Builder

	b.WriteString(g.style.Prefix)
	b.WriteString(Fragment(g.r, length))

	if g.style.Suffixed {
		b.WriteByte('_')
		b.WriteString(reverse(Fragment(g.r, length)))
		b.WriteByte('_')
		b.WriteString(ID(g.r, IDLength))
	}

	return b.String()
}

// Fragment returns n random characters from [a-zA-Z0-9].
func Fragment(r *mathrand.Rand, n int) string {
	return pick(r, alnum, n)
}

// ID returns an n-character opaque id over [A-Z0-9].
func ID(r *mathrand.Rand, n int) string {
	return pick(r, idChars, n)
}

func pick(r *mathrand.Rand, charset string, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = charset[r.Intn(len(charset))]
	}

	return string(b)
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}

	return string(b)
}
