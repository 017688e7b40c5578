// Package passes holds the independent source-to-source rewrites that make
// up the obfuscation pipeline. Every pass takes Lua text and returns new Lua
// text; none of them parses the program.
package passes

import (
	mathrand "math/rand"

	"luaveil.dev/pkg/luaveil/internal/namegen"
	m "luaveil.dev/pkg/luaveil/internal/model"
)

// Pass is one rewrite step of the pipeline.
type Pass interface {
	Name() string
	Apply(src string, pc *Context) (string, error)
}

// Context is the per-call state shared by the passes of one run.
type Context struct {
	Rand  *mathrand.Rand
	Level m.Level
	// Names generates replacements for program identifiers.
	Names *namegen.Generator
	// Junk generates names for synthesized code.
	Junk        *namegen.Generator
	Identifiers *IdentifierMap
}

// NewContext creates a Context whose generators draw from r.
func NewContext(r *mathrand.Rand, level m.Level, names, junk namegen.Style) *Context {
	return &Context{
		Rand:        r,
		Level:       level,
		Names:       namegen.New(r, names),
		Junk:        namegen.New(r, junk),
		Identifiers: NewIdentifierMap(),
	}
}

// IdentifierMap maps original identifiers to their replacements and keeps
// insertion order.
type IdentifierMap struct {
	order []string
	repl  map[string]string
}

// NewIdentifierMap returns an empty map.
func NewIdentifierMap() *IdentifierMap {
	return &IdentifierMap{repl: make(map[string]string)}
}

// Add records name -> replacement unless name is already mapped. It reports
// whether the entry was added.
func (im *IdentifierMap) Add(name, replacement string) bool {
	if _, ok := im.repl[name]; ok {
		return false
	}

	im.order = append(im.order, name)
	im.repl[name] = replacement

	return true
}

// Lookup returns the replacement for name.
func (im *IdentifierMap) Lookup(name string) (string, bool) {
	r, ok := im.repl[name]
	return r, ok
}

// Names returns mapped identifiers in first-seen order.
func (im *IdentifierMap) Names() []string {
	return append([]string(nil), im.order...)
}

// Len returns the number of entries.
func (im *IdentifierMap) Len() int {
	return len(im.order)
}
