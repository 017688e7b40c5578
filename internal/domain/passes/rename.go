package passes

import (
	"log/slog"

	"luaveil.dev/pkg/luaveil/internal/luasrc"
)

// Renamer replaces locally declared identifiers with generated names.
type Renamer struct{}

func (Renamer) Name() string { return "rename" }

func (Renamer) Apply(src string, pc *Context) (string, error) {
	tokens := luasrc.Lex(src)

	for _, name := range Declarations(tokens) {
		if _, ok := pc.Identifiers.Lookup(name); ok {
			continue
		}

		pc.Identifiers.Add(name, pc.Names.Name())
	}

	if pc.Identifiers.Len() == 0 {
		return src, nil
	}

	var nest luasrc.Nesting

	renamed := 0

	for i := range tokens {
		t := tokens[i]
		if !t.Significant() || inShebang(src, t) {
			continue
		}

		if t.Kind == luasrc.Name {
			if repl, ok := pc.Identifiers.Lookup(t.Text); ok && !isMember(tokens, i) && !isTableKey(tokens, i, &nest) {
				tokens[i].Text = repl
				renamed++
			}
		}

		nest.Step(t)
	}

	slog.Debug("Renamed identifiers", "declared", pc.Identifiers.Len(), "occurrences", renamed)

	return luasrc.Join(tokens), nil
}

// Declarations returns the names introduced by "local" statements in
// first-seen order. Keywords and standard globals are left out.
func Declarations(tokens []luasrc.Token) []string {
	var (
		names []string
		seen  = make(map[string]struct{})
	)

	add := func(name string) {
		if isReserved(name) {
			return
		}

		if _, ok := seen[name]; ok {
			return
		}

		seen[name] = struct{}{}
		names = append(names, name)
	}

	for i, t := range tokens {
		if t.Kind != luasrc.Name || t.Text != "local" {
			continue
		}

		j := luasrc.Next(tokens, i)
		if j < 0 {
			break
		}

		if tokens[j].Is("function") {
			if k := luasrc.Next(tokens, j); k >= 0 && tokens[k].Kind == luasrc.Name {
				add(tokens[k].Text)
			}

			continue
		}

		for j >= 0 && tokens[j].Kind == luasrc.Name && !luasrc.IsKeyword(tokens[j].Text) {
			add(tokens[j].Text)

			j = luasrc.Next(tokens, j)
			j = skipAttribute(tokens, j)

			if j < 0 || !tokens[j].Is(",") {
				break
			}

			j = luasrc.Next(tokens, j)
		}
	}

	return names
}

// skipAttribute steps over a Lua 5.4 "<const>" or "<close>" attribute.
func skipAttribute(tokens []luasrc.Token, j int) int {
	if j < 0 || !tokens[j].Is("<") {
		return j
	}

	name := luasrc.Next(tokens, j)
	if name < 0 || tokens[name].Kind != luasrc.Name {
		return j
	}

	closing := luasrc.Next(tokens, name)
	if closing < 0 || !tokens[closing].Is(">") {
		return j
	}

	return luasrc.Next(tokens, closing)
}

// isMember reports whether the name at i follows "." or ":".
func isMember(tokens []luasrc.Token, i int) bool {
	p := luasrc.Prev(tokens, i)
	return p >= 0 && (tokens[p].Is(".") || tokens[p].Is(":"))
}

// isTableKey reports whether the name at i is a key in "{ name = value }".
func isTableKey(tokens []luasrc.Token, i int, nest *luasrc.Nesting) bool {
	if !nest.InTable() {
		return false
	}

	p := luasrc.Prev(tokens, i)
	if p < 0 || !(tokens[p].Is("{") || tokens[p].Is(",") || tokens[p].Is(";")) {
		return false
	}

	n := luasrc.Next(tokens, i)

	return n >= 0 && tokens[n].Is("=")
}
