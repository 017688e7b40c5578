package luasrc

import "strings"

// LineInfo describes one physical line of source.
type LineInfo struct {
	// StartsInSpan is set when the line begins inside a multi-line string or
	// comment.
	StartsInSpan bool
	// EndsInSpan is set when the line break that ends the line belongs to a
	// multi-line string or comment.
	EndsInSpan bool
	// Boundary is set when a complete statement may be inserted right after
	// the line without changing how the surrounding code parses.
	Boundary bool
}

var continuationKeywords = map[string]bool{
	"local": true, "function": true, "and": true, "or": true, "not": true,
	"in": true, "until": true, "if": true, "elseif": true, "while": true,
	"for": true, "goto": true, "return": true,
}

var leadingKeywords = map[string]bool{
	"and": true, "or": true, "then": true, "do": true, "in": true,
}

var completeSymbols = map[string]bool{
	")": true, "]": true, "}": true, ";": true, "...": true, "::": true,
}

var terminalKeywords = map[string]bool{
	"return": true, "break": true,
}

var branchKeywords = map[string]bool{
	"else": true, "elseif": true,
}

// Lines classifies every line of the source tokens were lexed from. The
// result has one entry per line, i.e. strings.Count(src, "\n")+1.
func Lines(tokens []Token) []LineInfo {
	total := 1
	for _, t := range tokens {
		total += strings.Count(t.Text, "\n")
	}

	info := make([]LineInfo, total)

	var (
		nest          Nesting
		last          *Token
		terminal      bool
		terminalDepth int
		pending       []int
	)

	settled := func() bool {
		if !nest.AtStatementLevel() || terminal {
			return false
		}

		return last == nil || !continues(*last)
	}

	for i := range tokens {
		t := tokens[i]
		breaks := strings.Count(t.Text, "\n")

		if t.Kind != Space && breaks > 0 {
			for l := t.Line; l < t.Line+breaks; l++ {
				info[l].EndsInSpan = true
				info[l+1].StartsInSpan = true
			}
		}

		if t.Kind == Space && breaks > 0 {
			ok := settled()
			for l := t.Line; l < t.Line+breaks; l++ {
				info[l].Boundary = ok
				if ok {
					pending = append(pending, l)
				}
			}

			continue
		}

		if !t.Significant() {
			continue
		}

		if len(pending) > 0 {
			if leads(t) {
				for _, l := range pending {
					info[l].Boundary = false
				}
			}

			pending = pending[:0]
		}

		nest.Step(t)

		// A return or break ends its own block only. Nested function bodies
		// closing inside a return expression leave it in force.
		switch {
		case !terminal && t.Kind == Name && terminalKeywords[t.Text]:
			terminal = true
			terminalDepth = nest.Depth()
		case terminal && nest.Depth() < terminalDepth:
			terminal = false
		case terminal && nest.Depth() == terminalDepth && t.Kind == Name && branchKeywords[t.Text]:
			terminal = false
		}

		last = &tokens[i]
	}

	end := len(info) - 1
	info[end].Boundary = settled() && (len(tokens) == 0 || !tokens[len(tokens)-1].Open)

	return info
}

// continues reports whether a line ending with t must carry on.
func continues(t Token) bool {
	switch t.Kind {
	case Symbol:
		return !completeSymbols[t.Text]
	case Name:
		return continuationKeywords[t.Text]
	default:
		return false
	}
}

// leads reports whether a line starting with t continues the line before.
func leads(t Token) bool {
	switch t.Kind {
	case Symbol:
		return t.Text != "::" && t.Text != ";"
	case Name:
		return leadingKeywords[t.Text]
	case Number, String, LongString:
		return true
	default:
		return false
	}
}
