package luasrc

var keywords = map[string]bool{
	"and": true, "break": true, "do": true, "else": true, "elseif": true,
	"end": true, "false": true, "for": true, "function": true, "goto": true,
	"if": true, "in": true, "local": true, "nil": true, "not": true,
	"or": true, "repeat": true, "return": true, "then": true, "true": true,
	"until": true, "while": true,
}

// IsKeyword reports whether s is a reserved word in any Lua 5.x dialect.
func IsKeyword(s string) bool {
	return keywords[s]
}

// Prev returns the index of the significant token before i, or -1.
func Prev(tokens []Token, i int) int {
	for j := i - 1; j >= 0; j-- {
		if tokens[j].Significant() {
			return j
		}
	}

	return -1
}

// Next returns the index of the significant token after i, or -1.
func Next(tokens []Token, i int) int {
	for j := i + 1; j < len(tokens); j++ {
		if tokens[j].Significant() {
			return j
		}
	}

	return -1
}
