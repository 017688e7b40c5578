// Package luasrc is a light lexical scanner over Lua source. It does not
// parse: it only splits text into tokens precise enough to tell code from
// strings and comments, and to find statement boundaries between lines.
package luasrc

import "strings"

// Kind classifies a token.
type Kind int

const (
	Space Kind = iota
	Name
	Number
	String
	LongString
	Comment
	LongComment
	Symbol
)

func (k Kind) String() string {
	switch k {
	case Space:
		return "space"
	case Name:
		return "name"
	case Number:
		return "number"
	case String:
		return "string"
	case LongString:
		return "long-string"
	case Comment:
		return "comment"
	case LongComment:
		return "long-comment"
	case Symbol:
		return "symbol"
	default:
		return "unknown"
	}
}

// Token is a slice of the source. Concatenating the Text of every token
// returned by Lex yields the input unchanged.
type Token struct {
	Kind   Kind
	Text   string
	Offset int
	// Line is the zero-based line the token starts on.
	Line int
	// Open marks a string or long span that reached end of line or input
	// without its closing delimiter.
	Open bool
}

// Significant reports whether the token takes part in the grammar.
func (t Token) Significant() bool {
	return t.Kind != Space && t.Kind != Comment && t.Kind != LongComment
}

// Is reports whether the token is the symbol or keyword s.
func (t Token) Is(s string) bool {
	return (t.Kind == Symbol || t.Kind == Name) && t.Text == s
}

// Spans reports whether the token's text covers a line break.
func (t Token) Spans() bool {
	return strings.Contains(t.Text, "\n")
}

var symbols3 = []string{"..."}

var symbols2 = []string{"..", "==", "~=", "<=", ">=", "::", "//", "<<", ">>"}

// Lex splits src into tokens.
func Lex(src string) []Token {
	var (
		tokens []Token
		line   int
	)

	emit := func(kind Kind, start, end int, open bool) {
		text := src[start:end]
		tokens = append(tokens, Token{Kind: kind, Text: text, Offset: start, Line: line, Open: open})
		line += strings.Count(text, "\n")
	}

	for i := 0; i < len(src); {
		c := src[i]

		switch {
		case isSpace(c):
			j := i
			for j < len(src) && isSpace(src[j]) {
				j++
			}

			emit(Space, i, j, false)
			i = j

		case strings.HasPrefix(src[i:], "--"):
			if level, ok := longOpen(src, i+2); ok {
				end, open := longClose(src, i+2, level)
				emit(LongComment, i, end, open)
				i = end

				continue
			}

			j := i
			for j < len(src) && src[j] != '\n' {
				j++
			}

			emit(Comment, i, j, false)
			i = j

		case c == '[':
			if level, ok := longOpen(src, i); ok {
				end, open := longClose(src, i, level)
				emit(LongString, i, end, open)
				i = end

				continue
			}

			emit(Symbol, i, i+1, false)
			i++

		case c == '"' || c == '\'':
			end, open := quotedEnd(src, i)
			emit(String, i, end, open)
			i = end

		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			end := numberEnd(src, i)
			emit(Number, i, end, false)
			i = end

		case isNameStart(c):
			j := i + 1
			for j < len(src) && isNameChar(src[j]) {
				j++
			}

			emit(Name, i, j, false)
			i = j

		default:
			n := symbolLen(src[i:])
			emit(Symbol, i, i+n, false)
			i += n
		}
	}

	return tokens
}

// Join concatenates token texts.
func Join(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}

	return b.String()
}

// longOpen reports whether a long bracket "[", "="*, "[" starts at i and
// returns its level.
func longOpen(src string, i int) (int, bool) {
	if i >= len(src) || src[i] != '[' {
		return 0, false
	}

	j := i + 1
	for j < len(src) && src[j] == '=' {
		j++
	}

	if j < len(src) && src[j] == '[' {
		return j - i - 1, true
	}

	return 0, false
}

// longClose returns the offset just past the closing bracket of the long
// span opened at i.
func longClose(src string, i, level int) (int, bool) {
	closer := "]" + strings.Repeat("=", level) + "]"
	body := i + level + 2

	idx := strings.Index(src[body:], closer)
	if idx < 0 {
		return len(src), true
	}

	return body + idx + len(closer), false
}

// quotedEnd returns the offset just past the closing quote of the string
// opened at i. Backslash escapes are honored, including an escaped newline.
func quotedEnd(src string, i int) (int, bool) {
	quote := src[i]

	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j + 1, false
		case '\n':
			return j, true
		}
	}

	return len(src), true
}

func numberEnd(src string, i int) int {
	hex := strings.HasPrefix(src[i:], "0x") || strings.HasPrefix(src[i:], "0X")

	j := i
	for j < len(src) {
		c := src[j]

		switch {
		case isNameChar(c) || c == '.':
			j++
		case (c == '+' || c == '-') && j > i && isExponent(src[j-1], hex):
			j++
		default:
			return j
		}
	}

	return j
}

func isExponent(c byte, hex bool) bool {
	if hex {
		return c == 'p' || c == 'P'
	}

	return c == 'e' || c == 'E'
}

func symbolLen(s string) int {
	for _, sym := range symbols3 {
		if strings.HasPrefix(s, sym) {
			return len(sym)
		}
	}

	for _, sym := range symbols2 {
		if strings.HasPrefix(s, sym) {
			return len(sym)
		}
	}

	return 1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || isDigit(c)
}

// IsNameStart reports whether c can start a Lua identifier.
func IsNameStart(c byte) bool {
	return isNameStart(c)
}
