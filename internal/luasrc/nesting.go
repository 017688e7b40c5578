package luasrc

const (
	paren   = '('
	bracket = '['
	brace   = '{'
	block   = 'b'
)

var closers = map[string]byte{")": paren, "]": bracket, "}": brace}

// Nesting tracks open brackets and blocks while walking significant tokens.
type Nesting struct {
	stack []byte
}

// Step feeds the next significant token.
func (n *Nesting) Step(t Token) {
	switch t.Kind {
	case Symbol:
		switch t.Text {
		case "(", "[", "{":
			n.stack = append(n.stack, t.Text[0])
		case ")", "]", "}":
			n.pop(closers[t.Text])
		}
	case Name:
		switch t.Text {
		case "function", "do", "if", "repeat":
			n.stack = append(n.stack, block)
		case "end", "until":
			n.pop(block)
		}
	}
}

// InTable reports whether the innermost open construct is a table
// constructor.
func (n *Nesting) InTable() bool {
	return len(n.stack) > 0 && n.stack[len(n.stack)-1] == brace
}

// AtStatementLevel reports whether a new statement may start here, that is
// no bracket is open inside the current block.
func (n *Nesting) AtStatementLevel() bool {
	return len(n.stack) == 0 || n.stack[len(n.stack)-1] == block
}

// Depth returns the number of open constructs.
func (n *Nesting) Depth() int {
	return len(n.stack)
}

func (n *Nesting) pop(kind byte) {
	for i := len(n.stack) - 1; i >= 0; i-- {
		if n.stack[i] == kind {
			n.stack = n.stack[:i]
			return
		}
	}
}
