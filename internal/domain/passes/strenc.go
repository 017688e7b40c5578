package passes

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"luaveil.dev/pkg/luaveil/internal/luasrc"
	"luaveil.dev/pkg/luaveil/internal/namegen"
)

// Scheme selects how literal bytes are encoded.
type Scheme int

const (
	// SchemeFixed XORs every byte with namegen.FixedKey.
	SchemeFixed Scheme = iota + 1
	// SchemeRandom XORs every byte with one random key per literal.
	SchemeRandom
	// SchemeRotating adds a position rotation, XORs with a key schedule and
	// stores the result reversed.
	SchemeRotating
)

func (s Scheme) String() string {
	switch s {
	case SchemeFixed:
		return "fixed-key"
	case SchemeRandom:
		return "random-key"
	case SchemeRotating:
		return "key-schedule"
	default:
		return "unknown"
	}
}

// xorFunc is a bitwise XOR on non-negative integers written with arithmetic
// only, so the decoders run on interpreters without bit operators.
const xorFunc = "function(a,b) local r,p=0,1 repeat local s,q=a%2,b%2 if s~=q then r=r+p end a,b=(a-s)/2,(b-q)/2 p=p*2 until a<1 and b<1 return r end"

// StringEncryptor replaces quoted literals with inline decoders.
type StringEncryptor struct {
	Scheme Scheme
}

func (StringEncryptor) Name() string { return "strings" }

// encodedString is the transient description of one literal.
type encodedString struct {
	data    []byte
	keys    []int
	encoded []int
}

func (se StringEncryptor) Apply(src string, pc *Context) (string, error) {
	tokens := luasrc.Lex(src)
	encrypted := 0

	lib := libraryRefs{char: "string.char", concat: "table.concat"}

	captured := rebindsLibraries(tokens)
	if captured {
		lib = libraryRefs{char: pc.Junk.Name(), concat: pc.Junk.Name()}
	}

	for i, t := range tokens {
		if inShebang(src, t) {
			continue
		}

		content, ok := Encryptable(t)
		if !ok {
			continue
		}

		es := se.encode([]byte(content), pc)

		decoder, err := se.decoder(es, pc, lib)
		if err != nil {
			return "", err
		}

		if isCallArgument(tokens, i) {
			decoder = "(" + decoder + ")"
		}

		tokens[i].Text = decoder
		encrypted++
	}

	slog.Debug("Encrypted string literals", "count", encrypted, "scheme", se.Scheme.String(), "captured", captured)

	out := luasrc.Join(tokens)
	if !captured || encrypted == 0 {
		return out, nil
	}

	// The trailing semicolon keeps a first line opening with "(" from
	// being read as a call on table.concat.
	header := fmt.Sprintf("local %s,%s=string.char,table.concat;", lib.char, lib.concat)

	return prependLine(out, header), nil
}

// libraryRefs are the expressions decoders call to build their result.
type libraryRefs struct {
	char, concat string
}

// rebindsLibraries reports whether the chunk may rebind string or table.
// Any bare use that is not an index into the library counts, so the
// decoders then read both functions once at the top of the chunk.
func rebindsLibraries(tokens []luasrc.Token) bool {
	for i, t := range tokens {
		if t.Kind != luasrc.Name || (t.Text != "string" && t.Text != "table") || isMember(tokens, i) {
			continue
		}

		n := luasrc.Next(tokens, i)
		if n < 0 || !(tokens[n].Is(".") || tokens[n].Is(":") || tokens[n].Is("[")) {
			return true
		}
	}

	return false
}

// prependLine inserts line before src, after a shebang if there is one.
func prependLine(src, line string) string {
	if !strings.HasPrefix(src, "#") {
		return line + "\n" + src
	}

	nl := strings.IndexByte(src, '\n')
	if nl < 0 {
		return src + "\n" + line
	}

	return src[:nl+1] + line + "\n" + src[nl+1:]
}

// Encryptable returns the content of a quoted literal that can be encoded.
// Literals of at most one byte, literals with escapes and unterminated
// literals are left alone.
func Encryptable(t luasrc.Token) (string, bool) {
	if t.Kind != luasrc.String || t.Open || len(t.Text) < 2 {
		return "", false
	}

	content := t.Text[1 : len(t.Text)-1]
	if len(content) <= 1 || strings.ContainsAny(content, "\\\n") {
		return "", false
	}

	return content, true
}

func (se StringEncryptor) encode(data []byte, pc *Context) encodedString {
	es := encodedString{data: data}

	switch se.Scheme {
	case SchemeRotating:
		es.keys = namegen.NewSchedule(pc.Rand, len(data))
		es.encoded = namegen.Reverse(namegen.EncodeRotating(data, es.keys))
	case SchemeRandom:
		es.keys = []int{namegen.RandomKey(pc.Rand)}
		es.encoded = namegen.XOR(data, es.keys[0])
	default:
		es.keys = []int{namegen.FixedKey}
		es.encoded = namegen.XOR(data, namegen.FixedKey)
	}

	return es
}

func (se StringEncryptor) decoder(es encodedString, pc *Context, lib libraryRefs) (string, error) {
	n := decoderNames{
		key: pc.Junk.Name(), enc: pc.Junk.Name(), xor: pc.Junk.Name(),
		out: pc.Junk.Name(), idx: pc.Junk.Name(), dec: pc.Junk.Name(),
	}

	switch se.Scheme {
	case SchemeFixed, SchemeRandom:
		return fmt.Sprintf(
			"(function() local %s,%s,%s=%d,{%s},%s local %s={} for %s=1,#%s do %s[%s]=%s(%s(%s[%s],%s)) end return %s(%s) end)()",
			n.key, n.enc, n.xor, es.keys[0], joinInts(es.encoded), xorFunc,
			n.out, n.idx, n.enc, n.out, n.idx, lib.char, n.xor, n.enc, n.idx, n.key, lib.concat, n.out,
		), nil
	case SchemeRotating:
		return fmt.Sprintf(
			"(function() local %s,%s={%s},{%s} local %s=%s local %s=function(v,p) return (%s(v,%s[(p-1)%%#%s+1])-((p-1)%%7+1))%%256 end local %s={} for %s=#%s,1,-1 do %s[#%s+1]=%s(%s(%s[%s],#%s-%s+1)) end return %s(%s) end)()",
			n.key, n.enc, joinInts(es.keys), joinInts(es.encoded), n.xor, xorFunc,
			n.dec, n.xor, n.key, n.key,
			n.out, n.idx, n.enc, n.out, n.out, lib.char, n.dec, n.enc, n.idx, n.enc, n.idx, lib.concat, n.out,
		), nil
	default:
		return "", fmt.Errorf("unknown string scheme %d", se.Scheme)
	}
}

type decoderNames struct {
	key, enc, xor, out, idx, dec string
}

// isCallArgument reports whether the literal at i is the argument of a call
// written without parentheses, as in f"x" or obj:m'x'.
func isCallArgument(tokens []luasrc.Token, i int) bool {
	p := luasrc.Prev(tokens, i)
	if p < 0 {
		return false
	}

	t := tokens[p]

	switch t.Kind {
	case luasrc.Name:
		return !luasrc.IsKeyword(t.Text)
	case luasrc.String, luasrc.LongString:
		return true
	case luasrc.Symbol:
		return t.Text == ")" || t.Text == "]" || t.Text == "}"
	default:
		return false
	}
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.Itoa(x)
	}

	return strings.Join(parts, ",")
}
