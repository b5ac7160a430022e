package lz77

// Match length bounds for DEFLATE-style LZ77.
const (
	MinMatch = 3
	MaxMatch = 258

	// MaxDistance is the largest representable backward distance.
	MaxDistance = 32768
)

// Token represents a literal-or-copy token in the LZ77 output stream.
// Each token is one of:
//   - Literal: a single input byte
//   - BackRef: a length+distance back-reference into earlier output
type Token struct {
	mode          uint8
	length        uint16
	litOrDistance uint16
}

// Token mode constants.
const (
	modeLiteral uint8 = 0
	modeBackRef uint8 = 1
)

// Literal creates a literal byte token.
func Literal(b byte) Token {
	return Token{
		mode:          modeLiteral,
		litOrDistance: uint16(b),
		length:        1,
	}
}

// BackRef creates a back-reference token. distance must be in
// [1, MaxDistance] and length in [MinMatch, MaxMatch]; violating either
// bound is a programming error.
func BackRef(distance, length int) Token {
	if distance < 1 || distance > MaxDistance {
		panic("lz77: backref distance out of range")
	}
	if length < MinMatch || length > MaxMatch {
		panic("lz77: backref length out of range")
	}
	return Token{
		mode:          modeBackRef,
		litOrDistance: uint16(distance - 1),
		length:        uint16(length),
	}
}

// IsLiteral returns true if the token is a literal byte.
func (t Token) IsLiteral() bool {
	return t.mode == modeLiteral
}

// IsBackRef returns true if the token is a back-reference.
func (t Token) IsBackRef() bool {
	return t.mode == modeBackRef
}

// Byte returns the literal byte value. Only valid for literal tokens.
func (t Token) Byte() byte {
	return byte(t.litOrDistance)
}

// Length returns the copy length (1 for literal tokens).
func (t Token) Length() int {
	return int(t.length)
}

// Distance returns the copy distance. Only valid for back-reference
// tokens.
func (t Token) Distance() int {
	return int(t.litOrDistance) + 1
}

// Expand decodes a token stream by the standard LZ77 expansion, appending
// to dst and returning the result. Overlapping back-references
// (distance < length) are expanded byte by byte, so runs replicate.
func Expand(dst []byte, tokens []Token) []byte {
	for _, t := range tokens {
		if t.IsLiteral() {
			dst = append(dst, t.Byte())
			continue
		}
		d := t.Distance()
		for n := t.Length(); n > 0; n-- {
			dst = append(dst, dst[len(dst)-d])
		}
	}
	return dst
}
