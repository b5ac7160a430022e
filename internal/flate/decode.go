package flate

import (
	"errors"

	"github.com/deepteams/bmpng/internal/bitio"
)

// Canonical Huffman decoding via a flat lookup table keyed by a
// maximum-code-length-wide peek of the bit stream. Every table entry
// indexed by a bit pattern whose low bits match a codeword (reversed, as
// it appears on the wire) holds that codeword's symbol and length.

// ErrInvalidCode is returned when a peeked bit pattern matches no
// codeword.
var ErrInvalidCode = errors.New("flate: invalid Huffman code")

type decodeEntry struct {
	sym  uint16
	bits uint8 // 0 marks an unassigned entry
}

type decodeTable struct {
	entries []decodeEntry
	peek    int // number of bits to peek per lookup
}

// newDecodeTable builds a lookup table from canonical code lengths.
func newDecodeTable(lengths []uint8) *decodeTable {
	maxLen := 0
	for _, l := range lengths {
		if int(l) > maxLen {
			maxLen = int(l)
		}
	}
	t := &decodeTable{
		entries: make([]decodeEntry, 1<<maxLen),
		peek:    maxLen,
	}

	tc := newTreeCodeFromLengths(lengths)
	for s, l := range lengths {
		if l == 0 {
			continue
		}
		// codes[s] is already bit-reversed; replicate it across every
		// table slot whose low l bits equal it.
		step := 1 << l
		for fill := int(tc.codes[s]); fill < len(t.entries); fill += step {
			t.entries[fill] = decodeEntry{sym: uint16(s), bits: l}
		}
	}
	return t
}

// readSymbol decodes one symbol from the bit stream.
func (t *decodeTable) readSymbol(br *bitio.Reader) (uint16, error) {
	e := t.entries[br.PeekBits(t.peek)]
	if e.bits == 0 {
		return 0, ErrInvalidCode
	}
	br.SkipBits(int(e.bits))
	if err := br.Err(); err != nil {
		return 0, err
	}
	return e.sym, nil
}

// Fixed-code decode tables, built once.
var (
	fixedLitLenDecode = newDecodeTable(fixedLitLenLengths[:])
	fixedDistDecode   = newDecodeTable(fixedDistLengths[:])
)
