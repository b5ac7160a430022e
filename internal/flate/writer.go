package flate

import (
	"github.com/deepteams/bmpng/internal/bitio"
	"github.com/deepteams/bmpng/internal/lz77"
)

// DEFLATE block writer. Each block is emitted as the cheapest of the
// three block types for its token stream, compared by exact bit counts.

// histogram tallies literal/length and distance symbol frequencies for a
// token stream, plus the total number of extra bits the stream's
// back-references carry.
type histogram struct {
	lit       [NumLitLenSymbols]uint32
	dist      [NumDistSymbols]uint32
	extraBits int
}

// tally counts the symbols of tokens, including the end-of-block symbol.
func tally(tokens []lz77.Token) *histogram {
	h := &histogram{}
	for _, t := range tokens {
		if t.IsLiteral() {
			h.lit[t.Byte()]++
			continue
		}
		ls := lengthSymbol(t.Length())
		ds := distanceSymbol(t.Distance())
		h.lit[ls]++
		h.dist[ds]++
		h.extraBits += int(lengthExtraBits[ls-257]) + int(distExtraBits[ds])
	}
	h.lit[EndOfBlock]++
	return h
}

// symbolCost sums hist[s] * lengths[s] over the alphabet.
func symbolCost(hist []uint32, lengths []uint8) int {
	cost := 0
	for s, n := range hist {
		cost += int(n) * int(lengths[s])
	}
	return cost
}

// WriteBlock emits input as a single DEFLATE block (or a run of stored
// blocks when storing wins), choosing the cheapest encoding of the
// token stream. tokens must expand to input. final marks the last block
// of the stream.
func WriteBlock(bw *bitio.Writer, input []byte, tokens []lz77.Token, final bool) {
	hist := tally(tokens)

	fixedCost := 3 + symbolCost(hist.lit[:], fixedLitLenLengths[:NumLitLenSymbols]) +
		symbolCost(hist.dist[:], fixedDistLengths[:]) + hist.extraBits

	dyn := newDynamicPlan(hist)
	dynCost := 3 + dyn.headerBits +
		symbolCost(hist.lit[:], dyn.litLen.lengths) +
		symbolCost(hist.dist[:], dyn.dist.lengths) + hist.extraBits

	storedCost := storedBits(bw.BitsWritten(), len(input))

	switch {
	case storedCost <= fixedCost && storedCost <= dynCost:
		WriteStored(bw, input, final)
	case fixedCost <= dynCost:
		bw.WriteBits(boolBit(final), 1)
		bw.WriteBits(blockTypeFixed, 2)
		writeTokens(bw, tokens, fixedLitLenCode, fixedDistCode)
	default:
		bw.WriteBits(boolBit(final), 1)
		bw.WriteBits(blockTypeDynamic, 2)
		dyn.writeHeader(bw)
		writeTokens(bw, tokens, dyn.litLen, dyn.dist)
	}
}

// WriteStored emits input as one or more stored blocks, splitting above
// MaxStoredBlockSize. The bit stream is zero-padded to a byte boundary
// before each block's LEN/NLEN pair.
func WriteStored(bw *bitio.Writer, input []byte, final bool) {
	for first := true; first || len(input) > 0; first = false {
		chunk := input
		if len(chunk) > MaxStoredBlockSize {
			chunk = chunk[:MaxStoredBlockSize]
		}
		input = input[len(chunk):]

		last := final && len(input) == 0
		bw.WriteBits(boolBit(last), 1)
		bw.WriteBits(blockTypeStored, 2)
		bw.AlignByte()
		bw.WriteBits(uint32(len(chunk)), 16)
		bw.WriteBits(^uint32(len(chunk)), 16)
		bw.WriteBytes(chunk)
	}
}

// storedBits returns the exact cost in bits of storing n bytes starting
// at the given bit offset, including headers, alignment padding, and
// block splitting.
func storedBits(bitPos, n int) int {
	cost := 0
	pos := bitPos
	for first := true; first || n > 0; first = false {
		chunk := n
		if chunk > MaxStoredBlockSize {
			chunk = MaxStoredBlockSize
		}
		n -= chunk

		pos += 3
		if rem := pos & 7; rem != 0 {
			pos += 8 - rem
		}
		blockBits := 32 + chunk*8
		pos += blockBits
		cost = pos - bitPos
	}
	return cost
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// writeTokens emits the token stream followed by the end-of-block
// symbol. Huffman codes are stored bit-reversed, so WriteBits places
// them on the wire most significant bit first; extra bits are raw
// integers and go out in natural LSB-first order.
func writeTokens(bw *bitio.Writer, tokens []lz77.Token, litLen, dist *treeCode) {
	for _, t := range tokens {
		if t.IsLiteral() {
			b := t.Byte()
			bw.WriteBits(uint32(litLen.codes[b]), int(litLen.lengths[b]))
			continue
		}

		length := t.Length()
		ls := lengthSymbol(length)
		bw.WriteBits(uint32(litLen.codes[ls]), int(litLen.lengths[ls]))
		if eb := lengthExtraBits[ls-257]; eb > 0 {
			bw.WriteBits(uint32(length-int(lengthBase[ls-257])), int(eb))
		}

		distance := t.Distance()
		ds := distanceSymbol(distance)
		bw.WriteBits(uint32(dist.codes[ds]), int(dist.lengths[ds]))
		if eb := distExtraBits[ds]; eb > 0 {
			bw.WriteBits(uint32(distance-int(distBase[ds])), int(eb))
		}
	}
	bw.WriteBits(uint32(litLen.codes[EndOfBlock]), int(litLen.lengths[EndOfBlock]))
}
