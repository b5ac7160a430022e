package flate

import "github.com/deepteams/bmpng/internal/bitio"

// Dynamic-block preamble construction: per-block Huffman codes for both
// alphabets, their code lengths run-length encoded over the code-length
// alphabet, and that alphabet's own 3-bit lengths in the fixed
// transmission order.

// clToken is one symbol of the run-length-encoded code-length sequence.
// code 0..15 is a literal code length; 16 repeats the previous length
// 3..6 times, 17 encodes a zero run of 3..10, 18 a zero run of 11..138.
type clToken struct {
	code  uint8
	extra uint8
}

type dynamicPlan struct {
	litLen *treeCode
	dist   *treeCode

	nLit     int
	nDist    int
	numCL    int // number of transmitted code-length code lengths
	clCode   *treeCode
	clTokens []clToken

	headerBits int
}

// newDynamicPlan builds the per-block codes and preamble layout for the
// given histogram and computes the preamble's exact bit cost.
func newDynamicPlan(hist *histogram) *dynamicPlan {
	litFreq := hist.lit

	// The literal/length code must be complete for decoders to accept
	// it; guarantee at least two coded symbols.
	nonZero := 0
	for _, f := range litFreq {
		if f > 0 {
			nonZero++
		}
	}
	for s := 0; nonZero < 2; s++ {
		if litFreq[s] == 0 {
			litFreq[s] = 1
			nonZero++
		}
	}

	p := &dynamicPlan{
		litLen: buildTreeCode(litFreq[:], MaxCodeLength),
		dist:   buildTreeCode(hist.dist[:], MaxCodeLength),
	}

	p.nLit = 257
	for s := NumLitLenSymbols - 1; s >= 257; s-- {
		if p.litLen.lengths[s] != 0 {
			p.nLit = s + 1
			break
		}
	}
	p.nDist = 1
	for s := NumDistSymbols - 1; s >= 1; s-- {
		if p.dist.lengths[s] != 0 {
			p.nDist = s + 1
			break
		}
	}

	// Run-length encode the concatenated length sequence; runs may cross
	// the literal/distance boundary.
	seq := make([]uint8, 0, p.nLit+p.nDist)
	seq = append(seq, p.litLen.lengths[:p.nLit]...)
	seq = append(seq, p.dist.lengths[:p.nDist]...)
	p.clTokens = rleCodeLengths(seq)

	var clFreq [NumCodeLengthSymbols]uint32
	for _, t := range p.clTokens {
		clFreq[t.code]++
	}
	p.clCode = buildTreeCode(clFreq[:], MaxCodeLengthCodeLength)

	p.numCL = 4
	for i := NumCodeLengthSymbols - 1; i >= 4; i-- {
		if p.clCode.lengths[codeLengthOrder[i]] != 0 {
			p.numCL = i + 1
			break
		}
	}

	p.headerBits = 5 + 5 + 4 + 3*p.numCL
	for _, t := range p.clTokens {
		p.headerBits += int(p.clCode.lengths[t.code])
		if t.code >= 16 {
			p.headerBits += int(codeLengthExtraBits[t.code-16])
		}
	}
	return p
}

// writeHeader emits HLIT, HDIST, HCLEN, the code-length code lengths in
// transmission order, and the RLE-coded length sequence.
func (p *dynamicPlan) writeHeader(bw *bitio.Writer) {
	bw.WriteBits(uint32(p.nLit-257), 5)
	bw.WriteBits(uint32(p.nDist-1), 5)
	bw.WriteBits(uint32(p.numCL-4), 4)
	for i := 0; i < p.numCL; i++ {
		bw.WriteBits(uint32(p.clCode.lengths[codeLengthOrder[i]]), 3)
	}
	for _, t := range p.clTokens {
		bw.WriteBits(uint32(p.clCode.codes[t.code]), int(p.clCode.lengths[t.code]))
		if t.code >= 16 {
			bw.WriteBits(uint32(t.extra), int(codeLengthExtraBits[t.code-16]))
		}
	}
}

// rleCodeLengths encodes a code-length sequence with the repeat symbols
// 16, 17, and 18. A non-zero run always starts with one literal length
// (symbol 16 repeats the previously coded length).
func rleCodeLengths(lengths []uint8) []clToken {
	var tokens []clToken
	for i := 0; i < len(lengths); {
		v := lengths[i]
		j := i + 1
		for j < len(lengths) && lengths[j] == v {
			j++
		}
		run := j - i
		i = j

		if v == 0 {
			tokens = appendZeroRun(tokens, run)
			continue
		}

		tokens = append(tokens, clToken{code: v})
		run--
		for run >= 3 {
			r := run
			if r > 6 {
				r = 6
			}
			tokens = append(tokens, clToken{code: 16, extra: uint8(r - 3)})
			run -= r
		}
		for ; run > 0; run-- {
			tokens = append(tokens, clToken{code: v})
		}
	}
	return tokens
}

// appendZeroRun encodes a run of zero lengths using codes 0, 17, and 18.
func appendZeroRun(tokens []clToken, run int) []clToken {
	for run > 0 {
		switch {
		case run < 3:
			for ; run > 0; run-- {
				tokens = append(tokens, clToken{code: 0})
			}
		case run <= 10:
			tokens = append(tokens, clToken{code: 17, extra: uint8(run - 3)})
			run = 0
		case run <= 138:
			tokens = append(tokens, clToken{code: 18, extra: uint8(run - 11)})
			run = 0
		default:
			tokens = append(tokens, clToken{code: 18, extra: 127})
			run -= 138
		}
	}
	return tokens
}
