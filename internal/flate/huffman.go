package flate

import "sort"

// Length-limited Huffman code construction via package-merge, plus
// canonical code assignment with bit-reversed codewords for emission
// through the LSB-first bit writer.

// treeCode holds a complete Huffman code for encoding: for each symbol
// in the alphabet, the canonical code length and the bit-reversed
// codeword.
type treeCode struct {
	lengths []uint8
	codes   []uint16
}

// pmItem is a package-merge item: a weight and the multiset of leaf
// symbols it represents.
type pmItem struct {
	weight uint64
	syms   []uint16
}

// buildCodeLengths computes canonical code lengths for the given symbol
// frequencies, with no code longer than limit bits. Symbols with zero
// frequency receive length zero (no code).
func buildCodeLengths(freq []uint32, limit int) []uint8 {
	lengths := make([]uint8, len(freq))

	var used []uint16
	for s, f := range freq {
		if f > 0 {
			used = append(used, uint16(s))
		}
	}

	switch len(used) {
	case 0:
		return lengths
	case 1:
		lengths[used[0]] = 1
		return lengths
	case 2:
		lengths[used[0]] = 1
		lengths[used[1]] = 1
		return lengths
	}

	// Leaves sorted by (weight, symbol); ties on symbol keep the
	// construction deterministic.
	leaves := make([]pmItem, len(used))
	for i, s := range used {
		leaves[i] = pmItem{weight: uint64(freq[s]), syms: []uint16{s}}
	}
	sortItems(leaves)

	// limit-1 rounds of package-then-merge. After the final round the
	// list is the level-1 free list.
	list := append([]pmItem(nil), leaves...)
	for round := 1; round < limit; round++ {
		var packages []pmItem
		for j := 0; j+1 < len(list); j += 2 {
			a, b := list[j], list[j+1]
			syms := make([]uint16, 0, len(a.syms)+len(b.syms))
			syms = append(syms, a.syms...)
			syms = append(syms, b.syms...)
			packages = append(packages, pmItem{weight: a.weight + b.weight, syms: syms})
		}
		list = append(packages, leaves...)
		sortItems(list)
	}

	// The 2n-2 lightest level-1 items determine the lengths: each leaf's
	// code length is the number of selected items containing its symbol.
	take := 2*len(used) - 2
	for _, item := range list[:take] {
		for _, s := range item.syms {
			lengths[s]++
		}
	}
	return lengths
}

func sortItems(items []pmItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].weight < items[j].weight
	})
}

// buildTreeCode computes code lengths for freq and assigns canonical
// codes.
func buildTreeCode(freq []uint32, limit int) *treeCode {
	return newTreeCodeFromLengths(buildCodeLengths(freq, limit))
}

// newTreeCodeFromLengths assigns canonical codes for the given code
// lengths. Codes are assigned in (length, symbol) order, each one the
// smallest integer not prefixed by an earlier code, then bit-reversed
// for LSB-first emission.
func newTreeCodeFromLengths(lengths []uint8) *treeCode {
	tc := &treeCode{
		lengths: lengths,
		codes:   make([]uint16, len(lengths)),
	}

	var count [MaxCodeLength + 1]int
	for _, l := range lengths {
		count[l]++
	}
	count[0] = 0

	var nextCode [MaxCodeLength + 1]uint32
	code := uint32(0)
	for l := 1; l <= MaxCodeLength; l++ {
		code = (code + uint32(count[l-1])) << 1
		nextCode[l] = code
	}

	for s, l := range lengths {
		if l == 0 {
			continue
		}
		tc.codes[s] = reverseBits(nextCode[l], int(l))
		nextCode[l]++
	}
	return tc
}

// reverseBits reverses the lower nBits of v.
func reverseBits(v uint32, nBits int) uint16 {
	var result uint32
	for i := 0; i < nBits; i++ {
		result = (result << 1) | (v & 1)
		v >>= 1
	}
	return uint16(result)
}
