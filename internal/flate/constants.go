package flate

// DEFLATE alphabet constants and tables (RFC 1951 section 3.2).

const (
	// NumLitLenSymbols is the size of the literal/length alphabet.
	// Symbols 0..255 are literal bytes, 256 is end-of-block, 257..285
	// are length codes (286 and 287 exist only in the fixed code).
	NumLitLenSymbols = 286
	// NumDistSymbols is the size of the distance alphabet.
	NumDistSymbols = 30
	// NumCodeLengthSymbols is the size of the code-length alphabet used
	// in dynamic block preambles.
	NumCodeLengthSymbols = 19

	// EndOfBlock terminates every block's symbol stream.
	EndOfBlock = 256

	// MaxCodeLength limits literal/length and distance codes.
	MaxCodeLength = 15
	// MaxCodeLengthCodeLength limits the code-length alphabet's codes.
	MaxCodeLengthCodeLength = 7

	// MaxStoredBlockSize is the largest payload of a single stored block.
	MaxStoredBlockSize = 65535
)

// Block type field values.
const (
	blockTypeStored  = 0
	blockTypeFixed   = 1
	blockTypeDynamic = 2
)

// lengthExtraBits[s] is the number of extra bits following length symbol
// 257+s.
var lengthExtraBits = [29]uint8{
	0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 1, 1,
	2, 2, 2, 2,
	3, 3, 3, 3,
	4, 4, 4, 4,
	5, 5, 5, 5,
	0,
}

// lengthBase[s] is the base match length of length symbol 257+s.
var lengthBase = [29]uint16{
	3, 4, 5, 6, 7, 8, 9, 10,
	11, 13, 15, 17,
	19, 23, 27, 31,
	35, 43, 51, 59,
	67, 83, 99, 115,
	131, 163, 195, 227,
	258,
}

// distExtraBits[s] is the number of extra bits following distance symbol s.
var distExtraBits = [30]uint8{
	0, 0, 0, 0,
	1, 1, 2, 2,
	3, 3, 4, 4,
	5, 5, 6, 6,
	7, 7, 8, 8,
	9, 9, 10, 10,
	11, 11, 12, 12,
	13, 13,
}

// distBase[s] is the base distance of distance symbol s.
var distBase = [30]uint16{
	1, 2, 3, 4,
	5, 7, 9, 13,
	17, 25, 33, 49,
	65, 97, 129, 193,
	257, 385, 513, 769,
	1025, 1537, 2049, 3073,
	4097, 6145, 8193, 12289,
	16385, 24577,
}

// codeLengthOrder is the fixed transmission order of the code-length
// alphabet's own code lengths in a dynamic block preamble.
var codeLengthOrder = [NumCodeLengthSymbols]uint8{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

// codeLengthExtraBits[s-16] is the number of extra bits following
// code-length repeat symbols 16, 17, 18.
var codeLengthExtraBits = [3]uint8{2, 3, 7}

// lengthCodes[l-3] is the length symbol for match length l.
var lengthCodes [256]uint16

// distCodesLo[d-1] is the distance symbol for distance d in [1,256].
// distCodesHi[(d-1)>>7] is the distance symbol for distance d in
// (256,32768]; the first two entries are never consulted.
var (
	distCodesLo [256]uint8
	distCodesHi [256]uint8
)

func init() {
	for sym := 0; sym < 28; sym++ {
		for l := int(lengthBase[sym]); l < int(lengthBase[sym+1]); l++ {
			lengthCodes[l-3] = uint16(257 + sym)
		}
	}
	// Length 258 has its own zero-extra-bit symbol.
	lengthCodes[258-3] = 285

	for sym := 0; sym < NumDistSymbols; sym++ {
		base := int(distBase[sym])
		next := 32769
		if sym+1 < NumDistSymbols {
			next = int(distBase[sym+1])
		}
		for d := base; d < next; d++ {
			if d <= 256 {
				distCodesLo[d-1] = uint8(sym)
			}
		}
		if base > 256 || next > 256 {
			lo := base
			if lo < 257 {
				lo = 257
			}
			for d := lo; d < next; d++ {
				distCodesHi[(d-1)>>7] = uint8(sym)
			}
		}
	}
}

// lengthSymbol returns the length alphabet symbol for a match length in
// [3,258].
func lengthSymbol(length int) uint16 {
	return lengthCodes[length-3]
}

// distanceSymbol returns the distance alphabet symbol for a distance in
// [1,32768].
func distanceSymbol(distance int) uint16 {
	if distance <= 256 {
		return uint16(distCodesLo[distance-1])
	}
	return uint16(distCodesHi[(distance-1)>>7])
}

// fixedLitLenLengths holds the code lengths of the fixed literal/length
// code: 0..143 are 8 bits, 144..255 are 9 bits, 256..279 are 7 bits,
// 280..287 are 8 bits.
var fixedLitLenLengths = func() [288]uint8 {
	var l [288]uint8
	for i := 0; i <= 143; i++ {
		l[i] = 8
	}
	for i := 144; i <= 255; i++ {
		l[i] = 9
	}
	for i := 256; i <= 279; i++ {
		l[i] = 7
	}
	for i := 280; i <= 287; i++ {
		l[i] = 8
	}
	return l
}()

// fixedDistLengths holds the code lengths of the fixed distance code:
// all 30 symbols are 5 bits.
var fixedDistLengths = func() [NumDistSymbols]uint8 {
	var l [NumDistSymbols]uint8
	for i := range l {
		l[i] = 5
	}
	return l
}()

// Fixed codes, canonical and bit-reversed for emission.
var (
	fixedLitLenCode = newTreeCodeFromLengths(fixedLitLenLengths[:])
	fixedDistCode   = newTreeCodeFromLengths(fixedDistLengths[:])
)
