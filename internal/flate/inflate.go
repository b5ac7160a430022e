package flate

import (
	"errors"

	"github.com/deepteams/bmpng/internal/bitio"
)

// Errors returned by Decompress.
var (
	// ErrBlockType is returned for the reserved block type 3.
	ErrBlockType = errors.New("flate: reserved block type")
	// ErrDynamicBlock is returned for dynamic Huffman blocks, which this
	// decoder does not handle.
	ErrDynamicBlock = errors.New("flate: dynamic Huffman block decoding not supported")
	// ErrStoredLength is returned when a stored block's LEN and NLEN
	// fields disagree.
	ErrStoredLength = errors.New("flate: stored block length check failed")
	// ErrDistanceTooFar is returned when a back-reference points before
	// the start of the output.
	ErrDistanceTooFar = errors.New("flate: back-reference before start of output")
)

// Decompress inflates a raw DEFLATE stream of stored and fixed-Huffman
// blocks. It returns the decoded bytes and the number of input bytes
// consumed (the byte containing the last bit of the final block, plus
// its padding).
func Decompress(data []byte) ([]byte, int, error) {
	br := bitio.NewReader(data)
	var out []byte

	for {
		final := br.ReadBits(1)
		btype := br.ReadBits(2)
		if err := br.Err(); err != nil {
			return nil, 0, err
		}

		switch btype {
		case blockTypeStored:
			br.AlignByte()
			hdr := br.ReadBytes(4)
			if hdr == nil {
				return nil, 0, br.Err()
			}
			n := int(hdr[0]) | int(hdr[1])<<8
			nlen := int(hdr[2]) | int(hdr[3])<<8
			if n != ^nlen&0xffff {
				return nil, 0, ErrStoredLength
			}
			chunk := br.ReadBytes(n)
			if chunk == nil {
				return nil, 0, br.Err()
			}
			out = append(out, chunk...)

		case blockTypeFixed:
			var err error
			out, err = inflateCoded(br, out, fixedLitLenDecode, fixedDistDecode)
			if err != nil {
				return nil, 0, err
			}

		case blockTypeDynamic:
			return nil, 0, ErrDynamicBlock

		default:
			return nil, 0, ErrBlockType
		}

		if final == 1 {
			br.AlignByte()
			return out, br.BitsRead() / 8, nil
		}
	}
}

// inflateCoded decodes one Huffman-coded block's symbol stream into out.
func inflateCoded(br *bitio.Reader, out []byte, litLen, dist *decodeTable) ([]byte, error) {
	for {
		sym, err := litLen.readSymbol(br)
		if err != nil {
			return nil, err
		}
		if sym < EndOfBlock {
			out = append(out, byte(sym))
			continue
		}
		if sym == EndOfBlock {
			return out, nil
		}
		if sym > 285 {
			return nil, ErrInvalidCode
		}

		length := int(lengthBase[sym-257]) + int(br.ReadBits(int(lengthExtraBits[sym-257])))

		ds, err := dist.readSymbol(br)
		if err != nil {
			return nil, err
		}
		if ds >= NumDistSymbols {
			return nil, ErrInvalidCode
		}
		distance := int(distBase[ds]) + int(br.ReadBits(int(distExtraBits[ds])))
		if err := br.Err(); err != nil {
			return nil, err
		}
		if distance > len(out) {
			return nil, ErrDistanceTooFar
		}

		// Copy byte by byte: overlapping references replicate.
		for ; length > 0; length-- {
			out = append(out, out[len(out)-distance])
		}
	}
}
