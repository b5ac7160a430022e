package png

import (
	"encoding/binary"
	"hash/crc32"
	"io"
)

// PNG chunk emission: length / type / data / CRC framing, and the fixed
// chunk sequence for a truecolor image.

// Signature is the 8-byte PNG file signature.
var Signature = [8]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Chunk type names.
const (
	TypeIHDR = "IHDR"
	TypeIDAT = "IDAT"
	TypeIEND = "IEND"
)

// IHDR field values for the only pixel format this encoder emits.
const (
	BitDepth8         = 8
	ColorTypeRGB      = 2
	CompressionMethod = 0
	FilterMethod      = 0
	InterlaceNone     = 0
)

// MaxIDATSize is the largest payload of a single IDAT chunk emitted by
// the assembler.
const MaxIDATSize = 8192

// ChunkWriter frames chunks onto an underlying writer. The CRC-32
// (IEEE polynomial, reflected) covers the type and data fields.
type ChunkWriter struct {
	w io.Writer
}

// NewChunkWriter creates a ChunkWriter over w.
func NewChunkWriter(w io.Writer) *ChunkWriter {
	return &ChunkWriter{w: w}
}

// WriteSignature emits the PNG signature.
func (cw *ChunkWriter) WriteSignature() error {
	_, err := cw.w.Write(Signature[:])
	return err
}

// WriteChunk emits one chunk: big-endian length, 4-byte type, data, and
// big-endian CRC over type||data.
func (cw *ChunkWriter) WriteChunk(typ string, data []byte) error {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[:4], uint32(len(data)))
	copy(hdr[4:], typ)

	crc := crc32.NewIEEE()
	crc.Write(hdr[4:])
	crc.Write(data)

	if _, err := cw.w.Write(hdr[:]); err != nil {
		return err
	}
	if _, err := cw.w.Write(data); err != nil {
		return err
	}
	var trailer [4]byte
	binary.BigEndian.PutUint32(trailer[:], crc.Sum32())
	_, err := cw.w.Write(trailer[:])
	return err
}

// WriteImage assembles a complete 8-bit truecolor PNG: signature, IHDR,
// the zlib stream split into IDAT chunks of at most MaxIDATSize bytes,
// and IEND.
func WriteImage(w io.Writer, width, height int, zlibData []byte) error {
	cw := NewChunkWriter(w)
	if err := cw.WriteSignature(); err != nil {
		return err
	}

	var ihdr [13]byte
	binary.BigEndian.PutUint32(ihdr[0:], uint32(width))
	binary.BigEndian.PutUint32(ihdr[4:], uint32(height))
	ihdr[8] = BitDepth8
	ihdr[9] = ColorTypeRGB
	ihdr[10] = CompressionMethod
	ihdr[11] = FilterMethod
	ihdr[12] = InterlaceNone
	if err := cw.WriteChunk(TypeIHDR, ihdr[:]); err != nil {
		return err
	}

	for first := true; first || len(zlibData) > 0; first = false {
		slab := zlibData
		if len(slab) > MaxIDATSize {
			slab = slab[:MaxIDATSize]
		}
		zlibData = zlibData[len(slab):]
		if err := cw.WriteChunk(TypeIDAT, slab); err != nil {
			return err
		}
	}

	return cw.WriteChunk(TypeIEND, nil)
}
