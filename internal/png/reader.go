package png

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
)

// PNG chunk walking, for header inspection. This is not an image
// decoder; it parses the chunk sequence, validates CRCs, and collects
// the IHDR fields and the concatenated IDAT payload.

// Errors returned by Parse.
var (
	// ErrSignature is returned when the 8-byte signature is wrong.
	ErrSignature = errors.New("png: invalid signature")
	// ErrNoIHDR is returned when the first chunk is not IHDR.
	ErrNoIHDR = errors.New("png: first chunk is not IHDR")
	// ErrChecksum is returned when a chunk CRC does not match.
	ErrChecksum = errors.New("png: chunk CRC mismatch")
	// ErrTruncated is returned when the data ends mid-chunk or before
	// IEND.
	ErrTruncated = errors.New("png: truncated file")
)

// Info holds the IHDR fields and stream totals of a parsed PNG.
type Info struct {
	Width       int
	Height      int
	BitDepth    int
	ColorType   int
	Compression int
	Filter      int
	Interlace   int

	// ChunkTypes lists the chunk types in file order, IEND included.
	ChunkTypes []string
	// CompressedData is the concatenation of all IDAT payloads.
	CompressedData []byte
}

// Parse walks the chunk sequence of data up to IEND.
func Parse(data []byte) (*Info, error) {
	if len(data) < len(Signature) || !bytes.Equal(data[:len(Signature)], Signature[:]) {
		return nil, ErrSignature
	}
	data = data[len(Signature):]

	info := &Info{}
	first := true
	for {
		if len(data) < 8 {
			return nil, ErrTruncated
		}
		length := int(binary.BigEndian.Uint32(data))
		typ := string(data[4:8])
		if len(data) < 8+length+4 {
			return nil, ErrTruncated
		}
		payload := data[8 : 8+length]

		crc := crc32.NewIEEE()
		crc.Write(data[4 : 8+length])
		if crc.Sum32() != binary.BigEndian.Uint32(data[8+length:]) {
			return nil, ErrChecksum
		}
		data = data[8+length+4:]

		if first {
			if typ != TypeIHDR || length != 13 {
				return nil, ErrNoIHDR
			}
			info.Width = int(binary.BigEndian.Uint32(payload[0:]))
			info.Height = int(binary.BigEndian.Uint32(payload[4:]))
			info.BitDepth = int(payload[8])
			info.ColorType = int(payload[9])
			info.Compression = int(payload[10])
			info.Filter = int(payload[11])
			info.Interlace = int(payload[12])
			first = false
		}

		info.ChunkTypes = append(info.ChunkTypes, typ)
		switch typ {
		case TypeIDAT:
			info.CompressedData = append(info.CompressedData, payload...)
		case TypeIEND:
			return info, nil
		}
	}
}
