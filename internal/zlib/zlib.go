package zlib

import (
	"encoding/binary"
	"errors"

	"github.com/deepteams/bmpng/internal/bitio"
	"github.com/deepteams/bmpng/internal/flate"
	"github.com/deepteams/bmpng/internal/lz77"
)

// RFC 1950 stream container: a two-byte CMF/FLG header, a DEFLATE
// payload, and a big-endian Adler-32 trailer over the uncompressed
// input.

// Compression levels.
const (
	NoCompression      = 0
	BestCompression    = 9
	DefaultCompression = -1
)

// Window size bounds, as log2 of the window in bytes.
const (
	MinWindowBits = 9
	MaxWindowBits = 15
)

// compressionMethodDeflate is the only CM value defined by RFC 1950.
const compressionMethodDeflate = 8

// FLEVEL field values.
const (
	levelFastest = 0
	levelFast    = 1
	levelDefault = 2
	levelSlowest = 3
)

// Errors returned by Compress and Decompress.
var (
	// ErrLevel is returned for a compression level outside -1..9.
	ErrLevel = errors.New("zlib: invalid compression level")
	// ErrWindowBits is returned for window bits outside 9..15.
	ErrWindowBits = errors.New("zlib: invalid window bits")
	// ErrHeader is returned when the CMF/FLG pair is inconsistent or
	// names an unknown compression method.
	ErrHeader = errors.New("zlib: invalid header")
	// ErrDictionary is returned when the header requests a preset
	// dictionary (FDICT=1), which is not supported.
	ErrDictionary = errors.New("zlib: preset dictionary not supported")
	// ErrChecksum is returned when the Adler-32 trailer does not match
	// the decompressed output.
	ErrChecksum = errors.New("zlib: checksum mismatch")
	// ErrTruncated is returned when the stream ends mid-structure.
	ErrTruncated = errors.New("zlib: truncated stream")
)

// CompressOptions configures Compress. The zero WindowBits means
// MaxWindowBits.
type CompressOptions struct {
	// Level: 0 = stored blocks only, 1-9 = increasing match-search
	// effort, -1 = default (6).
	Level int
	// WindowBits is log2 of the sliding window size, 9..15.
	WindowBits int
}

// DefaultCompressOptions returns options with the default level and the
// full 32 KiB window.
func DefaultCompressOptions() *CompressOptions {
	return &CompressOptions{Level: DefaultCompression, WindowBits: MaxWindowBits}
}

// DecompressOptions configures Decompress.
type DecompressOptions struct {
	// WindowBits, when non-zero, rejects streams whose header declares
	// a window larger than 1<<WindowBits.
	WindowBits int
}

// flevelForLevel maps a compression level to the advisory FLEVEL field.
func flevelForLevel(level int) uint32 {
	switch {
	case level == 0:
		return levelFastest
	case level <= 5:
		return levelFast
	case level == 6:
		return levelDefault
	default:
		return levelSlowest
	}
}

// header returns the CMF and FLG bytes for the given parameters.
// FCHECK is the smallest value in 0..31 making CMF*256+FLG divisible
// by 31.
func header(level, windowBits int) (byte, byte) {
	cmf := uint32(compressionMethodDeflate) | uint32(windowBits-8)<<4
	flg := flevelForLevel(level) << 6 // FDICT = 0
	if rem := (cmf*256 + flg) % 31; rem != 0 {
		flg |= 31 - rem
	}
	return byte(cmf), byte(flg)
}

// Compress deflates src into a zlib stream. opts may be nil (default
// level, 32 KiB window).
func Compress(src []byte, opts *CompressOptions) ([]byte, error) {
	if opts == nil {
		opts = DefaultCompressOptions()
	}
	level := opts.Level
	windowBits := opts.WindowBits
	if windowBits == 0 {
		windowBits = MaxWindowBits
	}
	if level < DefaultCompression || level > BestCompression {
		return nil, ErrLevel
	}
	if windowBits < MinWindowBits || windowBits > MaxWindowBits {
		return nil, ErrWindowBits
	}
	if level == DefaultCompression {
		level = 6
	}

	bw := bitio.NewWriter(len(src)/2 + 64)
	cmf, flg := header(level, windowBits)
	bw.WriteBytes([]byte{cmf, flg})

	if level == NoCompression {
		flate.WriteStored(bw, src, true)
	} else {
		m := lz77.NewMatcher(src, 1<<windowBits, lz77.MaxChainForLevel(level))
		flate.WriteBlock(bw, src, m.Tokens(), true)
	}

	out := bw.Finish()
	var trailer [4]byte
	binary.BigEndian.PutUint32(trailer[:], AdlerChecksum(src))
	return append(out, trailer[:]...), nil
}

// Decompress inflates a zlib stream produced with stored or
// fixed-Huffman blocks and verifies its Adler-32 trailer. Trailing
// bytes after the trailer are ignored. opts may be nil.
func Decompress(src []byte, opts *DecompressOptions) ([]byte, error) {
	if len(src) < 2 {
		return nil, ErrTruncated
	}
	cmf, flg := uint32(src[0]), uint32(src[1])
	if (cmf*256+flg)%31 != 0 {
		return nil, ErrHeader
	}
	if cmf&0x0f != compressionMethodDeflate {
		return nil, ErrHeader
	}
	cinfo := int(cmf >> 4)
	if cinfo > MaxWindowBits-8 {
		return nil, ErrHeader
	}
	if opts != nil && opts.WindowBits != 0 && cinfo+8 > opts.WindowBits {
		return nil, ErrHeader
	}
	if flg&0x20 != 0 {
		return nil, ErrDictionary
	}

	out, consumed, err := flate.Decompress(src[2:])
	if err != nil {
		if errors.Is(err, bitio.ErrUnexpectedEOF) {
			return nil, ErrTruncated
		}
		return nil, err
	}

	trailer := src[2+consumed:]
	if len(trailer) < 4 {
		return nil, ErrTruncated
	}
	if binary.BigEndian.Uint32(trailer) != AdlerChecksum(out) {
		return nil, ErrChecksum
	}
	return out, nil
}
