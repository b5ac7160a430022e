// Package bmpng converts BMP images to PNG using a from-scratch
// compression pipeline: an LZ77 matcher over a 32 KiB sliding window, a
// DEFLATE entropy coder with fixed and dynamic Huffman blocks, and a
// zlib container with an Adler-32 trailer.
//
// The zlib layer is also exposed directly:
//
//	out, err := bmpng.Compress(data, nil)
//	back, err := bmpng.Decompress(out, nil)
//
// Decompression is deliberately partial: it handles stored and
// fixed-Huffman streams and rejects dynamic blocks and preset
// dictionaries.
package bmpng

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/deepteams/bmpng/internal/bmp"
	"github.com/deepteams/bmpng/internal/png"
	"github.com/deepteams/bmpng/internal/zlib"
)

// Compression levels accepted by Compress and EncoderOptions.
const (
	NoCompression      = zlib.NoCompression
	BestCompression    = zlib.BestCompression
	DefaultCompression = zlib.DefaultCompression
)

// ErrUnknownFormat is returned by Info for data that is neither BMP nor
// PNG.
var ErrUnknownFormat = errors.New("bmpng: unknown image format")

// CompressOptions configures Compress. See zlib.CompressOptions.
type CompressOptions = zlib.CompressOptions

// DecompressOptions configures Decompress. See zlib.DecompressOptions.
type DecompressOptions = zlib.DecompressOptions

// DefaultCompressOptions returns options with the default level and the
// full 32 KiB window.
func DefaultCompressOptions() *CompressOptions {
	return zlib.DefaultCompressOptions()
}

// Compress deflates data into a zlib stream. opts may be nil.
func Compress(data []byte, opts *CompressOptions) ([]byte, error) {
	out, err := zlib.Compress(data, opts)
	if err != nil {
		return nil, fmt.Errorf("bmpng: compressing: %w", err)
	}
	return out, nil
}

// Decompress inflates a zlib stream of stored or fixed-Huffman blocks.
// opts may be nil.
func Decompress(data []byte, opts *DecompressOptions) ([]byte, error) {
	out, err := zlib.Decompress(data, opts)
	if err != nil {
		return nil, fmt.Errorf("bmpng: decompressing: %w", err)
	}
	return out, nil
}

// ImageInfo describes a BMP or PNG file's headers, as returned by Info.
type ImageInfo struct {
	Format string // "bmp" or "png"
	Width  int
	Height int

	// PNG fields.
	BitDepth   int
	ColorType  int
	Interlace  int
	ChunkTypes []string

	// BMP fields.
	BitsPerPixel int
	Compression  int
}

// Info reads BMP or PNG headers from r without decoding pixel data.
func Info(r io.Reader) (*ImageInfo, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("bmpng: reading data: %w", err)
	}

	switch {
	case len(data) >= 2 && data[0] == 'B' && data[1] == 'M':
		h, err := bmpHeaderInfo(data)
		if err != nil {
			return nil, fmt.Errorf("bmpng: parsing BMP: %w", err)
		}
		return h, nil
	case len(data) >= 8 && bytes.Equal(data[:8], png.Signature[:]):
		info, err := png.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("bmpng: parsing PNG: %w", err)
		}
		return &ImageInfo{
			Format:     "png",
			Width:      info.Width,
			Height:     info.Height,
			BitDepth:   info.BitDepth,
			ColorType:  info.ColorType,
			Interlace:  info.Interlace,
			ChunkTypes: info.ChunkTypes,
		}, nil
	default:
		return nil, ErrUnknownFormat
	}
}

func bmpHeaderInfo(data []byte) (*ImageInfo, error) {
	cfg, err := bmp.DecodeConfig(data)
	if err != nil {
		return nil, err
	}
	return &ImageInfo{
		Format:       "bmp",
		Width:        cfg.Width,
		Height:       cfg.Height,
		BitsPerPixel: 24,
	}, nil
}

// readAll reads all data from r. If r implements Len() int (e.g.
// *bytes.Reader), a single exact-sized allocation is used instead of
// the repeated doublings that io.ReadAll performs.
func readAll(r io.Reader) ([]byte, error) {
	if lr, ok := r.(interface{ Len() int }); ok {
		n := lr.Len()
		if n > 0 {
			data := make([]byte, n)
			_, err := io.ReadFull(r, data)
			return data, err
		}
	}
	return io.ReadAll(r)
}
