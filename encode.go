package bmpng

import (
	"fmt"
	"image"
	"io"

	"github.com/deepteams/bmpng/internal/png"
	"github.com/deepteams/bmpng/internal/zlib"
)

// EncoderOptions controls PNG encoding parameters.
type EncoderOptions struct {
	// Level is the zlib compression level: 0 = stored blocks only,
	// 1-9 = increasing match-search effort, -1 = default.
	Level int

	// WindowBits is log2 of the LZ77 window size, 9..15.
	// Zero means 15 (the full 32 KiB window).
	WindowBits int
}

// DefaultEncoderOptions returns options with the default compression
// level and the full window.
func DefaultEncoderOptions() *EncoderOptions {
	return &EncoderOptions{Level: DefaultCompression, WindowBits: zlib.MaxWindowBits}
}

// Encode writes img to w as an 8-bit truecolor PNG. opts may be nil.
// Alpha is discarded. Nothing is written to w if encoding fails.
func Encode(w io.Writer, img image.Image, opts *EncoderOptions) error {
	if opts == nil {
		opts = DefaultEncoderOptions()
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("bmpng: empty image %dx%d", width, height)
	}

	stream, err := zlib.Compress(filterScanlines(img), &zlib.CompressOptions{
		Level:      opts.Level,
		WindowBits: opts.WindowBits,
	})
	if err != nil {
		return fmt.Errorf("bmpng: compressing scanlines: %w", err)
	}

	if err := png.WriteImage(w, width, height, stream); err != nil {
		return fmt.Errorf("bmpng: writing PNG: %w", err)
	}
	return nil
}

// filterScanlines serializes img row-major into the deflate input: each
// row is a filter-type byte (0, None) followed by R,G,B per pixel left
// to right.
func filterScanlines(img image.Image) []byte {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := make([]byte, 0, height*(1+width*3))

	// Fast path for the pixel layout the BMP reader produces.
	if nrgba, ok := img.(*image.NRGBA); ok && bounds.Min == (image.Point{}) {
		for y := 0; y < height; y++ {
			out = append(out, 0) // filter type None
			row := nrgba.Pix[y*nrgba.Stride:]
			for x := 0; x < width; x++ {
				out = append(out, row[x*4], row[x*4+1], row[x*4+2])
			}
		}
		return out
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		out = append(out, 0)
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			out = append(out, byte(r>>8), byte(g>>8), byte(b>>8))
		}
	}
	return out
}
