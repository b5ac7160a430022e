package bmpng

import (
	"fmt"
	"image"
	"io"

	"github.com/deepteams/bmpng/internal/bmp"
)

// DecodeBMP reads a 24-bpp uncompressed BMP image from r and returns it
// as an *image.NRGBA.
func DecodeBMP(r io.Reader) (image.Image, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("bmpng: reading data: %w", err)
	}
	img, err := bmp.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("bmpng: decoding BMP: %w", err)
	}
	return img, nil
}

// DecodeBMPConfig returns the color model and dimensions of a BMP image
// without decoding the pixel array.
func DecodeBMPConfig(r io.Reader) (image.Config, error) {
	data, err := readAll(r)
	if err != nil {
		return image.Config{}, fmt.Errorf("bmpng: reading data: %w", err)
	}
	cfg, err := bmp.DecodeConfig(data)
	if err != nil {
		return image.Config{}, fmt.Errorf("bmpng: decoding BMP: %w", err)
	}
	return cfg, nil
}

// EncodeBMP writes img to w as a 24-bpp uncompressed BMP. Alpha is
// discarded.
func EncodeBMP(w io.Writer, img image.Image) error {
	if err := bmp.Encode(w, img); err != nil {
		return fmt.Errorf("bmpng: encoding BMP: %w", err)
	}
	return nil
}
