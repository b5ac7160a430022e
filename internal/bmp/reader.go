package bmp

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"io"
)

// BMP reading, limited to the 40-byte BITMAPINFOHEADER with 24 bits per
// pixel and no compression (BI_RGB). Rows are stored bottom-up unless
// the height is negative, each padded to a 4-byte boundary, pixels in
// BGR order.

const (
	fileHeaderSize = 14
	infoHeaderSize = 40
)

// Compression field values recognised for diagnostics.
const (
	biRGB  = 0
	biJPEG = 4
	biPNG  = 5
)

// Errors returned by Decode.
var (
	// ErrMagic is returned when the file does not start with "BM".
	ErrMagic = errors.New("bmp: invalid magic")
	// ErrHeader is returned for a malformed or non-BITMAPINFOHEADER
	// header.
	ErrHeader = errors.New("bmp: unsupported or invalid header")
	// ErrUnsupported is returned for pixel formats other than
	// uncompressed 24 bpp.
	ErrUnsupported = errors.New("bmp: unsupported pixel format")
)

// Header holds the file and DIB header fields of a BMP.
type Header struct {
	FileSize    uint32
	DataOffset  uint32
	Width       int
	Height      int // negative for top-down files
	Planes      int
	BitsPerPx   int
	Compression int
	ImageSize   uint32
	HorizRes    int
	VertRes     int
	Palette     uint32
	Important   uint32
}

// readHeader parses the file header and BITMAPINFOHEADER.
func readHeader(data []byte) (*Header, error) {
	if len(data) < fileHeaderSize+4 {
		return nil, io.ErrUnexpectedEOF
	}
	if data[0] != 'B' || data[1] != 'M' {
		return nil, ErrMagic
	}
	h := &Header{
		FileSize:   binary.LittleEndian.Uint32(data[2:]),
		DataOffset: binary.LittleEndian.Uint32(data[10:]),
	}
	if binary.LittleEndian.Uint32(data[fileHeaderSize:]) != infoHeaderSize {
		return nil, ErrHeader
	}
	if len(data) < fileHeaderSize+infoHeaderSize {
		return nil, io.ErrUnexpectedEOF
	}
	dib := data[fileHeaderSize:]
	h.Width = int(int32(binary.LittleEndian.Uint32(dib[4:])))
	h.Height = int(int32(binary.LittleEndian.Uint32(dib[8:])))
	h.Planes = int(binary.LittleEndian.Uint16(dib[12:]))
	h.BitsPerPx = int(binary.LittleEndian.Uint16(dib[14:]))
	h.Compression = int(binary.LittleEndian.Uint32(dib[16:]))
	h.ImageSize = binary.LittleEndian.Uint32(dib[20:])
	h.HorizRes = int(int32(binary.LittleEndian.Uint32(dib[24:])))
	h.VertRes = int(int32(binary.LittleEndian.Uint32(dib[28:])))
	h.Palette = binary.LittleEndian.Uint32(dib[32:])
	h.Important = binary.LittleEndian.Uint32(dib[36:])
	return h, nil
}

// checkSupported rejects everything but uncompressed 24 bpp.
func (h *Header) checkSupported() error {
	if h.BitsPerPx != 24 {
		return ErrUnsupported
	}
	switch h.Compression {
	case biRGB:
		return nil
	case biJPEG, biPNG:
		// A JPEG or PNG payload wearing a BMP file header.
		return ErrUnsupported
	default:
		return ErrUnsupported
	}
}

// rowStride returns the padded byte length of one stored row.
func rowStride(width int) int {
	return (width*3 + 3) &^ 3
}

// DecodeConfig parses the headers of a BMP and returns its dimensions.
func DecodeConfig(data []byte) (image.Config, error) {
	h, err := readHeader(data)
	if err != nil {
		return image.Config{}, err
	}
	if err := h.checkSupported(); err != nil {
		return image.Config{}, err
	}
	height := h.Height
	if height < 0 {
		height = -height
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      h.Width,
		Height:     height,
	}, nil
}

// Decode parses a 24-bpp uncompressed BMP into an *image.NRGBA.
func Decode(data []byte) (*image.NRGBA, error) {
	h, err := readHeader(data)
	if err != nil {
		return nil, err
	}
	if err := h.checkSupported(); err != nil {
		return nil, err
	}

	topDown := h.Height < 0
	height := h.Height
	if topDown {
		height = -height
	}
	width := h.Width
	if width < 0 {
		return nil, ErrHeader
	}

	stride := rowStride(width)
	need := int(h.DataOffset) + stride*height
	if int(h.DataOffset) < fileHeaderSize+infoHeaderSize || need > len(data) {
		return nil, io.ErrUnexpectedEOF
	}
	pixels := data[h.DataOffset:]

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		srcRow := y
		if !topDown {
			srcRow = height - 1 - y
		}
		src := pixels[srcRow*stride:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			dst[x*4+0] = src[x*3+2] // R
			dst[x*4+1] = src[x*3+1] // G
			dst[x*4+2] = src[x*3+0] // B
			dst[x*4+3] = 0xff
		}
	}
	return img, nil
}
