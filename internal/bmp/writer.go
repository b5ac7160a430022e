package bmp

import (
	"encoding/binary"
	"image"
	"io"
)

// BMP writing: a 24-bpp uncompressed bottom-up file with the same
// header layout the reader accepts.

// Encode writes img as a 24-bpp BMP. Alpha is discarded.
func Encode(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	stride := rowStride(width)
	dataSize := stride * height
	offset := fileHeaderSize + infoHeaderSize

	hdr := make([]byte, offset)
	hdr[0], hdr[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(hdr[2:], uint32(offset+dataSize))
	binary.LittleEndian.PutUint32(hdr[10:], uint32(offset))

	dib := hdr[fileHeaderSize:]
	binary.LittleEndian.PutUint32(dib[0:], infoHeaderSize)
	binary.LittleEndian.PutUint32(dib[4:], uint32(width))
	binary.LittleEndian.PutUint32(dib[8:], uint32(height))
	binary.LittleEndian.PutUint16(dib[12:], 1)
	binary.LittleEndian.PutUint16(dib[14:], 24)
	binary.LittleEndian.PutUint32(dib[20:], uint32(dataSize))

	if _, err := w.Write(hdr); err != nil {
		return err
	}

	row := make([]byte, stride)
	for y := height - 1; y >= 0; y-- {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			row[x*3+0] = byte(b >> 8)
			row[x*3+1] = byte(g >> 8)
			row[x*3+2] = byte(r >> 8)
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
