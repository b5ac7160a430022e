package bmp

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"io"
	"math/rand"
	"testing"

	xbmp "golang.org/x/image/bmp"
)

// testImage builds a deterministic opaque RGBA image.
func testImage(width, height int) *image.RGBA {
	rng := rand.New(rand.NewSource(int64(width*1000 + height)))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: byte(rng.Intn(256)),
				G: byte(rng.Intn(256)),
				B: byte(rng.Intn(256)),
				A: 0xff,
			})
		}
	}
	return img
}

func samePixels(t *testing.T, a, b image.Image) {
	t.Helper()
	if a.Bounds() != b.Bounds() {
		t.Fatalf("bounds differ: %v vs %v", a.Bounds(), b.Bounds())
	}
	bounds := a.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ar, ag, ab, _ := a.At(x, y).RGBA()
			br, bg, bb, _ := b.At(x, y).RGBA()
			if ar != br || ag != bg || ab != bb {
				t.Fatalf("pixel (%d,%d) differs: %v vs %v", x, y, a.At(x, y), b.At(x, y))
			}
		}
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	// Widths chosen to exercise every row padding remainder.
	sizes := []struct{ w, h int }{
		{1, 1}, {2, 2}, {3, 2}, {4, 4}, {5, 3}, {17, 9},
	}
	for _, sz := range sizes {
		img := testImage(sz.w, sz.h)
		var buf bytes.Buffer
		if err := Encode(&buf, img); err != nil {
			t.Fatalf("%dx%d: Encode: %v", sz.w, sz.h, err)
		}
		got, err := Decode(buf.Bytes())
		if err != nil {
			t.Fatalf("%dx%d: Decode: %v", sz.w, sz.h, err)
		}
		samePixels(t, img, got)
	}
}

func TestDecode_ExternalEncoder(t *testing.T) {
	// Files produced by golang.org/x/image/bmp (24 bpp for opaque
	// images) must decode identically.
	img := testImage(13, 7)
	var buf bytes.Buffer
	if err := xbmp.Encode(&buf, img); err != nil {
		t.Fatalf("x/image encode: %v", err)
	}
	got, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	samePixels(t, img, got)
}

func TestEncode_ExternalDecoder(t *testing.T) {
	img := testImage(11, 6)
	var buf bytes.Buffer
	if err := Encode(&buf, img); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := xbmp.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("x/image decode: %v", err)
	}
	samePixels(t, img, got)
}

func TestDecode_TopDown(t *testing.T) {
	// Width 4 avoids row padding, so flipping to top-down is just a row
	// reorder plus a negated height.
	img := testImage(4, 2)
	var buf bytes.Buffer
	if err := Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	data := append([]byte(nil), buf.Bytes()...)

	negHeight := int32(-2)
	binary.LittleEndian.PutUint32(data[fileHeaderSize+8:], uint32(negHeight))
	offset := fileHeaderSize + infoHeaderSize
	stride := rowStride(4)
	row0 := append([]byte(nil), data[offset:offset+stride]...)
	copy(data[offset:], data[offset+stride:offset+2*stride])
	copy(data[offset+stride:], row0)

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	samePixels(t, img, got)
}

func TestDecodeConfig(t *testing.T) {
	img := testImage(9, 4)
	var buf bytes.Buffer
	if err := Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	cfg, err := DecodeConfig(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 9 || cfg.Height != 4 {
		t.Fatalf("config = %dx%d, want 9x4", cfg.Width, cfg.Height)
	}
}

func TestDecode_Errors(t *testing.T) {
	img := testImage(4, 4)
	var buf bytes.Buffer
	if err := Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	good := buf.Bytes()

	t.Run("magic", func(t *testing.T) {
		bad := append([]byte(nil), good...)
		bad[0] = 'X'
		if _, err := Decode(bad); err != ErrMagic {
			t.Fatalf("err = %v, want ErrMagic", err)
		}
	})

	t.Run("bpp", func(t *testing.T) {
		bad := append([]byte(nil), good...)
		binary.LittleEndian.PutUint16(bad[fileHeaderSize+14:], 32)
		if _, err := Decode(bad); err != ErrUnsupported {
			t.Fatalf("err = %v, want ErrUnsupported", err)
		}
	})

	t.Run("compression-jpeg", func(t *testing.T) {
		bad := append([]byte(nil), good...)
		binary.LittleEndian.PutUint32(bad[fileHeaderSize+16:], biJPEG)
		if _, err := Decode(bad); err != ErrUnsupported {
			t.Fatalf("err = %v, want ErrUnsupported", err)
		}
	})

	t.Run("dib-size", func(t *testing.T) {
		bad := append([]byte(nil), good...)
		binary.LittleEndian.PutUint32(bad[fileHeaderSize:], 124)
		if _, err := Decode(bad); err != ErrHeader {
			t.Fatalf("err = %v, want ErrHeader", err)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		if _, err := Decode(good[:len(good)-5]); err != io.ErrUnexpectedEOF {
			t.Fatalf("err = %v, want ErrUnexpectedEOF", err)
		}
	})
}
