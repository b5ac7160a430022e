package bmpng

import (
	"bytes"
	stdzlib "compress/zlib"
	"errors"
	"io"
	"testing"

	"github.com/deepteams/bmpng/internal/zlib"
)

func TestCompress_Decompress_Stored(t *testing.T) {
	input := []byte("round trip through the public API")
	out, err := Compress(input, &CompressOptions{Level: NoCompression})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	got, err := Decompress(out, nil)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, input) {
		t.Fatal("round trip mismatch")
	}
}

func TestCompress_NilOptions(t *testing.T) {
	input := bytes.Repeat([]byte("default options "), 100)
	out, err := Compress(input, nil)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	zr, err := stdzlib.NewReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("reference reader: %v", err)
	}
	got, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("reference inflate: %v", err)
	}
	if !bytes.Equal(got, input) {
		t.Fatal("round trip mismatch")
	}
}

func TestCompress_WrapsSentinelErrors(t *testing.T) {
	if _, err := Compress(nil, &CompressOptions{Level: 42}); !errors.Is(err, zlib.ErrLevel) {
		t.Fatalf("err = %v, want wrapped zlib.ErrLevel", err)
	}
	if _, err := Decompress([]byte{0x78, 0x20, 0, 0, 0, 0}, nil); !errors.Is(err, zlib.ErrDictionary) {
		t.Fatalf("err = %v, want wrapped zlib.ErrDictionary", err)
	}
}

func TestInfo_BMP(t *testing.T) {
	img := testImage(12, 8)
	var buf bytes.Buffer
	if err := EncodeBMP(&buf, img); err != nil {
		t.Fatalf("EncodeBMP: %v", err)
	}
	info, err := Info(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Format != "bmp" || info.Width != 12 || info.Height != 8 {
		t.Fatalf("info = %+v, want bmp 12x8", info)
	}
	if info.BitsPerPixel != 24 {
		t.Fatalf("bits per pixel = %d, want 24", info.BitsPerPixel)
	}
}

func TestInfo_PNG(t *testing.T) {
	img := testImage(5, 9)
	var buf bytes.Buffer
	if err := Encode(&buf, img, nil); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	info, err := Info(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Format != "png" || info.Width != 5 || info.Height != 9 {
		t.Fatalf("info = %+v, want png 5x9", info)
	}
	if info.BitDepth != 8 || info.ColorType != 2 {
		t.Fatalf("depth/color = %d/%d, want 8/2", info.BitDepth, info.ColorType)
	}
	if len(info.ChunkTypes) < 3 || info.ChunkTypes[0] != "IHDR" {
		t.Fatalf("chunks = %v", info.ChunkTypes)
	}
}

func TestInfo_UnknownFormat(t *testing.T) {
	if _, err := Info(bytes.NewReader([]byte("GIF89a...."))); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestDecodeBMP_RoundTrip(t *testing.T) {
	img := testImage(21, 13)
	var buf bytes.Buffer
	if err := EncodeBMP(&buf, img); err != nil {
		t.Fatalf("EncodeBMP: %v", err)
	}
	got, err := DecodeBMP(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeBMP: %v", err)
	}
	samePixels(t, img, got)

	cfg, err := DecodeBMPConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeBMPConfig: %v", err)
	}
	if cfg.Width != 21 || cfg.Height != 13 {
		t.Fatalf("config = %dx%d, want 21x13", cfg.Width, cfg.Height)
	}
}
