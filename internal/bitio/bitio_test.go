package bitio

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestWriteBits_ReadBits_RoundTrip(t *testing.T) {
	// Write values of every width 0..32, read them back in order.
	type field struct {
		v uint32
		n int
	}
	var fields []field
	rng := rand.New(rand.NewSource(1))
	for n := 0; n <= 32; n++ {
		var mask uint32 = 0xffffffff
		if n < 32 {
			mask = 1<<uint(n) - 1
		}
		fields = append(fields, field{rng.Uint32() & mask, n})
	}

	bw := NewWriter(0)
	for _, f := range fields {
		bw.WriteBits(f.v, f.n)
	}
	data := bw.Finish()

	br := NewReader(data)
	for i, f := range fields {
		got := br.ReadBits(f.n)
		if got != f.v {
			t.Fatalf("field %d: ReadBits(%d) = %#x, want %#x", i, f.n, got, f.v)
		}
	}
	if err := br.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
}

func TestWriteBits_LSBFirstLayout(t *testing.T) {
	// Three bits 0b101, then five bits 0b00111: first write occupies the
	// low bits of the first byte.
	bw := NewWriter(0)
	bw.WriteBits(0b101, 3)
	bw.WriteBits(0b00111, 5)
	data := bw.Finish()
	if len(data) != 1 || data[0] != 0b00111_101 {
		t.Fatalf("data = %#v, want [0x3d]", data)
	}
}

func TestWriteBits_MasksHighBits(t *testing.T) {
	bw := NewWriter(0)
	bw.WriteBits(0xffffffff, 3)
	data := bw.Finish()
	if len(data) != 1 || data[0] != 0x07 {
		t.Fatalf("data = %#v, want [0x07]", data)
	}
}

func TestFinish_PadsWithZeros(t *testing.T) {
	bw := NewWriter(0)
	bw.WriteBits(1, 1)
	data := bw.Finish()
	if len(data) != 1 || data[0] != 0x01 {
		t.Fatalf("data = %#v, want [0x01]", data)
	}
}

func TestWriteBytes_AlignedMatchesDirect(t *testing.T) {
	payload := []byte("aligned byte writes pass through unchanged")
	bw := NewWriter(0)
	bw.WriteBytes(payload)
	if got := bw.Finish(); !bytes.Equal(got, payload) {
		t.Fatalf("aligned WriteBytes = %x, want %x", got, payload)
	}
}

func TestWriteBytes_Unaligned(t *testing.T) {
	// 4 pending bits, then two bytes: each input byte is shifted across
	// the boundary.
	bw := NewWriter(0)
	bw.WriteBits(0b1010, 4)
	bw.WriteBytes([]byte{0xab, 0xcd})
	data := bw.Finish()
	want := []byte{0xba, 0xda, 0x0c}
	if !bytes.Equal(data, want) {
		t.Fatalf("data = %x, want %x", data, want)
	}

	// Reading 4 bits then 2 bytes reproduces the inputs.
	br := NewReader(data)
	if got := br.ReadBits(4); got != 0b1010 {
		t.Fatalf("ReadBits(4) = %#x, want 0xa", got)
	}
	if got := br.ReadBits(8); got != 0xab {
		t.Fatalf("first byte = %#x, want 0xab", got)
	}
	if got := br.ReadBits(8); got != 0xcd {
		t.Fatalf("second byte = %#x, want 0xcd", got)
	}
}

func TestAlignByte_Writer(t *testing.T) {
	bw := NewWriter(0)
	bw.WriteBits(1, 1)
	bw.AlignByte()
	bw.WriteBytes([]byte{0x42})
	data := bw.Finish()
	want := []byte{0x01, 0x42}
	if !bytes.Equal(data, want) {
		t.Fatalf("data = %x, want %x", data, want)
	}
}

func TestBitsWritten(t *testing.T) {
	bw := NewWriter(0)
	if bw.BitsWritten() != 0 {
		t.Fatalf("BitsWritten = %d, want 0", bw.BitsWritten())
	}
	bw.WriteBits(0, 5)
	if bw.BitsWritten() != 5 {
		t.Fatalf("BitsWritten = %d, want 5", bw.BitsWritten())
	}
	bw.WriteBytes([]byte{1, 2, 3})
	if bw.BitsWritten() != 5+24 {
		t.Fatalf("BitsWritten = %d, want 29", bw.BitsWritten())
	}
}

func TestReader_Truncation(t *testing.T) {
	br := NewReader([]byte{0xff})
	if got := br.ReadBits(9); got != 0 {
		t.Fatalf("ReadBits past EOF = %#x, want 0", got)
	}
	if !br.IsEndOfStream() {
		t.Fatal("IsEndOfStream = false after overread")
	}
	if br.Err() != ErrUnexpectedEOF {
		t.Fatalf("Err() = %v, want ErrUnexpectedEOF", br.Err())
	}
}

func TestReader_PeekSkip(t *testing.T) {
	br := NewReader([]byte{0b0101_1100, 0xff})
	if got := br.PeekBits(6); got != 0b011100 {
		t.Fatalf("PeekBits(6) = %#b, want 0b011100", got)
	}
	// Peek does not consume.
	if got := br.ReadBits(2); got != 0b00 {
		t.Fatalf("ReadBits(2) = %#b, want 0b00", got)
	}
	br.SkipBits(6)
	if got := br.ReadBits(8); got != 0xff {
		t.Fatalf("ReadBits(8) = %#x, want 0xff", got)
	}
}

func TestReader_PeekZeroPadsPastEOF(t *testing.T) {
	br := NewReader([]byte{0x81})
	if got := br.PeekBits(16); got != 0x0081 {
		t.Fatalf("PeekBits(16) = %#x, want 0x81", got)
	}
	if br.IsEndOfStream() {
		t.Fatal("peek latched end of stream")
	}
}

func TestReader_ReadBytes(t *testing.T) {
	br := NewReader([]byte{0x01, 0x02, 0x03})
	if got := br.ReadBits(8); got != 0x01 {
		t.Fatalf("ReadBits(8) = %#x", got)
	}
	chunk := br.ReadBytes(2)
	if !bytes.Equal(chunk, []byte{0x02, 0x03}) {
		t.Fatalf("ReadBytes = %x, want 0203", chunk)
	}
	if br.ReadBytes(1) != nil || br.Err() != ErrUnexpectedEOF {
		t.Fatal("expected truncation error reading past end")
	}
}
