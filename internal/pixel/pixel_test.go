package pixel

import (
	"bytes"
	"testing"
)

func TestBitpackedToGrayscaleLength(t *testing.T) {
	cases := []struct {
		w, h uint32
	}{
		{1, 1}, {7, 3}, {8, 4}, {9, 2}, {16, 5}, {17, 1},
	}
	for _, c := range cases {
		rowBytes := rowByteWidth(c.w)
		bits := make([]byte, rowBytes*c.h)
		for i := range bits {
			bits[i] = 0xAA
		}
		out := BitpackedToGrayscale(bits, c.w, c.h)
		if uint32(len(out)) != c.w*c.h {
			t.Fatalf("w=%d h=%d: got length %d, want %d", c.w, c.h, len(out), c.w*c.h)
		}
	}
}

func TestBitUnpackRoundTrip(t *testing.T) {
	w, h := uint32(13), uint32(4)
	rowBytes := rowByteWidth(w)
	src := make([]byte, rowBytes*h)
	for i := range src {
		src[i] = byte(i*37 + 11)
	}
	// Clear the padding bits of each row's last byte so the round trip is exact.
	lastBits := w % 8
	if lastBits == 0 {
		lastBits = 8
	}
	mask := byte(0xFF) << (8 - lastBits)
	for row := uint32(0); row < h; row++ {
		src[row*rowBytes+rowBytes-1] &= mask
	}

	gray := BitpackedToGrayscale(src, w, h)
	back := GrayscaleToBitpacked(gray, w, h)
	if !bytes.Equal(src, back) {
		t.Fatalf("round trip mismatch:\n src=%08b\nback=%08b", src, back)
	}
}

func TestScalePixelsDoublesBothAxes(t *testing.T) {
	w, h := uint32(2), uint32(1)
	in := []byte{10, 20}
	nw, nh, out := ScalePixels(in, w, h, true, true)
	if nw != 4 || nh != 2 {
		t.Fatalf("got %dx%d, want 4x2", nw, nh)
	}
	want := []byte{10, 10, 20, 20, 10, 10, 20, 20}
	if !bytes.Equal(out, want) {
		t.Fatalf("got %v, want %v", out, want)
	}
}

func TestScalePixelsNoScale(t *testing.T) {
	in := []byte{1, 2, 3, 4}
	nw, nh, out := ScalePixels(in, 2, 2, false, false)
	if nw != 2 || nh != 2 {
		t.Fatalf("dimensions changed without scaling")
	}
	if !bytes.Equal(out, in) {
		t.Fatalf("pixels changed without scaling")
	}
}

func TestColumnToRasterDimensions(t *testing.T) {
	// 16-pixel-wide, 8-tall column image (capacity = width*1 byte per
	// column-group since height<=8), arbitrary content.
	w, h := uint32(16), uint32(8)
	data := make([]byte, w)
	for i := range data {
		data[i] = byte(i + 1)
	}
	gotW, gotH, out := ColumnToRaster(data, false, false, w, h)
	if gotW != w || gotH != h {
		t.Fatalf("got %dx%d, want %dx%d", gotW, gotH, w, h)
	}
	if uint32(len(out)) != w*h {
		t.Fatalf("got %d bytes, want %d", len(out), w*h)
	}
}

func TestImageAsGrayscaleMonochromeByte(t *testing.T) {
	img := Image{Pixels: []byte{1, 2, 3}, PixelType: MonochromeByte, W: 3, H: 1}
	out := img.AsGrayscale()
	if !bytes.Equal(out, img.Pixels) {
		t.Fatalf("MonochromeByte should pass through unchanged")
	}
	out[0] = 99
	if img.Pixels[0] == 99 {
		t.Fatalf("AsGrayscale must not alias the source buffer")
	}
}

func TestImageClone(t *testing.T) {
	img := Image{Pixels: []byte{1, 2, 3}}
	clone := img.Clone()
	clone.Pixels[0] = 99
	if img.Pixels[0] == 99 {
		t.Fatalf("Clone must not alias the source pixel buffer")
	}
}
