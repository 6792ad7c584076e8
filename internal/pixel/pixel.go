// Package pixel implements the graphics primitives shared by every command
// handler and the layout engine: pixel-format conversions between
// bit-packed monochrome data and byte-per-pixel grayscale, column-to-raster
// rotation and flip for ESC * column bit images, and nearest-neighbor pixel
// doubling for the scaling modes ESC/POS raster commands support.
//
// None of this depends on an image-decoding library: the wire format is
// already a flat byte buffer and the printer's bit order (MSB-first) is
// fixed by the protocol, not negotiated, so hand-rolled bit twiddling (as
// in the teacher's image.go) is the idiomatic approach here too.
package pixel

// PixelType classifies how Image.Pixels should be interpreted.
type PixelType int

const (
	// MonochromeByte is one grayscale byte per pixel (0 or 255).
	MonochromeByte PixelType = iota
	// Monochrome is bit-packed, one color plane, ColorIndex selects the ink.
	Monochrome
	// MultipleTone is bit-packed across PlaneCount color planes.
	MultipleTone
	// Unknown pixel data the handler could not classify.
	Unknown
)

// Flow describes how an Image participates in text layout.
type Flow int

const (
	// FlowInline advances the x cursor, staying on the current text line.
	FlowInline Flow = iota
	// FlowBlock occupies its own line, resetting x and advancing y.
	FlowBlock
	// FlowNone is placed at the current position without cursor movement.
	FlowNone
)

// Image is a decoded bit-image, raster-image or stored-graphics payload.
//
// Invariant: for Monochrome/MultipleTone pixel types Pixels is bit-packed
// MSB-first, row-padded so each row occupies ceil(W/8) bytes. AsGrayscale
// always returns exactly W*H bytes regardless of pixel type.
type Image struct {
	Pixels     []byte
	W, H       uint32
	PixelType  PixelType
	ColorIndex uint8
	PlaneCount uint8
	StretchX   uint8
	StretchY   uint8
	Flow       Flow
	UpsideDown bool
	X, Y       uint32
}

// Clone returns a deep copy so a stored image can be handed out to multiple
// print commands without sharing a mutable pixel buffer.
func (img Image) Clone() Image {
	out := img
	out.Pixels = append([]byte(nil), img.Pixels...)
	return out
}

// AsGrayscale renders the image as one grayscale byte per pixel (0 = black,
// 255 = white), unpacking bit-packed pixel types if necessary.
func (img Image) AsGrayscale() []byte {
	if img.PixelType == MonochromeByte {
		out := make([]byte, len(img.Pixels))
		copy(out, img.Pixels)
		return out
	}
	return BitpackedToGrayscale(img.Pixels, img.W, img.H)
}

// BitpackedToGrayscale unpacks MSB-first bit-packed rows (row-padded to
// ceil(w/8) bytes) into w*h grayscale bytes, 0 where the bit is set
// (printed/black) and 255 where it is clear.
//
// The last byte of every row only contributes w%8 bits (8 if w is a
// multiple of 8); the remaining high bits of that byte are padding and are
// never emitted, which is what keeps the output exactly w*h bytes long for
// any w.
func BitpackedToGrayscale(bits []byte, w, h uint32) []byte {
	if w == 0 || h == 0 {
		return nil
	}
	rowBytes := rowByteWidth(w)
	out := make([]byte, 0, w*h)

	lastRowBits := w % 8
	if lastRowBits == 0 {
		lastRowBits = 8
	}

	for row := uint32(0); row < h; row++ {
		base := row * rowBytes
		for col := uint32(0); col < rowBytes; col++ {
			idx := base + col
			var b byte
			if idx < uint32(len(bits)) {
				b = bits[idx]
			}
			bitsInByte := 8
			if col == rowBytes-1 {
				bitsInByte = int(lastRowBits)
			}
			for n := 0; n < bitsInByte; n++ {
				if b&(1<<(7-uint(n))) != 0 {
					out = append(out, 0)
				} else {
					out = append(out, 255)
				}
			}
		}
	}
	return out
}

// GrayscaleToBitpacked is the inverse of BitpackedToGrayscale: a grayscale
// byte < 128 packs as a set bit (printed), >= 128 as a clear bit. Used by
// TestBitUnpackRoundTrip to round-trip bit images.
func GrayscaleToBitpacked(gray []byte, w, h uint32) []byte {
	if w == 0 || h == 0 {
		return nil
	}
	rowBytes := rowByteWidth(w)
	out := make([]byte, rowBytes*h)

	for row := uint32(0); row < h; row++ {
		for col := uint32(0); col < w; col++ {
			g := gray[row*w+col]
			if g < 128 {
				byteIdx := row*rowBytes + col/8
				out[byteIdx] |= 1 << (7 - (col % 8))
			}
		}
	}
	return out
}

func rowByteWidth(w uint32) uint32 {
	return (w + 7) / 8
}

// ColumnToRaster converts ESC * column-major bit-packed bar data (one
// column per byte-group, each byte's most significant bit being its top
// dot, passed through unchanged by the handler) into row-major raster
// grayscale, rotating
// 90 degrees clockwise and flipping horizontally to correct the column
// encoding, then optionally 2x-scaling either axis.
//
// finalWidth/finalHeight describe the logical (pre-scale) image dimensions
// that the bit-packed column data was sized for.
func ColumnToRaster(cols []byte, stretchX, stretchY bool, finalWidth, finalHeight uint32) (w, h uint32, out []byte) {
	// The column data is bit-packed with height as a "row" of bits per
	// column, so unpack against height first.
	unpacked := BitpackedToGrayscale(cols, finalHeight, finalWidth)
	rotated := rotate90Clockwise(unpacked, finalHeight, finalWidth)
	flipped := flipHorizontal(rotated, finalWidth, finalHeight)

	if stretchX || stretchY {
		return ScalePixels(flipped, finalWidth, finalHeight, stretchX, stretchY)
	}
	return finalWidth, finalHeight, flipped
}

func rotate90Clockwise(data []byte, width, height uint32) []byte {
	out := make([]byte, len(data))
	for y := uint32(0); y < height; y++ {
		for x := uint32(0); x < width; x++ {
			srcIdx := y*width + x
			destX := height - 1 - y
			destY := x
			destIdx := destY*height + destX
			if int(srcIdx) < len(data) && int(destIdx) < len(out) {
				out[destIdx] = data[srcIdx]
			}
		}
	}
	return out
}

func flipHorizontal(data []byte, width, height uint32) []byte {
	out := make([]byte, len(data))
	for y := uint32(0); y < height; y++ {
		for x := uint32(0); x < width; x++ {
			srcIdx := y*width + x
			destX := width - 1 - x
			destIdx := y*width + destX
			if int(srcIdx) < len(data) && int(destIdx) < len(out) {
				out[destIdx] = data[srcIdx]
			}
		}
	}
	return out
}

// ScalePixels nearest-neighbor doubles a grayscale buffer along the
// requested axes: each input pixel duplicates once per selected axis.
func ScalePixels(bytes []byte, origW, origH uint32, scaleX, scaleY bool) (newW, newH uint32, out []byte) {
	newW, newH = origW, origH
	if scaleX {
		newW *= 2
	}
	if scaleY {
		newH *= 2
	}

	out = make([]byte, 0, newW*newH)
	for y := uint32(0); y < origH; y++ {
		rowStart := y * origW
		rowEnd := rowStart + origW
		if rowEnd > uint32(len(bytes)) {
			rowEnd = uint32(len(bytes))
		}
		row := bytes[rowStart:rowEnd]

		scaledRow := make([]byte, 0, newW)
		for _, p := range row {
			scaledRow = append(scaledRow, p)
			if scaleX {
				scaledRow = append(scaledRow, p)
			}
		}
		out = append(out, scaledRow...)
		if scaleY {
			out = append(out, scaledRow...)
		}
	}
	return newW, newH, out
}
