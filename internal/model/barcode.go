package model

import "github.com/nullterm/escreceipt/internal/context"

// BarcodeKind is the GS 'k' type selector's resolved symbology, merging the
// legacy (0-6) and extended (65+) selector ranges onto one name space.
type BarcodeKind int

const (
	BarcodeUPCA BarcodeKind = iota
	BarcodeUPCE
	BarcodeEAN13
	BarcodeEAN8
	BarcodeCode39
	BarcodeITF
	BarcodeCodabar
	BarcodeCode93
	BarcodeCode128
	BarcodeGS1_128
	BarcodeDataBarOmnidirectional
	BarcodeDataBarTruncated
	BarcodeDataBarLimited
	BarcodeDataBarExpanded
	BarcodeCode128Auto
	BarcodeUnknown
)

// String returns the symbology's human-readable name, used in GraphicsError
// messages and debug traces.
func (k BarcodeKind) String() string {
	switch k {
	case BarcodeUPCA:
		return "UPC-A"
	case BarcodeUPCE:
		return "UPC-E"
	case BarcodeEAN13:
		return "EAN-13"
	case BarcodeEAN8:
		return "EAN-8"
	case BarcodeCode39:
		return "Code39"
	case BarcodeITF:
		return "ITF"
	case BarcodeCodabar:
		return "Codabar"
	case BarcodeCode93:
		return "Code93"
	case BarcodeCode128:
		return "Code128"
	case BarcodeGS1_128:
		return "GS1-128"
	case BarcodeDataBarOmnidirectional:
		return "GS1 DataBar Omnidirectional"
	case BarcodeDataBarTruncated:
		return "GS1 DataBar Truncated"
	case BarcodeDataBarLimited:
		return "GS1 DataBar Limited"
	case BarcodeDataBarExpanded:
		return "GS1 DataBar Expanded"
	case BarcodeCode128Auto:
		return "Code128Auto"
	default:
		return "Unknown"
	}
}

// BarcodeKindFromSelector maps the raw GS 'k' selector byte to a
// BarcodeKind, per spec §4.3's merged 0-6/65-85 table.
func BarcodeKindFromSelector(b byte) BarcodeKind {
	switch b {
	case 0, 65:
		return BarcodeUPCA
	case 1, 66:
		return BarcodeUPCE
	case 2, 67:
		return BarcodeEAN13
	case 3, 68:
		return BarcodeEAN8
	case 4, 69:
		return BarcodeCode39
	case 5, 70:
		return BarcodeITF
	case 6, 71:
		return BarcodeCodabar
	case 72:
		return BarcodeCode93
	case 73:
		return BarcodeCode128
	case 80:
		return BarcodeGS1_128
	case 81:
		return BarcodeDataBarOmnidirectional
	case 82:
		return BarcodeDataBarTruncated
	case 83:
		return BarcodeDataBarLimited
	case 84:
		return BarcodeDataBarExpanded
	case 85:
		return BarcodeCode128Auto
	default:
		return BarcodeUnknown
	}
}

// UsesNulTerminatedPayload reports whether this selector's payload is read
// until a trailing NUL (the legacy 0-6 selector range) rather than a
// leading explicit-length byte.
func (k BarcodeKind) UsesNulTerminatedPayload(selector byte) bool {
	return selector <= 6
}

// Barcode is an encoded 1D symbol ready for rasterization.
type Barcode struct {
	Kind        BarcodeKind
	Points      []byte // one byte per horizontal module: 0=gap, >0=bar
	PointWidth  uint8
	PointHeight uint8
	HRI         context.HRIPlacement
	HRIText     TextSpan
}

// ValidateDataLength checks a barcode payload length against the per-kind
// rules spec §4.3 and §8 require, returning false (and never panicking) for
// out-of-range lengths rather than accepting arbitrary payloads.
func ValidateDataLength(kind BarcodeKind, n int) bool {
	switch kind {
	case BarcodeUPCA:
		return n == 11 || n == 12
	case BarcodeEAN13:
		return n == 12 || n == 13
	case BarcodeEAN8:
		return n == 7 || n == 8
	case BarcodeUPCE:
		return n == 6 || n == 7 || n == 8 || n == 11 || n == 12
	case BarcodeDataBarOmnidirectional, BarcodeDataBarTruncated, BarcodeDataBarLimited:
		return n == 13
	case BarcodeCode128, BarcodeGS1_128, BarcodeDataBarExpanded:
		return n > 1
	case BarcodeCode39, BarcodeCode128Auto:
		return n > 0
	case BarcodeCodabar, BarcodeITF:
		return n > 2
	case BarcodeCode93:
		return n > 0
	default:
		return false
	}
}
