// Package commands is the command catalog (30 descriptors, see Catalog)
// plus the default text descriptor: one command.Descriptor + command.Handler pair per recognized
// ESC/POS command, grounded on the teacher's per-dialect prefix-switch
// structure (gromey-thermalize/cmd_escape.go, cmd_star.go) but inverted to
// parse rather than build, and on original_source/thermal_parser for the
// handler semantics spec.md distills.
package commands

import (
	"fmt"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/codabar"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/code93"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/qr"
	"github.com/boombuler/barcode/twooffive"

	"github.com/nullterm/escreceipt/internal/model"
)

// encodeErr is returned by encode1D/encodeQR when the wired library can't
// produce a symbol for this payload — either because the symbology isn't
// covered by github.com/boombuler/barcode (SPEC_FULL.md §4.9's named
// boundary) or the library itself rejected the payload (bad checksum
// digits, wrong length for a fixed-width symbology it does support).
type encodeErr struct {
	kind model.BarcodeKind
	msg  string
}

func (e *encodeErr) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

// encode1D renders a 1D symbology to a module sequence (one byte per
// horizontal module: 0 = gap, 1 = bar) by rasterizing a 1-pixel-tall
// barcode.Barcode from github.com/boombuler/barcode and reading its first
// scanline pixel by pixel, one module per pixel.
func encode1D(kind model.BarcodeKind, payload string) ([]byte, error) {
	var bc barcode.Barcode
	var err error

	switch kind {
	case model.BarcodeCode39:
		bc, err = code39.Encode(payload, false, true)
	case model.BarcodeCode93:
		bc, err = code93.Encode(payload, true, true)
	case model.BarcodeCode128:
		bc, err = code128.Encode(payload)
	case model.BarcodeCodabar:
		bc, err = codabar.Encode(payload)
	case model.BarcodeITF:
		bc, err = twooffive.Encode(payload, true)
	case model.BarcodeEAN13, model.BarcodeEAN8, model.BarcodeUPCA:
		bc, err = ean.Encode(payload)
	default:
		return nil, &encodeErr{kind: kind, msg: "symbology not covered by the wired barcode library"}
	}
	if err != nil {
		return nil, &encodeErr{kind: kind, msg: err.Error()}
	}

	points := make([]byte, bc.Bounds().Dx())
	for x := 0; x < bc.Bounds().Dx(); x++ {
		_, _, _, a := bc.At(x, 0).RGBA()
		if a != 0 && isBlack(bc, x) {
			points[x] = 1
		}
	}
	return points, nil
}

func isBlack(bc barcode.Barcode, x int) bool {
	r, g, b, _ := bc.At(x, 0).RGBA()
	return r == 0 && g == 0 && b == 0
}

// encodeQR renders a QR payload to a row-major module matrix via
// github.com/boombuler/barcode/qr, the one 2D symbology covered by the
// wired library per SPEC_FULL.md §4.9.
func encodeQR(payload string) (modules []byte, width uint32, err error) {
	code, err := qr.Encode(payload, qr.M, qr.Auto)
	if err != nil {
		return nil, 0, &encodeErr{kind: model.BarcodeUnknown, msg: err.Error()}
	}
	b := code.Bounds()
	w := b.Dx()
	h := b.Dy()
	modules = make([]byte, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := code.At(x, y).RGBA()
			if r == 0 && g == 0 && bl == 0 {
				modules = append(modules, 1)
			} else {
				modules = append(modules, 0)
			}
		}
	}
	return modules, uint32(w), nil
}
