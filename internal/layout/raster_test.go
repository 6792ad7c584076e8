package layout

import (
	"testing"

	"github.com/nullterm/escreceipt/internal/context"
	"github.com/nullterm/escreceipt/internal/model"
)

func TestRasterizeBarcodeSkipsGapsAndCentersByJustify(t *testing.T) {
	b := model.Barcode{
		Points:      []byte{0, 1, 0, 1, 1},
		PointWidth:  2,
		PointHeight: 10,
	}
	rects, total := RasterizeBarcode(100, context.JustifyCenter, b, 5)
	if total != 10 {
		t.Fatalf("total width = %d, want 10", total)
	}
	if len(rects) != 3 {
		t.Fatalf("got %d rectangles, want 3 (one per set module)", len(rects))
	}
	offset := context.JustifyOffset(100, total, context.JustifyCenter)
	if rects[0].X != offset+2 { // module index 1 (second module, width 2 each)
		t.Fatalf("first rect x = %d, want %d", rects[0].X, offset+2)
	}
}

func TestRasterizeCode2DSkipsModulesPastAvailableWidth(t *testing.T) {
	c := model.Code2D{
		Modules: []byte{1, 1, 1},
		Width:   3,
		PointW:  10,
		PointH:  10,
	}
	// Only 15px available: module 0 fits (0-10), module 1 partially
	// exceeds (10-20 > 15) so it's skipped, module 2 also skipped.
	rects, height := RasterizeCode2D(15, c, 0, 0)
	if len(rects) != 1 {
		t.Fatalf("got %d rectangles, want 1 (only the module fully within width)", len(rects))
	}
	if height != 10 {
		t.Fatalf("height = %d, want 10", height)
	}
}

func TestHRIPlacement(t *testing.T) {
	hri := model.TextSpan{Text: "12345"}
	both := model.Barcode{HRI: context.HRIBoth, HRIText: hri}
	if len(HRIBefore(both)) != 1 || len(HRIAfter(both)) != 1 {
		t.Fatalf("HRIBoth should produce both a before and after span")
	}
	above := model.Barcode{HRI: context.HRIAbove, HRIText: hri}
	if len(HRIBefore(above)) != 1 || len(HRIAfter(above)) != 0 {
		t.Fatalf("HRIAbove should only produce a before span")
	}
	none := model.Barcode{HRI: context.HRINone, HRIText: hri}
	if len(HRIBefore(none)) != 0 || len(HRIAfter(none)) != 0 {
		t.Fatalf("HRINone should produce no spans")
	}
}
