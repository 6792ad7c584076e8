package layout

import (
	"github.com/nullterm/escreceipt/internal/context"
	"github.com/nullterm/escreceipt/internal/model"
)

// RasterizeBarcode walks a barcode's module sequence left to right,
// emitting a filled Rectangle per bar (skipping gaps), starting at the x
// offset the active justification resolves for the bar's total pixel
// width, per spec.md §4.5.
func RasterizeBarcode(renderWidth uint32, justify context.Justify, b model.Barcode, y uint32) (rects []model.Rectangle, totalWidth uint32) {
	totalWidth = uint32(len(b.Points)) * uint32(b.PointWidth)
	x := context.JustifyOffset(renderWidth, totalWidth, justify)
	for _, p := range b.Points {
		if p != 0 {
			rects = append(rects, model.Rectangle{
				X: x, Y: y, W: uint32(b.PointWidth), H: uint32(b.PointHeight), Color: 1,
			})
		}
		x += uint32(b.PointWidth)
	}
	return rects, totalWidth
}

// RasterizeCode2D walks a 2D symbol's module matrix row-major, emitting a
// filled Rectangle per set module. Modules that would extend past
// x0+renderWidth are silently skipped rather than wrapped to a new row,
// per spec.md §4.5.
func RasterizeCode2D(renderWidth uint32, c model.Code2D, x0, y0 uint32) (rects []model.Rectangle, totalHeight uint32) {
	h := c.Height()
	for row := uint32(0); row < h; row++ {
		x := x0
		y := y0 + row*uint32(c.PointH)
		for col := uint32(0); col < c.Width; col++ {
			idx := row*c.Width + col
			if idx >= uint32(len(c.Modules)) {
				break
			}
			if x+uint32(c.PointW) > x0+renderWidth {
				x += uint32(c.PointW)
				continue
			}
			if c.Modules[idx] != 0 {
				rects = append(rects, model.Rectangle{
					X: x, Y: y, W: uint32(c.PointW), H: uint32(c.PointH), Color: 1,
				})
			}
			x += uint32(c.PointW)
		}
	}
	return rects, h * uint32(c.PointH)
}

// HRIBefore returns the HRI text span to flush before the bars for
// Above/Both placements, or nil otherwise.
func HRIBefore(b model.Barcode) []model.TextSpan {
	if b.HRI == context.HRIAbove || b.HRI == context.HRIBoth {
		return []model.TextSpan{b.HRIText}
	}
	return nil
}

// HRIAfter returns the HRI text span to flush after the bars for
// Below/Both placements, or nil otherwise.
func HRIAfter(b model.Barcode) []model.TextSpan {
	if b.HRI == context.HRIBelow || b.HRI == context.HRIBoth {
		return []model.TextSpan{b.HRIText}
	}
	return nil
}
