package model

import "github.com/nullterm/escreceipt/internal/pixel"

// Rectangle is a filled axis-aligned rectangle in device pixels, the unit
// the barcode/2D rasterizer emits per bar/module.
type Rectangle struct {
	X, Y, W, H uint32
	Color      uint8 // render-colors index, resolved by the adapter
}

// GraphicsEventKind tags which field of a GraphicsEvent is populated. Go has
// no tagged union, so GraphicsEvent is a struct with one active field per
// Kind — the capability-set modeling note in spec.md §9 applies here too:
// callers switch on Kind rather than relying on a type hierarchy.
type GraphicsEventKind int

const (
	GraphicsRectangles GraphicsEventKind = iota
	GraphicsBarcode
	GraphicsCode2D
	GraphicsImage
	GraphicsError
)

// GraphicsEvent is what a handler's get_graphics capability produces: one
// of a rectangle batch, a barcode, a 2D code, an image, or a recoverable
// error message.
type GraphicsEvent struct {
	Kind GraphicsEventKind

	Rectangles []Rectangle
	Barcode    *Barcode
	Code2D     *Code2D
	Image      *pixel.Image
	Error      string
}

// NewGraphicsError builds an Error-kind event; get_graphics handlers use
// this instead of returning a Go error so a bad barcode length doesn't
// abort the rest of the stream.
func NewGraphicsError(msg string) GraphicsEvent {
	return GraphicsEvent{Kind: GraphicsError, Error: msg}
}

// NewRectangles builds a Rectangles-kind event for barcode/2D rasterization.
func NewRectangles(rects []Rectangle) GraphicsEvent {
	return GraphicsEvent{Kind: GraphicsRectangles, Rectangles: rects}
}
