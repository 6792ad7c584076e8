package commands

import (
	"github.com/nullterm/escreceipt/internal/ascii"
	"github.com/nullterm/escreceipt/internal/command"
	"github.com/nullterm/escreceipt/internal/context"
	"github.com/nullterm/escreceipt/internal/model"
	"github.com/nullterm/escreceipt/internal/pixel"
)

// Large-graphics function selectors, spec.md §4.3: GS '(' 'L' and GS '8' 'L'
// share one envelope family (a function byte picks the subcommand) but
// differ in their length header width, matching the real ESC/POS protocol
// — GS ( L carries a 2-byte pL/pH length, GS 8 L a 4-byte p1..p4 length.
const (
	largeGraphicsFnDefineRaster = 48 // download a raster image into RAM storage, keyed by (kc1, kc2)
	largeGraphicsFnPrintStored  = 50 // print the stored image named by (kc1, kc2)
	largeGraphicsFnClearBuffer  = 52 // clear the print buffer's staged graphics
)

// LargeGraphicsDescriptor is GS '(' 'L': pL pH fn m [params], a
// 2-byte little-endian length prefix ahead of the function/params body.
var LargeGraphicsDescriptor = &command.Descriptor{
	Name:       "large-graphics",
	Prefix:     []byte{ascii.GS, '(', 'L'},
	Kind:       command.KindGraphics,
	DataType:   command.DataSubcommand,
	NewHandler: func() command.Handler { return &largeGraphicsHandler{} },
}

// StoredGraphicsDescriptor is GS '8' 'L': identical function/params body to
// GS ( L, but p1 p2 p3 p4 is a 4-byte little-endian length instead of 2.
var StoredGraphicsDescriptor = &command.Descriptor{
	Name:       "stored-graphics-download",
	Prefix:     []byte{ascii.GS, '8', 'L'},
	Kind:       command.KindGraphics,
	DataType:   command.DataSubcommand,
	NewHandler: func() command.Handler { return &largeGraphicsHandler{lenBytes: 4} },
}

// largeGraphicsHandler accumulates the length-prefixed envelope shared by
// GS ( L and GS 8 L, then dispatches on the function byte once the whole
// body has arrived, mirroring code2DHandler's length+fn+m+params shape.
type largeGraphicsHandler struct {
	command.NopHandler

	lenBytes int // 2 for GS ( L, 4 for GS 8 L; defaults to 2 (zero value)

	lenBuf  []byte
	haveLen bool
	size    int
	buf     []byte
}

func (h *largeGraphicsHandler) wantLenBytes() int {
	if h.lenBytes == 0 {
		return 2
	}
	return h.lenBytes
}

func (h *largeGraphicsHandler) Push(_ []byte, b byte) (accept, consumed bool) {
	if !h.haveLen {
		h.lenBuf = append(h.lenBuf, b)
		if len(h.lenBuf) < h.wantLenBytes() {
			return true, true
		}
		h.haveLen = true
		h.size = 0
		for i := len(h.lenBuf) - 1; i >= 0; i-- {
			h.size = h.size<<8 | int(h.lenBuf[i])
		}
		if h.size == 0 {
			return false, true
		}
		return true, true
	}
	h.buf = append(h.buf, b)
	if len(h.buf) >= h.size {
		return false, true
	}
	return true, true
}

// fields splits the accumulated body into its function byte, its
// (unused here, but kept for symmetry with code2DHandler) m byte, and the
// remaining parameters.
func (h *largeGraphicsHandler) fields() (fn, m byte, params []byte) {
	if len(h.buf) == 0 {
		return 0, 0, nil
	}
	fn = h.buf[0]
	if len(h.buf) > 1 {
		m = h.buf[1]
	}
	if len(h.buf) > 2 {
		params = h.buf[2:]
	}
	return
}

func (h *largeGraphicsHandler) ApplyContext(_ *command.Instance, ctx *context.Context) {
	fn, _, params := h.fields()
	switch fn {
	case largeGraphicsFnDefineRaster:
		ref, img, ok := decodeRasterWithRef(params)
		if !ok {
			return
		}
		ctx.Graphics.StoredGraphics[ref] = img
		ctx.Graphics.BufferGraphics = append(ctx.Graphics.BufferGraphics, img)
	case largeGraphicsFnClearBuffer:
		ctx.Graphics.BufferGraphics = nil
	}
}

// decodeRasterWithRef parses the 8-byte raster header spec.md §4.3 defines
// for "define raster image with reference (kc1, kc2)": a (pixel-type
// selector), kc1, kc2, b (color-plane count), x1, x2, y1, y2 (little-endian
// width/height in dots), then bit-packed pixel rows — grounded on
// thermal_parser/src/graphics.rs's Image::from_raster_data_with_ref, minus
// the header's trailing unused byte spec.md's 8-byte count omits.
func decodeRasterWithRef(params []byte) (context.ImageRef, pixel.Image, bool) {
	const headerLen = 8
	if len(params) < headerLen {
		return context.ImageRef{}, pixel.Image{}, false
	}
	a, kc1, kc2, b := params[0], params[1], params[2], params[3]
	width := le16(params[4], params[5])
	height := le16(params[6], params[7])
	if width == 0 || height == 0 {
		return context.ImageRef{}, pixel.Image{}, false
	}

	ptype := pixel.Unknown
	switch a {
	case 48:
		ptype = pixel.Monochrome
	case 52:
		ptype = pixel.MultipleTone
	}

	img := pixel.Image{
		Pixels:     append([]byte(nil), params[headerLen:]...),
		W:          width,
		H:          height,
		PixelType:  ptype,
		ColorIndex: 1,
		PlaneCount: b,
		Flow:       pixel.FlowBlock,
	}
	ref := context.ImageRef{KC1: kc1, KC2: kc2, Storage: context.StorageRAM}
	return ref, img, true
}

func (h *largeGraphicsHandler) GetGraphics(_ *command.Instance, ctx *context.Context) (model.GraphicsEvent, bool) {
	fn, _, params := h.fields()
	switch fn {
	case largeGraphicsFnPrintStored:
		if len(params) < 2 {
			return model.NewGraphicsError("large-graphics: print-stored requires kc1, kc2"), true
		}
		ref := context.ImageRef{KC1: params[0], KC2: params[1], Storage: context.StorageRAM}
		stored, ok := ctx.Graphics.StoredGraphics[ref]
		if !ok {
			return model.NewGraphicsError("large-graphics: no stored image for kc1,kc2"), true
		}
		img := stored.Clone()
		img.Flow = pixel.FlowBlock
		img.X = ctx.GetX()
		img.Y = ctx.GetY()
		return model.GraphicsEvent{Kind: model.GraphicsImage, Image: &img}, true
	case largeGraphicsFnDefineRaster, largeGraphicsFnClearBuffer:
		return model.GraphicsEvent{}, false
	default:
		return model.NewGraphicsError("large-graphics: unrecognized function byte"), true
	}
}

func (h *largeGraphicsHandler) GetDeviceCommands(_ *command.Instance, _ *context.Context) []command.DeviceCommand {
	fn, _, _ := h.fields()
	if fn == largeGraphicsFnClearBuffer {
		return []command.DeviceCommand{{Kind: command.DeviceClearBufferGraphics}}
	}
	return nil
}
