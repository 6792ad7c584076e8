package commands

import (
	"github.com/nullterm/escreceipt/internal/ascii"
	"github.com/nullterm/escreceipt/internal/command"
	"github.com/nullterm/escreceipt/internal/context"
	"github.com/nullterm/escreceipt/internal/model"
	"github.com/nullterm/escreceipt/internal/pixel"
)

// RasterImageDescriptor is GS 'v' '0': a length-prefixed raster bit image
// (m, xL, xH, yL, yH, then row-major bit-packed pixel rows).
var RasterImageDescriptor = &command.Descriptor{
	Name:       "raster-image",
	Prefix:     []byte{ascii.GS, 'v', '0'},
	Kind:       command.KindGraphics,
	DataType:   command.DataCustom,
	NewHandler: func() command.Handler { return &rasterImageHandler{} },
}

type rasterImageHandler struct {
	command.NopHandler

	header   [5]byte
	haveHead int
	widthBytes, height uint32
	pixels   []byte
}

func (h *rasterImageHandler) Push(_ []byte, b byte) (accept, consumed bool) {
	if h.haveHead < len(h.header) {
		h.header[h.haveHead] = b
		h.haveHead++
		if h.haveHead == len(h.header) {
			h.widthBytes = le16(h.header[1], h.header[2])
			h.height = le16(h.header[3], h.header[4])
			if h.widthBytes == 0 || h.height == 0 {
				return false, true
			}
		}
		return true, true
	}
	h.pixels = append(h.pixels, b)
	if uint32(len(h.pixels)) >= h.widthBytes*h.height {
		return false, true
	}
	return true, true
}

func (h *rasterImageHandler) GetGraphics(_ *command.Instance, ctx *context.Context) (model.GraphicsEvent, bool) {
	if h.widthBytes == 0 || h.height == 0 {
		return model.GraphicsEvent{}, false
	}
	mode := h.header[0]
	sx, sy := uint8(1), uint8(1)
	if mode == 1 || mode == 3 || mode == 49 || mode == 52 {
		sx = 2
	}
	if mode == 2 || mode == 3 || mode == 50 || mode == 52 {
		sy = 2
	}
	img := pixel.Image{
		Pixels:    h.pixels,
		W:         h.widthBytes * 8,
		H:         h.height,
		PixelType: pixel.Monochrome,
		ColorIndex: 1,
		StretchX:  sx,
		StretchY:  sy,
		Flow:      pixel.FlowBlock,
		X:         ctx.GetX(),
		Y:         ctx.GetY(),
	}
	return model.GraphicsEvent{Kind: model.GraphicsImage, Image: &img}, true
}

// ColumnBitImageDescriptor is ESC '*': m, nL, nH, then column-major
// bit-packed data, one byte per 8-dot column slice per spec.md §4.3.
var ColumnBitImageDescriptor = &command.Descriptor{
	Name:       "column-bit-image",
	Prefix:     []byte{ascii.ESC, '*'},
	Kind:       command.KindGraphics,
	DataType:   command.DataCustom,
	NewHandler: func() command.Handler { return &columnBitImageHandler{} },
}

type columnBitImageHandler struct {
	command.NopHandler

	header   [3]byte
	haveHead int
	columns  uint32
	data     []byte
}

func columnBytesPerColumn(mode byte) uint32 {
	switch mode {
	case 0, 1:
		return 1
	case 32, 33:
		return 3
	default:
		return 1
	}
}

func (h *columnBitImageHandler) Push(_ []byte, b byte) (accept, consumed bool) {
	if h.haveHead < len(h.header) {
		h.header[h.haveHead] = b
		h.haveHead++
		if h.haveHead == len(h.header) {
			h.columns = le16(h.header[1], h.header[2])
			if h.columns == 0 {
				return false, true
			}
		}
		return true, true
	}
	h.data = append(h.data, b)
	bpc := columnBytesPerColumn(h.header[0])
	if uint32(len(h.data)) >= h.columns*bpc {
		return false, true
	}
	return true, true
}

func (h *columnBitImageHandler) GetGraphics(_ *command.Instance, ctx *context.Context) (model.GraphicsEvent, bool) {
	if h.columns == 0 {
		return model.GraphicsEvent{}, false
	}
	bpc := columnBytesPerColumn(h.header[0])
	dotsPerColumn := bpc * 8
	w, ht, gray := pixel.ColumnToRaster(h.data, false, false, h.columns, dotsPerColumn)
	img := pixel.Image{
		Pixels:    gray,
		W:         w,
		H:         ht,
		PixelType: pixel.MonochromeByte,
		StretchX:  1,
		StretchY:  1,
		Flow:      pixel.FlowInline,
		X:         ctx.GetX(),
		Y:         ctx.GetY(),
	}
	return model.GraphicsEvent{Kind: model.GraphicsImage, Image: &img}, true
}
