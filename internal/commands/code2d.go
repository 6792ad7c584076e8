package commands

import (
	"github.com/nullterm/escreceipt/internal/ascii"
	"github.com/nullterm/escreceipt/internal/command"
	"github.com/nullterm/escreceipt/internal/context"
	"github.com/nullterm/escreceipt/internal/model"
)

// Code2DDescriptor is GS '(' 'k': a length-prefixed subcommand envelope
// (pL pH fn m [params]) carrying a function byte that selects
// configure / store / print, per spec.md §4.3's 2D-code table.
var Code2DDescriptor = &command.Descriptor{
	Name:       "code2d",
	Prefix:     []byte{ascii.GS, '(', 'k'},
	Kind:       command.KindGraphics,
	DataType:   command.DataSubcommand,
	NewHandler: func() command.Handler { return &code2DHandler{} },
}

const (
	code2DFnSetModuleSize = 3
	code2DFnSetErrorLevel = 4
	code2DFnStoreData     = 80
	code2DFnPrintStored   = 81
)

type code2DHandler struct {
	command.NopHandler

	haveLen bool
	size    int
	buf     []byte

	fn byte
	m  byte
}

func (h *code2DHandler) Push(_ []byte, b byte) (accept, consumed bool) {
	if !h.haveLen {
		h.buf = append(h.buf, b)
		if len(h.buf) < 2 {
			return true, true
		}
		h.haveLen = true
		h.size = int(h.buf[0]) | int(h.buf[1])<<8
		h.buf = nil
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

func (h *code2DHandler) fields() (fn, m byte, params []byte) {
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

func (h *code2DHandler) ApplyContext(_ *command.Instance, ctx *context.Context) {
	fn, _, params := h.fields()
	switch fn {
	case code2DFnSetModuleSize:
		if len(params) > 0 {
			ctx.Code2D.ModuleSize = params[0]
		}
	case code2DFnSetErrorLevel:
		if len(params) > 0 {
			ctx.Code2D.ErrorLevel = params[0]
		}
	case code2DFnStoreData:
		ctx.Code2D.Staged = append([]byte(nil), params...)
	}
}

func (h *code2DHandler) GetGraphics(_ *command.Instance, ctx *context.Context) (model.GraphicsEvent, bool) {
	fn, _, _ := h.fields()
	switch fn {
	case code2DFnSetModuleSize, code2DFnSetErrorLevel, code2DFnStoreData:
		return model.GraphicsEvent{}, false
	case code2DFnPrintStored:
		// falls through to the print-stored path below
	default:
		return model.NewGraphicsError("code2d: unrecognized function byte"), true
	}
	payload := ctx.Code2D.Staged
	if len(payload) == 0 {
		return model.NewGraphicsError("code2d: print requested with no staged data"), true
	}

	modules, width, err := encodeQR(string(payload))
	if err != nil {
		return model.NewGraphicsError("code2d: " + err.Error()), true
	}

	c := model.Code2D{
		Kind:    model.Code2DQR,
		Modules: modules,
		Width:   width,
		PointW:  ctx.Code2D.ModuleSize,
		PointH:  ctx.Code2D.ModuleSize,
	}
	return model.GraphicsEvent{Kind: model.GraphicsCode2D, Code2D: &c}, true
}
