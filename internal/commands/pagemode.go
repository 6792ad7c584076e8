package commands

import (
	"github.com/nullterm/escreceipt/internal/ascii"
	"github.com/nullterm/escreceipt/internal/command"
	"github.com/nullterm/escreceipt/internal/context"
)

// BeginPageModeDescriptor is ESC 'L': enters page mode with the logical area
// left at whatever ESC W last configured (a zero-sized area, if none yet).
var BeginPageModeDescriptor = &command.Descriptor{
	Name:     "begin-page-mode",
	Prefix:   []byte{ascii.ESC, 'L'},
	Kind:     command.KindContextControl,
	DataType: command.DataEmpty,
	NewHandler: func() command.Handler {
		return &deviceHandler{
			cmds: []command.DeviceCommand{{Kind: command.DeviceBeginPageMode}},
			onApply: func(ctx *context.Context) {
				ctx.PageMode.Enabled = true
			},
		}
	},
}

// EndPageModeDescriptor is ESC 'S': leaves page mode, restoring the
// full-paper render area the teacher's line-mode cursor code expects.
var EndPageModeDescriptor = &command.Descriptor{
	Name:     "end-page-mode",
	Prefix:   []byte{ascii.ESC, 'S'},
	Kind:     command.KindContextControl,
	DataType: command.DataEmpty,
	NewHandler: func() command.Handler {
		return &deviceHandler{
			cmds: []command.DeviceCommand{{Kind: command.DeviceEndPageMode}},
			onApply: func(ctx *context.Context) {
				ctx.PageMode.Enabled = false
				ctx.Graphics.RenderArea = ctx.Graphics.PaperArea
			},
		}
	},
}

// PrintPageModeDescriptor is ESC '<FF>' style "print and return to line
// mode" page-mode flush (FF, 0x0C here standing in for the printer's page
// print trigger).
var PrintPageModeDescriptor = &command.Descriptor{
	Name:     "print-page-mode",
	Prefix:   []byte{ascii.FF},
	Kind:     command.KindContextControl,
	DataType: command.DataEmpty,
	NewHandler: func() command.Handler {
		return &deviceHandler{cmds: []command.DeviceCommand{{Kind: command.DevicePrintPageMode}}}
	},
}

// ChangePageAreaDescriptor is ESC 'W', setting the page-mode logical area
// from four little-endian uint16 fields (x, y, w, h) in dot units.
var ChangePageAreaDescriptor = &command.Descriptor{
	Name:     "change-page-area",
	Prefix:   []byte{ascii.ESC, 'W'},
	Kind:     command.KindContextControl,
	DataType: command.DataCustom,
	NewHandler: func() command.Handler { return &pageAreaHandler{} },
}

type pageAreaHandler struct {
	command.NopHandler
	data [8]byte
	n    int
}

func (h *pageAreaHandler) Push(_ []byte, b byte) (accept, consumed bool) {
	h.data[h.n] = b
	h.n++
	if h.n >= len(h.data) {
		return false, true
	}
	return true, true
}

func le16(lo, hi byte) uint32 { return uint32(lo) | uint32(hi)<<8 }

func (h *pageAreaHandler) ApplyContext(_ *command.Instance, ctx *context.Context) {
	if h.n < len(h.data) {
		return
	}
	x := le16(h.data[0], h.data[1])
	y := le16(h.data[2], h.data[3])
	w := le16(h.data[4], h.data[5])
	ht := le16(h.data[6], h.data[7])
	ctx.PageMode.LogicalArea = context.Rect{X: x, Y: y, W: w, H: ht}
	// ESC W forces the upcoming ApplyLogicalArea rotation to zero by
	// staging PreviousDirection to the current direction before it runs.
	ctx.PageMode.PreviousDirection = ctx.PageMode.Direction
	ctx.PageMode.ApplyLogicalArea()
}

func (h *pageAreaHandler) GetDeviceCommands(_ *command.Instance, ctx *context.Context) []command.DeviceCommand {
	return []command.DeviceCommand{{Kind: command.DeviceChangePageArea}}
}

// ChangePageModeDirectionDescriptor is ESC 'T', a single byte selecting 0-3
// (top-left/right, bottom-left/top, etc per spec.md §4.3's rotation table).
var ChangePageModeDirectionDescriptor = &command.Descriptor{
	Name:     "change-page-mode-direction",
	Prefix:   []byte{ascii.ESC, 'T'},
	Kind:     command.KindContextControl,
	DataType: command.DataSingle,
	NewHandler: func() command.Handler { return &pageDirectionHandler{} },
}

type pageDirectionHandler struct {
	command.NopHandler
}

// ApplyContext reads its byte straight off inst.Payload: the parser
// completes DataSingle commands by byte count alone and never calls
// Push for them, so Payload is the only place the byte actually lands.
func (h *pageDirectionHandler) ApplyContext(inst *command.Instance, ctx *context.Context) {
	if len(inst.Payload) == 0 {
		return
	}
	d := context.Direction(inst.Payload[0] % 4)
	ctx.PageMode.Direction = d
	// Left stale deliberately: ESC T does not pre-stage PreviousDirection,
	// so ApplyLogicalArea computes a real rotation delta.
	ctx.PageMode.ApplyLogicalArea()
	ctx.PageMode.PreviousDirection = d
}

func (h *pageDirectionHandler) GetDeviceCommands(_ *command.Instance, _ *context.Context) []command.DeviceCommand {
	return []command.DeviceCommand{{Kind: command.DeviceChangePageModeDirection}}
}
