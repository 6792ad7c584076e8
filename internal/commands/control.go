package commands

import (
	"github.com/nullterm/escreceipt/internal/ascii"
	"github.com/nullterm/escreceipt/internal/command"
	"github.com/nullterm/escreceipt/internal/context"
)

// emptyDeviceDescriptor builds a zero-payload descriptor whose only effect
// is emitting one fixed DeviceCommand; used for the full and partial cuts.
func emptyDeviceDescriptor(name string, prefix []byte, kind command.DeviceCommandKind) *command.Descriptor {
	return &command.Descriptor{
		Name:     name,
		Prefix:   prefix,
		Kind:     command.KindControl,
		DataType: command.DataEmpty,
		NewHandler: func() command.Handler {
			return &deviceHandler{cmds: []command.DeviceCommand{{Kind: kind}}}
		},
	}
}

type deviceHandler struct {
	command.NopHandler
	cmds []command.DeviceCommand
	onApply func(ctx *context.Context)
}

func (h *deviceHandler) ApplyContext(_ *command.Instance, ctx *context.Context) {
	if h.onApply != nil {
		h.onApply(ctx)
	}
}

func (h *deviceHandler) GetDeviceCommands(_ *command.Instance, _ *context.Context) []command.DeviceCommand {
	return h.cmds
}

var InitializeDescriptor = &command.Descriptor{
	Name:     "initialize",
	Prefix:   []byte{ascii.ESC, '@'},
	Kind:     command.KindControl,
	DataType: command.DataEmpty,
	NewHandler: func() command.Handler {
		return &deviceHandler{
			cmds:    []command.DeviceCommand{{Kind: command.DeviceBeginPrint}},
			onApply: func(ctx *context.Context) { ctx.Reset() },
		}
	},
}

var FullCutDescriptor = emptyDeviceDescriptor("full-cut", []byte{ascii.GS, 'V', 0x00}, command.DeviceFullCut)
var PartialCutDescriptor = emptyDeviceDescriptor("partial-cut", []byte{ascii.GS, 'V', 0x01}, command.DevicePartialCut)

// FeedLinesDescriptor is ESC 'd', feed n lines.
var FeedLinesDescriptor = &command.Descriptor{
	Name:     "feed-lines",
	Prefix:   []byte{ascii.ESC, 'd'},
	Kind:     command.KindControl,
	DataType: command.DataSingle,
	NewHandler: func() command.Handler { return &feedHandler{} },
}

type feedHandler struct {
	command.NopHandler
}

// feedLines reads the line count straight off inst.Payload: the parser
// completes DataSingle commands by byte count alone and never calls
// Push for them, so Payload is the only place the byte actually lands.
func feedLines(inst *command.Instance) byte {
	if len(inst.Payload) == 0 {
		return 0
	}
	return inst.Payload[0]
}

func (h *feedHandler) ApplyContext(inst *command.Instance, ctx *context.Context) {
	ctx.Feed(feedLines(inst))
}

func (h *feedHandler) GetDeviceCommands(inst *command.Instance, _ *context.Context) []command.DeviceCommand {
	return []command.DeviceCommand{{Kind: command.DeviceFeedLine, N: uint32(feedLines(inst))}}
}

// LineFeedDescriptor is the bare LF byte (0x0A), advancing exactly one line.
var LineFeedDescriptor = &command.Descriptor{
	Name:     "line-feed",
	Prefix:   []byte{ascii.LF},
	Kind:     command.KindControl,
	DataType: command.DataEmpty,
	NewHandler: func() command.Handler {
		return &deviceHandler{
			cmds:    []command.DeviceCommand{{Kind: command.DeviceFeedLine, N: 1}},
			onApply: func(ctx *context.Context) { ctx.Newline() },
		}
	},
}

// CarriageReturnDescriptor is the bare CR byte (0x0D): resets x without
// advancing y, matching the teacher's line-ending handling in cmd.go.
var CarriageReturnDescriptor = &command.Descriptor{
	Name:     "carriage-return",
	Prefix:   []byte{ascii.CR},
	Kind:     command.KindControl,
	DataType: command.DataEmpty,
	NewHandler: func() command.Handler {
		return &deviceHandler{onApply: func(ctx *context.Context) { ctx.ResetX() }}
	},
}

// HorizontalTabDescriptor is the bare HT byte (0x09).
var HorizontalTabDescriptor = &command.Descriptor{
	Name:     "horizontal-tab",
	Prefix:   []byte{ascii.HT},
	Kind:     command.KindControl,
	DataType: command.DataEmpty,
	NewHandler: func() command.Handler {
		return &deviceHandler{onApply: func(ctx *context.Context) {
			ctx.SetX(nextTabStop(ctx))
		}}
	},
}

func nextTabStop(ctx *context.Context) uint32 {
	cw, _ := ctx.FontSizePixels()
	if cw == 0 {
		cw = 1
	}
	curX := context.SaturatingSub(ctx.GetX(), ctx.Graphics.RenderArea.X)
	var pos uint32
	for _, stop := range ctx.Text.Tabs {
		pos += uint32(stop) * uint32(cw)
		if pos > curX {
			return ctx.Graphics.RenderArea.X + pos
		}
	}
	return ctx.GetX()
}
