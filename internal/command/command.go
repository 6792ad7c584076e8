// Package command defines the shape every ESC/POS command descriptor and
// handler conforms to: the capability-set model spec.md's design notes call
// for ("a tagged variant per command or a trait/interface with default
// no-op methods; no per-handler base-class state should be assumed"). The
// teacher's cmd.go embeds a single Cmd interface per builder; here the same
// embedding idiom models a handler that may implement any subset of the
// capabilities by embedding NopHandler and overriding only what it needs.
package command

import (
	"github.com/nullterm/escreceipt/internal/context"
	"github.com/nullterm/escreceipt/internal/model"
)

// Kind tags what category of command a descriptor belongs to, used for
// coarse dispatch decisions (e.g. "flush pending text before handling any
// non-Text command").
type Kind int

const (
	KindText Kind = iota
	KindGraphics
	KindContext
	KindContextControl
	KindTextStyle
	KindControl
	KindSubcommand
	KindUnknown
)

// DataType tags how the parser's Accumulate state should read a command's
// payload once its prefix has matched.
type DataType int

const (
	DataSingle DataType = iota
	DataDouble
	DataTriple
	DataText
	DataCustom
	DataSubcommand
	DataEmpty
)

// DeviceCommand is an out-of-band instruction to the output adapter,
// carried alongside (or instead of) text/graphics output.
type DeviceCommand struct {
	Kind DeviceCommandKind

	// N carries FeedLine/Feed's line count, SetTextWidth/SetTextHeight's
	// multiplier, or ChangeTabs' stop count, depending on Kind.
	N uint32
	// Index carries ChangeTabs' tab index.
	Index uint32
	Justify context.Justify
}

type DeviceCommandKind int

const (
	DeviceBeginPrint DeviceCommandKind = iota
	DeviceEndPrint
	DeviceFeedLine
	DeviceFeed
	DeviceFullCut
	DevicePartialCut
	DeviceBeginPageMode
	DeviceEndPageMode
	DevicePrintPageMode
	DeviceChangePageArea
	DeviceChangePageModeDirection
	DeviceJustify
	DeviceSetTextWidth
	DeviceSetTextHeight
	DeviceChangeTabs
	DeviceClearBufferGraphics
)

// Descriptor is an immutable record identifying one ESC/POS command: its
// name, the prefix byte sequence that selects it, and the factory that
// produces a fresh Handler once the prefix has matched.
type Descriptor struct {
	Name     string
	Prefix   []byte
	Kind     Kind
	DataType DataType
	NewHandler func() Handler
}

// Instance is one parsed command: the descriptor it matched, the prefix
// bytes actually consumed, the payload accumulated after the prefix, and
// the handler that accumulated it. The parser produces exactly one Instance
// per recognized command and never reuses a Handler across instances.
type Instance struct {
	Descriptor *Descriptor
	Prefix     []byte
	Payload    []byte
	Handler    Handler
}

// CommandBytes returns the prefix and payload bytes as seen on the wire,
// for thermal-file round-trip emission (get_command_bytes in spec.md §3).
func (i Instance) CommandBytes() (prefix, payload []byte) {
	if gb, ok := i.Handler.(interface{ CommandBytes() ([]byte, []byte) }); ok {
		return gb.CommandBytes()
	}
	return i.Prefix, i.Payload
}

// Handler is the full capability set a command handler may implement.
// Concrete handlers embed NopHandler and override only the methods they
// need — see internal/commands for the catalog.
type Handler interface {
	// Push offers one byte to the handler's own accumulator. accept=true
	// means keep accumulating (the byte is always part of the payload).
	// accept=false signals completion; consumed then decides whether this
	// byte is part of the payload too (the handler folded it in before
	// deciding to stop, e.g. a NUL-terminated payload's own terminator) or
	// must be pushed back to the parser unconsumed (a following command's
	// first byte, for instance).
	Push(payload []byte, b byte) (accept, consumed bool)

	ApplyContext(inst *Instance, ctx *context.Context)
	GetText(inst *Instance, ctx *context.Context) (model.TextSpan, bool)
	GetGraphics(inst *Instance, ctx *context.Context) (model.GraphicsEvent, bool)
	GetDeviceCommands(inst *Instance, ctx *context.Context) []DeviceCommand
	Debug(inst *Instance, ctx *context.Context) string
}

// NopHandler implements every Handler method as a no-op / "not present"
// response. Real handlers embed this and override only the capabilities
// spec.md's command table says they have.
type NopHandler struct{}

func (NopHandler) Push(payload []byte, b byte) (accept, consumed bool) { return false, false }
func (NopHandler) ApplyContext(*Instance, *context.Context) {}
func (NopHandler) GetText(*Instance, *context.Context) (model.TextSpan, bool) {
	return model.TextSpan{}, false
}
func (NopHandler) GetGraphics(*Instance, *context.Context) (model.GraphicsEvent, bool) {
	return model.GraphicsEvent{}, false
}
func (NopHandler) GetDeviceCommands(*Instance, *context.Context) []DeviceCommand { return nil }
func (NopHandler) Debug(*Instance, *context.Context) string { return "" }
