package commands

import (
	"github.com/nullterm/escreceipt/internal/ascii"
	"github.com/nullterm/escreceipt/internal/codepage"
	"github.com/nullterm/escreceipt/internal/command"
	"github.com/nullterm/escreceipt/internal/context"
	"github.com/nullterm/escreceipt/internal/model"
)

// DefaultDescriptor is the parser's distinguished catch-all: every byte that
// matches no registered prefix accumulates here as plain text, decoded
// through the context's active code table.
var DefaultDescriptor = &command.Descriptor{
	Name:       "text",
	Prefix:     nil,
	Kind:       command.KindText,
	DataType:   command.DataText,
	NewHandler: func() command.Handler { return &textHandler{} },
}

type textHandler struct {
	command.NopHandler
}

// GetText reads its bytes straight off inst.Payload: the parser's
// DataText accumulation appends bytes to its own buffer directly and only
// calls Push for the end-of-stream ambiguous-buffer flush, so Payload (not
// any handler-local buffer) is the one record guaranteed to hold every byte.
func (h *textHandler) GetText(inst *command.Instance, ctx *context.Context) (model.TextSpan, bool) {
	decode := codepage.Lookup(ctx.Text.CodeTable)
	text := decode(inst.Payload)
	if text == "" {
		return model.TextSpan{}, false
	}
	w, hh := ctx.FontSizePixels()
	return model.TextSpan{
		Text:          text,
		Font:          ctx.Text.Font,
		CharWidth:     w,
		CharHeight:    hh,
		Bold:          ctx.Text.Bold,
		Italic:        ctx.Text.Italic,
		Underline:     ctx.Text.Underline,
		Strikethrough: ctx.Text.Strikethrough,
		Invert:        ctx.Text.Invert,
		UpsideDown:    ctx.Text.UpsideDown,
		StretchX:      ctx.Text.WidthMult,
		StretchY:      ctx.Text.HeightMult,
		Justify:       ctx.Text.Justify,
		Foreground:    ctx.Text.Foreground,
		Background:    ctx.Text.Background,
	}, true
}

// textStyleDescriptor builds a DataSingle-payload descriptor for the simple
// one-byte style toggles (ESC E bold, ESC - underline, GS B invert,
// ESC { upside-down, and friends) sharing one apply function.
func textStyleDescriptor(name string, prefix []byte, apply func(ctx *context.Context, b byte)) *command.Descriptor {
	return &command.Descriptor{
		Name:     name,
		Prefix:   prefix,
		Kind:     command.KindTextStyle,
		DataType: command.DataSingle,
		NewHandler: func() command.Handler {
			return &styleHandler{apply: apply}
		},
	}
}

type styleHandler struct {
	command.NopHandler
	apply func(ctx *context.Context, b byte)
}

// ApplyContext reads its byte straight off inst.Payload: the parser
// completes DataSingle commands by byte count alone and never calls
// Push for them, so Payload is the only place the byte actually lands.
func (h *styleHandler) ApplyContext(inst *command.Instance, ctx *context.Context) {
	if len(inst.Payload) == 0 {
		return
	}
	h.apply(ctx, inst.Payload[0])
}

var (
	BoldDescriptor = textStyleDescriptor("bold", []byte{ascii.ESC, 'E'}, func(ctx *context.Context, b byte) {
		ctx.Text.Bold = b != 0
	})
	ItalicDescriptor = textStyleDescriptor("italic", []byte{ascii.ESC, '4'}, func(ctx *context.Context, b byte) {
		ctx.Text.Italic = b != 0
	})
	UpsideDownDescriptor = textStyleDescriptor("upside-down", []byte{ascii.ESC, '{'}, func(ctx *context.Context, b byte) {
		ctx.Text.UpsideDown = b != 0
	})
	UnderlineDescriptor = textStyleDescriptor("underline", []byte{ascii.ESC, '-'}, func(ctx *context.Context, b byte) {
		switch b {
		case 0:
			ctx.Text.Underline = context.UnderlineOff
		case 2:
			ctx.Text.Underline = context.UnderlineDouble
		default:
			ctx.Text.Underline = context.UnderlineOn
		}
	})
	FontSelectDescriptor = textStyleDescriptor("font-select", []byte{ascii.ESC, 'M'}, func(ctx *context.Context, b byte) {
		ctx.Text.Font = context.FontFromByte(b)
	})
	JustifyDescriptor = textStyleDescriptor("justify", []byte{ascii.ESC, 'a'}, func(ctx *context.Context, b byte) {
		switch b {
		case 1:
			ctx.Text.Justify = context.JustifyCenter
		case 2:
			ctx.Text.Justify = context.JustifyRight
		default:
			ctx.Text.Justify = context.JustifyLeft
		}
	})
	CodeTableDescriptor = textStyleDescriptor("code-table", []byte{ascii.ESC, 't'}, func(ctx *context.Context, b byte) {
		ctx.Text.CodeTable = b
	})
	CharacterSetDescriptor = textStyleDescriptor("character-set", []byte{ascii.ESC, 'R'}, func(ctx *context.Context, b byte) {
		ctx.Text.CharacterSet = b
	})
	InvertDescriptor = textStyleDescriptor("invert", []byte{ascii.GS, 'B'}, func(ctx *context.Context, b byte) {
		ctx.Text.Invert = b != 0
	})
	SmoothingDescriptor = textStyleDescriptor("smoothing", []byte{ascii.GS, 'b'}, func(ctx *context.Context, b byte) {
		ctx.Text.Smoothing = b != 0
	})
)

// CharSizeDescriptor is GS '!', a single byte packing width multiplier in
// the high nibble and height multiplier in the low nibble (1-8 each).
var CharSizeDescriptor = &command.Descriptor{
	Name:     "char-size",
	Prefix:   []byte{ascii.GS, '!'},
	Kind:     command.KindTextStyle,
	DataType: command.DataSingle,
	NewHandler: func() command.Handler {
		return &styleHandler{apply: func(ctx *context.Context, b byte) {
			ctx.Text.WidthMult = (b>>4)&0x0F + 1
			ctx.Text.HeightMult = b&0x0F + 1
		}}
	},
}

// StrikethroughDescriptor mirrors UnderlineDescriptor's 0/1/2 encoding.
var StrikethroughDescriptor = textStyleDescriptor("strikethrough", []byte{ascii.ESC, 'G'}, func(ctx *context.Context, b byte) {
	switch b {
	case 0:
		ctx.Text.Strikethrough = context.StrikethroughOff
	case 2:
		ctx.Text.Strikethrough = context.StrikethroughDouble
	default:
		ctx.Text.Strikethrough = context.StrikethroughOn
	}
})
