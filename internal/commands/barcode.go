package commands

import (
	"strings"

	"github.com/nullterm/escreceipt/internal/ascii"
	"github.com/nullterm/escreceipt/internal/command"
	"github.com/nullterm/escreceipt/internal/context"
	"github.com/nullterm/escreceipt/internal/model"
)

// barcodePrefix is GS 'k'.
var barcodePrefix = []byte{ascii.GS, 'k'}

// BarcodeDescriptor is the GS 'k' command, spec.md §4.3's hardest handler:
// the selector byte picks between two payload conventions (NUL-terminated
// for legacy 0-6 selectors, explicit-size for 65+).
var BarcodeDescriptor = &command.Descriptor{
	Name:       "barcode",
	Prefix:     barcodePrefix,
	Kind:       command.KindGraphics,
	DataType:   command.DataCustom,
	NewHandler: func() command.Handler { return &barcodeHandler{} },
}

type barcodeHandler struct {
	command.NopHandler

	haveSelector bool
	selector     byte
	kind         model.BarcodeKind
	nulTerminated bool

	haveSize bool
	size     byte

	data []byte
}

func (h *barcodeHandler) Push(payload []byte, b byte) (accept, consumed bool) {
	if !h.haveSelector {
		h.haveSelector = true
		h.selector = b
		h.kind = model.BarcodeKindFromSelector(b)
		h.nulTerminated = h.kind.UsesNulTerminatedPayload(b)
		return true, true
	}

	if h.nulTerminated {
		if b == 0x00 {
			// The terminating NUL ends the command: it is never added to
			// the barcode data, though as a consumed byte it stays in the
			// instance's raw payload.
			return false, true
		}
		h.data = append(h.data, b)
		return true, true
	}

	if !h.haveSize {
		h.haveSize = true
		h.size = b
		if h.size == 0 {
			return false, true
		}
		return true, true
	}

	h.data = append(h.data, b)
	if len(h.data) >= int(h.size) {
		// The explicit-size payload is now complete: this byte belongs to
		// it, but no further bytes do, so terminate rather than keep
		// accumulating into the next command.
		return false, true
	}
	return true, true
}

func (h *barcodeHandler) ApplyContext(*command.Instance, *context.Context) {}

func (h *barcodeHandler) GetGraphics(_ *command.Instance, ctx *context.Context) (model.GraphicsEvent, bool) {
	if !h.haveSelector || h.kind == model.BarcodeUnknown {
		return model.GraphicsEvent{}, false
	}

	if !model.ValidateDataLength(h.kind, len(h.data)) {
		return model.NewGraphicsError(h.kind.String() + ": invalid payload length " + itoa(len(h.data))), true
	}

	payload, hriText := prepareBarcodePayload(h.kind, h.data)

	points, err := encode1D(h.kind, payload)
	if err != nil {
		return model.NewGraphicsError(h.kind.String() + ": " + err.Error() + " (payload " + string(h.data) + ")"), true
	}

	b := model.Barcode{
		Kind:        h.kind,
		Points:      points,
		PointWidth:  ctx.Barcode.ModuleW,
		PointHeight: ctx.Barcode.Height,
		HRI:         ctx.Barcode.HRI,
		HRIText: model.TextSpan{
			Text:       hriText,
			Font:       ctx.Barcode.HRIFont,
			CharWidth:  fontCharWidth(ctx.Barcode.HRIFont),
			CharHeight: fontCharHeight(ctx.Barcode.HRIFont),
			Justify:    ctx.Text.Justify,
			Foreground: ctx.Text.Foreground,
			Background: ctx.Text.Background,
		},
	}
	return model.GraphicsEvent{Kind: model.GraphicsBarcode, Barcode: &b}, true
}

// prepareBarcodePayload strips Code128's {A/{B/{C code-set switches from
// the HRI text while leaving the encoder payload's switches intact, and
// strips Code39's '*' delimiters from the encoder payload while leaving the
// HRI text as sent, per spec.md §4.3.
func prepareBarcodePayload(kind model.BarcodeKind, data []byte) (encodePayload, hriText string) {
	raw := string(data)
	switch kind {
	case model.BarcodeCode128, model.BarcodeGS1_128:
		hri := raw
		for _, sw := range []string{"{A", "{B", "{C"} {
			hri = strings.ReplaceAll(hri, sw, "")
		}
		return raw, hri
	case model.BarcodeCode39, model.BarcodeCode128Auto:
		return strings.Trim(raw, "*"), raw
	default:
		return raw, raw
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func fontCharWidth(f context.Font) uint16 {
	w, _ := f.CellSize()
	return uint16(w)
}

func fontCharHeight(f context.Font) uint16 {
	_, h := f.CellSize()
	return uint16(h)
}
