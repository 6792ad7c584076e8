package commands

import (
	"testing"

	"github.com/nullterm/escreceipt/internal/command"
	"github.com/nullterm/escreceipt/internal/context"
	"github.com/nullterm/escreceipt/internal/model"
	"github.com/nullterm/escreceipt/internal/parser"
)

func collect(data []byte) []command.Instance {
	var out []command.Instance
	p := parser.New(Catalog(), Default(), func(i command.Instance) { out = append(out, i) })
	p.Feed(data)
	p.End()
	return out
}

func TestBarcodeLegacyNulTerminatedPayload(t *testing.T) {
	// GS k, selector 4 (Code39), "ABC", NUL.
	data := append([]byte{0x1D, 'k', 4}, []byte("ABC")...)
	data = append(data, 0x00)
	insts := collect(data)
	if len(insts) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(insts))
	}
	ctx := context.NewContext(576, 203)
	ev, ok := insts[0].Handler.GetGraphics(&insts[0], ctx)
	if !ok {
		t.Fatalf("expected a graphics event")
	}
	if ev.Kind != model.GraphicsBarcode {
		t.Fatalf("expected GraphicsBarcode, got %v (%s)", ev.Kind, ev.Error)
	}
	if ev.Barcode.Kind != model.BarcodeCode39 {
		t.Fatalf("expected Code39, got %v", ev.Barcode.Kind)
	}
}

func TestBarcodeExplicitSizePayloadTerminatesAndLeavesSubsequentBytesForNextCommand(t *testing.T) {
	// GS k, selector 73 (Code128), size 3, "ABC", followed by plain text "x".
	data := []byte{0x1D, 'k', 73, 3, 'A', 'B', 'C', 'x'}
	insts := collect(data)
	if len(insts) != 2 {
		t.Fatalf("expected 2 instances (barcode + text), got %d", len(insts))
	}
	if insts[1].Descriptor.Kind != command.KindText {
		t.Fatalf("expected trailing text instance, got kind %v", insts[1].Descriptor.Kind)
	}
	text, ok := insts[1].Handler.GetText(&insts[1], context.NewContext(576, 203))
	if !ok || text.Text != "x" {
		t.Fatalf("expected trailing text %q, got %q (ok=%v)", "x", text.Text, ok)
	}
}

func TestBarcodeRejectsInvalidPayloadLength(t *testing.T) {
	// Code39 (selector 4) with an empty payload should fail length validation.
	data := []byte{0x1D, 'k', 4, 0x00}
	insts := collect(data)
	if len(insts) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(insts))
	}
	ctx := context.NewContext(576, 203)
	ev, ok := insts[0].Handler.GetGraphics(&insts[0], ctx)
	if !ok || ev.Kind != model.GraphicsError {
		t.Fatalf("expected a GraphicsError for empty Code39 payload, got %+v", ev)
	}
}
