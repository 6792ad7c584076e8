package parser

import (
	"testing"
	"time"

	"github.com/nullterm/escreceipt/internal/command"
	"github.com/nullterm/escreceipt/internal/commands"
)

type nopH struct{ command.NopHandler }

func newNop() command.Handler { return nopH{} }

type textH struct{ command.NopHandler }

func newText() command.Handler { return textH{} }

func descriptors() (catalog []*command.Descriptor, def *command.Descriptor) {
	escShort := &command.Descriptor{Name: "esc-short", Prefix: []byte{0x1B}, DataType: command.DataSingle, NewHandler: newNop}
	escInit := &command.Descriptor{Name: "init", Prefix: []byte{0x1B, 0x40}, DataType: command.DataEmpty, NewHandler: newNop}
	gsK := &command.Descriptor{Name: "barcode", Prefix: []byte{0x1D, 'k'}, DataType: command.DataDouble, NewHandler: newNop}
	def = &command.Descriptor{Name: "default", Prefix: nil, DataType: command.DataText, NewHandler: newText, Kind: command.KindText}
	catalog = []*command.Descriptor{escShort, escInit, gsK}
	return
}

func TestPrefixMaximality(t *testing.T) {
	catalog, def := descriptors()
	var got []command.Instance
	p := New(catalog, def, func(i command.Instance) { got = append(got, i) })

	p.Feed([]byte{0x1B, 0x40})
	p.End()

	if len(got) != 1 {
		t.Fatalf("got %d instances, want 1", len(got))
	}
	if got[0].Descriptor.Name != "init" {
		t.Fatalf("dispatched to %q, want the longer prefix %q", got[0].Descriptor.Name, "init")
	}
}

func TestByteConservation(t *testing.T) {
	catalog, def := descriptors()
	var got []command.Instance
	p := New(catalog, def, func(i command.Instance) { got = append(got, i) })

	input := []byte{0x1D, 'k', 0x01, 0x02, 'h', 'i'}
	p.Feed(input)
	p.End()

	var recovered []byte
	for _, inst := range got {
		prefix, payload := inst.CommandBytes()
		recovered = append(recovered, prefix...)
		recovered = append(recovered, payload...)
	}
	if string(recovered) != string(input) {
		t.Fatalf("recovered %v, want %v", recovered, input)
	}
}

func TestTextTerminatesOnKnownPrefixByte(t *testing.T) {
	catalog, def := descriptors()
	var got []command.Instance
	p := New(catalog, def, func(i command.Instance) { got = append(got, i) })

	p.Feed([]byte{'h', 'i', 0x1D, 'k', 0x00, 0x00})
	p.End()

	if len(got) == 0 || got[0].Descriptor.Name != "default" {
		t.Fatalf("expected first instance to be the default text handler, got %+v", got)
	}
	if string(got[0].Payload) != "hi" {
		t.Fatalf("default payload = %q, want %q", got[0].Payload, "hi")
	}
	if len(got) < 2 || got[1].Descriptor.Name != "barcode" {
		t.Fatalf("expected second instance to be barcode, got %+v", got)
	}
}

// TestUnmatchedPrefixLeadDoesNotHang reproduces an ESC byte (a live prefix
// lead in the real catalog) followed by a second byte that completes no
// registered command — e.g. ESC 'p', an unimplemented cash-drawer pulse —
// then ordinary text. resolve()'s "nothing matches" branch must take the
// unmatched lead byte as default text itself and replay only the bytes
// after it through step(), or this deadlocks the ambiguity buffer forever.
func TestUnmatchedPrefixLeadDoesNotHang(t *testing.T) {
	var got []command.Instance
	p := New(commands.Catalog(), commands.Default(), func(i command.Instance) { got = append(got, i) })

	done := make(chan struct{})
	go func() {
		p.Feed([]byte{0x1B, 'p', 'h', 'i'})
		p.End()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Feed/End did not return: parser hung on an unmatched prefix lead")
	}

	if len(got) != 1 {
		t.Fatalf("got %d instances, want 1 default text instance, got %+v", len(got), got)
	}
	if got[0].Descriptor.Name != "text" {
		t.Fatalf("dispatched to %q, want the default text handler", got[0].Descriptor.Name)
	}
	if string(got[0].Payload) != "\x1Bphi" {
		t.Fatalf("payload = %q, want %q", got[0].Payload, "\x1Bphi")
	}
}
