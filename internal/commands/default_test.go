package commands

import (
	"testing"

	"github.com/nullterm/escreceipt/internal/context"
)

func TestDefaultTextHandlerReadsBytesFromPayload(t *testing.T) {
	// The parser's DataText accumulation never calls Push in the normal
	// streaming path, so GetText must decode straight off inst.Payload.
	data := []byte("hello")
	insts := collect(data)
	if len(insts) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(insts))
	}
	span, ok := insts[0].Handler.GetText(&insts[0], context.NewContext(576, 203))
	if !ok {
		t.Fatalf("expected a text span")
	}
	if span.Text != "hello" {
		t.Fatalf("expected text %q, got %q", "hello", span.Text)
	}
}

func TestDefaultTextHandlerSplitsAroundKnownPrefixes(t *testing.T) {
	// Plain text followed by ESC E 1 (bold on) followed by more text should
	// split into three instances, each carrying its own bytes in Payload.
	data := append([]byte("ab"), 0x1B, 'E', 1)
	data = append(data, []byte("cd")...)
	insts := collect(data)
	if len(insts) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(insts))
	}
	ctx := context.NewContext(576, 203)
	first, ok := insts[0].Handler.GetText(&insts[0], ctx)
	if !ok || first.Text != "ab" {
		t.Fatalf("expected first span %q, got %q (ok=%v)", "ab", first.Text, ok)
	}
	last, ok := insts[2].Handler.GetText(&insts[2], ctx)
	if !ok || last.Text != "cd" {
		t.Fatalf("expected last span %q, got %q (ok=%v)", "cd", last.Text, ok)
	}
}
