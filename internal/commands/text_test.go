package commands

import (
	"testing"

	"github.com/nullterm/escreceipt/internal/command"
	"github.com/nullterm/escreceipt/internal/context"
)

func TestStyleHandlerReadsByteFromPayloadNotPush(t *testing.T) {
	// ESC E 1 turns bold on. The parser never calls Push for DataSingle
	// commands, so ApplyContext must read the byte from inst.Payload.
	data := []byte{0x1B, 'E', 1}
	insts := collect(data)
	if len(insts) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(insts))
	}
	ctx := context.NewContext(576, 203)
	insts[0].Handler.ApplyContext(&insts[0], ctx)
	if !ctx.Text.Bold {
		t.Fatalf("expected bold to be enabled from payload byte 1")
	}
}

func TestStyleHandlerZeroByteTurnsStyleOff(t *testing.T) {
	data := []byte{0x1B, 'E', 0}
	insts := collect(data)
	ctx := context.NewContext(576, 203)
	ctx.Text.Bold = true
	insts[0].Handler.ApplyContext(&insts[0], ctx)
	if ctx.Text.Bold {
		t.Fatalf("expected bold to be disabled from payload byte 0")
	}
}

func TestFeedLinesReadsCountFromPayload(t *testing.T) {
	data := []byte{0x1B, 'd', 5}
	insts := collect(data)
	if len(insts) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(insts))
	}
	cmds := insts[0].Handler.GetDeviceCommands(&insts[0], context.NewContext(576, 203))
	if len(cmds) != 1 || cmds[0].Kind != command.DeviceFeedLine || cmds[0].N != 5 {
		t.Fatalf("expected a feed-line device command for 5 lines, got %+v", cmds)
	}
}

func TestPageModeDirectionReadsByteFromPayload(t *testing.T) {
	data := []byte{0x1B, 'T', 2}
	insts := collect(data)
	if len(insts) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(insts))
	}
	ctx := context.NewContext(576, 203)
	insts[0].Handler.ApplyContext(&insts[0], ctx)
	if ctx.PageMode.Direction != context.Direction(2) {
		t.Fatalf("expected page-mode direction 2, got %v", ctx.PageMode.Direction)
	}
}

func TestCharSizeReadsWidthHeightNibblesFromPayload(t *testing.T) {
	// high nibble 1 -> width mult 2, low nibble 2 -> height mult 3.
	data := []byte{0x1D, '!', 0x12}
	insts := collect(data)
	ctx := context.NewContext(576, 203)
	insts[0].Handler.ApplyContext(&insts[0], ctx)
	if ctx.Text.WidthMult != 2 || ctx.Text.HeightMult != 3 {
		t.Fatalf("expected width/height mult 2/3, got %d/%d", ctx.Text.WidthMult, ctx.Text.HeightMult)
	}
}
