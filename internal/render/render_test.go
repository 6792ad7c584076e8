package render_test

import (
	"testing"

	"github.com/nullterm/escreceipt/internal/command"
	"github.com/nullterm/escreceipt/internal/commands"
	"github.com/nullterm/escreceipt/internal/context"
	"github.com/nullterm/escreceipt/internal/layout"
	"github.com/nullterm/escreceipt/internal/model"
	"github.com/nullterm/escreceipt/internal/parser"
	"github.com/nullterm/escreceipt/internal/render"
)

type recorder struct {
	began, ended   bool
	lines          []string
	lineY          []uint32
	deviceCommands []command.DeviceCommandKind
	rotations      []context.Rotation
}

func (r *recorder) BeginRender() { r.began = true }
func (r *recorder) EndRender()   { r.ended = true }
func (r *recorder) PageBegin()   {}
func (r *recorder) PageAreaChanged(rotation context.Rotation, width, height uint32) {
	r.rotations = append(r.rotations, rotation)
}
func (r *recorder) PageEnd()                                 {}
func (r *recorder) RenderPage(pixelWidth, pixelHeight uint32) {}
func (r *recorder) RenderGraphics(rects []model.Rectangle)    {}
func (r *recorder) RenderImage(img model.GraphicsEvent)       {}
func (r *recorder) RenderText(line layout.Line, y uint32) {
	var s string
	for _, span := range line.Spans {
		s += span.Text
	}
	r.lines = append(r.lines, s)
	r.lineY = append(r.lineY, y)
}
func (r *recorder) DeviceCommand(cmd command.DeviceCommand) {
	r.deviceCommands = append(r.deviceCommands, cmd.Kind)
}

func drive(t *testing.T, data []byte) (*recorder, *render.Renderer) {
	t.Helper()
	ctx := context.NewContext(576, 203)
	rec := &recorder{}
	r := render.New(ctx, rec, nil)
	r.Begin()
	p := parser.New(commands.Catalog(), commands.Default(), func(inst command.Instance) {
		r.Process(inst)
	})
	p.Feed(data)
	p.End()
	r.End()
	return rec, r
}

func TestRendererFlushesTextOnLineFeed(t *testing.T) {
	rec, _ := drive(t, []byte("hello\n"))
	if !rec.began || !rec.ended {
		t.Fatalf("expected BeginRender/EndRender to be called")
	}
	if len(rec.lines) == 0 || rec.lines[0] != "hello" {
		t.Fatalf("expected a rendered line %q, got %+v", "hello", rec.lines)
	}
}

func TestRendererForwardsFeedLineDeviceCommand(t *testing.T) {
	data := []byte{0x1B, 'd', 3}
	rec, _ := drive(t, data)
	found := false
	for _, k := range rec.deviceCommands {
		if k == command.DeviceFeedLine {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a DeviceFeedLine command, got %+v", rec.deviceCommands)
	}
}

func TestRendererReportsBarcodeLengthErrorsWithoutPanicking(t *testing.T) {
	// Code39 selector with an empty payload: invalid length, should surface
	// as a recoverable error rather than stopping the render.
	data := []byte{0x1D, 'k', 4, 0x00}
	rec, r := drive(t, data)
	if len(r.Errors()) == 0 {
		t.Fatalf("expected a recoverable render error")
	}
	_ = rec
}

func TestRendererDoesNotBreakLineOnStyleChange(t *testing.T) {
	// A mid-line style toggle must not force a line break: "ab" (plain) and
	// "cd" (bold) belong on the same physical line, rendered together only
	// once the trailing '\n' actually ends it.
	data := append([]byte("ab"), 0x1B, 'E', 1)
	data = append(data, []byte("cd\n")...)
	rec, _ := drive(t, data)
	if len(rec.lines) != 1 {
		t.Fatalf("expected exactly one rendered line, got %+v", rec.lines)
	}
	if rec.lines[0] != "abcd" {
		t.Fatalf("expected merged line %q, got %q", "abcd", rec.lines[0])
	}
}

func TestRendererAdvancesOneLineHeightPerLineFeed(t *testing.T) {
	// A bare LF must advance the cursor by exactly one line height, not two:
	// flushText's own per-line Newline() and the LF handler's Newline() must
	// not both fire for the same line break.
	rec, _ := drive(t, []byte("hello\nworld\n"))
	if len(rec.lineY) != 2 {
		t.Fatalf("expected 2 rendered lines, got %+v", rec.lineY)
	}
	ctx := context.NewContext(576, 203)
	lineHeight := ctx.LineHeightPixels()
	gap := rec.lineY[1] - rec.lineY[0]
	if gap != uint32(lineHeight) {
		t.Fatalf("expected a %d-pixel gap between lines, got %d", lineHeight, gap)
	}
}
