// Package render drives command.Instance values through a context.Context
// and a layout engine into calls on an OutputRenderer, the pluggable output
// contract spec.md §6 and SPEC_FULL.md §9 describe — grounded on
// original_source/thermal_renderer/src/renderer.rs's process_command /
// process_device_commands / process_text / process_graphics dispatch.
package render

import (
	"go.uber.org/zap"

	"github.com/nullterm/escreceipt/internal/command"
	"github.com/nullterm/escreceipt/internal/context"
	"github.com/nullterm/escreceipt/internal/layout"
	"github.com/nullterm/escreceipt/internal/model"
	"github.com/nullterm/escreceipt/internal/pixel"
)

// OutputRenderer is the contract a concrete output backend implements.
// refadapter is this module's reference implementation; deployments may
// plug in their own (raster driver, PDF writer, preview UI) without
// touching the parser/context/layout subsystems.
type OutputRenderer interface {
	BeginRender()
	EndRender()
	PageBegin()
	PageAreaChanged(rotation context.Rotation, width, height uint32)
	PageEnd()
	RenderPage(pixelWidth, pixelHeight uint32)
	RenderGraphics(rects []model.Rectangle)
	RenderImage(img model.GraphicsEvent)
	RenderText(line layout.Line, y uint32)
	DeviceCommand(cmd command.DeviceCommand)
}

// Renderer processes a stream of command.Instance values against a shared
// Context, flushing accumulated text into laid-out lines before any command
// that is neither text nor a text-style toggle, and forwarding
// graphics/device effects immediately.
type Renderer struct {
	ctx    *context.Context
	out    OutputRenderer
	log    *zap.Logger
	errors []string

	pending []model.TextSpan
}

// New builds a Renderer over ctx, driving out, logging through log (a
// no-op logger is substituted if log is nil so callers never need a guard).
func New(ctx *context.Context, out OutputRenderer, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{ctx: ctx, out: out, log: log}
}

// Errors returns every recoverable error message accumulated so far,
// mirroring get_render_errors in spec.md §6.
func (r *Renderer) Errors() []string { return r.errors }

// Begin starts a render pass.
func (r *Renderer) Begin() { r.out.BeginRender() }

// End flushes any pending text and closes the render pass.
func (r *Renderer) End() {
	r.flushText()
	r.out.EndRender()
}

// Process applies one parsed command.Instance: updates context, flushes
// text when a non-text command interrupts a run, and forwards graphics,
// text and device effects to the output renderer.
func (r *Renderer) Process(inst command.Instance) {
	h := inst.Handler
	if h == nil {
		return
	}

	// A style toggle (bold, justify, ...) only changes how later spans are
	// built, not the cursor, so it must not force a flush mid-line.
	// Anything else (graphics, a real control/device effect) does need the
	// cursor already advanced past whatever text preceded it.
	if inst.Descriptor != nil && inst.Descriptor.Kind != command.KindText && inst.Descriptor.Kind != command.KindTextStyle {
		r.flushText()
	}

	h.ApplyContext(&inst, r.ctx)

	if span, ok := h.GetText(&inst, r.ctx); ok {
		r.pending = append(r.pending, span)
	}

	if ev, ok := h.GetGraphics(&inst, r.ctx); ok {
		r.processGraphics(ev)
	}

	for _, dc := range h.GetDeviceCommands(&inst, r.ctx) {
		r.processDeviceCommand(dc)
	}
}

// flushText wraps and renders whatever text has accumulated since the last
// flush. Only lines before the last were forced to break by width overflow
// or an explicit '\n' span — those get a real Newline(). The last line is
// whatever's left with nothing (yet) ending it, so the cursor just advances
// past its width on the same row; the command that triggered this flush
// (a bare LF, CR, a device command) is responsible for its own line break
// if it needs one, and must not be double-counted here.
func (r *Renderer) flushText() {
	if len(r.pending) == 0 {
		return
	}
	spans := r.pending
	r.pending = nil

	lines := layout.Wrap(r.ctx.GetWidth(), r.ctx.Graphics.RenderArea.X, r.ctx.GetX(), r.ctx.Text.Tabs, spans)
	for i, line := range lines {
		r.out.RenderText(line, r.ctx.GetY())
		if i < len(lines)-1 {
			r.ctx.Newline()
		} else {
			r.ctx.OffsetX(int32(line.Width))
		}
	}
}

func (r *Renderer) processGraphics(ev model.GraphicsEvent) {
	switch ev.Kind {
	case model.GraphicsError:
		r.errors = append(r.errors, ev.Error)
		r.log.Warn("recoverable graphics error", zap.String("error", ev.Error))
	case model.GraphicsRectangles:
		r.out.RenderGraphics(ev.Rectangles)
	case model.GraphicsBarcode:
		r.renderBarcode(ev)
	case model.GraphicsCode2D:
		r.renderCode2D(ev)
	case model.GraphicsImage:
		r.out.RenderImage(ev)
		img := ev.Image
		sx, sy := uint32(img.StretchX), uint32(img.StretchY)
		if sx == 0 {
			sx = 1
		}
		if sy == 0 {
			sy = 1
		}
		switch img.Flow {
		case pixel.FlowInline:
			r.ctx.OffsetX(int32(img.W * sx))
		case pixel.FlowBlock:
			r.ctx.ResetX()
			r.ctx.OffsetY(img.H * sy)
		}
	}
}

func (r *Renderer) renderBarcode(ev model.GraphicsEvent) {
	b := *ev.Barcode
	y := r.ctx.GetY()

	if b.HRI == context.HRIAbove || b.HRI == context.HRIBoth {
		for _, line := range layout.Wrap(r.ctx.GetWidth(), 0, 0, nil, layout.HRIBefore(b)) {
			r.out.RenderText(line, y)
			y += uint32(b.HRIText.CharHeight)
		}
	}

	rects, totalWidth := layout.RasterizeBarcode(r.ctx.GetWidth(), r.ctx.Text.Justify, b, y)
	r.out.RenderGraphics(rects)
	y += uint32(b.PointHeight)
	_ = totalWidth

	if b.HRI == context.HRIBelow || b.HRI == context.HRIBoth {
		for _, line := range layout.Wrap(r.ctx.GetWidth(), 0, 0, nil, layout.HRIAfter(b)) {
			r.out.RenderText(line, y)
			y += uint32(b.HRIText.CharHeight)
		}
	}

	r.ctx.OffsetY(y - r.ctx.GetY())
}

func (r *Renderer) renderCode2D(ev model.GraphicsEvent) {
	c := *ev.Code2D
	x0 := r.ctx.GetX()
	y0 := r.ctx.GetY()
	rects, totalHeight := layout.RasterizeCode2D(r.ctx.GetWidth(), c, x0, y0)
	r.out.RenderGraphics(rects)
	r.ctx.OffsetY(totalHeight)
}

func (r *Renderer) processDeviceCommand(dc command.DeviceCommand) {
	switch dc.Kind {
	case command.DeviceBeginPageMode:
		r.out.PageBegin()
	case command.DeviceChangePageArea, command.DeviceChangePageModeDirection:
		ra := r.ctx.PageMode.RenderArea
		r.out.PageAreaChanged(r.ctx.PageMode.LastRotation, ra.W, ra.H)
	case command.DeviceEndPageMode:
		r.out.PageEnd()
	case command.DevicePrintPageMode:
		r.out.RenderPage(r.ctx.PageMode.PageArea.W, r.ctx.PageMode.PageArea.H)
	}
	r.out.DeviceCommand(dc)
}
