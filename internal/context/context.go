package context

import (
	"github.com/nullterm/escreceipt/internal/pixel"
)

// ImageRefStorage distinguishes the two stored-graphics key spaces GS ( L /
// GS 8 L support: NV (disc) graphics survive a reset, RAM graphics do not.
type ImageRefStorage int

const (
	StorageRAM ImageRefStorage = iota
	StorageDisc
)

// ImageRef keys the stored-graphics table: two key-code bytes plus which
// storage class they were defined in, since RAM and disc slots don't share
// a namespace.
type ImageRef struct {
	KC1, KC2 byte
	Storage  ImageRefStorage
}

// RenderColors is the printer's configured ink palette: the paper color
// plus up to three selectable print colors, addressed by the 1-based color
// number an image carries in pixel.Image.ColorIndex.
type RenderColors struct {
	Paper  RGBA
	Color1 RGBA
	Color2 RGBA
	Color3 RGBA
}

// ColorForNumber resolves a 1-based color selector to an RGBA ink, falling
// back to Color1 (black, by default) for 0 or any number it doesn't
// recognize rather than rejecting the command.
func (rc RenderColors) ColorForNumber(n int) RGBA {
	switch n {
	case 2:
		return rc.Color2
	case 3:
		return rc.Color3
	default:
		return rc.Color1
	}
}

func defaultRenderColors() RenderColors {
	return RenderColors{Paper: White, Color1: Black, Color2: Black, Color3: Black}
}

// TextContext carries every style attribute that affects how a TextSpan is
// shaped and measured.
type TextContext struct {
	Font          Font
	Justify       Justify
	Bold          bool
	Italic        bool
	Underline     Underline
	Strikethrough Strikethrough
	Invert        bool
	UpsideDown    bool
	Smoothing     bool
	WidthMult     uint8
	HeightMult    uint8
	LineSpacing   uint8 // pixels; 0 means "use the font's default"

	CharacterSet uint8
	CodeTable    uint8

	Foreground RGBA
	Background RGBA

	// Tabs holds horizontal tab stop widths in character widths; each stop's
	// position is the running sum of the widths up to and including it.
	Tabs []uint8
}

func defaultTextContext() TextContext {
	tabs := make([]uint8, 32)
	for i := range tabs {
		tabs[i] = 8
	}
	return TextContext{
		Font:        FontA,
		Justify:     JustifyLeft,
		WidthMult:   1,
		HeightMult:  1,
		Foreground:  Black,
		Background:  White,
		CodeTable:   0,
		Tabs:        tabs,
	}
}

// BarcodeContext carries 1D barcode rendering defaults set by GS h / GS w /
// GS H / GS f before a barcode payload command arrives.
type BarcodeContext struct {
	HRI        HRIPlacement
	HRIFont    Font
	ModuleW    uint8 // "narrow bar" width in dots, GS w
	Height     uint8 // GS h, in dots
}

func defaultBarcodeContext() BarcodeContext {
	return BarcodeContext{HRI: HRINone, HRIFont: FontA, ModuleW: 3, Height: 162}
}

// Code2DContext carries 2D symbol rendering defaults (GS ( k) and the
// symbol most recently staged by a "store symbol data" subcommand, printed
// by a later "print symbol data" subcommand.
type Code2DContext struct {
	ModuleSize uint8
	ErrorLevel uint8

	// Staged holds a payload set by a store subcommand and consumed by the
	// matching print subcommand; nil when nothing is staged.
	Staged []byte
}

func defaultCode2DContext() Code2DContext {
	return Code2DContext{ModuleSize: 3, ErrorLevel: 1}
}

// GraphicsContext carries the printable-area geometry, cursor position,
// device DPI/motion-unit configuration, ink palette and the stored-graphics
// table.
type GraphicsContext struct {
	DPI           uint16
	HMotionUnit   float64
	VMotionUnit   float64

	// RenderArea is the rectangle text and graphics are laid out into. It
	// starts as the full paper width and EndPageMode resets it to
	// PaperArea; page-mode area and direction commands update
	// PageMode.RenderArea only and leave this field unchanged.
	RenderArea Rect
	PaperArea  Rect

	CursorX, CursorY uint32

	RenderColors    RenderColors
	StoredGraphics  map[ImageRef]pixel.Image
	BufferGraphics  []pixel.Image
}

func defaultGraphicsContext(paperWidthDots uint32, dpi uint16) GraphicsContext {
	area := Rect{X: 0, Y: 0, W: paperWidthDots, H: 0}
	return GraphicsContext{
		DPI:            dpi,
		HMotionUnit:    1,
		VMotionUnit:    1,
		RenderArea:     area,
		PaperArea:      area,
		RenderColors:   defaultRenderColors(),
		StoredGraphics: make(map[ImageRef]pixel.Image),
	}
}

// Context is the full printer-state snapshot command handlers read and
// mutate. Default holds the value Reset restores, captured once at
// construction so Reset never has to re-derive the starting configuration.
type Context struct {
	Text     TextContext
	Barcode  BarcodeContext
	Code2D   Code2DContext
	Graphics GraphicsContext
	PageMode PageMode

	Default *Context
}

// NewContext builds a fresh Context for a paper of the given width (in
// dots) at the given DPI, with Default pointing at an independent snapshot
// of the same starting state for Reset to restore.
func NewContext(paperWidthDots uint32, dpi uint16) *Context {
	ctx := &Context{
		Text:     defaultTextContext(),
		Barcode:  defaultBarcodeContext(),
		Code2D:   defaultCode2DContext(),
		Graphics: defaultGraphicsContext(paperWidthDots, dpi),
	}
	snapshot := *ctx
	snapshot.Graphics.StoredGraphics = make(map[ImageRef]pixel.Image)
	ctx.Default = &snapshot
	return ctx
}

// Reset restores Text, Barcode, Code2D, Graphics and PageMode to their
// construction-time defaults. Stored (NV) graphics survive a reset in real
// printers; this mirrors that by only clearing RAM-class entries.
func (c *Context) Reset() {
	def := c.Default
	kept := make(map[ImageRef]pixel.Image, len(c.Graphics.StoredGraphics))
	for ref, img := range c.Graphics.StoredGraphics {
		if ref.Storage == StorageDisc {
			kept[ref] = img
		}
	}
	c.Text = def.Text
	c.Barcode = def.Barcode
	c.Code2D = def.Code2D
	c.Graphics = def.Graphics
	c.Graphics.StoredGraphics = kept
	c.Graphics.BufferGraphics = nil
	c.PageMode.Reset()
}

// GetX returns the current horizontal cursor position.
func (c *Context) GetX() uint32 { return c.Graphics.CursorX }

// SetX sets the horizontal cursor position, clamped to the render area.
func (c *Context) SetX(x uint32) {
	max := c.Graphics.RenderArea.X + c.Graphics.RenderArea.W
	if x > max {
		x = max
	}
	c.Graphics.CursorX = x
}

// OffsetX moves the cursor by a signed delta, saturating at the render
// area's base x rather than underflowing.
func (c *Context) OffsetX(delta int32) {
	base := c.Graphics.RenderArea.X
	if delta < 0 {
		d := uint32(-delta)
		if d > c.Graphics.CursorX || c.Graphics.CursorX-d < base {
			c.Graphics.CursorX = base
			return
		}
		c.Graphics.CursorX -= d
		return
	}
	c.SetX(c.Graphics.CursorX + uint32(delta))
}

// ResetX returns the cursor to the render area's base x.
func (c *Context) ResetX() { c.Graphics.CursorX = c.Graphics.RenderArea.X }

// GetY returns the current vertical cursor position.
func (c *Context) GetY() uint32 { return c.Graphics.CursorY }

// OffsetY advances the cursor vertically by delta pixels.
func (c *Context) OffsetY(delta uint32) { c.Graphics.CursorY += delta }

// GetWidth returns the render area's full width in pixels.
func (c *Context) GetWidth() uint32 { return c.Graphics.RenderArea.W }

// GetAvailableWidth returns the pixels remaining on the current line.
func (c *Context) GetAvailableWidth() uint32 {
	used := SaturatingSub(c.Graphics.CursorX, c.Graphics.RenderArea.X)
	return SaturatingSub(c.Graphics.RenderArea.W, used)
}

// Newline resets x to the line start and advances y by one line height.
func (c *Context) Newline() {
	c.ResetX()
	c.OffsetY(uint32(c.LineHeightPixels()))
}

// Feed advances y by n line heights without resetting x.
func (c *Context) Feed(lines uint8) {
	c.OffsetY(uint32(lines) * uint32(c.LineHeightPixels()))
}

// FontSizePixels returns the current font's cell size scaled by the active
// width/height multipliers.
func (c *Context) FontSizePixels() (w, h uint16) {
	cw, ch := c.Text.Font.CellSize()
	wm, hm := c.Text.WidthMult, c.Text.HeightMult
	if wm == 0 {
		wm = 1
	}
	if hm == 0 {
		hm = 1
	}
	return uint16(cw) * uint16(wm), uint16(ch) * uint16(hm)
}

// LineHeightPixels returns the vertical advance for one line of text: the
// scaled font height plus any configured extra line spacing.
func (c *Context) LineHeightPixels() uint16 {
	_, h := c.FontSizePixels()
	return h + uint16(c.Text.LineSpacing)
}

// PointsToPixels converts a measurement in 1/72" points to device pixels at
// the context's configured DPI.
func (c *Context) PointsToPixels(points float64) uint32 {
	dpi := c.Graphics.DPI
	if dpi == 0 {
		dpi = 203 // common thermal-printer native resolution
	}
	return uint32(points / 72.0 * float64(dpi))
}

// SetTabLen overwrites the tab stop table with a copy of the given stop
// widths.
func (c *Context) SetTabLen(stops []uint8) {
	c.Text.Tabs = append([]uint8(nil), stops...)
}

// CalculateJustification returns the x offset to add to a line of the given
// pixel width so it lands according to the active Justify setting.
func (c *Context) CalculateJustification(lineWidth uint32) uint32 {
	return JustifyOffset(c.Graphics.RenderArea.W, lineWidth, c.Text.Justify)
}

// JustifyOffset is the pure computation behind CalculateJustification,
// exposed so the layout engine can justify a line without holding a
// *Context (it only ever knows the render width it was handed).
func JustifyOffset(renderWidth, lineWidth uint32, j Justify) uint32 {
	if lineWidth >= renderWidth {
		return 0
	}
	switch j {
	case JustifyCenter:
		return (renderWidth - lineWidth) / 2
	case JustifyRight:
		return renderWidth - lineWidth
	default:
		return 0
	}
}
