// Package refadapter is a minimal, real OutputRenderer implementation
// (spec.md §6.3): it composites onto an image.Gray canvas with the
// standard image/image-draw packages and renders text with
// golang.org/x/image/font/basicfont, exercising the image utilities the
// rest of the module builds without pulling in a full graphics stack.
package refadapter

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/nullterm/escreceipt/internal/command"
	"github.com/nullterm/escreceipt/internal/context"
	"github.com/nullterm/escreceipt/internal/layout"
	"github.com/nullterm/escreceipt/internal/model"
)

// Page is one finished page's raster and its rotation, returned from
// Adapter.Pages after EndRender.
type Page struct {
	Canvas   *image.Gray
	Rotation context.Rotation
}

// Adapter draws everything, page-mode content included, onto one canvas and
// appends it as a single page at EndRender; it does not start a separate
// canvas per page. The finished set is exposed via Pages.
type Adapter struct {
	width, height uint32
	canvas        *image.Gray
	pages         []Page
	inPageMode    bool
}

// New builds an Adapter sized to a paper of the given pixel width; height
// grows as content is rendered.
func New(width uint32) *Adapter {
	return &Adapter{width: width, height: 1}
}

func (a *Adapter) ensureCanvas() {
	if a.canvas == nil {
		a.canvas = image.NewGray(image.Rect(0, 0, int(a.width), 1))
	}
}

func (a *Adapter) growTo(y uint32) {
	a.ensureCanvas()
	if int(y) <= a.canvas.Bounds().Dy() {
		return
	}
	next := image.NewGray(image.Rect(0, 0, int(a.width), int(y)))
	draw.Draw(next, next.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(next, a.canvas.Bounds(), a.canvas, image.Point{}, draw.Src)
	a.canvas = next
}

func (a *Adapter) BeginRender() {
	a.ensureCanvas()
}

func (a *Adapter) EndRender() {
	if a.canvas != nil {
		a.pages = append(a.pages, Page{Canvas: a.canvas})
	}
}

func (a *Adapter) PageBegin() { a.inPageMode = true }

func (a *Adapter) PageAreaChanged(rotation context.Rotation, width, height uint32) {
	a.growTo(height)
	if len(a.pages) > 0 {
		a.pages[len(a.pages)-1].Rotation = rotation
	}
}

func (a *Adapter) PageEnd() { a.inPageMode = false }

func (a *Adapter) RenderPage(pixelWidth, pixelHeight uint32) {
	a.growTo(pixelHeight)
}

func (a *Adapter) RenderGraphics(rects []model.Rectangle) {
	a.ensureCanvas()
	for _, r := range rects {
		a.growTo(r.Y + r.H)
		ink := color.Gray{Y: 0}
		draw.Draw(a.canvas, image.Rect(int(r.X), int(r.Y), int(r.X+r.W), int(r.Y+r.H)), image.NewUniform(ink), image.Point{}, draw.Src)
	}
}

func (a *Adapter) RenderImage(ev model.GraphicsEvent) {
	if ev.Image == nil {
		return
	}
	img := *ev.Image
	a.ensureCanvas()
	a.growTo(img.Y + img.H*uint32(img.StretchY))
	gray := img.AsGrayscale()
	for y := uint32(0); y < img.H; y++ {
		for x := uint32(0); x < img.W; x++ {
			v := gray[y*img.W+x]
			for sy := uint8(0); sy < maxU8(img.StretchY, 1); sy++ {
				for sx := uint8(0); sx < maxU8(img.StretchX, 1); sx++ {
					px := int(img.X+x*uint32(maxU8(img.StretchX, 1))) + int(sx)
					py := int(img.Y+y*uint32(maxU8(img.StretchY, 1))) + int(sy)
					if px >= 0 && py >= 0 && px < a.canvas.Bounds().Dx() && py < a.canvas.Bounds().Dy() {
						a.canvas.SetGray(px, py, color.Gray{Y: v})
					}
				}
			}
		}
	}
}

func maxU8(v, floor uint8) uint8 {
	if v == 0 {
		return floor
	}
	return v
}

func (a *Adapter) RenderText(line layout.Line, y uint32) {
	a.ensureCanvas()
	a.growTo(y + line.MaxHeight)
	face := basicfont.Face7x13
	var x uint32
	for _, span := range line.Spans {
		d := &font.Drawer{
			Dst:  a.canvas,
			Src:  image.NewUniform(color.Black),
			Face: face,
			Dot:  fixed.P(int(x), int(y)+face.Ascent),
		}
		d.DrawString(span.Text)
		x += uint32(d.MeasureString(span.Text) >> 6)
	}
}

func (a *Adapter) DeviceCommand(cmd command.DeviceCommand) {}

// Pages returns every finished page canvas in render order.
func (a *Adapter) Pages() []Page { return a.pages }
