// Package layout implements the text shaper spec.md §4.4 describes: word
// segmentation, wrap-to-width with forced splitting of over-long words,
// tab resolution and per-line justification; plus the barcode/2D-code
// rasterization in §4.5 that turns a model.Barcode/model.Code2D into
// placed rectangles.
package layout

import (
	"strings"

	"github.com/nullterm/escreceipt/internal/context"
	"github.com/nullterm/escreceipt/internal/model"
)

// fitWidth is the width used to decide whether a word fits on a line. A
// word's single glued trailing space (see breakIntoWords) is allowed to
// hang past the line's edge without forcing a wrap — only the visible
// content has to fit, matching spec.md §8 scenario 6 where a 10-char word
// plus trailing space is measured against a render width of exactly
// 10 char-widths.
func fitWidth(s model.TextSpan) uint32 {
	trimmed := strings.TrimRight(s.Text, " ")
	return s.WithText(trimmed).Width()
}

// Line is one laid-out output line: the spans that make it up (already
// split/merged to fit), its total pixel width, the tallest span's height,
// and the justification it was resolved with.
type Line struct {
	Spans     []model.TextSpan
	Width     uint32
	MaxHeight uint32
	Justify   context.Justify
}

// breakIntoWords segments text per spec.md §4.4 item 1: '\n' and '\t' are
// their own units; everything else splits on spaces with the trailing
// space glued onto the word it follows.
func breakIntoWords(text string) []string {
	var words []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}

	for _, r := range text {
		switch r {
		case '\n', '\t':
			flush()
			words = append(words, string(r))
		case ' ':
			cur.WriteRune(r)
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return words
}

// charWidth returns a span's per-character pixel width at its current
// stretch multiplier, never zero (a zero divisor would stall forced-split
// arithmetic).
func charWidth(s model.TextSpan) uint32 {
	mult := uint32(s.StretchX)
	if mult == 0 {
		mult = 1
	}
	w := uint32(s.CharWidth) * mult
	if w == 0 {
		return 1
	}
	return w
}

// Wrap lays spans out into Lines within renderWidth pixels, starting the
// first line at startX (so text continuing after an inline image picks up
// where the image left off) and every subsequent line at baseX. tabs holds
// the tab-stop table in character widths, used to resolve '\t'.
func Wrap(renderWidth, baseX, startX uint32, tabs []uint8, spans []model.TextSpan) []Line {
	w := &wrapper{renderWidth: renderWidth, baseX: baseX, x: startX, tabs: tabs}
	for _, span := range spans {
		for _, token := range breakIntoWords(span.Text) {
			w.place(span.WithText(token))
		}
	}
	w.flush()
	return w.lines
}

type wrapper struct {
	lines []Line
	tabs  []uint8

	renderWidth uint32
	baseX       uint32
	x           uint32

	cur       []model.TextSpan
	curWidth  uint32
	curHeight uint32
}

func (w *wrapper) flush() {
	if len(w.cur) == 0 {
		return
	}
	j := context.JustifyLeft
	if len(w.cur) > 0 {
		j = w.cur[0].Justify
	}
	w.lines = append(w.lines, Line{Spans: w.cur, Width: w.curWidth, MaxHeight: w.curHeight, Justify: j})
	w.cur = nil
	w.curWidth = 0
	w.curHeight = 0
}

func (w *wrapper) newline() {
	w.flush()
	w.x = w.baseX
}

func (w *wrapper) append(span model.TextSpan) {
	w.cur = append(w.cur, span)
	width := span.Width()
	w.curWidth += width
	if h := span.Height(); h > w.curHeight {
		w.curHeight = h
	}
	w.x += width
}

func (w *wrapper) available() uint32 {
	return context.SaturatingSub(w.renderWidth, context.SaturatingSub(w.x, w.baseX))
}

func (w *wrapper) place(span model.TextSpan) {
	switch span.Text {
	case "\n":
		w.flush()
		w.lines = append(w.lines, Line{Justify: context.JustifyLeft})
		w.x = w.baseX
		return
	case "\t":
		w.advanceTab(span)
		return
	}

	fw := fitWidth(span)
	avail := w.available()

	if fw <= avail {
		w.append(span)
		return
	}
	if fw <= w.renderWidth {
		w.newline()
		w.append(span)
		return
	}
	w.forceSplit(span)
}

// advanceTab moves the cursor to the next tab stop whose cumulative
// position (running sum of tabs[i]*char_width) strictly exceeds the
// current x; a tab past the last stop is a no-op, per spec.md §4.4 item 3.
func (w *wrapper) advanceTab(span model.TextSpan) {
	cw := charWidth(span)
	cur := context.SaturatingSub(w.x, w.baseX)
	var cum uint32
	for _, stop := range w.tabs {
		cum += uint32(stop) * cw
		if cum > cur {
			w.x = w.baseX + cum
			return
		}
	}
	// No stop exceeds the current position: no-op.
}

// forceSplit breaks a word wider than the whole render width into
// fixed-width pieces: the first piece sized to the space left on the
// current line, subsequent pieces sized to a full line, per spec.md §4.4
// item 2's third case.
func (w *wrapper) forceSplit(span model.TextSpan) {
	cw := charWidth(span)
	runes := []rune(span.Text)
	idx := 0
	first := true
	for idx < len(runes) {
		limit := w.renderWidth / cw
		if first {
			limit = w.available() / cw
		}
		if limit == 0 {
			limit = 1
		}
		end := idx + int(limit)
		if end > len(runes) {
			end = len(runes)
		}
		piece := span.WithText(string(runes[idx:end]))
		w.append(piece)
		idx = end
		first = false
		if idx < len(runes) {
			w.newline()
		}
	}
}
