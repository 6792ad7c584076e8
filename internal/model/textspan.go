// Package model holds the data produced by command handlers and consumed by
// the layout engine and output adapters: styled text spans, barcodes, 2D
// codes and the vector/graphics events an adapter renders. These are plain
// data — the behavior that builds and consumes them lives in internal/layout
// and internal/render.
package model

import "github.com/nullterm/escreceipt/internal/context"

// TextSpan is text resolved against the context at the moment a
// text-producing command fired: everything the layout engine needs to
// measure and draw it without consulting the context again.
type TextSpan struct {
	Text string

	Font          context.Font
	CharWidth     uint16
	CharHeight    uint16
	Bold          bool
	Italic        bool
	Underline     context.Underline
	Strikethrough context.Strikethrough
	Invert        bool
	UpsideDown    bool
	StretchX      uint8
	StretchY      uint8
	Justify       context.Justify

	Foreground context.RGBA
	Background context.RGBA
}

// Width returns the span's rendered pixel width: one char-width per rune,
// scaled by StretchX.
func (s TextSpan) Width() uint32 {
	n := uint32(len([]rune(s.Text)))
	mult := uint32(s.StretchX)
	if mult == 0 {
		mult = 1
	}
	return n * uint32(s.CharWidth) * mult
}

// Height returns the span's rendered pixel height, scaled by StretchY.
func (s TextSpan) Height() uint32 {
	mult := uint32(s.StretchY)
	if mult == 0 {
		mult = 1
	}
	return uint32(s.CharHeight) * mult
}

// WithText returns a copy of the span with different text, keeping every
// style attribute — used by the layout engine's word splitter, which slices
// one span's text into several differently-sized spans that all share style.
func (s TextSpan) WithText(text string) TextSpan {
	s.Text = text
	return s
}
