// seehuhn.de/go/overlay - text selection and highlighting for document viewers
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package overlay

// Span is an immutable snapshot of one glyph-layer text fragment on one
// page at one render scale.  Spans are produced by scanning the rendering
// surface's text layer and are cached per page and scale; a scale change
// always produces fresh spans.
type Span struct {
	// Text is the fragment text as rendered.
	Text string

	// Rect is the fragment's bounding rectangle in page-relative pixels.
	Rect Rect

	// CenterX and CenterY are the midpoint of Rect, precomputed because
	// selection and layout analysis consult them for every span on every
	// stroke.
	CenterX, CenterY float64

	// Index is the position of the span in the page's reading order, as
	// reported by the text layer.
	Index int
}

// MakeSpan builds a Span with the center coordinates filled in.
func MakeSpan(text string, rect Rect, index int) Span {
	return Span{
		Text:    text,
		Rect:    rect,
		CenterX: (rect.Left + rect.Right) / 2,
		CenterY: (rect.Top + rect.Bottom) / 2,
		Index:   index,
	}
}

// Surface is the rendering surface the overlay engine draws its geometry
// from.  It is implemented by the embedding viewer, not by this module.
//
// Both queries describe the current layout: Spans returns the glyph spans
// of one page at the given render scale, and PageBox returns the page's
// position and size relative to the scroll container.  If the requested
// page has not been laid out yet (lazily rendered pages), implementations
// return a [*GeometryNotFoundError]; callers retry with a bound.
type Surface interface {
	Spans(page int, scale float64) ([]Span, error)
	PageBox(page int) (PageBox, error)
}
