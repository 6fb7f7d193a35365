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

import "time"

// DefaultColor is the highlight color used when none is given.
const DefaultColor = "#ffff00"

// A Highlight is one persisted text markup.  Its geometry is stored
// normalized to the page box, so it stays valid across scroll and resize;
// a zoom change only changes the page box fed into the projection, never
// the stored rectangles.
//
// The remote store is the source of truth; the in-memory highlight list
// kept by a session is a cache of it.
type Highlight struct {
	// ID identifies the highlight.  Freshly created highlights carry a
	// client-side temporary id until the remote save returns the
	// server-assigned one.
	ID string

	// Text is the highlighted text as selected.
	Text string

	// Page is the 1-based page number.
	Page int

	// Rects is the highlight geometry, normalized to the page box.
	Rects []NormRect

	// StartOffset and EndOffset give the highlight's character range in
	// the page's reading order.  They allow the geometry to be recomputed
	// when the stored rectangles cannot be located, and they order
	// highlights within a page.
	StartOffset, EndOffset int

	// Color is an opaque color string, passed through to the drawing
	// layer unmodified.
	Color string

	// Note is the user's comment, possibly empty.
	Note string

	// CreatedAt is the creation time.
	CreatedAt time.Time

	// Source records how the highlight was made ("wand", "range", ...).
	Source string
}

// HasRange reports whether the highlight carries a usable offset range.
func (h *Highlight) HasRange() bool {
	return h.EndOffset > h.StartOffset
}
