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

// Package project converts highlight geometry between page-normalized
// and absolute screen coordinates.
//
// Normalized rectangles are the stored form: fractions of the page box,
// valid across scroll and resize.  Absolute rectangles exist only for
// drawing; they are recomputed on every layout-affecting event and are
// never cached or persisted.
package project

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/overlay"
)

// ToNormalized converts absolute rectangles (relative to the scroll
// container, at scroll offset zero) into fractions of the page box.
func ToNormalized(rects []overlay.Rect, box overlay.PageBox) []overlay.NormRect {
	if box.IsZero() {
		return nil
	}

	M := matrix.Translate(-box.Left, -box.Top).
		Mul(matrix.Scale(1/box.Width, 1/box.Height))

	norm := make([]overlay.NormRect, len(rects))
	for i, r := range rects {
		x0, y0 := M.Apply(r.Left, r.Top)
		x1, y1 := M.Apply(r.Right, r.Bottom)
		norm[i] = overlay.NormRect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
	}
	return norm
}

// ToAbsolute projects normalized rectangles into absolute, on-screen
// rectangles for the current page box and scroll offset.  The function
// is pure: repeated calls with the same inputs give the same result, and
// overlapping rectangles are kept as independent rectangles rather than
// merged, so stacked highlights render on top of each other.
func ToAbsolute(norm []overlay.NormRect, box overlay.PageBox, scroll vec.Vec2) []overlay.Rect {
	M := matrix.Scale(box.Width, box.Height).
		Mul(matrix.Translate(box.Left-scroll.X, box.Top-scroll.Y))

	rects := make([]overlay.Rect, len(norm))
	for i, n := range norm {
		x0, y0 := M.Apply(n.X, n.Y)
		x1, y1 := M.Apply(n.X+n.W, n.Y+n.H)
		rects[i] = overlay.Rect{Left: x0, Top: y0, Right: x1, Bottom: y1}
	}
	return rects
}
