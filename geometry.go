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

import (
	"fmt"
	"math"
)

// Rect is a rectangle in page-relative pixel coordinates.  The origin is
// the top-left corner of the page, with y growing downwards, matching the
// coordinate system of the rendering surface's text layer.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// IsZero is true if the rectangle is the zero rectangle.
func (r Rect) IsZero() bool {
	return r.Left == 0 && r.Top == 0 && r.Right == 0 && r.Bottom == 0
}

// OverlapsX reports whether the horizontal extents of r and [x0, x1]
// overlap, i.e. r is neither entirely left of x0 nor entirely right of x1.
func (r Rect) OverlapsX(x0, x1 float64) bool {
	return r.Right >= x0 && r.Left <= x1
}

// Extend enlarges the rectangle to also cover other.
func (r *Rect) Extend(other Rect) {
	if other.IsZero() {
		return
	}
	if r.IsZero() {
		*r = other
		return
	}
	if other.Left < r.Left {
		r.Left = other.Left
	}
	if other.Top < r.Top {
		r.Top = other.Top
	}
	if other.Right > r.Right {
		r.Right = other.Right
	}
	if other.Bottom > r.Bottom {
		r.Bottom = other.Bottom
	}
}

// NearlyEqual reports whether the corner coordinates of two rectangles
// differ by less than eps.
func (r Rect) NearlyEqual(other Rect, eps float64) bool {
	return math.Abs(r.Left-other.Left) < eps &&
		math.Abs(r.Top-other.Top) < eps &&
		math.Abs(r.Right-other.Right) < eps &&
		math.Abs(r.Bottom-other.Bottom) < eps
}

func (r Rect) String() string {
	return fmt.Sprintf("[%.2f %.2f %.2f %.2f]", r.Left, r.Top, r.Right, r.Bottom)
}

// NormRect is a rectangle expressed as fractions (0..1) of a page's width
// and height.  Normalized rectangles are independent of zoom and scroll and
// are the only geometry that is ever persisted.
type NormRect struct {
	X, Y, W, H float64
}

// IsDegenerate reports whether the rectangle has no area.
func (n NormRect) IsDegenerate() bool {
	return n.W <= 0 || n.H <= 0
}

// PageBox describes the position and size of one rendered page, relative
// to the scroll container of the rendering surface.
type PageBox struct {
	Left, Top     float64
	Width, Height float64
}

// IsZero is true if the page box has not been laid out yet.
func (b PageBox) IsZero() bool {
	return b.Width == 0 && b.Height == 0
}
