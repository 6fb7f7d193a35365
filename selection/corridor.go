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

// Package selection resolves freehand stroke corridors and character
// offset ranges into glyph span selections.
package selection

import (
	"math"

	"golang.org/x/exp/slices"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/overlay"
	"seehuhn.de/go/overlay/layout"
)

// A Corridor is the rectangular band a freehand stroke is simplified
// into: the stroke's horizontal range combined with its vertical range.
// The stroke's end point is assumed to be at MaxX; column prioritization
// uses this to decide which column the user was aiming at.
type Corridor struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// FromStroke reduces a stroke polyline to its corridor.
func FromStroke(points []vec.Vec2) Corridor {
	if len(points) == 0 {
		return Corridor{}
	}
	c := Corridor{
		MinX: points[0].X, MaxX: points[0].X,
		MinY: points[0].Y, MaxY: points[0].Y,
	}
	for _, p := range points[1:] {
		c.MinX = math.Min(c.MinX, p.X)
		c.MaxX = math.Max(c.MaxX, p.X)
		c.MinY = math.Min(c.MinY, p.Y)
		c.MaxY = math.Max(c.MaxY, p.Y)
	}
	return c
}

// Mid returns the horizontal midpoint of the corridor.
func (c Corridor) Mid() float64 {
	return (c.MinX + c.MaxX) / 2
}

// Params describes one corridor selection.
type Params struct {
	// Spans are the glyph spans of the page.
	Spans []overlay.Span

	// Corridor is the stroke's bounding corridor.
	Corridor Corridor

	// PageWidth and PageHeight are the page dimensions at the current
	// render scale, used for layout analysis and rect normalization.
	PageWidth, PageHeight float64

	// Layout is the page's column structure, if the caller has it
	// cached.  If nil, the spans are analyzed on the fly.
	Layout *layout.Result

	// Tuning overrides the geometric thresholds.  Zero fields select
	// the defaults.
	Tuning overlay.Tuning
}

// Select resolves a stroke corridor to the spans it covers.
//
// On single-column pages a span is selected if its top edge lies within
// the vertical corridor (extended by the Y tolerance) and its horizontal
// extent overlaps the corridor.  On multi-column pages the corridor is
// first narrowed to the most plausible column, so a stroke ending in one
// column does not bleed into an adjacent column's unrelated text.
//
// If the corridor selects nothing, one retry is made with the lower
// bound extended by the auto-drop distance, to catch strokes drawn
// slightly above their target line.  If the retry also selects nothing,
// the result has both IsEmpty and NeedsManualDrop set.
func Select(p Params) overlay.Selection {
	tuning := p.Tuning.FillDefaults()

	lay := p.Layout
	if lay == nil {
		res := layout.Analyze(p.Spans, p.PageWidth)
		lay = &res
	}

	spans := selectPass(p.Spans, p.Corridor, tuning, lay)
	if len(spans) == 0 {
		dropped := p.Corridor
		dropped.MaxY += tuning.AutoDrop
		spans = selectPass(p.Spans, dropped, tuning, lay)
	}
	if len(spans) == 0 {
		return overlay.Selection{
			IsEmpty:         true,
			NeedsManualDrop: true,
			IsMultiColumn:   lay.IsMultiColumn,
		}
	}

	lines := GroupLines(spans, tuning.LineTolerance)
	ordered := flatten(lines)
	return overlay.Selection{
		Text:          JoinLines(lines, tuning.GapToSpace),
		RectsNorm:     normRects(ordered, p.PageWidth, p.PageHeight),
		Spans:         ordered,
		Lines:         lines,
		IsMultiColumn: lay.IsMultiColumn,
	}
}

func selectPass(spans []overlay.Span, c Corridor, tuning overlay.Tuning, lay *layout.Result) []overlay.Span {
	if !lay.IsMultiColumn {
		return inCorridor(spans, c, tuning.YTolerance)
	}
	for _, col := range rankColumns(lay.Columns, c) {
		narrowed := c
		narrowed.MinX = math.Max(c.MinX, col.Left)
		narrowed.MaxX = math.Min(c.MaxX, col.Right)

		var hit []overlay.Span
		for _, s := range inCorridor(spans, narrowed, tuning.YTolerance) {
			if col.Contains(s.CenterX) {
				hit = append(hit, s)
			}
		}
		// one column per stroke: the first column that yields text wins
		if len(hit) > 0 {
			return hit
		}
	}
	return nil
}

// inCorridor applies the single-column selection rule.
func inCorridor(spans []overlay.Span, c Corridor, yTolerance float64) []overlay.Span {
	var hit []overlay.Span
	for _, s := range spans {
		if s.Rect.Top < c.MinY-yTolerance || s.Rect.Top > c.MaxY+yTolerance {
			continue
		}
		if !s.Rect.OverlapsX(c.MinX, c.MaxX) {
			continue
		}
		hit = append(hit, s)
	}
	return hit
}

// column priority under the endpoint rule
const (
	priorityHigh = iota
	priorityMedium
	priorityLow
)

// rankColumns returns the columns intersecting the corridor, ordered by
// endpoint priority: the column whose midpoint is closest to the
// stroke's end point first, then columns near the stroke's midpoint,
// then the rest in page order.
func rankColumns(columns []layout.Column, c Corridor) []layout.Column {
	var hit []layout.Column
	for _, col := range columns {
		if col.Right >= c.MinX && col.Left <= c.MaxX {
			hit = append(hit, col)
		}
	}
	if len(hit) == 0 {
		return nil
	}

	endpoint := c.MaxX
	closest := 0
	for i, col := range hit {
		if math.Abs(col.Mid()-endpoint) < math.Abs(hit[closest].Mid()-endpoint) {
			closest = i
		}
	}

	span := c.MaxX - c.MinX
	priority := func(i int) int {
		if i == closest {
			return priorityHigh
		}
		if math.Abs(hit[i].Mid()-c.Mid()) <= 0.3*span {
			return priorityMedium
		}
		return priorityLow
	}

	order := make([]int, len(hit))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return priority(a) - priority(b)
	})

	ranked := make([]layout.Column, len(hit))
	for i, j := range order {
		ranked[i] = hit[j]
	}
	return ranked
}

func flatten(lines [][]overlay.Span) []overlay.Span {
	var spans []overlay.Span
	for _, line := range lines {
		spans = append(spans, line...)
	}
	return spans
}

func normRects(spans []overlay.Span, pageWidth, pageHeight float64) []overlay.NormRect {
	if pageWidth <= 0 || pageHeight <= 0 {
		return nil
	}
	rects := make([]overlay.NormRect, len(spans))
	for i, s := range spans {
		rects[i] = overlay.NormRect{
			X: s.Rect.Left / pageWidth,
			Y: s.Rect.Top / pageHeight,
			W: s.Rect.Width() / pageWidth,
			H: s.Rect.Height() / pageHeight,
		}
	}
	return rects
}
