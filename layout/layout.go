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

// Package layout detects the column structure of a document page from
// its glyph spans.
package layout

import (
	"math"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"seehuhn.de/go/overlay"
)

// A Column is one detected vertical band of text.  Columns are transient:
// they are recomputed per analysis call and never persisted.
type Column struct {
	Left, Right float64
	Index       int
}

// Contains reports whether x falls inside the column band.
func (c Column) Contains(x float64) bool {
	return x >= c.Left && x <= c.Right
}

// Mid returns the horizontal midpoint of the column.
func (c Column) Mid() float64 {
	return (c.Left + c.Right) / 2
}

// Result is the outcome of one layout analysis.
type Result struct {
	IsMultiColumn bool

	// Columns lists the detected bands from left to right.  Empty for
	// single-column pages.
	Columns []Column
}

const (
	// minSpans is the minimum number of spans required to attempt
	// detection.  Sparse pages (title pages, figures) produce too few
	// line extents for the histogram to be meaningful.
	minSpans = 10

	// lineBucket is the vertical rounding applied when grouping spans
	// into text lines.
	lineBucket = 5

	// histogramSize is the number of horizontal coverage buckets.
	histogramSize = 100

	// minGapFraction is the minimum width of an uncovered run, as a
	// fraction of the page width, for it to count as a column gutter.
	minGapFraction = 0.05
)

// Analyze determines whether the given page uses a multi-column layout.
//
// Spans are grouped into text lines by rounding their vertical position
// to 5px buckets; each line contributes its horizontal extent to a
// 100-bucket coverage histogram of the page width.  Contiguous uncovered
// runs of at least 5% of the page width, away from the page edges, are
// treated as column gutters; the page is split at each gutter's midpoint.
func Analyze(spans []overlay.Span, pageWidth float64) Result {
	if len(spans) < minSpans || pageWidth <= 0 {
		return Result{}
	}

	// horizontal extent per text line
	type extent struct {
		min, max float64
	}
	lines := make(map[int]*extent)
	for _, s := range spans {
		key := int(math.Round(s.Rect.Top / lineBucket))
		e, ok := lines[key]
		if !ok {
			lines[key] = &extent{min: s.Rect.Left, max: s.Rect.Right}
			continue
		}
		e.min = math.Min(e.min, s.Rect.Left)
		e.max = math.Max(e.max, s.Rect.Right)
	}

	// coverage histogram over the page width
	var covered [histogramSize]bool
	bucketWidth := pageWidth / histogramSize
	for _, key := range maps.Keys(lines) {
		e := lines[key]
		lo := int(e.min / bucketWidth)
		hi := int(e.max / bucketWidth)
		lo = max(lo, 0)
		hi = min(hi, histogramSize-1)
		for i := lo; i <= hi; i++ {
			covered[i] = true
		}
	}

	// uncovered runs away from the page edges become column boundaries
	minRun := int(math.Ceil(minGapFraction * histogramSize))
	var boundaries []float64
	run := 0
	for i := 0; i <= histogramSize; i++ {
		if i < histogramSize && !covered[i] {
			run++
			continue
		}
		if run >= minRun && i-run > 0 && i < histogramSize {
			mid := float64(i) - float64(run)/2
			boundaries = append(boundaries, mid*bucketWidth)
		}
		run = 0
	}

	if len(boundaries) == 0 {
		return Result{}
	}
	slices.Sort(boundaries)

	edges := make([]float64, 0, len(boundaries)+2)
	edges = append(edges, 0)
	edges = append(edges, boundaries...)
	edges = append(edges, pageWidth)

	columns := make([]Column, len(edges)-1)
	for i := range columns {
		columns[i] = Column{Left: edges[i], Right: edges[i+1], Index: i}
	}
	return Result{IsMultiColumn: true, Columns: columns}
}
