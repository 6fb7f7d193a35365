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

package layout

import (
	"testing"

	"seehuhn.de/go/overlay"
)

// twoColumnPage builds spans forming two text columns, nLines lines each.
func twoColumnPage(nLines int) []overlay.Span {
	var spans []overlay.Span
	for i := 0; i < nLines; i++ {
		y := float64(20 + i*15)
		spans = append(spans,
			overlay.MakeSpan("left", overlay.Rect{Left: 0, Top: y, Right: 100, Bottom: y + 12}, 2*i),
			overlay.MakeSpan("right", overlay.Rect{Left: 200, Top: y, Right: 300, Bottom: y + 12}, 2*i+1))
	}
	return spans
}

func TestTwoColumns(t *testing.T) {
	res := Analyze(twoColumnPage(8), 300)
	if !res.IsMultiColumn {
		t.Fatal("two-column page not detected")
	}
	if len(res.Columns) != 2 {
		t.Fatalf("got %d columns, want 2", len(res.Columns))
	}

	left, right := res.Columns[0], res.Columns[1]
	if !left.Contains(50) || left.Contains(250) {
		t.Errorf("left column %v does not cover the left text band", left)
	}
	if !right.Contains(250) || right.Contains(50) {
		t.Errorf("right column %v does not cover the right text band", right)
	}
	if left.Right != right.Left {
		t.Errorf("columns %v and %v do not share a boundary", left, right)
	}
}

func TestSingleColumn(t *testing.T) {
	var spans []overlay.Span
	for i := 0; i < 12; i++ {
		y := float64(20 + i*15)
		spans = append(spans, overlay.MakeSpan("line",
			overlay.Rect{Left: 10, Top: y, Right: 290, Bottom: y + 12}, i))
	}

	res := Analyze(spans, 300)
	if res.IsMultiColumn {
		t.Error("single-column page reported as multi-column")
	}
	if len(res.Columns) != 0 {
		t.Errorf("got %d columns, want none", len(res.Columns))
	}
}

func TestSparsePage(t *testing.T) {
	// two-column geometry, but below the span threshold
	res := Analyze(twoColumnPage(4), 300)
	if res.IsMultiColumn {
		t.Error("sparse page must not trigger column detection")
	}
}

func TestSmallGapIgnored(t *testing.T) {
	// the gap between the bands is below 5% of the page width
	var spans []overlay.Span
	for i := 0; i < 8; i++ {
		y := float64(20 + i*15)
		spans = append(spans,
			overlay.MakeSpan("a", overlay.Rect{Left: 0, Top: y, Right: 148, Bottom: y + 12}, 2*i),
			overlay.MakeSpan("b", overlay.Rect{Left: 158, Top: y, Right: 300, Bottom: y + 12}, 2*i+1))
	}

	res := Analyze(spans, 300)
	if res.IsMultiColumn {
		t.Error("narrow inter-word gap reported as column gutter")
	}
}

func TestThreeColumns(t *testing.T) {
	var spans []overlay.Span
	for i := 0; i < 8; i++ {
		y := float64(20 + i*15)
		spans = append(spans,
			overlay.MakeSpan("a", overlay.Rect{Left: 0, Top: y, Right: 80, Bottom: y + 12}, 3*i),
			overlay.MakeSpan("b", overlay.Rect{Left: 110, Top: y, Right: 190, Bottom: y + 12}, 3*i+1),
			overlay.MakeSpan("c", overlay.Rect{Left: 220, Top: y, Right: 300, Bottom: y + 12}, 3*i+2))
	}

	res := Analyze(spans, 300)
	if !res.IsMultiColumn || len(res.Columns) != 3 {
		t.Fatalf("got %d columns, want 3", len(res.Columns))
	}
	for i, col := range res.Columns {
		if col.Index != i {
			t.Errorf("column %d has index %d", i, col.Index)
		}
	}
}
