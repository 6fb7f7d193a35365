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

package selection

import (
	"testing"

	"seehuhn.de/go/overlay"
)

// reading-order offsets of the test spans:
//
//	"Hello"  [0, 5)
//	"World"  [5, 10)
//	"again"  [10, 15)

func TestByRange(t *testing.T) {
	p := RangeParams{
		Spans: []overlay.Span{
			span("Hello", 0, 100, 40, 112, 0),
			span("World", 45, 100, 80, 112, 1),
			span("again", 0, 120, 40, 132, 2),
		},
		Start: 5, End: 12,
		PageWidth: 400, PageHeight: 600,
	}

	sel := ByRange(p)
	if sel.IsEmpty {
		t.Fatal("selection is empty")
	}
	if sel.Text != "World\nagain" {
		t.Errorf("got %q, want %q", sel.Text, "World\nagain")
	}
	if len(sel.Spans) != 2 {
		t.Errorf("got %d spans, want 2", len(sel.Spans))
	}
}

func TestByRangeEmpty(t *testing.T) {
	p := RangeParams{
		Spans: []overlay.Span{
			span("Hello", 0, 100, 40, 112, 0),
		},
		Start: 7, End: 7,
	}
	if sel := ByRange(p); !sel.IsEmpty {
		t.Error("degenerate range must produce an empty selection")
	}
}

func TestByRangePastEnd(t *testing.T) {
	p := RangeParams{
		Spans: []overlay.Span{
			span("Hello", 0, 100, 40, 112, 0),
		},
		Start: 50, End: 60,
	}
	if sel := ByRange(p); !sel.IsEmpty {
		t.Error("out-of-range offsets must produce an empty selection")
	}
}

func TestRangeOf(t *testing.T) {
	page := []overlay.Span{
		span("Hello", 0, 100, 40, 112, 0),
		span("World", 45, 100, 80, 112, 1),
		span("again", 0, 120, 40, 132, 2),
	}

	start, end := RangeOf(page, page[1:2])
	if start != 5 || end != 10 {
		t.Errorf("got [%d, %d), want [5, 10)", start, end)
	}

	start, end = RangeOf(page, page[1:])
	if start != 5 || end != 15 {
		t.Errorf("got [%d, %d), want [5, 15)", start, end)
	}

	start, end = RangeOf(page, nil)
	if start != 0 || end != 0 {
		t.Errorf("got [%d, %d) for empty selection", start, end)
	}
}
