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

package search

import (
	"testing"

	"seehuhn.de/go/overlay"
)

func span(text string, left, top, right, bottom float64, index int) overlay.Span {
	return overlay.MakeSpan(text, overlay.Rect{Left: left, Top: top, Right: right, Bottom: bottom}, index)
}

func testPage() Page {
	return Page{
		Number: 1,
		Spans: []overlay.Span{
			span("Hello", 0, 100, 40, 112, 0),
			span("World", 45, 100, 80, 112, 1),
			span("inter-", 0, 120, 45, 132, 2),
			span("national", 0, 140, 60, 152, 3),
		},
		Width: 400, Height: 600,
	}
}

func TestFindAcrossSpans(t *testing.T) {
	matches := Find("hello world", []Page{testPage()}, overlay.Tuning{})
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}

	m := matches[0]
	if m.Page != 1 {
		t.Errorf("got page %d", m.Page)
	}
	if m.Text != "Hello World" {
		t.Errorf("got text %q", m.Text)
	}
	if len(m.Rects) != 2 {
		t.Errorf("got %d rects, want one per touched span", len(m.Rects))
	}
}

func TestFindHyphenatedLineBreak(t *testing.T) {
	// "inter-" at the end of one line, "national" at the start of the
	// next: the hyphen is a word break, so "international" must match
	matches := Find("international", []Page{testPage()}, overlay.Tuning{})
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if len(matches[0].Rects) != 2 {
		t.Errorf("got %d rects, want 2", len(matches[0].Rects))
	}
}

func TestFindCaseInsensitive(t *testing.T) {
	matches := Find("WORLD", []Page{testPage()}, overlay.Tuning{})
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Text != "World" {
		t.Errorf("got %q, want the original casing", matches[0].Text)
	}
}

func TestFindMultiplePages(t *testing.T) {
	p1 := testPage()
	p2 := testPage()
	p2.Number = 2

	matches := Find("hello", []Page{p1, p2}, overlay.Tuning{})
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].Page != 1 || matches[1].Page != 2 {
		t.Errorf("pages: %d, %d", matches[0].Page, matches[1].Page)
	}
}

func TestFindNothing(t *testing.T) {
	if m := Find("absent", []Page{testPage()}, overlay.Tuning{}); m != nil {
		t.Errorf("got %v for a non-matching query", m)
	}
	if m := Find("", []Page{testPage()}, overlay.Tuning{}); m != nil {
		t.Errorf("got %v for the empty query", m)
	}
}

func TestFindRepeated(t *testing.T) {
	page := Page{
		Number: 1,
		Spans: []overlay.Span{
			span("ha ha ha", 0, 100, 60, 112, 0),
		},
		Width: 400, Height: 600,
	}
	matches := Find("ha", []Page{page}, overlay.Tuning{})
	if len(matches) != 3 {
		t.Errorf("got %d matches, want 3", len(matches))
	}
}
