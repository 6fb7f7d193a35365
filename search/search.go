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

// Package search finds text in the span geometry of rendered pages.
//
// Matching is case-insensitive and Unicode-normalized, and follows the
// same text reconstruction rules as the selection package, so a query
// can match across span boundaries and across hyphenated line breaks.
// Each match carries the normalized rectangles of the spans it touches,
// ready for overlay projection.
package search

import (
	"unicode"

	"golang.org/x/text/unicode/norm"

	"seehuhn.de/go/overlay"
)

// A Page is the searchable geometry of one rendered page.
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Spans are the page's glyph spans.
	Spans []overlay.Span

	// Width and Height are the page dimensions at the current render
	// scale.
	Width, Height float64
}

// A Match is one query occurrence.
type Match struct {
	// Page is the 1-based page number.
	Page int

	// Text is the matched text as it appears on the page.
	Text string

	// Start and End are rune offsets of the match in the page's
	// reconstructed text.
	Start, End int

	// Rects are the normalized rectangles of the spans the match
	// touches.
	Rects []overlay.NormRect
}

// Find returns all occurrences of query in the given pages, in page
// order.  An empty query matches nothing.
func Find(query string, pages []Page, tuning overlay.Tuning) []Match {
	needle := []rune(fold(query))
	if len(needle) == 0 {
		return nil
	}
	tuning = tuning.FillDefaults()

	var matches []Match
	for _, page := range pages {
		matches = append(matches, findInPage(needle, page, tuning)...)
	}
	return matches
}

func findInPage(needle []rune, page Page, tuning overlay.Tuning) []Match {
	text := assemble(page.Spans, tuning)
	haystack := []rune(fold(string(text.runes)))

	var matches []Match
	for i := 0; i+len(needle) <= len(haystack); {
		if !runesEqual(haystack[i:i+len(needle)], needle) {
			i++
			continue
		}

		m := Match{
			Page:  page.Number,
			Text:  string(text.runes[i : i+len(needle)]),
			Start: i,
			End:   i + len(needle),
		}
		for _, idx := range text.spansIn(i, i+len(needle)) {
			r := text.spans[idx].Rect
			m.Rects = append(m.Rects, overlay.NormRect{
				X: r.Left / page.Width,
				Y: r.Top / page.Height,
				W: r.Width() / page.Width,
				H: r.Height() / page.Height,
			})
		}
		matches = append(matches, m)
		i += len(needle)
	}
	return matches
}

// fold prepares text for matching: composed normal form, lowercased.
func fold(s string) string {
	s = norm.NFC.String(s)
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return string(runes)
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
