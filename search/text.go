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
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"seehuhn.de/go/overlay"
	"seehuhn.de/go/overlay/selection"
)

// pageText is one page's text reconstructed for matching, with a
// per-rune mapping back to the span each rune came from.  Separator
// runes (inserted spaces and newlines) map to -1.
type pageText struct {
	runes  []rune
	spanOf []int
	spans  []overlay.Span
}

// assemble reconstructs the page text with the selection package's
// joining rules: spans grouped into lines, a space where the horizontal
// gap demands one, and hyphenated breaks merged both within a line and
// across line ends.
func assemble(spans []overlay.Span, tuning overlay.Tuning) *pageText {
	lines := selection.GroupLines(spans, tuning.LineTolerance)

	t := &pageText{}
	for _, line := range lines {
		if len(t.runes) > 0 {
			if t.endsInHyphen() && startsLower(line[0].Text) {
				t.dropLast() // hyphenated line break
			} else {
				t.appendSep('\n')
			}
		}
		for i, s := range line {
			if i > 0 {
				if t.endsInHyphen() && startsLower(s.Text) {
					t.dropLast()
				} else if s.Rect.Left-line[i-1].Rect.Right > tuning.GapToSpace {
					t.appendSep(' ')
				}
			}
			t.appendSpan(s)
		}
	}
	return t
}

func (t *pageText) appendSpan(s overlay.Span) {
	idx := len(t.spans)
	t.spans = append(t.spans, s)
	for _, r := range norm.NFC.String(s.Text) {
		t.runes = append(t.runes, r)
		t.spanOf = append(t.spanOf, idx)
	}
}

func (t *pageText) appendSep(r rune) {
	t.runes = append(t.runes, r)
	t.spanOf = append(t.spanOf, -1)
}

func (t *pageText) endsInHyphen() bool {
	return len(t.runes) > 0 && t.runes[len(t.runes)-1] == '-'
}

func (t *pageText) dropLast() {
	t.runes = t.runes[:len(t.runes)-1]
	t.spanOf = t.spanOf[:len(t.spanOf)-1]
}

// spansIn returns the distinct spans touched by the rune range
// [start, end), in text order.
func (t *pageText) spansIn(start, end int) []int {
	var idxs []int
	last := -1
	for i := start; i < end && i < len(t.spanOf); i++ {
		idx := t.spanOf[i]
		if idx >= 0 && idx != last {
			idxs = append(idxs, idx)
			last = idx
		}
	}
	return idxs
}

func startsLower(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLower(r)
}
