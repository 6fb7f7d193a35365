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
	"unicode/utf8"

	"golang.org/x/exp/slices"

	"seehuhn.de/go/overlay"
)

// Character offsets count the runes of the span texts, concatenated in
// reading order with no separators.  This matches how offsets are stored
// with persisted highlights, so a highlight can be re-located even when
// its stored geometry no longer matches the current layout.

// RangeParams describes one offset-range selection.
type RangeParams struct {
	// Spans are the glyph spans of the page.
	Spans []overlay.Span

	// Start and End delimit the selected character range, with End
	// exclusive.
	Start, End int

	// PageWidth and PageHeight are the page dimensions at the current
	// render scale.
	PageWidth, PageHeight float64

	// Tuning overrides the geometric thresholds.
	Tuning overlay.Tuning
}

// ByRange selects the spans covering the character range [Start, End).
func ByRange(p RangeParams) overlay.Selection {
	tuning := p.Tuning.FillDefaults()

	if p.End <= p.Start {
		return overlay.Selection{IsEmpty: true}
	}

	sorted := slices.Clone(p.Spans)
	slices.SortFunc(sorted, func(a, b overlay.Span) int {
		return a.Index - b.Index
	})

	var hit []overlay.Span
	offset := 0
	for _, s := range sorted {
		n := utf8.RuneCountInString(s.Text)
		if offset < p.End && offset+n > p.Start {
			hit = append(hit, s)
		}
		offset += n
		if offset >= p.End {
			break
		}
	}
	if len(hit) == 0 {
		return overlay.Selection{IsEmpty: true}
	}

	lines := GroupLines(hit, tuning.LineTolerance)
	ordered := flatten(lines)
	return overlay.Selection{
		Text:      JoinLines(lines, tuning.GapToSpace),
		RectsNorm: normRects(ordered, p.PageWidth, p.PageHeight),
		Spans:     ordered,
		Lines:     lines,
	}
}

// RangeOf returns the character range that the selected spans occupy
// within the page's reading order.  It is used when deriving a highlight
// record from a corridor selection.
func RangeOf(pageSpans, selected []overlay.Span) (start, end int) {
	if len(selected) == 0 {
		return 0, 0
	}

	chosen := make(map[int]bool, len(selected))
	for _, s := range selected {
		chosen[s.Index] = true
	}

	sorted := slices.Clone(pageSpans)
	slices.SortFunc(sorted, func(a, b overlay.Span) int {
		return a.Index - b.Index
	})

	start = -1
	offset := 0
	for _, s := range sorted {
		n := utf8.RuneCountInString(s.Text)
		if chosen[s.Index] {
			if start < 0 {
				start = offset
			}
			end = offset + n
		}
		offset += n
	}
	if start < 0 {
		return 0, 0
	}
	return start, end
}
