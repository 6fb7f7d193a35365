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
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/slices"

	"seehuhn.de/go/overlay"
)

// GroupLines sorts spans top-to-bottom and groups them into visual text
// lines.  Spans whose tops differ by no more than tolerance belong to the
// same line; within a line, spans are ordered left-to-right.
func GroupLines(spans []overlay.Span, tolerance float64) [][]overlay.Span {
	if len(spans) == 0 {
		return nil
	}

	sorted := slices.Clone(spans)
	slices.SortFunc(sorted, func(a, b overlay.Span) int {
		switch {
		case a.Rect.Top < b.Rect.Top:
			return -1
		case a.Rect.Top > b.Rect.Top:
			return 1
		case a.Rect.Left < b.Rect.Left:
			return -1
		case a.Rect.Left > b.Rect.Left:
			return 1
		}
		return 0
	})

	var lines [][]overlay.Span
	lineTop := sorted[0].Rect.Top
	current := []overlay.Span{sorted[0]}
	for _, s := range sorted[1:] {
		if s.Rect.Top-lineTop > tolerance {
			lines = append(lines, current)
			current = []overlay.Span{s}
			lineTop = s.Rect.Top
			continue
		}
		current = append(current, s)
	}
	lines = append(lines, current)

	for _, line := range lines {
		slices.SortFunc(line, func(a, b overlay.Span) int {
			switch {
			case a.Rect.Left < b.Rect.Left:
				return -1
			case a.Rect.Left > b.Rect.Left:
				return 1
			}
			return 0
		})
	}
	return lines
}

// JoinLines reconstructs the selected text.  Within a line, consecutive
// spans are joined directly; a single space is inserted when the
// horizontal gap between them exceeds gapToSpace.  A span ending in a
// hyphen is merged with a following span that starts with a lowercase
// letter: this is a hyphenated word break, not a list hyphen.  Lines are
// joined with single newlines.
func JoinLines(lines [][]overlay.Span, gapToSpace float64) string {
	parts := make([]string, len(lines))
	for i, line := range lines {
		parts[i] = lineText(line, gapToSpace)
	}
	return strings.Join(parts, "\n")
}

func lineText(line []overlay.Span, gapToSpace float64) string {
	var text string
	for i, s := range line {
		if i == 0 {
			text = s.Text
			continue
		}
		if strings.HasSuffix(text, "-") && startsLower(s.Text) {
			text = text[:len(text)-1] + s.Text
			continue
		}
		if s.Rect.Left-line[i-1].Rect.Right > gapToSpace {
			text += " "
		}
		text += s.Text
	}
	return text
}

func startsLower(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLower(r)
}
