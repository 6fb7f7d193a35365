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

// Selection is the result of resolving a stroke corridor or an offset
// range against the glyph spans of one page.  Selections are consumed
// immediately by the caller (a dialog, or the highlight-create flow); only
// the [Highlight] derived from a selection is ever persisted.
type Selection struct {
	// Text is the selected text, reconstructed line by line with
	// hyphenation-aware joining.
	Text string

	// RectsNorm contains one normalized rectangle per selected span.
	RectsNorm []NormRect

	// Spans are the selected spans, sorted top-to-bottom and
	// left-to-right within a line.
	Spans []Span

	// Lines groups Spans into visual text lines.
	Lines [][]Span

	// IsEmpty is true if no spans were selected, even after the
	// auto-drop retry.
	IsEmpty bool

	// IsMultiColumn is true if the page uses a multi-column layout and
	// the column-aware selection path was taken.
	IsMultiColumn bool

	// NeedsManualDrop is set together with IsEmpty when the auto-drop
	// retry also found nothing; the caller may then offer a manual
	// fallback.
	NeedsManualDrop bool
}

// Tuning collects the geometric thresholds of the selection pipeline.
// The zero value selects the defaults given for each field; the defaults
// are tuned empirically and are part of the selection contract only to
// the extent that the documented scenarios require them.
type Tuning struct {
	// YTolerance extends the vertical corridor symmetrically, to catch
	// text slightly above the stroke.  Default 10px.
	YTolerance float64

	// AutoDrop extends the lower corridor bound for one retry when the
	// initial corridor selects nothing.  Default 20px.
	AutoDrop float64

	// LineTolerance is the maximum vertical distance between span tops
	// that still counts as the same text line.  Default 5px.
	LineTolerance float64

	// GapToSpace is the horizontal gap between consecutive spans above
	// which a space is inserted during text reconstruction.  Default 2px.
	GapToSpace float64
}

// Default tuning values.
const (
	DefaultYTolerance    = 10
	DefaultAutoDrop      = 20
	DefaultLineTolerance = 5
	DefaultGapToSpace    = 2
)

// FillDefaults returns a copy of t with zero fields replaced by the
// package defaults.
func (t Tuning) FillDefaults() Tuning {
	if t.YTolerance == 0 {
		t.YTolerance = DefaultYTolerance
	}
	if t.AutoDrop == 0 {
		t.AutoDrop = DefaultAutoDrop
	}
	if t.LineTolerance == 0 {
		t.LineTolerance = DefaultLineTolerance
	}
	if t.GapToSpace == 0 {
		t.GapToSpace = DefaultGapToSpace
	}
	return t
}
