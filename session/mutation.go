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

package session

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/exp/slices"

	"seehuhn.de/go/overlay"
	"seehuhn.de/go/overlay/cache"
	"seehuhn.de/go/overlay/selection"
)

// Every highlight mutation is optimistic: the in-memory list is changed
// first, the remote call happens second, and a failed remote call rolls
// the local change back.  The phases are uniform across create, update
// and delete.

type phase int

const (
	phasePending phase = iota
	phaseCommitted
	phaseRolledBack
)

// record is one tracked highlight together with its mutation state.
type record struct {
	h     overlay.Highlight
	phase phase
}

// CreateHighlight derives a highlight from a selection and persists it.
// The highlight is visible in the session's list immediately, under a
// client-side temporary id; once the save returns, the temporary id is
// replaced with the server-assigned one.  If the save fails, the entry
// is removed again and a [*overlay.PersistenceError] is returned.
func (s *Session) CreateHighlight(ctx context.Context, page int, sel overlay.Selection, color, note string) (overlay.Highlight, error) {
	if sel.IsEmpty {
		return overlay.Highlight{}, errEmptySelection
	}
	if color == "" {
		color = overlay.DefaultColor
	}

	start, end := 0, 0
	if spans, err := s.pageSpans(ctx, page); err == nil {
		start, end = selection.RangeOf(spans, sel.Spans)
	}

	s.mu.Lock()
	docID := s.docID
	s.nextTmpID++
	rec := &record{
		h: overlay.Highlight{
			ID:          "tmp-" + strconv.Itoa(s.nextTmpID),
			Text:        sel.Text,
			Page:        page,
			Rects:       sel.RectsNorm,
			StartOffset: start,
			EndOffset:   end,
			Color:       color,
			Note:        note,
			CreatedAt:   time.Now(),
			Source:      "wand",
		},
		phase: phasePending,
	}
	s.records = append(s.records, rec)
	s.mu.Unlock()

	id, err := s.store.SaveHighlight(ctx, docID, &rec.h)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		rec.phase = phaseRolledBack
		s.records = slices.DeleteFunc(s.records, func(r *record) bool {
			return r == rec
		})
		return overlay.Highlight{}, &overlay.PersistenceError{Op: "create", Err: err}
	}
	rec.h.ID = id
	rec.phase = phaseCommitted
	s.geo.Delete(cache.BucketHighlights, docID)
	return rec.h, nil
}

// UpdateHighlight changes a highlight's color and/or note.  The local
// entry is updated first; if the remote update fails, the previous
// values are restored and the error is returned.
func (s *Session) UpdateHighlight(ctx context.Context, id string, upd Update) error {
	s.mu.Lock()
	rec := s.findLocked(id)
	if rec == nil {
		s.mu.Unlock()
		return errUnknownHighlight
	}
	docID := s.docID
	prev := rec.h
	if upd.Color != nil {
		rec.h.Color = *upd.Color
	}
	if upd.Note != nil {
		rec.h.Note = *upd.Note
	}
	rec.phase = phasePending
	s.mu.Unlock()

	err := s.store.UpdateHighlight(ctx, id, upd)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		rec.h = prev
		rec.phase = phaseRolledBack
		return &overlay.PersistenceError{Op: "update", ID: id, Err: err}
	}
	rec.phase = phaseCommitted
	s.geo.Delete(cache.BucketHighlights, docID)
	return nil
}

// DeleteHighlight removes a highlight.  The local entry disappears
// immediately; if the remote delete fails, it is reinserted at its old
// position and the error is returned.
func (s *Session) DeleteHighlight(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := slices.IndexFunc(s.records, func(r *record) bool {
		return r.h.ID == id
	})
	if idx < 0 {
		s.mu.Unlock()
		return errUnknownHighlight
	}
	docID := s.docID
	rec := s.records[idx]
	rec.phase = phasePending
	s.records = slices.Delete(s.records, idx, idx+1)
	s.mu.Unlock()

	err := s.store.DeleteHighlight(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		idx = min(idx, len(s.records))
		s.records = slices.Insert(s.records, idx, rec)
		rec.phase = phaseRolledBack
		return &overlay.PersistenceError{Op: "delete", ID: id, Err: err}
	}
	rec.phase = phaseCommitted
	s.geo.Delete(cache.BucketHighlights, docID)
	return nil
}

// Highlights returns a snapshot of the session's highlight list.
func (s *Session) Highlights() []overlay.Highlight {
	s.mu.Lock()
	defer s.mu.Unlock()
	hs := make([]overlay.Highlight, len(s.records))
	for i, rec := range s.records {
		hs[i] = rec.h
	}
	return hs
}

// HighlightsForPage returns the highlights of one page, ordered by their
// start offset.
func (s *Session) HighlightsForPage(page int) []overlay.Highlight {
	var hs []overlay.Highlight
	for _, h := range s.Highlights() {
		if h.Page == page {
			hs = append(hs, h)
		}
	}
	slices.SortFunc(hs, func(a, b overlay.Highlight) int {
		return a.StartOffset - b.StartOffset
	})
	return hs
}

func (s *Session) findLocked(id string) *record {
	for _, rec := range s.records {
		if rec.h.ID == id {
			return rec
		}
	}
	return nil
}
