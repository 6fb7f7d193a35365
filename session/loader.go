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
	"time"

	"seehuhn.de/go/overlay"
	"seehuhn.de/go/overlay/cache"
)

// LoadHighlights loads the document's highlights, cache-first, and
// resolves their geometry against the current page layout.
//
// Resolution is chunked: batches of highlights are resolved in parallel,
// with a short pause between batches, and each finished batch is handed
// to publish (if non-nil) so the UI can draw progressively.  A highlight
// whose geometry cannot be located does not abort its siblings; its
// error goes to publish (or the warning sink) and the successes still
// surface.
//
// If the session switches documents while a load is running, the load
// stops and returns [ErrSuperseded] without touching the new document's
// state.
func (s *Session) LoadHighlights(ctx context.Context, docID string, publish func(batch []overlay.Highlight, errs []error)) ([]overlay.Highlight, error) {
	if v, ok := s.geo.Get(cache.BucketHighlights, docID); ok {
		hs := v.([]overlay.Highlight)
		if publish != nil {
			publish(hs, nil)
		}
		s.adopt(docID, hs)
		return hs, nil
	}

	stored, err := s.store.LoadHighlights(ctx, docID)
	if err != nil {
		return nil, &overlay.PersistenceError{Op: "load", Err: err}
	}

	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()

	var resolved []overlay.Highlight
	for start := 0; start < len(stored); start += s.opts.BatchSize {
		if start > 0 {
			select {
			case <-ctx.Done():
				return resolved, ctx.Err()
			case <-time.After(s.opts.BatchPause):
			}
		}

		batch := stored[start:min(start+s.opts.BatchSize, len(stored))]
		good, errs := s.resolveBatch(ctx, batch)

		if !s.stillCurrent(gen) {
			return nil, ErrSuperseded
		}
		resolved = append(resolved, good...)
		if publish != nil {
			publish(good, errs)
		} else {
			for _, err := range errs {
				s.warn(err)
			}
		}
	}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return nil, ErrSuperseded
	}
	s.records = s.records[:0]
	for _, h := range resolved {
		s.records = append(s.records, &record{h: h, phase: phaseCommitted})
	}
	s.mu.Unlock()

	s.geo.Set(cache.BucketHighlights, docID, resolved)
	return resolved, nil
}

// resolveBatch resolves the geometry of one batch of highlights in
// parallel.  Items are independent; a failed item is reported in errs
// and left out of the result.
func (s *Session) resolveBatch(ctx context.Context, batch []overlay.Highlight) (good []overlay.Highlight, errs []error) {
	type result struct {
		h   overlay.Highlight
		err error
	}
	results := make([]result, len(batch))

	done := make(chan int)
	for i := range batch {
		go func(i int) {
			h, err := s.resolveHighlight(ctx, batch[i])
			results[i] = result{h: h, err: err}
			done <- i
		}(i)
	}
	for range batch {
		<-done
	}

	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		good = append(good, r.h)
	}
	return good, errs
}

// resolveHighlight fills in missing geometry for one stored highlight.
// Highlights that already carry normalized rects pass through unchanged;
// the rest are re-located via their character range.
func (s *Session) resolveHighlight(ctx context.Context, h overlay.Highlight) (overlay.Highlight, error) {
	if len(h.Rects) > 0 {
		return h, nil
	}
	if !h.HasRange() {
		return h, &overlay.GeometryNotFoundError{Page: h.Page}
	}

	sel, err := s.SelectByRange(ctx, h.Page, h.StartOffset, h.EndOffset)
	if err != nil {
		return h, err
	}
	if sel.IsEmpty {
		return h, &overlay.GeometryNotFoundError{Page: h.Page}
	}
	h.Rects = sel.RectsNorm
	return h, nil
}

// adopt replaces the session's highlight list with hs if docID is still
// the current document.
func (s *Session) adopt(docID string, hs []overlay.Highlight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.docID != docID {
		return
	}
	s.records = s.records[:0]
	for _, h := range hs {
		s.records = append(s.records, &record{h: h, phase: phaseCommitted})
	}
}
