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

// Package session ties the overlay engine together for one open
// document: it owns the in-memory highlight list, talks to the remote
// store, and serves selection and projection requests against cached
// page geometry.
//
// A Session is an explicit, constructed service.  The caller builds the
// cache manager and the platform surface, injects both, and releases
// everything with Close; there is no package-level state.
package session

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/overlay"
	"seehuhn.de/go/overlay/cache"
	"seehuhn.de/go/overlay/layout"
	"seehuhn.de/go/overlay/project"
	"seehuhn.de/go/overlay/selection"
)

// Store is the remote persistence backend for highlights.  The store is
// the source of truth; the session's in-memory list is a cache of it.
// The payload shape on the wire is the store's concern.
type Store interface {
	SaveHighlight(ctx context.Context, docID string, h *overlay.Highlight) (id string, err error)
	UpdateHighlight(ctx context.Context, id string, upd Update) error
	DeleteHighlight(ctx context.Context, id string) error
	LoadHighlights(ctx context.Context, docID string) ([]overlay.Highlight, error)
}

// Update carries a partial highlight mutation.  Nil fields are left
// unchanged.
type Update struct {
	Color *string
	Note  *string
}

// Translator is the remote translation backend behind the translation
// popover.  It is an opaque external collaborator; the engine only
// forwards selected text to it.
type Translator interface {
	Translate(ctx context.Context, text string, from, to language.Tag) (string, error)
}

// Options configures a Session.  Zero fields select the defaults.
type Options struct {
	// Tuning overrides the selection thresholds.
	Tuning overlay.Tuning

	// BatchSize is the number of highlights resolved in parallel during
	// a batch load.  Default 5.
	BatchSize int

	// BatchPause is the yield between batches, giving the UI a chance
	// to draw partial results.  Default 50ms.
	BatchPause time.Duration

	// RetryAttempts and RetryInterval bound the wait for pages the
	// surface has not laid out yet.  Defaults 3 and 150ms.
	RetryAttempts int
	RetryInterval time.Duration

	// Translator, if non-nil, backs the Translate call.
	Translator Translator

	// Warn, if non-nil, receives non-fatal problems.
	Warn func(error)
}

func (o Options) fillDefaults() Options {
	o.Tuning = o.Tuning.FillDefaults()
	if o.BatchSize == 0 {
		o.BatchSize = 5
	}
	if o.BatchPause == 0 {
		o.BatchPause = 50 * time.Millisecond
	}
	if o.RetryAttempts == 0 {
		o.RetryAttempts = 3
	}
	if o.RetryInterval == 0 {
		o.RetryInterval = 150 * time.Millisecond
	}
	return o
}

// ErrSuperseded is returned when a batch load was started for a document
// that is no longer current by the time its results would be published.
var ErrSuperseded = errors.New("document changed during load")

// errNoTranslator is returned by Translate when no backend is configured.
var errNoTranslator = errors.New("no translator configured")

var (
	errEmptySelection   = errors.New("cannot highlight an empty selection")
	errUnknownHighlight = errors.New("unknown highlight id")
)

// Session is the overlay engine for one reader view.
type Session struct {
	surface overlay.Surface
	store   Store
	geo     *cache.Manager
	opts    Options

	mu         sync.Mutex
	docID      string
	scale      float64
	generation int
	records    []*record
	nextTmpID  int
}

// New creates a session.  The cache manager is injected and remains
// owned by the caller; Close does not close it.
func New(surface overlay.Surface, store Store, geo *cache.Manager, opts Options) *Session {
	return &Session{
		surface: surface,
		store:   store,
		geo:     geo,
		opts:    opts.fillDefaults(),
		scale:   1,
	}
}

// OpenDocument makes docID the current document.  Any in-flight batch
// load for the previous document is invalidated and the in-memory
// highlight list is reset.
func (s *Session) OpenDocument(docID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.docID = docID
	s.records = nil
}

// Close discards the session's document state.  In-flight loads will
// notice the change and drop their results.
func (s *Session) Close() error {
	s.OpenDocument("")
	return nil
}

// SetScale records the surface's current render scale.  Cache keys
// encode the scale, so no explicit invalidation is needed.
func (s *Session) SetScale(scale float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scale = scale
}

func (s *Session) currentScale() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scale
}

func (s *Session) stillCurrent(gen int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation == gen
}

func (s *Session) warn(err error) {
	if s.opts.Warn != nil {
		s.opts.Warn(err)
	}
}

// pageSpans returns the glyph spans of one page, cache-first.  If the
// surface has not laid the page out yet, the query is retried a bounded
// number of times before the error is returned.
func (s *Session) pageSpans(ctx context.Context, page int) ([]overlay.Span, error) {
	scale := s.currentScale()
	key := cache.PageKey(page, scale)
	if v, ok := s.geo.Get(cache.BucketSpans, key); ok {
		return v.([]overlay.Span), nil
	}

	var lastErr error
	for attempt := 0; attempt < s.opts.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.opts.RetryInterval):
			}
		}
		spans, err := s.surface.Spans(page, scale)
		if err == nil {
			s.geo.Set(cache.BucketSpans, key, spans)
			return spans, nil
		}
		lastErr = err
		var notFound *overlay.GeometryNotFoundError
		if !errors.As(err, &notFound) {
			break
		}
	}
	return nil, lastErr
}

// pageLayout returns the column structure of one page, cache-first.
func (s *Session) pageLayout(page int, spans []overlay.Span, pageWidth float64) layout.Result {
	key := "cols:" + cache.PageKey(page, s.currentScale())
	if v, ok := s.geo.Get(cache.BucketLayout, key); ok {
		return v.(layout.Result)
	}
	res := layout.Analyze(spans, pageWidth)
	s.geo.Set(cache.BucketLayout, key, res)
	return res
}

// pageBox returns the page's box, cache-first.
func (s *Session) pageBox(page int) (overlay.PageBox, error) {
	key := "box:" + cache.PageKey(page, s.currentScale())
	if v, ok := s.geo.Get(cache.BucketLayout, key); ok {
		return v.(overlay.PageBox), nil
	}
	box, err := s.surface.PageBox(page)
	if err != nil {
		return overlay.PageBox{}, err
	}
	s.geo.Set(cache.BucketLayout, key, box)
	return box, nil
}

// SelectByCorridor resolves a stroke corridor on the given page.  If the
// page's geometry is unavailable even after the bounded retry, an empty
// selection is returned together with the error.
func (s *Session) SelectByCorridor(ctx context.Context, page int, c selection.Corridor) (overlay.Selection, error) {
	spans, err := s.pageSpans(ctx, page)
	if err != nil {
		return overlay.Selection{IsEmpty: true}, err
	}
	box, err := s.pageBox(page)
	if err != nil {
		return overlay.Selection{IsEmpty: true}, err
	}

	lay := s.pageLayout(page, spans, box.Width)
	return selection.Select(selection.Params{
		Spans:      spans,
		Corridor:   c,
		PageWidth:  box.Width,
		PageHeight: box.Height,
		Layout:     &lay,
		Tuning:     s.opts.Tuning,
	}), nil
}

// SelectByRange resolves a character offset range on the given page.
func (s *Session) SelectByRange(ctx context.Context, page, start, end int) (overlay.Selection, error) {
	spans, err := s.pageSpans(ctx, page)
	if err != nil {
		return overlay.Selection{IsEmpty: true}, err
	}
	box, err := s.pageBox(page)
	if err != nil {
		return overlay.Selection{IsEmpty: true}, err
	}

	return selection.ByRange(selection.RangeParams{
		Spans: spans,
		Start: start, End: end,
		PageWidth:  box.Width,
		PageHeight: box.Height,
		Tuning:     s.opts.Tuning,
	}), nil
}

// Prefetch loads span geometry for the given pages into the cache.  It
// is meant to be called from a visibility callback and is best-effort:
// failures are only reported to the warning sink.
func (s *Session) Prefetch(pages []int) {
	ctx := context.Background()
	for _, page := range pages {
		if _, err := s.pageSpans(ctx, page); err != nil {
			s.warn(err)
		}
	}
}

// OverlayRects projects the highlights' stored geometry into absolute
// rectangles for drawing.  Overlapping highlights stay separate
// rectangles.  The result must not be cached by the caller; it is
// recomputed on every layout-affecting event.
func (s *Session) OverlayRects(highlights []overlay.Highlight, box overlay.PageBox, scroll vec.Vec2) []overlay.Rect {
	var rects []overlay.Rect
	for i := range highlights {
		rects = append(rects, project.ToAbsolute(highlights[i].Rects, box, scroll)...)
	}
	return rects
}

// Translate forwards the selected text to the translation backend.
func (s *Session) Translate(ctx context.Context, text string, from, to language.Tag) (string, error) {
	if s.opts.Translator == nil {
		return "", errNoTranslator
	}
	return s.opts.Translator.Translate(ctx, text, from, to)
}

// Invalidation selects cache entries to drop.  Zero fields match
// everything: the zero Invalidation clears all geometry.
type Invalidation struct {
	Page  int     // 1-based; 0 matches all pages
	Scale float64 // 0 matches all scales
	DocID string  // clears the document's highlight cache entry
	Reason string // diagnostic only
}

// Invalidate drops the cache entries matched by inv.
func (s *Session) Invalidate(inv Invalidation) {
	if inv.DocID != "" {
		s.geo.Delete(cache.BucketHighlights, inv.DocID)
	}

	match := func(key string) bool {
		key = strings.TrimPrefix(key, "cols:")
		key = strings.TrimPrefix(key, "box:")
		if inv.Page != 0 && !strings.HasPrefix(key, "p"+strconv.Itoa(inv.Page)+"@") {
			return false
		}
		if inv.Scale != 0 && !strings.HasSuffix(key, "@"+strconv.FormatFloat(inv.Scale, 'f', 4, 64)) {
			return false
		}
		return true
	}
	s.geo.DeleteFunc(cache.BucketSpans, match)
	s.geo.DeleteFunc(cache.BucketLayout, match)
}

// ClearAll drops all cached geometry.
func (s *Session) ClearAll() {
	s.geo.ClearAll()
}
