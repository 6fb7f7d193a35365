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

// Package watch observes the rendering surface for layout changes and
// invalidates the geometry cache accordingly.
//
// Four independent notification channels are observed: element resize,
// content mutation, page visibility, and scrolling.  Each channel is
// debounced separately, so a burst of events collapses into a single
// callback carrying the aggregated data.
package watch

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/overlay/cache"
)

// Kind identifies one notification channel.
type Kind int

const (
	Resize Kind = iota
	Mutation
	Visibility
	Scroll
)

// Event is one raw platform notification.  Which fields are meaningful
// depends on Kind.
type Event struct {
	Kind Kind

	// Resize: size change of one observed element.
	WidthDelta, HeightDelta float64

	// Mutation: class names of the added and removed nodes.
	Classes []string

	// Visibility: the page that changed visibility.
	Page    int
	Visible bool

	// Scroll: the container's current scroll offset.
	Offset vec.Vec2
}

// Notifier is the platform event source for one surface handle.  The
// returned cancel function must release the underlying platform
// subscription synchronously.
type Notifier interface {
	Subscribe(kind Kind, fn func(Event)) (cancel func(), err error)
}

// Delays are the per-channel debounce delays.  Zero fields select the
// defaults.
type Delays struct {
	Resize     time.Duration // default 100ms
	Mutation   time.Duration // default 200ms
	Visibility time.Duration // default 100ms
	Scroll     time.Duration // default 50ms
}

func (d Delays) fillDefaults() Delays {
	if d.Resize == 0 {
		d.Resize = 100 * time.Millisecond
	}
	if d.Mutation == 0 {
		d.Mutation = 200 * time.Millisecond
	}
	if d.Visibility == 0 {
		d.Visibility = 100 * time.Millisecond
	}
	if d.Scroll == 0 {
		d.Scroll = 50 * time.Millisecond
	}
	return d
}

// Hooks are the debounced callbacks of one observer group.  All fields
// are optional.
type Hooks struct {
	// OnResize is called after a debounced resize burst with the
	// largest observed deltas.
	OnResize func(widthDelta, heightDelta float64)

	// OnMutation is called after a debounced mutation burst with the
	// union of affected class names.
	OnMutation func(classes []string)

	// OnVisible is called with the pages that became visible during the
	// debounce window, in ascending order.
	OnVisible func(pages []int)

	// OnScroll is called with the latest scroll offset of a burst.
	OnScroll func(offset vec.Vec2)

	// Rerender is scheduled when a mutation touched the text layer.
	Rerender func()

	// Prefetch is called on its own goroutine with pages that became
	// visible, so span geometry can be cached before the user interacts
	// with them.  Best-effort; it must not be relied on.
	Prefetch func(pages []int)
}

// resizeThreshold is the minimum size delta that counts as a real layout
// change; smaller deltas are sub-pixel noise from the platform.
const resizeThreshold = 50.0

// textLayerClasses marks nodes whose mutation invalidates span geometry.
var textLayerClasses = []string{"textLayer", "text-layer", "page-content"}

func touchesTextLayer(classes []string) bool {
	for _, c := range classes {
		for _, marker := range textLayerClasses {
			if strings.Contains(c, marker) {
				return true
			}
		}
	}
	return false
}

// A Group is one set of live subscriptions on a surface handle.  It is
// the explicit handle used to stop observation; callers keep it for as
// long as the surface is alive.
type Group struct {
	geo   *cache.Manager
	hooks Hooks

	mu      sync.Mutex
	stopped bool
	cancels []func()

	resize     *debouncer
	mutation   *debouncer
	visibility *debouncer
	scroll     *debouncer

	// aggregated channel state, guarded by mu
	maxDW, maxDH float64
	classes      map[string]bool
	visiblePages map[int]bool
	offset       vec.Vec2
}

// Watch subscribes to all four channels of the notifier and returns the
// observer group handle.  The geometry cache is invalidated on the
// events described in the package documentation; geo may be nil if only
// the hooks are wanted.
func Watch(n Notifier, geo *cache.Manager, hooks Hooks, delays Delays) (*Group, error) {
	delays = delays.fillDefaults()
	g := &Group{
		geo:          geo,
		hooks:        hooks,
		classes:      make(map[string]bool),
		visiblePages: make(map[int]bool),
		resize:       &debouncer{delay: delays.Resize},
		mutation:     &debouncer{delay: delays.Mutation},
		visibility:   &debouncer{delay: delays.Visibility},
		scroll:       &debouncer{delay: delays.Scroll},
	}

	for _, kind := range []Kind{Resize, Mutation, Visibility, Scroll} {
		cancel, err := n.Subscribe(kind, g.handle)
		if err != nil {
			g.Stop()
			return nil, err
		}
		g.cancels = append(g.cancels, cancel)
	}
	return g, nil
}

// Stop releases all platform subscriptions and pending timers.  It is
// synchronous: after Stop returns, no further callbacks fire.
func (g *Group) Stop() {
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return
	}
	g.stopped = true
	cancels := g.cancels
	g.cancels = nil
	g.resize.stop()
	g.mutation.stop()
	g.visibility.stop()
	g.scroll.stop()
	g.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

func (g *Group) handle(ev Event) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopped {
		return
	}

	switch ev.Kind {
	case Resize:
		if dw := abs(ev.WidthDelta); dw > g.maxDW {
			g.maxDW = dw
		}
		if dh := abs(ev.HeightDelta); dh > g.maxDH {
			g.maxDH = dh
		}
		g.resize.trigger(g.flushResize)
	case Mutation:
		for _, c := range ev.Classes {
			g.classes[c] = true
		}
		g.mutation.trigger(g.flushMutation)
	case Visibility:
		if ev.Visible {
			g.visiblePages[ev.Page] = true
		}
		g.visibility.trigger(g.flushVisibility)
	case Scroll:
		g.offset = ev.Offset
		g.scroll.trigger(g.flushScroll)
	}
}

func (g *Group) flushResize() {
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return
	}
	dw, dh := g.maxDW, g.maxDH
	g.maxDW, g.maxDH = 0, 0
	g.mu.Unlock()

	if (dw >= resizeThreshold || dh >= resizeThreshold) && g.geo != nil {
		g.geo.Clear(cache.BucketLayout)
	}
	if g.hooks.OnResize != nil {
		g.hooks.OnResize(dw, dh)
	}
}

func (g *Group) flushMutation() {
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return
	}
	classes := maps.Keys(g.classes)
	g.classes = make(map[string]bool)
	g.mu.Unlock()
	slices.Sort(classes)

	if touchesTextLayer(classes) {
		if g.geo != nil {
			g.geo.Clear(cache.BucketSpans)
		}
		if g.hooks.Rerender != nil {
			g.hooks.Rerender()
		}
	}
	if g.hooks.OnMutation != nil {
		g.hooks.OnMutation(classes)
	}
}

func (g *Group) flushVisibility() {
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return
	}
	pages := maps.Keys(g.visiblePages)
	g.visiblePages = make(map[int]bool)
	g.mu.Unlock()
	slices.Sort(pages)

	if len(pages) == 0 {
		return
	}
	if g.hooks.Prefetch != nil {
		go g.hooks.Prefetch(pages)
	}
	if g.hooks.OnVisible != nil {
		g.hooks.OnVisible(pages)
	}
}

func (g *Group) flushScroll() {
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return
	}
	offset := g.offset
	g.mu.Unlock()

	if g.hooks.OnScroll != nil {
		g.hooks.OnScroll(offset)
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
