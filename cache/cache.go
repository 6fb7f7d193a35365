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

// Package cache implements the bounded geometry cache shared by the
// overlay engine.  Values are stored in named buckets; each bucket is an
// independent LRU store bounded both by entry count and by estimated
// total byte size, with optional per-entry expiry.
package cache

import (
	"strconv"
	"sync"
	"time"

	"golang.org/x/exp/maps"
)

// Well-known bucket names used by the overlay engine.
const (
	BucketSpans      = "spans"
	BucketLayout     = "layout"
	BucketHighlights = "highlights"
)

// PageKey builds the cache key for per-page geometry.  The key always
// encodes the render scale, so a scale change can never return stale
// geometry.
func PageKey(page int, scale float64) string {
	return "p" + strconv.Itoa(page) + "@" + strconv.FormatFloat(scale, 'f', 4, 64)
}

// Limits bounds one bucket.  Zero fields select the defaults.
type Limits struct {
	// MaxEntries is the maximum number of entries per bucket.
	// Default 200.
	MaxEntries int

	// MaxBytes is the maximum estimated total value size per bucket.
	// Default 8 MiB.
	MaxBytes int64
}

const (
	defaultMaxEntries    = 200
	defaultMaxBytes      = 8 << 20
	defaultSweepInterval = time.Minute
)

func (l Limits) fillDefaults() Limits {
	if l.MaxEntries == 0 {
		l.MaxEntries = defaultMaxEntries
	}
	if l.MaxBytes == 0 {
		l.MaxBytes = defaultMaxBytes
	}
	return l
}

// Options configures a [Manager].
type Options struct {
	// Limits are the default per-bucket bounds.
	Limits Limits

	// SweepInterval is the interval of the periodic expiry sweep.
	// Default one minute.  Expired entries are also treated as absent
	// on Get before the sweep reaches them.
	SweepInterval time.Duration

	// Warn, if non-nil, receives non-fatal problems such as size
	// estimation failures.
	Warn func(error)
}

// Stats holds the diagnostic counters of a Manager.  The counters do not
// influence eviction.
type Stats struct {
	Hits, Misses int64
	AvgLookup    time.Duration
}

// Manager is a set of named cache buckets.  A Manager must be created
// with [New] and released with [Manager.Close].
//
// All methods are safe for concurrent use; in the overlay engine the only
// concurrent access is the expiry sweep and the best-effort prefetch.
type Manager struct {
	opts Options

	// mu guards everything below.
	mu          sync.Mutex
	buckets     map[string]*bucket
	hits        int64
	misses      int64
	lookupNanos int64
	lookups     int64

	sweepDone chan struct{}
	closed    bool
}

// New creates a cache manager and starts its expiry sweep.
func New(opts Options) *Manager {
	opts.Limits = opts.Limits.fillDefaults()
	if opts.SweepInterval == 0 {
		opts.SweepInterval = defaultSweepInterval
	}
	m := &Manager{
		opts:      opts,
		buckets:   make(map[string]*bucket),
		sweepDone: make(chan struct{}),
	}
	go m.sweepLoop()
	return m
}

// Close stops the expiry sweep and drops all entries.
func (m *Manager) Close() error {
	m.mu.Lock()
	if !m.closed {
		m.closed = true
		close(m.sweepDone)
	}
	m.mu.Unlock()
	m.ClearAll()
	return nil
}

// Resize sets the bounds for one bucket, evicting entries if the bucket
// already exceeds them.
func (m *Manager) Resize(name string, limits Limits) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.bucketLocked(name)
	b.limits = limits.fillDefaults()
	b.evict()
}

// Get returns the value stored under key in the named bucket, marking it
// as recently used.  Expired entries are treated as absent even before
// the sweep has removed them.
func (m *Manager) Get(name, key string) (any, bool) {
	start := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() {
		m.lookupNanos += time.Since(start).Nanoseconds()
		m.lookups++
	}()

	b, ok := m.buckets[name]
	if !ok {
		m.misses++
		return nil, false
	}
	ent, ok := b.entries[key]
	if !ok {
		m.misses++
		return nil, false
	}
	if ent.expired(time.Now()) {
		b.remove(ent)
		m.misses++
		return nil, false
	}
	b.moveToFront(ent)
	m.hits++
	return ent.value, true
}

// Set stores a value without expiry.
func (m *Manager) Set(name, key string, value any) {
	m.SetTTL(name, key, value, 0)
}

// SetTTL stores a value that expires after ttl.  A ttl of zero means no
// expiry.  Insertion always succeeds: if the bucket would exceed its
// bounds, least-recently-accessed entries are evicted until both bounds
// hold again.
func (m *Manager) SetTTL(name, key string, value any, ttl time.Duration) {
	size := estimateSize(value, m.warn)

	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.bucketLocked(name)
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	if ent, ok := b.entries[key]; ok {
		b.totalBytes += size - ent.size
		ent.value = value
		ent.size = size
		ent.expires = expires
		b.moveToFront(ent)
	} else {
		ent = &entry{
			key:     key,
			value:   value,
			size:    size,
			expires: expires,
		}
		b.entries[key] = ent
		b.totalBytes += size
		b.moveToFront(ent)
	}
	b.evict()
}

// Delete removes one entry.
func (m *Manager) Delete(name, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.buckets[name]
	if !ok {
		return
	}
	if ent, ok := b.entries[key]; ok {
		b.remove(ent)
	}
}

// DeleteFunc removes all entries of the named bucket whose key matches.
func (m *Manager) DeleteFunc(name string, match func(key string) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.buckets[name]
	if !ok {
		return
	}
	for _, key := range maps.Keys(b.entries) {
		if match(key) {
			b.remove(b.entries[key])
		}
	}
}

// Clear drops all entries of one bucket.
func (m *Manager) Clear(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.buckets[name]; ok {
		b.clear()
	}
}

// ClearAll drops all entries of all buckets.
func (m *Manager) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.buckets {
		b.clear()
	}
}

// Len returns the number of live entries in one bucket.
func (m *Manager) Len(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.buckets[name]; ok {
		return len(b.entries)
	}
	return 0
}

// Stats returns the manager's diagnostic counters.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Stats{Hits: m.hits, Misses: m.misses}
	if m.lookups > 0 {
		s.AvgLookup = time.Duration(m.lookupNanos / m.lookups)
	}
	return s
}

func (m *Manager) warn(err error) {
	if m.opts.Warn != nil {
		m.opts.Warn(err)
	}
}

func (m *Manager) bucketLocked(name string) *bucket {
	b, ok := m.buckets[name]
	if !ok {
		b = &bucket{
			limits:  m.opts.Limits,
			entries: make(map[string]*entry),
		}
		m.buckets[name] = b
	}
	return b
}

func (m *Manager) sweepLoop() {
	ticker := time.NewTicker(m.opts.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.sweepDone:
			return
		case now := <-ticker.C:
			m.sweep(now)
		}
	}
}

func (m *Manager) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.buckets {
		for _, key := range maps.Keys(b.entries) {
			if ent := b.entries[key]; ent.expired(now) {
				b.remove(ent)
			}
		}
	}
}
