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

package cache

import "time"

// bucket is one named LRU store.  The recency list is a doubly-linked
// list with the most recently used entry at the front.
type bucket struct {
	limits      Limits
	entries     map[string]*entry
	totalBytes  int64
	first, last *entry
}

type entry struct {
	prev, next *entry
	key        string
	value      any
	size       int64
	expires    time.Time
}

func (ent *entry) expired(now time.Time) bool {
	return !ent.expires.IsZero() && now.After(ent.expires)
}

// evict removes least-recently-used entries until both bounds hold.
// The most recent entry is never evicted, so an oversized value still
// gets stored on its own.
func (b *bucket) evict() {
	for len(b.entries) > 1 &&
		(len(b.entries) > b.limits.MaxEntries || b.totalBytes > b.limits.MaxBytes) {
		b.removeLast()
	}
}

func (b *bucket) moveToFront(ent *entry) {
	if ent == b.first {
		return
	}

	if ent.prev != nil {
		ent.prev.next = ent.next
	}
	if ent.next != nil {
		ent.next.prev = ent.prev
	}
	if ent == b.last {
		b.last = ent.prev
	}

	ent.prev = nil
	ent.next = b.first
	if b.first != nil {
		b.first.prev = ent
	}
	b.first = ent
	if b.last == nil {
		b.last = ent
	}
}

func (b *bucket) remove(ent *entry) {
	delete(b.entries, ent.key)
	b.totalBytes -= ent.size

	if ent.prev != nil {
		ent.prev.next = ent.next
	} else {
		b.first = ent.next
	}
	if ent.next != nil {
		ent.next.prev = ent.prev
	} else {
		b.last = ent.prev
	}
}

func (b *bucket) removeLast() {
	if b.last != nil {
		b.remove(b.last)
	}
}

func (b *bucket) clear() {
	b.entries = make(map[string]*entry)
	b.totalBytes = 0
	b.first = nil
	b.last = nil
}
