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

import (
	"strings"
	"testing"
	"time"
)

func TestLRUOrder(t *testing.T) {
	m := New(Options{Limits: Limits{MaxEntries: 3, MaxBytes: 1 << 20}})
	defer m.Close()

	m.Set("b", "k1", "one")
	m.Set("b", "k2", "two")
	m.Set("b", "k3", "three")

	// touch k1 so that k2 becomes the oldest entry
	if _, ok := m.Get("b", "k1"); !ok {
		t.Fatal("cache miss for k1")
	}

	m.Set("b", "k4", "four")

	if _, ok := m.Get("b", "k2"); ok {
		t.Error("k2 should have been evicted")
	}
	for _, key := range []string{"k1", "k3", "k4"} {
		if _, ok := m.Get("b", key); !ok {
			t.Errorf("missing %s", key)
		}
	}
}

func TestByteBudget(t *testing.T) {
	// each value is 100 bytes, budget is 250 bytes
	m := New(Options{Limits: Limits{MaxEntries: 100, MaxBytes: 250}})
	defer m.Close()

	val := strings.Repeat("x", 100)
	m.Set("b", "k1", val)
	m.Set("b", "k2", val)
	m.Set("b", "k3", val)

	if _, ok := m.Get("b", "k1"); ok {
		t.Error("k1 should have been evicted to satisfy the byte budget")
	}
	if n := m.Len("b"); n != 2 {
		t.Errorf("got %d entries, want 2", n)
	}
}

func TestAccessProtects(t *testing.T) {
	m := New(Options{Limits: Limits{MaxEntries: 100, MaxBytes: 250}})
	defer m.Close()

	val := strings.Repeat("x", 100)
	m.Set("b", "k1", val)
	m.Set("b", "k2", val)

	// accessing k1 makes k2 the eviction candidate
	if _, ok := m.Get("b", "k1"); !ok {
		t.Fatal("cache miss for k1")
	}
	m.Set("b", "k3", val)

	if _, ok := m.Get("b", "k1"); !ok {
		t.Error("k1 was evicted despite being recently accessed")
	}
	if _, ok := m.Get("b", "k2"); ok {
		t.Error("k2 should have been evicted")
	}
}

func TestOversizedValueIsStored(t *testing.T) {
	m := New(Options{Limits: Limits{MaxEntries: 10, MaxBytes: 50}})
	defer m.Close()

	m.Set("b", "small", "x")
	m.Set("b", "big", strings.Repeat("y", 500))

	// insertion must succeed even though the value alone exceeds the
	// budget; only the other entries are evicted
	if _, ok := m.Get("b", "big"); !ok {
		t.Error("oversized value was rejected")
	}
	if _, ok := m.Get("b", "small"); ok {
		t.Error("small entry should have been evicted")
	}
}

func TestLazyExpiry(t *testing.T) {
	m := New(Options{SweepInterval: time.Hour})
	defer m.Close()

	m.SetTTL("b", "k", "v", time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	// the sweep has not run yet, but the entry must read as absent
	if _, ok := m.Get("b", "k"); ok {
		t.Error("expired entry returned from Get")
	}
}

func TestSweep(t *testing.T) {
	m := New(Options{SweepInterval: time.Hour})
	defer m.Close()

	m.SetTTL("b", "k1", "v", time.Millisecond)
	m.Set("b", "k2", "v")
	time.Sleep(5 * time.Millisecond)
	m.sweep(time.Now())

	if n := m.Len("b"); n != 1 {
		t.Errorf("got %d entries after sweep, want 1", n)
	}
}

func TestBucketsAreIndependent(t *testing.T) {
	m := New(Options{Limits: Limits{MaxEntries: 1, MaxBytes: 1 << 20}})
	defer m.Close()

	m.Set(BucketSpans, "k", "spans")
	m.Set(BucketLayout, "k", "layout")

	if _, ok := m.Get(BucketSpans, "k"); !ok {
		t.Error("spans entry lost")
	}
	if _, ok := m.Get(BucketLayout, "k"); !ok {
		t.Error("layout entry lost")
	}

	m.Clear(BucketSpans)
	if _, ok := m.Get(BucketSpans, "k"); ok {
		t.Error("spans bucket not cleared")
	}
	if _, ok := m.Get(BucketLayout, "k"); !ok {
		t.Error("clearing spans must not touch layout")
	}
}

func TestDeleteFunc(t *testing.T) {
	m := New(Options{})
	defer m.Close()

	m.Set(BucketSpans, PageKey(1, 1.0), "a")
	m.Set(BucketSpans, PageKey(1, 1.5), "b")
	m.Set(BucketSpans, PageKey(2, 1.0), "c")

	prefix := "p1@"
	m.DeleteFunc(BucketSpans, func(key string) bool {
		return strings.HasPrefix(key, prefix)
	})

	if n := m.Len(BucketSpans); n != 1 {
		t.Errorf("got %d entries, want 1", n)
	}
	if _, ok := m.Get(BucketSpans, PageKey(2, 1.0)); !ok {
		t.Error("page 2 entry lost")
	}
}

func TestEstimateFallback(t *testing.T) {
	var warned error
	m := New(Options{Warn: func(err error) { warned = err }})
	defer m.Close()

	// channels cannot be marshalled
	m.Set("b", "k", make(chan int))

	if warned == nil {
		t.Error("no warning for unestimable value")
	}
	if _, ok := m.Get("b", "k"); !ok {
		t.Error("unestimable value was not stored")
	}
}

func TestStats(t *testing.T) {
	m := New(Options{})
	defer m.Close()

	m.Set("b", "k", "v")
	m.Get("b", "k")
	m.Get("b", "missing")

	s := m.Stats()
	if s.Hits != 1 || s.Misses != 1 {
		t.Errorf("got hits=%d misses=%d, want 1/1", s.Hits, s.Misses)
	}
}
