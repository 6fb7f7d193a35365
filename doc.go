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

// Package overlay provides text selection and highlight overlays for
// paginated document viewers.
//
// The package converts freehand strokes (or character offset ranges) into
// the set of glyph-layer text fragments they cover, stores the resulting
// highlights as geometry normalized to the page box, and projects stored
// highlights back into absolute screen coordinates for drawing.
//
// The rendering surface itself is not part of this module.  A viewer
// provides it through the [Surface] interface: per-page glyph spans at the
// current render scale, and the page box relative to the scroll container.
// Everything else is derived from these two queries.
//
// The sub-packages implement the individual stages:
//
//   - cache: bounded per-bucket geometry cache with LRU eviction and TTL
//   - watch: debounced change observation and cache invalidation
//   - layout: single- vs. multi-column page layout detection
//   - selection: corridor and offset-range span selection
//   - project: normalized/absolute rectangle conversion
//   - session: reader session tying the stages together, with optimistic
//     highlight persistence
//   - search: full-text search over span geometry
package overlay
