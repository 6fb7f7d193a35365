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

import "strconv"

// GeometryNotFoundError indicates that the rendering surface has not yet
// laid out the requested page.  This happens routinely with lazily
// rendered pages; callers retry with a bounded wait before giving up.
type GeometryNotFoundError struct {
	Page int
	Err  error
}

func (err *GeometryNotFoundError) Error() string {
	middle := ""
	if err.Err != nil {
		middle = ": " + err.Err.Error()
	}
	return "no geometry for page " + strconv.Itoa(err.Page) + middle
}

func (err *GeometryNotFoundError) Unwrap() error {
	return err.Err
}

// PersistenceError indicates that a remote save, update or delete call
// failed.  The optimistic in-memory mutation it belongs to has been rolled
// back by the time the error reaches the caller.
type PersistenceError struct {
	Op string // "create", "update", "delete", "load"
	ID string
	Err error
}

func (err *PersistenceError) Error() string {
	s := "highlight " + err.Op + " failed"
	if err.ID != "" {
		s += " (id " + err.ID + ")"
	}
	if err.Err != nil {
		s += ": " + err.Err.Error()
	}
	return s
}

func (err *PersistenceError) Unwrap() error {
	return err.Err
}
