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
	"encoding/json"
	"fmt"
)

// fallbackSize is charged for values whose size cannot be estimated.
const fallbackSize = 512

// EstimateError reports that the size of a cache value could not be
// estimated.  The value is still stored, charged at a fallback size.
type EstimateError struct {
	Err error
}

func (err *EstimateError) Error() string {
	return fmt.Sprintf("cannot estimate cache entry size: %v", err.Err)
}

func (err *EstimateError) Unwrap() error {
	return err.Err
}

// estimateSize approximates the memory footprint of a value via its JSON
// serialization.  Estimation failures are non-fatal: the warning sink is
// notified and the fallback size is used, so a single bad value cannot
// take down the cache.
func estimateSize(value any, warn func(error)) int64 {
	switch v := value.(type) {
	case nil:
		return 0
	case string:
		return int64(len(v))
	case []byte:
		return int64(len(v))
	}

	buf, err := json.Marshal(value)
	if err != nil {
		if warn != nil {
			warn(&EstimateError{Err: err})
		}
		return fallbackSize
	}
	return int64(len(buf))
}
