// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

// Package baseiter supplies the leaf iterators the linksto planner can
// morph into: FIXED (a materialized sorted id set), OR (a union of
// sub-iterators), ALL (every id in a range) and NULL (always empty).
// They are intentionally thin -- the spec treats their concrete
// implementation as an external collaborator -- but complete enough to
// exercise morphing, masquerade and freeze/thaw end to end.
package baseiter

import "sync/atomic"

var uidCounter int64

// NextUID hands out a process-wide unique, monotonically increasing
// iterator identity number (spec §3, "an identity number (id) that
// changes when the cursor morphs").
func NextUID() int64 {
	return atomic.AddInt64(&uidCounter, 1)
}
