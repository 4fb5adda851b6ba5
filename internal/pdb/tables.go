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

package pdb

// Table name constants for an on-disk Store backend (a kv.RwDB-style
// bucket layout, one bucket per index this package maintains). memStore
// does not use these -- it keeps everything in process memory -- but a
// durable Store implementation slots in against the same names so
// tooling (backup, bucket stats, migrations) has one place to look.
const (
	// TablePrimitives maps ID -> encoded Primitive.
	TablePrimitives = "Primitives"

	// TableGUIDIndex maps GUID -> ID.
	TableGUIDIndex = "GUIDIndex"

	// TableFaninLeft, TableFaninRight, TableFaninTypeGuid, TableFaninScope
	// each map target ID -> a sorted list of ids whose corresponding
	// linkage slot points at that target (spec §6.1 linkage_id_iterator).
	TableFaninLeft     = "FaninLeft"
	TableFaninRight    = "FaninRight"
	TableFaninTypeGuid = "FaninTypeGuid"
	TableFaninScope    = "FaninScope"

	// TableVIP maps (Linkage, ID) -> a precomputed, periodically
	// refreshed count, for the hot pairs LinkageCountEst alone would be
	// too slow to estimate well.
	TableVIP = "VIP"
)

// FaninTable returns the bucket name backing linkage l's fanin index.
func FaninTable(l Linkage) string {
	switch l {
	case Left:
		return TableFaninLeft
	case Right:
		return TableFaninRight
	case TypeGuid:
		return TableFaninTypeGuid
	case Scope:
		return TableFaninScope
	default:
		return ""
	}
}
