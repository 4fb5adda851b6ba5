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

// FaninCursor is the low-level, unbudgeted cursor a Store hands back for
// a fanin enumeration (spec §6.1 linkage_id_iterator). It deliberately
// does not implement the full iterator contract (internal/iterctx.Iterator):
// pdb is a leaf package the iterator algebra is built on top of, so the
// budget/suspension/freeze machinery lives one layer up, in
// internal/linksto's cursorIterator, the adapter that wraps a
// FaninCursor into a real iterctx.Iterator.
type FaninCursor interface {
	// Next returns the next id in the cursor's direction, or ok=false
	// at EOF.
	Next() (id ID, ok bool, err error)

	// Close releases the cursor. Idempotent.
	Close()
}

// Store is the primitive/linkage store contract the linksto iterator is
// built against (spec §6.1). The production system backs this with an
// on-disk store (pdb proper); internal/pdb/memstore.go provides an
// in-memory reference implementation for tests and the demo CLI.
type Store interface {
	// PrimitiveN returns the total primitive count.
	PrimitiveN() uint64

	// IDRead loads a primitive by id. ErrNotFound if absent.
	IDRead(id ID) (Primitive, error)

	// IDFromGUID translates a GUID to its id. ErrNotFound if unknown.
	IDFromGUID(guid GUID) (ID, error)

	// IDToGUID translates an id to its GUID. ErrNotFound if unknown.
	IDToGUID(id ID) (GUID, error)

	// LinkageIDIterator returns a cursor over primitives whose linkage
	// slot l points at target (the "fanin" of target through l),
	// bounded to [low, high) and ordered per forward.
	LinkageIDIterator(l Linkage, target ID, low, high ID, forward bool) (FaninCursor, error)

	// VIPID reports whether (id, l) participates in a precomputed VIP
	// index (a hot (id, linkage) pair worth a direct count lookup
	// rather than a linear estimate).
	VIPID(id ID, l Linkage) bool

	// VIPIDCount estimates the number of primitives whose linkage slot
	// l points at id, additionally constrained to have hint-linkage
	// value otherGUID when otherGUID is non-zero-valued, within
	// [low, high), consuming up to budget cost units. Returns ErrMore
	// if the budget is exhausted before a precise count is available;
	// the caller should fall back to LinkageCountEst.
	VIPIDCount(id ID, l Linkage, otherGUID GUID, low, high ID, upperBound int64, budget int64) (n int64, spent int64, err error)

	// LinkageCountEst returns a (possibly imprecise, always available)
	// estimate of the fanin count for (l, id) within [low, high),
	// capped at upperBound.
	LinkageCountEst(l Linkage, id ID, low, high ID, upperBound int64) int64

	// IteratorIntersect computes up to max ids common to both cursors
	// within [low, high), spending at most budget cost units, appending
	// results to out. Returns ErrMore if budget ran out first.
	IteratorIntersect(a, b FaninCursor, low, high ID, budget int64, out []ID, max int) (n int, spent int64, err error)
}
