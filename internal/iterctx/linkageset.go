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

package iterctx

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/erigontech/graphd/internal/pdb"
)

// LinkageSet is the "locked linkage" bitset a PrimitiveSummary carries
// (spec §4.6, primitive_summary / linksto's GMAP of locked linkages): the
// set of linkage slots, each stored as its numeric pdb.Linkage value,
// that every result of this iterator has pinned to a known GUID, so a
// consumer composing this iterator with another linksto can skip
// re-checking those slots.
//
// It is a thin wrapper over a roaring bitmap, combined wholesale
// (union/intersect against another iterator's locked set).
type LinkageSet struct {
	bm *roaring.Bitmap
}

// NewLinkageSet returns an empty set.
func NewLinkageSet() *LinkageSet {
	return &LinkageSet{bm: roaring.New()}
}

// Add locks id into the set.
func (s *LinkageSet) Add(id pdb.ID) {
	if s.bm == nil {
		s.bm = roaring.New()
	}
	s.bm.Add(uint32(id))
}

// Contains reports whether id is locked.
func (s *LinkageSet) Contains(id pdb.ID) bool {
	if s.bm == nil {
		return false
	}
	return s.bm.Contains(uint32(id))
}

// Len returns the number of locked ids.
func (s *LinkageSet) Len() int64 {
	if s.bm == nil {
		return 0
	}
	return int64(s.bm.GetCardinality())
}

// Clone returns an independent copy.
func (s *LinkageSet) Clone() *LinkageSet {
	if s.bm == nil {
		return NewLinkageSet()
	}
	return &LinkageSet{bm: s.bm.Clone()}
}

// Intersect returns the ids locked in both s and o.
func (s *LinkageSet) Intersect(o *LinkageSet) *LinkageSet {
	if s.bm == nil || o == nil || o.bm == nil {
		return NewLinkageSet()
	}
	return &LinkageSet{bm: roaring.And(s.bm, o.bm)}
}

// Union returns the ids locked in either s or o.
func (s *LinkageSet) Union(o *LinkageSet) *LinkageSet {
	if o == nil || o.bm == nil {
		return s.Clone()
	}
	if s.bm == nil {
		return o.Clone()
	}
	return &LinkageSet{bm: roaring.Or(s.bm, o.bm)}
}

// Each calls f for every locked id in ascending order.
func (s *LinkageSet) Each(f func(pdb.ID)) {
	if s.bm == nil {
		return
	}
	it := s.bm.Iterator()
	for it.HasNext() {
		f(pdb.ID(it.Next()))
	}
}
