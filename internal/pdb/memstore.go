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

import (
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// vipThreshold is the fanin count above which memStore starts tracking a
// (id, linkage) pair in its VIP index. Below it, a linear scan of the
// fanin list is cheap enough that a precomputed index buys nothing (spec
// §6.1, "VIP" -- very important pointee).
const vipThreshold = 64

// memStore is an in-memory reference Store, built for tests and the demo
// CLI rather than production scale: every primitive lives in a slice, and
// each linkage slot has a roaring-bitmap fanin index keyed by target id.
// The read-cache is pointless at this size but is kept anyway so
// memStore exercises the same golang-lru-backed read path the on-disk
// store would use, and so benchmarks see a representative cache-hit/miss
// split instead of defaulting to an unbounded map.
type memStore struct {
	mu sync.RWMutex

	primitives []Primitive          // index i holds the primitive with ID(i+1)
	byGUID     map[GUID]ID
	fanin      [NumLinkages]map[ID]*roaring.Bitmap // fanin[l][target] = ids whose links[l] == guid-of(target)
	vip        [NumLinkages]map[ID]bool

	cache *lru.Cache[ID, Primitive]
}

// NewMemStore constructs an empty in-memory Store. cacheSize bounds the
// read cache; a size of 0 disables caching.
func NewMemStore(cacheSize int) Store {
	s := &memStore{
		byGUID: make(map[GUID]ID),
	}
	for l := range s.fanin {
		s.fanin[l] = make(map[ID]*roaring.Bitmap)
		s.vip[l] = make(map[ID]bool)
	}
	if cacheSize > 0 {
		c, err := lru.New[ID, Primitive](cacheSize)
		if err == nil {
			s.cache = c
		}
	}
	return s
}

// Put inserts or replaces primitive p, indexing its linkage slots. Not
// part of the Store interface: it is memStore's load path, analogous to
// a bulk-import tool writing directly to pdb's tables.
func (s *memStore) Put(p Primitive) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := int(p.ID) - 1
	for idx >= len(s.primitives) {
		s.primitives = append(s.primitives, Primitive{})
	}
	s.primitives[idx] = p
	s.byGUID[p.GUID] = p.ID
	if s.cache != nil {
		s.cache.Remove(p.ID)
	}

	for l := Linkage(1); l < NumLinkages; l++ {
		if !p.HasLinkage(l) {
			continue
		}
		target, ok := s.byGUID[p.LinkageGet(l)]
		if !ok {
			continue
		}
		bm := s.fanin[l][target]
		if bm == nil {
			bm = roaring.New()
			s.fanin[l][target] = bm
		}
		bm.Add(uint32(p.ID))
		if bm.GetCardinality() >= vipThreshold {
			s.vip[l][target] = true
		}
	}
}

func (s *memStore) PrimitiveN() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.primitives))
}

func (s *memStore) IDRead(id ID) (Primitive, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cache != nil {
		if p, ok := s.cache.Get(id); ok {
			return p, nil
		}
	}
	idx := int(id) - 1
	if idx < 0 || idx >= len(s.primitives) {
		return Primitive{}, ErrNotFound
	}
	p := s.primitives[idx]
	if p.ID == NoID {
		return Primitive{}, ErrNotFound
	}
	if s.cache != nil {
		s.cache.Add(id, p)
	}
	return p, nil
}

func (s *memStore) IDFromGUID(guid GUID) (ID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byGUID[guid]
	if !ok {
		return NoID, ErrNotFound
	}
	return id, nil
}

func (s *memStore) IDToGUID(id ID) (GUID, error) {
	p, err := s.IDRead(id)
	if err != nil {
		return GUID{}, err
	}
	return p.GUID, nil
}

// memFaninCursor walks a sorted slice of ids, already clipped to [low, high).
type memFaninCursor struct {
	ids     []uint32
	pos     int
	forward bool
}

func (c *memFaninCursor) Next() (ID, bool, error) {
	if c.forward {
		if c.pos >= len(c.ids) {
			return NoID, false, nil
		}
		id := c.ids[c.pos]
		c.pos++
		return ID(id), true, nil
	}
	if c.pos < 0 {
		return NoID, false, nil
	}
	id := c.ids[c.pos]
	c.pos--
	return ID(id), true, nil
}

func (c *memFaninCursor) Close() {}

func (s *memStore) LinkageIDIterator(l Linkage, target ID, low, high ID, forward bool) (FaninCursor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bm := s.fanin[l][target]
	var ids []uint32
	if bm != nil {
		it := bm.Iterator()
		for it.HasNext() {
			id := it.Next()
			if ID(id) < low {
				continue
			}
			if high != NoID && ID(id) >= high {
				break
			}
			ids = append(ids, id)
		}
	}
	c := &memFaninCursor{ids: ids, forward: forward}
	if !forward {
		c.pos = len(ids) - 1
	}
	return c, nil
}

func (s *memStore) VIPID(id ID, l Linkage) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vip[l][id]
}

func (s *memStore) VIPIDCount(id ID, l Linkage, otherGUID GUID, low, high ID, upperBound, budget int64) (int64, int64, error) {
	// memStore's fanin bitmaps are cheap enough to count exactly
	// without the otherGUID refinement a real VIP index would apply;
	// otherGUID is accepted and ignored.
	n := s.LinkageCountEst(l, id, low, high, upperBound)
	return n, PrimitiveCost, nil
}

func (s *memStore) LinkageCountEst(l Linkage, id ID, low, high ID, upperBound int64) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bm := s.fanin[l][id]
	if bm == nil {
		return 0
	}
	if low == NoID && high == NoID {
		n := int64(bm.GetCardinality())
		if upperBound >= 0 && n > upperBound {
			return upperBound
		}
		return n
	}
	var n int64
	it := bm.Iterator()
	for it.HasNext() {
		v := it.Next()
		if ID(v) < low {
			continue
		}
		if high != NoID && ID(v) >= high {
			break
		}
		n++
		if upperBound >= 0 && n >= upperBound {
			return upperBound
		}
	}
	return n
}

func (s *memStore) IteratorIntersect(a, b FaninCursor, low, high ID, budget int64, out []ID, max int) (int, int64, error) {
	var (
		spent int64
		av    []ID
		bv    []ID
	)
	for {
		id, ok, err := a.Next()
		if err != nil {
			return 0, spent, err
		}
		if !ok {
			break
		}
		av = append(av, id)
	}
	for {
		id, ok, err := b.Next()
		if err != nil {
			return 0, spent, err
		}
		if !ok {
			break
		}
		bv = append(bv, id)
	}
	sort.Slice(av, func(i, j int) bool { return av[i] < av[j] })
	sort.Slice(bv, func(i, j int) bool { return bv[i] < bv[j] })

	i, j, n := 0, 0, 0
	for i < len(av) && j < len(bv) && n < max {
		spent += GMapElementCost
		if budget >= 0 && spent > budget {
			return n, spent, ErrMore
		}
		switch {
		case av[i] < bv[j]:
			i++
		case av[i] > bv[j]:
			j++
		default:
			if av[i] >= low && (high == NoID || av[i] < high) {
				out = append(out, av[i])
				n++
			}
			i++
			j++
		}
	}
	return n, spent, nil
}
