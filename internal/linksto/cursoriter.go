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

package linksto

import (
	"fmt"

	"github.com/erigontech/graphd/internal/iterctx"
	"github.com/erigontech/graphd/internal/pdb"
)

// cursorIterator adapts a pdb.FaninCursor -- a plain, unbudgeted
// forward-only walk over one linkage index -- into the full iterctx.Iterator
// contract. This is the seam the design settled on to avoid a
// dependency cycle: internal/pdb only knows about plain id/guid/linkage
// values and hands back the minimal FaninCursor, and this package (which
// already depends on both internal/pdb and internal/iterctx) is where
// the adaptation to the richer contract belongs.
type cursorIterator struct {
	uid     int64
	store   pdb.Store
	linkage pdb.Linkage
	target  pdb.ID
	cur     pdb.FaninCursor
	low, high pdb.ID
	dir     iterctx.Dir
	n       int64 // Unbounded unless known

	lastID    pdb.ID
	lastIDSet bool
	exhausted bool
}

// newCursorIterator wraps cur, a cursor already opened via
// store.LinkageIDIterator(linkage, target, low, high, ...), into a full
// iterctx.Iterator. store/linkage/target are retained (rather than only
// the cursor) so Clone can open an independent second cursor instead of
// sharing cur's walk position with the original -- pdb.FaninCursor has
// no native clone/snapshot operation.
func newCursorIterator(store pdb.Store, linkage pdb.Linkage, target pdb.ID, cur pdb.FaninCursor, low, high pdb.ID, dir iterctx.Dir) *cursorIterator {
	return &cursorIterator{uid: nextUID(), store: store, linkage: linkage, target: target, cur: cur, low: low, high: high, dir: dir, n: iterctx.Unbounded}
}

func (c *cursorIterator) Next(b *iterctx.Budget) (pdb.ID, error) {
	if !b.Spend(pdb.GMapElementCost) {
		return pdb.NoID, iterctx.ErrMore
	}
	if c.exhausted {
		return pdb.NoID, iterctx.ErrNo
	}
	id, ok, err := c.cur.Next()
	if err != nil {
		return pdb.NoID, err
	}
	if !ok {
		c.exhausted = true
		return pdb.NoID, iterctx.ErrNo
	}
	c.lastID, c.lastIDSet = id, true
	return id, nil
}

func (c *cursorIterator) Find(b *iterctx.Budget, target pdb.ID) (pdb.ID, error) {
	// FaninCursor has no native seek; emulate by walking forward.
	for {
		id, err := c.Next(b)
		if err != nil {
			return pdb.NoID, err
		}
		if c.dir == iterctx.Backward {
			if id <= target {
				return id, nil
			}
		} else if id >= target {
			return id, nil
		}
	}
}

func (c *cursorIterator) Check(b *iterctx.Budget, id pdb.ID) (bool, error) {
	if !b.Spend(pdb.GMapElementCost) {
		return false, iterctx.ErrMore
	}
	if id < c.low || (c.high != pdb.NoID && id >= c.high) || c.store == nil {
		return false, nil
	}
	prim, err := c.store.IDRead(id)
	if err != nil || !prim.HasLinkage(c.linkage) {
		return false, nil
	}
	endpoint, err := c.store.IDFromGUID(prim.LinkageGet(c.linkage))
	if err != nil {
		return false, nil
	}
	return endpoint == c.target, nil
}

func (c *cursorIterator) Statistics(b *iterctx.Budget) error { return nil }

func (c *cursorIterator) Stats() iterctx.Stats {
	return iterctx.Stats{N: c.n, NextCost: pdb.GMapElementCost, CheckCost: pdb.GMapElementCost, FindCost: pdb.GMapElementCost, Sorted: true, Ordered: true, Done: true}
}

func (c *cursorIterator) Reset() { c.lastIDSet, c.exhausted = false, false }

func (c *cursorIterator) Clone() iterctx.Iterator {
	if c.store == nil {
		// No store to reopen against (shouldn't happen in practice --
		// every constructor path supplies one); fall back to sharing
		// the cursor rather than panicking.
		return &cursorIterator{uid: nextUID(), store: c.store, linkage: c.linkage, target: c.target, cur: c.cur, low: c.low, high: c.high, dir: c.dir, n: c.n, lastID: c.lastID, lastIDSet: c.lastIDSet, exhausted: c.exhausted}
	}
	cur, err := c.store.LinkageIDIterator(c.linkage, c.target, c.low, c.high, c.dir == iterctx.Forward)
	if err != nil {
		return &cursorIterator{uid: nextUID(), store: c.store, linkage: c.linkage, target: c.target, low: c.low, high: c.high, dir: c.dir, n: c.n, exhausted: true}
	}
	clone := &cursorIterator{uid: nextUID(), store: c.store, linkage: c.linkage, target: c.target, cur: cur, low: c.low, high: c.high, dir: c.dir, n: c.n}
	if c.lastIDSet {
		b := iterctx.NewBudget(iterctx.Unlimited)
		for {
			id, err := clone.Next(b)
			if err != nil {
				break
			}
			if (c.dir == iterctx.Backward && id <= c.lastID) || (c.dir != iterctx.Backward && id >= c.lastID) {
				break
			}
		}
	}
	return clone
}

func (c *cursorIterator) Freeze(flags iterctx.FreezeFlags) (string, error) {
	s := ""
	if flags.Has(iterctx.FreezeSet) {
		s = fmt.Sprintf("fanin:%c%d-%d", dirChar(c.dir), c.low, c.high)
	}
	return s, nil
}

func dirChar(d iterctx.Dir) byte {
	if d == iterctx.Backward {
		return '~'
	}
	return '+'
}

func (c *cursorIterator) PrimitiveSummary() (iterctx.PrimitiveSummary, error) {
	return iterctx.PrimitiveSummary{}, iterctx.ErrNo
}

func (c *cursorIterator) RangeEstimate() iterctx.RangeEstimate {
	return iterctx.RangeEstimate{Low: c.low, High: c.high, NExact: c.n, NMax: c.n}
}

func (c *cursorIterator) Restrict(iterctx.PrimitiveSummary) (iterctx.Iterator, error) {
	return nil, iterctx.ErrAlready
}

func (c *cursorIterator) Beyond(v pdb.ID) bool {
	if !c.lastIDSet {
		return false
	}
	if c.dir == iterctx.Backward {
		return c.lastID < v
	}
	return c.lastID > v
}

func (c *cursorIterator) Finish() {
	if c.cur != nil {
		c.cur.Close()
	}
}

func (c *cursorIterator) UID() int64 { return c.uid }

func (c *cursorIterator) Low() pdb.ID  { return c.low }
func (c *cursorIterator) High() pdb.ID { return c.high }

func (c *cursorIterator) Direction() iterctx.Dir { return c.dir }

func (c *cursorIterator) Type() string { return "fanin-cursor" }
