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

package baseiter

import (
	"fmt"
	"strings"

	"github.com/google/btree"

	"github.com/erigontech/graphd/internal/iterctx"
	"github.com/erigontech/graphd/internal/pdb"
)

const fixedDegree = 32

func lessID(a, b pdb.ID) bool { return a < b }

// Fixed is a materialized, sorted set of ids: the morph target for a
// SUBFANIN sample small enough to enumerate in full (spec §4.2,
// FANIN_FIXED_MAX), and for preevaluation's single-part or small-total
// cases (spec §4.5). Backed by a btree.BTreeG rather than a plain sorted
// slice so Find (least id >= target) is a tree descent instead of a
// binary search re-implementation, and so a masqueraded Fixed can be
// cheaply Cloned without copying the backing storage (btree.Clone is
// copy-on-write).
type Fixed struct {
	uid  int64
	tree *btree.BTreeG[pdb.ID]
	low, high pdb.ID
	dir  iterctx.Dir

	posValid bool
	pos      pdb.ID

	// masquerade is installed by preevaluation: when non-empty, Freeze
	// with FreezeSet renders this string verbatim instead of the
	// Fixed's own set form (spec §4.5 "Masquerade strings").
	masquerade string
}

// NewFixed builds a Fixed over ids, clipped to [low, high) if high !=
// pdb.NoID, in the given direction.
func NewFixed(ids []pdb.ID, low, high pdb.ID, dir iterctx.Dir) *Fixed {
	t := btree.NewG(fixedDegree, lessID)
	for _, id := range ids {
		if id < low {
			continue
		}
		if high != pdb.NoID && id >= high {
			continue
		}
		t.ReplaceOrInsert(id)
	}
	return &Fixed{uid: NextUID(), tree: t, low: low, high: high, dir: dir}
}

func (f *Fixed) SetMasquerade(s string) { f.masquerade = s }
func (f *Fixed) Masquerade() string     { return f.masquerade }

func (f *Fixed) Next(b *iterctx.Budget) (pdb.ID, error) {
	if !b.Spend(pdb.GMapElementCost) {
		return pdb.NoID, iterctx.ErrMore
	}
	var result pdb.ID
	found := false
	if f.dir == iterctx.Backward {
		start := f.pos
		if !f.posValid {
			max, ok := f.tree.Max()
			if !ok {
				return pdb.NoID, iterctx.ErrNo
			}
			start = max
		}
		f.tree.DescendLessOrEqual(start, func(id pdb.ID) bool {
			if f.posValid && id >= f.pos {
				return true
			}
			result, found = id, true
			return false
		})
	} else {
		start := f.low
		if f.posValid {
			start = f.pos + 1
		}
		f.tree.AscendGreaterOrEqual(start, func(id pdb.ID) bool {
			result, found = id, true
			return false
		})
	}
	if !found {
		return pdb.NoID, iterctx.ErrNo
	}
	f.pos, f.posValid = result, true
	return result, nil
}

func (f *Fixed) Find(b *iterctx.Budget, target pdb.ID) (pdb.ID, error) {
	if !b.Spend(pdb.GMapElementCost) {
		return pdb.NoID, iterctx.ErrMore
	}
	var result pdb.ID
	found := false
	if f.dir == iterctx.Backward {
		f.tree.DescendLessOrEqual(target, func(id pdb.ID) bool {
			result, found = id, true
			return false
		})
	} else {
		f.tree.AscendGreaterOrEqual(target, func(id pdb.ID) bool {
			result, found = id, true
			return false
		})
	}
	if !found {
		return pdb.NoID, iterctx.ErrNo
	}
	f.pos, f.posValid = result, true
	return result, nil
}

func (f *Fixed) Check(b *iterctx.Budget, id pdb.ID) (bool, error) {
	if !b.Spend(pdb.GMapElementCost) {
		return false, iterctx.ErrMore
	}
	return f.tree.Has(id), nil
}

func (f *Fixed) Statistics(b *iterctx.Budget) error { return nil }

func (f *Fixed) Stats() iterctx.Stats {
	return iterctx.Stats{
		N:         int64(f.tree.Len()),
		NextCost:  pdb.GMapElementCost,
		CheckCost: pdb.GMapElementCost,
		FindCost:  pdb.GMapElementCost,
		Sorted:    true,
		Ordered:   true,
		Done:      true,
	}
}

func (f *Fixed) Reset() { f.posValid = false }

func (f *Fixed) Clone() iterctx.Iterator {
	return &Fixed{
		uid:        NextUID(),
		tree:       f.tree.Clone(),
		low:        f.low,
		high:       f.high,
		dir:        f.dir,
		masquerade: f.masquerade,
	}
}

func (f *Fixed) Freeze(flags iterctx.FreezeFlags) (string, error) {
	var sb strings.Builder
	if flags.Has(iterctx.FreezeSet) {
		if f.masquerade != "" {
			sb.WriteString(f.masquerade)
		} else {
			sb.WriteString(f.setForm())
		}
	}
	if flags.Has(iterctx.FreezePosition) {
		if sb.Len() > 0 {
			sb.WriteByte(':')
		}
		if f.posValid {
			fmt.Fprintf(&sb, "%d", f.pos)
		} else {
			sb.WriteString("-")
		}
	}
	return sb.String(), nil
}

func (f *Fixed) setForm() string {
	var sb strings.Builder
	sb.WriteString("fixed:")
	if f.dir == iterctx.Backward {
		sb.WriteByte('~')
	} else {
		sb.WriteByte('+')
	}
	first := true
	f.tree.Ascend(func(id pdb.ID) bool {
		if !first {
			sb.WriteByte(',')
		}
		first = false
		fmt.Fprintf(&sb, "%d", id)
		return true
	})
	return sb.String()
}

func (f *Fixed) PrimitiveSummary() (iterctx.PrimitiveSummary, error) {
	return iterctx.PrimitiveSummary{}, iterctx.ErrNo
}

func (f *Fixed) RangeEstimate() iterctx.RangeEstimate {
	n := int64(f.tree.Len())
	low, high := pdb.NoID, pdb.NoID
	if min, ok := f.tree.Min(); ok {
		low = min
	}
	if max, ok := f.tree.Max(); ok {
		high = max
	}
	return iterctx.RangeEstimate{Low: low, High: high, NExact: n, NMax: n, LowRising: f.dir == iterctx.Forward}
}

func (f *Fixed) Restrict(ps iterctx.PrimitiveSummary) (iterctx.Iterator, error) {
	return nil, iterctx.ErrAlready
}

func (f *Fixed) Beyond(v pdb.ID) bool {
	if f.dir == iterctx.Backward {
		min, ok := f.tree.Min()
		return ok && min > v
	}
	max, ok := f.tree.Max()
	return ok && max < v
}

func (f *Fixed) Finish() {}

func (f *Fixed) UID() int64 { return f.uid }

func (f *Fixed) Low() pdb.ID  { return f.low }
func (f *Fixed) High() pdb.ID { return f.high }

func (f *Fixed) Direction() iterctx.Dir { return f.dir }

func (f *Fixed) Type() string { return "fixed" }

// Ids returns every id in the set, ascending, without disturbing
// position. Used by linksto's preevaluation and OR construction, which
// need raw access rather than budgeted enumeration.
func (f *Fixed) Ids() []pdb.ID {
	out := make([]pdb.ID, 0, f.tree.Len())
	f.tree.Ascend(func(id pdb.ID) bool {
		out = append(out, id)
		return true
	})
	return out
}
