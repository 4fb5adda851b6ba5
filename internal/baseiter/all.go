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

	"github.com/erigontech/graphd/internal/iterctx"
	"github.com/erigontech/graphd/internal/pdb"
)

// All enumerates every id in [low, high), ascending or descending. It is
// the iterator a bare hint-less linksto uses for hint_it when no hint is
// set (spec §3, "an all-iterator when no hint"), and is also a valid
// (if useless) morph target.
type All struct {
	uid  int64
	low  pdb.ID
	high pdb.ID // pdb.NoID means "bounded only by the store's primitive_n"
	n    uint64 // primitive_n(), needed to bound an unbounded high
	dir  iterctx.Dir

	posValid bool
	pos      pdb.ID
}

// NewAll constructs an All iterator bounded to [low, high); if high is
// pdb.NoID, storeN (the store's total primitive count) bounds it instead.
func NewAll(low, high pdb.ID, storeN uint64, dir iterctx.Dir) *All {
	return &All{uid: NextUID(), low: low, high: high, n: storeN, dir: dir}
}

func (a *All) effectiveHigh() pdb.ID {
	if a.high != pdb.NoID {
		return a.high
	}
	return pdb.ID(a.n) + 1
}

func (a *All) Next(b *iterctx.Budget) (pdb.ID, error) {
	if !b.Spend(pdb.FunctionCallCost) {
		return pdb.NoID, iterctx.ErrMore
	}
	high := a.effectiveHigh()
	if a.dir == iterctx.Backward {
		next := high - 1
		if a.posValid {
			next = a.pos - 1
		}
		if next < a.low || next == pdb.NoID {
			return pdb.NoID, iterctx.ErrNo
		}
		a.pos, a.posValid = next, true
		return next, nil
	}
	next := a.low
	if a.posValid {
		next = a.pos + 1
	}
	if next >= high {
		return pdb.NoID, iterctx.ErrNo
	}
	a.pos, a.posValid = next, true
	return next, nil
}

func (a *All) Find(b *iterctx.Budget, target pdb.ID) (pdb.ID, error) {
	if !b.Spend(pdb.FunctionCallCost) {
		return pdb.NoID, iterctx.ErrMore
	}
	high := a.effectiveHigh()
	if a.dir == iterctx.Backward {
		if target >= high {
			target = high - 1
		}
		if target < a.low {
			return pdb.NoID, iterctx.ErrNo
		}
		a.pos, a.posValid = target, true
		return target, nil
	}
	if target < a.low {
		target = a.low
	}
	if target >= high {
		return pdb.NoID, iterctx.ErrNo
	}
	a.pos, a.posValid = target, true
	return target, nil
}

func (a *All) Check(b *iterctx.Budget, id pdb.ID) (bool, error) {
	if !b.Spend(pdb.FunctionCallCost) {
		return false, iterctx.ErrMore
	}
	return id >= a.low && id < a.effectiveHigh(), nil
}

func (a *All) Statistics(b *iterctx.Budget) error { return nil }

func (a *All) Stats() iterctx.Stats {
	n := int64(a.effectiveHigh() - a.low)
	if n < 0 {
		n = 0
	}
	return iterctx.Stats{N: n, NextCost: pdb.FunctionCallCost, CheckCost: pdb.FunctionCallCost, FindCost: pdb.FunctionCallCost, Sorted: true, Ordered: true, Done: true}
}

func (a *All) Reset() { a.posValid = false }

func (a *All) Clone() iterctx.Iterator {
	return &All{uid: NextUID(), low: a.low, high: a.high, n: a.n, dir: a.dir}
}

func (a *All) Freeze(flags iterctx.FreezeFlags) (string, error) {
	s := ""
	if flags.Has(iterctx.FreezeSet) {
		if a.high == pdb.NoID {
			s = fmt.Sprintf("all:%c%d", dirChar(a.dir), a.low)
		} else {
			s = fmt.Sprintf("all:%c%d-%d", dirChar(a.dir), a.low, a.high)
		}
	}
	if flags.Has(iterctx.FreezePosition) {
		if s != "" {
			s += ":"
		}
		if a.posValid {
			s += fmt.Sprintf("%d", a.pos)
		} else {
			s += "-"
		}
	}
	return s, nil
}

func dirChar(d iterctx.Dir) byte {
	if d == iterctx.Backward {
		return '~'
	}
	return '+'
}

func (a *All) PrimitiveSummary() (iterctx.PrimitiveSummary, error) {
	return iterctx.PrimitiveSummary{}, iterctx.ErrNo
}

func (a *All) RangeEstimate() iterctx.RangeEstimate {
	high := a.effectiveHigh()
	n := int64(high - a.low)
	if n < 0 {
		n = 0
	}
	return iterctx.RangeEstimate{Low: a.low, High: high, NExact: n, NMax: n, LowRising: a.dir == iterctx.Forward}
}

func (a *All) Restrict(iterctx.PrimitiveSummary) (iterctx.Iterator, error) {
	return nil, iterctx.ErrAlready
}

func (a *All) Beyond(v pdb.ID) bool {
	if !a.posValid {
		return false
	}
	if a.dir == iterctx.Backward {
		return a.pos < v
	}
	return a.pos > v
}

func (a *All) Finish() {}

func (a *All) UID() int64 { return a.uid }

func (a *All) Low() pdb.ID  { return a.low }
func (a *All) High() pdb.ID { return a.high }

func (a *All) Direction() iterctx.Dir { return a.dir }

func (a *All) Type() string { return "all" }
