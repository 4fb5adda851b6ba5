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
	"github.com/erigontech/graphd/internal/iterctx"
	"github.com/erigontech/graphd/internal/pdb"
)

// Null is the always-empty iterator: the morph target when a linksto's
// sub produces zero endpoints (spec §4.2).
type Null struct {
	uid        int64
	dir        iterctx.Dir
	masquerade string
}

// NewNull constructs a Null iterator in the given direction.
func NewNull(dir iterctx.Dir) *Null {
	return &Null{uid: NextUID(), dir: dir}
}

func (n *Null) SetMasquerade(s string) { n.masquerade = s }
func (n *Null) Masquerade() string     { return n.masquerade }

func (n *Null) Next(b *iterctx.Budget) (pdb.ID, error)        { return pdb.NoID, iterctx.ErrNo }
func (n *Null) Find(b *iterctx.Budget, pdb.ID) (pdb.ID, error) { return pdb.NoID, iterctx.ErrNo }
func (n *Null) Check(b *iterctx.Budget, pdb.ID) (bool, error)  { return false, nil }
func (n *Null) Statistics(b *iterctx.Budget) error             { return nil }

func (n *Null) Stats() iterctx.Stats {
	return iterctx.Stats{N: 0, NextCost: pdb.FunctionCallCost, CheckCost: pdb.FunctionCallCost, FindCost: pdb.FunctionCallCost, Sorted: true, Ordered: true, Done: true}
}

func (n *Null) Reset() {}

func (n *Null) Clone() iterctx.Iterator {
	return &Null{uid: NextUID(), dir: n.dir, masquerade: n.masquerade}
}

func (n *Null) Freeze(flags iterctx.FreezeFlags) (string, error) {
	if flags.Has(iterctx.FreezeSet) && n.masquerade != "" {
		return n.masquerade, nil
	}
	return "null:", nil
}

func (n *Null) PrimitiveSummary() (iterctx.PrimitiveSummary, error) {
	return iterctx.PrimitiveSummary{}, iterctx.ErrNo
}

func (n *Null) RangeEstimate() iterctx.RangeEstimate {
	return iterctx.RangeEstimate{Low: pdb.NoID, High: pdb.NoID, NExact: 0, NMax: 0}
}

func (n *Null) Restrict(iterctx.PrimitiveSummary) (iterctx.Iterator, error) {
	return nil, iterctx.ErrAlready
}

func (n *Null) Beyond(pdb.ID) bool { return true }

func (n *Null) Finish() {}

func (n *Null) UID() int64 { return n.uid }

func (n *Null) Low() pdb.ID  { return pdb.NoID }
func (n *Null) High() pdb.ID { return pdb.NoID }

func (n *Null) Direction() iterctx.Dir { return n.dir }

func (n *Null) Type() string { return "null" }
