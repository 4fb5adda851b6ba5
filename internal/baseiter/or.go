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
	"strings"

	"github.com/google/btree"

	"github.com/erigontech/graphd/internal/iterctx"
	"github.com/erigontech/graphd/internal/pdb"
)

// Or unions a fixed set of branch iterators into one sorted id stream:
// the morph target for "sub exhausted mid-sampling with >=1 endpoint
// captured" (spec §4.2, "build an OR-of-fanin-iterators"), and
// preevaluation's fallback when too many fanin parts exist to drain into
// a Fixed (spec §4.5 step 7).
//
// Next is a k-way merge: each branch keeps a lookahead value in a
// btree-ordered frontier (branch id -> its current lookahead), so
// picking the next output is a tree Min() rather than a linear scan over
// all branches every call.
type Or struct {
	uid      int64
	branches []iterctx.Iterator
	dir      iterctx.Dir
	low, high pdb.ID

	frontier *btree.BTreeG[orSlot]
	primed   bool

	masquerade string
	checkHint  iterctx.Iterator // optional paired linksto for the check path (spec §4.5 step 7, >=7 parts)
}

type orSlot struct {
	id     pdb.ID
	branch int
}

func orSlotLess(dir iterctx.Dir) btree.LessFunc[orSlot] {
	return func(a, b orSlot) bool {
		if a.id != b.id {
			if dir == iterctx.Backward {
				return a.id > b.id
			}
			return a.id < b.id
		}
		return a.branch < b.branch
	}
}

// NewOr constructs an Or over branches (already positioned at their
// start), ascending or descending per dir.
func NewOr(branches []iterctx.Iterator, low, high pdb.ID, dir iterctx.Dir) *Or {
	return &Or{
		uid:      NextUID(),
		branches: branches,
		dir:      dir,
		low:      low,
		high:     high,
		frontier: btree.NewG(fixedDegree, orSlotLess(dir)),
	}
}

// SetCheckHint attaches a paired iterator used to accelerate Check
// (spec §4.5 step 7: "If the OR has >= 7 parts, also build a paired
// linksto for check-path and attach to the OR's check channel").
func (o *Or) SetCheckHint(it iterctx.Iterator) { o.checkHint = it }

func (o *Or) SetMasquerade(s string) { o.masquerade = s }
func (o *Or) Masquerade() string     { return o.masquerade }

func (o *Or) prime(b *iterctx.Budget) error {
	if o.primed {
		return nil
	}
	for i, branch := range o.branches {
		id, err := branch.Next(b)
		if err == iterctx.ErrMore {
			return err
		}
		if err == iterctx.ErrNo {
			continue
		}
		if err != nil {
			return err
		}
		o.frontier.ReplaceOrInsert(orSlot{id: id, branch: i})
	}
	o.primed = true
	return nil
}

func (o *Or) Next(b *iterctx.Budget) (pdb.ID, error) {
	if err := o.prime(b); err != nil {
		return pdb.NoID, err
	}
	if !b.Spend(pdb.GMapElementCost) {
		return pdb.NoID, iterctx.ErrMore
	}
	min, ok := o.frontier.Min()
	if !ok {
		return pdb.NoID, iterctx.ErrNo
	}
	o.frontier.Delete(min)
	// Drop duplicate ids from other branches pointing at the same value.
	for {
		next, ok := o.frontier.Min()
		if !ok || next.id != min.id {
			break
		}
		o.frontier.Delete(next)
		o.refill(next.branch, b)
	}
	o.refill(min.branch, b)
	return min.id, nil
}

func (o *Or) refill(branch int, b *iterctx.Budget) {
	id, err := o.branches[branch].Next(b)
	if err != nil {
		return
	}
	o.frontier.ReplaceOrInsert(orSlot{id: id, branch: branch})
}

func (o *Or) Find(b *iterctx.Budget, target pdb.ID) (pdb.ID, error) {
	// A correct, if unsophisticated, seek: re-prime every branch to
	// target and resume merging from there.
	o.frontier.Clear(false)
	o.primed = false
	for i, branch := range o.branches {
		id, err := branch.Find(b, target)
		if err == iterctx.ErrMore {
			return pdb.NoID, err
		}
		if err == iterctx.ErrNo {
			continue
		}
		if err != nil {
			return pdb.NoID, err
		}
		o.frontier.ReplaceOrInsert(orSlot{id: id, branch: i})
	}
	o.primed = true
	min, ok := o.frontier.Min()
	if !ok {
		return pdb.NoID, iterctx.ErrNo
	}
	o.frontier.Delete(min)
	o.refill(min.branch, b)
	return min.id, nil
}

func (o *Or) Check(b *iterctx.Budget, id pdb.ID) (bool, error) {
	if o.checkHint != nil {
		return o.checkHint.Check(b, id)
	}
	for _, branch := range o.branches {
		ok, err := branch.Check(b, id)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (o *Or) Statistics(b *iterctx.Budget) error { return nil }

func (o *Or) Stats() iterctx.Stats {
	var n int64
	unknown := false
	for _, br := range o.branches {
		s := br.Stats()
		if s.N == iterctx.Unbounded {
			unknown = true
			continue
		}
		n += s.N
	}
	if unknown {
		n = iterctx.Unbounded
	}
	return iterctx.Stats{N: n, NextCost: pdb.GMapElementCost, CheckCost: pdb.GMapElementCost * int64(len(o.branches)), FindCost: pdb.GMapElementCost, Sorted: true, Ordered: true, Done: true}
}

func (o *Or) Reset() {
	for _, br := range o.branches {
		br.Reset()
	}
	o.frontier.Clear(false)
	o.primed = false
}

func (o *Or) Clone() iterctx.Iterator {
	clones := make([]iterctx.Iterator, len(o.branches))
	for i, br := range o.branches {
		clones[i] = br.Clone()
	}
	c := NewOr(clones, o.low, o.high, o.dir)
	c.masquerade = o.masquerade
	return c
}

func (o *Or) Freeze(flags iterctx.FreezeFlags) (string, error) {
	if flags.Has(iterctx.FreezeSet) && o.masquerade != "" {
		return o.masquerade, nil
	}
	var sb strings.Builder
	if flags.Has(iterctx.FreezeSet) {
		sb.WriteString("or:")
		sb.WriteByte(dirChar(o.dir))
		sb.WriteString("(")
		for i, br := range o.branches {
			if i > 0 {
				sb.WriteByte(',')
			}
			s, err := br.Freeze(iterctx.FreezeSet)
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
		}
		sb.WriteString(")")
	}
	return sb.String(), nil
}

func (o *Or) PrimitiveSummary() (iterctx.PrimitiveSummary, error) {
	return iterctx.PrimitiveSummary{}, iterctx.ErrNo
}

func (o *Or) RangeEstimate() iterctx.RangeEstimate {
	return iterctx.RangeEstimate{Low: o.low, High: o.high, NExact: iterctx.Unbounded, NMax: iterctx.Unbounded, LowRising: o.dir == iterctx.Forward}
}

func (o *Or) Restrict(iterctx.PrimitiveSummary) (iterctx.Iterator, error) {
	return nil, iterctx.ErrAlready
}

func (o *Or) Beyond(v pdb.ID) bool {
	for _, br := range o.branches {
		if !br.Beyond(v) {
			return false
		}
	}
	return true
}

func (o *Or) Finish() {
	for _, br := range o.branches {
		br.Finish()
	}
	if o.checkHint != nil {
		o.checkHint.Finish()
	}
}

func (o *Or) UID() int64 { return o.uid }

func (o *Or) Low() pdb.ID  { return o.low }
func (o *Or) High() pdb.ID { return o.high }

func (o *Or) Direction() iterctx.Dir { return o.dir }

func (o *Or) Type() string { return "or" }
