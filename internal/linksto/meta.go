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
	"github.com/erigontech/graphd/internal/iterctx"
	"github.com/erigontech/graphd/internal/pdb"
)

// RangeEstimate implements spec §4.6: delegate to hint_it (TYPECHECK) or
// sub (SUBFANIN). Under SUBFANIN with a fanin cursor open, an exact
// count of zero from sub's own estimate is reported as an exact zero;
// the open fanin cursor's remaining count is not consulted.
func (l *Linksto) RangeEstimate() iterctx.RangeEstimate {
	if m := l.refresh(); m != nil {
		return m.RangeEstimate()
	}
	r := l.root()
	if r.nextMethod == MethodTypecheck && r.hintIt != nil {
		return r.hintIt.RangeEstimate()
	}
	if r.nextMethod == MethodSubfanin {
		est := l.sub.RangeEstimate()
		if l.fanin != nil {
			// Only sub's exact count is tested here; ids still left in
			// the open fanin cursor are not counted.
			if est.NExact == 0 {
				return iterctx.RangeEstimate{Low: l.low, High: l.high, NExact: 0, NMax: 0}
			}
		}
		return est
	}
	return l.sub.RangeEstimate()
}

// PrimitiveSummary implements spec §4.6: report the hint constraint when
// set, otherwise NO.
func (l *Linksto) PrimitiveSummary() (iterctx.PrimitiveSummary, error) {
	if m := l.refresh(); m != nil {
		return m.PrimitiveSummary()
	}
	if !l.hintActive() {
		return iterctx.PrimitiveSummary{}, iterctx.ErrNo
	}
	locked := iterctx.NewLinkageSet()
	locked.Add(pdb.ID(l.hintLinkage))
	guids := map[pdb.Linkage]pdb.GUID{l.hintLinkage: l.hintGUID}
	return iterctx.PrimitiveSummary{
		Locked:   locked,
		GUIDs:    guids,
		Result:   pdb.LinkageNone,
		Complete: false,
	}, nil
}

// Beyond implements spec §4.6.
func (l *Linksto) Beyond(v pdb.ID) bool {
	if m := l.refresh(); m != nil {
		return m.Beyond(v)
	}
	r := l.root()
	if !r.statsDone || !r.stats.Ordered {
		return false
	}
	if r.stats.Sorted && r.hintIt != nil {
		return r.hintIt.Beyond(v)
	}
	return l.sub.Beyond(v)
}

// Restrict implements spec §4.6: accept a compatible hint, reject an
// incompatible one, or derive a new hint from a TYPEGUID/LEFT-RIGHT
// summary pairing.
func (l *Linksto) Restrict(ps iterctx.PrimitiveSummary) (iterctx.Iterator, error) {
	if m := l.refresh(); m != nil {
		return m.Restrict(ps)
	}
	if l.hintActive() {
		g, ok := ps.GUIDs[l.hintLinkage]
		if ok && g == l.hintGUID {
			return nil, iterctx.ErrAlready
		}
		return nil, iterctx.ErrNo
	}
	resultLinkage, hasResult := ps.Result, ps.Result != pdb.LinkageNone
	if !hasResult {
		return nil, iterctx.ErrAlready
	}
	compatible := (resultLinkage == pdb.TypeGuid && (l.linkage == pdb.Left || l.linkage == pdb.Right)) ||
		((resultLinkage == pdb.Left || resultLinkage == pdb.Right) && l.linkage == pdb.TypeGuid)
	if !compatible {
		return nil, iterctx.ErrAlready
	}
	g, ok := ps.GUIDs[resultLinkage]
	if !ok {
		return nil, iterctx.ErrAlready
	}
	restricted := New(Params{
		Store:       l.store,
		Linkage:     l.linkage,
		Low:         l.low,
		High:        l.high,
		Dir:         l.dir,
		Ordering:    l.orderingPref,
		Sub:         l.sub.Clone(),
		HintLinkage: resultLinkage,
		HintGUID:    g,
	})
	return restricted, nil
}
