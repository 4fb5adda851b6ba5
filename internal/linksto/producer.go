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

// Next implements spec §4.3. It dispatches on the committed
// next_method, running Statistics first if it hasn't converged yet.
func (l *Linksto) Next(b *iterctx.Budget) (pdb.ID, error) {
	if m := l.refresh(); m != nil {
		return m.Next(b)
	}
	if !l.root().statsDone {
		if err := l.Statistics(b); err != nil {
			return pdb.NoID, err
		}
		if m := l.refresh(); m != nil {
			return m.Next(b)
		}
	}
	var (
		id  pdb.ID
		err error
	)
	switch l.root().nextMethod {
	case MethodSubfanin:
		id, err = l.nextSubfanin(b)
	case MethodTypecheck:
		id, err = l.nextTypecheck(b)
	default:
		return pdb.NoID, iterctx.ErrNo
	}
	if err == nil {
		l.lastID, l.lastIDSet = id, true
		l.checkCachedSet = false
	}
	return id, err
}

// nextSubfanin implements the SUBFANIN producer (spec §4.3): pull from
// the active fanin cursor; on exhaustion, advance sub to the next
// endpoint and open a fresh fanin.
func (l *Linksto) nextSubfanin(b *iterctx.Budget) (pdb.ID, error) {
	for {
		if l.fanin != nil {
			l.callState = csNextSubfaninPullFanin
			id, ok, err := l.fanin.Next()
			if err != nil {
				return pdb.NoID, err
			}
			if ok {
				if !b.Spend(pdb.GMapElementCost) {
					return pdb.NoID, iterctx.ErrMore
				}
				l.callState = csIdle
				return id, nil
			}
			l.fanin.Close()
			l.fanin = nil
		}
		if !b.Spend(pdb.GMapArrayCost) {
			return pdb.NoID, iterctx.ErrMore
		}
		l.callState = csNextSubfaninPullSub
		endpoint, err := l.sub.Next(b)
		if err == iterctx.ErrMore {
			return pdb.NoID, iterctx.ErrMore
		}
		if err == iterctx.ErrNo {
			l.callState = csIdle
			return pdb.NoID, iterctx.ErrNo
		}
		if err != nil {
			return pdb.NoID, err
		}
		cur, oerr := l.store.LinkageIDIterator(l.linkage, endpoint, l.low, l.high, l.dir == iterctx.Forward)
		if oerr != nil {
			return pdb.NoID, oerr
		}
		l.fanin = cur
		l.faninEndpoint = endpoint
		l.subID = endpoint
		l.callState = csIdle
	}
}

// nextTypecheck implements the TYPECHECK producer (spec §4.3).
func (l *Linksto) nextTypecheck(b *iterctx.Budget) (pdb.ID, error) {
	l.callState = csNextTypecheckLoop
	for {
		if !b.Spend(pdb.PrimitiveCost) {
			return pdb.NoID, iterctx.ErrMore
		}
		id, err := l.hintIt.Next(b)
		if err == iterctx.ErrMore {
			return pdb.NoID, iterctx.ErrMore
		}
		if err == iterctx.ErrNo {
			l.callState = csIdle
			return pdb.NoID, iterctx.ErrNo
		}
		if err != nil {
			return pdb.NoID, err
		}
		ok, cerr := l.checkViaPrimitive(b, id)
		if cerr != nil {
			return pdb.NoID, cerr
		}
		if ok {
			l.callState = csIdle
			return id, nil
		}
	}
}

// Find implements spec §4.1/§4.3: for SUBFANIN, resets and scans forward
// to the first id at or past target; for TYPECHECK, seeks hint_it to
// target and checks candidates from there.
func (l *Linksto) Find(b *iterctx.Budget, target pdb.ID) (pdb.ID, error) {
	if m := l.refresh(); m != nil {
		return m.Find(b, target)
	}
	if !l.root().statsDone {
		if err := l.Statistics(b); err != nil {
			return pdb.NoID, err
		}
		if m := l.refresh(); m != nil {
			return m.Find(b, target)
		}
	}
	switch l.root().nextMethod {
	case MethodTypecheck:
		l.callState = csFindTypecheckSeek
		id, err := l.hintIt.Find(b, target)
		if err == iterctx.ErrNo {
			l.callState = csIdle
			return pdb.NoID, iterctx.ErrNo
		}
		if err != nil {
			return pdb.NoID, err
		}
		ok, err := l.checkViaPrimitive(b, id)
		if err != nil {
			return pdb.NoID, err
		}
		l.callState = csIdle
		if ok {
			return id, nil
		}
		return l.nextTypecheck(b)
	case MethodSubfanin:
		// SUBFANIN is not sorted (spec §4.2): find is undefined; honor
		// the contract loosely by scanning forward from a reset position.
		l.Reset()
		for {
			id, err := l.nextSubfanin(b)
			if err != nil {
				return pdb.NoID, err
			}
			if (l.dir == iterctx.Forward && id >= target) || (l.dir == iterctx.Backward && id <= target) {
				return id, nil
			}
		}
	default:
		return pdb.NoID, iterctx.ErrNo
	}
}

// checkViaPrimitive implements spec §4.3 check(): read the primitive,
// confirm linkage, confirm hint, delegate to sub.check.
func (l *Linksto) checkViaPrimitive(b *iterctx.Budget, id pdb.ID) (bool, error) {
	prim, err := l.store.IDRead(id)
	if err == pdb.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !prim.HasLinkage(l.linkage) {
		return false, nil
	}
	if l.hintActive() {
		if !prim.HasLinkage(l.hintLinkage) || prim.LinkageGet(l.hintLinkage) != l.hintGUID {
			return false, nil
		}
	}
	endpointGUID := prim.LinkageGet(l.linkage)
	endpoint, err := l.store.IDFromGUID(endpointGUID)
	if err != nil {
		return false, nil
	}
	return l.sub.Check(b, endpoint)
}

// Check implements spec §4.3: memoized single-slot check.
func (l *Linksto) Check(b *iterctx.Budget, id pdb.ID) (bool, error) {
	if m := l.refresh(); m != nil {
		return m.Check(b, id)
	}
	if l.checkCachedSet && l.checkCachedID == id {
		return l.checkCachedResult, nil
	}
	ok, err := l.checkViaPrimitive(b, id)
	if err == iterctx.ErrMore {
		return false, err
	}
	if err != nil {
		return false, err
	}
	l.checkCachedID, l.checkCachedResult, l.checkCachedSet = id, ok, true
	return ok, nil
}
