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
	"github.com/erigontech/graphd/internal/baseiter"
	"github.com/erigontech/graphd/internal/iterctx"
	"github.com/erigontech/graphd/internal/pdb"
)

// tryMorph implements spec §4.2 "Morphing under SUBFANIN sampling" and
// the TYPECHECK fallback. Must only be called on the root. Returns
// morphed=true if l.morphed was installed; the caller (Statistics)
// should return immediately in that case, since a morph supersedes
// whatever nextMethod would otherwise have been chosen.
func (l *Linksto) tryMorph() (bool, error) {
	// SUBFANIN: sub ran dry without yielding any endpoint with a
	// non-empty fanin -> NULL.
	if l.sfSubDone && len(l.sfIDs) == 0 && l.sfSumFan == 0 {
		return l.morphInto(baseiter.NewNull(l.dir))
	}

	if l.sfSubDone {
		total := l.sfSumFan
		noOrdering := l.orderingPref != iterctx.PreferOrdering
		if total <= FaninFixedMax && noOrdering {
			ids, err := l.materializeFanins()
			if err != nil {
				return false, err
			}
			fx := baseiter.NewFixed(ids, l.low, l.high, l.dir)
			return l.morphInto(fx)
		}
		if len(l.sfIDs) >= 1 {
			branches, err := l.openFaninBranches()
			if err != nil {
				return false, err
			}
			or := baseiter.NewOr(branches, l.low, l.high, l.dir)
			return l.morphInto(or)
		}
	}

	// TYPECHECK: hint_it exhausted before filling samples -> FIXED of
	// accepted ids (spec §4.2 "Similarly, if TYPECHECK sampling...").
	if l.tcHintDone && len(l.tcIDs) < NSamples {
		fx := baseiter.NewFixed(l.tcIDs, l.low, l.high, l.dir)
		return l.morphInto(fx)
	}

	return false, nil
}

// materializeFanins re-walks each sampled endpoint's fanin to collect
// every id (the sampling phase only tracked counts, not members).
func (l *Linksto) materializeFanins() ([]pdb.ID, error) {
	var out []pdb.ID
	for _, endpoint := range l.sfIDs {
		cur, err := l.store.LinkageIDIterator(l.linkage, endpoint, l.low, l.high, true)
		if err != nil {
			return nil, err
		}
		for {
			id, ok, err := cur.Next()
			if err != nil {
				cur.Close()
				return nil, err
			}
			if !ok {
				break
			}
			out = append(out, id)
		}
		cur.Close()
	}
	return out, nil
}

// openFaninBranches opens one cursorIterator per sampled endpoint, for
// use as OR branches. Per the open question recorded in DESIGN.md about
// linksto_become_small_or's ownership transfer, each returned iterator
// is owned by the Or once passed to baseiter.NewOr -- this function does
// not also hold a reference.
func (l *Linksto) openFaninBranches() ([]iterctx.Iterator, error) {
	branches := make([]iterctx.Iterator, 0, len(l.sfIDs))
	for _, endpoint := range l.sfIDs {
		cur, err := l.store.LinkageIDIterator(l.linkage, endpoint, l.low, l.high, l.dir == iterctx.Forward)
		if err != nil {
			return nil, err
		}
		branches = append(branches, newCursorIterator(l.store, l.linkage, endpoint, cur, l.low, l.high, l.dir))
	}
	return branches, nil
}

// morphInto installs replacement as this node's delegate, bumps the
// masquerade so a SET freeze still reproduces the original linksto
// specification (spec §4.2/§4.5 "Masquerade strings"), and returns true.
func (l *Linksto) morphInto(replacement iterctx.Iterator) (bool, error) {
	setForm, err := l.freezeSetForm()
	if err != nil {
		return false, err
	}
	switch r := replacement.(type) {
	case *baseiter.Fixed:
		r.SetMasquerade("fixed-" + setForm)
	case *baseiter.Or:
		r.SetMasquerade("or-" + setForm)
	case *baseiter.Null:
		r.SetMasquerade(setForm)
	}
	if l.lastIDSet {
		if err := fastForwardTo(replacement, l.lastID, l.dir); err != nil {
			return false, err
		}
	}
	l.morphed = replacement
	l.statsDone = true
	l.stats = replacement.Stats()
	return true, nil
}
