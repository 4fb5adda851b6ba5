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

// Preevaluate implements spec §4.5: an at-construction attempt to
// materialize a NULL/FIXED/OR iterator instead of a live linksto. On
// ErrMore, the caller should fall back to New(p) -- p.Sub is left reset
// and still owned by the caller for that purpose.
func Preevaluate(p Params) (iterctx.Iterator, error) {
	if isNull(p.Sub) {
		return baseiter.NewNull(p.Dir), nil
	}

	subStats := p.Sub.Stats()
	if subStats.N == iterctx.Unbounded || subStats.N*subStats.NextCost > PreevaluateBudget || subStats.N >= 1024 {
		return nil, iterctx.ErrMore
	}

	b := iterctx.NewBudget(PreevaluateBudget)
	var parts []iterctx.Iterator
	var totalIDN int64

	for {
		endpoint, err := p.Sub.Next(b)
		if err == iterctx.ErrMore {
			p.Sub.Reset()
			return nil, iterctx.ErrMore
		}
		if err == iterctx.ErrNo {
			break
		}
		if err != nil {
			return nil, err
		}
		cur, operr := p.Store.LinkageIDIterator(p.Linkage, endpoint, p.Low, p.High, p.Dir == iterctx.Forward)
		if operr != nil {
			return nil, operr
		}
		part := newCursorIterator(p.Store, p.Linkage, endpoint, cur, p.Low, p.High, p.Dir)
		parts = append(parts, part)
		n := part.Stats().N
		if n != iterctx.Unbounded {
			totalIDN += n
		}
		if len(parts) > PreevaluateN {
			p.Sub.Reset()
			return nil, iterctx.ErrMore
		}
	}

	if len(parts) == 1 {
		one := parts[0]
		if one.Stats().N == 1 {
			id, err := one.Next(b)
			if err != nil {
				return nil, err
			}
			fixed := baseiter.NewFixed([]pdb.ID{id}, p.Low, p.High, p.Dir)
			if form, ferr := presetForm(p); ferr == nil {
				fixed.SetMasquerade("fixed-" + form)
			}
			return fixed, nil
		}
		return one, nil
	}

	if totalIDN <= PreevaluateIDN {
		ids, cancel := drainParts(parts, b, totalIDN)
		if cancel {
			p.Sub.Reset()
			return nil, iterctx.ErrMore
		}
		fixed := baseiter.NewFixed(ids, p.Low, p.High, p.Dir)
		if form, ferr := presetForm(p); ferr == nil {
			fixed.SetMasquerade("fixed-" + form)
		}
		return fixed, nil
	}

	or := baseiter.NewOr(parts, p.Low, p.High, p.Dir)
	if form, ferr := presetForm(p); ferr == nil {
		or.SetMasquerade("or-" + form)
	}
	if len(parts) >= 7 {
		checkSub := p.Sub.Clone()
		checkSub.Reset()
		pairedHint := pdb.LinkageNone
		var pairedGUID pdb.GUID
		checkLinksto := New(Params{
			Store:       p.Store,
			Linkage:     p.Linkage,
			Low:         p.Low,
			High:        p.High,
			Dir:         p.Dir,
			Ordering:    p.Ordering,
			Sub:         checkSub,
			HintLinkage: pairedHint,
			HintGUID:    pairedGUID,
		})
		or.SetCheckHint(checkLinksto)
	}
	return or, nil
}

// presetForm renders the set form an unmorphed Linksto built from p
// would freeze to, so a preevaluated FIXED/OR can carry it as its
// masquerade the same way morphInto does for sampling-time morphs (spec
// §4.5, "installed on the resulting FIXED/OR so that a freeze reproduces
// the linksto specification").
func presetForm(p Params) (string, error) {
	return New(p).freezeSetForm()
}

func isNull(it iterctx.Iterator) bool {
	_, ok := it.(*baseiter.Null)
	if ok {
		return true
	}
	return it.Type() == "null"
}

// drainParts pulls every id from every part into a single slice.
// Returns cancel=true if more ids were seen than declared, per spec §4.5
// step 6 ("If during draining we see more than the declared count,
// cancel to step 7"). A declared count of 0 is treated as unknown and
// never cancels.
func drainParts(parts []iterctx.Iterator, b *iterctx.Budget, declared int64) ([]pdb.ID, bool) {
	var out []pdb.ID
	for _, part := range parts {
		for {
			id, err := part.Next(b)
			if err == iterctx.ErrNo {
				break
			}
			if err != nil {
				return nil, true
			}
			out = append(out, id)
			if int64(len(out)) > declared && declared > 0 {
				return nil, true
			}
		}
	}
	return out, false
}
