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

const minCoverage = 0.0001

// ensureHintIt lazily builds hint_it: a linkage-index iterator keyed by
// hint_guid when a hint is set, or an all-iterator ranging the full id
// space otherwise (spec §3).
func (l *Linksto) ensureHintIt() error {
	if l.hintIt != nil {
		return nil
	}
	if !l.hintActive() {
		l.hintIt = baseiter.NewAll(l.low, l.high, l.store.PrimitiveN(), l.dir)
		return nil
	}
	target, err := l.store.IDFromGUID(l.hintGUID)
	if err != nil {
		l.hintIt = baseiter.NewNull(l.dir)
		return nil
	}
	l.hintVIP = l.store.VIPID(target, l.hintLinkage)
	cur, err := l.store.LinkageIDIterator(l.hintLinkage, target, l.low, l.high, l.dir == iterctx.Forward)
	if err != nil {
		return err
	}
	l.hintIt = newCursorIterator(l.store, l.hintLinkage, target, cur, l.low, l.high, l.dir)
	return nil
}

// Statistics drives the planner to convergence (spec §4.2). It may be
// called repeatedly across ErrMore returns; all scratch lives on the
// root so resumption picks up exactly where the budget ran out.
func (l *Linksto) Statistics(b *iterctx.Budget) error {
	if m := l.refresh(); m != nil {
		return m.Statistics(b)
	}
	r := l.root()
	if r.statsDone {
		return nil
	}
	if err := r.ensureHintIt(); err != nil {
		return err
	}

	if r.nextMethod == MethodUnspecified {
		if err := r.initSampling(); err != nil {
			return err
		}
	}

	for {
		if r.nextMethod != MethodUnspecified {
			break
		}
		r.callState = csStatisticsSampling
		sfBudget, tcBudget := r.partitionBudget(b)

		sfErr := r.stepSubfanin(sfBudget)
		tcErr := r.stepTypecheck(tcBudget)

		iterctx.Donate(b, sfBudget)
		iterctx.Donate(b, tcBudget)

		sfFilled := r.sfState == sampleDone
		tcFilled := r.tcState == sampleDone

		// Sub/hint exhaustion takes priority over picking a winning
		// strategy: spec §4.2's morph conditions fire whenever sub (or
		// hint_it) ran dry mid-sampling, superseding whatever SUBFANIN/
		// TYPECHECK stats would otherwise have been computed.
		if morphed, err := r.tryMorph(); err != nil {
			return err
		} else if morphed {
			return nil
		}

		if sfFilled || tcFilled {
			method, err := r.chooseWinner(sfFilled, tcFilled)
			if err != nil {
				return err
			}
			if method != MethodUnspecified {
				r.nextMethod = method
				break
			}
		}

		if b.Tripped() {
			r.statBudgetMax *= 10
			return iterctx.ErrMore
		}
		if sfErr == iterctx.ErrMore && tcErr == iterctx.ErrMore && !b.Tripped() {
			// Neither path could make progress even though the caller's
			// budget has room left (both sub-budgets were tiny): grow
			// the per-round cap and keep going within the same call.
			r.statBudgetMax *= 10
		}
	}

	r.callState = csIdle
	r.computeStats()
	return nil
}

// initSampling seeds the SUBFANIN/TYPECHECK scratch clones. Guarded so a
// thaw that restored sampling already in progress (spec §4.4) is not
// clobbered back to INITIAL on the first Statistics call after resume.
func (l *Linksto) initSampling() error {
	if l.sfSub != nil || l.tcSub != nil {
		return nil
	}
	l.sfSub = l.sub.Clone()
	if l.hintIt != nil {
		l.tcHint = l.hintIt.Clone()
	}
	l.tcSub = l.sub.Clone()
	l.sfState = sampleInitial
	l.tcState = sampleInitial
	return nil
}

// partitionBudget splits the caller's budget between SUBFANIN and
// TYPECHECK per spec §4.2 "Budget partition", capped by statBudgetMax
// per micro-round. It reserves roundCap units from b immediately
// (Statistics donates back whatever the round leaves unspent); doing the
// reservation here rather than after the round avoids double-counting
// the same units as both "still in b" and "handed to a sub-budget".
func (l *Linksto) partitionBudget(b *iterctx.Budget) (sf, tc *iterctx.Budget) {
	roundCap := l.statBudgetMax
	if b.Remaining < roundCap {
		roundCap = b.Remaining
	}
	if roundCap < 0 {
		roundCap = 0
	}
	b.Remaining -= roundCap

	var wSF, wTC float64
	switch {
	case l.orderingPref == iterctx.PreferOrdering && l.sub.Stats().Ordered:
		wSF, wTC = 0.9, 0.1
	case l.orderingPref == iterctx.PreferForward || l.orderingPref == iterctx.PreferBackward:
		wSF, wTC = 0.1, 0.9
	default:
		wSF, wTC = 0.5, 0.5
	}
	if l.sfState == sampleDone {
		wSF = 0
	}
	if l.tcState == sampleDone {
		wTC = 0
	}
	total := wSF + wTC
	if total <= 0 {
		return iterctx.NewBudget(0), iterctx.NewBudget(0)
	}
	sfN := int64(float64(roundCap) * wSF / total)
	tcN := roundCap - sfN
	return &iterctx.Budget{Remaining: sfN, Sabotage: b.Sabotage}, &iterctx.Budget{Remaining: tcN, Sabotage: b.Sabotage}
}

// stepSubfanin advances the SUBFANIN sampling state machine by up to
// budget's worth of work (spec §4.2 sampling + §9 resumable functions).
func (l *Linksto) stepSubfanin(b *iterctx.Budget) error {
	if l.sfState == sampleDone || l.sfSubDone {
		l.sfState = sampleDone
		return nil
	}
	for len(l.sfIDs) < NSamples {
		if b.Tripped() {
			return iterctx.ErrMore
		}
		id, err := l.sfSub.Next(b)
		if err == iterctx.ErrMore {
			return iterctx.ErrMore
		}
		if err == iterctx.ErrNo {
			l.sfSubDone = true
			l.sfState = sampleDone
			return nil
		}
		if err != nil {
			return err
		}
		var fanin int64
		if l.hintVIP {
			n, spent, vErr := l.store.VIPIDCount(id, l.linkage, l.hintGUID, l.low, l.high, EmptyMax, b.Remaining)
			l.sfCost += spent
			if vErr == pdb.ErrMore {
				fanin = l.store.LinkageCountEst(l.linkage, id, l.low, l.high, EmptyMax)
			} else {
				fanin = n
			}
		} else {
			fanin = l.store.LinkageCountEst(l.linkage, id, l.low, l.high, EmptyMax)
			l.sfCost += pdb.HMapArrayCost
		}
		spentOK := b.Spend(pdb.HMapArrayCost)
		if fanin != 0 {
			l.sfIDs = append(l.sfIDs, id)
			l.sfFanins = append(l.sfFanins, fanin)
			l.sfSumFan += fanin
		}
		if !spentOK {
			return iterctx.ErrMore
		}
	}
	l.sfState = sampleDone
	return nil
}

// stepTypecheck advances the TYPECHECK sampling state machine (spec
// §4.2).
func (l *Linksto) stepTypecheck(b *iterctx.Budget) error {
	if l.tcState == sampleDone || l.tcHintDone {
		l.tcState = sampleDone
		return nil
	}
	for len(l.tcIDs) < NSamples {
		if b.Tripped() {
			return iterctx.ErrMore
		}
		id, err := l.tcHint.Next(b)
		if err == iterctx.ErrMore {
			return iterctx.ErrMore
		}
		if err == iterctx.ErrNo {
			l.tcHintDone = true
			l.tcState = sampleDone
			return nil
		}
		if err != nil {
			return err
		}
		l.tcTrials++
		prim, rerr := l.store.IDRead(id)
		if rerr != nil {
			return rerr
		}
		if !prim.HasLinkage(l.linkage) {
			l.tcCost += pdb.PrimitiveCost
			continue
		}
		endpointGUID := prim.LinkageGet(l.linkage)
		endpoint, terr := l.store.IDFromGUID(endpointGUID)
		if terr != nil {
			l.tcCost += pdb.PrimitiveCost
			continue
		}
		l.tcEndpoint = endpoint
		ok, cerr := l.tcSub.Check(b, endpoint)
		l.tcCost += pdb.PrimitiveCost
		if cerr == iterctx.ErrMore {
			return iterctx.ErrMore
		}
		if cerr != nil {
			return cerr
		}
		if ok {
			l.tcIDs = append(l.tcIDs, id)
			l.tcAccept++
		}
	}
	l.tcState = sampleDone
	return nil
}

// chooseWinner implements spec §4.2 "Choosing the winner". Returns
// MethodUnspecified if sampling should keep going (loser's budget
// donated to the still-running winner candidate).
func (l *Linksto) chooseWinner(sfFilled, tcFilled bool) (NextMethod, error) {
	if sfFilled && !tcFilled {
		if l.tcCoverageSignal() {
			// Both have a signal; fall through to the area-per-cost
			// comparison below.
		} else {
			return MethodSubfanin, nil
		}
	}
	if tcFilled && !sfFilled {
		if l.sfCoverageSignal() {
		} else {
			return MethodTypecheck, nil
		}
	}
	if l.thawed || l.orderingPref == iterctx.PreferForward || l.orderingPref == iterctx.PreferBackward || l.orderingPref == iterctx.PreferOrdering {
		if sfFilled {
			return MethodSubfanin, nil
		}
		if tcFilled {
			return MethodTypecheck, nil
		}
	}

	sfArea := l.areaPerCost(l.sfCoverage(), l.sfCost)
	tcArea := l.areaPerCost(l.tcCoverage(), l.tcCost)

	byDone := MethodUnspecified
	if sfFilled {
		byDone = MethodSubfanin
	} else if tcFilled {
		byDone = MethodTypecheck
	}
	byArea := MethodSubfanin
	if tcArea > sfArea {
		byArea = MethodTypecheck
	}
	if byDone != MethodUnspecified && byDone == byArea {
		return byDone, nil
	}
	if sfFilled && tcFilled {
		// Both filled and disagree on area: prefer whichever is cheaper.
		if l.sfCost <= l.tcCost {
			return MethodSubfanin, nil
		}
		return MethodTypecheck, nil
	}
	// Disagreement with only one filled: donate loser's remaining
	// budget (handled by the caller's Statistics loop continuing) and
	// keep sampling.
	return MethodUnspecified, nil
}

func (l *Linksto) sfCoverageSignal() bool {
	return !l.thawed && l.sub.Stats().N != iterctx.Unbounded && l.sub.Stats().N > 0
}

func (l *Linksto) tcCoverageSignal() bool {
	return !l.thawed && l.hintIt != nil && l.hintIt.Stats().N != iterctx.Unbounded && l.hintIt.Stats().N > 0
}

func (l *Linksto) sfCoverage() float64 {
	if !l.sfCoverageSignal() {
		return minCoverage
	}
	cov := float64(len(l.sfIDs)) / float64(l.sub.Stats().N)
	if cov < minCoverage {
		return minCoverage
	}
	return cov
}

func (l *Linksto) tcCoverage() float64 {
	if !l.tcCoverageSignal() {
		return minCoverage
	}
	cov := float64(l.tcTrials) / float64(l.hintIt.Stats().N)
	if cov < minCoverage {
		return minCoverage
	}
	return cov
}

func (l *Linksto) areaPerCost(coverage float64, cost int64) float64 {
	if cost <= 0 {
		cost = 1
	}
	return coverage / float64(cost)
}

// computeStats fills in l.stats once nextMethod is committed (spec
// §4.2 "Computing statistics once a method is chosen").
func (l *Linksto) computeStats() {
	var checkCost int64
	if l.sub.Stats().NextCost != 0 || l.sub.Stats().Done {
		checkCost = pdb.PrimitiveCost + l.sub.Stats().CheckCost
	}
	if checkCost == 0 && l.tcTrials > 0 {
		checkCost = l.tcCost/maxI64(l.tcTrials, 1) - l.tcHint.Stats().NextCost
		if checkCost < pdb.PrimitiveCost {
			checkCost = pdb.PrimitiveCost
		}
	}
	if checkCost == 0 {
		checkCost = pdb.PrimitiveCost
	}

	switch l.nextMethod {
	case MethodTypecheck:
		accepted := maxI64(l.tcAccept, 1)
		nextCost := 1 + l.tcCost/accepted
		findCost := pdb.GMapArrayCost + nextCost
		n := iterctx.Unbounded
		if l.hintIt.Stats().N != iterctx.Unbounded && l.tcTrials > 0 {
			n = l.hintIt.Stats().N * l.tcAccept / l.tcTrials
		}
		l.stats = iterctx.Stats{N: n, NextCost: nextCost, CheckCost: checkCost, FindCost: findCost, Sorted: true, Ordered: true, Done: true}
	case MethodSubfanin:
		samplesN := int64(len(l.sfIDs))
		if samplesN == 0 {
			samplesN = 1
		}
		avgFan := l.sfSumFan / samplesN
		if l.sfSumFan == 0 {
			avgFan = 0
		}
		var n int64
		subN := l.sub.Stats().N
		if subN == iterctx.Unbounded {
			n = iterctx.Unbounded
		} else if avgFan == 0 {
			n = subN / samplesN
			if n < 1 {
				n = 1
			}
		} else {
			n = avgFan * subN
		}
		if n != iterctx.Unbounded {
			upper := int64(l.high - l.low)
			if upper <= 0 {
				upper = EmptyMax
			}
			n = clampI64(n, 1, upper)
			if l.hintActive() && n > 10 {
				hintPop := l.store.LinkageCountEst(l.hintLinkage, mustID(l.store.IDFromGUID(l.hintGUID)), l.low, l.high, upper)
				if hintPop > 0 && n > hintPop {
					n = hintPop
				}
			}
		}
		var nextCost int64
		if avgFan == 0 {
			nextCost = (pdb.GMapElementCost + l.sub.Stats().NextCost + pdb.GMapArrayCost) * 2 * NSamples
		} else {
			nextCost = pdb.GMapElementCost + (l.sub.Stats().NextCost+pdb.GMapArrayCost)/avgFan
		}
		l.stats = iterctx.Stats{N: n, NextCost: nextCost, CheckCost: checkCost, FindCost: 0, Sorted: false, Ordered: l.sub.Stats().Ordered, Done: true}
	}
	l.statsDone = true
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func clampI64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if hi >= lo && v > hi {
		return hi
	}
	return v
}

func mustID(id pdb.ID, err error) pdb.ID {
	if err != nil {
		return pdb.NoID
	}
	return id
}

func (l *Linksto) Stats() iterctx.Stats {
	if m := l.refresh(); m != nil {
		return m.Stats()
	}
	return l.root().stats
}
