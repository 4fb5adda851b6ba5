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

package iterctx

// Unlimited is a practically-infinite initial allowance for internal,
// non-suspendable bookkeeping walks (e.g. replaying a clone to a saved
// position after a morph) that must run to completion in one go. It is
// deliberately not iterctx.Unbounded -- that sentinel means "count
// unknown" for Stats.N, not "budget without limit", and a Budget with
// Remaining <= 0 is immediately Tripped.
const Unlimited int64 = 1 << 48

// Budget is the signed cost-unit ledger threaded through every
// cost-consuming operation (spec §4.1, §5). Operations decrement it by the
// work they do; a negative or zero Remaining means the operation must stop
// and return ErrMore, having first saved enough state to resume exactly
// where it left off.
type Budget struct {
	Remaining int64

	// Sabotage is the cooperative interrupt hook (spec §5
	// "Cancellation"). If non-nil, it is consulted before spending any
	// unit of budget or beginning a loop iteration; when it returns
	// true the current operation must yield (ErrMore) as if the budget
	// had already reached zero, even if units remain.
	Sabotage func() bool

	spent int64
}

// NewBudget constructs a Budget with the given initial allowance.
func NewBudget(n int64) *Budget {
	return &Budget{Remaining: n}
}

// Tripped reports whether further work should stop: budget exhausted, or
// the sabotage hook fired.
func (b *Budget) Tripped() bool {
	if b == nil {
		return false
	}
	if b.Remaining <= 0 {
		return true
	}
	return b.Sabotage != nil && b.Sabotage()
}

// Spend charges cost units against the budget and returns whether the
// budget survives (i.e. the caller may continue without yielding). A
// caller that ignores a false return and keeps working anyway violates
// the budget-accounting invariant (spec §8 property 6).
func (b *Budget) Spend(cost int64) bool {
	if b == nil {
		return true
	}
	b.Remaining -= cost
	b.spent += cost
	if b.Sabotage != nil && b.Sabotage() {
		return false
	}
	return b.Remaining > 0
}

// Spent returns the total cost charged against this budget so far,
// independent of how many separate calls performed the charging (spec §8
// property 6: "total work to exhaustion is independent of how the caller
// splits B across calls").
func (b *Budget) Spent() int64 { return b.spent }

// Split partitions the budget's remaining allowance between two
// candidates by weight (spec §4.2 "Budget partition": 90/10 or 50/50
// splits between SUBFANIN and TYPECHECK sampling). Weights need not sum
// to 1; Split normalizes. Returns two independent Budgets that share this
// Budget's Sabotage hook; neither sub-budget's spending is reflected back
// onto the parent -- callers that need the aggregate must add the
// sub-budgets' Spent() back together themselves. The linksto planner
// does not call Split: its partitionBudget builds its own sub-budgets
// and returns their leftovers with Donate.
func (b *Budget) Split(weightA, weightB float64) (a, b2 *Budget) {
	total := weightA + weightB
	if total <= 0 {
		half := b.Remaining / 2
		return &Budget{Remaining: half, Sabotage: b.Sabotage}, &Budget{Remaining: b.Remaining - half, Sabotage: b.Sabotage}
	}
	shareA := int64(float64(b.Remaining) * weightA / total)
	return &Budget{Remaining: shareA, Sabotage: b.Sabotage}, &Budget{Remaining: b.Remaining - shareA, Sabotage: b.Sabotage}
}

// Donate transfers all of src's remaining budget into dst, the way the
// planner's tie-break donates the losing strategy's leftover budget to
// the winner (spec §4.2 "Choosing the winner", step 3).
func Donate(dst, src *Budget) {
	dst.Remaining += src.Remaining
	src.Remaining = 0
}
