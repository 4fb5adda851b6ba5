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

// Package linksto implements the linksto iterator: a self-planning,
// cost-budgeted cursor that enumerates primitives whose chosen linkage
// pointer resolves to one of a child iterator's outputs. It is the most
// elaborate node of the iterator algebra built on internal/iterctx and
// internal/pdb, and the only one that plans, samples, morphs and
// freezes/thaws non-trivial state.
package linksto

// Tunable constants governing sampling, preevaluation and morphing.
// Defaults match the reference implementation this runtime's behavior
// is pinned to. internal/config decodes operator values for the budget
// ones, but this package reads only these compile-time constants.
const (
	// NSamples bounds how many endpoints (SUBFANIN) or candidates
	// (TYPECHECK) the planner draws per sampling path before it judges
	// a path "filled".
	NSamples = 5

	// EmptyMax is the fanin-count ceiling past which a sampled endpoint
	// is no longer worth treating as "effectively empty" shortcuts
	// apply to.
	EmptyMax = 1024

	// PreevaluateN caps how many fanin parts preevaluation will open
	// before giving up and falling back to a plain linksto.
	PreevaluateN = 1024

	// PreevaluateIDN caps the total id count preevaluation will drain
	// into a single Fixed before switching to an Or.
	PreevaluateIDN = 1024

	// PreevaluateBudget is the cost-unit ceiling preevaluation itself
	// may spend before giving up.
	PreevaluateBudget = 102400

	// IntersectEstimateBudget bounds a bounded-intersection cost
	// estimate (pdb.Store.IteratorIntersect callers).
	IntersectEstimateBudget = 10240

	// FaninFixedMax is the fanin-count ceiling under which a SUBFANIN
	// sampling round that exhausted sub mid-sampling morphs into a
	// Fixed rather than an Or.
	FaninFixedMax = 25

	// StatBudgetMaxInitial is the starting cap on how much budget a
	// single sampling micro-round may consume; it grows 10x each round
	// that fails to converge.
	StatBudgetMaxInitial = 50
)
