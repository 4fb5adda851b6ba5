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

// Package metricsx registers the process-wide counters and summaries for
// a driving layer to report against; no package in this module,
// cmd/graphd included, increments them. The iterator core itself never
// touches these directly -- like
// logging, metrics live outside the correctness path (spec §5
// "Concurrency & Resource Model" has no notion of an observability
// side-channel, so it must not be threaded through Budget or the
// Iterator contract).
package metricsx

import "github.com/VictoriaMetrics/metrics"

var (
	// SamplingRounds counts planner micro-rounds run across all
	// linksto statistics calls (spec §4.2).
	SamplingRounds = metrics.NewCounter(`linksto_sampling_rounds_total`)

	// MorphsFixed, MorphsOr and MorphsNull count in-place morphs into
	// FIXED/OR/NULL, one series of linksto_morphs_total per target kind.
	MorphsFixed = metrics.NewCounter(`linksto_morphs_total{target="fixed"}`)
	MorphsOr    = metrics.NewCounter(`linksto_morphs_total{target="or"}`)
	MorphsNull  = metrics.NewCounter(`linksto_morphs_total{target="null"}`)

	// BudgetExhaustions counts operations that returned MORE due to
	// budget exhaustion (as opposed to the sabotage hook).
	BudgetExhaustions = metrics.NewCounter(`linksto_budget_exhaustions_total`)

	// SabotageYields counts operations that yielded because the
	// cooperative sabotage hook tripped (spec §5 "Cancellation").
	SabotageYields = metrics.NewCounter(`linksto_sabotage_yields_total`)

	// PreevaluationNull/Fixed/Or/Declined count preevaluation outcomes,
	// one series per spec §4.5 result.
	PreevaluationNull    = metrics.NewCounter(`linksto_preevaluation_total{outcome="null"}`)
	PreevaluationFixed   = metrics.NewCounter(`linksto_preevaluation_total{outcome="fixed"}`)
	PreevaluationOr      = metrics.NewCounter(`linksto_preevaluation_total{outcome="or"}`)
	PreevaluationDeclined = metrics.NewCounter(`linksto_preevaluation_total{outcome="declined"}`)

	// StatisticsLatency times a full Statistics() call to convergence,
	// from the first invocation on a given linksto to the call that
	// returns nil.
	StatisticsLatency = metrics.GetOrCreateSummary(`linksto_statistics_seconds`)

	// FreezeLength tracks the byte length of rendered freeze strings, a
	// cheap signal for wire-format bloat in deeply nested trees.
	FreezeLength = metrics.GetOrCreateSummary(`linksto_freeze_bytes`)
)
