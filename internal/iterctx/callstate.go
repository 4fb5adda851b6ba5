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

// CallState is a resume label for a suspendable operation (spec §9,
// "Resumable functions"). The source this was distilled from expresses
// suspension with a switch over an integer state variable and labels
// interleaved inside loops; Go has no goto-into-loop equivalent worth
// using, so every suspendable method here is written as an explicit state
// machine: a CallState field selects which case to resume in, and every
// local value that must outlive a suspension point is a field on the
// iterator's state struct rather than a stack local.
//
// Each package defining a suspendable operation declares its own named
// CallState constants (see internal/linksto/state.go for the linksto
// planner and producer's state sets); CallState itself is just the
// shared underlying type so state fields have a consistent size and zero
// value (CallStateInitial) across packages.
type CallState int32

// CallStateInitial is the zero value: no operation in progress, start
// from the top.
const CallStateInitial CallState = 0
