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

package pdb

// Cost constants charged by store operations (spec §6.1). These are cost
// units, not wall-clock time; they are what a Budget is denominated in.
const (
	PrimitiveCost   int64 = 1  // reading one primitive record
	GMapArrayCost   int64 = 4  // opening/advancing a hash-map-backed array cursor (e.g. a fanin iterator)
	GMapElementCost int64 = 1  // touching one element of such an array
	HMapArrayCost   int64 = 6  // opening/advancing a heavier hashed-array structure (the VIP index)
	FunctionCallCost int64 = 1 // a bare function call, used as a floor for derived per-item costs
)
