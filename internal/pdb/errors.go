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

import "errors"

var (
	// ErrNotFound is returned by IDRead/IDFromGUID when the id or guid
	// is unknown to the store.
	ErrNotFound = errors.New("pdb: not found")

	// ErrMalformed is returned by the Parse* helpers on bad input.
	ErrMalformed = errors.New("pdb: malformed input")

	// ErrMore signals the store-level operation (VIPIDCount or
	// IteratorIntersect) exhausted its budget before finishing; it is the
	// pdb-level analogue of iterctx.ErrMore, kept distinct so this
	// package has no dependency on the iterator contract package.
	ErrMore = errors.New("pdb: budget exhausted, retry")
)
