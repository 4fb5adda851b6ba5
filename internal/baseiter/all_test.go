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

package baseiter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/graphd/internal/baseiter"
	"github.com/erigontech/graphd/internal/iterctx"
	"github.com/erigontech/graphd/internal/pdb"
)

func TestAllEnumeratesBoundedRangeAscending(t *testing.T) {
	a := baseiter.NewAll(10, 13, 0, iterctx.Forward)
	b := iterctx.NewBudget(iterctx.Unlimited)

	var got []pdb.ID
	for {
		id, err := a.Next(b)
		if err == iterctx.ErrNo {
			break
		}
		require.NoError(t, err)
		got = append(got, id)
	}
	require.Equal(t, []pdb.ID{10, 11, 12}, got)
}

func TestAllEnumeratesDescending(t *testing.T) {
	a := baseiter.NewAll(10, 13, 0, iterctx.Backward)
	b := iterctx.NewBudget(iterctx.Unlimited)

	var got []pdb.ID
	for {
		id, err := a.Next(b)
		if err == iterctx.ErrNo {
			break
		}
		require.NoError(t, err)
		got = append(got, id)
	}
	require.Equal(t, []pdb.ID{12, 11, 10}, got)
}

func TestAllUnboundedHighFallsBackToStoreN(t *testing.T) {
	a := baseiter.NewAll(1, pdb.NoID, 3, iterctx.Forward)
	b := iterctx.NewBudget(iterctx.Unlimited)

	var got []pdb.ID
	for {
		id, err := a.Next(b)
		if err == iterctx.ErrNo {
			break
		}
		require.NoError(t, err)
		got = append(got, id)
	}
	require.Equal(t, []pdb.ID{1, 2, 3}, got)
}

func TestAllFindClampsIntoRange(t *testing.T) {
	a := baseiter.NewAll(10, 20, 0, iterctx.Forward)
	b := iterctx.NewBudget(iterctx.Unlimited)

	id, err := a.Find(b, 5)
	require.NoError(t, err)
	require.Equal(t, pdb.ID(10), id)

	_, err = a.Find(b, 20)
	require.ErrorIs(t, err, iterctx.ErrNo)
}

func TestAllBeyondTracksLastPosition(t *testing.T) {
	a := baseiter.NewAll(0, 10, 0, iterctx.Forward)
	require.False(t, a.Beyond(3), "no position visited yet")

	b := iterctx.NewBudget(iterctx.Unlimited)
	_, err := a.Find(b, 5)
	require.NoError(t, err)

	require.True(t, a.Beyond(3))
	require.False(t, a.Beyond(7))
}

func TestAllResetClearsPosition(t *testing.T) {
	a := baseiter.NewAll(0, 10, 0, iterctx.Forward)
	b := iterctx.NewBudget(iterctx.Unlimited)

	_, err := a.Next(b)
	require.NoError(t, err)
	a.Reset()
	require.False(t, a.Beyond(0))

	id, err := a.Next(b)
	require.NoError(t, err)
	require.Equal(t, pdb.ID(0), id, "reset rewinds to the start")
}
