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

func TestFixedEnumeratesAscending(t *testing.T) {
	f := baseiter.NewFixed([]pdb.ID{30, 10, 20}, pdb.NoID, pdb.NoID, iterctx.Forward)
	b := iterctx.NewBudget(iterctx.Unlimited)

	var got []pdb.ID
	for {
		id, err := f.Next(b)
		if err == iterctx.ErrNo {
			break
		}
		require.NoError(t, err)
		got = append(got, id)
	}
	require.Equal(t, []pdb.ID{10, 20, 30}, got)
}

func TestFixedEnumeratesDescending(t *testing.T) {
	f := baseiter.NewFixed([]pdb.ID{30, 10, 20}, pdb.NoID, pdb.NoID, iterctx.Backward)
	b := iterctx.NewBudget(iterctx.Unlimited)

	var got []pdb.ID
	for {
		id, err := f.Next(b)
		if err == iterctx.ErrNo {
			break
		}
		require.NoError(t, err)
		got = append(got, id)
	}
	require.Equal(t, []pdb.ID{30, 20, 10}, got)
}

func TestFixedCheck(t *testing.T) {
	f := baseiter.NewFixed([]pdb.ID{10, 20, 30}, pdb.NoID, pdb.NoID, iterctx.Forward)
	b := iterctx.NewBudget(iterctx.Unlimited)

	ok, err := f.Check(b, 20)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = f.Check(b, 25)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFixedFindSeeksToLeastGreaterOrEqual(t *testing.T) {
	f := baseiter.NewFixed([]pdb.ID{10, 20, 30}, pdb.NoID, pdb.NoID, iterctx.Forward)
	b := iterctx.NewBudget(iterctx.Unlimited)

	id, err := f.Find(b, 15)
	require.NoError(t, err)
	require.Equal(t, pdb.ID(20), id)

	id, err = f.Find(b, 31)
	require.ErrorIs(t, err, iterctx.ErrNo)
	require.Equal(t, pdb.NoID, id)
}

func TestFixedClipsToRange(t *testing.T) {
	f := baseiter.NewFixed([]pdb.ID{5, 10, 15, 20}, 10, 20, iterctx.Forward)
	require.Equal(t, []pdb.ID{10, 15}, f.Ids())
}

func TestFixedMasqueradeOverridesSetFreeze(t *testing.T) {
	f := baseiter.NewFixed([]pdb.ID{1, 2, 3}, pdb.NoID, pdb.NoID, iterctx.Forward)
	f.SetMasquerade("fixed-linksto:+0:left->(fixed:+1,2,3)")

	s, err := f.Freeze(iterctx.FreezeSet)
	require.NoError(t, err)
	require.Equal(t, "fixed-linksto:+0:left->(fixed:+1,2,3)", s)
}

func TestFixedCloneIsIndependent(t *testing.T) {
	f := baseiter.NewFixed([]pdb.ID{1, 2, 3}, pdb.NoID, pdb.NoID, iterctx.Forward)
	b := iterctx.NewBudget(iterctx.Unlimited)

	_, err := f.Next(b)
	require.NoError(t, err)

	clone := f.Clone()
	id, err := clone.Next(b)
	require.NoError(t, err)
	require.Equal(t, pdb.ID(1), id, "clone's position starts fresh, independent of the original's")
}
