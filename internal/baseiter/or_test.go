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

func branches(dir iterctx.Dir, sets ...[]pdb.ID) []iterctx.Iterator {
	out := make([]iterctx.Iterator, len(sets))
	for i, s := range sets {
		out[i] = baseiter.NewFixed(s, pdb.NoID, pdb.NoID, dir)
	}
	return out
}

func TestOrMergesAndDedupesBranches(t *testing.T) {
	o := baseiter.NewOr(branches(iterctx.Forward, []pdb.ID{10, 30}, []pdb.ID{20, 30}, []pdb.ID{}), pdb.NoID, pdb.NoID, iterctx.Forward)
	b := iterctx.NewBudget(iterctx.Unlimited)

	var got []pdb.ID
	for {
		id, err := o.Next(b)
		if err == iterctx.ErrNo {
			break
		}
		require.NoError(t, err)
		got = append(got, id)
	}
	require.Equal(t, []pdb.ID{10, 20, 30}, got, "30 appears in two branches but must surface once")
}

func TestOrMergesDescending(t *testing.T) {
	o := baseiter.NewOr(branches(iterctx.Backward, []pdb.ID{10, 30}, []pdb.ID{20}), pdb.NoID, pdb.NoID, iterctx.Backward)
	b := iterctx.NewBudget(iterctx.Unlimited)

	var got []pdb.ID
	for {
		id, err := o.Next(b)
		if err == iterctx.ErrNo {
			break
		}
		require.NoError(t, err)
		got = append(got, id)
	}
	require.Equal(t, []pdb.ID{30, 20, 10}, got)
}

func TestOrCheckWithoutHintScansBranches(t *testing.T) {
	o := baseiter.NewOr(branches(iterctx.Forward, []pdb.ID{10, 30}, []pdb.ID{20}), pdb.NoID, pdb.NoID, iterctx.Forward)
	b := iterctx.NewBudget(iterctx.Unlimited)

	ok, err := o.Check(b, 20)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = o.Check(b, 99)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOrCheckPrefersHintWhenSet(t *testing.T) {
	o := baseiter.NewOr(branches(iterctx.Forward, []pdb.ID{10}), pdb.NoID, pdb.NoID, iterctx.Forward)
	hint := baseiter.NewFixed([]pdb.ID{10, 20}, pdb.NoID, pdb.NoID, iterctx.Forward)
	o.SetCheckHint(hint)
	b := iterctx.NewBudget(iterctx.Unlimited)

	ok, err := o.Check(b, 20)
	require.NoError(t, err)
	require.True(t, ok, "20 isn't in any branch but is in the check hint")
}

func TestOrFindReseeksAllBranches(t *testing.T) {
	o := baseiter.NewOr(branches(iterctx.Forward, []pdb.ID{10, 40}, []pdb.ID{20, 30}), pdb.NoID, pdb.NoID, iterctx.Forward)
	b := iterctx.NewBudget(iterctx.Unlimited)

	id, err := o.Find(b, 25)
	require.NoError(t, err)
	require.Equal(t, pdb.ID(30), id)

	id, err = o.Next(b)
	require.NoError(t, err)
	require.Equal(t, pdb.ID(40), id)
}

func TestOrFreezeUsesMasqueradeWhenSet(t *testing.T) {
	o := baseiter.NewOr(branches(iterctx.Forward, []pdb.ID{1, 2}), pdb.NoID, pdb.NoID, iterctx.Forward)
	o.SetMasquerade("or-linksto:+0:left->(fixed:+1,2)")

	s, err := o.Freeze(iterctx.FreezeSet)
	require.NoError(t, err)
	require.Equal(t, "or-linksto:+0:left->(fixed:+1,2)", s)
}

func TestOrBeyondRequiresAllBranchesBeyond(t *testing.T) {
	o := baseiter.NewOr(branches(iterctx.Forward, []pdb.ID{10}, []pdb.ID{50}), pdb.NoID, pdb.NoID, iterctx.Forward)
	b := iterctx.NewBudget(iterctx.Unlimited)

	_, err := o.Next(b)
	require.NoError(t, err)

	require.False(t, o.Beyond(40), "only one branch has advanced past 40")
}
