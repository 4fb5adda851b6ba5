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

package linksto_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/graphd/internal/baseiter"
	"github.com/erigontech/graphd/internal/iterctx"
	"github.com/erigontech/graphd/internal/linksto"
	"github.com/erigontech/graphd/internal/pdb"
)

// seedS1 builds the catalogue's scenario S1: sub = {10, 20, 30};
// fanin(10) = {100, 101}; fanin(20) = {}; fanin(30) = {102}.
func seedS1(t *testing.T) (pdb.Store, []pdb.ID) {
	t.Helper()
	store := pdb.NewMemStore(16)
	ms := store.(interface{ Put(pdb.Primitive) })

	endpoints := []pdb.ID{10, 20, 30}
	fanins := map[pdb.ID][]pdb.ID{10: {100, 101}, 20: {}, 30: {102}}

	guidOf := map[pdb.ID]pdb.GUID{}
	for _, id := range endpoints {
		g := pdb.NewGUID()
		guidOf[id] = g
		ms.Put(pdb.NewPrimitive(id, g))
	}
	next := pdb.ID(100)
	for _, target := range endpoints {
		for range fanins[target] {
			p := pdb.NewPrimitive(next, pdb.NewGUID())
			p.SetLinkage(pdb.Left, guidOf[target])
			ms.Put(p)
			next++
		}
	}
	return store, endpoints
}

func newS1Linksto(store pdb.Store, endpoints []pdb.ID) *linksto.Linksto {
	sub := baseiter.NewFixed(endpoints, pdb.NoID, pdb.NoID, iterctx.Forward)
	return linksto.New(linksto.Params{
		Store:   store,
		Linkage: pdb.Left,
		Low:     pdb.NoID,
		High:    pdb.NoID,
		Dir:     iterctx.Forward,
		Sub:     sub,
	})
}

func drain(t *testing.T, l *linksto.Linksto) []pdb.ID {
	t.Helper()
	b := iterctx.NewBudget(iterctx.Unlimited)
	var got []pdb.ID
	for {
		id, err := l.Next(b)
		if err == iterctx.ErrNo {
			break
		}
		require.NoError(t, err)
		got = append(got, id)
	}
	return got
}

func TestLinkstoEnumeratesUnionOfFanins(t *testing.T) {
	store, endpoints := seedS1(t)
	l := newS1Linksto(store, endpoints)
	defer l.Finish()

	got := drain(t, l)
	require.Equal(t, []pdb.ID{100, 101, 102}, got)
}

func TestLinkstoCheckAgreesWithEnumeration(t *testing.T) {
	store, endpoints := seedS1(t)
	l := newS1Linksto(store, endpoints)
	defer l.Finish()

	b := iterctx.NewBudget(iterctx.Unlimited)
	for _, id := range []pdb.ID{100, 101, 102} {
		ok, err := l.Check(b, id)
		require.NoError(t, err)
		require.True(t, ok, "id %d should be a member", id)
	}
	for _, id := range []pdb.ID{10, 20, 30, 999} {
		ok, err := l.Check(b, id)
		require.NoError(t, err)
		require.False(t, ok, "id %d should not be a member", id)
	}
}

func TestLinkstoCheckIsIdempotent(t *testing.T) {
	store, endpoints := seedS1(t)
	l := newS1Linksto(store, endpoints)
	defer l.Finish()

	b := iterctx.NewBudget(iterctx.Unlimited)
	first, err := l.Check(b, 101)
	require.NoError(t, err)
	second, err := l.Check(b, 101)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestLinkstoFindSeeksForward(t *testing.T) {
	store, endpoints := seedS1(t)
	l := newS1Linksto(store, endpoints)
	defer l.Finish()

	b := iterctx.NewBudget(iterctx.Unlimited)
	id, err := l.Find(b, 101)
	require.NoError(t, err)
	require.Equal(t, pdb.ID(101), id)
}

func TestLinkstoFreezeSetFormRoundTripsThroughParseSetForm(t *testing.T) {
	store, endpoints := seedS1(t)
	l := newS1Linksto(store, endpoints)
	defer l.Finish()

	// Force the planner to converge (and, for this scenario, morph) before
	// freezing, the way Next would have.
	b := iterctx.NewBudget(iterctx.Unlimited)
	_, err := l.Next(b)
	require.NoError(t, err)

	frozen, err := l.Freeze(iterctx.FreezeSet)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(frozen, "or-linksto:") || strings.HasPrefix(frozen, "linksto:"),
		"unexpected freeze prefix: %s", frozen)

	setForm := frozen
	if strings.HasPrefix(setForm, "or-") {
		setForm = strings.TrimPrefix(setForm, "or-")
	}
	dir, low, high, linkage, rest, err := linksto.ParseSetForm(setForm)
	require.NoError(t, err)
	require.Equal(t, iterctx.Forward, dir)
	require.Equal(t, pdb.NoID, low)
	require.Equal(t, pdb.NoID, high)
	require.Equal(t, pdb.Left, linkage)
	require.NotEmpty(t, rest)
}

func TestLinkstoMorphsToNullWhenSubHasNoEndpoints(t *testing.T) {
	store := pdb.NewMemStore(4)
	sub := baseiter.NewFixed(nil, pdb.NoID, pdb.NoID, iterctx.Forward)
	l := linksto.New(linksto.Params{
		Store:   store,
		Linkage: pdb.Left,
		Dir:     iterctx.Forward,
		Sub:     sub,
	})
	defer l.Finish()

	got := drain(t, l)
	require.Empty(t, got)

	// A morphed-to-null linksto still freezes to its original linksto
	// set form (not the bare "null:" a freestanding Null would use), so
	// thaw can reconstruct the original specification.
	frozen, err := l.Freeze(iterctx.FreezeSet)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(frozen, "linksto:"))
	_, _, _, linkage, _, err := linksto.ParseSetForm(frozen)
	require.NoError(t, err)
	require.Equal(t, pdb.Left, linkage)
}

func TestLinkstoResetAllowsReenumeration(t *testing.T) {
	store, endpoints := seedS1(t)
	l := newS1Linksto(store, endpoints)
	defer l.Finish()

	first := drain(t, l)
	l.Reset()
	second := drain(t, l)
	require.Equal(t, first, second)
}
