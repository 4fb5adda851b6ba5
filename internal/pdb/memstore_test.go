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

package pdb_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/graphd/internal/pdb"
)

func buildStore(t *testing.T) (pdb.Store, map[pdb.ID]pdb.GUID) {
	t.Helper()
	store := pdb.NewMemStore(16)
	ms := store.(interface{ Put(pdb.Primitive) })

	guids := map[pdb.ID]pdb.GUID{}
	for _, id := range []pdb.ID{10, 20, 30} {
		g := pdb.NewGUID()
		guids[id] = g
		ms.Put(pdb.NewPrimitive(id, g))
	}

	fanin := map[pdb.ID][]pdb.ID{10: {100, 101}, 30: {102}}
	next := pdb.ID(100)
	for target, ids := range fanin {
		for range ids {
			p := pdb.NewPrimitive(next, pdb.NewGUID())
			p.SetLinkage(pdb.Left, guids[target])
			ms.Put(p)
			next++
		}
	}
	return store, guids
}

func TestMemStoreIDRoundTrip(t *testing.T) {
	store, guids := buildStore(t)

	got, err := store.IDFromGUID(guids[10])
	require.NoError(t, err)
	require.Equal(t, pdb.ID(10), got)

	g, err := store.IDToGUID(10)
	require.NoError(t, err)
	require.Equal(t, guids[10], g)

	_, err = store.IDRead(999)
	require.ErrorIs(t, err, pdb.ErrNotFound)
}

func TestMemStoreFaninIteration(t *testing.T) {
	store, _ := buildStore(t)

	cur, err := store.LinkageIDIterator(pdb.Left, 10, pdb.NoID, pdb.NoID, true)
	require.NoError(t, err)
	defer cur.Close()

	var got []pdb.ID
	for {
		id, ok, err := cur.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, id)
	}
	require.ElementsMatch(t, []pdb.ID{100, 101}, got)
}

func TestMemStoreLinkageCountEstEmptyTarget(t *testing.T) {
	store, _ := buildStore(t)
	n := store.LinkageCountEst(pdb.Left, 20, pdb.NoID, pdb.NoID, 1024)
	require.Zero(t, n)
}

func TestPrimitiveLinkageAccessors(t *testing.T) {
	g := pdb.NewGUID()
	p := pdb.NewPrimitive(1, pdb.NewGUID())
	require.False(t, p.HasLinkage(pdb.Left))

	p.SetLinkage(pdb.Left, g)
	require.True(t, p.HasLinkage(pdb.Left))
	require.Equal(t, g, p.LinkageGet(pdb.Left))
	require.False(t, p.HasLinkage(pdb.Right))
}

func TestParseLinkageRoundTrip(t *testing.T) {
	for _, l := range []pdb.Linkage{pdb.Left, pdb.Right, pdb.TypeGuid, pdb.Scope} {
		parsed, err := pdb.ParseLinkage(l.String())
		require.NoError(t, err)
		require.Equal(t, l, parsed)
	}
	_, err := pdb.ParseLinkage("bogus")
	require.ErrorIs(t, err, pdb.ErrMalformed)
}
