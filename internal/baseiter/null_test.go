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
)

func TestNullNeverProducesOrMatches(t *testing.T) {
	n := baseiter.NewNull(iterctx.Forward)
	b := iterctx.NewBudget(iterctx.Unlimited)

	_, err := n.Next(b)
	require.ErrorIs(t, err, iterctx.ErrNo)

	ok, err := n.Check(b, 42)
	require.NoError(t, err)
	require.False(t, ok)

	require.True(t, n.Beyond(0))
	require.Equal(t, int64(0), n.Stats().N)
	require.True(t, n.Stats().Done)
}

func TestNullFreezeUsesMasqueradeWhenSet(t *testing.T) {
	n := baseiter.NewNull(iterctx.Forward)
	s, err := n.Freeze(iterctx.FreezeSet)
	require.NoError(t, err)
	require.Equal(t, "null:", s)

	n.SetMasquerade("fixed-linksto:+0:left->(fixed:+)")
	s, err = n.Freeze(iterctx.FreezeSet)
	require.NoError(t, err)
	require.Equal(t, "fixed-linksto:+0:left->(fixed:+)", s)
}

func TestNullCloneHasDistinctUID(t *testing.T) {
	n := baseiter.NewNull(iterctx.Forward)
	clone := n.Clone().(*baseiter.Null)
	require.NotEqual(t, n.UID(), clone.UID())
}
