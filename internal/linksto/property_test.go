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
	"testing"

	"pgregory.net/rapid"

	"github.com/erigontech/graphd/internal/baseiter"
	"github.com/erigontech/graphd/internal/iterctx"
	"github.com/erigontech/graphd/internal/linksto"
	"github.com/erigontech/graphd/internal/pdb"
)

// faninScenario is a generated tree: a handful of sub endpoints, each
// with its own (possibly empty) fanin, laid out so ids grow strictly
// with enumeration order -- the same shape seedS1 in linksto_test.go
// uses by hand, but drawn at random by rapid.
type faninScenario struct {
	store     pdb.Store
	endpoints []pdb.ID
	expected  []pdb.ID // union of every endpoint's fanin, in id order
}

func genFaninScenario(t *rapid.T) faninScenario {
	nEndpoints := rapid.IntRange(0, 6).Draw(t, "nEndpoints")
	store := pdb.NewMemStore(16)
	ms := store.(interface{ Put(pdb.Primitive) })

	endpoints := make([]pdb.ID, 0, nEndpoints)
	guidOf := map[pdb.ID]pdb.GUID{}
	for i := 0; i < nEndpoints; i++ {
		id := pdb.ID(10 + i*10)
		g := pdb.NewGUID()
		guidOf[id] = g
		ms.Put(pdb.NewPrimitive(id, g))
		endpoints = append(endpoints, id)
	}

	var expected []pdb.ID
	next := pdb.ID(1000)
	for _, target := range endpoints {
		n := rapid.IntRange(0, 4).Draw(t, "fanin")
		for i := 0; i < n; i++ {
			p := pdb.NewPrimitive(next, pdb.NewGUID())
			p.SetLinkage(pdb.Left, guidOf[target])
			ms.Put(p)
			expected = append(expected, next)
			next++
		}
	}
	return faninScenario{store: store, endpoints: endpoints, expected: expected}
}

func (s faninScenario) newLinksto() *linksto.Linksto {
	sub := baseiter.NewFixed(append([]pdb.ID(nil), s.endpoints...), pdb.NoID, pdb.NoID, iterctx.Forward)
	return linksto.New(linksto.Params{
		Store:   s.store,
		Linkage: pdb.Left,
		Low:     pdb.NoID,
		High:    pdb.NoID,
		Dir:     iterctx.Forward,
		Sub:     sub,
	})
}

func drainAll(l *linksto.Linksto) ([]pdb.ID, error) {
	b := iterctx.NewBudget(iterctx.Unlimited)
	var got []pdb.ID
	for {
		id, err := l.Next(b)
		if err == iterctx.ErrNo {
			return got, nil
		}
		if err != nil {
			return got, err
		}
		got = append(got, id)
	}
}

// TestLinkstoMembershipAgreesWithBruteForceUnion exercises spec §4.3's
// producer/check contract over randomly generated sub/fanin trees: the
// enumerated output must be exactly (and, since every fanin id is
// allocated in increasing enumeration order, monotonically) the union
// of every endpoint's fanin, and Check must agree on both members and
// non-members.
func TestLinkstoMembershipAgreesWithBruteForceUnion(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		scn := genFaninScenario(t)
		l := scn.newLinksto()
		defer l.Finish()

		got, err := drainAll(l)
		if err != nil {
			t.Fatalf("drain: %v", err)
		}
		if len(got) != len(scn.expected) {
			t.Fatalf("got %v, want %v", got, scn.expected)
		}
		for i := range got {
			if got[i] != scn.expected[i] {
				t.Fatalf("got %v, want %v", got, scn.expected)
			}
			if i > 0 && got[i] <= got[i-1] {
				t.Fatalf("output not monotone: %v", got)
			}
		}

		b := iterctx.NewBudget(iterctx.Unlimited)
		for _, id := range scn.expected {
			ok, cerr := l.Check(b, id)
			if cerr != nil {
				t.Fatalf("check %d: %v", id, cerr)
			}
			if !ok {
				t.Fatalf("check(%d) = false, want true", id)
			}
		}
		for _, id := range scn.endpoints {
			ok, cerr := l.Check(b, id)
			if cerr != nil {
				t.Fatalf("check %d: %v", id, cerr)
			}
			if ok {
				t.Fatalf("check(%d) = true, want false (it's an endpoint, not a fanin member)", id)
			}
		}
	})
}

// TestLinkstoFreezeThawRoundTrips covers spec §4.4's universal property:
// a Linksto frozen (Set|Position|State) at an arbitrary suspension
// point -- including mid-statistics-sampling and post-morph -- thaws
// back to a cursor that completes to the same membership, whether or
// not the planner had already converged, chosen SUBFANIN/TYPECHECK, or
// morphed into a FIXED/OR/NULL replacement (spec §4.5).
func TestLinkstoFreezeThawRoundTrips(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		scn := genFaninScenario(t)
		statBudget := rapid.Int64Range(1, 64).Draw(t, "statBudget")

		l := scn.newLinksto()
		defer l.Finish()

		// Drive Statistics with a tight budget so the first call often
		// suspends mid-sampling (spec scenario S6); a scenario small
		// enough to converge in one round is still a valid (if trivial)
		// instance of the same property.
		firstErr := l.Statistics(iterctx.NewBudget(statBudget))
		if firstErr != nil && firstErr != iterctx.ErrMore {
			t.Fatalf("Statistics: %v", firstErr)
		}

		frozen, ferr := l.Freeze(iterctx.FreezeSet | iterctx.FreezePosition | iterctx.FreezeState)
		if ferr != nil {
			t.Fatalf("Freeze: %v", ferr)
		}

		thawed, terr := linksto.Thaw(frozen, scn.store)
		if terr != nil {
			t.Fatalf("Thaw(%q): %v", frozen, terr)
		}
		defer thawed.Finish()

		for {
			err := thawed.Statistics(iterctx.NewBudget(iterctx.Unlimited))
			if err == nil {
				break
			}
			if err != iterctx.ErrMore {
				t.Fatalf("Statistics after thaw: %v", err)
			}
		}

		got, derr := drainAll(thawed)
		if derr != nil {
			t.Fatalf("drain after thaw: %v", derr)
		}
		if len(got) != len(scn.expected) {
			t.Fatalf("thawed drain = %v, want %v (frozen=%q)", got, scn.expected, frozen)
		}
		for i := range got {
			if got[i] != scn.expected[i] {
				t.Fatalf("thawed drain = %v, want %v (frozen=%q)", got, scn.expected, frozen)
			}
		}
	})
}

// TestLinkstoMorphEquivalence checks spec §4.2/§4.5's promise that
// morphing never changes observable behavior: a node run to
// completion without interruption (converging and, where the totals
// are small, morphing into FIXED/OR/NULL along the way) must enumerate
// exactly what a fresh node over the same data enumerates via plain
// SUBFANIN production.
func TestLinkstoMorphEquivalence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		scn := genFaninScenario(t)

		morphed := scn.newLinksto()
		defer morphed.Finish()
		gotMorphed, err := drainAll(morphed)
		if err != nil {
			t.Fatalf("drain morphed: %v", err)
		}

		// The reference node is thawed with SUBFANIN already chosen, so
		// its Statistics returns at once and it never samples or morphs.
		spec := scn.newLinksto()
		setForm, err := spec.Freeze(iterctx.FreezeSet)
		spec.Finish()
		if err != nil {
			t.Fatalf("freeze set form: %v", err)
		}
		fresh, err := linksto.Thaw(setForm+":subfanin:-:-", scn.store)
		if err != nil {
			t.Fatalf("thaw fresh: %v", err)
		}
		defer fresh.Finish()
		gotFresh, err := drainAll(fresh)
		if err != nil {
			t.Fatalf("drain fresh: %v", err)
		}

		if len(gotMorphed) != len(gotFresh) {
			t.Fatalf("morphed=%v fresh=%v", gotMorphed, gotFresh)
		}
		for i := range gotMorphed {
			if gotMorphed[i] != gotFresh[i] {
				t.Fatalf("morphed=%v fresh=%v", gotMorphed, gotFresh)
			}
		}
	})
}
