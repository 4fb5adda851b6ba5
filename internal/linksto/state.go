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

package linksto

import (
	"sync/atomic"

	"github.com/erigontech/graphd/internal/iterctx"
	"github.com/erigontech/graphd/internal/pdb"
)

var uidCounter int64

func nextUID() int64 { return atomic.AddInt64(&uidCounter, 1) }

// NextMethod is the producer strategy the planner commits to (spec §3,
// §4.2).
type NextMethod int

const (
	MethodUnspecified NextMethod = iota
	MethodSubfanin
	MethodTypecheck
)

func (m NextMethod) String() string {
	switch m {
	case MethodSubfanin:
		return "subfanin"
	case MethodTypecheck:
		return "typecheck"
	default:
		return "unspecified"
	}
}

// sampleState is the small resumable state machine each sampling path
// runs (spec §4.2: "INITIAL, USE_ID, CHECK_MORE, FIND_MORE, NEXT_MORE").
type sampleState iterctx.CallState

const (
	sampleInitial sampleState = iota
	sampleUseID
	sampleCheckMore
	sampleFindMore
	sampleNextMore
	sampleDone
)

// linksto's own top-level call-state labels for Next/Find/Check/
// Statistics, layered on iterctx.CallState so every suspendable method
// here restarts from a struct field rather than a stack local (spec §9).
const (
	csIdle iterctx.CallState = iota
	csStatisticsSampling
	csNextSubfaninPullFanin
	csNextSubfaninPullSub
	csNextTypecheckLoop
	csFindTypecheckSeek
)

// Linksto is the iterator described by spec §3-§4. A constructed value
// is always "the original": Clone returns a lightweight view pointing
// back at it. Morphing replaces self.morphed with a different concrete
// iterator and bumps uid; both the original and every clone detect the
// mismatch on next use and refresh.
type Linksto struct {
	uid int64

	// original is nil on the prototype itself; clones set it to the
	// prototype they were cloned from, and read all sampling/statistics
	// state through it (spec §3, "Ownership rules").
	original *Linksto

	store pdb.Store

	linkage pdb.Linkage
	low, high pdb.ID
	dir     iterctx.Dir // caller preference: Forward/Backward; orderingPref below carries PreferOrdering/PreferAny too

	orderingPref iterctx.Preference

	hintLinkage pdb.Linkage
	hintGUID    pdb.GUID
	hintVIP     bool

	sub    iterctx.Iterator
	hintIt iterctx.Iterator

	// fanin is the active per-endpoint fanin cursor while producing in
	// SUBFANIN mode; transient, not carried across Clone.
	fanin         pdb.FaninCursor
	faninEndpoint pdb.ID

	// morphed, once set, means this node has become a simpler iterator;
	// every operation delegates to it. On the original it is the
	// replacement itself; on a clone it is the clone's own copy of the
	// replacement, made by refresh on first use after the morph.
	morphed iterctx.Iterator

	// Position marks (spec §3).
	lastID    pdb.ID
	lastIDSet bool
	subID     pdb.ID
	resumeID  pdb.ID

	checkCachedID     pdb.ID
	checkCachedSet    bool
	checkCachedResult bool

	thawed bool

	// --- statistics / planner scratch (authoritative only on original) ---
	nextMethod NextMethod
	stats      iterctx.Stats
	statsDone  bool

	statBudgetMax int64

	// SUBFANIN sampling scratch.
	sfSub     iterctx.Iterator // clone of sub
	sfState   sampleState
	sfIDs     []pdb.ID
	sfFanins  []int64
	sfSumFan  int64
	sfSubDone bool
	sfCost    int64

	// TYPECHECK sampling scratch.
	tcHint   iterctx.Iterator // clone of hint_it
	tcSub    iterctx.Iterator // clone of sub
	tcState  sampleState
	tcIDs    []pdb.ID // accepted candidate ids
	tcTrials int64
	tcAccept int64
	tcCost   int64
	tcHintDone bool
	// tcEndpoint is the endpoint of the trial currently (or most
	// recently) in flight -- the argument to the pending tcSub.Check
	// call, so a freeze taken mid-trial can resume it (spec §4.4).
	tcEndpoint pdb.ID

	callState iterctx.CallState
}

// Params collects a linksto's construction arguments (spec §3 "Linksto
// state").
type Params struct {
	Store       pdb.Store
	Linkage     pdb.Linkage
	Low, High   pdb.ID
	Dir         iterctx.Dir
	Ordering    iterctx.Preference
	Sub         iterctx.Iterator // ownership transferred
	HintLinkage pdb.Linkage      // pdb.LinkageNone to disable
	HintGUID    pdb.GUID
}

// New constructs a plain (unpreevaluated) linksto over p. Callers that
// want preevaluation's at-construction materialization should call
// Preevaluate instead, which falls back to New on MORE/cancellation.
func New(p Params) *Linksto {
	l := &Linksto{
		uid:           nextUID(),
		store:         p.Store,
		linkage:       p.Linkage,
		low:           p.Low,
		high:          p.High,
		dir:           p.Dir,
		orderingPref:  p.Ordering,
		hintLinkage:   p.HintLinkage,
		hintGUID:      p.HintGUID,
		sub:           p.Sub,
		statBudgetMax: StatBudgetMaxInitial,
	}
	return l
}

// root returns the struct carrying authoritative statistics: self if
// this is the original, else the original it was cloned from.
func (l *Linksto) root() *Linksto {
	if l.original != nil {
		return l.original
	}
	return l
}

// refresh detects a morph on root and, if this node has not yet
// followed it, re-clones from the morphed replacement and re-seeks to
// the saved position (spec §3 Lifecycle, §5 "Ordering guarantees").
// Returns the iterator that should actually serve the call: either l
// itself (iterctx.Iterator via l) or the morphed delegate.
func (l *Linksto) refresh() iterctx.Iterator {
	r := l.root()
	if r.morphed == nil {
		return nil
	}
	if l == r {
		return r.morphed
	}
	if l.morphed != nil {
		return l.morphed
	}
	clone := r.morphed.Clone()
	if l.lastIDSet {
		b := iterctx.NewBudget(iterctx.Unlimited)
		if clone.Stats().Sorted {
			_, _ = clone.Find(b, l.lastID)
		} else {
			for {
				id, err := clone.Next(b)
				if err != nil || id >= l.lastID {
					break
				}
			}
		}
	}
	l.morphed = clone
	return clone
}

func (l *Linksto) hintActive() bool { return l.hintLinkage != pdb.LinkageNone }

func (l *Linksto) UID() int64 {
	if m := l.refresh(); m != nil {
		return m.UID()
	}
	return l.uid
}

func (l *Linksto) Low() pdb.ID  { return l.low }
func (l *Linksto) High() pdb.ID { return l.high }

func (l *Linksto) Direction() iterctx.Dir { return l.dir }

func (l *Linksto) Type() string {
	if m := l.refresh(); m != nil {
		return m.Type()
	}
	return "linksto"
}

func (l *Linksto) Reset() {
	if m := l.refresh(); m != nil {
		m.Reset()
		return
	}
	l.lastIDSet = false
	l.subID = pdb.NoID
	l.resumeID = pdb.NoID
	l.checkCachedSet = false
	l.fanin = nil
	l.callState = csIdle
	l.sub.Reset()
	if l.hintIt != nil {
		l.hintIt.Reset()
	}
}

// Clone returns an independent cursor sharing this node's (or its
// root's) statistics by reference (spec §3 "Ownership rules").
func (l *Linksto) Clone() iterctx.Iterator {
	if m := l.refresh(); m != nil {
		return m.Clone()
	}
	c := &Linksto{
		uid:         nextUID(),
		original:    l.root(),
		store:       l.store,
		linkage:     l.linkage,
		low:         l.low,
		high:        l.high,
		dir:         l.dir,
		orderingPref: l.orderingPref,
		hintLinkage: l.hintLinkage,
		hintGUID:    l.hintGUID,
		hintVIP:     l.hintVIP,
		sub:         l.sub.Clone(),
		thawed:      l.thawed,
		lastID:      l.lastID,
		lastIDSet:   l.lastIDSet,
		subID:       l.subID,
		resumeID:    l.resumeID,
	}
	if l.hintIt != nil {
		c.hintIt = l.hintIt.Clone()
	}
	return c
}

func (l *Linksto) Finish() {
	if m := l.refresh(); m != nil {
		m.Finish()
		return
	}
	if l.sub != nil {
		l.sub.Finish()
	}
	if l.hintIt != nil {
		l.hintIt.Finish()
	}
	if l.fanin != nil {
		l.fanin.Close()
		l.fanin = nil
	}
	if l.sfSub != nil {
		l.sfSub.Finish()
	}
	if l.tcHint != nil {
		l.tcHint.Finish()
	}
	if l.tcSub != nil {
		l.tcSub.Finish()
	}
}
