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
	"fmt"
	"strconv"
	"strings"

	"github.com/erigontech/graphd/internal/baseiter"
	"github.com/erigontech/graphd/internal/iterctx"
	"github.com/erigontech/graphd/internal/pdb"
)

// Thaw reconstructs a Linksto from a string produced by
// Freeze(FreezeSet|FreezePosition|FreezeState) (spec §4.4). store must
// resolve the same GUIDs/ids the original was frozen against.
//
// A masqueraded freeze string (one taken after this node morphed into a
// FIXED/OR/NULL, spec §4.5) thaws back to the original, not-yet-morphed
// specification with thawed=true, rather than to the replacement
// iterator's materialized contents -- the masquerade never carries
// those, by design, so Statistics re-converges (and re-morphs) on first
// use. The replacement's own saved position, if any, survives as lastID
// so the eventual re-morph still resumes in the right place.
func Thaw(s string, store pdb.Store) (*Linksto, error) {
	body := s
	switch {
	case strings.HasPrefix(s, "fixed-linksto:"):
		body = strings.TrimPrefix(s, "fixed-")
	case strings.HasPrefix(s, "or-linksto:"):
		body = strings.TrimPrefix(s, "or-")
	case strings.HasPrefix(s, "linksto:"):
	default:
		return nil, iterctx.ErrLexical
	}

	dir, low, high, linkage, rest, err := ParseSetForm(body)
	if err != nil {
		return nil, err
	}
	subSetForm, tail, err := splitParen(rest)
	if err != nil {
		return nil, err
	}

	l := &Linksto{
		uid:           nextUID(),
		store:         store,
		linkage:       linkage,
		low:           low,
		high:          high,
		dir:           dir,
		orderingPref:  iterctx.PreferOrdering,
		statBudgetMax: StatBudgetMaxInitial,
		thawed:        true,
	}

	if hex, ok := extractHintHex(body); ok {
		guid, perr := pdb.ParseGUIDHex(hex)
		if perr != nil {
			return nil, perr
		}
		l.hintLinkage, l.hintGUID = pdb.TypeGuid, guid
	}

	// nextMethod, if the ":md:" tag is present, is re-derived from the
	// position form below instead of from this tag.
	var oTok, hTok string
	tail, _ = consumeTag(tail, ":md:")
	tail, oTok = consumeTag(tail, ":o:")
	tail, hTok = consumeTag(tail, ":h:")

	if oTok != "" {
		n, perr := strconv.Atoi(oTok)
		if perr != nil {
			return nil, fmt.Errorf("linksto: parse ordering: %w", iterctx.ErrLexical)
		}
		l.orderingPref = iterctx.Preference(n)
	}
	if hTok != "" {
		eq := strings.IndexByte(hTok, '=')
		if eq < 0 {
			return nil, fmt.Errorf("linksto: parse hint tag: %w", iterctx.ErrLexical)
		}
		hl, perr := pdb.ParseLinkage(hTok[:eq])
		if perr != nil {
			return nil, perr
		}
		guid, perr := pdb.ParseGUIDHex(hTok[eq+1:])
		if perr != nil {
			return nil, perr
		}
		l.hintLinkage, l.hintGUID = hl, guid
	}

	if tail == "" {
		// Set-only freeze, or a morph into NULL/OR: neither of those
		// Freeze implementations append anything after a masquerade, so
		// there is nothing more to parse (spec §4.5 -- OR's own resume
		// position is simply not recoverable from its freeze string).
		sub, serr := thawSub(subSetForm, dir, store)
		if serr != nil {
			return nil, serr
		}
		l.sub = sub
		return l, nil
	}
	if !strings.HasPrefix(tail, ":") {
		return nil, iterctx.ErrLexical
	}
	tail = tail[1:]

	methodTok, afterMethod, _ := nextTopLevelField(tail)
	switch methodTok {
	case "subfanin", "typecheck", "unspecified":
		// Unmorphed: the full position+state form follows below.
	default:
		// Morphed-to-FIXED: methodTok is actually the saved position
		// digit (or "-"), not a method word -- FIXED's own Freeze always
		// appends it directly after the masquerade (unlike Or/Null,
		// which early-return the bare masquerade).
		sub, serr := thawSub(subSetForm, dir, store)
		if serr != nil {
			return nil, serr
		}
		l.sub = sub
		if methodTok != "-" {
			id, perr := parseID(methodTok)
			if perr != nil {
				return nil, perr
			}
			l.lastID, l.lastIDSet = id, true
		}
		return l, nil
	}

	switch methodTok {
	case "subfanin":
		l.nextMethod = MethodSubfanin
	case "typecheck":
		l.nextMethod = MethodTypecheck
	case "unspecified":
		l.nextMethod = MethodUnspecified
	}

	lastIDTok, afterLastID, _ := nextTopLevelField(afterMethod)
	subIDTok, afterSubID, _ := nextTopLevelField(afterLastID)
	if lastIDTok != "-" {
		id, perr := parseID(lastIDTok)
		if perr != nil {
			return nil, perr
		}
		l.lastID, l.lastIDSet = id, true
	}
	if subIDTok != "-" {
		id, perr := parseID(subIDTok)
		if perr != nil {
			return nil, perr
		}
		l.subID = id
	}

	if afterSubID == "" {
		// Position form only, no state form: restore what we can and stop.
		sub, serr := thawSub(subSetForm, dir, store)
		if serr != nil {
			return nil, serr
		}
		l.sub = sub
		if l.subID != pdb.NoID {
			if ferr := fastForwardTo(l.sub, l.subID, l.dir); ferr != nil {
				return nil, ferr
			}
		}
		return l, nil
	}
	stateStr := afterSubID

	callStateTok, afterCallState, _ := nextTopLevelField(stateStr)
	subStateTok, afterSubState, _ := nextTopLevelField(afterCallState)
	faninTok, afterFanin, _ := nextTopLevelField(afterSubState)
	committedOrSampling := afterFanin

	if callStateTok != "" {
		if _, perr := strconv.Atoi(callStateTok); perr != nil {
			return nil, fmt.Errorf("linksto: parse call state: %w", iterctx.ErrLexical)
		}
	}
	l.callState = csIdle

	subFull := subSetForm
	if subStateTok != "" {
		subFull = subSetForm + ":" + subStateTok
	}
	sub, serr := thawSub(subFull, dir, store)
	if serr != nil {
		return nil, serr
	}
	l.sub = sub
	if l.subID != pdb.NoID {
		if ferr := fastForwardTo(l.sub, l.subID, l.dir); ferr != nil {
			return nil, ferr
		}
	}

	if err := l.ensureHintIt(); err != nil {
		return nil, err
	}
	if l.nextMethod == MethodTypecheck && l.lastIDSet {
		if ferr := fastForwardTo(l.hintIt, l.lastID, l.dir); ferr != nil {
			return nil, ferr
		}
	}

	if faninTok != "-" && l.nextMethod == MethodSubfanin {
		endpoint, perr := parseID(faninTok)
		if perr != nil {
			return nil, perr
		}
		cur, operr := store.LinkageIDIterator(l.linkage, endpoint, l.low, l.high, l.dir == iterctx.Forward)
		if operr != nil {
			return nil, operr
		}
		if l.lastIDSet {
			for {
				id, ok, nerr := cur.Next()
				if nerr != nil {
					cur.Close()
					return nil, nerr
				}
				if !ok {
					break
				}
				if (l.dir == iterctx.Backward && id <= l.lastID) || (l.dir != iterctx.Backward && id >= l.lastID) {
					break
				}
			}
		}
		l.fanin = cur
		l.faninEndpoint = endpoint
	}

	switch {
	case committedOrSampling == "":
		// Neither stats nor sampling state recorded: fresh planner.
	case strings.HasPrefix(committedOrSampling, "[stat."):
		if err := l.thawSamplingBlock(committedOrSampling, dir, store); err != nil {
			return nil, err
		}
	default:
		if err := l.thawCommittedStats(committedOrSampling); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// thawCommittedStats parses the "checkCost:nextCost+findCost:N:" tail
// freezeStateForm emits once a method has converged (spec §4.2
// "Computing statistics once a method is chosen").
func (l *Linksto) thawCommittedStats(blob string) error {
	checkTok, t1, _ := nextTopLevelField(blob)
	nfTok, t2, _ := nextTopLevelField(t1)
	nTok, _, _ := nextTopLevelField(t2)

	plus := strings.IndexByte(nfTok, '+')
	if plus < 0 {
		return fmt.Errorf("linksto: parse committed stats: %w", iterctx.ErrLexical)
	}
	checkCost, err := strconv.ParseInt(checkTok, 10, 64)
	if err != nil {
		return fmt.Errorf("linksto: parse check cost: %w", iterctx.ErrLexical)
	}
	nextCost, err := strconv.ParseInt(nfTok[:plus], 10, 64)
	if err != nil {
		return fmt.Errorf("linksto: parse next cost: %w", iterctx.ErrLexical)
	}
	findCost, err := strconv.ParseInt(nfTok[plus+1:], 10, 64)
	if err != nil {
		return fmt.Errorf("linksto: parse find cost: %w", iterctx.ErrLexical)
	}
	n, err := strconv.ParseInt(nTok, 10, 64)
	if err != nil {
		return fmt.Errorf("linksto: parse n: %w", iterctx.ErrLexical)
	}

	var sorted, ordered bool
	switch l.nextMethod {
	case MethodTypecheck:
		sorted, ordered = true, true
	case MethodSubfanin:
		sorted, ordered = false, l.sub.Stats().Ordered
	default:
		return iterctx.ErrBadCursor
	}
	l.stats = iterctx.Stats{N: n, NextCost: nextCost, CheckCost: checkCost, FindCost: findCost, Sorted: sorted, Ordered: ordered, Done: true}
	l.statsDone = true
	return nil
}

// thawSamplingBlock parses the "[stat.sf:...]"/"[stat.tc:...]" blocks
// freezeSamplingBlock emits while a method is still being chosen (spec
// §4.2 sampling, §4.4 "stat.sf"/"stat.tc").
func (l *Linksto) thawSamplingBlock(blob string, dir iterctx.Dir, store pdb.Store) error {
	sfContent, rest, sfFound := extractBracket(blob, "stat.sf")
	tcContent, rest, tcFound := extractBracket(rest, "stat.tc")
	if strings.TrimSpace(rest) != "" {
		return fmt.Errorf("linksto: trailing sampling data: %w", iterctx.ErrLexical)
	}

	if sfFound {
		if err := l.thawStatSF(sfContent, dir, store); err != nil {
			return err
		}
	} else {
		l.sfState = sampleDone
	}
	if tcFound {
		if err := l.thawStatTC(tcContent, dir, store); err != nil {
			return err
		}
	} else {
		l.tcState = sampleDone
	}
	return nil
}

func (l *Linksto) thawStatSF(content string, dir iterctx.Dir, store pdb.Store) error {
	sfFrozen, t1, _ := nextTopLevelField(content)
	sfStateTok, t2, _ := nextTopLevelField(t1)
	declTok, t3, _ := nextTopLevelField(t2)
	sumFanTok, t4, _ := nextTopLevelField(t3)
	_, idsTok, _ := nextTopLevelField(t4) // subN snapshot, recomputed live elsewhere; discarded here

	sfState, err := strconv.Atoi(sfStateTok)
	if err != nil {
		return fmt.Errorf("linksto: parse sf state: %w", iterctx.ErrLexical)
	}
	declared, err := strconv.Atoi(declTok)
	if err != nil {
		return fmt.Errorf("linksto: parse sf sample count: %w", iterctx.ErrLexical)
	}
	sumFan, err := strconv.ParseInt(sumFanTok, 10, 64)
	if err != nil {
		return fmt.Errorf("linksto: parse sf sum fanin: %w", iterctx.ErrLexical)
	}
	ids, err := parseIDList(idsTok)
	if err != nil {
		return err
	}
	if declared > NSamples || declared != len(ids) || sampleState(sfState) == sampleDone {
		return iterctx.ErrBadCursor
	}

	l.sfState = sampleState(sfState)
	l.sfIDs = ids
	l.sfSumFan = sumFan
	l.sfSubDone = false

	if sfFrozen == "" {
		if l.sfState != sampleInitial {
			return iterctx.ErrBadCursor
		}
		l.sfSub = nil
		return nil
	}
	sub, err := thawSub(sfFrozen, dir, store)
	if err != nil {
		return err
	}
	l.sfSub = sub
	return nil
}

func (l *Linksto) thawStatTC(content string, dir iterctx.Dir, store pdb.Store) error {
	tcSubFrozen, t1, _ := nextTopLevelField(content)
	tcHintFrozen, t2, _ := nextTopLevelField(t1)
	tcStateTok, t3, _ := nextTopLevelField(t2)
	declTok, t4, _ := nextTopLevelField(t3)
	trialsTok, t5, _ := nextTopLevelField(t4)
	costTok, t6, _ := nextTopLevelField(t5)
	endpointTok, idsTok, _ := nextTopLevelField(t6)

	tcState, err := strconv.Atoi(tcStateTok)
	if err != nil {
		return fmt.Errorf("linksto: parse tc state: %w", iterctx.ErrLexical)
	}
	declared, err := strconv.Atoi(declTok)
	if err != nil {
		return fmt.Errorf("linksto: parse tc sample count: %w", iterctx.ErrLexical)
	}
	trials, err := strconv.ParseInt(trialsTok, 10, 64)
	if err != nil {
		return fmt.Errorf("linksto: parse tc trials: %w", iterctx.ErrLexical)
	}
	cost, err := strconv.ParseInt(costTok, 10, 64)
	if err != nil {
		return fmt.Errorf("linksto: parse tc cost: %w", iterctx.ErrLexical)
	}
	endpoint, err := parseID(endpointTok)
	if err != nil {
		return err
	}
	ids, err := parseIDList(idsTok)
	if err != nil {
		return err
	}
	if declared > NSamples || declared != len(ids) || sampleState(tcState) == sampleDone {
		return iterctx.ErrBadCursor
	}

	l.tcState = sampleState(tcState)
	l.tcIDs = ids
	l.tcTrials = trials
	l.tcCost = cost
	l.tcAccept = int64(len(ids))
	l.tcEndpoint = endpoint
	l.tcHintDone = false

	if tcSubFrozen == "" {
		if l.tcState != sampleInitial {
			return iterctx.ErrBadCursor
		}
		l.tcSub = nil
	} else {
		sub, serr := thawSub(tcSubFrozen, dir, store)
		if serr != nil {
			return serr
		}
		l.tcSub = sub
	}

	if tcHintFrozen == "" {
		if l.tcState != sampleInitial {
			return iterctx.ErrBadCursor
		}
		l.tcHint = nil
	} else {
		hint, herr := thawSub(tcHintFrozen, dir, store)
		if herr != nil {
			return herr
		}
		l.tcHint = hint
	}
	return nil
}

// thawSub reconstructs one of the leaf/composite iterators this package
// embeds in its frozen forms (spec §4.4's sub/hint clones, and §4.5's
// morph targets) from its own Freeze(Set[|Position|State]) output.
func thawSub(full string, outerDir iterctx.Dir, store pdb.Store) (iterctx.Iterator, error) {
	switch leafTag(full) {
	case "linksto":
		return Thaw(full, store)
	case "null":
		return baseiter.NewNull(outerDir), nil
	case "all":
		return thawAllLeaf(full, store)
	case "fixed":
		return thawFixedLeaf(full)
	case "or":
		return thawOrLeaf(full, outerDir, store)
	default:
		return nil, iterctx.ErrLexical
	}
}

func leafTag(s string) string {
	body := strings.TrimPrefix(strings.TrimPrefix(s, "fixed-"), "or-")
	switch {
	case strings.HasPrefix(body, "linksto:"):
		return "linksto"
	case strings.HasPrefix(s, "null:"):
		return "null"
	case strings.HasPrefix(s, "all:"):
		return "all"
	case strings.HasPrefix(s, "fixed:"):
		return "fixed"
	case strings.HasPrefix(s, "or:"):
		return "or"
	default:
		return ""
	}
}

func thawAllLeaf(full string, store pdb.Store) (iterctx.Iterator, error) {
	rest := strings.TrimPrefix(full, "all:")
	if rest == full || len(rest) == 0 {
		return nil, iterctx.ErrLexical
	}
	dir, rest, err := consumeDirChar(rest)
	if err != nil {
		return nil, err
	}
	span, posTail, _ := nextTopLevelField(rest)
	low, high, err := parseSpan(span)
	if err != nil {
		return nil, err
	}
	a := baseiter.NewAll(low, high, store.PrimitiveN(), dir)
	if posTail != "" && posTail != "-" {
		id, perr := parseID(posTail)
		if perr != nil {
			return nil, perr
		}
		if ferr := fastForwardTo(a, id, dir); ferr != nil {
			return nil, ferr
		}
	}
	return a, nil
}

func thawFixedLeaf(full string) (iterctx.Iterator, error) {
	rest := strings.TrimPrefix(full, "fixed:")
	if rest == full || len(rest) == 0 {
		return nil, iterctx.ErrLexical
	}
	dir, rest, err := consumeDirChar(rest)
	if err != nil {
		return nil, err
	}
	idsTok, posTail, _ := nextTopLevelField(rest)
	var ids []pdb.ID
	if idsTok != "" {
		for _, tok := range strings.Split(idsTok, ",") {
			id, perr := parseID(tok)
			if perr != nil {
				return nil, perr
			}
			ids = append(ids, id)
		}
	}
	f := baseiter.NewFixed(ids, pdb.NoID, pdb.NoID, dir)
	if posTail != "" && posTail != "-" {
		id, perr := parseID(posTail)
		if perr != nil {
			return nil, perr
		}
		if ferr := fastForwardTo(f, id, dir); ferr != nil {
			return nil, ferr
		}
	}
	return f, nil
}

func thawOrLeaf(full string, outerDir iterctx.Dir, store pdb.Store) (iterctx.Iterator, error) {
	rest := strings.TrimPrefix(full, "or:")
	if rest == full || len(rest) == 0 {
		return nil, iterctx.ErrLexical
	}
	dir, rest, err := consumeDirChar(rest)
	if err != nil {
		return nil, err
	}
	if len(rest) == 0 || rest[0] != '(' {
		return nil, iterctx.ErrLexical
	}
	inner, _, perr := splitParen(rest[1:])
	if perr != nil {
		return nil, perr
	}
	var branches []iterctx.Iterator
	if inner != "" {
		for _, part := range splitTopLevelComma(inner) {
			br, berr := thawSub(part, dir, store)
			if berr != nil {
				return nil, berr
			}
			branches = append(branches, br)
		}
	}
	return baseiter.NewOr(branches, pdb.NoID, pdb.NoID, dir), nil
}

// fastForwardTo advances it past target, restoring the resumable
// position Next left behind at freeze time (spec §4.4). Leaf iterators
// (Fixed/All/cursorIterator/Or) are all Sorted, so Find(target) sets
// position precisely; the fallback linear scan covers anything that
// isn't.
func fastForwardTo(it iterctx.Iterator, target pdb.ID, dir iterctx.Dir) error {
	if target == pdb.NoID {
		return nil
	}
	b := iterctx.NewBudget(iterctx.Unlimited)
	if it.Stats().Sorted {
		_, err := it.Find(b, target)
		if err != nil && err != iterctx.ErrNo {
			return err
		}
		return nil
	}
	for {
		id, err := it.Next(b)
		if err != nil {
			return nil
		}
		if (dir == iterctx.Backward && id <= target) || (dir != iterctx.Backward && id >= target) {
			return nil
		}
	}
}

// --- lexical helpers -------------------------------------------------

// nextTopLevelField splits s at its first colon that is not nested
// inside ()/[] and is not part of the literal "null:" token (which
// Null.Freeze emits unconditionally, embedded colon and all, even when
// FreezeSet was not requested). hasMore reports whether a separator was
// found; when it wasn't, field is all of s and rest is empty.
func nextTopLevelField(s string) (field, rest string, hasMore bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], "null:"):
			i += 4
		case s[i] == '(' || s[i] == '[':
			depth++
		case s[i] == ')' || s[i] == ']':
			depth--
		case s[i] == ':' && depth == 0:
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

// splitParen consumes s up to the paren that balances one already-open
// '(' the caller has stripped, returning the balanced content and
// whatever follows the matching ')'.
func splitParen(s string) (inner, tail string, err error) {
	depth := 1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[:i], s[i+1:], nil
			}
		}
	}
	return "", "", iterctx.ErrLexical
}

// splitTopLevelComma splits s on commas that are not nested inside
// ()/[], for Or's "(branch,branch,...)" branch list.
func splitTopLevelComma(s string) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}

// extractBracket removes one "[tag:...]" block (bracket-depth matched)
// from s, returning its inner content (sans "tag:" prefix) and s with
// the block spliced out.
func extractBracket(s, tag string) (content, remainder string, found bool) {
	marker := "[" + tag + ":"
	idx := strings.Index(s, marker)
	if idx < 0 {
		return "", s, false
	}
	depth := 0
	for i := idx; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[idx+len(marker) : i], s[:idx] + s[i+1:], true
			}
		}
	}
	return "", s, false
}

// consumeTag strips a leading ":tag:value" from tail if present,
// returning the remainder (re-prefixed with ':' when more follows) and
// the extracted value.
func consumeTag(tail, tag string) (string, string) {
	if !strings.HasPrefix(tail, tag) {
		return tail, ""
	}
	value, rest, hasMore := nextTopLevelField(tail[len(tag):])
	if !hasMore {
		return "", value
	}
	return ":" + rest, value
}

// extractHintHex pulls the "+<hex>" suffix ParseSetForm discards from
// the linkage token of a TypeGuid-hinted set form, without changing
// ParseSetForm's signature.
func extractHintHex(body string) (string, bool) {
	const prefix = "linksto:"
	s := strings.TrimPrefix(body, prefix)
	if s == body || len(s) == 0 {
		return "", false
	}
	s = s[1:] // dir char
	colon := strings.IndexByte(s, ':')
	if colon < 0 {
		return "", false
	}
	s = s[colon+1:]
	arrow := strings.Index(s, "->(")
	if arrow < 0 {
		return "", false
	}
	linkageTok := s[:arrow]
	plus := strings.IndexByte(linkageTok, '+')
	if plus < 0 {
		return "", false
	}
	return linkageTok[plus+1:], true
}

func consumeDirChar(s string) (iterctx.Dir, string, error) {
	if len(s) == 0 {
		return 0, "", iterctx.ErrLexical
	}
	switch s[0] {
	case '+':
		return iterctx.Forward, s[1:], nil
	case '~':
		return iterctx.Backward, s[1:], nil
	default:
		return 0, "", iterctx.ErrLexical
	}
}

func parseSpan(span string) (low, high pdb.ID, err error) {
	if dash := strings.IndexByte(span, '-'); dash >= 0 {
		lo, perr := strconv.ParseUint(span[:dash], 10, 64)
		if perr != nil {
			return 0, 0, fmt.Errorf("linksto: parse low: %w", iterctx.ErrLexical)
		}
		hi, perr := strconv.ParseUint(span[dash+1:], 10, 64)
		if perr != nil {
			return 0, 0, fmt.Errorf("linksto: parse high: %w", iterctx.ErrLexical)
		}
		return pdb.ID(lo), pdb.ID(hi), nil
	}
	lo, perr := strconv.ParseUint(span, 10, 64)
	if perr != nil {
		return 0, 0, fmt.Errorf("linksto: parse low: %w", iterctx.ErrLexical)
	}
	return pdb.ID(lo), pdb.NoID, nil
}

func parseID(s string) (pdb.ID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("linksto: parse id: %w", iterctx.ErrLexical)
	}
	return pdb.ID(n), nil
}

func parseIDList(s string) ([]pdb.ID, error) {
	if s == "" {
		return nil, nil
	}
	toks := strings.Split(s, ",")
	ids := make([]pdb.ID, len(toks))
	for i, tok := range toks {
		id, err := parseID(tok)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}
