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

	"github.com/erigontech/graphd/internal/iterctx"
	"github.com/erigontech/graphd/internal/pdb"
)

// Freeze renders the requested parts of this node's state to the wire
// format (spec §4.4, §6.2). Byte-exact with the tokens named there:
// "linksto:", "md:", "o:", "h:", "stat.sf:", "stat.tc:". No "a:" tag is
// written: a Linksto carries no accounting handle.
func (l *Linksto) Freeze(flags iterctx.FreezeFlags) (string, error) {
	if m := l.refresh(); m != nil {
		return m.Freeze(flags)
	}
	var parts []string
	if flags.Has(iterctx.FreezeSet) {
		s, err := l.freezeSetForm()
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	if flags.Has(iterctx.FreezePosition) {
		parts = append(parts, l.freezePositionForm())
	}
	if flags.Has(iterctx.FreezeState) {
		s, err := l.freezeStateForm()
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ":"), nil
}

func (l *Linksto) freezeSetForm() (string, error) {
	var sb strings.Builder
	sb.WriteString("linksto:")
	sb.WriteByte(dirChar(l.dir))
	fmt.Fprintf(&sb, "%d", l.low)
	if l.high != pdb.NoID {
		fmt.Fprintf(&sb, "-%d", l.high)
	}
	sb.WriteByte(':')
	sb.WriteString(l.linkage.String())
	if l.hintActive() && l.hintLinkage == pdb.TypeGuid {
		sb.WriteByte('+')
		sb.WriteString(l.hintGUID.Hex())
	}
	sb.WriteString("->(")
	subFrozen, err := l.sub.Freeze(iterctx.FreezeSet)
	if err != nil {
		return "", err
	}
	sb.WriteString(subFrozen)
	sb.WriteString(")")

	r := l.root()
	if r.nextMethod != MethodUnspecified {
		fmt.Fprintf(&sb, ":md:%s", r.nextMethod)
	}
	if l.orderingPref != iterctx.PreferOrdering {
		fmt.Fprintf(&sb, ":o:%d", l.orderingPref)
	}
	if l.hintActive() && l.hintLinkage != pdb.TypeGuid {
		fmt.Fprintf(&sb, ":h:%s=%s", l.hintLinkage.String(), l.hintGUID.Hex())
	}
	return sb.String(), nil
}

func (l *Linksto) freezePositionForm() string {
	if !l.lastIDSet {
		return fmt.Sprintf("%s:-:-", l.root().nextMethod)
	}
	return fmt.Sprintf("%s:%d:%d", l.root().nextMethod, l.lastID, l.subID)
}

func (l *Linksto) freezeStateForm() (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d", l.callState)

	subState, err := l.sub.Freeze(iterctx.FreezePosition | iterctx.FreezeState)
	if err != nil {
		return "", err
	}
	sb.WriteByte(':')
	sb.WriteString(subState)

	sb.WriteByte(':')
	if l.fanin != nil {
		fmt.Fprintf(&sb, "%d", l.faninEndpoint)
	} else {
		sb.WriteString("-")
	}

	sb.WriteByte(':')
	r := l.root()
	if r.statsDone {
		find := fmt.Sprintf("%d", r.stats.FindCost)
		fmt.Fprintf(&sb, "%d:%d+%s:%d:", r.stats.CheckCost, r.stats.NextCost, find, r.stats.N)
	} else if r.nextMethod == MethodUnspecified {
		sb.WriteString(r.freezeSamplingBlock())
	}
	return sb.String(), nil
}

func (r *Linksto) freezeSamplingBlock() string {
	var sb strings.Builder
	if r.sfState != sampleDone {
		sfFrozen := ""
		if r.sfSub != nil {
			sfFrozen, _ = r.sfSub.Freeze(iterctx.FreezeSet | iterctx.FreezePosition | iterctx.FreezeState)
		}
		ids := idList(r.sfIDs)
		fmt.Fprintf(&sb, "[stat.sf:%s:%d:%d:%d:%d:%s]", sfFrozen, r.sfState, len(r.sfIDs), r.sfSumFan, r.sub.Stats().N, ids)
	}
	if r.tcState != sampleDone {
		tcSubFrozen, tcHintFrozen := "", ""
		if r.tcSub != nil {
			tcSubFrozen, _ = r.tcSub.Freeze(iterctx.FreezeSet | iterctx.FreezePosition | iterctx.FreezeState)
		}
		if r.tcHint != nil {
			tcHintFrozen, _ = r.tcHint.Freeze(iterctx.FreezeSet | iterctx.FreezePosition | iterctx.FreezeState)
		}
		ids := idList(r.tcIDs)
		fmt.Fprintf(&sb, "[stat.tc:%s:%s:%d:%d:%d:%d:%d:%s]", tcSubFrozen, tcHintFrozen, r.tcState, len(r.tcIDs), r.tcTrials, r.tcCost, r.tcEndpoint, ids)
	}
	return sb.String()
}

func idList(ids []pdb.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

// ParseSetForm validates and extracts the fields of a "linksto:" set
// form string. Exported for callers that only need the outer span and
// linkage without reconstructing a full node; Thaw (thaw.go) uses it as
// its own first step.
func ParseSetForm(s string) (dir iterctx.Dir, low, high pdb.ID, linkage pdb.Linkage, rest string, err error) {
	const prefix = "linksto:"
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return 0, 0, 0, 0, "", iterctx.ErrLexical
	}
	s = s[len(prefix):]
	if len(s) == 0 {
		return 0, 0, 0, 0, "", iterctx.ErrLexical
	}
	switch s[0] {
	case '+':
		dir = iterctx.Forward
	case '~':
		dir = iterctx.Backward
	default:
		return 0, 0, 0, 0, "", iterctx.ErrLexical
	}
	s = s[1:]

	colon := strings.IndexByte(s, ':')
	if colon < 0 {
		return 0, 0, 0, 0, "", iterctx.ErrLexical
	}
	span := s[:colon]
	s = s[colon+1:]

	if dash := strings.IndexByte(span, '-'); dash >= 0 {
		lo, perr := strconv.ParseUint(span[:dash], 10, 64)
		if perr != nil {
			return 0, 0, 0, 0, "", fmt.Errorf("linksto: parse low: %w", iterctx.ErrLexical)
		}
		hi, perr := strconv.ParseUint(span[dash+1:], 10, 64)
		if perr != nil {
			return 0, 0, 0, 0, "", fmt.Errorf("linksto: parse high: %w", iterctx.ErrLexical)
		}
		low, high = pdb.ID(lo), pdb.ID(hi)
	} else {
		lo, perr := strconv.ParseUint(span, 10, 64)
		if perr != nil {
			return 0, 0, 0, 0, "", fmt.Errorf("linksto: parse low: %w", iterctx.ErrLexical)
		}
		low, high = pdb.ID(lo), pdb.NoID
	}

	arrow := strings.Index(s, "->(")
	if arrow < 0 {
		return 0, 0, 0, 0, "", iterctx.ErrLexical
	}
	linkageTok := s[:arrow]
	if plus := strings.IndexByte(linkageTok, '+'); plus >= 0 {
		linkageTok = linkageTok[:plus]
	}
	linkage, perr := pdb.ParseLinkage(linkageTok)
	if perr != nil {
		return 0, 0, 0, 0, "", perr
	}
	rest = s[arrow+3:]
	return dir, low, high, linkage, rest, nil
}
