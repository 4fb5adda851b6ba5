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

// Package pdb declares the primitive/linkage store contract the linksto
// iterator is built on (spec §6.1), plus a small in-memory implementation
// of it used by tests and the demo CLI. Everything in this package is a
// leaf the linksto iterator (internal/linksto) depends on, never the
// other way around.
package pdb

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// ID addresses a primitive. 0 (NoID) never names a real primitive --
// assigned ids start at 1, mirroring the "id 0 is never valid" convention
// erigon's own auto-increment tables use.
type ID uint64

// NoID is the zero value of ID, used as a sentinel for "no primitive".
const NoID ID = 0

// GUID is a primitive's globally stable identity, independent of its
// (process-local, storage-order-dependent) ID. 16 bytes, rendered as a
// standard UUID string.
type GUID [16]byte

// NewGUID mints a fresh random GUID.
func NewGUID() GUID {
	return GUID(uuid.New())
}

func (g GUID) String() string {
	return uuid.UUID(g).String()
}

// ParseGUID parses the canonical UUID string form.
func ParseGUID(s string) (GUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return GUID{}, fmt.Errorf("pdb: parse guid %q: %w", s, err)
	}
	return GUID(u), nil
}

// Hex renders the GUID as a bare hex string (used by the freeze format,
// which prefers compact unsigned-decimal/hex tokens over UUID dashes).
func (g GUID) Hex() string { return hex.EncodeToString(g[:]) }

// ParseGUIDHex is the inverse of Hex.
func ParseGUIDHex(s string) (GUID, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 16 {
		return GUID{}, fmt.Errorf("pdb: parse guid hex %q: %w", s, ErrMalformed)
	}
	var g GUID
	copy(g[:], b)
	return g, nil
}

// Linkage names one of a primitive's four pointer slots (spec glossary).
type Linkage uint8

const (
	// LinkageNone is not a real slot; it marks "no linkage" (e.g. a
	// disabled hint).
	LinkageNone Linkage = iota
	Left
	Right
	TypeGuid
	Scope

	// NumLinkages is one past the largest real Linkage value.
	NumLinkages = Scope + 1
)

func (l Linkage) String() string {
	switch l {
	case Left:
		return "left"
	case Right:
		return "right"
	case TypeGuid:
		return "typeguid"
	case Scope:
		return "scope"
	default:
		return "none"
	}
}

// ParseLinkage is the inverse of String, used by thaw.
func ParseLinkage(s string) (Linkage, error) {
	switch s {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "typeguid":
		return TypeGuid, nil
	case "scope":
		return Scope, nil
	case "none", "":
		return LinkageNone, nil
	default:
		return LinkageNone, fmt.Errorf("pdb: parse linkage %q: %w", s, ErrMalformed)
	}
}

// Primitive is the smallest addressable graph record: a node or link,
// carrying up to four typed linkage pointers.
type Primitive struct {
	ID   ID
	GUID GUID

	links [NumLinkages]GUID
	has   uint8 // bit i set iff links[i] is present
}

// NewPrimitive constructs an empty primitive with the given identity.
func NewPrimitive(id ID, guid GUID) Primitive {
	return Primitive{ID: id, GUID: guid}
}

// SetLinkage pins primitive p's linkage slot l to target guid g.
func (p *Primitive) SetLinkage(l Linkage, g GUID) {
	if l == LinkageNone || l >= NumLinkages {
		return
	}
	p.links[l] = g
	p.has |= 1 << uint(l)
}

// HasLinkage reports whether slot l is populated.
func (p *Primitive) HasLinkage(l Linkage) bool {
	if l == LinkageNone || l >= NumLinkages {
		return false
	}
	return p.has&(1<<uint(l)) != 0
}

// LinkageGet returns the GUID slot l points to, or the zero GUID if
// absent; callers that care about absence should check HasLinkage first
// (this mirrors pdb's primitive_linkage_get / primitive_has_linkage pair
// in spec §6.1).
func (p *Primitive) LinkageGet(l Linkage) GUID {
	if !p.HasLinkage(l) {
		return GUID{}
	}
	return p.links[l]
}
