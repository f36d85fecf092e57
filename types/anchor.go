// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/project-tachyon/tachyd/params"
)

// Epoch is a coarse time unit scoping nullifier validity and bounding
// delegation. Epochs are leaves of the fixed-depth delegation tree and
// must fit in its address space.
type Epoch uint64

// Bytes returns the fixed-width big-endian encoding of the epoch.
func (e Epoch) Bytes() []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(e))
	return b
}

// Valid reports whether the epoch is addressable by the delegation
// tree.
func (e Epoch) Valid() bool {
	return e <= params.MaxEpoch
}

var ErrEmptyIntersection = errors.New("anchor ranges do not overlap")

const AnchorSize = 16

// Anchor is a stamp's validity window: the inclusive epoch range
// within which the stamp's proof may land in a block. Merging two
// stamps narrows the window to the overlap of their anchors.
type Anchor struct {
	Lo Epoch
	Hi Epoch
}

func NewAnchor(lo, hi Epoch) Anchor {
	return Anchor{Lo: lo, Hi: hi}
}

func (a Anchor) String() string {
	return fmt.Sprintf("[%d, %d]", a.Lo, a.Hi)
}

// Contains reports whether the epoch falls inside the window.
func (a Anchor) Contains(e Epoch) bool {
	return e >= a.Lo && e <= a.Hi
}

// Valid reports whether the window is well formed.
func (a Anchor) Valid() bool {
	return a.Lo <= a.Hi && a.Hi.Valid()
}

// Intersect returns the overlap of the two windows. Disjoint windows
// return ErrEmptyIntersection; a merge with an empty intersection must
// fail rather than produce a stamp no block could accept.
func (a Anchor) Intersect(other Anchor) (Anchor, error) {
	lo := a.Lo
	if other.Lo > lo {
		lo = other.Lo
	}
	hi := a.Hi
	if other.Hi < hi {
		hi = other.Hi
	}
	if lo > hi {
		return Anchor{}, ErrEmptyIntersection
	}
	return Anchor{Lo: lo, Hi: hi}, nil
}

// Bytes returns the fixed-width encoding: both bounds big-endian.
func (a Anchor) Bytes() []byte {
	b := make([]byte, AnchorSize)
	binary.BigEndian.PutUint64(b[:8], uint64(a.Lo))
	binary.BigEndian.PutUint64(b[8:], uint64(a.Hi))
	return b
}

// NewAnchorFromBytes decodes the fixed-width anchor encoding.
func NewAnchorFromBytes(b []byte) (Anchor, error) {
	if len(b) != AnchorSize {
		return Anchor{}, fmt.Errorf("anchor must be %d bytes", AnchorSize)
	}
	a := Anchor{
		Lo: Epoch(binary.BigEndian.Uint64(b[:8])),
		Hi: Epoch(binary.BigEndian.Uint64(b[8:])),
	}
	if !a.Valid() {
		return Anchor{}, errors.New("malformed anchor range")
	}
	return a, nil
}
