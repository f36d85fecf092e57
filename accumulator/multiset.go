// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

// Package accumulator implements the Pedersen-style multiset hash that
// folds a stamp's action digests and tachygrams into the public digest
// its proof attests to.
package accumulator

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"math/big"
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/project-tachyon/tachyd/params"
	"github.com/project-tachyon/tachyd/types"

	secp "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Multiset tracks the state of a multiset hash of an unordered set.
// The state is a point on the curve. New elements are hashed onto a
// point on the curve and then added to the current state, so elements
// can be folded in any order and two states can be combined by point
// addition. The state counts multiplicity: an element folded twice
// yields a different state than the same element folded once, which is
// what makes duplicate tachygrams detectable after a merge without any
// disjointness check inside the proof.
type Multiset struct {
	point *secp.JacobianPoint
	mtx   sync.RWMutex
}

// NewMultiset returns an empty multiset. The hash of an empty set is
// the 32 byte value of zero.
func NewMultiset() *Multiset {
	return &Multiset{point: new(secp.JacobianPoint), mtx: sync.RWMutex{}}
}

// Add hashes the data onto the curve and updates the state of the
// multiset.
func (ms *Multiset) Add(data []byte) {
	ms.mtx.Lock()
	defer ms.mtx.Unlock()

	point2 := hashToPoint(data)
	result := new(secp.JacobianPoint)
	secp.AddNonConst(ms.point, point2, result)
	ms.point = result
}

// Combine adds the other multiset's state into this one. Point
// addition is commutative, so the shape of any merge tree is
// irrelevant to the combined state.
func (ms *Multiset) Combine(other *Multiset) {
	other.mtx.RLock()
	point2 := *other.point
	other.mtx.RUnlock()

	ms.mtx.Lock()
	defer ms.mtx.Unlock()

	result := new(secp.JacobianPoint)
	secp.AddNonConst(ms.point, &point2, result)
	ms.point = result
}

// Hash serializes and returns the hash of the multiset. The hash of an
// empty set is the 32 byte value of zero. The hash of a non-empty
// multiset is the hash of the 32 byte x value concatenated with the 32
// byte y value.
func (ms *Multiset) Hash() types.ID {
	ms.mtx.RLock()
	defer ms.mtx.RUnlock()

	if ms.point.X.IsZero() && ms.point.Y.IsZero() {
		return types.ID{}
	}

	cpy := *ms.point
	cpy.ToAffine()

	x3, y3 := new(big.Int), new(big.Int)
	x3.SetBytes(cpy.X.Bytes()[:])
	y3.SetBytes(cpy.Y.Bytes()[:])

	return types.NewIDFromData(append(x3.Bytes(), y3.Bytes()...))
}

// Bytes returns the 64-byte affine serialization of the state. The
// empty set serializes to 64 zero bytes.
func (ms *Multiset) Bytes() []byte {
	ms.mtx.RLock()
	defer ms.mtx.RUnlock()

	out := make([]byte, 64)
	if ms.point.X.IsZero() && ms.point.Y.IsZero() {
		return out
	}

	cpy := *ms.point
	cpy.ToAffine()
	copy(out[:32], cpy.X.Bytes()[:])
	copy(out[32:], cpy.Y.Bytes()[:])
	return out
}

// NewMultisetFromBytes deserializes a multiset state produced by
// Bytes.
func NewMultisetFromBytes(b []byte) (*Multiset, error) {
	if len(b) != 64 {
		return nil, errors.New("multiset state must be 64 bytes")
	}
	ms := NewMultiset()
	allZero := true
	for _, v := range b {
		if v != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return ms, nil
	}
	var xb, yb [32]byte
	copy(xb[:], b[:32])
	copy(yb[:], b[32:])
	ms.point.X.SetBytes(&xb)
	ms.point.Y.SetBytes(&yb)
	ms.point.Z.SetInt(1)
	return ms, nil
}

// Equal reports whether the two states hash identically.
func (ms *Multiset) Equal(other *Multiset) bool {
	return ms.Hash() == other.Hash()
}

// hashToPoint hashes the passed data into a point on the curve. The
// candidate x value is sha256(n, H(domain, data)) where n starts at
// zero and H is blake2b. If the x value is not in the field or has no
// quadratic residue then n is incremented and we try again. There is
// roughly a 50% chance of success for any given iteration.
func hashToPoint(data []byte) *secp.JacobianPoint {
	var (
		i = uint64(0)
		n = make([]byte, 8)
		h = blake2b.Sum256(append([]byte(params.AccumulatorDomain), data...))
	)

	for {
		binary.BigEndian.PutUint64(n, i)
		h2 := sha256.Sum256(append(n, h[:]...))

		x, y := new(secp.FieldVal), new(secp.FieldVal)
		overflow := x.SetBytes(&h2)

		if overflow == 0 && secp.DecompressY(x, false, y) {
			y.Normalize()
			point := new(secp.JacobianPoint)
			point.X.Set(x)
			point.Y.Set(y)
			point.Z.SetInt(1)
			return point
		}
		i++
	}
}
