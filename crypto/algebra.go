// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

// Package crypto provides the algebraic backend for the protocol:
// scalars and group elements over a prime-order group, hash-to-scalar
// and hash-to-point maps, the fixed commitment generators, and a
// Schnorr signature scheme parameterized by its generator.
//
// The concrete backend is the edwards25519 prime-order subgroup.
// Group elements encode to exactly 32 bytes with the canonical sign
// bit in bit 7 of byte 31, which is what the key normalization and
// wire format rules are written against. Protocol packages only use
// the operations exposed here, so the backend can be swapped without
// touching protocol logic.
package crypto

import (
	"encoding/binary"
	"errors"

	"filippo.io/edwards25519"
	"github.com/project-tachyon/tachyd/params/hash"
	"golang.org/x/crypto/blake2b"
)

// Scalar is an element of the group's scalar field.
type Scalar = edwards25519.Scalar

// Point is an element of the prime-order group.
type Point = edwards25519.Point

var ErrInvalidPoint = errors.New("invalid group element encoding")
var ErrInvalidScalar = errors.New("invalid scalar encoding")

// NewScalar returns the zero scalar.
func NewScalar() *Scalar {
	return edwards25519.NewScalar()
}

// NewIdentityPoint returns the group identity.
func NewIdentityPoint() *Point {
	return edwards25519.NewIdentityPoint()
}

// GeneratorG returns the group's base generator.
func GeneratorG() *Point {
	return edwards25519.NewGeneratorPoint()
}

// ScalarFromUint64 lifts v into the scalar field.
func ScalarFromUint64(v uint64) *Scalar {
	var b [32]byte
	binary.LittleEndian.PutUint64(b[:8], v)
	s, err := edwards25519.NewScalar().SetCanonicalBytes(b[:])
	if err != nil {
		// A 64-bit value is always below the group order.
		panic(err)
	}
	return s
}

// ScalarFromBytes decodes a canonical 32-byte scalar encoding.
func ScalarFromBytes(b []byte) (*Scalar, error) {
	s, err := edwards25519.NewScalar().SetCanonicalBytes(b)
	if err != nil {
		return nil, ErrInvalidScalar
	}
	return s, nil
}

// PointFromBytes decodes a 32-byte compressed group element.
func PointFromBytes(b []byte) (*Point, error) {
	p, err := new(edwards25519.Point).SetBytes(b)
	if err != nil {
		return nil, ErrInvalidPoint
	}
	return p, nil
}

// HashToScalar maps the tagged hash of the inputs to a uniformly
// distributed scalar.
func HashToScalar(tag string, inputs ...[]byte) *Scalar {
	wide := hash.Tagged(tag, inputs...)
	s, err := edwards25519.NewScalar().SetUniformBytes(wide[:])
	if err != nil {
		panic(err)
	}
	return s
}

// HashToPoint maps the input to a point in the prime-order subgroup
// under the given domain. The map is try-and-increment: hash to a
// candidate encoding, retry with an incremented counter until the
// candidate decompresses, then clear the cofactor. Roughly half of all
// candidates decode, so the expected iteration count is two.
func HashToPoint(domain string, input []byte) *Point {
	seed := hash.Tagged(domain, input)
	ctr := make([]byte, 8)
	for i := uint64(0); ; i++ {
		binary.BigEndian.PutUint64(ctr, i)
		candidate := blake2b.Sum256(append(ctr, seed[:]...))
		p, err := new(edwards25519.Point).SetBytes(candidate[:])
		if err != nil {
			continue
		}
		p.MultByCofactor(p)
		if p.Equal(edwards25519.NewIdentityPoint()) == 1 {
			continue
		}
		return p
	}
}

// SignBit reports the canonical sign bit of the point's encoding.
func SignBit(p *Point) byte {
	return p.Bytes()[31] >> 7
}

// Zeroize overwrites the buffer with zeros. Used to erase ephemeral
// secrets on every exit path.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ZeroizeScalar resets the scalar to zero.
func ZeroizeScalar(s *Scalar) {
	s.Subtract(s, s)
}
