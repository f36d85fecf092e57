// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package crypto

import (
	"errors"

	"filippo.io/edwards25519"
	"github.com/project-tachyon/tachyd/params"
)

const SignatureSize = params.SignatureSize

// Signature is a 64-byte Schnorr signature: the 32-byte commitment
// point followed by the 32-byte response scalar.
type Signature [SignatureSize]byte

func (sig Signature) Bytes() []byte {
	return sig[:]
}

func (sig *Signature) SetBytes(data []byte) error {
	if len(data) != SignatureSize {
		return errors.New("signature must be 64 bytes")
	}
	copy(sig[:], data)
	return nil
}

const (
	nonceTag     = "Tachyon-SigNonce"
	challengeTag = "Tachyon-SigChal"
)

// Sign produces a Schnorr signature of msg under sk relative to the
// generator gen. Passing the base generator gives a spend
// authorization signature; passing the commitment randomness generator
// R gives a binding signature. The nonce is derived deterministically
// from the secret key and message.
func Sign(sk *Scalar, gen *Point, msg []byte) Signature {
	pk := new(edwards25519.Point).ScalarMult(sk, gen)

	k := HashToScalar(nonceTag, sk.Bytes(), pk.Bytes(), msg)
	defer ZeroizeScalar(k)
	R := new(edwards25519.Point).ScalarMult(k, gen)

	e := HashToScalar(challengeTag, R.Bytes(), pk.Bytes(), msg)
	// s = k + e*sk
	s := edwards25519.NewScalar().MultiplyAdd(e, sk, k)

	var sig Signature
	copy(sig[:32], R.Bytes())
	copy(sig[32:], s.Bytes())
	return sig
}

// Verify reports whether sig is a valid signature of msg by pk
// relative to the generator gen.
func Verify(pk *Point, gen *Point, msg []byte, sig Signature) bool {
	R, err := new(edwards25519.Point).SetBytes(sig[:32])
	if err != nil {
		return false
	}
	s, err := edwards25519.NewScalar().SetCanonicalBytes(sig[32:])
	if err != nil {
		return false
	}

	e := HashToScalar(challengeTag, R.Bytes(), pk.Bytes(), msg)

	// [s]gen == R + [e]pk
	lhs := new(edwards25519.Point).ScalarMult(s, gen)
	rhs := new(edwards25519.Point).ScalarMult(e, pk)
	rhs.Add(rhs, R)
	return lhs.Equal(rhs) == 1
}
