// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package keys

import (
	"crypto/rand"
	"io"

	"github.com/project-tachyon/tachyd/crypto"
	"github.com/project-tachyon/tachyd/params"
)

// ActionEntropy is the per-action randomness seed theta. The party
// that samples theta can later reconstruct the action's randomizer
// from (theta, commitment) alone, so a signing device holding only
// (ask, theta) and a proving device holding (theta, commitment) can
// work independently without either learning the other's secrets.
type ActionEntropy [32]byte

// NewActionEntropy samples fresh per-action entropy.
func NewActionEntropy() (ActionEntropy, error) {
	var theta ActionEntropy
	if _, err := io.ReadFull(rand.Reader, theta[:]); err != nil {
		return ActionEntropy{}, err
	}
	return theta, nil
}

// Zeroize erases the entropy. Callers must erase theta on every exit
// path once their role in the action is complete.
func (theta *ActionEntropy) Zeroize() {
	crypto.Zeroize(theta[:])
}

// SpendRandomizer derives the spend-side randomizer
// alpha = ToScalar(H(theta || cmx || roleSpend)).
func (theta *ActionEntropy) SpendRandomizer(cmx []byte) *ActionRandomizer {
	return deriveRandomizer(theta, cmx, params.RoleSpend)
}

// OutputRandomizer derives the output-side randomizer
// alpha = ToScalar(H(theta || cmx || roleOutput)).
func (theta *ActionEntropy) OutputRandomizer(cmx []byte) *ActionRandomizer {
	return deriveRandomizer(theta, cmx, params.RoleOutput)
}

func deriveRandomizer(theta *ActionEntropy, cmx []byte, role byte) *ActionRandomizer {
	s := crypto.HashToScalar(params.AlphaTag, theta[:], cmx, []byte{role})
	return &ActionRandomizer{s: s}
}

// ActionRandomizer is the derived per-action randomizer alpha,
// domain-separated by role. It is ephemeral: discarded after signing
// except where retained as a proof witness by the assembling party.
type ActionRandomizer struct {
	s *crypto.Scalar
}

// SigningKey returns the output-side signing key rsk = alpha.
func (a *ActionRandomizer) SigningKey() *ActionSigningKey {
	rsk := crypto.NewScalar().Add(crypto.NewScalar(), a.s)
	return &ActionSigningKey{rsk: rsk}
}

// VerificationKey returns the output-side verification key
// rk = [alpha]G.
func (a *ActionRandomizer) VerificationKey() *ActionVerificationKey {
	rk := crypto.NewIdentityPoint().ScalarBaseMult(a.s)
	return &ActionVerificationKey{rk: rk}
}

// Bytes returns the scalar encoding for use as a proof witness.
func (a *ActionRandomizer) Bytes() []byte {
	return a.s.Bytes()
}

// Zeroize erases the randomizer.
func (a *ActionRandomizer) Zeroize() {
	crypto.ZeroizeScalar(a.s)
}
