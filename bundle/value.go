// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package bundle

import (
	"crypto/rand"
	"io"

	"github.com/project-tachyon/tachyd/crypto"
	"github.com/project-tachyon/tachyd/types"
)

// CommitmentTrapdoor is the blinding scalar rcv of one value
// commitment. Each action gets a fresh trapdoor; the binding signing
// key is the sum of all trapdoors in a bundle.
type CommitmentTrapdoor struct {
	s *crypto.Scalar
}

// RandomTrapdoor samples a fresh blinding scalar.
func RandomTrapdoor() (*CommitmentTrapdoor, error) {
	var wide [64]byte
	if _, err := io.ReadFull(rand.Reader, wide[:]); err != nil {
		return nil, err
	}
	s := crypto.NewScalar()
	if _, err := s.SetUniformBytes(wide[:]); err != nil {
		return nil, err
	}
	crypto.Zeroize(wide[:])
	return &CommitmentTrapdoor{s: s}, nil
}

// Bytes returns the scalar encoding for use as a proof witness.
func (t *CommitmentTrapdoor) Bytes() []byte {
	return t.s.Bytes()
}

// Zeroize erases the trapdoor.
func (t *CommitmentTrapdoor) Zeroize() {
	crypto.ZeroizeScalar(t.s)
}

// ValueCommitment hides an action's value: cv = [v]V + [rcv]R with v
// signed, positive for spends and negative for outputs. The
// homomorphism sum(cv_i) = [sum(v_i)]V + [sum(rcv_i)]R is what lets a
// single binding signature attest to a bundle's net balance.
type ValueCommitment struct {
	p *crypto.Point
}

// valueScalar lifts a signed amount into the scalar field.
func valueScalar(v types.Amount) *crypto.Scalar {
	mag, neg := v.Abs()
	s := crypto.ScalarFromUint64(mag)
	if neg {
		s.Negate(s)
	}
	return s
}

// Commit computes cv = [v]V + [rcv]R.
func Commit(v types.Amount, rcv *CommitmentTrapdoor) *ValueCommitment {
	cv := crypto.NewIdentityPoint().ScalarMult(valueScalar(v), crypto.GeneratorV())
	blind := crypto.NewIdentityPoint().ScalarMult(rcv.s, crypto.GeneratorR())
	cv.Add(cv, blind)
	return &ValueCommitment{p: cv}
}

// CommitBalance computes the blinding-free commitment [v]V used by
// validators to open the commitment sum at the declared balance.
func CommitBalance(v types.Amount) *ValueCommitment {
	cv := crypto.NewIdentityPoint().ScalarMult(valueScalar(v), crypto.GeneratorV())
	return &ValueCommitment{p: cv}
}

// Add returns cv + other.
func (cv *ValueCommitment) Add(other *ValueCommitment) *ValueCommitment {
	return &ValueCommitment{p: crypto.NewIdentityPoint().Add(cv.p, other.p)}
}

// Sub returns cv - other.
func (cv *ValueCommitment) Sub(other *ValueCommitment) *ValueCommitment {
	return &ValueCommitment{p: crypto.NewIdentityPoint().Subtract(cv.p, other.p)}
}

// Bytes returns the 32-byte compressed encoding.
func (cv *ValueCommitment) Bytes() []byte {
	return cv.p.Bytes()
}

// NewValueCommitmentFromBytes decodes a 32-byte commitment encoding.
func NewValueCommitmentFromBytes(b []byte) (*ValueCommitment, error) {
	p, err := crypto.PointFromBytes(b)
	if err != nil {
		return nil, err
	}
	return &ValueCommitment{p: p}, nil
}

// BindingSigningKey is bsk = sum(rcv_i), the signer's secret opening
// of the bundle's net commitment to zero.
type BindingSigningKey struct {
	bsk *crypto.Scalar
}

// NewBindingSigningKey sums the trapdoors of every action in the
// bundle.
func NewBindingSigningKey(trapdoors []*CommitmentTrapdoor) *BindingSigningKey {
	sum := crypto.NewScalar()
	for _, t := range trapdoors {
		sum.Add(sum, t.s)
	}
	return &BindingSigningKey{bsk: sum}
}

// Sign signs the binding digest with bsk over the randomness
// generator R.
func (k *BindingSigningKey) Sign(digest []byte) crypto.Signature {
	return crypto.Sign(k.bsk, crypto.GeneratorR(), digest)
}

// VerificationKey computes bvk = [bsk]R. The builder compares this
// against the validator-side derivation as an implementation fault
// check before signing.
func (k *BindingSigningKey) VerificationKey() *BindingVerificationKey {
	p := crypto.NewIdentityPoint().ScalarMult(k.bsk, crypto.GeneratorR())
	return &BindingVerificationKey{p: p}
}

// Zeroize erases the key material.
func (k *BindingSigningKey) Zeroize() {
	crypto.ZeroizeScalar(k.bsk)
}

// BindingVerificationKey is bvk = sum(cv_i) - [value_balance]V. When
// the declared balance is honest the V terms cancel and bvk is a pure
// [bsk]R, so a signature under bvk proves the balance opens the
// commitment sum.
type BindingVerificationKey struct {
	p *crypto.Point
}

// DeriveBindingVerificationKey recomputes bvk from public data.
func DeriveBindingVerificationKey(cvs []*ValueCommitment, balance types.Amount) *BindingVerificationKey {
	sum := crypto.NewIdentityPoint()
	for _, cv := range cvs {
		sum.Add(sum, cv.p)
	}
	sum.Subtract(sum, CommitBalance(balance).p)
	return &BindingVerificationKey{p: sum}
}

// Verify reports whether sig is a valid binding signature of digest.
func (k *BindingVerificationKey) Verify(digest []byte, sig crypto.Signature) bool {
	return crypto.Verify(k.p, crypto.GeneratorR(), digest, sig)
}

// Bytes returns the 32-byte compressed encoding.
func (k *BindingVerificationKey) Bytes() []byte {
	return k.p.Bytes()
}
