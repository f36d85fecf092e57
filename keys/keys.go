// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

// Package keys implements the key hierarchy. All long-lived key
// material derives from a single 32-byte spending key through a
// domain-separated expansion function; per-action keys are produced by
// randomizing the long-lived keys with a derived randomizer.
//
//	sk ─┬─> ask ──> ak        spend authorization (secret / public)
//	    ├─> nk                nullifier derivation
//	    └─> pk                payment key (recipient identifier)
//	    ak + nk ──> pak       proof authorizing key
//
// The long-lived keys never sign or verify directly. Each action uses
// rsk = ask + alpha and rk = ak + [alpha]G (or rsk = alpha, rk =
// [alpha]G for outputs), making spends and outputs indistinguishable
// on the wire.
package keys

import (
	"errors"

	"github.com/project-tachyon/tachyd/crypto"
	"github.com/project-tachyon/tachyd/params"
	"github.com/project-tachyon/tachyd/params/hash"
)

var ErrInvalidSeed = errors.New("spending key seed must be 32 bytes")

// SpendingKey is the root secret. It never leaves its holder; all
// other keys derive from it.
type SpendingKey [params.SpendingKeySize]byte

// NewSpendingKey validates and copies a 32-byte seed.
func NewSpendingKey(seed []byte) (SpendingKey, error) {
	if len(seed) != params.SpendingKeySize {
		return SpendingKey{}, ErrInvalidSeed
	}
	var sk SpendingKey
	copy(sk[:], seed)
	return sk, nil
}

// prfExpand is the domain-separated key expansion: a tagged 64-byte
// hash of the spending key and a single-byte child tag, wide enough
// for unbiased reduction into the scalar field.
func prfExpand(sk *SpendingKey, t byte) [64]byte {
	return hash.Tagged(params.PRFExpandTag, sk[:], []byte{t})
}

// SpendAuthorizingKey derives ask. The scalar is sign-normalized so
// that the derived ak always has canonical sign bit zero: if the
// freshly computed ak encodes with the sign bit set, ask is negated
// once at derivation time, before ak is ever exposed. The operation is
// idempotent.
func (sk *SpendingKey) SpendAuthorizingKey() *SpendAuthorizingKey {
	expanded := prfExpand(sk, params.TagAsk)
	ask := crypto.NewScalar()
	if _, err := ask.SetUniformBytes(expanded[:]); err != nil {
		panic(err)
	}
	crypto.Zeroize(expanded[:])

	ak := crypto.NewIdentityPoint().ScalarBaseMult(ask)
	if crypto.SignBit(ak) == 1 {
		ask.Negate(ask)
	}
	return &SpendAuthorizingKey{ask: ask}
}

// NullifierKey derives nk, the root material for nullifier
// derivation. nk alone confers no spend authority.
func (sk *SpendingKey) NullifierKey() NullifierKey {
	expanded := prfExpand(sk, params.TagNk)
	defer crypto.Zeroize(expanded[:])
	s := crypto.NewScalar()
	if _, err := s.SetUniformBytes(expanded[:]); err != nil {
		panic(err)
	}
	defer crypto.ZeroizeScalar(s)
	var nk NullifierKey
	copy(nk[:], s.Bytes())
	return nk
}

// PaymentKey derives pk, the recipient identifier committed to in
// notes. It is deterministic per spending key; unlinkability between
// payments is the wallet layer's concern, not the core protocol's.
func (sk *SpendingKey) PaymentKey() PaymentKey {
	expanded := prfExpand(sk, params.TagPk)
	defer crypto.Zeroize(expanded[:])
	s := crypto.NewScalar()
	if _, err := s.SetUniformBytes(expanded[:]); err != nil {
		panic(err)
	}
	defer crypto.ZeroizeScalar(s)
	var pk PaymentKey
	copy(pk[:], s.Bytes())
	return pk
}

// ProofAuthorizingKey derives pak = (ak, nk): everything needed to
// construct proofs and derive nullifiers without signing capability.
func (sk *SpendingKey) ProofAuthorizingKey() *ProofAuthorizingKey {
	return &ProofAuthorizingKey{
		Ak: sk.SpendAuthorizingKey().ValidatingKey(),
		Nk: sk.NullifierKey(),
	}
}

// SpendAuthorizingKey is the long-lived signing scalar ask. It cannot
// sign directly; it must first be randomized into a per-action signing
// key.
type SpendAuthorizingKey struct {
	ask *crypto.Scalar
}

// ValidatingKey computes ak = [ask]G.
func (k *SpendAuthorizingKey) ValidatingKey() *SpendValidatingKey {
	ak := crypto.NewIdentityPoint().ScalarBaseMult(k.ask)
	return &SpendValidatingKey{ak: ak}
}

// Randomize produces the per-action signing key rsk = ask + alpha.
func (k *SpendAuthorizingKey) Randomize(alpha *ActionRandomizer) *ActionSigningKey {
	rsk := crypto.NewScalar().Add(k.ask, alpha.s)
	return &ActionSigningKey{rsk: rsk}
}

// Zeroize erases the key material.
func (k *SpendAuthorizingKey) Zeroize() {
	crypto.ZeroizeScalar(k.ask)
}

// SpendValidatingKey is ak = [ask]G, the public counterpart of ask.
// Its canonical sign bit is always zero. It cannot verify action
// signatures directly; it must first be randomized into a per-action
// verification key.
type SpendValidatingKey struct {
	ak *crypto.Point
}

// Randomize produces the per-action verification key rk = ak +
// [alpha]G. Only public material is needed, so an assembling device
// without ask can construct unsigned actions.
func (k *SpendValidatingKey) Randomize(alpha *ActionRandomizer) *ActionVerificationKey {
	rk := crypto.NewIdentityPoint().ScalarBaseMult(alpha.s)
	rk.Add(rk, k.ak)
	return &ActionVerificationKey{rk: rk}
}

// Bytes returns the 32-byte compressed encoding of ak.
func (k *SpendValidatingKey) Bytes() []byte {
	return k.ak.Bytes()
}

// NewSpendValidatingKey decodes a 32-byte ak encoding. Encodings with
// a nonzero canonical sign bit are rejected; a conforming deriver
// never produces one.
func NewSpendValidatingKey(b []byte) (*SpendValidatingKey, error) {
	p, err := crypto.PointFromBytes(b)
	if err != nil {
		return nil, err
	}
	if crypto.SignBit(p) != 0 {
		return nil, errors.New("spend validating key has non-canonical sign bit")
	}
	return &SpendValidatingKey{ak: p}, nil
}

// ActionSigningKey is the per-action, ephemeral signing key
// rsk = ask + alpha (spends) or rsk = alpha (outputs). It is the only
// key in the hierarchy that can sign.
type ActionSigningKey struct {
	rsk *crypto.Scalar
}

// Sign signs the digest with rsk over the base generator.
func (k *ActionSigningKey) Sign(digest []byte) crypto.Signature {
	return crypto.Sign(k.rsk, crypto.GeneratorG(), digest)
}

// VerificationKey computes rk = [rsk]G.
func (k *ActionSigningKey) VerificationKey() *ActionVerificationKey {
	rk := crypto.NewIdentityPoint().ScalarBaseMult(k.rsk)
	return &ActionVerificationKey{rk: rk}
}

// Zeroize erases the key material.
func (k *ActionSigningKey) Zeroize() {
	crypto.ZeroizeScalar(k.rsk)
}

// ActionVerificationKey is the per-action public key rk. It verifies
// exactly one action's signature; a fresh alpha per action keeps rk
// unlinkable to ak.
type ActionVerificationKey struct {
	rk *crypto.Point
}

// Verify reports whether sig is a valid signature of digest by rk.
func (k *ActionVerificationKey) Verify(digest []byte, sig crypto.Signature) bool {
	return crypto.Verify(k.rk, crypto.GeneratorG(), digest, sig)
}

// Bytes returns the 32-byte compressed encoding of rk.
func (k *ActionVerificationKey) Bytes() []byte {
	return k.rk.Bytes()
}

// NewActionVerificationKey decodes a 32-byte rk encoding.
func NewActionVerificationKey(b []byte) (*ActionVerificationKey, error) {
	p, err := crypto.PointFromBytes(b)
	if err != nil {
		return nil, err
	}
	return &ActionVerificationKey{rk: p}, nil
}

// NullifierKey is nk, the secret root material for the nullifier PRF.
type NullifierKey [32]byte

func (nk NullifierKey) Bytes() []byte {
	return nk[:]
}

// Zeroize erases the key material.
func (nk *NullifierKey) Zeroize() {
	crypto.Zeroize(nk[:])
}

// PaymentKey is pk, the recipient identifier. It appears inside notes
// and note commitments but never on chain.
type PaymentKey [32]byte

func (pk PaymentKey) Bytes() []byte {
	return pk[:]
}

// ProofAuthorizingKey bundles the capabilities needed for delegated
// proof construction: ak to derive rk values and nk to derive
// nullifiers. It cannot sign.
type ProofAuthorizingKey struct {
	Ak *SpendValidatingKey
	Nk NullifierKey
}
