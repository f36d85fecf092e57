// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

// Package nullifier derives double-spend markers through a constrained
// PRF organized as a fixed-depth binary delegation tree.
//
// The per-note master key mk = KDF(psi, nk) roots the tree. A leaf,
// addressed by the bits of an epoch, is the note's nullifier for that
// epoch:
//
//	mk ──bit 31──> node ──bit 30──> ... ──bit 0──> nf
//
// Any interior node is a capability: whoever holds it can evaluate
// every leaf in its subtree and no leaf outside it. Delegating "all
// epochs up to t" hands over the minimal set of subtree keys covering
// [0, t] rather than mk itself, so an untrusted sync service can watch
// for spends without gaining the ability to derive future nullifiers.
//
// Node derivation is a pure function of (parent key, bit); the tree is
// never materialized.
package nullifier

import (
	"errors"

	"github.com/project-tachyon/tachyd/crypto"
	"github.com/project-tachyon/tachyd/keys"
	"github.com/project-tachyon/tachyd/params"
	"github.com/project-tachyon/tachyd/params/hash"
	"github.com/project-tachyon/tachyd/types"
)

// ErrDelegationOutOfScope is returned when a nullifier is requested
// for an epoch beyond a delegate key's bound. The delegate holder must
// reject such requests before any PRF evaluation is attempted.
var ErrDelegationOutOfScope = errors.New("epoch is outside the delegated range")

// ErrInvalidEpoch is returned for epochs outside the tree's address
// space.
var ErrInvalidEpoch = errors.New("epoch exceeds the delegation tree depth")

// MasterKey is the per-note PRF root mk = KDF(psi, nk). It is derived
// on demand by the note owner, never persisted or transmitted.
type MasterKey [32]byte

// NewMasterKey derives mk from the note's nullifier trapdoor and the
// wallet's nullifier key.
func NewMasterKey(psi types.NullifierTrapdoor, nk keys.NullifierKey) MasterKey {
	return MasterKey(hash.Keyed(nk.Bytes(), params.NullifierDomain, psi.Bytes()))
}

// Zeroize erases the key material.
func (mk *MasterKey) Zeroize() {
	crypto.Zeroize(mk[:])
}

// childKey derives one tree edge. bit must be 0 or 1.
func childKey(parent [32]byte, bit byte) [32]byte {
	return hash.Keyed(parent[:], params.NullifierDomain, []byte{bit})
}

// walk descends from node along the bits of path, most significant of
// the n low bits first.
func walk(node [32]byte, path uint64, n uint) [32]byte {
	for i := int(n) - 1; i >= 0; i-- {
		node = childKey(node, byte((path>>uint(i))&1))
	}
	return node
}

// Nullifier evaluates the PRF at the given epoch: the leaf reached by
// walking the full depth of the tree along the epoch's bits. The same
// (psi, nk, epoch) always yields the same tachygram.
func (mk MasterKey) Nullifier(epoch types.Epoch) (types.Tachygram, error) {
	if !epoch.Valid() {
		return types.Tachygram{}, ErrInvalidEpoch
	}
	leaf := walk([32]byte(mk), uint64(epoch), params.GGMTreeDepth)
	return types.NewTachygram(leaf[:]), nil
}
