// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package nullifier

import (
	"fmt"

	"github.com/project-tachyon/tachyd/crypto"
	"github.com/project-tachyon/tachyd/params"
	"github.com/project-tachyon/tachyd/types"
)

// DelegateKey is the key of one interior tree node: a bounded PRF
// capability. It evaluates the nullifier PRF for every epoch whose bit
// path extends its prefix and is structurally incapable of reaching
// any other epoch. The tree derivation is one way, so delegate keys
// reveal neither mk nor nk.
type DelegateKey struct {
	prefix uint64
	depth  uint
	key    [32]byte
}

// Lo returns the first epoch the key covers.
func (dk *DelegateKey) Lo() types.Epoch {
	return types.Epoch(dk.prefix << (params.GGMTreeDepth - dk.depth))
}

// Hi returns the last epoch the key covers.
func (dk *DelegateKey) Hi() types.Epoch {
	span := uint64(1) << (params.GGMTreeDepth - dk.depth)
	return types.Epoch(dk.prefix<<(params.GGMTreeDepth-dk.depth) + span - 1)
}

// Covers reports whether the epoch lies inside the key's subtree.
func (dk *DelegateKey) Covers(epoch types.Epoch) bool {
	return epoch >= dk.Lo() && epoch <= dk.Hi()
}

// Nullifier evaluates the PRF at the given epoch by walking down from
// the prefix node along the epoch's remaining low bits. Epochs outside
// the subtree are rejected before any derivation work; there is no
// tree path to them from this key.
func (dk *DelegateKey) Nullifier(epoch types.Epoch) (types.Tachygram, error) {
	if !epoch.Valid() {
		return types.Tachygram{}, ErrInvalidEpoch
	}
	if !dk.Covers(epoch) {
		return types.Tachygram{}, ErrDelegationOutOfScope
	}
	rem := params.GGMTreeDepth - dk.depth
	leaf := walk(dk.key, uint64(epoch), rem)
	return types.NewTachygram(leaf[:]), nil
}

// Zeroize erases the key material.
func (dk *DelegateKey) Zeroize() {
	crypto.Zeroize(dk.key[:])
}

// deriveAt computes the node key at the given prefix.
func (mk MasterKey) deriveAt(prefix uint64, depth uint) DelegateKey {
	return DelegateKey{
		prefix: prefix,
		depth:  depth,
		key:    walk([32]byte(mk), prefix, depth),
	}
}

// Delegate returns the delegate key set granting nullifier evaluation
// for every epoch in [0, t] and no epoch beyond t.
func (mk MasterKey) Delegate(t types.Epoch) (*KeySet, error) {
	return mk.DelegateRange(0, t)
}

// DelegateRange returns the delegate key set covering [lo, hi]. When a
// service's usable window advances from t to t', only the delta range
// [t+1, t'] needs new keys; the caller appends them to the set it
// already issued.
//
// The cover is the canonical dyadic decomposition: repeatedly take the
// largest aligned subtree starting at lo that does not overshoot hi.
// It needs at most 2*GGMTreeDepth prefixes, and at most GGMTreeDepth+1
// when lo is zero.
func (mk MasterKey) DelegateRange(lo, hi types.Epoch) (*KeySet, error) {
	if !hi.Valid() || !lo.Valid() {
		return nil, ErrInvalidEpoch
	}
	if lo > hi {
		return nil, fmt.Errorf("invalid delegation range [%d, %d]", lo, hi)
	}

	var dks []DelegateKey
	cursor := uint64(lo)
	end := uint64(hi)
	for cursor <= end {
		// Largest power-of-two block aligned at cursor.
		span := uint64(1) << params.GGMTreeDepth
		for span > 1 && (cursor%span != 0 || cursor+span-1 > end) {
			span >>= 1
		}
		var k uint
		for s := span; s > 1; s >>= 1 {
			k++
		}
		dks = append(dks, mk.deriveAt(cursor>>k, params.GGMTreeDepth-k))
		cursor += span
	}
	return &KeySet{keys: dks}, nil
}

// KeySet is the collection of delegate keys held by a delegated
// service. It answers nullifier queries for exactly the epochs its
// keys cover.
type KeySet struct {
	keys []DelegateKey
}

// Keys returns the delegate keys in the set.
func (ks *KeySet) Keys() []DelegateKey {
	return ks.keys
}

// Bound returns the highest epoch any key in the set covers.
func (ks *KeySet) Bound() types.Epoch {
	var hi types.Epoch
	for i := range ks.keys {
		if h := ks.keys[i].Hi(); h > hi {
			hi = h
		}
	}
	return hi
}

// Extend appends the keys of a delta delegation to the set.
func (ks *KeySet) Extend(delta *KeySet) {
	ks.keys = append(ks.keys, delta.keys...)
}

// Nullifier evaluates the PRF at the given epoch using the covering
// delegate key. Epochs outside every key's subtree are rejected with
// ErrDelegationOutOfScope before any PRF evaluation; this is the
// capability boundary the delegated service enforces.
func (ks *KeySet) Nullifier(epoch types.Epoch) (types.Tachygram, error) {
	if !epoch.Valid() {
		return types.Tachygram{}, ErrInvalidEpoch
	}
	for i := range ks.keys {
		if ks.keys[i].Covers(epoch) {
			return ks.keys[i].Nullifier(epoch)
		}
	}
	return types.Tachygram{}, ErrDelegationOutOfScope
}

// Zeroize erases every key in the set.
func (ks *KeySet) Zeroize() {
	for i := range ks.keys {
		ks.keys[i].Zeroize()
	}
}
