// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package accumulator

import (
	"github.com/project-tachyon/tachyd/types"
)

// StampDigest is the public value a stamp's proof is computed over:
// one accumulator over the action public digests, one over the
// tachygrams, and the anchor window. It is never transmitted; a
// verifier reconstructs it from the visible action list and tachygram
// list and checks the proof against the reconstruction.
type StampDigest struct {
	ActionsAcc   *Multiset
	TachygramAcc *Multiset
	Anchor       types.Anchor
}

// NewStampDigest folds the given action digests and tachygrams into a
// fresh digest.
func NewStampDigest(actionDigests [][]byte, tachygrams []types.Tachygram, anchor types.Anchor) *StampDigest {
	d := &StampDigest{
		ActionsAcc:   NewMultiset(),
		TachygramAcc: NewMultiset(),
		Anchor:       anchor,
	}
	for _, ad := range actionDigests {
		d.ActionsAcc.Add(ad)
	}
	for _, tg := range tachygrams {
		d.TachygramAcc.Add(tg.Bytes())
	}
	return d
}

// Bytes returns the canonical digest encoding handed to the proof
// system: both accumulator hashes followed by the anchor.
func (d *StampDigest) Bytes() []byte {
	out := make([]byte, 0, 32+32+types.AnchorSize)
	aa := d.ActionsAcc.Hash()
	ta := d.TachygramAcc.Hash()
	out = append(out, aa.Bytes()...)
	out = append(out, ta.Bytes()...)
	out = append(out, d.Anchor.Bytes()...)
	return out
}

// Equal reports whether two digests are identical.
func (d *StampDigest) Equal(other *StampDigest) bool {
	return d.ActionsAcc.Equal(other.ActionsAcc) &&
		d.TachygramAcc.Equal(other.TachygramAcc) &&
		d.Anchor == other.Anchor
}
