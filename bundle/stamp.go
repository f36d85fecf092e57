// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package bundle

import (
	"encoding/binary"
	"errors"

	"github.com/project-tachyon/tachyd/types"
)

// Stamp is the provable core of one or more bundles: the tachygram
// list in action order, the anchor the proof is valid against, and the
// compressed recursive proof. Stamps merge; the adjunct data they are
// stripped from does not.
type Stamp struct {
	Tachygrams []types.Tachygram
	Anchor     types.Anchor
	Proof      []byte
}

// Clone performs a deep copy of the stamp.
func (s *Stamp) Clone() *Stamp {
	tgs := make([]types.Tachygram, len(s.Tachygrams))
	for i, tg := range s.Tachygrams {
		tgs[i] = tg.Clone()
	}
	proof := make([]byte, len(s.Proof))
	copy(proof, s.Proof)
	return &Stamp{
		Tachygrams: tgs,
		Anchor:     s.Anchor,
		Proof:      proof,
	}
}

// Serialize returns the canonical stamp encoding:
//
//	count(4) || tachygrams || anchor(16) || proofLen(4) || proof
func (s *Stamp) Serialize() []byte {
	b := make([]byte, 0, 4+len(s.Tachygrams)*types.TachygramSize+types.AnchorSize+4+len(s.Proof))
	b = binary.BigEndian.AppendUint32(b, uint32(len(s.Tachygrams)))
	for _, tg := range s.Tachygrams {
		b = append(b, tg.Bytes()...)
	}
	b = append(b, s.Anchor.Bytes()...)
	b = binary.BigEndian.AppendUint32(b, uint32(len(s.Proof)))
	b = append(b, s.Proof...)
	return b
}

// DeserializeStamp decodes a canonical stamp encoding.
func DeserializeStamp(data []byte) (*Stamp, error) {
	if len(data) < 4 {
		return nil, errors.New("stamp truncated")
	}
	count := binary.BigEndian.Uint32(data[:4])
	data = data[4:]
	if uint64(len(data)) < uint64(count)*types.TachygramSize+types.AnchorSize+4 {
		return nil, errors.New("stamp truncated")
	}
	tgs := make([]types.Tachygram, count)
	for i := range tgs {
		tgs[i] = types.NewTachygram(data[:types.TachygramSize])
		data = data[types.TachygramSize:]
	}
	anchor, err := types.NewAnchorFromBytes(data[:types.AnchorSize])
	if err != nil {
		return nil, err
	}
	data = data[types.AnchorSize:]
	proofLen := binary.BigEndian.Uint32(data[:4])
	data = data[4:]
	if uint64(len(data)) != uint64(proofLen) {
		return nil, errors.New("stamp proof length mismatch")
	}
	proof := make([]byte, proofLen)
	copy(proof, data)
	return &Stamp{Tachygrams: tgs, Anchor: anchor, Proof: proof}, nil
}
