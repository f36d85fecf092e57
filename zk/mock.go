// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package zk

import (
	"errors"
	"sync"

	"github.com/project-tachyon/tachyd/accumulator"
	"github.com/project-tachyon/tachyd/types"
)

// mockPayloadSize is two 64-byte accumulator states plus the anchor.
const mockPayloadSize = 64 + 64 + types.AnchorSize

// MockProver is a mock implementation of the Prover interface. It
// does not produce a real proof; instead the proof payload carries the
// accumulator states and anchor of the digest it was asked to attest
// to, which lets MockMerger and MockVerifier reproduce the real
// system's algebra (commutative accumulator combination, digest
// matching) without a circuit.
type MockProver struct{}

// Prove creates a mock proof bound to the digest.
func (m *MockProver) Prove(digest *accumulator.StampDigest, witnesses []Witness) (*Proof, error) {
	for _, w := range witnesses {
		if _, err := w.MarshalWitness(); err != nil {
			return nil, err
		}
	}
	return NewProof(encodeMockPayload(digest)), nil
}

// MockMerger merges two mock proofs by adding their accumulator
// states and intersecting their anchors, mirroring what the real
// recursive merge attests to.
type MockMerger struct{}

// Merge combines two mock proofs.
func (m *MockMerger) Merge(left, right *Proof) (*Proof, error) {
	l, err := decodeMockPayload(left.Payload())
	if err != nil {
		return nil, err
	}
	r, err := decodeMockPayload(right.Payload())
	if err != nil {
		return nil, err
	}

	anchor, err := l.Anchor.Intersect(r.Anchor)
	if err != nil {
		return nil, err
	}
	l.ActionsAcc.Combine(r.ActionsAcc)
	l.TachygramAcc.Combine(r.TachygramAcc)
	l.Anchor = anchor

	return NewProof(encodeMockPayload(l)), nil
}

// MockVerifier is a mock implementation of the Verifier interface. It
// checks that the digest embedded in the mock proof matches the digest
// the caller reconstructed, which is exactly the property the real
// verify call enforces. A forced validity value can be set for tests
// exercising failure paths.
type MockVerifier struct {
	forced *bool
	mtx    sync.RWMutex
}

// Verify checks the proof against the reconstructed digest.
func (m *MockVerifier) Verify(proof *Proof, digest *accumulator.StampDigest) (bool, error) {
	m.mtx.RLock()
	forced := m.forced
	m.mtx.RUnlock()
	if forced != nil {
		return *forced, nil
	}

	embedded, err := decodeMockPayload(proof.Payload())
	if err != nil {
		return false, err
	}
	return embedded.Equal(digest), nil
}

// SetValid forces the result of all subsequent Verify calls.
func (m *MockVerifier) SetValid(valid bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.forced = &valid
}

func encodeMockPayload(digest *accumulator.StampDigest) []byte {
	out := make([]byte, 0, mockPayloadSize)
	out = append(out, digest.ActionsAcc.Bytes()...)
	out = append(out, digest.TachygramAcc.Bytes()...)
	out = append(out, digest.Anchor.Bytes()...)
	return out
}

func decodeMockPayload(payload []byte) (*accumulator.StampDigest, error) {
	if len(payload) != mockPayloadSize {
		return nil, errors.New("malformed mock proof payload")
	}
	aa, err := accumulator.NewMultisetFromBytes(payload[:64])
	if err != nil {
		return nil, err
	}
	ta, err := accumulator.NewMultisetFromBytes(payload[64:128])
	if err != nil {
		return nil, err
	}
	anchor, err := types.NewAnchorFromBytes(payload[128:])
	if err != nil {
		return nil, err
	}
	return &accumulator.StampDigest{
		ActionsAcc:   aa,
		TachygramAcc: ta,
		Anchor:       anchor,
	}, nil
}
