// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package zk

import (
	"errors"
)

// proofVersion prefixes every compressed proof encoding.
const proofVersion = 0x01

// Proof is a decompressed proof, the form required for merging. The
// compressed state is the []byte wire encoding produced by Compress;
// Decompress parses it back. Compressing a proof and decompressing it
// again is exact.
type Proof struct {
	payload []byte
}

// NewProof wraps a raw decompressed payload. Only proof system
// implementations should call this.
func NewProof(payload []byte) *Proof {
	return &Proof{payload: payload}
}

// Payload exposes the raw payload to proof system implementations.
func (p *Proof) Payload() []byte {
	return p.payload
}

// Compress returns the immutable wire encoding of the proof.
func (p *Proof) Compress() []byte {
	out := make([]byte, 0, 1+len(p.payload))
	out = append(out, proofVersion)
	out = append(out, p.payload...)
	return out
}

// Decompress parses a compressed proof encoding into the mutable
// representation used for merging.
func Decompress(b []byte) (*Proof, error) {
	if len(b) < 1 {
		return nil, errors.New("empty proof encoding")
	}
	if b[0] != proofVersion {
		return nil, errors.New("unknown proof encoding version")
	}
	payload := make([]byte, len(b)-1)
	copy(payload, b[1:])
	return &Proof{payload: payload}, nil
}
