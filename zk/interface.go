// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

// Package zk defines the capability surface of the external recursive
// proof system. The core consumes proofs as an opaque capability:
// create, verify, merge, compress, decompress. Nothing in this module
// constructs circuits.
package zk

import (
	"github.com/project-tachyon/tachyd/accumulator"
)

// Witness is the private input for one action's proof step. The
// concrete layout is owned by the proof system; the core only
// marshals it across the boundary.
type Witness interface {
	// MarshalWitness serializes the witness for the prover.
	MarshalWitness() ([]byte, error)
}

// Prover is an interface to the proof system's prove function.
type Prover interface {
	// Prove creates a proof that the witnesses are consistent with
	// the public digest. The returned proof is decompressed.
	Prove(digest *accumulator.StampDigest, witnesses []Witness) (*Proof, error)
}

// Verifier is an interface to the proof system's verify function.
type Verifier interface {
	// Verify checks the proof against the public digest the verifier
	// reconstructed from visible data. A proof only verifies against
	// the digest it was computed over.
	Verify(proof *Proof, digest *accumulator.StampDigest) (bool, error)
}

// Merger is an interface to the proof system's recursive merge
// function.
type Merger interface {
	// Merge combines two proofs into one attesting to the union of
	// their statements.
	Merge(left, right *Proof) (*Proof, error)
}
