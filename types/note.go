// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"io"

	"github.com/project-tachyon/tachyd/crypto"
	"github.com/project-tachyon/tachyd/keys"
	"github.com/project-tachyon/tachyd/params"
	"github.com/project-tachyon/tachyd/params/hash"
)

// NullifierTrapdoor is the per-note randomness psi seeding nullifier
// derivation. It need not be globally unique; duplicate-tachygram
// rejection enforces uniqueness externally.
type NullifierTrapdoor [32]byte

func (psi NullifierTrapdoor) Bytes() []byte {
	return psi[:]
}

// Zeroize erases the trapdoor.
func (psi *NullifierTrapdoor) Zeroize() {
	crypto.Zeroize(psi[:])
}

// NoteTrapdoor is the note commitment randomness rcm.
type NoteTrapdoor [32]byte

func (rcm NoteTrapdoor) Bytes() []byte {
	return rcm[:]
}

// RandomTrapdoors samples a fresh (psi, rcm) pair. Both can also be
// derived from a shared key negotiated out of band, in which case the
// wallet layer supplies them directly.
func RandomTrapdoors() (NullifierTrapdoor, NoteTrapdoor, error) {
	var psi NullifierTrapdoor
	var rcm NoteTrapdoor
	if _, err := io.ReadFull(rand.Reader, psi[:]); err != nil {
		return psi, rcm, err
	}
	if _, err := io.ReadFull(rand.Reader, rcm[:]); err != nil {
		return psi, rcm, err
	}
	return psi, rcm, nil
}

// Note is a discrete unit of value in the shielded pool. Created by
// output actions, consumed once by a spend action.
type Note struct {
	Pk    keys.PaymentKey
	Value uint64
	Psi   NullifierTrapdoor
	Rcm   NoteTrapdoor
}

// Validate checks the note's value against the protocol bound.
func (n *Note) Validate() error {
	if n.Value >= params.MaxValueBalance {
		return errors.New("note value exceeds protocol bound")
	}
	return nil
}

// Commitment computes the note commitment cmx, a commitment to
// (pk, value, psi) under the randomness rcm. For output actions the
// commitment is the action's tachygram; for spend actions it is a
// private witness.
func (n *Note) Commitment() Commitment {
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, n.Value)
	h := hash.Keyed(n.Rcm[:], params.NoteCommitDomain, n.Pk.Bytes(), v, n.Psi[:])
	return Commitment(h)
}

// Commitment is a note commitment cmx.
type Commitment [32]byte

func (cm Commitment) Bytes() []byte {
	return cm[:]
}

// Tachygram converts the commitment to its accumulator form.
func (cm Commitment) Tachygram() Tachygram {
	return Tachygram(cm)
}
