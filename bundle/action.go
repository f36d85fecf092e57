// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package bundle

import (
	"encoding/binary"
	"errors"

	"github.com/project-tachyon/tachyd/crypto"
	"github.com/project-tachyon/tachyd/keys"
	"github.com/project-tachyon/tachyd/nullifier"
	"github.com/project-tachyon/tachyd/params"
	"github.com/project-tachyon/tachyd/types"
)

const (
	// UnsignedActionSize is the serialized size of an action's public
	// effects: the value commitment followed by the verification key.
	UnsignedActionSize = params.PointSize * 2

	// ActionSize is the serialized size of a signed action.
	ActionSize = UnsignedActionSize + params.SignatureSize
)

// UnsignedAction is the public effect of one spend or output: a value
// commitment and a one-time verification key. Spends and outputs are
// indistinguishable at this layer.
type UnsignedAction struct {
	Cv *ValueCommitment
	Rk *keys.ActionVerificationKey
}

// Bytes returns the canonical cv || rk encoding. This encoding is also
// the action's contribution to the stamp's action accumulator; the
// signature is deliberately excluded so the stamp commits to effects,
// not to adjunct authorization data.
func (ua *UnsignedAction) Bytes() []byte {
	b := make([]byte, 0, UnsignedActionSize)
	b = append(b, ua.Cv.Bytes()...)
	b = append(b, ua.Rk.Bytes()...)
	return b
}

// Action is a signed action: the unsigned effects plus the spend
// authorization signature over the bundle's effect digest.
type Action struct {
	Cv  *ValueCommitment
	Rk  *keys.ActionVerificationKey
	Sig crypto.Signature
}

// Unsigned returns the action's public effects.
func (a *Action) Unsigned() *UnsignedAction {
	return &UnsignedAction{Cv: a.Cv, Rk: a.Rk}
}

// Bytes returns the canonical cv || rk || sig encoding.
func (a *Action) Bytes() []byte {
	b := make([]byte, 0, ActionSize)
	b = append(b, a.Cv.Bytes()...)
	b = append(b, a.Rk.Bytes()...)
	b = append(b, a.Sig[:]...)
	return b
}

// NewActionFromBytes decodes a 128-byte action encoding.
func NewActionFromBytes(b []byte) (*Action, error) {
	if len(b) != ActionSize {
		return nil, errors.New("action must be 128 bytes")
	}
	cv, err := NewValueCommitmentFromBytes(b[:params.PointSize])
	if err != nil {
		return nil, err
	}
	rk, err := keys.NewActionVerificationKey(b[params.PointSize:UnsignedActionSize])
	if err != nil {
		return nil, err
	}
	a := &Action{Cv: cv, Rk: rk}
	if err := a.Sig.SetBytes(b[UnsignedActionSize:]); err != nil {
		return nil, err
	}
	return a, nil
}

// SpendRequest describes one note to consume. Epoch selects which
// nullifier of the note's delegation tree becomes the tachygram.
type SpendRequest struct {
	Note  types.Note
	Theta keys.ActionEntropy
	Epoch types.Epoch
}

// OutputRequest describes one note to create. The note commitment
// itself is the action's tachygram.
type OutputRequest struct {
	Note  types.Note
	Theta keys.ActionEntropy
}

// ActionWitness is the private data backing one action's membership in
// a stamp proof: the randomizer tying rk to the key hierarchy, the
// commitment trapdoor opening cv, and the note whose nullifier or
// commitment is the tachygram.
type ActionWitness struct {
	Alpha     []byte
	Rcv       []byte
	Tachygram types.Tachygram
	Note      types.Note
}

// MarshalWitness encodes the witness for the proving system.
func (w *ActionWitness) MarshalWitness() ([]byte, error) {
	if len(w.Alpha) != 32 || len(w.Rcv) != 32 {
		return nil, errors.New("witness scalars must be 32 bytes")
	}
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, w.Note.Value)
	b := make([]byte, 0, 32*5+8)
	b = append(b, w.Alpha...)
	b = append(b, w.Rcv...)
	b = append(b, w.Tachygram.Bytes()...)
	b = append(b, w.Note.Pk.Bytes()...)
	b = append(b, v...)
	b = append(b, w.Note.Psi.Bytes()...)
	return b, nil
}

// Zeroize erases the witness secrets.
func (w *ActionWitness) Zeroize() {
	crypto.Zeroize(w.Alpha)
	crypto.Zeroize(w.Rcv)
	w.Note.Psi.Zeroize()
}

// assembleSpend builds the unsigned action, tachygram, and witness for
// one spend. Only pak is needed; the signing key is never touched here.
func assembleSpend(pak *keys.ProofAuthorizingKey, req *SpendRequest) (*UnsignedAction, types.Tachygram, *ActionWitness, *CommitmentTrapdoor, error) {
	if err := req.Note.Validate(); err != nil {
		return nil, types.Tachygram{}, nil, nil, err
	}
	cmx := req.Note.Commitment()

	alpha := req.Theta.SpendRandomizer(cmx.Bytes())
	rk := pak.Ak.Randomize(alpha)

	rcv, err := RandomTrapdoor()
	if err != nil {
		return nil, types.Tachygram{}, nil, nil, err
	}
	cv := Commit(types.Amount(req.Note.Value), rcv)

	mk := nullifier.NewMasterKey(req.Note.Psi, pak.Nk)
	nf, err := mk.Nullifier(req.Epoch)
	mk.Zeroize()
	if err != nil {
		alpha.Zeroize()
		rcv.Zeroize()
		return nil, types.Tachygram{}, nil, nil, err
	}

	witness := &ActionWitness{
		Alpha:     alpha.Bytes(),
		Rcv:       rcv.Bytes(),
		Tachygram: nf,
		Note:      req.Note,
	}
	alpha.Zeroize()
	return &UnsignedAction{Cv: cv, Rk: rk}, nf, witness, rcv, nil
}

// assembleOutput builds the unsigned action, tachygram, and witness for
// one output. The verification key is [alpha]G with no long-lived
// component, so output authorization needs no custody round trip.
func assembleOutput(req *OutputRequest) (*UnsignedAction, types.Tachygram, *ActionWitness, *CommitmentTrapdoor, error) {
	if err := req.Note.Validate(); err != nil {
		return nil, types.Tachygram{}, nil, nil, err
	}
	cmx := req.Note.Commitment()

	alpha := req.Theta.OutputRandomizer(cmx.Bytes())
	rk := alpha.VerificationKey()

	rcv, err := RandomTrapdoor()
	if err != nil {
		alpha.Zeroize()
		return nil, types.Tachygram{}, nil, nil, err
	}
	cv := Commit(-types.Amount(req.Note.Value), rcv)

	tg := cmx.Tachygram()
	witness := &ActionWitness{
		Alpha:     alpha.Bytes(),
		Rcv:       rcv.Bytes(),
		Tachygram: tg,
		Note:      req.Note,
	}
	alpha.Zeroize()
	return &UnsignedAction{Cv: cv, Rk: rk}, tg, witness, rcv, nil
}
