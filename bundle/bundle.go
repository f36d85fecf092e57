// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

// Package bundle implements transaction bundles: action assembly from
// spend and output requests, the two-phase authorization flow against a
// custody signer, value commitments with the balancing binding
// signature, and the stamped/stripped bundle forms.
//
// A bundle is built in two phases. Phase one assembles the public
// effects of every action (value commitment, verification key,
// tachygram) and derives the effect digest over all of them plus the
// declared balance. Phase two obtains one signature per action over
// that digest from the custody signer, then seals the bundle with the
// binding signature and the stamp proof. Because every signature covers
// the transaction-wide digest, no action can be replayed into another
// bundle.
package bundle

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/project-tachyon/tachyd/accumulator"
	"github.com/project-tachyon/tachyd/crypto"
	"github.com/project-tachyon/tachyd/keys"
	"github.com/project-tachyon/tachyd/params"
	"github.com/project-tachyon/tachyd/params/hash"
	"github.com/project-tachyon/tachyd/types"
	"github.com/project-tachyon/tachyd/zk"
)

const bundleVersion = 0x01

var (
	ErrNoStamp           = errors.New("bundle carries no stamp")
	ErrSignatureCount    = errors.New("signature count does not match action count")
	ErrBalanceMismatch   = errors.New("declared value balance does not match actions")
	ErrBindingFaultCheck = errors.New("binding key fault check failed")
)

// effectHash computes the transaction-wide digest every action
// signature covers: all action effects in order, then the declared
// balance.
func effectHash(effects []*UnsignedAction, balance types.Amount) []byte {
	inputs := make([][]byte, 0, len(effects)+1)
	for _, ua := range effects {
		inputs = append(inputs, ua.Bytes())
	}
	inputs = append(inputs, balance.ToBytes())
	h := hash.Tagged(params.EffectHashTag, inputs...)
	return h[:]
}

// bindingHash computes the binding signature's message: the declared
// balance followed by every action signature in order.
func bindingHash(balance types.Amount, sigs []crypto.Signature) []byte {
	inputs := make([][]byte, 0, len(sigs)+1)
	inputs = append(inputs, balance.ToBytes())
	for _, sig := range sigs {
		inputs = append(inputs, sig.Bytes())
	}
	h := hash.Tagged(params.BindingHashTag, inputs...)
	return h[:]
}

// Plan is an assembled but unsigned bundle: the ordered action
// effects, their tachygrams and proof witnesses, and the commitment
// trapdoors that will form the binding signing key. Plans hold secrets
// and must be zeroized once built or abandoned.
type Plan struct {
	Spends       []*SpendRequest
	Outputs      []*OutputRequest
	ValueBalance types.Amount
	Anchor       types.Anchor

	unsigned   []*UnsignedAction
	tachygrams []types.Tachygram
	witnesses  []*ActionWitness
	trapdoors  []*CommitmentTrapdoor
}

// NewPlan assembles the public effects of every requested spend and
// output. Spends come first, then outputs; this order is fixed and the
// custody signer returns signatures in the same order. Only the proof
// authorizing key is needed here.
func NewPlan(pak *keys.ProofAuthorizingKey, spends []*SpendRequest, outputs []*OutputRequest,
	balance types.Amount, anchor types.Anchor) (*Plan, error) {

	if len(spends)+len(outputs) == 0 {
		return nil, errors.New("plan has no actions")
	}
	if err := balance.CheckValueBalance(); err != nil {
		return nil, err
	}
	if !anchor.Valid() {
		return nil, errors.New("invalid anchor")
	}

	p := &Plan{
		Spends:       spends,
		Outputs:      outputs,
		ValueBalance: balance,
		Anchor:       anchor,
	}

	var net int64
	for _, req := range spends {
		ua, tg, w, rcv, err := assembleSpend(pak, req)
		if err != nil {
			p.Zeroize()
			return nil, err
		}
		p.unsigned = append(p.unsigned, ua)
		p.tachygrams = append(p.tachygrams, tg)
		p.witnesses = append(p.witnesses, w)
		p.trapdoors = append(p.trapdoors, rcv)
		net += int64(req.Note.Value)
	}
	for _, req := range outputs {
		ua, tg, w, rcv, err := assembleOutput(req)
		if err != nil {
			p.Zeroize()
			return nil, err
		}
		p.unsigned = append(p.unsigned, ua)
		p.tachygrams = append(p.tachygrams, tg)
		p.witnesses = append(p.witnesses, w)
		p.trapdoors = append(p.trapdoors, rcv)
		net -= int64(req.Note.Value)
	}

	if types.Amount(net) != balance {
		p.Zeroize()
		return nil, ErrBalanceMismatch
	}
	return p, nil
}

// EffectHash returns the digest the custody signer must sign, derived
// from the assembled effects and the declared balance.
func (p *Plan) EffectHash() []byte {
	return effectHash(p.unsigned, p.ValueBalance)
}

// Actions returns the assembled action effects in signing order.
func (p *Plan) Actions() []*UnsignedAction {
	out := make([]*UnsignedAction, len(p.unsigned))
	copy(out, p.unsigned)
	return out
}

// Build seals the plan into a stamped bundle using the signatures
// returned by custody, in plan order. The binding key is fault-checked
// against the validator-side derivation before anything is signed with
// it, so a corrupted trapdoor surfaces here rather than at validation.
func (p *Plan) Build(sigs []crypto.Signature, prover zk.Prover) (*Bundle, error) {
	if len(sigs) != len(p.unsigned) {
		return nil, ErrSignatureCount
	}

	actions := make([]*Action, len(p.unsigned))
	cvs := make([]*ValueCommitment, len(p.unsigned))
	actionDigests := make([][]byte, len(p.unsigned))
	for i, ua := range p.unsigned {
		actions[i] = &Action{Cv: ua.Cv, Rk: ua.Rk, Sig: sigs[i]}
		cvs[i] = ua.Cv
		actionDigests[i] = ua.Bytes()
	}

	bsk := NewBindingSigningKey(p.trapdoors)
	defer bsk.Zeroize()
	bvk := DeriveBindingVerificationKey(cvs, p.ValueBalance)
	if !bytes.Equal(bsk.VerificationKey().Bytes(), bvk.Bytes()) {
		return nil, ErrBindingFaultCheck
	}
	bindingSig := bsk.Sign(bindingHash(p.ValueBalance, sigs))

	digest := accumulator.NewStampDigest(actionDigests, p.tachygrams, p.Anchor)
	witnesses := make([]zk.Witness, len(p.witnesses))
	for i, w := range p.witnesses {
		witnesses[i] = w
	}
	proof, err := prover.Prove(digest, witnesses)
	if err != nil {
		return nil, err
	}

	tgs := make([]types.Tachygram, len(p.tachygrams))
	for i, tg := range p.tachygrams {
		tgs[i] = tg.Clone()
	}
	return &Bundle{
		Actions:      actions,
		ValueBalance: p.ValueBalance,
		BindingSig:   bindingSig,
		Stamp: &Stamp{
			Tachygrams: tgs,
			Anchor:     p.Anchor,
			Proof:      proof.Compress(),
		},
	}, nil
}

// Zeroize erases the plan's secrets: witnesses and trapdoors.
func (p *Plan) Zeroize() {
	for _, w := range p.witnesses {
		w.Zeroize()
	}
	for _, t := range p.trapdoors {
		t.Zeroize()
	}
}

// Bundle is a sealed transaction bundle. A stamped bundle carries its
// stamp; a stripped bundle is the adjunct form left on chain after the
// stamp has been handed to an aggregator.
type Bundle struct {
	Actions      []*Action
	ValueBalance types.Amount
	BindingSig   crypto.Signature
	Stamp        *Stamp
}

// EffectHash recomputes the transaction-wide digest from the bundle's
// public data.
func (b *Bundle) EffectHash() []byte {
	effects := make([]*UnsignedAction, len(b.Actions))
	for i, a := range b.Actions {
		effects[i] = a.Unsigned()
	}
	return effectHash(effects, b.ValueBalance)
}

// VerifyActionSigs checks every action signature against the bundle's
// effect digest.
func (b *Bundle) VerifyActionSigs() error {
	digest := b.EffectHash()
	for i, a := range b.Actions {
		if !a.Rk.Verify(digest, a.Sig) {
			return fmt.Errorf("action %d signature invalid", i)
		}
	}
	return nil
}

// VerifyBindingSig derives the binding verification key from the value
// commitments and declared balance and checks the binding signature. A
// valid signature proves the commitments sum to the declared balance.
func (b *Bundle) VerifyBindingSig() error {
	if err := b.ValueBalance.CheckValueBalance(); err != nil {
		return err
	}
	cvs := make([]*ValueCommitment, len(b.Actions))
	sigs := make([]crypto.Signature, len(b.Actions))
	for i, a := range b.Actions {
		cvs[i] = a.Cv
		sigs[i] = a.Sig
	}
	bvk := DeriveBindingVerificationKey(cvs, b.ValueBalance)
	if !bvk.Verify(bindingHash(b.ValueBalance, sigs), b.BindingSig) {
		return errors.New("binding signature invalid")
	}
	return nil
}

// VerifySignatures checks the action signatures and the binding
// signature.
func (b *Bundle) VerifySignatures() error {
	if err := b.VerifyActionSigs(); err != nil {
		return err
	}
	return b.VerifyBindingSig()
}

// StampDigest recomputes the digest the bundle's stamp proof is
// expected to attest to, from the public action effects and the
// stamp's tachygram list and anchor.
func (b *Bundle) StampDigest() (*accumulator.StampDigest, error) {
	if b.Stamp == nil {
		return nil, ErrNoStamp
	}
	actionDigests := make([][]byte, len(b.Actions))
	for i, a := range b.Actions {
		actionDigests[i] = a.Unsigned().Bytes()
	}
	return accumulator.NewStampDigest(actionDigests, b.Stamp.Tachygrams, b.Stamp.Anchor), nil
}

// Strip separates the bundle into its adjunct form and its stamp. The
// adjunct retains all signatures and remains independently verifiable;
// the stamp is what aggregators merge. Both returned values are deep
// copies.
func (b *Bundle) Strip() (*Bundle, *Stamp, error) {
	if b.Stamp == nil {
		return nil, nil, ErrNoStamp
	}
	adjunct := &Bundle{
		Actions:      make([]*Action, len(b.Actions)),
		ValueBalance: b.ValueBalance,
		BindingSig:   b.BindingSig,
	}
	for i, a := range b.Actions {
		adjunct.Actions[i] = &Action{Cv: a.Cv, Rk: a.Rk, Sig: a.Sig}
	}
	return adjunct, b.Stamp.Clone(), nil
}

// Serialize returns the canonical bundle encoding:
//
//	version(1) || count(4) || actions || balance(8) || bindingSig(64) ||
//	stampFlag(1) || [stamp]
func (b *Bundle) Serialize() []byte {
	out := []byte{bundleVersion}
	out = binary.BigEndian.AppendUint32(out, uint32(len(b.Actions)))
	for _, a := range b.Actions {
		out = append(out, a.Bytes()...)
	}
	out = append(out, b.ValueBalance.ToBytes()...)
	out = append(out, b.BindingSig[:]...)
	if b.Stamp == nil {
		out = append(out, 0x00)
	} else {
		out = append(out, 0x01)
		out = append(out, b.Stamp.Serialize()...)
	}
	return out
}

// Deserialize decodes a canonical bundle encoding.
func Deserialize(data []byte) (*Bundle, error) {
	if len(data) < 5 {
		return nil, errors.New("bundle truncated")
	}
	if data[0] != bundleVersion {
		return nil, fmt.Errorf("unknown bundle version %d", data[0])
	}
	count := binary.BigEndian.Uint32(data[1:5])
	data = data[5:]

	need := uint64(count)*ActionSize + 8 + params.SignatureSize + 1
	if uint64(len(data)) < need {
		return nil, errors.New("bundle truncated")
	}
	b := &Bundle{Actions: make([]*Action, count)}
	for i := range b.Actions {
		a, err := NewActionFromBytes(data[:ActionSize])
		if err != nil {
			return nil, err
		}
		b.Actions[i] = a
		data = data[ActionSize:]
	}
	balance, err := types.NewAmountFromBytes(data[:8])
	if err != nil {
		return nil, err
	}
	b.ValueBalance = balance
	data = data[8:]
	if err := b.BindingSig.SetBytes(data[:params.SignatureSize]); err != nil {
		return nil, err
	}
	data = data[params.SignatureSize:]

	switch data[0] {
	case 0x00:
		if len(data) != 1 {
			return nil, errors.New("trailing bytes after stripped bundle")
		}
	case 0x01:
		stamp, err := DeserializeStamp(data[1:])
		if err != nil {
			return nil, err
		}
		b.Stamp = stamp
	default:
		return nil, errors.New("invalid stamp flag")
	}
	return b, nil
}
