// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package bundle

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/project-tachyon/tachyd/keys"
	"github.com/project-tachyon/tachyd/nullifier"
	"github.com/project-tachyon/tachyd/types"
	"github.com/project-tachyon/tachyd/zk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testWallet struct {
	sk  keys.SpendingKey
	ask *keys.SpendAuthorizingKey
	pak *keys.ProofAuthorizingKey
}

func newTestWallet(t *testing.T) *testWallet {
	seed := make([]byte, 32)
	_, err := rand.Read(seed)
	require.NoError(t, err)
	sk, err := keys.NewSpendingKey(seed)
	require.NoError(t, err)
	return &testWallet{
		sk:  sk,
		ask: sk.SpendAuthorizingKey(),
		pak: sk.ProofAuthorizingKey(),
	}
}

func (w *testWallet) note(t *testing.T, value uint64) types.Note {
	psi, rcm, err := types.RandomTrapdoors()
	require.NoError(t, err)
	return types.Note{Pk: w.sk.PaymentKey(), Value: value, Psi: psi, Rcm: rcm}
}

func spendReq(t *testing.T, note types.Note, epoch types.Epoch) *SpendRequest {
	theta, err := keys.NewActionEntropy()
	require.NoError(t, err)
	return &SpendRequest{Note: note, Theta: theta, Epoch: epoch}
}

func outputReq(t *testing.T, note types.Note) *OutputRequest {
	theta, err := keys.NewActionEntropy()
	require.NoError(t, err)
	return &OutputRequest{Note: note, Theta: theta}
}

// buildTestBundle assembles, authorizes, and seals a bundle spending
// 100 and creating an output of 90 with a fee balance of 10.
func buildTestBundle(t *testing.T, w *testWallet) *Bundle {
	plan, err := NewPlan(w.pak,
		[]*SpendRequest{spendReq(t, w.note(t, 100), 3)},
		[]*OutputRequest{outputReq(t, w.note(t, 90))},
		10, types.NewAnchor(0, 10))
	require.NoError(t, err)

	sigs, err := NewLocalCustody(w.ask).Authorize(context.Background(), plan, plan.EffectHash())
	require.NoError(t, err)

	b, err := plan.Build(sigs, &zk.MockProver{})
	require.NoError(t, err)
	return b
}

func TestBundleLifecycle(t *testing.T) {
	w := newTestWallet(t)
	b := buildTestBundle(t, w)

	require.Len(t, b.Actions, 2)
	require.NotNil(t, b.Stamp)
	require.Len(t, b.Stamp.Tachygrams, 2)

	assert.NoError(t, b.VerifySignatures())

	// The stamp proof matches the digest recomputed from public data.
	digest, err := b.StampDigest()
	require.NoError(t, err)
	proof, err := zk.Decompress(b.Stamp.Proof)
	require.NoError(t, err)
	valid, err := (&zk.MockVerifier{}).Verify(proof, digest)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestPlanRejectsBadBalance(t *testing.T) {
	w := newTestWallet(t)

	// Spend 100, output 90, but declare a balance of 11.
	_, err := NewPlan(w.pak,
		[]*SpendRequest{spendReq(t, w.note(t, 100), 3)},
		[]*OutputRequest{outputReq(t, w.note(t, 90))},
		11, types.NewAnchor(0, 10))
	assert.ErrorIs(t, err, ErrBalanceMismatch)

	_, err = NewPlan(w.pak, nil, nil, 0, types.NewAnchor(0, 10))
	assert.Error(t, err)
}

func TestBalanceMutationBreaksBinding(t *testing.T) {
	w := newTestWallet(t)
	b := buildTestBundle(t, w)
	require.NoError(t, b.VerifyBindingSig())

	b.ValueBalance = 9
	assert.Error(t, b.VerifyBindingSig())

	// Action signatures break too since the digest covers the balance.
	assert.Error(t, b.VerifyActionSigs())
}

func TestActionMutationBreaksSignatures(t *testing.T) {
	w := newTestWallet(t)
	b := buildTestBundle(t, w)

	// Swap in a commitment from a different trapdoor.
	rcv, err := RandomTrapdoor()
	require.NoError(t, err)
	b.Actions[0].Cv = Commit(100, rcv)
	assert.Error(t, b.VerifyActionSigs())
}

func TestSignatureCountMismatch(t *testing.T) {
	w := newTestWallet(t)
	plan, err := NewPlan(w.pak,
		[]*SpendRequest{spendReq(t, w.note(t, 50), 1)},
		nil, 50, types.NewAnchor(0, 5))
	require.NoError(t, err)
	defer plan.Zeroize()

	_, err = plan.Build(nil, &zk.MockProver{})
	assert.ErrorIs(t, err, ErrSignatureCount)
}

func TestStrip(t *testing.T) {
	w := newTestWallet(t)
	b := buildTestBundle(t, w)

	adjunct, stamp, err := b.Strip()
	require.NoError(t, err)
	require.NotNil(t, stamp)
	assert.Nil(t, adjunct.Stamp)

	// The adjunct keeps all signatures and stays verifiable.
	assert.NoError(t, adjunct.VerifySignatures())
	assert.Equal(t, b.EffectHash(), adjunct.EffectHash())

	// Stripping a stripped bundle fails.
	_, _, err = adjunct.Strip()
	assert.ErrorIs(t, err, ErrNoStamp)
}

func TestBundleSerialization(t *testing.T) {
	w := newTestWallet(t)
	b := buildTestBundle(t, w)

	decoded, err := Deserialize(b.Serialize())
	require.NoError(t, err)
	assert.Equal(t, b.Serialize(), decoded.Serialize())
	assert.NoError(t, decoded.VerifySignatures())

	// Stripped form round trips too.
	adjunct, _, err := b.Strip()
	require.NoError(t, err)
	decoded2, err := Deserialize(adjunct.Serialize())
	require.NoError(t, err)
	assert.Nil(t, decoded2.Stamp)
	assert.NoError(t, decoded2.VerifySignatures())

	// Truncation and version garbage fail.
	_, err = Deserialize(b.Serialize()[:10])
	assert.Error(t, err)
	bad := b.Serialize()
	bad[0] = 0x7F
	_, err = Deserialize(bad)
	assert.Error(t, err)
}

// Spend tachygrams must be the note's epoch nullifier and output
// tachygrams the note commitment, positionally aligned with actions.
func TestTachygramDerivation(t *testing.T) {
	w := newTestWallet(t)

	spendNote := w.note(t, 100)
	outNote := w.note(t, 100)
	plan, err := NewPlan(w.pak,
		[]*SpendRequest{spendReq(t, spendNote, 6)},
		[]*OutputRequest{outputReq(t, outNote)},
		0, types.NewAnchor(0, 10))
	require.NoError(t, err)

	sigs, err := NewLocalCustody(w.ask).Authorize(context.Background(), plan, nil)
	require.NoError(t, err)
	b, err := plan.Build(sigs, &zk.MockProver{})
	require.NoError(t, err)

	require.Len(t, b.Stamp.Tachygrams, 2)

	mk := nullifier.NewMasterKey(spendNote.Psi, w.pak.Nk)
	nf, err := mk.Nullifier(6)
	require.NoError(t, err)
	assert.Equal(t, nf, b.Stamp.Tachygrams[0])
	assert.Equal(t, types.Tachygram(outNote.Commitment()), b.Stamp.Tachygrams[1])
	assert.NotEqual(t, b.Stamp.Tachygrams[0], b.Stamp.Tachygrams[1])
}
