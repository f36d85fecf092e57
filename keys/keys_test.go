// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package keys

import (
	"crypto/rand"
	"testing"

	"github.com/project-tachyon/tachyd/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomSpendingKey(t *testing.T) SpendingKey {
	seed := make([]byte, 32)
	_, err := rand.Read(seed)
	require.NoError(t, err)
	sk, err := NewSpendingKey(seed)
	require.NoError(t, err)
	return sk
}

func TestNewSpendingKey(t *testing.T) {
	_, err := NewSpendingKey(make([]byte, 31))
	assert.ErrorIs(t, err, ErrInvalidSeed)
	_, err = NewSpendingKey(make([]byte, 33))
	assert.ErrorIs(t, err, ErrInvalidSeed)
	_, err = NewSpendingKey(make([]byte, 32))
	assert.NoError(t, err)
}

// Derivation must normalize ask so that ak always encodes with a zero
// sign bit, for every seed. Run enough random seeds that both the
// already-canonical and the negated branch are exercised.
func TestDerivationSignNormalization(t *testing.T) {
	for i := 0; i < 64; i++ {
		sk := randomSpendingKey(t)
		ak := sk.SpendAuthorizingKey().ValidatingKey()
		assert.Equal(t, byte(0), ak.Bytes()[31]>>7)

		// Normalized ask must still be the discrete log of ak.
		_, err := NewSpendValidatingKey(ak.Bytes())
		assert.NoError(t, err)
	}
}

func TestDerivationDeterministic(t *testing.T) {
	sk := randomSpendingKey(t)

	ak1 := sk.SpendAuthorizingKey().ValidatingKey()
	ak2 := sk.SpendAuthorizingKey().ValidatingKey()
	assert.Equal(t, ak1.Bytes(), ak2.Bytes())

	assert.Equal(t, sk.NullifierKey(), sk.NullifierKey())
	assert.Equal(t, sk.PaymentKey(), sk.PaymentKey())

	// The three children must be pairwise distinct.
	assert.NotEqual(t, sk.NullifierKey().Bytes(), sk.PaymentKey().Bytes())
	assert.NotEqual(t, ak1.Bytes(), sk.NullifierKey().Bytes())
}

func TestRandomizedSigning(t *testing.T) {
	sk := randomSpendingKey(t)
	ask := sk.SpendAuthorizingKey()
	ak := ask.ValidatingKey()

	theta, err := NewActionEntropy()
	require.NoError(t, err)
	cmx := []byte("note commitment stand-in bytes!!")

	alpha := theta.SpendRandomizer(cmx)
	rsk := ask.Randomize(alpha)
	rk := ak.Randomize(alpha)

	// rk derived from public data must match [rsk]G.
	assert.Equal(t, rk.Bytes(), rsk.VerificationKey().Bytes())

	digest := []byte("effect digest")
	sig := rsk.Sign(digest)
	assert.True(t, rk.Verify(digest, sig))

	// The unrandomized ak must not verify the randomized signature.
	bareAk, err := NewActionVerificationKey(ak.Bytes())
	require.NoError(t, err)
	assert.False(t, bareAk.Verify(digest, sig))

	// A different commitment yields an unlinkable rk.
	alpha2 := theta.SpendRandomizer([]byte("a different note commitment!!!!!"))
	rk2 := ak.Randomize(alpha2)
	assert.NotEqual(t, rk.Bytes(), rk2.Bytes())
}

func TestOutputRandomizer(t *testing.T) {
	theta, err := NewActionEntropy()
	require.NoError(t, err)
	cmx := []byte("output note commitment bytes!!!!")

	alpha := theta.OutputRandomizer(cmx)
	rsk := alpha.SigningKey()
	rk := alpha.VerificationKey()

	assert.Equal(t, rk.Bytes(), rsk.VerificationKey().Bytes())

	digest := []byte("effect digest")
	assert.True(t, rk.Verify(digest, rsk.Sign(digest)))

	// Spend and output roles must derive distinct randomizers from the
	// same entropy and commitment.
	assert.NotEqual(t, alpha.Bytes(), theta.SpendRandomizer(cmx).Bytes())
}

func TestSpendValidatingKeyDecode(t *testing.T) {
	sk := randomSpendingKey(t)
	ak := sk.SpendAuthorizingKey().ValidatingKey()

	decoded, err := NewSpendValidatingKey(ak.Bytes())
	require.NoError(t, err)
	assert.Equal(t, ak.Bytes(), decoded.Bytes())

	// Flip the sign bit. The point may or may not decode, but it must
	// never be accepted.
	bad := make([]byte, 32)
	copy(bad, ak.Bytes())
	bad[31] |= 0x80
	_, err = NewSpendValidatingKey(bad)
	assert.Error(t, err)
}

func TestZeroize(t *testing.T) {
	sk := randomSpendingKey(t)
	nk := sk.NullifierKey()
	nk.Zeroize()
	assert.Equal(t, make([]byte, 32), nk.Bytes())

	theta, err := NewActionEntropy()
	require.NoError(t, err)
	theta.Zeroize()
	assert.Equal(t, ActionEntropy{}, theta)

	ask := sk.SpendAuthorizingKey()
	ask.Zeroize()
	assert.Equal(t, crypto.NewScalar().Bytes(), ask.ask.Bytes())
}
