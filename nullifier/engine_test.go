// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package nullifier

import (
	"crypto/rand"
	"testing"

	"github.com/project-tachyon/tachyd/keys"
	"github.com/project-tachyon/tachyd/params"
	"github.com/project-tachyon/tachyd/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomMasterKey(t *testing.T) MasterKey {
	seed := make([]byte, 32)
	_, err := rand.Read(seed)
	require.NoError(t, err)
	sk, err := keys.NewSpendingKey(seed)
	require.NoError(t, err)

	var psi types.NullifierTrapdoor
	_, err = rand.Read(psi[:])
	require.NoError(t, err)

	return NewMasterKey(psi, sk.NullifierKey())
}

func TestNullifierDeterministic(t *testing.T) {
	mk := randomMasterKey(t)

	nf1, err := mk.Nullifier(12345)
	require.NoError(t, err)
	nf2, err := mk.Nullifier(12345)
	require.NoError(t, err)
	assert.Equal(t, nf1, nf2)

	nf3, err := mk.Nullifier(12346)
	require.NoError(t, err)
	assert.NotEqual(t, nf1, nf3)
}

func TestNullifierDomainSeparation(t *testing.T) {
	mk1 := randomMasterKey(t)
	mk2 := randomMasterKey(t)

	nf1, err := mk1.Nullifier(7)
	require.NoError(t, err)
	nf2, err := mk2.Nullifier(7)
	require.NoError(t, err)
	assert.NotEqual(t, nf1, nf2)
}

func TestNullifierEpochBound(t *testing.T) {
	mk := randomMasterKey(t)

	_, err := mk.Nullifier(types.Epoch(params.MaxEpoch))
	assert.NoError(t, err)

	_, err = mk.Nullifier(types.Epoch(params.MaxEpoch) + 1)
	assert.ErrorIs(t, err, ErrInvalidEpoch)
}
