// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"testing"

	"github.com/project-tachyon/tachyd/keys"
	"github.com/project-tachyon/tachyd/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteCommitment(t *testing.T) {
	psi, rcm, err := RandomTrapdoors()
	require.NoError(t, err)

	var pk keys.PaymentKey
	copy(pk[:], []byte("payment key bytes for note test "))

	note := Note{Pk: pk, Value: 42_000, Psi: psi, Rcm: rcm}
	require.NoError(t, note.Validate())

	cm1 := note.Commitment()
	cm2 := note.Commitment()
	assert.Equal(t, cm1, cm2)

	// Any field change moves the commitment.
	n2 := note
	n2.Value = 42_001
	assert.NotEqual(t, cm1, n2.Commitment())

	n3 := note
	n3.Psi[0] ^= 0x01
	assert.NotEqual(t, cm1, n3.Commitment())

	n4 := note
	n4.Rcm[0] ^= 0x01
	assert.NotEqual(t, cm1, n4.Commitment())
}

func TestNoteValidate(t *testing.T) {
	psi, rcm, err := RandomTrapdoors()
	require.NoError(t, err)

	note := Note{Value: params.MaxValueBalance, Psi: psi, Rcm: rcm}
	assert.Error(t, note.Validate())

	note.Value = params.MaxValueBalance - 1
	assert.NoError(t, note.Validate())
}

func TestAmountBounds(t *testing.T) {
	assert.NoError(t, Amount(0).CheckValueBalance())
	assert.NoError(t, Amount(-5000).CheckValueBalance())
	assert.Error(t, Amount(params.MaxValueBalance).CheckValueBalance())
	assert.Error(t, Amount(-params.MaxValueBalance).CheckValueBalance())

	a, err := NewAmountFromBytes(Amount(-77).ToBytes())
	require.NoError(t, err)
	assert.Equal(t, Amount(-77), a)
}
