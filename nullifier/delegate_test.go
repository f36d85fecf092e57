// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package nullifier

import (
	"testing"

	"github.com/project-tachyon/tachyd/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A delegate set for [0, t] must evaluate every epoch up to and
// including t to the same value the master key produces, and must
// structurally reject everything past t.
func TestDelegateBoundary(t *testing.T) {
	mk := randomMasterKey(t)
	const bound = types.Epoch(5)

	ks, err := mk.Delegate(bound)
	require.NoError(t, err)
	assert.Equal(t, bound, ks.Bound())

	for e := types.Epoch(0); e <= bound; e++ {
		want, err := mk.Nullifier(e)
		require.NoError(t, err)
		got, err := ks.Nullifier(e)
		require.NoError(t, err)
		assert.Equal(t, want, got, "epoch %d", e)
	}

	for e := bound + 1; e <= bound+10; e++ {
		_, err := ks.Nullifier(e)
		assert.ErrorIs(t, err, ErrDelegationOutOfScope, "epoch %d", e)
	}
}

// The dyadic cover for [0, 5] is the two subtrees 0-3 and 4-5.
func TestDelegateCoverShape(t *testing.T) {
	mk := randomMasterKey(t)

	ks, err := mk.Delegate(5)
	require.NoError(t, err)
	keys := ks.Keys()
	require.Len(t, keys, 2)
	assert.Equal(t, types.Epoch(0), keys[0].Lo())
	assert.Equal(t, types.Epoch(3), keys[0].Hi())
	assert.Equal(t, types.Epoch(4), keys[1].Lo())
	assert.Equal(t, types.Epoch(5), keys[1].Hi())

	// A power-of-two bound minus one is a single subtree.
	ks2, err := mk.Delegate(7)
	require.NoError(t, err)
	require.Len(t, ks2.Keys(), 1)
	assert.Equal(t, types.Epoch(0), ks2.Keys()[0].Lo())
	assert.Equal(t, types.Epoch(7), ks2.Keys()[0].Hi())
}

func TestDelegateRangeAndExtend(t *testing.T) {
	mk := randomMasterKey(t)

	ks, err := mk.Delegate(9)
	require.NoError(t, err)

	// Advance the window to 14 with a delta delegation.
	delta, err := mk.DelegateRange(10, 14)
	require.NoError(t, err)
	ks.Extend(delta)
	assert.Equal(t, types.Epoch(14), ks.Bound())

	for e := types.Epoch(0); e <= 14; e++ {
		want, err := mk.Nullifier(e)
		require.NoError(t, err)
		got, err := ks.Nullifier(e)
		require.NoError(t, err)
		assert.Equal(t, want, got, "epoch %d", e)
	}
	_, err = ks.Nullifier(15)
	assert.ErrorIs(t, err, ErrDelegationOutOfScope)

	// Degenerate and inverted ranges.
	single, err := mk.DelegateRange(21, 21)
	require.NoError(t, err)
	want, err := mk.Nullifier(21)
	require.NoError(t, err)
	got, err := single.Nullifier(21)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = mk.DelegateRange(5, 3)
	assert.Error(t, err)
}

// A delegate key must not leak evaluations outside its subtree even
// when asked directly.
func TestDelegateKeyScope(t *testing.T) {
	mk := randomMasterKey(t)

	ks, err := mk.DelegateRange(8, 11)
	require.NoError(t, err)
	require.Len(t, ks.Keys(), 1)
	dk := ks.Keys()[0]

	assert.True(t, dk.Covers(8))
	assert.True(t, dk.Covers(11))
	assert.False(t, dk.Covers(7))
	assert.False(t, dk.Covers(12))

	_, err = dk.Nullifier(12)
	assert.ErrorIs(t, err, ErrDelegationOutOfScope)
}
