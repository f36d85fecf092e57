// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package accumulator

import (
	"testing"

	"github.com/project-tachyon/tachyd/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultisetOrderIndependence(t *testing.T) {
	a, b, c := []byte("element a"), []byte("element b"), []byte("element c")

	m1 := NewMultiset()
	m1.Add(a)
	m1.Add(b)
	m1.Add(c)

	m2 := NewMultiset()
	m2.Add(c)
	m2.Add(a)
	m2.Add(b)

	assert.True(t, m1.Equal(m2))
	assert.Equal(t, m1.Hash(), m2.Hash())
}

func TestMultisetMultiplicity(t *testing.T) {
	a, b := []byte("element a"), []byte("element b")

	once := NewMultiset()
	once.Add(a)
	once.Add(b)

	twice := NewMultiset()
	twice.Add(a)
	twice.Add(b)
	twice.Add(b)

	// A duplicate element must change the accumulator. This is what
	// makes a double spend hidden in a merged stamp detectable.
	assert.False(t, once.Equal(twice))
	assert.NotEqual(t, once.Hash(), twice.Hash())
}

func TestMultisetCombine(t *testing.T) {
	a, b := []byte("element a"), []byte("element b")

	left := NewMultiset()
	left.Add(a)
	right := NewMultiset()
	right.Add(b)
	left.Combine(right)

	both := NewMultiset()
	both.Add(a)
	both.Add(b)
	assert.True(t, left.Equal(both))

	// Combining with an empty multiset is the identity.
	left.Combine(NewMultiset())
	assert.True(t, left.Equal(both))
}

func TestMultisetSerialization(t *testing.T) {
	m := NewMultiset()
	m.Add([]byte("element"))

	decoded, err := NewMultisetFromBytes(m.Bytes())
	require.NoError(t, err)
	assert.True(t, m.Equal(decoded))

	// Empty multiset round trips too.
	empty, err := NewMultisetFromBytes(NewMultiset().Bytes())
	require.NoError(t, err)
	assert.True(t, empty.Equal(NewMultiset()))

	_, err = NewMultisetFromBytes([]byte{0x01})
	assert.Error(t, err)
}

func TestStampDigest(t *testing.T) {
	actions := [][]byte{[]byte("action one"), []byte("action two")}
	tgs := []types.Tachygram{
		types.NewTachygram(make([]byte, types.TachygramSize)),
	}
	anchor := types.NewAnchor(5, 10)

	d1 := NewStampDigest(actions, tgs, anchor)
	d2 := NewStampDigest(actions, tgs, anchor)
	assert.True(t, d1.Equal(d2))
	assert.Equal(t, d1.Bytes(), d2.Bytes())

	// Reordered actions accumulate to the same digest; the accumulator
	// is a multiset, ordering is enforced positionally elsewhere.
	d3 := NewStampDigest([][]byte{actions[1], actions[0]}, tgs, anchor)
	assert.True(t, d1.Equal(d3))

	// Any content change moves the digest.
	d4 := NewStampDigest(actions, tgs, types.NewAnchor(5, 11))
	assert.False(t, d1.Equal(d4))

	d5 := NewStampDigest(actions[:1], tgs, anchor)
	assert.False(t, d1.Equal(d5))
}
