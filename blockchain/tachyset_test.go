// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blockchain

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/project-tachyon/tachyd/repo/mock"
	"github.com/project-tachyon/tachyd/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomTachygram(t *testing.T) types.Tachygram {
	b := make([]byte, types.TachygramSize)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return types.NewTachygram(b)
}

func TestTachygramSet(t *testing.T) {
	ds := mock.NewMapDatastore()
	ts := NewTachygramSet(ds, 100)

	tg := randomTachygram(t)
	exists, err := ts.Exists(tg)
	require.NoError(t, err)
	assert.False(t, exists)

	dbtx, err := ds.NewTransaction(context.Background(), false)
	require.NoError(t, err)
	require.NoError(t, ts.AddTachygrams(dbtx, []types.Tachygram{tg}))
	require.NoError(t, dbtx.Commit(context.Background()))

	exists, err = ts.Exists(tg)
	require.NoError(t, err)
	assert.True(t, exists)

	// A second set over the same datastore sees the write.
	ts2 := NewTachygramSet(ds, 100)
	exists, err = ts2.Exists(tg)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestTachygramSetDiscardedTxn(t *testing.T) {
	ds := mock.NewMapDatastore()
	ts := NewTachygramSet(ds, 100)

	tg := randomTachygram(t)
	dbtx, err := ds.NewTransaction(context.Background(), false)
	require.NoError(t, err)
	require.NoError(t, ts.AddTachygrams(dbtx, []types.Tachygram{tg}))
	dbtx.Discard(context.Background())

	exists, err := ts.Exists(tg)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTachygramSetCacheLimit(t *testing.T) {
	ds := mock.NewMapDatastore()
	ts := NewTachygramSet(ds, 2)

	for i := 0; i < 10; i++ {
		_, err := ts.Exists(randomTachygram(t))
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, len(ts.cachedEntries), 3)
}
