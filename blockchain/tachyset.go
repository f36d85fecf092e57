// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blockchain

import (
	"context"
	"sync"

	datastore "github.com/ipfs/go-datastore"
	"github.com/project-tachyon/tachyd/repo"
	"github.com/project-tachyon/tachyd/types"
)

// TachygramSet provides cached access to the spent tachygram database.
type TachygramSet struct {
	ds            repo.Datastore
	cachedEntries map[types.Tachygram]bool
	maxEntries    uint
	mtx           sync.RWMutex
}

// NewTachygramSet returns a new TachygramSet. maxEntries controls how
// much memory is used for cache purposes.
func NewTachygramSet(ds repo.Datastore, maxEntries uint) *TachygramSet {
	return &TachygramSet{
		ds:            ds,
		cachedEntries: make(map[types.Tachygram]bool),
		maxEntries:    maxEntries,
		mtx:           sync.RWMutex{},
	}
}

// Exists returns whether or not the tachygram has already been spent.
// If the entry is cached we'll return from memory, otherwise we have to
// check the disk.
//
// After determining if the tachygram exists we'll update the cache with
// the value so a later block validation doesn't need to hit the disk a
// second time.
func (ts *TachygramSet) Exists(tachygram types.Tachygram) (bool, error) {
	ts.mtx.Lock()
	defer ts.mtx.Unlock()

	exists, ok := ts.cachedEntries[tachygram]
	if ok {
		return exists, nil
	}

	exists, err := dsTachygramExists(ts.ds, tachygram)
	if err != nil {
		return false, err
	}

	if ts.maxEntries <= 0 {
		return exists, nil
	}

	ts.limitCache(1)
	ts.cachedEntries[tachygram] = exists
	return exists, nil
}

// AddTachygrams adds the tachygrams to the database using the provided
// database transaction. There is no caching of these writes as the
// entries will never be deleted or mutated so we have to incur the
// write penalty at some point.
func (ts *TachygramSet) AddTachygrams(dbtx datastore.Txn, tachygrams []types.Tachygram) error {
	ts.mtx.Lock()
	defer ts.mtx.Unlock()

	// We're just going to delete the cached entry here rather than
	// update the cache. It's unlikely we'll need to check the tachygram
	// again after adding it (this would only happen in a double spend),
	// and we want to avoid holding an incorrect value in the cache in
	// case rollback was called on the database transaction.
	for _, tg := range tachygrams {
		delete(ts.cachedEntries, tg)
	}

	return dsPutTachygrams(dbtx, tachygrams)
}

func (ts *TachygramSet) limitCache(newEntries int) {
	// If adding this new entry will put us over the max number of allowed
	// entries, then evict an entry.
	i := 0
	if uint(len(ts.cachedEntries)+newEntries) > ts.maxEntries {
		// Remove a random entry from the map. Relying on the random
		// starting point of Go's map iteration. The iteration order
		// isn't important here; in order to manipulate which items are
		// evicted, an adversary would need preimage attacks on the
		// hashing function to start eviction at a specific entry.
		for tg := range ts.cachedEntries {
			delete(ts.cachedEntries, tg)
			i++
			if i >= newEntries {
				break
			}
		}
	}
}

func dsTachygramExists(ds repo.Datastore, tachygram types.Tachygram) (bool, error) {
	return ds.Has(context.Background(), datastore.NewKey(repo.TachygramKeyPrefix+tachygram.String()))
}

func dsPutTachygrams(dbtx datastore.Txn, tachygrams []types.Tachygram) error {
	for _, tg := range tachygrams {
		if err := dbtx.Put(context.Background(), datastore.NewKey(repo.TachygramKeyPrefix+tg.String()), []byte{}); err != nil {
			return err
		}
	}
	return nil
}
