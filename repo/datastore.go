// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package repo

import (
	"github.com/ipfs/go-datastore"
	badger "github.com/ipfs/go-ds-badger"
)

// Datastore is the persistence interface used throughout the node. The
// transactional methods matter here: tachygram set updates for a block
// must land atomically or not at all.
type Datastore interface {
	datastore.Datastore
	datastore.Batching
	datastore.PersistentDatastore
	datastore.TxnDatastore
}

// NewBadgerDatastore opens or creates a badger-backed datastore at
// dataDir.
func NewBadgerDatastore(dataDir string) (Datastore, error) {
	opts := &badger.DefaultOptions
	opts.MaxTableSize = 256 << 20
	return badger.NewDatastore(dataDir, opts)
}
