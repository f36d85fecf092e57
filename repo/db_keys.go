// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package repo

const (
	// TachygramKeyPrefix is the datastore key prefix for storing spent
	// tachygrams in the tachygram set.
	TachygramKeyPrefix = "/tachyd/tachygram/"
	// EpochKeyPrefix is the datastore key prefix for storing the node's
	// view of the current epoch.
	EpochKeyPrefix = "/tachyd/epoch/"
	// BlockKeyPrefix is the datastore key prefix for storing blocks by
	// block ID.
	BlockKeyPrefix = "/tachyd/block/"
)
