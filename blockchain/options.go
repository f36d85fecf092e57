// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/project-tachyon/tachyd/repo"
	"github.com/project-tachyon/tachyd/repo/mock"
	"github.com/project-tachyon/tachyd/zk"
)

const (
	DefaultMaxTachygrams = 100000
)

// DefaultOptions returns a validator configure option that fills in
// the default settings. The defaults use an in-memory datastore and the
// mock verifier; production nodes override both.
func DefaultOptions() Option {
	return func(cfg *config) error {
		ds := mock.NewMapDatastore()
		cfg.datastore = ds
		cfg.verifier = &zk.MockVerifier{}
		cfg.tachygramSet = NewTachygramSet(ds, DefaultMaxTachygrams)
		return nil
	}
}

// Option is a configuration option function for the validator.
type Option func(cfg *config) error

// Datastore is an implementation of the repo.Datastore interface.
//
// This option is required.
func Datastore(ds repo.Datastore) Option {
	return func(cfg *config) error {
		cfg.datastore = ds
		cfg.tachygramSet = NewTachygramSet(ds, DefaultMaxTachygrams)
		return nil
	}
}

// Verifier sets the proof verifier used to check stamp proofs.
//
// This option is required.
func Verifier(verifier zk.Verifier) Option {
	return func(cfg *config) error {
		cfg.verifier = verifier
		return nil
	}
}

// MaxTachygrams is the maximum amount of tachygram entries to hold in
// memory for fast access.
func MaxTachygrams(maxTachygrams uint) Option {
	return func(cfg *config) error {
		if cfg.datastore == nil {
			return AssertError("MaxTachygrams: datastore must be set first")
		}
		cfg.tachygramSet = NewTachygramSet(cfg.datastore, maxTachygrams)
		return nil
	}
}

// config specifies the validator configuration.
type config struct {
	datastore    repo.Datastore
	verifier     zk.Verifier
	tachygramSet *TachygramSet
}

func (cfg *config) validate() error {
	if cfg == nil {
		return AssertError("NewValidator: config cannot be nil")
	}
	if cfg.verifier == nil {
		return AssertError("NewValidator: verifier cannot be nil")
	}
	if cfg.datastore == nil {
		return AssertError("NewValidator: datastore cannot be nil")
	}
	return nil
}
