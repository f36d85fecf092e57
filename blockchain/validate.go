// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

// Package blockchain implements consensus validation of blocks carrying
// shielded bundles. A block interleaves stamped bundles, stripped
// bundles, and transactions with no shielded component. Each stamped
// bundle opens a validation window: its stamp attests to the stamped
// bundle itself plus every following stripped bundle up to the next
// stamp. The validator scans the block once, associates adjunct data
// with stamps positionally, and checks each window's tachygrams,
// anchor, proof, and signatures.
package blockchain

import (
	"context"
	"fmt"

	"github.com/project-tachyon/tachyd/accumulator"
	"github.com/project-tachyon/tachyd/bundle"
	"github.com/project-tachyon/tachyd/types"
	"github.com/project-tachyon/tachyd/zk"
)

// Block is the slice of a block the shielded protocol sees: the
// epoch the block commits to and its ordered transaction slots. A nil
// slot is a transaction with no shielded component; it neither opens
// nor joins a window.
type Block struct {
	Epoch   types.Epoch
	Bundles []*bundle.Bundle
}

// window is one stamp and the bundles it attests to, in block order.
type window struct {
	stamp   *bundle.Stamp
	bundles []*bundle.Bundle
}

// Validator checks blocks against the consensus rules.
type Validator struct {
	verifier   zk.Verifier
	tachySet   *TachygramSet
	checkSpent bool
}

// NewValidator builds a validator from the provided options.
func NewValidator(opts ...Option) (*Validator, error) {
	var cfg config
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Validator{
		verifier:   cfg.verifier,
		tachySet:   cfg.tachygramSet,
		checkSpent: cfg.tachygramSet != nil,
	}, nil
}

// ValidateBlock checks every consensus rule for the block: window
// association, anchor range, tachygram uniqueness and freshness, stamp
// proofs, and all signatures. It does not mutate any state. Signature
// checks run as one parallel pass over the whole block after the
// window checks; every rule is fatal, so batching them does not change
// which blocks are accepted.
func (v *Validator) ValidateBlock(blk *Block) error {
	windows, err := scanWindows(blk)
	if err != nil {
		return err
	}

	seen := make(map[types.Tachygram]struct{})
	var all []*bundle.Bundle
	for _, w := range windows {
		if err := v.validateWindow(w, blk.Epoch, seen); err != nil {
			return err
		}
		all = append(all, w.bundles...)
	}

	return NewSigValidator().Validate(all)
}

// ConnectBlock validates the block and, on success, atomically records
// its tachygrams as spent.
func (v *Validator) ConnectBlock(blk *Block) error {
	if err := v.ValidateBlock(blk); err != nil {
		return err
	}
	if v.tachySet == nil {
		return AssertError("ConnectBlock: no tachygram set configured")
	}

	ctx := context.Background()
	dbtx, err := v.tachySet.ds.NewTransaction(ctx, false)
	if err != nil {
		return err
	}
	defer dbtx.Discard(ctx)

	var tgs []types.Tachygram
	for _, b := range blk.Bundles {
		if b == nil || b.Stamp == nil {
			continue
		}
		tgs = append(tgs, b.Stamp.Tachygrams...)
	}
	if err := v.tachySet.AddTachygrams(dbtx, tgs); err != nil {
		return err
	}
	if err := dbtx.Commit(ctx); err != nil {
		return err
	}
	log.Debug("Connected block", log.Args("epoch", blk.Epoch, "tachygrams", len(tgs)))
	return nil
}

// scanWindows walks the block once and groups bundles into validation
// windows. A stamped bundle opens a window even when it carries no
// actions of its own, which is how an aggregated stamp rides into a
// block on a carrier slot ahead of its stripped adjuncts. A stripped
// bundle appearing before any stamp has nothing to attest to it and
// fails immediately. Slots with neither actions nor a stamp are
// skipped like nil entries.
func scanWindows(blk *Block) ([]*window, error) {
	var windows []*window
	var cur *window
	for i, b := range blk.Bundles {
		if b == nil {
			continue
		}
		if len(b.Actions) == 0 && b.Stamp == nil {
			continue
		}
		if b.Stamp != nil {
			cur = &window{stamp: b.Stamp, bundles: []*bundle.Bundle{b}}
			windows = append(windows, cur)
			continue
		}
		if cur == nil {
			return nil, ruleError(ErrOrphanBundle, fmt.Sprintf("stripped bundle %d precedes any stamp", i))
		}
		cur.bundles = append(cur.bundles, b)
	}
	return windows, nil
}

// validateWindow checks one stamp against the bundles it covers. seen
// carries tachygrams from earlier windows in the same block so a
// double spend across windows is caught too.
func (v *Validator) validateWindow(w *window, epoch types.Epoch, seen map[types.Tachygram]struct{}) error {
	actionCount := 0
	for _, b := range w.bundles {
		actionCount += len(b.Actions)
	}
	if len(w.stamp.Tachygrams) > actionCount {
		return ruleError(ErrUnsupportedBonusTachygrams,
			fmt.Sprintf("stamp carries %d tachygrams for %d actions", len(w.stamp.Tachygrams), actionCount))
	}
	if len(w.stamp.Tachygrams) < actionCount {
		return ruleError(ErrTachygramCountMismatch,
			fmt.Sprintf("stamp carries %d tachygrams for %d actions", len(w.stamp.Tachygrams), actionCount))
	}

	if !w.stamp.Anchor.Valid() {
		return ruleError(ErrMalformedBundle, "invalid anchor "+w.stamp.Anchor.String())
	}
	if !w.stamp.Anchor.Contains(epoch) {
		return ruleError(ErrAnchorOutOfRange,
			fmt.Sprintf("epoch %d outside anchor %s", epoch, w.stamp.Anchor))
	}

	for _, tg := range w.stamp.Tachygrams {
		if _, ok := seen[tg]; ok {
			return ruleError(ErrDuplicateTachygram, "duplicate tachygram "+tg.String())
		}
		seen[tg] = struct{}{}
		if v.checkSpent {
			exists, err := v.tachySet.Exists(tg)
			if err != nil {
				return err
			}
			if exists {
				return ruleError(ErrDuplicateTachygram, "tachygram already spent "+tg.String())
			}
		}
	}

	var actionDigests [][]byte
	for _, b := range w.bundles {
		for _, a := range b.Actions {
			actionDigests = append(actionDigests, a.Unsigned().Bytes())
		}
	}
	digest := accumulator.NewStampDigest(actionDigests, w.stamp.Tachygrams, w.stamp.Anchor)

	proof, err := zk.Decompress(w.stamp.Proof)
	if err != nil {
		return ruleError(ErrMalformedBundle, "stamp proof does not decode: "+err.Error())
	}
	valid, err := v.verifier.Verify(proof, digest)
	if err != nil {
		return err
	}
	if !valid {
		return ruleError(ErrProofVerificationFailed, "stamp proof verification failed")
	}
	return nil
}
