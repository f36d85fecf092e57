// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

// Package aggregator merges the stamps of independent bundles into a
// single stamp whose recursive proof attests to all of them. Merging is
// untrusted work: the aggregator holds no key material and cannot forge
// a stamp for effects it did not receive, so any party (a miner, a
// relay, the wallet itself) can aggregate.
package aggregator

import (
	"context"
	"errors"

	"github.com/project-tachyon/tachyd/bundle"
	"github.com/project-tachyon/tachyd/types"
	"github.com/project-tachyon/tachyd/zk"
)

var (
	// ErrNothingToMerge is returned when fewer than one stamped bundle
	// is supplied.
	ErrNothingToMerge = errors.New("no stamped bundles to aggregate")

	// ErrAnchorsDisjoint is returned when two stamps have no common
	// anchor epoch. The merged stamp would be unacceptable at every
	// epoch, so the merge is refused.
	ErrAnchorsDisjoint = errors.New("stamp anchors do not overlap")
)

// Aggregator folds stamps together using a proof merger.
type Aggregator struct {
	merger zk.Merger
}

// NewAggregator returns an aggregator using the given proof merger.
func NewAggregator(merger zk.Merger) *Aggregator {
	return &Aggregator{merger: merger}
}

// MergeStamps merges two stamps: tachygram lists concatenate in order,
// anchors intersect, and the proofs merge recursively. Duplicate
// tachygrams are carried through deliberately; the merged proof then
// attests to a multiset no valid block can contain, and validation
// rejects it. Filtering duplicates here would silently drop a double
// spend instead of surfacing it.
func (ag *Aggregator) MergeStamps(left, right *bundle.Stamp) (*bundle.Stamp, error) {
	anchor, err := left.Anchor.Intersect(right.Anchor)
	if err != nil {
		if errors.Is(err, types.ErrEmptyIntersection) {
			return nil, ErrAnchorsDisjoint
		}
		return nil, err
	}

	lp, err := zk.Decompress(left.Proof)
	if err != nil {
		return nil, err
	}
	rp, err := zk.Decompress(right.Proof)
	if err != nil {
		return nil, err
	}
	merged, err := ag.merger.Merge(lp, rp)
	if err != nil {
		return nil, err
	}

	tgs := make([]types.Tachygram, 0, len(left.Tachygrams)+len(right.Tachygrams))
	for _, tg := range left.Tachygrams {
		tgs = append(tgs, tg.Clone())
	}
	for _, tg := range right.Tachygrams {
		tgs = append(tgs, tg.Clone())
	}

	return &bundle.Stamp{
		Tachygrams: tgs,
		Anchor:     anchor,
		Proof:      merged.Compress(),
	}, nil
}

// Aggregate strips each stamped bundle and folds all stamps into one.
// The returned adjunct bundles are in input order; the first adjunct's
// slot is where the merged stamp belongs when the batch is placed in a
// block. The context is checked between merges so a large batch can be
// abandoned.
func (ag *Aggregator) Aggregate(ctx context.Context, bundles []*bundle.Bundle) ([]*bundle.Bundle, *bundle.Stamp, error) {
	if len(bundles) == 0 {
		return nil, nil, ErrNothingToMerge
	}

	adjuncts := make([]*bundle.Bundle, len(bundles))
	var acc *bundle.Stamp
	for i, b := range bundles {
		adjunct, stamp, err := b.Strip()
		if err != nil {
			return nil, nil, err
		}
		adjuncts[i] = adjunct

		if acc == nil {
			acc = stamp
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		acc, err = ag.MergeStamps(acc, stamp)
		if err != nil {
			return nil, nil, err
		}
	}

	log.Debug("Aggregated stamps", log.Args("bundles", len(bundles), "tachygrams", len(acc.Tachygrams)))
	return adjuncts, acc, nil
}
