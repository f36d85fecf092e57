// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package bundle

import (
	"bytes"
	"context"
	"errors"

	"github.com/cenkalti/backoff/v4"
	"github.com/project-tachyon/tachyd/crypto"
	"github.com/project-tachyon/tachyd/keys"
)

var (
	// ErrCustodyUnavailable reports a transient custody failure. It is
	// the only custody error AuthorizeWithRetry retries.
	ErrCustodyUnavailable = errors.New("custody signer unavailable")

	// ErrDigestMismatch reports that the caller's expected effect digest
	// does not match the one custody recomputed from the plan. It means
	// the plan was altered between assembly and signing.
	ErrDigestMismatch = errors.New("effect digest does not match plan")
)

// Custody produces one spend authorization signature per plan action.
// Implementations must recompute the effect digest from the plan
// itself rather than sign a digest handed to them, so a compromised
// assembler cannot substitute a foreign message. When expectedDigest is
// non-nil the custody side additionally checks its recomputed digest
// against it and refuses to sign on mismatch.
type Custody interface {
	Authorize(ctx context.Context, plan *Plan, expectedDigest []byte) ([]crypto.Signature, error)
}

// LocalCustody signs with an in-process spend authorizing key. It is
// the degenerate custody arrangement where assembler and signer share a
// device; remote implementations follow the same contract.
type LocalCustody struct {
	ask *keys.SpendAuthorizingKey
}

// NewLocalCustody wraps a spend authorizing key as a custody signer.
func NewLocalCustody(ask *keys.SpendAuthorizingKey) *LocalCustody {
	return &LocalCustody{ask: ask}
}

// Authorize recomputes the effect digest from the plan and signs it
// once per action, spends with rsk = ask + alpha and outputs with
// rsk = alpha. Randomizers and per-action keys are erased on every
// path out.
func (lc *LocalCustody) Authorize(ctx context.Context, plan *Plan, expectedDigest []byte) ([]crypto.Signature, error) {
	digest := effectHash(plan.unsigned, plan.ValueBalance)
	if expectedDigest != nil && !bytes.Equal(digest, expectedDigest) {
		return nil, ErrDigestMismatch
	}

	sigs := make([]crypto.Signature, 0, len(plan.Spends)+len(plan.Outputs))
	for _, req := range plan.Spends {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cmx := req.Note.Commitment()
		alpha := req.Theta.SpendRandomizer(cmx.Bytes())
		rsk := lc.ask.Randomize(alpha)
		sigs = append(sigs, rsk.Sign(digest))
		rsk.Zeroize()
		alpha.Zeroize()
	}
	for _, req := range plan.Outputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cmx := req.Note.Commitment()
		alpha := req.Theta.OutputRandomizer(cmx.Bytes())
		rsk := alpha.SigningKey()
		sigs = append(sigs, rsk.Sign(digest))
		rsk.Zeroize()
		alpha.Zeroize()
	}
	return sigs, nil
}

// AuthorizeWithRetry calls custody with exponential backoff until it
// succeeds, fails permanently, or the context is done. Only
// ErrCustodyUnavailable is treated as transient; every other error
// aborts immediately.
func AuthorizeWithRetry(ctx context.Context, c Custody, plan *Plan, expectedDigest []byte) ([]crypto.Signature, error) {
	var sigs []crypto.Signature
	op := func() error {
		var err error
		sigs, err = c.Authorize(ctx, plan, expectedDigest)
		if err != nil && !errors.Is(err, ErrCustodyUnavailable) {
			return backoff.Permanent(err)
		}
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(backoff.NewExponentialBackOff(), ctx)); err != nil {
		return nil, err
	}
	return sigs, nil
}
