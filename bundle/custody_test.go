// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package bundle

import (
	"context"
	"testing"

	"github.com/project-tachyon/tachyd/crypto"
	"github.com/project-tachyon/tachyd/types"
	"github.com/project-tachyon/tachyd/zk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan(t *testing.T, w *testWallet) *Plan {
	plan, err := NewPlan(w.pak,
		[]*SpendRequest{spendReq(t, w.note(t, 100), 2)},
		[]*OutputRequest{outputReq(t, w.note(t, 100))},
		0, types.NewAnchor(0, 10))
	require.NoError(t, err)
	return plan
}

func TestLocalCustodyAuthorize(t *testing.T) {
	w := newTestWallet(t)
	plan := testPlan(t, w)

	custody := NewLocalCustody(w.ask)
	sigs, err := custody.Authorize(context.Background(), plan, plan.EffectHash())
	require.NoError(t, err)
	require.Len(t, sigs, 2)

	b, err := plan.Build(sigs, &zk.MockProver{})
	require.NoError(t, err)
	assert.NoError(t, b.VerifySignatures())
}

func TestCustodyDigestMismatch(t *testing.T) {
	w := newTestWallet(t)
	plan := testPlan(t, w)
	defer plan.Zeroize()

	// The caller believes the plan hashes to something it does not.
	// Custody recomputes and refuses.
	stale := make([]byte, 64)
	_, err := NewLocalCustody(w.ask).Authorize(context.Background(), plan, stale)
	assert.ErrorIs(t, err, ErrDigestMismatch)
}

func TestCustodyContextCancel(t *testing.T) {
	w := newTestWallet(t)
	plan := testPlan(t, w)
	defer plan.Zeroize()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLocalCustody(w.ask).Authorize(ctx, plan, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

// flakyCustody fails with ErrCustodyUnavailable a fixed number of
// times before delegating to the wrapped signer.
type flakyCustody struct {
	inner    Custody
	failures int
	calls    int
}

func (f *flakyCustody) Authorize(ctx context.Context, plan *Plan, expectedDigest []byte) ([]crypto.Signature, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, ErrCustodyUnavailable
	}
	return f.inner.Authorize(ctx, plan, expectedDigest)
}

func TestAuthorizeWithRetry(t *testing.T) {
	w := newTestWallet(t)
	plan := testPlan(t, w)

	flaky := &flakyCustody{inner: NewLocalCustody(w.ask), failures: 2}
	sigs, err := AuthorizeWithRetry(context.Background(), flaky, plan, plan.EffectHash())
	require.NoError(t, err)
	assert.Equal(t, 3, flaky.calls)

	b, err := plan.Build(sigs, &zk.MockProver{})
	require.NoError(t, err)
	assert.NoError(t, b.VerifySignatures())
}

func TestAuthorizeWithRetryPermanentError(t *testing.T) {
	w := newTestWallet(t)
	plan := testPlan(t, w)
	defer plan.Zeroize()

	flaky := &flakyCustody{inner: NewLocalCustody(w.ask), failures: 0}
	_, err := AuthorizeWithRetry(context.Background(), flaky, plan, make([]byte, 64))
	assert.ErrorIs(t, err, ErrDigestMismatch)
	// A permanent error must not be retried.
	assert.Equal(t, 1, flaky.calls)
}
