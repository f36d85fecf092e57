// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package params

// Domain separation tags. These are protocol-fixed and must match other
// implementations exactly. They are passed as the first input to the
// relevant hash function, never inlined at call sites.
const (
	// PRFExpandTag keys the PRF^expand key expansion from a spending
	// key to its child keys. Shared with the wider Zcash key derivation
	// function family; child keys are separated by the single-byte tags
	// below.
	PRFExpandTag = "Zcash_ExpandSeed"

	// EffectHashTag is the domain for the transaction-wide action
	// signing digest covering every action's (cv, rk) plus the declared
	// value balance.
	EffectHashTag = "Tachyon-SpendSig"

	// AlphaTag is the domain for deriving the per-action randomizer
	// alpha from (theta, commitment). The role byte (spend or output)
	// is appended to the hash input.
	AlphaTag = "Tachyon-AlphaDrv"

	// BindingHashTag is the domain for the binding signature digest.
	// The digest covers the value balance and the action signatures but
	// not the stamp, which is stripped during aggregation.
	BindingHashTag = "Tachyon-BindHash"

	// ValueCommitDomain is the hash-to-curve domain for the value
	// commitment generators V and R. Shared with Orchard so the same
	// verification infrastructure serves both protocols.
	ValueCommitDomain = "z.cash:Orchard-cv"

	// NullifierDomain is the keyed PRF domain for nullifier derivation
	// and the GGM delegation tree.
	NullifierDomain = "z.cash:Tachyon-nf"

	// NoteCommitDomain is the domain for note commitments.
	NoteCommitDomain = "z.cash:Tachyon-NoteCommit"

	// AccumulatorDomain is the hash-to-curve domain for the multiset
	// accumulators over action digests and tachygrams.
	AccumulatorDomain = "z.cash:Tachyon-acc"
)

// PRF^expand single-byte child key tags. Each derived key uses a
// distinct tag, disjoint from the tags used by sibling protocols
// sharing the same expansion function.
const (
	// TagAsk derives the spend authorizing key (scalar field).
	TagAsk byte = 0x09
	// TagNk derives the nullifier key (base field).
	TagNk byte = 0x0a
	// TagPk derives the payment key (base field).
	TagPk byte = 0x0b
)

// Role bytes domain-separating the spend-side and output-side
// randomizer derivations.
const (
	RoleSpend  byte = 0x00
	RoleOutput byte = 0x01
)

// Wire-exact field sizes.
const (
	// SpendingKeySize is the size of the root spending key seed.
	SpendingKeySize = 32

	// PointSize is the size of a compressed group element (ak, rk, cv).
	PointSize = 32

	// SignatureSize is the size of an action or binding signature.
	SignatureSize = 64

	// TachygramSize is the size of a tachygram field element.
	TachygramSize = 32
)

// MaxValueBalance is the exclusive bound on the magnitude of a
// bundle's declared value balance.
const MaxValueBalance = 2_100_000_000_000_000

// GGMTreeDepth is the fixed depth of the nullifier delegation tree.
// Epochs are leaves, addressed by their 32-bit big-endian bit path.
const GGMTreeDepth = 32

// MaxEpoch is the largest epoch addressable by the delegation tree.
const MaxEpoch = 1<<GGMTreeDepth - 1
