// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package hash

import (
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
)

const HashSize = 32

// HashFunc is the protocol's general purpose 32-byte hash.
func HashFunc(data []byte) []byte {
	h := blake2s.Sum256(data)
	return h[:]
}

// Tagged computes BLAKE2b-512 over the domain tag followed by each
// input in order. The tag is hashed as a prefix rather than set as a
// BLAKE2b personal string; the tag strings themselves are unchanged.
func Tagged(tag string, inputs ...[]byte) [64]byte {
	h, err := blake2b.New512(nil)
	if err != nil {
		panic(err)
	}
	h.Write([]byte(tag))
	for _, in := range inputs {
		h.Write(in)
	}
	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Keyed computes a 32-byte keyed BLAKE2b over the domain tag followed
// by each input in order. Used as the PRF for nullifier derivation and
// GGM tree node expansion.
func Keyed(key []byte, tag string, inputs ...[]byte) [32]byte {
	h, err := blake2b.New256(key)
	if err != nil {
		panic(err)
	}
	h.Write([]byte(tag))
	for _, in := range inputs {
		h.Write(in)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
