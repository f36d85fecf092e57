// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"encoding/hex"

	"github.com/project-tachyon/tachyd/params"
)

const TachygramSize = params.TachygramSize

// Tachygram is a 32-byte field element that is either a nullifier or a
// note commitment. The two are indistinguishable to observers; the
// accumulator treats both identically.
type Tachygram [TachygramSize]byte

func (t Tachygram) String() string {
	return hex.EncodeToString(t[:])
}

func (t Tachygram) Bytes() []byte {
	return t[:]
}

func (t Tachygram) Clone() Tachygram {
	var b [len(t)]byte
	copy(b[:], t[:])
	return b
}

func (t *Tachygram) SetBytes(data []byte) {
	copy(t[:], data)
}

func (t *Tachygram) MarshalJSON() ([]byte, error) {
	return []byte(hex.EncodeToString(t[:])), nil
}

func (t *Tachygram) UnmarshalJSON(data []byte) error {
	i, err := NewTachygramFromString(string(data))
	if err != nil {
		return err
	}
	*t = i
	return nil
}

func NewTachygram(b []byte) Tachygram {
	var t Tachygram
	t.SetBytes(b)
	return t
}

func NewTachygramFromString(s string) (Tachygram, error) {
	if len(s) > TachygramSize*2 {
		return Tachygram{}, ErrIDStrSize
	}
	ret, err := hex.DecodeString(s)
	if err != nil {
		return Tachygram{}, err
	}
	var t Tachygram
	t.SetBytes(ret)
	return t, nil
}
