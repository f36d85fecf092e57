// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"encoding/binary"
	"fmt"

	"github.com/project-tachyon/tachyd/params"
)

// Amount is a signed quantity of the base monetary unit. A bundle's
// value balance is an Amount: positive when spends exceed outputs,
// negative otherwise.
type Amount int64

// ToBytes returns the fixed-width two's-complement encoding of the
// amount.
func (a Amount) ToBytes() []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(a))
	return b
}

// NewAmountFromBytes decodes the fixed-width amount encoding.
func NewAmountFromBytes(b []byte) (Amount, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("amount must be 8 bytes")
	}
	return Amount(binary.LittleEndian.Uint64(b)), nil
}

// CheckValueBalance validates that the amount is usable as a declared
// value balance.
func (a Amount) CheckValueBalance() error {
	if a >= params.MaxValueBalance || a <= -params.MaxValueBalance {
		return fmt.Errorf("value balance %d exceeds protocol bound", a)
	}
	return nil
}

// Abs returns the magnitude of the amount and whether it was negative.
func (a Amount) Abs() (uint64, bool) {
	if a < 0 {
		return uint64(-a), true
	}
	return uint64(a), false
}
