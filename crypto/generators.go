// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package crypto

import (
	"sync"

	"github.com/project-tachyon/tachyd/params"
)

var (
	genOnce sync.Once
	genV    *Point
	genR    *Point
)

func initGenerators() {
	genV = HashToPoint(params.ValueCommitDomain, []byte("v"))
	genR = HashToPoint(params.ValueCommitDomain, []byte("r"))
}

// GeneratorV returns the value generator for value commitments.
// The returned point must not be mutated.
func GeneratorV() *Point {
	genOnce.Do(initGenerators)
	return genV
}

// GeneratorR returns the randomness generator for value commitments
// and binding signatures. The returned point must not be mutated.
func GeneratorR() *Point {
	genOnce.Do(initGenerators)
	return genR
}
