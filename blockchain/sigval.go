// Copyright (c) 2025 Project Tachyon
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"runtime"

	"github.com/project-tachyon/tachyd/bundle"
)

// ValidateBundleSigs validates the action and binding signatures for a
// single bundle.
func ValidateBundleSigs(bndl *bundle.Bundle) error {
	validator := NewSigValidator()
	return validator.Validate([]*bundle.Bundle{bndl})
}

// sigValidator is used to validate bundle signatures in parallel.
type sigValidator struct {
	workChan   chan *bundle.Bundle
	resultChan chan error
	done       chan struct{}
}

// NewSigValidator returns a new sigValidator.
func NewSigValidator() *sigValidator {
	return &sigValidator{
		workChan:   make(chan *bundle.Bundle),
		resultChan: make(chan error),
		done:       make(chan struct{}),
	}
}

// Validate validates the bundle signatures in parallel for fast
// validation. Each bundle's action signatures all cover the same effect
// digest, so the digest is computed once per bundle and shared across
// its signature checks.
func (s *sigValidator) Validate(bundles []*bundle.Bundle) error {
	defer close(s.done)

	if len(bundles) == 0 {
		return nil
	}

	maxGoRoutines := runtime.NumCPU() * 3
	if maxGoRoutines <= 0 {
		maxGoRoutines = 1
	}
	if maxGoRoutines > len(bundles) {
		maxGoRoutines = len(bundles)
	}

	for i := 0; i < maxGoRoutines; i++ {
		go s.validateHandler()
	}

	go func() {
		for _, b := range bundles {
			s.workChan <- b
		}
		close(s.workChan)
	}()

	for i := 0; i < len(bundles); i++ {
		err := <-s.resultChan
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *sigValidator) validateHandler() {
	for {
		select {
		case b, ok := <-s.workChan:
			if !ok {
				return
			}
			if len(b.Actions) == 0 {
				// A stamp carrier has no actions of its own and
				// therefore no signatures to check.
				s.resultChan <- nil
				break
			}
			if err := b.VerifyActionSigs(); err != nil {
				s.resultChan <- ruleError(ErrInvalidActionSignature, fmt.Sprintf("bundle %s", err))
				break
			}
			if err := b.ValueBalance.CheckValueBalance(); err != nil {
				s.resultChan <- ruleError(ErrUnbalancedValue, err.Error())
				break
			}
			if err := b.VerifyBindingSig(); err != nil {
				s.resultChan <- ruleError(ErrInvalidBindingSignature, err.Error())
				break
			}
			s.resultChan <- nil
		case <-s.done:
			return
		}
	}
}
