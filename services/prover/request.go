// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package prover

import (
	"errors"
	"fmt"
	"time"

	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/formalize"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/search"
	"github.com/go-playground/validator/v10"
)

// =============================================================================
// Request Limits
// =============================================================================

const (
	// MaxIngredientsPerRequest bounds the formulation size.
	MaxIngredientsPerRequest = 200

	// MaxEffectsPerRequest bounds the number of conjoined effect goals.
	MaxEffectsPerRequest = 50

	// MaxConstraintsPerRequest bounds the number of constraint facts.
	MaxConstraintsPerRequest = 200

	// MaxRequestDepth caps a caller-supplied search depth.
	MaxRequestDepth = 100
)

// ErrInvalidRequest is returned when a request fails shape validation.
var ErrInvalidRequest = errors.New("invalid verification request")

// requestValidate is shared by every Prover; validator caches struct
// metadata per instance.
var requestValidate = validator.New()

// =============================================================================
// Request
// =============================================================================

// VerificationRequest asks whether a formulation is safe and achieves its
// target effects.
//
// # Fields
//
//   - RequestID: Optional. Echoed in the result; generated when empty.
//   - Hypothesis: Informational only. Never parsed.
//   - Ingredients: Required, 1-200. Each needs an ID.
//   - TargetEffects: Optional, up to 50. Confidence must be in [0, 1].
//   - Constraints: Optional, up to 200.
//   - Strategy: Optional. Empty selects Config.Search.DefaultStrategy.
//   - MaxDepth: Optional, 0-100. Zero selects Config.Search.MaxDepth.
//   - TimeoutMs: Optional. Zero selects Config.Search.Timeout.
//
// # Validation
//
// Shape only. Molecular weights and constraint values are checked by the
// type-check gate and reported as violations, not errors. The strategy name
// is checked when the strategy is resolved.
type VerificationRequest struct {
	RequestID     string                   `json:"request_id,omitempty" yaml:"request_id,omitempty" validate:"omitempty,max=128"`
	Hypothesis    string                   `json:"hypothesis,omitempty" yaml:"hypothesis,omitempty"`
	Ingredients   []formalize.Ingredient   `json:"ingredients" yaml:"ingredients" validate:"min=1,max=200,dive"`
	TargetEffects []formalize.TargetEffect `json:"target_effects,omitempty" yaml:"target_effects,omitempty" validate:"max=50,dive"`
	Constraints   []formalize.Constraint   `json:"constraints,omitempty" yaml:"constraints,omitempty" validate:"max=200,dive"`
	Strategy      string                   `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	MaxDepth      int                      `json:"max_depth,omitempty" yaml:"max_depth,omitempty" validate:"gte=0,lte=100"`
	TimeoutMs     int64                    `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty" validate:"gte=0"`
}

// Validate checks the request shape.
//
// Outputs:
//   - error: Wraps ErrInvalidRequest and the validator's field errors.
func (r *VerificationRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil request", ErrInvalidRequest)
	}
	if err := requestValidate.Struct(r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return nil
}

// searchOptions resolves the request's budgets against cfg.
func (r *VerificationRequest) searchOptions(cfg SearchConfig) search.Options {
	opts := search.Options{MaxDepth: cfg.MaxDepth, Timeout: cfg.Timeout}
	if r.MaxDepth > 0 {
		opts.MaxDepth = r.MaxDepth
	}
	if r.TimeoutMs > 0 {
		opts.Timeout = time.Duration(r.TimeoutMs) * time.Millisecond
	}
	return opts
}

// =============================================================================
// Result
// =============================================================================

// VerificationResult reports the outcome of Verify.
//
// Proven false with TypeCheckPassed true is a normal outcome: the theorem
// could not be proved within budget. When TypeCheckPassed is false no search
// ran and SearchStats is zero.
type VerificationResult struct {
	RequestID       string            `json:"request_id"`
	Proven          bool              `json:"proven"`
	Proof           *search.ProofTerm `json:"proof,omitempty"`
	Confidence      float64           `json:"confidence"`
	TypeCheckPassed bool              `json:"type_check_passed"`
	TypeViolations  []string          `json:"type_violations"`
	Theorem         string            `json:"theorem,omitempty"`
	Strategy        string            `json:"strategy"`
	SearchStats     search.Result     `json:"search_stats"`
}
