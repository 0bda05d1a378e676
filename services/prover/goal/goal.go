// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package goal defines the proof-search state: goals, axiom application, and
// the frontiers strategies explore goals from.
package goal

import (
	"maps"

	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/logic"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/types"
	"github.com/google/uuid"
)

// ProofGoal is a pending proposition to establish.
//
// Thread Safety: A goal is owned by the search that created it. Context is
// never mutated after construction; children receive a copy.
type ProofGoal struct {
	ID       string
	Context  map[string]types.DependentType
	Target   logic.Expression
	Priority float64
	Depth    int
}

// NewRootGoal creates the depth-0 goal for target.
//
// Inputs:
//   - target: The proposition to prove.
//   - context: Initial typing context. May be nil. Copied.
func NewRootGoal(target logic.Expression, context map[string]types.DependentType) *ProofGoal {
	ctx := make(map[string]types.DependentType, len(context))
	maps.Copy(ctx, context)
	return &ProofGoal{
		ID:      uuid.NewString(),
		Context: ctx,
		Target:  target,
	}
}

// Key returns the deduplication key: target kind, head name, and depth.
//
// Two goals with different arguments under the same head share a key. A
// search that deduplicates on Key therefore explores at most one goal per
// head and depth.
func (g *ProofGoal) Key() string {
	return logic.DepthKey(g.Target, g.Depth)
}

// IsGoalSolved reports whether g's target is the proposition "true".
//
// This is a termination predicate only. It does not check that a proof term
// exists for the original theorem.
func IsGoalSolved(g *ProofGoal) bool {
	return g != nil && logic.IsTrue(g.Target)
}
