// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package search

import (
	"context"
	"log/slog"

	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/goal"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/theory"
)

// -----------------------------------------------------------------------------
// Breadth-First
// -----------------------------------------------------------------------------

// BreadthFirst explores goals level by level.
//
// Description:
//
//	A FIFO frontier pops every goal at depth d before any goal at d+1, so
//	the first proof found is a shallowest one within MaxDepth. Memory grows
//	with branching factor times depth.
type BreadthFirst struct {
	engine
}

// NewBreadthFirst creates a breadth-first strategy.
func NewBreadthFirst(expander *goal.Expander, logger *slog.Logger) *BreadthFirst {
	return &BreadthFirst{engine: newEngine(NameBreadthFirst, expander, logger, false)}
}

// Name returns "breadth_first".
func (s *BreadthFirst) Name() string { return NameBreadthFirst }

// Search runs breadth-first search from initial.
func (s *BreadthFirst) Search(ctx context.Context, initial *goal.ProofGoal, axioms, theorems []*theory.Theorem, opts Options) Result {
	return s.run(ctx, fifo{}, initial, axioms, theorems, opts)
}

type fifo struct{}

func (fifo) frontier() goal.Frontier                             { return goal.NewQueue() }
func (fifo) admit(_, _ *goal.ProofGoal, _ *theory.Theorem) bool { return true }

// -----------------------------------------------------------------------------
// Depth-First
// -----------------------------------------------------------------------------

// DepthFirst follows the first applicable rule as deep as MaxDepth allows
// before backtracking.
//
// Description:
//
//	Rules are pushed in reverse registration order onto a LIFO frontier, so
//	they are popped, and therefore explored, in registration order. The run
//	is reproducible for a fixed rule list. It is not complete on unbounded
//	branches; MaxDepth is the only bound.
type DepthFirst struct {
	engine
}

// NewDepthFirst creates a depth-first strategy.
func NewDepthFirst(expander *goal.Expander, logger *slog.Logger) *DepthFirst {
	return &DepthFirst{engine: newEngine(NameDepthFirst, expander, logger, true)}
}

// Name returns "depth_first".
func (s *DepthFirst) Name() string { return NameDepthFirst }

// Search runs depth-first search from initial.
func (s *DepthFirst) Search(ctx context.Context, initial *goal.ProofGoal, axioms, theorems []*theory.Theorem, opts Options) Result {
	return s.run(ctx, lifo{}, initial, axioms, theorems, opts)
}

type lifo struct{}

func (lifo) frontier() goal.Frontier                             { return goal.NewStack() }
func (lifo) admit(_, _ *goal.ProofGoal, _ *theory.Theorem) bool { return true }
