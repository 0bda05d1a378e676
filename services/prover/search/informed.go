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
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/logic"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/theory"
)

// -----------------------------------------------------------------------------
// Best-First
// -----------------------------------------------------------------------------

const (
	// complexityCeiling is the axiom complexity at which the rule term of the
	// best-first priority reaches zero.
	complexityCeiling = 6.0
	complexityWeight  = 0.2
	depthPenalty      = 0.1
)

// BestFirst is greedy search on rule complexity and goal depth.
//
// Description:
//
//	A child produced by rule r is scored
//
//	  priority = (6 - r.Complexity) × 0.2 - child.Depth × 0.1
//
//	and the highest priority is popped first, ties in push order. The score
//	is not admissible: a cheap-looking rule can lead away from a shorter
//	proof. On small axiom sets it usually converges in fewer pops than
//	breadth-first.
type BestFirst struct {
	engine
}

// NewBestFirst creates a best-first strategy.
func NewBestFirst(expander *goal.Expander, logger *slog.Logger) *BestFirst {
	return &BestFirst{engine: newEngine(NameBestFirst, expander, logger, false)}
}

// Name returns "best_first".
func (s *BestFirst) Name() string { return NameBestFirst }

// Search runs best-first search from initial.
func (s *BestFirst) Search(ctx context.Context, initial *goal.ProofGoal, axioms, theorems []*theory.Theorem, opts Options) Result {
	return s.run(ctx, greedy{}, initial, axioms, theorems, opts)
}

// Priority returns the best-first score of a child of depth produced by rule.
func Priority(rule *theory.Theorem, depth int) float64 {
	return (complexityCeiling-rule.Complexity)*complexityWeight - float64(depth)*depthPenalty
}

type greedy struct{}

func (greedy) frontier() goal.Frontier {
	return goal.NewPriorityQueue(func(g *goal.ProofGoal) float64 { return g.Priority }, goal.HighestFirst)
}

func (greedy) admit(parent, child *goal.ProofGoal, rule *theory.Theorem) bool {
	if rule != nil {
		child.Priority = Priority(rule, child.Depth)
	}
	return true
}

// -----------------------------------------------------------------------------
// A*
// -----------------------------------------------------------------------------

// AStar orders goals by f = g + h.
//
// Description:
//
//	g is the number of rule applications from the root, which equals the
//	goal's depth. h is Heuristic(target). A child is dropped when its target
//	was already reached with a g no larger than its own.
//
// Admissibility contract:
//
//	A* returns a shallowest proof only if h never exceeds the true number of
//	remaining steps, and h(true) = 0. Every goal other than "true" needs at
//	least one more rule application, so Heuristic squashes the structural
//	size n of the target to n/(n+1): always below 1, and larger targets still
//	sort later among goals of equal depth. Any replacement heuristic must keep
//	h non-negative, h(true) = 0, and h below the remaining step count.
type AStar struct {
	engine
}

// NewAStar creates an A* strategy.
func NewAStar(expander *goal.Expander, logger *slog.Logger) *AStar {
	return &AStar{engine: newEngine(NameAStar, expander, logger, false)}
}

// Name returns "a_star".
func (s *AStar) Name() string { return NameAStar }

// Search runs A* from initial.
func (s *AStar) Search(ctx context.Context, initial *goal.ProofGoal, axioms, theorems []*theory.Theorem, opts Options) Result {
	return s.run(ctx, newAStarScores(), initial, axioms, theorems, opts)
}

// Heuristic estimates the remaining proof effort from the shape of target.
// The structural size (see StructuralSize) is squashed into [0, 1) so the
// estimate never exceeds the one step any unsolved goal still needs.
func Heuristic(target logic.Expression) float64 {
	n := StructuralSize(target)
	return n / (n + 1)
}

// StructuralSize is 0 for "true", argument count + 1 for applications, 2
// for binders, and 1 for anything else.
func StructuralSize(target logic.Expression) float64 {
	if logic.IsTrue(target) {
		return 0
	}
	switch e := target.(type) {
	case *logic.Application:
		return float64(len(e.Args) + 1)
	case *logic.Lambda, *logic.Pi, *logic.Sigma:
		return 2
	}
	return 1
}

// aStarScores is keyed by the full target string, not goal.Key, so targets
// that share a head keep separate scores.
type aStarScores struct {
	gScore map[string]float64
	fScore map[string]float64
}

func newAStarScores() *aStarScores {
	return &aStarScores{
		gScore: make(map[string]float64),
		fScore: make(map[string]float64),
	}
}

func (a *aStarScores) frontier() goal.Frontier {
	return goal.NewPriorityQueue(func(g *goal.ProofGoal) float64 {
		return a.fScore[g.Target.String()]
	}, goal.LowestFirst)
}

func (a *aStarScores) admit(_, child *goal.ProofGoal, _ *theory.Theorem) bool {
	k := child.Target.String()
	g := float64(child.Depth)
	if old, ok := a.gScore[k]; ok && old <= g {
		return false
	}
	a.gScore[k] = g
	a.fScore[k] = g + Heuristic(child.Target)
	return true
}
