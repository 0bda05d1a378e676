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
	"slices"

	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/goal"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/theory"
)

// policy is the per-search ordering state of a strategy.
type policy interface {
	// frontier returns the empty frontier for this search.
	frontier() goal.Frontier

	// admit scores child before it is pushed and may reject it. parent and
	// rule are nil for the root goal, whose return value is ignored.
	admit(parent, child *goal.ProofGoal, rule *theory.Theorem) bool
}

// engine is the loop every strategy runs.
type engine struct {
	name     string
	expander *goal.Expander
	logger   *slog.Logger

	// reverse flips rule and child order so a stack pops them in
	// registration order.
	reverse bool
}

func newEngine(name string, expander *goal.Expander, logger *slog.Logger, reverse bool) engine {
	if logger == nil {
		logger = slog.Default()
	}
	if expander == nil {
		expander = goal.NewExpander(nil)
	}
	return engine{
		name:     name,
		expander: expander,
		logger: logger.With(
			slog.String("component", "proof_search"),
			slog.String("strategy", name),
		),
		reverse: reverse,
	}
}

// run executes the shared search loop.
//
// Description:
//
//	Budgets are checked at the top of every iteration, before the pop, so
//	the worst-case overrun is one expansion. Goals are deduplicated on
//	goal.ProofGoal.Key when pushed; a key is never pushed twice, so it is
//	never expanded twice.
//
//	Each pop counts as one explored node. A solved goal ends the search. A
//	goal at the depth limit is dropped. Anything else is expanded against
//	every axiom, then every theorem.
func (e engine) run(ctx context.Context, p policy, initial *goal.ProofGoal, axioms, theorems []*theory.Theorem, opts Options) Result {
	opts = opts.withDefaults()
	start := opts.Now()
	result := Result{Strategy: e.name}

	if initial == nil || initial.Target == nil {
		result.SearchTime = opts.Now().Sub(start)
		return result
	}

	e.logger.Debug("search started",
		slog.String("target", initial.Target.String()),
		slog.Int("max_depth", opts.MaxDepth),
		slog.Duration("timeout", opts.Timeout),
		slog.Int("rules", len(axioms)+len(theorems)),
	)

	rules := make([]*theory.Theorem, 0, len(axioms)+len(theorems))
	rules = append(rules, axioms...)
	rules = append(rules, theorems...)
	if e.reverse {
		slices.Reverse(rules)
	}

	frontier := p.frontier()
	seen := map[string]bool{initial.Key(): true}
	p.admit(nil, initial, nil)
	frontier.Push(initial)

	for frontier.Len() > 0 {
		if ctx.Err() != nil {
			result.Cancelled = true
			break
		}
		if opts.Timeout > 0 && opts.Now().Sub(start) > opts.Timeout {
			result.TimedOut = true
			break
		}

		g, _ := frontier.Pop()
		result.NodesExplored++
		if g.Depth > result.MaxDepth {
			result.MaxDepth = g.Depth
		}

		if goal.IsGoalSolved(g) {
			result.Found = true
			result.Proof = &ProofTerm{Type: ProofAxiom, Term: g.Target, Tactic: e.name}
			break
		}
		if g.Depth >= opts.MaxDepth {
			continue
		}
		if opts.OnExpand != nil {
			opts.OnExpand(g)
		}

		for _, rule := range rules {
			children := e.expander.ApplyAxiom(g, rule)
			if e.reverse {
				slices.Reverse(children)
			}
			for _, child := range children {
				key := child.Key()
				if seen[key] {
					continue
				}
				if !p.admit(g, child, rule) {
					continue
				}
				seen[key] = true
				frontier.Push(child)
			}
		}
	}

	result.SearchTime = opts.Now().Sub(start)
	e.finish(result)
	return result
}

func (e engine) finish(r Result) {
	attrs := []any{
		slog.Bool("found", r.Found),
		slog.Int("nodes_explored", r.NodesExplored),
		slog.Int("max_depth", r.MaxDepth),
		slog.Duration("duration", r.SearchTime),
	}
	switch {
	case r.TimedOut:
		e.logger.Warn("search timed out", attrs...)
	case r.Cancelled:
		e.logger.Warn("search cancelled", attrs...)
	default:
		e.logger.Debug("search finished", attrs...)
	}
}
