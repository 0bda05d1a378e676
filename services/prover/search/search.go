// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package search implements backward-chaining proof search.
//
// Four strategies share one loop and differ only in frontier order:
//
//	breadth_first  FIFO, shallowest proof first
//	depth_first    LIFO, rules tried in registration order
//	best_first     greedy on axiom complexity and depth
//	a_star         cost-so-far plus a structural estimate
//
// Every strategy stops on the first solved goal, on the wall-clock budget,
// or on context cancellation, whichever comes first.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/goal"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/logic"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/theory"
)

// ErrUnknownStrategy is returned when a strategy name is not registered.
var ErrUnknownStrategy = errors.New("unknown search strategy")

// StrategyError wraps a failure with the strategy and operation involved.
type StrategyError struct {
	Strategy  string
	Operation string
	Err       error
}

func (e *StrategyError) Error() string {
	return e.Strategy + "." + e.Operation + ": " + e.Err.Error()
}

func (e *StrategyError) Unwrap() error { return e.Err }

// -----------------------------------------------------------------------------
// Defaults
// -----------------------------------------------------------------------------

const (
	// DefaultMaxDepth is used when Options.MaxDepth is not positive.
	DefaultMaxDepth = 10

	// DefaultTimeout is the wall-clock budget the prover applies when a
	// request does not set one.
	DefaultTimeout = 30 * time.Second
)

// Options bounds a single search.
type Options struct {
	// MaxDepth is the deepest goal that may be expanded. Goals at MaxDepth
	// are popped and checked but never expanded. Zero means DefaultMaxDepth.
	MaxDepth int

	// Timeout is the wall-clock budget, checked before every pop. Zero or
	// negative means no budget.
	Timeout time.Duration

	// Now is the clock. Nil means time.Now.
	Now func() time.Time

	// OnExpand, if set, is called with every goal just before it is expanded.
	OnExpand func(g *goal.ProofGoal)
}

// DefaultOptions returns DefaultMaxDepth and DefaultTimeout.
func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth, Timeout: DefaultTimeout}
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// -----------------------------------------------------------------------------
// Results
// -----------------------------------------------------------------------------

// ProofTermType classifies a proof term.
type ProofTermType string

const (
	ProofAxiom       ProofTermType = "axiom"
	ProofAssumption  ProofTermType = "assumption"
	ProofApplication ProofTermType = "application"
	ProofLambda      ProofTermType = "lambda"
	ProofLet         ProofTermType = "let"
	ProofMatch       ProofTermType = "match"
	ProofFix         ProofTermType = "fix"
)

// ProofTerm is a witness that a goal was established.
type ProofTerm struct {
	Type      ProofTermType
	Term      logic.Expression
	Subproofs []*ProofTerm
	Tactic    string
}

// MarshalJSON renders Term in its string form.
func (p *ProofTerm) MarshalJSON() ([]byte, error) {
	term := ""
	if p.Term != nil {
		term = p.Term.String()
	}
	return json.Marshal(struct {
		Type      ProofTermType `json:"type"`
		Term      string        `json:"term"`
		Subproofs []*ProofTerm  `json:"subproofs,omitempty"`
		Tactic    string        `json:"tactic,omitempty"`
	}{p.Type, term, p.Subproofs, p.Tactic})
}

// Result is the outcome of one search. Proof is non-nil iff Found.
type Result struct {
	Found         bool          `json:"found"`
	Proof         *ProofTerm    `json:"proof,omitempty"`
	SearchTime    time.Duration `json:"search_time_ns"`
	NodesExplored int           `json:"nodes_explored"`
	MaxDepth      int           `json:"max_depth"`
	TimedOut      bool          `json:"timed_out,omitempty"`
	Cancelled     bool          `json:"cancelled,omitempty"`
	Strategy      string        `json:"strategy,omitempty"`
}

// Outcome summarizes the result as one of "proven", "timeout", "cancelled",
// or "exhausted".
func (r Result) Outcome() string {
	switch {
	case r.Found:
		return "proven"
	case r.TimedOut:
		return "timeout"
	case r.Cancelled:
		return "cancelled"
	default:
		return "exhausted"
	}
}

// Strategy is a proof search algorithm.
//
// Thread Safety: Implementations are safe for concurrent Search calls. All
// per-search state lives on the call stack.
type Strategy interface {
	// Name returns the registered strategy name.
	Name() string

	// Search tries to reduce initial to "true" by applying axioms, then
	// theorems, backwards. It never returns an error: a failed, timed-out,
	// or cancelled search is reported in the Result.
	Search(ctx context.Context, initial *goal.ProofGoal, axioms, theorems []*theory.Theorem, opts Options) Result
}
