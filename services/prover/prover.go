// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package prover verifies formulations by goal-directed proof search.
//
// # Pipeline
//
//	request ──▶ validate ──▶ type-check gate ──▶ formalize ──▶ search ──▶ score
//	                              │
//	                              └─ violations: skip search, confidence 0
//
// The gate checks that every ingredient has a positive, finite molecular
// weight and every constraint value is numeric (and within range when the
// constraint type is a registered dependent type). A request that passes is
// formalized into
//
//	and(Safe(F), Effective(F, effect, confidence), ...)
//
// and searched with the Ingredient, Constraint, and SafeIngredients(F)
// facts available as theorems.
//
// # Errors
//
// Only programmer errors are returned: ErrInvalidRequest for a malformed
// request and search.ErrUnknownStrategy for an unregistered strategy. A
// failed proof, a timeout, or a type violation is a normal result.
package prover

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/formalize"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/goal"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/logic"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/search"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/telemetry"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/theory"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/types"
	"github.com/google/uuid"
)

// Prover runs the verification pipeline over a type registry and a theory
// store.
//
// Thread Safety: Safe for concurrent use. Each call searches against a
// snapshot of the store taken at the start of the call.
type Prover struct {
	config     Config
	registry   *types.Registry
	store      *theory.Store
	formalizer *formalize.Formalizer
	expander   *goal.Expander
	tracer     *telemetry.Tracer
	logger     *slog.Logger
}

// New creates a Prover.
//
// Inputs:
//   - cfg: Configuration. Must pass Validate.
//   - registry: Type registry. Nil means types.NewDomainRegistry.
//   - store: Theory store. Nil means theory.NewDomainStore.
//   - logger: Logger. Nil means slog.Default().
//
// Outputs:
//   - *Prover: Ready for use.
//   - error: Non-nil if cfg is invalid.
func New(cfg Config, registry *types.Registry, store *theory.Store, logger *slog.Logger) (*Prover, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = types.NewDomainRegistry(logger)
	}
	if store == nil {
		store = theory.NewDomainStore(logger)
	}
	return &Prover{
		config:     cfg,
		registry:   registry,
		store:      store,
		formalizer: formalize.New(cfg.TypeCheck.DefaultMolecularWeight),
		expander:   goal.NewExpander(registry),
		tracer:     telemetry.NewTracer(proverTracerName, cfg.Observability.TracingEnabled),
		logger:     logger.With(slog.String("component", "prover")),
	}, nil
}

// Config returns the configuration the prover was built with.
func (p *Prover) Config() Config { return p.config }

// Store returns the theory store searched by the prover.
func (p *Prover) Store() *theory.Store { return p.store }

// Registry returns the type registry used by the gate.
func (p *Prover) Registry() *types.Registry { return p.registry }

// Verify runs the full pipeline for one request.
//
// Outputs:
//   - *VerificationResult: The outcome. Non-nil whenever error is nil.
//   - error: ErrInvalidRequest or a *search.StrategyError wrapping
//     search.ErrUnknownStrategy.
func (p *Prover) Verify(ctx context.Context, req *VerificationRequest) (*VerificationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	strategyName := p.strategyName(req.Strategy)
	strategy, err := p.strategy(strategyName)
	if err != nil {
		return nil, err
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	logger := p.logger.With(slog.String("request_id", requestID), slog.String("strategy", strategyName))

	ctx, span := p.startVerify(ctx, req, strategyName)
	res := &VerificationResult{
		RequestID:      requestID,
		Strategy:       strategyName,
		TypeViolations: []string{},
	}
	defer func() {
		if p.config.Observability.MetricsEnabled {
			RecordConfidence(res.Confidence)
		}
		endVerify(span, res)
	}()

	if violations := p.TypeCheck(ctx, req); len(violations) > 0 {
		res.TypeViolations = violations
		logger.Warn("type check failed, search skipped", slog.Int("violations", len(violations)))
		return res, nil
	}
	res.TypeCheckPassed = true

	statement := p.formalizer.Theorem(req.Ingredients, req.TargetEffects)
	assumptions := append(
		p.formalizer.Assumptions(req.Ingredients, req.Constraints),
		p.formalizer.SafetyEvidence(req.Ingredients),
	)
	res.Theorem = statement.String()

	stats := p.search(ctx, strategy, statement, assumptions, req.searchOptions(p.config.Search))
	res.SearchStats = stats
	res.Proven = stats.Found
	res.Proof = stats.Proof
	res.Confidence = Confidence(stats)

	if stats.Found && p.config.Search.RecordTheorems {
		p.record(statement, assumptions, logger)
	}

	logger.Info("verification complete",
		slog.Bool("proven", res.Proven),
		slog.Float64("confidence", res.Confidence),
		slog.Int("nodes_explored", stats.NodesExplored),
		slog.Duration("search_time", stats.SearchTime),
	)
	return res, nil
}

// ProveTheorem searches for a proof of statement.
//
// Inputs:
//   - ctx: Cancels the search.
//   - statement: The proposition to prove.
//   - assumptions: Facts usable alongside the store's theorems.
//   - strategyName: A name from search.Names(). Empty means the configured
//     default.
//   - opts: Budgets. Zero fields take the configured defaults. A negative
//     timeout is rejected.
//
// Outputs:
//   - search.Result: The search outcome.
//   - error: A *search.StrategyError for an unknown strategy, or
//     ErrInvalidRequest for a nil statement or negative timeout.
func (p *Prover) ProveTheorem(ctx context.Context, statement logic.Expression, assumptions []logic.Expression, strategyName string, opts search.Options) (search.Result, error) {
	if statement == nil {
		return search.Result{}, fmt.Errorf("%w: nil statement", ErrInvalidRequest)
	}
	strategyName = p.strategyName(strategyName)
	strategy, err := p.strategy(strategyName)
	if err != nil {
		return search.Result{Strategy: strategyName}, err
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = p.config.Search.MaxDepth
	}
	if opts.Timeout < 0 {
		return search.Result{Strategy: strategyName}, fmt.Errorf("%w: negative timeout %s", ErrInvalidRequest, opts.Timeout)
	}
	if opts.Timeout == 0 {
		opts.Timeout = p.config.Search.Timeout
	}
	return p.search(ctx, strategy, statement, assumptions, opts), nil
}

// TypeCheck runs the pre-search gate and returns one diagnostic per
// failure. An empty result means the request may be searched.
func (p *Prover) TypeCheck(ctx context.Context, req *VerificationRequest) []string {
	_, span := p.startTypeCheck(ctx)
	var violations []string
	defer func() { endTypeCheck(span, violations) }()

	ingredientType, _ := p.registry.Lookup(types.TypeIngredient)
	for _, ing := range req.Ingredients {
		if ing.MolecularWeight == nil {
			violations = append(violations, fmt.Sprintf("%s: missing molecular weight", ing.ID))
			continue
		}
		mw := *ing.MolecularWeight
		if math.IsNaN(mw) || math.IsInf(mw, 0) || mw <= 0 {
			violations = append(violations, fmt.Sprintf("%s: molecular weight must be positive and finite, got %v", ing.ID, mw))
			continue
		}
		check := p.registry.SatisfiesConstraints(ingredientType, map[string]any{"molecular_weight": mw})
		for _, v := range check.Violations {
			violations = append(violations, ing.ID+": "+v)
		}
	}

	for _, c := range req.Constraints {
		value, ok := types.NumericValue(c.Value)
		if !ok {
			violations = append(violations, fmt.Sprintf("constraint %s(%s): value %v is not numeric", c.Type, c.Parameter, c.Value))
			continue
		}
		if t, found := p.registry.LookupFold(c.Type); found {
			check := p.registry.SatisfiesConstraints(t, map[string]any{"value": value})
			for _, v := range check.Violations {
				violations = append(violations, fmt.Sprintf("constraint %s(%s): %s", c.Type, c.Parameter, v))
			}
		}
	}

	if p.config.Observability.MetricsEnabled {
		RecordTypeViolations(len(violations))
	}
	return violations
}

// Confidence scores a search result: 0 when no proof was found, otherwise
// 1 - maxDepth/20, floored at 0.5.
func Confidence(r search.Result) float64 {
	if !r.Found {
		return 0
	}
	return math.Min(1, math.Max(0.5, 1-float64(r.MaxDepth)/20))
}

// Strategies returns the registered strategy names.
func (p *Prover) Strategies() []string {
	return search.Names()
}

func (p *Prover) strategyName(name string) string {
	if name == "" {
		return p.config.Search.DefaultStrategy
	}
	return name
}

func (p *Prover) strategy(name string) (search.Strategy, error) {
	s, err := search.New(name, p.expander, p.logger)
	if err != nil {
		p.logger.Error("unknown strategy",
			slog.String("strategy", name),
			slog.Any("available", search.Names()),
		)
		return nil, err
	}
	return s, nil
}

// search runs one strategy against a snapshot of the store with the
// assumptions appended to the theorems.
func (p *Prover) search(ctx context.Context, s search.Strategy, statement logic.Expression, assumptions []logic.Expression, opts search.Options) search.Result {
	snapshot := p.store.Snapshot()
	theorems := append(snapshot.Theorems, assumptionTheorems(assumptions)...)

	ctx, span := p.startSearch(ctx, s.Name(), statement.String(), opts)
	result := s.Search(ctx, goal.NewRootGoal(statement, nil), snapshot.Axioms, theorems, opts)
	endSearch(span, result)

	if p.config.Observability.MetricsEnabled {
		RecordSearch(result)
	}
	return result
}

// record stores a proved statement. Failures are logged, not returned; the
// proof itself stands.
func (p *Prover) record(statement logic.Expression, assumptions []logic.Expression, logger *slog.Logger) {
	t := theory.NewTheorem("proved: "+statement.String(), statement, assumptions)
	if err := p.store.AddTheorem(t); err != nil {
		logger.Warn("record theorem failed", slog.String("error", err.Error()))
		return
	}
	logger.Debug("theorem recorded", slog.String("theorem_id", t.ID))
}

// assumptionTheorems turns facts into hypothesis-free theorems. IDs are
// positional so that repeated searches over the same facts are identical.
func assumptionTheorems(assumptions []logic.Expression) []*theory.Theorem {
	out := make([]*theory.Theorem, 0, len(assumptions))
	for i, a := range assumptions {
		if a == nil {
			continue
		}
		out = append(out, &theory.Theorem{
			ID:         fmt.Sprintf("assumption_%d", i),
			Name:       a.String(),
			Statement:  a,
			Universe:   types.UniverseProp,
			Complexity: 1,
		})
	}
	return out
}
