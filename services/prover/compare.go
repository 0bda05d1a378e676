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
	"context"
	"log/slog"
	"time"

	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/search"
	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
)

// StrategyRun is one strategy's result within a comparison.
type StrategyRun struct {
	Strategy   string        `json:"strategy"`
	Confidence float64       `json:"confidence"`
	Result     search.Result `json:"result"`
}

// ComparisonSummary aggregates the runs of a comparison.
type ComparisonSummary struct {
	MeanNodesExplored   float64  `json:"mean_nodes_explored"`
	MedianNodesExplored float64  `json:"median_nodes_explored"`
	MeanSearchTimeMs    float64  `json:"mean_search_time_ms"`
	MedianSearchTimeMs  float64  `json:"median_search_time_ms"`
	ProvenBy            []string `json:"proven_by"`

	// FewestNodes is the proving strategy that popped the fewest goals,
	// earliest in search.Names() order on ties. Empty when none proved it.
	FewestNodes string `json:"fewest_nodes,omitempty"`
}

// ComparisonReport is the outcome of CompareStrategies.
type ComparisonReport struct {
	RequestID       string            `json:"request_id"`
	Theorem         string            `json:"theorem,omitempty"`
	TypeCheckPassed bool              `json:"type_check_passed"`
	TypeViolations  []string          `json:"type_violations"`
	Runs            []StrategyRun     `json:"runs"`
	Summary         ComparisonSummary `json:"summary"`
}

// CompareStrategies runs every registered strategy on the same request.
//
// Description:
//
//	The request is validated and type-checked once. When the gate passes,
//	each strategy searches concurrently against the same store snapshot
//	and facts. The request's Strategy field is ignored. Runs are reported
//	in search.Names() order regardless of completion order.
//
// Outputs:
//   - *ComparisonReport: The runs and summary statistics.
//   - error: ErrInvalidRequest, or ctx.Err() if ctx ended before the runs
//     were started.
//
// Thread Safety: Safe for concurrent use.
func (p *Prover) CompareStrategies(ctx context.Context, req *VerificationRequest) (*ComparisonReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	report := &ComparisonReport{RequestID: requestID, TypeViolations: []string{}, Runs: []StrategyRun{}}
	if violations := p.TypeCheck(ctx, req); len(violations) > 0 {
		report.TypeViolations = violations
		return report, nil
	}
	report.TypeCheckPassed = true

	statement := p.formalizer.Theorem(req.Ingredients, req.TargetEffects)
	assumptions := append(
		p.formalizer.Assumptions(req.Ingredients, req.Constraints),
		p.formalizer.SafetyEvidence(req.Ingredients),
	)
	report.Theorem = statement.String()
	opts := req.searchOptions(p.config.Search)

	names := search.Names()
	runs := make([]StrategyRun, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := p.strategy(name)
			if err != nil {
				return err
			}
			r := p.search(gctx, s, statement, assumptions, opts)
			runs[i] = StrategyRun{Strategy: name, Confidence: Confidence(r), Result: r}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Runs = runs
	report.Summary = summarize(runs)
	p.logger.Info("strategy comparison complete",
		slog.String("request_id", requestID),
		slog.Any("proven_by", report.Summary.ProvenBy),
		slog.Float64("mean_nodes_explored", report.Summary.MeanNodesExplored),
	)
	return report, nil
}

func summarize(runs []StrategyRun) ComparisonSummary {
	summary := ComparisonSummary{ProvenBy: []string{}}
	if len(runs) == 0 {
		return summary
	}

	nodes := make(stats.Float64Data, 0, len(runs))
	times := make(stats.Float64Data, 0, len(runs))
	fewest := -1
	for _, run := range runs {
		nodes = append(nodes, float64(run.Result.NodesExplored))
		times = append(times, float64(run.Result.SearchTime)/float64(time.Millisecond))
		if run.Result.Found {
			summary.ProvenBy = append(summary.ProvenBy, run.Strategy)
			if fewest < 0 || run.Result.NodesExplored < fewest {
				fewest = run.Result.NodesExplored
				summary.FewestNodes = run.Strategy
			}
		}
	}

	// The inputs are non-empty, so the stats calls cannot fail.
	summary.MeanNodesExplored, _ = nodes.Mean()
	summary.MedianNodesExplored, _ = nodes.Median()
	summary.MeanSearchTimeMs, _ = times.Mean()
	summary.MedianSearchTimeMs, _ = times.Median()
	return summary
}
