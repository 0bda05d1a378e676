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
	"unicode/utf8"

	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/search"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const proverTracerName = "skintwin.prover"

const maxTheoremAttrLen = 200

func (p *Prover) startVerify(ctx context.Context, req *VerificationRequest, strategy string) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, "prover.verify",
		attribute.String("prover.request_id", req.RequestID),
		attribute.String("prover.strategy", strategy),
		attribute.Int("prover.ingredients", len(req.Ingredients)),
		attribute.Int("prover.target_effects", len(req.TargetEffects)),
		attribute.Int("prover.constraints", len(req.Constraints)),
	)
}

func endVerify(span trace.Span, res *VerificationResult) {
	span.SetAttributes(
		attribute.Bool("prover.result.type_check_passed", res.TypeCheckPassed),
		attribute.Bool("prover.result.proven", res.Proven),
		attribute.Float64("prover.result.confidence", res.Confidence),
	)
	telemetry.SetSpanOK(span)
	span.End()
}

func (p *Prover) startTypeCheck(ctx context.Context) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, "prover.typecheck")
}

func endTypeCheck(span trace.Span, violations []string) {
	span.SetAttributes(
		attribute.Bool("prover.typecheck.passed", len(violations) == 0),
		attribute.Int("prover.typecheck.violations", len(violations)),
	)
	telemetry.SetSpanOK(span)
	span.End()
}

func (p *Prover) startSearch(ctx context.Context, strategy, theorem string, opts search.Options) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, "prover.search",
		attribute.String("prover.strategy", strategy),
		attribute.String("prover.theorem", truncate(theorem, maxTheoremAttrLen)),
		attribute.Int("prover.budget.max_depth", opts.MaxDepth),
		attribute.String("prover.budget.timeout", opts.Timeout.String()),
	)
}

func endSearch(span trace.Span, r search.Result) {
	span.SetAttributes(
		attribute.Bool("prover.result.found", r.Found),
		attribute.String("prover.result.outcome", r.Outcome()),
		attribute.Int("prover.result.nodes_explored", r.NodesExplored),
		attribute.Int("prover.result.max_depth", r.MaxDepth),
		attribute.String("prover.result.search_time", r.SearchTime.String()),
	)
	telemetry.SetSpanOK(span)
	span.End()
}

// truncate shortens s to at most n bytes plus an ellipsis, cutting on a
// rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
