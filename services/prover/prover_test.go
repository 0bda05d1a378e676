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
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/formalize"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/logic"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/search"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/theory"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/goleak"
)

// =============================================================================
// Fixtures
// =============================================================================

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProver(t *testing.T, mutate func(*Config)) *Prover {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	p, err := New(cfg, nil, nil, quietLogger())
	require.NoError(t, err)
	return p
}

func weight(v float64) *float64 { return &v }

func safetyRequest(strategy string) *VerificationRequest {
	return &VerificationRequest{
		Hypothesis:  "aloe is safe",
		Ingredients: []formalize.Ingredient{{ID: "aloe_vera", MolecularWeight: weight(150)}},
		Strategy:    strategy,
	}
}

func fakeClock(step time.Duration) func() time.Time {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

// =============================================================================
// Verify
// =============================================================================

func TestVerify_SafeCompositionBreadthFirst(t *testing.T) {
	p := newTestProver(t, nil)

	res, err := p.Verify(context.Background(), safetyRequest(search.NameBreadthFirst))
	require.NoError(t, err)

	assert.True(t, res.TypeCheckPassed)
	assert.Empty(t, res.TypeViolations)
	assert.True(t, res.Proven)
	require.NotNil(t, res.Proof)
	assert.Equal(t, search.ProofAxiom, res.Proof.Type)
	assert.True(t, logic.IsTrue(res.Proof.Term))
	assert.Equal(t, 2, res.SearchStats.MaxDepth)
	assert.InDelta(t, 0.9, res.Confidence, 1e-9)
	assert.Equal(t, "Safe(Formulation(Ingredient(aloe_vera, 150)))", res.Theorem)
	assert.Equal(t, search.NameBreadthFirst, res.Strategy)
	assert.NotEmpty(t, res.RequestID)
}

func TestVerify_EveryStrategyProvesSafety(t *testing.T) {
	p := newTestProver(t, nil)
	for _, name := range search.Names() {
		t.Run(name, func(t *testing.T) {
			res, err := p.Verify(context.Background(), safetyRequest(name))
			require.NoError(t, err)
			assert.True(t, res.Proven)
			assert.LessOrEqual(t, res.SearchStats.MaxDepth, search.DefaultMaxDepth)
			assert.Equal(t, name, res.SearchStats.Strategy)
		})
	}
}

func TestVerify_DefaultStrategy(t *testing.T) {
	p := newTestProver(t, nil)
	res, err := p.Verify(context.Background(), safetyRequest(""))
	require.NoError(t, err)
	assert.Equal(t, search.NameBestFirst, res.Strategy)
	assert.True(t, res.Proven)
}

func TestVerify_NoEffectivenessAxiom(t *testing.T) {
	p := newTestProver(t, nil)
	for _, name := range search.Names() {
		t.Run(name, func(t *testing.T) {
			req := safetyRequest(name)
			req.TargetEffects = []formalize.TargetEffect{
				{EffectType: "hydration", TargetLayer: "epidermis", Confidence: 0.9},
			}
			res, err := p.Verify(context.Background(), req)
			require.NoError(t, err)

			assert.True(t, res.TypeCheckPassed)
			assert.False(t, res.Proven)
			assert.Nil(t, res.Proof)
			assert.Zero(t, res.Confidence)
			assert.False(t, res.SearchStats.TimedOut)
			assert.Equal(t, "exhausted", res.SearchStats.Outcome())
			assert.Contains(t, res.Theorem, "Effective(")
		})
	}
}

func TestVerify_TypeCheckGate(t *testing.T) {
	tests := []struct {
		name        string
		ingredients []formalize.Ingredient
		constraints []formalize.Constraint
		want        string
	}{
		{
			name:        "zero weight",
			ingredients: []formalize.Ingredient{{ID: "water", MolecularWeight: weight(0)}},
			want:        "water: molecular weight must be positive",
		},
		{
			name:        "missing weight",
			ingredients: []formalize.Ingredient{{ID: "mystery"}},
			want:        "mystery: missing molecular weight",
		},
		{
			name:        "NaN weight",
			ingredients: []formalize.Ingredient{{ID: "nan", MolecularWeight: weight(math.NaN())}},
			want:        "nan: molecular weight must be positive",
		},
		{
			name:        "infinite weight",
			ingredients: []formalize.Ingredient{{ID: "inf", MolecularWeight: weight(math.Inf(1))}},
			want:        "inf: molecular weight must be positive",
		},
		{
			name:        "non-numeric constraint",
			ingredients: []formalize.Ingredient{{ID: "a", MolecularWeight: weight(10)}},
			constraints: []formalize.Constraint{{Type: "pH", Parameter: "formulation", Value: "acidic", Operator: "eq"}},
			want:        "constraint pH(formulation): value acidic is not numeric",
		},
		{
			name:        "concentration out of range",
			ingredients: []formalize.Ingredient{{ID: "a", MolecularWeight: weight(10)}},
			constraints: []formalize.Constraint{{Type: "concentration", Parameter: "a", Value: 150, Operator: "le"}},
			want:        "constraint concentration(a): Concentration: inequality constraint violated",
		},
	}

	p := newTestProver(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.Verify(context.Background(), &VerificationRequest{
				Ingredients: tt.ingredients,
				Constraints: tt.constraints,
			})
			require.NoError(t, err)

			assert.False(t, res.TypeCheckPassed)
			assert.False(t, res.Proven)
			assert.Zero(t, res.Confidence)
			assert.Equal(t, search.Result{}, res.SearchStats)
			assert.Empty(t, res.Theorem)
			require.Len(t, res.TypeViolations, 1)
			assert.Contains(t, res.TypeViolations[0], tt.want)
		})
	}
}

func TestVerify_NumericConstraintsPass(t *testing.T) {
	p := newTestProver(t, nil)
	req := safetyRequest(search.NameAStar)
	req.Constraints = []formalize.Constraint{
		{Type: "Concentration", Parameter: "aloe_vera", Value: 5, Operator: "le"},
		{Type: "pH", Parameter: "formulation", Value: 5.5, Operator: "eq"},
		{Type: "Viscosity", Parameter: "formulation", Value: 3000.0, Operator: "ge"},
	}
	res, err := p.Verify(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.TypeCheckPassed)
	assert.True(t, res.Proven)
}

func TestVerify_UnknownStrategy(t *testing.T) {
	p := newTestProver(t, nil)
	res, err := p.Verify(context.Background(), safetyRequest("simulated_annealing"))
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, search.ErrUnknownStrategy))

	var se *search.StrategyError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "simulated_annealing", se.Strategy)
}

func TestVerify_InvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		req  *VerificationRequest
	}{
		{"nil", nil},
		{"no ingredients", &VerificationRequest{}},
		{"empty ingredient id", &VerificationRequest{Ingredients: []formalize.Ingredient{{MolecularWeight: weight(1)}}}},
		{"confidence above one", &VerificationRequest{
			Ingredients:   []formalize.Ingredient{{ID: "a", MolecularWeight: weight(1)}},
			TargetEffects: []formalize.TargetEffect{{EffectType: "hydration", Confidence: 1.5}},
		}},
		{"negative depth", &VerificationRequest{
			Ingredients: []formalize.Ingredient{{ID: "a", MolecularWeight: weight(1)}},
			MaxDepth:    -1,
		}},
		{"negative timeout", &VerificationRequest{
			Ingredients: []formalize.Ingredient{{ID: "a", MolecularWeight: weight(1)}},
			TimeoutMs:   -5,
		}},
	}

	p := newTestProver(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Verify(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestVerify_RequestDepthOverridesConfig(t *testing.T) {
	p := newTestProver(t, nil)
	req := safetyRequest(search.NameBreadthFirst)
	req.MaxDepth = 1

	res, err := p.Verify(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.Proven)
	assert.Equal(t, 1, res.SearchStats.MaxDepth)
}

func TestVerify_RecordTheorems(t *testing.T) {
	p := newTestProver(t, func(c *Config) { c.Search.RecordTheorems = true })
	require.Empty(t, p.Store().Theorems())

	res, err := p.Verify(context.Background(), safetyRequest(search.NameDepthFirst))
	require.NoError(t, err)
	require.True(t, res.Proven)

	recorded := p.Store().Theorems()
	require.Len(t, recorded, 1)
	assert.Equal(t, res.Theorem, recorded[0].Statement.String())
	assert.NotEmpty(t, recorded[0].Assumptions)

	// A failed proof is not recorded.
	req := safetyRequest(search.NameDepthFirst)
	req.TargetEffects = []formalize.TargetEffect{{EffectType: "hydration", Confidence: 0.9}}
	_, err = p.Verify(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, p.Store().Theorems(), 1)
}

func TestVerify_RecordsMetrics(t *testing.T) {
	p := newTestProver(t, nil)
	proven := searchesTotal.WithLabelValues(search.NameBreadthFirst, "proven")
	before := testutil.ToFloat64(proven)
	violationsBefore := testutil.ToFloat64(typeViolationsTotal)

	_, err := p.Verify(context.Background(), safetyRequest(search.NameBreadthFirst))
	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(proven))

	_, err = p.Verify(context.Background(), &VerificationRequest{
		Ingredients: []formalize.Ingredient{{ID: "a"}, {ID: "b"}},
	})
	require.NoError(t, err)
	assert.Equal(t, violationsBefore+2, testutil.ToFloat64(typeViolationsTotal))
}

func TestVerify_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	p := newTestProver(t, func(c *Config) { c.Observability.TracingEnabled = true })
	_, err := p.Verify(context.Background(), safetyRequest(search.NameBreadthFirst))
	require.NoError(t, err)

	var names []string
	for _, s := range recorder.Ended() {
		names = append(names, s.Name())
	}
	assert.ElementsMatch(t, []string{"prover.typecheck", "prover.search", "prover.verify"}, names)
}

func TestVerify_RequestBudgetsReachSearch(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	p := newTestProver(t, func(c *Config) { c.Observability.TracingEnabled = true })

	tests := []struct {
		name      string
		timeoutMs int64
		maxDepth  int
		timeout   string
		depth     int64
	}{
		{"request values", 250, 7, "250ms", 7},
		{"config defaults", 0, 0, "30s", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := safetyRequest(search.NameBreadthFirst)
			req.TimeoutMs = tt.timeoutMs
			req.MaxDepth = tt.maxDepth
			before := len(recorder.Ended())

			res, err := p.Verify(context.Background(), req)
			require.NoError(t, err)
			require.True(t, res.Proven)

			var budget map[string]attribute.Value
			for _, span := range recorder.Ended()[before:] {
				if span.Name() != "prover.search" {
					continue
				}
				budget = make(map[string]attribute.Value)
				for _, kv := range span.Attributes() {
					budget[string(kv.Key)] = kv.Value
				}
			}
			require.NotNil(t, budget, "no prover.search span")
			assert.Equal(t, tt.timeout, budget["prover.budget.timeout"].AsString())
			assert.Equal(t, tt.depth, budget["prover.budget.max_depth"].AsInt64())
		})
	}
}

func TestSearchOptions(t *testing.T) {
	cfg := SearchConfig{MaxDepth: 10, Timeout: 30 * time.Second}

	opts := (&VerificationRequest{TimeoutMs: 1, MaxDepth: 3}).searchOptions(cfg)
	assert.Equal(t, time.Millisecond, opts.Timeout)
	assert.Equal(t, 3, opts.MaxDepth)

	opts = (&VerificationRequest{}).searchOptions(cfg)
	assert.Equal(t, 30*time.Second, opts.Timeout)
	assert.Equal(t, 10, opts.MaxDepth)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc...", truncate("abcdef", 3))

	// "é" is two bytes; cutting at byte 2 would split it.
	got := truncate("aéb", 2)
	assert.Equal(t, "a...", got)
	assert.True(t, utf8.ValidString(got))

	long := strings.Repeat("ü", 150)
	got = truncate(long, maxTheoremAttrLen)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), maxTheoremAttrLen+len("..."))
}

// =============================================================================
// ProveTheorem
// =============================================================================

func successorStore(t *testing.T) *theory.Store {
	t.Helper()
	store := theory.NewStore(quietLogger())
	stmt := logic.NewPi("x", "Nat", logic.Implies(
		logic.App("P", logic.App("s", logic.Var("x"))),
		logic.App("P", logic.Var("x")),
	))
	require.NoError(t, store.AddAxiom(&theory.Theorem{ID: "succ", Name: "succ", Statement: stmt, Complexity: 1}))
	return store
}

func TestProveTheorem_Timeout(t *testing.T) {
	p, err := New(DefaultConfig(), nil, successorStore(t), quietLogger())
	require.NoError(t, err)

	res, err := p.ProveTheorem(context.Background(), logic.App("P", logic.Var("z")), nil, search.NameBreadthFirst,
		search.Options{MaxDepth: 1 << 20, Timeout: time.Millisecond, Now: fakeClock(time.Millisecond)})
	require.NoError(t, err)

	assert.False(t, res.Found)
	assert.True(t, res.TimedOut)
	assert.GreaterOrEqual(t, res.NodesExplored, 0)
	assert.LessOrEqual(t, res.NodesExplored, 3)
}

func TestProveTheorem_TrivialGoal(t *testing.T) {
	p := newTestProver(t, nil)
	for _, name := range search.Names() {
		res, err := p.ProveTheorem(context.Background(), logic.True(), nil, name, search.Options{})
		require.NoError(t, err)
		assert.True(t, res.Found, name)
		assert.Equal(t, 1, res.NodesExplored, name)
		assert.Equal(t, 0, res.MaxDepth, name)
		assert.Equal(t, 1.0, Confidence(res), name)
	}
}

func TestProveTheorem_Assumptions(t *testing.T) {
	p := newTestProver(t, nil)
	form := logic.App("Formulation", logic.Var("x"))

	res, err := p.ProveTheorem(context.Background(), logic.App("Safe", form), nil, "", search.Options{})
	require.NoError(t, err)
	assert.False(t, res.Found)

	res, err = p.ProveTheorem(context.Background(), logic.App("Safe", form),
		[]logic.Expression{logic.App("SafeIngredients", form)}, "", search.Options{})
	require.NoError(t, err)
	assert.True(t, res.Found)
}

func TestProveTheorem_Errors(t *testing.T) {
	p := newTestProver(t, nil)
	_, err := p.ProveTheorem(context.Background(), nil, nil, "", search.Options{})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	res, err := p.ProveTheorem(context.Background(), logic.True(), nil, "dijkstra", search.Options{})
	assert.ErrorIs(t, err, search.ErrUnknownStrategy)
	assert.Equal(t, "dijkstra", res.Strategy)

	res, err = p.ProveTheorem(context.Background(), logic.True(), nil, search.NameBreadthFirst,
		search.Options{Timeout: -time.Millisecond})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.False(t, res.Found)
	assert.Zero(t, res.NodesExplored)
}

func TestProveTheorem_PenetrationFromEffectiveFact(t *testing.T) {
	p := newTestProver(t, nil)
	target := logic.App("Penetrates", logic.Var("cream"), logic.Var("dermis"))

	tests := []struct {
		name  string
		fact  logic.Expression
		found bool
	}{
		{"concrete effect", logic.App("Effective", logic.Var("cream"), logic.Var("hydration"), logic.Var("0.9")), true},
		{"other formulation", logic.App("Effective", logic.Var("serum"), logic.Var("hydration"), logic.Var("0.9")), false},
		{"other formulation with binder-like literals", logic.App("Effective", logic.Var("serum"), logic.Var("e"), logic.Var("c")), false},
	}
	for _, tt := range tests {
		for _, name := range search.Names() {
			t.Run(tt.name+"/"+name, func(t *testing.T) {
				res, err := p.ProveTheorem(context.Background(), target, []logic.Expression{tt.fact}, name, search.Options{})
				require.NoError(t, err)
				assert.Equal(t, tt.found, res.Found)
				if tt.found {
					assert.Equal(t, 2, res.MaxDepth)
				}
			})
		}
	}
}

// =============================================================================
// Confidence
// =============================================================================

func TestConfidence(t *testing.T) {
	tests := []struct {
		name   string
		result search.Result
		want   float64
	}{
		{"not found", search.Result{MaxDepth: 0}, 0},
		{"depth 0", search.Result{Found: true, MaxDepth: 0}, 1},
		{"depth 2", search.Result{Found: true, MaxDepth: 2}, 0.9},
		{"depth 10", search.Result{Found: true, MaxDepth: 10}, 0.5},
		{"depth 40 floors", search.Result{Found: true, MaxDepth: 40}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Confidence(tt.result)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.DefaultStrategy = "random"
	_, err := New(cfg, nil, nil, nil)
	assert.Error(t, err)
}

// =============================================================================
// CompareStrategies
// =============================================================================

func TestCompareStrategies(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := newTestProver(t, nil)
	report, err := p.CompareStrategies(context.Background(), safetyRequest(""))
	require.NoError(t, err)

	require.Len(t, report.Runs, len(search.Names()))
	for i, name := range search.Names() {
		assert.Equal(t, name, report.Runs[i].Strategy)
		assert.True(t, report.Runs[i].Result.Found, name)
		assert.InDelta(t, Confidence(report.Runs[i].Result), report.Runs[i].Confidence, 1e-9)
	}
	assert.Equal(t, search.Names(), report.Summary.ProvenBy)
	assert.NotEmpty(t, report.Summary.FewestNodes)
	assert.GreaterOrEqual(t, report.Summary.MeanNodesExplored, 3.0)
	assert.GreaterOrEqual(t, report.Summary.MedianNodesExplored, 3.0)
	assert.True(t, report.TypeCheckPassed)
}

func TestCompareStrategies_GateFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := newTestProver(t, nil)
	report, err := p.CompareStrategies(context.Background(), &VerificationRequest{
		Ingredients: []formalize.Ingredient{{ID: "a"}},
	})
	require.NoError(t, err)
	assert.False(t, report.TypeCheckPassed)
	assert.Empty(t, report.Runs)
	assert.Len(t, report.TypeViolations, 1)
}

func TestCompareStrategies_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := newTestProver(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.CompareStrategies(ctx, safetyRequest(""))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarize(t *testing.T) {
	runs := []StrategyRun{
		{Strategy: "a", Result: search.Result{Found: true, NodesExplored: 6, SearchTime: 2 * time.Millisecond}},
		{Strategy: "b", Result: search.Result{NodesExplored: 10, SearchTime: 4 * time.Millisecond}},
		{Strategy: "c", Result: search.Result{Found: true, NodesExplored: 2, SearchTime: 6 * time.Millisecond}},
	}
	s := summarize(runs)
	assert.InDelta(t, 6.0, s.MeanNodesExplored, 1e-9)
	assert.InDelta(t, 6.0, s.MedianNodesExplored, 1e-9)
	assert.InDelta(t, 4.0, s.MeanSearchTimeMs, 1e-9)
	assert.InDelta(t, 4.0, s.MedianSearchTimeMs, 1e-9)
	assert.Equal(t, []string{"a", "c"}, s.ProvenBy)
	assert.Equal(t, "c", s.FewestNodes)

	empty := summarize(nil)
	assert.Empty(t, empty.ProvenBy)
	assert.Zero(t, empty.MeanNodesExplored)
}
