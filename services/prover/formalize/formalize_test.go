// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package formalize

import (
	"testing"

	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/logic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weight(v float64) *float64 { return &v }

func TestFormulation_DefaultWeight(t *testing.T) {
	f := New(0)
	got := f.Formulation([]Ingredient{
		{ID: "aloe_vera", MolecularWeight: weight(150)},
		{ID: "hyaluronic_acid"},
	})
	assert.Equal(t, "Formulation(Ingredient(aloe_vera, 150), Ingredient(hyaluronic_acid, 500))", got.String())

	custom := New(320.5)
	got = custom.Formulation([]Ingredient{{ID: "x"}})
	assert.Equal(t, "Formulation(Ingredient(x, 320.5))", got.String())
}

func TestTheorem(t *testing.T) {
	f := New(0)
	ingredients := []Ingredient{{ID: "niacinamide", MolecularWeight: weight(122.12)}}
	form := "Formulation(Ingredient(niacinamide, 122.12))"

	t.Run("safety only", func(t *testing.T) {
		got := f.Theorem(ingredients, nil)
		assert.Equal(t, "Safe("+form+")", got.String())
	})

	t.Run("effects conjoined", func(t *testing.T) {
		got := f.Theorem(ingredients, []TargetEffect{
			{EffectType: "hydration", TargetLayer: "epidermis", Confidence: 0.9},
			{EffectType: "barrier repair", TargetLayer: "stratum_corneum", Confidence: 0.75},
		})
		want := "and(and(Safe(" + form + "), Effective(" + form + ", hydration, 0.9)), Effective(" +
			form + ", barrier_repair, 0.75))"
		assert.Equal(t, want, got.String())
	})

	t.Run("round trips through Parse", func(t *testing.T) {
		got := f.Theorem(ingredients, []TargetEffect{{EffectType: "hydration", Confidence: 0.9}})
		parsed, err := logic.Parse(got.String())
		require.NoError(t, err)
		assert.True(t, logic.Equal(got, parsed))
	})
}

func TestAssumptions(t *testing.T) {
	f := New(0)
	facts := f.Assumptions(
		[]Ingredient{{ID: "glycerin", MolecularWeight: weight(92.09)}},
		[]Constraint{
			{Type: "Concentration", Parameter: "glycerin", Value: 5, Operator: "le"},
			{Type: "pH", Parameter: "formulation", Value: "acidic", Operator: "eq"},
		},
	)

	var got []string
	for _, fact := range facts {
		got = append(got, fact.String())
	}
	assert.Equal(t, []string{
		"Ingredient(glycerin, 92.09)",
		"Constraint(Concentration, glycerin, 5, le)",
		"Constraint(pH, formulation, acidic, eq)",
	}, got)
}

func TestSafetyEvidence(t *testing.T) {
	f := New(0)
	ingredients := []Ingredient{{ID: "a", MolecularWeight: weight(1)}}
	assert.Equal(t, "SafeIngredients(Formulation(Ingredient(a, 1)))", f.SafetyEvidence(ingredients).String())
}

func TestLiteral(t *testing.T) {
	assert.Equal(t, "vitamin_c__ascorbic_", Literal("vitamin c (ascorbic)").Name)
	assert.Equal(t, "_", Literal("").Name)
	assert.Equal(t, "1e+06", Number(1e6).Name)
	assert.Equal(t, "0.5", Value(float32(0.5)).Name)
	assert.Equal(t, "true", Value(true).Name)
}
