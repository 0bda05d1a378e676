// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package formalize turns formulation verification requests into logical
// propositions.
package formalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/logic"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/types"
)

// DefaultMolecularWeight stands in for an ingredient with no recorded weight.
const DefaultMolecularWeight = 500.0

// Ingredient is one formulation component.
type Ingredient struct {
	ID string `json:"id" yaml:"id" validate:"required"`

	// MolecularWeight in Daltons. Nil when unknown.
	MolecularWeight *float64 `json:"molecular_weight,omitempty" yaml:"molecular_weight,omitempty"`
}

// TargetEffect is an effect the formulation should achieve.
type TargetEffect struct {
	EffectType  string  `json:"effect_type" yaml:"effect_type" validate:"required"`
	TargetLayer string  `json:"target_layer" yaml:"target_layer"`
	Confidence  float64 `json:"confidence" yaml:"confidence" validate:"gte=0,lte=1"`
}

// Constraint is a requirement on a formulation parameter, for example
// {Type: "Concentration", Parameter: "niacinamide", Value: 5, Operator: "le"}.
type Constraint struct {
	Type      string `json:"type" yaml:"type" validate:"required"`
	Parameter string `json:"parameter" yaml:"parameter"`
	Value     any    `json:"value" yaml:"value"`
	Operator  string `json:"operator" yaml:"operator"`
}

// Formalizer builds propositions from request data.
//
// Thread Safety: Safe for concurrent use.
type Formalizer struct {
	defaultMolecularWeight float64
}

// New creates a formalizer. A non-positive defaultMolecularWeight selects
// DefaultMolecularWeight.
func New(defaultMolecularWeight float64) *Formalizer {
	if defaultMolecularWeight <= 0 {
		defaultMolecularWeight = DefaultMolecularWeight
	}
	return &Formalizer{defaultMolecularWeight: defaultMolecularWeight}
}

// Formulation returns Formulation(Ingredient(id, mw), ...) with missing
// weights replaced by the default.
func (f *Formalizer) Formulation(ingredients []Ingredient) logic.Expression {
	args := make([]logic.Expression, 0, len(ingredients))
	for _, ing := range ingredients {
		mw := f.defaultMolecularWeight
		if ing.MolecularWeight != nil {
			mw = *ing.MolecularWeight
		}
		args = append(args, logic.App(types.TypeIngredient, Literal(ing.ID), Number(mw)))
	}
	return logic.App(types.TypeFormulation, args...)
}

// Theorem returns the proposition to prove for a request.
//
// Description:
//
//	The result is Safe(F) when there are no effects, otherwise
//	and(...and(Safe(F), Effective(F, t1, c1))..., Effective(F, tn, cn))
//	with F the formulation term.
func (f *Formalizer) Theorem(ingredients []Ingredient, effects []TargetEffect) logic.Expression {
	form := f.Formulation(ingredients)
	goals := make([]logic.Expression, 0, len(effects)+1)
	goals = append(goals, logic.App("Safe", form))
	for _, e := range effects {
		goals = append(goals, logic.App("Effective", form, Literal(e.EffectType), Number(e.Confidence)))
	}
	return logic.And(goals...)
}

// Assumptions returns the facts a request contributes to the search: one
// Ingredient(id, mw) per ingredient and one
// Constraint(type, parameter, value, operator) per constraint.
func (f *Formalizer) Assumptions(ingredients []Ingredient, constraints []Constraint) []logic.Expression {
	out := make([]logic.Expression, 0, len(ingredients)+len(constraints))
	form := f.Formulation(ingredients)
	for _, arg := range form.(*logic.Application).Args {
		out = append(out, arg)
	}
	for _, c := range constraints {
		out = append(out, logic.App("Constraint",
			Literal(c.Type), Literal(c.Parameter), Value(c.Value), Literal(c.Operator)))
	}
	return out
}

// SafetyEvidence returns SafeIngredients(F), the fact established once every
// ingredient passed the type check.
func (f *Formalizer) SafetyEvidence(ingredients []Ingredient) logic.Expression {
	return logic.App("SafeIngredients", f.Formulation(ingredients))
}

// -----------------------------------------------------------------------------
// Literals
// -----------------------------------------------------------------------------

// Literal returns s as a variable term. Characters that delimit terms are
// replaced with underscores; an empty string becomes "_".
func Literal(s string) *logic.Variable {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '(', ')', ',', ' ', '\t', '\n', '\r':
			return '_'
		}
		return r
	}, s)
	if s == "" {
		s = "_"
	}
	return logic.Var(s)
}

// Number returns v in its shortest decimal form as a variable term.
func Number(v float64) *logic.Variable {
	return logic.Var(strconv.FormatFloat(v, 'g', -1, 64))
}

// Value formats a constraint value: numbers as Number, anything else as a
// Literal of its default format.
func Value(v any) *logic.Variable {
	if n, ok := types.NumericValue(v); ok {
		return Number(n)
	}
	return Literal(fmt.Sprint(v))
}
