// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package types

import "github.com/Kaw-Aii/skintwinformx-sub000/services/prover/logic"

// Names of the seed types referenced by the formalizer and the seed axioms.
const (
	TypeFormulation     = "Formulation"
	TypeIngredient      = "Ingredient"
	TypeMolecularWeight = "MolecularWeight"
	TypeConcentration   = "Concentration"
	TypeEffect          = "Effect"
	TypeConfidence      = "Confidence"
	TypeSkinLayer       = "SkinLayer"
	TypePH              = "pH"
)

// Skin layers accepted by the SkinLayer membership constraint, outermost first.
var SkinLayers = []string{"stratum_corneum", "epidermis", "dermis", "hypodermis"}

func cmpConstraint(op, param, bound string) TypeConstraint {
	return TypeConstraint{
		Expression: logic.App(op, logic.Var(param), logic.Var(bound)),
		Kind:       ConstraintInequality,
	}
}

// SeedTypes returns the dependent types of the formulation domain.
func SeedTypes() []DependentType {
	layerArgs := []logic.Expression{logic.Var("layer")}
	for _, l := range SkinLayers {
		layerArgs = append(layerArgs, logic.Var(l))
	}

	return []DependentType{
		{
			Name: TypeFormulation,
			Parameters: []TypeParameter{
				{Name: "ingredients", Type: "List Ingredient"},
			},
			Universe: UniverseType,
		},
		{
			Name: TypeIngredient,
			Parameters: []TypeParameter{
				{Name: "id", Type: "String"},
				{Name: "molecular_weight", Type: TypeMolecularWeight},
			},
			Constraints: []TypeConstraint{cmpConstraint("gt", "molecular_weight", "0")},
			Universe:    UniverseType,
		},
		{
			Name:        TypeMolecularWeight,
			Parameters:  []TypeParameter{{Name: "value", Type: "Real"}},
			Constraints: []TypeConstraint{cmpConstraint("gt", "value", "0")},
			Universe:    UniverseSet,
		},
		{
			Name:       TypeConcentration,
			Parameters: []TypeParameter{{Name: "value", Type: "Real"}},
			Constraints: []TypeConstraint{
				cmpConstraint("ge", "value", "0"),
				cmpConstraint("le", "value", "100"),
			},
			Universe: UniverseSet,
		},
		{
			Name: TypeEffect,
			Parameters: []TypeParameter{
				{Name: "effect_type", Type: "String"},
				{Name: "target_layer", Type: TypeSkinLayer},
			},
			Universe: UniverseType,
		},
		{
			Name:       TypeConfidence,
			Parameters: []TypeParameter{{Name: "value", Type: "Real"}},
			Constraints: []TypeConstraint{
				cmpConstraint("ge", "value", "0"),
				cmpConstraint("le", "value", "1"),
			},
			Universe: UniverseSet,
		},
		{
			Name:       TypeSkinLayer,
			Parameters: []TypeParameter{{Name: "layer", Type: "String"}},
			Constraints: []TypeConstraint{{
				Expression: logic.App("in", layerArgs...),
				Kind:       ConstraintMembership,
			}},
			Universe: UniverseSet,
		},
		{
			Name:       TypePH,
			Parameters: []TypeParameter{{Name: "value", Type: "Real"}},
			Constraints: []TypeConstraint{
				cmpConstraint("ge", "value", "0"),
				cmpConstraint("le", "value", "14"),
			},
			Universe: UniverseSet,
		},
	}
}
