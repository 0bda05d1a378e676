// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package theory

import (
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/logic"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/types"
)

// Seed axiom IDs.
const (
	AxiomSafeComposition            = "safe_composition"
	AxiomPenetrationMolecularWeight = "penetration_molecular_weight"
	AxiomEffectivenessPenetration   = "effectiveness_penetration"
)

// SeedAxioms returns the built-in formulation axioms:
//
//	safe_composition:             Π(f:Formulation). SafeIngredients(f) ⇒ Safe(f)
//	penetration_molecular_weight: Π(m:MolecularWeight). PenetrationDepth(m) = inverse(m)
//	effectiveness_penetration:    Π(f, e, c, l). Effective(f, e, c) ⇒ Penetrates(f, l)
func SeedAxioms() []*Theorem {
	f, m := logic.Var("f"), logic.Var("m")
	e, c, l := logic.Var("e"), logic.Var("c"), logic.Var("l")

	safeIngredients := logic.App("SafeIngredients", f)
	effective := logic.App("Effective", f, e, c)

	return []*Theorem{
		{
			ID:   AxiomSafeComposition,
			Name: "SafeComposition",
			Statement: logic.ForAll(
				[]logic.Binding{{Name: "f", Type: types.TypeFormulation}},
				logic.Implies(safeIngredients, logic.App("Safe", f)),
			),
			Assumptions: []logic.Expression{safeIngredients},
			Universe:    types.UniverseProp,
			Complexity:  1,
		},
		{
			ID:   AxiomPenetrationMolecularWeight,
			Name: "PenetrationMolecularWeight",
			Statement: logic.ForAll(
				[]logic.Binding{{Name: "m", Type: types.TypeMolecularWeight}},
				logic.App("equals", logic.App("PenetrationDepth", m), logic.App("inverse", m)),
			),
			Universe:   types.UniverseProp,
			Complexity: 2,
		},
		{
			ID:   AxiomEffectivenessPenetration,
			Name: "EffectivenessPenetration",
			Statement: logic.ForAll(
				[]logic.Binding{
					{Name: "f", Type: types.TypeFormulation},
					{Name: "e", Type: types.TypeEffect},
					{Name: "c", Type: types.TypeConfidence},
					{Name: "l", Type: types.TypeSkinLayer},
				},
				logic.Implies(effective, logic.App("Penetrates", f, l)),
			),
			Assumptions: []logic.Expression{effective},
			Universe:    types.UniverseProp,
			Complexity:  3,
		},
	}
}
