// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package theory holds the domain axioms and the theorems proved on top of
// them.
//
// Axioms are loaded once at startup. Theorems may be appended while the
// process runs, but nothing is ever removed, so a snapshot taken before a
// search stays valid for the whole search.
package theory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/logic"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/types"
	"github.com/google/uuid"
)

// ErrInvalidTheorem is returned when a theorem cannot be stored.
var ErrInvalidTheorem = errors.New("invalid theorem")

// Theorem is an axiom or a proved proposition.
//
// Description:
//
//	Statement is typically Π-quantified over the variables that act as
//	unification slots, with an implies chain beneath the binders:
//
//	  Π(f:Formulation). implies(SafeIngredients(f), Safe(f))
//
//	Assumptions repeat the premises as separate propositions. When
//	Assumptions is empty the premises of the implies chain are used instead.
//
// Thread Safety: Immutable after construction. Share freely.
type Theorem struct {
	ID          string
	Name        string
	Statement   logic.Expression
	Assumptions []logic.Expression
	Universe    types.Universe
	Complexity  float64
}

// NewTheorem creates a theorem with a generated ID.
//
// Inputs:
//   - name: Human-readable name.
//   - statement: The proposition. Must not be nil.
//   - assumptions: Premises; may be nil.
//
// Outputs:
//   - *Theorem: The theorem, in the Prop universe with complexity 1.
func NewTheorem(name string, statement logic.Expression, assumptions []logic.Expression) *Theorem {
	return &Theorem{
		ID:          uuid.NewString(),
		Name:        name,
		Statement:   statement,
		Assumptions: append([]logic.Expression(nil), assumptions...),
		Universe:    types.UniverseProp,
		Complexity:  1,
	}
}

// Binders returns the Π binders of the statement, outermost first.
func (t *Theorem) Binders() []logic.Binding {
	binders, _ := logic.StripBinders(t.Statement)
	return binders
}

// Slots returns the names of the Π-bound variables, which unification may
// instantiate.
func (t *Theorem) Slots() []string {
	binders := t.Binders()
	slots := make([]string, len(binders))
	for i, b := range binders {
		slots[i] = b.Name
	}
	return slots
}

// Conclusion returns the statement with binders and premises removed.
func (t *Theorem) Conclusion() logic.Expression {
	_, body := logic.StripBinders(t.Statement)
	_, conclusion := logic.SplitImplication(body)
	return conclusion
}

// Hypotheses returns the premises that must be proved to use this theorem.
func (t *Theorem) Hypotheses() []logic.Expression {
	if len(t.Assumptions) > 0 {
		return t.Assumptions
	}
	_, body := logic.StripBinders(t.Statement)
	premises, _ := logic.SplitImplication(body)
	return premises
}

func (t *Theorem) String() string {
	return fmt.Sprintf("%s: %s", t.Name, t.Statement)
}

func (t *Theorem) validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil theorem", ErrInvalidTheorem)
	}
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidTheorem)
	}
	if t.Statement == nil {
		return fmt.Errorf("%w: %s has no statement", ErrInvalidTheorem, t.ID)
	}
	for i, a := range t.Assumptions {
		if a == nil {
			return fmt.Errorf("%w: %s assumption %d is nil", ErrInvalidTheorem, t.ID, i)
		}
	}
	return nil
}
