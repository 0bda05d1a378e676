// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package goal

import (
	"maps"

	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/logic"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/theory"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/types"
	"github.com/google/uuid"
)

// TypeResolver looks up dependent types by name. *types.Registry satisfies it.
type TypeResolver interface {
	Lookup(name string) (types.DependentType, bool)
}

// Expander applies axioms to goals.
//
// Thread Safety: Safe for concurrent use if the resolver is.
type Expander struct {
	resolver TypeResolver
}

// NewExpander creates an expander. A nil resolver types every binder as a
// bare named type.
func NewExpander(resolver TypeResolver) *Expander {
	return &Expander{resolver: resolver}
}

// ApplyAxiom performs one backward-chaining step.
//
// Description:
//
//	The axiom's conclusion is unified against g.Target, treating the axiom's
//	Π-bound variables as slots. On success each hypothesis is instantiated
//	with the substitution and becomes a child goal one level deeper. An
//	axiom with no hypotheses closes the goal: it yields a single child whose
//	target is "true".
//
//	Binders the conclusion leaves unbound become fresh metavariables, one
//	tag per application, so the hypotheses ask for "some e" rather than the
//	literal name e. Child goals carrying metavariables close against any
//	rule or fact whose conclusion fits them.
//
//	Each child's context is the parent's, extended with the bound subterms
//	typed by their binder's declared type. Entries already in the parent's
//	context are kept.
//
// Inputs:
//   - g: The goal to expand.
//   - axiom: The axiom or theorem to apply.
//
// Outputs:
//   - []*ProofGoal: The child goals, in hypothesis order. Empty when the
//     conclusion does not unify; that is not an error.
//
// Limitations:
//
//	The children of one application are all required for a proof, but the
//	strategies treat every child as an independent alternative. An axiom
//	with several hypotheses is therefore explored disjunctively.
func (e *Expander) ApplyAxiom(g *ProofGoal, axiom *theory.Theorem) []*ProofGoal {
	if g == nil || g.Target == nil || axiom == nil || axiom.Statement == nil {
		return nil
	}

	sub, ok := logic.Unify(axiom.Conclusion(), g.Target, axiom.Slots())
	if !ok {
		return nil
	}

	sub = freshen(sub, axiom.Binders())
	ctx := e.extendContext(g.Context, axiom.Binders(), sub)
	hypotheses := axiom.Hypotheses()
	if len(hypotheses) == 0 {
		return []*ProofGoal{e.child(g, ctx, logic.True())}
	}

	children := make([]*ProofGoal, 0, len(hypotheses))
	for _, h := range hypotheses {
		children = append(children, e.child(g, ctx, logic.Substitute(h, sub)))
	}
	return children
}

// freshen binds every binder missing from sub to a new metavariable.
func freshen(sub logic.Substitution, binders []logic.Binding) logic.Substitution {
	tag := ""
	for _, b := range binders {
		if _, ok := sub.Lookup(b.Name); ok {
			continue
		}
		if tag == "" {
			tag = uuid.NewString()[:8]
		}
		sub = sub.Bind(b.Name, logic.Meta(b.Name, tag))
	}
	return sub
}

func (e *Expander) child(parent *ProofGoal, ctx map[string]types.DependentType, target logic.Expression) *ProofGoal {
	return &ProofGoal{
		ID:      uuid.NewString(),
		Context: ctx,
		Target:  target,
		Depth:   parent.Depth + 1,
	}
}

func (e *Expander) extendContext(parent map[string]types.DependentType, binders []logic.Binding, sub logic.Substitution) map[string]types.DependentType {
	ctx := make(map[string]types.DependentType, len(parent)+len(binders))
	maps.Copy(ctx, parent)
	for _, b := range binders {
		bound, ok := sub.Lookup(b.Name)
		if !ok {
			continue
		}
		name := bound.String()
		if _, exists := ctx[name]; exists {
			continue
		}
		ctx[name] = e.resolve(b.Type)
	}
	return ctx
}

func (e *Expander) resolve(typeName string) types.DependentType {
	if e.resolver != nil {
		if t, ok := e.resolver.Lookup(typeName); ok {
			return t
		}
	}
	return types.Named(typeName)
}
