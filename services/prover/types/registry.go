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

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/logic"
)

// Registry maps type names to their definitions.
//
// Description:
//
//	Types are registered during a single-threaded startup phase and read
//	concurrently by every proof search afterwards. The mutex makes late
//	registration safe, but a search only sees types registered before it
//	started looking them up.
//
// Thread Safety: Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	types  map[string]DependentType
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
//
// Inputs:
//   - logger: Logger for constraint diagnostics. If nil, uses slog.Default().
//
// Outputs:
//   - *Registry: The new registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		types:  make(map[string]DependentType),
		logger: logger.With(slog.String("component", "type_registry")),
	}
}

// NewDomainRegistry creates a registry pre-loaded with SeedTypes.
func NewDomainRegistry(logger *slog.Logger) *Registry {
	r := NewRegistry(logger)
	for _, t := range SeedTypes() {
		// Seed types are static and always valid.
		_ = r.Register(t)
	}
	return r
}

// Register inserts or overwrites the type with t.Name.
//
// Outputs:
//   - error: ErrInvalidType if the name is empty or a constraint has no
//     expression.
func (r *Registry) Register(t DependentType) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidType)
	}
	for i, c := range t.Constraints {
		if c.Expression == nil {
			return fmt.Errorf("%w: %s constraint %d has no expression", ErrInvalidType, t.Name, i)
		}
	}

	r.mu.Lock()
	r.types[t.Name] = t
	r.mu.Unlock()
	return nil
}

// Lookup returns the type registered under name.
func (r *Registry) Lookup(name string) (DependentType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// LookupFold is Lookup with case-insensitive name matching. An exact match
// wins over a case-folded one.
func (r *Registry) LookupFold(name string) (DependentType, bool) {
	if t, ok := r.Lookup(name); ok {
		return t, true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for n, t := range r.types {
		if strings.EqualFold(n, name) {
			return t, true
		}
	}
	return DependentType{}, false
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for n := range r.types {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// SatisfiesConstraints evaluates every constraint of t against bindings.
//
// Description:
//
//	Each constraint is an operator application over parameter names and
//	numeric literals. A name resolves to its value in bindings. Constraints
//	that cannot be resolved (an unbound parameter, an unknown operator, or
//	operands the operator cannot compare) are treated as satisfied. This
//	permissive policy is intentional; only constraints that evaluate to
//	false produce violations.
//
// Inputs:
//   - t: The type whose constraints to check.
//   - bindings: Parameter values by name.
//
// Outputs:
//   - ConstraintResult: Satisfied is false iff Violations is non-empty.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) SatisfiesConstraints(t DependentType, bindings map[string]any) ConstraintResult {
	result := ConstraintResult{Satisfied: true}
	for _, c := range t.Constraints {
		out, detail := evaluate(c.Expression, bindings)
		switch out {
		case outcomeViolated:
			result.Satisfied = false
			result.Violations = append(result.Violations,
				fmt.Sprintf("%s: %s constraint violated: %s", t.Name, c.Kind, detail))
		case outcomeUnresolved:
			r.logger.Debug("constraint unresolved, treating as satisfied",
				slog.String("type", t.Name),
				slog.String("constraint", c.Expression.String()),
			)
		}
	}
	return result
}

// InferType returns the type of expr when it can be determined cheaply.
//
// A variable bound in context yields its bound type. An application whose
// head names a registered type yields that type. Anything else yields
// false; this is not an error.
func (r *Registry) InferType(expr logic.Expression, context map[string]DependentType) (DependentType, bool) {
	switch e := expr.(type) {
	case *logic.Variable:
		t, ok := context[e.Name]
		return t, ok
	case *logic.Application:
		return r.Lookup(e.Name)
	}
	return DependentType{}, false
}
