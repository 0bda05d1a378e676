// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package types holds named dependent type definitions and a shallow checker
// for their side-conditions.
//
// The registry is a gate in front of proof search, not an elaborator:
// constraint evaluation and type inference are both best-effort.
package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/logic"
)

// ErrInvalidType is returned when a type definition cannot be registered.
var ErrInvalidType = errors.New("invalid dependent type")

// Universe is the classification level of a dependent type.
type Universe int

const (
	UniverseProp Universe = iota
	UniverseSet
	UniverseType
	UniverseType1
	UniverseType2
)

var universeNames = [...]string{"Prop", "Set", "Type", "Type1", "Type2"}

func (u Universe) String() string {
	if u < 0 || int(u) >= len(universeNames) {
		return "Unknown"
	}
	return universeNames[u]
}

// ParseUniverse converts a universe name (case-insensitive) to a Universe.
func ParseUniverse(s string) (Universe, error) {
	for i, n := range universeNames {
		if strings.EqualFold(n, s) {
			return Universe(i), nil
		}
	}
	return UniverseProp, fmt.Errorf("%w: unknown universe %q", ErrInvalidType, s)
}

// MarshalText implements encoding.TextMarshaler.
func (u Universe) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *Universe) UnmarshalText(b []byte) error {
	parsed, err := ParseUniverse(string(b))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// ConstraintKind classifies a type side-condition.
type ConstraintKind int

const (
	ConstraintEquality ConstraintKind = iota
	ConstraintInequality
	ConstraintMembership
	ConstraintSubtype
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintEquality:
		return "equality"
	case ConstraintInequality:
		return "inequality"
	case ConstraintMembership:
		return "membership"
	case ConstraintSubtype:
		return "subtype"
	default:
		return "unknown"
	}
}

// TypeParameter is a named parameter of a dependent type.
type TypeParameter struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Implicit bool   `json:"implicit"`
}

// TypeConstraint is a side-condition over a type's parameters.
//
// Expression is an application of a comparison operator, for example
// gt(molecular_weight, 0) or in(layer, epidermis, dermis).
type TypeConstraint struct {
	Expression logic.Expression
	Kind       ConstraintKind
}

// DependentType is a named type with parameters and side-conditions.
type DependentType struct {
	Name        string
	Parameters  []TypeParameter
	Constraints []TypeConstraint
	Universe    Universe
}

// Named returns a bare type carrying only a name, used when a binder names a
// type the registry does not know.
func Named(name string) DependentType {
	return DependentType{Name: name, Universe: UniverseType}
}

// ConstraintResult reports the outcome of SatisfiesConstraints.
type ConstraintResult struct {
	Satisfied  bool     `json:"satisfied"`
	Violations []string `json:"violations,omitempty"`
}
