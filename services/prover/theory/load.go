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
	"fmt"
	"io"
	"os"

	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/logic"
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/types"
	"gopkg.in/yaml.v3"
)

const (
	// MaxAxiomFileSize bounds the size of an axiom file.
	MaxAxiomFileSize = 1 << 20

	// MaxAxiomsPerFile bounds the number of axioms in one file.
	MaxAxiomsPerFile = 1000
)

// AxiomFileYAML is the on-disk shape of an axiom file.
//
// Example:
//
//	axioms:
//	  - id: safe_composition
//	    name: SafeComposition
//	    complexity: 1
//	    universe: Prop
//	    binders:
//	      - {name: f, type: Formulation}
//	    hypotheses:
//	      - SafeIngredients(f)
//	    conclusion: Safe(f)
type AxiomFileYAML struct {
	Axioms []AxiomYAML `yaml:"axioms"`
}

// AxiomYAML is one axiom entry. Expressions use the logic.Parse syntax.
type AxiomYAML struct {
	ID         string          `yaml:"id"`
	Name       string          `yaml:"name"`
	Complexity float64         `yaml:"complexity"`
	Universe   string          `yaml:"universe"`
	Binders    []logic.Binding `yaml:"binders"`
	Hypotheses []string        `yaml:"hypotheses"`
	Conclusion string          `yaml:"conclusion"`
}

// LoadAxioms parses an axiom file.
//
// Description:
//
//	Each entry becomes a Theorem whose statement is the binders wrapped
//	around implies(h1, implies(h2, ... conclusion)). The hypotheses are also
//	kept as Assumptions. A missing universe defaults to Prop, a missing name
//	to the ID.
//
// Inputs:
//   - r: The YAML source.
//
// Outputs:
//   - []*Theorem: The axioms in file order.
//   - error: Non-nil on malformed YAML, expressions, or entries.
func LoadAxioms(r io.Reader) ([]*Theorem, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxAxiomFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading axioms: %w", err)
	}
	if len(data) > MaxAxiomFileSize {
		return nil, fmt.Errorf("axiom file too large (max %d bytes)", MaxAxiomFileSize)
	}

	var file AxiomFileYAML
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshaling axioms: %w", err)
	}
	if len(file.Axioms) > MaxAxiomsPerFile {
		return nil, fmt.Errorf("too many axioms: %d (max %d)", len(file.Axioms), MaxAxiomsPerFile)
	}

	out := make([]*Theorem, 0, len(file.Axioms))
	for i, entry := range file.Axioms {
		t, err := entry.theorem()
		if err != nil {
			return nil, fmt.Errorf("axiom at index %d: %w", i, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// LoadAxiomFile opens path and parses it with LoadAxioms.
func LoadAxiomFile(path string) ([]*Theorem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening axiom file: %w", err)
	}
	defer f.Close()
	return LoadAxioms(f)
}

func (a AxiomYAML) theorem() (*Theorem, error) {
	if a.ID == "" {
		return nil, fmt.Errorf("%w: empty id", ErrInvalidTheorem)
	}
	if a.Conclusion == "" {
		return nil, fmt.Errorf("%w: %s has no conclusion", ErrInvalidTheorem, a.ID)
	}

	universe := types.UniverseProp
	if a.Universe != "" {
		u, err := types.ParseUniverse(a.Universe)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", a.ID, err)
		}
		universe = u
	}

	conclusion, err := logic.Parse(a.Conclusion)
	if err != nil {
		return nil, fmt.Errorf("%s conclusion: %w", a.ID, err)
	}
	hypotheses := make([]logic.Expression, 0, len(a.Hypotheses))
	for j, src := range a.Hypotheses {
		h, err := logic.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("%s hypothesis %d: %w", a.ID, j, err)
		}
		hypotheses = append(hypotheses, h)
	}

	body := conclusion
	for j := len(hypotheses) - 1; j >= 0; j-- {
		body = logic.Implies(hypotheses[j], body)
	}
	for _, b := range a.Binders {
		if b.Name == "" {
			return nil, fmt.Errorf("%w: %s has a binder with no name", ErrInvalidTheorem, a.ID)
		}
	}

	name := a.Name
	if name == "" {
		name = a.ID
	}
	complexity := a.Complexity
	if complexity == 0 {
		complexity = 1
	}

	t := &Theorem{
		ID:          a.ID,
		Name:        name,
		Statement:   logic.ForAll(a.Binders, body),
		Assumptions: hypotheses,
		Universe:    universe,
		Complexity:  complexity,
	}
	return t, t.validate()
}
