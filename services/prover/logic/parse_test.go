// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package logic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RoundTrip(t *testing.T) {
	inputs := []string{
		"true",
		"Safe(f)",
		"Ingredient(aloe_vera, 150)",
		"implies(SafeIngredients(f), Safe(f))",
		"Effective(Formulation(Ingredient(a, 1.5e2)), hydration, 0.9)",
		"equals(PenetrationDepth(m), inverse(m))",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			e, err := Parse(in)
			require.NoError(t, err)
			assert.Equal(t, in, e.String())
		})
	}
}

func TestParse_Whitespace(t *testing.T) {
	e, err := Parse("  implies ( A( x ) ,B(x) ) ")
	require.NoError(t, err)
	assert.Equal(t, "implies(A(x), B(x))", e.String())
}

func TestParse_Nullary(t *testing.T) {
	e, err := Parse("Unit()")
	require.NoError(t, err)
	assert.Equal(t, KindApplication, e.Kind())
	assert.Equal(t, "Unit()", e.String())
}

func TestParse_Errors(t *testing.T) {
	inputs := []string{
		"",
		"Safe(",
		"Safe(f",
		"Safe(f g)",
		"(f)",
		"Safe(f))",
		"Safe(,)",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse))
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("Safe(") })
}
