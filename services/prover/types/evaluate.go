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
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/logic"
)

type outcome int

const (
	outcomeSatisfied outcome = iota
	outcomeViolated
	outcomeUnresolved
)

// evaluate checks one constraint expression against bindings.
//
// Unknown operators, unbound names, and operand types an operator cannot
// compare all yield outcomeUnresolved.
func evaluate(expr logic.Expression, bindings map[string]any) (outcome, string) {
	app, ok := expr.(*logic.Application)
	if !ok {
		return outcomeUnresolved, ""
	}

	switch app.Name {
	case "eq", "=", "==":
		return compareEquality(app, bindings, true)
	case "ne", "!=":
		return compareEquality(app, bindings, false)
	case "lt", "<", "le", "<=", "gt", ">", "ge", ">=":
		return compareOrdered(app, bindings)
	case "in", "member":
		return checkMembership(app, bindings)
	case "subtype":
		// No subtype lattice is recorded, so only reflexive subtyping is
		// decidable.
		if len(app.Args) == 2 && logic.Equal(app.Args[0], app.Args[1]) {
			return outcomeSatisfied, ""
		}
		return outcomeUnresolved, ""
	}
	return outcomeUnresolved, ""
}

func compareEquality(app *logic.Application, bindings map[string]any, wantEqual bool) (outcome, string) {
	if len(app.Args) != 2 {
		return outcomeUnresolved, ""
	}
	left, lok := resolve(app.Args[0], bindings)
	right, rok := resolve(app.Args[1], bindings)
	if !lok || !rok {
		return outcomeUnresolved, ""
	}

	var equal bool
	lf, lnum := NumericValue(left)
	rf, rnum := NumericValue(right)
	if lnum && rnum {
		equal = lf == rf
	} else {
		equal = fmt.Sprint(left) == fmt.Sprint(right)
	}

	if equal == wantEqual {
		return outcomeSatisfied, ""
	}
	return outcomeViolated, describe(app, left, right)
}

func compareOrdered(app *logic.Application, bindings map[string]any) (outcome, string) {
	if len(app.Args) != 2 {
		return outcomeUnresolved, ""
	}
	left, lok := resolve(app.Args[0], bindings)
	right, rok := resolve(app.Args[1], bindings)
	if !lok || !rok {
		return outcomeUnresolved, ""
	}
	lf, lnum := NumericValue(left)
	rf, rnum := NumericValue(right)
	if !lnum || !rnum {
		return outcomeUnresolved, ""
	}

	var ok bool
	switch app.Name {
	case "lt", "<":
		ok = lf < rf
	case "le", "<=":
		ok = lf <= rf
	case "gt", ">":
		ok = lf > rf
	case "ge", ">=":
		ok = lf >= rf
	}
	if ok {
		return outcomeSatisfied, ""
	}
	return outcomeViolated, describe(app, left, right)
}

func checkMembership(app *logic.Application, bindings map[string]any) (outcome, string) {
	if len(app.Args) < 2 {
		return outcomeUnresolved, ""
	}
	value, ok := resolve(app.Args[0], bindings)
	if !ok {
		return outcomeUnresolved, ""
	}
	needle := fmt.Sprint(value)
	for _, candidate := range app.Args[1:] {
		if candidate.String() == needle {
			return outcomeSatisfied, ""
		}
	}
	return outcomeViolated, fmt.Sprintf("%s=%v not in %s", app.Args[0], value, app)
}

// resolve turns a constraint operand into a value: a bound name yields its
// binding, a numeric literal yields the number. Anything else is unresolved.
func resolve(e logic.Expression, bindings map[string]any) (any, bool) {
	v, ok := e.(*logic.Variable)
	if !ok {
		return nil, false
	}
	if bound, ok := bindings[v.Name]; ok {
		return bound, true
	}
	if f, err := strconv.ParseFloat(v.Name, 64); err == nil {
		return f, true
	}
	return nil, false
}

func describe(app *logic.Application, left, right any) string {
	return fmt.Sprintf("%s with %s=%v, %s=%v", app, app.Args[0], left, app.Args[1], right)
}

// NumericValue converts v to float64 when it holds a Go numeric type or a
// json.Number. Strings are not parsed.
func NumericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
