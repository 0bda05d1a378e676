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

import "strconv"

// Key returns the canonical shallow key of e: the kind tag and the head name.
//
// Description:
//
//	Two expressions with the same Key are treated as the same search state
//	when they sit at the same depth. The key is deliberately shallow: it
//	ignores arguments, so Effective(f, "hydration") and Effective(f, "repair")
//	collide. Use Equal or String when full structure matters.
//
// Outputs:
//
//	string - "<kind>:<head>", e.g. "application:Safe".
func Key(e Expression) string {
	if e == nil {
		return "nil:"
	}
	return e.Kind().String() + ":" + e.Head()
}

// DepthKey extends Key with a depth marker.
func DepthKey(e Expression, depth int) string {
	return Key(e) + "@" + strconv.Itoa(depth)
}

// Equal reports whether a and b are structurally identical.
//
// Binder names must match exactly; no alpha-renaming is applied.
func Equal(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *Variable:
		return x.Name == b.(*Variable).Name
	case *Application:
		y := b.(*Application)
		if x.Name != y.Name || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *Lambda:
		y := b.(*Lambda)
		return x.Binding == y.Binding && Equal(x.Body, y.Body)
	case *Pi:
		y := b.(*Pi)
		return x.Binding == y.Binding && Equal(x.Body, y.Body)
	case *Sigma:
		y := b.(*Sigma)
		return x.Binding == y.Binding && Equal(x.Body, y.Body)
	case *Inductive:
		return x.String() == b.String()
	case *Match:
		y := b.(*Match)
		if !Equal(x.Scrutinee, y.Scrutinee) || len(x.Cases) != len(y.Cases) {
			return false
		}
		for i := range x.Cases {
			if !Equal(x.Cases[i].Pattern, y.Cases[i].Pattern) || !Equal(x.Cases[i].Body, y.Cases[i].Body) {
				return false
			}
		}
		return true
	}
	return false
}

// StripBinders peels leading Pi binders off e.
//
// Outputs:
//
//	[]Binding - The binders, outermost first.
//	Expression - The body under the last binder.
func StripBinders(e Expression) ([]Binding, Expression) {
	var binders []Binding
	for {
		pi, ok := e.(*Pi)
		if !ok {
			return binders, e
		}
		binders = append(binders, pi.Binding)
		e = pi.Body
	}
}

// SplitImplication splits a right-nested chain of implies(h, c) terms.
//
// implies(a, implies(b, c)) yields premises [a, b] and conclusion c. A term
// that is not an implication yields no premises and itself as conclusion.
func SplitImplication(e Expression) (premises []Expression, conclusion Expression) {
	for {
		app, ok := e.(*Application)
		if !ok || app.Name != "implies" || len(app.Args) != 2 {
			return premises, e
		}
		premises = append(premises, app.Args[0])
		e = app.Args[1]
	}
}
