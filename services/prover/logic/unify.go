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
	"sort"
	"strings"
)

// -----------------------------------------------------------------------------
// Substitution
// -----------------------------------------------------------------------------

// Substitution maps slot names to the expressions bound to them.
//
// A Substitution is treated as a value: Bind returns a new map and never
// mutates the receiver, so a failed branch of unification cannot leak
// bindings into its caller.
type Substitution map[string]Expression

// Lookup returns the expression bound to name.
func (s Substitution) Lookup(name string) (Expression, bool) {
	e, ok := s[name]
	return e, ok
}

// Bind returns a copy of s with name bound to e.
func (s Substitution) Bind(name string, e Expression) Substitution {
	out := make(Substitution, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[name] = e
	return out
}

// String renders the bindings in name order.
func (s Substitution) String() string {
	if len(s) == 0 {
		return "{}"
	}
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, n := range names {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(n)
		sb.WriteString(" ↦ ")
		sb.WriteString(s[n].String())
	}
	sb.WriteByte('}')
	return sb.String()
}

// -----------------------------------------------------------------------------
// Unification
// -----------------------------------------------------------------------------

// Unify finds a substitution of slots that makes pattern structurally equal
// to target.
//
// Description:
//
//	Variables in pattern whose names appear in slots are unification slots;
//	every other name must match exactly. Target is ground apart from its
//	metavariables (see IsMeta): a metavariable in target matches any
//	pattern subterm and is bound, under its own name, to that subterm. A
//	slot or metavariable that occurs more than once must be bound to equal
//	subterms.
//
//	Binders (Lambda, Pi, Sigma) match when their kinds and binder types
//	agree; their bound names are matched up to renaming, and a binder that
//	reuses a slot name shadows the slot inside its body. A slot may not
//	capture a variable bound inside target.
//
// Inputs:
//
//	pattern - Expression containing slots, typically an axiom conclusion.
//	target - Ground expression, typically a goal target.
//	slots - Names of the variables that may be bound.
//
// Outputs:
//
//	Substitution - The bindings, empty when no slot was needed.
//	bool - False when the two expressions cannot be unified.
//
// Example:
//
//	sub, ok := logic.Unify(logic.App("Safe", logic.Var("f")),
//	    logic.App("Safe", logic.Var("cream")), []string{"f"})
//	// ok == true, sub == {f ↦ cream}
func Unify(pattern, target Expression, slots []string) (Substitution, bool) {
	u := unifier{slots: make(map[string]bool, len(slots))}
	for _, s := range slots {
		u.slots[s] = true
	}
	return u.unify(pattern, target, Substitution{}, nil)
}

type unifier struct {
	slots map[string]bool
}

// scope maps pattern binder names to the target binder names they were
// matched against. Inner binders shadow outer ones.
type scope map[string]string

func (s scope) with(patternName, targetName string) scope {
	out := make(scope, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[patternName] = targetName
	return out
}

func (s scope) targetNames() map[string]bool {
	out := make(map[string]bool, len(s))
	for _, v := range s {
		out[v] = true
	}
	return out
}

func (u unifier) unify(p, t Expression, sub Substitution, sc scope) (Substitution, bool) {
	if p == nil || t == nil {
		return sub, p == nil && t == nil
	}
	if IsMeta(t) && !u.isSlot(p, sc) {
		return u.bindMeta(t.(*Variable).Name, p, sub, sc)
	}

	switch pv := p.(type) {
	case *Variable:
		if tgt, ok := sc[pv.Name]; ok {
			tv, isVar := t.(*Variable)
			return sub, isVar && tv.Name == tgt
		}
		if u.slots[pv.Name] {
			if len(sc) > 0 && Mentions(t, sc.targetNames()) {
				return sub, false
			}
			if existing, ok := sub[pv.Name]; ok {
				return sub, Equal(existing, t)
			}
			return sub.Bind(pv.Name, t), true
		}
		tv, ok := t.(*Variable)
		return sub, ok && tv.Name == pv.Name

	case *Application:
		tv, ok := t.(*Application)
		if !ok || tv.Name != pv.Name || len(tv.Args) != len(pv.Args) {
			return sub, false
		}
		for i := range pv.Args {
			sub, ok = u.unify(pv.Args[i], tv.Args[i], sub, sc)
			if !ok {
				return sub, false
			}
		}
		return sub, true

	case *Lambda:
		tv, ok := t.(*Lambda)
		if !ok || tv.Binding.Type != pv.Binding.Type {
			return sub, false
		}
		return u.unify(pv.Body, tv.Body, sub, sc.with(pv.Binding.Name, tv.Binding.Name))

	case *Pi:
		tv, ok := t.(*Pi)
		if !ok || tv.Binding.Type != pv.Binding.Type {
			return sub, false
		}
		return u.unify(pv.Body, tv.Body, sub, sc.with(pv.Binding.Name, tv.Binding.Name))

	case *Sigma:
		tv, ok := t.(*Sigma)
		if !ok || tv.Binding.Type != pv.Binding.Type {
			return sub, false
		}
		return u.unify(pv.Body, tv.Body, sub, sc.with(pv.Binding.Name, tv.Binding.Name))

	case *Inductive:
		return sub, Equal(pv, t)

	case *Match:
		tv, ok := t.(*Match)
		if !ok || len(tv.Cases) != len(pv.Cases) {
			return sub, false
		}
		sub, ok = u.unify(pv.Scrutinee, tv.Scrutinee, sub, sc)
		if !ok {
			return sub, false
		}
		for i := range pv.Cases {
			if !Equal(pv.Cases[i].Pattern, tv.Cases[i].Pattern) {
				return sub, false
			}
			sub, ok = u.unify(pv.Cases[i].Body, tv.Cases[i].Body, sub, sc)
			if !ok {
				return sub, false
			}
		}
		return sub, true
	}
	return sub, false
}

// isSlot reports whether p is a pattern slot or a name bound by a pattern
// binder in scope. Those are matched by the ordinary rules even against a
// metavariable.
func (u unifier) isSlot(p Expression, sc scope) bool {
	v, ok := p.(*Variable)
	if !ok {
		return false
	}
	if _, scoped := sc[v.Name]; scoped {
		return true
	}
	return u.slots[v.Name]
}

func (u unifier) bindMeta(name string, p Expression, sub Substitution, sc scope) (Substitution, bool) {
	if len(sc) > 0 {
		bound := make(map[string]bool, len(sc))
		for k := range sc {
			bound[k] = true
		}
		if Mentions(p, bound) {
			return sub, false
		}
	}
	if existing, ok := sub[name]; ok {
		return sub, Equal(existing, p)
	}
	return sub.Bind(name, p), true
}

// Substitute replaces every free occurrence of a bound name in e.
//
// Binders that rebind a name stop substitution of that name inside their
// body. Substitution is not capture-avoiding; callers substitute ground
// goal subterms, which carry no binders of their own in practice.
func Substitute(e Expression, sub Substitution) Expression {
	if len(sub) == 0 || e == nil {
		return e
	}
	switch x := e.(type) {
	case *Variable:
		if r, ok := sub[x.Name]; ok {
			return r
		}
		return x
	case *Application:
		args := make([]Expression, len(x.Args))
		for i, a := range x.Args {
			args[i] = Substitute(a, sub)
		}
		return &Application{Name: x.Name, Args: args}
	case *Lambda:
		return &Lambda{Binding: x.Binding, Body: Substitute(x.Body, without(sub, x.Binding.Name))}
	case *Pi:
		return &Pi{Binding: x.Binding, Body: Substitute(x.Body, without(sub, x.Binding.Name))}
	case *Sigma:
		return &Sigma{Binding: x.Binding, Body: Substitute(x.Body, without(sub, x.Binding.Name))}
	case *Match:
		cases := make([]MatchCase, len(x.Cases))
		for i, c := range x.Cases {
			cases[i] = MatchCase{Pattern: c.Pattern, Body: Substitute(c.Body, sub)}
		}
		return &Match{Scrutinee: Substitute(x.Scrutinee, sub), Cases: cases}
	}
	return e
}

func without(sub Substitution, name string) Substitution {
	if _, ok := sub[name]; !ok {
		return sub
	}
	out := make(Substitution, len(sub))
	for k, v := range sub {
		if k != name {
			out[k] = v
		}
	}
	return out
}

// Mentions reports whether any Variable in e has a name in names.
func Mentions(e Expression, names map[string]bool) bool {
	switch x := e.(type) {
	case *Variable:
		return names[x.Name]
	case *Application:
		for _, a := range x.Args {
			if Mentions(a, names) {
				return true
			}
		}
	case *Lambda:
		return Mentions(x.Body, names)
	case *Pi:
		return Mentions(x.Body, names)
	case *Sigma:
		return Mentions(x.Body, names)
	case *Match:
		if Mentions(x.Scrutinee, names) {
			return true
		}
		for _, c := range x.Cases {
			if Mentions(c.Body, names) {
				return true
			}
		}
	}
	return false
}
