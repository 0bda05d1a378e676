// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package logic provides the term language used to state axioms, goals, and
// proofs.
//
// An Expression is one of seven node kinds:
//
//	Variable     x
//	Application  f(a, b, ...)
//	Lambda       λ(x:T). body
//	Pi           Π(x:T). body        dependent function type
//	Sigma        Σ(x:T). body        dependent pair
//	Inductive    inductive Name(...) { C1 | C2 ... }
//	Match        match s { p => b; ... }
//
// Expressions are immutable once constructed. Constructors copy their slice
// arguments so callers may reuse them.
//
// Constants (identifiers, literal numbers, the proposition "true") are
// Variables. Only the variables bound by an axiom's Pi binders behave as
// unification slots; see Unify. Variables named with MetaPrefix are
// metavariables: unknowns in a goal that unify with any term.
package logic

import (
	"strings"
)

// Kind identifies the node type of an Expression.
type Kind int

const (
	KindVariable Kind = iota
	KindApplication
	KindLambda
	KindPi
	KindSigma
	KindInductive
	KindMatch
)

// String returns the lowercase tag used in canonical keys.
func (k Kind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindApplication:
		return "application"
	case KindLambda:
		return "lambda"
	case KindPi:
		return "pi"
	case KindSigma:
		return "sigma"
	case KindInductive:
		return "inductive"
	case KindMatch:
		return "match"
	default:
		return "unknown"
	}
}

// TrueName is the name of the proposition that closes a goal.
const TrueName = "true"

// Expression is a node of the term language.
//
// The interface is sealed: only the types in this package implement it.
type Expression interface {
	// Kind returns the node type.
	Kind() Kind

	// Head returns the head name used for canonical keys: the variable or
	// function name, the binder name for Lambda/Pi/Sigma, the type name for
	// Inductive, and "match" for Match.
	Head() string

	// String renders the expression in surface syntax.
	String() string

	expression()
}

// Binding names a bound variable and the name of its type.
type Binding struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

func (b Binding) String() string {
	if b.Type == "" {
		return b.Name
	}
	return b.Name + ":" + b.Type
}

// -----------------------------------------------------------------------------
// Node types
// -----------------------------------------------------------------------------

// Variable is a named variable or constant.
type Variable struct {
	Name string
}

func (v *Variable) Kind() Kind     { return KindVariable }
func (v *Variable) Head() string   { return v.Name }
func (v *Variable) String() string { return v.Name }
func (*Variable) expression()      {}

// Application applies a named function or predicate to arguments.
type Application struct {
	Name string
	Args []Expression
}

func (a *Application) Kind() Kind   { return KindApplication }
func (a *Application) Head() string { return a.Name }
func (*Application) expression()    {}

func (a *Application) String() string {
	var sb strings.Builder
	sb.WriteString(a.Name)
	sb.WriteByte('(')
	for i, arg := range a.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Lambda is a function abstraction.
type Lambda struct {
	Binding Binding
	Body    Expression
}

func (l *Lambda) Kind() Kind     { return KindLambda }
func (l *Lambda) Head() string   { return l.Binding.Name }
func (l *Lambda) String() string { return "λ(" + l.Binding.String() + "). " + l.Body.String() }
func (*Lambda) expression()      {}

// Pi is a dependent function type; as a proposition it reads "for all".
type Pi struct {
	Binding Binding
	Body    Expression
}

func (p *Pi) Kind() Kind     { return KindPi }
func (p *Pi) Head() string   { return p.Binding.Name }
func (p *Pi) String() string { return "Π(" + p.Binding.String() + "). " + p.Body.String() }
func (*Pi) expression()      {}

// Sigma is a dependent pair type; as a proposition it reads "there exists".
type Sigma struct {
	Binding Binding
	Body    Expression
}

func (s *Sigma) Kind() Kind     { return KindSigma }
func (s *Sigma) Head() string   { return s.Binding.Name }
func (s *Sigma) String() string { return "Σ(" + s.Binding.String() + "). " + s.Body.String() }
func (*Sigma) expression()      {}

// Constructor is one constructor of an inductive type.
type Constructor struct {
	Name string
	Args []Binding
}

// Inductive declares an inductive type with its constructors.
type Inductive struct {
	Name         string
	Parameters   []Binding
	Constructors []Constructor
}

func (i *Inductive) Kind() Kind   { return KindInductive }
func (i *Inductive) Head() string { return i.Name }
func (*Inductive) expression()    {}

func (i *Inductive) String() string {
	var sb strings.Builder
	sb.WriteString("inductive ")
	sb.WriteString(i.Name)
	if len(i.Parameters) > 0 {
		sb.WriteByte('(')
		for j, p := range i.Parameters {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.String())
		}
		sb.WriteByte(')')
	}
	sb.WriteString(" {")
	for j, c := range i.Constructors {
		if j > 0 {
			sb.WriteString(" |")
		}
		sb.WriteByte(' ')
		sb.WriteString(c.Name)
		if len(c.Args) > 0 {
			sb.WriteByte('(')
			for k, a := range c.Args {
				if k > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(a.String())
			}
			sb.WriteByte(')')
		}
	}
	sb.WriteString(" }")
	return sb.String()
}

// MatchCase is one arm of a Match.
type MatchCase struct {
	Pattern Expression
	Body    Expression
}

// Match performs case analysis on a scrutinee.
type Match struct {
	Scrutinee Expression
	Cases     []MatchCase
}

func (m *Match) Kind() Kind   { return KindMatch }
func (m *Match) Head() string { return "match" }
func (*Match) expression()    {}

func (m *Match) String() string {
	var sb strings.Builder
	sb.WriteString("match ")
	sb.WriteString(m.Scrutinee.String())
	sb.WriteString(" {")
	for i, c := range m.Cases {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteByte(' ')
		sb.WriteString(c.Pattern.String())
		sb.WriteString(" => ")
		sb.WriteString(c.Body.String())
	}
	sb.WriteString(" }")
	return sb.String()
}

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

// Var returns a Variable.
func Var(name string) *Variable {
	return &Variable{Name: name}
}

// App returns an Application of name to args.
func App(name string, args ...Expression) *Application {
	copied := make([]Expression, len(args))
	copy(copied, args)
	return &Application{Name: name, Args: copied}
}

// NewLambda returns λ(name:typ). body.
func NewLambda(name, typ string, body Expression) *Lambda {
	return &Lambda{Binding: Binding{Name: name, Type: typ}, Body: body}
}

// NewPi returns Π(name:typ). body.
func NewPi(name, typ string, body Expression) *Pi {
	return &Pi{Binding: Binding{Name: name, Type: typ}, Body: body}
}

// NewSigma returns Σ(name:typ). body.
func NewSigma(name, typ string, body Expression) *Sigma {
	return &Sigma{Binding: Binding{Name: name, Type: typ}, Body: body}
}

// NewInductive returns an inductive type declaration.
func NewInductive(name string, params []Binding, ctors ...Constructor) *Inductive {
	return &Inductive{
		Name:         name,
		Parameters:   append([]Binding(nil), params...),
		Constructors: append([]Constructor(nil), ctors...),
	}
}

// NewMatch returns a case analysis over scrutinee.
func NewMatch(scrutinee Expression, cases ...MatchCase) *Match {
	return &Match{Scrutinee: scrutinee, Cases: append([]MatchCase(nil), cases...)}
}

// ForAll wraps body in one Pi per binding, outermost first.
func ForAll(bindings []Binding, body Expression) Expression {
	out := body
	for i := len(bindings) - 1; i >= 0; i-- {
		out = &Pi{Binding: bindings[i], Body: out}
	}
	return out
}

// True returns the closed proposition.
func True() *Variable {
	return Var(TrueName)
}

// MetaPrefix starts the name of every metavariable.
const MetaPrefix = "?"

// Meta returns the metavariable ?name#tag. Backward chaining uses one tag
// per rule application so unknowns from different steps never collide.
func Meta(name, tag string) *Variable {
	return Var(MetaPrefix + name + "#" + tag)
}

// IsMeta reports whether e is a metavariable.
func IsMeta(e Expression) bool {
	v, ok := e.(*Variable)
	return ok && strings.HasPrefix(v.Name, MetaPrefix)
}

// Implies returns implies(hypothesis, conclusion).
func Implies(hypothesis, conclusion Expression) *Application {
	return App("implies", hypothesis, conclusion)
}

// And conjoins the given propositions as nested binary and(...) terms,
// left-associated. A single proposition is returned unchanged; nil for none.
func And(props ...Expression) Expression {
	if len(props) == 0 {
		return nil
	}
	out := props[0]
	for _, p := range props[1:] {
		out = App("and", out, p)
	}
	return out
}

// IsTrue reports whether e is the proposition "true".
func IsTrue(e Expression) bool {
	v, ok := e.(*Variable)
	return ok && v.Name == TrueName
}
