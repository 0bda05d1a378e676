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
	"fmt"
	"strings"
	"unicode"
)

// ErrParse is returned when surface syntax cannot be parsed.
var ErrParse = errors.New("parse expression")

// Parse reads a variable or application in surface syntax.
//
// Description:
//
//	Accepts the first-order fragment printed by String: a name, or a name
//	followed by a parenthesised, comma-separated argument list. Names are
//	runs of any characters other than whitespace, parentheses, and commas,
//	so literals such as 0.9 or stratum_corneum are single names.
//
// Inputs:
//
//	src - The text to parse.
//
// Outputs:
//
//	Expression - The parsed expression.
//	error - Wraps ErrParse with the offending position.
//
// Example:
//
//	e, err := logic.Parse("implies(SafeIngredients(f), Safe(f))")
func Parse(src string) (Expression, error) {
	p := &parser{src: src}
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return e, nil
}

// MustParse is like Parse but panics on error. Intended for static tables.
func MustParse(src string) Expression {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrParse, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) name() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '(' || c == ')' || c == ',' || unicode.IsSpace(rune(c)) {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) expression() (Expression, error) {
	p.skipSpace()
	name := p.name()
	if name == "" {
		if p.pos >= len(p.src) {
			return nil, p.errorf("unexpected end of input")
		}
		return nil, p.errorf("expected name, found %q", p.src[p.pos])
	}
	p.skipSpace()
	if p.peek() != '(' {
		return Var(name), nil
	}
	p.pos++

	var args []Expression
	p.skipSpace()
	if p.peek() == ')' {
		p.pos++
		return &Application{Name: name, Args: args}, nil
	}
	for {
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return &Application{Name: name, Args: args}, nil
		default:
			if p.pos >= len(p.src) {
				return nil, p.errorf("unclosed argument list for %s", name)
			}
			return nil, p.errorf("expected ',' or ')' in %s, found %q", name, strings.TrimSpace(p.src[p.pos:]))
		}
	}
}
