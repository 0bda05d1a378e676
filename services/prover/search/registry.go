// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package search

import (
	"log/slog"

	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/goal"
)

// Registered strategy names.
const (
	NameBreadthFirst = "breadth_first"
	NameDepthFirst   = "depth_first"
	NameBestFirst    = "best_first"
	NameAStar        = "a_star"
)

var constructors = map[string]func(*goal.Expander, *slog.Logger) Strategy{
	NameBreadthFirst: func(e *goal.Expander, l *slog.Logger) Strategy { return NewBreadthFirst(e, l) },
	NameDepthFirst:   func(e *goal.Expander, l *slog.Logger) Strategy { return NewDepthFirst(e, l) },
	NameBestFirst:    func(e *goal.Expander, l *slog.Logger) Strategy { return NewBestFirst(e, l) },
	NameAStar:        func(e *goal.Expander, l *slog.Logger) Strategy { return NewAStar(e, l) },
}

// Names returns the registered strategy names in a fixed order.
func Names() []string {
	return []string{NameBreadthFirst, NameDepthFirst, NameBestFirst, NameAStar}
}

// New returns the strategy registered under name.
//
// Outputs:
//   - Strategy: The strategy, ready for concurrent Search calls.
//   - error: A *StrategyError wrapping ErrUnknownStrategy if name is not
//     registered. There is no fallback strategy.
func New(name string, expander *goal.Expander, logger *slog.Logger) (Strategy, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, &StrategyError{Strategy: name, Operation: "New", Err: ErrUnknownStrategy}
	}
	return ctor(expander, logger), nil
}
