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
	"log/slog"
	"sync"
)

// Store is the axiom and theorem database.
//
// Description:
//
//	Entries are keyed by ID and kept in registration order. Re-adding an ID
//	replaces the entry in place without moving it, so search order stays
//	stable across reloads. Entries are never removed.
//
// Thread Safety: Safe for concurrent use. Searches should work from a
// Snapshot rather than holding the store.
type Store struct {
	mu           sync.RWMutex
	axioms       map[string]*Theorem
	axiomOrder   []string
	theorems     map[string]*Theorem
	theoremOrder []string
	logger       *slog.Logger
}

// Snapshot is a point-in-time view of a Store.
type Snapshot struct {
	Axioms   []*Theorem
	Theorems []*Theorem
}

// NewStore creates an empty store.
//
// Inputs:
//   - logger: Logger for store events. If nil, uses slog.Default().
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		axioms:   make(map[string]*Theorem),
		theorems: make(map[string]*Theorem),
		logger:   logger.With(slog.String("component", "theory_store")),
	}
}

// NewDomainStore creates a store pre-loaded with SeedAxioms.
func NewDomainStore(logger *slog.Logger) *Store {
	s := NewStore(logger)
	for _, a := range SeedAxioms() {
		// Seed axioms are static and always valid.
		_ = s.AddAxiom(a)
	}
	return s
}

// AddAxiom inserts or replaces the axiom with a.ID.
//
// Outputs:
//   - error: ErrInvalidTheorem if a has no ID or no statement.
func (s *Store) AddAxiom(a *Theorem) error {
	if err := a.validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.axioms[a.ID]; !exists {
		s.axiomOrder = append(s.axiomOrder, a.ID)
	} else {
		s.logger.Debug("axiom replaced", slog.String("id", a.ID))
	}
	s.axioms[a.ID] = a
	return nil
}

// AddTheorem inserts or replaces the proved theorem with t.ID.
func (s *Store) AddTheorem(t *Theorem) error {
	if err := t.validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.theorems[t.ID]; !exists {
		s.theoremOrder = append(s.theoremOrder, t.ID)
	}
	s.theorems[t.ID] = t
	s.logger.Debug("theorem recorded",
		slog.String("id", t.ID),
		slog.String("name", t.Name),
	)
	return nil
}

// Axiom returns the axiom registered under id.
func (s *Store) Axiom(id string) (*Theorem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.axioms[id]
	return a, ok
}

// Axioms returns the axioms in registration order.
func (s *Store) Axioms() []*Theorem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ordered(s.axioms, s.axiomOrder)
}

// Theorems returns the proved theorems in registration order.
func (s *Store) Theorems() []*Theorem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ordered(s.theorems, s.theoremOrder)
}

// Snapshot returns both lists taken under a single lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Axioms:   ordered(s.axioms, s.axiomOrder),
		Theorems: ordered(s.theorems, s.theoremOrder),
	}
}

func ordered(byID map[string]*Theorem, order []string) []*Theorem {
	out := make([]*Theorem, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}
