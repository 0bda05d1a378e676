// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package goal

import "container/heap"

// Frontier holds goals waiting to be explored.
//
// Thread Safety: Not safe for concurrent use. A frontier belongs to one
// search.
type Frontier interface {
	Push(g *ProofGoal)
	Pop() (*ProofGoal, bool)
	Len() int
}

// -----------------------------------------------------------------------------
// FIFO
// -----------------------------------------------------------------------------

// Queue is a first-in first-out frontier.
type Queue struct {
	items []*ProofGoal
}

// NewQueue creates an empty FIFO frontier.
func NewQueue() *Queue { return &Queue{} }

func (q *Queue) Push(g *ProofGoal) { q.items = append(q.items, g) }

func (q *Queue) Pop() (*ProofGoal, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	g := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return g, true
}

func (q *Queue) Len() int { return len(q.items) }

// -----------------------------------------------------------------------------
// LIFO
// -----------------------------------------------------------------------------

// Stack is a last-in first-out frontier.
type Stack struct {
	items []*ProofGoal
}

// NewStack creates an empty LIFO frontier.
func NewStack() *Stack { return &Stack{} }

func (s *Stack) Push(g *ProofGoal) { s.items = append(s.items, g) }

func (s *Stack) Pop() (*ProofGoal, bool) {
	n := len(s.items)
	if n == 0 {
		return nil, false
	}
	g := s.items[n-1]
	s.items[n-1] = nil
	s.items = s.items[:n-1]
	return g, true
}

func (s *Stack) Len() int { return len(s.items) }

// -----------------------------------------------------------------------------
// Priority
// -----------------------------------------------------------------------------

// Order selects which end of the score range a PriorityQueue pops first.
type Order int

const (
	// HighestFirst pops the largest score first.
	HighestFirst Order = iota
	// LowestFirst pops the smallest score first.
	LowestFirst
)

// PriorityQueue pops goals by a score fixed at push time. Equal scores pop
// in insertion order.
type PriorityQueue struct {
	h entryHeap
}

// NewPriorityQueue creates a frontier that scores each goal once, on Push.
//
// Inputs:
//   - score: Computes the ordering key. Called exactly once per Push.
//   - order: Whether higher or lower scores pop first.
func NewPriorityQueue(score func(*ProofGoal) float64, order Order) *PriorityQueue {
	return &PriorityQueue{h: entryHeap{score: score, order: order}}
}

func (p *PriorityQueue) Push(g *ProofGoal) {
	heap.Push(&p.h, entry{goal: g, score: p.h.score(g), seq: p.h.next})
	p.h.next++
}

func (p *PriorityQueue) Pop() (*ProofGoal, bool) {
	if p.h.Len() == 0 {
		return nil, false
	}
	return heap.Pop(&p.h).(entry).goal, true
}

func (p *PriorityQueue) Len() int { return p.h.Len() }

type entry struct {
	goal  *ProofGoal
	score float64
	seq   uint64
}

type entryHeap struct {
	items []entry
	score func(*ProofGoal) float64
	order Order
	next  uint64
}

func (h *entryHeap) Len() int { return len(h.items) }

func (h *entryHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.score != b.score {
		if h.order == HighestFirst {
			return a.score > b.score
		}
		return a.score < b.score
	}
	return a.seq < b.seq
}

func (h *entryHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *entryHeap) Push(x any) { h.items = append(h.items, x.(entry)) }

func (h *entryHeap) Pop() any {
	n := len(h.items)
	e := h.items[n-1]
	h.items[n-1] = entry{}
	h.items = h.items[:n-1]
	return e
}
