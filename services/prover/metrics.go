// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package prover

import (
	"github.com/Kaw-Aii/skintwinformx-sub000/services/prover/search"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// searchesTotal counts completed searches.
	// Labels: strategy, outcome (proven, timeout, cancelled, exhausted)
	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skintwin_prover",
		Name:      "searches_total",
		Help:      "Total proof searches by strategy and outcome",
	}, []string{"strategy", "outcome"})

	// searchDuration measures wall-clock search time.
	// Labels: strategy
	searchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "skintwin_prover",
		Name:      "search_duration_seconds",
		Help:      "Proof search duration in seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
	}, []string{"strategy"})

	// nodesExplored tracks goals popped per search.
	// Labels: strategy
	nodesExplored = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "skintwin_prover",
		Name:      "nodes_explored",
		Help:      "Goals popped from the frontier per search",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	}, []string{"strategy"})

	// typeViolationsTotal counts violations reported by the type-check gate.
	typeViolationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "skintwin_prover",
		Name:      "type_violations_total",
		Help:      "Total type-check violations",
	})

	// confidence tracks the distribution of verification confidence.
	confidence = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "skintwin_prover",
		Name:      "confidence",
		Help:      "Distribution of verification confidence scores",
		Buckets:   []float64{0, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 1.0},
	})
)

// RecordSearch records one search result.
func RecordSearch(r search.Result) {
	searchesTotal.WithLabelValues(r.Strategy, r.Outcome()).Inc()
	searchDuration.WithLabelValues(r.Strategy).Observe(r.SearchTime.Seconds())
	nodesExplored.WithLabelValues(r.Strategy).Observe(float64(r.NodesExplored))
}

// RecordTypeViolations adds n to the violation counter.
func RecordTypeViolations(n int) {
	if n > 0 {
		typeViolationsTotal.Add(float64(n))
	}
}

// RecordConfidence records a verification's confidence score.
func RecordConfidence(c float64) {
	confidence.Observe(c)
}
