// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package coherence

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wdamron/coherence/solve"
)

// Metrics counts the work done by a Checker.
type Metrics struct {
	// Solver queries, labelled by kind (disjoint, specializes) and verdict.
	Queries *prometheus.CounterVec
	// Pairs of implementations compared.
	Pairs prometheus.Counter
	// Specialization edges recorded.
	Edges prometheus.Counter
	// Traits checked, labelled by outcome (coherent, marker, overlapping, failed).
	Traits *prometheus.CounterVec
}

// NewMetrics creates checker metrics and registers them with reg, which may be nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coherence",
			Name:      "solver_queries_total",
			Help:      "Solver queries posed by the coherence checker.",
		}, []string{"kind", "verdict"}),
		Pairs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coherence",
			Name:      "impl_pairs_total",
			Help:      "Pairs of implementations compared for overlap.",
		}),
		Edges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coherence",
			Name:      "specialization_edges_total",
			Help:      "Specialization edges recorded.",
		}),
		Traits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coherence",
			Name:      "traits_checked_total",
			Help:      "Traits checked, by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.Queries, m.Pairs, m.Edges, m.Traits)
	}
	return m
}

const (
	queryDisjoint    = "disjoint"
	querySpecializes = "specializes"

	outcomeCoherent    = "coherent"
	outcomeMarker      = "marker"
	outcomeOverlapping = "overlapping"
	outcomeFailed      = "failed"
)

func (m *Metrics) query(kind string, v solve.Verdict) {
	if m != nil {
		m.Queries.WithLabelValues(kind, v.String()).Inc()
	}
}

func (m *Metrics) pair() {
	if m != nil {
		m.Pairs.Inc()
	}
}

func (m *Metrics) edge() {
	if m != nil {
		m.Edges.Inc()
	}
}

func (m *Metrics) trait(outcome string) {
	if m != nil {
		m.Traits.WithLabelValues(outcome).Inc()
	}
}
