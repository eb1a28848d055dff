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
	"context"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/wdamron/coherence/internal/graph"
	"github.com/wdamron/coherence/types"
)

// Priority orders overlapping implementations: an implementation which specializes another
// is chosen over it.
type Priority int

const (
	// Low: the implementation specializes no other implementation.
	Low Priority = iota
	// High: the implementation specializes at least one other implementation.
	High
)

func (p Priority) String() string {
	if p == High {
		return "high"
	}
	return "low"
}

// Edge records that More specializes Less.
type Edge struct {
	More, Less types.ImplId
}

// Priorities is the specialization forest of a coherent trait.
type Priorities struct {
	Trait types.TraitId
	// Edges in the order they were recorded.
	Edges    []Edge
	priority map[types.ImplId]Priority
	parents  map[types.ImplId][]types.ImplId
}

// Priority of an implementation. Implementations which overlap nothing have Low priority.
func (p *Priorities) Priority(id types.ImplId) Priority { return p.priority[id] }

// Specializes returns the implementations which id directly specializes, in ascending order.
func (p *Priorities) Specializes(id types.ImplId) []types.ImplId { return p.parents[id] }

// Impls returns every implementation with a recorded priority, in ascending order.
func (p *Priorities) Impls() []types.ImplId {
	ids := make([]types.ImplId, 0, len(p.priority))
	for id := range p.priority {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SpecializationPriorities checks a trait and arranges its implementations into a
// specialization forest, in which each implementation is a child of those it specializes.
// Roots have Low priority and all other implementations have High priority. Implementations
// which specialize one another in a cycle are rejected.
func (c *Checker) SpecializationPriorities(ctx context.Context, trait types.TraitId) (*Priorities, error) {
	p := &Priorities{
		Trait:    trait,
		priority: make(map[types.ImplId]Priority),
		parents:  make(map[types.ImplId][]types.ImplId),
	}
	err := c.CheckTraitContext(ctx, trait, func(more, less types.ImplId) {
		p.Edges = append(p.Edges, Edge{More: more, Less: less})
	})
	if err != nil {
		return nil, err
	}

	local := c.program.LocalImplsToCoherenceCheck(trait)
	vertex := make(map[types.ImplId]int, len(local))
	for i, id := range local {
		vertex[id] = i
	}
	forest := graph.New(len(local))
	for _, e := range p.Edges {
		forest.AddEdge(vertex[e.Less], vertex[e.More])
	}
	if cycles := forest.Cycles(); len(cycles) > 0 {
		ids := make([]types.ImplId, len(cycles[0]))
		for i, v := range cycles[0] {
			ids[i] = local[v]
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		return nil, errors.Wrapf(ErrSpecializationCycle, "trait %s: implementations %v", c.traitName(trait), ids)
	}

	for _, v := range forest.Sources() {
		c.setPriorities(p, forest, local, v, Low)
	}
	for id, parents := range p.parents {
		sort.Slice(parents, func(i, j int) bool { return parents[i] < parents[j] })
		p.parents[id] = parents
	}
	return p, nil
}

func (c *Checker) setPriorities(p *Priorities, forest graph.Graph, local []types.ImplId, v int, priority Priority) {
	id := local[v]
	if prev, ok := p.priority[id]; ok && prev >= priority {
		return
	}
	p.priority[id] = priority
	for _, child := range forest.Successors(v) {
		if !containsImpl(p.parents[local[child]], id) {
			p.parents[local[child]] = append(p.parents[local[child]], id)
		}
		c.setPriorities(p, forest, local, child, High)
	}
}

func containsImpl(ids []types.ImplId, id types.ImplId) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
