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

// goal provides the logical goal algebra submitted to a solver, and a builder which
// nests quantifiers over independently bound scopes without index collisions.
package goal

import (
	"github.com/cockroachdb/errors"

	"github.com/wdamron/coherence/types"
)

// Goal is the base interface for all goals. The set of goals is closed.
type Goal interface {
	GoalName() string
}

func (g *Eq) GoalName() string         { return "Eq" }
func (g *Holds) GoalName() string      { return "Holds" }
func (g *All) GoalName() string        { return "All" }
func (g *Quantified) GoalName() string { return "Quantified" }
func (g *Implies) GoalName() string    { return "Implies" }
func (g *Not) GoalName() string        { return "Not" }
func (g *Compatible) GoalName() string { return "Compatible" }

// Equality of two terms: `A = B`
type Eq struct {
	A, B types.Type
}

// Domain predicate: `T: Clone`
type Holds struct {
	Clause types.WhereClause
}

// Conjunction. An empty conjunction is trivially true.
type All struct {
	Goals []Goal
}

type QuantifierKind int

const (
	Exists QuantifierKind = iota
	ForAll
)

func (k QuantifierKind) String() string {
	if k == ForAll {
		return "forall"
	}
	return "exists"
}

// Quantification of Body over fresh variables. Body's indices 0..len(Kinds)-1 refer
// to the quantified variables.
type Quantified struct {
	Kind  QuantifierKind
	Kinds []types.VariableKind
	Body  Goal
}

// Implication: `if (H1, H2) { Body }`
type Implies struct {
	Hypotheses []types.WhereClause
	Body       Goal
}

// Negation as failure.
type Not struct {
	Goal Goal
}

// Compatible-worlds modality: Goal must be evaluated as holding in some extension of
// the program consistent with the coherence rules. The solver owns its semantics.
type Compatible struct {
	Goal Goal
}

// Trivially true goal.
func True() Goal { return &All{} }

// FromWhereClause casts a where-clause into goal position.
func FromWhereClause(wc types.WhereClause) Goal {
	if eq, ok := wc.(*types.TypeEq); ok {
		return &Eq{A: eq.A, B: eq.B}
	}
	return &Holds{Clause: wc}
}

// FromWhereClauses casts a sequence of where-clauses into goal position.
func FromWhereClauses(wcs []types.WhereClause) []Goal {
	goals := make([]Goal, len(wcs))
	for i, wc := range wcs {
		goals[i] = FromWhereClause(wc)
	}
	return goals
}

// Conjoin goals. A single goal is returned as-is.
func Conjoin(goals ...Goal) Goal {
	if len(goals) == 1 {
		return goals[0]
	}
	return &All{Goals: goals}
}

// Quantify g over kinds.
func Quantify(g Goal, kind QuantifierKind, kinds []types.VariableKind) Goal {
	return &Quantified{Kind: kind, Kinds: kinds, Body: g}
}

// MakeCompatible wraps g in the compatible-worlds modality.
func MakeCompatible(g Goal) Goal { return &Compatible{Goal: g} }

// Negate g.
func Negate(g Goal) Goal { return &Not{Goal: g} }

// Rewrite rebuilds every term in g, tracking how many variables are bound by
// quantifiers enclosing each term. f receives the term and that depth.
func Rewrite(g Goal, depth int, f func(t types.Type, depth int) types.Type) Goal {
	switch g := g.(type) {
	case *Eq:
		return &Eq{A: f(g.A, depth), B: f(g.B, depth)}
	case *Holds:
		return &Holds{Clause: rewriteClause(g.Clause, depth, f)}
	case *All:
		goals := make([]Goal, len(g.Goals))
		for i, sub := range g.Goals {
			goals[i] = Rewrite(sub, depth, f)
		}
		return &All{Goals: goals}
	case *Quantified:
		return &Quantified{Kind: g.Kind, Kinds: g.Kinds, Body: Rewrite(g.Body, depth+len(g.Kinds), f)}
	case *Implies:
		hyps := make([]types.WhereClause, len(g.Hypotheses))
		for i, h := range g.Hypotheses {
			hyps[i] = rewriteClause(h, depth, f)
		}
		return &Implies{Hypotheses: hyps, Body: Rewrite(g.Body, depth, f)}
	case *Not:
		return &Not{Goal: Rewrite(g.Goal, depth, f)}
	case *Compatible:
		return &Compatible{Goal: Rewrite(g.Goal, depth, f)}
	}
	panic("unexpected goal " + g.GoalName())
}

func rewriteClause(wc types.WhereClause, depth int, f func(types.Type, int) types.Type) types.WhereClause {
	switch wc := wc.(type) {
	case *types.Implemented:
		params := wc.TraitRef.Params.Map(func(t types.Type) types.Type { return f(t, depth) })
		return &types.Implemented{TraitRef: types.TraitRef{Trait: wc.TraitRef.Trait, Params: params}}
	case *types.TypeEq:
		return &types.TypeEq{A: f(wc.A, depth), B: f(wc.B, depth)}
	}
	panic("unexpected where-clause " + wc.ClauseName())
}

// Shift adds by to every bound-variable index which is free in g at depth.
func Shift(g Goal, by, depth int) Goal {
	if by == 0 {
		return g
	}
	return Rewrite(g, depth, func(t types.Type, depth int) types.Type { return types.Shift(t, by, depth) })
}

// Substitute instantiates the binder owning indices depth..depth+len(args)-1 of g.
// It is used to enter a quantifier: Substitute(q.Body, fresh, 0).
func Substitute(g Goal, args []types.Type, depth int) Goal {
	return Rewrite(g, depth, func(t types.Type, depth int) types.Type { return types.Substitute(t, args, depth) })
}

// MaxFreeIndex returns the greatest bound-variable index free in g, relative to the
// outside of g, or -1 when g is closed.
func MaxFreeIndex(g Goal) int {
	max := -1
	Rewrite(g, 0, func(t types.Type, depth int) types.Type {
		if i := types.MaxFreeIndex(t, depth); i > max {
			max = i
		}
		return t
	})
	return max
}

// Closed is a canonical goal with no free bound variables outside of its own
// quantifiers: the unit of work submitted to a solver. Binders lists variables
// for which the solver reports a witness substitution.
type Closed struct {
	Binders []types.VariableKind
	Goal    Goal
}

// ErrFreeVariables is returned when closing a goal which still references enclosing binders.
var ErrFreeVariables = errors.New("goal has free bound variables")

// Close converts g into a closed goal.
func Close(g Goal) (Closed, error) {
	if max := MaxFreeIndex(g); max >= 0 {
		return Closed{}, errors.Wrapf(ErrFreeVariables, "index ^%d escapes %s", max, GoalString(g))
	}
	return Closed{Goal: g}, nil
}

// LiftExists moves an outermost exists quantifier of c into c's binders, so that a solver
// reports a witness for its variables.
func LiftExists(c Closed) Closed {
	q, ok := c.Goal.(*Quantified)
	if !ok || q.Kind != Exists || len(c.Binders) != 0 {
		return c
	}
	return Closed{Binders: q.Kinds, Goal: q.Body}
}
