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

package solve

import (
	"context"

	"go.uber.org/zap"

	"github.com/wdamron/coherence/goal"
	"github.com/wdamron/coherence/types"
)

const (
	DefaultMaxDepth = 64

	// how many search steps run between checks for cancellation
	cancelCheckInterval = 256
)

// Recursive is a reference solver: a depth-first search over program clauses with
// negation-as-failure and the compatible-worlds modality.
//
// Goals are solved as follows:
//
//   - exists introduces inference variables; forall introduces placeholders in a fresh universe.
//   - `if (H) { G }` makes the hypotheses H available as clauses while solving G.
//   - `not { G }` holds when G has no solution. If G mentions unresolved inference variables
//     the result is ambiguous; if it mentions placeholders it cannot be established.
//   - `T: Trait` is matched against hypotheses and positive implementations. When the self type
//     is unresolved and more than one clause could match, the goal is ambiguous. A resolved
//     `T: Trait` which recurs while it is being proven fails on that path.
//   - `compatible { G }` solves G in every world compatible with the program: an unproved
//     `T: Trait` whose parameters mention an unresolved inference variable is ambiguous,
//     since a downstream program may supply a type which satisfies it.
//
// A goal has a unique proof when every answer binds the variables of its exists quantifiers,
// nested ones included, to the same terms. Recursion is bounded by a maximum clause depth;
// overflow and cancellation yield no proof.
//
// A Recursive solver holds no per-query state and may be used concurrently.
type Recursive struct {
	db       Database
	maxDepth int
	log      *zap.SugaredLogger
}

type Option func(*Recursive)

// WithMaxDepth bounds how deeply implementation clauses may be nested while proving a goal.
func WithMaxDepth(depth int) Option {
	return func(s *Recursive) { s.maxDepth = depth }
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Recursive) { s.log = log }
}

// Create a reference solver over the clauses of db.
func NewRecursive(db Database, opts ...Option) *Recursive {
	s := &Recursive{db: db, maxDepth: DefaultMaxDepth, log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve g. The result is nil when no solution could be found.
func (s *Recursive) Solve(ctx context.Context, g goal.Closed) *Solution {
	srch := &search{ctx: ctx, db: s.db, maxDepth: s.maxDepth, budget: new(budget)}
	st, vars := newTable().newVars(len(g.Binders), 0)
	body := goal.Substitute(g.Goal, vars, 0)

	var (
		witness   types.TypeList
		firstKey  string
		distinct  int
		ambiguous bool
	)
	srch.solve(body, env{}, st, func(st table) bool {
		if st.ambiguous {
			ambiguous = true
			return true
		}
		all, key := st.canonical(append(vars[:len(vars):len(vars)], st.goalVars.Types()...))
		switch {
		case distinct == 0:
			witness, firstKey, distinct = all.Slice(0, len(vars)), key, 1
		case key != firstKey:
			distinct++
		}
		return distinct > 1
	})

	var sol *Solution
	switch {
	case srch.overflow:
	case distinct == 1 && !ambiguous:
		sol = &Solution{Verdict: UniqueProof, Witness: witness}
	case distinct > 0 || ambiguous:
		sol = &Solution{Verdict: AmbiguousProof}
	}
	s.log.Debugw("solve",
		"goal", g.String(),
		"verdict", VerdictOf(sol).String(),
		"overflow", srch.overflow,
		"steps", srch.budget.steps)
	return sol
}

type search struct {
	ctx      context.Context
	db       Database
	maxDepth int
	budget   *budget
	// overflow is set when a path was cut short by the depth bound or by cancellation
	overflow bool
}

// env is the part of the search state which follows the goal's structure.
type env struct {
	hyps       []types.WhereClause
	universe   int
	compatible bool
	depth      int
	// resolved trait goals being proven along the current path
	stack []types.TraitRef
}

// answer is called for each solution; returning true stops the search.
type answer func(table) bool

// budget is shared by a search and the searches nested under it.
type budget struct {
	steps     int
	cancelled bool
}

func (s *search) cancelled() bool {
	b := s.budget
	b.steps++
	if !b.cancelled && (b.steps-1)%cancelCheckInterval == 0 && s.ctx.Err() != nil {
		b.cancelled = true
	}
	if b.cancelled {
		s.overflow = true
	}
	return b.cancelled
}

func (s *search) solve(g goal.Goal, e env, st table, k answer) bool {
	if s.cancelled() {
		return true
	}
	switch g := g.(type) {
	case *goal.Eq:
		return s.solveEq(g.A, g.B, e, st, k)

	case *goal.Holds:
		switch wc := g.Clause.(type) {
		case *types.Implemented:
			return s.solveImplemented(wc.TraitRef, e, st, k)
		case *types.TypeEq:
			return s.solveEq(wc.A, wc.B, e, st, k)
		}

	case *goal.All:
		return s.solveAll(g.Goals, nil, e, st, k)

	case *goal.Quantified:
		var args []types.Type
		if g.Kind == goal.Exists {
			st, args = st.newVars(len(g.Kinds), e.universe)
			st = st.expose(args)
		} else {
			e.universe++
			args = make([]types.Type, len(g.Kinds))
			for i := range args {
				args[i] = &types.Placeholder{Universe: e.universe, Index: i}
			}
		}
		return s.solve(goal.Substitute(g.Body, args, 0), e, st, k)

	case *goal.Implies:
		hyps := make([]types.WhereClause, 0, len(e.hyps)+len(g.Hypotheses))
		e.hyps = append(append(hyps, e.hyps...), g.Hypotheses...)
		return s.solve(g.Body, e, st, k)

	case *goal.Not:
		return s.solveNot(g.Goal, e, st, k)

	case *goal.Compatible:
		e.compatible = true
		return s.solve(g.Goal, e, st, k)
	}
	panic("unexpected goal " + g.GoalName())
}

func (s *search) solveEq(a, b types.Type, e env, st table, k answer) bool {
	if next, ok := st.unify(a, b); ok {
		return k(next)
	}
	for _, h := range e.hyps {
		eq, ok := h.(*types.TypeEq)
		if !ok {
			continue
		}
		if next, ok := st.unify(a, eq.A); ok {
			if next, ok = next.unify(b, eq.B); ok && k(next) {
				return true
			}
		}
		if next, ok := st.unify(a, eq.B); ok {
			if next, ok = next.unify(b, eq.A); ok && k(next) {
				return true
			}
		}
	}
	return false
}

// solveAll solves a conjunction left to right. Goals which flounder are deferred until the
// rest of the conjunction has been solved; if they still flounder the answer is ambiguous.
func (s *search) solveAll(goals, deferred []goal.Goal, e env, st table, k answer) bool {
	for len(goals) > 0 && s.flounders(goals[0], e, st) {
		deferred = append(deferred[:len(deferred):len(deferred)], goals[0])
		goals = goals[1:]
	}
	if len(goals) > 0 {
		return s.solve(goals[0], e, st, func(st table) bool {
			return s.solveAll(goals[1:], deferred, e, st, k)
		})
	}
	for i, g := range deferred {
		if s.flounders(g, e, st) {
			continue
		}
		rest := make([]goal.Goal, 0, len(deferred)-1)
		rest = append(append(rest, deferred[:i]...), deferred[i+1:]...)
		return s.solve(g, e, st, func(st table) bool {
			return s.solveAll(nil, rest, e, st, k)
		})
	}
	if len(deferred) > 0 {
		return k(st.markAmbiguous())
	}
	return k(st)
}

func (s *search) solveNot(g goal.Goal, e env, st table, k answer) bool {
	var inferVars, placeholders bool
	goal.Rewrite(g, 0, func(t types.Type, _ int) types.Type {
		types.Walk(st.normalize(t), func(t types.Type) bool {
			switch t.(type) {
			case *types.InferVar:
				inferVars = true
			case *types.Placeholder:
				placeholders = true
			}
			return true
		})
		return t
	})
	switch {
	case inferVars:
		return k(st.markAmbiguous())
	case placeholders:
		return false
	}

	inner := &search{ctx: s.ctx, db: s.db, maxDepth: s.maxDepth, budget: s.budget}
	var proved, ambiguous bool
	inner.solve(g, e, st, func(st table) bool {
		if st.ambiguous {
			ambiguous = true
			return false
		}
		proved = true
		return true
	})
	switch {
	case proved:
		return false
	case inner.overflow:
		s.overflow = true
		return false
	case ambiguous:
		return k(st.markAmbiguous())
	}
	return k(st)
}

// candidate is a clause whose head unified with a trait-ref, and the goals which remain
// to be proven for it to apply.
type candidate struct {
	st       table
	subgoals []goal.Goal
}

func (s *search) candidates(tr types.TraitRef, e env, st table) []candidate {
	var cands []candidate
	for _, h := range e.hyps {
		impl, ok := h.(*types.Implemented)
		if !ok || impl.TraitRef.Trait != tr.Trait {
			continue
		}
		if next, ok := st.unifyLists(tr.Params, impl.TraitRef.Params); ok {
			cands = append(cands, candidate{st: next})
		}
	}
	for _, id := range s.db.ImplsForTrait(tr.Trait) {
		impl := s.db.ImplDatum(id)
		if impl == nil || !impl.IsPositive() {
			continue
		}
		next, vars := st.newVars(impl.Binders.Len(), e.universe)
		head := impl.TraitRef().Substitute(vars, 0)
		next, ok := next.unifyLists(tr.Params, head.Params)
		if !ok {
			continue
		}
		wcs := impl.WhereClauses()
		subgoals := make([]goal.Goal, len(wcs))
		for i, wc := range wcs {
			subgoals[i] = goal.FromWhereClause(types.SubstituteClause(wc, vars, 0))
		}
		cands = append(cands, candidate{st: next, subgoals: subgoals})
	}
	return cands
}

// flounders reports whether g is a trait goal with an unresolved self type which more than
// one clause could satisfy.
func (s *search) flounders(g goal.Goal, e env, st table) bool {
	h, ok := g.(*goal.Holds)
	if !ok {
		return false
	}
	impl, ok := h.Clause.(*types.Implemented)
	if !ok {
		return false
	}
	self := impl.TraitRef.SelfType()
	if self == nil || !st.isUnbound(self) {
		return false
	}
	return len(s.candidates(impl.TraitRef, e, st)) > 1
}

func (s *search) solveImplemented(tr types.TraitRef, e env, st table, k answer) bool {
	if e.depth > s.maxDepth {
		s.overflow = true
		return false
	}
	if s.flounders(&goal.Holds{Clause: &types.Implemented{TraitRef: tr}}, e, st) {
		return k(st.markAmbiguous())
	}

	sub := e
	sub.depth++
	if st.isGround(tr) {
		ref := st.normalizeRef(tr)
		for _, seen := range e.stack {
			if seen.Trait == ref.Trait && seen.Params.Equal(ref.Params) {
				return false
			}
		}
		sub.stack = append(e.stack[:len(e.stack):len(e.stack)], ref)
	}

	produced := false
	for _, c := range s.candidates(tr, e, st) {
		stop := s.solveAll(c.subgoals, nil, sub, c.st, func(st table) bool {
			produced = true
			return k(st)
		})
		if stop {
			return true
		}
	}
	if produced || !e.compatible {
		return false
	}
	downstream := false
	tr.Params.Range(func(_ int, t types.Type) bool {
		downstream = st.isUnbound(t)
		return !downstream
	})
	if downstream {
		return k(st.markAmbiguous())
	}
	return false
}
