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
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/wdamron/coherence/goal"
	"github.com/wdamron/coherence/solve"
	"github.com/wdamron/coherence/types"
)

// Program supplies the traits and implementations to check.
type Program interface {
	TraitDatum(id types.TraitId) *types.TraitDatum
	ImplDatum(id types.ImplId) *types.ImplDatum
	// LocalImplsToCoherenceCheck returns the implementations of a trait which must be
	// checked locally, in a deterministic order.
	LocalImplsToCoherenceCheck(id types.TraitId) []types.ImplId
}

// Checker checks the coherence of trait implementations.
//
// A Checker holds no mutable state and may be used concurrently, provided its solver
// may be used concurrently.
type Checker struct {
	program Program
	solver  solve.Solver
	log     *zap.SugaredLogger
	metrics *Metrics
	timeout time.Duration
}

type Option func(*Checker)

func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Checker) { c.log = log }
}

// WithMetrics records the checker's work in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Checker) { c.metrics = m }
}

// WithQueryTimeout bounds each solver query. A query which times out proves nothing.
func WithQueryTimeout(d time.Duration) Option {
	return func(c *Checker) { c.timeout = d }
}

// Create a checker for the implementations of program, using solver to decide overlap
// and specialization.
func NewChecker(program Program, solver solve.Solver, opts ...Option) *Checker {
	c := &Checker{program: program, solver: solver, log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Checker) traitName(id types.TraitId) string {
	if trait := c.program.TraitDatum(id); trait != nil {
		return trait.Name
	}
	return ""
}

func (c *Checker) implString(impl *types.ImplDatum) string {
	return types.ImplString(impl, c.traitName)
}

// solve closes g and submits it to the solver.
func (c *Checker) solve(ctx context.Context, kind string, g goal.Goal) (solve.Verdict, error) {
	closed, err := goal.Close(g)
	if err != nil {
		return solve.NoProof, errors.NewAssertionErrorWithWrappedErrf(err, "%s goal is not closed", kind)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	v := solve.VerdictOf(c.solver.Solve(ctx, closed))
	c.metrics.query(kind, v)
	return v, nil
}

// Disjoint reports whether lhs and rhs provably never apply to the same types, in any
// program compatible with the checked one. False means the implementations may overlap.
func (c *Checker) Disjoint(lhs, rhs *types.ImplDatum) bool {
	disjoint, err := c.disjoint(context.Background(), lhs, rhs)
	if err != nil {
		c.log.Errorw("overlap check failed", "error", err)
		return false
	}
	return disjoint
}

func (c *Checker) disjoint(ctx context.Context, lhs, rhs *types.ImplDatum) (bool, error) {
	c.log.Debugw("overlaps", "lhs", c.implString(lhs), "rhs", c.implString(rhs))
	g, err := DisjointGoal(lhs, rhs)
	if err != nil {
		return false, err
	}
	v, err := c.solve(ctx, queryDisjoint, g)
	if err != nil {
		return false, err
	}
	c.log.Debugw("overlaps: result", "goal", goal.GoalStringWith(g, c.traitName), "verdict", v.String())
	return v == solve.UniqueProof, nil
}

// DisjointGoal builds the goal which holds when lhs and rhs cannot both apply:
//
//	not { compatible { exists<rhs> { exists<lhs> {
//	    lhs params = rhs params, lhs where-clauses, rhs where-clauses
//	} } } }
//
// Both implementations' variables are read as one scope, with the variables of rhs
// following those of lhs.
func DisjointGoal(lhs, rhs *types.ImplDatum) (goal.Goal, error) {
	lhsRef := lhs.TraitRef()
	rhsRef := rhs.TraitRef().Shift(lhs.Binders.Len(), 0)
	if lhsRef.Trait != rhsRef.Trait || lhsRef.Params.Len() != rhsRef.Params.Len() {
		return nil, errors.AssertionFailedf("implementations %d and %d are not of the same trait", lhs.Id, rhs.Id)
	}

	goals := make([]goal.Goal, 0, lhsRef.Params.Len()+len(lhs.WhereClauses())+len(rhs.WhereClauses()))
	lhsRef.Params.Range(func(i int, a types.Type) bool {
		goals = append(goals, &goal.Eq{A: a, B: rhsRef.Params.Get(i)})
		return true
	})
	goals = append(goals, goal.FromWhereClauses(lhs.WhereClauses())...)
	for _, wc := range rhs.WhereClauses() {
		goals = append(goals, goal.FromWhereClause(types.ShiftClause(wc, lhs.Binders.Len(), 0)))
	}

	g := goal.Quantify(&goal.All{Goals: goals}, goal.Exists, lhs.Binders.Kinds)
	g = goal.Quantify(g, goal.Exists, rhs.Binders.Kinds)
	return goal.Negate(goal.MakeCompatible(g)), nil
}

// Specializes reports whether the implementation more provably specializes less: every
// instantiation of more which satisfies its where-clauses is also an instantiation of less
// which satisfies less's where-clauses.
func (c *Checker) Specializes(less, more types.ImplId) bool {
	specializes, err := c.specializes(context.Background(), less, more)
	if err != nil {
		c.log.Errorw("specialization check failed", "error", err)
		return false
	}
	return specializes
}

func (c *Checker) specializes(ctx context.Context, lessId, moreId types.ImplId) (bool, error) {
	less, more := c.program.ImplDatum(lessId), c.program.ImplDatum(moreId)
	if less == nil || more == nil {
		return false, errors.AssertionFailedf("unknown implementation %d or %d", lessId, moreId)
	}
	c.log.Debugw("specializes", "less_special", c.implString(less), "more_special", c.implString(more))
	g, err := SpecializesGoal(less, more)
	if err != nil {
		return false, err
	}
	v, err := c.solve(ctx, querySpecializes, g)
	if err != nil {
		return false, err
	}
	c.log.Debugw("specializes: result", "goal", goal.GoalStringWith(g, c.traitName), "verdict", v.String())
	return v == solve.UniqueProof, nil
}

// SpecializesGoal builds the goal which holds when more specializes less:
//
//	forall<more> { if (more where-clauses) { exists<less> {
//	    more params = less params, less where-clauses
//	} } }
func SpecializesGoal(less, more *types.ImplDatum) (goal.Goal, error) {
	lessRef, moreRef := less.TraitRef(), more.TraitRef()
	if lessRef.Trait != moreRef.Trait || lessRef.Params.Len() != moreRef.Params.Len() {
		return nil, errors.AssertionFailedf("implementations %d and %d are not of the same trait", less.Id, more.Id)
	}
	b := goal.NewBuilder()
	return b.ForAll(more.Binders.Kinds, nil, func(b *goal.Builder, _ []types.Type) goal.Goal {
		return b.Implies(more.WhereClauses(), func(b *goal.Builder) goal.Goal {
			return b.Exists(less.Binders.Kinds, moreRef.Params.Types(), func(b *goal.Builder, moreParams []types.Type) goal.Goal {
				goals := make([]goal.Goal, 0, len(moreParams)+len(less.WhereClauses()))
				for i, p := range moreParams {
					goals = append(goals, &goal.Eq{A: p, B: lessRef.Params.Get(i)})
				}
				goals = append(goals, goal.FromWhereClauses(less.WhereClauses())...)
				return b.All(goals...)
			})
		})
	}), nil
}

// CheckTrait checks the local implementations of a trait pairwise. For each overlapping pair
// in which exactly one implementation specializes the other, record is called with the more
// specific and the less specific implementation. If any pair overlaps without such an
// ordering, a *CoherenceError is returned and no further pairs are checked.
func (c *Checker) CheckTrait(trait types.TraitId, record func(more, less types.ImplId)) error {
	return c.CheckTraitContext(context.Background(), trait, record)
}

// CheckTraitContext is CheckTrait with a context bounding its solver queries.
func (c *Checker) CheckTraitContext(ctx context.Context, trait types.TraitId, record func(more, less types.ImplId)) error {
	datum := c.program.TraitDatum(trait)
	if datum == nil {
		c.metrics.trait(outcomeFailed)
		return errors.Newf("unknown trait #%d", trait)
	}
	if datum.Flags.Marker {
		c.metrics.trait(outcomeMarker)
		return nil
	}

	ids := c.program.LocalImplsToCoherenceCheck(trait)
	impls := make([]*types.ImplDatum, len(ids))
	for i, id := range ids {
		if impls[i] = c.program.ImplDatum(id); impls[i] == nil {
			c.metrics.trait(outcomeFailed)
			return errors.AssertionFailedf("trait %s lists unknown implementation %d", datum.Name, id)
		}
	}

	for i, lhs := range impls {
		for _, rhs := range impls[i+1:] {
			if err := c.checkPair(ctx, datum, lhs, rhs, record); err != nil {
				if errors.Is(err, ErrOverlappingImpls) {
					c.metrics.trait(outcomeOverlapping)
				} else {
					c.metrics.trait(outcomeFailed)
				}
				return err
			}
		}
	}
	c.metrics.trait(outcomeCoherent)
	return nil
}

func (c *Checker) checkPair(ctx context.Context, trait *types.TraitDatum, lhs, rhs *types.ImplDatum, record func(more, less types.ImplId)) error {
	if !lhs.IsPositive() && !rhs.IsPositive() {
		return nil
	}
	c.metrics.pair()
	disjoint, err := c.disjoint(ctx, lhs, rhs)
	if err != nil || disjoint {
		return err
	}

	lhsLess, err := c.specializes(ctx, lhs.Id, rhs.Id)
	if err != nil {
		return err
	}
	rhsLess, err := c.specializes(ctx, rhs.Id, lhs.Id)
	if err != nil {
		return err
	}
	switch {
	case lhsLess && !rhsLess:
		c.recordEdge(record, rhs.Id, lhs.Id)
	case rhsLess && !lhsLess:
		c.recordEdge(record, lhs.Id, rhs.Id)
	default:
		c.log.Debugw("overlapping implementations",
			"trait", trait.Name,
			"lhs", c.implString(lhs),
			"rhs", c.implString(rhs))
		return errors.WithStack(&CoherenceError{Trait: trait.Id, Name: trait.Name})
	}
	return nil
}

func (c *Checker) recordEdge(record func(more, less types.ImplId), more, less types.ImplId) {
	c.metrics.edge()
	if record != nil {
		record(more, less)
	}
}
