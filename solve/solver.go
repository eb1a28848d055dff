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

// solve defines the solver-oracle boundary used by coherence checking, and provides
// Recursive, a reference oracle which answers the goals coherence checking poses.
package solve

import (
	"context"

	"github.com/wdamron/coherence/goal"
	"github.com/wdamron/coherence/types"
)

// Verdict is the outcome of solving a closed goal.
type Verdict int

const (
	// NoProof: no solution exists, or the search could not complete (overflow, timeout).
	NoProof Verdict = iota
	// UniqueProof: exactly one solution.
	UniqueProof
	// AmbiguousProof: one or more solutions, none singled out.
	AmbiguousProof
)

func (v Verdict) String() string {
	switch v {
	case UniqueProof:
		return "unique"
	case AmbiguousProof:
		return "ambiguous"
	}
	return "none"
}

// Solution is a solver's answer for a closed goal. Witness instantiates the closed goal's
// binders when the verdict is UniqueProof.
type Solution struct {
	Verdict Verdict
	Witness types.TypeList
}

// IsUnique reports whether s proves its goal with a unique solution. A nil solution is not unique.
func (s *Solution) IsUnique() bool { return s != nil && s.Verdict == UniqueProof }

// VerdictOf returns the verdict of s, mapping a nil solution to NoProof.
func VerdictOf(s *Solution) Verdict {
	if s == nil {
		return NoProof
	}
	return s.Verdict
}

// Solver answers closed goals. A nil result and a NoProof result are both "could not
// prove". Implementations must be deterministic for a given goal and must not mutate
// caller state.
type Solver interface {
	Solve(ctx context.Context, g goal.Closed) *Solution
}

// Database supplies the program clauses a solver reasons over.
type Database interface {
	TraitDatum(id types.TraitId) *types.TraitDatum
	// ImplsForTrait returns every implementation of a trait, local or foreign, in a stable order.
	ImplsForTrait(id types.TraitId) []types.ImplId
	ImplDatum(id types.ImplId) *types.ImplDatum
}
