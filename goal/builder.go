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

package goal

import (
	"github.com/wdamron/coherence/types"
)

// Builder constructs goals with nested quantifiers. It tracks how many variables are
// bound around the goal under construction.
//
// A value closed under its own binders (such as an implementation's trait-ref) can be
// used unchanged directly inside a quantifier over those binders. Terms from enclosing
// scopes must be carried into the quantifier, which shifts them past the new variables.
type Builder struct {
	depth int
}

func NewBuilder() *Builder { return &Builder{} }

// Depth returns the number of variables bound by quantifiers enclosing the builder.
func (b *Builder) Depth() int { return b.depth }

// ForAll builds `forall<kinds> { body }`.
func (b *Builder) ForAll(kinds []types.VariableKind, carry []types.Type, body func(b *Builder, carry []types.Type) Goal) Goal {
	return b.quantify(ForAll, kinds, carry, body)
}

// Exists builds `exists<kinds> { body }`.
func (b *Builder) Exists(kinds []types.VariableKind, carry []types.Type, body func(b *Builder, carry []types.Type) Goal) Goal {
	return b.quantify(Exists, kinds, carry, body)
}

func (b *Builder) quantify(kind QuantifierKind, kinds []types.VariableKind, carry []types.Type, body func(*Builder, []types.Type) Goal) Goal {
	shifted := make([]types.Type, len(carry))
	for i, t := range carry {
		shifted[i] = types.Shift(t, len(kinds), 0)
	}
	b.depth += len(kinds)
	g := body(b, shifted)
	b.depth -= len(kinds)
	return Quantify(g, kind, kinds)
}

// Implies builds `if (hyps) { body }`. Hypotheses live in the current scope.
func (b *Builder) Implies(hyps []types.WhereClause, body func(b *Builder) Goal) Goal {
	return &Implies{Hypotheses: hyps, Body: body(b)}
}

// All builds the conjunction of goals.
func (b *Builder) All(goals ...Goal) Goal { return &All{Goals: goals} }
