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
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdamron/coherence/types"
)

func bv(i int) types.Type { return types.NewBoundVar(i) }

func vec(t types.Type) types.Type { return types.NewApp("Vec", t) }

func holds(trait types.TraitId, params ...types.Type) Goal {
	return &Holds{Clause: &types.Implemented{TraitRef: types.TraitRef{Trait: trait, Params: types.TypeListOf(params...)}}}
}

func TestShiftSkipsBoundIndices(t *testing.T) {
	// exists<A> { A = ^1 }, where ^1 escapes the quantifier as outer index 0
	g := Quantify(&Eq{A: bv(0), B: bv(1)}, Exists, types.TypeKinds(1))
	shifted := Shift(g, 2, 0)
	assert.Equal(t, "exists<T0> { T0 = ^3 }", GoalString(shifted))
	assert.Equal(t, 0, MaxFreeIndex(g))
	assert.Equal(t, 2, MaxFreeIndex(shifted))
	assert.Same(t, g, Shift(g, 0, 0))
}

func TestSubstituteEntersQuantifier(t *testing.T) {
	// forall<A, B> { if (A: #0) { exists<C> { C = Vec<B> } } }
	body := &Implies{
		Hypotheses: []types.WhereClause{&types.Implemented{TraitRef: types.TraitRef{Trait: 0, Params: types.TypeListOf(bv(0))}}},
		Body:       Quantify(&Eq{A: bv(0), B: vec(bv(2))}, Exists, types.TypeKinds(1)),
	}
	g := Substitute(body, []types.Type{types.NewConst("u8"), types.NewConst("String")}, 0)
	assert.Equal(t, "if (u8: #0) { exists<T0> { T0 = Vec<String> } }", GoalString(g))
	assert.Equal(t, -1, MaxFreeIndex(g))
}

func TestClose(t *testing.T) {
	c, err := Close(Quantify(holds(0, bv(0)), ForAll, types.TypeKinds(1)))
	require.NoError(t, err)
	assert.Empty(t, c.Binders)
	assert.Equal(t, "forall<T0> { T0: #0 }", c.String())

	_, err = Close(Negate(holds(0, bv(1))))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFreeVariables))
	assert.Contains(t, err.Error(), "^1")
}

func TestLiftExists(t *testing.T) {
	c, err := Close(Quantify(&Eq{A: bv(0), B: vec(bv(1))}, Exists, types.TypeKinds(2)))
	require.NoError(t, err)
	lifted := LiftExists(c)
	assert.Len(t, lifted.Binders, 2)
	assert.Equal(t, "exists<T0, T1> { T0 = Vec<T1> }", lifted.String())
	assert.Equal(t, lifted, LiftExists(lifted))

	c, err = Close(MakeCompatible(True()))
	require.NoError(t, err)
	assert.Equal(t, c, LiftExists(c))
	assert.Equal(t, "compatible { true }", c.String())
}

func TestBuilderCarriesOuterTerms(t *testing.T) {
	b := NewBuilder()
	g := b.ForAll(types.TypeKinds(1), nil, func(b *Builder, _ []types.Type) Goal {
		outer := []types.Type{vec(bv(0))}
		return b.Exists(types.TypeKinds(2), outer, func(b *Builder, carry []types.Type) Goal {
			assert.Equal(t, 3, b.Depth())
			return b.All(&Eq{A: carry[0], B: bv(0)}, holds(1, bv(1)))
		})
	})
	assert.Equal(t, 0, b.Depth())
	assert.Equal(t, "forall<T0> { exists<T1, T2> { Vec<T0> = T1, T2: #1 } }", GoalString(g))
}

func TestGoalStrings(t *testing.T) {
	names := func(id types.TraitId) string { return "Clone" }
	g := Negate(MakeCompatible(&Implies{Body: Conjoin(holds(0, types.NewConst("u8")))}))
	assert.Equal(t, "not { compatible { if () { u8: Clone } } }", GoalStringWith(g, names))

	lt := Quantify(Quantify(True(), Exists, []types.VariableKind{types.LifetimeKind, types.ConstKind}), ForAll, nil)
	assert.Equal(t, "forall<> { exists<'t0, C1> { true } }", GoalString(lt))
}

func TestFromWhereClauses(t *testing.T) {
	goals := FromWhereClauses([]types.WhereClause{
		&types.TypeEq{A: bv(0), B: types.NewConst("u8")},
		&types.Implemented{TraitRef: types.TraitRef{Trait: 2, Params: types.TypeListOf(bv(0))}},
	})
	require.Len(t, goals, 2)
	assert.IsType(t, &Eq{}, goals[0])
	assert.IsType(t, &Holds{}, goals[1])
	assert.IsType(t, &All{}, Conjoin(goals...))
}
