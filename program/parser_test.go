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

package program

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdamron/coherence/goal"
	"github.com/wdamron/coherence/types"
)

func TestParseProgram(t *testing.T) {
	src := `
		// comments run to the end of the line
		trait Clone
		#[marker] trait Send
		trait Convert<T>

		impl<T> Clone for Vec<T> where T: Clone
		impl !Clone for Cell
		impl<T, U> Convert<U> for T where T = U
		impl<'a, const N> Clone for Array<'a, N>
		impl Clone for Ref<'static, -3>
		extern impl Send for u32
	`
	p, err := ParseProgram(src)
	require.NoError(t, err)

	send, ok := p.LookupTrait("Send")
	require.True(t, ok)
	assert.True(t, send.Flags.Marker)
	convert, ok := p.LookupTrait("Convert")
	require.True(t, ok)
	assert.Equal(t, 2, convert.Arity)

	expected := []string{
		"impl<T> Clone for Vec<T> where T: Clone",
		"impl !Clone for Cell",
		"impl<T, U> Convert<U> for T where T = U",
		"impl<'a, const N> Clone for Array<'a, N>",
		"impl Clone for Ref<'static, -3>",
		"extern impl Send for u32",
	}
	for i, s := range expected {
		assert.Equal(t, s, p.ImplString(types.ImplId(i)))
	}

	cell := p.ImplDatum(1)
	assert.Equal(t, types.Negative, cell.Polarity)
	array := p.ImplDatum(3)
	assert.Equal(t, []types.VariableKind{types.LifetimeKind, types.ConstKind}, array.Binders.Kinds)
	assert.True(t, types.Equal(
		types.NewApp("Array", types.NewBoundVar(0), types.NewBoundVar(1)),
		array.TraitRef().SelfType()))
	assert.True(t, p.ImplDatum(5).Foreign)
}

func TestParseProgramErrors(t *testing.T) {
	for _, tc := range []struct {
		src string
		err string
	}{
		{"impl Clone for u8", "unknown trait"},
		{"trait Clone\ntrait Clone", "duplicate trait"},
		{"trait Clone\nimpl Clone<u8> for u8", "expects 0 type arguments"},
		{"trait Clone\nimpl<T> Clone for T<u8>", "cannot take arguments"},
		{"trait Clone\nimpl<T, T> Clone for T", "duplicate generic parameter"},
		{"trait Clone\nimpl Clone u8", "expected `for`"},
		{"trait Clone\nimpl Clone for u8 where u8", "expected `:` or `=`"},
		{"#[fundamental] trait Box", "unknown trait attribute"},
		{"trait Clone\nimpl Clone for $", "unexpected character"},
		{"struct Foo", "expected declaration"},
	} {
		_, err := ParseProgram(tc.src)
		require.Error(t, err, tc.src)
		assert.Contains(t, err.Error(), tc.err, tc.src)
	}

	_, err := ParseProgram("trait Clone\n\nimpl Clone for Vec<Missing> where u8: Copy")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTrait))
	assert.Contains(t, err.Error(), "3:")
}

func TestParseGoal(t *testing.T) {
	p, err := ParseProgram(`
		trait Clone
		trait Convert<T>
	`)
	require.NoError(t, err)
	clone, _ := p.LookupTrait("Clone")
	convert, _ := p.LookupTrait("Convert")

	g, err := p.ParseGoal("forall<T> { if (T: Clone) { exists<U> { U = Vec<T>, U: Convert<T> } } }")
	require.NoError(t, err)

	forall, ok := g.(*goal.Quantified)
	require.True(t, ok)
	assert.Equal(t, goal.ForAll, forall.Kind)
	implies, ok := forall.Body.(*goal.Implies)
	require.True(t, ok)
	require.Len(t, implies.Hypotheses, 1)
	hyp := implies.Hypotheses[0].(*types.Implemented)
	assert.Equal(t, clone.Id, hyp.TraitRef.Trait)
	assert.True(t, types.Equal(types.NewBoundVar(0), hyp.TraitRef.SelfType()))

	exists := implies.Body.(*goal.Quantified)
	assert.Equal(t, goal.Exists, exists.Kind)
	all := exists.Body.(*goal.All)
	require.Len(t, all.Goals, 2)

	// inside exists<U>, U is ^0 and the enclosing T is ^1
	eq := all.Goals[0].(*goal.Eq)
	assert.True(t, types.Equal(types.NewBoundVar(0), eq.A))
	assert.True(t, types.Equal(types.NewApp("Vec", types.NewBoundVar(1)), eq.B))
	holds := all.Goals[1].(*goal.Holds).Clause.(*types.Implemented)
	assert.Equal(t, convert.Id, holds.TraitRef.Trait)
	assert.True(t, holds.TraitRef.Params.Equal(types.TypeListOf(types.NewBoundVar(0), types.NewBoundVar(1))))

	closed, err := goal.Close(g)
	require.NoError(t, err)
	assert.Empty(t, closed.Binders)

	g, err = p.ParseGoal("not { compatible { exists<A, B> { A: Convert<B> } } }")
	require.NoError(t, err)
	not := g.(*goal.Not)
	_, ok = not.Goal.(*goal.Compatible)
	assert.True(t, ok)

	_, err = p.ParseGoal("exists<T> { T: Clone } }")
	assert.Error(t, err)
	_, err = p.ParseGoal("exists { u8: Clone }")
	assert.Error(t, err)
	_, err = p.ParseGoal("T: Clone")
	require.NoError(t, err, "unbound names are type constructors")
}

func TestParseTypeWithGenerics(t *testing.T) {
	p := New()
	ty, err := p.ParseType("Map<K, Ref<'a, N>>", "K", "'a", "const N")
	require.NoError(t, err)
	assert.True(t, types.Equal(
		types.NewApp("Map", types.NewBoundVar(0), types.NewApp("Ref", types.NewBoundVar(1), types.NewBoundVar(2))),
		ty))

	_, err = p.ParseType("Vec<T> extra", "T")
	assert.Error(t, err)
	_, err = p.ParseWhereClause("T: Clone", "T")
	assert.True(t, errors.Is(err, ErrUnknownTrait))
}
