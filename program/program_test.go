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

	"github.com/wdamron/coherence/types"
)

func TestDeclareTrait(t *testing.T) {
	p := New()
	clone, err := p.DeclareTrait("Clone", 1, types.TraitFlags{})
	require.NoError(t, err)
	convert, err := p.DeclareTrait("Convert", 2, types.TraitFlags{Marker: true})
	require.NoError(t, err)

	assert.Equal(t, types.TraitId(0), clone)
	assert.Equal(t, types.TraitId(1), convert)
	assert.Equal(t, []types.TraitId{clone, convert}, p.Traits())
	assert.Equal(t, "Convert", p.TraitName(convert))
	assert.True(t, p.TraitDatum(convert).Flags.Marker)

	trait, ok := p.LookupTrait("Clone")
	require.True(t, ok)
	assert.Equal(t, clone, trait.Id)
	_, ok = p.LookupTrait("Copy")
	assert.False(t, ok)
	assert.Nil(t, p.TraitDatum(7))

	_, err = p.DeclareTrait("Clone", 1, types.TraitFlags{})
	assert.True(t, errors.Is(err, ErrDuplicateTrait))
	_, err = p.DeclareTrait("Empty", 0, types.TraitFlags{})
	assert.Error(t, err)
}

func TestDeclareImplValidation(t *testing.T) {
	p := New()
	clone, err := p.DeclareTrait("Clone", 1, types.TraitFlags{})
	require.NoError(t, err)

	impl := func(n int, params ...types.Type) types.ImplDatum {
		return types.ImplDatum{Binders: types.Binders[types.ImplBound]{
			Kinds: types.TypeKinds(n),
			Value: types.ImplBound{TraitRef: types.TraitRef{Trait: clone, Params: types.TypeListOf(params...)}},
		}}
	}

	id, err := p.DeclareImpl(impl(1, types.NewApp("Vec", types.NewBoundVar(0))))
	require.NoError(t, err)
	assert.Equal(t, types.ImplId(0), id)

	_, err = p.DeclareImpl(impl(1, types.NewApp("Vec", types.NewBoundVar(1))))
	assert.True(t, errors.Is(err, ErrMalformedImpl), "bound variable out of range")

	_, err = p.DeclareImpl(impl(0, types.NewConst("u8"), types.NewConst("u16")))
	assert.True(t, errors.Is(err, ErrMalformedImpl), "arity mismatch")

	bad := impl(0, types.NewConst("u8"))
	bad.Binders.Value.TraitRef.Trait = 9
	_, err = p.DeclareImpl(bad)
	assert.True(t, errors.Is(err, ErrUnknownTrait))
	assert.True(t, errors.Is(err, ErrMalformedImpl))

	wc := impl(1, types.NewBoundVar(0))
	wc.Binders.Value.WhereClauses = []types.WhereClause{&types.TypeEq{A: types.NewBoundVar(0), B: types.NewBoundVar(2)}}
	_, err = p.DeclareImpl(wc)
	assert.True(t, errors.Is(err, ErrMalformedImpl), "where-clause bound variable out of range")

	named := impl(1, types.NewBoundVar(0))
	named.Names = []string{"T", "U"}
	_, err = p.DeclareImpl(named)
	assert.True(t, errors.Is(err, ErrMalformedImpl), "names mismatch")

	assert.Equal(t, []types.ImplId{id}, p.ImplsForTrait(clone))
}

func TestImplsForTrait(t *testing.T) {
	p, err := ParseProgram(`
		trait Clone
		trait Debug
		impl Clone for u8
		impl Debug for u8
		extern impl Clone for u16
		impl<T> Clone for Vec<T> where T: Clone
	`)
	require.NoError(t, err)
	clone, _ := p.LookupTrait("Clone")
	debug, _ := p.LookupTrait("Debug")

	assert.Equal(t, []types.ImplId{0, 2, 3}, p.ImplsForTrait(clone.Id))
	assert.Equal(t, []types.ImplId{0, 3}, p.LocalImplsToCoherenceCheck(clone.Id))
	assert.Equal(t, []types.ImplId{1}, p.LocalImplsToCoherenceCheck(debug.Id))
	assert.Nil(t, p.ImplsForTrait(42))

	assert.Equal(t, "extern impl Clone for u16", p.ImplString(2))
	assert.Equal(t, "impl<T> Clone for Vec<T> where T: Clone", p.ImplString(3))
	assert.Equal(t, "impl #?", p.ImplString(99))
}
