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
	"strconv"
	"strings"

	"github.com/benbjohnson/immutable"

	"github.com/wdamron/coherence/types"
)

var emptyMap = immutable.NewSortedMap(nil)

// table is the inference state along one search path. It is a value: every update
// returns a new table and leaves the receiver intact, so backtracking is free.
type table struct {
	bindings  *immutable.SortedMap // inference-variable id -> types.Type
	universes *immutable.SortedMap // inference-variable id -> int
	next      int
	// goalVars are the inference variables introduced by the goal's own exists quantifiers.
	// Answers which bind them differently are distinct.
	goalVars types.TypeList
	// ambiguous marks an answer reached by assuming a goal which could not be decided.
	ambiguous bool
}

func newTable() table {
	return table{bindings: emptyMap, universes: emptyMap, goalVars: types.EmptyTypeList}
}

// Create an unbound inference variable which may name placeholders up to universe.
func (t table) newVar(universe int) (table, *types.InferVar) {
	v := &types.InferVar{Id: t.next}
	t.universes = t.universes.Set(v.Id, universe)
	t.next++
	return t, v
}

func (t table) newVars(n, universe int) (table, []types.Type) {
	vars := make([]types.Type, n)
	for i := range vars {
		var v *types.InferVar
		t, v = t.newVar(universe)
		vars[i] = v
	}
	return t, vars
}

// Record vars as introduced by the goal being solved.
func (t table) expose(vars []types.Type) table {
	t.goalVars = t.goalVars.Append(vars...)
	return t
}

func (t table) universe(v *types.InferVar) int {
	u, ok := t.universes.Get(v.Id)
	if !ok {
		return 0
	}
	return u.(int)
}

func (t table) markAmbiguous() table {
	t.ambiguous = true
	return t
}

// Get the underlying type for a chain of bound inference variables.
func (t table) shallow(ty types.Type) types.Type {
	for {
		v, ok := ty.(*types.InferVar)
		if !ok {
			return ty
		}
		bound, ok := t.bindings.Get(v.Id)
		if !ok {
			return ty
		}
		ty = bound.(types.Type)
	}
}

// Replace every bound inference variable in ty with its binding.
func (t table) normalize(ty types.Type) types.Type {
	return types.Rewrite(ty, func(ty types.Type) types.Type {
		if _, ok := ty.(*types.InferVar); !ok {
			return nil
		}
		r := t.shallow(ty)
		if _, ok := r.(*types.InferVar); ok {
			return r
		}
		return t.normalize(r)
	})
}

func (t table) normalizeRef(tr types.TraitRef) types.TraitRef {
	return types.TraitRef{Trait: tr.Trait, Params: tr.Params.Map(t.normalize)}
}

// isGround reports whether every parameter of tr is resolved.
func (t table) isGround(tr types.TraitRef) bool {
	ground := true
	tr.Params.Range(func(_ int, ty types.Type) bool {
		ground = !t.hasUnbound(ty)
		return ground
	})
	return ground
}

func (t table) isUnbound(ty types.Type) bool {
	_, ok := t.shallow(ty).(*types.InferVar)
	return ok
}

// hasUnbound reports whether ty mentions an unbound inference variable.
func (t table) hasUnbound(ty types.Type) bool {
	found := false
	types.Walk(t.normalize(ty), func(ty types.Type) bool {
		_, found = ty.(*types.InferVar)
		return !found
	})
	return found
}

// canonical renders vars after resolution, renaming unbound inference variables in order
// of appearance, so that equivalent answers have equal keys.
func (t table) canonical(vars []types.Type) (types.TypeList, string) {
	renamed := make(map[int]types.Type)
	b := types.NewTypeListBuilder()
	keys := make([]string, len(vars))
	for i, v := range vars {
		c := types.Rewrite(t.normalize(v), func(ty types.Type) types.Type {
			iv, ok := ty.(*types.InferVar)
			if !ok {
				return nil
			}
			if r, ok := renamed[iv.Id]; ok {
				return r
			}
			r := &types.InferVar{Id: len(renamed)}
			renamed[iv.Id] = r
			return r
		})
		b.Append(c)
		keys[i] = "?" + strconv.Itoa(i) + " := " + types.TypeString(c)
	}
	return b.Build(), "[" + strings.Join(keys, ", ") + "]"
}
