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
	"github.com/wdamron/coherence/types"
)

// occursAdjustUniverses checks that v may be bound to ty: v must not occur in ty, and ty
// must not name a placeholder from a universe v cannot see. Unbound variables in ty are
// lowered to v's universe, since binding v makes them reachable from it.
func (t table) occursAdjustUniverses(v *types.InferVar, universe int, ty types.Type) (table, bool) {
	ok := true
	types.Walk(ty, func(ty types.Type) bool {
		switch ty := ty.(type) {
		case *types.InferVar:
			if ty.Id == v.Id {
				ok = false
				return false
			}
			if t.universe(ty) > universe {
				t.universes = t.universes.Set(ty.Id, universe)
			}
		case *types.Placeholder:
			if ty.Universe > universe {
				ok = false
				return false
			}
		}
		return true
	})
	return t, ok
}

func (t table) bind(v *types.InferVar, ty types.Type) (table, bool) {
	ty = t.normalize(ty)
	t, ok := t.occursAdjustUniverses(v, t.universe(v), ty)
	if !ok {
		return t, false
	}
	t.bindings = t.bindings.Set(v.Id, ty)
	return t, true
}

// unify attempts to make a and b equal by binding inference variables. The receiver is
// unchanged; on success the returned table holds the new bindings.
func (t table) unify(a, b types.Type) (table, bool) {
	a, b = t.shallow(a), t.shallow(b)

	avar, _ := a.(*types.InferVar)
	bvar, _ := b.(*types.InferVar)
	switch {
	case avar != nil && bvar != nil:
		if avar.Id == bvar.Id {
			return t, true
		}
		// bind the variable from the wider universe, so the narrower one is kept
		if t.universe(avar) < t.universe(bvar) {
			return t.bind(bvar, avar)
		}
		return t.bind(avar, bvar)
	case avar != nil:
		return t.bind(avar, b)
	case bvar != nil:
		return t.bind(bvar, a)
	}

	switch a := a.(type) {
	case *types.Const:
		if b, ok := b.(*types.Const); ok {
			return t, a.Name == b.Name
		}

	case *types.App:
		b, ok := b.(*types.App)
		if !ok || a.Const.Name != b.Const.Name || len(a.Args) != len(b.Args) {
			return t, false
		}
		for i := range a.Args {
			if t, ok = t.unify(a.Args[i], b.Args[i]); !ok {
				return t, false
			}
		}
		return t, true

	case *types.Placeholder, *types.Lifetime, *types.ConstValue:
		return t, types.Equal(a, b)

	case *types.BoundVar:
		panic("unexpected bound variable during unification")
	}

	return t, false
}

func (t table) unifyLists(a, b types.TypeList) (table, bool) {
	if a.Len() != b.Len() {
		return t, false
	}
	ok := true
	a.Range(func(i int, ta types.Type) bool {
		t, ok = t.unify(ta, b.Get(i))
		return ok
	})
	return t, ok
}
