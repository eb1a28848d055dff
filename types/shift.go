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

package types

// Rewrite rebuilds t bottom-up. f is called for every sub-term before descending into
// it; a non-nil result replaces that sub-term. Sub-terms which are not replaced are shared.
func Rewrite(t Type, f func(Type) Type) Type {
	if r := f(t); r != nil {
		return r
	}
	app, ok := t.(*App)
	if !ok {
		return t
	}
	var args []Type
	for i, arg := range app.Args {
		r := Rewrite(arg, f)
		if args == nil && r != arg {
			args = make([]Type, len(app.Args))
			copy(args, app.Args[:i])
		}
		if args != nil {
			args[i] = r
		}
	}
	if args == nil {
		return t
	}
	return &App{Const: app.Const, Args: args}
}

// Walk visits every sub-term of t in pre-order. If f returns false, iteration will be stopped.
func Walk(t Type, f func(Type) bool) bool {
	if !f(t) {
		return false
	}
	if app, ok := t.(*App); ok {
		for _, arg := range app.Args {
			if !Walk(arg, f) {
				return false
			}
		}
	}
	return true
}

// Shift adds by to every bound-variable index in t which is free at the given depth,
// i.e. every index >= depth. Indices bound within depth are left untouched.
func Shift(t Type, by, depth int) Type {
	if by == 0 {
		return t
	}
	return Rewrite(t, func(t Type) Type {
		if bv, ok := t.(*BoundVar); ok && bv.Index >= depth {
			return &BoundVar{Index: bv.Index + by}
		}
		return nil
	})
}

// Substitute instantiates the binder which owns indices depth..depth+len(args)-1 of t with
// args. Indices above that range refer to enclosing binders and are lowered by len(args).
// args must not contain bound variables.
func Substitute(t Type, args []Type, depth int) Type {
	n := len(args)
	return Rewrite(t, func(t Type) Type {
		bv, ok := t.(*BoundVar)
		if !ok || bv.Index < depth {
			return nil
		}
		if bv.Index < depth+n {
			return args[bv.Index-depth]
		}
		return &BoundVar{Index: bv.Index - n}
	})
}

// MaxFreeIndex returns the greatest bound-variable index in t which is free at depth,
// relative to depth, or -1 when t has no free bound variables.
func MaxFreeIndex(t Type, depth int) int {
	max := -1
	Walk(t, func(t Type) bool {
		if bv, ok := t.(*BoundVar); ok && bv.Index >= depth && bv.Index-depth > max {
			max = bv.Index - depth
		}
		return true
	})
	return max
}

// HasFreeVars reports whether t contains any bound variable.
func HasFreeVars(t Type) bool { return MaxFreeIndex(t, 0) >= 0 }
