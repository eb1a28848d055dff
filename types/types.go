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

// Type is the base interface for all type terms. Terms are immutable once built
// and are compared structurally with Equal.
type Type interface {
	TypeName() string
}

func (t *Const) TypeName() string       { return "Const" }
func (t *App) TypeName() string         { return "App" }
func (t *BoundVar) TypeName() string    { return "BoundVar" }
func (t *Lifetime) TypeName() string    { return "Lifetime" }
func (t *ConstValue) TypeName() string  { return "ConstValue" }
func (t *InferVar) TypeName() string    { return "InferVar" }
func (t *Placeholder) TypeName() string { return "Placeholder" }

// Type constant (nullary type constructor): `Foo` or `i32`
type Const struct {
	Name string
}

// Type application: `Vec<T>`
type App struct {
	Const *Const
	Args  []Type
}

// Bound variable, referencing an enclosing binder by a flat de Bruijn index.
//
// Binders are flattened: a binder declaring k variables owns indices 0..k-1 of
// its body, and every index >= k refers (after subtracting k) to an enclosing binder.
type BoundVar struct {
	Index int
}

// Concrete lifetime: `'static`
type Lifetime struct {
	Name string
}

// Const generic value: `3`
type ConstValue struct {
	Value int64
}

// Inference variable, created by a solver when entering an existential scope.
type InferVar struct {
	Id int
}

// Placeholder (skolem) for a universally quantified variable. Universe is the
// nesting level of the `forall` which introduced it.
type Placeholder struct {
	Universe int
	Index    int
}

// Create a type constant.
func NewConst(name string) *Const { return &Const{Name: name} }

// Create a type application. Applications without arguments collapse to their constant.
func NewApp(name string, args ...Type) Type {
	c := &Const{Name: name}
	if len(args) == 0 {
		return c
	}
	return &App{Const: c, Args: args}
}

// Create a bound variable.
func NewBoundVar(index int) *BoundVar { return &BoundVar{Index: index} }

// Equal reports whether a and b are structurally identical.
func Equal(a, b Type) bool {
	switch a := a.(type) {
	case *Const:
		b, ok := b.(*Const)
		return ok && a.Name == b.Name
	case *App:
		b, ok := b.(*App)
		if !ok || a.Const.Name != b.Const.Name || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	case *BoundVar:
		b, ok := b.(*BoundVar)
		return ok && a.Index == b.Index
	case *Lifetime:
		b, ok := b.(*Lifetime)
		return ok && a.Name == b.Name
	case *ConstValue:
		b, ok := b.(*ConstValue)
		return ok && a.Value == b.Value
	case *InferVar:
		b, ok := b.(*InferVar)
		return ok && a.Id == b.Id
	case *Placeholder:
		b, ok := b.(*Placeholder)
		return ok && a.Universe == b.Universe && a.Index == b.Index
	case nil:
		return b == nil
	}
	return false
}
