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

// VariableKind declares what sort of term a bound variable stands for.
type VariableKind int

const (
	TypeKind VariableKind = iota
	LifetimeKind
	ConstKind
)

func (k VariableKind) String() string {
	switch k {
	case TypeKind:
		return "type"
	case LifetimeKind:
		return "lifetime"
	case ConstKind:
		return "const"
	}
	return "invalid"
}

// Binders pairs a value with the ordered variable declarations which scope the
// bound-variable indices occurring free in it.
type Binders[T any] struct {
	Kinds []VariableKind
	Value T
}

// Len returns the number of variables declared by the binders.
func (b Binders[T]) Len() int { return len(b.Kinds) }

// Create a list of n type-kinded declarations.
func TypeKinds(n int) []VariableKind {
	kinds := make([]VariableKind, n)
	for i := range kinds {
		kinds[i] = TypeKind
	}
	return kinds
}
