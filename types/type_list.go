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

import (
	"github.com/benbjohnson/immutable"
)

var emptyList = immutable.NewList()

var EmptyTypeList = TypeList{emptyList}

// TypeList is an immutable, ordered sequence of parameter terms. A TypeList used to
// instantiate a generic scope (a substitution) must have one entry per declared variable.
type TypeList struct {
	l *immutable.List
}

func NewTypeList() TypeList { return TypeList{emptyList} }

// Create a TypeList holding ts, in order.
func TypeListOf(ts ...Type) TypeList {
	b := NewTypeListBuilder()
	for _, t := range ts {
		b.Append(t)
	}
	return b.Build()
}

// Append returns a new list with ts added at the end. The receiver is not modified.
func (l TypeList) Append(ts ...Type) TypeList {
	list := l.l
	if list == nil {
		list = emptyList
	}
	for _, t := range ts {
		list = list.Append(t)
	}
	return TypeList{list}
}

func (l TypeList) Len() int {
	if l.l == nil {
		return 0
	}
	return l.l.Len()
}

func (l TypeList) Get(i int) Type                { return l.l.Get(i).(Type) }
func (l TypeList) Slice(start, end int) TypeList { return TypeList{l.l.Slice(start, end)} }

// If f returns false, iteration will be stopped.
func (l TypeList) Range(f func(int, Type) bool) {
	if l.l == nil {
		return
	}
	iter := l.l.Iterator()
	for !iter.Done() {
		i, v := iter.Next()
		if !f(i, v.(Type)) {
			return
		}
	}
}

// Types copies the list into a fresh slice.
func (l TypeList) Types() []Type {
	ts := make([]Type, 0, l.Len())
	l.Range(func(_ int, t Type) bool {
		ts = append(ts, t)
		return true
	})
	return ts
}

// Map returns a new list with f applied to every entry. The receiver is not modified.
func (l TypeList) Map(f func(Type) Type) TypeList {
	b := NewTypeListBuilder()
	l.Range(func(_ int, t Type) bool {
		b.Append(f(t))
		return true
	})
	return b.Build()
}

// Equal reports whether both lists hold structurally identical terms.
func (l TypeList) Equal(o TypeList) bool {
	if l.Len() != o.Len() {
		return false
	}
	eq := true
	l.Range(func(i int, t Type) bool {
		eq = Equal(t, o.Get(i))
		return eq
	})
	return eq
}

// Convert the list to a builder for modification. Entries are copied so the
// receiver is never modified through the builder.
func (l TypeList) Builder() TypeListBuilder {
	b := NewTypeListBuilder()
	l.Range(func(_ int, t Type) bool {
		b.Append(t)
		return true
	})
	return b
}

type TypeListBuilder struct {
	b *immutable.ListBuilder
}

func NewTypeListBuilder() TypeListBuilder {
	return TypeListBuilder{immutable.NewListBuilder(emptyList)}
}

func (b TypeListBuilder) Len() int          { return b.b.Len() }
func (b TypeListBuilder) Append(t Type)     { b.b.Append(t) }
func (b TypeListBuilder) Set(i int, t Type) { b.b.Set(i, t) }
func (b TypeListBuilder) Build() TypeList   { return TypeList{b.b.List()} }
