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
	"strconv"
	"strings"
	"sync"
)

var printerPool = sync.Pool{
	New: func() interface{} { return &typePrinter{} },
}

func newTypePrinter(names Names) *typePrinter {
	p := printerPool.Get().(*typePrinter)
	p.names = names
	return p
}

func (p *typePrinter) Release() {
	p.names = Names{}
	p.sb.Reset()
	printerPool.Put(p)
}

type typePrinter struct {
	names Names
	sb    strings.Builder
}

// Names resolves identifiers while printing. A nil func falls back to a raw rendering:
// `^0` for bound variables and `#0` for traits.
type Names struct {
	Bound func(index int) string
	Trait func(id TraitId) string
}

// GenericNames returns a bound-variable resolver naming index i as names[i], or `T<i>`
// when names is too short.
func GenericNames(names []string) func(int) string {
	return func(i int) string {
		if i < len(names) && names[i] != "" {
			return names[i]
		}
		return "T" + strconv.Itoa(i)
	}
}

// TypeString returns a string representation of a Type.
func TypeString(t Type) string { return TypeStringWith(t, Names{}) }

// TypeStringWith returns a string representation of a Type, resolving names with names.
func TypeStringWith(t Type, names Names) string {
	p := newTypePrinter(names)
	p.typeString(t)
	s := p.sb.String()
	p.Release()
	return s
}

// TraitRefString renders a trait-ref as `Self: Trait<Args>`.
func TraitRefString(tr TraitRef, names Names) string {
	p := newTypePrinter(names)
	p.traitRefString(tr)
	s := p.sb.String()
	p.Release()
	return s
}

// WhereClauseString renders a where-clause as `T: Trait` or `A = B`.
func WhereClauseString(wc WhereClause, names Names) string {
	p := newTypePrinter(names)
	p.whereClauseString(wc)
	s := p.sb.String()
	p.Release()
	return s
}

// ImplString renders an implementation as `impl<T> Trait for Self where T: Bound`.
// Generic parameters are named from impl.Names when present.
func ImplString(impl *ImplDatum, traitName func(TraitId) string) string {
	p := newTypePrinter(Names{Bound: GenericNames(impl.Names), Trait: traitName})
	p.sb.WriteString("impl")
	if n := impl.Binders.Len(); n > 0 {
		p.sb.WriteByte('<')
		for i, kind := range impl.Binders.Kinds {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			if kind == ConstKind {
				p.sb.WriteString("const ")
			}
			p.sb.WriteString(p.names.Bound(i))
		}
		p.sb.WriteByte('>')
	}
	p.sb.WriteByte(' ')
	if !impl.IsPositive() {
		p.sb.WriteByte('!')
	}
	tr := impl.TraitRef()
	p.traitName(tr.Trait)
	p.argList(tr.Params, 1)
	p.sb.WriteString(" for ")
	if self := tr.SelfType(); self != nil {
		p.typeString(self)
	}
	for i, wc := range impl.WhereClauses() {
		if i == 0 {
			p.sb.WriteString(" where ")
		} else {
			p.sb.WriteString(", ")
		}
		p.whereClauseString(wc)
	}
	s := p.sb.String()
	p.Release()
	return s
}

func (p *typePrinter) traitName(id TraitId) {
	if p.names.Trait != nil {
		p.sb.WriteString(p.names.Trait(id))
		return
	}
	p.sb.WriteByte('#')
	p.sb.WriteString(strconv.Itoa(int(id)))
}

func (p *typePrinter) argList(params TypeList, from int) {
	if params.Len() <= from {
		return
	}
	p.sb.WriteByte('<')
	params.Range(func(i int, t Type) bool {
		if i < from {
			return true
		}
		if i > from {
			p.sb.WriteString(", ")
		}
		p.typeString(t)
		return true
	})
	p.sb.WriteByte('>')
}

func (p *typePrinter) traitRefString(tr TraitRef) {
	if self := tr.SelfType(); self != nil {
		p.typeString(self)
	}
	p.sb.WriteString(": ")
	p.traitName(tr.Trait)
	p.argList(tr.Params, 1)
}

func (p *typePrinter) whereClauseString(wc WhereClause) {
	switch wc := wc.(type) {
	case *Implemented:
		p.traitRefString(wc.TraitRef)
	case *TypeEq:
		p.typeString(wc.A)
		p.sb.WriteString(" = ")
		p.typeString(wc.B)
	}
}

func (p *typePrinter) typeString(t Type) {
	switch t := t.(type) {
	case *Const:
		p.sb.WriteString(t.Name)

	case *App:
		p.sb.WriteString(t.Const.Name)
		p.sb.WriteByte('<')
		for i, arg := range t.Args {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.typeString(arg)
		}
		p.sb.WriteByte('>')

	case *BoundVar:
		if p.names.Bound != nil {
			p.sb.WriteString(p.names.Bound(t.Index))
			return
		}
		p.sb.WriteByte('^')
		p.sb.WriteString(strconv.Itoa(t.Index))

	case *Lifetime:
		p.sb.WriteByte('\'')
		p.sb.WriteString(t.Name)

	case *ConstValue:
		p.sb.WriteString(strconv.FormatInt(t.Value, 10))

	case *InferVar:
		p.sb.WriteByte('?')
		p.sb.WriteString(strconv.Itoa(t.Id))

	case *Placeholder:
		p.sb.WriteByte('!')
		p.sb.WriteString(strconv.Itoa(t.Universe))
		p.sb.WriteByte('_')
		p.sb.WriteString(strconv.Itoa(t.Index))

	case nil:
		p.sb.WriteString("<nil>")
	}
}
