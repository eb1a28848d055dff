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

// TraitId identifies a trait within a program.
type TraitId int

// ImplId identifies an implementation within a program. Ids are stable and are
// only used for lookup and reporting.
type ImplId int

// TraitRef names a trait and the parameters it is applied to. The first parameter is
// the self type; the rest are the trait's own type arguments: `Vec<T>: Foo<U>`.
type TraitRef struct {
	Trait  TraitId
	Params TypeList
}

// SelfType returns the first parameter of the trait-ref, or nil if the trait-ref has no parameters.
func (tr TraitRef) SelfType() Type {
	if tr.Params.Len() == 0 {
		return nil
	}
	return tr.Params.Get(0)
}

// Shift bound-variable indices in all parameters. See Shift.
func (tr TraitRef) Shift(by, depth int) TraitRef {
	if by == 0 {
		return tr
	}
	return TraitRef{Trait: tr.Trait, Params: tr.Params.Map(func(t Type) Type { return Shift(t, by, depth) })}
}

// Substitute bound variables in all parameters. See Substitute.
func (tr TraitRef) Substitute(args []Type, depth int) TraitRef {
	return TraitRef{Trait: tr.Trait, Params: tr.Params.Map(func(t Type) Type { return Substitute(t, args, depth) })}
}

// Rewrite all parameters. See Rewrite.
func (tr TraitRef) Rewrite(f func(Type) Type) TraitRef {
	return TraitRef{Trait: tr.Trait, Params: tr.Params.Map(func(t Type) Type { return Rewrite(t, f) })}
}

// WhereClause is a constraint attached to a generic scope.
type WhereClause interface {
	ClauseName() string
}

func (wc *Implemented) ClauseName() string { return "Implemented" }
func (wc *TypeEq) ClauseName() string      { return "TypeEq" }

// Trait-bound: `T: Clone`
type Implemented struct {
	TraitRef TraitRef
}

// Type-equality: `T = Vec<U>`
type TypeEq struct {
	A, B Type
}

// RewriteClause rebuilds every term of a where-clause. See Rewrite.
func RewriteClause(wc WhereClause, f func(Type) Type) WhereClause {
	switch wc := wc.(type) {
	case *Implemented:
		return &Implemented{TraitRef: wc.TraitRef.Rewrite(f)}
	case *TypeEq:
		return &TypeEq{A: Rewrite(wc.A, f), B: Rewrite(wc.B, f)}
	}
	panic("unexpected where-clause " + wc.ClauseName())
}

// ShiftClause shifts bound-variable indices in a where-clause. See Shift.
func ShiftClause(wc WhereClause, by, depth int) WhereClause {
	switch wc := wc.(type) {
	case *Implemented:
		return &Implemented{TraitRef: wc.TraitRef.Shift(by, depth)}
	case *TypeEq:
		return &TypeEq{A: Shift(wc.A, by, depth), B: Shift(wc.B, by, depth)}
	}
	panic("unexpected where-clause " + wc.ClauseName())
}

// SubstituteClause instantiates bound variables in a where-clause. See Substitute.
func SubstituteClause(wc WhereClause, args []Type, depth int) WhereClause {
	switch wc := wc.(type) {
	case *Implemented:
		return &Implemented{TraitRef: wc.TraitRef.Substitute(args, depth)}
	case *TypeEq:
		return &TypeEq{A: Substitute(wc.A, args, depth), B: Substitute(wc.B, args, depth)}
	}
	panic("unexpected where-clause " + wc.ClauseName())
}

// WalkClause visits every term of a where-clause. If f returns false, iteration will be stopped.
func WalkClause(wc WhereClause, f func(Type) bool) bool {
	switch wc := wc.(type) {
	case *Implemented:
		ok := true
		wc.TraitRef.Params.Range(func(_ int, t Type) bool {
			ok = Walk(t, f)
			return ok
		})
		return ok
	case *TypeEq:
		return Walk(wc.A, f) && Walk(wc.B, f)
	}
	panic("unexpected where-clause " + wc.ClauseName())
}

// ClauseMaxFreeIndex returns the greatest bound-variable index free at depth, relative
// to depth, or -1. See MaxFreeIndex.
func ClauseMaxFreeIndex(wc WhereClause, depth int) int {
	max := -1
	WalkClause(wc, func(t Type) bool {
		if bv, ok := t.(*BoundVar); ok && bv.Index >= depth && bv.Index-depth > max {
			max = bv.Index - depth
		}
		return true
	})
	return max
}

// TraitFlags qualify how a trait participates in coherence checking.
type TraitFlags struct {
	// Marker traits convey no behavior, so overlapping implementations are permitted.
	Marker bool
}

// TraitDatum is the registry's metadata for a trait.
type TraitDatum struct {
	Id   TraitId
	Name string
	// Arity is the number of trait-ref parameters, including the self type.
	Arity int
	Flags TraitFlags
}

// Polarity distinguishes `impl Trait for T` from `impl !Trait for T`.
type Polarity int

const (
	Positive Polarity = iota
	Negative
)

func (p Polarity) String() string {
	if p == Negative {
		return "negative"
	}
	return "positive"
}

// ImplBound is the part of an implementation scoped by its generic parameters.
type ImplBound struct {
	TraitRef     TraitRef
	WhereClauses []WhereClause
}

// ImplDatum is a read-only implementation record supplied by the registry.
type ImplDatum struct {
	Id       ImplId
	Polarity Polarity
	// Foreign implementations are visible to the solver but are coherence-checked elsewhere.
	Foreign bool
	Binders Binders[ImplBound]
	// Names optionally holds source names for the generic parameters, used for printing.
	Names []string
}

func (impl *ImplDatum) IsPositive() bool { return impl.Polarity == Positive }

// TraitRef returns the implemented trait-ref, with bound variables referring to the impl's binders.
func (impl *ImplDatum) TraitRef() TraitRef { return impl.Binders.Value.TraitRef }

// WhereClauses returns the impl's where-clauses, with bound variables referring to the impl's binders.
func (impl *ImplDatum) WhereClauses() []WhereClause { return impl.Binders.Value.WhereClauses }
