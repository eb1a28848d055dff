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
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/wdamron/coherence/goal"
	"github.com/wdamron/coherence/types"
)

var keywords = map[string]bool{
	"trait": true, "impl": true, "extern": true, "for": true, "where": true, "const": true,
	"exists": true, "forall": true, "if": true, "not": true, "compatible": true,
}

// binder is a named generic parameter.
type binder struct {
	name string
	kind types.VariableKind
}

type parser struct {
	prog *Program
	lex  *lexer
	tok  token
	// enclosing generic parameter lists, innermost last
	scopes [][]binder
}

func newParser(prog *Program, src string) (*parser, error) {
	p := &parser{prog: prog, lex: newLexer(src)}
	return p, p.advance()
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return errors.Wrapf(errors.Newf(format, args...), "%d:%d", p.tok.line, p.tok.col)
}

func (p *parser) accept(text string) (bool, error) {
	if !p.tok.is(text) {
		return false, nil
	}
	return true, p.advance()
}

func (p *parser) expect(text string) error {
	if !p.tok.is(text) {
		return p.errorf("expected `%s`, found %s", text, p.tok)
	}
	return p.advance()
}

func (p *parser) expectEOF() error {
	if p.tok.kind != tokEOF {
		return p.errorf("unexpected %s", p.tok)
	}
	return nil
}

func (p *parser) ident() (string, error) {
	if p.tok.kind != tokIdent || keywords[p.tok.text] {
		return "", p.errorf("expected identifier, found %s", p.tok)
	}
	name := p.tok.text
	return name, p.advance()
}

func (p *parser) push(scope []binder) { p.scopes = append(p.scopes, scope) }
func (p *parser) pop()                { p.scopes = p.scopes[:len(p.scopes)-1] }

// lookup resolves a generic parameter name to its bound-variable index.
func (p *parser) lookup(name string) (int, bool) {
	offset := 0
	for j := len(p.scopes) - 1; j >= 0; j-- {
		scope := p.scopes[j]
		for i, b := range scope {
			if b.name == name {
				return offset + i, true
			}
		}
		offset += len(scope)
	}
	return 0, false
}

// binders parses an optional generic parameter list: `<T, 'a, const N>`.
func (p *parser) binders() ([]binder, error) {
	if ok, err := p.accept("<"); !ok || err != nil {
		return nil, err
	}
	var bs []binder
	for !p.tok.is(">") {
		if len(bs) > 0 {
			if err := p.expect(","); err != nil {
				return nil, err
			}
		}
		var b binder
		switch {
		case p.tok.kind == tokLifetime:
			b = binder{name: p.tok.text, kind: types.LifetimeKind}
			if err := p.advance(); err != nil {
				return nil, err
			}
		case p.tok.is("const"):
			if err := p.advance(); err != nil {
				return nil, err
			}
			name, err := p.ident()
			if err != nil {
				return nil, err
			}
			b = binder{name: name, kind: types.ConstKind}
		default:
			name, err := p.ident()
			if err != nil {
				return nil, err
			}
			b = binder{name: name, kind: types.TypeKind}
		}
		for _, prev := range bs {
			if prev.name == b.name {
				return nil, p.errorf("duplicate generic parameter %s", b.name)
			}
		}
		bs = append(bs, b)
	}
	return bs, p.advance()
}

func kindsOf(bs []binder) []types.VariableKind {
	kinds := make([]types.VariableKind, len(bs))
	for i, b := range bs {
		kinds[i] = b.kind
	}
	return kinds
}

func namesOf(bs []binder) []string {
	names := make([]string, len(bs))
	for i, b := range bs {
		names[i] = b.name
	}
	return names
}

func (p *parser) parseType() (types.Type, error) {
	tok := p.tok
	switch tok.kind {
	case tokLifetime:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if index, ok := p.lookup(tok.text); ok {
			return types.NewBoundVar(index), nil
		}
		return &types.Lifetime{Name: tok.text[1:]}, nil

	case tokInt:
		v, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return nil, p.errorf("invalid constant %s", tok.text)
		}
		return &types.ConstValue{Value: v}, p.advance()

	case tokIdent:
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		if index, ok := p.lookup(name); ok {
			if p.tok.is("<") {
				return nil, p.errorf("generic parameter %s cannot take arguments", name)
			}
			return types.NewBoundVar(index), nil
		}
		args, err := p.typeArgs()
		if err != nil {
			return nil, err
		}
		return types.NewApp(name, args...), nil
	}
	return nil, p.errorf("expected type, found %s", tok)
}

// typeArgs parses an optional argument list: `<A, B>`.
func (p *parser) typeArgs() ([]types.Type, error) {
	if ok, err := p.accept("<"); !ok || err != nil {
		return nil, err
	}
	var args []types.Type
	for !p.tok.is(">") {
		if len(args) > 0 {
			if err := p.expect(","); err != nil {
				return nil, err
			}
		}
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, t)
	}
	return args, p.advance()
}

// traitRef parses `Trait<Args>` applied to self.
func (p *parser) traitRef(self types.Type) (types.TraitRef, error) {
	tok := p.tok
	name, err := p.ident()
	if err != nil {
		return types.TraitRef{}, err
	}
	args, err := p.typeArgs()
	if err != nil {
		return types.TraitRef{}, err
	}
	return p.makeTraitRef(tok, name, self, args)
}

func (p *parser) makeTraitRef(at token, name string, self types.Type, args []types.Type) (types.TraitRef, error) {
	trait, ok := p.prog.LookupTrait(name)
	if !ok {
		return types.TraitRef{}, errors.Wrapf(errors.Wrap(ErrUnknownTrait, name), "%d:%d", at.line, at.col)
	}
	if len(args)+1 != trait.Arity {
		return types.TraitRef{}, errors.Wrapf(
			errors.Newf("trait %s expects %d type arguments, found %d", name, trait.Arity-1, len(args)),
			"%d:%d", at.line, at.col)
	}
	return types.TraitRef{Trait: trait.Id, Params: types.TypeListOf(append([]types.Type{self}, args...)...)}, nil
}

// whereClause parses `T: Trait<Args>` or `A = B`.
func (p *parser) whereClause() (types.WhereClause, error) {
	a, err := p.parseType()
	if err != nil {
		return nil, err
	}
	switch {
	case p.tok.is(":"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		tr, err := p.traitRef(a)
		if err != nil {
			return nil, err
		}
		return &types.Implemented{TraitRef: tr}, nil
	case p.tok.is("="):
		if err := p.advance(); err != nil {
			return nil, err
		}
		b, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &types.TypeEq{A: a, B: b}, nil
	}
	return nil, p.errorf("expected `:` or `=`, found %s", p.tok)
}

func (p *parser) whereClauses() ([]types.WhereClause, error) {
	var wcs []types.WhereClause
	for {
		wc, err := p.whereClause()
		if err != nil {
			return nil, err
		}
		wcs = append(wcs, wc)
		if ok, err := p.accept(","); !ok || err != nil {
			return wcs, err
		}
	}
}

func (p *parser) declarations() error {
	for p.tok.kind != tokEOF {
		var err error
		switch {
		case p.tok.is("#"), p.tok.is("trait"):
			err = p.traitDecl()
		case p.tok.is("impl"), p.tok.is("extern"):
			err = p.implDecl()
		default:
			err = p.errorf("expected declaration, found %s", p.tok)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// traitDecl parses `#[marker] trait Name<P>`.
func (p *parser) traitDecl() error {
	var flags types.TraitFlags
	for p.tok.is("#") {
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.expect("["); err != nil {
			return err
		}
		attr, err := p.ident()
		if err != nil {
			return err
		}
		if attr != "marker" {
			return p.errorf("unknown trait attribute %s", attr)
		}
		flags.Marker = true
		if err := p.expect("]"); err != nil {
			return err
		}
	}
	if err := p.expect("trait"); err != nil {
		return err
	}
	at := p.tok
	name, err := p.ident()
	if err != nil {
		return err
	}
	params, err := p.binders()
	if err != nil {
		return err
	}
	if _, err := p.prog.DeclareTrait(name, len(params)+1, flags); err != nil {
		return errors.Wrapf(err, "%d:%d", at.line, at.col)
	}
	return nil
}

// implDecl parses `extern impl<T> !Trait<Args> for Self where Clauses`.
func (p *parser) implDecl() error {
	at := p.tok
	foreign, err := p.accept("extern")
	if err != nil {
		return err
	}
	if err := p.expect("impl"); err != nil {
		return err
	}
	bs, err := p.binders()
	if err != nil {
		return err
	}
	polarity := types.Positive
	if neg, err := p.accept("!"); err != nil {
		return err
	} else if neg {
		polarity = types.Negative
	}

	p.push(bs)
	defer p.pop()
	traitTok := p.tok
	traitName, err := p.ident()
	if err != nil {
		return err
	}
	args, err := p.typeArgs()
	if err != nil {
		return err
	}
	if err := p.expect("for"); err != nil {
		return err
	}
	self, err := p.parseType()
	if err != nil {
		return err
	}
	tr, err := p.makeTraitRef(traitTok, traitName, self, args)
	if err != nil {
		return err
	}
	var wcs []types.WhereClause
	if ok, err := p.accept("where"); err != nil {
		return err
	} else if ok {
		if wcs, err = p.whereClauses(); err != nil {
			return err
		}
	}

	impl := types.ImplDatum{
		Polarity: polarity,
		Foreign:  foreign,
		Binders: types.Binders[types.ImplBound]{
			Kinds: kindsOf(bs),
			Value: types.ImplBound{TraitRef: tr, WhereClauses: wcs},
		},
		Names: namesOf(bs),
	}
	if _, err := p.prog.DeclareImpl(impl); err != nil {
		return errors.Wrapf(err, "%d:%d", at.line, at.col)
	}
	return nil
}

// goal parses a conjunction of goals.
func (p *parser) goal() (goal.Goal, error) {
	var goals []goal.Goal
	for {
		g, err := p.unaryGoal()
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
		if ok, err := p.accept(","); err != nil {
			return nil, err
		} else if !ok {
			break
		}
	}
	return goal.Conjoin(goals...), nil
}

// block parses `{ goal }`.
func (p *parser) block() (goal.Goal, error) {
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	g, err := p.goal()
	if err != nil {
		return nil, err
	}
	return g, p.expect("}")
}

func (p *parser) unaryGoal() (goal.Goal, error) {
	switch {
	case p.tok.is("exists"), p.tok.is("forall"):
		kind := goal.Exists
		if p.tok.is("forall") {
			kind = goal.ForAll
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !p.tok.is("<") {
			return nil, p.errorf("expected `<`, found %s", p.tok)
		}
		bs, err := p.binders()
		if err != nil {
			return nil, err
		}
		p.push(bs)
		body, err := p.block()
		p.pop()
		if err != nil {
			return nil, err
		}
		return goal.Quantify(body, kind, kindsOf(bs)), nil

	case p.tok.is("if"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expect("("); err != nil {
			return nil, err
		}
		hyps, err := p.whereClauses()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		return &goal.Implies{Hypotheses: hyps, Body: body}, nil

	case p.tok.is("not"), p.tok.is("compatible"):
		negate := p.tok.is("not")
		if err := p.advance(); err != nil {
			return nil, err
		}
		g, err := p.block()
		if err != nil {
			return nil, err
		}
		if negate {
			return goal.Negate(g), nil
		}
		return goal.MakeCompatible(g), nil

	case p.tok.is("{"):
		return p.block()
	}
	wc, err := p.whereClause()
	if err != nil {
		return nil, err
	}
	return goal.FromWhereClause(wc), nil
}

// Declare parses declarations in program syntax and adds them to p:
//
//	trait Clone
//	#[marker] trait Marker
//	trait Convert<T>
//	impl<T> Clone for Vec<T> where T: Clone
//	impl !Clone for Cell
//	extern impl Clone for u32
//
// Declarations already added are kept when an error is returned.
func (p *Program) Declare(src string) error {
	ps, err := newParser(p, src)
	if err != nil {
		return err
	}
	return ps.declarations()
}

// ParseProgram parses a new program from source. See Declare.
func ParseProgram(src string) (*Program, error) {
	p := New()
	if err := p.Declare(src); err != nil {
		return nil, err
	}
	return p, nil
}

// ParseGoal parses a goal over p's traits:
//
//	forall<T> { if (T: Clone) { exists<U> { Vec<T> = U, U: Clone } } }
//	not { compatible { exists<T> { T: Foo } } }
//
// Comma-separated goals are conjoined.
func (p *Program) ParseGoal(src string) (goal.Goal, error) {
	ps, err := newParser(p, src)
	if err != nil {
		return nil, err
	}
	g, err := ps.goal()
	if err != nil {
		return nil, err
	}
	return g, ps.expectEOF()
}

// ParseType parses a type in which generics name bound variables ^0, ^1, ... in order.
func (p *Program) ParseType(src string, generics ...string) (types.Type, error) {
	var t types.Type
	err := p.parseIn(src, generics, func(ps *parser) (err error) {
		t, err = ps.parseType()
		return err
	})
	return t, err
}

// ParseWhereClause parses a where-clause in which generics name bound variables.
func (p *Program) ParseWhereClause(src string, generics ...string) (types.WhereClause, error) {
	var wc types.WhereClause
	err := p.parseIn(src, generics, func(ps *parser) (err error) {
		wc, err = ps.whereClause()
		return err
	})
	return wc, err
}

func (p *Program) parseIn(src string, generics []string, parse func(*parser) error) error {
	bs := make([]binder, len(generics))
	for i, name := range generics {
		bs[i] = binderOf(name)
	}
	ps, err := newParser(p, src)
	if err != nil {
		return err
	}
	ps.push(bs)
	if err := parse(ps); err != nil {
		return err
	}
	return ps.expectEOF()
}

// binderOf classifies a generic parameter declared as `T`, `'a` or `const N`.
func binderOf(decl string) binder {
	decl = strings.TrimSpace(decl)
	switch {
	case strings.HasPrefix(decl, "'"):
		return binder{name: decl, kind: types.LifetimeKind}
	case strings.HasPrefix(decl, "const "):
		return binder{name: strings.TrimSpace(strings.TrimPrefix(decl, "const ")), kind: types.ConstKind}
	}
	return binder{name: decl, kind: types.TypeKind}
}
