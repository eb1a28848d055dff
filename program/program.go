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

// program is an in-memory registry of traits and implementations. A Program supplies
// coherence checking with the implementations to check, and supplies the reference
// solver with clauses.
package program

import (
	"cmp"

	"github.com/cockroachdb/errors"
	set "github.com/hashicorp/go-set/v3"

	"github.com/wdamron/coherence/types"
)

var (
	ErrUnknownTrait   = errors.New("unknown trait")
	ErrDuplicateTrait = errors.New("duplicate trait")
	ErrMalformedImpl  = errors.New("malformed implementation")
)

// Program is a registry of trait and implementation declarations.
//
// A Program is not safe for concurrent modification; once fully declared it may be read
// concurrently.
type Program struct {
	traits       []*types.TraitDatum
	traitNames   map[string]types.TraitId
	impls        []*types.ImplDatum
	implsByTrait map[types.TraitId]*set.TreeSet[types.ImplId]
}

// Create an empty program.
func New() *Program {
	return &Program{
		traitNames:   make(map[string]types.TraitId),
		implsByTrait: make(map[types.TraitId]*set.TreeSet[types.ImplId]),
	}
}

// DeclareTrait adds a trait with arity parameters, including the self type.
func (p *Program) DeclareTrait(name string, arity int, flags types.TraitFlags) (types.TraitId, error) {
	if _, ok := p.traitNames[name]; ok {
		return 0, errors.Wrapf(ErrDuplicateTrait, "trait %s", name)
	}
	if arity < 1 {
		return 0, errors.Newf("trait %s: arity %d does not include a self type", name, arity)
	}
	id := types.TraitId(len(p.traits))
	p.traits = append(p.traits, &types.TraitDatum{Id: id, Name: name, Arity: arity, Flags: flags})
	p.traitNames[name] = id
	return id, nil
}

// DeclareImpl adds an implementation and returns its assigned id. The implemented trait and
// the traits named by its where-clauses must already be declared, with matching arities,
// and every bound variable must refer to one of the implementation's generic parameters.
func (p *Program) DeclareImpl(impl types.ImplDatum) (types.ImplId, error) {
	if err := p.checkTraitRef(impl.TraitRef()); err != nil {
		return 0, errors.Mark(err, ErrMalformedImpl)
	}
	n := impl.Binders.Len()
	if max := types.ClauseMaxFreeIndex(&types.Implemented{TraitRef: impl.TraitRef()}, 0); max >= n {
		return 0, errors.Wrapf(ErrMalformedImpl, "bound variable ^%d out of range for %d generic parameters", max, n)
	}
	for _, wc := range impl.WhereClauses() {
		if max := types.ClauseMaxFreeIndex(wc, 0); max >= n {
			return 0, errors.Wrapf(ErrMalformedImpl, "bound variable ^%d out of range for %d generic parameters", max, n)
		}
		if wc, ok := wc.(*types.Implemented); ok {
			if err := p.checkTraitRef(wc.TraitRef); err != nil {
				return 0, errors.Mark(err, ErrMalformedImpl)
			}
		}
	}
	if len(impl.Names) != 0 && len(impl.Names) != n {
		return 0, errors.Wrapf(ErrMalformedImpl, "%d names for %d generic parameters", len(impl.Names), n)
	}

	impl.Id = types.ImplId(len(p.impls))
	p.impls = append(p.impls, &impl)
	ids, ok := p.implsByTrait[impl.TraitRef().Trait]
	if !ok {
		ids = set.NewTreeSet[types.ImplId](cmp.Compare[types.ImplId])
		p.implsByTrait[impl.TraitRef().Trait] = ids
	}
	ids.Insert(impl.Id)
	return impl.Id, nil
}

func (p *Program) checkTraitRef(tr types.TraitRef) error {
	trait := p.TraitDatum(tr.Trait)
	if trait == nil {
		return errors.Wrapf(ErrUnknownTrait, "trait #%d", tr.Trait)
	}
	if tr.Params.Len() != trait.Arity {
		return errors.Newf("trait %s expects %d parameters, found %d", trait.Name, trait.Arity, tr.Params.Len())
	}
	return nil
}

// TraitDatum returns the trait with the given id, or nil.
func (p *Program) TraitDatum(id types.TraitId) *types.TraitDatum {
	if id < 0 || int(id) >= len(p.traits) {
		return nil
	}
	return p.traits[id]
}

// LookupTrait finds a trait by name.
func (p *Program) LookupTrait(name string) (*types.TraitDatum, bool) {
	id, ok := p.traitNames[name]
	if !ok {
		return nil, false
	}
	return p.traits[id], true
}

// TraitName returns the name of a trait, for printing.
func (p *Program) TraitName(id types.TraitId) string {
	if trait := p.TraitDatum(id); trait != nil {
		return trait.Name
	}
	return "#?"
}

// Traits returns the ids of all declared traits, in declaration order.
func (p *Program) Traits() []types.TraitId {
	ids := make([]types.TraitId, len(p.traits))
	for i := range ids {
		ids[i] = types.TraitId(i)
	}
	return ids
}

// ImplDatum returns the implementation with the given id, or nil.
func (p *Program) ImplDatum(id types.ImplId) *types.ImplDatum {
	if id < 0 || int(id) >= len(p.impls) {
		return nil
	}
	return p.impls[id]
}

// ImplsForTrait returns every implementation of a trait, local and foreign, in declaration order.
func (p *Program) ImplsForTrait(id types.TraitId) []types.ImplId {
	ids, ok := p.implsByTrait[id]
	if !ok {
		return nil
	}
	return ids.Slice()
}

// LocalImplsToCoherenceCheck returns the local implementations of a trait, in declaration order.
func (p *Program) LocalImplsToCoherenceCheck(id types.TraitId) []types.ImplId {
	var local []types.ImplId
	for _, implId := range p.ImplsForTrait(id) {
		if !p.impls[implId].Foreign {
			local = append(local, implId)
		}
	}
	return local
}

// ImplString renders an implementation in program syntax.
func (p *Program) ImplString(id types.ImplId) string {
	impl := p.ImplDatum(id)
	if impl == nil {
		return "impl #?"
	}
	s := types.ImplString(impl, p.TraitName)
	if impl.Foreign {
		s = "extern " + s
	}
	return s
}
