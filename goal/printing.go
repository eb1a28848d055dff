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

package goal

import (
	"strconv"
	"strings"

	"github.com/wdamron/coherence/types"
)

// GoalString returns a string representation of a goal, naming quantified variables
// T0, T1, ... in order of introduction.
func GoalString(g Goal) string { return GoalStringWith(g, nil) }

// GoalStringWith returns a string representation of a goal, resolving trait names with traitName.
func GoalStringWith(g Goal, traitName func(types.TraitId) string) string {
	p := &goalPrinter{traitName: traitName}
	p.goalString(g)
	return p.sb.String()
}

// String renders the closed goal, including its witness binders when present.
func (c Closed) String() string {
	if len(c.Binders) == 0 {
		return GoalString(c.Goal)
	}
	return GoalString(Quantify(c.Goal, Exists, c.Binders))
}

type goalPrinter struct {
	traitName func(types.TraitId) string
	scopes    [][]string // innermost last
	next      int
	sb        strings.Builder
}

func (p *goalPrinter) bound(index int) string {
	i := index
	for s := len(p.scopes) - 1; s >= 0; s-- {
		if i < len(p.scopes[s]) {
			return p.scopes[s][i]
		}
		i -= len(p.scopes[s])
	}
	return "^" + strconv.Itoa(index)
}

func (p *goalPrinter) names() types.Names {
	return types.Names{Bound: p.bound, Trait: p.traitName}
}

func (p *goalPrinter) goalString(g Goal) {
	switch g := g.(type) {
	case *Eq:
		p.sb.WriteString(types.TypeStringWith(g.A, p.names()))
		p.sb.WriteString(" = ")
		p.sb.WriteString(types.TypeStringWith(g.B, p.names()))

	case *Holds:
		p.sb.WriteString(types.WhereClauseString(g.Clause, p.names()))

	case *All:
		if len(g.Goals) == 0 {
			p.sb.WriteString("true")
			return
		}
		for i, sub := range g.Goals {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.goalString(sub)
		}

	case *Quantified:
		scope := make([]string, len(g.Kinds))
		for i, kind := range g.Kinds {
			switch kind {
			case types.LifetimeKind:
				scope[i] = "'t" + strconv.Itoa(p.next)
			case types.ConstKind:
				scope[i] = "C" + strconv.Itoa(p.next)
			default:
				scope[i] = "T" + strconv.Itoa(p.next)
			}
			p.next++
		}
		p.sb.WriteString(g.Kind.String())
		p.sb.WriteByte('<')
		p.sb.WriteString(strings.Join(scope, ", "))
		p.sb.WriteString("> { ")
		p.scopes = append(p.scopes, scope)
		p.goalString(g.Body)
		p.scopes = p.scopes[:len(p.scopes)-1]
		p.sb.WriteString(" }")

	case *Implies:
		p.sb.WriteString("if (")
		for i, h := range g.Hypotheses {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.sb.WriteString(types.WhereClauseString(h, p.names()))
		}
		p.sb.WriteString(") { ")
		p.goalString(g.Body)
		p.sb.WriteString(" }")

	case *Not:
		p.sb.WriteString("not { ")
		p.goalString(g.Goal)
		p.sb.WriteString(" }")

	case *Compatible:
		p.sb.WriteString("compatible { ")
		p.goalString(g.Goal)
		p.sb.WriteString(" }")
	}
}
