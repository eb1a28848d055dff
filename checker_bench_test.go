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

package coherence_test

import (
	"fmt"
	"strings"
	"testing"

	. "github.com/wdamron/coherence"

	"github.com/wdamron/coherence/program"
	"github.com/wdamron/coherence/solve"
	"github.com/wdamron/coherence/types"
)

// benchProgram declares a generic Display impl, a Clone-bounded impl over Vec, and n
// concrete impls, all of which specialize the generic ones.
func benchProgram(b *testing.B, n int) (*program.Program, types.TraitId) {
	var sb strings.Builder
	sb.WriteString("trait Display\ntrait Clone\n")
	sb.WriteString("impl<T> Display for T\nimpl<T> Display for Vec<T> where T: Clone\n")
	sb.WriteString("impl<T> Clone for Vec<T> where T: Clone\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "impl Clone for S%d\nimpl Display for Vec<S%d>\n", i, i)
	}
	p, err := program.ParseProgram(sb.String())
	if err != nil {
		b.Fatal(err)
	}
	trait, _ := p.LookupTrait("Display")
	return p, trait.Id
}

func BenchmarkCheckTraitSmall(b *testing.B) {
	p, trait := benchProgram(b, 4)
	c := NewChecker(p, solve.NewRecursive(p))

	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		edges := 0
		if err := c.CheckTrait(trait, func(more, less types.ImplId) { edges++ }); err != nil {
			b.Fatal(err)
		}
		if edges != 9 {
			b.Fatalf("edges: %d", edges)
		}
	}
}

func BenchmarkCheckTraitLarge(b *testing.B) {
	p, trait := benchProgram(b, 24)
	c := NewChecker(p, solve.NewRecursive(p))

	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		if err := c.CheckTrait(trait, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDisjoint(b *testing.B) {
	p, _ := benchProgram(b, 2)
	c := NewChecker(p, solve.NewRecursive(p))
	lhs, rhs := p.ImplDatum(1), p.ImplDatum(4)

	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		if c.Disjoint(lhs, rhs) {
			b.Fatal("expected overlap")
		}
	}
}
