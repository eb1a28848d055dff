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

// coherence checks that the implementations of a trait are coherent: for any type, at most
// one implementation applies once specialization is taken into account.
//
// For every pair of local implementations of a trait, the checker asks a solver whether the
// two can apply to the same type. Implementations which may overlap must be ordered by
// specialization, with exactly one of the pair specializing the other; the checker reports
// such pairs as specialization edges. Any other overlap is a coherence error.
//
// Overlap is decided under the compatible-worlds modality: two implementations are disjoint
// only if no program extending the checked one could make both apply. Marker traits, and
// pairs of negative implementations, are exempt.
//
//
// Packages:
//
//   * types: terms, trait-refs, where-clauses and implementation records
//   * goal: the goal algebra and its builder
//   * solve: the solver boundary, and a reference solver
//   * program: a registry of traits and implementations, with a program syntax and loader
//
//
// Links:
//
// RFC 1210, impl specialization: https://rust-lang.github.io/rfcs/1210-impl-specialization.html
//
// De Bruijn index: https://en.wikipedia.org/wiki/De_Bruijn_index
package coherence
