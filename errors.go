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

package coherence

import (
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/wdamron/coherence/types"
)

var (
	// ErrOverlappingImpls is matched by every *CoherenceError.
	ErrOverlappingImpls = errors.New("overlapping implementations")
	// ErrSpecializationCycle is returned when implementations specialize one another in a cycle.
	ErrSpecializationCycle = errors.New("specialization cycle")
)

// CoherenceError reports that two implementations of a trait overlap and neither strictly
// specializes the other. It names only the trait.
type CoherenceError struct {
	Trait types.TraitId
	// Name of the trait, when known.
	Name string
}

func (e *CoherenceError) Error() string {
	if e.Name != "" {
		return "overlapping implementations of trait " + e.Name
	}
	return "overlapping implementations of trait #" + strconv.Itoa(int(e.Trait))
}

func (e *CoherenceError) Unwrap() error { return ErrOverlappingImpls }
