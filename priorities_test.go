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
	"context"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdamron/coherence/types"
)

func TestSpecializationPriorities(t *testing.T) {
	c, p := newChecker(t, `
		trait Display
		trait Clone
		impl Clone for u8
		impl<T> Clone for Vec<T> where T: Clone
		impl<T> Display for T
		impl<T> Display for Vec<T> where T: Clone
		impl Display for Vec<u8>
	`)
	prio, err := c.SpecializationPriorities(context.Background(), traitId(t, p, "Display"))
	require.NoError(t, err)

	assert.Equal(t, []types.ImplId{2, 3, 4}, prio.Impls())
	assert.Equal(t, Low, prio.Priority(2))
	assert.Equal(t, High, prio.Priority(3))
	assert.Equal(t, High, prio.Priority(4))
	assert.Empty(t, prio.Specializes(2))
	assert.Equal(t, []types.ImplId{2}, prio.Specializes(3))
	assert.Equal(t, []types.ImplId{2, 3}, prio.Specializes(4))
	assert.Len(t, prio.Edges, 3)
	assert.Equal(t, "high", High.String())
	assert.Equal(t, "low", Low.String())
}

func TestSpecializationPrioritiesDisjoint(t *testing.T) {
	c, p := newChecker(t, `
		trait Clone
		impl Clone for u8
		impl Clone for u16
	`)
	prio, err := c.SpecializationPriorities(context.Background(), traitId(t, p, "Clone"))
	require.NoError(t, err)
	assert.Equal(t, []types.ImplId{0, 1}, prio.Impls())
	assert.Equal(t, Low, prio.Priority(0))
	assert.Equal(t, Low, prio.Priority(1))
	assert.Empty(t, prio.Edges)
}

func TestSpecializationPrioritiesOverlap(t *testing.T) {
	c, p := newChecker(t, `
		trait Clone
		impl<T> Clone for T
		impl<U> Clone for U
	`)
	_, err := c.SpecializationPriorities(context.Background(), traitId(t, p, "Clone"))
	assert.True(t, errors.Is(err, ErrOverlappingImpls))
}

func TestCheckTraits(t *testing.T) {
	c, p := newChecker(t, `
		trait Display
		trait Clone
		trait Debug
		trait Eq
		impl<T> Display for T
		impl Display for u8
		impl<T> Clone for T
		impl<T> Clone for T
		impl Debug for u8
		impl Debug for u16
		impl<T> Eq for T
		impl<T> Eq for T
	`)
	traits := []types.TraitId{
		traitId(t, p, "Display"),
		traitId(t, p, "Debug"),
	}

	var (
		mu    sync.Mutex
		edges = map[types.TraitId][]Edge{}
	)
	record := func(trait types.TraitId, more, less types.ImplId) {
		mu.Lock()
		defer mu.Unlock()
		edges[trait] = append(edges[trait], Edge{More: more, Less: less})
	}
	require.NoError(t, c.CheckTraits(context.Background(), traits, 2, record))
	assert.Equal(t, map[types.TraitId][]Edge{traits[0]: {{More: 1, Less: 0}}}, edges)

	// the first failing trait in input order is reported
	clone, eq := traitId(t, p, "Clone"), traitId(t, p, "Eq")
	for i := 0; i < 4; i++ {
		err := c.CheckTraits(context.Background(), []types.TraitId{traits[1], eq, clone}, 3, nil)
		var ce *CoherenceError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, eq, ce.Trait)
	}

	// traits checked after a failure still run to completion
	edges = map[types.TraitId][]Edge{}
	err := c.CheckTraits(context.Background(), []types.TraitId{clone, traits[0]}, 1, record)
	var ce *CoherenceError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, clone, ce.Trait)
	assert.Equal(t, map[types.TraitId][]Edge{traits[0]: {{More: 1, Less: 0}}}, edges)
}
