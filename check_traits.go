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

	"golang.org/x/sync/errgroup"

	"github.com/wdamron/coherence/types"
)

// CheckTraits checks several traits, running up to parallelism checks at once. Calls to
// record are serialized. When more than one trait fails, the error of the trait which comes
// first in traits is returned. A failing trait does not stop the others.
func (c *Checker) CheckTraits(ctx context.Context, traits []types.TraitId, parallelism int, record func(trait types.TraitId, more, less types.ImplId)) error {
	var mu sync.Mutex
	errs := make([]error, len(traits))

	var g errgroup.Group
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i, trait := range traits {
		g.Go(func() error {
			errs[i] = c.CheckTraitContext(ctx, trait, func(more, less types.ImplId) {
				if record == nil {
					return
				}
				mu.Lock()
				defer mu.Unlock()
				record(trait, more, less)
			})
			return errs[i]
		})
	}
	if g.Wait() == nil {
		return nil
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
