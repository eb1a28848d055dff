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

package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wdamron/coherence"
	"github.com/wdamron/coherence/program"
	"github.com/wdamron/coherence/solve"
	"github.com/wdamron/coherence/types"
)

var errIncoherent = errors.New("program is not coherent")

type traitResult struct {
	trait *types.TraitDatum
	prio  *coherence.Priorities
	err   error
}

func newCheckCmd(a *app) *cobra.Command {
	var (
		traitNames []string
		stats      bool
	)
	cmd := &cobra.Command{
		Use:   "check <program>",
		Short: "Check the coherence of a program's traits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := program.Load(args[0])
			if err != nil {
				return err
			}
			traits, err := selectTraits(p, traitNames)
			if err != nil {
				return err
			}

			var (
				reg     = prometheus.NewRegistry()
				metrics = coherence.NewMetrics(reg)
				solver  = solve.NewRecursive(p, solve.WithMaxDepth(a.cfg.Solver.MaxDepth), solve.WithLogger(a.log))
				checker = coherence.NewChecker(p, solver,
					coherence.WithLogger(a.log),
					coherence.WithMetrics(metrics),
					coherence.WithQueryTimeout(a.cfg.Solver.Timeout))
			)
			results := checkAll(cmd.Context(), checker, traits, a.cfg.Check.Parallelism)

			out := cmd.OutOrStdout()
			failed := 0
			for _, r := range results {
				if r.err != nil {
					failed++
				}
				printResult(out, p, r)
			}
			if stats {
				if err := printStats(out, reg); err != nil {
					return err
				}
			}
			a.log.Infow("checked program", "path", args[0], "traits", len(results), "failed", failed)
			if failed > 0 {
				return errors.Wrapf(errIncoherent, "%d of %d traits failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&traitNames, "trait", nil, "check only the named trait (repeatable)")
	cmd.Flags().BoolVar(&stats, "stats", false, "print checker statistics")
	return cmd
}

func selectTraits(p *program.Program, names []string) ([]*types.TraitDatum, error) {
	var traits []*types.TraitDatum
	if len(names) == 0 {
		for _, id := range p.Traits() {
			traits = append(traits, p.TraitDatum(id))
		}
		return traits, nil
	}
	for _, name := range names {
		trait, ok := p.LookupTrait(name)
		if !ok {
			return nil, errors.Wrap(program.ErrUnknownTrait, name)
		}
		traits = append(traits, trait)
	}
	return traits, nil
}

func checkAll(ctx context.Context, c *coherence.Checker, traits []*types.TraitDatum, parallelism int) []traitResult {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]traitResult, len(traits))
	var g errgroup.Group
	g.SetLimit(parallelism)
	for i, trait := range traits {
		g.Go(func() error {
			prio, err := c.SpecializationPriorities(ctx, trait.Id)
			results[i] = traitResult{trait: trait, prio: prio, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func printResult(w io.Writer, p *program.Program, r traitResult) {
	if r.err != nil {
		fmt.Fprintf(w, "trait %s: error: %v\n", r.trait.Name, r.err)
		return
	}
	if r.trait.Flags.Marker {
		fmt.Fprintf(w, "trait %s: marker\n", r.trait.Name)
		return
	}
	fmt.Fprintf(w, "trait %s: coherent\n", r.trait.Name)
	for _, e := range r.prio.Edges {
		fmt.Fprintf(w, "  %s\n    specializes %s\n", p.ImplString(e.More), p.ImplString(e.Less))
	}
	for _, id := range r.prio.Impls() {
		fmt.Fprintf(w, "  %-4s %s\n", r.prio.Priority(id), p.ImplString(id))
	}
}

func printStats(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return errors.Wrap(err, "failed to gather statistics")
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			lines = append(lines, fmt.Sprintf("%s %g", name, m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	fmt.Fprintln(w, "statistics:")
	for _, line := range lines {
		fmt.Fprintln(w, " ", line)
	}
	return nil
}
