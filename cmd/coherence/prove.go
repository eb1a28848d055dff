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
	"strings"

	"github.com/spf13/cobra"

	"github.com/wdamron/coherence/goal"
	"github.com/wdamron/coherence/program"
	"github.com/wdamron/coherence/solve"
	"github.com/wdamron/coherence/types"
)

func newProveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prove <program> <goal>",
		Short: "Ask the reference solver to prove a goal",
		Long: `prove solves a goal over a program's implementations and prints the verdict.
For a goal of the form exists<..> { .. } a unique solution also prints its witness.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := program.Load(args[0])
			if err != nil {
				return err
			}
			g, err := p.ParseGoal(args[1])
			if err != nil {
				return err
			}
			closed, err := goal.Close(g)
			if err != nil {
				return err
			}
			closed = goal.LiftExists(closed)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if a.cfg.Solver.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, a.cfg.Solver.Timeout)
				defer cancel()
			}
			solver := solve.NewRecursive(p, solve.WithMaxDepth(a.cfg.Solver.MaxDepth), solve.WithLogger(a.log))
			sol := solver.Solve(ctx, closed)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, solve.VerdictOf(sol))
			if sol.IsUnique() && sol.Witness.Len() > 0 {
				ws := make([]string, 0, sol.Witness.Len())
				sol.Witness.Range(func(_ int, t types.Type) bool {
					ws = append(ws, types.TypeString(t))
					return true
				})
				fmt.Fprintln(out, "witness:", strings.Join(ws, ", "))
			}
			return nil
		},
	}
}
