// Package cli implements the botnav command line: file-based
// evaluation and optimization of delivery instances.
package cli

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"botnav/internal/codec"
	"botnav/internal/model"
	"botnav/internal/opt"
	"botnav/internal/render"
	"botnav/internal/sim"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "botnav",
		Short:         "Delivery bot route evaluation and optimization",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newValueCmd())
	root.AddCommand(newArrivalsCmd())
	root.AddCommand(newEvaluateCmd())
	root.AddCommand(newInstructionsCmd())
	root.AddCommand(newOptimizeCmd())
	return root
}

func loadInstance(path string) (*model.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	inst, err := codec.ParseInstance(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inst, nil
}

func loadSolution(path string) (model.Solution, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Solution{}, err
	}
	defer f.Close()
	sol, err := codec.ParseSolution(f)
	if err != nil {
		return model.Solution{}, fmt.Errorf("%s: %w", path, err)
	}
	return sol, nil
}

func newValueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "value <instance> <solution>",
		Short: "Print the total freshness score of a solution",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := loadInstance(args[0])
			if err != nil {
				return err
			}
			sol, err := loadSolution(args[1])
			if err != nil {
				return err
			}
			ev, err := sim.New(inst).Evaluate(sol)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ev.Total)
			return nil
		},
	}
}

func newArrivalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "arrivals <instance> <solution>",
		Short: "Print per-order customer arrival times",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := loadInstance(args[0])
			if err != nil {
				return err
			}
			sol, err := loadSolution(args[1])
			if err != nil {
				return err
			}
			res, err := sim.New(inst).Simulate(sol)
			if err != nil {
				return err
			}
			ids := make([]model.OrderID, 0, len(res.Arrivals))
			for id := range res.Arrivals {
				ids = append(ids, id)
			}
			sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
			out := cmd.OutOrStdout()
			for _, id := range ids {
				at := res.Arrivals[id]
				if at == sim.Unserved {
					fmt.Fprintf(out, "%s unserved\n", id)
				} else {
					fmt.Fprintf(out, "%s %s\n", id, at)
				}
			}
			return nil
		},
	}
}

func newEvaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate <instance> <solution>",
		Short: "Print per-order scores and the total",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := loadInstance(args[0])
			if err != nil {
				return err
			}
			sol, err := loadSolution(args[1])
			if err != nil {
				return err
			}
			ev, err := sim.New(inst).Evaluate(sol)
			if err != nil {
				return err
			}
			ids := make([]model.OrderID, 0, len(ev.Scores))
			for id := range ev.Scores {
				ids = append(ids, id)
			}
			sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
			out := cmd.OutOrStdout()
			for _, id := range ids {
				fmt.Fprintf(out, "%s %d\n", id, ev.Scores[id])
			}
			fmt.Fprintf(out, "total %d\n", ev.Total)
			return nil
		},
	}
}

func newInstructionsCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "instructions <instance> <solution>",
		Short: "Render a solution into per-bot walking instructions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := loadInstance(args[0])
			if err != nil {
				return err
			}
			sol, err := loadSolution(args[1])
			if err != nil {
				return err
			}
			scripts, err := render.Render(inst, sol)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return codec.WriteInstructions(out, scripts)
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write instructions to a file instead of stdout")
	return cmd
}

func newOptimizeCmd() *cobra.Command {
	var (
		algorithm string
		budgetMs  int
		maxIter   int
		seed      int64
		outPath   string
		quiet     bool
	)
	cmd := &cobra.Command{
		Use:   "optimize <instance>",
		Short: "Search for a high-scoring solution and write it out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := loadInstance(args[0])
			if err != nil {
				return err
			}
			params := opt.Params{
				Algorithm:       algorithm,
				Seed:            seed,
				TimeBudget:      time.Duration(budgetMs) * time.Millisecond,
				IterationsLimit: maxIter,
			}
			if !quiet {
				params.Progress = func(e opt.Event) {
					if e.Type == "improved" {
						fmt.Fprintf(cmd.ErrOrStderr(), "iter %d best %d\n", e.Iteration, e.BestScore)
					}
				}
			}
			sol, m, err := opt.Optimize(cmd.Context(), inst, params)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			if err := codec.WriteSolution(out, sol); err != nil {
				return err
			}
			if !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "algorithm %s score %d baseline %d iterations %d elapsed %s\n",
					m.Algorithm, m.BestScore, m.BaselineScore, m.Iterations, m.Elapsed.Round(time.Millisecond))
				if m.Truncated {
					fmt.Fprintln(cmd.ErrOrStderr(), "search truncated by time budget")
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", opt.AlgorithmALNS, "alns or exhaustive")
	cmd.Flags().IntVar(&budgetMs, "budget-ms", 0, "time budget in milliseconds (0 = default)")
	cmd.Flags().IntVar(&maxIter, "max-iterations", 0, "iteration limit (0 = none)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time-based)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the solution to a file instead of stdout")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
	return cmd
}
