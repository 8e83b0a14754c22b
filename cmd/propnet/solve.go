package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/propnet/internal/cli"
	"github.com/aretw0/propnet/pkg/config"
	"github.com/aretw0/propnet/pkg/domain"
	"github.com/aretw0/propnet/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// Exit codes of the solve command.
const (
	exitContradiction  = 2
	exitNonTermination = 3
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Build a network from flags, run it and print every cell",
	Long: `Builds a network, injects the given values and propagates to a fixpoint.

Values are numbers, intervals [lo, hi], sets {a, b}, booleans or strings.

The command exits with 2 when a contradiction is found and with 3 when the
step bound is exceeded.`,
	Example: `  propnet solve \
    --const k32=32 --const k9=9 --const k5=5 \
    -c "difference f k32 t" -c "product c k9 c9" -c "product t k5 c9" \
    --set f=212`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := applySchedulerFlags(cmd, &cfg); err != nil {
			return err
		}

		problem, err := problemFromFlags(cmd)
		if err != nil {
			return err
		}
		if len(problem.Constraints) == 0 && len(problem.Values) == 0 && len(problem.Constants) == 0 {
			return errors.New("nothing to solve: pass --constraint, --set, --const or --file")
		}

		formatFlag, _ := cmd.Flags().GetString("format")
		format, err := cli.ParseFormat(formatFlag)
		if err != nil {
			return err
		}

		solver := cli.NewSolver(cfg, logger)
		var gatherer prometheus.Gatherer
		if withMetrics, _ := cmd.Flags().GetBool("metrics"); withMetrics {
			reg := prometheus.NewRegistry()
			solver.Hooks = observability.NewMetrics(reg).Hooks()
			gatherer = reg
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runSolve(ctx, cmd.OutOrStdout(), solver, problem, format, gatherer)
	},
}

// runSolve prints the solution of problem and maps its status to an exit code.
func runSolve(ctx context.Context, w io.Writer, solver *cli.Solver, problem cli.Problem, format cli.Format, reg prometheus.Gatherer) error {
	sol, err := solver.Solve(ctx, problem)
	if err != nil {
		return err
	}
	if err := cli.Write(w, format, sol); err != nil {
		return err
	}
	if reg != nil {
		fmt.Fprintln(w)
		if err := cli.WriteMetrics(w, reg); err != nil {
			return err
		}
	}

	switch sol.Status {
	case domain.StatusQuiescent:
		if len(sol.Contradictions) > 0 {
			return &exitError{code: exitContradiction, err: sol.Err()}
		}
		return nil
	case domain.StatusHaltedContradiction:
		return &exitError{code: exitContradiction, err: sol.Err()}
	case domain.StatusNonTermination:
		return &exitError{code: exitNonTermination, err: sol.Err()}
	}
	return fmt.Errorf("run ended with status %s", sol.Status)
}

// applySchedulerFlags lets --workers, --max-steps and --policy override the config file.
func applySchedulerFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("workers") {
		cfg.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("max-steps") {
		cfg.MaxSteps, _ = cmd.Flags().GetInt("max-steps")
	}
	if cmd.Flags().Changed("policy") {
		raw, _ := cmd.Flags().GetString("policy")
		policy, err := domain.ParsePolicy(raw)
		if err != nil {
			return err
		}
		cfg.Policy = policy
	}
	return cfg.Validate()
}

// problemFromFlags merges --file with the declarations given as flags.
func problemFromFlags(cmd *cobra.Command) (cli.Problem, error) {
	problem := cli.Problem{}
	problem.Constraints, _ = cmd.Flags().GetStringArray("constraint")
	problem.Values, _ = cmd.Flags().GetStringArray("set")
	problem.Constants, _ = cmd.Flags().GetStringArray("const")
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		fromFile, err := cli.LoadProblem(file)
		if err != nil {
			return problem, err
		}
		problem = fromFile.Merge(problem)
	}
	return problem, nil
}

func addProblemFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("constraint", "c", nil, `Constraint "kind cell..." (repeatable)`)
	cmd.Flags().StringArrayP("set", "s", nil, "Value to inject, name=value (repeatable)")
	cmd.Flags().StringArray("const", nil, "Constant cell, name=value (repeatable)")
	cmd.Flags().StringP("file", "f", "", "Problem file (YAML or JSON) with constraints, values and constants")
}

func addSchedulerFlags(cmd *cobra.Command) {
	cmd.Flags().Int("workers", 1, "Number of concurrent propagator workers")
	cmd.Flags().Int("max-steps", config.DefaultMaxSteps, "Propagator firings allowed per run (0 disables the bound)")
	cmd.Flags().String("policy", string(domain.PolicyFailFast), "Contradiction policy: fail-fast or collect")
}

func init() {
	rootCmd.AddCommand(solveCmd)

	addProblemFlags(solveCmd)
	solveCmd.Flags().StringP("format", "o", string(cli.FormatAuto), "Output format: auto, text, markdown or json")
	solveCmd.Flags().Bool("metrics", false, "Print Prometheus metrics of the run after the solution")
	addSchedulerFlags(solveCmd)
}
