// Package cli implements the command-line surface, wiring the DIMACS
// reader, the SAT engine, the assignment writer, the verifier and the stats
// report together. The long/short flag pairs (e.g. -i/--input_file) are
// built with github.com/spf13/cobra and github.com/spf13/pflag; the
// standard library flag package cannot express long/short aliases for a
// single flag.
package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/msolve/cdcl-sat/internal/assignment"
	"github.com/msolve/cdcl-sat/internal/dimacs"
	"github.com/msolve/cdcl-sat/internal/report"
	"github.com/msolve/cdcl-sat/internal/sat"
	"github.com/msolve/cdcl-sat/internal/sat/decide"
	"github.com/msolve/cdcl-sat/internal/sat/lit"
	"github.com/msolve/cdcl-sat/internal/sat/restart"
	"github.com/msolve/cdcl-sat/internal/verify"
)

// defaultRestartBase is the conflict budget a restart policy starts from.
const defaultRestartBase = 100

// config holds the resolved command-line flags.
type config struct {
	inputFile string
	gzipped   bool
	decider   string
	restarter string
	bve       string
	test      string
}

// boolFlag parses a "True"/"False" flag value, case insensitively, rather
// than Go's idiomatic bare --flag/--flag=false forms.
func boolFlag(name, s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("invalid value %q for --%s: want True or False", s, name)
	}
}

// NewRootCommand builds the cdcl-sat root command.
func NewRootCommand() *cobra.Command {
	cfg := &config{}

	cmd := &cobra.Command{
		Use:   "cdcl-sat",
		Short: "A conflict-driven clause learning SAT solver",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), cfg)
		},
	}

	bindFlags(cmd.Flags(), cfg)
	cmd.MarkFlagRequired("input_file")

	return cmd
}

func bindFlags(flags *pflag.FlagSet, cfg *config) {
	flags.StringVarP(&cfg.inputFile, "input_file", "i", "", "path to a DIMACS CNF file (required)")
	flags.StringVarP(&cfg.decider, "decider", "d", decide.VSIDS.String(), "branching heuristic: VSIDS|CHB|LRB")
	flags.StringVarP(&cfg.restarter, "restarter", "r", "LUBY", "restart policy: GEOMETRIC|LUBY|NO_RESTART")
	flags.StringVarP(&cfg.bve, "bve", "b", "False", "run bounded variable elimination: True|False")
	flags.StringVarP(&cfg.test, "test", "t", "True", "verify the solution against the original clauses: True|False")
	flags.BoolVarP(&cfg.gzipped, "gzip", "z", false, "the input file is gzip-compressed")
}

func run(w io.Writer, cfg *config) error {
	decider, ok := decide.ParseHeuristic(strings.ToUpper(cfg.decider))
	if !ok {
		return fmt.Errorf("unknown decider %q", cfg.decider)
	}
	policy, ok := restart.ParsePolicy(strings.ToUpper(cfg.restarter))
	if !ok {
		return fmt.Errorf("unknown restarter %q", cfg.restarter)
	}
	useBVE, err := boolFlag("bve", cfg.bve)
	if err != nil {
		return err
	}
	doTest, err := boolFlag("test", cfg.test)
	if err != nil {
		return err
	}

	readStart := time.Now()
	problem, err := dimacs.Read(cfg.inputFile, cfg.gzipped)
	if err != nil {
		return err
	}
	readTime := time.Since(readStart)

	clauses := make([][]lit.Literal, len(problem.Clauses))
	for i, c := range problem.Clauses {
		clauses[i] = toInternalClause(c)
	}

	engine, err := sat.New(clauses, problem.Vars, sat.Options{
		Decider:     decider,
		Restarter:   policy,
		RestartBase: defaultRestartBase,
		UseBVE:      useBVE,
	})
	if err != nil {
		return err
	}

	solveStart := time.Now()
	result, model := engine.Solve()
	totalTime := time.Since(solveStart) + readTime

	report.Write(w, report.Report{
		InputFile: cfg.inputFile,
		ReadTime:  readTime,
		TotalTime: totalTime,
		Result:    result,
	}, engine.Stats())

	if result != sat.Sat {
		return nil
	}

	if doTest && !verify.Model(problem.Clauses, model) {
		return fmt.Errorf("internal error: solver returned a model that does not satisfy the input")
	}

	outPath := assignmentPath(cfg.inputFile)
	if err := assignment.Write(outPath, model); err != nil {
		return err
	}
	fmt.Fprintf(w, "c assignment written to %s\n", outPath)
	return nil
}

func toInternalClause(signed []int) []lit.Literal {
	out := make([]lit.Literal, len(signed))
	for i, l := range signed {
		if l > 0 {
			out[i] = lit.PositiveLiteral(l - 1)
		} else {
			out[i] = lit.NegativeLiteral(-l - 1)
		}
	}
	return out
}

func assignmentPath(inputFile string) string {
	return inputFile + ".models"
}
