package sat

import (
	"testing"

	"github.com/msolve/cdcl-sat/internal/sat/decide"
	"github.com/msolve/cdcl-sat/internal/sat/lit"
	"github.com/msolve/cdcl-sat/internal/sat/restart"
)

// dimacsClause converts a DIMACS-style 1-based signed clause into the
// engine's internal 0-based literal encoding, the same translation
// internal/cli performs at its boundary.
func dimacsClause(signed ...int) []lit.Literal {
	out := make([]lit.Literal, len(signed))
	for i, n := range signed {
		if n > 0 {
			out[i] = lit.PositiveLiteral(n - 1)
		} else {
			out[i] = lit.NegativeLiteral(-n - 1)
		}
	}
	return out
}

func verifyModel(t *testing.T, clauses [][]lit.Literal, model []bool) {
	t.Helper()
	for _, c := range clauses {
		sat := false
		for _, l := range c {
			v := l.VarID()
			if (l.IsPositive() && model[v]) || (!l.IsPositive() && !model[v]) {
				sat = true
				break
			}
		}
		if !sat {
			t.Fatalf("model %v does not satisfy clause %v", model, c)
		}
	}
}

func allOptions() []Options {
	var opts []Options
	for _, d := range []decide.Heuristic{decide.VSIDS, decide.CHB, decide.LRB} {
		for _, r := range []restart.Policy{restart.Geometric, restart.Luby, restart.NoRestart} {
			opts = append(opts, Options{Decider: d, Restarter: r, RestartBase: 4, UseBVE: false})
		}
	}
	opts = append(opts, Options{Decider: decide.VSIDS, Restarter: restart.Luby, RestartBase: 4, UseBVE: true})
	return opts
}

func runScenario(t *testing.T, clauses [][]lit.Literal, nVars int, want Result) {
	t.Helper()
	for _, opts := range allOptions() {
		e, err := New(clauses, nVars, opts)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		got, model := e.Solve()
		if got != want {
			t.Fatalf("[decider=%v restarter=%v bve=%v] Solve() = %v, want %v", opts.Decider, opts.Restarter, opts.UseBVE, got, want)
		}
		if want == Sat {
			verifyModel(t, clauses, model)
		}
	}
}

func TestSingleUnitClauseIsSat(t *testing.T) {
	clauses := [][]lit.Literal{dimacsClause(1)}
	runScenario(t, clauses, 1, Sat)
}

func TestContradictoryUnitClausesAreUnsat(t *testing.T) {
	clauses := [][]lit.Literal{
		dimacsClause(1),
		dimacsClause(-1),
	}
	runScenario(t, clauses, 1, Unsat)
}

func TestThreeVariableChainIsSat(t *testing.T) {
	clauses := [][]lit.Literal{
		dimacsClause(1, 2),
		dimacsClause(-1, 3),
		dimacsClause(-2, -3),
	}
	runScenario(t, clauses, 3, Sat)
}

func TestTwoVariableXorCycleIsUnsat(t *testing.T) {
	clauses := [][]lit.Literal{
		dimacsClause(1, 2),
		dimacsClause(-1, 2),
		dimacsClause(1, -2),
		dimacsClause(-1, -2),
	}
	runScenario(t, clauses, 2, Unsat)
}

func TestFourVariableImplicationChainIsSat(t *testing.T) {
	clauses := [][]lit.Literal{
		dimacsClause(1, 2),
		dimacsClause(-2, 3),
		dimacsClause(-3, 4),
	}
	runScenario(t, clauses, 4, Sat)
}

// TestPigeonholeThreeIntoTwoIsUnsat encodes PHP(3,2): three pigeons cannot be
// placed into two holes with no hole holding more than one pigeon. Variable
// x(i,j), pigeon i in {1,2,3} and hole j in {1,2}, is numbered (i-1)*2+j.
func TestPigeonholeThreeIntoTwoIsUnsat(t *testing.T) {
	clauses := [][]lit.Literal{
		dimacsClause(1, 2),
		dimacsClause(3, 4),
		dimacsClause(5, 6),

		dimacsClause(-1, -3),
		dimacsClause(-1, -5),
		dimacsClause(-3, -5),

		dimacsClause(-2, -4),
		dimacsClause(-2, -6),
		dimacsClause(-4, -6),
	}
	runScenario(t, clauses, 6, Unsat)
}

// TestRootLevelConflictIsUnsatEvenWhenRestartIsDue drives propagation into a
// conflict at decision level 0 with a restart budget of a single conflict:
// the conflict must still be reported as UNSAT, not swallowed by a restart
// that would tear nothing down.
func TestRootLevelConflictIsUnsatEvenWhenRestartIsDue(t *testing.T) {
	clauses := [][]lit.Literal{
		dimacsClause(1),
		dimacsClause(-2),
		dimacsClause(-1, 2),
	}

	e, err := New(clauses, 2, Options{Decider: decide.VSIDS, Restarter: restart.Luby, RestartBase: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got, _ := e.Solve(); got != Unsat {
		t.Fatalf("Solve() = %v, want Unsat", got)
	}
}

// TestBVEModelCoversEliminatedVariables checks that a model returned after
// preprocessing still satisfies the clauses the preprocessor removed: with
// (1 2) and (-1 -2), variable 1's elimination leaves only a tautological
// resolvent, so the whole formula disappears and variable 1's value must be
// derived from variable 2's rather than picked freely.
func TestBVEModelCoversEliminatedVariables(t *testing.T) {
	clauses := [][]lit.Literal{
		dimacsClause(1, 2),
		dimacsClause(-1, -2),
	}

	for _, d := range []decide.Heuristic{decide.VSIDS, decide.CHB, decide.LRB} {
		e, err := New(clauses, 2, Options{Decider: d, Restarter: restart.Luby, RestartBase: 4, UseBVE: true})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		got, model := e.Solve()
		if got != Sat {
			t.Fatalf("[decider=%v] Solve() = %v, want Sat", d, got)
		}
		verifyModel(t, clauses, model)
	}
}

// TestLearnedClauseStatsTrackLBD exercises clausedb's activity/LBD
// bookkeeping end to end: PHP(3,2) forces at least one learned clause under
// every decider, and each should have been assigned a positive LBD.
func TestLearnedClauseStatsTrackLBD(t *testing.T) {
	clauses := [][]lit.Literal{
		dimacsClause(1, 2),
		dimacsClause(3, 4),
		dimacsClause(5, 6),
		dimacsClause(-1, -3),
		dimacsClause(-1, -5),
		dimacsClause(-3, -5),
		dimacsClause(-2, -4),
		dimacsClause(-2, -6),
		dimacsClause(-4, -6),
	}

	e, err := New(clauses, 6, Options{Decider: decide.VSIDS, Restarter: restart.Luby, RestartBase: 4})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got, _ := e.Solve(); got != Unsat {
		t.Fatalf("Solve() = %v, want Unsat", got)
	}

	stats := e.Stats()
	if stats.LearnedClauses == 0 {
		t.Fatalf("LearnedClauses = 0, want at least one learned clause for PHP(3,2)")
	}
	if stats.TotalLBD == 0 {
		t.Fatalf("TotalLBD = 0, want every learned clause to carry a positive LBD")
	}
}
