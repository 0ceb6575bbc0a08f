// Package sat implements the CDCL search engine: the component that owns
// the clause database, the assignment trail and the watch-lists, and that
// drives Boolean constraint propagation, conflict analysis and
// non-chronological backtracking through the decide/restart/bve
// collaborators.
package sat

import (
	"fmt"
	"time"

	"github.com/msolve/cdcl-sat/internal/sat/bve"
	"github.com/msolve/cdcl-sat/internal/sat/clausedb"
	"github.com/msolve/cdcl-sat/internal/sat/decide"
	"github.com/msolve/cdcl-sat/internal/sat/lit"
	"github.com/msolve/cdcl-sat/internal/sat/restart"
	"github.com/msolve/cdcl-sat/internal/sat/trail"
)

// Result is the outcome of a Solve call.
type Result int

const (
	Unsat Result = iota
	Sat
)

func (r Result) String() string {
	if r == Sat {
		return "SAT"
	}
	return "UNSAT"
}

// Options configures a new Engine.
type Options struct {
	Decider     decide.Heuristic
	Restarter   restart.Policy
	RestartBase float64
	UseBVE      bool
}

// Stats accumulates the search counters described for the stats report.
type Stats struct {
	Vars            int
	OriginalClauses int
	StoredClauses   int
	BVE             bve.Stats
	BVERan          bool
	Restarts        int64
	LearnedClauses  int64
	Decisions       int64
	Implications    int64
	TotalLBD        int64

	BCPTime       time.Duration
	DecideTime    time.Duration
	AnalyzeTime   time.Duration
	BacktrackTime time.Duration
}

// watchEntry is a clause attached to the watch list of a literal, together
// with a guard literal: if the guard is already true the clause does not
// need to be examined.
type watchEntry struct {
	clause clausedb.ClauseID
	guard  lit.Literal
}

// bcpStatus is the three-way result BCP can report.
type bcpStatus int

const (
	bcpNoConflict bcpStatus = iota
	bcpConflict
	bcpRestart
)

// Engine owns every piece of mutable search state and drives the CDCL loop.
type Engine struct {
	nVars int

	db  *clausedb.Database
	tr  *trail.Trail
	dec *decide.Decider
	rst *restart.Restarter

	watchers  [][]watchEntry // indexed by literal
	propagate int            // next trail index BCP has not yet processed

	rootUnsat bool

	seen      *seenSet
	tmpLearnt []lit.Literal
	tmpWatch  []watchEntry

	// bcpVars collects the variables assigned by BCP (propagated, not
	// decided) since the last conflict, feeding the Decider's CHBUpdate
	// event.
	bcpVars []int

	// elims records what BVE removed, in elimination order; buildModel
	// walks them in reverse to give each eliminated variable a value that
	// satisfies the clauses its elimination dropped.
	elims []bve.Elimination

	stats Stats
}

// New builds an Engine for a CNF of nVars variables given as internal
// (0-based, 2v/2v+1) literals. clauses may include unit clauses; they are
// applied as level-0 facts before BVE and before watch-list
// initialization.
func New(clauses [][]lit.Literal, nVars int, opts Options) (*Engine, error) {
	if nVars < 0 {
		return nil, fmt.Errorf("sat: negative variable count %d", nVars)
	}

	e := &Engine{
		nVars:    nVars,
		db:       clausedb.New(),
		tr:       trail.NewTrail(nVars),
		rst:      restart.New(opts.Restarter, opts.RestartBase, opts.Decider),
		watchers: make([][]watchEntry, 2*nVars),
		seen:     newSeenSet(nVars),
		stats: Stats{
			Vars:            nVars,
			OriginalClauses: len(clauses),
		},
	}

	rest, unsat := e.applyUnits(clauses)

	if !unsat && opts.UseBVE {
		assigned := make([]bool, nVars)
		for v := 0; v < nVars; v++ {
			assigned[v] = e.tr.VarLevel(v) == 0
		}
		var stats bve.Stats
		rest, e.elims, stats = bve.Eliminate(rest, nVars, assigned)
		e.stats.BVERan = true
		e.stats.BVE = stats

		rest, unsat = e.applyUnits(rest)
	}

	// The decider is built over the clause database as it stands after unit
	// extraction and BVE, then told about the level-0 facts already on the
	// trail so their variables leave the queue.
	e.dec = decide.New(opts.Decider, rest, nVars)
	for i := 0; i < e.tr.Len(); i++ {
		e.dec.UnaryUpdate(e.tr.At(i).Var)
	}

	if unsat {
		e.rootUnsat = true
		return e, nil
	}

	for _, c := range rest {
		id := e.db.Add(c, false)
		e.addClauseWatches(id)
	}
	e.stats.StoredClauses = e.db.Len()

	return e, nil
}

// applyUnits scans clauses for unit clauses (after dropping those already
// extracted, it also tolerates clauses shrunk to size 0 or 1 by BVE),
// enqueues them as level-0 facts, and returns the clauses of size >= 2
// alongside whether a root-level conflict was detected.
func (e *Engine) applyUnits(clauses [][]lit.Literal) ([][]lit.Literal, bool) {
	rest := make([][]lit.Literal, 0, len(clauses))
	for _, c := range clauses {
		switch len(c) {
		case 0:
			return nil, true
		case 1:
			l := c[0]
			switch e.tr.LitValue(l) {
			case lit.False:
				return nil, true
			case lit.True:
				// already implied, duplicate unit clause.
			default:
				e.tr.Enqueue(l, clausedb.NoClause)
			}
		default:
			rest = append(rest, c)
		}
	}
	return rest, false
}

func (e *Engine) watch(id clausedb.ClauseID, triggerLit, guard lit.Literal) {
	e.watchers[triggerLit] = append(e.watchers[triggerLit], watchEntry{clause: id, guard: guard})
}

func (e *Engine) addClauseWatches(id clausedb.ClauseID) {
	lits := e.db.Literals(id)
	e.watch(id, lits[0].Opposite(), lits[1])
	e.watch(id, lits[1].Opposite(), lits[0])
}

// Solve runs the main CDCL loop to completion and returns the result, and
// for SAT a model indexed by variable.
func (e *Engine) Solve() (Result, []bool) {
	if e.rootUnsat {
		return Unsat, nil
	}

	for {
		t0 := time.Now()
		status, confl := e.propagateAll()
		e.stats.BCPTime += time.Since(t0)

		switch status {
		case bcpNoConflict:
			if e.tr.Len() == e.nVars {
				return Sat, e.buildModel()
			}
			t0 := time.Now()
			d := e.dec.Decide()
			if !d.OK {
				return Sat, e.buildModel()
			}
			e.tr.PushDecision()
			e.tr.Enqueue(decisionLiteral(d), clausedb.NoClause)
			e.rst.NoteDecision(d.Var)
			e.stats.Decisions++
			e.stats.DecideTime += time.Since(t0)

		case bcpConflict:
			if e.tr.Level() == 0 {
				return Unsat, nil
			}
			e.handleConflict(confl)

		case bcpRestart:
			t0 := time.Now()
			e.handleRestart()
			e.stats.BacktrackTime += time.Since(t0)
		}
	}
}

func decisionLiteral(d decide.Decision) lit.Literal {
	if d.Value {
		return lit.PositiveLiteral(d.Var)
	}
	return lit.NegativeLiteral(d.Var)
}

func litOfNode(n trail.AssignNode) lit.Literal {
	if n.Value {
		return lit.PositiveLiteral(n.Var)
	}
	return lit.NegativeLiteral(n.Var)
}

func (e *Engine) handleConflict(confl clausedb.ClauseID) {
	t0 := time.Now()
	learned, backtrackLevel, uipVar, conflictSide, reasonVars := e.analyze(confl)
	e.stats.AnalyzeTime += time.Since(t0)

	t0 = time.Now()
	undone := e.tr.PopLevelsAbove(backtrackLevel)
	e.propagate = e.tr.Len()
	e.dec.BacktrackUpdate(undone, false)

	e.installLearned(learned)
	e.dec.ConflictUpdate(learned, uipVar, conflictSide, reasonVars)
	e.rewardCHB(conflictSide)
	e.stats.BacktrackTime += time.Since(t0)
}

// rewardCHB feeds the Decider's CHBUpdate event for the interval that just
// ended at a conflict: variables on the conflict side are rewarded with the
// "in conflict" multiplier, every other variable BCP propagated since the
// previous conflict gets the lower one. bcpVars is reset for the next
// interval.
func (e *Engine) rewardCHB(conflictSide []int) {
	onConflictSide := make(map[int]struct{}, len(conflictSide))
	for _, v := range conflictSide {
		onConflictSide[v] = struct{}{}
	}

	var other []int
	for _, v := range e.bcpVars {
		if _, ok := onConflictSide[v]; !ok {
			other = append(other, v)
		}
	}

	e.dec.CHBUpdate(conflictSide, true)
	e.dec.CHBUpdate(other, false)
	e.bcpVars = e.bcpVars[:0]
}

func (e *Engine) handleRestart() {
	undone := e.tr.PopLevelsAbove(0)
	e.propagate = e.tr.Len()
	e.dec.BacktrackUpdate(undone, true)

	h := e.rst.Choose()
	e.dec.ChangeHeuristic(h)
	e.stats.Restarts++
}

// installLearned adds the learned clause to the database (skipped for unit
// clauses) and enqueues its asserting literal at the current (post-backjump)
// decision level.
func (e *Engine) installLearned(learned []lit.Literal) {
	if len(learned) == 1 {
		e.tr.Enqueue(learned[0], clausedb.NoClause)
		e.dec.BCPUpdate(learned[0].VarID(), learned[0].IsPositive())
		e.bcpVars = append(e.bcpVars, learned[0].VarID())
		e.stats.Implications++
		return
	}

	maxLevel, idx := -1, 1
	for i := 1; i < len(learned); i++ {
		if lv := e.tr.VarLevel(learned[i].VarID()); lv > maxLevel {
			maxLevel = lv
			idx = i
		}
	}
	learned[1], learned[idx] = learned[idx], learned[1]

	id := e.db.Add(learned, true)
	e.addClauseWatches(id)
	e.db.SetLBD(id, e.lbd(learned))
	e.stats.LearnedClauses++
	e.stats.TotalLBD += int64(e.db.LBD(id))
	e.stats.StoredClauses = e.db.Len()

	e.tr.Enqueue(learned[0], id)
	e.dec.BCPUpdate(learned[0].VarID(), learned[0].IsPositive())
	e.bcpVars = append(e.bcpVars, learned[0].VarID())
	e.stats.Implications++
}

// lbd computes a learnt clause's literal-block distance: the number of
// distinct decision levels among its literals. Tracked for the stats report
// only; no clause deletion policy consumes it here.
func (e *Engine) lbd(lits []lit.Literal) int {
	levels := make(map[int]struct{}, len(lits))
	for _, l := range lits {
		if lv := e.tr.VarLevel(l.VarID()); lv > 0 {
			levels[lv] = struct{}{}
		}
	}
	return len(levels)
}

func (e *Engine) buildModel() []bool {
	model := make([]bool, e.nVars)
	for v := 0; v < e.nVars; v++ {
		model[v] = e.tr.VarValue(v) == lit.True
	}

	// Variables eliminated by BVE are unconstrained during search; walking
	// the eliminations in reverse, fix each one to the value that satisfies
	// the clauses its elimination removed. False covers every clause where
	// the variable appears negated; a clause left unsatisfied can only be a
	// positive occurrence, forcing true.
	for i := len(e.elims) - 1; i >= 0; i-- {
		el := e.elims[i]
		model[el.Var] = false
		for _, c := range el.Clauses {
			if !clauseTrue(c, model) {
				model[el.Var] = true
				break
			}
		}
	}
	return model
}

func clauseTrue(c []lit.Literal, model []bool) bool {
	for _, l := range c {
		if model[l.VarID()] == l.IsPositive() {
			return true
		}
	}
	return false
}

// Stats returns a snapshot of the engine's search counters.
func (e *Engine) Stats() Stats {
	return e.stats
}
