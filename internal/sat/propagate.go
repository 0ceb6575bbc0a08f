package sat

import (
	"github.com/msolve/cdcl-sat/internal/sat/clausedb"
	"github.com/msolve/cdcl-sat/internal/sat/lit"
)

// propagateAll runs Boolean constraint propagation from the first
// unprocessed trail node onward: the first pass sweeps the trail from index
// 0, later passes resume from wherever the previous one stopped. The trail
// itself doubles as the propagation queue, since it already holds the
// assignments in propagation order.
func (e *Engine) propagateAll() (bcpStatus, clausedb.ClauseID) {
	for e.propagate < e.tr.Len() {
		node := e.tr.At(e.propagate)
		e.propagate++
		l := litOfNode(node)

		e.tmpWatch = append(e.tmpWatch[:0], e.watchers[l]...)
		e.watchers[l] = e.watchers[l][:0]

		for i := 0; i < len(e.tmpWatch); i++ {
			w := e.tmpWatch[i]

			if e.tr.LitValue(w.guard) == lit.True {
				e.watchers[l] = append(e.watchers[l], w)
				continue
			}

			status, confl := e.propagateOne(w, l, i)
			if status != bcpNoConflict {
				return status, confl
			}
		}
	}
	return bcpNoConflict, clausedb.NoClause
}

// propagateOne handles a single watcher entry whose guard is not
// (currently) satisfied: it looks for a new literal to watch in place of l,
// and failing that either enqueues the clause's other watch as an
// implication or reports a conflict. i is this entry's index in the
// in-flight snapshot e.tmpWatch, needed to re-queue the remaining
// unprocessed snapshot entries on conflict.
func (e *Engine) propagateOne(w watchEntry, l lit.Literal, i int) (bcpStatus, clausedb.ClauseID) {
	lits := e.db.Literals(w.clause)

	// Make lits[1] the literal that was just falsified, so lits[0] is
	// always the candidate to become the asserting literal.
	if lits[0] == l.Opposite() {
		lits[0], lits[1] = lits[1], lits[0]
	}

	if e.tr.LitValue(lits[0]) == lit.True {
		e.watch(w.clause, l, lits[0])
		return bcpNoConflict, clausedb.NoClause
	}

	for j := 2; j < len(lits); j++ {
		if e.tr.LitValue(lits[j]) != lit.False {
			lits[1], lits[j] = lits[j], lits[1]
			e.watch(w.clause, lits[1].Opposite(), lits[0])
			return bcpNoConflict, clausedb.NoClause
		}
	}

	// No replacement: the clause keeps watching l.
	e.watchers[l] = append(e.watchers[l], watchEntry{clause: w.clause, guard: lits[0]})

	if e.tr.LitValue(lits[0]) == lit.False {
		e.watchers[l] = append(e.watchers[l], e.tmpWatch[i+1:]...)
		// A conflict at level 0 ends the search; turning it into a
		// restart would tear nothing down and leave it undetected.
		if e.tr.Level() > 0 {
			e.rst.IncreConflict()
			if e.rst.GetRestartFlag() {
				return bcpRestart, clausedb.NoClause
			}
		}
		return bcpConflict, w.clause
	}

	e.tr.Enqueue(lits[0], w.clause)
	e.dec.BCPUpdate(lits[0].VarID(), lits[0].IsPositive())
	e.bcpVars = append(e.bcpVars, lits[0].VarID())
	e.stats.Implications++
	return bcpNoConflict, clausedb.NoClause
}
