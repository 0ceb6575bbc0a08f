package sat

import (
	"github.com/msolve/cdcl-sat/internal/sat/clausedb"
	"github.com/msolve/cdcl-sat/internal/sat/lit"
)

// explain returns the negated antecedent literals of clauseID: for a
// conflicting clause (conflict == true) every literal is an antecedent;
// for a clause that implied one of its own literals, the implied literal
// (always stored at position 0, see installLearned/propagateOne) is
// excluded.
func (e *Engine) explain(clauseID clausedb.ClauseID, conflict bool) []lit.Literal {
	lits := e.db.Literals(clauseID)
	start := 0
	if !conflict {
		start = 1
	}
	out := make([]lit.Literal, 0, len(lits)-start)
	for _, q := range lits[start:] {
		out = append(out, q.Opposite())
	}
	if e.db.IsLearnt(clauseID) {
		e.db.BumpActivity(clauseID, 1.0)
	}
	return out
}

// analyze performs first-UIP conflict analysis starting from the
// conflicting clause. It returns the learned clause (its
// first literal is the asserting UIP literal), the backjump level, the UIP
// variable, and the two variable sets the Decider's conflict_update event
// needs: conflictSide (every variable at the conflict level met during
// analysis, the UIP variable included) and
// reasonVars (every variable touched during analysis).
func (e *Engine) analyze(conflictClause clausedb.ClauseID) (learned []lit.Literal, backtrackLevel int, uipVar int, conflictSide, reasonVars []int) {
	e.seen.Clear()
	e.tmpLearnt = append(e.tmpLearnt[:0], lit.Literal(-1))

	level := e.tr.Level()
	nextIdx := e.tr.Len() - 1

	curClause := conflictClause
	conflictMode := true
	var l lit.Literal = -1
	nImplicationPoints := 0

	for {
		for _, q := range e.explain(curClause, conflictMode) {
			v := q.VarID()
			if e.seen.Contains(v) {
				continue
			}
			e.seen.Add(v)
			reasonVars = append(reasonVars, v)

			if e.tr.VarLevel(v) == level {
				nImplicationPoints++
				conflictSide = append(conflictSide, v)
				continue
			}

			e.tmpLearnt = append(e.tmpLearnt, q.Opposite())
			if lv := e.tr.VarLevel(v); lv > backtrackLevel {
				backtrackLevel = lv
			}
		}

		var v int
		for {
			node := e.tr.At(nextIdx)
			nextIdx--
			v = node.Var
			if e.seen.Contains(v) {
				l = litOfNode(node)
				curClause = e.tr.Reason(v)
				conflictMode = false
				break
			}
		}
		nImplicationPoints--
		if nImplicationPoints <= 0 {
			break
		}
	}

	e.tmpLearnt[0] = l.Opposite()
	uipVar = l.VarID()
	learned = append([]lit.Literal(nil), e.tmpLearnt...)

	return learned, backtrackLevel, uipVar, conflictSide, reasonVars
}
