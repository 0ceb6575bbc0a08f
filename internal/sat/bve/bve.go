// Package bve implements bounded variable elimination, an optional
// preprocessing pass: for each not-yet-assigned variable whose total
// occurrence count is small enough, it replaces the variable's clauses with
// their pairwise resolvents whenever doing so does not grow the clause
// count.
package bve

import "github.com/msolve/cdcl-sat/internal/sat/lit"

// MaxOccurrences is the bound on |S+| + |S-| above which a variable is left
// untouched. Tunable.
const MaxOccurrences = 6

// Stats summarizes what the preprocessor did, for the stats report.
type Stats struct {
	CandidatesConsidered int
	VariablesEliminated  int
	ClausesBefore        int
	ClausesAfter         int
}

// Elimination records one eliminated variable together with the clauses its
// elimination removed (S+ ∪ S-), in elimination order. The solver needs these
// to extend a model of the reduced formula back to one of the original: an
// eliminated variable is unconstrained during search, so its value must be
// fixed afterwards to whatever satisfies the removed clauses (walking the
// eliminations in reverse).
type Elimination struct {
	Var     int
	Clauses [][]lit.Literal
}

// Eliminate runs one bounded-variable-elimination pass over clauses (each a
// list of literals in the engine's internal encoding) for a problem with
// nVars variables. assigned[v] marks variables already fixed at level 0,
// which are never eliminated. It returns the resulting clause set, the
// elimination records needed for model reconstruction, and the run's
// statistics.
func Eliminate(clauses [][]lit.Literal, nVars int, assigned []bool) ([][]lit.Literal, []Elimination, Stats) {
	stats := Stats{ClausesBefore: len(clauses)}
	var eliminations []Elimination

	// touchedBy maps a literal to the set (by index into `clauses`) of
	// remaining clauses containing it. Clauses removed during elimination
	// are flagged dead rather than spliced out, so indices stay stable
	// while we work.
	live := make([]bool, len(clauses))
	touchedBy := make([][]int, 2*nVars)
	for ci, c := range clauses {
		live[ci] = true
		for _, l := range c {
			touchedBy[l] = append(touchedBy[l], ci)
		}
	}

	for v := 0; v < nVars; v++ {
		if assigned != nil && assigned[v] {
			continue
		}

		pos := lit.PositiveLiteral(v)
		neg := lit.NegativeLiteral(v)

		posClauses := liveIndices(touchedBy[pos], live)
		negClauses := liveIndices(touchedBy[neg], live)

		if len(posClauses)+len(negClauses) > MaxOccurrences {
			continue
		}
		if len(posClauses) == 0 && len(negClauses) == 0 {
			continue
		}
		stats.CandidatesConsidered++

		resolvents := make([][]lit.Literal, 0, len(posClauses)*len(negClauses))
		for _, pi := range posClauses {
			for _, ni := range negClauses {
				res, taut := resolve(clauses[pi], clauses[ni], v)
				if taut {
					continue
				}
				resolvents = append(resolvents, res)
			}
		}

		if len(resolvents) > len(posClauses)+len(negClauses) {
			continue // elimination would grow the clause count
		}

		// Commit: drop S+ ∪ S-, insert the resolvents.
		removed := make([][]lit.Literal, 0, len(posClauses)+len(negClauses))
		for _, ci := range posClauses {
			live[ci] = false
			removed = append(removed, clauses[ci])
		}
		for _, ci := range negClauses {
			live[ci] = false
			removed = append(removed, clauses[ci])
		}
		eliminations = append(eliminations, Elimination{Var: v, Clauses: removed})
		stats.VariablesEliminated++

		for _, res := range resolvents {
			ci := len(clauses)
			clauses = append(clauses, res)
			live = append(live, true)
			for _, l := range res {
				touchedBy[l] = append(touchedBy[l], ci)
			}
		}
	}

	out := make([][]lit.Literal, 0, len(clauses))
	for ci, c := range clauses {
		if live[ci] {
			out = append(out, c)
		}
	}
	stats.ClausesAfter = len(out)
	return out, eliminations, stats
}

func liveIndices(idxs []int, live []bool) []int {
	out := idxs[:0:0]
	for _, i := range idxs {
		if live[i] {
			out = append(out, i)
		}
	}
	return out
}

// resolve computes the binary resolvent of c1 and c2 over variable v,
// removing v and ¬v and collapsing duplicates. The second return value is
// true if the resolvent is tautological (contains both a literal and its
// negation) and should be dropped.
func resolve(c1, c2 []lit.Literal, v int) ([]lit.Literal, bool) {
	pos := lit.PositiveLiteral(v)
	neg := lit.NegativeLiteral(v)

	seen := make(map[lit.Literal]bool, len(c1)+len(c2))
	out := make([]lit.Literal, 0, len(c1)+len(c2)-2)

	for _, l := range c1 {
		if l == pos || l == neg {
			continue
		}
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	for _, l := range c2 {
		if l == pos || l == neg {
			continue
		}
		if seen[l.Opposite()] {
			return nil, true
		}
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}

	return out, false
}
