// Package verify implements the post-hoc solution verifier: it consumes
// the solver's final variable→bool model and the original (pre-BVE) clause
// set and reports whether every clause is satisfied. It is a plain re-check
// over signed DIMACS-style literals, independent of the engine's own
// internal encoding, so that a bug in the engine's watch bookkeeping cannot
// also hide in the verifier.
package verify

// Model checks that every clause in clauses (each a list of nonzero signed
// 1-based literals, as read from DIMACS) contains at least one literal true
// under model (indexed by 0-based variable id).
func Model(clauses [][]int, model []bool) bool {
	for _, clause := range clauses {
		if !clauseSatisfied(clause, model) {
			return false
		}
	}
	return true
}

func clauseSatisfied(clause []int, model []bool) bool {
	for _, l := range clause {
		v := l
		want := true
		if v < 0 {
			v = -v
			want = false
		}
		idx := v - 1
		if idx < 0 || idx >= len(model) {
			continue
		}
		if model[idx] == want {
			return true
		}
	}
	return false
}
