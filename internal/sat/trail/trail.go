// Package trail implements the assignment trail: an ordered sequence of
// live assignment nodes plus the per-variable decision-level index, backing
// non-chronological backtracking.
package trail

import (
	"github.com/msolve/cdcl-sat/internal/sat/clausedb"
	"github.com/msolve/cdcl-sat/internal/sat/lit"
)

// AssignNode is one live assignment: a variable, its value, the decision
// level it was assigned at, the id of the clause that forced it (or NoClause
// for a decision or a level-0 unit fact), and its position in the trail.
// Nodes are stored by value in Trail.nodes (an arena, not a pointer graph);
// a reason is referenced by ClauseID.
type AssignNode struct {
	Var        int
	Value      bool
	Level      int
	Reason     clausedb.ClauseID
	TrailIndex int
}

// Trail is the ordered sequence of live assignment nodes together with the
// per-variable lookup needed to answer "is v assigned, and to what" in O(1).
// Invariant: nodes earlier in the trail have level <= nodes later; the
// decision-levels index's k-th element is the trail index at which decision
// level k+1 begins (strictly increasing).
type Trail struct {
	nodes       []AssignNode
	levelStarts []int

	value  []lit.LBool // indexed by variable
	level  []int       // indexed by variable, -1 if unassigned
	reason []clausedb.ClauseID
	atNode []int // indexed by variable, index into nodes, -1 if unassigned
}

// NewTrail returns an empty trail with capacity for nVars variables.
func NewTrail(nVars int) *Trail {
	t := &Trail{}
	t.Grow(nVars)
	return t
}

// Grow extends the trail's per-variable tables to cover nVars variables.
func (t *Trail) Grow(nVars int) {
	for len(t.value) < nVars {
		t.value = append(t.value, lit.Unknown)
		t.level = append(t.level, -1)
		t.reason = append(t.reason, clausedb.NoClause)
		t.atNode = append(t.atNode, -1)
	}
}

// Level returns the current decision level (0 at the root).
func (t *Trail) Level() int {
	return len(t.levelStarts)
}

// Len returns the number of live assignments.
func (t *Trail) Len() int {
	return len(t.nodes)
}

// At returns the node at the given trail index.
func (t *Trail) At(i int) AssignNode {
	return t.nodes[i]
}

// VarValue returns the current lifted-boolean value of variable v.
func (t *Trail) VarValue(v int) lit.LBool {
	return t.value[v]
}

// LitValue returns the current lifted-boolean value of literal l: True if l
// is satisfied, False if l is falsified, Unknown otherwise.
func (t *Trail) LitValue(l lit.Literal) lit.LBool {
	v := t.value[l.VarID()]
	if v == lit.Unknown || l.IsPositive() {
		return v
	}
	return v.Opposite()
}

// VarLevel returns the decision level variable v was assigned at, or -1 if
// unassigned.
func (t *Trail) VarLevel(v int) int {
	return t.level[v]
}

// Reason returns the clause that forced variable v's assignment, or
// NoClause if v is a decision, an unassigned variable, or a level-0 fact
// with no antecedent.
func (t *Trail) Reason(v int) clausedb.ClauseID {
	return t.reason[v]
}

// LevelStart returns the trail index at which decision level (lvl+1) began,
// i.e. the index of the first node strictly above level lvl. It returns
// Len() if lvl is the current level.
func (t *Trail) LevelStart(lvl int) int {
	if lvl >= len(t.levelStarts) {
		return len(t.nodes)
	}
	return t.levelStarts[lvl]
}

// PushDecision records that the current decision level is increasing by one,
// starting at the trail's current length. It must be called before the
// decision literal itself is enqueued.
func (t *Trail) PushDecision() {
	t.levelStarts = append(t.levelStarts, len(t.nodes))
}

// Enqueue assigns literal l to true at the current decision level with the
// given reason clause (NoClause for a decision) and appends the
// corresponding node to the trail. The caller must have already verified
// that l is currently unassigned.
func (t *Trail) Enqueue(l lit.Literal, reason clausedb.ClauseID) {
	v := l.VarID()
	val := l.IsPositive()

	t.value[v] = lit.Lift(val)
	t.level[v] = t.Level()
	t.reason[v] = reason
	t.atNode[v] = len(t.nodes)

	t.nodes = append(t.nodes, AssignNode{
		Var:        v,
		Value:      val,
		Level:      t.Level(),
		Reason:     reason,
		TrailIndex: len(t.nodes),
	})
}

// ShrinkTo truncates the trail to the first n nodes, unassigning every
// variable whose node is being dropped. It does not touch levelStarts; the
// caller is responsible for trimming those via PopLevelsAbove.
func (t *Trail) ShrinkTo(n int) {
	for i := len(t.nodes) - 1; i >= n; i-- {
		v := t.nodes[i].Var
		t.value[v] = lit.Unknown
		t.level[v] = -1
		t.reason[v] = clausedb.NoClause
		t.atNode[v] = -1
	}
	t.nodes = t.nodes[:n]
}

// PopLevelsAbove removes every decision level strictly above lvl from the
// trail, unassigning the corresponding variables, and returns the list of
// variables that were undone in trail order (most recent last).
func (t *Trail) PopLevelsAbove(lvl int) []int {
	if lvl >= t.Level() {
		return nil
	}
	cut := t.levelStarts[lvl]
	undone := make([]int, 0, len(t.nodes)-cut)
	for i := cut; i < len(t.nodes); i++ {
		undone = append(undone, t.nodes[i].Var)
	}
	t.ShrinkTo(cut)
	t.levelStarts = t.levelStarts[:lvl]
	return undone
}
