// Package decide implements the branching heuristics: a single Decider
// carries VSIDS, CHB and LRB score tables in parallel so that the restart
// controller (package restart) can switch the active heuristic after a
// restart without losing the scores the inactive heuristics have
// accumulated. Only one priority queue (package pqueue) is live at a time,
// rebuilt from the corresponding score table on a switch.
package decide

import (
	"github.com/msolve/cdcl-sat/internal/sat/lit"
	"github.com/msolve/cdcl-sat/internal/sat/pqueue"
)

// Heuristic names one of the three branching heuristics.
type Heuristic int

const (
	VSIDS Heuristic = iota
	CHB
	LRB
)

func (h Heuristic) String() string {
	switch h {
	case VSIDS:
		return "VSIDS"
	case CHB:
		return "CHB"
	case LRB:
		return "LRB"
	default:
		return "UNKNOWN"
	}
}

// ParseHeuristic parses a CLI-facing heuristic name.
func ParseHeuristic(s string) (Heuristic, bool) {
	switch s {
	case "VSIDS":
		return VSIDS, true
	case "CHB":
		return CHB, true
	case "LRB":
		return LRB, true
	default:
		return 0, false
	}
}

// Decision is the result of a call to Decide: either a variable to branch on
// and the value to try first, or the NONE sentinel when every variable has
// been assigned.
type Decision struct {
	Var   int
	Value bool
	OK    bool
}

// Decider owns the per-variable/per-literal score tables, the phase memory,
// and the single priority queue corresponding to the active heuristic.
type Decider struct {
	current Heuristic
	nVars   int
	active  *pqueue.Queue // keyed by literal for VSIDS, by variable for CHB/LRB

	assignedVar []bool // true once the variable has a value, regardless of heuristic

	// VSIDS state. vsidsScore is indexed by literal.
	vsidsScore []float64
	vsidsIncr  float64

	// CHB state, indexed by variable.
	chbScore      []float64
	chbAlpha      float64
	chbPhase      []bool
	lastConflict  []int64
	numConflicts  int64

	// LRB state, indexed by variable.
	lrbScore      []float64
	lrbAlpha      float64
	lrbPhase      []bool
	learntCounter int64
	assignedAt    []int64 // assigned[v]: LearntCounter value when v was last assigned
	participated  []int64
	reasoned      []int64

	// Ephemeral "plays" scratch set for CHB: the variables to reward on
	// the next CHBUpdate. It never persists beyond the conflict/update pair
	// that produced it and never aliases the trail.
	plays map[int]struct{}
}

const (
	initChbAlpha = 0.4
	initLrbAlpha = 0.4
	minAlpha     = 0.06
	alphaDecay   = 1e-6
	vsidsBump    = 0.75
)

// New constructs a Decider for a problem of nVars variables, seeding the
// VSIDS scores with the literal occurrence counts of the given input
// clauses, and builds the active queue for the initial heuristic.
func New(initial Heuristic, inputClauses [][]lit.Literal, nVars int) *Decider {
	d := &Decider{
		nVars:        nVars,
		assignedVar:  make([]bool, nVars),
		vsidsScore:   make([]float64, 2*nVars),
		vsidsIncr:    1,
		chbScore:     make([]float64, nVars),
		chbAlpha:     initChbAlpha,
		chbPhase:     make([]bool, nVars),
		lastConflict: make([]int64, nVars),
		lrbScore:     make([]float64, nVars),
		lrbAlpha:     initLrbAlpha,
		lrbPhase:     make([]bool, nVars),
		assignedAt:   make([]int64, nVars),
		participated: make([]int64, nVars),
		reasoned:     make([]int64, nVars),
		plays:        make(map[int]struct{}),
	}

	for _, clause := range inputClauses {
		for _, l := range clause {
			d.vsidsScore[l]++
		}
	}

	d.current = initial
	d.active = d.build(initial)
	return d
}

// build constructs a fresh priority queue from h's score table, excluding
// already-assigned keys.
func (d *Decider) build(h Heuristic) *pqueue.Queue {
	switch h {
	case VSIDS:
		scores := make([]float64, len(d.vsidsScore))
		copy(scores, d.vsidsScore)
		q := pqueue.Build(scores)
		for v := 0; v < d.nVars; v++ {
			if d.assignedVar[v] {
				q.Remove(int(lit.PositiveLiteral(v)))
				q.Remove(int(lit.NegativeLiteral(v)))
			}
		}
		return q
	case CHB:
		return d.buildVarQueue(d.chbScore)
	default: // LRB
		return d.buildVarQueue(d.lrbScore)
	}
}

func (d *Decider) buildVarQueue(scores []float64) *pqueue.Queue {
	cp := make([]float64, len(scores))
	copy(cp, scores)
	q := pqueue.Build(cp)
	for v := 0; v < d.nVars; v++ {
		if d.assignedVar[v] {
			q.Remove(v)
		}
	}
	return q
}

// Grow extends the decider's tables to cover nVars variables, preserving
// existing scores.
func (d *Decider) Grow(nVars int) {
	for d.nVars < nVars {
		v := d.nVars
		d.vsidsScore = append(d.vsidsScore, 0, 0)
		d.assignedVar = append(d.assignedVar, false)
		d.chbScore = append(d.chbScore, 0)
		d.chbPhase = append(d.chbPhase, false)
		d.lastConflict = append(d.lastConflict, 0)
		d.lrbScore = append(d.lrbScore, 0)
		d.lrbPhase = append(d.lrbPhase, false)
		d.assignedAt = append(d.assignedAt, 0)
		d.participated = append(d.participated, 0)
		d.reasoned = append(d.reasoned, 0)
		d.nVars++

		d.active.Grow(len(d.vsidsScore))
		switch d.current {
		case VSIDS:
			d.active.Add(int(lit.PositiveLiteral(v)), 0)
			d.active.Add(int(lit.NegativeLiteral(v)), 0)
		default:
			d.active.Add(v, 0)
		}
	}
}

// Current returns the heuristic currently driving Decide.
func (d *Decider) Current() Heuristic {
	return d.current
}

// Decide pops the top candidate from the active queue and returns the
// variable/value pair to branch on.
func (d *Decider) Decide() Decision {
	switch d.current {
	case VSIDS:
		key, ok := d.active.PopMax()
		if !ok {
			return Decision{}
		}
		l := lit.Literal(key)
		v := l.VarID()
		d.active.Remove(int(l.Opposite()))
		d.assignedVar[v] = true
		return Decision{Var: v, Value: l.IsPositive(), OK: true}
	default: // CHB, LRB
		v, ok := d.active.PopMax()
		if !ok {
			return Decision{}
		}
		phase := d.chbPhase
		if d.current == LRB {
			phase = d.lrbPhase
		}
		d.assignedVar[v] = true
		return Decision{Var: v, Value: phase[v], OK: true}
	}
}

// UnaryUpdate withdraws v from the active queue for a level-0 unit-clause
// assignment made before search begins.
func (d *Decider) UnaryUpdate(v int) {
	d.assignedVar[v] = true
	switch d.current {
	case VSIDS:
		d.active.Remove(int(lit.PositiveLiteral(v)))
		d.active.Remove(int(lit.NegativeLiteral(v)))
	default:
		d.active.Remove(v)
	}
}

// BCPUpdate withdraws v from the active queue when it is implied by
// propagation, records its phase and resets its LRB participation
// counters.
func (d *Decider) BCPUpdate(v int, value bool) {
	d.assignedVar[v] = true
	switch d.current {
	case VSIDS:
		d.active.Remove(int(lit.PositiveLiteral(v)))
		d.active.Remove(int(lit.NegativeLiteral(v)))
	default:
		d.active.Remove(v)
	}
	d.chbPhase[v] = value
	d.lrbPhase[v] = value
	d.assignedAt[v] = d.learntCounter
	d.participated[v] = 0
	d.reasoned[v] = 0
}

// ConflictUpdate processes the result of a first-UIP conflict analysis: it
// bumps VSIDS scores for the learned clause's literals, updates CHB's
// lastConflict bookkeeping, decays both CHB's and LRB's alphas, grows the
// VSIDS bump increment, and updates the participated/reasoned counters used
// by LRB.
func (d *Decider) ConflictUpdate(learnedClause []lit.Literal, uipVar int, conflictSide, reasonVars []int) {
	for _, l := range learnedClause {
		d.vsidsScore[l] += d.vsidsIncr
		if d.current == VSIDS {
			d.active.Increase(int(l), d.vsidsIncr)
		}
		d.lastConflict[l.VarID()] = d.numConflicts
	}

	d.numConflicts++
	d.learntCounter++

	d.chbAlpha -= alphaDecay
	if d.chbAlpha < minAlpha {
		d.chbAlpha = minAlpha
	}
	d.lrbAlpha -= alphaDecay
	if d.lrbAlpha < minAlpha {
		d.lrbAlpha = minAlpha
	}

	d.vsidsIncr += vsidsBump

	inLearned := make(map[int]struct{}, len(learnedClause))
	for _, l := range learnedClause {
		inLearned[l.VarID()] = struct{}{}
	}

	seenParticipated := map[int]struct{}{}
	for _, v := range conflictSide {
		seenParticipated[v] = struct{}{}
	}
	for v := range inLearned {
		seenParticipated[v] = struct{}{}
	}
	for v := range seenParticipated {
		d.participated[v]++
	}

	for _, v := range reasonVars {
		if _, ok := inLearned[v]; ok {
			continue
		}
		d.reasoned[v]++
	}

	d.plays = map[int]struct{}{uipVar: {}}
}

// CHBUpdate folds the variables propagated since the last update into the
// CHB "plays" set and rewards every variable in it; the set is then emptied.
func (d *Decider) CHBUpdate(propagatedVars []int, inConflict bool) {
	for _, v := range propagatedVars {
		d.plays[v] = struct{}{}
	}

	m := 0.9
	if inConflict {
		m = 1.0
	}

	for v := range d.plays {
		r := m / float64(d.numConflicts-d.lastConflict[v]+1)
		delta := d.chbAlpha * (r - d.chbScore[v])
		d.chbScore[v] += delta
		if d.current == CHB {
			d.active.Increase(v, delta)
		}
	}
	d.plays = map[int]struct{}{}
}

// BacktrackUpdate re-admits every unassigned variable back into the active
// queue and, for LRB, folds its participation/reason rates into lrbScore.
// restartFlag is accepted for symmetry with the other events but does not
// change the bookkeeping below.
func (d *Decider) BacktrackUpdate(unassignedVars []int, restartFlag bool) {
	_ = restartFlag

	for _, v := range unassignedVars {
		d.assignedVar[v] = false

		switch d.current {
		case VSIDS:
			d.active.Add(int(lit.PositiveLiteral(v)), d.vsidsScore[lit.PositiveLiteral(v)])
			d.active.Add(int(lit.NegativeLiteral(v)), d.vsidsScore[lit.NegativeLiteral(v)])
		case CHB:
			d.active.Add(v, d.chbScore[v])
		case LRB:
			d.active.Add(v, d.lrbScore[v])
		}

		interval := d.learntCounter - d.assignedAt[v]
		if interval > 0 {
			r := float64(d.participated[v]) / float64(interval)
			rsr := float64(d.reasoned[v]) / float64(interval)
			delta := d.lrbAlpha * (r + rsr - d.lrbScore[v])
			d.lrbScore[v] += delta
			if d.current == LRB {
				d.active.Increase(v, delta)
			}
		}
	}
}

// ChangeHeuristic switches the active heuristic, rebuilding the priority
// queue from the new heuristic's score table. It is a no-op if new already
// is the current heuristic.
func (d *Decider) ChangeHeuristic(new Heuristic) {
	if new == d.current {
		return
	}
	d.current = new
	d.active = d.build(new)
}
