// Package restart implements the restart controller: a conflict counter
// that triggers restarts on a Luby or geometric schedule, and a UCB1 bandit
// that picks the next branching heuristic after each restart.
package restart

import (
	"math"

	"github.com/msolve/cdcl-sat/internal/sat/decide"
	"github.com/msolve/cdcl-sat/internal/sat/luby"
)

// Policy names a restart schedule.
type Policy int

const (
	Geometric Policy = iota
	Luby
	NoRestart
)

// ParsePolicy parses a CLI-facing restart policy name.
func ParsePolicy(s string) (Policy, bool) {
	switch s {
	case "GEOMETRIC":
		return Geometric, true
	case "LUBY":
		return Luby, true
	case "NO_RESTART":
		return NoRestart, true
	default:
		return 0, false
	}
}

// numArms is the number of heuristics the bandit chooses between.
const numArms = 3

// arms lists the bandit's arms in a fixed order: LRB, CHB, VSIDS.
var arms = [numArms]decide.Heuristic{decide.LRB, decide.CHB, decide.VSIDS}

func armIndex(h decide.Heuristic) int {
	for i, a := range arms {
		if a == h {
			return i
		}
	}
	panic("restart: unknown heuristic")
}

// Restarter counts conflicts, decides when to restart, and chooses the next
// heuristic via UCB1 when it does.
type Restarter struct {
	policy   Policy
	disabled bool

	base          float64
	conflictCount int64
	conflictLimit int64
	luby          *luby.Generator

	// Bandit state, indexed in the order of `arms`.
	counts         [numArms]int64
	expectedReward [numArms]float64
	lastArm        int
	numRestarts    int64

	// Interval bookkeeping for the reward computed at the next choose().
	decisions   int64
	decidedVars map[int]struct{}
}

// New returns a Restarter configured with the given policy, base, and the
// heuristic the search starts with (used to seed lastArm so the first
// restart's reward, if any, attributes to the initial heuristic).
func New(policy Policy, base float64, initial decide.Heuristic) *Restarter {
	r := &Restarter{
		policy:      policy,
		disabled:    policy == NoRestart,
		base:        base,
		lastArm:     armIndex(initial),
		decidedVars: make(map[int]struct{}),
	}

	switch policy {
	case Geometric:
		r.conflictLimit = int64(base)
	case Luby:
		r.luby = luby.New(base)
		r.conflictLimit = r.luby.Next()
	}

	return r
}

// IncreConflict increments the conflict counter. It is a no-op when restarts
// are disabled.
func (r *Restarter) IncreConflict() {
	if r.disabled {
		return
	}
	r.conflictCount++
}

// NoteDecision records that a decision was made on variable v, feeding the
// interval-reward computation used by the next Choose.
func (r *Restarter) NoteDecision(v int) {
	r.decisions++
	r.decidedVars[v] = struct{}{}
}

// GetRestartFlag reports whether a restart should fire now. If it does, the
// conflict counter is reset and the limit is advanced per the policy.
func (r *Restarter) GetRestartFlag() bool {
	if r.disabled {
		return false
	}
	if r.conflictCount < r.conflictLimit {
		return false
	}

	r.conflictCount = 0
	switch r.policy {
	case Geometric:
		r.conflictLimit *= 2
	case Luby:
		r.conflictLimit = r.luby.Next()
	}
	return true
}

// Choose is called when a restart fires. It updates the bandit with the
// reward earned over the interval that just ended, picks the next arm via
// UCB1, and returns its heuristic. If no decisions were made during the
// interval (only possible before the very first restart fires), the reward
// is undefined and the bandit update is skipped, keeping the previous arm.
func (r *Restarter) Choose() decide.Heuristic {
	r.numRestarts++

	if len(r.decidedVars) == 0 {
		return arms[r.lastArm]
	}

	reward := math.Log2(float64(r.decisions)) / float64(len(r.decidedVars))
	r.decisions = 0
	r.decidedVars = make(map[int]struct{})

	a := r.lastArm
	r.counts[a]++
	r.expectedReward[a] += (1.0 / float64(r.counts[a])) * (reward - r.expectedReward[a])

	best := 0
	bestScore := math.Inf(-1)
	for i := 0; i < numArms; i++ {
		ucb := r.expectedReward[i] + math.Sqrt(4*math.Log(float64(r.numRestarts+1)/float64(r.counts[i]+1)))
		if ucb > bestScore {
			bestScore = ucb
			best = i
		}
	}

	r.lastArm = best
	return arms[best]
}
