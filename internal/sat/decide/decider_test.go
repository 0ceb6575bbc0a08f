package decide

import (
	"testing"

	"github.com/msolve/cdcl-sat/internal/sat/lit"
)

func TestNewSeedsVSIDSFromOccurrenceCounts(t *testing.T) {
	clauses := [][]lit.Literal{
		{lit.PositiveLiteral(0), lit.NegativeLiteral(1)},
		{lit.PositiveLiteral(0), lit.PositiveLiteral(1)},
	}
	d := New(VSIDS, clauses, 2)

	got := d.Decide()
	if !got.OK || got.Var != 0 {
		t.Fatalf("Decide() = %+v, want Var 0 (two occurrences of +0)", got)
	}
}

func TestDecideReturnsNoneWhenEmpty(t *testing.T) {
	d := New(VSIDS, nil, 1)
	d.UnaryUpdate(0)

	got := d.Decide()
	if got.OK {
		t.Fatalf("Decide() = %+v, want OK=false", got)
	}
}

func TestUnaryUpdateRemovesBothPolarities(t *testing.T) {
	d := New(VSIDS, nil, 2)

	d.UnaryUpdate(0)

	got := d.Decide()
	if !got.OK || got.Var != 1 {
		t.Fatalf("Decide() after UnaryUpdate(0) = %+v, want Var 1", got)
	}
}

func TestBCPUpdateWithdrawsVariable(t *testing.T) {
	d := New(CHB, nil, 2)

	d.BCPUpdate(0, true)

	got := d.Decide()
	if !got.OK || got.Var != 1 {
		t.Fatalf("Decide() after BCPUpdate(0) = %+v, want Var 1", got)
	}
}

func TestBacktrackUpdateReinsertsVariable(t *testing.T) {
	d := New(CHB, nil, 2)
	d.BCPUpdate(0, true)

	d.BacktrackUpdate([]int{0}, false)

	seen := map[int]bool{}
	for i := 0; i < 2; i++ {
		dec := d.Decide()
		if !dec.OK {
			t.Fatalf("Decide() #%d not OK after BacktrackUpdate", i)
		}
		seen[dec.Var] = true
	}
	if !seen[0] || !seen[1] {
		t.Fatalf("seen = %v, want both vars reachable again", seen)
	}
}

func TestChangeHeuristicSwitchesActiveQueue(t *testing.T) {
	d := New(VSIDS, nil, 2)

	d.ChangeHeuristic(CHB)
	if d.Current() != CHB {
		t.Fatalf("Current() = %v, want CHB", d.Current())
	}

	got := d.Decide()
	if !got.OK {
		t.Fatalf("Decide() under CHB = %+v, want OK", got)
	}
}

func TestChangeHeuristicToSameIsNoop(t *testing.T) {
	d := New(VSIDS, nil, 2)
	d.UnaryUpdate(0)

	d.ChangeHeuristic(VSIDS)

	got := d.Decide()
	if !got.OK || got.Var != 1 {
		t.Fatalf("Decide() after no-op ChangeHeuristic = %+v, want Var 1", got)
	}
}

func TestConflictUpdateBumpsVSIDSScore(t *testing.T) {
	d := New(VSIDS, nil, 2)

	learned := []lit.Literal{lit.PositiveLiteral(1)}
	d.ConflictUpdate(learned, 1, []int{1}, []int{1})

	got := d.Decide()
	if !got.OK || got.Var != 1 {
		t.Fatalf("Decide() after ConflictUpdate = %+v, want Var 1 (bumped)", got)
	}
}

func TestParseHeuristicRoundTrip(t *testing.T) {
	for _, h := range []Heuristic{VSIDS, CHB, LRB} {
		got, ok := ParseHeuristic(h.String())
		if !ok || got != h {
			t.Errorf("ParseHeuristic(%q) = (%v, %v), want (%v, true)", h.String(), got, ok, h)
		}
	}
	if _, ok := ParseHeuristic("NOPE"); ok {
		t.Errorf("ParseHeuristic(%q) ok = true, want false", "NOPE")
	}
}
