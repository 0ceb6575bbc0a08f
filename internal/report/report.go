// Package report implements the statistics printer: the end-of-run summary
// of search counters and per-phase timings, in a line-oriented
// "c <label>: <value>" format.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/msolve/cdcl-sat/internal/sat"
)

// Report is everything the stats printer needs beyond what the engine
// tracks internally: the input file name, read time, and the result.
type Report struct {
	InputFile string
	ReadTime  time.Duration
	TotalTime time.Duration
	Result    sat.Result
}

const separator = "c ---------------------------------------------------------------------------"

// Write prints the full stats report to w.
func Write(w io.Writer, r Report, stats sat.Stats) {
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "c input file:        %s\n", r.InputFile)
	fmt.Fprintf(w, "c variables:         %d\n", stats.Vars)
	fmt.Fprintf(w, "c original clauses:  %d\n", stats.OriginalClauses)
	fmt.Fprintf(w, "c stored clauses:    %d\n", stats.StoredClauses)
	fmt.Fprintf(w, "c reading time:      %s\n", r.ReadTime)

	if stats.BVERan {
		fmt.Fprintln(w, "c bve:")
		fmt.Fprintf(w, "c   candidates:        %d\n", stats.BVE.CandidatesConsidered)
		fmt.Fprintf(w, "c   vars eliminated:   %d\n", stats.BVE.VariablesEliminated)
		fmt.Fprintf(w, "c   clauses before:    %d\n", stats.BVE.ClausesBefore)
		fmt.Fprintf(w, "c   clauses after:     %d\n", stats.BVE.ClausesAfter)
	}

	fmt.Fprintf(w, "c restarts:          %d\n", stats.Restarts)
	fmt.Fprintf(w, "c learned clauses:   %d\n", stats.LearnedClauses)
	if stats.LearnedClauses > 0 {
		fmt.Fprintf(w, "c avg lbd:           %.2f\n", float64(stats.TotalLBD)/float64(stats.LearnedClauses))
	}
	fmt.Fprintf(w, "c decisions:         %d\n", stats.Decisions)
	fmt.Fprintf(w, "c implications:      %d\n", stats.Implications)
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "c time bcp:          %s\n", stats.BCPTime)
	fmt.Fprintf(w, "c time decide:       %s\n", stats.DecideTime)
	fmt.Fprintf(w, "c time analyze:      %s\n", stats.AnalyzeTime)
	fmt.Fprintf(w, "c time backtrack:    %s\n", stats.BacktrackTime)
	fmt.Fprintf(w, "c total time:        %s\n", r.TotalTime)
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "RESULT %s\n", r.Result)
}
