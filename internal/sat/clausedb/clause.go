// Package clausedb implements the clause database: a flat arena of clauses
// referenced by stable integer ClauseID rather than by pointer, so that
// reason clauses in the implication graph are plain integers.
package clausedb

import (
	"strings"

	"github.com/msolve/cdcl-sat/internal/sat/lit"
)

// ClauseID is a stable reference to a clause stored in a Database. IDs are
// never reused: once assigned, an ID always designates the same clause for
// the lifetime of the Database, even if the clause is later removed.
type ClauseID int32

// NoClause is the sentinel ClauseID used in place of a reason clause for
// decisions and for level-0 unit facts that have no antecedent.
const NoClause ClauseID = -1

// record is the Database's internal representation of a clause. A clause's
// two watched literals are not tracked separately: they are always
// literals[0] and literals[1], per the watched-literal convention the engine
// maintains by reordering literals in place (see internal/sat/propagate.go).
type record struct {
	literals []lit.Literal
	learnt   bool
	deleted  bool
	activity float64
	lbd      int
}

// Database owns every original and learnt clause of size >= 2. Unit clauses
// are never stored here: the engine turns them directly into level-0
// assignments.
type Database struct {
	records []record
}

// New returns an empty clause database.
func New() *Database {
	return &Database{}
}

// Len returns the number of clause slots ever allocated, including deleted
// ones. Valid ClauseIDs are in [0, Len()).
func (db *Database) Len() int {
	return len(db.records)
}

// Add appends a new clause of size >= 2 and returns its ID. The clause's
// first two literals become its initial watched pair; the caller is
// responsible for choosing an order in which they should be watched (for a
// learnt clause, the asserting literal and the literal at the backtrack
// level).
func (db *Database) Add(literals []lit.Literal, learnt bool) ClauseID {
	lits := make([]lit.Literal, len(literals))
	copy(lits, literals)

	id := ClauseID(len(db.records))
	db.records = append(db.records, record{
		literals: lits,
		learnt:   learnt,
	})
	return id
}

// Literals returns the live literals of clause id. The returned slice is the
// clause's own backing array, not a copy: callers may reorder it in place to
// change which two literals are watched (literals[0] and literals[1]), and
// the change is visible to every subsequent call. The returned slice must
// not be retained past the next mutation of the clause.
func (db *Database) Literals(id ClauseID) []lit.Literal {
	return db.records[id].literals
}

// Watches returns the pair of literals currently watched by clause id:
// always its first two literals.
func (db *Database) Watches(id ClauseID) (lit.Literal, lit.Literal) {
	lits := db.records[id].literals
	return lits[0], lits[1]
}

// IsLearnt reports whether clause id was produced by conflict analysis.
func (db *Database) IsLearnt(id ClauseID) bool {
	return db.records[id].learnt
}

// IsDeleted reports whether clause id has been removed from the database.
func (db *Database) IsDeleted(id ClauseID) bool {
	return db.records[id].deleted
}

// Delete marks a clause as removed. The clause's id remains valid (it will
// never be reused) but its literals are cleared so they can be collected.
func (db *Database) Delete(id ClauseID) {
	db.records[id].deleted = true
	db.records[id].literals = nil
}

// BumpActivity increases the clause's activity score, a measure of how
// often the clause has taken part in a conflict. Tracked for the stats
// report only.
func (db *Database) BumpActivity(id ClauseID, inc float64) {
	db.records[id].activity += inc
}

// Activity returns the clause's current activity score.
func (db *Database) Activity(id ClauseID) float64 {
	return db.records[id].activity
}

// SetLBD records the literal-block distance of a learnt clause.
func (db *Database) SetLBD(id ClauseID, lbd int) {
	db.records[id].lbd = lbd
}

// LBD returns the literal-block distance last recorded for clause id.
func (db *Database) LBD(id ClauseID) int {
	return db.records[id].lbd
}

// literalString renders a clause for diagnostics.
func literalString(lits []lit.Literal) string {
	if len(lits) == 0 {
		return "[]"
	}
	sb := strings.Builder{}
	sb.WriteByte('[')
	sb.WriteString(lits[0].String())
	for _, l := range lits[1:] {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// String renders clause id for diagnostics.
func (db *Database) String(id ClauseID) string {
	return literalString(db.records[id].literals)
}
