// Package dimacs parses DIMACS CNF files, yielding the ordered clause
// sequence plus the header's (N, M) declaration. Conversion to any
// particular internal literal encoding is left to the caller.
//
// Parsing is delegated to github.com/rhartert/dimacs's ReadBuilder; input
// files may optionally be gzip-compressed.
package dimacs

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/rhartert/dimacs"
)

// Problem is the parsed content of a DIMACS CNF file: the declared variable
// and clause counts from the header, and the clauses themselves as ordered
// lists of nonzero signed integers.
type Problem struct {
	Vars       int
	NumClauses int // as declared by the header; the engine does not re-verify it
	Clauses    [][]int
}

// Read parses the DIMACS CNF file at path. If gzipped is true the file is
// transparently decompressed first (the -z/--gzip CLI flag).
func Read(path string, gzipped bool) (*Problem, error) {
	rc, err := openFile(path, gzipped)
	if err != nil {
		return nil, fmt.Errorf("dimacs: opening %q: %w", path, err)
	}
	defer rc.Close()

	b := &builder{}
	if err := dimacs.ReadBuilder(rc, b); err != nil {
		return nil, fmt.Errorf("dimacs: parsing %q: %w", path, err)
	}
	if !b.sawHeader {
		return nil, fmt.Errorf("dimacs: %q has no \"p cnf\" header line", path)
	}

	return &Problem{
		Vars:       b.nVars,
		NumClauses: b.nClauses,
		Clauses:    b.clauses,
	}, nil
}

func openFile(path string, gzipped bool) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(f)
	if gzipped {
		gz, err := gzip.NewReader(rc)
		if err != nil {
			f.Close()
			return nil, err
		}
		rc = gz
	}
	return rc, nil
}

// builder implements github.com/rhartert/dimacs's Builder interface,
// accumulating the parsed problem in place rather than feeding a solver
// directly.
type builder struct {
	sawHeader bool
	nVars     int
	nClauses  int
	clauses   [][]int
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("unsupported problem type %q, want \"cnf\"", problem)
	}
	b.sawHeader = true
	b.nVars = nVars
	b.nClauses = nClauses
	b.clauses = make([][]int, 0, nClauses)
	return nil
}

func (b *builder) Clause(lits []int) error {
	for _, l := range lits {
		mag := l
		if mag < 0 {
			mag = -mag
		}
		if mag > b.nVars {
			return fmt.Errorf("literal %d exceeds declared variable count %d", l, b.nVars)
		}
	}
	clause := make([]int, len(lits))
	copy(clause, lits)
	b.clauses = append(b.clauses, clause)
	return nil
}

func (b *builder) Comment(_ string) error {
	return nil
}
