package dimacs

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeTempCNF(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "problem.cnf")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestReadParsesClausesInOrder(t *testing.T) {
	path := writeTempCNF(t, "c a comment\np cnf 3 2\n1 -2 0\n2 3 0\n")

	got, err := Read(path, false)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	want := &Problem{
		Vars:       3,
		NumClauses: 2,
		Clauses:    [][]int{{1, -2}, {2, 3}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Read() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadRejectsMissingHeader(t *testing.T) {
	path := writeTempCNF(t, "1 2 0\n")

	if _, err := Read(path, false); err == nil {
		t.Fatalf("Read() error = nil, want an error for a missing header")
	}
}

func TestReadRejectsOutOfRangeLiteral(t *testing.T) {
	path := writeTempCNF(t, "p cnf 2 1\n5 0\n")

	if _, err := Read(path, false); err == nil {
		t.Fatalf("Read() error = nil, want an error for a literal exceeding the declared variable count")
	}
}

func TestReadGzippedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "problem.cnf.gz")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte("p cnf 1 1\n1 0\n")); err != nil {
		t.Fatalf("gzip Write() error = %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip Close() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	got, err := Read(path, true)
	if err != nil {
		t.Fatalf("Read(gzipped) error = %v", err)
	}
	want := &Problem{Vars: 1, NumClauses: 1, Clauses: [][]int{{1}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Read(gzipped) mismatch (-want +got):\n%s", diff)
	}
}
