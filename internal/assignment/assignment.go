// Package assignment implements the satisfying-assignment file writer:
// given a model indexed by internal (0-based) variable id, it serializes it
// as a DIMACS-style one-line, space-separated, zero-terminated list of
// signed 1-based literals.
package assignment

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Write serializes model (indexed by 0-based variable id, true meaning the
// variable is assigned true) to path, one signed literal per variable in
// increasing variable order, terminated by a trailing 0, e.g. "1 -2 3 0".
func Write(path string, model []bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("assignment: creating %q: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := WriteTo(w, model); err != nil {
		return err
	}
	return w.Flush()
}

// WriteTo writes model to w in the same format as Write.
func WriteTo(w io.Writer, model []bool) error {
	for v, val := range model {
		lit := v + 1
		if !val {
			lit = -lit
		}
		if _, err := fmt.Fprintf(w, "%d ", lit); err != nil {
			return fmt.Errorf("assignment: writing model: %w", err)
		}
	}
	_, err := fmt.Fprintln(w, "0")
	if err != nil {
		return fmt.Errorf("assignment: writing model: %w", err)
	}
	return nil
}
