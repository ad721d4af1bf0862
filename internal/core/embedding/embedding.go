// Package embedding maps tokens to dense vectors and memoizes the lookups
package embedding

import (
	perr "satd/internal/platform/errors"
)

// Vector is a dense token embedding. Vectors handed out by a Space or Provider are
// shared and must be treated as read-only
type Vector []float32

// Matrix is one Vector per position of a fixed sequence, L rows of D columns
type Matrix []Vector

// Shape returns (rows, cols); cols is taken from the first row
func (m Matrix) Shape() (int, int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m), len(m[0])
}

// Flatten copies the matrix into one row-major slice, the layout model runtimes expect
func (m Matrix) Flatten() []float32 {
	rows, cols := m.Shape()
	out := make([]float32, 0, rows*cols)
	for _, r := range m {
		out = append(out, r...)
	}
	return out
}

// Space is a token-to-vector mapping of fixed dimension. Lookup is total: tokens
// outside the vocabulary resolve to the space's fallback vector
type Space interface {
	Lookup(token string) Vector
	Dim() int
}

// Table is an in-memory Space. Unknown tokens resolve to a shared zero vector
type Table struct {
	dim  int
	rows map[string]Vector
	zero Vector
}

// NewTable returns an empty table of dimension dim
func NewTable(dim int) (*Table, error) {
	if dim <= 0 {
		return nil, perr.ConfigMismatchf("embedding dimension must be positive, got %d", dim)
	}
	return &Table{dim: dim, rows: make(map[string]Vector), zero: make(Vector, dim)}, nil
}

// Set stores v for token, replacing any earlier row. The vector is kept as given
func (t *Table) Set(token string, v Vector) error {
	if len(v) != t.dim {
		return perr.ConfigMismatchf("vector for %q has %d components, table dimension is %d", token, len(v), t.dim)
	}
	t.rows[token] = v
	return nil
}

// Lookup implements Space
func (t *Table) Lookup(token string) Vector {
	if v, ok := t.rows[token]; ok {
		return v
	}
	return t.zero
}

// Has reports whether token has its own row
func (t *Table) Has(token string) bool {
	_, ok := t.rows[token]
	return ok
}

// Dim implements Space
func (t *Table) Dim() int { return t.dim }

// Len is the vocabulary size
func (t *Table) Len() int { return len(t.rows) }

// Each calls fn for every stored row, in no particular order
func (t *Table) Each(fn func(token string, v Vector)) {
	for tok, v := range t.rows {
		fn(tok, v)
	}
}
