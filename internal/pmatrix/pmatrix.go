// Package pmatrix provides the square, polynomial-valued matrix that backs
// a Relation (spec §3/§4.4): row index is the dependency source variable,
// column index the destination, and each cell is a normalized Polynomial.
//
// Matrix mirrors the teacher library's Dense row-major flat-slice layout:
// cells are stored in a single slice of length n*n rather than a slice of
// slices, for cache-friendly iteration during Product and Fixpoint.
package pmatrix

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/mwpflow/internal/monomial"
	"github.com/katalvlaran/mwpflow/internal/polynomial"
	"github.com/katalvlaran/mwpflow/internal/scalar"
)

// ErrInvalidDimensions indicates a non-positive matrix size was requested.
var ErrInvalidDimensions = errors.New("pmatrix: dimensions must be > 0")

// ErrIndexOutOfBounds indicates a row or column index outside [0,n).
var ErrIndexOutOfBounds = errors.New("pmatrix: index out of bounds")

// ErrDimensionMismatch indicates an operation was given operands of
// incompatible size (e.g. Sum/Product on differently-sized matrices).
var ErrDimensionMismatch = errors.New("pmatrix: dimension mismatch")

// ErrFixpointDivergence indicates Fixpoint exceeded its iteration cap
// without converging — spec §9's guard against an algebra bug producing a
// non-terminating iteration.
var ErrFixpointDivergence = errors.New("pmatrix: fixpoint did not converge within iteration cap")

// matrixErrorf wraps an underlying error with method context, in the
// teacher's denseErrorf/matrixErrorf style.
func matrixErrorf(method string, err error) error {
	return fmt.Errorf("pmatrix.%s: %w", method, err)
}

// Matrix is a square n×n array of normalized Polynomials, row-major.
type Matrix struct {
	n     int
	cells []polynomial.Polynomial
}

// New allocates an n×n zero matrix (every cell polynomial.Zero).
// Complexity: O(n^2).
func New(n int) (Matrix, error) {
	if n <= 0 {
		return Matrix{}, matrixErrorf("New", ErrInvalidDimensions)
	}

	return Matrix{n: n, cells: make([]polynomial.Polynomial, n*n)}, nil
}

// Identity returns the n×n identity matrix: m on the diagonal, 0 elsewhere
// (spec §3).
// Complexity: O(n^2).
func Identity(n int) (Matrix, error) {
	mat, err := New(n)
	if err != nil {
		return Matrix{}, matrixErrorf("Identity", err)
	}
	mCoeff := polynomial.FromScalar(scalar.M)
	for i := 0; i < n; i++ {
		mat.cells[mat.index(i, i)] = mCoeff
	}

	return mat, nil
}

// N returns the matrix dimension.
func (m Matrix) N() int {
	return m.n
}

func (m Matrix) index(row, col int) int {
	return row*m.n + col
}

// At retrieves the polynomial at (row,col).
// Complexity: O(1).
func (m Matrix) At(row, col int) (polynomial.Polynomial, error) {
	if row < 0 || row >= m.n || col < 0 || col >= m.n {
		return polynomial.Zero, matrixErrorf("At", ErrIndexOutOfBounds)
	}

	return m.cells[m.index(row, col)], nil
}

// Set assigns the polynomial at (row,col); Matrix values are otherwise
// treated as immutable once handed to composition code, so Set is intended
// for use during construction only.
// Complexity: O(1).
func (m Matrix) Set(row, col int, p polynomial.Polynomial) error {
	if row < 0 || row >= m.n || col < 0 || col >= m.n {
		return matrixErrorf("Set", ErrIndexOutOfBounds)
	}
	m.cells[m.index(row, col)] = p

	return nil
}

// Clone returns a deep copy (Polynomial values are themselves immutable, so
// this only needs to copy the backing slice).
func (m Matrix) Clone() Matrix {
	out := make([]polynomial.Polynomial, len(m.cells))
	copy(out, m.cells)

	return Matrix{n: m.n, cells: out}
}

// Sum returns the elementwise polynomial sum a+b (spec §4.4).
// Complexity: O(n^2) polynomial additions.
func Sum(a, b Matrix) (Matrix, error) {
	if a.n != b.n {
		return Matrix{}, matrixErrorf("Sum", ErrDimensionMismatch)
	}
	out, _ := New(a.n)
	for i := range a.cells {
		out.cells[i] = polynomial.Add(a.cells[i], b.cells[i])
	}

	return out, nil
}

// Product returns the matrix product a*b under polynomial add/mul
// (spec §4.4). Row index of the result denotes a's source variable,
// column index b's target variable.
// Complexity: O(n^3) polynomial multiplications (each itself polynomial in
// term count; see package polynomial for the per-cell cost).
func Product(a, b Matrix) (Matrix, error) {
	if a.n != b.n {
		return Matrix{}, matrixErrorf("Product", ErrDimensionMismatch)
	}
	n := a.n
	out, _ := New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			acc := polynomial.Zero
			for k := 0; k < n; k++ {
				term := polynomial.Mul(a.cells[a.index(i, k)], b.cells[b.index(k, j)])
				acc = polynomial.Add(acc, term)
			}
			out.cells[out.index(i, j)] = acc
		}
	}

	return out, nil
}

// Equals reports elementwise polynomial equality (spec §4.4), the test used
// by Fixpoint to detect convergence.
// Complexity: O(n^2).
func Equals(a, b Matrix) bool {
	if a.n != b.n {
		return false
	}
	for i := range a.cells {
		if !a.cells[i].Equal(b.cells[i]) {
			return false
		}
	}

	return true
}

// IndexMapping gives, for a Resize call, the destination row/column each
// source row/column maps to in the enlarged matrix.
type IndexMapping []int

// Resize embeds a into an n'×n' matrix using mapping (mapping[i] gives the
// destination index of source index i). Positions not covered by mapping
// get m on the diagonal and 0 off-diagonal — homogenization (spec §4.4,
// §4.5).
// Complexity: O(n'^2 + n^2).
func Resize(a Matrix, newN int, mapping IndexMapping) (Matrix, error) {
	if newN < a.n {
		return Matrix{}, matrixErrorf("Resize", ErrDimensionMismatch)
	}
	if len(mapping) != a.n {
		return Matrix{}, matrixErrorf("Resize", ErrDimensionMismatch)
	}

	out, err := Identity(newN)
	if err != nil {
		return Matrix{}, matrixErrorf("Resize", err)
	}

	covered := make(map[int]bool, a.n)
	for _, dst := range mapping {
		covered[dst] = true
	}
	// Off-diagonal entries among covered rows/cols default to 0 rather than
	// inheriting Identity's off-diagonal 0 — already true, but we also must
	// clear the diagonal entries of covered positions before copying a's
	// data in, since Identity seeded them with m.
	for _, dst := range mapping {
		if err := out.Set(dst, dst, polynomial.Zero); err != nil {
			return Matrix{}, matrixErrorf("Resize", err)
		}
	}

	for i := 0; i < a.n; i++ {
		for j := 0; j < a.n; j++ {
			p, _ := a.At(i, j)
			if err := out.Set(mapping[i], mapping[j], p); err != nil {
				return Matrix{}, matrixErrorf("Resize", err)
			}
		}
	}
	// Restore identity (m) on any diagonal position that Resize's caller
	// left uncovered by the source mapping — these are brand-new variables
	// that must start as an independent, non-dependent identity row.
	for d := 0; d < newN; d++ {
		if !covered[d] {
			if err := out.Set(d, d, polynomial.FromScalar(scalar.M)); err != nil {
				return Matrix{}, matrixErrorf("Resize", err)
			}
		}
	}

	return out, nil
}

// isUnconditionalM reports whether p is exactly the single unconditional
// m monomial — the untouched-variable diagonal entry Identity seeds.
func isUnconditionalM(p polynomial.Polynomial) bool {
	terms := p.Terms()

	return len(terms) == 1 && len(terms[0].Deltas) == 0 && terms[0].Coeff == scalar.M
}

// columnUntouched reports whether column i of r is exactly the identity
// column: m (unconditionally) on the diagonal, 0 everywhere else — i.e.
// nothing in the one-step relation ever assigns to variable i at all.
func columnUntouched(r Matrix, i int) bool {
	for k := 0; k < r.n; k++ {
		cell, err := r.At(k, i)
		if err != nil {
			return false
		}
		if k == i {
			if !isUnconditionalM(cell) {
				return false
			}
		} else if !cell.IsZero() {
			return false
		}
	}

	return true
}

// PromoteUnboundedAccumulation resolves how ∞ ever enters the algebra for
// an unbounded while loop: spec §4.1's multiplication table has no rule
// that produces ∞ from {m,w,p} inputs, and §4.6's literal fixpoint
// iteration (S(k+1) = Sk ⊔ Sk·R) only ever climbs as high as the highest
// finite grade already present in R — so "while(C){ p = p*p }" would
// otherwise stabilize at a finite p, never at ∞.
//
// The missing rule: a while loop runs an a-priori-unknown number of times,
// so a variable that both (a) is actually assigned somewhere in the body
// (column i is not the untouched identity column) and (b) reads its own
// prior value in computing that assignment (R[i][i] is non-zero, any
// grade) accumulates once per iteration for an unbounded iteration count —
// which no fixed-degree polynomial in the inputs can bound, regardless of
// which derivation choice graded that self-reference. Every non-zero entry
// of such a column is promoted to scalar.Infinite (preserving its delta
// sequence, though since the self-reference is structural rather than
// choice-dependent no choice actually escapes it) before the fixpoint
// iteration runs, so ordinary ⊔/· propagates the ∞ outward exactly as any
// other scalar. A variable the loop only ever overwrites from other
// variables (no self-reference) is unaffected, matching spec §8 scenario
// 4's `X0 = X1+X2` inside a while — bounded because X0 is never read on
// its own right-hand side.
func PromoteUnboundedAccumulation(r Matrix) (Matrix, error) {
	out := r.Clone()
	for i := 0; i < r.n; i++ {
		selfEntry, err := r.At(i, i)
		if err != nil {
			return Matrix{}, matrixErrorf("PromoteUnboundedAccumulation", err)
		}
		if columnUntouched(r, i) || selfEntry.IsZero() {
			continue
		}
		for k := 0; k < r.n; k++ {
			cell, err := r.At(k, i)
			if err != nil {
				return Matrix{}, matrixErrorf("PromoteUnboundedAccumulation", err)
			}
			if cell.IsZero() {
				continue
			}
			if err := out.Set(k, i, promoteToInfinite(cell)); err != nil {
				return Matrix{}, matrixErrorf("PromoteUnboundedAccumulation", err)
			}
		}
	}

	return out, nil
}

// promoteToInfinite rebuilds p with every monomial's coefficient replaced
// by scalar.Infinite, keeping each monomial's delta sequence intact.
func promoteToInfinite(p polynomial.Polynomial) polynomial.Polynomial {
	terms := p.Terms()
	out := make([]monomial.Monomial, len(terms))
	for i, t := range terms {
		out[i] = monomial.New(scalar.Infinite, t.Deltas)
	}

	return polynomial.New(out...)
}

// Fixpoint computes the least R* such that R* = I ⊔ (R* · R) (spec §4.6):
// the reflexive-transitive closure of R under elementwise polynomial add.
//
// Algorithm: S0 = I; S(k+1) = Sk ⊔ (Sk·R); stop when S(k+1) = Sk. The
// polynomial lattice over R's fixed delta index set is finite and every
// step is monotone non-decreasing under ⊔, so the iteration terminates;
// cap bounds the iteration count as a diagnostic guard against an algebra
// bug producing a non-terminating climb (spec §9).
// Complexity: O(cap * n^3) worst case.
func Fixpoint(r Matrix, cap int) (Matrix, error) {
	s, err := Identity(r.n)
	if err != nil {
		return Matrix{}, matrixErrorf("Fixpoint", err)
	}
	for iter := 0; cap <= 0 || iter < cap; iter++ {
		sr, err := Product(s, r)
		if err != nil {
			return Matrix{}, matrixErrorf("Fixpoint", err)
		}
		next, err := Sum(s, sr)
		if err != nil {
			return Matrix{}, matrixErrorf("Fixpoint", err)
		}
		if Equals(next, s) {
			return next, nil
		}
		s = next
	}

	return Matrix{}, matrixErrorf("Fixpoint", ErrFixpointDivergence)
}

// monomialCount is a diagnostic helper (not used in the hot path) reporting
// the total monomial count across all cells, useful for guarding against
// the combinatorial blowup spec §5 calls out.
func monomialCount(m Matrix) int {
	total := 0
	for _, c := range m.cells {
		total += len(c.Terms())
	}

	return total
}
