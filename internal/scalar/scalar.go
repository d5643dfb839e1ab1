// Package scalar implements the five-element mwp coefficient semiring
// {0, m, w, p, ∞}, totally ordered 0 < m < w < p < ∞.
//
// Addition is the least upper bound in this order: commutative, idempotent,
// with 0 as identity and ∞ as absorbing. Multiplication is commutative with
// identity m, absorbing 0, and ∞ absorbs every non-zero scalar; w·w = p,
// p·w = p·p = p. Multiplication distributes over addition.
//
// Complexity: Add and Mul run in O(1) time (fixed 5x5 table lookups).
package scalar

import "errors"

// ErrUnknownScalar indicates a Scalar value outside the {Zero..Infinite} range.
// No function in this package returns it: Add and Mul saturate an
// out-of-range operand to Infinite instead of failing.
var ErrUnknownScalar = errors.New("scalar: value outside {0,m,w,p,inf}")

// Scalar is one element of the mwp coefficient semiring.
// The zero value is Zero, so a freshly declared Scalar behaves as the
// additive identity without explicit initialization.
type Scalar uint8

const (
	// Zero is the additive identity and multiplicative absorber.
	Zero Scalar = iota
	// M ("m") is the multiplicative identity, denoting a plain (non-growing) dependency.
	M
	// W ("w") denotes a weak-polynomial dependency.
	W
	// P ("p") denotes a polynomial dependency.
	P
	// Infinite denotes an unbounded dependency; absorbing under both operations
	// (except 0·∞ = 0, since 0 absorbs under multiplication first).
	Infinite
)

// symbols gives the canonical rendering of each scalar ("inf" for Infinite),
// used by String and by the monomial/polynomial printers.
var symbols = [...]string{Zero: "0", M: "m", W: "w", P: "p", Infinite: "inf"}

// String implements fmt.Stringer.
func (s Scalar) String() string {
	if int(s) < len(symbols) {
		return symbols[s]
	}

	return "?"
}

// Valid reports whether s is one of the five defined scalars.
func (s Scalar) Valid() bool {
	return s <= Infinite
}

// addTable[a][b] = lub(a,b); the order 0<m<w<p<inf makes Add equivalent to max.
var addTable = buildAddTable()

func buildAddTable() [5][5]Scalar {
	var t [5][5]Scalar
	for a := Scalar(0); a <= Infinite; a++ {
		for b := Scalar(0); b <= Infinite; b++ {
			if a >= b {
				t[a][b] = a
			} else {
				t[a][b] = b
			}
		}
	}

	return t
}

// mulTable encodes the multiplication law of spec §3/§4.1:
//
//	0·x = 0; inf·x = inf (x != 0); m·x = x; w·w = p; w·p = p·w = p; p·p = p.
var mulTable = buildMulTable()

func buildMulTable() [5][5]Scalar {
	var t [5][5]Scalar
	for a := Scalar(0); a <= Infinite; a++ {
		for b := Scalar(0); b <= Infinite; b++ {
			t[a][b] = mulCell(a, b)
		}
	}

	return t
}

// mulCell computes a single multiplication table entry directly from the
// algebraic law, rather than deriving it from the table under construction,
// so buildMulTable stays a pure, order-independent fill.
func mulCell(a, b Scalar) Scalar {
	switch {
	case a == Zero || b == Zero:
		return Zero
	case a == Infinite || b == Infinite:
		return Infinite
	case a == M:
		return b
	case b == M:
		return a
	default:
		// remaining cases: {w,p} x {w,p} all collapse to p.
		return P
	}
}

// Add returns the least upper bound of a and b in the 0<m<w<p<inf order.
// Complexity: O(1).
func Add(a, b Scalar) Scalar {
	return addTable[clamp(a)][clamp(b)]
}

// Mul returns the semiring product of a and b per the multiplication law.
// Complexity: O(1).
func Mul(a, b Scalar) Scalar {
	return mulTable[clamp(a)][clamp(b)]
}

// clamp guards table indexing against an invalid Scalar sneaking in from an
// unchecked conversion; it saturates to Infinite, the conservative answer.
func clamp(s Scalar) Scalar {
	if !s.Valid() {
		return Infinite
	}

	return s
}

// Less reports whether a strictly precedes b in the total order.
func Less(a, b Scalar) bool {
	return a < b
}

// Max returns the larger of a and b; an alias for Add kept for call-site
// clarity where the lub reading (rather than "addition") is intended.
func Max(a, b Scalar) Scalar {
	return Add(a, b)
}
