// Package relation implements Relation (a Matrix paired with its ordered
// variable-name list) and RelationList (the disjunction of relations that
// arises from conditional branches), per spec §3/§4.5.
package relation

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/mwpflow/internal/delta"
	"github.com/katalvlaran/mwpflow/internal/monomial"
	"github.com/katalvlaran/mwpflow/internal/pmatrix"
	"github.com/katalvlaran/mwpflow/internal/polynomial"
	"github.com/katalvlaran/mwpflow/internal/scalar"
)

// ErrVarCountMismatch indicates a Relation's variable list length does not
// match its matrix dimension — an internal-invariant violation (spec §7).
var ErrVarCountMismatch = errors.New("relation: variable count does not match matrix dimension")

// ErrEmptyList indicates List.Reduce was called on an empty disjunction,
// which has no sensible relation to return (every conditional analyzed by
// the analyzer always produces at least one branch).
var ErrEmptyList = errors.New("relation: cannot reduce an empty relation list")

func relationErrorf(method string, err error) error {
	return fmt.Errorf("relation.%s: %w", method, err)
}

// Relation pairs a square pmatrix.Matrix with the ordered variable names it
// is indexed by (spec §3).
type Relation struct {
	Vars   []string
	Matrix pmatrix.Matrix
}

// New validates and constructs a Relation; vars and the matrix dimension
// must agree (spec §3's invariant).
func New(vars []string, m pmatrix.Matrix) (Relation, error) {
	if len(vars) != m.N() {
		return Relation{}, relationErrorf("New", ErrVarCountMismatch)
	}

	return Relation{Vars: append([]string(nil), vars...), Matrix: m}, nil
}

// Identity returns the identity relation over vars: m on the diagonal, 0
// elsewhere.
func Identity(vars []string) (Relation, error) {
	mat, err := pmatrix.Identity(len(vars))
	if err != nil {
		return Relation{}, relationErrorf("Identity", err)
	}

	return New(vars, mat)
}

// indexOf returns the position of name in vars, or -1.
func indexOf(vars []string, name string) int {
	for i, v := range vars {
		if v == name {
			return i
		}
	}

	return -1
}

// union builds V = union(a, b) preserving a's order then appending new
// names from b (spec §4.5 step 1), plus the index mapping each side needs
// for Resize.
func union(a, b []string) (vars []string, mapA, mapB pmatrix.IndexMapping) {
	vars = append(vars, a...)
	seen := make(map[string]bool, len(a))
	for _, v := range a {
		seen[v] = true
	}
	for _, v := range b {
		if !seen[v] {
			vars = append(vars, v)
			seen[v] = true
		}
	}

	mapA = make(pmatrix.IndexMapping, len(a))
	for i, v := range a {
		mapA[i] = indexOf(vars, v)
	}
	mapB = make(pmatrix.IndexMapping, len(b))
	for i, v := range b {
		mapB[i] = indexOf(vars, v)
	}

	return vars, mapA, mapB
}

// Compose implements spec §4.5's Relation.compose: union the variable
// lists, homogenize both matrices to the unioned dimension, and return the
// relation over the product of the homogenized matrices.
// Complexity: O(|V|^3) dominated by the final Product.
func Compose(r1, r2 Relation) (Relation, error) {
	vars, map1, map2 := union(r1.Vars, r2.Vars)

	m1, err := pmatrix.Resize(r1.Matrix, len(vars), map1)
	if err != nil {
		return Relation{}, relationErrorf("Compose", err)
	}
	m2, err := pmatrix.Resize(r2.Matrix, len(vars), map2)
	if err != nil {
		return Relation{}, relationErrorf("Compose", err)
	}

	product, err := pmatrix.Product(m1, m2)
	if err != nil {
		return Relation{}, relationErrorf("Compose", err)
	}

	return New(vars, product)
}

// Sum returns the relation over union(r1.Vars,r2.Vars) whose matrix is the
// elementwise add of the homogenized operands — the aggregation step used
// after analyzing the two branches of an if/else (spec §4.7).
func Sum(r1, r2 Relation) (Relation, error) {
	vars, map1, map2 := union(r1.Vars, r2.Vars)

	m1, err := pmatrix.Resize(r1.Matrix, len(vars), map1)
	if err != nil {
		return Relation{}, relationErrorf("Sum", err)
	}
	m2, err := pmatrix.Resize(r2.Matrix, len(vars), map2)
	if err != nil {
		return Relation{}, relationErrorf("Sum", err)
	}

	sum, err := pmatrix.Sum(m1, m2)
	if err != nil {
		return Relation{}, relationErrorf("Sum", err)
	}

	return New(vars, sum)
}

// At retrieves the polynomial describing the dependency from source to
// target, or an error if either name is unknown.
func (r Relation) At(source, target string) (polynomial.Polynomial, error) {
	i, j := indexOf(r.Vars, source), indexOf(r.Vars, target)
	if i < 0 || j < 0 {
		return polynomial.Zero, relationErrorf("At", fmt.Errorf("unknown variable in (%s,%s)", source, target))
	}

	return r.Matrix.At(i, j)
}

// ComposeAssignVar composes r with the relation expressing "target := source"
// (an m-weight at (source,target), identity otherwise) — spec §4.7's plain
// variable-assignment rule.
func ComposeAssignVar(r Relation, target, source string) (Relation, error) {
	delta, err := Identity(r.Vars)
	if err != nil {
		return Relation{}, relationErrorf("ComposeAssignVar", err)
	}
	si, ti := indexOf(r.Vars, source), indexOf(r.Vars, target)
	if si < 0 || ti < 0 {
		return Relation{}, relationErrorf("ComposeAssignVar", fmt.Errorf("unknown variable in assignment %s := %s", target, source))
	}
	// target's column becomes: m from source, 0 from everyone else
	// (including target itself, unless source==target).
	for row := 0; row < len(r.Vars); row++ {
		val := polynomial.Zero
		if row == si {
			val = polynomial.FromScalar(scalar.M)
		}
		if err := delta.Matrix.Set(row, ti, val); err != nil {
			return Relation{}, relationErrorf("ComposeAssignVar", err)
		}
	}

	return Compose(r, delta)
}

// AddVar extends r with a fresh variable initialized to identity (m on its
// own diagonal, 0 against every other variable) — the registration step a
// Decl statement performs (spec §4.7) without otherwise touching the
// matrix. A no-op if name is already present.
func AddVar(r Relation, name string) (Relation, error) {
	if indexOf(r.Vars, name) >= 0 {
		return r, nil
	}
	vars := append(append([]string(nil), r.Vars...), name)
	mapping := make(pmatrix.IndexMapping, len(r.Vars))
	for i := range r.Vars {
		mapping[i] = i
	}
	m, err := pmatrix.Resize(r.Matrix, len(vars), mapping)
	if err != nil {
		return Relation{}, relationErrorf("AddVar", err)
	}

	return New(vars, m)
}

// binOpChoiceCoeffs gives the (lhs, rhs) coefficient pair spec §4.7
// prescribes for one of the three derivation choices at a binary-operator
// assignment. Choice 0 differs for "*": both operands flow at p rather than
// the general (m,p) split, since multiplying by an m-weighted operand does
// not bound the product the way addition does.
func binOpChoiceCoeffs(op string, choice int) (scalar.Scalar, scalar.Scalar) {
	switch choice {
	case 0:
		if op == "*" {
			return scalar.P, scalar.P
		}

		return scalar.M, scalar.P
	case 1:
		return scalar.P, scalar.M
	default: // choice 2
		return scalar.W, scalar.W
	}
}

// ComposeAssignBinOp composes r with the relation expressing
// "target := lhs ⊕ rhs" (spec §4.7's three-choice encoding) at the given
// freshly-allocated choice index. lhsVar/rhsVar name the operand's source
// variable; lhsIsVar/rhsIsVar is false when that operand is a literal
// constant, which contributes no source row.
func ComposeAssignBinOp(r Relation, target, op, lhsVar string, lhsIsVar bool, rhsVar string, rhsIsVar bool, choiceIndex int) (Relation, error) {
	d, err := Identity(r.Vars)
	if err != nil {
		return Relation{}, relationErrorf("ComposeAssignBinOp", err)
	}
	ti := indexOf(r.Vars, target)
	if ti < 0 {
		return Relation{}, relationErrorf("ComposeAssignBinOp", fmt.Errorf("unknown variable %s", target))
	}
	for row := 0; row < len(r.Vars); row++ {
		if err := d.Matrix.Set(row, ti, polynomial.Zero); err != nil {
			return Relation{}, relationErrorf("ComposeAssignBinOp", err)
		}
	}

	addTerm := func(sourceVar string, coeff scalar.Scalar, choiceVal int) error {
		si := indexOf(r.Vars, sourceVar)
		if si < 0 {
			return fmt.Errorf("unknown variable %s", sourceVar)
		}
		existing, err := d.Matrix.At(si, ti)
		if err != nil {
			return err
		}
		seq := delta.Sequence{delta.New(choiceVal, choiceIndex)}
		term := polynomial.New(monomial.New(coeff, seq))

		return d.Matrix.Set(si, ti, polynomial.Add(existing, term))
	}

	for choice := 0; choice < delta.Domain; choice++ {
		lhsCoeff, rhsCoeff := binOpChoiceCoeffs(op, choice)
		if lhsIsVar {
			if err := addTerm(lhsVar, lhsCoeff, choice); err != nil {
				return Relation{}, relationErrorf("ComposeAssignBinOp", err)
			}
		}
		if rhsIsVar {
			if err := addTerm(rhsVar, rhsCoeff, choice); err != nil {
				return Relation{}, relationErrorf("ComposeAssignBinOp", err)
			}
		}
	}

	return Compose(r, d)
}

// ComposeBoundedLoopGuard composes r with a relation recording guardVar as
// an additional m-weighted (max-bucket) dependency of every variable in
// written — the "for"-loop supplement of spec §4.6: a bounded loop's trip
// count depends on the guard variable, so every variable the body writes
// must carry that dependency forward even though the guard itself is never
// assigned inside the body.
func ComposeBoundedLoopGuard(r Relation, guardVar string, written []string) (Relation, error) {
	gi := indexOf(r.Vars, guardVar)
	if gi < 0 {
		return Relation{}, relationErrorf("ComposeBoundedLoopGuard", fmt.Errorf("unknown guard variable %s", guardVar))
	}
	d, err := Identity(r.Vars)
	if err != nil {
		return Relation{}, relationErrorf("ComposeBoundedLoopGuard", err)
	}
	for _, w := range written {
		wi := indexOf(r.Vars, w)
		if wi < 0 || wi == gi {
			continue
		}
		existing, err := d.Matrix.At(gi, wi)
		if err != nil {
			return Relation{}, relationErrorf("ComposeBoundedLoopGuard", err)
		}
		if err := d.Matrix.Set(gi, wi, polynomial.Add(existing, polynomial.FromScalar(scalar.M))); err != nil {
			return Relation{}, relationErrorf("ComposeBoundedLoopGuard", err)
		}
	}

	return Compose(r, d)
}

// ComposeAssignConst composes r with the relation expressing "target := c"
// for a constant c: target's column becomes all-zero, its own diagonal
// entry included (no dependency introduced at all) per spec §4.7.
func ComposeAssignConst(r Relation, target string) (Relation, error) {
	delta, err := Identity(r.Vars)
	if err != nil {
		return Relation{}, relationErrorf("ComposeAssignConst", err)
	}
	ti := indexOf(r.Vars, target)
	if ti < 0 {
		return Relation{}, relationErrorf("ComposeAssignConst", fmt.Errorf("unknown variable %s", target))
	}
	for row := 0; row < len(r.Vars); row++ {
		if err := delta.Matrix.Set(row, ti, polynomial.Zero); err != nil {
			return Relation{}, relationErrorf("ComposeAssignConst", err)
		}
	}

	return Compose(r, delta)
}
