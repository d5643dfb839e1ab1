// Package mwpast defines the language-neutral abstract syntax tree the
// analyzer consumes (spec §6). Parsing source text into this tree is an
// external collaborator's responsibility — out of scope for this module
// (spec §1) — so mwpast only declares the tagged tree shape itself.
//
// Stmt and Expr are closed sum types realized as Go interfaces with an
// unexported marker method, the idiomatic Go rendering of a sealed variant
// set: every concrete node type is declared in this package. Go does not
// check type switches for exhaustiveness, so a new node kind reaches the
// default branch of every switch that does not name it.
package mwpast

// Stmt is implemented by every statement node kind of spec §6.
type Stmt interface {
	isStmt()
}

// Expr is implemented by every expression node kind of spec §6.
type Expr interface {
	isExpr()
}

// Program is the top-level collection of function definitions.
type Program struct {
	Functions []*Function
}

// Function is a named, parameterized statement body.
type Function struct {
	Name   string
	Params []string
	Body   Stmt
}

// Block is a sequence of statements executed in source order.
type Block struct {
	Statements []Stmt
}

func (*Block) isStmt() {}

// Decl declares a variable, optionally with an initializing expression.
type Decl struct {
	Var  string
	Init Expr // nil if undeclared-without-initializer
}

func (*Decl) isStmt() {}

// Assign assigns the value of Value to Target.
type Assign struct {
	Target string
	Value  Expr
}

func (*Assign) isStmt() {}

// If is a two-armed conditional; Else may be nil.
type If struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil if there is no else-branch
}

func (*If) isStmt() {}

// While is an unbounded loop (spec §4.6).
type While struct {
	Cond Expr
	Body Stmt
}

func (*While) isStmt() {}

// For is treated as a While with a prelude and step (spec §6); Init/Step
// may be nil for a degenerate for-loop.
type For struct {
	Init Stmt
	Cond Expr
	Step Stmt
	Body Stmt
}

func (*For) isStmt() {}

// Break, Continue and Return are jump statements, all treated as identity
// with respect to the matrix (spec §6).
type Break struct{}

func (*Break) isStmt() {}

type Continue struct{}

func (*Continue) isStmt() {}

// Return holds the returned expression. The analyzer does not read it: no
// output variable is recorded from a return, and early exit is not
// special-cased.
type Return struct {
	Value Expr // nil for a bare "return"
}

func (*Return) isStmt() {}

// Call is always an unsupported construct for this analyzer (spec §1's
// inter-procedural non-goal): it is always skipped (with a warning) or
// rejected in strict mode, never silently treated as identity.
type Call struct {
	Callee string
	Args   []Expr
}

func (*Call) isStmt() {}
func (*Call) isExpr() {}

// Index, Deref and AddrOf are likewise always unsupported (spec §1's
// pointer/array non-goal); they exist only so a front-end can hand them to
// the analyzer for uniform skip/reject handling rather than failing parse.
type Index struct {
	Base  Expr
	Index Expr
}

func (*Index) isExpr() {}

type Deref struct {
	Operand Expr
}

func (*Deref) isExpr() {}

type AddrOf struct {
	Operand Expr
}

func (*AddrOf) isExpr() {}

// BinOp is a binary arithmetic expression; Op is one of "+", "-", "*".
type BinOp struct {
	Op  string
	LHS Expr
	RHS Expr
}

func (*BinOp) isExpr() {}

// UnOp is a unary operator; Op is one of "-", "!", "++", "--", "sizeof".
// Per spec §9, "++"/"--"/"-"/"!" are ordinarily desugared to their
// semantically-equivalent BinOp form before analysis (see mwplang.Desugar)
// — the analyzer itself treats a surviving UnOp as unsupported.
type UnOp struct {
	Op  string
	Arg Expr
}

func (*UnOp) isExpr() {}

// Var references a named variable.
type Var struct {
	Name string
}

func (*Var) isExpr() {}

// Const is an integer literal; Value is carried as a string to avoid
// binding this AST to a fixed integer width.
type Const struct {
	Value string
}

func (*Const) isExpr() {}
