package mwplang

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/mwpflow/mwpast"
)

// Parser is the contract any front-end hands to internal/analyzer: turn
// source text into an mwpast.Program. Parsing itself is explicitly out of
// scope for the core analysis module (spec §1); this interface lets other
// front-ends stand in for the reference implementation. cmd/mwpflow itself
// uses ReferenceParser directly.
type Parser interface {
	Parse(src []byte) (*mwpast.Program, error)
}

// ErrUnexpectedToken indicates the parser found a token it could not fit
// into the current production.
var ErrUnexpectedToken = errors.New("mwplang: unexpected token")

// ErrUnexpectedEOF indicates the token stream ended mid-production.
var ErrUnexpectedEOF = errors.New("mwplang: unexpected end of input")

func parseErrorf(pos int, err error) error {
	return fmt.Errorf("mwplang: parse at byte %d: %w", pos, err)
}

// ReferenceParser implements Parser for the toy C-like surface syntax used
// by this repository's own tests and examples:
//
//	void foo(int x, int y) {
//	    int z = x + y;
//	    while (z != 0) { z = z - 1; }
//	    return z;
//	}
//
// It is a single-pass recursive-descent parser over the lexer's flat token
// stream; grammar productions map one-to-one onto mwpast node types.
type ReferenceParser struct{}

// Parse implements Parser.
func (ReferenceParser) Parse(src []byte) (*mwpast.Program, error) {
	toks, err := newLexer(src).tokenize()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	prog, err := p.parseProgram()
	if err != nil {
		return nil, err
	}

	return prog, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) cur() token {
	return p.toks[p.pos]
}

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}

	return t
}

func (p *parser) atEOF() bool {
	return p.cur().kind == tokEOF
}

func (p *parser) expectPunct(s string) (token, error) {
	t := p.cur()
	if t.kind != tokPunct || t.text != s {
		return token{}, parseErrorf(t.pos, fmt.Errorf("%w: expected %q, got %q", ErrUnexpectedToken, s, t.text))
	}

	return p.advance(), nil
}

func (p *parser) expectKeyword(s string) (token, error) {
	t := p.cur()
	if t.kind != tokKeyword || t.text != s {
		return token{}, parseErrorf(t.pos, fmt.Errorf("%w: expected keyword %q, got %q", ErrUnexpectedToken, s, t.text))
	}

	return p.advance(), nil
}

func (p *parser) expectIdent() (string, error) {
	t := p.cur()
	if t.kind != tokIdent {
		return "", parseErrorf(t.pos, fmt.Errorf("%w: expected identifier, got %q", ErrUnexpectedToken, t.text))
	}
	p.advance()

	return t.text, nil
}

func (p *parser) isPunct(s string) bool {
	t := p.cur()

	return t.kind == tokPunct && t.text == s
}

func (p *parser) isKeyword(s string) bool {
	t := p.cur()

	return t.kind == tokKeyword && t.text == s
}

func isTypeKeyword(t token) bool {
	return t.kind == tokKeyword && (t.text == "int" || t.text == "void")
}

func (p *parser) parseProgram() (*mwpast.Program, error) {
	prog := &mwpast.Program{}
	for !p.atEOF() {
		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		prog.Functions = append(prog.Functions, fn)
	}

	return prog, nil
}

func (p *parser) parseFunction() (*mwpast.Function, error) {
	if !isTypeKeyword(p.cur()) {
		t := p.cur()

		return nil, parseErrorf(t.pos, fmt.Errorf("%w: expected a return type, got %q", ErrUnexpectedToken, t.text))
	}
	p.advance()

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}

	var params []string
	for !p.isPunct(")") {
		if len(params) > 0 {
			if _, err := p.expectPunct(","); err != nil {
				return nil, err
			}
		}
		if !isTypeKeyword(p.cur()) {
			t := p.cur()

			return nil, parseErrorf(t.pos, fmt.Errorf("%w: expected a parameter type, got %q", ErrUnexpectedToken, t.text))
		}
		p.advance()
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		params = append(params, name)
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &mwpast.Function{Name: name, Params: params, Body: body}, nil
}

func (p *parser) parseBlock() (*mwpast.Block, error) {
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var stmts []mwpast.Stmt
	for !p.isPunct("}") {
		st, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}

	return &mwpast.Block{Statements: stmts}, nil
}

func (p *parser) parseStmt() (mwpast.Stmt, error) {
	switch {
	case p.isPunct("{"):
		return p.parseBlock()

	case isTypeKeyword(p.cur()):
		return p.parseDeclStmt()

	case p.isKeyword("if"):
		return p.parseIf()

	case p.isKeyword("while"):
		return p.parseWhile()

	case p.isKeyword("for"):
		return p.parseFor()

	case p.isKeyword("break"):
		p.advance()

		return p.finishSimple(&mwpast.Break{})

	case p.isKeyword("continue"):
		p.advance()

		return p.finishSimple(&mwpast.Continue{})

	case p.isKeyword("return"):
		p.advance()
		if p.isPunct(";") {
			return p.finishSimple(&mwpast.Return{})
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		return p.finishSimple(&mwpast.Return{Value: val})

	case p.cur().kind == tokIdent:
		return p.parseExprOrAssignStmt()

	default:
		t := p.cur()

		return nil, parseErrorf(t.pos, fmt.Errorf("%w: unexpected token %q at statement start", ErrUnexpectedToken, t.text))
	}
}

func (p *parser) finishSimple(s mwpast.Stmt) (mwpast.Stmt, error) {
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}

	return s, nil
}

func (p *parser) parseDeclStmt() (mwpast.Stmt, error) {
	p.advance() // type keyword
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	var init mwpast.Expr
	if p.isPunct("=") {
		p.advance()
		init, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}

	return p.finishSimple(&mwpast.Decl{Var: name, Init: init})
}

// parseExprOrAssignStmt disambiguates "x = expr;", "x++;"/"x--;" and a bare
// call-as-statement "f(args);" — all of which start with an identifier.
func (p *parser) parseExprOrAssignStmt() (mwpast.Stmt, error) {
	start := p.pos
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	switch {
	case p.isPunct("="):
		p.advance()
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		return p.finishSimple(&mwpast.Assign{Target: name, Value: val})

	case p.isPunct("++") || p.isPunct("--"):
		op := p.advance().text

		return p.finishSimple(&mwpast.Assign{Target: name, Value: &mwpast.UnOp{Op: op, Arg: &mwpast.Var{Name: name}}})

	default:
		p.pos = start
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if call, ok := e.(*mwpast.Call); ok {
			return p.finishSimple(call)
		}

		return nil, parseErrorf(p.cur().pos, fmt.Errorf("%w: expression statement must be a call", ErrUnexpectedToken))
	}
}

func (p *parser) parseIf() (mwpast.Stmt, error) {
	p.advance()
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	var elseStmt mwpast.Stmt
	if p.isKeyword("else") {
		p.advance()
		elseStmt, err = p.parseStmt()
		if err != nil {
			return nil, err
		}
	}

	return &mwpast.If{Cond: cond, Then: then, Else: elseStmt}, nil
}

func (p *parser) parseWhile() (mwpast.Stmt, error) {
	p.advance()
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	return &mwpast.While{Cond: cond, Body: body}, nil
}

func (p *parser) parseFor() (mwpast.Stmt, error) {
	p.advance()
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var init mwpast.Stmt
	if !p.isPunct(";") {
		var err error
		init, err = p.parseForClauseStmt()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	var cond mwpast.Expr
	if !p.isPunct(";") {
		var err error
		cond, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	var step mwpast.Stmt
	if !p.isPunct(")") {
		var err error
		step, err = p.parseForClauseStmt()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	return &mwpast.For{Init: init, Cond: cond, Step: step, Body: body}, nil
}

// parseForClauseStmt parses the init/step clauses of a for-header, which
// share exprOrAssign's grammar but are never terminated by their own ";" —
// the caller (parseFor) consumes the separator.
func (p *parser) parseForClauseStmt() (mwpast.Stmt, error) {
	if isTypeKeyword(p.cur()) {
		p.advance()
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		var init mwpast.Expr
		if p.isPunct("=") {
			p.advance()
			init, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}

		return &mwpast.Decl{Var: name, Init: init}, nil
	}

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	switch {
	case p.isPunct("="):
		p.advance()
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		return &mwpast.Assign{Target: name, Value: val}, nil

	case p.isPunct("++") || p.isPunct("--"):
		op := p.advance().text

		return &mwpast.Assign{Target: name, Value: &mwpast.UnOp{Op: op, Arg: &mwpast.Var{Name: name}}}, nil

	default:
		return nil, parseErrorf(p.cur().pos, fmt.Errorf("%w: expected assignment in for-clause", ErrUnexpectedToken))
	}
}

// Expression grammar, lowest to highest precedence:
//
//	expr       := logicalOr
//	logicalOr  := logicalAnd ('||' logicalAnd)*
//	logicalAnd := equality ('&&' equality)*
//	equality   := relational (('==' | '!=') relational)*
//	relational := additive (('<'|'<='|'>'|'>=') additive)*
//	additive   := multiplicative (('+'|'-') multiplicative)*
//	multiplicative := unary (('*'|'/'|'%') unary)*
//	unary      := ('-'|'!') unary | ('++'|'--') unary | primary
//	primary    := NUMBER | ident call-or-var ['++'|'--'] | '(' expr ')'
func (p *parser) parseExpr() (mwpast.Expr, error) {
	return p.parseBinaryLevel(levelOr)
}

var precedence = [][]string{
	{"||"},
	{"&&"},
	{"==", "!="},
	{"<", "<=", ">", ">="},
	{"+", "-"},
	{"*", "/", "%"},
}

const levelOr = 0

func (p *parser) parseBinaryLevel(level int) (mwpast.Expr, error) {
	if level >= len(precedence) {
		return p.parseUnary()
	}
	lhs, err := p.parseBinaryLevel(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchOneOf(precedence[level])
		if !ok {
			return lhs, nil
		}
		rhs, err := p.parseBinaryLevel(level + 1)
		if err != nil {
			return nil, err
		}
		lhs = &mwpast.BinOp{Op: op, LHS: lhs, RHS: rhs}
	}
}

func (p *parser) matchOneOf(ops []string) (string, bool) {
	t := p.cur()
	if t.kind != tokPunct {
		return "", false
	}
	for _, op := range ops {
		if t.text == op {
			p.advance()

			return op, true
		}
	}

	return "", false
}

func (p *parser) parseUnary() (mwpast.Expr, error) {
	if p.isPunct("-") || p.isPunct("!") {
		op := p.advance().text
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &mwpast.UnOp{Op: op, Arg: arg}, nil
	}
	if p.isPunct("++") || p.isPunct("--") {
		op := p.advance().text
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &mwpast.UnOp{Op: op, Arg: arg}, nil
	}

	return p.parsePrimary()
}

func (p *parser) parsePrimary() (mwpast.Expr, error) {
	t := p.cur()
	switch {
	case t.kind == tokNumber:
		p.advance()

		return &mwpast.Const{Value: t.text}, nil

	case t.kind == tokIdent:
		p.advance()
		if p.isPunct("(") {
			return p.parseCallArgs(t.text)
		}
		if p.isPunct("++") || p.isPunct("--") {
			op := p.advance().text

			return &mwpast.UnOp{Op: op, Arg: &mwpast.Var{Name: t.text}}, nil
		}

		return &mwpast.Var{Name: t.text}, nil

	case t.kind == tokPunct && t.text == "(":
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(")"); err != nil {
			return nil, err
		}

		return e, nil

	case t.kind == tokEOF:
		return nil, parseErrorf(t.pos, ErrUnexpectedEOF)

	default:
		return nil, parseErrorf(t.pos, fmt.Errorf("%w: unexpected token %q in expression", ErrUnexpectedToken, t.text))
	}
}

func (p *parser) parseCallArgs(callee string) (mwpast.Expr, error) {
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var args []mwpast.Expr
	for !p.isPunct(")") {
		if len(args) > 0 {
			if _, err := p.expectPunct(","); err != nil {
				return nil, err
			}
		}
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}

	return &mwpast.Call{Callee: callee, Args: args}, nil
}
