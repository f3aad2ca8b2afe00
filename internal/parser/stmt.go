package parser

import (
	"github.com/rono-lang/rono/internal/ast"
	"github.com/rono-lang/rono/internal/diagnostics"
	"github.com/rono-lang/rono/internal/token"
)

// declaration parses one statement that may start a block-local
// declaration (spec.md §3 "Statements"); everything else falls
// through to statement.
func (p *Parser) declaration() (ast.Stmt, *diagnostics.Error) {
	switch {
	case p.match(token.VAR):
		return p.varDeclStmt(true, token.VAR)
	case p.match(token.LET):
		return p.varDeclStmt(false, token.LET)
	case p.match(token.LIST):
		return p.varDeclStmt(true, token.LIST)
	case p.match(token.ARRAY):
		return p.varDeclStmt(true, token.ARRAY)
	default:
		return p.statement()
	}
}

func (p *Parser) varDeclStmt(mutable bool, keyword token.Kind) (ast.Stmt, *diagnostics.Error) {
	pos := p.previous().Pos
	nameTok, err := p.consume(token.IDENT, "expected a name after declaration keyword")
	if err != nil {
		return nil, err
	}
	var declaredType ast.Type
	if p.match(token.COLON) {
		if declaredType, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	var init ast.Expr
	if p.match(token.EQUAL) {
		if init, err = p.initializerExpr(declaredType); err != nil {
			return nil, err
		}
	}
	p.match(token.SEMICOLON)
	return &ast.VarDecl{Mutable: mutable, Keyword: keyword, Name: nameTok.Lexeme, DeclaredType: declaredType, Init: init, Pos: pos}, nil
}

// initializerExpr special-cases `{ "k": v, ... }` map literals, which
// spec.md §4.2 permits only in a `var m: map[K:V] = ...` initializer
// (unlike array literals, map literals are not a general expression).
func (p *Parser) initializerExpr(declaredType ast.Type) (ast.Expr, *diagnostics.Error) {
	if _, isMap := declaredType.(ast.MapType); isMap && p.check(token.LBRACE) {
		return p.mapLit()
	}
	return p.expression()
}

func (p *Parser) statement() (ast.Stmt, *diagnostics.Error) {
	switch {
	case p.match(token.IF):
		return p.ifStmt()
	case p.match(token.WHILE):
		return p.whileStmt()
	case p.match(token.FOR):
		return p.forStmt()
	case p.match(token.SWITCH):
		return p.switchStmt()
	case p.match(token.BREAK):
		pos := p.previous().Pos
		p.match(token.SEMICOLON)
		return &ast.Break{Pos: pos}, nil
	case p.match(token.CONTINUE):
		pos := p.previous().Pos
		p.match(token.SEMICOLON)
		return &ast.Continue{Pos: pos}, nil
	case p.match(token.RET):
		return p.returnStmt()
	case p.match(token.LBRACE):
		return p.block()
	default:
		return p.exprOrAssignStmt()
	}
}

// block parses statements up to (and consuming) a closing '}'; the
// opening '{' must already have been consumed by the caller.
func (p *Parser) block() (*ast.Block, *diagnostics.Error) {
	b := &ast.Block{}
	for !p.check(token.RBRACE) && !p.atEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, stmt)
	}
	if _, err := p.consume(token.RBRACE, "expected '}' to close block"); err != nil {
		return nil, err
	}
	return b, nil
}

func (p *Parser) ifStmt() (ast.Stmt, *diagnostics.Error) {
	pos := p.previous().Pos
	if _, err := p.consume(token.LPAREN, "expected '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPAREN, "expected ')' after if condition"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LBRACE, "expected '{' after if condition"); err != nil {
		return nil, err
	}
	thenBlock, err := p.block()
	if err != nil {
		return nil, err
	}

	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		if p.match(token.IF) {
			elseBranch, err = p.ifStmt()
			if err != nil {
				return nil, err
			}
		} else {
			if _, err := p.consume(token.LBRACE, "expected '{' after 'else'"); err != nil {
				return nil, err
			}
			elseBranch, err = p.block()
			if err != nil {
				return nil, err
			}
		}
	}
	return &ast.If{Cond: cond, Then: thenBlock, Else: elseBranch, Pos: pos}, nil
}

func (p *Parser) whileStmt() (ast.Stmt, *diagnostics.Error) {
	pos := p.previous().Pos
	if _, err := p.consume(token.LPAREN, "expected '(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPAREN, "expected ')' after while condition"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LBRACE, "expected '{' after while condition"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body, Pos: pos}, nil
}

func (p *Parser) forStmt() (ast.Stmt, *diagnostics.Error) {
	pos := p.previous().Pos
	if _, err := p.consume(token.LPAREN, "expected '(' after 'for'"); err != nil {
		return nil, err
	}

	var init ast.Stmt
	if !p.check(token.SEMICOLON) {
		nameTok, err := p.consume(token.IDENT, "expected an identifier in for-loop initializer")
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.EQUAL, "expected '=' in for-loop initializer"); err != nil {
			return nil, err
		}
		rhs, err := p.expression()
		if err != nil {
			return nil, err
		}
		init = &ast.Assign{LValue: &ast.Identifier{Name: nameTok.Lexeme, Pos: nameTok.Pos}, RValue: rhs, Pos: nameTok.Pos}
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after for-loop initializer"); err != nil {
		return nil, err
	}

	var cond ast.Expr
	if !p.check(token.SEMICOLON) {
		c, err := p.expression()
		if err != nil {
			return nil, err
		}
		cond = c
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after for-loop condition"); err != nil {
		return nil, err
	}

	var step ast.Stmt
	if !p.check(token.RPAREN) {
		s, err := p.forStep()
		if err != nil {
			return nil, err
		}
		step = s
	}
	if _, err := p.consume(token.RPAREN, "expected ')' after for-loop clauses"); err != nil {
		return nil, err
	}

	if _, err := p.consume(token.LBRACE, "expected '{' to begin for-loop body"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.For{Init: init, Cond: cond, Step: step, Body: body, Pos: pos}, nil
}

// forStep parses the for-loop's third clause: either an explicit
// `name = expr` assignment, or the `i + 1` sugar (spec.md §4.2/§9)
// accepted only when the left operand is a bare identifier, and
// desugared here to `i = i + 1`.
func (p *Parser) forStep() (ast.Stmt, *diagnostics.Error) {
	if p.check(token.IDENT) {
		save := p.idx
		nameTok := p.advance()
		if p.match(token.EQUAL) {
			rhs, err := p.expression()
			if err != nil {
				return nil, err
			}
			return &ast.Assign{LValue: &ast.Identifier{Name: nameTok.Lexeme, Pos: nameTok.Pos}, RValue: rhs, Pos: nameTok.Pos}, nil
		}
		p.idx = save
	}
	startTok := p.current()
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if bin, ok := expr.(*ast.BinaryExpr); ok {
		if ident, ok2 := bin.Left.(*ast.Identifier); ok2 {
			return &ast.Assign{LValue: ident, RValue: bin, Pos: ident.Pos}, nil
		}
	}
	return nil, p.errorAt(startTok, "for-loop step must be an assignment or `ident <op> expr`")
}

func (p *Parser) switchStmt() (ast.Stmt, *diagnostics.Error) {
	pos := p.previous().Pos
	if _, err := p.consume(token.LPAREN, "expected '(' after 'switch'"); err != nil {
		return nil, err
	}
	subject, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPAREN, "expected ')' after switch subject"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LBRACE, "expected '{' to begin switch body"); err != nil {
		return nil, err
	}

	var cases []ast.SwitchCase
	var defaultBlock *ast.Block
	for !p.check(token.RBRACE) && !p.atEnd() {
		switch {
		case p.match(token.CASE):
			label, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.LBRACE, "expected '{' after case label"); err != nil {
				return nil, err
			}
			body, err := p.block()
			if err != nil {
				return nil, err
			}
			cases = append(cases, ast.SwitchCase{Label: label, Body: body})
		case p.match(token.DEFAULT):
			if _, err := p.consume(token.LBRACE, "expected '{' after 'default'"); err != nil {
				return nil, err
			}
			body, err := p.block()
			if err != nil {
				return nil, err
			}
			defaultBlock = body
		default:
			return nil, p.errorAt(p.current(), "expected 'case' or 'default' inside switch body")
		}
	}
	if _, err := p.consume(token.RBRACE, "expected '}' to close switch body"); err != nil {
		return nil, err
	}
	return &ast.Switch{Subject: subject, Cases: cases, Default: defaultBlock, Pos: pos}, nil
}

func (p *Parser) returnStmt() (ast.Stmt, *diagnostics.Error) {
	pos := p.previous().Pos
	if p.match(token.SEMICOLON) {
		if _, isNil := p.currentReturnType().(ast.NilType); !isNil {
			return nil, p.errorAt(p.previous(), "missing return value in a function declared to return %s", p.currentReturnType())
		}
		return &ast.Return{Pos: pos}, nil
	}
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.match(token.SEMICOLON)
	return &ast.Return{Expr: expr, Pos: pos}, nil
}

func (p *Parser) exprOrAssignStmt() (ast.Stmt, *diagnostics.Error) {
	startTok := p.current()
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.match(token.EQUAL) {
		if !isAssignable(expr) {
			return nil, p.errorAt(startTok, "invalid assignment target")
		}
		rhs, err := p.expression()
		if err != nil {
			return nil, err
		}
		p.match(token.SEMICOLON)
		return &ast.Assign{LValue: expr, RValue: rhs, Pos: startTok.Pos}, nil
	}
	p.match(token.SEMICOLON)
	return &ast.ExprStmt{Expr: expr}, nil
}

func isAssignable(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Identifier, *ast.FieldAccessExpr, *ast.IndexExpr, *ast.DerefExpr:
		return true
	default:
		return false
	}
}
