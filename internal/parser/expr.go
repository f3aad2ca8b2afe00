package parser

import (
	"strconv"

	"github.com/rono-lang/rono/internal/ast"
	"github.com/rono-lang/rono/internal/diagnostics"
	"github.com/rono-lang/rono/internal/token"
)

// expression is the entry point of the precedence chain from spec.md
// §4.2: `||` binds loosest, then `&&`, equality, relational, additive,
// multiplicative, unary, then the postfix chain. Assignment is not
// part of this grammar — spec.md treats Assign as a statement, parsed
// in stmt.go.
func (p *Parser) expression() (ast.Expr, *diagnostics.Error) {
	return p.orExpr()
}

func (p *Parser) orExpr() (ast.Expr, *diagnostics.Error) {
	left, err := p.andExpr()
	if err != nil {
		return nil, err
	}
	for p.match(token.OR_OR) {
		op := p.previous()
		right, err := p.andExpr()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpr{Left: left, Op: op.Kind, Right: right, Pos: op.Pos}
	}
	return left, nil
}

func (p *Parser) andExpr() (ast.Expr, *diagnostics.Error) {
	left, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(token.AND_AND) {
		op := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpr{Left: left, Op: op.Kind, Right: right, Pos: op.Pos}
	}
	return left, nil
}

func (p *Parser) equality() (ast.Expr, *diagnostics.Error) {
	left, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.match(token.EQUAL_EQUAL, token.BANG_EQUAL) {
		op := p.previous()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op.Kind, Right: right, Pos: op.Pos}
	}
	return left, nil
}

func (p *Parser) comparison() (ast.Expr, *diagnostics.Error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	for p.match(token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL) {
		op := p.previous()
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op.Kind, Right: right, Pos: op.Pos}
	}
	return left, nil
}

func (p *Parser) additive() (ast.Expr, *diagnostics.Error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.match(token.PLUS, token.MINUS) {
		op := p.previous()
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op.Kind, Right: right, Pos: op.Pos}
	}
	return left, nil
}

func (p *Parser) multiplicative() (ast.Expr, *diagnostics.Error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(token.STAR, token.SLASH, token.PERCENT) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Left: left, Op: op.Kind, Right: right, Pos: op.Pos}
	}
	return left, nil
}

func (p *Parser) unary() (ast.Expr, *diagnostics.Error) {
	switch {
	case p.match(token.BANG):
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op.Kind, Right: right, Pos: op.Pos}, nil
	case p.match(token.MINUS):
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op.Kind, Right: right, Pos: op.Pos}, nil
	case p.match(token.AMP):
		op := p.previous()
		nameTok, err := p.consume(token.IDENT, "expected an identifier after '&'")
		if err != nil {
			return nil, err
		}
		return &ast.AddressOfExpr{Name: nameTok.Lexeme, Pos: op.Pos}, nil
	case p.match(token.STAR):
		op := p.previous()
		target, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.DerefExpr{Target: target, Pos: op.Pos}, nil
	default:
		return p.postfix()
	}
}

func (p *Parser) postfix() (ast.Expr, *diagnostics.Error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(token.DOT):
			nameTok, err := p.consume(token.IDENT, "expected a field or method name after '.'")
			if err != nil {
				return nil, err
			}
			expr = &ast.FieldAccessExpr{Object: expr, Name: nameTok.Lexeme, Pos: nameTok.Pos}
		case p.match(token.LBRACKET):
			pos := p.previous().Pos
			idx, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.RBRACKET, "expected ']' after index expression"); err != nil {
				return nil, err
			}
			expr = &ast.IndexExpr{Object: expr, Index: idx, Pos: pos}
		case p.match(token.LPAREN):
			pos := p.previous().Pos
			args, err := p.arguments()
			if err != nil {
				return nil, err
			}
			expr = &ast.CallExpr{Callee: expr, Args: args, Pos: pos}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) arguments() ([]ast.Expr, *diagnostics.Error) {
	var args []ast.Expr
	if !p.check(token.RPAREN) {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RPAREN, "expected ')' after arguments"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) primary() (ast.Expr, *diagnostics.Error) {
	switch {
	case p.match(token.TRUE):
		return &ast.BoolLit{Value: true, Pos: p.previous().Pos}, nil
	case p.match(token.FALSE):
		return &ast.BoolLit{Value: false, Pos: p.previous().Pos}, nil
	case p.match(token.NIL):
		return &ast.NilLit{Pos: p.previous().Pos}, nil
	case p.match(token.SELF):
		return &ast.SelfExpr{Pos: p.previous().Pos}, nil
	case p.match(token.INT):
		tok := p.previous()
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, p.errorAt(tok, "invalid integer literal %q", tok.Lexeme)
		}
		return &ast.IntLit{Value: v, Pos: tok.Pos}, nil
	case p.match(token.FLOAT):
		tok := p.previous()
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.errorAt(tok, "invalid float literal %q", tok.Lexeme)
		}
		return &ast.FloatLit{Value: v, Pos: tok.Pos}, nil
	case p.match(token.STRING):
		return p.interpolatedString(p.previous())
	case p.match(token.IDENT):
		nameTok := p.previous()
		if p.check(token.LBRACE) {
			return p.constructorLit(nameTok)
		}
		return &ast.Identifier{Name: nameTok.Lexeme, Pos: nameTok.Pos}, nil
	case p.match(token.LPAREN):
		pos := p.previous().Pos
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RPAREN, "expected ')' after expression"); err != nil {
			return nil, err
		}
		return &ast.GroupExpr{Inner: inner, Pos: pos}, nil
	case p.match(token.LBRACKET):
		return p.arrayLit(p.previous().Pos)
	default:
		return nil, p.errorAt(p.current(), "expected an expression")
	}
}

func (p *Parser) constructorLit(nameTok token.Token) (ast.Expr, *diagnostics.Error) {
	if _, err := p.consume(token.LBRACE, "expected '{' after constructor type name"); err != nil {
		return nil, err
	}
	var fields []ast.FieldInit
	if !p.check(token.RBRACE) {
		for {
			fname, err := p.consume(token.IDENT, "expected a field name in constructor literal")
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.EQUAL, "expected '=' after field name"); err != nil {
				return nil, err
			}
			val, err := p.expression()
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.FieldInit{Name: fname.Lexeme, Value: val})
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RBRACE, "expected '}' to close constructor literal"); err != nil {
		return nil, err
	}
	return &ast.ConstructorExpr{TypeName: nameTok.Lexeme, Fields: fields, Pos: nameTok.Pos}, nil
}

// arrayLit parses `[expr, ...]` after the opening '[' has been
// consumed — a general expression (spec.md §3 "Expressions"), not
// only a collection-declaration initializer.
func (p *Parser) arrayLit(pos token.Pos) (ast.Expr, *diagnostics.Error) {
	var elems []ast.Expr
	if !p.check(token.RBRACKET) {
		for {
			el, err := p.expression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, el)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RBRACKET, "expected ']' to close array literal"); err != nil {
		return nil, err
	}
	return &ast.ArrayLit{Elements: elems, Pos: pos}, nil
}

// mapLit parses `{ key: value, ... }`; only reachable from a `map[K:V]`
// typed var initializer (stmt.go), since a bare '{' is otherwise a
// block or a constructor literal's body.
func (p *Parser) mapLit() (ast.Expr, *diagnostics.Error) {
	if _, err := p.consume(token.LBRACE, "expected '{' to begin map literal"); err != nil {
		return nil, err
	}
	pos := p.previous().Pos
	var entries []ast.MapEntry
	if !p.check(token.RBRACE) {
		for {
			key, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.consume(token.COLON, "expected ':' after map key"); err != nil {
				return nil, err
			}
			val, err := p.expression()
			if err != nil {
				return nil, err
			}
			entries = append(entries, ast.MapEntry{Key: key, Value: val})
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RBRACE, "expected '}' to close map literal"); err != nil {
		return nil, err
	}
	return &ast.MapLit{Entries: entries, Pos: pos}, nil
}
