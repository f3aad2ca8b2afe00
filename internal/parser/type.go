package parser

import (
	"strconv"

	"github.com/rono-lang/rono/internal/ast"
	"github.com/rono-lang/rono/internal/diagnostics"
	"github.com/rono-lang/rono/internal/token"
)

// parseType parses one syntactic type annotation (spec.md §3 "Type"),
// then folds a trailing `[]` or `[N]` suffix into a List/Array type —
// the sugar spec.md §4.2 shows for collection declarations
// (`list a: int[] = ...`, `array a: int[3] = ...`) but which is legal
// anywhere a type annotation appears.
func (p *Parser) parseType() (ast.Type, *diagnostics.Error) {
	base, err := p.baseType()
	if err != nil {
		return nil, err
	}
	for p.check(token.LBRACKET) {
		p.advance()
		if p.match(token.RBRACKET) {
			base = ast.ListType{Elem: base}
			continue
		}
		sizeTok, err := p.consume(token.INT, "expected an array size or ']' after '['")
		if err != nil {
			return nil, err
		}
		size, convErr := strconv.ParseInt(sizeTok.Lexeme, 10, 64)
		if convErr != nil {
			return nil, p.errorAt(sizeTok, "invalid array size %q", sizeTok.Lexeme)
		}
		if _, err := p.consume(token.RBRACKET, "expected ']' after array size"); err != nil {
			return nil, err
		}
		base = ast.ArrayType{Elem: base, Size: int(size)}
	}
	return base, nil
}

func (p *Parser) baseType() (ast.Type, *diagnostics.Error) {
	switch {
	case p.match(token.INT_TYPE):
		return ast.IntType{}, nil
	case p.match(token.FLOAT_TYPE):
		return ast.FloatType{}, nil
	case p.match(token.BOOL_TYPE):
		return ast.BoolType{}, nil
	case p.match(token.STR_TYPE):
		return ast.StrType{}, nil
	case p.match(token.POINTER_TYPE):
		return ast.PointerType{Elem: nil}, nil
	case p.match(token.MAP_TYPE):
		if _, err := p.consume(token.LBRACKET, "expected '[' after 'map'"); err != nil {
			return nil, err
		}
		key, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.COLON, "expected ':' between map key and value types"); err != nil {
			return nil, err
		}
		val, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RBRACKET, "expected ']' to close map type"); err != nil {
			return nil, err
		}
		return ast.MapType{Key: key, Value: val}, nil
	case p.match(token.IDENT):
		return ast.NamedType{Name: p.previous().Lexeme}, nil
	default:
		return nil, p.errorAt(p.current(), "expected a type")
	}
}
