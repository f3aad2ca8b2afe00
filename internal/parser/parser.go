// Package parser implements Rono's single-pass, one-token-lookahead
// recursive-descent parser (spec.md §4.2), in the shape of the
// teacher's Parser (match/consume/check/advance/previous) but
// returning *diagnostics.Error values instead of calling os.Exit, so
// a caller can decide how to report a failure.
package parser

import (
	"github.com/rono-lang/rono/internal/ast"
	"github.com/rono-lang/rono/internal/diagnostics"
	"github.com/rono-lang/rono/internal/token"
)

// Parser consumes a token slice produced by internal/lexer.
type Parser struct {
	file    string
	tokens  []token.Token
	idx     int
	retType []ast.Type // stack of enclosing function return types, for `ret` validation
}

// New constructs a Parser over tokens from the named file.
func New(file string, tokens []token.Token) *Parser {
	return &Parser{file: file, tokens: tokens}
}

// ParseProgram parses a whole source file into a Program of top-level
// items (spec.md §3 "AST").
func (p *Parser) ParseProgram() (*ast.Program, *diagnostics.Error) {
	prog := &ast.Program{}
	for !p.atEnd() {
		item, err := p.topLevelItem()
		if err != nil {
			return nil, err
		}
		prog.Items = append(prog.Items, item)
	}
	return prog, nil
}

// ParseExpression parses a single expression and expects EOF to
// follow; used to sub-parse string-interpolation spans (spec.md §4.3).
func (p *Parser) ParseExpression() (ast.Expr, *diagnostics.Error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, p.errorAt(p.current(), "unexpected token %q after expression", p.current().Lexeme)
	}
	return expr, nil
}

func (p *Parser) topLevelItem() (ast.Decl, *diagnostics.Error) {
	switch {
	case p.match(token.IMPORT):
		return p.importDecl()
	case p.match(token.STRUCT):
		return p.structDecl()
	case p.match(token.FN_FOR):
		return p.implBlock()
	case p.match(token.FN):
		return p.fnDecl(false)
	case p.match(token.CHIF):
		return p.chifDecl()
	default:
		return nil, p.errorAt(p.current(), "expected import, struct, fn_for, fn, or chif declaration")
	}
}

func (p *Parser) importDecl() (*ast.ImportDecl, *diagnostics.Error) {
	pos := p.previous().Pos
	pathTok, err := p.consume(token.STRING, "expected a string path after 'import'")
	if err != nil {
		return nil, err
	}
	path, decErr := decodeSimpleString(pathTok.Lexeme)
	if decErr != nil {
		return nil, p.errorAt(pathTok, "%s", decErr)
	}
	alias := ""
	if p.match(token.AS) {
		aliasTok, err := p.consume(token.IDENT, "expected an identifier after 'as'")
		if err != nil {
			return nil, err
		}
		alias = aliasTok.Lexeme
	}
	p.match(token.SEMICOLON)
	return &ast.ImportDecl{Path: path, Alias: alias, Pos: pos}, nil
}

func (p *Parser) structDecl() (*ast.StructDecl, *diagnostics.Error) {
	pos := p.previous().Pos
	nameTok, err := p.consume(token.IDENT, "expected a struct name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LBRACE, "expected '{' after struct name"); err != nil {
		return nil, err
	}

	var fields []ast.FieldDecl
	for !p.check(token.RBRACE) && !p.atEnd() {
		fname, err := p.consume(token.IDENT, "expected a field name")
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.COLON, "expected ':' after field name"); err != nil {
			return nil, err
		}
		ftype, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.FieldDecl{Name: fname.Lexeme, Type: ftype})
		if !p.match(token.COMMA) {
			break
		}
	}
	if _, err := p.consume(token.RBRACE, "expected '}' after struct fields"); err != nil {
		return nil, err
	}
	return &ast.StructDecl{Name: nameTok.Lexeme, Fields: fields, Pos: pos}, nil
}

func (p *Parser) implBlock() (*ast.ImplBlock, *diagnostics.Error) {
	pos := p.previous().Pos
	nameTok, err := p.consume(token.IDENT, "expected a type name after 'fn_for'")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LBRACE, "expected '{' after fn_for type name"); err != nil {
		return nil, err
	}

	var methods []*ast.FnDecl
	for !p.check(token.RBRACE) && !p.atEnd() {
		if _, err := p.consume(token.FN, "expected 'fn' inside fn_for block"); err != nil {
			return nil, err
		}
		method, err := p.fnDecl(true)
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}
	if _, err := p.consume(token.RBRACE, "expected '}' after fn_for methods"); err != nil {
		return nil, err
	}
	return &ast.ImplBlock{TypeName: nameTok.Lexeme, Methods: methods, Pos: pos}, nil
}

func (p *Parser) chifDecl() (*ast.ChifDecl, *diagnostics.Error) {
	pos := p.previous().Pos
	nameTok, err := p.consume(token.IDENT, "expected 'main' after 'chif'")
	if err != nil {
		return nil, err
	}
	if nameTok.Lexeme != "main" {
		return nil, p.errorAt(nameTok, "the chif entry point must be named 'main', got %q", nameTok.Lexeme)
	}
	if _, err := p.consume(token.LPAREN, "expected '(' after 'chif main'"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPAREN, "chif main takes no parameters"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LBRACE, "expected '{' to begin chif main body"); err != nil {
		return nil, err
	}
	p.pushReturnType(ast.NilType{})
	body, err := p.block()
	p.popReturnType()
	if err != nil {
		return nil, err
	}
	return &ast.ChifDecl{Body: body, Pos: pos}, nil
}

// fnDecl parses a function/method after 'fn' has been consumed.
// allowSelf permits a bare `self` as the first parameter (inside
// fn_for blocks only, spec.md §4.2 "Method block").
func (p *Parser) fnDecl(allowSelf bool) (*ast.FnDecl, *diagnostics.Error) {
	nameTok, err := p.consume(token.IDENT, "expected a function name after 'fn'")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LPAREN, "expected '(' after function name"); err != nil {
		return nil, err
	}

	hasSelf := false
	var params []ast.Param
	if !p.check(token.RPAREN) {
		if allowSelf && p.check(token.SELF) {
			p.advance()
			hasSelf = true
			if p.match(token.COMMA) {
				if params, err = p.paramList(); err != nil {
					return nil, err
				}
			}
		} else {
			if params, err = p.paramList(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.consume(token.RPAREN, "expected ')' after parameters"); err != nil {
		return nil, err
	}

	var retType ast.Type = ast.NilType{}
	if !p.check(token.LBRACE) {
		if retType, err = p.parseType(); err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(token.LBRACE, "expected '{' before function body"); err != nil {
		return nil, err
	}
	p.pushReturnType(retType)
	body, err := p.block()
	p.popReturnType()
	if err != nil {
		return nil, err
	}

	return &ast.FnDecl{Name: nameTok.Lexeme, HasSelf: hasSelf, Params: params, ReturnType: retType, Body: body, Pos: nameTok.Pos}, nil
}

func (p *Parser) paramList() ([]ast.Param, *diagnostics.Error) {
	var params []ast.Param
	for {
		nameTok, err := p.consume(token.IDENT, "expected a parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.COLON, "expected ':' after parameter name"); err != nil {
			return nil, err
		}
		ptype, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: nameTok.Lexeme, Type: ptype})
		if !p.match(token.COMMA) {
			break
		}
	}
	return params, nil
}

func (p *Parser) pushReturnType(t ast.Type) { p.retType = append(p.retType, t) }
func (p *Parser) popReturnType()            { p.retType = p.retType[:len(p.retType)-1] }
func (p *Parser) currentReturnType() ast.Type {
	if len(p.retType) == 0 {
		return ast.NilType{}
	}
	return p.retType[len(p.retType)-1]
}

// --------------- token cursor helpers (teacher's match/consume/check/advance shape) ---------------

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(k token.Kind) bool {
	return !p.atEnd() && p.current().Kind == k
}

func (p *Parser) consume(k token.Kind, msg string) (token.Token, *diagnostics.Error) {
	if !p.check(k) {
		return token.Token{}, p.errorAt(p.current(), "%s (got %s)", msg, p.current().Kind)
	}
	tok := p.current()
	p.advance()
	return tok, nil
}

func (p *Parser) advance() token.Token {
	tok := p.current()
	if !p.atEnd() {
		p.idx++
	}
	return tok
}

func (p *Parser) atEnd() bool { return p.current().Kind == token.EOF }

func (p *Parser) current() token.Token { return p.tokens[p.idx] }

func (p *Parser) previous() token.Token {
	if p.idx > 0 {
		return p.tokens[p.idx-1]
	}
	return p.current()
}

func (p *Parser) errorAt(tok token.Token, format string, args ...any) *diagnostics.Error {
	return diagnostics.New(diagnostics.Parse, p.file, tok.Pos.Line, tok.Pos.Col, format, args...)
}
