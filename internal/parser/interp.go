package parser

import (
	"fmt"
	"strings"

	"github.com/rono-lang/rono/internal/ast"
	"github.com/rono-lang/rono/internal/diagnostics"
	"github.com/rono-lang/rono/internal/lexer"
	"github.com/rono-lang/rono/internal/token"
)

// interpolatedString splits a STRING token's raw body (braces and
// escapes unprocessed, per the lexer's contract) into alternating
// literal and `{expr}` segments, sub-lexing and sub-parsing each
// expression span (spec.md §4.3). Column tracking across the split is
// approximate: sub-expression diagnostics are reported relative to the
// start of the owning string literal rather than their exact offset,
// which is an acceptable simplification for a language without
// multi-line interpolated expressions in practice.
func (p *Parser) interpolatedString(tok token.Token) (*ast.InterpolatedString, *diagnostics.Error) {
	raw := tok.Lexeme
	var segs []ast.StringSegment
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, ast.StringSegment{Literal: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(raw) {
		c := raw[i]
		switch {
		case c == '\\':
			if i+1 >= len(raw) {
				return nil, p.errorAt(tok, "dangling escape at end of string")
			}
			decoded, err := lexer.DecodeEscapes(raw[i : i+2])
			if err != nil {
				return nil, p.errorAt(tok, "%s", err)
			}
			lit.WriteString(decoded)
			i += 2
		case c == '{':
			flush()
			j, err := matchBrace(raw, i)
			if err != nil {
				return nil, p.errorAt(tok, "%s", err)
			}
			exprSrc := raw[i+1 : j]
			expr, perr := p.parseSubExpression(tok, exprSrc)
			if perr != nil {
				return nil, perr
			}
			segs = append(segs, ast.StringSegment{Expr: expr})
			i = j + 1
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()
	if len(segs) == 0 {
		segs = []ast.StringSegment{{Literal: ""}}
	}
	return &ast.InterpolatedString{Segments: segs, Pos: tok.Pos}, nil
}

// matchBrace returns the index of the '}' matching the '{' at start,
// skipping over nested string literals (so their own braces and quotes
// are not mistaken for the interpolation span's structure) and
// tracking brace depth for nested constructor literals.
func matchBrace(raw string, start int) (int, error) {
	depth := 1
	j := start + 1
	for depth > 0 {
		if j >= len(raw) {
			return 0, fmt.Errorf("unterminated interpolation expression")
		}
		switch raw[j] {
		case '"':
			j++
			for j < len(raw) && raw[j] != '"' {
				if raw[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(raw) {
				return 0, fmt.Errorf("unterminated nested string in interpolation expression")
			}
			j++
		case '{':
			depth++
			j++
		case '}':
			depth--
			j++
		default:
			j++
		}
	}
	return j - 1, nil
}

func (p *Parser) parseSubExpression(owner token.Token, src string) (ast.Expr, *diagnostics.Error) {
	subTokens, lexErr := lexer.New(p.file, []byte(src)).Scan()
	if lexErr != nil {
		return nil, diagnostics.New(diagnostics.Parse, p.file, owner.Pos.Line, owner.Pos.Col, "invalid interpolation expression: %s", lexErr.Message)
	}
	sub := New(p.file, subTokens)
	expr, err := sub.ParseExpression()
	if err != nil {
		return nil, diagnostics.New(diagnostics.Parse, p.file, owner.Pos.Line, owner.Pos.Col, "invalid interpolation expression: %s", err.Message)
	}
	return expr, nil
}

// decodeSimpleString decodes an import path's string body, rejecting
// interpolation spans (an import path is never interpolated).
func decodeSimpleString(raw string) (string, error) {
	if strings.ContainsAny(raw, "{}") {
		return "", fmt.Errorf("import paths cannot contain string interpolation")
	}
	return lexer.DecodeEscapes(raw)
}
