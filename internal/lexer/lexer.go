// Package lexer converts Rono source text into a flat token sequence,
// in the spirit of the teacher's byte-at-a-time Scanner but adapted
// for Rono's comment styles, numeric literals, and brace-aware string
// interpolation bodies.
package lexer

import (
	"fmt"
	"strings"

	"github.com/rono-lang/rono/internal/diagnostics"
	"github.com/rono-lang/rono/internal/token"
)

// Scanner turns source bytes into tokens. Create with New, then call
// Scan once.
type Scanner struct {
	file     string
	src      []byte
	idx      int // index of the current character, -1 before the first
	line     int
	lineHead int // source offset where the current line started
}

// New constructs a Scanner over the named file's contents. The name is
// used only for diagnostics.
func New(file string, src []byte) *Scanner {
	return &Scanner{file: file, src: src, idx: -1, line: 1, lineHead: 0}
}

// Scan lexes the entire source and returns the token sequence,
// terminated by an EOF token. It returns the first lexical error
// encountered, if any; tokens collected before the error are still
// returned so callers that want best-effort tokenization can use them.
func (s *Scanner) Scan() ([]token.Token, *diagnostics.Error) {
	var toks []token.Token

	for s.advance() {
		start := s.pos()

		switch {
		case s.ch() == ' ' || s.ch() == '\t' || s.ch() == '\r':
			continue
		case s.ch() == '\n':
			s.newline()
			continue
		case s.ch() == '/' && s.peek() == '/':
			s.lineComment()
			continue
		case s.ch() == '/' && s.peek() == '*':
			if err := s.blockComment(); err != nil {
				return toks, err
			}
			continue
		}

		tok, err := s.token(start)
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
	}

	toks = append(toks, token.Token{Kind: token.EOF, Pos: s.pos()})
	return toks, nil
}

func (s *Scanner) token(start token.Pos) (token.Token, *diagnostics.Error) {
	switch c := s.ch(); c {
	case '{':
		return s.simple(token.LBRACE, start), nil
	case '}':
		return s.simple(token.RBRACE, start), nil
	case '(':
		return s.simple(token.LPAREN, start), nil
	case ')':
		return s.simple(token.RPAREN, start), nil
	case '[':
		return s.simple(token.LBRACKET, start), nil
	case ']':
		return s.simple(token.RBRACKET, start), nil
	case ',':
		return s.simple(token.COMMA, start), nil
	case ';':
		return s.simple(token.SEMICOLON, start), nil
	case ':':
		return s.simple(token.COLON, start), nil
	case '.':
		return s.simple(token.DOT, start), nil
	case '+':
		return s.simple(token.PLUS, start), nil
	case '-':
		return s.simple(token.MINUS, start), nil
	case '*':
		return s.simple(token.STAR, start), nil
	case '/':
		return s.simple(token.SLASH, start), nil
	case '%':
		return s.simple(token.PERCENT, start), nil
	case '=':
		return s.two('=', token.EQUAL_EQUAL, token.EQUAL, start), nil
	case '!':
		return s.two('=', token.BANG_EQUAL, token.BANG, start), nil
	case '<':
		return s.two('=', token.LESS_EQUAL, token.LESS, start), nil
	case '>':
		return s.two('=', token.GREATER_EQUAL, token.GREATER, start), nil
	case '&':
		if s.peek() == '&' {
			s.advance()
			return token.Token{Kind: token.AND_AND, Lexeme: "&&", Pos: start}, nil
		}
		return s.simple(token.AMP, start), nil
	case '|':
		if s.peek() == '|' {
			s.advance()
			return token.Token{Kind: token.OR_OR, Lexeme: "||", Pos: start}, nil
		}
		return token.Token{}, s.err(start, "unexpected character %q", c)
	case '"':
		return s.stringLiteral(start)
	default:
		switch {
		case isDigit(c):
			return s.numberLiteral(start), nil
		case isAlpha(c):
			return s.identifier(start), nil
		default:
			return token.Token{}, s.err(start, "unexpected character %q", c)
		}
	}
}

func (s *Scanner) simple(kind token.Kind, start token.Pos) token.Token {
	return token.Token{Kind: kind, Lexeme: string(s.ch()), Pos: start}
}

// two emits matchKind consuming one extra rune when peek() == want, else single.
func (s *Scanner) two(want byte, matchKind, singleKind token.Kind, start token.Pos) token.Token {
	if s.peek() == want {
		lex := string(s.ch()) + string(want)
		s.advance()
		return token.Token{Kind: matchKind, Lexeme: lex, Pos: start}
	}
	return s.simple(singleKind, start)
}

func (s *Scanner) lineComment() {
	for s.peek() != '\n' && s.peek() != 0 {
		s.advance()
	}
}

func (s *Scanner) blockComment() *diagnostics.Error {
	start := s.pos()
	s.advance() // consume '*'
	for {
		if s.peek() == 0 {
			return s.err(start, "unterminated block comment")
		}
		s.advance()
		if s.ch() == '\n' {
			s.newline()
			continue
		}
		if s.ch() == '*' && s.peek() == '/' {
			s.advance()
			return nil
		}
	}
}

// stringLiteral scans a whole `"..."` literal, including any `{expr}`
// interpolation spans, tracking brace depth so a constructor literal's
// own `{`/`}` inside an interpolation does not end the span early, and
// skipping over nested string literals inside an interpolation span so
// their quotes don't end the outer string. The Lexeme stored on the
// token is the raw body between the outer quotes (escapes and braces
// unprocessed); internal/parser splits it into literal/expression
// segments.
func (s *Scanner) stringLiteral(start token.Pos) (token.Token, *diagnostics.Error) {
	var body strings.Builder
	depth := 0

	for {
		if s.peek() == 0 {
			return token.Token{}, s.err(start, "unterminated string")
		}
		s.advance()

		switch {
		case s.ch() == '\n':
			s.newline()
			body.WriteByte('\n')
		case depth == 0 && s.ch() == '\\':
			if s.peek() == 0 {
				return token.Token{}, s.err(start, "unterminated string")
			}
			s.advance()
			body.WriteByte('\\')
			body.WriteByte(s.ch())
		case depth == 0 && s.ch() == '"':
			return token.Token{Kind: token.STRING, Lexeme: body.String(), Pos: start}, nil
		case s.ch() == '{':
			depth++
			body.WriteByte('{')
		case s.ch() == '}':
			if depth == 0 {
				return token.Token{}, s.err(start, "unmatched '}' in string interpolation")
			}
			depth--
			body.WriteByte('}')
		case depth > 0 && s.ch() == '"':
			// Nested string literal inside an interpolation: copy verbatim
			// up to (and including) its own closing quote.
			body.WriteByte('"')
			for {
				if s.peek() == 0 {
					return token.Token{}, s.err(start, "unterminated string")
				}
				s.advance()
				body.WriteByte(s.ch())
				if s.ch() == '\n' {
					s.newline()
				}
				if s.ch() == '\\' && s.peek() != 0 {
					s.advance()
					body.WriteByte(s.ch())
					continue
				}
				if s.ch() == '"' {
					break
				}
			}
		default:
			body.WriteByte(s.ch())
		}
	}
}

func (s *Scanner) numberLiteral(start token.Pos) token.Token {
	begin := s.idx
	for isDigit(s.peek()) {
		s.advance()
	}

	isFloat := false
	if s.peek() == '.' && isDigit(s.peekAt(2)) {
		isFloat = true
		s.advance() // '.'
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	lexeme := string(s.src[begin : s.idx+1])
	kind := token.INT
	if isFloat {
		kind = token.FLOAT
	}
	return token.Token{Kind: kind, Lexeme: lexeme, Pos: start}
}

func (s *Scanner) identifier(start token.Pos) token.Token {
	begin := s.idx
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	lexeme := string(s.src[begin : s.idx+1])
	if kind, ok := token.Keywords[lexeme]; ok {
		return token.Token{Kind: kind, Lexeme: lexeme, Pos: start}
	}
	return token.Token{Kind: token.IDENT, Lexeme: lexeme, Pos: start}
}

// --- cursor primitives, modeled on the teacher's Scanner.next/peek ---

func (s *Scanner) advance() bool {
	if s.idx >= len(s.src)-1 {
		s.idx = len(s.src)
		return false
	}
	s.idx++
	return true
}

func (s *Scanner) ch() byte {
	if s.idx < 0 || s.idx >= len(s.src) {
		return 0
	}
	return s.src[s.idx]
}

func (s *Scanner) peek() byte {
	return s.peekAt(1)
}

func (s *Scanner) peekAt(n int) byte {
	if s.idx+n >= len(s.src) || s.idx+n < 0 {
		return 0
	}
	return s.src[s.idx+n]
}

func (s *Scanner) newline() {
	s.line++
	s.lineHead = s.idx + 1
}

func (s *Scanner) pos() token.Pos {
	return token.Pos{Line: s.line, Col: s.idx - s.lineHead + 1}
}

func (s *Scanner) err(pos token.Pos, format string, args ...any) *diagnostics.Error {
	return diagnostics.New(diagnostics.Lex, s.file, pos.Line, pos.Col, format, args...)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }

// DecodeEscapes processes the \\, \", \n, \t escape sequences used in
// string literal bodies (spec.md §4.1).
func DecodeEscapes(raw string) (string, error) {
	var out strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			out.WriteByte(c)
			continue
		}
		i++
		if i >= len(raw) {
			return "", fmt.Errorf("dangling escape at end of string")
		}
		switch raw[i] {
		case '\\':
			out.WriteByte('\\')
		case '"':
			out.WriteByte('"')
		case 'n':
			out.WriteByte('\n')
		case 't':
			out.WriteByte('\t')
		default:
			return "", fmt.Errorf("unknown escape sequence \\%c", raw[i])
		}
	}
	return out.String(), nil
}
