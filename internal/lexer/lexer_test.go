package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rono-lang/rono/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks, err := New("t.rono", []byte("{}()[],;:.=+-*/%==!=<=>=<>&&||!&")).Scan()
	require.Nil(t, err)
	assert.Equal(t, []token.Kind{
		token.LBRACE, token.RBRACE, token.LPAREN, token.RPAREN,
		token.LBRACKET, token.RBRACKET, token.COMMA, token.SEMICOLON,
		token.COLON, token.DOT, token.EQUAL, token.PLUS, token.MINUS,
		token.STAR, token.SLASH, token.PERCENT, token.EQUAL_EQUAL,
		token.BANG_EQUAL, token.LESS_EQUAL, token.GREATER_EQUAL,
		token.LESS, token.GREATER, token.AND_AND, token.OR_OR,
		token.BANG, token.AMP, token.EOF,
	}, kinds(toks))
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks, err := New("t.rono", []byte("chif fn fn_for struct var let list array self myVar _x9")).Scan()
	require.Nil(t, err)
	assert.Equal(t, []token.Kind{
		token.CHIF, token.FN, token.FN_FOR, token.STRUCT, token.VAR,
		token.LET, token.LIST, token.ARRAY, token.SELF,
		token.IDENT, token.IDENT, token.EOF,
	}, kinds(toks))
	assert.Equal(t, "myVar", toks[9].Lexeme)
}

func TestScanNumbers(t *testing.T) {
	toks, err := New("t.rono", []byte("42 3.14 0")).Scan()
	require.Nil(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, token.INT, toks[0].Kind)
	assert.Equal(t, "42", toks[0].Lexeme)
	assert.Equal(t, token.FLOAT, toks[1].Kind)
	assert.Equal(t, "3.14", toks[1].Lexeme)
	assert.Equal(t, token.INT, toks[2].Kind)
}

func TestScanSimpleString(t *testing.T) {
	toks, err := New("t.rono", []byte(`"hello, world"`)).Scan()
	require.Nil(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "hello, world", toks[0].Lexeme)
}

func TestScanStringWithInterpolationBraces(t *testing.T) {
	toks, err := New("t.rono", []byte(`"sum is {x+y} done"`)).Scan()
	require.Nil(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "sum is {x+y} done", toks[0].Lexeme)
}

func TestScanStringWithNestedConstructorBraces(t *testing.T) {
	// depth tracking must not end the string at the inner '}'.
	toks, err := New("t.rono", []byte(`"{p.x} and {T { a = 1 }}"`)).Scan()
	require.Nil(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "{p.x} and {T { a = 1 }}", toks[0].Lexeme)
}

func TestScanStringWithNestedQuotesInsideInterpolation(t *testing.T) {
	toks, err := New("t.rono", []byte(`"{f("x")}"`)).Scan()
	require.Nil(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, `{f("x")}`, toks[0].Lexeme)
}

func TestScanUnterminatedString(t *testing.T) {
	_, err := New("t.rono", []byte(`"no closing quote`)).Scan()
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "unterminated string")
}

func TestScanUnmatchedClosingBrace(t *testing.T) {
	_, err := New("t.rono", []byte(`"oops }"`)).Scan()
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "unmatched")
}

func TestScanLineAndBlockComments(t *testing.T) {
	toks, err := New("t.rono", []byte("1 // trailing comment\n/* block\ncomment */ 2")).Scan()
	require.Nil(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, token.INT, toks[0].Kind)
	assert.Equal(t, token.INT, toks[1].Kind)
	assert.Equal(t, 3, toks[1].Pos.Line)
}

func TestScanUnterminatedBlockComment(t *testing.T) {
	_, err := New("t.rono", []byte("/* never closed")).Scan()
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "unterminated block comment")
}

func TestScanUnexpectedCharacter(t *testing.T) {
	_, err := New("t.rono", []byte("@")).Scan()
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "unexpected character")
}

func TestScanLineTracking(t *testing.T) {
	toks, err := New("t.rono", []byte("var x = 1;\nvar y = 2;")).Scan()
	require.Nil(t, err)
	var secondVar token.Token
	count := 0
	for _, tok := range toks {
		if tok.Kind == token.VAR {
			count++
			if count == 2 {
				secondVar = tok
			}
		}
	}
	assert.Equal(t, 2, secondVar.Pos.Line)
}

func TestDecodeEscapes(t *testing.T) {
	out, err := DecodeEscapes(`a\nb\tc\"d\\e`)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\tc\"d\\e", out)
}

func TestDecodeEscapesUnknown(t *testing.T) {
	_, err := DecodeEscapes(`\q`)
	require.Error(t, err)
}

func TestDecodeEscapesDangling(t *testing.T) {
	_, err := DecodeEscapes(`\`)
	require.Error(t, err)
}
