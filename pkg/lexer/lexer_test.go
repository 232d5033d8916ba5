package lexer

import (
	"errors"
	"testing"

	"github.com/kr/pretty"

	"github.com/kartiknair/lswift/pkg/token"
)

func tok(typ token.TokenType, lexeme string, line, column int) token.Token {
	return token.Token{Lexeme: lexeme, Type: typ, Pos: token.Pos{Line: line, Column: column}}
}

func TestLex(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []token.Token
	}{
		{
			name:   "declaration",
			source: "let x = 1.5",
			want: []token.Token{
				tok(token.LET, "let", 1, 1),
				tok(token.IDENTIFIER, "x", 1, 5),
				tok(token.EQUAL, "=", 1, 7),
				tok(token.FLOAT, "1.5", 1, 9),
				tok(token.EOF, "\x00", 1, 12),
			},
		},
		{
			name:   "signature",
			source: "func f(a: Int) -> Bool",
			want: []token.Token{
				tok(token.FUNC, "func", 1, 1),
				tok(token.IDENTIFIER, "f", 1, 6),
				tok(token.LEFT_PAREN, "(", 1, 7),
				tok(token.IDENTIFIER, "a", 1, 8),
				tok(token.COLON, ":", 1, 9),
				tok(token.INT_TYPE, "Int", 1, 11),
				tok(token.RIGHT_PAREN, ")", 1, 14),
				tok(token.ARROW, "->", 1, 16),
				tok(token.BOOL_TYPE, "Bool", 1, 19),
				tok(token.EOF, "\x00", 1, 23),
			},
		},
		{
			name:   "lines and comments",
			source: "print(\"hi\") // greeting\n\tvar _n = true;",
			want: []token.Token{
				tok(token.PRINT, "print", 1, 1),
				tok(token.LEFT_PAREN, "(", 1, 6),
				tok(token.STRING, "hi", 1, 7),
				tok(token.RIGHT_PAREN, ")", 1, 11),
				tok(token.VAR, "var", 2, 2),
				tok(token.IDENTIFIER, "_n", 2, 6),
				tok(token.EQUAL, "=", 2, 9),
				tok(token.TRUE, "true", 2, 11),
				tok(token.SEMICOLON, ";", 2, 15),
				tok(token.EOF, "\x00", 2, 16),
			},
		},
		{
			name:   "operators",
			source: "1+2*3-4/5",
			want: []token.Token{
				tok(token.INT, "1", 1, 1),
				tok(token.PLUS, "+", 1, 2),
				tok(token.INT, "2", 1, 3),
				tok(token.STAR, "*", 1, 4),
				tok(token.INT, "3", 1, 5),
				tok(token.MINUS, "-", 1, 6),
				tok(token.INT, "4", 1, 7),
				tok(token.SLASH, "/", 1, 8),
				tok(token.INT, "5", 1, 9),
				tok(token.EOF, "\x00", 1, 10),
			},
		},
		{
			name:   "empty string keeps its quotes",
			source: `""`,
			want: []token.Token{
				tok(token.STRING, `""`, 1, 1),
				tok(token.EOF, "\x00", 1, 3),
			},
		},
		{
			name:   "number followed by a period",
			source: "1.",
			want: []token.Token{
				tok(token.INT, "1", 1, 1),
				tok(token.PERIOD, ".", 1, 2),
				tok(token.EOF, "\x00", 1, 3),
			},
		},
		{
			name:   "empty",
			source: "",
			want: []token.Token{
				tok(token.EOF, "\x00", 1, 1),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lex(tt.source)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := pretty.Diff(tt.want, got); len(diff) > 0 {
				t.Errorf("tokens differ:\n%s", pretty.Sprint(diff))
			}
		})
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"let x = @", "lex-error: 1:9: Unexpected character: @"},
		{"let s = \"abc", "lex-error: 1:9: Unterminated string literal."},
		{"\nlet s = \"a\nb\"", "lex-error: 2:9: Strings must be on a single line."},
		{"# $", "lex-error: 1:1: Unexpected character: #"},
	}

	for _, tt := range tests {
		tokens, err := Lex(tt.source)
		if tokens != nil {
			t.Errorf("%q: expected no tokens on error", tt.source)
		}

		var lexErr *Error
		if !errors.As(err, &lexErr) {
			t.Errorf("%q: expected *Error, got %v", tt.source, err)
			continue
		}
		if err.Error() != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.source, tt.want, err.Error())
		}
		if lexErr.ErrorToken().Pos != lexErr.Pos {
			t.Errorf("%q: error token does not carry the position", tt.source)
		}
	}
}
