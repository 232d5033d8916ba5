package lexer

import (
	"fmt"
	"unicode"

	"github.com/kartiknair/lswift/pkg/token"
)

// Error is returned for a lexeme the scanner cannot recognize. Lexing stops
// at the first one.
type Error struct {
	Pos     token.Pos
	Message string
}

// ErrorToken gives the error a position so it can be reported with source
// context like the later stages.
func (e *Error) ErrorToken() token.Token {
	return token.Token{Pos: e.Pos}
}

func (e *Error) Error() string {
	return fmt.Sprintf("lex-error: %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

type Lexer struct {
	start     int
	current   int
	line      int
	lineBegin int
	tokens    []token.Token
	err       *Error

	Source string
}

func (l *Lexer) lexError(message string) {
	if l.err != nil {
		return
	}
	l.err = &Error{
		Pos:     token.Pos{Line: l.line, Column: l.start - l.lineBegin + 1},
		Message: message,
	}
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.Source)
}

func (l *Lexer) advance() byte {
	l.current++
	return l.Source[l.current-1]
}

func (l *Lexer) match(c byte) bool {
	if l.isAtEnd() {
		return false
	} else if l.Source[l.current] == c {
		l.current++
		return true
	} else {
		return false
	}
}

func (l *Lexer) peek(distanceOptionalShim ...int) byte {
	distance := 0

	if len(distanceOptionalShim) > 0 {
		distance = distanceOptionalShim[0]
	}

	if l.current+distance >= len(l.Source) {
		return 0
	}

	return l.Source[l.current+distance]
}

func (l *Lexer) addToken(typ token.TokenType, lexeme string) {
	if lexeme == "" {
		lexeme = l.Source[l.start:l.current]
	}

	l.tokens = append(l.tokens, token.Token{
		Lexeme: lexeme,
		Type:   typ,
		Pos:    token.Pos{Line: l.line, Column: l.start - l.lineBegin + 1},
	})
}

func isDigit(b byte) bool {
	return unicode.IsDigit(rune(b))
}

func isAlphaNumeric(b byte) bool {
	return unicode.IsDigit(rune(b)) || unicode.IsLetter(rune(b)) || b == '_'
}

func (l *Lexer) lexString() {
	for l.peek() != '"' && !l.isAtEnd() {
		if l.peek() == '\n' {
			l.lexError("Strings must be on a single line.")
			return
		}

		l.advance()
	}

	if l.isAtEnd() {
		l.lexError("Unterminated string literal.")
		return
	}

	l.advance()

	value := l.Source[l.start+1 : l.current-1]
	if value == "" {
		// An empty literal carries no lexeme, so keep the quotes around.
		value = `""`
	}
	l.addToken(token.STRING, value)
}

func (l *Lexer) lexNumber() {
	t := token.INT

	for isDigit(l.peek()) {
		l.advance()
	}

	// Look for a fractional part.
	if l.peek() == '.' && isDigit(l.peek(1)) {
		t = token.FLOAT

		// Consume the "."
		l.advance()

		for isDigit(l.peek()) {
			l.advance()
		}
	}

	l.addToken(t, "")
}

func (l *Lexer) lexIdent() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}

	text := l.Source[l.start:l.current]

	switch text {
	case "true":
		l.addToken(token.TRUE, text)
		return
	case "false":
		l.addToken(token.FALSE, text)
		return
	}

	for i, kw := range token.Keywords {
		if kw == text {
			l.addToken(token.TokenType(int(token.KEYWORD_BEGIN)+i+1), text)
			return
		}
	}

	l.addToken(token.IDENTIFIER, text)
}

func (l *Lexer) ScanToken() {
	c := l.advance()

	switch c {
	case '(':
		l.addToken(token.LEFT_PAREN, "")
	case ')':
		l.addToken(token.RIGHT_PAREN, "")
	case '{':
		l.addToken(token.LEFT_BRACE, "")
	case '}':
		l.addToken(token.RIGHT_BRACE, "")
	case ',':
		l.addToken(token.COMMA, "")
	case '.':
		l.addToken(token.PERIOD, "")
	case ':':
		l.addToken(token.COLON, "")
	case ';':
		l.addToken(token.SEMICOLON, "")
	case '=':
		l.addToken(token.EQUAL, "")
	case '+':
		l.addToken(token.PLUS, "")
	case '*':
		l.addToken(token.STAR, "")
	case '-':
		if l.match('>') {
			l.addToken(token.ARROW, "")
		} else {
			l.addToken(token.MINUS, "")
		}
	case '/':
		if l.match('/') {
			// a comment goes until the end of the line.
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		} else {
			l.addToken(token.SLASH, "")
		}
	case ' ', '\r', '\t':
		// ignore whitespace.
	case '\n':
		l.line++
		l.lineBegin = l.current
	case '"':
		l.lexString()
	default:
		if isDigit(c) {
			l.lexNumber()
		} else if unicode.IsLetter(rune(c)) || c == '_' {
			l.lexIdent()
		} else {
			l.lexError(fmt.Sprintf("Unexpected character: %c", c))
		}
	}
}

// Lex turns source text into a token stream terminated by a single EOF
// token.
func Lex(source string) ([]token.Token, error) {
	l := Lexer{Source: source, line: 1}

	for !l.isAtEnd() && l.err == nil {
		// we are at the beginning of the next lexeme.
		l.start = l.current
		l.ScanToken()
	}

	if l.err != nil {
		return nil, l.err
	}

	l.start = l.current
	l.addToken(token.EOF, "\x00")
	return l.tokens, nil
}
