package parser

import (
	"fmt"

	"github.com/kartiknair/lswift/pkg/token"
)

// Expectation names the category of token the parser wanted but did not
// find.
type Expectation int

const (
	ExpectCharacter Expectation = iota
	ExpectStringLiteral
	ExpectBoolLiteral
	ExpectIdentifier
	ExpectNumber
	ExpectExpression
	ExpectPrint
	ExpectReturn
	ExpectFunction
	ExpectType
	ExpectVariable
	ExpectOperator
	ExpectOpenParen
	ExpectCloseParen
)

func (e Expectation) String() string {
	switch e {
	case ExpectCharacter:
		return "character"
	case ExpectStringLiteral:
		return "string literal"
	case ExpectBoolLiteral:
		return "bool literal"
	case ExpectIdentifier:
		return "identifier"
	case ExpectNumber:
		return "number"
	case ExpectExpression:
		return "expression"
	case ExpectPrint:
		return "`print`"
	case ExpectReturn:
		return "`return`"
	case ExpectFunction:
		return "`func`"
	case ExpectType:
		return "type"
	case ExpectVariable:
		return "`let` or `var`"
	case ExpectOperator:
		return "operator"
	case ExpectOpenParen:
		return "`(`"
	case ExpectCloseParen:
		return "`)`"
	}
	return "token"
}

// Error is the first syntax error of a parse. Character is only set for
// ExpectCharacter and holds the exact punctuation that was wanted.
type Error struct {
	Expected  Expectation
	Character string
	Token     token.Token
}

func (e *Error) ErrorToken() token.Token { return e.Token }

func (e *Error) Error() string {
	expected := e.Expected.String()
	if e.Expected == ExpectCharacter {
		expected = fmt.Sprintf("`%s`", e.Character)
	}

	found := e.Token.Lexeme
	if e.Token.Type == token.EOF {
		found = "end of file"
	}

	return fmt.Sprintf(
		"parse-error: %d:%d: expected %s, found '%s'",
		e.Token.Pos.Line, e.Token.Pos.Column, expected, found,
	)
}
