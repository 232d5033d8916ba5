package parser

import (
	"strconv"
	"strings"

	"github.com/kartiknair/lswift/pkg/ast"
	"github.com/kartiknair/lswift/pkg/token"
)

type Parser struct {
	current int

	Tokens []token.Token
}

func (p *Parser) peek(distance int) token.Token {
	i := p.current + distance
	if i < 0 {
		i = 0
	}
	if i >= len(p.Tokens) {
		eof := token.Token{Type: token.EOF, Lexeme: "\x00"}
		if len(p.Tokens) > 0 {
			eof.Pos = p.Tokens[len(p.Tokens)-1].Pos
		}
		return eof
	}
	return p.Tokens[i]
}

func (p *Parser) advance() token.Token {
	t := p.peek(0)
	p.current++
	return t
}

func (p *Parser) isAtEnd() bool {
	return p.peek(0).Type == token.EOF
}

func (p *Parser) errorAt(t token.Token, expected Expectation) *Error {
	return &Error{Expected: expected, Token: t}
}

func (p *Parser) expect(typ token.TokenType, expected Expectation) (token.Token, error) {
	if p.peek(0).Type != typ {
		return token.Token{}, p.errorAt(p.peek(0), expected)
	}

	return p.advance(), nil
}

func (p *Parser) expectCharacter(typ token.TokenType) (token.Token, error) {
	if p.peek(0).Type != typ {
		return token.Token{}, &Error{
			Expected:  ExpectCharacter,
			Character: typ.String(),
			Token:     p.peek(0),
		}
	}

	return p.advance(), nil
}

func (p *Parser) skipSemicolons() {
	for p.peek(0).Type == token.SEMICOLON {
		p.current++
	}
}

func (p *Parser) parseAnyExpression() (ast.Expression, error) {
	switch p.peek(0).Type {
	case token.FUNC:
		return p.parseFunctionDeclaration()
	case token.IF:
		return p.parseIfStatement()
	case token.LET, token.VAR:
		return p.parseVariableDeclarationOrAssignment()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.PRINT:
		return p.parsePrintStatement()
	}

	return p.parseSimpleOrOperatorExpression()
}

func (p *Parser) parseSimpleOrOperatorExpression() (ast.Expression, error) {
	lhs, err := p.parseSimpleExpression()
	if err != nil {
		return nil, err
	}
	return p.parseOperatorExpression(lhs, 0)
}

// parseOperatorExpression folds binary operators onto lhs by precedence
// climbing. An operator with strictly higher precedence than the one just
// consumed binds into the right operand; equal precedence associates to the
// left through the loop.
func (p *Parser) parseOperatorExpression(lhs ast.Expression, minPrecedence int) (ast.Expression, error) {
	for {
		lookahead := p.peek(0)
		if !lookahead.Type.IsBinaryOperator() || lookahead.Precedence() < minPrecedence {
			return lhs, nil
		}

		op, err := p.expectOperator()
		if err != nil {
			return nil, err
		}

		rhs, err := p.parseSimpleExpression()
		if err != nil {
			return nil, err
		}

		next := p.peek(0)
		if next.Type.IsBinaryOperator() && next.Precedence() > op.Precedence() {
			rhs, err = p.parseOperatorExpression(rhs, op.Precedence()+1)
			if err != nil {
				return nil, err
			}
		}

		lhs = &ast.BinaryOperation{Left: lhs, Operator: op, Right: rhs}
	}
}

func (p *Parser) expectOperator() (token.Token, error) {
	if !p.peek(0).Type.IsBinaryOperator() {
		return token.Token{}, p.errorAt(p.peek(0), ExpectOperator)
	}
	return p.advance(), nil
}

func (p *Parser) parseSimpleExpression() (ast.Expression, error) {
	t := p.peek(0)

	switch t.Type {
	case token.IDENTIFIER:
		return p.parseFunctionCallOrIdentifier()
	case token.INT:
		p.current++
		value, err := strconv.ParseInt(t.Lexeme, 10, 32)
		if err != nil {
			return nil, p.errorAt(t, ExpectNumber)
		}
		return &ast.IntegerLiteral{Token: t, Value: int32(value)}, nil
	case token.FLOAT:
		p.current++
		value, err := strconv.ParseFloat(t.Lexeme, 64)
		if err != nil {
			return nil, p.errorAt(t, ExpectNumber)
		}
		return &ast.FloatLiteral{Token: t, Value: value}, nil
	case token.TRUE, token.FALSE:
		p.current++
		return &ast.BoolLiteral{Token: t, Value: t.Type == token.TRUE}, nil
	case token.STRING:
		p.current++
		return &ast.StringLiteral{Token: t, Value: strings.ReplaceAll(t.Lexeme, `"`, "")}, nil
	case token.LEFT_PAREN:
		return p.parseParenthesis()
	}

	return nil, p.errorAt(t, ExpectExpression)
}

func (p *Parser) parseParenthesis() (ast.Expression, error) {
	if _, err := p.expect(token.LEFT_PAREN, ExpectOpenParen); err != nil {
		return nil, err
	}

	expr, err := p.parseSimpleOrOperatorExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.RIGHT_PAREN, ExpectCloseParen); err != nil {
		return nil, err
	}

	return expr, nil
}

func (p *Parser) parseFunctionCallOrIdentifier() (ast.Expression, error) {
	name, err := p.expect(token.IDENTIFIER, ExpectIdentifier)
	if err != nil {
		return nil, err
	}

	if p.peek(0).Type != token.LEFT_PAREN {
		return &ast.PropertyAccess{Identifier: name}, nil
	}

	arguments, err := p.parseCallArguments()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionCall{Identifier: name, Arguments: arguments}, nil
}

func (p *Parser) parseCallArguments() ([]ast.Expression, error) {
	if _, err := p.expect(token.LEFT_PAREN, ExpectOpenParen); err != nil {
		return nil, err
	}

	arguments := []ast.Expression{}
	if p.peek(0).Type != token.RIGHT_PAREN {
		for {
			arg, err := p.parseSimpleOrOperatorExpression()
			if err != nil {
				return nil, err
			}
			arguments = append(arguments, arg)

			if p.peek(0).Type != token.COMMA {
				break
			} else {
				p.current++ // skip the comma
			}
		}
	}

	if _, err := p.expect(token.RIGHT_PAREN, ExpectCloseParen); err != nil {
		return nil, err
	}

	return arguments, nil
}

func (p *Parser) parseIfStatement() (*ast.IfStatement, error) {
	ifToken, err := p.expectCharacter(token.IF)
	if err != nil {
		return nil, err
	}

	condition, err := p.parseSimpleOrOperatorExpression()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}

	return &ast.IfStatement{
		Condition: condition,
		Body:      body,
		IfToken:   ifToken,
	}, nil
}

// parseBody parses a brace delimited list of expressions. An empty body is
// valid.
func (p *Parser) parseBody() ([]ast.Expression, error) {
	if _, err := p.expectCharacter(token.LEFT_BRACE); err != nil {
		return nil, err
	}

	body := []ast.Expression{}
	for {
		p.skipSemicolons()

		if p.peek(0).Type == token.RIGHT_BRACE {
			p.current++
			break
		}
		if p.isAtEnd() {
			return nil, &Error{Expected: ExpectCharacter, Character: "}", Token: p.peek(0)}
		}

		expr, err := p.parseAnyExpression()
		if err != nil {
			return nil, err
		}
		body = append(body, expr)
	}

	return body, nil
}

func (p *Parser) parseReturnStatement() (*ast.ReturnStatement, error) {
	returnToken, err := p.expect(token.RETURN, ExpectReturn)
	if err != nil {
		return nil, err
	}

	value, err := p.parseSimpleOrOperatorExpression()
	if err != nil {
		return nil, err
	}

	return &ast.ReturnStatement{Value: value, ReturnToken: returnToken}, nil
}

func (p *Parser) parsePrintStatement() (*ast.PrintStatement, error) {
	printToken, err := p.expect(token.PRINT, ExpectPrint)
	if err != nil {
		return nil, err
	}

	arguments, err := p.parseCallArguments()
	if err != nil {
		return nil, err
	}

	return &ast.PrintStatement{Arguments: arguments, PrintToken: printToken}, nil
}

func (p *Parser) parseVariableDeclarationOrAssignment() (ast.Expression, error) {
	var mutability ast.Mutability

	switch p.peek(0).Type {
	case token.LET:
		mutability = ast.Immutable
	case token.VAR:
		mutability = ast.Mutable
	default:
		return nil, p.errorAt(p.peek(0), ExpectVariable)
	}
	p.current++

	name, err := p.expect(token.IDENTIFIER, ExpectIdentifier)
	if err != nil {
		return nil, err
	}

	// `let x = value` carries no annotation, the type is inferred during
	// analysis.
	if p.peek(0).Type == token.EQUAL {
		p.current++
		value, err := p.parseSimpleOrOperatorExpression()
		if err != nil {
			return nil, err
		}

		return &ast.Assignment{
			Variable: ast.NewVariableDeclaration(mutability, name, ast.Placeholder),
			Value:    value,
		}, nil
	}

	if _, err := p.expectCharacter(token.COLON); err != nil {
		return nil, err
	}

	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}

	variable := ast.NewVariableDeclaration(mutability, name, typ)

	if p.peek(0).Type != token.EQUAL {
		return variable, nil
	}
	p.current++

	value, err := p.parseSimpleOrOperatorExpression()
	if err != nil {
		return nil, err
	}

	return &ast.Assignment{Variable: variable, Value: value}, nil
}

func (p *Parser) parseType() (ast.BuiltinType, error) {
	t := p.peek(0)
	typ, ok := ast.BuiltinTypeFromToken(t)
	if !ok {
		return ast.Placeholder, p.errorAt(t, ExpectType)
	}

	p.current++
	return typ, nil
}

// parseFunctionDeclaration parses `func name(params) -> Type { body }`. A
// signature that is not followed by a body is returned on its own as a
// forward declaration.
func (p *Parser) parseFunctionDeclaration() (ast.Expression, error) {
	if _, err := p.expect(token.FUNC, ExpectFunction); err != nil {
		return nil, err
	}

	signature, err := p.parseFunctionSignature()
	if err != nil {
		return nil, err
	}

	if p.peek(0).Type != token.LEFT_BRACE {
		return signature, nil
	}

	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionDeclaration{Signature: signature, Body: body}, nil
}

func (p *Parser) parseFunctionSignature() (*ast.FunctionSignature, error) {
	name, err := p.expect(token.IDENTIFIER, ExpectIdentifier)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.LEFT_PAREN, ExpectOpenParen); err != nil {
		return nil, err
	}

	parameters := []*ast.VariableDeclaration{}
	if p.peek(0).Type != token.RIGHT_PAREN {
		for {
			paramName, err := p.expect(token.IDENTIFIER, ExpectIdentifier)
			if err != nil {
				return nil, err
			}
			if _, err := p.expectCharacter(token.COLON); err != nil {
				return nil, err
			}
			paramType, err := p.parseType()
			if err != nil {
				return nil, err
			}

			parameters = append(parameters, ast.NewVariableDeclaration(ast.Immutable, paramName, paramType))

			if p.peek(0).Type != token.COMMA {
				break
			} else {
				p.current++ // skip the comma
			}
		}
	}

	if _, err := p.expect(token.RIGHT_PAREN, ExpectCloseParen); err != nil {
		return nil, err
	}

	returnType := ast.Void
	if p.peek(0).Type == token.ARROW {
		p.current++
		returnType, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}

	return &ast.FunctionSignature{
		Identifier: name,
		Parameters: parameters,
		ReturnType: returnType,
	}, nil
}

// Parse consumes the whole token stream and returns the top-level
// expressions in source order. It stops at the first syntax error.
func Parse(tokens []token.Token) ([]ast.Expression, error) {
	p := Parser{Tokens: tokens}

	result := []ast.Expression{}

	for {
		p.skipSemicolons()
		if p.isAtEnd() {
			break
		}

		expr, err := p.parseAnyExpression()
		if err != nil {
			return nil, err
		}
		result = append(result, expr)
	}

	return result, nil
}
