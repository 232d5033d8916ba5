package parser

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kartiknair/lswift/pkg/ast"
	"github.com/kartiknair/lswift/pkg/lexer"
)

func parse(t *testing.T, source string) ([]ast.Expression, error) {
	t.Helper()

	tokens, err := lexer.Lex(source)
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	return Parse(tokens)
}

// sexpr renders an expression with explicit grouping so tests can compare
// tree shapes as text.
func sexpr(e ast.Expression) string {
	switch e := e.(type) {
	case *ast.IntegerLiteral:
		return fmt.Sprint(e.Value)
	case *ast.FloatLiteral:
		return fmt.Sprint(e.Value)
	case *ast.BoolLiteral:
		return fmt.Sprint(e.Value)
	case *ast.StringLiteral:
		return fmt.Sprintf("%q", e.Value)
	case *ast.PropertyAccess:
		return e.Identifier.Lexeme
	case *ast.BinaryOperation:
		return fmt.Sprintf("(%s %s %s)", sexpr(e.Left), e.Operator.Lexeme, sexpr(e.Right))
	case *ast.FunctionCall:
		args := make([]string, len(e.Arguments))
		for i, a := range e.Arguments {
			args[i] = sexpr(a)
		}
		return fmt.Sprintf("%s(%s)", e.Identifier.Lexeme, strings.Join(args, ", "))
	}
	return fmt.Sprintf("<%T>", e)
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3 * 4", "((1 * 2) + (3 * 4))"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"8 / 4 / 2", "((8 / 4) / 2)"},
		{"1 + 2 * 3 - 4", "((1 + (2 * 3)) - 4)"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"a * f(b + 1, 2)", "(a * f((b + 1), 2))"},
		{"1.5 + x", "(1.5 + x)"},
		{"42", "42"},
	}

	for _, tt := range tests {
		program, err := parse(t, tt.source)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.source, err)
			continue
		}
		if len(program) != 1 {
			t.Errorf("%q: expected 1 expression, got %d", tt.source, len(program))
			continue
		}
		if got := sexpr(program[0]); got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.source, tt.want, got)
		}
	}
}

func TestFunctionDeclaration(t *testing.T) {
	program, err := parse(t, `
func main() {
	let x = add(1, 2);
	print(x)
}

func add(a: Int, b: Int) -> Int {
	return a + b
}

func ext(s: String)
`)
	if err != nil {
		t.Fatal(err)
	}
	if len(program) != 3 {
		t.Fatalf("expected 3 top-level expressions, got %d", len(program))
	}

	main, ok := program[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("expected a function declaration, got %T", program[0])
	}
	if main.Signature.Name() != "main" || main.Signature.ReturnType != ast.Void {
		t.Errorf("unexpected signature %s -> %s", main.Signature.Name(), main.Signature.ReturnType)
	}
	if len(main.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(main.Body))
	}

	assignment, ok := main.Body[0].(*ast.Assignment)
	if !ok {
		t.Fatalf("expected an assignment, got %T", main.Body[0])
	}
	if assignment.Variable.Name() != "x" || assignment.Variable.Type() != ast.Placeholder {
		t.Errorf("expected an unresolved x, got %s: %s", assignment.Variable.Name(), assignment.Variable.Type())
	}
	if got := sexpr(assignment.Value); got != "add(1, 2)" {
		t.Errorf("expected add(1, 2), got %s", got)
	}

	if _, ok := main.Body[1].(*ast.PrintStatement); !ok {
		t.Errorf("expected a print statement, got %T", main.Body[1])
	}

	add := program[1].(*ast.FunctionDeclaration)
	if len(add.Signature.Parameters) != 2 || add.Signature.ReturnType != ast.Int {
		t.Errorf("unexpected signature for add")
	}
	for _, p := range add.Signature.Parameters {
		if p.Mutability != ast.Immutable || p.Type() != ast.Int {
			t.Errorf("parameter %s should be an immutable Int", p.Name())
		}
	}

	ext, ok := program[2].(*ast.FunctionSignature)
	if !ok {
		t.Fatalf("expected a bare signature, got %T", program[2])
	}
	if ext.Name() != "ext" || ext.Parameters[0].Type() != ast.String {
		t.Errorf("unexpected signature for ext")
	}
}

func TestStatements(t *testing.T) {
	program, err := parse(t, `
func main() {
	var a: Float = 1.5
	let b: Bool
	if true {
		print("yes")
	}
}
`)
	if err != nil {
		t.Fatal(err)
	}

	body := program[0].(*ast.FunctionDeclaration).Body
	if len(body) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(body))
	}

	a := body[0].(*ast.Assignment)
	if a.Variable.Mutability != ast.Mutable || a.Variable.Type() != ast.Float {
		t.Errorf("expected a mutable Float")
	}

	b := body[1].(*ast.VariableDeclaration)
	if b.Mutability != ast.Immutable || b.Type() != ast.Bool {
		t.Errorf("expected an immutable Bool")
	}

	ifStatement := body[2].(*ast.IfStatement)
	if sexpr(ifStatement.Condition) != "true" || len(ifStatement.Body) != 1 {
		t.Errorf("unexpected if statement")
	}
	p := ifStatement.Body[0].(*ast.PrintStatement)
	if len(p.Arguments) != 1 || sexpr(p.Arguments[0]) != `"yes"` {
		t.Errorf("unexpected print arguments")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		source   string
		expected Expectation
		want     string
	}{
		{"func main() { let = 1 }", ExpectIdentifier, "parse-error: 1:19: expected identifier, found '='"},
		{"func main() { let x 1 }", ExpectCharacter, "parse-error: 1:21: expected `:`, found '1'"},
		{"func main() { let x: Number = 1 }", ExpectType, "parse-error: 1:22: expected type, found 'Number'"},
		{"func main() {", ExpectCharacter, "parse-error: 1:14: expected `}`, found 'end of file'"},
		{"func (", ExpectIdentifier, "parse-error: 1:6: expected identifier, found '('"},
		{"f(1, )", ExpectExpression, "parse-error: 1:6: expected expression, found ')'"},
		{"(1 + 2", ExpectCloseParen, "parse-error: 1:7: expected `)`, found 'end of file'"},
		{"print 1", ExpectOpenParen, "parse-error: 1:7: expected `(`, found '1'"},
		{"func main() { {} }", ExpectExpression, "parse-error: 1:15: expected expression, found '{'"},
		{"let x = 99999999999", ExpectNumber, "parse-error: 1:9: expected number, found '99999999999'"},
	}

	for _, tt := range tests {
		program, err := parse(t, tt.source)
		if program != nil {
			t.Errorf("%q: expected no program on error", tt.source)
		}

		var parseErr *Error
		if !errors.As(err, &parseErr) {
			t.Errorf("%q: expected *Error, got %v", tt.source, err)
			continue
		}
		if parseErr.Expected != tt.expected {
			t.Errorf("%q: expected %s, got %s", tt.source, tt.expected, parseErr.Expected)
		}
		if err.Error() != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.source, tt.want, err.Error())
		}
	}
}
