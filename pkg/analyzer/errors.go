package analyzer

import (
	"fmt"

	"github.com/kartiknair/lswift/pkg/ast"
	"github.com/kartiknair/lswift/pkg/token"
)

func format(t token.Token, message string) string {
	return fmt.Sprintf("analysis-error: %d:%d: %s", t.Pos.Line, t.Pos.Column, message)
}

// EntryPointError means the program does not start with the entry function.
type EntryPointError struct {
	Name  string
	Token token.Token
}

func (e *EntryPointError) Error() string {
	return format(e.Token, fmt.Sprintf("The first top-level declaration must be the `%s` function.", e.Name))
}

type FunctionRedeclarationError struct {
	Name  string
	Count int
	Token token.Token
}

func (e *FunctionRedeclarationError) Error() string {
	return format(e.Token, fmt.Sprintf("Function `%s` is declared %d times.", e.Name, e.Count))
}

type ArityMismatchError struct {
	Name     string
	Expected int
	Got      int
	Token    token.Token
}

func (e *ArityMismatchError) Error() string {
	return format(e.Token, fmt.Sprintf(
		"Function `%s` requires %d parameters. Received %d arguments instead.",
		e.Name, e.Expected, e.Got,
	))
}

type TypeMismatchError struct {
	Expected ast.BuiltinType
	Got      ast.BuiltinType
	Token    token.Token
}

func (e *TypeMismatchError) Error() string {
	return format(e.Token, fmt.Sprintf("Expected type: '%s', got: '%s'.", e.Expected, e.Got))
}

// ArgumentTypeError is a call whose positional argument does not match the
// parameter type. Position is zero based.
type ArgumentTypeError struct {
	Name     string
	Position int
	Expected ast.BuiltinType
	Got      ast.BuiltinType
	Token    token.Token
}

func (e *ArgumentTypeError) Error() string {
	return format(e.Token, fmt.Sprintf(
		"Mismatched type for positional argument %d of `%s`. Expected: '%s', got: '%s'.",
		e.Position+1, e.Name, e.Expected, e.Got,
	))
}

type VariableRedeclarationError struct {
	Name  string
	Token token.Token
}

func (e *VariableRedeclarationError) Error() string {
	return format(e.Token, fmt.Sprintf("Redeclaration of variable `%s`.", e.Name))
}

// ImmutableVariableError is an assignment that targets a function parameter.
type ImmutableVariableError struct {
	Name  string
	Token token.Token
}

func (e *ImmutableVariableError) Error() string {
	return format(e.Token, fmt.Sprintf("Parameter `%s` cannot be modified.", e.Name))
}

type UnassignedVariableError struct {
	Name  string
	Token token.Token
}

func (e *UnassignedVariableError) Error() string {
	return format(e.Token, fmt.Sprintf("Variable `%s` must be initialized where it is declared.", e.Name))
}

type UndeclaredVariableError struct {
	Name  string
	Token token.Token
}

func (e *UndeclaredVariableError) Error() string {
	return format(e.Token, fmt.Sprintf("Variable `%s` is not declared.", e.Name))
}

// UseBeforeDeclarationError is a reference to a variable of the current
// function that is not visible yet at that point of the body.
type UseBeforeDeclarationError struct {
	Name  string
	Token token.Token
}

func (e *UseBeforeDeclarationError) Error() string {
	return format(e.Token, fmt.Sprintf("Variable `%s` is used before it is declared.", e.Name))
}

type UnknownFunctionError struct {
	Name  string
	Token token.Token
}

func (e *UnknownFunctionError) Error() string {
	return format(e.Token, fmt.Sprintf("Call to undeclared function `%s`.", e.Name))
}

type InvalidOperandError struct {
	Operator string
	Type     ast.BuiltinType
	Token    token.Token
}

func (e *InvalidOperandError) Error() string {
	return format(e.Token, fmt.Sprintf(
		"Operator: '%s' can only be used on numeric types (e.g. `Int`, `Float`), got: '%s'.",
		e.Operator, e.Type,
	))
}

// InvalidTypeError is a value position holding an expression without a
// usable type, such as a call to a Void function.
type InvalidTypeError struct {
	Reason string
	Token  token.Token
}

func (e *InvalidTypeError) Error() string {
	return format(e.Token, e.Reason)
}

type EmptyPrintError struct {
	Token token.Token
}

func (e *EmptyPrintError) Error() string {
	return format(e.Token, "`print` requires an argument.")
}

type InvalidExpressionError struct {
	Reason string
	Token  token.Token
}

func (e *InvalidExpressionError) Error() string {
	return format(e.Token, e.Reason)
}

// UnresolvedPlaceholderError reports a declaration whose inferred type was
// never resolved. Seeing it means the analyzer itself is broken.
type UnresolvedPlaceholderError struct {
	Name  string
	Token token.Token
}

func (e *UnresolvedPlaceholderError) Error() string {
	return format(e.Token, fmt.Sprintf("Type of `%s` could not be inferred.", e.Name))
}

func (e *EntryPointError) ErrorToken() token.Token            { return e.Token }
func (e *FunctionRedeclarationError) ErrorToken() token.Token { return e.Token }
func (e *ArityMismatchError) ErrorToken() token.Token         { return e.Token }
func (e *TypeMismatchError) ErrorToken() token.Token          { return e.Token }
func (e *ArgumentTypeError) ErrorToken() token.Token          { return e.Token }
func (e *VariableRedeclarationError) ErrorToken() token.Token { return e.Token }
func (e *ImmutableVariableError) ErrorToken() token.Token     { return e.Token }
func (e *UnassignedVariableError) ErrorToken() token.Token    { return e.Token }
func (e *UndeclaredVariableError) ErrorToken() token.Token    { return e.Token }
func (e *UseBeforeDeclarationError) ErrorToken() token.Token  { return e.Token }
func (e *UnknownFunctionError) ErrorToken() token.Token       { return e.Token }
func (e *InvalidOperandError) ErrorToken() token.Token        { return e.Token }
func (e *InvalidTypeError) ErrorToken() token.Token           { return e.Token }
func (e *EmptyPrintError) ErrorToken() token.Token            { return e.Token }
func (e *InvalidExpressionError) ErrorToken() token.Token     { return e.Token }
func (e *UnresolvedPlaceholderError) ErrorToken() token.Token { return e.Token }
