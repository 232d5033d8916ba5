package cgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kartiknair/lswift/pkg/ast"
)

const prelude = `#include <stdbool.h>
#include <stdio.h>

`

type generator struct {
	entry      string
	signatures map[string]*ast.FunctionSignature

	// per function
	signature *ast.FunctionSignature
	variables map[string]ast.BuiltinType
	indent    int
}

type Option func(*generator)

func WithEntry(name string) Option {
	return func(g *generator) {
		g.entry = name
	}
}

func genType(t ast.BuiltinType) string {
	switch t {
	case ast.Int:
		return "int"
	case ast.Float:
		return "double"
	case ast.Bool:
		return "bool"
	case ast.String:
		return "const char*"
	case ast.Void:
		return "void"
	}

	panic("Type has no C equivalent.")
}

func getFormatStringForType(t ast.BuiltinType) string {
	switch t {
	case ast.Int:
		return "%d"
	case ast.Float:
		return "%f"
	case ast.String, ast.Bool:
		return "%s"
	}

	panic("Invalid type passed to `getFormatStringForType`.")
}

func (g *generator) line(format string, args ...interface{}) string {
	return strings.Repeat("\t", g.indent) + fmt.Sprintf(format, args...) + "\n"
}

func (g *generator) genSignature(signature *ast.FunctionSignature) string {
	gennedParameters := ""

	if len(signature.Parameters) == 0 {
		gennedParameters = "void"
	}

	for i, param := range signature.Parameters {
		gennedParameters += genType(param.Type()) + " " + param.Name()
		if i != len(signature.Parameters)-1 {
			gennedParameters += ", "
		}
	}

	ret := genType(signature.ReturnType)
	if signature.Name() == g.entry {
		// C requires main to return int.
		ret = "int"
	}

	return fmt.Sprintf("%s %s(%s)", ret, signature.Name(), gennedParameters)
}

func (g *generator) genFunctionDeclaration(decl *ast.FunctionDeclaration) string {
	g.signature = decl.Signature
	g.variables = make(map[string]ast.BuiltinType)
	for _, param := range decl.Signature.Parameters {
		g.variables[param.Name()] = param.Type()
	}

	body := g.genBlock(decl.Body)
	if decl.Signature.Name() == g.entry {
		g.indent++
		body += g.line("return 0;")
		g.indent--
	}

	return fmt.Sprintf("%s {\n%s}\n", g.genSignature(decl.Signature), body)
}

func (g *generator) genBlock(body []ast.Expression) string {
	g.indent++
	gennedStatements := ""
	for _, statement := range body {
		gennedStatements += g.genStatement(statement)
	}
	g.indent--
	return gennedStatements
}

func (g *generator) genStatement(stmt ast.Expression) string {
	switch s := stmt.(type) {
	case *ast.Assignment:
		return g.genAssignment(s)
	case *ast.PrintStatement:
		return g.genPrintStatement(s)
	case *ast.ReturnStatement:
		return g.genReturnStatement(s)
	case *ast.IfStatement:
		return g.line("if (%s) {", g.genExpression(s.Condition)) + g.genBlock(s.Body) + g.line("}")
	}

	return g.line("%s;", g.genExpression(stmt))
}

func (g *generator) genAssignment(a *ast.Assignment) string {
	qualifier := ""
	if a.Variable.Mutability == ast.Immutable {
		qualifier = "const "
	}

	g.variables[a.Variable.Name()] = a.Variable.Type()

	return g.line(
		"%s%s %s = %s;",
		qualifier,
		genType(a.Variable.Type()),
		a.Variable.Name(),
		g.genExpression(a.Value),
	)
}

func (g *generator) genPrintStatement(p *ast.PrintStatement) string {
	arg := p.Arguments[0]
	t := g.typeOf(arg)

	value := g.genExpression(arg)
	if t == ast.Bool {
		value = fmt.Sprintf(`(%s) ? "true" : "false"`, value)
	}

	return g.line(`printf("%s\n", %s);`, getFormatStringForType(t), value)
}

func (g *generator) genReturnStatement(r *ast.ReturnStatement) string {
	if g.typeOf(r.Value) != ast.Void {
		return g.line("return %s;", g.genExpression(r.Value))
	}

	ret := "return;"
	if g.signature.Name() == g.entry {
		ret = "return 0;"
	}
	return g.line("%s;", g.genExpression(r.Value)) + g.line("%s", ret)
}

// typeOf recovers the type the analyzer gave expr.
func (g *generator) typeOf(expr ast.Expression) ast.BuiltinType {
	switch e := expr.(type) {
	case *ast.PropertyAccess:
		return g.variables[e.Identifier.Lexeme]
	case *ast.BinaryOperation:
		return g.typeOf(e.Left)
	case *ast.FunctionCall:
		if signature, ok := g.signatures[e.Identifier.Lexeme]; ok {
			return signature.ReturnType
		}
		return ast.Void
	}

	t, _ := ast.LiteralType(expr)
	return t
}

func (g *generator) genExpression(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return strconv.FormatInt(int64(e.Value), 10)
	case *ast.FloatLiteral:
		s := strconv.FormatFloat(e.Value, 'g', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s
	case *ast.BoolLiteral:
		return strconv.FormatBool(e.Value)
	case *ast.StringLiteral:
		return strconv.Quote(e.Value)
	case *ast.PropertyAccess:
		return e.Identifier.Lexeme
	case *ast.BinaryOperation:
		return fmt.Sprintf(
			"(%s %s %s)",
			g.genExpression(e.Left),
			e.Operator.Lexeme,
			g.genExpression(e.Right),
		)
	case *ast.FunctionCall:
		return g.genCallExpression(e)
	}

	panic("Expression node has invalid static type.")
}

func (g *generator) genCallExpression(call *ast.FunctionCall) string {
	gennedArguments := ""

	for i, arg := range call.Arguments {
		gennedArguments += g.genExpression(arg)
		if i != len(call.Arguments)-1 {
			gennedArguments += ", "
		}
	}

	return fmt.Sprintf("%s(%s)", call.Identifier.Lexeme, gennedArguments)
}

// Gen prints an analyzed program as C99. Every function is prototyped first
// so calls may appear before definitions, as they may in the source.
func Gen(program []ast.Expression, opts ...Option) string {
	g := &generator{
		entry:      ast.EntryFunctionName,
		signatures: make(map[string]*ast.FunctionSignature),
	}
	for _, opt := range opts {
		opt(g)
	}

	var order []*ast.FunctionSignature
	for _, expr := range program {
		var signature *ast.FunctionSignature
		switch e := expr.(type) {
		case *ast.FunctionSignature:
			signature = e
		case *ast.FunctionDeclaration:
			signature = e.Signature
		default:
			continue
		}

		if _, ok := g.signatures[signature.Name()]; !ok {
			order = append(order, signature)
		}
		g.signatures[signature.Name()] = signature
	}

	result := prelude
	for _, signature := range order {
		if signature.Name() == g.entry {
			continue
		}
		result += g.genSignature(g.signatures[signature.Name()]) + ";\n"
	}
	if len(order) > 1 {
		result += "\n"
	}

	for i, expr := range program {
		decl, ok := expr.(*ast.FunctionDeclaration)
		if !ok {
			continue
		}
		if i > 0 {
			result += "\n"
		}
		result += g.genFunctionDeclaration(decl)
	}

	return result
}
