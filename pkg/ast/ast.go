package ast

import (
	"fmt"
	"strings"

	"github.com/kartiknair/lswift/pkg/token"
)

// EntryFunctionName is the function every program starts executing from.
const EntryFunctionName = "main"

type BuiltinType int

const (
	Placeholder BuiltinType = iota
	Void
	Int
	Float
	String
	Bool
)

func (t BuiltinType) String() string {
	switch t {
	case Void:
		return "Void"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case String:
		return "String"
	case Bool:
		return "Bool"
	}
	return "_"
}

func (t BuiltinType) IsNumeric() bool {
	return t == Int || t == Float
}

// BuiltinTypeFromToken maps a type keyword to its builtin type.
func BuiltinTypeFromToken(t token.Token) (BuiltinType, bool) {
	switch t.Type {
	case token.INT_TYPE:
		return Int, true
	case token.FLOAT_TYPE:
		return Float, true
	case token.STRING_TYPE:
		return String, true
	case token.BOOL_TYPE:
		return Bool, true
	case token.VOID_TYPE:
		return Void, true
	}
	return Placeholder, false
}

type Mutability int

const (
	Immutable Mutability = iota // let
	Mutable                     // var
)

type Expression interface {
	isExpression()
	ErrorToken() token.Token
}

type IntegerLiteral struct {
	Token token.Token
	Value int32
}

type FloatLiteral struct {
	Token token.Token
	Value float64
}

type BoolLiteral struct {
	Token token.Token
	Value bool
}

type StringLiteral struct {
	Token token.Token
	Value string
}

// VariableDeclaration binds a name to a type. Its type may start out as a
// Placeholder, in which case it is inferred from the initializer during
// analysis.
type VariableDeclaration struct {
	Mutability Mutability
	Identifier token.Token

	typ BuiltinType
}

type Assignment struct {
	Variable *VariableDeclaration
	Value    Expression
}

type BinaryOperation struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

type PropertyAccess struct {
	Identifier token.Token
}

type FunctionCall struct {
	Identifier token.Token
	Arguments  []Expression
}

type FunctionSignature struct {
	Identifier token.Token
	Parameters []*VariableDeclaration
	ReturnType BuiltinType
}

type FunctionDeclaration struct {
	Signature *FunctionSignature
	Body      []Expression
}

type IfStatement struct {
	Condition Expression
	Body      []Expression

	IfToken token.Token
}

type ReturnStatement struct {
	Value Expression

	ReturnToken token.Token
}

type PrintStatement struct {
	Arguments []Expression

	PrintToken token.Token
}

func (*IntegerLiteral) isExpression()      {}
func (*FloatLiteral) isExpression()        {}
func (*BoolLiteral) isExpression()         {}
func (*StringLiteral) isExpression()       {}
func (*VariableDeclaration) isExpression() {}
func (*Assignment) isExpression()          {}
func (*BinaryOperation) isExpression()     {}
func (*PropertyAccess) isExpression()      {}
func (*FunctionCall) isExpression()        {}
func (*FunctionSignature) isExpression()   {}
func (*FunctionDeclaration) isExpression() {}
func (*IfStatement) isExpression()         {}
func (*ReturnStatement) isExpression()     {}
func (*PrintStatement) isExpression()      {}

func NewVariableDeclaration(mutability Mutability, identifier token.Token, typ BuiltinType) *VariableDeclaration {
	return &VariableDeclaration{
		Mutability: mutability,
		Identifier: identifier,
		typ:        typ,
	}
}

func (v *VariableDeclaration) Name() string {
	return v.Identifier.Lexeme
}

func (v *VariableDeclaration) Type() BuiltinType {
	return v.typ
}

func (v *VariableDeclaration) IsResolved() bool {
	return v.typ != Placeholder
}

// ResolveType replaces a Placeholder type with a concrete one. Only the
// analyzer may call it. The interpreter and the code generators read types
// through Type and never resolve anything. Once a declaration holds a
// concrete type every further call fails, so a resolved tree cannot be
// retyped.
func (v *VariableDeclaration) ResolveType(t BuiltinType) error {
	if v.typ != Placeholder {
		return fmt.Errorf("type of `%s` is already resolved to %s", v.Name(), v.typ)
	}
	if t == Placeholder {
		return fmt.Errorf("cannot resolve type of `%s` to a placeholder", v.Name())
	}
	v.typ = t
	return nil
}

func (s *FunctionSignature) Name() string {
	return s.Identifier.Lexeme
}

// Parameter returns the parameter declaration with the given name.
func (s *FunctionSignature) Parameter(name string) (int, *VariableDeclaration, bool) {
	for i, p := range s.Parameters {
		if p.Name() == name {
			return i, p, true
		}
	}
	return -1, nil, false
}

func (i *IntegerLiteral) ErrorToken() token.Token      { return i.Token }
func (f *FloatLiteral) ErrorToken() token.Token        { return f.Token }
func (b *BoolLiteral) ErrorToken() token.Token         { return b.Token }
func (s *StringLiteral) ErrorToken() token.Token       { return s.Token }
func (v *VariableDeclaration) ErrorToken() token.Token { return v.Identifier }
func (a *Assignment) ErrorToken() token.Token          { return a.Variable.Identifier }
func (b *BinaryOperation) ErrorToken() token.Token     { return b.Operator }
func (p *PropertyAccess) ErrorToken() token.Token      { return p.Identifier }
func (f *FunctionCall) ErrorToken() token.Token        { return f.Identifier }
func (s *FunctionSignature) ErrorToken() token.Token   { return s.Identifier }
func (f *FunctionDeclaration) ErrorToken() token.Token { return f.Signature.Identifier }
func (i *IfStatement) ErrorToken() token.Token         { return i.IfToken }
func (r *ReturnStatement) ErrorToken() token.Token     { return r.ReturnToken }
func (p *PrintStatement) ErrorToken() token.Token      { return p.PrintToken }

// LiteralType returns the fixed type of a literal expression.
func LiteralType(e Expression) (BuiltinType, bool) {
	switch e.(type) {
	case *IntegerLiteral:
		return Int, true
	case *FloatLiteral:
		return Float, true
	case *BoolLiteral:
		return Bool, true
	case *StringLiteral:
		return String, true
	}
	return Placeholder, false
}

// FindFunction returns the first top-level declaration with the given name.
func FindFunction(program []Expression, name string) (*FunctionDeclaration, bool) {
	for _, e := range program {
		if decl, ok := e.(*FunctionDeclaration); ok && decl.Signature.Name() == name {
			return decl, true
		}
	}
	return nil, false
}

// Program is one source file moving through the pipeline.
type Program struct {
	Path        string
	Source      string
	Tokens      []token.Token
	Expressions []Expression
}

func (p *Program) TokenSourceContext(t *token.Token) string {
	source := p.Source // copy the source

	source = strings.ReplaceAll(source, "\r\n", "\n")
	sourceLines := strings.Split(source, "\n")
	numLines := len(sourceLines)

	if t.Pos.Line < 1 || t.Pos.Line > numLines || t.Pos.Column < 1 {
		return ""
	}

	line := sourceLines[t.Pos.Line-1]
	column := t.Pos.Column
	if column > len(line)+1 {
		column = len(line) + 1
	}

	var highlightChar byte = '^'
	offsetHighlight := make([]byte, column)

	for i := 0; i < column-1; i++ {
		if line[i] == '\t' {
			offsetHighlight[i] = '\t'
		} else {
			offsetHighlight[i] = ' '
		}
	}

	offsetHighlight[column-1] = highlightChar

	if t.Pos.Line == 1 || numLines == 1 {
		return fmt.Sprintf(`
%4d | %s
     | %s`,
			t.Pos.Line,
			line,
			string(offsetHighlight),
		)
	} else if t.Pos.Line == numLines {
		return fmt.Sprintf(`
%4d | %s
%4d | %s
     | %s`,
			t.Pos.Line-1, sourceLines[t.Pos.Line-2],
			t.Pos.Line, line,
			string(offsetHighlight),
		)
	} else {
		return fmt.Sprintf(`
%4d | %s
%4d | %s
     | %s
%4d | %s`,
			t.Pos.Line-1, sourceLines[t.Pos.Line-2],
			t.Pos.Line, line,
			string(offsetHighlight),
			t.Pos.Line+1, sourceLines[t.Pos.Line],
		)
	}
}
