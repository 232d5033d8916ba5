package interpreter

import (
	"math"
	"strconv"
	"strings"

	"github.com/kartiknair/lswift/pkg/ast"
	"github.com/kartiknair/lswift/pkg/token"
	"golang.org/x/exp/constraints"
)

type ValueType int

const (
	Invalid ValueType = iota
	IntValue
	FloatValue
	StringValue
	BoolValue
	VoidValue
)

func (t ValueType) String() string {
	switch t {
	case IntValue:
		return "Int"
	case FloatValue:
		return "Float"
	case StringValue:
		return "String"
	case BoolValue:
		return "Bool"
	case VoidValue:
		return "Void"
	}
	return "invalid"
}

// Result is the value an expression evaluates to. The zero Result is
// invalid.
type Result struct {
	typ ValueType

	i int32
	f float64
	s string
	b bool
}

func IntResult(v int32) Result     { return Result{typ: IntValue, i: v} }
func FloatResult(v float64) Result { return Result{typ: FloatValue, f: v} }
func StringResult(v string) Result { return Result{typ: StringValue, s: v} }
func BoolResult(v bool) Result     { return Result{typ: BoolValue, b: v} }
func VoidResult() Result           { return Result{typ: VoidValue} }

func (r Result) Type() ValueType { return r.typ }

func (r Result) IsValid() bool { return r.typ != Invalid }

func (r Result) IsNumber() bool { return r.typ == IntValue || r.typ == FloatValue }

func (r Result) Int() int32     { return r.i }
func (r Result) Float() float64 { return r.f }
func (r Result) Str() string    { return r.s }
func (r Result) Bool() bool     { return r.b }

// String renders the value the way print writes it.
func (r Result) String() string {
	switch r.typ {
	case IntValue:
		return strconv.FormatInt(int64(r.i), 10)
	case FloatValue:
		return formatFloat(r.f)
	case StringValue:
		return strings.ReplaceAll(r.s, `"`, "")
	case BoolValue:
		return strconv.FormatBool(r.b)
	case VoidValue:
		return ""
	}
	return "<invalid>"
}

// formatFloat prints the shortest representation that round trips, always
// with a fractional part: 5 is "5.0", 0.1 is "0.1".
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ExpressionResult pairs an evaluated expression with its value.
type ExpressionResult struct {
	Expression ast.Expression
	Result     Result
}

type number interface {
	constraints.Integer | constraints.Float
}

// arithmetic applies a binary operator. Integer division by zero panics
// like any Go integer division.
func arithmetic[T number](op token.TokenType, lhs, rhs T) (T, bool) {
	switch op {
	case token.PLUS:
		return lhs + rhs, true
	case token.MINUS:
		return lhs - rhs, true
	case token.STAR:
		return lhs * rhs, true
	case token.SLASH:
		return lhs / rhs, true
	}

	var zero T
	return zero, false
}
