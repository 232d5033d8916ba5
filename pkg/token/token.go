package token

import "math"

type TokenType int

const (
	STRING TokenType = iota
	INT
	FLOAT
	TRUE
	FALSE
	IDENTIFIER
	EOF

	KEYWORD_BEGIN
	FUNC
	LET
	VAR
	IF
	ELSE
	RETURN
	PRINT
	ENUM
	CASE
	INT_TYPE
	FLOAT_TYPE
	BOOL_TYPE
	STRING_TYPE
	VOID_TYPE
	KEYWORD_END

	COLON
	SEMICOLON
	LEFT_PAREN
	RIGHT_PAREN
	LEFT_BRACE
	RIGHT_BRACE
	COMMA
	PERIOD
	ARROW
	EQUAL

	binaryop_begin
	PLUS
	MINUS
	STAR
	SLASH
	binaryop_end
)

var names = map[TokenType]string{
	STRING:      "string",
	INT:         "int",
	FLOAT:       "float",
	TRUE:        "true",
	FALSE:       "false",
	IDENTIFIER:  "identifier",
	EOF:         "end of file",
	FUNC:        "func",
	LET:         "let",
	VAR:         "var",
	IF:          "if",
	ELSE:        "else",
	RETURN:      "return",
	PRINT:       "print",
	ENUM:        "enum",
	CASE:        "case",
	INT_TYPE:    "Int",
	FLOAT_TYPE:  "Float",
	BOOL_TYPE:   "Bool",
	STRING_TYPE: "String",
	VOID_TYPE:   "Void",
	COLON:       ":",
	SEMICOLON:   ";",
	LEFT_PAREN:  "(",
	RIGHT_PAREN: ")",
	LEFT_BRACE:  "{",
	RIGHT_BRACE: "}",
	COMMA:       ",",
	PERIOD:      ".",
	ARROW:       "->",
	EQUAL:       "=",
	PLUS:        "+",
	MINUS:       "-",
	STAR:        "*",
	SLASH:       "/",
}

func (t TokenType) String() string {
	if name, ok := names[t]; ok {
		return name
	}
	return "unknown"
}

func (t TokenType) IsBinaryOperator() bool {
	return t > binaryop_begin && t < binaryop_end
}

func (t TokenType) IsKeyword() bool {
	return t > KEYWORD_BEGIN && t < KEYWORD_END
}

// IsConstant reports whether the token is a literal value.
func (t TokenType) IsConstant() bool {
	return t == INT || t == FLOAT || t == STRING || t == TRUE || t == FALSE
}

func (t TokenType) IsTypeName() bool {
	return t >= INT_TYPE && t <= VOID_TYPE
}

type PrecedenceClass int

const (
	NoPrecedence PrecedenceClass = iota
	Addition
	Multiplication
)

// Precedence values used by the operator parser. Anything that is not a
// binary operator sits below every real operator.
const (
	AdditionPrecedence       = 140
	MultiplicationPrecedence = 150
	MinPrecedence            = math.MinInt32
)

func (t TokenType) PrecedenceClass() PrecedenceClass {
	switch t {
	case PLUS, MINUS:
		return Addition
	case STAR, SLASH:
		return Multiplication
	}
	return NoPrecedence
}

type Token struct {
	Lexeme string
	Type   TokenType
	Pos    Pos
}

// Precedence returns the binding power of the token when it is used as a
// binary operator.
func (t Token) Precedence() int {
	switch t.Type.PrecedenceClass() {
	case Addition:
		return AdditionPrecedence
	case Multiplication:
		return MultiplicationPrecedence
	}
	return MinPrecedence
}

type Pos struct {
	Line   int
	Column int
}

// Keywords is indexed in the same order as the keyword block of TokenType.
var Keywords = [...]string{
	"func",
	"let",
	"var",
	"if",
	"else",
	"return",
	"print",
	"enum",
	"case",
	"Int",
	"Float",
	"Bool",
	"String",
	"Void",
}
