package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/kartiknair/lswift/pkg/ast"
	"github.com/kartiknair/lswift/pkg/parser"
	"github.com/kartiknair/lswift/pkg/token"
)

func init() {
	color.NoColor = true
}

func TestErrorWithContext(t *testing.T) {
	program := &ast.Program{
		Path:   "main.swift",
		Source: "func main() {\n\tprint(x)\n}\n",
	}
	err := &parser.Error{
		Expected: parser.ExpectExpression,
		Token:    token.Token{Lexeme: "x", Type: token.IDENTIFIER, Pos: token.Pos{Line: 2, Column: 8}},
	}

	var buf bytes.Buffer
	New(&buf, false).Error(program, err)

	out := buf.String()
	for _, want := range []string{
		"error: parse-error: 2:8: expected expression, found 'x'",
		" --> main.swift:2:8",
		"   2 | \tprint(x)",
		"     | \t      ^",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestErrorWithoutPosition(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Error(&ast.Program{Source: "func main() {}"}, errors.New("boom"))

	if got, want := buf.String(), "error: boom\n"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestTiming(t *testing.T) {
	var buf bytes.Buffer

	New(&buf, false).Timing("parsing", time.Millisecond)
	if buf.Len() != 0 {
		t.Errorf("expected no output with timing disabled, got %q", buf.String())
	}

	New(&buf, true).Timing("parsing", time.Millisecond)
	if got, want := buf.String(), "time: 1000us for parsing\n"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestStatus(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Status("Compiling %s", "main.swift")

	if got, want := buf.String(), "> Compiling main.swift\n"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
