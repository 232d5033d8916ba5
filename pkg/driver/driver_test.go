package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/kartiknair/lswift/pkg/analyzer"
	"github.com/kartiknair/lswift/pkg/ast"
	"github.com/kartiknair/lswift/pkg/config"
	"github.com/kartiknair/lswift/pkg/lexer"
	"github.com/kartiknair/lswift/pkg/parser"
	"github.com/kartiknair/lswift/pkg/report"
)

const sumProgram = `func main() {
	let a: Int = 2
	let b: Int = 3
	print(a + b)
}
`

func newDriver(stderr *bytes.Buffer, timing bool) *Driver {
	c := config.DefaultConfig()
	c.Timing = timing
	return New(c, report.New(stderr, timing))
}

func TestPipeline(t *testing.T) {
	var stderr bytes.Buffer
	d := newDriver(&stderr, false)

	p, err := d.Compile("sum.swift", sumProgram)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	results, err := d.Interpret(p, &out)
	if err != nil {
		t.Fatal(err)
	}
	if out.String() != "5\n" {
		t.Errorf("expected %q, got %q", "5\n", out.String())
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	m, err := d.EmitIR(p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(m.String(), `source_filename = "sum.swift"`) {
		t.Errorf("expected source filename in:\n%s", m.String())
	}

	if c := d.EmitC(p); !strings.Contains(c, "int main(void)") {
		t.Errorf("expected a C main in:\n%s", c)
	}

	if stderr.Len() != 0 {
		t.Errorf("expected no diagnostics, got %q", stderr.String())
	}
}

func TestTimings(t *testing.T) {
	var stderr bytes.Buffer
	d := newDriver(&stderr, true)

	if _, err := d.Compile("sum.swift", sumProgram); err != nil {
		t.Fatal(err)
	}

	for _, stage := range []string{"lexing", "parsing", "analysis"} {
		if !strings.Contains(stderr.String(), "for "+stage) {
			t.Errorf("expected a timing for %s in:\n%s", stage, stderr.String())
		}
	}
}

func TestCompileErrors(t *testing.T) {
	d := newDriver(&bytes.Buffer{}, false)

	t.Run("lexer", func(t *testing.T) {
		_, err := d.Compile("bad.swift", "func main() { @ }")
		var lexErr *lexer.Error
		if !errors.As(err, &lexErr) {
			t.Errorf("expected *lexer.Error, got %v", err)
		}
	})

	t.Run("parser", func(t *testing.T) {
		_, err := d.Compile("bad.swift", "func main() { let = 1 }")
		var parseErr *parser.Error
		if !errors.As(err, &parseErr) {
			t.Errorf("expected *parser.Error, got %v", err)
		}
	})

	t.Run("analyzer", func(t *testing.T) {
		p, err := d.Compile("bad.swift", "func main() { print(x) }")
		var undeclared *analyzer.UndeclaredVariableError
		if !errors.As(err, &undeclared) {
			t.Errorf("expected *analyzer.UndeclaredVariableError, got %v", err)
		}
		if p == nil || p.Source == "" {
			t.Error("expected the program to be returned for error context")
		}
	})
}

func TestLoad(t *testing.T) {
	d := newDriver(&bytes.Buffer{}, false)
	dir := t.TempDir()

	path := filepath.Join(dir, "sum.lswift")
	if err := os.WriteFile(path, []byte(sumProgram), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Load(path); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	_, err := d.Load(filepath.Join(dir, "sum.txt"))
	var extErr *ExtensionError
	if !errors.As(err, &extErr) {
		t.Errorf("expected *ExtensionError, got %v", err)
	}

	if _, err := d.Load(filepath.Join(dir, "missing.swift")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}

func TestBuildExecutableMissingCompiler(t *testing.T) {
	var stderr bytes.Buffer
	d := newDriver(&stderr, false)
	d.Config.CC = filepath.Join(t.TempDir(), "no-such-clang")

	err := d.BuildExecutable(context.Background(), "", filepath.Join(t.TempDir(), "a.out"))
	if err == nil || !strings.Contains(err.Error(), "compiling LLVM IR") {
		t.Errorf("expected a compile error, got %v", err)
	}
}

func TestRunIRMissingInterpreter(t *testing.T) {
	var stderr bytes.Buffer
	d := newDriver(&stderr, false)
	d.Config.LLI = filepath.Join(t.TempDir(), "no-such-lli")

	var out bytes.Buffer
	err := d.RunIR(context.Background(), "", &out)
	if err == nil || !strings.Contains(err.Error(), "running LLVM IR with "+d.Config.LLI) {
		t.Errorf("expected a run error, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

func TestRunIR(t *testing.T) {
	lli, err := exec.LookPath("lli")
	if err != nil {
		t.Skip("lli not installed")
	}

	d := newDriver(&bytes.Buffer{}, false)
	d.Config.LLI = lli

	p, err := d.Compile("sum.swift", sumProgram)
	if err != nil {
		t.Fatal(err)
	}
	m, err := d.EmitIR(p)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := d.RunIR(context.Background(), m.String(), &out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "5\n" {
		t.Errorf("expected %q, got %q", "5\n", out.String())
	}

	// Malformed IR is reported with lli's diagnostics.
	if err := d.RunIR(context.Background(), "define", &bytes.Buffer{}); err == nil {
		t.Error("expected an error for malformed IR")
	}
}

// declarationTypes lists the type of every declaration in program, in
// source order.
func declarationTypes(program []ast.Expression) []ast.BuiltinType {
	var types []ast.BuiltinType

	var walk func(exprs []ast.Expression)
	walk = func(exprs []ast.Expression) {
		for _, expr := range exprs {
			switch e := expr.(type) {
			case *ast.FunctionDeclaration:
				for _, p := range e.Signature.Parameters {
					types = append(types, p.Type())
				}
				walk(e.Body)
			case *ast.IfStatement:
				walk(e.Body)
			case *ast.Assignment:
				types = append(types, e.Variable.Type())
			case *ast.VariableDeclaration:
				types = append(types, e.Type())
			}
		}
	}
	walk(program)

	return types
}

func TestBackendsLeaveTypesAlone(t *testing.T) {
	d := newDriver(&bytes.Buffer{}, false)
	p, err := d.Compile("types.swift", `func main() {
	let a = 2
	let s = "text"
	if isSmall(a) {
		let half = 1.5
		print(half)
	}
	print(s)
}

func isSmall(n: Int) -> Bool {
	return true
}
`)
	if err != nil {
		t.Fatal(err)
	}

	want := []ast.BuiltinType{ast.Int, ast.String, ast.Float, ast.Int}
	if got := declarationTypes(p.Expressions); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v after analysis, got %v", want, got)
	}

	if _, err := d.Interpret(p, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	if _, err := d.EmitIR(p); err != nil {
		t.Fatal(err)
	}
	d.EmitC(p)

	if got := declarationTypes(p.Expressions); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v after the backends ran, got %v", want, got)
	}
}

func TestDumps(t *testing.T) {
	d := newDriver(&bytes.Buffer{}, false)
	p, err := d.Compile("sum.swift", sumProgram)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	DumpTokens(&buf, p.Tokens)
	if !strings.Contains(buf.String(), `"main"`) {
		t.Errorf("expected the main token in:\n%s", buf.String())
	}

	buf.Reset()
	DumpAST(&buf, p.Expressions)
	if !strings.Contains(buf.String(), "FunctionDeclaration") {
		t.Errorf("expected a function declaration in:\n%s", buf.String())
	}

	buf.Reset()
	if err := HighlightIR(&buf, "define void @main() {\n\tret void\n}\n", false); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "define void @main()") {
		t.Errorf("expected IR unchanged without color, got %q", buf.String())
	}
}
