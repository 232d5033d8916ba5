package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/chroma/quick"
	"github.com/alecthomas/repr"
	"github.com/kartiknair/lswift/pkg/analyzer"
	"github.com/kartiknair/lswift/pkg/ast"
	"github.com/kartiknair/lswift/pkg/config"
	"github.com/kartiknair/lswift/pkg/gen"
	llvmgen "github.com/kartiknair/lswift/pkg/gen/llvm"
	"github.com/kartiknair/lswift/pkg/interpreter"
	"github.com/kartiknair/lswift/pkg/lexer"
	"github.com/kartiknair/lswift/pkg/parser"
	"github.com/kartiknair/lswift/pkg/report"
	"github.com/kartiknair/lswift/pkg/token"
)

// Extensions a source file may have.
var Extensions = []string{".swift", ".lswift"}

// ExtensionError is a source path without a recognized extension.
type ExtensionError struct {
	Path string
}

func (e *ExtensionError) Error() string {
	return fmt.Sprintf("%s: source files must end in %s", e.Path, strings.Join(Extensions, " or "))
}

// Driver runs the stages of the pipeline and reports on them.
type Driver struct {
	Config   *config.Config
	Reporter *report.Reporter
}

func New(c *config.Config, r *report.Reporter) *Driver {
	return &Driver{Config: c, Reporter: r}
}

func (d *Driver) timed(stage string, f func() error) error {
	start := time.Now()
	err := f()
	d.Reporter.Timing(stage, time.Since(start))
	return err
}

// Load reads and compiles a source file.
func (d *Driver) Load(path string) (*ast.Program, error) {
	if !hasSourceExtension(path) {
		return &ast.Program{Path: path}, &ExtensionError{Path: path}
	}

	code, err := os.ReadFile(path)
	if err != nil {
		return &ast.Program{Path: path}, fmt.Errorf("reading source file: %w", err)
	}

	return d.Compile(path, string(code))
}

func hasSourceExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Compile lexes, parses and analyzes source. The returned program is
// non-nil even on failure so errors can be shown with source context.
func (d *Driver) Compile(path, source string) (*ast.Program, error) {
	p := &ast.Program{Path: path, Source: source}

	err := d.timed("lexing", func() (err error) {
		p.Tokens, err = lexer.Lex(source)
		return err
	})
	if err != nil {
		return p, err
	}

	err = d.timed("parsing", func() (err error) {
		p.Expressions, err = parser.Parse(p.Tokens)
		return err
	})
	if err != nil {
		return p, err
	}

	err = d.timed("analysis", func() error {
		return analyzer.Analyze(p.Expressions, analyzer.WithEntry(d.Config.Entry))
	})
	if err != nil {
		return p, err
	}

	return p, nil
}

// Interpret runs an analyzed program, writing its output to out.
func (d *Driver) Interpret(p *ast.Program, out io.Writer) ([]interpreter.ExpressionResult, error) {
	in := interpreter.New(
		p.Expressions,
		interpreter.WithOutput(out),
		interpreter.WithEntry(d.Config.Entry),
	)

	err := d.timed("interpretation", func() error {
		_, err := in.Run()
		return err
	})
	return in.Results(), err
}

// EmitIR lowers an analyzed program to verified LLVM IR.
func (d *Driver) EmitIR(p *ast.Program) (*llvmgen.Module, error) {
	var m *llvmgen.Module
	err := d.timed("generating LLVM IR", func() (err error) {
		m, err = gen.LLVM(p.Expressions, p.Path, d.Config.Entry)
		return err
	})
	return m, err
}

// EmitC renders an analyzed program as C99.
func (d *Driver) EmitC(p *ast.Program) string {
	var c string
	d.timed("generating C", func() error {
		c = gen.C(p.Expressions, d.Config.Entry)
		return nil
	})
	return c
}

// BuildExecutable pipes ir into clang and links it to output.
func (d *Driver) BuildExecutable(ctx context.Context, ir, output string) error {
	var stderr bytes.Buffer

	compileCommand := exec.CommandContext(ctx, d.Config.CC, "-x", "ir", "-o", output, "-")
	compileCommand.Stdin = strings.NewReader(ir)
	compileCommand.Stderr = &stderr

	err := d.timed("clang to compile and link", compileCommand.Run)
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("compiling LLVM IR with %s: %w\n%s", d.Config.CC, err, msg)
		}
		return fmt.Errorf("compiling LLVM IR with %s: %w", d.Config.CC, err)
	}

	return nil
}

// RunIR executes ir with lli without writing any file. Program output goes
// to stdout. The entry function returns void, so lli's exit status carries
// no meaning; a failure is only reported when lli could not start or exited
// with diagnostics.
func (d *Driver) RunIR(ctx context.Context, ir string, stdout io.Writer) error {
	var stderr bytes.Buffer

	jitCommand := exec.CommandContext(ctx, d.Config.LLI, "-")
	jitCommand.Stdin = strings.NewReader(ir)
	jitCommand.Stdout = stdout
	jitCommand.Stderr = &stderr

	err := d.timed("lli to execute", jitCommand.Run)
	if err == nil {
		return nil
	}

	msg := strings.TrimSpace(stderr.String())
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && msg == "" {
		return nil
	}

	if msg != "" {
		return fmt.Errorf("running LLVM IR with %s: %w\n%s", d.Config.LLI, err, msg)
	}
	return fmt.Errorf("running LLVM IR with %s: %w", d.Config.LLI, err)
}

func DumpTokens(w io.Writer, tokens []token.Token) {
	repr.New(w, repr.Indent("  ")).Println(tokens)
}

func DumpAST(w io.Writer, program []ast.Expression) {
	repr.New(w, repr.Indent("  "), repr.OmitEmpty(true)).Println(program)
}

func DumpResults(w io.Writer, results []interpreter.ExpressionResult) {
	for _, r := range results {
		fmt.Fprintf(w, "%s: %s\n", r.Result.Type(), r.Result)
	}
}

// HighlightIR writes ir, colored for a terminal when color is set.
func HighlightIR(w io.Writer, ir string, color bool) error {
	if !color {
		_, err := io.WriteString(w, ir)
		return err
	}
	return quick.Highlight(w, ir, "llvm", "terminal", "monokai")
}
