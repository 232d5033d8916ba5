package repl

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/reeflective/readline"

	"github.com/kartiknair/lswift/pkg/driver"
	"github.com/kartiknair/lswift/pkg/lexer"
	"github.com/kartiknair/lswift/pkg/token"
)

const (
	primaryPrompt      = "> "
	continuationPrompt = ". "
)

// REPL collects lines until an empty one, then runs everything entered so
// far as a single program.
type REPL struct {
	driver      *driver.Driver
	out         io.Writer
	dumpResults bool

	lines []string
}

func New(d *driver.Driver, out io.Writer, dumpResults bool) *REPL {
	return &REPL{driver: d, out: out, dumpResults: dumpResults}
}

// Feed adds a line of input and reports whether it completed a program that
// was then run.
func (r *REPL) Feed(line string) bool {
	if strings.TrimSpace(line) != "" {
		r.lines = append(r.lines, line)
		return false
	}

	if len(r.lines) == 0 {
		return false
	}

	source := strings.Join(r.lines, "\n")
	r.lines = nil
	r.run(source)
	return true
}

func (r *REPL) run(source string) {
	p, err := r.driver.Compile("<repl>", source)
	if err != nil {
		r.driver.Reporter.Error(p, err)
		return
	}

	results, err := r.driver.Interpret(p, r.out)
	if err != nil {
		r.driver.Reporter.Error(p, err)
		return
	}

	if r.dumpResults {
		driver.DumpResults(r.out, results)
	}
}

// Run reads lines from the terminal until EOF.
func (r *REPL) Run() error {
	rl := readline.NewShell()
	rl.Prompt.Primary(func() string {
		if len(r.lines) > 0 {
			return continuationPrompt
		}
		return primaryPrompt
	})
	rl.SyntaxHighlighter = Highlight

	for {
		text, err := rl.Readline()

		if errors.Is(err, io.EOF) {
			// Run whatever is still pending.
			r.Feed("")
			return nil
		} else if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		r.Feed(text)
	}
}

// Highlight colors a single line of source for the terminal. Lines that do
// not lex are returned unchanged.
func Highlight(line []rune) string {
	source := string(line)

	tokens, err := lexer.Lex(source)
	if err != nil {
		return source
	}

	builder := strings.Builder{}

	i := 0
	for _, t := range tokens {
		if t.Type == token.EOF || t.Pos.Line != 1 {
			break
		}

		start := t.Pos.Column - 1
		end := start + tokenLength(t)
		if start < i || end > len(source) {
			break
		}

		builder.WriteString(source[i:start])

		text := source[start:end]
		switch {
		case t.Type == token.STRING:
			builder.WriteString(color.GreenString("%s", text))
		case t.Type == token.INT || t.Type == token.FLOAT:
			builder.WriteString(color.MagentaString("%s", text))
		case t.Type.IsTypeName():
			builder.WriteString(color.CyanString("%s", text))
		case t.Type.IsKeyword() || t.Type == token.TRUE || t.Type == token.FALSE:
			builder.WriteString(color.BlueString("%s", text))
		default:
			builder.WriteString(text)
		}

		i = end
	}

	builder.WriteString(source[i:])
	return builder.String()
}

// tokenLength is the width of t in the source. String lexemes have lost
// their quotes.
func tokenLength(t token.Token) int {
	if t.Type == token.STRING {
		if t.Lexeme == `""` {
			return 2
		}
		return len(t.Lexeme) + 2
	}
	return len(t.Lexeme)
}
