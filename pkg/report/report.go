package report

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/kartiknair/lswift/pkg/ast"
	"github.com/kartiknair/lswift/pkg/token"
)

// Positioned is implemented by every pipeline error that points at a
// token in the source.
type Positioned interface {
	error
	ErrorToken() token.Token
}

var (
	statusColor = color.New(color.FgCyan)
	timingColor = color.New(color.Faint)
	errorColor  = color.New(color.FgRed, color.Bold)
	hintColor   = color.New(color.FgYellow)
)

// Reporter writes diagnostics, never program output.
type Reporter struct {
	w      io.Writer
	timing bool
}

func New(w io.Writer, timing bool) *Reporter {
	return &Reporter{w: w, timing: timing}
}

func (r *Reporter) Status(format string, args ...interface{}) {
	statusColor.Fprintf(r.w, "> "+format+"\n", args...)
}

// Timing prints how long a stage took, if timings are enabled.
func (r *Reporter) Timing(stage string, d time.Duration) {
	if !r.timing {
		return
	}
	timingColor.Fprintf(r.w, "time: %dus for %s\n", d.Microseconds(), stage)
}

// Error prints err. When it carries a position inside program the offending
// line is shown with a caret under the column.
func (r *Reporter) Error(program *ast.Program, err error) {
	errorColor.Fprint(r.w, "error: ")
	fmt.Fprintln(r.w, err.Error())

	var positioned Positioned
	if program == nil || !errors.As(err, &positioned) {
		return
	}

	t := positioned.ErrorToken()
	if t.Pos.Line == 0 {
		return
	}

	if context := program.TokenSourceContext(&t); context != "" {
		hintColor.Fprintf(r.w, " --> %s:%d:%d", program.Path, t.Pos.Line, t.Pos.Column)
		fmt.Fprintln(r.w, context)
	}
}
