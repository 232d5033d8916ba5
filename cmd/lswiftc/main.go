package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/kartiknair/lswift/pkg/ast"
	"github.com/kartiknair/lswift/pkg/config"
	"github.com/kartiknair/lswift/pkg/driver"
	"github.com/kartiknair/lswift/pkg/repl"
	"github.com/kartiknair/lswift/pkg/report"
	"github.com/urfave/cli/v2"
)

const tooManyArguments = `

Too many arguments provided.

If you've provided flags make sure they go before the arguments.
    Wrong: $ lswiftc build main.swift -o foo
    Right: $ lswiftc build -o foo main.swift
`

// failed ends a command whose error was already reported.
var failed = cli.Exit("", 1)

func sourceArgument(c *cli.Context) (string, error) {
	if c.Args().Len() > 1 {
		return "", errors.New(tooManyArguments)
	}

	filename := c.Args().First()
	if filename == "" {
		return "", errors.New("Source file not provided.")
	}
	return filename, nil
}

// newDriver loads the lswift.toml closest to dir and applies the global
// flags on top of it.
func newDriver(c *cli.Context, dir string, stderr io.Writer) (*driver.Driver, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	cfg, _, err := config.FindAndLoad(abs)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", config.FileName, err)
	}

	if entry := c.String("entry"); entry != "" {
		cfg.Entry = entry
	}
	if c.Bool("timing") {
		cfg.Timing = true
	}

	return driver.New(cfg, report.New(stderr, cfg.Timing)), nil
}

// load compiles the single source file named on the command line.
func load(c *cli.Context, stderr io.Writer) (*driver.Driver, *ast.Program, error) {
	filename, err := sourceArgument(c)
	if err != nil {
		return nil, nil, err
	}

	d, err := newDriver(c, filepath.Dir(filename), stderr)
	if err != nil {
		return nil, nil, err
	}

	p, err := d.Load(filename)
	if err != nil {
		d.Reporter.Error(p, err)
		return nil, nil, failed
	}

	if c.Bool("dump-tokens") {
		driver.DumpTokens(stderr, p.Tokens)
	}
	if c.Bool("dump-ast") {
		driver.DumpAST(stderr, p.Expressions)
	}

	return d, p, nil
}

var dumpFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:  "dump-tokens",
		Usage: "Print the token stream to stderr.",
	},
	&cli.BoolFlag{
		Name:  "dump-ast",
		Usage: "Print the analyzed AST to stderr.",
	},
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "lswiftc",
		Usage:     "A compiler and interpreter for a small Swift-like language.",
		Writer:    stdout,
		ErrWriter: stderr,
		// Exit codes are turned into the process status by run.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "entry",
				Usage: "Name of the entry function (default from lswift.toml or \"main\").",
			},
			&cli.BoolFlag{
				Name:  "timing",
				Usage: "Print how long each stage takes.",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Interprets the provided source file.",
				ArgsUsage: "<file>",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "dump-results",
						Usage: "Print the value of every statement of the entry function.",
					},
				}, dumpFlags...),
				Action: func(c *cli.Context) error {
					d, p, err := load(c, stderr)
					if err != nil {
						return err
					}

					results, err := d.Interpret(p, stdout)
					if err != nil {
						d.Reporter.Error(p, err)
						return failed
					}

					if c.Bool("dump-results") {
						driver.DumpResults(stderr, results)
					}
					return nil
				},
			},
			{
				Name:      "build",
				Usage:     "Builds the provided source file to an executable.",
				ArgsUsage: "<file>",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Name of the executable (default from lswift.toml or \"a.out\").",
					},
					&cli.BoolFlag{
						Name:  "dump-ir",
						Usage: "Print the generated LLVM IR to stderr.",
					},
				}, dumpFlags...),
				Action: func(c *cli.Context) error {
					d, p, err := load(c, stderr)
					if err != nil {
						return err
					}

					output := d.Config.Output
					if o := c.String("output"); o != "" {
						output = o
					}

					d.Reporter.Status("Compiling %s", p.Path)

					m, err := d.EmitIR(p)
					if err != nil {
						d.Reporter.Error(p, err)
						return failed
					}

					if c.Bool("dump-ir") {
						driver.HighlightIR(stderr, m.String(), false)
					}

					if err := d.BuildExecutable(c.Context, m.String(), output); err != nil {
						d.Reporter.Error(nil, err)
						return failed
					}

					d.Reporter.Status("Wrote %s", output)
					return nil
				},
			},
			{
				Name:      "jit",
				Usage:     "Compiles the provided source file to LLVM IR and executes it with lli.",
				ArgsUsage: "<file>",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "dump-ir",
						Usage: "Print the generated LLVM IR to stderr.",
					},
				}, dumpFlags...),
				Action: func(c *cli.Context) error {
					d, p, err := load(c, stderr)
					if err != nil {
						return err
					}

					m, err := d.EmitIR(p)
					if err != nil {
						d.Reporter.Error(p, err)
						return failed
					}

					if c.Bool("dump-ir") {
						driver.HighlightIR(stderr, m.String(), false)
					}

					if err := d.RunIR(c.Context, m.String(), stdout); err != nil {
						d.Reporter.Error(nil, err)
						return failed
					}
					return nil
				},
			},
			{
				Name:      "ir",
				Usage:     "Prints the LLVM IR for the provided source file.",
				ArgsUsage: "<file>",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "verify",
						Usage: "Only verify the IR, print nothing on success.",
					},
					&cli.BoolFlag{
						Name:  "color",
						Usage: "Highlight the IR for a terminal.",
					},
				}, dumpFlags...),
				Action: func(c *cli.Context) error {
					d, p, err := load(c, stderr)
					if err != nil {
						return err
					}

					m, err := d.EmitIR(p)
					if err != nil {
						d.Reporter.Error(p, err)
						return failed
					}

					if c.Bool("verify") {
						d.Reporter.Status("IR verified")
						return nil
					}

					return driver.HighlightIR(stdout, m.String(), c.Bool("color"))
				},
			},
			{
				Name:      "convert",
				Usage:     "Converts the provided source file to C.",
				ArgsUsage: "<file>",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the C source to a file instead of stdout.",
					},
				}, dumpFlags...),
				Action: func(c *cli.Context) error {
					d, p, err := load(c, stderr)
					if err != nil {
						return err
					}

					source := d.EmitC(p)

					if o := c.String("output"); o != "" {
						return os.WriteFile(o, []byte(source), 0o644)
					}

					_, err = io.WriteString(stdout, source)
					return err
				},
			},
			{
				Name:  "repl",
				Usage: "Starts an interactive session. An empty line runs the program entered so far.",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dump-results",
						Usage: "Print the value of every statement of the entry function.",
					},
				},
				Action: func(c *cli.Context) error {
					d, err := newDriver(c, ".", stderr)
					if err != nil {
						return err
					}

					return repl.New(d, stdout, c.Bool("dump-results")).Run()
				},
			},
		},
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	err := newApp(stdout, stderr).Run(args)
	if err == nil {
		return 0
	}

	var exit cli.ExitCoder
	if errors.As(err, &exit) {
		if msg := exit.Error(); msg != "" {
			fmt.Fprintln(stderr, msg)
		}
		return exit.ExitCode()
	}

	log.New(stderr, "", 0).Println(err)
	return 1
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}
