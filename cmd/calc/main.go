// Command calc parses an arithmetic expression once and evaluates it for
// values of its variables read interactively or from a batch file.
package main

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jcgregorio/logger"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/zephyrtronium/calc"
)

// flag names
const (
	precFlagName     = "prec"
	fmtFlagName      = "fmt"
	givenFlagName    = "given"
	echoFlagName     = "echo"
	trailingFlagName = "allow-trailing"
	spaceFlagName    = "skip-space"
	historyFlagName  = "history"
	batchFlagName    = "batch"
	jobsFlagName     = "jobs"
	verboseFlagName  = "verbose"
	noColorFlagName  = "no-color"
)

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint(err))
		os.Exit(1)
	}
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "calc",
		Usage:     "evaluate an arithmetic expression for many variable values",
		ArgsUsage: "[expression]",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:    precFlagName,
				Aliases: []string{"p"},
				Value:   calc.DefaultPrec,
				Usage:   "precision of calculations in bits",
				EnvVars: []string{"CALC_PREC"},
			},
			&cli.StringFlag{
				Name:    fmtFlagName,
				Value:   "%g",
				Usage:   "result formatting verb",
				EnvVars: []string{"CALC_FMT"},
			},
			&cli.StringSliceFlag{
				Name:  givenFlagName,
				Usage: "name=value variable definition that is not prompted for (any number of times)",
			},
			&cli.BoolFlag{
				Name:  echoFlagName,
				Usage: "print the parse tree",
			},
			&cli.BoolFlag{
				Name:    trailingFlagName,
				Usage:   "ignore input after a complete expression",
				EnvVars: []string{"CALC_ALLOW_TRAILING"},
			},
			&cli.BoolFlag{
				Name:    spaceFlagName,
				Usage:   "allow whitespace between tokens",
				EnvVars: []string{"CALC_SKIP_SPACE"},
			},
			&cli.PathFlag{
				Name:    historyFlagName,
				Usage:   "file to keep interactive line history in",
				EnvVars: []string{"CALC_HISTORY"},
			},
			&cli.PathFlag{
				Name:  batchFlagName,
				Usage: "YAML file with a list of variable definitions to evaluate the expression for",
			},
			&cli.IntFlag{
				Name:  jobsFlagName,
				Value: 4,
				Usage: "number of concurrent evaluations in batch mode",
			},
			&cli.BoolFlag{
				Name:    verboseFlagName,
				Aliases: []string{"v"},
				Usage:   "log debugging information to stderr",
				EnvVars: []string{"CALC_VERBOSE"},
			},
			&cli.BoolFlag{
				Name:  noColorFlagName,
				Usage: "disable colored output",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	if c.Bool(noColorFlagName) {
		color.NoColor = true
	}
	log := logger.NewFromOptions(&logger.Options{
		SyncWriter:   syncer(c.App.ErrWriter),
		IncludeDebug: c.Bool(verboseFlagName),
	})

	prec := c.Uint(precFlagName)
	if prec == 0 {
		return errors.New("precision must be positive")
	}
	ctx := calc.NewContext(calc.Prec(prec))
	for _, d := range c.StringSlice(givenFlagName) {
		name, v, err := given(d, prec)
		if err != nil {
			return err
		}
		log.Debugf("given %s = %g", name, v)
		ctx.Set(name, v)
	}

	var opts []calc.ParseOption
	if c.Bool(trailingFlagName) {
		opts = append(opts, calc.AllowTrailing())
	}
	if c.Bool(spaceFlagName) {
		opts = append(opts, calc.SkipSpace())
	}

	in := newPrompter(c.App.Reader, c.App.Writer, c.Path(historyFlagName), log)
	defer in.Close()

	s := &session{
		in:     in,
		out:    c.App.Writer,
		log:    log,
		ctx:    ctx,
		opts:   opts,
		format: c.String(fmtFlagName),
		echo:   c.Bool(echoFlagName),
		errf:   color.New(color.FgRed).SprintFunc(),
	}
	src := strings.Join(c.Args().Slice(), " ")
	if b := c.Path(batchFlagName); b != "" {
		sets, err := loadBatch(b, prec)
		if err != nil {
			return err
		}
		return s.batch(c.Context, src, sets, c.Int(jobsFlagName))
	}
	return s.run(src)
}

// given parses a name=value variable definition. The value may be any
// expression without variables.
func given(d string, prec uint) (string, *big.Float, error) {
	name, val, ok := strings.Cut(d, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", nil, errors.Errorf(`variable definitions must be "name=value", not %q`, d)
	}
	if !isVar(name) {
		return "", nil, errors.Errorf("%q is not a variable name", name)
	}
	r, err := calc.EvalString(strings.TrimSpace(val), calc.Prec(prec))
	if err != nil {
		return "", nil, errors.Wrapf(err, "setting %s", name)
	}
	if r.IsNaN() {
		return "", nil, errors.Errorf("setting %s: %s is not a number", name, val)
	}
	return name, r.Float(), nil
}

// isVar reports whether s parses as a lone variable.
func isVar(s string) bool {
	e, err := calc.Parse(s)
	return err == nil && len(e.Vars()) == 1 && e.String() == s
}

// nopSync adapts a writer without a Sync method for the logger.
type nopSync struct {
	io.Writer
}

func (nopSync) Sync() error {
	return nil
}

func syncer(w io.Writer) logger.SyncWriter {
	if s, ok := w.(logger.SyncWriter); ok {
		return s
	}
	return nopSync{w}
}
