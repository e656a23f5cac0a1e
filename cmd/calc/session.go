package main

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/jcgregorio/logger"
	"github.com/pkg/errors"

	"github.com/zephyrtronium/calc"
)

const separator = "-----------"

// session parses one expression and evaluates it as many times as the user
// supplies values for its variables.
type session struct {
	in  Prompter
	out io.Writer
	log *logger.Logger
	// ctx holds the given variables and the precision.
	ctx    *calc.Context
	opts   []calc.ParseOption
	format string
	echo   bool
	// errf renders error messages.
	errf func(a ...interface{}) string
}

// parse parses src, prompting for it if it is empty. The result is nil with
// no error if the input ends first.
func (s *session) parse(src string) (*calc.Expr, error) {
	if src == "" {
		line, err := s.in.Prompt("input equation > ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, err
		}
		src = strings.TrimSpace(line)
	}
	e, err := calc.Parse(src, s.opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %q", src)
	}
	s.log.Debugf("parsed %q as %v with variables %q", src, e, e.Vars())
	if s.echo {
		fmt.Fprintln(s.out, e)
	}
	return e, nil
}

// run evaluates the expression once if it has no unknown variables, and
// otherwise prompts for the variables and evaluates until the input ends.
func (s *session) run(src string) error {
	e, err := s.parse(src)
	if e == nil {
		return err
	}
	missing := s.ctx.Missing(e)
	if len(missing) == 0 {
		return s.report(e, s.ctx.Clone())
	}
	for pass := 1; ; pass++ {
		fmt.Fprintf(s.out, "%s\n\n", separator)
		ctx := s.ctx.Clone()
		for _, name := range missing {
			v, err := s.ask(name)
			if err != nil {
				if errors.Is(err, io.EOF) {
					s.log.Debugf("input ended after %d passes", pass-1)
					return nil
				}
				return err
			}
			ctx.Set(name, v)
		}
		fmt.Fprintln(s.out)
		if err := s.report(e, ctx); err != nil {
			s.log.Errorf("pass %d: %v", pass, err)
			fmt.Fprintln(s.out, s.errf(err.Error()))
		}
	}
}

// ask prompts for a variable until it gets a valid number.
func (s *session) ask(name string) (*big.Float, error) {
	for {
		line, err := s.in.Prompt(name + " = ")
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		v, _, err := big.ParseFloat(line, 10, s.ctx.Prec(), big.ToNearestEven)
		if err != nil {
			s.log.Debugf("bad value %q for %s: %v", line, name, err)
			fmt.Fprintln(s.out, s.errf(fmt.Sprintf("%q is not a number", line)))
			continue
		}
		return v, nil
	}
}

// report evaluates e with ctx and writes the result.
func (s *session) report(e *calc.Expr, ctx *calc.Context) error {
	r := ctx.Eval(e)
	if r == nil {
		return errors.Wrap(ctx.Err(), "evaluating")
	}
	s.result(r)
	return nil
}

func (s *session) result(r *calc.Value) {
	fmt.Fprintf(s.out, " >> "+s.format+"\n", r)
}

// batch evaluates the expression once for each set of variables.
func (s *session) batch(ctx context.Context, src string, sets []map[string]*big.Float, jobs int) error {
	e, err := s.parse(src)
	if e == nil {
		return err
	}
	s.log.Debugf("evaluating %d sets with %d jobs", len(sets), jobs)
	res, err := calc.EvalBatch(ctx, e, s.ctx, sets, jobs)
	if err != nil {
		return errors.Wrap(err, "batch evaluation")
	}
	failed := 0
	for i, r := range res {
		if r.Err != nil {
			failed++
			fmt.Fprintln(s.out, s.errf(fmt.Sprintf(" >> set %d: %v", i+1, r.Err)))
			continue
		}
		s.result(r.Value)
	}
	if failed > 0 {
		return errors.Errorf("%d of %d evaluations failed", failed, len(res))
	}
	return nil
}
