package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/jcgregorio/logger"
	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// Prompter reads lines of input in response to prompts. At the end of input,
// Prompt returns io.EOF.
type Prompter interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// newPrompter creates a line-editing prompter if in is a terminal and a
// plain line scanner otherwise.
func newPrompter(in io.Reader, out io.Writer, history string, log *logger.Logger) Prompter {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return newLinerPrompter(history, log)
	}
	return &scanPrompter{sc: bufio.NewScanner(in), out: out}
}

// linerPrompter prompts on the terminal with line editing and history.
type linerPrompter struct {
	st      *liner.State
	history string
	log     *logger.Logger
}

func newLinerPrompter(history string, log *logger.Logger) *linerPrompter {
	st := liner.NewLiner()
	st.SetCtrlCAborts(true)
	if history != "" {
		if f, err := os.Open(history); err == nil {
			if _, err := st.ReadHistory(f); err != nil {
				log.Warningf("reading history from %s: %v", history, err)
			}
			f.Close()
		}
	}
	return &linerPrompter{st: st, history: history, log: log}
}

func (p *linerPrompter) Prompt(prompt string) (string, error) {
	line, err := p.st.Prompt(prompt)
	switch {
	case err == nil:
		if line != "" {
			p.st.AppendHistory(line)
		}
		return line, nil
	case errors.Is(err, io.EOF), errors.Is(err, liner.ErrPromptAborted):
		return "", io.EOF
	default:
		return "", errors.Wrap(err, "reading input")
	}
}

func (p *linerPrompter) Close() error {
	if p.history != "" {
		if f, err := os.Create(p.history); err == nil {
			if _, err := p.st.WriteHistory(f); err != nil {
				p.log.Warningf("writing history to %s: %v", p.history, err)
			}
			f.Close()
		} else {
			p.log.Warningf("writing history: %v", err)
		}
	}
	return p.st.Close()
}

// scanPrompter reads lines from a non-interactive input.
type scanPrompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

func (p *scanPrompter) Prompt(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", errors.Wrap(err, "reading input")
		}
		return "", io.EOF
	}
	return p.sc.Text(), nil
}

func (p *scanPrompter) Close() error {
	return nil
}
