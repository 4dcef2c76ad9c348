package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the user a question and returns the trimmed answer.
type Prompter interface {
	Ask(question string) (string, error)
}

// LinePrompter reads one line per question from an input stream.
type LinePrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewLinePrompter creates a prompter reading from r and writing questions to w.
func NewLinePrompter(r io.Reader, w io.Writer) *LinePrompter {
	return &LinePrompter{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

// Ask writes question without a newline and waits for one line of input.
// End of input counts as an answer, so a closed stream yields "".
func (p *LinePrompter) Ask(question string) (string, error) {
	fmt.Fprint(p.writer, question)

	input, err := p.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// Confirm asks a yes/no question. Only answers starting with "y" count as yes.
func Confirm(p Prompter, question string) (bool, error) {
	answer, err := p.Ask(question + " [y/N]: ")
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(strings.ToLower(answer), "y"), nil
}

// Menu prints title and the numbered options to out, then asks question and
// returns the raw answer. Parsing the answer is left to the caller.
func Menu(out Output, p Prompter, title string, options []string, question string) (string, error) {
	out.Info("\n%s", title)
	for i, opt := range options {
		out.Info("   %d. %s", i+1, opt)
	}
	return p.Ask("\n" + question)
}

// WithContext returns a Prompter that stops waiting for an answer once ctx
// is done. The abandoned read on p keeps blocking until input arrives or the
// process exits.
func WithContext(ctx context.Context, p Prompter) Prompter {
	return &contextPrompter{ctx: ctx, p: p}
}

type contextPrompter struct {
	ctx context.Context
	p   Prompter
}

type answer struct {
	text string
	err  error
}

func (c *contextPrompter) Ask(question string) (string, error) {
	if err := c.ctx.Err(); err != nil {
		return "", err
	}

	ch := make(chan answer, 1)
	go func() {
		text, err := c.p.Ask(question)
		ch <- answer{text, err}
	}()

	select {
	case a := <-ch:
		return a.text, a.err
	case <-c.ctx.Done():
		return "", c.ctx.Err()
	}
}
