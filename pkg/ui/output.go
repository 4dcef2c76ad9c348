// Package ui provides the terminal surface of spectrum: coloured status
// output, line prompts, numbered menus and a progress spinner.
package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// Output receives user-facing status lines. Implementations add their own
// styling; format strings follow fmt.Sprintf.
type Output interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Success(format string, args ...any)
}

// Console writes status lines to a terminal, colouring them when the
// destination supports it.
type Console struct {
	out     io.Writer
	errOut  io.Writer
	isTTY   bool
	success *color.Color
	warn    *color.Color
	fail    *color.Color
}

// NewConsole returns a Console bound to stdout and stderr. Colour and the
// spinner are enabled only when stdout is a terminal and NO_COLOR is unset.
func NewConsole() *Console {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	return newConsole(os.Stdout, os.Stderr, isTTY, isTTY && os.Getenv("NO_COLOR") == "")
}

// NewPlainConsole returns a Console writing uncoloured text to w.
func NewPlainConsole(w io.Writer) *Console {
	return newConsole(w, w, false, false)
}

func newConsole(out, errOut io.Writer, isTTY, useColor bool) *Console {
	c := &Console{
		out:     out,
		errOut:  errOut,
		isTTY:   isTTY,
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgHiRed),
	}
	for _, col := range []*color.Color{c.success, c.warn, c.fail} {
		if useColor {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

// Info prints an unstyled line.
func (c *Console) Info(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Warn prints a yellow line.
func (c *Console) Warn(format string, args ...any) {
	c.warn.Fprintf(c.out, format, args...) //nolint:errcheck // terminal output
	fmt.Fprintln(c.out)
}

// Error prints a red line to the error stream.
func (c *Console) Error(format string, args ...any) {
	c.fail.Fprintf(c.errOut, format, args...) //nolint:errcheck // terminal output
	fmt.Fprintln(c.errOut)
}

// Success prints a green line.
func (c *Console) Success(format string, args ...any) {
	c.success.Fprintf(c.out, format, args...) //nolint:errcheck // terminal output
	fmt.Fprintln(c.out)
}

// Writer returns the stream used for regular output.
func (c *Console) Writer() io.Writer {
	return c.out
}

// Spin shows a spinner with message until the returned function is called.
// Off a terminal it does nothing.
func (c *Console) Spin(message string) func() {
	if !c.isTTY {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(c.out))
	s.Suffix = " " + message
	s.Start()
	return s.Stop
}
