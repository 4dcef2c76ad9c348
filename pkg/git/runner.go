// Package git wraps the git operations spectrum needs.
//
// Read-only lookups (current branch, author identity) go through go-git so
// they work without a git binary. Mutations (switch, pull, merge, tag, push)
// shell out to the git CLI through a CommandRunner, which keeps hooks,
// credentials and push options behaving exactly as they do for the user.
package git

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// CommandRunner executes external commands.
type CommandRunner interface {
	// Run executes the command with output attached to the runner's streams.
	Run(dir string, name string, args ...string) error
	// Output executes the command and returns its standard output.
	Output(dir string, name string, args ...string) ([]byte, error)
}

// RealCommandRunner executes commands with os/exec.
type RealCommandRunner struct {
	Verbose bool

	// Streams used by Run. Nil means the process's own stdio.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Env is appended to the inherited environment.
	Env []string
}

// Run executes a command, streaming its output.
func (r *RealCommandRunner) Run(dir string, name string, args ...string) error {
	cmd := r.command(dir, name, args...)
	cmd.Stdin = r.Stdin
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}

// Output executes a command and returns its standard output. On failure the
// returned error is an *exec.ExitError carrying the captured stderr.
func (r *RealCommandRunner) Output(dir string, name string, args ...string) ([]byte, error) {
	return r.command(dir, name, args...).Output()
}

func (r *RealCommandRunner) command(dir string, name string, args ...string) *exec.Cmd {
	if r.Verbose {
		fmt.Fprintf(os.Stderr, "+ %s %s\n", name, strings.Join(args, " "))
	}
	cmd := exec.Command(name, args...) //nolint:gosec // arguments are built by spectrum, not taken from a shell
	cmd.Dir = dir
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	return cmd
}
