package cmd

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"spectrumdata.tech/spectrum/pkg/bootstrap"
	"spectrumdata.tech/spectrum/pkg/ui"
)

// consoleFor returns the console for cmd. Output redirected with SetOut
// (tests, pipes set up by callers) gets a plain console.
func consoleFor(cmd *cobra.Command) *ui.Console {
	if w := cmd.OutOrStdout(); w != os.Stdout {
		return ui.NewPlainConsole(w)
	}
	return ui.NewConsole()
}

// prompterFor returns a line prompter reading cmd's input.
func prompterFor(cmd *cobra.Command) *ui.LinePrompter {
	return ui.NewLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout())
}

// resolveProjectRoot returns the git root of the working directory, or the
// working directory itself outside a repository.
func resolveProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "failed to get current directory")
	}
	root, err := bootstrap.FindGitRoot()
	if err != nil || root == "" {
		return cwd, nil //nolint:nilerr // outside a repository the cwd is the project
	}
	return root, nil
}

// inRoot resolves path against root unless it is already absolute.
func inRoot(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
