package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// executeCommand runs rootCmd with args, feeding stdin and capturing all output.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	resetConfig()
	oldCfgFile, oldVerbose := cfgFile, verbose
	cfgFile, verbose = "", false
	t.Cleanup(func() {
		resetConfig()
		cfgFile, verbose = oldCfgFile, oldVerbose
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)

	err := rootCmd.Execute()
	return out.String(), err
}

// isolateHome keeps user-level spectrum and git config out of the test.
func isolateHome(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
}

// setupRepo creates a repository on branch with a configured author, writes
// files into it and makes it the working directory.
func setupRepo(t *testing.T, branch string, files map[string]string) string {
	t.Helper()
	isolateHome(t)

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(branch))
	require.NoError(t, repo.Storer.SetReference(head))

	cfg, err := repo.Config()
	require.NoError(t, err)
	cfg.User.Name = "Test User"
	cfg.User.Email = "test@example.com"
	require.NoError(t, repo.SetConfig(cfg))

	writeFiles(t, dir, files)
	t.Chdir(dir)
	return dir
}

// setupDir makes a plain directory holding files the working directory.
func setupDir(t *testing.T, files map[string]string) string {
	t.Helper()
	isolateHome(t)

	dir := t.TempDir()
	writeFiles(t, dir, files)
	t.Chdir(dir)
	return dir
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// captureStderr returns everything fn writes to os.Stderr.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()

	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w
	defer func() { os.Stderr = oldStderr }()

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.String()
	}()

	fn()
	w.Close()
	return <-done
}

// runRoot drives the full entry point with args and returns its exit code
// and stderr.
func runRoot(t *testing.T, args ...string) (int, string) {
	t.Helper()

	resetConfig()
	oldCfgFile, oldVerbose := cfgFile, verbose
	t.Cleanup(func() {
		resetConfig()
		cfgFile, verbose = oldCfgFile, oldVerbose
		rootCmd.SetArgs(nil)
	})

	var code int
	stderr := captureStderr(t, func() {
		code = run(append([]string{"spectrum"}, args...))
	})
	return code, stderr
}

// addHiddenCommand registers a throwaway subcommand for the duration of the test.
func addHiddenCommand(t *testing.T, name string, fn func(cmd *cobra.Command, args []string)) {
	t.Helper()

	c := &cobra.Command{Use: name, Hidden: true, Run: fn}
	rootCmd.AddCommand(c)
	t.Cleanup(func() { rootCmd.RemoveCommand(c) })
}
