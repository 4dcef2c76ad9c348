package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"spectrumdata.tech/spectrum/pkg/git"
	"spectrumdata.tech/spectrum/pkg/workflow"
)

// changelogCmd groups changelog editing commands
var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Edit the project changelog",
	Long: `Edit the project changelog.

The changelog is CHANGELOG.md in the current directory unless changelog.path
is set in the configuration.`,
}

// changelogAppendCmd represents the changelog append command
var changelogAppendCmd = &cobra.Command{
	Use:   "append <message>",
	Short: "Add an entry to the Unreleased changelog",
	Long: `Add an entry to the Unreleased block of the changelog.

The task number is taken from the branch name (e.g. feature/SPEC-123-export)
and the author from git config; both are asked for when missing. The section
follows from the branch name:
  support/...          Support or Security
  bugfix/..., fix/...  Fixed
  feature/..., feat/...  Added, Changed, Deprecated or Removed
  anything else        any section

When more than one section fits, a numbered menu is shown.

Examples:
  spectrum changelog append "Add export button"
  spectrum changelog append "Handle empty cart."`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChangelogAppend(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(changelogCmd)
	changelogCmd.AddCommand(changelogAppendCmd)
}

func runChangelogAppend(cmd *cobra.Command, message string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// A nil *Repository must not end up inside a non-nil interface.
	var repo workflow.RepoInfo
	r, repoErr := git.OpenRepository("")
	if repoErr == nil {
		repo = r
	}

	engine := workflow.NewAppendEngine(repo, repoErr, prompterFor(cmd), consoleFor(cmd), cfg.Changelog.Path, verbose)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	_, err = engine.Run(ctx, message)
	return err
}
