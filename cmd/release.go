package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"spectrumdata.tech/spectrum/pkg/git"
	"spectrumdata.tech/spectrum/pkg/version"
	"spectrumdata.tech/spectrum/pkg/workflow"
)

// releaseCmd groups the release workflow commands
var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Start, close and deploy releases",
	Long: `Drive the git side of a release.

The main branch is master or main and the develop branch is develop or dev,
whichever exists on the remote, unless git.main_branch and
git.develop_branch are configured.`,
}

var releaseStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Cut a release branch and prepare its changelog",
	Long: `Cut a release branch from the develop branch.

Steps:
- Switch to develop, pull and fetch
- Create release/<version> from the project version
- Rename "## [Unreleased]" to "## 🚀 [<version>]"
- Remove sections that only hold their placeholder
- Add a fresh Unreleased block
- Commit and push the release branch, then switch to main`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runRelease(cmd, (*workflow.ReleaseEngine).Start)
	},
}

var releaseCloseCmd = &cobra.Command{
	Use:   "close",
	Short: "Merge main back into develop",
	Long: `Merge main back into develop after a release has been merged.

Steps:
- Switch to main, pull and fetch
- Switch to develop, pull and fetch
- Merge main into develop
- Push develop with -o ci.skip`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runRelease(cmd, (*workflow.ReleaseEngine).Close)
	},
}

var releaseDeployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Tag the main branch version and push the tag",
	Long: `Tag the version found on the main branch and push the tag.

Fails without touching anything when the tag already exists.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runRelease(cmd, (*workflow.ReleaseEngine).Deploy)
	},
}

func init() {
	rootCmd.AddCommand(releaseCmd)
	releaseCmd.AddCommand(releaseStartCmd)
	releaseCmd.AddCommand(releaseCloseCmd)
	releaseCmd.AddCommand(releaseDeployCmd)
}

type releaseAction func(*workflow.ReleaseEngine, context.Context) (*workflow.ReleaseRun, error)

func runRelease(cmd *cobra.Command, action releaseAction) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root, err := resolveProjectRoot()
	if err != nil {
		return err
	}

	client := git.NewClient(root, cfg.Git.Remote, verbose)
	reader := version.Reader{Dir: root, Override: cfg.Version.Manifest}

	engine := workflow.NewReleaseEngine(client, reader, consoleFor(cmd), workflow.ReleaseOptions{
		ChangelogPath:   inRoot(root, cfg.Changelog.Path),
		MainBranch:      cfg.Git.MainBranch,
		DevelopBranch:   cfg.Git.DevelopBranch,
		ReleasePrefix:   cfg.Git.ReleasePrefix,
		TagPrefix:       cfg.Git.TagPrefix,
		MergeRequestURL: cfg.Git.MergeRequestURL,
	}, verbose)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	_, err = action(engine, ctx)
	return err
}
