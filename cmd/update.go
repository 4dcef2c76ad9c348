package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"spectrumdata.tech/spectrum/pkg/config"
	"spectrumdata.tech/spectrum/pkg/ui"
)

// Version is set at build time via ldflags.
var Version = "dev"

// checksumsFile is the checksum manifest published with every release.
const checksumsFile = "checksums.txt"

var (
	updateCheck bool
	updateForce bool
	updatePre   bool
	updateYes   bool
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update spectrum to the latest version",
	Long: `Update spectrum to the latest release published on GitLab.

The release for this OS and architecture is downloaded, its checksums are
verified against checksums.txt, and the running binary is replaced in place.
The GitLab instance and project come from update.base_url and
update.repository.

Examples:
  spectrum update           # Update after confirmation
  spectrum update --check   # Only report whether an update exists
  spectrum update --yes     # Update without confirmation
  spectrum update --force   # Reinstall even when up to date
  spectrum update --pre     # Consider pre-release versions`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runUpdateCommand(cmd)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().BoolVarP(&updateCheck, "check", "c", false, "Check for updates without installing")
	updateCmd.Flags().BoolVarP(&updateForce, "force", "f", false, "Force update even if already on the latest version")
	updateCmd.Flags().BoolVarP(&updatePre, "pre", "p", false, "Include pre-release versions")
	updateCmd.Flags().BoolVarP(&updateYes, "yes", "y", false, "Skip confirmation prompt")
}

// GetVersion returns the version of the running binary.
func GetVersion() string {
	return Version
}

// releaseSource returns where releases are listed and downloaded from.
var releaseSource = func(cfg *config.Config) (selfupdate.Source, error) {
	source, err := selfupdate.NewGitLabSource(selfupdate.GitLabConfig{
		BaseURL:  cfg.Update.BaseURL,
		APIToken: os.Getenv("GITLAB_TOKEN"),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create GitLab release source")
	}
	return source, nil
}

// executablePath locates the binary that update replaces.
var executablePath = selfupdate.ExecutablePath

// newUpdater builds an updater over the configured release source. Every
// downloaded asset must match its entry in checksums.txt.
func newUpdater(cfg *config.Config) (*selfupdate.Updater, error) {
	source, err := releaseSource(cfg)
	if err != nil {
		return nil, err
	}

	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Source:     source,
		Validator:  &selfupdate.ChecksumValidator{UniqueFilename: checksumsFile},
		Prerelease: updatePre,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create updater")
	}
	return updater, nil
}

// skipUpdate reports whether current is already at least latest. Development
// builds always update.
func skipUpdate(current, latest string, force bool) bool {
	if force || current == "dev" {
		return false
	}
	cur, err := semver.NewVersion(current)
	if err != nil {
		return false
	}
	lat, err := semver.NewVersion(latest)
	if err != nil {
		return false
	}
	return !lat.GreaterThan(cur)
}

func runUpdateCommand(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := consoleFor(cmd)

	updater, err := newUpdater(cfg)
	if err != nil {
		return err
	}

	stop := out.Spin("Checking for updates")
	release, found, err := updater.DetectLatest(ctx, selfupdate.NewRepositorySlug(cfg.SplitRepository()))
	stop()
	if err != nil {
		return errors.Wrap(err, "failed to check for updates")
	}
	if !found {
		out.Warn("⚠️  No release found for %s/%s in %s", runtime.GOOS, runtime.GOARCH, cfg.Update.Repository)
		return nil
	}

	if skipUpdate(Version, release.Version(), updateForce) {
		out.Success("✅ spectrum %s is up to date.", Version)
		return nil
	}

	if updateCheck {
		out.Info("Update available: %s -> %s", Version, release.Version())
		out.Info("Run 'spectrum update' to install it.")
		return nil
	}

	if !updateYes && !confirmUpdate(prompterFor(cmd), Version, release.Version()) {
		out.Info("Update cancelled.")
		return nil
	}

	exe, err := executablePath()
	if err != nil {
		return errors.Wrap(err, "failed to locate the running executable")
	}

	stop = out.Spin("Downloading " + release.AssetName)
	err = updater.UpdateTo(ctx, release, exe)
	stop()
	if err != nil {
		return errors.Wrap(err, "failed to update binary")
	}

	out.Success("✅ Updated spectrum to %s.", release.Version())
	return nil
}

// confirmUpdate asks whether to replace current with latest.
func confirmUpdate(p ui.Prompter, current, latest string) bool {
	question := fmt.Sprintf("Update spectrum from %s to %s?", current, latest)
	ok, err := ui.Confirm(p, question)
	return err == nil && ok
}
