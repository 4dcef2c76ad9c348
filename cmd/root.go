package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"spectrumdata.tech/spectrum/pkg/bootstrap"
	"spectrumdata.tech/spectrum/pkg/config"
	spectrumerrors "spectrumdata.tech/spectrum/pkg/errors"
	"spectrumdata.tech/spectrum/pkg/ui"
)

var cfgFile string
var verbose bool
var appConfig *config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spectrum",
	Short: "Spectrum - release workflow automation",
	Long: `Spectrum is a release workflow automation CLI. It keeps CHANGELOG.md up to
date from branch names, bumps project versions, and drives the git branch
and tag dance of a release.

Examples:
  spectrum changelog append "Add export button"
  spectrum release start
  spectrum version up minor`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	os.Exit(run(os.Args))
}

// run executes the command line in args and returns the process exit code.
// A panic in any command is reported like an error instead of crashing.
func run(args []string) (code int) {
	defer func() {
		if r := recover(); r != nil {
			reportError(errors.Newf("unexpected error: %v", r))
			code = 1
		}
	}()

	// Pre-parse global flags so a broken config is reported before any command runs.
	cfgFile, verbose = bootstrap.PreParseGlobalFlags(args)

	if err := initConfig(); err != nil {
		reportError(err)
		return 1
	}

	// Interrupts keep their default behavior so Ctrl-C ends a blocked prompt.
	rootCmd.SetArgs(args[1:])
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		reportError(err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.Version = Version

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "C", "", "config file (default is $HOME/.config/spectrum/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// reportError prints err unless a workflow already showed it to the user.
func reportError(err error) {
	if spectrumerrors.IsReported(err) {
		return
	}
	ui.NewConsole().Error("❌ %s", strings.TrimRight(spectrumerrors.FormatUserError(err), "\n"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	var err error
	appConfig, verbose, err = bootstrap.InitConfig(cfgFile, verbose)
	return err
}

// loadConfig returns the configuration loaded at startup, loading it now if
// that has not happened yet.
func loadConfig() (*config.Config, error) {
	if appConfig != nil {
		return appConfig, nil
	}
	if err := initConfig(); err != nil {
		return nil, err
	}
	return appConfig, nil
}

// resetConfig clears the cached configuration.
// This is primarily used in tests to ensure each test starts with a fresh config.
func resetConfig() {
	appConfig = nil
	viper.Reset()
}
