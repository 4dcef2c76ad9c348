package cmd

import (
	"github.com/spf13/cobra"

	"spectrumdata.tech/spectrum/pkg/version"
)

// versionCmd groups project version commands
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show or bump the project version",
	Long: `Show or bump the version in the project manifest.

The manifest is package.json, or pyproject.toml when there is no
package.json, unless version.manifest is configured.`,
}

var versionUpCmd = &cobra.Command{
	Use:   "up <major|minor|patch>",
	Short: "Bump the project version",
	Long: `Bump the project version following semantic versioning.

Pre-release and build suffixes are dropped. Only the version field of the
manifest is rewritten.

Examples:
  spectrum version up patch    # 1.4.2 -> 1.4.3
  spectrum version up minor    # 1.4.2 -> 1.5.0
  spectrum version up major    # 1.4.2 -> 2.0.0`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(version.LevelMajor), string(version.LevelMinor), string(version.LevelPatch)},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersionUp(cmd, args[0])
	},
}

var versionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the project version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runVersionShow(cmd)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.AddCommand(versionUpCmd)
	versionCmd.AddCommand(versionShowCmd)
}

func detectManifest() (*version.Manifest, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	root, err := resolveProjectRoot()
	if err != nil {
		return nil, err
	}
	return version.Detect(root, cfg.Version.Manifest)
}

func runVersionUp(cmd *cobra.Command, arg string) error {
	level, err := version.ParseLevel(arg)
	if err != nil {
		return err
	}

	m, err := detectManifest()
	if err != nil {
		return err
	}

	previous, next, err := version.Up(m, level)
	if err != nil {
		return err
	}

	consoleFor(cmd).Success("🔖 Current version %s up to %s.", previous, next)
	return nil
}

func runVersionShow(cmd *cobra.Command) error {
	m, err := detectManifest()
	if err != nil {
		return err
	}

	v, err := m.Read()
	if err != nil {
		return err
	}

	out := consoleFor(cmd)
	if verbose {
		out.Info("%s (%s)", v, m.Name())
		return nil
	}
	out.Info("%s", v)
	return nil
}
