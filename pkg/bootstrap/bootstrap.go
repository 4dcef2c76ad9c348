// Package bootstrap turns spectrum's config sources into a validated
// config.Config before any command runs.
//
// Sources are applied lowest precedence first:
//
//  1. ~/.config/spectrum/config.toml, or the file named by --config
//  2. .spectrum.toml at the repository root
//  3. .spectrum.toml in the working directory, when that is not the root
//  4. SPECTRUM_* environment variables, e.g. SPECTRUM_GIT_TAG_PREFIX
package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"spectrumdata.tech/spectrum/pkg/config"
	spectrumerrors "spectrumdata.tech/spectrum/pkg/errors"
	"spectrumdata.tech/spectrum/pkg/git"
)

// LocalConfigName is the repository-local config file merged over the global one.
const LocalConfigName = ".spectrum.toml"

const envPrefix = "SPECTRUM"

// PreParseGlobalFlags finds --config/-C and --verbose/-v ahead of cobra, so a
// broken config is reported before a command is chosen. Scanning stops at the
// first positional argument or at "--".
func PreParseGlobalFlags(args []string) (cfgFile string, verbose bool) {
	if len(args) < 2 {
		return "", false
	}

	rest := args[1:]
	for len(rest) > 0 {
		arg := rest[0]
		rest = rest[1:]

		if arg == "--" || !strings.HasPrefix(arg, "-") {
			break
		}

		name, value, hasValue := strings.Cut(arg, "=")
		switch {
		case name == "-v" || name == "--verbose":
			verbose = !hasValue || parseBool(value)
		case name == "-C" || name == "--config":
			if hasValue {
				cfgFile = value
			} else if len(rest) > 0 {
				cfgFile, rest = rest[0], rest[1:]
			}
		case strings.HasPrefix(arg, "-C"):
			// -Cpath
			cfgFile = arg[2:]
		}
	}

	return cfgFile, verbose
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

// InitConfig loads spectrum's configuration from every source and validates
// it. A file named with --config must exist and parse; the default global
// file is optional. It returns the config and the verbosity it was loaded with.
func InitConfig(cfgFile string, verbose bool) (*config.Config, bool, error) {
	viper.Reset()

	if err := readGlobalConfig(cfgFile, verbose); err != nil {
		return nil, verbose, err
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	LoadRepoLocalConfig(verbose)

	cfg, err := config.Load()
	if err != nil {
		return nil, verbose, err
	}

	for _, w := range config.CheckSecurityWarnings(cfg) {
		fmt.Fprintf(os.Stderr, "Warning: %s: %s\n", w.Field, w.Message)
	}

	return cfg, verbose, nil
}

// GlobalConfigDir returns the directory holding spectrum's global config.toml.
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "cannot locate home directory for spectrum config")
	}
	return filepath.Join(home, ".config", "spectrum"), nil
}

func readGlobalConfig(cfgFile string, verbose bool) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return spectrumerrors.NewConfigErrorWithCause("", "cannot read config file "+cfgFile, err)
		}
	} else {
		dir, err := GlobalConfigDir()
		if err != nil {
			return err
		}
		viper.AddConfigPath(dir)
		viper.SetConfigName("config")
		viper.SetConfigType("toml")

		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return nil
			}
			return spectrumerrors.NewConfigErrorWithCause("", "cannot parse "+filepath.Join(dir, "config.toml"), err)
		}
	}

	if verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
	return nil
}

// LoadRepoLocalConfig merges .spectrum.toml files into the global viper
// instance. Unreadable files are skipped with a warning in verbose mode.
func LoadRepoLocalConfig(verbose bool) {
	for _, path := range localConfigPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}

		local := viper.New()
		local.SetConfigFile(path)
		local.SetConfigType("toml")
		if err := local.ReadInConfig(); err != nil {
			if verbose {
				fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", path, err)
			}
			continue
		}

		if err := viper.MergeConfigMap(local.AllSettings()); err != nil {
			if verbose {
				fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", path, err)
			}
			continue
		}

		if verbose {
			fmt.Fprintf(os.Stderr, "Using repository config: %s\n", path)
		}
	}
}

// localConfigPaths lists the repository-local config candidates, root first.
func localConfigPaths() []string {
	root, err := FindGitRoot()
	if err != nil || root == "" {
		return []string{LocalConfigName}
	}

	paths := []string{filepath.Join(root, LocalConfigName)}
	if cwd, err := os.Getwd(); err == nil && cwd != root {
		paths = append(paths, LocalConfigName)
	}
	return paths
}

// FindGitRoot walks up from the working directory to the nearest directory
// containing .git. It returns "" with a nil error outside a repository.
func FindGitRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "cannot determine working directory")
	}

	for !git.IsGitRepo(dir) {
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
	return dir, nil
}
