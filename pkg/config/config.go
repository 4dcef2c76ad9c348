package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	spectrumerrors "spectrumdata.tech/spectrum/pkg/errors"
)

// Config represents the application configuration
// Branch names left empty are detected from the remote at run time
type Config struct {
	Changelog ChangelogConfig `mapstructure:"changelog"`
	Git       GitConfig       `mapstructure:"git"`
	Version   VersionConfig   `mapstructure:"version"`
	Update    UpdateConfig    `mapstructure:"update"`
}

// ChangelogConfig holds changelog file configuration
type ChangelogConfig struct {
	Path string `mapstructure:"path"` // Changelog file, relative to the working directory
}

// GitConfig holds git workflow configuration
type GitConfig struct {
	Remote          string `mapstructure:"remote"`            // Remote to pull from and push to
	MainBranch      string `mapstructure:"main_branch"`       // Override for master/main detection
	DevelopBranch   string `mapstructure:"develop_branch"`    // Override for develop/dev detection
	ReleasePrefix   string `mapstructure:"release_prefix"`    // Release branch prefix, e.g. "release/"
	TagPrefix       string `mapstructure:"tag_prefix"`        // Release tag prefix, e.g. "v"
	MergeRequestURL string `mapstructure:"merge_request_url"` // Shown after a release branch is pushed
}

// VersionConfig holds project manifest configuration
type VersionConfig struct {
	Manifest string `mapstructure:"manifest"` // Empty means package.json, then pyproject.toml
}

// UpdateConfig holds self-update configuration
type UpdateConfig struct {
	BaseURL    string `mapstructure:"base_url"`   // GitLab instance hosting releases
	Repository string `mapstructure:"repository"` // Project path, e.g. "frontend/spectrum-cli"
}

// SecurityWarning represents a configuration security issue
type SecurityWarning struct {
	Field   string
	Message string
}

var repositorySlug = regexp.MustCompile(`^[A-Za-z0-9_.-]+(/[A-Za-z0-9_.-]+)+$`)

// Load loads the configuration from file and environment variables
func Load() (*Config, error) {
	config := &Config{}

	// Set defaults
	setDefaults()

	// Unmarshal the config
	if err := viper.Unmarshal(config); err != nil {
		return nil, spectrumerrors.NewConfigErrorWithCause("", "failed to unmarshal config", err)
	}

	// Expand paths
	if err := expandPaths(config); err != nil {
		return nil, errors.Wrap(err, "failed to expand paths")
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return config, nil
}

// CheckSecurityWarnings returns warnings for insecure configuration practices.
func CheckSecurityWarnings(config *Config) []SecurityWarning {
	var warnings []SecurityWarning

	if strings.HasPrefix(config.Update.BaseURL, "http://") {
		warnings = append(warnings, SecurityWarning{
			Field:   "update.base_url",
			Message: "Self-update URL uses plain HTTP. Release binaries should be downloaded over HTTPS.",
		})
	}

	return warnings
}

// Validate validates the configuration and returns any validation errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Changelog.Path) == "" {
		return spectrumerrors.NewConfigError("changelog.path", "must not be empty")
	}
	if c.Git.ReleasePrefix != "" && !strings.HasSuffix(c.Git.ReleasePrefix, "/") {
		return spectrumerrors.NewConfigError("git.release_prefix", `must end with "/"`)
	}
	if c.Update.Repository != "" && !repositorySlug.MatchString(c.Update.Repository) {
		return spectrumerrors.NewConfigError("update.repository", `must look like "group/project"`)
	}
	return nil
}

// SplitRepository returns the owner and project name of the update
// repository. Nested GitLab groups stay in the owner part.
func (c *Config) SplitRepository() (owner, name string) {
	i := strings.LastIndex(c.Update.Repository, "/")
	if i < 0 {
		return "", c.Update.Repository
	}
	return c.Update.Repository[:i], c.Update.Repository[i+1:]
}

// setDefaults sets default configuration values
func setDefaults() {
	// Changelog defaults
	viper.SetDefault("changelog.path", "CHANGELOG.md")

	// Git defaults (empty branch names mean auto-detect)
	viper.SetDefault("git.remote", "origin")
	viper.SetDefault("git.main_branch", "")
	viper.SetDefault("git.develop_branch", "")
	viper.SetDefault("git.release_prefix", "release/")
	viper.SetDefault("git.tag_prefix", "v")
	viper.SetDefault("git.merge_request_url", "https://gitlab.spectrumdata.tech/")

	// Version defaults (empty means auto-detect)
	viper.SetDefault("version.manifest", "")

	// Update defaults
	viper.SetDefault("update.base_url", "https://gitlab.spectrumdata.tech")
	viper.SetDefault("update.repository", "frontend/spectrum-cli")
}

// expandPaths expands ~ and environment variables in paths
func expandPaths(config *Config) error {
	var err error

	config.Changelog.Path, err = expandPath(config.Changelog.Path)
	if err != nil {
		return err
	}

	config.Version.Manifest, err = expandPath(config.Version.Manifest)
	if err != nil {
		return err
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, path[1:]), nil
}
