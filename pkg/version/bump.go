// Package version reads, bumps and writes the project version kept in
// package.json or pyproject.toml.
package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	spectrumerrors "spectrumdata.tech/spectrum/pkg/errors"
)

// Level selects which semver component to increment.
type Level string

const (
	LevelMajor Level = "major"
	LevelMinor Level = "minor"
	LevelPatch Level = "patch"
)

// Levels returns the bump levels in descending significance.
func Levels() []Level {
	return []Level{LevelMajor, LevelMinor, LevelPatch}
}

// ParseLevel converts a command-line word into a Level.
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelMajor:
		return LevelMajor, nil
	case LevelMinor:
		return LevelMinor, nil
	case LevelPatch:
		return LevelPatch, nil
	default:
		return "", spectrumerrors.NewVersionError("", "unknown bump level "+s+": expected major, minor or patch")
	}
}

// Bump increments current at level, resetting the lower components. The
// result has no "v" prefix and no prerelease or build metadata.
func Bump(current string, level Level) (string, error) {
	v, err := semver.NewVersion(current)
	if err != nil {
		return "", spectrumerrors.NewVersionErrorWithCause("", "invalid version "+current, err)
	}

	var next semver.Version
	switch level {
	case LevelMajor:
		next = v.IncMajor()
	case LevelMinor:
		next = v.IncMinor()
	case LevelPatch:
		next = v.IncPatch()
	default:
		return "", spectrumerrors.NewVersionError("", "unknown bump level "+string(level))
	}

	// IncPatch on a prerelease only drops the suffix.
	out := semver.New(next.Major(), next.Minor(), next.Patch(), "", "")
	return out.String(), nil
}
