package version

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"

	spectrumerrors "spectrumdata.tech/spectrum/pkg/errors"
)

// Manifest file names probed in order.
const (
	PackageJSON   = "package.json"
	PyProjectTOML = "pyproject.toml"
)

// Manifest is a project file carrying the version string.
type Manifest struct {
	Path string
}

// Detect returns the manifest to use in dir. A non-empty override wins;
// otherwise package.json is preferred over pyproject.toml.
func Detect(dir, override string) (*Manifest, error) {
	if override != "" {
		path := override
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		m := &Manifest{Path: path}
		if !m.isJSON() && !m.isTOML() {
			return nil, spectrumerrors.NewVersionError(override, "unsupported manifest type")
		}
		return m, nil
	}

	for _, name := range []string{PackageJSON, PyProjectTOML} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return &Manifest{Path: path}, nil
		}
	}
	return nil, spectrumerrors.NewVersionError("", "no package.json or pyproject.toml found")
}

// Name returns the manifest's file name.
func (m *Manifest) Name() string {
	return filepath.Base(m.Path)
}

func (m *Manifest) isJSON() bool {
	return strings.EqualFold(filepath.Ext(m.Path), ".json")
}

func (m *Manifest) isTOML() bool {
	return strings.EqualFold(filepath.Ext(m.Path), ".toml")
}

// Read returns the version declared in the manifest.
func (m *Manifest) Read() (string, error) {
	data, err := os.ReadFile(m.Path)
	if err != nil {
		return "", spectrumerrors.NewVersionErrorWithCause(m.Name(), "cannot read manifest", err)
	}

	var version string
	if m.isJSON() {
		var pkg struct {
			Version string `json:"version"`
		}
		if err := json.Unmarshal(data, &pkg); err != nil {
			return "", spectrumerrors.NewVersionErrorWithCause(m.Name(), "invalid JSON", err)
		}
		version = pkg.Version
	} else {
		var py struct {
			Project struct {
				Version string `toml:"version"`
			} `toml:"project"`
			Tool struct {
				Poetry struct {
					Version string `toml:"version"`
				} `toml:"poetry"`
			} `toml:"tool"`
		}
		if err := toml.Unmarshal(data, &py); err != nil {
			return "", spectrumerrors.NewVersionErrorWithCause(m.Name(), "invalid TOML", err)
		}
		version = py.Project.Version
		if version == "" {
			version = py.Tool.Poetry.Version
		}
	}

	if version == "" {
		return "", spectrumerrors.NewVersionError(m.Name(), "no version field")
	}
	return version, nil
}

// jsonVersion matches the first "version" key; package.json keeps it at the top.
var jsonVersion = regexp.MustCompile(`("version"\s*:\s*")[^"]*(")`)

// tomlVersion matches a version assignment line.
var tomlVersion = regexp.MustCompile(`^(\s*version\s*=\s*["'])[^"']*(["'].*)$`)

// Write replaces the declared version, leaving the rest of the file as is.
func (m *Manifest) Write(version string) error {
	info, err := os.Stat(m.Path)
	if err != nil {
		return spectrumerrors.NewVersionErrorWithCause(m.Name(), "cannot read manifest", err)
	}
	data, err := os.ReadFile(m.Path)
	if err != nil {
		return spectrumerrors.NewVersionErrorWithCause(m.Name(), "cannot read manifest", err)
	}

	var updated string
	var ok bool
	if m.isJSON() {
		updated, ok = replaceJSONVersion(string(data), version)
	} else {
		updated, ok = replaceTOMLVersion(string(data), version)
	}
	if !ok {
		return spectrumerrors.NewVersionError(m.Name(), "no version field")
	}

	if err := os.WriteFile(m.Path, []byte(updated), info.Mode().Perm()); err != nil {
		return spectrumerrors.NewVersionErrorWithCause(m.Name(), "cannot write manifest", err)
	}
	return nil
}

func replaceJSONVersion(content, version string) (string, bool) {
	loc := jsonVersion.FindStringSubmatchIndex(content)
	if loc == nil {
		return content, false
	}
	// loc[3] ends the opening group, loc[4] starts the closing quote.
	return content[:loc[3]] + version + content[loc[4]:], true
}

// replaceTOMLVersion rewrites the version line of [project], falling back to
// [tool.poetry].
func replaceTOMLVersion(content, version string) (string, bool) {
	lines := strings.Split(content, "\n")
	for _, table := range []string{"project", "tool.poetry"} {
		if idx := findTableKey(lines, table); idx >= 0 {
			lines[idx] = tomlVersion.ReplaceAllString(lines[idx], "${1}"+version+"${2}")
			return strings.Join(lines, "\n"), true
		}
	}
	return content, false
}

// findTableKey returns the index of the version line inside [table], or -1.
func findTableKey(lines []string, table string) int {
	header := "[" + table + "]"
	inTable := false

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") {
			inTable = trimmed == header
			continue
		}
		if inTable && tomlVersion.MatchString(line) {
			return i
		}
	}
	return -1
}
