package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	spectrumerrors "spectrumdata.tech/spectrum/pkg/errors"
)

const cmdPackageJSON = `{
  "name": "shop",
  "version": "1.4.2",
  "private": true
}
`

func TestVersionCommand_Structure(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range versionCmd.Commands() {
		names[strings.Split(sub.Use, " ")[0]] = true
	}
	for _, want := range []string{"up", "show"} {
		if !names[want] {
			t.Errorf("version command should have %q subcommand", want)
		}
	}

	if got := strings.Join(versionUpCmd.ValidArgs, ","); got != "major,minor,patch" {
		t.Errorf("version up ValidArgs = %q, want %q", got, "major,minor,patch")
	}
}

func TestVersionUp(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"patch", "1.4.3"},
		{"minor", "1.5.0"},
		{"major", "2.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			dir := setupDir(t, map[string]string{"package.json": cmdPackageJSON})

			out, err := executeCommand(t, "", "version", "up", tt.level)
			require.NoError(t, err)

			assert.Contains(t, out, "🔖 Current version 1.4.2 up to "+tt.want+".")
			assert.Equal(t,
				strings.Replace(cmdPackageJSON, "1.4.2", tt.want, 1),
				readFile(t, filepath.Join(dir, "package.json")))
		})
	}
}

func TestVersionUp_PyProject(t *testing.T) {
	dir := setupDir(t, map[string]string{"pyproject.toml": "[project]\nname = \"svc\"\nversion = \"0.9.1\"\n"})

	_, err := executeCommand(t, "", "version", "up", "minor")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(dir, "pyproject.toml")), "version = \"0.10.0\"")
}

func TestVersionUp_InvalidLevel(t *testing.T) {
	dir := setupDir(t, map[string]string{"package.json": cmdPackageJSON})

	_, err := executeCommand(t, "", "version", "up", "huge")
	require.Error(t, err)
	assert.True(t, spectrumerrors.IsVersionError(err))
	assert.Equal(t, cmdPackageJSON, readFile(t, filepath.Join(dir, "package.json")))
}

func TestVersionUp_NoManifest(t *testing.T) {
	setupDir(t, nil)

	_, err := executeCommand(t, "", "version", "up", "patch")
	require.Error(t, err)
	assert.True(t, spectrumerrors.IsVersionError(err))
}

func TestVersionShow(t *testing.T) {
	setupDir(t, map[string]string{"package.json": cmdPackageJSON})

	out, err := executeCommand(t, "", "version", "show")
	require.NoError(t, err)
	assert.Equal(t, "1.4.2\n", out)
}

func TestVersionShow_ManifestOverride(t *testing.T) {
	setupDir(t, map[string]string{
		"package.json":       cmdPackageJSON,
		"api/pyproject.toml": "[tool.poetry]\nname = \"api\"\nversion = \"3.1.0\"\n",
		".spectrum.toml":     "[version]\nmanifest = \"api/pyproject.toml\"\n",
	})

	out, err := executeCommand(t, "", "version", "show")
	require.NoError(t, err)
	assert.Equal(t, "3.1.0\n", out)
}
