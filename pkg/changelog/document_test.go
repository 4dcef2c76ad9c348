package changelog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	spectrumerrors "spectrumdata.tech/spectrum/pkg/errors"
)

const testEntry = "- SPEC-1 Fix crash. [Test User](test@example.com)"

func writeChangelog(t *testing.T, content string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
	return path
}

func TestParse_RoundTrip(t *testing.T) {
	inputs := []string{
		fixtureChangelog,
		"",
		"\n",
		"no trailing newline",
		"crlf\r\nlines\r\n",
		"\n\n\n",
	}

	for _, in := range inputs {
		assert.Equal(t, in, Parse(in).String())
	}
}

func TestLoadSave_Unmodified(t *testing.T) {
	path := writeChangelog(t, fixtureChangelog, 0o644)

	doc, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, doc.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fixtureChangelog, string(data))
}

func TestSave_PreservesMode(t *testing.T) {
	path := writeChangelog(t, fixtureChangelog, 0o600)

	doc, err := Load(path)
	require.NoError(t, err)
	idx, err := doc.LocateSection(SectionFixed)
	require.NoError(t, err)
	doc.InsertEntry(idx, testEntry)
	require.NoError(t, doc.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should not be left behind")
}

func TestSave_KeepsSymlink(t *testing.T) {
	shared := writeChangelog(t, fixtureChangelog, 0o644)
	link := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.Symlink(shared, link))

	doc, err := Load(link)
	require.NoError(t, err)
	idx, err := doc.LocateSection(SectionFixed)
	require.NoError(t, err)
	doc.InsertEntry(idx, testEntry)
	require.NoError(t, doc.Save(link))

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "link should still be a symlink")

	dest, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, shared, dest)

	data, err := os.ReadFile(shared)
	require.NoError(t, err)
	assert.Contains(t, string(data), testEntry)

	entries, err := os.ReadDir(filepath.Dir(shared))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should not be left behind")
}

func TestSave_Unwritable(t *testing.T) {
	doc := Parse(fixtureChangelog)
	err := doc.Save(filepath.Join(t.TempDir(), "missing", DefaultPath))
	require.Error(t, err)
	assert.True(t, spectrumerrors.IsChangelogKind(err, spectrumerrors.KindDocumentUnwritable))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), DefaultPath))
	require.Error(t, err)
	assert.True(t, spectrumerrors.IsChangelogKind(err, spectrumerrors.KindDocumentUnreadable))
}

func TestLocateSection(t *testing.T) {
	doc := Parse(fixtureChangelog)

	idx, err := doc.LocateSection(SectionFixed)
	require.NoError(t, err)
	assert.Equal(t, 12, idx)

	_, err = doc.LocateSection(SectionSecurity)
	require.Error(t, err)
	assert.True(t, spectrumerrors.IsChangelogKind(err, spectrumerrors.KindSectionNotFound))

	var clErr *spectrumerrors.ChangelogError
	require.ErrorAs(t, err, &clErr)
	assert.Equal(t, string(SectionSecurity), clErr.Section)
}

func TestLocateSection_ExactMatchOnly(t *testing.T) {
	doc := Parse("### Fixed\n\n### 🪲 Fixed \n\n")
	_, err := doc.LocateSection(SectionFixed)
	assert.Error(t, err)
}

func TestLocateSection_MissingLeavesFileUntouched(t *testing.T) {
	content := strings.Replace(fixtureChangelog, "### 🪲 Fixed\n", "", 1)
	path := writeChangelog(t, content, 0o644)

	doc, err := Load(path)
	require.NoError(t, err)
	_, err = doc.LocateSection(SectionFixed)
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestInsertEntry(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		section   int
		wantIndex int
		want      string
	}{
		{
			name:      "replaces single placeholder",
			content:   "### 🪲 Fixed\n\n_Placeholder._\n\n### 📦 Support",
			section:   0,
			wantIndex: 2,
			want:      "### 🪲 Fixed\n\n" + testEntry + "\n\n### 📦 Support",
		},
		{
			name:      "replaces multi-line placeholder",
			content:   "### 🪲 Fixed\n\n_one_\n_two_\n\n### 📦 Support",
			section:   0,
			wantIndex: 2,
			want:      "### 🪲 Fixed\n\n" + testEntry + "\n\n### 📦 Support",
		},
		{
			name:      "prepends before existing entries",
			content:   "### 🪲 Fixed\n\n- OLD-1 Old. [A](a@b)\n\n### 📦 Support",
			section:   0,
			wantIndex: 2,
			want:      "### 🪲 Fixed\n\n" + testEntry + "\n- OLD-1 Old. [A](a@b)\n\n### 📦 Support",
		},
		{
			name:      "placeholder above entries is still dropped",
			content:   "### 🪲 Fixed\n\n_Placeholder._\n- OLD-1 Old. [A](a@b)\n",
			section:   0,
			wantIndex: 2,
			want:      "### 🪲 Fixed\n\n" + testEntry + "\n- OLD-1 Old. [A](a@b)\n",
		},
		{
			name:      "heading on last line",
			content:   "# Changelog\n### 🪲 Fixed",
			section:   1,
			wantIndex: 2,
			want:      "# Changelog\n### 🪲 Fixed\n" + testEntry,
		},
		{
			name:      "heading followed by one blank line at end",
			content:   "### 🪲 Fixed\n",
			section:   0,
			wantIndex: 2,
			want:      "### 🪲 Fixed\n\n" + testEntry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.content)
			got := doc.InsertEntry(tt.section, testEntry)
			assert.Equal(t, tt.wantIndex, got)
			assert.Equal(t, tt.want, doc.String())
			assert.Equal(t, testEntry, doc.Line(got))
		})
	}
}

func TestInsertEntry_Fixture(t *testing.T) {
	doc := Parse(fixtureChangelog)
	idx, err := doc.LocateSection(SectionFixed)
	require.NoError(t, err)

	at := doc.InsertEntry(idx, testEntry)
	assert.Equal(t, idx+2, at)

	want := strings.Replace(fixtureChangelog,
		"### 🪲 Fixed\n\n_Список исправлений багов._\n",
		"### 🪲 Fixed\n\n"+testEntry+"\n", 1)
	assert.Equal(t, want, doc.String())

	second := "- SPEC-2 Another. [Test User](test@example.com)"
	at = doc.InsertEntry(idx, second)
	assert.Equal(t, idx+2, at)
	assert.Equal(t, second, doc.Line(idx+2))
	assert.Equal(t, testEntry, doc.Line(idx+3))
}

func TestContext(t *testing.T) {
	doc := Parse("a\nb\nc")

	before, hasBefore, after, hasAfter := doc.Context(1)
	assert.True(t, hasBefore)
	assert.Equal(t, "a", before)
	assert.True(t, hasAfter)
	assert.Equal(t, "c", after)

	_, hasBefore, after, hasAfter = doc.Context(0)
	assert.False(t, hasBefore)
	assert.True(t, hasAfter)
	assert.Equal(t, "b", after)

	before, hasBefore, _, hasAfter = doc.Context(2)
	assert.True(t, hasBefore)
	assert.Equal(t, "b", before)
	assert.False(t, hasAfter)
}

func TestLines_ReturnsCopy(t *testing.T) {
	doc := Parse("a\nb")
	lines := doc.Lines()
	lines[0] = "z"
	assert.Equal(t, "a\nb", doc.String())
	assert.Equal(t, 2, doc.Len())
	assert.Equal(t, "", doc.Line(5))
}
