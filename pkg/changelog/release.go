package changelog

import (
	_ "embed"
	"regexp"
	"strings"
)

// UnreleasedHeader is the heading of the block that collects new entries.
const UnreleasedHeader = "## [Unreleased]"

//go:embed templates/UNRELEASED.md
var unreleasedTemplate string

// UnreleasedTemplate returns the block inserted at the top of the changelog
// when a release starts.
func UnreleasedTemplate() string {
	return unreleasedTemplate
}

// emptyChapter matches a heading whose only body is one italic placeholder.
var emptyChapter = regexp.MustCompile(`###.*\n\n_.*_\n\n`)

// ReleaseHeader returns the heading used for a released version.
func ReleaseHeader(version string) string {
	return "## 🚀 [" + version + "]"
}

// ChangeHeader renames every Unreleased heading to the release heading and
// reports whether anything was replaced.
func (d *Document) ChangeHeader(version string) bool {
	changed := false
	for i, line := range d.lines {
		if strings.Contains(line, UnreleasedHeader) {
			d.lines[i] = strings.ReplaceAll(line, UnreleasedHeader, ReleaseHeader(version))
			changed = true
		}
	}
	return changed
}

// RemoveEmptyChapters drops sections that still hold only their placeholder.
// It returns the number of chapters removed.
func (d *Document) RemoveEmptyChapters() int {
	content := d.String()
	removed := len(emptyChapter.FindAllStringIndex(content, -1))
	if removed == 0 {
		return 0
	}
	d.lines = strings.Split(emptyChapter.ReplaceAllString(content, ""), "\n")
	return removed
}

// AddUnreleasedBlock inserts the Unreleased template, followed by a blank
// line, in front of the first release heading for version. It reports false
// when that heading is missing.
func (d *Document) AddUnreleasedBlock(version string) bool {
	content := d.String()
	header := ReleaseHeader(version)
	idx := strings.Index(content, header)
	if idx < 0 {
		return false
	}
	block := unreleasedTemplate + "\n"
	d.lines = strings.Split(content[:idx]+block+content[idx:], "\n")
	return true
}
