package changelog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	spectrumerrors "spectrumdata.tech/spectrum/pkg/errors"
)

// DefaultPath is the changelog file name looked up in the working directory.
const DefaultPath = "CHANGELOG.md"

// Document is a changelog held as lines split on "\n".
type Document struct {
	lines []string
}

// Parse splits content into a Document. String reverses it byte for byte.
func Parse(content string) *Document {
	return &Document{lines: strings.Split(content, "\n")}
}

// Load reads and parses the changelog at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &spectrumerrors.ChangelogError{
			Kind:    spectrumerrors.KindDocumentUnreadable,
			Message: fmt.Sprintf("cannot read %s", path),
			Path:    path,
			Cause:   err,
		}
	}
	return Parse(string(data)), nil
}

// String joins the lines back into file content.
func (d *Document) String() string {
	return strings.Join(d.lines, "\n")
}

// Lines returns a copy of the document lines.
func (d *Document) Lines() []string {
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

// Len returns the number of lines.
func (d *Document) Len() int {
	return len(d.lines)
}

// Line returns the line at index, or "" when index is out of range.
func (d *Document) Line(index int) string {
	if index < 0 || index >= len(d.lines) {
		return ""
	}
	return d.lines[index]
}

// LocateSection returns the index of the first line equal to the heading.
func (d *Document) LocateSection(section Section) (int, error) {
	for i, line := range d.lines {
		if line == string(section) {
			return i, nil
		}
	}
	return -1, &spectrumerrors.ChangelogError{
		Kind:    spectrumerrors.KindSectionNotFound,
		Message: fmt.Sprintf("Cannot find %q section", section),
		Section: string(section),
	}
}

// InsertEntry places line two rows below the heading at sectionIndex and
// returns where it landed.
//
// A run of placeholder lines (starting with "_") at the insertion point is
// removed once the entry is in, unless one of the lines it now covers is
// already a "- " bullet.
func (d *Document) InsertEntry(sectionIndex int, line string) int {
	at := sectionIndex + 2
	if at < 0 {
		at = 0
	}
	if at > len(d.lines) {
		at = len(d.lines)
	}

	placeholders := 0
	for at+placeholders < len(d.lines) && strings.HasPrefix(d.lines[at+placeholders], "_") {
		placeholders++
	}

	lines := make([]string, 0, len(d.lines)+1)
	lines = append(lines, d.lines[:at]...)
	lines = append(lines, line)
	lines = append(lines, d.lines[at:]...)

	if placeholders > 0 {
		covered := lines[at+1 : at+1+placeholders]
		hasBullets := false
		for _, l := range covered {
			if strings.HasPrefix(l, "- ") {
				hasBullets = true
				break
			}
		}
		if !hasBullets {
			lines = append(lines[:at+1], lines[at+1+placeholders:]...)
		}
	}

	d.lines = lines
	return at
}

// Context returns the lines immediately before and after index. A side is
// reported as absent when index sits at the document edge.
func (d *Document) Context(index int) (before string, hasBefore bool, after string, hasAfter bool) {
	if index > 0 && index-1 < len(d.lines) {
		before, hasBefore = d.lines[index-1], true
	}
	if index+1 < len(d.lines) && index+1 >= 0 {
		after, hasAfter = d.lines[index+1], true
	}
	return before, hasBefore, after, hasAfter
}

// Save replaces the file at path with the document content. The new content
// is written to a sibling temp file and renamed over the original, keeping
// its permissions. When path is a symlink the link target is replaced and the
// link itself is left in place.
func (d *Document) Save(path string) error {
	target := path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		target = resolved
	}

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}

	unwritable := func(err error) error {
		return &spectrumerrors.ChangelogError{
			Kind:    spectrumerrors.KindDocumentUnwritable,
			Message: fmt.Sprintf("cannot write %s", path),
			Path:    path,
			Cause:   err,
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return unwritable(err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.WriteString(d.String()); err != nil {
		tmp.Close()
		return unwritable(err)
	}
	if err := tmp.Close(); err != nil {
		return unwritable(err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return unwritable(err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return unwritable(err)
	}
	return nil
}
