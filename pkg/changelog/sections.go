// Package changelog implements the line-oriented CHANGELOG.md model used by
// spectrum: canonical section headings, branch classification, task ids,
// entry formatting and in-place document edits.
//
// Everything in this package is pure or file-local. Prompting and git access
// live in pkg/workflow and pkg/git.
package changelog

import (
	"strconv"
	"strings"

	spectrumerrors "spectrumdata.tech/spectrum/pkg/errors"
)

// Section is a level-three changelog heading, emoji included.
type Section string

// Canonical section headings.
const (
	SectionAdded      Section = "### 🆕 Added"
	SectionChanged    Section = "### 🛠 Changed"
	SectionDeprecated Section = "### 📜 Deprecated"
	SectionRemoved    Section = "### 🗑 Removed"
	SectionFixed      Section = "### 🪲 Fixed"
	SectionSecurity   Section = "### 🔐 Security"
	SectionSupport    Section = "### 📦 Support"
)

// String returns the heading line.
func (s Section) String() string {
	return string(s)
}

// Canonical returns every section heading in canonical order.
func Canonical() []Section {
	return []Section{
		SectionAdded,
		SectionChanged,
		SectionDeprecated,
		SectionRemoved,
		SectionFixed,
		SectionSecurity,
		SectionSupport,
	}
}

// ClassifyBranch maps a branch name to the sections an entry from that branch
// may belong to. The first matching rule wins; an empty result means the
// branch carries no hint.
func ClassifyBranch(branch string) []Section {
	lower := strings.ToLower(branch)

	switch {
	case strings.Contains(lower, "support"):
		return []Section{SectionSupport, SectionSecurity}
	case strings.Contains(lower, "bugfix"), strings.Contains(lower, "fix"):
		return []Section{SectionFixed}
	case strings.Contains(lower, "feature"), strings.Contains(lower, "feat"):
		return []Section{SectionAdded, SectionChanged, SectionDeprecated, SectionRemoved}
	default:
		return []Section{}
	}
}

// EffectiveCandidates returns candidates, or all canonical sections when
// candidates is empty.
func EffectiveCandidates(candidates []Section) []Section {
	if len(candidates) == 0 {
		return Canonical()
	}
	return candidates
}

// ChooseSection resolves a 1-based menu answer against candidates.
func ChooseSection(candidates []Section, answer string) (Section, error) {
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || n < 1 || n > len(candidates) {
		return "", spectrumerrors.NewChangelogErrorWithCause(
			spectrumerrors.KindInvalidSelection,
			"Invalid choice",
			err,
		)
	}
	return candidates[n-1], nil
}
