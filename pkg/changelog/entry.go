package changelog

import (
	"fmt"
	"strings"

	spectrumerrors "spectrumdata.tech/spectrum/pkg/errors"
)

// Identity is the author credited on an entry.
type Identity struct {
	Name  string
	Email string
}

// String renders the identity as a markdown link.
func (i Identity) String() string {
	return fmt.Sprintf("[%s](%s)", i.Name, i.Email)
}

// Complete reports whether both fields are set.
func (i Identity) Complete() bool {
	return i.Name != "" && i.Email != ""
}

// ValidateName fails with MissingName when name is empty.
func ValidateName(name string) error {
	if name == "" {
		return spectrumerrors.NewChangelogError(spectrumerrors.KindMissingName, "Name is required")
	}
	return nil
}

// ValidateEmail fails with InvalidEmail when email is empty or has no '@'.
func ValidateEmail(email string) error {
	if !strings.Contains(email, "@") {
		return spectrumerrors.NewChangelogError(spectrumerrors.KindInvalidEmail, "Valid email is required")
	}
	return nil
}

// FormatMessage terminates message with a period unless it already has one.
func FormatMessage(message string) string {
	if strings.HasSuffix(message, ".") {
		return message
	}
	return message + "."
}

// Entry is one changelog bullet.
type Entry struct {
	Task    string
	Message string
	Author  Identity
}

// NewEntry builds an entry, normalising the message terminator.
func NewEntry(task, message string, author Identity) Entry {
	return Entry{Task: task, Message: FormatMessage(message), Author: author}
}

// String renders the entry line.
func (e Entry) String() string {
	return fmt.Sprintf("- %s %s %s", e.Task, e.Message, e.Author)
}
