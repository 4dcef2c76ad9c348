package changelog

import (
	"regexp"

	spectrumerrors "spectrumdata.tech/spectrum/pkg/errors"
)

// TaskPattern is the human-readable task id format shown in prompts and errors.
const TaskPattern = "[a-zA-Z]+-[0-9]+"

var (
	taskInBranch = regexp.MustCompile(TaskPattern)
	taskExact    = regexp.MustCompile("^" + TaskPattern + "$")
)

// FindTask returns the first task id embedded in branch.
func FindTask(branch string) (string, bool) {
	task := taskInBranch.FindString(branch)
	return task, task != ""
}

// ValidateTask checks that input is exactly one task id.
func ValidateTask(input string) error {
	if !taskExact.MatchString(input) {
		return spectrumerrors.NewChangelogError(
			spectrumerrors.KindInvalidTaskFormat,
			"Invalid task format. Expected format: "+TaskPattern,
		)
	}
	return nil
}
