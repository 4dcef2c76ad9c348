// Package errors provides typed errors for the spectrum project.
//
// This package defines domain-specific error types that provide structured
// error information for different subsystems (changelog, git, version,
// config, workflow). All error types implement the standard error interface
// and support errors.Is() and errors.As() from the standard library and
// cockroachdb/errors.
package errors

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// ChangelogErrorKind classifies why a changelog operation was aborted.
type ChangelogErrorKind string

const (
	// KindBranchUnavailable means the current branch name could not be read.
	KindBranchUnavailable ChangelogErrorKind = "branch_unavailable"
	// KindInvalidTaskFormat means a manually entered task id was malformed.
	KindInvalidTaskFormat ChangelogErrorKind = "invalid_task_format"
	// KindMissingName means the author name was left empty.
	KindMissingName ChangelogErrorKind = "missing_name"
	// KindInvalidEmail means the author email does not contain '@'.
	KindInvalidEmail ChangelogErrorKind = "invalid_email"
	// KindInvalidSelection means the section menu answer was not a valid number.
	KindInvalidSelection ChangelogErrorKind = "invalid_selection"
	// KindSectionNotFound means the chosen heading does not exist in the document.
	KindSectionNotFound ChangelogErrorKind = "section_not_found"
	// KindDocumentUnreadable means the changelog file could not be read.
	KindDocumentUnreadable ChangelogErrorKind = "document_unreadable"
	// KindDocumentUnwritable means the changelog file could not be written back.
	KindDocumentUnwritable ChangelogErrorKind = "document_unwritable"
)

// String returns the string representation of the kind.
func (k ChangelogErrorKind) String() string {
	return string(k)
}

// ChangelogError represents a failure while editing the changelog document.
type ChangelogError struct {
	Kind    ChangelogErrorKind
	Message string
	Section string // Heading involved, if any
	Path    string // Changelog file, if any
	Cause   error
}

// Error implements the error interface.
func (e *ChangelogError) Error() string {
	label := strings.ReplaceAll(string(e.Kind), "_", " ")
	if e.Message == "" {
		return "changelog: " + label
	}
	return fmt.Sprintf("changelog: %s: %s", label, e.Message)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *ChangelogError) Unwrap() error {
	return e.Cause
}

// NewChangelogError creates a new ChangelogError.
func NewChangelogError(kind ChangelogErrorKind, message string) *ChangelogError {
	return &ChangelogError{Kind: kind, Message: message}
}

// NewChangelogErrorWithCause creates a new ChangelogError with an underlying cause.
func NewChangelogErrorWithCause(kind ChangelogErrorKind, message string, cause error) *ChangelogError {
	return &ChangelogError{Kind: kind, Message: message, Cause: cause}
}

// ConfigError represents configuration-related errors.
type ConfigError struct {
	Field   string // Which config field has the issue
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
	}
	return "config error: " + e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewConfigErrorWithCause creates a new ConfigError with an underlying cause.
func NewConfigErrorWithCause(field, message string, cause error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Cause: cause}
}

// GitError represents a failed git invocation.
type GitError struct {
	Operation string   // e.g., "switch", "tag", "push"
	Args      []string // Arguments passed to git
	Output    string   // Combined output captured from git, if any
	Cause     error
}

// Error implements the error interface.
func (e *GitError) Error() string {
	msg := fmt.Sprintf("git %s failed", e.Operation)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	} else if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *GitError) Unwrap() error {
	return e.Cause
}

// Command returns the git command line that failed.
func (e *GitError) Command() string {
	return strings.TrimSpace("git " + strings.Join(e.Args, " "))
}

// NewGitError creates a new GitError.
func NewGitError(operation string, args []string, output string, cause error) *GitError {
	return &GitError{Operation: operation, Args: args, Output: output, Cause: cause}
}

// VersionError represents project manifest and version arithmetic errors.
type VersionError struct {
	Manifest string // Manifest file involved, if any
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *VersionError) Error() string {
	if e.Manifest != "" {
		return fmt.Sprintf("version error in %s: %s", e.Manifest, e.Message)
	}
	return "version error: " + e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *VersionError) Unwrap() error {
	return e.Cause
}

// NewVersionError creates a new VersionError.
func NewVersionError(manifest, message string) *VersionError {
	return &VersionError{Manifest: manifest, Message: message}
}

// NewVersionErrorWithCause creates a new VersionError with an underlying cause.
func NewVersionErrorWithCause(manifest, message string, cause error) *VersionError {
	return &VersionError{Manifest: manifest, Message: message, Cause: cause}
}

// WorkflowError represents workflow orchestration errors.
type WorkflowError struct {
	Step    string // e.g., "extract_task", "select_section", "create_release_branch"
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *WorkflowError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("workflow step %s failed: %s", e.Step, e.Message)
	}
	return "workflow error: " + e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *WorkflowError) Unwrap() error {
	return e.Cause
}

// NewWorkflowError creates a new WorkflowError.
func NewWorkflowError(step, message string) *WorkflowError {
	return &WorkflowError{Step: step, Message: message}
}

// NewWorkflowErrorWithCause creates a new WorkflowError with an underlying cause.
func NewWorkflowErrorWithCause(step, message string, cause error) *WorkflowError {
	return &WorkflowError{Step: step, Message: message, Cause: cause}
}

// IsChangelogError checks if an error or any error in its chain is a ChangelogError.
func IsChangelogError(err error) bool {
	var clErr *ChangelogError
	return errors.As(err, &clErr)
}

// IsChangelogKind reports whether the error chain holds a ChangelogError of the given kind.
func IsChangelogKind(err error, kind ChangelogErrorKind) bool {
	var clErr *ChangelogError
	if !errors.As(err, &clErr) {
		return false
	}
	return clErr.Kind == kind
}

// IsConfigError checks if an error or any error in its chain is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGitError checks if an error or any error in its chain is a GitError.
func IsGitError(err error) bool {
	var gitErr *GitError
	return errors.As(err, &gitErr)
}

// IsVersionError checks if an error or any error in its chain is a VersionError.
func IsVersionError(err error) bool {
	var versionErr *VersionError
	return errors.As(err, &versionErr)
}

// IsWorkflowError checks if an error or any error in its chain is a WorkflowError.
func IsWorkflowError(err error) bool {
	var wfErr *WorkflowError
	return errors.As(err, &wfErr)
}

// errReported marks errors whose user-facing report was already printed.
var errReported = errors.New("reported")

// MarkReported records that err has already been shown to the user, so the
// CLI boundary only needs to set the exit code.
func MarkReported(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, errReported)
}

// IsReported reports whether err was marked with MarkReported.
func IsReported(err error) bool {
	return errors.Is(err, errReported)
}

// Re-export commonly used functions from cockroachdb/errors for convenience.
// This allows consumers to use spectrumerrors.Wrap() instead of importing two packages.
var (
	// New creates a new error with the given message.
	New = errors.New

	// Newf creates a new error with formatted message.
	Newf = errors.Newf

	// Wrap wraps an error with additional context.
	Wrap = errors.Wrap

	// Wrapf wraps an error with formatted additional context.
	Wrapf = errors.Wrapf

	// Is reports whether any error in err's chain matches target.
	Is = errors.Is

	// As finds the first error in err's chain that matches target.
	As = errors.As

	// Cause returns the root cause of an error.
	Cause = errors.Cause
)
