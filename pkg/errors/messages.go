package errors

import (
	"fmt"
	"strings"
)

// FormatUserError returns a user-friendly error message with actionable guidance.
// It examines the error chain and provides context-appropriate help text.
// The most specific error in the chain wins, so a ChangelogError wrapped in a
// WorkflowError is reported as a changelog problem.
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}

	// Check for ChangelogError
	var clErr *ChangelogError
	if As(err, &clErr) {
		return formatChangelogError(clErr)
	}

	// Check for GitError
	var gitErr *GitError
	if As(err, &gitErr) {
		return formatGitError(gitErr)
	}

	// Check for VersionError
	var versionErr *VersionError
	if As(err, &versionErr) {
		return formatVersionError(versionErr)
	}

	// Check for ConfigError
	var configErr *ConfigError
	if As(err, &configErr) {
		return formatConfigError(configErr)
	}

	// Check for WorkflowError
	var wfErr *WorkflowError
	if As(err, &wfErr) {
		return formatWorkflowError(wfErr)
	}

	// Default: return the error message as-is
	return err.Error()
}

// formatChangelogError formats a ChangelogError with guidance specific to its kind.
func formatChangelogError(err *ChangelogError) string {
	var b strings.Builder

	switch err.Kind {
	case KindBranchUnavailable:
		b.WriteString("Cannot get current branch name.\n")
		b.WriteString("\nTo fix this:\n")
		b.WriteString("  • Run the command inside a git repository\n")
		b.WriteString("  • Check out a branch instead of a detached HEAD: git switch <branch>\n")
	case KindInvalidTaskFormat:
		b.WriteString("Invalid task format. Expected format: [a-zA-Z]+-[0-9]+\n")
		b.WriteString("\nTo fix this:\n")
		b.WriteString("  • Enter a task number such as SPEC-123\n")
		b.WriteString("  • Or name the branch after the task: feature/SPEC-123-short-title\n")
	case KindMissingName:
		b.WriteString("Name is required.\n")
		b.WriteString("\nTo fix this:\n")
		b.WriteString("  • Configure it once: git config user.name \"Your Name\"\n")
	case KindInvalidEmail:
		b.WriteString("Valid email is required.\n")
		b.WriteString("\nTo fix this:\n")
		b.WriteString("  • Configure it once: git config user.email \"your.email@domain.com\"\n")
	case KindInvalidSelection:
		b.WriteString("Invalid choice.\n")
		b.WriteString("\nTo fix this:\n")
		b.WriteString("  • Enter one of the numbers shown in the section menu\n")
	case KindSectionNotFound:
		fmt.Fprintf(&b, "Cannot find %q section in %s.\n", err.Section, pathOrDefault(err.Path))
		b.WriteString("\nTo fix this:\n")
		b.WriteString("  • Headings must match exactly, emoji included (e.g. \"### 🪲 Fixed\")\n")
		b.WriteString("  • Restore the missing heading followed by one blank line\n")
	case KindDocumentUnreadable:
		fmt.Fprintf(&b, "Cannot read %s.\n", pathOrDefault(err.Path))
		b.WriteString("\nTo fix this:\n")
		b.WriteString("  • Run the command from the project root\n")
		b.WriteString("  • Or set changelog.path in .spectrum.toml\n")
	case KindDocumentUnwritable:
		fmt.Fprintf(&b, "Cannot write %s.\n", pathOrDefault(err.Path))
		b.WriteString("\nTo fix this:\n")
		b.WriteString("  • Check file and directory permissions\n")
	default:
		fmt.Fprintf(&b, "Changelog error: %s\n", err.Message)
	}

	if err.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying error: %v", err.Cause)
	}

	return b.String()
}

// formatGitError formats a GitError with the failing command line.
func formatGitError(err *GitError) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Git error during %s.\n", err.Operation)
	if len(err.Args) > 0 {
		fmt.Fprintf(&b, "Command: %s\n", err.Command())
	}
	if out := strings.TrimSpace(err.Output); out != "" {
		fmt.Fprintf(&b, "\n%s\n", out)
	}

	b.WriteString("\nTo fix this:\n")
	b.WriteString("  • Check 'git status' for uncommitted changes or conflicts\n")
	b.WriteString("  • Verify the remote is reachable and your credentials are valid\n")

	if err.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying error: %v", err.Cause)
	}

	return b.String()
}

// formatVersionError formats a VersionError with actionable guidance.
func formatVersionError(err *VersionError) string {
	var b strings.Builder

	if err.Manifest != "" {
		fmt.Fprintf(&b, "Version error in '%s': %s\n", err.Manifest, err.Message)
	} else {
		fmt.Fprintf(&b, "Version error: %s\n", err.Message)
	}

	b.WriteString("\nTo fix this:\n")
	b.WriteString("  • Make sure package.json or pyproject.toml declares a semantic version (x.y.z)\n")
	b.WriteString("  • Or point version.manifest in .spectrum.toml at the right file\n")

	if err.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying error: %v", err.Cause)
	}

	return b.String()
}

// formatConfigError formats a ConfigError with actionable guidance.
func formatConfigError(err *ConfigError) string {
	var b strings.Builder

	if err.Field != "" {
		fmt.Fprintf(&b, "Configuration error in '%s': %s\n", err.Field, err.Message)
	} else {
		fmt.Fprintf(&b, "Configuration error: %s\n", err.Message)
	}

	b.WriteString("\nTo fix this:\n")
	b.WriteString("  • Check your config file: ~/.config/spectrum/config.toml\n")
	b.WriteString("  • Check the repository config: .spectrum.toml\n")

	if err.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying error: %v", err.Cause)
	}

	return b.String()
}

// formatWorkflowError formats a WorkflowError with actionable guidance.
func formatWorkflowError(err *WorkflowError) string {
	var b strings.Builder

	if err.Step != "" {
		fmt.Fprintf(&b, "Failed at step '%s': %s\n", err.Step, err.Message)
	} else {
		fmt.Fprintf(&b, "Workflow error: %s\n", err.Message)
	}

	b.WriteString("\nTo troubleshoot:\n")
	b.WriteString("  • Run with --verbose for more details\n")
	b.WriteString("  • Check 'git status' before running the command again\n")

	if err.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying error: %v", err.Cause)
	}

	return b.String()
}

func pathOrDefault(path string) string {
	if path == "" {
		return "CHANGELOG.md"
	}
	return path
}
