// Package workflow provides the step engines behind spectrum's commands.
//
// The changelog append workflow turns one message into one changelog entry:
// 1. Extract task - task id from the branch name, or asked for
// 2. Resolve identity - author from git config, missing fields asked for
// 3. Format entry - "- <task> <message>. [<name>](<email>)"
// 4. Classify and select section - branch hints, menu when ambiguous
// 5. Load, locate, mutate, persist - edit CHANGELOG.md in place
//
// The release workflows (start, close, deploy) are straight step lists over
// the git CLI and the changelog document.
package workflow

import (
	"time"

	"spectrumdata.tech/spectrum/pkg/changelog"
)

// Step represents a workflow step.
type Step string

const (
	// StepExtractTask finds the task id for the entry.
	StepExtractTask Step = "extract_task"
	// StepResolveIdentity finds the entry author.
	StepResolveIdentity Step = "resolve_identity"
	// StepFormatEntry builds the entry line.
	StepFormatEntry Step = "format_entry"
	// StepClassifySection derives candidate sections from the branch.
	StepClassifySection Step = "classify_section"
	// StepSelectSection narrows the candidates to one section.
	StepSelectSection Step = "select_section"
	// StepLoadDocument reads the changelog.
	StepLoadDocument Step = "load_document"
	// StepLocateSection finds the section heading.
	StepLocateSection Step = "locate_section"
	// StepMutateDocument inserts the entry in memory.
	StepMutateDocument Step = "mutate_document"
	// StepPersist writes the changelog back.
	StepPersist Step = "persist"
)

const (
	// StepCreateReleaseBranch syncs develop and branches off the release.
	StepCreateReleaseBranch Step = "create_release_branch"
	// StepChangeHeader renames the Unreleased heading to the version.
	StepChangeHeader Step = "change_header"
	// StepRemoveEmptyChapters drops sections holding only a placeholder.
	StepRemoveEmptyChapters Step = "remove_empty_chapters"
	// StepAddUnreleasedBlock adds a fresh Unreleased block.
	StepAddUnreleasedBlock Step = "add_unreleased_block"
	// StepCommitChangelog commits the changelog.
	StepCommitChangelog Step = "commit_changelog"
	// StepPushRelease pushes the release branch.
	StepPushRelease Step = "push_release"
	// StepSyncMain switches to and updates the main branch.
	StepSyncMain Step = "sync_main"
	// StepSyncDevelop switches to and updates the develop branch.
	StepSyncDevelop Step = "sync_develop"
	// StepMergeMain merges main into develop.
	StepMergeMain Step = "merge_main"
	// StepPushDevelop pushes develop without triggering CI.
	StepPushDevelop Step = "push_develop"
	// StepCreateTag tags the release version.
	StepCreateTag Step = "create_tag"
	// StepPushTag pushes the release tag.
	StepPushTag Step = "push_tag"
)

// AppendSteps returns the changelog append steps in execution order.
func AppendSteps() []Step {
	return []Step{
		StepExtractTask,
		StepResolveIdentity,
		StepFormatEntry,
		StepClassifySection,
		StepSelectSection,
		StepLoadDocument,
		StepLocateSection,
		StepMutateDocument,
		StepPersist,
	}
}

// String returns the string representation of the step.
func (s Step) String() string {
	return string(s)
}

// State is the lifecycle state of a run.
type State string

const (
	StateRunning State = "running"
	StateDone    State = "done"
	StateAborted State = "aborted"
)

// AppendRun records one changelog append invocation.
type AppendRun struct {
	Message    string
	Branch     string
	Task       string
	Author     changelog.Identity
	Entry      changelog.Entry
	Candidates []changelog.Section
	Section    changelog.Section

	SectionIndex int
	InsertIndex  int

	StartedAt      time.Time
	CompletedSteps []Step
	CurrentStep    Step
	State          State

	document *changelog.Document
}

// ReleaseRun records one release start, close or deploy invocation.
type ReleaseRun struct {
	Action        string // "start", "close" or "deploy"
	MainBranch    string
	DevelopBranch string
	Version       string
	Branch        string // Release branch created by start
	Tag           string // Tag created by deploy

	StartedAt      time.Time
	CompletedSteps []Step
	CurrentStep    Step
	State          State

	document *changelog.Document
}
