package workflow

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"spectrumdata.tech/spectrum/pkg/changelog"
	spectrumerrors "spectrumdata.tech/spectrum/pkg/errors"
	"spectrumdata.tech/spectrum/pkg/ui"
)

// RepoInfo provides the read-only repository facts the append workflow needs.
type RepoInfo interface {
	CurrentBranch() (string, error)
	UserIdentity() (name, email string, err error)
}

// AppendEngine orchestrates the changelog append workflow.
type AppendEngine struct {
	repo     RepoInfo
	repoErr  error
	prompter ui.Prompter
	out      ui.Output
	path     string
	logger   *slog.Logger
}

// NewAppendEngine creates an append engine.
//
// Parameters:
//   - repo: repository lookups; nil when the working directory is not a repository
//   - repoErr: why repo is nil, reported when the branch is needed
//   - prompter: source of interactive answers
//   - out: sink for user-facing status lines
//   - path: changelog file to edit
//   - verbose: enable debug logging
func NewAppendEngine(repo RepoInfo, repoErr error, prompter ui.Prompter, out ui.Output, path string, verbose bool) *AppendEngine {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if path == "" {
		path = changelog.DefaultPath
	}

	return &AppendEngine{
		repo:     repo,
		repoErr:  repoErr,
		prompter: prompter,
		out:      out,
		path:     path,
		logger:   slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
}

// SetLogger replaces the engine's logger.
func (e *AppendEngine) SetLogger(logger *slog.Logger) {
	if logger != nil {
		e.logger = logger
	}
}

// Run appends message to the changelog.
//
// Nothing is written until the entry has been placed in memory. On failure
// the error is reported through the output sink and returned as a
// WorkflowError naming the step, marked as already reported.
func (e *AppendEngine) Run(ctx context.Context, message string) (*AppendRun, error) {
	run := &AppendRun{
		Message:        message,
		StartedAt:      time.Now(),
		CompletedSteps: make([]Step, 0, len(AppendSteps())),
		State:          StateRunning,
	}

	steps := []struct {
		step Step
		fn   func(context.Context, *AppendRun) error
	}{
		{StepExtractTask, e.extractTask},
		{StepResolveIdentity, e.resolveIdentity},
		{StepFormatEntry, e.formatEntry},
		{StepClassifySection, e.classifySection},
		{StepSelectSection, e.selectSection},
		{StepLoadDocument, e.loadDocument},
		{StepLocateSection, e.locateSection},
		{StepMutateDocument, e.mutateDocument},
		{StepPersist, e.persist},
	}

	for _, s := range steps {
		run.CurrentStep = s.step
		e.logger.Debug("executing step", "step", s.step)

		err := ctx.Err()
		if err == nil {
			err = s.fn(ctx, run)
		}
		if err != nil {
			run.State = StateAborted
			e.logger.Debug("step failed", "step", s.step, "error", err)
			e.out.Error("❌ %s", strings.TrimRight(spectrumerrors.FormatUserError(err), "\n"))
			wfErr := spectrumerrors.NewWorkflowErrorWithCause(string(s.step), err.Error(), err)
			return run, spectrumerrors.MarkReported(wfErr)
		}

		run.CompletedSteps = append(run.CompletedSteps, s.step)
	}

	run.State = StateDone
	e.report(run)
	e.logger.Debug("changelog updated",
		"task", run.Task,
		"section", run.Section,
		"index", run.InsertIndex,
		"elapsed", time.Since(run.StartedAt))
	return run, nil
}

// extractTask takes the task id from the branch name or asks for it.
func (e *AppendEngine) extractTask(ctx context.Context, run *AppendRun) error {
	branch, err := e.currentBranch()
	if err != nil || branch == "" {
		return spectrumerrors.NewChangelogErrorWithCause(
			spectrumerrors.KindBranchUnavailable,
			"Cannot get current branch name",
			err,
		)
	}
	run.Branch = branch

	if task, ok := changelog.FindTask(branch); ok {
		run.Task = task
		return nil
	}

	e.out.Warn("⚠️  Branch name %q does not contain task number in format %s.", branch, changelog.TaskPattern)
	task, err := e.ask(ctx, "📝 Please enter task number (e.g. SPEC-123): ")
	if err != nil {
		return spectrumerrors.Wrap(err, "reading task number")
	}
	if err := changelog.ValidateTask(task); err != nil {
		return err
	}
	run.Task = task
	return nil
}

// ask waits for an answer until ctx is done.
func (e *AppendEngine) ask(ctx context.Context, question string) (string, error) {
	return ui.WithContext(ctx, e.prompter).Ask(question)
}

func (e *AppendEngine) currentBranch() (string, error) {
	if e.repo == nil {
		if e.repoErr != nil {
			return "", e.repoErr
		}
		return "", spectrumerrors.New("not a git repository")
	}
	return e.repo.CurrentBranch()
}

// resolveIdentity reads the author from git config and asks for whatever
// is missing.
func (e *AppendEngine) resolveIdentity(ctx context.Context, run *AppendRun) error {
	var name, email string
	if e.repo != nil {
		var err error
		name, email, err = e.repo.UserIdentity()
		if err != nil {
			e.logger.Debug("reading git identity failed", "error", err)
		}
	}

	if name != "" && email != "" {
		run.Author = changelog.Identity{Name: name, Email: email}
		return nil
	}

	e.out.Warn("⚠️  Git user name and email are not configured.")
	e.out.Info("💡 You can configure them using:")
	e.out.Info(`   git config user.name "Your Name"`)
	e.out.Info(`   git config user.email "your.email@domain.com"`)
	e.out.Info("")

	if name == "" {
		answer, err := e.ask(ctx, "👤 Please enter your name: ")
		if err != nil {
			return spectrumerrors.Wrap(err, "reading name")
		}
		if err := changelog.ValidateName(answer); err != nil {
			return err
		}
		name = answer
	}

	if email == "" {
		answer, err := e.ask(ctx, "📧 Please enter your email: ")
		if err != nil {
			return spectrumerrors.Wrap(err, "reading email")
		}
		if err := changelog.ValidateEmail(answer); err != nil {
			return err
		}
		email = answer
	}

	run.Author = changelog.Identity{Name: name, Email: email}
	return nil
}

func (e *AppendEngine) formatEntry(_ context.Context, run *AppendRun) error {
	run.Entry = changelog.NewEntry(run.Task, run.Message, run.Author)
	return nil
}

func (e *AppendEngine) classifySection(_ context.Context, run *AppendRun) error {
	run.Candidates = changelog.EffectiveCandidates(changelog.ClassifyBranch(run.Branch))
	e.logger.Debug("section candidates", "branch", run.Branch, "count", len(run.Candidates))
	return nil
}

// selectSection takes the only candidate, or asks via a numbered menu.
func (e *AppendEngine) selectSection(ctx context.Context, run *AppendRun) error {
	if len(run.Candidates) == 1 {
		run.Section = run.Candidates[0]
		return nil
	}

	options := make([]string, len(run.Candidates))
	for i, s := range run.Candidates {
		options[i] = s.String()
	}

	answer, err := ui.Menu(e.out, ui.WithContext(ctx, e.prompter), "📋 Please select a section:", options, "🔢 Enter section number: ")
	if err != nil {
		return spectrumerrors.Wrap(err, "reading section number")
	}

	section, err := changelog.ChooseSection(run.Candidates, answer)
	if err != nil {
		return err
	}
	run.Section = section
	return nil
}

func (e *AppendEngine) loadDocument(_ context.Context, run *AppendRun) error {
	doc, err := changelog.Load(e.path)
	if err != nil {
		return err
	}
	run.document = doc
	return nil
}

func (e *AppendEngine) locateSection(_ context.Context, run *AppendRun) error {
	idx, err := run.document.LocateSection(run.Section)
	if err != nil {
		var clErr *spectrumerrors.ChangelogError
		if spectrumerrors.As(err, &clErr) {
			clErr.Path = e.path
		}
		return err
	}
	run.SectionIndex = idx
	return nil
}

func (e *AppendEngine) mutateDocument(_ context.Context, run *AppendRun) error {
	run.InsertIndex = run.document.InsertEntry(run.SectionIndex, run.Entry.String())
	return nil
}

func (e *AppendEngine) persist(_ context.Context, run *AppendRun) error {
	return run.document.Save(e.path)
}

// report shows the entry with one line of context on each side.
func (e *AppendEngine) report(run *AppendRun) {
	before, hasBefore, after, hasAfter := run.document.Context(run.InsertIndex)

	e.out.Info("\n📝 Changelog updated:")
	if hasBefore {
		e.out.Info("   %s", before)
	}
	e.out.Success("   %s", run.Entry.String())
	if hasAfter {
		e.out.Info("   %s", after)
	}
	e.out.Info("")
	e.out.Success("✅ Entry added to %s", run.Section)
}
