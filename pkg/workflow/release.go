package workflow

import (
	"context"
	"log/slog"
	"os"
	"time"

	"spectrumdata.tech/spectrum/pkg/changelog"
	spectrumerrors "spectrumdata.tech/spectrum/pkg/errors"
	"spectrumdata.tech/spectrum/pkg/ui"
)

// CommitMessage is used for the changelog commit on the release branch.
const CommitMessage = "📝 Update changelog."

// GitClient is the subset of git operations the release workflows use.
type GitClient interface {
	Switch(branch string) error
	CreateBranch(branch string) error
	Pull(branch string) error
	FetchAll() error
	Merge(ref string) error
	Push(ref string, extra ...string) error
	Add(paths ...string) error
	Commit(message string) error
	TagExists(tag string) (bool, error)
	CreateTag(tag string) error
	MainBranch() string
	DevelopBranch() string
}

// VersionReader returns the current project version. It is consulted after
// branch switches, so implementations should read from disk on every call.
type VersionReader interface {
	Read() (string, error)
}

// Spinner is implemented by outputs that can show progress.
type Spinner interface {
	Spin(message string) func()
}

// ReleaseOptions configures the release workflows.
type ReleaseOptions struct {
	ChangelogPath   string
	MainBranch      string // Empty means detect from the remote
	DevelopBranch   string // Empty means detect from the remote
	ReleasePrefix   string
	TagPrefix       string
	MergeRequestURL string
}

// ReleaseEngine orchestrates release start, close and deploy.
type ReleaseEngine struct {
	git     GitClient
	version VersionReader
	out     ui.Output
	opts    ReleaseOptions
	logger  *slog.Logger
}

// NewReleaseEngine creates a release engine.
func NewReleaseEngine(git GitClient, version VersionReader, out ui.Output, opts ReleaseOptions, verbose bool) *ReleaseEngine {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if opts.ChangelogPath == "" {
		opts.ChangelogPath = changelog.DefaultPath
	}

	return &ReleaseEngine{
		git:     git,
		version: version,
		out:     out,
		opts:    opts,
		logger:  slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
}

// SetLogger replaces the engine's logger.
func (e *ReleaseEngine) SetLogger(logger *slog.Logger) {
	if logger != nil {
		e.logger = logger
	}
}

type releaseStep struct {
	step Step
	fn   func(context.Context, *ReleaseRun) error
}

// Start cuts a release branch from develop and prepares its changelog.
func (e *ReleaseEngine) Start(ctx context.Context) (*ReleaseRun, error) {
	run, err := e.execute(ctx, "start", []releaseStep{
		{StepCreateReleaseBranch, e.createReleaseBranch},
		{StepChangeHeader, e.changeHeader},
		{StepRemoveEmptyChapters, e.removeEmptyChapters},
		{StepAddUnreleasedBlock, e.addUnreleasedBlock},
		{StepCommitChangelog, e.commitChangelog},
		{StepPushRelease, e.pushRelease},
	})
	if err == nil {
		e.out.Success("🚀 Release started successfully!")
	}
	return run, err
}

// Close merges main back into develop after a release is merged.
func (e *ReleaseEngine) Close(ctx context.Context) (*ReleaseRun, error) {
	return e.execute(ctx, "close", []releaseStep{
		{StepSyncMain, e.syncMain},
		{StepSyncDevelop, e.syncDevelop},
		{StepMergeMain, e.mergeMain},
		{StepPushDevelop, e.pushDevelop},
	})
}

// Deploy tags the current main version and pushes the tag.
func (e *ReleaseEngine) Deploy(ctx context.Context) (*ReleaseRun, error) {
	return e.execute(ctx, "deploy", []releaseStep{
		{StepSyncMain, e.syncMain},
		{StepCreateTag, e.createTag},
		{StepPushTag, e.pushTag},
	})
}

func (e *ReleaseEngine) execute(ctx context.Context, action string, steps []releaseStep) (*ReleaseRun, error) {
	run := &ReleaseRun{
		Action:         action,
		StartedAt:      time.Now(),
		CompletedSteps: make([]Step, 0, len(steps)),
		State:          StateRunning,
	}

	e.logger.Debug("starting release workflow", "action", action)

	for _, s := range steps {
		run.CurrentStep = s.step
		e.logger.Debug("executing step", "step", s.step)

		err := ctx.Err()
		if err == nil {
			err = s.fn(ctx, run)
		}
		if err != nil {
			run.State = StateAborted
			e.out.Error("✖ Failed at step: %s", s.step)
			return run, spectrumerrors.NewWorkflowErrorWithCause(string(s.step), err.Error(), err)
		}

		run.CompletedSteps = append(run.CompletedSteps, s.step)
	}

	run.State = StateDone
	e.logger.Debug("release workflow completed", "action", action, "elapsed", time.Since(run.StartedAt))
	return run, nil
}

func (e *ReleaseEngine) mainBranch(run *ReleaseRun) string {
	if run.MainBranch == "" {
		run.MainBranch = e.opts.MainBranch
		if run.MainBranch == "" {
			run.MainBranch = e.git.MainBranch()
		}
	}
	return run.MainBranch
}

func (e *ReleaseEngine) developBranch(run *ReleaseRun) string {
	if run.DevelopBranch == "" {
		run.DevelopBranch = e.opts.DevelopBranch
		if run.DevelopBranch == "" {
			run.DevelopBranch = e.git.DevelopBranch()
		}
	}
	return run.DevelopBranch
}

// spin shows progress around slow network operations when supported.
func (e *ReleaseEngine) spin(message string) func() {
	if s, ok := e.out.(Spinner); ok {
		return s.Spin(message)
	}
	return func() {}
}

// switchAndSync checks out branch, pulls it and fetches all remotes.
func (e *ReleaseEngine) switchAndSync(branch string) error {
	if err := e.git.Switch(branch); err != nil {
		return err
	}
	e.out.Success("🔀 Swap to branch %s.", branch)

	stop := e.spin("Pulling " + branch)
	err := e.git.Pull(branch)
	if err == nil {
		err = e.git.FetchAll()
	}
	stop()
	if err != nil {
		return err
	}
	e.out.Success("🔄 Pull and fetch from branch %s.", branch)
	return nil
}

func (e *ReleaseEngine) readVersion(run *ReleaseRun) error {
	v, err := e.version.Read()
	if err != nil {
		return err
	}
	run.Version = v
	return nil
}

func (e *ReleaseEngine) createReleaseBranch(_ context.Context, run *ReleaseRun) error {
	if err := e.switchAndSync(e.developBranch(run)); err != nil {
		return err
	}
	if err := e.readVersion(run); err != nil {
		return err
	}

	run.Branch = e.opts.ReleasePrefix + run.Version
	if err := e.git.CreateBranch(run.Branch); err != nil {
		return err
	}
	e.out.Success("🌱 Create new release branch %s.", run.Branch)
	return nil
}

func (e *ReleaseEngine) changeHeader(_ context.Context, run *ReleaseRun) error {
	doc, err := changelog.Load(e.opts.ChangelogPath)
	if err != nil {
		return err
	}
	run.document = doc

	if !doc.ChangeHeader(run.Version) {
		e.out.Warn("⚠️  No %s header found in %s.", changelog.UnreleasedHeader, e.opts.ChangelogPath)
		return nil
	}
	if err := doc.Save(e.opts.ChangelogPath); err != nil {
		return err
	}
	e.out.Success("🔄 Update header %s.", changelog.ReleaseHeader(run.Version))
	return nil
}

func (e *ReleaseEngine) removeEmptyChapters(_ context.Context, run *ReleaseRun) error {
	removed := run.document.RemoveEmptyChapters()
	if removed > 0 {
		if err := run.document.Save(e.opts.ChangelogPath); err != nil {
			return err
		}
	}
	e.logger.Debug("removed empty chapters", "count", removed)
	e.out.Success("🧹 Remove empty chapters.")
	return nil
}

func (e *ReleaseEngine) addUnreleasedBlock(_ context.Context, run *ReleaseRun) error {
	if !run.document.AddUnreleasedBlock(run.Version) {
		return spectrumerrors.NewChangelogError(
			spectrumerrors.KindSectionNotFound,
			"no "+changelog.ReleaseHeader(run.Version)+" header to put the Unreleased block above",
		)
	}
	if err := run.document.Save(e.opts.ChangelogPath); err != nil {
		return err
	}
	e.out.Success("📋 Add unreleased block.")
	return nil
}

func (e *ReleaseEngine) commitChangelog(_ context.Context, _ *ReleaseRun) error {
	if err := e.git.Add(e.opts.ChangelogPath); err != nil {
		return err
	}
	if err := e.git.Commit(CommitMessage); err != nil {
		return err
	}
	e.out.Success("📝 Commit updated changelog.")
	return nil
}

func (e *ReleaseEngine) pushRelease(_ context.Context, run *ReleaseRun) error {
	stop := e.spin("Pushing " + run.Branch)
	err := e.git.Push(run.Branch)
	stop()
	if err != nil {
		return err
	}
	e.out.Success("📤 Push release branch %s.", run.Branch)
	if e.opts.MergeRequestURL != "" {
		e.out.Success("🌐 Go to %s and merge branch manually.", e.opts.MergeRequestURL)
	}

	trunk := e.mainBranch(run)
	if err := e.git.Switch(trunk); err != nil {
		return err
	}
	e.out.Success("🔀 Swap to branch %s.", trunk)
	return nil
}

func (e *ReleaseEngine) syncMain(_ context.Context, run *ReleaseRun) error {
	return e.switchAndSync(e.mainBranch(run))
}

func (e *ReleaseEngine) syncDevelop(_ context.Context, run *ReleaseRun) error {
	return e.switchAndSync(e.developBranch(run))
}

func (e *ReleaseEngine) mergeMain(_ context.Context, run *ReleaseRun) error {
	trunk := e.mainBranch(run)
	if err := e.git.Merge(trunk); err != nil {
		return err
	}
	e.out.Success("🔀 Merge branch %s with %s.", e.developBranch(run), trunk)
	return nil
}

func (e *ReleaseEngine) pushDevelop(_ context.Context, run *ReleaseRun) error {
	dev := e.developBranch(run)
	stop := e.spin("Pushing " + dev)
	err := e.git.Push(dev, "-o", "ci.skip")
	stop()
	if err != nil {
		return err
	}
	e.out.Success("📤 Push branch %s.", dev)
	return nil
}

func (e *ReleaseEngine) createTag(_ context.Context, run *ReleaseRun) error {
	if err := e.readVersion(run); err != nil {
		return err
	}
	run.Tag = e.opts.TagPrefix + run.Version

	exists, err := e.git.TagExists(run.Tag)
	if err != nil {
		return err
	}
	if exists {
		return spectrumerrors.Newf("Tag %s already created.", run.Tag)
	}

	if err := e.git.CreateTag(run.Tag); err != nil {
		return err
	}
	e.out.Success("🏷  Create tag %s.", run.Tag)
	return nil
}

func (e *ReleaseEngine) pushTag(_ context.Context, run *ReleaseRun) error {
	stop := e.spin("Pushing " + run.Tag)
	err := e.git.Push(run.Tag)
	stop()
	if err != nil {
		return err
	}
	e.out.Success("📤 Push tag %s.", run.Tag)
	return nil
}
