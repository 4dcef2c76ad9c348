package workflow

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeRepo implements RepoInfo for testing.
type fakeRepo struct {
	branch    string
	branchErr error
	name      string
	email     string
	configErr error
}

func (r *fakeRepo) CurrentBranch() (string, error) {
	return r.branch, r.branchErr
}

func (r *fakeRepo) UserIdentity() (string, string, error) {
	return r.name, r.email, r.configErr
}

// scriptedPrompter answers questions from a fixed script.
type scriptedPrompter struct {
	answers   []string
	questions []string
	err       error
}

func (p *scriptedPrompter) Ask(question string) (string, error) {
	p.questions = append(p.questions, question)
	if p.err != nil {
		return "", p.err
	}
	if len(p.answers) == 0 {
		return "", nil
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

// blockingPrompter never answers until released, like a terminal nobody types into.
type blockingPrompter struct {
	asked   chan string
	release chan struct{}
}

func newBlockingPrompter() *blockingPrompter {
	return &blockingPrompter{asked: make(chan string, 1), release: make(chan struct{})}
}

func (p *blockingPrompter) Ask(question string) (string, error) {
	p.asked <- question
	<-p.release
	return "", nil
}

// recordingOutput captures status lines by level.
type recordingOutput struct {
	lines []string
	spins []string
}

func (o *recordingOutput) add(level, format string, args ...any) {
	o.lines = append(o.lines, level+": "+fmt.Sprintf(format, args...))
}

func (o *recordingOutput) Info(format string, args ...any)    { o.add("info", format, args...) }
func (o *recordingOutput) Warn(format string, args ...any)    { o.add("warn", format, args...) }
func (o *recordingOutput) Error(format string, args ...any)   { o.add("error", format, args...) }
func (o *recordingOutput) Success(format string, args ...any) { o.add("success", format, args...) }

func (o *recordingOutput) Spin(message string) func() {
	o.spins = append(o.spins, message)
	return func() {}
}

func (o *recordingOutput) has(level, substr string) bool {
	for _, l := range o.lines {
		if strings.HasPrefix(l, level+": ") && strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

// fakeGit implements GitClient, recording each call.
type fakeGit struct {
	calls    []string
	failOn   string
	tags     map[string]bool
	main     string
	develop  string
	onSwitch func(branch string)
}

func (g *fakeGit) record(call string) error {
	g.calls = append(g.calls, call)
	if g.failOn != "" && strings.HasPrefix(call, g.failOn) {
		return errors.New(call + " failed")
	}
	return nil
}

func (g *fakeGit) Switch(branch string) error {
	if err := g.record("switch " + branch); err != nil {
		return err
	}
	if g.onSwitch != nil {
		g.onSwitch(branch)
	}
	return nil
}

func (g *fakeGit) CreateBranch(branch string) error { return g.record("switch -c " + branch) }
func (g *fakeGit) Pull(branch string) error         { return g.record("pull " + branch) }
func (g *fakeGit) FetchAll() error                  { return g.record("fetch") }
func (g *fakeGit) Merge(ref string) error           { return g.record("merge " + ref) }
func (g *fakeGit) Add(paths ...string) error        { return g.record("add " + strings.Join(paths, " ")) }
func (g *fakeGit) Commit(message string) error      { return g.record("commit " + message) }
func (g *fakeGit) CreateTag(tag string) error       { return g.record("tag " + tag) }

func (g *fakeGit) Push(ref string, extra ...string) error {
	return g.record(strings.TrimSpace("push " + ref + " " + strings.Join(extra, " ")))
}

func (g *fakeGit) TagExists(tag string) (bool, error) {
	if err := g.record("tag -l " + tag); err != nil {
		return false, err
	}
	return g.tags[tag], nil
}

func (g *fakeGit) MainBranch() string {
	if g.main == "" {
		return "main"
	}
	return g.main
}

func (g *fakeGit) DevelopBranch() string {
	if g.develop == "" {
		return "dev"
	}
	return g.develop
}

// staticVersion implements VersionReader.
type staticVersion struct {
	version string
	err     error
	reads   int
}

func (v *staticVersion) Read() (string, error) {
	v.reads++
	return v.version, v.err
}
