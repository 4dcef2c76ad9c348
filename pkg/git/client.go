package git

import (
	"bufio"
	"bytes"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"

	spectrumerrors "spectrumdata.tech/spectrum/pkg/errors"
)

// Default branch names probed on the remote.
const (
	BranchMaster  = "master"
	BranchMain    = "main"
	BranchDevelop = "develop"
	BranchDev     = "dev"
)

// Client runs git CLI commands in one working directory against one remote.
type Client struct {
	dir    string
	remote string
	runner CommandRunner
	logger *slog.Logger
}

// NewClient creates a Client backed by the real git binary.
func NewClient(dir, remote string, verbose bool) *Client {
	return NewClientWithRunner(dir, remote, &RealCommandRunner{Verbose: verbose})
}

// NewClientWithRunner creates a Client with a custom CommandRunner (for testing).
func NewClientWithRunner(dir, remote string, runner CommandRunner) *Client {
	if remote == "" {
		remote = "origin"
	}
	return &Client{
		dir:    dir,
		remote: remote,
		runner: runner,
		logger: slog.Default(),
	}
}

// SetLogger replaces the logger used for command tracing.
func (c *Client) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Remote returns the remote this client pushes to and pulls from.
func (c *Client) Remote() string {
	return c.remote
}

// git runs one git command and converts failures into a GitError.
func (c *Client) git(op string, args ...string) (string, error) {
	c.logger.Debug("running git", "op", op, "args", args)

	out, err := c.runner.Output(c.dir, "git", args...)
	if err != nil {
		output := string(out)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			output = strings.TrimSpace(output + "\n" + string(exitErr.Stderr))
		}
		return "", spectrumerrors.NewGitError(op, args, output, err)
	}
	return string(out), nil
}

// Switch checks out an existing branch.
func (c *Client) Switch(branch string) error {
	_, err := c.git("switch", "switch", branch)
	return err
}

// CreateBranch creates branch from HEAD and checks it out.
func (c *Client) CreateBranch(branch string) error {
	_, err := c.git("switch", "switch", "-c", branch)
	return err
}

// Pull pulls branch from the remote into the current branch.
func (c *Client) Pull(branch string) error {
	_, err := c.git("pull", "pull", c.remote, branch)
	return err
}

// FetchAll fetches every remote and prunes deleted refs.
func (c *Client) FetchAll() error {
	_, err := c.git("fetch", "fetch", "--all", "--prune", "--jobs=10")
	return err
}

// Merge merges ref into the current branch.
func (c *Client) Merge(ref string) error {
	_, err := c.git("merge", "merge", ref)
	return err
}

// Push pushes ref to the remote. Extra arguments such as push options are
// appended verbatim.
func (c *Client) Push(ref string, extra ...string) error {
	args := append([]string{"push", c.remote, ref}, extra...)
	_, err := c.git("push", args...)
	return err
}

// Add stages paths.
func (c *Client) Add(paths ...string) error {
	_, err := c.git("add", append([]string{"add"}, paths...)...)
	return err
}

// Commit records staged changes without running commit hooks.
func (c *Client) Commit(message string) error {
	_, err := c.git("commit", "commit", "--message", message, "--no-verify")
	return err
}

// TagExists reports whether a local tag with this exact name exists.
func (c *Client) TagExists(tag string) (bool, error) {
	out, err := c.git("tag", "tag", "-l", tag)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// CreateTag creates a lightweight tag at HEAD.
func (c *Client) CreateTag(tag string) error {
	_, err := c.git("tag", "tag", tag)
	return err
}

// RemoteBranches lists remote-tracking branches as "<remote>/<branch>".
func (c *Client) RemoteBranches() ([]string, error) {
	out, err := c.git("branch", "branch", "-r")
	if err != nil {
		return nil, err
	}

	var branches []string
	scanner := bufio.NewScanner(bytes.NewBufferString(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		// "origin/HEAD -> origin/main" contributes only its first field.
		branches = append(branches, fields[0])
	}
	return branches, nil
}

// MainBranch returns "master" when the remote has it, otherwise "main".
func (c *Client) MainBranch() string {
	return c.pickBranch(BranchMaster, BranchMain)
}

// DevelopBranch returns "develop" when the remote has it, otherwise "dev".
func (c *Client) DevelopBranch() string {
	return c.pickBranch(BranchDevelop, BranchDev)
}

func (c *Client) pickBranch(preferred, fallback string) string {
	branches, err := c.RemoteBranches()
	if err != nil {
		c.logger.Debug("listing remote branches failed", "error", err)
		return fallback
	}
	want := c.remote + "/" + preferred
	for _, b := range branches {
		if b == want {
			return preferred
		}
	}
	return fallback
}
