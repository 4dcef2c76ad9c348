package cmd

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	spectrumerrors "spectrumdata.tech/spectrum/pkg/errors"
	"spectrumdata.tech/spectrum/pkg/git"
	"spectrumdata.tech/spectrum/pkg/project"
)

var taskDescriptions = map[project.Task]string{
	project.TaskDev:   "Start the development server",
	project.TaskTest:  "Start the development server with NODE_ENV=test",
	project.TaskDeps:  "Install dependencies",
	project.TaskBuild: "Build the project",
	project.TaskE2E:   "Run end-to-end tests",
	project.TaskE2EUI: "Run end-to-end tests in UI mode",
}

// taskRunner executes package manager scripts. Tests replace it.
var taskRunner = func(env []string) git.CommandRunner {
	return &git.RealCommandRunner{Verbose: verbose, Env: env}
}

func newTaskCommand(task project.Task) *cobra.Command {
	return &cobra.Command{
		Use:   string(task),
		Short: taskDescriptions[task],
		Long: taskDescriptions[task] + `.

The package manager is picked from the lockfile in the project root:
package-lock.json (npm), yarn.lock (yarn), bun.lockb or bun.lock (bun).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTask(cmd, task)
		},
	}
}

func init() {
	for _, task := range project.Tasks() {
		rootCmd.AddCommand(newTaskCommand(task))
	}
}

func runTask(cmd *cobra.Command, task project.Task) error {
	out := consoleFor(cmd)

	root, err := resolveProjectRoot()
	if err != nil {
		return err
	}

	pm, err := project.Detect(root)
	if err != nil {
		out.Error("⚠️  No package manager found")
		return spectrumerrors.MarkReported(err)
	}

	c, err := project.Resolve(pm, task)
	if errors.Is(err, project.ErrNotImplemented) {
		out.Error("⚠️  %s not implemented", displayName(pm))
		return spectrumerrors.MarkReported(err)
	}
	if err != nil {
		return err
	}

	if err := taskRunner(c.Env).Run(root, c.Name, c.Args...); err != nil {
		return errors.Wrapf(err, "%s %s failed", pm, task)
	}
	return nil
}

func displayName(pm project.PackageManager) string {
	switch pm {
	case project.Bun:
		return "Bun"
	case project.Yarn:
		return "Yarn"
	default:
		return "npm"
	}
}
