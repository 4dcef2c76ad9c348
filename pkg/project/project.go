// Package project detects the JavaScript package manager of a project and
// maps spectrum's development verbs onto its scripts.
package project

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// PackageManager identifies a JavaScript package manager.
type PackageManager string

const (
	NPM  PackageManager = "npm"
	Yarn PackageManager = "yarn"
	Bun  PackageManager = "bun"
)

// Task is a development verb exposed on the command line.
type Task string

const (
	TaskDev   Task = "dev"
	TaskTest  Task = "test"
	TaskDeps  Task = "deps"
	TaskBuild Task = "build"
	TaskE2E   Task = "e2e"
	TaskE2EUI Task = "e2eui"
)

// Tasks returns every task in display order.
func Tasks() []Task {
	return []Task{TaskDev, TaskTest, TaskDeps, TaskBuild, TaskE2E, TaskE2EUI}
}

var (
	// ErrNoPackageManager is returned when no lockfile is found.
	ErrNoPackageManager = errors.New("No package manager found")
	// ErrNotImplemented is returned for tasks a package manager does not support.
	ErrNotImplemented = errors.New("not implemented")
)

// lockfiles are probed in order; the first one present wins.
var lockfiles = []struct {
	name string
	pm   PackageManager
}{
	{"package-lock.json", NPM},
	{"yarn.lock", Yarn},
	{"bun.lockb", Bun},
	{"bun.lock", Bun},
}

// Detect returns the package manager whose lockfile exists in dir.
func Detect(dir string) (PackageManager, error) {
	for _, lf := range lockfiles {
		if _, err := os.Stat(filepath.Join(dir, lf.name)); err == nil {
			return lf.pm, nil
		}
	}
	return "", ErrNoPackageManager
}

// Command is a resolved process invocation.
type Command struct {
	Name string
	Args []string
	Env  []string
}

var scripts = map[PackageManager]map[Task]Command{
	NPM: {
		TaskDev:   {Name: "npm", Args: []string{"run", "dev"}},
		TaskTest:  {Name: "npm", Args: []string{"run", "dev"}, Env: []string{"NODE_ENV=test"}},
		TaskDeps:  {Name: "npm", Args: []string{"install"}},
		TaskBuild: {Name: "npm", Args: []string{"run", "build"}},
		TaskE2E:   {Name: "npm", Args: []string{"run", "test:e2e"}},
		TaskE2EUI: {Name: "npm", Args: []string{"run", "test:end2end:ui"}},
	},
	Yarn: {
		TaskDev:   {Name: "yarn", Args: []string{"dev"}},
		TaskTest:  {Name: "yarn", Args: []string{"dev"}, Env: []string{"NODE_ENV=test"}},
		TaskDeps:  {Name: "yarn", Args: []string{"install"}},
		TaskBuild: {Name: "yarn", Args: []string{"build"}},
		TaskE2E:   {Name: "yarn", Args: []string{"test:e2e"}},
		TaskE2EUI: {Name: "yarn", Args: []string{"test:e2e", "--ui"}},
	},
	Bun: {
		TaskBuild: {Name: "bun", Args: []string{"run", "build"}},
	},
}

// Resolve returns the command that runs task with pm.
func Resolve(pm PackageManager, task Task) (Command, error) {
	table, ok := scripts[pm]
	if !ok {
		return Command{}, ErrNoPackageManager
	}
	cmd, ok := table[task]
	if !ok {
		return Command{}, errors.Wrapf(ErrNotImplemented, "%s %s", pm, task)
	}
	return cmd, nil
}
