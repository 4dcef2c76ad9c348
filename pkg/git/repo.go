package git

import (
	"os"

	"github.com/cockroachdb/errors"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repository provides read-only lookups on a local repository.
type Repository struct {
	repo *gogit.Repository
	root string
}

// OpenRepository opens the repository containing path, walking up the
// directory tree like git does. An empty path means the working directory.
func OpenRepository(path string) (*Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "getting current directory")
		}
	}

	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "opening repository at %s", path)
	}

	root := path
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}

	return &Repository{repo: repo, root: root}, nil
}

// Root returns the top-level directory of the working tree.
func (r *Repository) Root() string {
	return r.root
}

// CurrentBranch returns the checked-out branch name. It returns "" with a
// nil error when HEAD is detached. A branch with no commits yet is still
// reported by name.
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", errors.Wrap(err, "reading HEAD")
	}

	name := head.Name()
	if head.Type() == plumbing.SymbolicReference {
		name = head.Target()
	}
	if !name.IsBranch() {
		return "", nil
	}
	return name.Short(), nil
}

// UserIdentity returns user.name and user.email from the repository config
// merged with the global and system config. Either value may be empty.
func (r *Repository) UserIdentity() (name, email string, err error) {
	cfg, err := r.repo.ConfigScoped(config.SystemScope)
	if err != nil {
		return "", "", errors.Wrap(err, "reading git config")
	}
	return cfg.User.Name, cfg.User.Email, nil
}
