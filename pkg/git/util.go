package git

import (
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
)

// IsGitRepo reports whether dir is the top of a working tree. Linked
// worktrees and submodules keep a .git file instead of a directory.
func IsGitRepo(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, gogit.GitDirName))
	if err != nil {
		return false
	}
	return info.IsDir() || info.Mode().IsRegular()
}
