// Package buildinfo captures the source revision of the project being built.
package buildinfo

import (
	"fmt"

	"github.com/go-git/go-git/v5"
)

// Revision describes the version-control state of the project directory.
type Revision struct {
	Commit string `json:"commit"`
	Branch string `json:"branch,omitempty"`
	Dirty  bool   `json:"dirty"`
}

// Describe returns the current revision of the repository containing dir.
// Returns (nil, nil) when dir is not inside a git repository; a build of an
// unversioned project is perfectly valid.
func Describe(dir string) (*Revision, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if err == git.ErrRepositoryNotExists {
			return nil, nil
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		// Repository with no commits yet.
		return nil, nil
	}

	rev := &Revision{Commit: head.Hash().String()}
	if head.Name().IsBranch() {
		rev.Branch = head.Name().Short()
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return rev, nil
	}
	status, err := worktree.Status()
	if err != nil {
		return rev, nil
	}
	rev.Dirty = !status.IsClean()
	return rev, nil
}

// Short returns the abbreviated commit hash, or "" for a nil revision.
func (r *Revision) Short() string {
	if r == nil {
		return ""
	}
	if len(r.Commit) < 8 {
		return r.Commit
	}
	return r.Commit[:8]
}
