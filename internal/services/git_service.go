package services

import (
	"errors"
	"fmt"
	"strings"

	"codereview/internal/models"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

type GitService struct{}

func NewGitService() *GitService {
	return &GitService{}
}

// Open opens the repository containing path, searching parent directories the
// way git does from a subdirectory.
func (g *GitService) Open(path string) (*git.Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("repository path cannot be empty")
	}
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", path, err)
	}
	return repo, nil
}

// Describe reports the working tree root, current branch and HEAD commit.
func (g *GitService) Describe(path string) (*models.RepoInfo, error) {
	repo, err := g.Open(path)
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("repository has no working tree: %w", err)
	}

	info := &models.RepoInfo{Root: wt.Filesystem.Root()}

	ref, err := repo.Head()
	switch {
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		// Unborn branch: read the symbolic HEAD for its name.
		head, herr := repo.Reference(plumbing.HEAD, false)
		if herr == nil && head.Type() == plumbing.SymbolicReference && head.Target().IsBranch() {
			info.Branch = head.Target().Short()
		}
		return info, nil
	case err != nil:
		return nil, fmt.Errorf("failed to get HEAD reference: %w", err)
	}

	if ref.Name().IsBranch() {
		info.Branch = ref.Name().Short()
	}
	info.HeadCommit = ref.Hash().String()
	return info, nil
}
