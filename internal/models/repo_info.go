package models

// RepoInfo describes the repository a review ran against.
type RepoInfo struct {
	Root string `json:"root"`
	// Branch is empty for a detached HEAD.
	Branch string `json:"branch,omitempty"`
	// HeadCommit is empty before the first commit.
	HeadCommit string `json:"headCommit,omitempty"`
}
