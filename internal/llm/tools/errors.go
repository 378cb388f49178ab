package tools

import (
	"errors"
	"fmt"
)

// ErrNotRepository is wrapped by VersionControlError when the root is not
// inside a git working tree.
var ErrNotRepository = errors.New("not a git repository")

// ValidationError reports tool input that does not satisfy the declared schema.
// It is raised before the tool body runs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// VersionControlError reports a repository that could not be opened or queried.
type VersionControlError struct {
	Op   string
	Path string
	Err  error
}

func (e *VersionControlError) Error() string {
	return fmt.Sprintf("git %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *VersionControlError) Unwrap() error {
	return e.Err
}
