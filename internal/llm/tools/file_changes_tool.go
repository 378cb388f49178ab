package tools

import (
	"context"
	"fmt"
	"strings"

	"codereview/internal/events"
)

// DefaultExcludeFiles are skipped by exact repository-relative path.
var DefaultExcludeFiles = []string{"dist", "bun.lock"}

// DefaultContextLines matches the context `git diff` prints around each hunk.
const DefaultContextLines = 3

// FileChange is one changed file and its unified diff against HEAD.
type FileChange struct {
	File string `json:"file" jsonschema:"description=Path of the changed file relative to the repository root"`
	Diff string `json:"diff" jsonschema:"description=Unified diff of the file against the last commit"`
}

type FileChangesInput struct {
	RootDir string `json:"rootDir" jsonschema:"description=The root directory"`
}

func (in *FileChangesInput) Validate() error {
	if in == nil {
		return invalid("", "input is required")
	}
	if strings.TrimSpace(in.RootDir) == "" {
		return invalid("rootDir", "must not be empty")
	}
	return nil
}

// DiffCollector gathers the uncommitted changes of a git working tree.
type DiffCollector struct {
	Exclude          []string
	IncludeUntracked bool
	ContextLines     int
}

func NewDiffCollector(exclude []string) *DiffCollector {
	if exclude == nil {
		exclude = DefaultExcludeFiles
	}
	return &DiffCollector{
		Exclude:      append([]string{}, exclude...),
		ContextLines: DefaultContextLines,
	}
}

// Collect returns one FileChange per changed file under rootDir, in path order.
// Any repository failure aborts the whole collection with a VersionControlError.
func (c *DiffCollector) Collect(ctx context.Context, rootDir string) ([]FileChange, error) {
	root := strings.TrimSpace(rootDir)
	if root == "" {
		return nil, invalid("rootDir", "must not be empty")
	}

	snap, err := openWorktree(root)
	if err != nil {
		events.Emit(ctx, events.GitEventDiff, events.NewError(err.Error()))
		return nil, err
	}
	paths, err := snap.changedPaths(c.IncludeUntracked)
	if err != nil {
		events.Emit(ctx, events.GitEventDiff, events.NewError(err.Error()))
		return nil, err
	}

	contextLines := c.ContextLines
	if contextLines < 0 {
		contextLines = DefaultContextLines
	}

	changes := make([]FileChange, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if isExcluded(p, c.Exclude) {
			events.Emit(ctx, events.GitEventDiff, events.NewInfo(fmt.Sprintf("Collect: skipping excluded '%s'", p)))
			continue
		}
		diff, err := snap.patch(p, contextLines)
		if err != nil {
			events.Emit(ctx, events.GitEventDiff, events.NewError(err.Error()))
			return nil, err
		}
		if diff == "" {
			continue
		}
		changes = append(changes, FileChange{File: p, Diff: diff})
	}

	events.Emit(ctx, events.GitEventDiff, events.NewSuccess(fmt.Sprintf("Collect: %d changed file(s)", len(changes))).
		With("root", snap.root))
	return changes, nil
}

// GetFileChanges is the tool entry point for Collect.
func (c *DiffCollector) GetFileChanges(ctx context.Context, in *FileChangesInput) ([]FileChange, error) {
	return c.Collect(ctx, in.RootDir)
}
