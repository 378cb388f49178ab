package tools

import (
	"context"
	"fmt"
	"strings"
)

// CommitType is a conventional-commit type label.
type CommitType string

const (
	CommitFeat     CommitType = "feat"
	CommitFix      CommitType = "fix"
	CommitDocs     CommitType = "docs"
	CommitStyle    CommitType = "style"
	CommitRefactor CommitType = "refactor"
	CommitTest     CommitType = "test"
	CommitChore    CommitType = "chore"
)

var commitTypes = []CommitType{CommitFeat, CommitFix, CommitDocs, CommitStyle, CommitRefactor, CommitTest, CommitChore}

// CommitTypes lists the accepted labels in declaration order.
func CommitTypes() []CommitType {
	return append([]CommitType{}, commitTypes...)
}

func (t CommitType) IsValid() bool {
	for _, ct := range commitTypes {
		if t == ct {
			return true
		}
	}
	return false
}

func (t CommitType) String() string {
	return string(t)
}

type CommitMessageInput struct {
	Changes []FileChange `json:"changes" jsonschema:"description=Array of file changes with diffs"`
	Type    CommitType   `json:"type,omitempty" jsonschema:"description=Type of commit (conventional commits),enum=feat,enum=fix,enum=docs,enum=style,enum=refactor,enum=test,enum=chore"`
}

func (in *CommitMessageInput) Validate() error {
	if in == nil {
		return invalid("", "input is required")
	}
	if len(in.Changes) == 0 {
		return invalid("changes", "must contain at least one file change")
	}
	for i, c := range in.Changes {
		if strings.TrimSpace(c.File) == "" {
			return invalid(fmt.Sprintf("changes[%d].file", i), "must not be empty")
		}
	}
	if in.Type != "" && !in.Type.IsValid() {
		return invalid("type", fmt.Sprintf("must be one of %s", joinCommitTypes()))
	}
	return nil
}

type CommitMessageOutput struct {
	Message      string     `json:"message"`
	FullMessage  string     `json:"fullMessage"`
	Type         CommitType `json:"type"`
	FilesChanged int        `json:"filesChanged"`
}

type classificationRule struct {
	label CommitType
	match func(changes []FileChange) bool
}

// classificationRules are evaluated in order; the first match wins.
var classificationRules = []classificationRule{
	{label: CommitFeat, match: anyChange(func(c FileChange) bool {
		return strings.Contains(c.Diff, "+") && containsAny(c.Diff, "function", "class", "export")
	})},
	{label: CommitFix, match: anyChange(func(c FileChange) bool {
		return containsAny(c.Diff, "fix", "bug", "error")
	})},
	{label: CommitDocs, match: anyChange(func(c FileChange) bool {
		return containsAny(c.File, ".md", "README")
	})},
	{label: CommitTest, match: anyChange(func(c FileChange) bool {
		return containsAny(c.File, ".test.", ".spec.")
	})},
}

// ClassifyChanges picks a commit type for changes, falling back to chore.
func ClassifyChanges(changes []FileChange) CommitType {
	for _, rule := range classificationRules {
		if rule.match(changes) {
			return rule.label
		}
	}
	return CommitChore
}

// ComposeCommitMessage builds a conventional commit message. An empty
// commitType lets the heuristics decide.
func ComposeCommitMessage(changes []FileChange, commitType CommitType) (*CommitMessageOutput, error) {
	in := &CommitMessageInput{Changes: changes, Type: commitType}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if commitType == "" {
		commitType = ClassifyChanges(changes)
	}

	files := make([]string, 0, len(changes))
	for _, c := range changes {
		files = append(files, c.File)
	}

	summary := fmt.Sprintf("update %d files", len(files))
	if len(files) == 1 {
		summary = "update " + files[0]
	}
	message := fmt.Sprintf("%s: %s", commitType, summary)

	full := message
	if len(files) > 1 {
		var b strings.Builder
		b.WriteString(message)
		b.WriteString("\n\nFiles modified:")
		for _, f := range files {
			b.WriteString("\n- ")
			b.WriteString(f)
		}
		full = b.String()
	}

	return &CommitMessageOutput{
		Message:      message,
		FullMessage:  full,
		Type:         commitType,
		FilesChanged: len(files),
	}, nil
}

func GenerateCommitMessage(_ context.Context, in *CommitMessageInput) (*CommitMessageOutput, error) {
	return ComposeCommitMessage(in.Changes, in.Type)
}

func anyChange(pred func(FileChange) bool) func([]FileChange) bool {
	return func(changes []FileChange) bool {
		for _, c := range changes {
			if pred(c) {
				return true
			}
		}
		return false
	}
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func joinCommitTypes() string {
	names := make([]string, 0, len(commitTypes))
	for _, t := range commitTypes {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
