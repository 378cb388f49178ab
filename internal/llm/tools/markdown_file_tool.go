package tools

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"codereview/internal/events"
)

// previewLimit is the number of characters echoed back after a write.
const previewLimit = 200

type MarkdownSection struct {
	Heading string `json:"heading" jsonschema:"description=Section heading"`
	Content string `json:"content" jsonschema:"description=Section body in markdown"`
}

type MarkdownMetadata struct {
	Author string   `json:"author,omitempty" jsonschema:"description=Document author"`
	Date   string   `json:"date,omitempty" jsonschema:"description=Document date"`
	Tags   []string `json:"tags,omitempty" jsonschema:"description=Document tags"`
}

type MarkdownFileInput struct {
	Title      string            `json:"title" jsonschema:"description=Title of the markdown document"`
	Content    string            `json:"content" jsonschema:"description=Main content of the markdown document"`
	OutputPath string            `json:"outputPath" jsonschema:"description=Path where the markdown file should be saved"`
	Sections   []MarkdownSection `json:"sections,omitempty" jsonschema:"description=Optional sections to add to the document"`
	Metadata   *MarkdownMetadata `json:"metadata,omitempty" jsonschema:"description=Optional metadata for the document"`
}

func (in *MarkdownFileInput) Validate() error {
	if in == nil {
		return invalid("", "input is required")
	}
	if strings.TrimSpace(in.OutputPath) == "" {
		return invalid("outputPath", "must not be empty")
	}
	return nil
}

// MarkdownFileOutput reports the outcome of a write. Failures are carried in
// Error with Success=false instead of a Go error.
type MarkdownFileOutput struct {
	Success bool   `json:"success"`
	Path    string `json:"path"`
	Size    int    `json:"size,omitempty"`
	Preview string `json:"preview,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RenderMarkdown produces the document text: title, optional front matter,
// body, then sections in input order.
func RenderMarkdown(in *MarkdownFileInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", in.Title)

	if md := in.Metadata; md != nil {
		b.WriteString("---\n")
		if md.Author != "" {
			fmt.Fprintf(&b, "author: %s\n", md.Author)
		}
		if md.Date != "" {
			fmt.Fprintf(&b, "date: %s\n", md.Date)
		}
		if len(md.Tags) > 0 {
			fmt.Fprintf(&b, "tags: [%s]\n", strings.Join(md.Tags, ", "))
		}
		b.WriteString("---\n\n")
	}

	fmt.Fprintf(&b, "%s\n\n", in.Content)

	for _, section := range in.Sections {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", section.Heading, section.Content)
	}
	return b.String()
}

// GenerateMarkdownFile renders in and writes it to in.OutputPath, replacing any
// existing file. It never returns a non-nil error for filesystem failures.
func GenerateMarkdownFile(ctx context.Context, in *MarkdownFileInput) (*MarkdownFileOutput, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	doc := RenderMarkdown(in)

	if err := os.WriteFile(in.OutputPath, []byte(doc), 0o644); err != nil {
		events.Emit(ctx, events.FileEventSave, events.NewError(fmt.Sprintf("GenerateMarkdownFile: write error: %v", err)).
			With("path", in.OutputPath))
		return &MarkdownFileOutput{
			Success: false,
			Error:   err.Error(),
			Path:    in.OutputPath,
		}, nil
	}

	size := utf8.RuneCountInString(doc)
	events.Emit(ctx, events.FileEventSave, events.NewSuccess(fmt.Sprintf("GenerateMarkdownFile: wrote %d characters", size)).
		With("path", in.OutputPath))

	return &MarkdownFileOutput{
		Success: true,
		Path:    in.OutputPath,
		Size:    size,
		Preview: preview(doc, previewLimit),
	}, nil
}

func preview(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}
