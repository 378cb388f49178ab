package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown_FullDocument(t *testing.T) {
	doc := RenderMarkdown(&MarkdownFileInput{
		Title:   "Code Review",
		Content: "Overall looks good.",
		Sections: []MarkdownSection{
			{Heading: "b.go", Content: "Rename x."},
			{Heading: "a.go", Content: "Add tests."},
		},
		Metadata: &MarkdownMetadata{
			Author: "reviewer",
			Date:   "2026-10-15",
			Tags:   []string{"review", "go"},
		},
	})

	want := "# Code Review\n\n" +
		"---\n" +
		"author: reviewer\n" +
		"date: 2026-10-15\n" +
		"tags: [review, go]\n" +
		"---\n\n" +
		"Overall looks good.\n\n" +
		"## b.go\n\nRename x.\n\n" +
		"## a.go\n\nAdd tests.\n\n"
	assert.Equal(t, want, doc)
}

func TestRenderMarkdown_AuthorOnlyFrontMatter(t *testing.T) {
	doc := RenderMarkdown(&MarkdownFileInput{
		Title:    "T",
		Content:  "C",
		Metadata: &MarkdownMetadata{Author: "alex"},
	})

	assert.Equal(t, "# T\n\n---\nauthor: alex\n---\n\nC\n\n", doc)
	assert.NotContains(t, doc, "date:")
	assert.NotContains(t, doc, "tags:")
}

func TestRenderMarkdown_EmptyTagsOmitted(t *testing.T) {
	doc := RenderMarkdown(&MarkdownFileInput{
		Title:    "T",
		Content:  "C",
		Metadata: &MarkdownMetadata{Tags: []string{}},
	})
	assert.Equal(t, "# T\n\n---\n---\n\nC\n\n", doc)
}

func TestRenderMarkdown_NoMetadata(t *testing.T) {
	doc := RenderMarkdown(&MarkdownFileInput{Title: "T", Content: "C"})
	assert.Equal(t, "# T\n\nC\n\n", doc)
}

func TestGenerateMarkdownFile_WritesAndReports(t *testing.T) {
	out := filepath.Join(t.TempDir(), "code-review-report.md")
	in := &MarkdownFileInput{Title: "Report", Content: "Body", OutputPath: out}

	res, err := GenerateMarkdownFile(context.Background(), in)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, out, res.Path)
	assert.Empty(t, res.Error)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "# Report\n\nBody\n\n", string(data))
	assert.Equal(t, utf8.RuneCount(data), res.Size)
	assert.Equal(t, string(data), res.Preview)
}

func TestGenerateMarkdownFile_IdempotentOverwrite(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.md")
	require.NoError(t, os.WriteFile(out, []byte("stale content that is longer than the report"), 0o644))

	in := &MarkdownFileInput{
		Title:      "Report",
		Content:    "Body",
		OutputPath: out,
		Sections:   []MarkdownSection{{Heading: "H", Content: "S"}},
		Metadata:   &MarkdownMetadata{Date: "today"},
	}

	_, err := GenerateMarkdownFile(context.Background(), in)
	require.NoError(t, err)
	first, err := os.ReadFile(out)
	require.NoError(t, err)

	_, err = GenerateMarkdownFile(context.Background(), in)
	require.NoError(t, err)
	second, err := os.ReadFile(out)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotContains(t, string(second), "stale")
}

func TestGenerateMarkdownFile_MissingDirectoryIsReportedNotRaised(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "nested", "report.md")

	res, err := GenerateMarkdownFile(context.Background(), &MarkdownFileInput{
		Title: "T", Content: "C", OutputPath: out,
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, out, res.Path)
	assert.NotEmpty(t, res.Error)
	assert.Zero(t, res.Size)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerateMarkdownFile_PreviewTruncatesByCharacters(t *testing.T) {
	out := filepath.Join(t.TempDir(), "long.md")
	body := strings.Repeat("é", 300)

	res, err := GenerateMarkdownFile(context.Background(), &MarkdownFileInput{
		Title: "T", Content: body, OutputPath: out,
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	assert.Equal(t, len("# T\n\n")+300+2, res.Size)
	assert.True(t, strings.HasSuffix(res.Preview, "..."))
	assert.Equal(t, previewLimit+3, utf8.RuneCountInString(res.Preview))
}

func TestMarkdownFileInput_Validate(t *testing.T) {
	err := (&MarkdownFileInput{Title: "T"}).Validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "outputPath", verr.Field)
}
