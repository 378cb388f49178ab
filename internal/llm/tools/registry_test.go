package tools

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReviewRegistry_RegistersToolsInOrder(t *testing.T) {
	r, err := NewReviewRegistry(nil)
	require.NoError(t, err)

	assert.Equal(t, []string{FileChangesToolName, CommitMessageToolName, MarkdownFileToolName}, r.Names())

	infos, err := r.Infos(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 3)
	for i, info := range infos {
		assert.Equal(t, r.Names()[i], info.Name)
		assert.NotEmpty(t, info.Desc)
		assert.NotNil(t, info.ParamsOneOf)
	}
}

func TestRegister_RejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, Register(r, CommitMessageToolName, GenerateCommitMessage))
	assert.Error(t, Register(r, CommitMessageToolName, GenerateCommitMessage))
	assert.Error(t, Register(r, " ", GenerateCommitMessage))
}

func TestRegistry_InvokeCommitMessage(t *testing.T) {
	r, err := NewReviewRegistry(nil)
	require.NoError(t, err)

	res := r.Invoke(context.Background(), CommitMessageToolName,
		`{"changes":[{"file":"src/a.ts","diff":"+export function foo(){}"}]}`)
	require.NoError(t, res.Err)

	var out CommitMessageOutput
	require.NoError(t, json.Unmarshal([]byte(res.Content), &out))
	assert.Equal(t, "feat: update src/a.ts", out.Message)
	assert.Equal(t, 1, out.FilesChanged)
}

func TestRegistry_InvokeValidationFailureIsData(t *testing.T) {
	r, err := NewReviewRegistry(nil)
	require.NoError(t, err)

	res := r.Invoke(context.Background(), FileChangesToolName, `{"rootDir":""}`)
	require.Error(t, res.Err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Content), &payload))
	assert.Equal(t, false, payload["success"])
	assert.Contains(t, payload["error"], "rootDir")
}

func TestRegistry_InvokeVersionControlFailureIsData(t *testing.T) {
	r, err := NewReviewRegistry(nil)
	require.NoError(t, err)

	args, err := json.Marshal(FileChangesInput{RootDir: t.TempDir()})
	require.NoError(t, err)

	res := r.Invoke(context.Background(), FileChangesToolName, string(args))
	require.Error(t, res.Err)
	assert.Contains(t, res.Content, `"success":false`)
}

func TestRegistry_InvokeUnknownTool(t *testing.T) {
	r := NewRegistry()
	res := r.Invoke(context.Background(), "nope", "{}")
	require.Error(t, res.Err)
	assert.Contains(t, res.Content, "unknown tool")
}

func TestRegistry_InvokeMarkdownWriteFailureIsNotAnError(t *testing.T) {
	r, err := NewReviewRegistry(nil)
	require.NoError(t, err)

	args, err := json.Marshal(MarkdownFileInput{
		Title:      "T",
		Content:    "C",
		OutputPath: filepath.Join(t.TempDir(), "no", "such", "dir.md"),
	})
	require.NoError(t, err)

	res := r.Invoke(context.Background(), MarkdownFileToolName, string(args))
	require.NoError(t, res.Err)

	var out MarkdownFileOutput
	require.NoError(t, json.Unmarshal([]byte(res.Content), &out))
	assert.False(t, out.Success)
	assert.NotEmpty(t, out.Error)
}

func TestToolDescription(t *testing.T) {
	assert.NotEmpty(t, ToolDescription(MarkdownFileToolName))
	assert.Equal(t, ToolDescription(MarkdownFileToolName), ToolDescription(MarkdownFileToolName+".txt"))
	assert.Empty(t, ToolDescription("missing_tool"))
	assert.Empty(t, ToolDescription(""))
}

func TestRegistry_InvokeRejectsMissingRequiredFields(t *testing.T) {
	r, err := NewReviewRegistry(nil)
	require.NoError(t, err)
	outPath := filepath.Join(t.TempDir(), "report.md")

	cases := []struct {
		name  string
		tool  string
		args  string
		field string
	}{
		{"markdown title", MarkdownFileToolName, `{"content":"c","outputPath":"` + outPath + `"}`, "title"},
		{"markdown content", MarkdownFileToolName, `{"title":"t","outputPath":"` + outPath + `"}`, "content"},
		{"markdown outputPath", MarkdownFileToolName, `{"title":"t","content":"c"}`, "outputPath"},
		{"markdown section heading", MarkdownFileToolName, `{"title":"t","content":"c","outputPath":"` + outPath + `","sections":[{"content":"x"}]}`, "sections[0].heading"},
		{"markdown section content", MarkdownFileToolName, `{"title":"t","content":"c","outputPath":"` + outPath + `","sections":[{"heading":"h"}]}`, "sections[0].content"},
		{"commit changes", CommitMessageToolName, `{"type":"fix"}`, "changes"},
		{"commit change file", CommitMessageToolName, `{"changes":[{"diff":"x"}]}`, "changes[0].file"},
		{"commit change diff", CommitMessageToolName, `{"changes":[{"file":"a.go"},{"file":"b.go","diff":null}]}`, "changes[0].diff"},
		{"file changes rootDir", FileChangesToolName, `{}`, "rootDir"},
		{"empty arguments", FileChangesToolName, ``, "rootDir"},
		{"not an object", MarkdownFileToolName, `[1,2]`, "arguments"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := r.Invoke(context.Background(), tc.tool, tc.args)

			var verr *ValidationError
			require.ErrorAs(t, res.Err, &verr)
			assert.Equal(t, tc.field, verr.Field)
			assert.Contains(t, res.Content, `"success":false`)
		})
	}

	assert.NoFileExists(t, outPath)
}

func TestRegistry_InvokeAcceptsOmittedOptionalFields(t *testing.T) {
	r, err := NewReviewRegistry(nil)
	require.NoError(t, err)
	outPath := filepath.Join(t.TempDir(), "report.md")

	res := r.Invoke(context.Background(), MarkdownFileToolName,
		`{"title":"T","content":"C","outputPath":"`+outPath+`","metadata":{"author":"me"}}`)
	require.NoError(t, res.Err)
	assert.Contains(t, res.Content, `"success":true`)
	assert.FileExists(t, outPath)
}
