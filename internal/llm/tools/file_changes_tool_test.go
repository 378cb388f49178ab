package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	abs := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

// initRepo creates a repository at dir with files committed once.
func initRepo(t *testing.T, dir string, files map[string]string) *git.Repository {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	w, err := repo.Worktree()
	require.NoError(t, err)

	for rel, content := range files {
		writeFile(t, dir, rel, content)
		_, err = w.Add(rel)
		require.NoError(t, err)
	}
	_, err = w.Commit("initial commit", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
		},
	})
	require.NoError(t, err)
	return repo
}

func TestCollect_ModifiedFilesInPathOrder(t *testing.T) {
	dir := t.TempDir()
	initRepo(t, dir, map[string]string{
		"b.txt":     "hello world\n",
		"src/a.go":  "package a\n",
		"unchanged": "same\n",
	})
	writeFile(t, dir, "b.txt", "hello world!\nnew line\n")
	writeFile(t, dir, "src/a.go", "package a\n\nfunc A() {}\n")

	changes, err := NewDiffCollector(nil).Collect(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, changes, 2)

	assert.Equal(t, "b.txt", changes[0].File)
	assert.Equal(t, "src/a.go", changes[1].File)

	assert.Contains(t, changes[0].Diff, "diff --git a/b.txt b/b.txt")
	assert.Contains(t, changes[0].Diff, "-hello world\n")
	assert.Contains(t, changes[0].Diff, "+hello world!\n")
	assert.Contains(t, changes[0].Diff, "+new line\n")
	assert.Contains(t, changes[1].Diff, "+func A() {}")
}

func TestCollect_ExcludedFilesNeverReturned(t *testing.T) {
	dir := t.TempDir()
	initRepo(t, dir, map[string]string{
		"dist":     "v1\n",
		"bun.lock": "lock v1\n",
		"main.ts":  "console.log(1)\n",
	})
	writeFile(t, dir, "dist", "v2\n")
	writeFile(t, dir, "bun.lock", "lock v2\n")
	writeFile(t, dir, "main.ts", "console.log(2)\n")

	changes, err := NewDiffCollector(nil).Collect(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "main.ts", changes[0].File)
}

func TestCollect_ExclusionIsExactMatch(t *testing.T) {
	dir := t.TempDir()
	initRepo(t, dir, map[string]string{
		"dist/app.js": "a\n",
	})
	writeFile(t, dir, "dist/app.js", "b\n")

	changes, err := NewDiffCollector(nil).Collect(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "dist/app.js", changes[0].File)
}

func TestCollect_DeletedAndStagedFiles(t *testing.T) {
	dir := t.TempDir()
	repo := initRepo(t, dir, map[string]string{
		"gone.txt": "bye\n",
	})
	require.NoError(t, os.Remove(filepath.Join(dir, "gone.txt")))

	writeFile(t, dir, "added.txt", "fresh\n")
	w, err := repo.Worktree()
	require.NoError(t, err)
	_, err = w.Add("added.txt")
	require.NoError(t, err)

	changes, err := NewDiffCollector(nil).Collect(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, changes, 2)

	assert.Equal(t, "added.txt", changes[0].File)
	assert.Contains(t, changes[0].Diff, "new file mode 100644")
	assert.Contains(t, changes[0].Diff, "+fresh")

	assert.Equal(t, "gone.txt", changes[1].File)
	assert.Contains(t, changes[1].Diff, "deleted file mode 100644")
	assert.Contains(t, changes[1].Diff, "-bye")
}

func TestCollect_UntrackedOnlyWhenEnabled(t *testing.T) {
	dir := t.TempDir()
	initRepo(t, dir, map[string]string{"README.md": "# x\n"})
	writeFile(t, dir, "notes.txt", "draft\n")

	collector := NewDiffCollector(nil)
	changes, err := collector.Collect(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, changes)

	collector.IncludeUntracked = true
	changes, err = collector.Collect(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "notes.txt", changes[0].File)
}

func TestCollect_FromSubdirectoryUsesRepositoryPaths(t *testing.T) {
	dir := t.TempDir()
	initRepo(t, dir, map[string]string{"pkg/lib.go": "package pkg\n"})
	writeFile(t, dir, "pkg/lib.go", "package pkg\n\nvar X = 1\n")

	changes, err := NewDiffCollector(nil).Collect(context.Background(), filepath.Join(dir, "pkg"))
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "pkg/lib.go", changes[0].File)
}

func TestCollect_RepositoryWithoutCommits(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	writeFile(t, dir, "first.txt", "one\n")
	w, err := repo.Worktree()
	require.NoError(t, err)
	_, err = w.Add("first.txt")
	require.NoError(t, err)

	changes, err := NewDiffCollector(nil).Collect(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Contains(t, changes[0].Diff, "+one")
}

func TestCollect_NotARepository(t *testing.T) {
	dir := t.TempDir()

	_, err := NewDiffCollector(nil).Collect(context.Background(), dir)
	require.Error(t, err)

	var vcsErr *VersionControlError
	require.ErrorAs(t, err, &vcsErr)
	assert.Equal(t, "open", vcsErr.Op)
	assert.ErrorIs(t, err, ErrNotRepository)
}

func TestFileChangesInput_Validate(t *testing.T) {
	var nilInput *FileChangesInput
	assert.Error(t, nilInput.Validate())

	err := (&FileChangesInput{RootDir: "  "}).Validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "rootDir", verr.Field)

	assert.NoError(t, (&FileChangesInput{RootDir: "."}).Validate())
}
