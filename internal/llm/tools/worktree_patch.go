package tools

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	fdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/binary"
	udiff "github.com/go-git/go-git/v5/utils/diff"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// worktreeSnapshot pairs an open working tree with the tree of its HEAD commit.
// head is nil for a repository without commits.
type worktreeSnapshot struct {
	repo *git.Repository
	wt   *git.Worktree
	head *object.Tree
	root string
}

func openWorktree(rootDir string) (*worktreeSnapshot, error) {
	repo, err := git.PlainOpenWithOptions(rootDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			err = fmt.Errorf("%w: %v", ErrNotRepository, err)
		}
		return nil, &VersionControlError{Op: "open", Path: rootDir, Err: err}
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, &VersionControlError{Op: "worktree", Path: rootDir, Err: err}
	}

	snap := &worktreeSnapshot{repo: repo, wt: wt, root: wt.Filesystem.Root()}

	ref, err := repo.Head()
	switch {
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		return snap, nil
	case err != nil:
		return nil, &VersionControlError{Op: "head", Path: rootDir, Err: err}
	}
	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, &VersionControlError{Op: "head", Path: rootDir, Err: err}
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, &VersionControlError{Op: "head", Path: rootDir, Err: err}
	}
	snap.head = tree
	return snap, nil
}

// changedPaths lists slash-separated, repository-relative paths whose state
// differs from HEAD, sorted the way `git diff --stat` prints them.
func (s *worktreeSnapshot) changedPaths(includeUntracked bool) ([]string, error) {
	status, err := s.wt.Status()
	if err != nil {
		return nil, &VersionControlError{Op: "status", Path: s.root, Err: err}
	}
	paths := make([]string, 0, len(status))
	for p, st := range status {
		if st.Worktree == git.Untracked && !includeUntracked {
			continue
		}
		if st.Worktree == git.Unmodified && st.Staging == git.Unmodified {
			continue
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

// patch renders the unified diff between HEAD and the working tree for rel.
// An empty string means the contents are identical.
func (s *worktreeSnapshot) patch(rel string, contextLines int) (string, error) {
	from, oldContent, oldBinary, err := s.headSide(rel)
	if err != nil {
		return "", &VersionControlError{Op: "diff", Path: rel, Err: err}
	}
	to, newContent, newBinary, err := s.worktreeSide(rel)
	if err != nil {
		return "", &VersionControlError{Op: "diff", Path: rel, Err: err}
	}
	if from == nil && to == nil {
		return "", nil
	}
	if from != nil && to != nil && from.hash == to.hash && from.mode == to.mode {
		return "", nil
	}

	fp := &filePatch{binary: oldBinary || newBinary}
	if from != nil {
		fp.from = from
	}
	if to != nil {
		fp.to = to
	}
	if !fp.binary {
		fp.chunks = textChunks(oldContent, newContent)
	}

	var buf bytes.Buffer
	if err := fdiff.NewUnifiedEncoder(&buf, contextLines).Encode(unifiedPatch{fp}); err != nil {
		return "", fmt.Errorf("encode patch for %s: %w", rel, err)
	}
	return buf.String(), nil
}

func (s *worktreeSnapshot) headSide(rel string) (*patchFile, string, bool, error) {
	if s.head == nil {
		return nil, "", false, nil
	}
	file, err := s.head.File(rel)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, "", false, nil
		}
		return nil, "", false, err
	}
	isBinary, err := file.IsBinary()
	if err != nil {
		return nil, "", false, err
	}
	content := ""
	if !isBinary {
		if content, err = file.Contents(); err != nil {
			return nil, "", false, err
		}
	}
	return &patchFile{path: rel, mode: file.Mode, hash: file.Hash}, content, isBinary, nil
}

func (s *worktreeSnapshot) worktreeSide(rel string) (*patchFile, string, bool, error) {
	abs := filepath.Join(s.root, filepath.FromSlash(rel))
	info, err := os.Lstat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", false, nil
		}
		return nil, "", false, err
	}
	if info.IsDir() {
		return nil, "", false, nil
	}

	var data []byte
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(abs)
		if err != nil {
			return nil, "", false, err
		}
		data = []byte(target)
	} else if data, err = os.ReadFile(abs); err != nil {
		return nil, "", false, err
	}

	mode, err := filemode.NewFromOSFileMode(info.Mode())
	if err != nil {
		mode = filemode.Regular
	}
	isBinary, err := binary.IsBinary(bytes.NewReader(data))
	if err != nil {
		return nil, "", false, err
	}
	file := &patchFile{path: rel, mode: mode, hash: plumbing.ComputeHash(plumbing.BlobObject, data)}
	if isBinary {
		return file, "", true, nil
	}
	return file, string(data), false, nil
}

func textChunks(oldContent, newContent string) []fdiff.Chunk {
	diffs := udiff.Do(oldContent, newContent)
	chunks := make([]fdiff.Chunk, 0, len(diffs))
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		var op fdiff.Operation
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			op = fdiff.Equal
		case diffmatchpatch.DiffDelete:
			op = fdiff.Delete
		case diffmatchpatch.DiffInsert:
			op = fdiff.Add
		}
		chunks = append(chunks, textChunk{content: d.Text, op: op})
	}
	return chunks
}

type unifiedPatch []fdiff.FilePatch

func (p unifiedPatch) FilePatches() []fdiff.FilePatch { return p }
func (p unifiedPatch) Message() string                { return "" }

type filePatch struct {
	from, to fdiff.File
	chunks   []fdiff.Chunk
	binary   bool
}

func (p *filePatch) IsBinary() bool                  { return p.binary }
func (p *filePatch) Files() (fdiff.File, fdiff.File) { return p.from, p.to }
func (p *filePatch) Chunks() []fdiff.Chunk           { return p.chunks }

type patchFile struct {
	path string
	mode filemode.FileMode
	hash plumbing.Hash
}

func (f *patchFile) Hash() plumbing.Hash     { return f.hash }
func (f *patchFile) Mode() filemode.FileMode { return f.mode }
func (f *patchFile) Path() string            { return f.path }

type textChunk struct {
	content string
	op      fdiff.Operation
}

func (c textChunk) Content() string       { return c.content }
func (c textChunk) Type() fdiff.Operation { return c.op }

func isExcluded(rel string, exclude []string) bool {
	for _, name := range exclude {
		if strings.TrimSpace(name) == rel {
			return true
		}
	}
	return false
}
