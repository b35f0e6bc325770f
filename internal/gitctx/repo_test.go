package gitctx

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	t    *testing.T
	dir  string
	repo *git.Repository
	wt   *git.Worktree
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return &fixture{t: t, dir: dir, repo: repo, wt: wt}
}

// write creates name with content and stamps its modification time.
func (f *fixture) write(name, content string, mtime time.Time) {
	f.t.Helper()
	full := filepath.Join(f.dir, filepath.FromSlash(name))
	require.NoError(f.t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(f.t, os.WriteFile(full, []byte(content), 0o644))
	require.NoError(f.t, os.Chtimes(full, mtime, mtime))
}

func (f *fixture) add(names ...string) {
	f.t.Helper()
	for _, name := range names {
		_, err := f.wt.Add(name)
		require.NoError(f.t, err)
	}
}

func (f *fixture) commit(msg string, when time.Time) plumbing.Hash {
	f.t.Helper()
	h, err := f.wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@test.com", When: when},
	})
	require.NoError(f.t, err)
	return h
}

// history commits one file per message and returns the commit hashes,
// oldest first.
func (f *fixture) history(messages ...string) []plumbing.Hash {
	f.t.Helper()
	var hashes []plumbing.Hash
	for i, msg := range messages {
		name := msg + ".txt"
		f.write(name, msg+"\n", baseTime)
		f.add(name)
		hashes = append(hashes, f.commit(msg, baseTime.Add(time.Duration(i)*time.Hour)))
	}
	return hashes
}

// makeShallow turns the repository into the shape of a shallow clone whose
// oldest local commit is boundary: older commit objects are removed and the
// boundary is recorded in .git/shallow.
func (f *fixture) makeShallow(boundary plumbing.Hash, dropped ...plumbing.Hash) {
	f.t.Helper()
	for _, h := range dropped {
		hex := h.String()
		require.NoError(f.t, os.Remove(filepath.Join(f.dir, ".git", "objects", hex[:2], hex[2:])))
	}
	require.NoError(f.t, f.repo.Storer.SetShallow([]plumbing.Hash{boundary}))
}

// conflict replaces the index entry for name with the three stages of an
// unresolved merge.
func (f *fixture) conflict(name string) {
	f.t.Helper()
	idx, err := f.repo.Storer.Index()
	require.NoError(f.t, err)
	var entries []*index.Entry
	for _, e := range idx.Entries {
		if e.Name != name {
			entries = append(entries, e)
			continue
		}
		for _, stage := range []index.Stage{index.AncestorMode, index.OurMode, index.TheirMode} {
			staged := *e
			staged.Stage = stage
			entries = append(entries, &staged)
		}
	}
	idx.Entries = entries
	require.NoError(f.t, f.repo.Storer.SetIndex(idx))
}

// linkWorktree lays out a linked worktree of f on branch, the way
// "git worktree add" does, and returns its directory.
func (f *fixture) linkWorktree(branch string, files map[string]string) string {
	f.t.Helper()
	head, err := f.repo.Head()
	require.NoError(f.t, err)
	require.NoError(f.t, f.repo.Storer.SetReference(
		plumbing.NewHashReference(plumbing.NewBranchReferenceName(branch), head.Hash())))

	wtDir := f.t.TempDir()
	admin := filepath.Join(f.dir, ".git", "worktrees", branch)
	require.NoError(f.t, os.MkdirAll(admin, 0o755))
	idx, err := os.ReadFile(filepath.Join(f.dir, ".git", "index"))
	require.NoError(f.t, err)
	for name, content := range map[string]string{
		"HEAD":      "ref: refs/heads/" + branch + "\n",
		"commondir": "../..\n",
		"gitdir":    filepath.Join(wtDir, ".git") + "\n",
		"index":     string(idx),
	} {
		require.NoError(f.t, os.WriteFile(filepath.Join(admin, name), []byte(content), 0o644))
	}
	require.NoError(f.t, os.WriteFile(filepath.Join(wtDir, ".git"), []byte("gitdir: "+admin+"\n"), 0o644))

	for name, content := range files {
		full := filepath.Join(wtDir, filepath.FromSlash(name))
		require.NoError(f.t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(f.t, os.WriteFile(full, []byte(content), 0o644))
	}
	return wtDir
}

func (f *fixture) open() *Repo {
	f.t.Helper()
	r, err := Open(f.dir)
	require.NoError(f.t, err)
	return r
}

func paths(files []TrackedFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}

func TestOpen_NotARepository(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotARepository)
}

func TestOpen_FromSubdirectory(t *testing.T) {
	f := newFixture(t)
	f.write("src/main.go", "package main\n", baseTime)

	r, err := Open(filepath.Join(f.dir, "src"))
	require.NoError(t, err)
	assert.Equal(t, resolvePath(f.dir), resolvePath(r.Root()))
}

func TestTrackedFiles_SortedByModTime(t *testing.T) {
	f := newFixture(t)
	f.write("old.txt", "old\n", baseTime)
	f.write("new.txt", "new\n", baseTime.Add(2*time.Hour))
	f.write("mid.txt", "mid\n", baseTime.Add(time.Hour))
	f.add("old.txt", "new.txt", "mid.txt")
	f.commit("init", baseTime)

	files, err := f.open().TrackedFiles(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"new.txt", "mid.txt", "old.txt"}, paths(files))
	assert.True(t, files[0].ModTime.Equal(baseTime.Add(2*time.Hour)))
}

func TestTrackedFiles_TiesKeepIndexOrder(t *testing.T) {
	f := newFixture(t)
	f.write("b.txt", "b\n", baseTime)
	f.write("a.txt", "a\n", baseTime)
	f.write("c.txt", "c\n", baseTime)
	f.add("c.txt", "b.txt", "a.txt")
	f.commit("init", baseTime)

	files, err := f.open().TrackedFiles(nil)
	require.NoError(t, err)
	// the index is kept sorted by name
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, paths(files))
}

func TestTrackedFiles_IndexNotWorkingTree(t *testing.T) {
	f := newFixture(t)
	f.write("kept.txt", "kept\n", baseTime)
	f.write("gone.txt", "gone\n", baseTime)
	f.add("kept.txt", "gone.txt")
	f.commit("init", baseTime)

	f.write("untracked.txt", "untracked\n", baseTime)
	f.write("staged.txt", "staged\n", baseTime)
	f.add("staged.txt")
	require.NoError(t, os.Remove(filepath.Join(f.dir, "gone.txt")))

	files, err := f.open().TrackedFiles(nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"kept.txt", "staged.txt"}, paths(files))
}

func TestTrackedFiles_Scopes(t *testing.T) {
	f := newFixture(t)
	f.write("README.md", "readme\n", baseTime)
	f.write("src/a.go", "a\n", baseTime)
	f.write("src/sub/b.go", "b\n", baseTime)
	f.write("srcfoo/c.go", "c\n", baseTime)
	f.add("README.md", "src/a.go", "src/sub/b.go", "srcfoo/c.go")
	f.commit("init", baseTime)
	r := f.open()

	tests := []struct {
		name   string
		scopes []string
		want   []string
	}{
		{"whole repo", nil, []string{"README.md", "src/a.go", "src/sub/b.go", "srcfoo/c.go"}},
		{"directory", []string{"src"}, []string{"src/a.go", "src/sub/b.go"}},
		{"nested directory", []string{"src/sub"}, []string{"src/sub/b.go"}},
		{"single file and dir", []string{"README.md", "srcfoo"}, []string{"README.md", "srcfoo/c.go"}},
		{"no match", []string{"docs"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := r.TrackedFiles(tt.scopes)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, paths(files))
		})
	}
}

func TestTrackedFiles_ConflictListedOnce(t *testing.T) {
	f := newFixture(t)
	f.write("f.txt", "<<<<<<< ours\n", baseTime)
	f.write("g.txt", "g\n", baseTime)
	f.add("f.txt", "g.txt")
	f.commit("init", baseTime)
	f.conflict("f.txt")

	files, err := f.open().TrackedFiles(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"f.txt", "g.txt"}, paths(files))
}

func TestOpen_LinkedWorktree(t *testing.T) {
	f := newFixture(t)
	f.write("a.txt", "a\n", baseTime)
	f.add("a.txt")
	f.commit("init", baseTime)
	wtDir := f.linkWorktree("feature", map[string]string{"a.txt": "a\n"})

	r, err := Open(wtDir)
	require.NoError(t, err)
	assert.Equal(t, resolvePath(wtDir), resolvePath(r.Root()))

	meta := r.Meta()
	assert.Equal(t, "feature", meta.Branch)
	assert.Len(t, meta.Head, 40)

	commits, err := r.RecentCommits(2)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, "init", commits[0].Message)

	files, err := r.TrackedFiles(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, paths(files))
}

func TestInScope(t *testing.T) {
	tests := []struct {
		path   string
		scopes []string
		want   bool
	}{
		{"src/a.go", []string{"src"}, true},
		{"src", []string{"src"}, true},
		{"srcfoo/a.go", []string{"src"}, false},
		{"a.go", []string{"."}, true},
		{"a.go", []string{""}, true},
		{"docs/x.md", []string{"src", "docs"}, true},
		{"lib/x.go", []string{"src", "docs"}, false},
	}
	for _, tt := range tests {
		if got := InScope(tt.path, tt.scopes); got != tt.want {
			t.Errorf("InScope(%q, %v) = %v, want %v", tt.path, tt.scopes, got, tt.want)
		}
	}
}

func TestResolveScopes(t *testing.T) {
	f := newFixture(t)
	f.write("src/sub/b.go", "b\n", baseTime)
	r := f.open()
	srcDir := filepath.Join(f.dir, "src")

	scopes, err := r.ResolveScopes(f.dir, []string{"src", "./README.md"})
	require.NoError(t, err)
	assert.Equal(t, []string{"src", "README.md"}, scopes)

	scopes, err = r.ResolveScopes(srcDir, []string{"sub", filepath.Join(f.dir, "docs")})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/sub", "docs"}, scopes)

	scopes, err = r.ResolveScopes(srcDir, []string{"sub", ".."})
	require.NoError(t, err)
	assert.Nil(t, scopes, "the working root selects the whole repository")

	_, err = r.ResolveScopes(f.dir, []string{"../elsewhere"})
	assert.ErrorIs(t, err, ErrScopeOutsideRepo)
}

func TestRecentCommits(t *testing.T) {
	f := newFixture(t)
	for i, msg := range []string{"first", "second", "third"} {
		name := msg + ".txt"
		f.write(name, msg+"\n", baseTime)
		f.add(name)
		f.commit(msg+"\n", baseTime.Add(time.Duration(i)*time.Hour))
	}
	r := f.open()

	commits, err := r.RecentCommits(2)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "third\n", commits[0].Message)
	assert.Equal(t, "second\n", commits[1].Message)
	assert.True(t, commits[0].When.Equal(baseTime.Add(2*time.Hour)))
	assert.Len(t, commits[0].Hash, 40)

	commits, err = r.RecentCommits(25)
	require.NoError(t, err)
	require.Len(t, commits, 3)
	assert.Equal(t, "first\n", commits[2].Message)

	commits, err = r.RecentCommits(0)
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestRecentCommits_ShallowClone(t *testing.T) {
	f := newFixture(t)
	hashes := f.history("first", "second", "third", "fourth")
	// depth 2: "third" is the boundary, its ancestors are not present
	f.makeShallow(hashes[2], hashes[0], hashes[1])

	commits, err := f.open().RecentCommits(5)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "fourth", commits[0].Message)
	assert.Equal(t, "third", commits[1].Message)
}

func TestRecentCommits_ShallowBoundaryAtHead(t *testing.T) {
	f := newFixture(t)
	hashes := f.history("first", "second")
	f.makeShallow(hashes[1], hashes[0])

	commits, err := f.open().RecentCommits(3)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, hashes[1].String(), commits[0].Hash)
}

func TestRecentCommits_UnbornHead(t *testing.T) {
	f := newFixture(t)
	_, err := f.open().RecentCommits(5)
	assert.ErrorIs(t, err, ErrHistoryUnavailable)
}

func TestMeta(t *testing.T) {
	f := newFixture(t)
	assert.Empty(t, f.open().Meta().Head)

	f.write("a.txt", "a\n", baseTime)
	f.add("a.txt")
	f.commit("init", baseTime)

	meta := f.open().Meta()
	assert.Len(t, meta.Head, 40)
	assert.Equal(t, "master", meta.Branch)
	assert.NotEmpty(t, meta.Root)
}
