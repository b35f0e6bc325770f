package gitctx

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/go-git/go-billy/v5"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

var (
	// ErrNotARepository is returned when no repository exists at or above the
	// starting directory.
	ErrNotARepository = errors.New("not a git repository")
	// ErrNoWorkingDir is returned for bare repositories.
	ErrNoWorkingDir = errors.New("repository has no working directory")
	// ErrHistoryUnavailable is returned when HEAD cannot be resolved.
	ErrHistoryUnavailable = errors.New("commit history unavailable")
	// ErrScopeOutsideRepo is returned for scope paths outside the working root.
	ErrScopeOutsideRepo = errors.New("path is outside the repository")
)

// TrackedFile is an index entry that exists on disk.
type TrackedFile struct {
	Path    string    `json:"path"`
	ModTime time.Time `json:"modTime"`
}

// CommitRecord holds the fields of a commit shown in an export.
type CommitRecord struct {
	Hash    string    `json:"hash"`
	Message string    `json:"message"`
	When    time.Time `json:"when"`
}

// RepoMeta contains git repository metadata.
type RepoMeta struct {
	Root   string `json:"root"`
	Head   string `json:"head,omitempty"`
	Branch string `json:"branch,omitempty"`
}

// Repo is an opened repository with a checked-out working tree.
type Repo struct {
	repo *git.Repository
	fs   billy.Filesystem
	root string
}

// Open discovers the repository containing dir. Linked worktrees resolve
// HEAD and refs through the main repository's common directory.
func Open(dir string) (*Repo, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w (or any parent up to mount point): %s", ErrNotARepository, dir)
		}
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, git.ErrIsBareRepository) {
			return nil, ErrNoWorkingDir
		}
		return nil, fmt.Errorf("opening worktree: %w", err)
	}
	return &Repo{
		repo: repo,
		fs:   wt.Filesystem,
		root: wt.Filesystem.Root(),
	}, nil
}

// Root returns the absolute path of the working tree.
func (r *Repo) Root() string {
	return r.root
}

// Filesystem returns the working tree filesystem rooted at Root.
func (r *Repo) Filesystem() billy.Filesystem {
	return r.fs
}

// Meta collects repository metadata. Head and Branch are empty on an unborn
// branch.
func (r *Repo) Meta() RepoMeta {
	meta := RepoMeta{Root: r.root}
	head, err := r.repo.Head()
	if err != nil {
		return meta
	}
	meta.Head = head.Hash().String()
	if head.Name().IsBranch() {
		meta.Branch = head.Name().Short()
	}
	return meta
}

// TrackedFiles lists index entries present on disk, newest first. When
// scopes is non-empty only paths equal to or beneath a scope are kept. A
// path with several merge stages is listed once.
func (r *Repo) TrackedFiles(scopes []string) ([]TrackedFile, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}

	var files []TrackedFile
	seen := make(map[string]bool, len(idx.Entries))
	for _, entry := range idx.Entries {
		if seen[entry.Name] {
			continue
		}
		seen[entry.Name] = true
		if len(scopes) > 0 && !InScope(entry.Name, scopes) {
			continue
		}
		info, err := r.fs.Stat(entry.Name)
		if err != nil {
			// deleted but not yet committed, or unreadable metadata
			continue
		}
		files = append(files, TrackedFile{Path: entry.Name, ModTime: info.ModTime()})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})
	return files, nil
}

// RecentCommits returns at most n commits reachable from HEAD, most recent
// first. In a shallow clone the walk ends at the shallow boundary.
func (r *Repo) RecentCommits(n int) ([]CommitRecord, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("%w: resolving HEAD: %v", ErrHistoryUnavailable, err)
	}
	if n <= 0 {
		return nil, nil
	}

	tip, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
	}
	missing, err := r.shallowParents()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
	}
	iter := object.NewCommitIterCTime(tip, nil, missing)
	defer iter.Close()

	commits := make([]CommitRecord, 0, min(n, 64))
	for len(commits) < n {
		c, err := iter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("walking history: %w", err)
		}
		commits = append(commits, CommitRecord{
			Hash:    c.Hash.String(),
			Message: c.Message,
			When:    c.Author.When,
		})
	}
	return commits, nil
}

// shallowParents returns the parents of shallow commits. Those objects are
// absent locally and must not be visited.
func (r *Repo) shallowParents() ([]plumbing.Hash, error) {
	shallow, err := r.repo.Storer.Shallow()
	if err != nil {
		return nil, fmt.Errorf("reading shallow boundary: %w", err)
	}
	var parents []plumbing.Hash
	for _, h := range shallow {
		c, err := r.repo.CommitObject(h)
		if err != nil {
			// boundary commit outside the local object store
			continue
		}
		parents = append(parents, c.ParentHashes...)
	}
	return parents, nil
}
