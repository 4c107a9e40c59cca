// Package gitrepo keeps an audit trail of the tracker's data files in a
// local git repository. Every mutating operation commits the current
// matters and owners snapshots with a message naming the action.
package gitrepo

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// CommitInfo describes one entry in the snapshot history.
type CommitInfo struct {
	Hash      string    `json:"hash"`
	Message   string    `json:"message"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

type Service struct {
	repoDir string
	mu      sync.Mutex
}

func New(repoDir string) *Service {
	return &Service{repoDir: repoDir}
}

// Snapshot writes the given files into the snapshot repo and commits them.
// The repo is initialized on first use. A snapshot with no changes is a
// no-op rather than an error.
func (s *Service) Snapshot(action, author string, files map[string][]byte) (CommitInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo, err := s.ensureRepo()
	if err != nil {
		return CommitInfo{}, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return CommitInfo{}, fmt.Errorf("open worktree: %w", err)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := os.WriteFile(filepath.Join(s.repoDir, name), files[name], 0o644); err != nil {
			return CommitInfo{}, fmt.Errorf("write snapshot %s: %w", name, err)
		}
		if _, err := worktree.Add(name); err != nil {
			return CommitInfo{}, fmt.Errorf("git add %s: %w", name, err)
		}
	}

	status, err := worktree.Status()
	if err != nil {
		return CommitInfo{}, fmt.Errorf("worktree status: %w", err)
	}
	if status.IsClean() {
		return s.head(repo)
	}

	if author == "" {
		author = "matterdesk"
	}
	hash, err := worktree.Commit(action, &git.CommitOptions{
		Author: &object.Signature{
			Name:  author,
			Email: fmt.Sprintf("%s@local.matterdesk.dev", sanitizeEmail(author)),
			When:  time.Now(),
		},
	})
	if err != nil {
		return CommitInfo{}, fmt.Errorf("commit snapshot: %w", err)
	}

	commitObj, err := repo.CommitObject(hash)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("read commit object: %w", err)
	}
	return toCommitInfo(commitObj), nil
}

// History returns the most recent snapshot commits, newest first.
func (s *Service) History(limit int) ([]CommitInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo, err := git.PlainOpen(s.repoDir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return []CommitInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open snapshot repo: %w", err)
	}

	headRef, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return []CommitInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{From: headRef.Hash()})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	items := make([]CommitInfo, 0, limit)
	count := 0
	err = iter.ForEach(func(commitObj *object.Commit) error {
		items = append(items, toCommitInfo(commitObj))
		count++
		if limit > 0 && count >= limit {
			return io.EOF
		}
		return nil
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("iterate log: %w", err)
	}
	return items, nil
}

func (s *Service) ensureRepo() (*git.Repository, error) {
	repo, err := git.PlainOpen(s.repoDir)
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("open snapshot repo: %w", err)
	}

	if err := os.MkdirAll(s.repoDir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	repo, err = git.PlainInit(s.repoDir, false)
	if err != nil {
		return nil, fmt.Errorf("init snapshot repo: %w", err)
	}
	return repo, nil
}

func (s *Service) head(repo *git.Repository) (CommitInfo, error) {
	headRef, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return CommitInfo{}, nil
	}
	if err != nil {
		return CommitInfo{}, fmt.Errorf("resolve HEAD: %w", err)
	}
	commitObj, err := repo.CommitObject(headRef.Hash())
	if err != nil {
		return CommitInfo{}, fmt.Errorf("read head commit: %w", err)
	}
	return toCommitInfo(commitObj), nil
}

func toCommitInfo(commitObj *object.Commit) CommitInfo {
	return CommitInfo{
		Hash:      commitObj.Hash.String()[:7],
		Message:   commitObj.Message,
		Author:    commitObj.Author.Name,
		CreatedAt: commitObj.Author.When,
	}
}

func sanitizeEmail(input string) string {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			out = append(out, r)
			continue
		}
		if r == ' ' || r == '-' || r == '_' {
			out = append(out, '.')
		}
	}
	if len(out) == 0 {
		return "user"
	}
	return string(out)
}
