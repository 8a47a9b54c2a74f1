// Package gitrepo implements the revision content provider over a local Git
// repository. It resolves opaque revision references to manifest text and
// never interprets the manifest itself.
package gitrepo

import (
	"context"
	"fmt"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	logger "github.com/sirupsen/logrus"

	"github.com/cratediff/cratediff/domain"
)

// WorkingTree is the pseudo-revision for the checked-out (possibly
// uncommitted) manifest.
const WorkingTree = "WORKTREE"

// ManifestName is the file this tool diffs, always at the repository root.
const ManifestName = "Cargo.toml"

// Repository provides manifest text from a local Git repository.
type Repository struct {
	repo *git.Repository
	path string
}

var _ domain.ContentProvider = (*Repository)(nil)

// Open opens the repository at the given local path.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open repo %q: %w", path, err)
	}
	return &Repository{repo: repo, path: path}, nil
}

// ManifestText returns the manifest content at the given revision. An empty
// reference or WorkingTree reads the checked-out file; anything else is
// resolved as a commit-ish and read from that commit's tree.
func (r *Repository) ManifestText(_ context.Context, revision string) (string, error) {
	if revision == "" || revision == WorkingTree {
		return r.workingTreeManifest()
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return "", fmt.Errorf("failed to resolve revision %q: %w", revision, err)
	}
	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return "", fmt.Errorf("failed to read commit %s: %w", hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return "", fmt.Errorf("failed to read tree of %s: %w", hash, err)
	}
	file, err := tree.File(ManifestName)
	if err != nil {
		return "", fmt.Errorf("no %s at revision %q: %w", ManifestName, revision, err)
	}
	content, err := file.Contents()
	if err != nil {
		return "", fmt.Errorf("failed to read %s at revision %q: %w", ManifestName, revision, err)
	}

	logger.Debugf("read %s at %q (%d bytes)", ManifestName, revision, len(content))
	return content, nil
}

func (r *Repository) workingTreeManifest() (string, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to access worktree: %w", err)
	}
	file, err := worktree.Filesystem.Open(ManifestName)
	if err != nil {
		return "", fmt.Errorf("no %s in working tree: %w", ManifestName, err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s from working tree: %w", ManifestName, err)
	}
	return string(content), nil
}

// Tags returns the repository's tag names sorted by semantic version
// descending (newest first).
func (r *Repository) Tags() ([]string, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	var tags []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}

	sortVersionsDescending(tags)
	return tags, nil
}
