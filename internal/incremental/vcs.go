// Copyright 2025 Upbound Inc.
// All rights reserved

// Package incremental implements the Incremental Engine (C7): computing a
// RunPlan from the cache, the authority store's fingerprint, and the
// version-control-reported changed-file set, with a hash-based fallback
// when no VCS is available.
package incremental

import (
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/merkletrie"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
)

const errFmtResolveRef = "failed to resolve base ref %q"

// Rename is a file whose path changed without (by content hash) its
// source changing.
type Rename struct {
	From, To string
}

// ChangeSet is the union of changed-file sources described in §4.4: a
// name-only diff of baseRef..HEAD restricted to added/copied/modified/
// renamed, the unstaged diff, and untracked unignored files.
type ChangeSet struct {
	Added    []string
	Modified []string
	Deleted  []string
	Renames  []Rename
}

// VCS abstracts the version-control operations the Incremental Engine
// needs. A repo lacking history (shallow clone, no .git) reports
// Available() == false rather than erroring, per §4.4's version-control
// free fallback.
type VCS interface {
	Available() bool
	Diff(baseRef string) (ChangeSet, error)
	UnstagedAndUntracked() (ChangeSet, error)
}

// GitVCS implements VCS against a go-git repository.
type GitVCS struct {
	repo *git.Repository
}

// OpenGitVCS opens the git repository rooted at root. A missing or
// non-git directory is not an error: the returned VCS simply reports
// Available() == false.
func OpenGitVCS(root string) (*GitVCS, error) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return &GitVCS{}, nil
	}
	return &GitVCS{repo: repo}, nil
}

// Available implements VCS.
func (g *GitVCS) Available() bool {
	if g.repo == nil {
		return false
	}
	if _, err := g.repo.Head(); err != nil {
		return false
	}
	shallow, err := g.repo.Storer.Shallow()
	return err == nil && len(shallow) == 0
}

// Diff implements VCS, comparing the tree at baseRef to HEAD and
// classifying each change as an addition, modification, deletion, or (by
// matching blob hashes across an add/delete pair) a rename.
func (g *GitVCS) Diff(baseRef string) (ChangeSet, error) {
	if !g.Available() {
		return ChangeSet{}, nil
	}

	head, err := g.repo.Head()
	if err != nil {
		return ChangeSet{}, errors.Wrap(err, "failed to resolve HEAD")
	}
	headCommit, err := g.repo.CommitObject(head.Hash())
	if err != nil {
		return ChangeSet{}, errors.Wrap(err, "failed to load HEAD commit")
	}
	headTree, err := headCommit.Tree()
	if err != nil {
		return ChangeSet{}, errors.Wrap(err, "failed to load HEAD tree")
	}

	baseHash, err := g.repo.ResolveRevision(plumbing.Revision(baseRef))
	if err != nil {
		return ChangeSet{}, errors.Wrapf(err, errFmtResolveRef, baseRef)
	}
	baseCommit, err := g.repo.CommitObject(*baseHash)
	if err != nil {
		return ChangeSet{}, errors.Wrapf(err, errFmtResolveRef, baseRef)
	}
	baseTree, err := baseCommit.Tree()
	if err != nil {
		return ChangeSet{}, errors.Wrapf(err, errFmtResolveRef, baseRef)
	}

	changes, err := baseTree.Diff(headTree)
	if err != nil {
		return ChangeSet{}, errors.Wrap(err, "failed to diff trees")
	}

	return classifyChanges(changes), nil
}

func classifyChanges(changes object.Changes) ChangeSet {
	var added, deleted []changeEntry

	var cs ChangeSet
	for _, c := range changes {
		action, err := c.Action()
		if err != nil {
			continue
		}
		switch action {
		case merkletrie.Insert:
			added = append(added, changeEntry{path: c.To.Name, hash: c.To.TreeEntry.Hash.String()})
		case merkletrie.Delete:
			deleted = append(deleted, changeEntry{path: c.From.Name, hash: c.From.TreeEntry.Hash.String()})
		default:
			cs.Modified = append(cs.Modified, c.To.Name)
		}
	}

	usedAdded := make(map[int]bool)
	for _, d := range deleted {
		matched := false
		for i, a := range added {
			if usedAdded[i] || a.hash != d.hash {
				continue
			}
			cs.Renames = append(cs.Renames, Rename{From: d.path, To: a.path})
			usedAdded[i] = true
			matched = true
			break
		}
		if !matched {
			cs.Deleted = append(cs.Deleted, d.path)
		}
	}
	for i, a := range added {
		if !usedAdded[i] {
			cs.Added = append(cs.Added, a.path)
		}
	}

	return cs
}

type changeEntry struct {
	path, hash string
}

// UnstagedAndUntracked implements VCS using the worktree's status: files
// modified but not committed, and untracked files not excluded by
// .gitignore.
func (g *GitVCS) UnstagedAndUntracked() (ChangeSet, error) {
	if !g.Available() {
		return ChangeSet{}, nil
	}

	wt, err := g.repo.Worktree()
	if err != nil {
		return ChangeSet{}, errors.Wrap(err, "failed to open worktree")
	}
	status, err := wt.Status()
	if err != nil {
		return ChangeSet{}, errors.Wrap(err, "failed to compute worktree status")
	}

	var cs ChangeSet
	for path, fs := range status {
		switch {
		case fs.Worktree == git.Untracked:
			cs.Added = append(cs.Added, path)
		case fs.Worktree != git.Unmodified:
			cs.Modified = append(cs.Modified, path)
		}
	}
	return cs, nil
}
