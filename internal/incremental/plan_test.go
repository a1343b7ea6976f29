// Copyright 2025 Upbound Inc.
// All rights reserved

package incremental

import (
	"testing"

	"github.com/spf13/afero"

	"github.com/doxyproj/doxy/internal/cache"
	"github.com/doxyproj/doxy/internal/findings"
)

type fakeVCS struct {
	available bool
	diff      ChangeSet
	worktree  ChangeSet
}

func (f fakeVCS) Available() bool                           { return f.available }
func (f fakeVCS) Diff(baseRef string) (ChangeSet, error)     { return f.diff, nil }
func (f fakeVCS) UnstagedAndUntracked() (ChangeSet, error)   { return f.worktree, nil }

func alwaysCovered(string) bool { return true }
func neverCovered(string) bool  { return false }

func TestPlanFirstRunIsFull(t *testing.T) {
	fsys := afero.NewMemMapFs()
	afero.WriteFile(fsys, "src/a.tsx", []byte("a"), 0o644)

	plan, err := Plan(fsys, []string{"src/a.tsx"}, fakeVCS{}, &cache.Cache{Entries: map[string]cache.FileCacheEntry{}}, nil, neverCovered, Options{})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.Mode != ModeFull {
		t.Errorf("Mode = %q, want full", plan.Mode)
	}
	if len(plan.FilesToAnalyze) != 1 || plan.FilesToAnalyze[0].Reason != ReasonCacheMiss {
		t.Errorf("FilesToAnalyze = %+v, want one cache-miss entry", plan.FilesToAnalyze)
	}
}

func TestPlanCachedFileServedWithoutReanalysis(t *testing.T) {
	fsys := afero.NewMemMapFs()
	afero.WriteFile(fsys, "src/a.tsx", []byte("stable content"), 0o644)

	hash, err := hashFile(fsys, "src/a.tsx")
	if err != nil {
		t.Fatal(err)
	}

	c := &cache.Cache{Entries: map[string]cache.FileCacheEntry{
		"src/a.tsx": {
			ContentHash:      hash,
			AuthorityVersion: "1.0.0",
			RepoContextHash:  "ctx1",
			ImportedPackages: []string{},
			Findings:         []findings.Finding{{ID: "dxy_aaaaaaaa"}},
		},
	}}

	plan, err := Plan(fsys, []string{"src/a.tsx"}, fakeVCS{}, c, nil, neverCovered, Options{
		AuthorityVersion: "1.0.0",
		RepoContextHash:  "ctx1",
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.Mode != ModeIncremental {
		t.Errorf("Mode = %q, want incremental", plan.Mode)
	}
	if len(plan.CachedFiles) != 1 || plan.CachedFiles[0].Findings[0].ID != "dxy_aaaaaaaa" {
		t.Errorf("CachedFiles = %+v, want the cached finding served back unchanged", plan.CachedFiles)
	}
	if len(plan.FilesToAnalyze) != 0 {
		t.Errorf("FilesToAnalyze = %+v, want none", plan.FilesToAnalyze)
	}
}

func TestPlanContentChangedInvalidatesEntry(t *testing.T) {
	fsys := afero.NewMemMapFs()
	afero.WriteFile(fsys, "src/a.tsx", []byte("new content"), 0o644)

	c := &cache.Cache{Entries: map[string]cache.FileCacheEntry{
		"src/a.tsx": {
			ContentHash:      "stale-hash",
			AuthorityVersion: "1.0.0",
			RepoContextHash:  "ctx1",
			ImportedPackages: []string{},
		},
	}}

	plan, err := Plan(fsys, []string{"src/a.tsx"}, fakeVCS{}, c, nil, neverCovered, Options{
		AuthorityVersion: "1.0.0",
		RepoContextHash:  "ctx1",
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(plan.FilesToAnalyze) != 1 || plan.FilesToAnalyze[0].Reason != ReasonFileChanged {
		t.Errorf("FilesToAnalyze = %+v, want one file-changed entry", plan.FilesToAnalyze)
	}
}

func TestPlanRenameWithChangedContentReanalyzes(t *testing.T) {
	fsys := afero.NewMemMapFs()
	afero.WriteFile(fsys, "src/b.tsx", []byte("edited after rename"), 0o644)

	c := &cache.Cache{Entries: map[string]cache.FileCacheEntry{
		"src/a.tsx": {
			ContentHash:      "hash-of-original-content",
			AuthorityVersion: "1.0.0",
			RepoContextHash:  "ctx1",
			ImportedPackages: []string{},
		},
	}}

	vcs := fakeVCS{available: true, worktree: ChangeSet{Renames: []Rename{{From: "src/a.tsx", To: "src/b.tsx"}}}}

	plan, err := Plan(fsys, []string{"src/b.tsx"}, vcs, c, nil, neverCovered, Options{
		AuthorityVersion: "1.0.0",
		RepoContextHash:  "ctx1",
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.Stats.Renamed != 0 {
		t.Errorf("Stats.Renamed = %d, want 0 (content changed, so no migration)", plan.Stats.Renamed)
	}
	if len(plan.FilesToAnalyze) != 1 || plan.FilesToAnalyze[0].Reason != ReasonFileRenamed {
		t.Errorf("FilesToAnalyze = %+v, want one file-renamed entry for src/b.tsx", plan.FilesToAnalyze)
	}
}

func TestPlanConfigChangedForcesFullRun(t *testing.T) {
	fsys := afero.NewMemMapFs()
	afero.WriteFile(fsys, "src/a.tsx", []byte("content"), 0o644)

	hash, _ := hashFile(fsys, "src/a.tsx")
	c := &cache.Cache{Entries: map[string]cache.FileCacheEntry{
		"src/a.tsx": {ContentHash: hash, AuthorityVersion: "1.0.0", RepoContextHash: "ctx1", ImportedPackages: []string{}},
	}}

	plan, err := Plan(fsys, []string{"src/a.tsx"}, fakeVCS{}, c, nil, neverCovered, Options{
		AuthorityVersion: "1.0.0",
		RepoContextHash:  "ctx1",
		ConfigChanged:    true,
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.Mode != ModeFull {
		t.Errorf("Mode = %q, want full", plan.Mode)
	}
	if len(plan.FilesToAnalyze) != 1 || plan.FilesToAnalyze[0].Reason != ReasonConfigChanged {
		t.Errorf("FilesToAnalyze = %+v, want one config-changed entry", plan.FilesToAnalyze)
	}
}
