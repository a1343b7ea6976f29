// Copyright 2025 Upbound Inc.
// All rights reserved

package cache

import (
	"testing"

	"github.com/doxyproj/doxy/internal/findings"
)

func baseEntry() FileCacheEntry {
	return FileCacheEntry{
		ContentHash:      "hash1",
		AuthorityVersion: "1.0.0",
		RepoContextHash:  "ctx1",
		ImportedPackages: []string{"react"},
		PackageVersions:  map[string]string{"react": "18.2.0"},
	}
}

func alwaysFalse(string) bool { return false }
func alwaysTrue(string) bool  { return true }

func TestValidAllConditionsMet(t *testing.T) {
	e := baseEntry()
	if !Valid(e, true, "hash1", "1.0.0", "ctx1", map[string]string{"react": "18.2.0"}, alwaysFalse) {
		t.Error("expected a fully matching entry to be valid")
	}
}

func TestValidMissingImportedPackagesField(t *testing.T) {
	e := baseEntry()
	if Valid(e, false, "hash1", "1.0.0", "ctx1", map[string]string{"react": "18.2.0"}, alwaysFalse) {
		t.Error("expected an entry from an older cache format (no importedPackages) to invalidate")
	}
}

func TestValidContentHashMismatch(t *testing.T) {
	e := baseEntry()
	if Valid(e, true, "different", "1.0.0", "ctx1", map[string]string{"react": "18.2.0"}, alwaysFalse) {
		t.Error("expected a content hash mismatch to invalidate")
	}
}

func TestValidAuthorityVersionMismatch(t *testing.T) {
	e := baseEntry()
	if Valid(e, true, "hash1", "2.0.0", "ctx1", map[string]string{"react": "18.2.0"}, alwaysFalse) {
		t.Error("expected an authority version mismatch to invalidate")
	}
}

func TestValidPerFileSmartMatch(t *testing.T) {
	e := baseEntry()
	// Global context hash differs (e.g. an unrelated dependency bumped),
	// but react's resolved version for this file is unchanged.
	if !Valid(e, true, "hash1", "1.0.0", "ctx2", map[string]string{"react": "18.2.0"}, alwaysFalse) {
		t.Error("expected the per-file smart match to keep the entry valid")
	}
}

func TestValidPerFileSmartMatchFailsOnVersionChange(t *testing.T) {
	e := baseEntry()
	if Valid(e, true, "hash1", "1.0.0", "ctx2", map[string]string{"react": "19.0.0"}, alwaysFalse) {
		t.Error("expected a resolved-version change to invalidate under the per-file smart match")
	}
}

func TestValidUnresolvedImportNowCovered(t *testing.T) {
	e := baseEntry()
	e.UnresolvedImports = []string{"some-new-lib"}
	if Valid(e, true, "hash1", "1.0.0", "ctx1", map[string]string{"react": "18.2.0"}, alwaysTrue) {
		t.Error("expected an unresolved import now covered by authority data to invalidate")
	}
}

func TestGCRemovesMissingFiles(t *testing.T) {
	entries := map[string]FileCacheEntry{
		"src/a.tsx": {},
		"src/b.tsx": {},
	}
	exists := map[string]bool{"src/a.tsx": true}

	got := GC(entries, func(p string) bool { return exists[p] })
	if len(got) != 1 {
		t.Fatalf("GC returned %d entries, want 1", len(got))
	}
	if _, ok := got["src/a.tsx"]; !ok {
		t.Error("expected src/a.tsx to survive GC")
	}
}

func TestMigrateRewritesFindingLocations(t *testing.T) {
	entries := map[string]FileCacheEntry{
		"src/old.tsx": {
			FilePath: "src/old.tsx",
			Findings: []findings.Finding{{Location: findings.Location{File: "src/old.tsx", Line: 1, Column: 1}}},
		},
	}

	Migrate(entries, "src/old.tsx", "src/new.tsx")

	if _, ok := entries["src/old.tsx"]; ok {
		t.Error("expected the old key to be removed")
	}
	got, ok := entries["src/new.tsx"]
	if !ok {
		t.Fatal("expected the new key to exist")
	}
	if got.FilePath != "src/new.tsx" {
		t.Errorf("FilePath = %q, want src/new.tsx", got.FilePath)
	}
	if len(got.Findings) != 1 || got.Findings[0].Location.File != "src/new.tsx" {
		t.Errorf("Findings = %+v, want one finding located in src/new.tsx", got.Findings)
	}
}
