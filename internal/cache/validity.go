// Copyright 2025 Upbound Inc.
// All rights reserved

package cache

// Valid reports whether entry can still be trusted for the given inputs,
// per §4.4's four conditions. hasImportedPackages distinguishes an entry
// written without the importedPackages field (an older cache format) so
// callers can invalidate everything for backward compatibility rather
// than risk a false match.
func Valid(entry FileCacheEntry, hasImportedPackages bool, contentHash, authorityVersion, repoContextHash string, currentPackageVersions map[string]string, authorityHasPackage func(string) bool) bool {
	if !hasImportedPackages {
		return false
	}
	if entry.ContentHash != contentHash {
		return false
	}
	if entry.AuthorityVersion != authorityVersion {
		return false
	}

	if entry.RepoContextHash != repoContextHash {
		// Global context hash mismatch: still valid if every package this
		// file actually imports resolved to the same version as before
		// (the "per-file smart match" that lets an unrelated lockfile bump
		// skip most files).
		for _, pkg := range entry.ImportedPackages {
			if currentPackageVersions[pkg] != entry.PackageVersions[pkg] {
				return false
			}
		}
	}

	for _, pkg := range entry.UnresolvedImports {
		if authorityHasPackage(pkg) {
			return false
		}
	}

	return true
}

// GC returns a copy of entries with any whose file no longer exists
// removed, using exists to check each path. It runs unconditionally
// before every cache write (§4.4).
func GC(entries map[string]FileCacheEntry, exists func(string) bool) map[string]FileCacheEntry {
	out := make(map[string]FileCacheEntry, len(entries))
	for path, entry := range entries {
		if exists(path) {
			out[path] = entry
		}
	}
	return out
}

// Migrate moves the cache entry at from to to, rewriting its FilePath and
// every contained finding's Location.File, without re-analysis. Used when
// a rename is detected and the destination's content hash still matches
// the source entry's.
func Migrate(entries map[string]FileCacheEntry, from, to string) {
	entry, ok := entries[from]
	if !ok {
		return
	}
	delete(entries, from)

	entry.FilePath = to
	for i := range entry.Findings {
		entry.Findings[i].Location.File = to
	}
	entries[to] = entry
}
