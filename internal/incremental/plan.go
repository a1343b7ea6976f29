// Copyright 2025 Upbound Inc.
// All rights reserved

package incremental

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/spf13/afero"

	"github.com/doxyproj/doxy/internal/cache"
	"github.com/doxyproj/doxy/internal/findings"
)

// AnalysisReason explains why a file was not served from cache.
type AnalysisReason string

const (
	ReasonFileChanged       AnalysisReason = "file-changed"
	ReasonFileNew           AnalysisReason = "file-new"
	ReasonFileRenamed       AnalysisReason = "file-renamed"
	ReasonManifestChanged   AnalysisReason = "manifest-changed"
	ReasonAuthorityUpdated  AnalysisReason = "authority-updated"
	ReasonConfigChanged     AnalysisReason = "config-changed"
	ReasonCacheMiss         AnalysisReason = "cache-miss"
)

// Mode classifies the overall shape of a run.
type Mode string

const (
	ModeFull        Mode = "full"
	ModeIncremental Mode = "incremental"
)

// FileToAnalyze is a candidate source file that needs fresh analysis.
type FileToAnalyze struct {
	Path   string
	Reason AnalysisReason
}

// CachedFile is a candidate source file served entirely from the cache.
type CachedFile struct {
	Path     string
	Findings []findings.Finding
}

// Stats counts each bucket of a RunPlan, for reporting.
type Stats struct {
	Analyzed int
	Cached   int
	Renamed  int
}

// RunPlan is the result of planning one run: which files need fresh
// analysis, which are served from cache, and bookkeeping about how the
// plan was derived.
type RunPlan struct {
	FilesToAnalyze []FileToAnalyze
	CachedFiles    []CachedFile
	Mode           Mode
	BaseRef        string
	GitAvailable   bool
	Renames        []Rename
	Stats          Stats
}

// Options configures Plan.
type Options struct {
	// BaseRef, when set, restricts the VCS-sourced changed set to
	// baseRef..HEAD plus the working tree. When empty, only the working
	// tree (unstaged + untracked) is consulted.
	BaseRef string
	// AuthorityVersion and RepoContextHash are the current run's
	// fingerprints, compared against each cache entry.
	AuthorityVersion string
	RepoContextHash  string
	// ConfigChanged and AuthorityChanged force a full run when true,
	// bypassing incremental planning entirely.
	ConfigChanged    bool
	AuthorityChanged bool
}

// Plan computes a RunPlan for candidateFiles (already filtered by
// include/exclude globs), consulting vcs when available and falling back
// to content hashing otherwise.
func Plan(fsys afero.Fs, candidateFiles []string, vcs VCS, c *cache.Cache, currentPackageVersions map[string]string, authorityHasPackage func(string) bool, opts Options) (RunPlan, error) {
	plan := RunPlan{BaseRef: opts.BaseRef, GitAvailable: vcs != nil && vcs.Available()}

	forceFull := opts.ConfigChanged || opts.AuthorityChanged || len(c.Entries) == 0
	plan.Mode = ModeIncremental
	if forceFull {
		plan.Mode = ModeFull
	}

	renamedNotMigrated := map[string]bool{}
	if plan.GitAvailable {
		var changed ChangeSet
		if opts.BaseRef != "" {
			diff, err := vcs.Diff(opts.BaseRef)
			if err != nil {
				return RunPlan{}, err
			}
			changed = diff
		}
		wt, err := vcs.UnstagedAndUntracked()
		if err != nil {
			return RunPlan{}, err
		}
		changed.Added = append(changed.Added, wt.Added...)
		changed.Modified = append(changed.Modified, wt.Modified...)
		changed.Renames = append(changed.Renames, wt.Renames...)

		for _, r := range changed.Renames {
			if migrateRename(fsys, c, r) {
				plan.Renames = append(plan.Renames, r)
				plan.Stats.Renamed++
				continue
			}
			// VCS reports this as a rename, but the destination's content
			// no longer matches the source entry's hash (the file was
			// renamed and edited in the same change): the cache entry
			// can't be migrated, so the destination needs fresh analysis.
			renamedNotMigrated[r.To] = true
		}
	}

	for _, path := range candidateFiles {
		if forceFull {
			plan.FilesToAnalyze = append(plan.FilesToAnalyze, FileToAnalyze{Path: path, Reason: reasonForForcedFull(opts)})
			plan.Stats.Analyzed++
			continue
		}

		entry, ok := c.Entries[path]
		if !ok {
			reason := ReasonFileNew
			if renamedNotMigrated[path] {
				reason = ReasonFileRenamed
			}
			plan.FilesToAnalyze = append(plan.FilesToAnalyze, FileToAnalyze{Path: path, Reason: reason})
			plan.Stats.Analyzed++
			continue
		}

		contentHash, err := hashFile(fsys, path)
		if err != nil {
			return RunPlan{}, err
		}

		hasImportedPackages := entry.ImportedPackages != nil
		if cache.Valid(entry, hasImportedPackages, contentHash, opts.AuthorityVersion, opts.RepoContextHash, currentPackageVersions, authorityHasPackage) {
			plan.CachedFiles = append(plan.CachedFiles, CachedFile{Path: path, Findings: entry.Findings})
			plan.Stats.Cached++
			continue
		}

		plan.FilesToAnalyze = append(plan.FilesToAnalyze, FileToAnalyze{Path: path, Reason: invalidationReason(entry, contentHash, opts)})
		plan.Stats.Analyzed++
	}

	return plan, nil
}

func reasonForForcedFull(opts Options) AnalysisReason {
	switch {
	case opts.AuthorityChanged:
		return ReasonAuthorityUpdated
	case opts.ConfigChanged:
		return ReasonConfigChanged
	default:
		return ReasonCacheMiss
	}
}

func invalidationReason(entry cache.FileCacheEntry, contentHash string, opts Options) AnalysisReason {
	if entry.ContentHash != contentHash {
		return ReasonFileChanged
	}
	if entry.AuthorityVersion != opts.AuthorityVersion {
		return ReasonAuthorityUpdated
	}
	return ReasonManifestChanged
}

func hashFile(fsys afero.Fs, path string) (string, error) {
	b, err := afero.ReadFile(fsys, path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// migrateRename applies cache.Migrate when the destination's content
// still matches the source entry's recorded hash, per §4.4's rename
// handling. Returns whether a no-reanalysis migration occurred.
func migrateRename(fsys afero.Fs, c *cache.Cache, r Rename) bool {
	entry, ok := c.Entries[r.From]
	if !ok {
		return false
	}
	h, err := hashFile(fsys, r.To)
	if err != nil || h != entry.ContentHash {
		return false
	}
	cache.Migrate(c.Entries, r.From, r.To)
	return true
}
