// Copyright 2025 Upbound Inc.
// All rights reserved

// Package cache implements the on-disk analysis cache: one entry per
// source file, keyed by path, letting the Incremental Engine skip
// re-analyzing files whose inputs have not changed.
package cache

import "github.com/doxyproj/doxy/internal/findings"

const (
	// Dir and File locate the cache relative to the project root.
	Dir  = ".doxy"
	File = "cache.json"
)

// FileCacheEntry records everything needed to decide, on a later run,
// whether a file can be skipped and to reproduce its findings if so.
type FileCacheEntry struct {
	FilePath           string            `json:"filePath"`
	ContentHash        string            `json:"contentHash"`
	AuthorityVersion   string            `json:"authorityVersion"`
	RepoContextHash    string            `json:"repoContextHash"`
	ImportedPackages   []string          `json:"importedPackages,omitempty"`
	PackageVersions    map[string]string `json:"packageVersions,omitempty"`
	UnresolvedImports  []string          `json:"unresolvedImports,omitempty"`
	Findings           []findings.Finding `json:"findings,omitempty"`
	AnalyzedAt         string            `json:"analyzedAt"`

	// extra preserves any additional keys present on disk that this
	// version of doxy does not know about, so a round-trip rewrite never
	// silently drops forward-compatible data.
	extra map[string]any
}

// Cache is the on-disk format at .doxy/cache.json.
type Cache struct {
	Entries     map[string]FileCacheEntry `json:"entries"`
	CreatedAt   string                    `json:"createdAt"`
	DoxyVersion string                    `json:"doxyVersion"`
}
