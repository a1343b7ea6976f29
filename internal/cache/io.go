// Copyright 2025 Upbound Inc.
// All rights reserved

package cache

import (
	"encoding/json"

	"github.com/spf13/afero"

	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/doxyproj/doxy/internal/filesystem"
)

const (
	errReadCache  = "failed to read cache file"
	errParseCache = "failed to parse cache file"
	errWriteCache = "failed to write cache file"
)

// knownEntryFields lists the JSON keys FileCacheEntry's struct tags
// declare, so UnmarshalJSON can route anything else into extra.
var knownEntryFields = map[string]bool{
	"filePath": true, "contentHash": true, "authorityVersion": true,
	"repoContextHash": true, "importedPackages": true, "packageVersions": true,
	"unresolvedImports": true, "findings": true, "analyzedAt": true,
}

// MarshalJSON emits the known fields plus any preserved unrecognized
// keys from a prior version of doxy.
func (e FileCacheEntry) MarshalJSON() ([]byte, error) {
	type alias FileCacheEntry
	b, err := json.Marshal(alias(e))
	if err != nil {
		return nil, err
	}

	if len(e.extra) == 0 {
		return b, nil
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	for k, v := range e.extra {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		m[k] = raw
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes the known fields and stashes anything else in
// extra for round-tripping.
func (e *FileCacheEntry) UnmarshalJSON(b []byte) error {
	type alias FileCacheEntry
	if err := json.Unmarshal(b, (*alias)(e)); err != nil {
		return err
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	for k, raw := range m {
		if knownEntryFields[k] {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		if e.extra == nil {
			e.extra = map[string]any{}
		}
		e.extra[k] = v
	}
	return nil
}

// Load reads the cache file at path. A missing file yields an empty
// Cache, not an error, since the first run of a project has none.
func Load(fsys afero.Fs, path string) (*Cache, error) {
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return nil, errors.Wrap(err, errReadCache)
	}
	if !exists {
		return &Cache{Entries: map[string]FileCacheEntry{}}, nil
	}

	b, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Wrap(err, errReadCache)
	}

	var c Cache
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrap(err, errParseCache)
	}
	if c.Entries == nil {
		c.Entries = map[string]FileCacheEntry{}
	}
	return &c, nil
}

// Save writes c to path atomically.
func Save(fsys afero.Fs, path string, c *Cache) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, errWriteCache)
	}
	if err := filesystem.AtomicWriteFile(fsys, path, b, 0o644); err != nil {
		return errors.Wrap(err, errWriteCache)
	}
	return nil
}
