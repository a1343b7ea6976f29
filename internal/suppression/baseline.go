// Copyright 2025 Upbound Inc.
// All rights reserved

package suppression

import (
	"encoding/json"

	"github.com/spf13/afero"

	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/doxyproj/doxy/internal/filesystem"
)

const (
	// BaselineDir and BaselineFile locate the baseline relative to the
	// project root.
	BaselineDir  = ".doxy"
	BaselineFile = "baseline.json"

	errReadBaseline  = "failed to read baseline file"
	errParseBaseline = "failed to parse baseline file"
	errWriteBaseline = "failed to write baseline file"
)

// Baseline is a frozen set of findings accepted at some point in time,
// excluded from future runs' output and exit-code evaluation until the
// underlying code changes enough that the finding's longId no longer
// matches.
type Baseline struct {
	FindingIDs []string `json:"findingIds"`
	CreatedAt  string   `json:"createdAt"`
	DoxyVersion string  `json:"doxyVersion"`
}

// Contains reports whether longID was accepted into the baseline.
func (b *Baseline) Contains(longID string) bool {
	if b == nil {
		return false
	}
	for _, id := range b.FindingIDs {
		if id == longID {
			return true
		}
	}
	return false
}

// LoadBaseline reads the baseline file at path. A missing file is not an
// error: it returns (nil, nil), meaning no baseline is active.
func LoadBaseline(fsys afero.Fs, path string) (*Baseline, error) {
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return nil, errors.Wrap(err, errReadBaseline)
	}
	if !exists {
		return nil, nil
	}

	b, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Wrap(err, errReadBaseline)
	}

	var out Baseline
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, errors.Wrap(err, errParseBaseline)
	}
	return &out, nil
}

// SaveBaseline writes b to path, atomically.
func SaveBaseline(fsys afero.Fs, path string, b *Baseline) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return errors.Wrap(err, errWriteBaseline)
	}
	if err := filesystem.AtomicWriteFile(fsys, path, data, 0o644); err != nil {
		return errors.Wrap(err, errWriteBaseline)
	}
	return nil
}

// NewBaseline builds a Baseline from a set of accepted longIds, sorted
// for deterministic on-disk output by the caller before persisting via
// SaveBaseline (findings.Sort operates on Finding values, not bare ids,
// so callers typically derive longIDs from an already-sorted finding
// slice).
func NewBaseline(longIDs []string, createdAt, doxyVersion string) *Baseline {
	return &Baseline{FindingIDs: longIDs, CreatedAt: createdAt, DoxyVersion: doxyVersion}
}
