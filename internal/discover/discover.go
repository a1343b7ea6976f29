// Copyright 2025 Upbound Inc.
// All rights reserved

// Package discover walks a project tree to produce the candidate file
// list a run's Include/Exclude globs (§6) select from, skipping the
// directories no package ecosystem ever wants analyzed.
package discover

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
)

const errWalk = "failed to walk project tree"

// skipDirs never contribute candidate files, regardless of Include.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	".doxy":        true,
	"dist":         true,
	"build":        true,
}

// Files returns every path under root (relative to root) matching at
// least one of include and none of exclude, walked in lexical order.
func Files(fsys afero.Fs, root string, include, exclude []string) ([]string, error) {
	var out []string

	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}

		if !matchesAny(include, rel, info.Name()) {
			return nil
		}
		if matchesAny(exclude, rel, info.Name()) {
			return nil
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errWalk)
	}
	return out, nil
}

func matchesAny(patterns []string, rel, base string) bool {
	for _, p := range patterns {
		if ok, err := filepath.Match(p, base); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(p, rel); err == nil && ok {
			return true
		}
		if ok, _ := doublestarLikeMatch(p, rel); ok {
			return true
		}
	}
	return false
}

// doublestarLikeMatch gives "**/*.ext"-style patterns (common in doxy
// configs, absent from filepath.Match's own syntax) a reasonable
// interpretation: treat a leading "**/" as "match at any depth".
func doublestarLikeMatch(pattern, rel string) (bool, error) {
	const anyDepth = "**/"
	if len(pattern) <= len(anyDepth) || pattern[:len(anyDepth)] != anyDepth {
		return false, nil
	}
	suffix := pattern[len(anyDepth):]
	if ok, err := filepath.Match(suffix, filepath.Base(rel)); err == nil && ok {
		return true, nil
	}
	return filepath.Match(suffix, rel)
}
