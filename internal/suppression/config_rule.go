// Copyright 2025 Upbound Inc.
// All rights reserved

package suppression

import (
	"path/filepath"
	"strings"

	"github.com/doxyproj/doxy/internal/config"
)

// MatchConfigRule returns the first rule in rules whose package, export,
// kind and paths constraints (each optional; unset constraints always
// match) are all satisfied, or nil if none match.
func MatchConfigRule(rules []config.SuppressionRule, pkg, export, kind, path string) *config.SuppressionRule {
	for i := range rules {
		r := &rules[i]
		if r.Package != "" && !globOrEqual(r.Package, pkg) {
			continue
		}
		if r.Export != "" && !globOrEqual(r.Export, export) {
			continue
		}
		if r.Kind != "" && r.Kind != wildcardKind && r.Kind != kind {
			continue
		}
		if len(r.Paths) > 0 && !anyPathMatches(r.Paths, path) {
			continue
		}
		return r
	}
	return nil
}

// globOrEqual reports whether s matches pattern, treating pattern as a
// glob when it contains a wildcard character and as a literal otherwise.
func globOrEqual(pattern, s string) bool {
	if pattern == s {
		return true
	}
	ok, err := filepath.Match(pattern, s)
	return err == nil && ok
}

func anyPathMatches(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, err := filepath.Match(p, path); err == nil && ok {
			return true
		}
		// A trailing "/**" matches anything beneath the directories its
		// prefix matches, at any depth.
		if prefix, found := strings.CutSuffix(p, "/**"); found {
			depth := strings.Count(prefix, "/") + 1
			if segs := strings.Split(path, "/"); len(segs) > depth {
				if ok, err := filepath.Match(prefix, strings.Join(segs[:depth], "/")); err == nil && ok {
					return true
				}
			}
		}
	}
	return false
}
