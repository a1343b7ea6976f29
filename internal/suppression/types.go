// Copyright 2025 Upbound Inc.
// All rights reserved

// Package suppression implements the Suppression Engine (C6): parsing
// inline directive comments, matching config-level suppression rules, and
// loading/saving the on-disk baseline.
package suppression

import (
	"github.com/doxyproj/doxy/internal/config"
)

// wildcardKind is the inline/config rule wildcard matching every kind.
const wildcardKind = "*"

// Inline is one parsed inline suppression directive, covering the closed
// line range [StartLine, EndLine].
type Inline struct {
	Kind      string
	Reason    string
	StartLine int
	EndLine   int
}

// contains reports whether line is within the directive's range.
func (s Inline) contains(line int) bool {
	return line >= s.StartLine && line <= s.EndLine
}

// Set is the full collection of active suppressions for one run: inline
// directives already parsed per file, config rules, and a loaded baseline.
type Set struct {
	Inline   map[string][]Inline // keyed by file path
	Config   []config.SuppressionRule
	Baseline *Baseline
}
