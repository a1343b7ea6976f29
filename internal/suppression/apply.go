// Copyright 2025 Upbound Inc.
// All rights reserved

package suppression

import "github.com/doxyproj/doxy/internal/findings"

// Apply checks f against s in precedence order (inline, then config, then
// baseline) and returns a copy of f with Suppressed set, or f unchanged
// if nothing matches. Only the first matching source is recorded, per
// §4.3.
func Apply(s *Set, f findings.Finding) findings.Finding {
	if d := MatchInline(s.Inline[f.Location.File], f.Location.Line, string(f.Kind)); d != nil {
		f.Suppressed = &findings.Suppressed{Source: "inline", Reason: d.Reason}
		return f
	}

	if r := MatchConfigRule(s.Config, f.Symbol.Package, f.Symbol.Export, string(f.Kind), f.Location.File); r != nil {
		f.Suppressed = &findings.Suppressed{Source: "config", Reason: r.Reason}
		return f
	}

	if s.Baseline.Contains(f.LongID) {
		f.Suppressed = &findings.Suppressed{Source: "baseline"}
		return f
	}

	return f
}

// MissingReasons returns every inline directive across files that has no
// reason set. Used to implement requireSuppressionReason, which promotes
// these to a configuration error at run start rather than at parse time.
func MissingReasons(byFile map[string][]Inline) []Inline {
	var out []Inline
	for _, directives := range byFile {
		for _, d := range directives {
			if d.Reason == "" {
				out = append(out, d)
			}
		}
	}
	return out
}
