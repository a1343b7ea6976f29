// Copyright 2025 Upbound Inc.
// All rights reserved

// Package analyzer implements the Analyzer (C5): classifying each
// resolved symbol usage against the authority store and assembling
// Findings.
package analyzer

import (
	"fmt"

	"github.com/doxyproj/doxy/internal/authority"
	"github.com/doxyproj/doxy/internal/findings"
	"github.com/doxyproj/doxy/internal/repocontext"
	"github.com/doxyproj/doxy/internal/resolver"
)

const (
	msgUnknownExport  = "%s.%s is not recognized by the authority data for %s; it may be a typo, a very new export, or an uncovered package"
	msgFutureAPI      = "%s.%s was introduced in %s, which is newer than the installed version %s"
	msgRemovedAPI     = "%s.%s was removed in %s"
	msgDeprecatedAPI  = "%s.%s is deprecated since %s: %s"
	msgWrongArity     = "%s.%s expects between %d and %s arguments, got %d"
	msgWrongParam     = "%s.%s does not accept a %q argument"
)

// Analyze classifies every usage site in usages against store, using
// repoCtx to resolve each package's installed version, and returns the
// resulting findings (unsuppressed; suppression is a separate pass via
// the suppression package).
func Analyze(file string, usages []resolver.SymbolUsage, repoCtx *repocontext.RepoContext, store *authority.Store) []findings.Finding {
	var out []findings.Finding

	for _, usage := range usages {
		installed, _ := repoCtx.ResolvedVersionFor(usage.Package)
		resolved := store.GetApiSpec(usage.Package, usage.Export, installed)

		for i, site := range usage.Sites {
			f, ok := classify(file, usage, site, installed, resolved, store.DataVersion(), i == 0)
			if ok {
				out = append(out, f)
			}
		}
	}

	return out
}

// classify applies the ordered rule set of §4.3 to one usage site.
// firstSite gates rules 1-4, which fire once per usage rather than once
// per site.
func classify(file string, usage resolver.SymbolUsage, site resolver.UsageSite, installed string, resolved *authority.ResolvedApiSpec, dataVersion string, firstSite bool) (findings.Finding, bool) {
	loc := findings.Location{File: file, Line: site.Location.Line, Column: site.Location.Column}
	symbol := findings.Symbol{Package: usage.Package, Export: usage.Export, InstalledVersion: installed}
	specKey := usage.Package + "/" + usage.Export
	authRef := findings.AuthorityRef{DataVersion: dataVersion, SpecKey: specKey}

	if resolved == nil {
		if !firstSite {
			return findings.Finding{}, false
		}
		msg := fmt.Sprintf(msgUnknownExport, usage.Package, usage.Export, usage.Package)
		f := findings.NewFinding(findings.KindUnknownExport, loc, symbol, msg, authRef)
		return f, true
	}

	if !resolved.Available && resolved.IsFuture {
		if !firstSite {
			return findings.Finding{}, false
		}
		msg := fmt.Sprintf(msgFutureAPI, usage.Package, usage.Export, minVersion(resolved.Spec.AvailableIn), installed)
		f := findings.NewFinding(findings.KindFutureAPI, loc, symbol, msg, authRef)
		return f, true
	}

	if !resolved.Available {
		if !firstSite {
			return findings.Finding{}, false
		}
		msg := fmt.Sprintf(msgRemovedAPI, usage.Package, usage.Export, removedAt(resolved))
		f := findings.NewFinding(findings.KindRemovedAPI, loc, symbol, msg, authRef)
		f.Fixes = fixesFromDeprecation(resolved.ActiveDeprecation)
		return f, true
	}

	if resolved.ActiveDeprecation != nil {
		if !firstSite {
			return findings.Finding{}, false
		}
		msg := fmt.Sprintf(msgDeprecatedAPI, usage.Package, usage.Export, resolved.ActiveDeprecation.Since, resolved.ActiveDeprecation.Message)
		f := findings.NewFinding(findings.KindDeprecatedAPI, loc, symbol, msg, authRef)
		f.Fixes = fixesFromDeprecation(resolved.ActiveDeprecation)
		return f, true
	}

	if resolved.ActiveSignature != nil && site.ArgCount != nil {
		sig := resolved.ActiveSignature
		argc := *site.ArgCount

		if argc < sig.MinArity || (sig.MaxArity != authority.Unbounded && argc > sig.MaxArity) {
			msg := fmt.Sprintf(msgWrongArity, usage.Package, usage.Export, sig.MinArity, arityUpperBound(sig), argc)
			f := findings.NewFinding(findings.KindWrongArity, loc, symbol, msg, authRef)
			return f, true
		}

		if len(site.ArgNames) > 0 {
			if bad, ok := firstUnknownParam(site.ArgNames, sig.Parameters); ok {
				msg := fmt.Sprintf(msgWrongParam, usage.Package, usage.Export, bad)
				f := findings.NewFinding(findings.KindWrongParam, loc, symbol, msg, authRef)
				return f, true
			}
		}
	}

	return findings.Finding{}, false
}

func fixesFromDeprecation(d *authority.DeprecationEntry) []findings.Fix {
	if d == nil || d.Replacement == nil {
		return nil
	}
	r := d.Replacement
	desc := r.MigrationHint
	if desc == "" {
		desc = fmt.Sprintf("use %s.%s instead", r.Package, r.Export)
	}
	fix := findings.Fix{Description: desc}
	if r.Codemod != nil {
		fix.Codemod = &findings.Codemod{Find: r.Codemod.Find, ReplaceWith: r.Codemod.ReplaceWith}
	}
	return []findings.Fix{fix}
}

func firstUnknownParam(argNames []string, params []authority.Parameter) (string, bool) {
	known := make(map[string]bool, len(params))
	for _, p := range params {
		known[p.Name] = true
	}
	for _, n := range argNames {
		if !known[n] {
			return n, true
		}
	}
	return "", false
}

func arityUpperBound(sig *authority.SignatureSpec) string {
	if sig.MaxArity == authority.Unbounded {
		return "unlimited"
	}
	return fmt.Sprintf("%d", sig.MaxArity)
}

// minVersion extracts the lower bound of an availableIn range string for
// display purposes (e.g. ">=18.0.0" -> "18.0.0").
func minVersion(availableIn string) string {
	for i, r := range availableIn {
		if r >= '0' && r <= '9' {
			return availableIn[i:]
		}
	}
	return availableIn
}

// removedAt returns the version at which the spec was removed, preferring
// the active deprecation's RemovedIn field when present.
func removedAt(resolved *authority.ResolvedApiSpec) string {
	if resolved.ActiveDeprecation != nil && resolved.ActiveDeprecation.RemovedIn != "" {
		return resolved.ActiveDeprecation.RemovedIn
	}
	return "an earlier version"
}
