// Copyright 2025 Upbound Inc.
// All rights reserved

// Package resolver implements the Import Resolver (C4): it maps a file's
// Normalized AST to canonical (package, export) symbol usages.
package resolver

import (
	"strings"

	astpkg "github.com/doxyproj/doxy/internal/ast"
)

// ImportKind classifies how a binding entered scope.
type ImportKind string

const (
	ImportKindNamed     ImportKind = "named"
	ImportKindDefault   ImportKind = "default"
	ImportKindNamespace ImportKind = "namespace"
	ImportKindDynamic   ImportKind = "dynamic"
)

// UsageSite is one location at which a resolved symbol was used.
type UsageSite struct {
	Location astpkg.Location
	ArgCount *int
	ArgNames []string
}

// SymbolUsage aggregates every site at which (Package, Export) was used in
// one file.
type SymbolUsage struct {
	Package    string
	Export     string
	ImportKind ImportKind
	Sites      []UsageSite
}

// Result is the output of resolving one file's imports and call sites.
type Result struct {
	Usages            []SymbolUsage
	ImportedPackages  []string
	UnresolvedImports []string
}

// PathAliases maps an import-source prefix to a relative path, applied as
// a pre-pass over import sources before package-name extraction.
type PathAliases map[string]string

// ResolveImports implements §4.2's resolveImports contract. If tracked is
// nil, every non-relative package is tracked.
func ResolveImports(file *astpkg.File, tracked map[string]bool, aliases PathAliases) Result {
	type binding struct {
		pkg        string
		export     string
		kind       ImportKind
		isDefault  bool
	}

	localBindings := map[string]binding{}
	namespaceLike := map[string]string{} // local -> pkg
	importedPackages := map[string]bool{}
	var unresolved []string

	for _, imp := range file.Imports {
		if imp.IsTypeOnly {
			continue
		}

		source := applyAliases(imp.Source, aliases)
		pkg := extractPackage(source)
		if pkg == "" {
			continue
		}

		if tracked != nil && !tracked[pkg] {
			unresolved = append(unresolved, source)
			continue
		}
		importedPackages[pkg] = true

		for _, spec := range imp.Specifiers {
			if spec.IsTypeOnly {
				continue
			}
			localBindings[spec.Local] = binding{pkg: pkg, export: spec.Imported, kind: ImportKindNamed}
		}
		if imp.DefaultLocal != "" {
			localBindings[imp.DefaultLocal] = binding{pkg: pkg, export: "default", kind: ImportKindDefault, isDefault: true}
			namespaceLike[imp.DefaultLocal] = pkg
		}
		if imp.NamespaceLocal != "" {
			localBindings[imp.NamespaceLocal] = binding{pkg: pkg, export: "default", kind: ImportKindNamespace, isDefault: true}
			namespaceLike[imp.NamespaceLocal] = pkg
		}
	}

	usages := map[[2]string]*SymbolUsage{}
	order := [][2]string{}
	addSite := func(pkg, export string, kind ImportKind, site UsageSite) {
		key := [2]string{pkg, export}
		u, ok := usages[key]
		if !ok {
			u = &SymbolUsage{Package: pkg, Export: export, ImportKind: kind}
			usages[key] = u
			order = append(order, key)
		}
		u.Sites = append(u.Sites, site)
	}

	calledLocals := map[string]bool{}
	for _, call := range file.Calls {
		callee := call.Callee
		argCount := call.ArgCount
		site := UsageSite{Location: call.Location, ArgCount: &argCount, ArgNames: call.ArgNames}

		if !strings.Contains(callee, ".") {
			b, ok := localBindings[callee]
			if !ok || b.isDefault {
				continue
			}
			addSite(b.pkg, b.export, b.kind, site)
			calledLocals[callee] = true
			continue
		}

		head, tail, _ := strings.Cut(callee, ".")
		if pkg, ok := namespaceLike[head]; ok {
			b := localBindings[head]
			addSite(pkg, tail, b.kind, site)
			calledLocals[head] = true
		}
	}

	// JSX element uses resolve exactly like calls: a bare tag name looks
	// up a non-default local binding, a dotted tag looks up a namespace
	// member. A tag backed by a default import (e.g. `<Button/>` from
	// `import Button from 'lib'`) is not resolved here, mirroring the
	// same bare-identifier restriction call resolution applies above;
	// such usage is still tracked via the dotted namespace-member form.
	for _, el := range file.JSXElements {
		tag := el.TagName
		argCount := len(el.Attributes)
		site := UsageSite{Location: el.Location, ArgCount: &argCount, ArgNames: el.Attributes}

		if !strings.Contains(tag, ".") {
			b, ok := localBindings[tag]
			if !ok || b.isDefault {
				continue
			}
			addSite(b.pkg, b.export, b.kind, site)
			calledLocals[tag] = true
			continue
		}

		head, tail, _ := strings.Cut(tag, ".")
		if pkg, ok := namespaceLike[head]; ok {
			b := localBindings[head]
			addSite(pkg, tail, b.kind, site)
			calledLocals[head] = true
		}
	}

	// Import-only usages: named bindings with no call site still produce
	// one usage at the import location.
	for local, b := range localBindings {
		if b.isDefault || calledLocals[local] {
			continue
		}
		key := [2]string{b.pkg, b.export}
		if _, ok := usages[key]; ok {
			continue
		}
		loc := importLocation(file, local)
		addSite(b.pkg, b.export, b.kind, UsageSite{Location: loc})
	}

	res := Result{UnresolvedImports: unresolved}
	for _, key := range order {
		res.Usages = append(res.Usages, *usages[key])
	}
	for pkg := range importedPackages {
		res.ImportedPackages = append(res.ImportedPackages, pkg)
	}
	return res
}

// extractPackage implements §4.2's package-name extraction rule.
func extractPackage(source string) string {
	if strings.HasPrefix(source, ".") || strings.HasPrefix(source, "/") {
		return ""
	}
	parts := strings.Split(source, "/")
	if strings.HasPrefix(source, "@") {
		if len(parts) >= 2 {
			return parts[0] + "/" + parts[1]
		}
		return parts[0]
	}
	return parts[0]
}

// applyAliases rewrites a user-supplied path-alias prefix before package
// extraction, e.g. "@/components/Button" -> "./src/components/Button".
func applyAliases(source string, aliases PathAliases) string {
	for prefix, target := range aliases {
		if rest, ok := strings.CutPrefix(source, prefix); ok {
			return target + rest
		}
	}
	return source
}

func importLocation(file *astpkg.File, local string) astpkg.Location {
	for _, imp := range file.Imports {
		for _, spec := range imp.Specifiers {
			if spec.Local == local {
				return imp.Location
			}
		}
		if imp.DefaultLocal == local || imp.NamespaceLocal == local {
			return imp.Location
		}
	}
	return astpkg.Location{}
}
