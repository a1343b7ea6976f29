// Copyright 2025 Upbound Inc.
// All rights reserved

package resolver

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	astpkg "github.com/doxyproj/doxy/internal/ast"
)

func parse(t *testing.T, src string) *astpkg.File {
	t.Helper()
	f, err := astpkg.NewReferenceParser().Parse("a.tsx", []byte(src))
	if err != nil {
		t.Fatalf("Parse(...): unexpected error: %v", err)
	}
	return f
}

func TestResolveImportsNamedCalls(t *testing.T) {
	src := "import { useState, useEffect } from 'react';\n" +
		"useState(0);\n"
	f := parse(t, src)

	res := ResolveImports(f, nil, nil)

	if diff := cmp.Diff([]string{"react"}, res.ImportedPackages); diff != "" {
		t.Errorf("ResolveImports(...).ImportedPackages: -want, +got:\n%s", diff)
	}

	if len(res.Usages) != 2 {
		t.Fatalf("ResolveImports(...).Usages: got %d, want 2 (useState called, useEffect import-only): %+v", len(res.Usages), res.Usages)
	}

	var useState, useEffect *SymbolUsage
	for i := range res.Usages {
		switch res.Usages[i].Export {
		case "useState":
			useState = &res.Usages[i]
		case "useEffect":
			useEffect = &res.Usages[i]
		}
	}
	if useState == nil || len(useState.Sites) != 1 || useState.Sites[0].ArgCount == nil || *useState.Sites[0].ArgCount != 1 {
		t.Errorf("ResolveImports(...): useState usage: got %+v, want 1 site with argCount=1", useState)
	}
	if useEffect == nil || len(useEffect.Sites) != 1 {
		t.Errorf("ResolveImports(...): useEffect usage: got %+v, want 1 import-only site", useEffect)
	}
}

func TestResolveImportsDefaultAsNamespace(t *testing.T) {
	src := "import React from 'react';\n" +
		"React.createElement('div');\n"
	f := parse(t, src)

	res := ResolveImports(f, nil, nil)

	if len(res.Usages) != 1 {
		t.Fatalf("ResolveImports(...).Usages: got %d, want 1: %+v", len(res.Usages), res.Usages)
	}
	u := res.Usages[0]
	if diff := cmp.Diff("createElement", u.Export); diff != "" {
		t.Errorf("ResolveImports(...): -want export, +got export:\n%s", diff)
	}
	if diff := cmp.Diff(ImportKindDefault, u.ImportKind); diff != "" {
		t.Errorf("ResolveImports(...): -want kind, +got kind:\n%s", diff)
	}
}

func TestResolveImportsRelativeSkipped(t *testing.T) {
	f := parse(t, "import { Foo } from './Foo';\nFoo();\n")
	res := ResolveImports(f, nil, nil)
	if len(res.Usages) != 0 {
		t.Errorf("ResolveImports(...).Usages: got %d, want 0 for a relative import", len(res.Usages))
	}
}

func TestResolveImportsTrackedFilter(t *testing.T) {
	f := parse(t, "import { useState } from 'react';\nimport { other } from 'some-lib';\n")
	res := ResolveImports(f, map[string]bool{"react": true}, nil)

	if diff := cmp.Diff([]string{"react"}, res.ImportedPackages); diff != "" {
		t.Errorf("ResolveImports(...).ImportedPackages: -want, +got:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"some-lib"}, res.UnresolvedImports); diff != "" {
		t.Errorf("ResolveImports(...).UnresolvedImports: -want, +got:\n%s", diff)
	}
}

func TestResolveImportsScopedPackage(t *testing.T) {
	f := parse(t, "import { thing } from '@scope/pkg/subpath';\nthing();\n")
	res := ResolveImports(f, nil, nil)
	if diff := cmp.Diff([]string{"@scope/pkg"}, res.ImportedPackages); diff != "" {
		t.Errorf("ResolveImports(...).ImportedPackages: -want, +got:\n%s", diff)
	}
	if len(res.Usages) != 1 || res.Usages[0].Package != "@scope/pkg" {
		t.Errorf("ResolveImports(...).Usages: got %+v, want package @scope/pkg", res.Usages)
	}
}

func TestResolveImportsPathAliases(t *testing.T) {
	f := parse(t, "import { useState } from '@/react-shim';\n")
	res := ResolveImports(f, nil, PathAliases{"@/react-shim": "react"})
	if diff := cmp.Diff([]string{"react"}, res.ImportedPackages, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("ResolveImports(...).ImportedPackages: -want, +got:\n%s", diff)
	}
}

func TestResolveImportsNamedJSXElement(t *testing.T) {
	f := parse(t, "import { Button } from 'ui-lib';\nconst el = <Button label=\"go\" />;\n")
	res := ResolveImports(f, nil, nil)

	if len(res.Usages) != 1 {
		t.Fatalf("ResolveImports(...).Usages: got %d, want 1: %+v", len(res.Usages), res.Usages)
	}
	u := res.Usages[0]
	if diff := cmp.Diff("Button", u.Export); diff != "" {
		t.Errorf("ResolveImports(...): -want export, +got export:\n%s", diff)
	}
	if len(u.Sites) != 1 || len(u.Sites[0].ArgNames) != 1 || u.Sites[0].ArgNames[0] != "label" {
		t.Errorf("ResolveImports(...): site: got %+v, want one site with ArgNames=[label]", u.Sites)
	}
}

func TestResolveImportsNamespacedJSXElement(t *testing.T) {
	f := parse(t, "import * as Lib from 'ui-lib';\nconst el = <Lib.Card title=\"x\" />;\n")
	res := ResolveImports(f, nil, nil)

	if len(res.Usages) != 1 {
		t.Fatalf("ResolveImports(...).Usages: got %d, want 1: %+v", len(res.Usages), res.Usages)
	}
	u := res.Usages[0]
	if diff := cmp.Diff("Card", u.Export); diff != "" {
		t.Errorf("ResolveImports(...): -want export, +got export:\n%s", diff)
	}
	if diff := cmp.Diff("ui-lib", u.Package); diff != "" {
		t.Errorf("ResolveImports(...): -want package, +got package:\n%s", diff)
	}
}

func TestResolveImportsDefaultJSXElementNotResolved(t *testing.T) {
	f := parse(t, "import Button from 'ui-lib';\nconst el = <Button />;\n")
	res := ResolveImports(f, nil, nil)
	if len(res.Usages) != 0 {
		t.Errorf("ResolveImports(...).Usages: got %+v, want 0 (default-imported tag mirrors bare-call restriction)", res.Usages)
	}
}
