// Copyright 2025 Upbound Inc.
// All rights reserved

package repocontext

import "testing"

func baseCtx() *RepoContext {
	return &RepoContext{
		Root:           "/repo",
		PackageManager: "npm",
		Dependencies: map[string]DependencyInfo{
			"react": {ResolvedVersion: "18.2.0", DeclaredRange: "^18.0.0"},
		},
		Frameworks: []DetectedFramework{
			{ID: "react", Name: "React", Version: "18.2.0", Confidence: ConfidenceLockfile},
		},
		PathAliases: map[string]string{"@/*": "./src/*"},
		BaseURL:     "./src",
		JSXMode:     "react-jsx",
	}
}

func TestComputeHashStable(t *testing.T) {
	a := ComputeHash(baseCtx())
	b := ComputeHash(baseCtx())
	if a != b {
		t.Errorf("ComputeHash not stable across identical inputs: %q != %q", a, b)
	}
}

func TestComputeHashOrderIndependent(t *testing.T) {
	ctx1 := baseCtx()
	ctx1.Dependencies["vue"] = DependencyInfo{DeclaredRange: "^3.0.0"}
	ctx1.PathAliases["#lib/*"] = "./lib/*"

	ctx2 := baseCtx()
	ctx2.PathAliases["#lib/*"] = "./lib/*"
	ctx2.Dependencies["vue"] = DependencyInfo{DeclaredRange: "^3.0.0"}

	if ComputeHash(ctx1) != ComputeHash(ctx2) {
		t.Error("ComputeHash depends on map iteration order, should be canonicalized")
	}
}

func TestComputeHashChangesWithData(t *testing.T) {
	a := ComputeHash(baseCtx())

	ctx2 := baseCtx()
	ctx2.Dependencies["react"] = DependencyInfo{ResolvedVersion: "19.0.0", DeclaredRange: "^18.0.0"}
	b := ComputeHash(ctx2)

	if a == b {
		t.Error("ComputeHash did not change when a resolved version changed")
	}
}
