// Copyright 2025 Upbound Inc.
// All rights reserved

package repocontext

import "sort"

// knownFramework is one entry in the built-in framework registry: a
// framework is recognized by the presence of its anchor package among
// the project's dependencies.
type knownFramework struct {
	id, name, anchorPackage string
}

var knownFrameworks = []knownFramework{
	{id: "react", name: "React", anchorPackage: "react"},
	{id: "vue", name: "Vue", anchorPackage: "vue"},
	{id: "angular", name: "Angular", anchorPackage: "@angular/core"},
	{id: "svelte", name: "Svelte", anchorPackage: "svelte"},
}

// KnownFrameworkDetector detects frameworks from a closed registry of
// well-known anchor packages. Per §9's polymorphism note, variants are
// closed at start-up; a consumer needing another framework registers its
// own FrameworkDetector rather than extending this one at runtime.
type KnownFrameworkDetector struct{}

// DetectFrameworks implements FrameworkDetector.
func (KnownFrameworkDetector) DetectFrameworks(deps map[string]DependencyInfo, overrides map[string]string) []DetectedFramework {
	var out []DetectedFramework

	for _, kf := range knownFrameworks {
		if override, ok := overrides[kf.id]; ok {
			out = append(out, DetectedFramework{ID: kf.id, Name: kf.name, Version: override, Confidence: ConfidenceManifest})
			continue
		}

		dep, ok := deps[kf.anchorPackage]
		if !ok {
			continue
		}

		switch {
		case dep.HasResolvedVersion():
			out = append(out, DetectedFramework{ID: kf.id, Name: kf.name, Version: dep.ResolvedVersion, Confidence: ConfidenceLockfile})
		case dep.DeclaredRange != "":
			out = append(out, DetectedFramework{ID: kf.id, Name: kf.name, Version: dep.DeclaredRange, Confidence: ConfidenceInferred})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
