// Copyright 2025 Upbound Inc.
// All rights reserved

package repocontext

import (
	"github.com/crossplane/crossplane-runtime/pkg/logging"
)

// ManifestReader reads a project manifest (e.g. package.json) and returns
// the declared dependency ranges.
type ManifestReader interface {
	ReadManifest(root string) (dependencies map[string]string, err error)
}

// LockfileReader reads a project's dependency lockfile and returns exact
// resolved versions plus the detected package manager. A missing lockfile
// is a soft condition (§7): implementations should return an empty map
// and no error, not fail the run.
type LockfileReader interface {
	ReadLockfile(root string) (resolved map[string]string, packageManager string, err error)
}

// TypeCompilerOptionsReader reads the subset of type-compiler
// configuration (e.g. tsconfig.json) doxy cares about: path aliases, base
// URL, and JSX mode.
type TypeCompilerOptionsReader interface {
	ReadTypeCompilerOptions(root string) (pathAliases map[string]string, baseURL, jsxMode string, err error)
}

// FrameworkDetector maps a dependency set to the frameworks doxy
// recognizes among them.
type FrameworkDetector interface {
	DetectFrameworks(deps map[string]DependencyInfo, overrides map[string]string) []DetectedFramework
}

// Builder assembles a RepoContext for one run.
type Builder struct {
	manifest   ManifestReader
	lockfile   LockfileReader
	typeOpts   TypeCompilerOptionsReader
	frameworks FrameworkDetector
	log        logging.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger overrides the default no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(b *Builder) { b.log = l }
}

// WithManifestReader overrides the default manifest reader.
func WithManifestReader(r ManifestReader) Option {
	return func(b *Builder) { b.manifest = r }
}

// WithLockfileReader overrides the default lockfile reader.
func WithLockfileReader(r LockfileReader) Option {
	return func(b *Builder) { b.lockfile = r }
}

// WithTypeCompilerOptionsReader overrides the default type-compiler
// options reader.
func WithTypeCompilerOptionsReader(r TypeCompilerOptionsReader) Option {
	return func(b *Builder) { b.typeOpts = r }
}

// WithFrameworkDetector overrides the default framework detector.
func WithFrameworkDetector(d FrameworkDetector) Option {
	return func(b *Builder) { b.frameworks = d }
}

// NewBuilder constructs a Builder. Callers must supply at least a
// ManifestReader and LockfileReader appropriate to their package
// ecosystem; a default KnownFrameworkDetector is used if none is given.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		log:        logging.NewNopLogger(),
		frameworks: KnownFrameworkDetector{},
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build assembles a RepoContext for root, applying frameworkOverrides
// (the config's `frameworks` map, bypassing detection for named
// frameworks) and pathAliasOverrides (the config's `pathAliases` map,
// merged over anything read from the type compiler's own config).
func (b *Builder) Build(root string, frameworkOverrides, pathAliasOverrides map[string]string) (*RepoContext, error) {
	ctx := &RepoContext{
		Root:         root,
		Dependencies: map[string]DependencyInfo{},
		PathAliases:  map[string]string{},
	}

	declared := map[string]string{}
	if b.manifest != nil {
		d, err := b.manifest.ReadManifest(root)
		if err != nil {
			return nil, err
		}
		declared = d
	}

	resolved := map[string]string{}
	if b.lockfile != nil {
		r, pm, err := b.lockfile.ReadLockfile(root)
		if err != nil {
			return nil, err
		}
		resolved = r
		ctx.PackageManager = pm
	}

	for pkg, rng := range declared {
		ctx.Dependencies[pkg] = DependencyInfo{DeclaredRange: rng, ResolvedVersion: resolved[pkg]}
	}
	for pkg, v := range resolved {
		if _, ok := ctx.Dependencies[pkg]; !ok {
			ctx.Dependencies[pkg] = DependencyInfo{ResolvedVersion: v}
		}
	}

	if b.typeOpts != nil {
		aliases, baseURL, jsxMode, err := b.typeOpts.ReadTypeCompilerOptions(root)
		if err != nil {
			return nil, err
		}
		for k, v := range aliases {
			ctx.PathAliases[k] = v
		}
		ctx.BaseURL = baseURL
		ctx.JSXMode = jsxMode
	}
	for k, v := range pathAliasOverrides {
		ctx.PathAliases[k] = v
	}

	ctx.Frameworks = b.frameworks.DetectFrameworks(ctx.Dependencies, frameworkOverrides)

	ctx.ContextHash = ComputeHash(ctx)
	return ctx, nil
}
