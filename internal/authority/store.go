// Copyright 2025 Upbound Inc.
// All rights reserved

package authority

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"path"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/afero"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/crossplane/crossplane-runtime/pkg/logging"

	"github.com/doxyproj/doxy/internal/repocontext"
)

const (
	manifestFileName = "manifest.json"

	errReadManifest     = "failed to read authority manifest %q"
	errParseManifest    = "failed to parse authority manifest %q"
	errReadSpecFile     = "failed to read authority spec file %q"
	errParseSpecFile    = "failed to parse authority spec file %q"
	errUnsupportedSchema = "authority data at %q uses unsupported schema version %d"
	errFetchImage       = "failed to fetch authority image %q"
	errExtractImage     = "failed to extract authority image %q"
)

// supportedSchemaVersion is the highest manifest/spec-file schema version
// this store understands.
const supportedSchemaVersion = 1

// Store is a read-only, version-indexed catalog of ApiSpecs, built once per
// run from one or more on-disk authority data roots.
type Store struct {
	specs      map[symbolKey]*ApiSpec
	packages   map[string]bool
	hash       string
	version    string
	log        logging.Logger
}

type symbolKey struct {
	pkg    string
	export string
}

// Option configures a Store load.
type Option func(*loadState)

// WithLogger overrides the default no-op logger used while loading.
func WithLogger(l logging.Logger) Option {
	return func(s *loadState) { s.log = l }
}

type loadState struct {
	log logging.Logger
}

// Load builds a Store from one or more authority data roots, in priority
// order: the first root to define a given (package, export) key wins. Any
// validation failure is fatal, per §4.1's "all load errors are fatal (no
// partial store)". Each root is classified as a plain filesystem path or
// an OCI image reference (repocontext.ParseAuthorityDataSources); image
// sources are pulled and their filesystem flattened into an in-memory
// afero.Fs before being read the same way as a directory root.
func Load(ctx context.Context, fsys afero.Fs, roots []string, opts ...Option) (*Store, error) {
	st := &loadState{log: logging.NewNopLogger()}
	for _, o := range opts {
		o(st)
	}

	sources, err := repocontext.ParseAuthorityDataSources(roots)
	if err != nil {
		return nil, err
	}

	store := &Store{
		specs:    map[symbolKey]*ApiSpec{},
		packages: map[string]bool{},
	}

	hasher := sha256.New()
	for i, src := range sources {
		srcFs, root, err := resolveSourceFs(ctx, fsys, src)
		if err != nil {
			return nil, err
		}

		m, mBytes, err := loadManifest(srcFs, root)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			store.version = m.DataVersion
		}

		hasher.Write(mBytes)

		for _, entry := range m.Packages {
			store.packages[entry.Name] = true

			sf, sfBytes, err := loadSpecFile(srcFs, root, entry.SpecFile)
			if err != nil {
				return nil, err
			}
			hasher.Write(sfBytes)

			for j := range sf.Specs {
				spec := sf.Specs[j]
				key := symbolKey{pkg: spec.Package, export: spec.Export}
				if _, exists := store.specs[key]; exists {
					st.log.Debug("authority key already defined by a higher-priority source, skipping",
						"package", spec.Package, "export", spec.Export, "root", root)
					continue
				}
				store.specs[key] = &spec
			}
		}
	}

	store.hash = hex.EncodeToString(hasher.Sum(nil))
	store.log = st.log
	return store, nil
}

// resolveSourceFs returns the afero.Fs and root path to read a single
// authority source from: fsys/src.Path unchanged for a plain directory
// root, or a freshly pulled-and-flattened in-memory filesystem rooted at
// "/" for an OCI image reference.
func resolveSourceFs(ctx context.Context, fsys afero.Fs, src repocontext.AuthoritySource) (afero.Fs, string, error) {
	if src.Image == nil {
		return fsys, src.Path, nil
	}

	img, err := repocontext.FetchImage(ctx, src.Image)
	if err != nil {
		return nil, "", errors.Wrapf(err, errFetchImage, src.Image.Name())
	}
	imgFs, err := repocontext.ExtractImageFS(img)
	if err != nil {
		return nil, "", errors.Wrapf(err, errExtractImage, src.Image.Name())
	}
	return imgFs, "/", nil
}

func loadManifest(fsys afero.Fs, root string) (*manifest, []byte, error) {
	p := path.Join(root, manifestFileName)
	b, err := afero.ReadFile(fsys, p)
	if err != nil {
		return nil, nil, errors.Wrapf(err, errReadManifest, p)
	}
	var m manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, nil, errors.Wrapf(err, errParseManifest, p)
	}
	if m.SchemaVersion < 1 || m.SchemaVersion > supportedSchemaVersion {
		return nil, nil, errors.Errorf(errUnsupportedSchema, p, m.SchemaVersion)
	}
	return &m, b, nil
}

func loadSpecFile(fsys afero.Fs, root, specFile string) (*specFile, []byte, error) {
	p := path.Join(root, specFile)
	b, err := afero.ReadFile(fsys, p)
	if err != nil {
		// YAML authority packs are a convenience for hand-maintained data;
		// fall back only when the canonical JSON file is absent.
		if yb, yerr := afero.ReadFile(fsys, yamlSibling(p)); yerr == nil {
			sf, perr := parseSpecFileYAML(yb)
			if perr != nil {
				return nil, nil, errors.Wrapf(perr, errParseSpecFile, yamlSibling(p))
			}
			return sf, yb, nil
		}
		return nil, nil, errors.Wrapf(err, errReadSpecFile, p)
	}
	var sf specFile
	if err := json.Unmarshal(b, &sf); err != nil {
		return nil, nil, errors.Wrapf(err, errParseSpecFile, p)
	}
	if sf.SchemaVersion < 1 || sf.SchemaVersion > supportedSchemaVersion {
		return nil, nil, errors.Errorf(errUnsupportedSchema, p, sf.SchemaVersion)
	}
	return &sf, b, nil
}

// ContentHash returns the SHA-256 hash over the manifest bytes followed by
// each referenced data file's bytes, in load order, across every root.
func (s *Store) ContentHash() string {
	return s.hash
}

// DataVersion returns the data version declared by the highest-priority
// authority root.
func (s *Store) DataVersion() string {
	return s.version
}

// CoveredPackages returns the sorted list of package names the store has
// data for.
func (s *Store) CoveredPackages() []string {
	names := make([]string, 0, len(s.packages))
	for name := range s.packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasPackage reports whether the store carries any data for name.
func (s *Store) HasPackage(name string) bool {
	return s.packages[name]
}

// GetApiSpec resolves (pkg, export) at installedVersion. It returns nil if
// the symbol is unknown to the store; it never errors, since "unknown" is
// a first-class outcome (§4.1).
func (s *Store) GetApiSpec(pkg, export, installedVersion string) *ResolvedApiSpec {
	spec, ok := s.specs[symbolKey{pkg: pkg, export: export}]
	if !ok {
		return nil
	}
	return resolve(spec, installedVersion)
}

func resolve(spec *ApiSpec, installedVersion string) *ResolvedApiSpec {
	v, err := coerce(installedVersion)
	if err != nil {
		return &ResolvedApiSpec{Spec: spec}
	}

	availRange, err := newRange(spec.AvailableIn)
	if err != nil {
		return &ResolvedApiSpec{Spec: spec}
	}

	available := availRange.contains(v)
	isFuture := !available && availRange.below(v)

	return &ResolvedApiSpec{
		Spec:              spec,
		Available:         available,
		IsFuture:          isFuture,
		ActiveSignature:   activeSignature(spec.Signatures, v),
		ActiveDeprecation: activeDeprecation(spec.Deprecations, v),
	}
}

func activeSignature(sigs []SignatureSpec, v *semver.Version) *SignatureSpec {
	var best *SignatureSpec
	var bestSince *semver.Version
	for i := range sigs {
		sig := &sigs[i]
		since, err := coerce(sig.Since)
		if err != nil || since.GreaterThan(v) {
			continue
		}
		if sig.Until != "" {
			until, err := coerce(sig.Until)
			if err == nil && !v.LessThan(until) {
				continue
			}
		}
		if best == nil || since.GreaterThan(bestSince) || since.Equal(bestSince) {
			best = sig
			bestSince = since
		}
	}
	return best
}

func activeDeprecation(deps []DeprecationEntry, v *semver.Version) *DeprecationEntry {
	var best *DeprecationEntry
	var bestSince *semver.Version
	for i := range deps {
		dep := &deps[i]
		since, err := coerce(dep.Since)
		if err != nil || since.GreaterThan(v) {
			continue
		}
		if best == nil || since.GreaterThan(bestSince) || since.Equal(bestSince) {
			best = dep
			bestSince = since
		}
	}
	return best
}
